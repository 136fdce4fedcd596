// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/ezrec/narvie/emulator"
	"github.com/ezrec/narvie/port"
	"github.com/ezrec/narvie/repl"
	"github.com/ezrec/narvie/translate"
)

func main() {
	var config string
	var tcp int
	var simulate bool
	var baud int
	var assembleOnly bool
	var history string
	var logFile string
	var verbose bool

	dir := configDir()
	defaultConfig := ""
	defaultHistory := ""
	if len(dir) != 0 {
		defaultConfig = filepath.Join(dir, "config.toml")
		defaultHistory = filepath.Join(dir, "history.txt")
	}

	flag.StringVar(&config, "config", defaultConfig, "TOML configuration file")
	flag.IntVar(&tcp, "tcp", 0, "Connect over TCP to local port PORT instead of a serial port")
	flag.BoolVar(&simulate, "simulate", false, "Run a simulation of the processor")
	flag.IntVar(&baud, "baud", 9600, "Serial baud rate")
	flag.BoolVar(&assembleOnly, "assemble-only", false, "Only assemble mnemonics, do not evaluate them")
	flag.StringVar(&history, "history", defaultHistory, "History file")
	flag.StringVar(&logFile, "log", "", "Log register traffic to this file")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %v [options] [address]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	cfg, err := LoadConfig(config)
	if err != nil {
		log.Fatalf("%v: %v", config, err)
	}

	set := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	address := flag.Arg(0)
	if len(address) == 0 {
		address = cfg.Address
	}
	if !set["tcp"] && cfg.Tcp != 0 {
		tcp = cfg.Tcp
	}
	if !set["baud"] && cfg.Baud != 0 {
		baud = cfg.Baud
	}
	if !set["history"] && len(cfg.History) != 0 {
		history = cfg.History
	}
	if !set["log"] && len(cfg.Log) != 0 {
		logFile = cfg.Log
	}
	if !set["v"] {
		verbose = cfg.Verbose
	}

	if len(cfg.Language) != 0 {
		err = translate.SetLanguage(cfg.Language)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}

	rpl := &repl.Repl{
		Verbose:     verbose,
		HistoryFile: history,
	}

	err = rpl.LoadHistory()
	if err != nil {
		log.Printf("%v: %v", history, err)
	}

	// Closed explicitly, as log.Fatalf skips deferred calls.
	var closers []io.Closer

	if !assembleOnly {
		var rw io.ReadWriteCloser

		switch {
		case simulate:
			emu := emulator.NewEmulator()
			emu.Verbose = verbose
			rw = port.NewSimulator(emu)
		case tcp != 0:
			rw, err = port.DialTcp(tcp)
			if err != nil {
				log.Fatalf("%v: %v", os.Args[0], err)
			}
		case len(address) != 0:
			rw, err = port.OpenSerial(address, baud)
			if err != nil {
				log.Fatalf("%v: %v", address, err)
			}
		default:
			noAddress()
			os.Exit(1)
		}
		closers = append(closers, rw)

		if len(logFile) != 0 {
			ouf, err := os.Create(logFile)
			if err != nil {
				closeAll(closers)
				log.Fatalf("%v: %v", logFile, err)
			}
			closers = append(closers, ouf)
			rw = &port.Logger{Port: rw, Log: ouf}
		}

		rpl.Port = rw
	}

	err = runAndClose(rpl, os.Stdin, os.Stdout, closers)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}

// runAndClose runs the loop, then closes everything in closers, newest
// first, whether or not the loop failed.
func runAndClose(rpl *repl.Repl, in io.Reader, out io.Writer, closers []io.Closer) (err error) {
	err = rpl.Run(in, out)
	closeAll(closers)
	return
}

func closeAll(closers []io.Closer) {
	for _, closer := range slices.Backward(closers) {
		err := closer.Close()
		if err != nil {
			log.Printf("close: %v", err)
		}
	}
}

// noAddress explains how to choose a processor port.
func noAddress() {
	ports := port.AvailableSerial()

	if len(ports) == 0 {
		fmt.Fprintln(os.Stderr, translate.From("No serial ports were found. Connect a processor and try again,"))
		fmt.Fprintln(os.Stderr, translate.From("or use -simulate or -assemble-only to try narvie without one."))
	} else {
		fmt.Fprintln(os.Stderr, translate.From("Please provide the address of your serial port. Maybe one of these:"))
		for n, name := range ports {
			fmt.Fprintf(os.Stderr, "    %d: %v\n", n+1, name)
		}
	}

	fmt.Fprintln(os.Stderr)
	flag.Usage()
}
