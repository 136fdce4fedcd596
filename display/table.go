// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package display

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// newTable creates a light box-drawn table. Columns take their alignment
// from aligns, in order; columns past the end of aligns are left aligned.
func newTable(headers []string, aligns ...text.Align) (tw table.Writer) {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault

	tw = table.NewWriter()
	tw.SetStyle(style)

	row := make(table.Row, len(headers))
	configs := make([]table.ColumnConfig, len(headers))
	for n, header := range headers {
		row[n] = header
		configs[n] = table.ColumnConfig{Number: n + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if n < len(aligns) {
			configs[n].Align = aligns[n]
			configs[n].AlignHeader = aligns[n]
		}
	}
	tw.AppendHeader(row)
	tw.SetColumnConfigs(configs)

	return
}

// Lines renders a table as text lines.
func Lines(tw table.Writer) []string {
	return strings.Split(tw.Render(), "\n")
}

func writeLines(w io.Writer, lines []string) (n int64, err error) {
	for _, line := range lines {
		var count int
		count, err = io.WriteString(w, line+"\n")
		n += int64(count)
		if err != nil {
			return
		}
	}
	return
}
