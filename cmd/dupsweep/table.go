package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

type tableOptions struct {
	aligns   []columnAlignment
	colorize bool
	// colorColumn, when colorize is set, is tinted by colorFor on each row.
	colorColumn int
	colorFor    func(value string) text.Colors
}

func renderTable(headers []string, rows [][]string, opts tableOptions) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if opts.colorize {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			if opts.colorize && opts.colorFor != nil && i == opts.colorColumn {
				value = opts.colorFor(value).Sprint(value)
			}
			r[i] = value
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(opts.aligns) && opts.aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func statusColors(value string) text.Colors {
	switch value {
	case "OK":
		return text.Colors{text.FgGreen}
	case "WARN":
		return text.Colors{text.FgYellow}
	case "FAIL":
		return text.Colors{text.FgRed}
	default:
		return nil
	}
}

func similarityColors(value string) text.Colors {
	pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
	switch {
	case err != nil:
		return nil
	case pct >= 95:
		return text.Colors{text.FgRed, text.Bold}
	case pct >= 80:
		return text.Colors{text.FgYellow}
	default:
		return nil
	}
}
