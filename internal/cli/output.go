package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/lacquerai/casegen/internal/style"
)

// render writes data as JSON or YAML when --output asks for it, and
// otherwise calls text.
func render(w io.Writer, data any, text func(io.Writer)) error {
	switch format := viper.GetString("output"); format {
	case "json":
		style.PrintJSON(w, data)
	case "yaml":
		style.PrintYAML(w, data)
	case "", "text":
		text(w)
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
	return nil
}

// machineOutput reports whether output is JSON or YAML.
func machineOutput() bool {
	format := viper.GetString("output")
	return format == "json" || format == "yaml"
}

// printTable outputs data in a human-readable table format
func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) {
		for i, cell := range cells {
			if i < len(widths) {
				fmt.Fprintf(w, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w)
	}

	line(headers)
	sep := make([]string, len(headers))
	for i := range headers {
		sep[i] = strings.Repeat("-", widths[i])
	}
	line(sep)
	for _, row := range rows {
		line(row)
	}
}
