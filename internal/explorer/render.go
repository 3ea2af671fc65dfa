package explorer

import (
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/rohmanhakim/parks-explorer/internal/record"
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
	ansiRed   = "\x1b[31m"
)

// renderHeader frames title between two rules of the same width.
func renderHeader(title string, colorize bool) []string {
	rule := strings.Repeat("-", len(title))
	if colorize {
		return []string{ansiBlue + rule + ansiReset, ansiBlue + title + ansiReset, ansiBlue + rule + ansiReset}
	}
	return []string{rule, title, rule}
}

func renderError(message string, colorize bool) string {
	line := "[Error] " + message
	if colorize {
		return ansiRed + line + ansiReset
	}
	return line
}

func renderPlaceList(places []record.NearbyPlace) []string {
	lines := make([]string, 0, len(places))
	for _, place := range places {
		lines = append(lines, "- "+place.Info())
	}
	return lines
}

func renderPlaceTable(places []record.NearbyPlace) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Name", "Category", "Address"})
	for i, place := range places {
		v := place.Display()
		tw.AppendRow(table.Row{i + 1, v.Name, v.Category, v.Address})
	}
	return tw.Render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
