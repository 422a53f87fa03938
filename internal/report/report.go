// Package report writes query results either as terminal tables or as YAML.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/llehouerou/tunedb/internal/config"
)

const maxCellWidth = 48

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0c0c0")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#585858"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// Printer writes results to out in one format.
type Printer struct {
	out    io.Writer
	format string
}

func New(out io.Writer, format string) *Printer {
	if format == "" {
		format = config.FormatTable
	}
	return &Printer{out: out, format: format}
}

// Print writes v as YAML, or headers and rows as a table, depending on
// the printer format. Empty results print a short notice in table mode.
func (p *Printer) Print(v any, headers []string, rows [][]string) error {
	switch p.format {
	case config.FormatYAML:
		return p.yaml(v)
	case config.FormatTable:
		return p.table(headers, rows)
	}
	return fmt.Errorf("unknown output format %q", p.format)
}

// Message writes a single line of status text.
func (p *Printer) Message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.format == config.FormatTable {
		msg = mutedStyle.Render(msg)
	}
	_, err := fmt.Fprintln(p.out, msg)
	return err
}

func (p *Printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (p *Printer) table(headers []string, rows [][]string) error {
	if len(rows) == 0 {
		return p.Message("(no results)")
	}

	clean := make([][]string, len(rows))
	for i, row := range rows {
		clean[i] = make([]string, len(row))
		for j, cell := range row {
			clean[i][j] = Truncate(cell, maxCellWidth)
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(clean...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(p.out, t.Render())
	return err
}
