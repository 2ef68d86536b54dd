package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
)

// Formatter prints command results
type Formatter interface {
	PrintSuccess(message string) error
	PrintTable(headers []string, rows [][]string) error
	PrintJSON(data any) error
}

// TextFormatter prints aligned columns
type TextFormatter struct {
	writer   io.Writer
	terminal bool
}

// NewTextFormatter creates a TextFormatter writing to w
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w, terminal: isTerminal(w)}
}

// PrintSuccess prints message, with a check mark on a terminal
func (f *TextFormatter) PrintSuccess(message string) error {
	if f.terminal {
		message = "✓ " + message
	}
	_, err := fmt.Fprintln(f.writer, message)
	return err
}

// PrintTable prints upper-cased headers, a dashed rule and the rows
func (f *TextFormatter) PrintTable(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)

	rule := make([]string, len(headers))
	for i, h := range headers {
		rule[i] = strings.Repeat("-", len(h))
	}

	if _, err := fmt.Fprintln(tw, strings.ToUpper(strings.Join(headers, "\t"))); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(tw, strings.Join(rule, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// PrintJSON prints data as indented JSON
func (f *TextFormatter) PrintJSON(data any) error {
	return writeJSON(f.writer, data)
}

// JSONFormatter prints every result as JSON
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a JSONFormatter writing to w
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// PrintSuccess prints {"status": "success", "message": ...}
func (f *JSONFormatter) PrintSuccess(message string) error {
	return writeJSON(f.writer, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// PrintTable prints the rows as objects keyed by header
func (f *JSONFormatter) PrintTable(headers []string, rows [][]string) error {
	data := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		item := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				item[header] = row[i]
			}
		}
		data = append(data, item)
	}
	return writeJSON(f.writer, data)
}

// PrintJSON prints data as indented JSON
func (f *JSONFormatter) PrintJSON(data any) error {
	return writeJSON(f.writer, data)
}

// NewFormatter creates the formatter for format
func NewFormatter(format OutputFormat, w io.Writer) Formatter {
	if format == FormatJSON {
		return NewJSONFormatter(w)
	}
	return NewTextFormatter(w)
}

func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
