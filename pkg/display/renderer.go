package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
	"github.com/andparsons/composer-project-files-installer/pkg/ui"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Renderer writes a report
type Renderer interface {
	Render(Report) error
}

// NewRenderer creates the renderer for format. FormatAuto is resolved
// against w.
func NewRenderer(w io.Writer, format ui.Format) Renderer {
	switch ui.Resolve(format, w) {
	case ui.FormatJSON:
		return &JSONRenderer{w: w}
	case ui.FormatTerminal:
		return &TerminalRenderer{w: w}
	default:
		return &TextRenderer{w: w}
	}
}

// TextRenderer writes one line per package without styling
type TextRenderer struct {
	w io.Writer
}

// Render implements Renderer
func (r *TextRenderer) Render(report Report) error {
	var b strings.Builder
	if len(report.Packages) == 0 {
		fmt.Fprintf(&b, "%s: no packages registered\n", report.Operation)
		return write(r.w, b.String())
	}

	for _, p := range report.Packages {
		fmt.Fprintf(&b, "%-8s %s (%s, priority %d)", p.Status, p.Package, p.Strategy, p.Priority)
		if p.Message != "" {
			fmt.Fprintf(&b, ": %s", p.Message)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s: %d succeeded, %d failed\n", report.Operation, report.Succeeded, report.Failed)
	return write(r.w, b.String())
}

// JSONRenderer writes the report as indented JSON
type JSONRenderer struct {
	w io.Writer
}

// Render implements Renderer
func (r *JSONRenderer) Render(report Report) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode report")
	}
	return nil
}

// TerminalRenderer writes a styled table
type TerminalRenderer struct {
	w io.Writer
}

// Render implements Renderer
func (r *TerminalRenderer) Render(report Report) error {
	var b strings.Builder
	b.WriteString(ui.Style("Header").Render(title(report.Operation)))
	b.WriteString("\n")

	if len(report.Packages) == 0 {
		b.WriteString(ui.Style("Muted").Render("no packages registered"))
		b.WriteString("\n")
		return write(r.w, b.String())
	}

	data := pterm.TableData{{"Package", "Strategy", "Priority", "Status"}}
	for _, p := range report.Packages {
		data = append(data, []string{
			ui.Style("Package").Render(p.Package),
			ui.Style("Strategy").Render(p.Strategy),
			strconv.Itoa(p.Priority),
			statusStyle(p.Status).Render(string(p.Status)),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render table")
	}
	b.WriteString(table)
	b.WriteString("\n")

	for _, p := range report.Packages {
		if p.Status != StatusFailed {
			continue
		}
		b.WriteString(ui.Style("Error").Render(p.Package))
		b.WriteString(": ")
		b.WriteString(p.Message)
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("%d succeeded, %d failed", report.Succeeded, report.Failed)
	if report.HasFailures() {
		b.WriteString(ui.Style("Warning").Render(summary))
	} else {
		b.WriteString(ui.Style("Success").Render(summary))
	}
	b.WriteString("\n")
	return write(r.w, b.String())
}

func statusStyle(s Status) lipgloss.Style {
	if s == StatusFailed {
		return ui.Style("Error")
	}
	return ui.Style("Success")
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func write(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to write output")
	}
	return nil
}
