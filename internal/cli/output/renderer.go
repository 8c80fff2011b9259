// Package output renders command results as styled text or JSON.
//
// Styling degrades automatically: termenv drops colors when stdout is not
// a terminal or NO_COLOR is set, so piped output stays clean.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects how command output is rendered.
type Mode string

const (
	// ModeAuto renders text, styled only when stdout is a terminal.
	ModeAuto Mode = "auto"
	// ModeText renders human-readable text.
	ModeText Mode = "text"
	// ModeJSON renders machine-readable JSON.
	ModeJSON Mode = "json"
)

// ValidModes lists the accepted values for the --output flag.
var ValidModes = []string{string(ModeAuto), string(ModeText), string(ModeJSON)}

// Renderer writes command output to stdout/stderr in the selected mode.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	mode   Mode
	out    *termenv.Output
	errOut *termenv.Output
}

// NewRenderer creates a renderer for the given writers and output mode.
func NewRenderer(stdout, stderr io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		mode:   mode,
		out:    termenv.NewOutput(stdout),
		errOut: termenv.NewOutput(stderr),
	}
}

// EffectiveMode resolves ModeAuto to a concrete mode.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode == ModeAuto {
		return ModeText
	}
	return r.mode
}

// IsTTY reports whether stdout is attached to a terminal.
func (r *Renderer) IsTTY() bool {
	if f, ok := r.stdout.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Writer returns the stdout writer for raw output (JSON encoders etc.).
func (r *Renderer) Writer() io.Writer {
	return r.stdout
}

// ErrWriter returns the stderr writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.stderr
}

// Println writes a line to stdout.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.stdout, a...)
}

// Printf writes formatted output to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.stdout, format, a...)
}

// Header writes a section header. Level 1 headers get an underline.
func (r *Renderer) Header(level int, text string) {
	r.Println(r.out.String(text).Bold().String())
	if level == 1 {
		r.Println(strings.Repeat("─", utf8.RuneCountInString(text)))
	}
}

// Success writes a green checkmark line to stdout.
func (r *Renderer) Success(msg string) {
	glyph := r.out.String("✓").Foreground(r.out.Color("2"))
	r.Printf("%s %s\n", glyph, msg)
}

// Warning writes a yellow warning line to stdout.
func (r *Renderer) Warning(msg string) {
	glyph := r.out.String("!").Foreground(r.out.Color("3"))
	r.Printf("%s %s\n", glyph, msg)
}

// Error writes a red error line to stderr.
func (r *Renderer) Error(msg string) {
	glyph := r.errOut.String("✗").Foreground(r.errOut.Color("1"))
	_, _ = fmt.Fprintf(r.stderr, "%s %s\n", glyph, msg)
}

// Muted writes a faint line to stdout.
func (r *Renderer) Muted(msg string) {
	r.Println(r.out.String(msg).Faint().String())
}

// StatusLine writes an indented status entry: a glyph, the subject, and an
// optional detail.
func (r *Renderer) StatusLine(name, status, detail string) {
	var glyph termenv.Style
	switch status {
	case "success", "completed":
		glyph = r.out.String("✓").Foreground(r.out.Color("2"))
	case "failed", "error":
		glyph = r.out.String("✗").Foreground(r.out.Color("1"))
	case "warning", "skipped":
		glyph = r.out.String("!").Foreground(r.out.Color("3"))
	default:
		glyph = r.out.String("•")
	}
	if detail != "" {
		r.Printf("  %s %s (%s)\n", glyph, name, detail)
		return
	}
	r.Printf("  %s %s\n", glyph, name)
}

// Table renders a bordered table to stdout.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.stdout)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	t.Render()
}

// JSON writes v to stdout as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
