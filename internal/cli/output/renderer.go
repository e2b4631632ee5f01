package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   OutputMode
	term   *termenv.Output
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	profile := termenv.Ascii
	if isTTY && !termenv.EnvNoColor() {
		profile = termenv.ANSI
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		isTTY:  isTTY,
		mode:   mode,
		term:   termenv.NewOutput(out, termenv.WithProfile(profile)),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves auto to text on a terminal and markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the error output writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Data writes v in the structured format of the effective mode. It returns
// false when the mode is not structured and nothing was written.
func (r *Renderer) Data(v any) (bool, error) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return true, r.JSON(v)
	case ModeYAML:
		return true, r.YAML(v)
	}
	return false, nil
}

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		return
	}
	s := r.term.String(text).Bold()
	if level <= 1 {
		s = s.Underline()
	}
	r.Println(s.String())
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	r.Println(r.term.String("✓ " + msg).Foreground(r.term.Color("2")).String())
}

// Warning writes a warning to the error output.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.term.String("! "+msg).Foreground(r.term.Color("3")).String())
}

// Error writes an error to the error output.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.term.String("✗ "+msg).Foreground(r.term.Color("1")).String())
}

// Muted writes de-emphasised text.
func (r *Renderer) Muted(msg string) {
	r.Println(r.term.String(msg).Faint().String())
}

// StatusLine writes "name  status  detail" with a coloured status.
func (r *Renderer) StatusLine(name, status, detail string) {
	color := "7"
	switch status {
	case "success", "ok":
		color = "2"
	case "skipped", "warning":
		color = "3"
	case "failed", "error":
		color = "1"
	}
	st := r.term.String(status).Foreground(r.term.Color(color)).String()
	if detail == "" {
		r.Printf("  %-24s %s\n", name, st)
		return
	}
	r.Printf("  %-24s %s  %s\n", name, st, r.term.String(detail).Faint().String())
}

// Table writes rows under headers: a box table for text and a pipe table
// for markdown.
func (r *Renderer) Table(headers []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	hdr := make(table.Row, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	t.AppendHeader(hdr)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
