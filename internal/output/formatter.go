package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	gcerrors "gitcore.dev/gitcore/internal/errors"
)

// Formatter renders handler results. Success bodies are always JSON; failures
// are JSON envelopes unless the destination is a terminal, where they are styled.
type Formatter struct {
	out      io.Writer
	errOut   io.Writer
	terminal bool
	forceRaw bool
}

// NewFormatter creates a Formatter writing results to out and styled failures to errOut
func NewFormatter(out, errOut io.Writer) *Formatter {
	return &Formatter{out: out, errOut: errOut, terminal: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetJSON forces compact JSON output even on a terminal
func (f *Formatter) SetJSON(raw bool) {
	f.forceRaw = raw
}

func (f *Formatter) styled() bool {
	return f.terminal && !f.forceRaw
}

// Result writes a success body
func (f *Formatter) Result(v any) error {
	var (
		data []byte
		err  error
	)
	if f.styled() {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(f.out, string(data))
	return err
}

// Failure writes the failure envelope
func (f *Formatter) Failure(failure *gcerrors.Failure) error {
	if !f.styled() {
		data, err := json.Marshal(failure.Envelope())
		if err != nil {
			return fmt.Errorf("failed to encode failure: %w", err)
		}
		_, err = fmt.Fprintln(f.out, string(data))
		return err
	}
	_, err := fmt.Fprintln(f.errOut, RenderFailure(failure))
	return err
}

// RenderFailure formats a failure for a terminal
func RenderFailure(failure *gcerrors.Failure) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("error: " + failure.Message))
	if failure.Code != "" {
		b.WriteString(" ")
		b.WriteString(categoryStyle(failure.Category).Render("[" + failure.Code + "]"))
	}
	if failure.Hint != "" {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("hint: " + failure.Hint))
	}
	if failure.Path != "" {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("path: " + failure.Path))
	}
	if stderr := strings.TrimSpace(failure.Stderr); stderr != "" {
		b.WriteString("\n")
		b.WriteString(stderr)
	}
	return b.String()
}

// RenderSuccess formats a one-line confirmation for a terminal
func RenderSuccess(msg string) string {
	return okStyle.Render(msg)
}
