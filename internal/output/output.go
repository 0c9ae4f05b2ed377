// Package output provides context-aware output for shelf.
// Stdout carries only the result of a selection (a path, a window name)
// so that it can be captured by a shell function. Diagnostics and the
// picker itself use stderr.
package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

type ctxKey struct{}

// Printer writes primary output to stdout.
type Printer struct {
	w io.Writer
}

// New creates a new Printer writing to the given writer.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter attaches a Printer to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, &Printer{w: w})
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return &Printer{w: os.Stdout}
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Path writes a selected path as a single line.
// Embedded newlines are rejected so callers never emit more than one line.
func (p *Printer) Path(path string) error {
	if strings.ContainsAny(path, "\r\n") {
		return fmt.Errorf("refusing to print path containing a newline: %q", path)
	}
	_, err := fmt.Fprintln(p.w, path)
	return err
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}
