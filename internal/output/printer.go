// Package output formats command-line output.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes status lines, coloured when the terminal allows it.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter returns a printer on stdout and stderr. Colours follow
// NO_COLOR and TERM=dumb.
func NewPrinter() *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, ResolveColors())
}

// NewPrinterWithWriters returns a printer on the given writers.
func NewPrinterWithWriters(out, errw io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: errw, useColors: useColors}
}

// ResolveColors reports whether the environment permits coloured output.
func ResolveColors() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return !color.NoColor
}

// Out returns the writer for regular output such as tables.
func (p *Printer) Out() io.Writer { return p.out }

// Success prints a line prefixed with a check mark.
func (p *Printer) Success(format string, args ...any) {
	p.print(p.out, color.FgGreen, "✓ ", format, args...)
}

// Warn prints a warning line to stderr.
func (p *Printer) Warn(format string, args ...any) {
	p.print(p.err, color.FgYellow, "! ", format, args...)
}

// Error prints an error line to stderr.
func (p *Printer) Error(format string, args ...any) {
	p.print(p.err, color.FgRed, "✗ ", format, args...)
}

func (p *Printer) print(w io.Writer, attr color.Attribute, prefix, format string, args ...any) {
	msg := prefix + fmt.Sprintf(format, args...) + "\n"
	if !p.useColors {
		fmt.Fprint(w, msg)
		return
	}
	c := color.New(attr)
	c.EnableColor()
	c.Fprint(w, msg)
}
