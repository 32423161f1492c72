package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// Printer writes the launcher's human readable status lines
type Printer struct {
	out     io.Writer
	step    *color.Color
	success *color.Color
	failure *color.Color
	hint    *color.Color
	link    *color.Color
}

// New returns a Printer writing to out. Colors follow fatih/color's terminal
// detection unless noColor is set.
func New(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:     out,
		step:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
		hint:    color.New(color.FgYellow),
		link:    color.New(color.FgBlue, color.Underline),
	}
	if noColor {
		for _, c := range []*color.Color{p.step, p.success, p.failure, p.hint, p.link} {
			c.DisableColor()
		}
	}
	return p
}

// Step prints a progress line
func (p *Printer) Step(format string, args ...interface{}) {
	p.step.Fprintf(p.out, format+"\n", args...)
}

// Success prints a confirmation line
func (p *Printer) Success(format string, args ...interface{}) {
	p.success.Fprintf(p.out, format+"\n", args...)
}

// Error prints an error line preceded by a blank line
func (p *Printer) Error(format string, args ...interface{}) {
	fmt.Fprintln(p.out)
	p.failure.Fprintf(p.out, "ERROR: "+format+"\n", args...)
}

// Hint prints a suggestion after an error
func (p *Printer) Hint(format string, args ...interface{}) {
	p.hint.Fprintf(p.out, format+"\n", args...)
}

// URL prints a labelled link
func (p *Printer) URL(label, url string) {
	fmt.Fprintf(p.out, "\n%s ", label)
	p.link.Fprintln(p.out, url)
}

// Table prints rows aligned in columns. The first row is the header.
func (p *Printer) Table(rows ...[]interface{}) {
	if len(rows) == 0 {
		return
	}
	table := uitable.New()
	table.MaxColWidth = 60
	for _, row := range rows {
		table.AddRow(row...)
	}
	fmt.Fprintln(p.out, table.String())
}
