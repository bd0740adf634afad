// Package console writes human-readable progress lines for the batch commands.
package console

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Progress receives copied bytes and is finished once the copy ends
type Progress interface {
	io.Writer
	Finish() error
}

// Printer writes tagged, optionally colored lines to an output writer
type Printer struct {
	out         io.Writer
	interactive bool

	info    *color.Color
	warn    *color.Color
	err     *color.Color
	success *color.Color
}

// New creates a printer. Colors and progress bars are only used when out is
// a terminal and noColor is false.
func New(out io.Writer, noColor bool) *Printer {
	interactive := isTerminal(out)

	p := &Printer{
		out:         out,
		interactive: interactive,
		info:        color.New(color.FgCyan),
		warn:        color.New(color.FgYellow),
		err:         color.New(color.FgRed, color.Bold),
		success:     color.New(color.FgGreen),
	}

	for _, c := range []*color.Color{p.info, p.warn, p.err, p.success} {
		if interactive && !noColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Printf writes an untagged line
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Println writes an untagged line followed by a newline
func (p *Printer) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

// Info writes a highlighted informational line
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.out, p.info.Sprintf(format, args...))
}

// Warn writes a WARN line
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.warn.Sprint("  WARN: ")+fmt.Sprintf(format, args...))
}

// Error writes an ERROR line
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.out, p.err.Sprint("  ERROR: ")+fmt.Sprintf(format, args...))
}

// Success writes a green line
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.success.Sprintf(format, args...))
}

// Progress returns a byte progress bar for a copy of size bytes (-1 when
// unknown). Non-interactive output gets a no-op sink.
func (p *Printer) Progress(size int64, label string) Progress {
	if !p.interactive {
		return discardProgress{}
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

type discardProgress struct{}

func (discardProgress) Write(b []byte) (int, error) { return len(b), nil }
func (discardProgress) Finish() error               { return nil }
