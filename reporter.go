package pickyport

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Reporter is the console output layer. Quiet mode drops everything
// except errors, which always land on the error writer.
type Reporter struct {
	quiet bool
	out   io.Writer
	errs  io.Writer
}

func NewReporter(quiet bool) *Reporter {
	return &Reporter{quiet: quiet, out: os.Stdout, errs: os.Stderr}
}

// NewReporterTo is NewReporter with explicit writers, used by tests.
func NewReporterTo(quiet bool, out, errs io.Writer) *Reporter {
	return &Reporter{quiet: quiet, out: out, errs: errs}
}

// Banner prints the section header that frames a portage.
func (r *Reporter) Banner(format string, args ...interface{}) {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.out, "===============")
	fmt.Fprintln(r.out, color.HiBlueString(format, args...))
	fmt.Fprintln(r.out, "===============")
}

// Echo prints the one-line description of the step about to run.
func (r *Reporter) Echo(format string, args ...interface{}) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Command prints a full command line, as shown in debug and dry-run.
func (r *Reporter) Command(line string) {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.out, color.CyanString("%s", line))
}

// Writer exposes the info writer so a child process can stream into it
// when debug mode wants tool output on the console.
func (r *Reporter) Writer() io.Writer {
	return r.out
}

// Errorf always prints, quiet or not.
func (r *Reporter) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(r.errs, color.HiRedString(format, args...))
}
