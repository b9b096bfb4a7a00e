package pickyport

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// RunMode holds the process-wide execution flags. It is built once from
// the CLI and handed to constructors, never kept in package state.
type RunMode struct {
	Quiet  bool
	Debug  bool
	DryRun bool
}

// Runner executes built commands.
type Runner interface {
	Run(cmd Command) error
}

// NewShellRunner returns the Runner that actually spawns processes.
// Dry-run prints each command and succeeds without spawning; debug
// prints commands and lets tool output through; quiet drops the echo
// lines. Failures never retry.
func NewShellRunner(mode RunMode, report *Reporter) Runner {
	return &shellRunner{mode: mode, report: report}
}

type shellRunner struct {
	mode   RunMode
	report *Reporter
}

func (r *shellRunner) Run(cmd Command) error {
	r.report.Echo("%s", cmd.Echo)

	if r.mode.Debug || r.mode.DryRun {
		r.report.Command(cmd.String())
	}
	if r.mode.DryRun {
		return nil
	}

	proc := exec.Command(cmd.Path, cmd.Args...)
	proc.Env = append(os.Environ(), cmd.Env...)

	if cmd.Stdin != "" {
		in, err := os.Open(cmd.Stdin)
		if err != nil {
			return &FileError{Path: cmd.Stdin, Op: "open", Err: err}
		}
		defer in.Close()
		proc.Stdin = in
	}

	var stderr bytes.Buffer
	proc.Stderr = &stderr
	if r.mode.Debug {
		proc.Stdout = r.report.Writer()
	}

	if err := proc.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExecutionError{
				Command:  cmd.String(),
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
				Err:      err,
			}
		}
		return &ExecutionError{
			Command:  cmd.String(),
			ExitCode: -1,
			Err:      errors.Wrapf(err, "starting %s", cmd.Path),
		}
	}

	return nil
}
