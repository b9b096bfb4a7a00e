package pickyport

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Porter runs one portage from dump through cleanup. Steps are strictly
// sequential: dump, optional create-db and grants, one load per
// destination, optional update script, temp-file cleanup. The first
// failing step aborts the portage; destinations already loaded are left
// as-is.
type Porter interface {
	Port(portage Portage) error
}

func NewPorter(runner Runner, checker HealthChecker, report *Reporter, mode RunMode) Porter {
	return &porter{
		runner:  runner,
		checker: checker,
		report:  report,
		mode:    mode,
	}
}

type porter struct {
	runner  Runner
	checker HealthChecker
	report  *Reporter
	mode    RunMode
}

func (p *porter) Port(portage Portage) error {
	if p.mode.DryRun {
		p.report.Banner("Starting portage DRY RUN: %s.%s", portage.Source.Host, portage.Source.Name)
	} else {
		p.report.Banner("Starting portage: %s.%s", portage.Source.Host, portage.Source.Name)

		if err := p.preflight(portage); err != nil {
			return err
		}
	}

	builder := BuilderFor(portage.DBType)

	dumpFile := filepath.Join(os.TempDir(), "pickyport.sql")
	if !p.mode.DryRun {
		var err error
		dumpFile, err = tempDumpFile()
		if err != nil {
			return err
		}
		if !p.mode.Debug {
			// debug keeps the dump around for inspection
			defer os.Remove(dumpFile)
		}
	}

	if err := p.runner.Run(builder.DumpCommand(portage, dumpFile)); err != nil {
		return err
	}

	if portage.CreateDestDB {
		if err := p.runAll(builder.CreateDatabaseCommands(portage)); err != nil {
			return err
		}
		if err := p.runAll(builder.GrantCommands(portage)); err != nil {
			return err
		}
	}

	if err := p.runAll(builder.LoadCommands(portage, dumpFile)); err != nil {
		return err
	}

	if portage.Update != "" {
		if err := checkReadable(portage.Update); err != nil {
			return err
		}
		if err := p.runAll(builder.UpdateCommands(portage)); err != nil {
			return err
		}
	}

	p.report.Echo("Portage complete!")
	return nil
}

func (p *porter) runAll(commands []Command) error {
	for _, cmd := range commands {
		if err := p.runner.Run(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (p *porter) preflight(portage Portage) error {
	if err := p.checker.Check(portage.DBType, portage.Source); err != nil {
		return errors.Wrap(err, "source preflight")
	}
	for _, dest := range portage.Dest {
		conn := dest
		if portage.CreateDestDB {
			// the destination database may not exist yet
			conn.Name = ""
		}
		if err := p.checker.Check(portage.DBType, conn); err != nil {
			return errors.Wrap(err, "destination preflight")
		}
	}
	return nil
}

// RunPortages executes every portage in configuration order. A failing
// portage is reported and the batch moves on; the returned error is
// non-nil if any portage failed.
func RunPortages(cfg *Config, porter Porter, report *Reporter) error {
	failed := 0
	for i := range cfg.Portages {
		if err := porter.Port(cfg.Portages[i]); err != nil {
			report.Errorf("portage %d failed: %s", i+1, err)
			failed++
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d portages failed", failed, len(cfg.Portages))
	}
	return nil
}

func tempDumpFile() (string, error) {
	f, err := os.CreateTemp("", "pickyport-*.sql")
	if err != nil {
		return "", &FileError{Path: os.TempDir(), Op: "creating temp dump file in", Err: err}
	}
	f.Close()
	return f.Name(), nil
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &FileError{Path: path, Op: "reading update script", Err: err}
	}
	f.Close()
	return nil
}
