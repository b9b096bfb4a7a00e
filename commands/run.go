package commands

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"

	"github.com/ambertests/pickyport"
)

// Exit codes: configuration and usage problems abort before anything
// runs; portage failures mean the batch ran but not cleanly.
const (
	ExitOK            = 0
	ExitPortageFailed = 1
	ExitConfigError   = 2
)

// Options is the CLI surface: three mode flags and the configuration
// file.
type Options struct {
	Quiet  bool `short:"q" long:"quiet" description:"run with no output"`
	Debug  bool `short:"X" long:"debug" description:"show parsed config and all commands, and keep temp files"`
	DryRun bool `short:"d" long:"dry-run" description:"show commands without running them"`

	Positional struct {
		ConfigFile string `positional-arg-name:"config_file" description:"yaml-formatted configuration file"`
	} `positional-args:"yes" required:"yes"`
}

// Run parses args, loads the configuration, and executes every portage
// in order. It returns the process exit code.
func Run(args []string) int {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[-q] [-X] [-d] config_file"

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return ExitOK
		}
		fmt.Fprintln(os.Stderr, err)
		return ExitConfigError
	}

	// credentials can stay out of the config file: a .env beside the
	// invocation provides MYSQL_PWD / PGPASSWORD for the child tools
	_ = godotenv.Load()

	mode := pickyport.RunMode{Quiet: opts.Quiet, Debug: opts.Debug, DryRun: opts.DryRun}
	report := pickyport.NewReporter(mode.Quiet)

	cfg, err := pickyport.LoadConfig(opts.Positional.ConfigFile)
	if err != nil {
		report.Errorf("%s", err)
		return ExitConfigError
	}

	if mode.Debug {
		raw, _ := yaml.Marshal(cfg)
		report.Echo("Parsed configuration:\n%s", raw)
	}

	porter := pickyport.NewPorter(
		pickyport.NewShellRunner(mode, report),
		pickyport.NewHealthChecker(),
		report,
		mode,
	)

	if err := pickyport.RunPortages(cfg, porter, report); err != nil {
		report.Errorf("%s", err)
		return ExitPortageFailed
	}

	return ExitOK
}
