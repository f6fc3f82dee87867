// Package main implements the koc compiler entry point.
//
// koc reads one Ko expression from a file, checks it, and writes an ARM64
// assembly program that exits with the expression's value:
//
//	koc [flags] <file.ko>
//	koc repl
//	koc doctor
//	koc version
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/koc/internal/config"
	"github.com/you-not-fish/koc/internal/logging"
)

// Version information
const Version = "0.1.0-dev"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the command-line flags.
type options struct {
	configFile string
	print      string
	noAssembly bool
	output     string
	verbose    bool
	color      bool
}

// exitError carries a process exit code out of a command whose failure has
// already been reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var errFailed = &exitError{code: 1}

// execute runs the command line args and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "koc [flags] <file.ko>",
		Short: "Compiler for Ko expressions",
		Long: `koc compiles a single Ko expression to an ARM64 assembly program
whose exit status is the value of the expression.

The expression language has number, string, boolean and null literals,
unary ! and -, the binary operators * / + - > >= < <= == !=, and
parentheses.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("no input file\nusage: koc [flags] <file.ko>")
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDriver(cmd, opts, stdout, stderr)
			if err != nil {
				return err
			}
			return d.compile(args[0])
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file (default: $KOC_CONFIG, ./koc.toml or ./koc.yaml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline stages to stderr")
	pf.BoolVar(&opts.color, "color", false, "colorize diagnostics")

	f := root.Flags()
	f.StringVar(&opts.print, "print", "", "print an intermediate form: parser, tokens, tree or json")
	f.BoolVar(&opts.noAssembly, "no-assembly", false, "disable ARM assembly generation (enabled by default)")
	f.StringVarP(&opts.output, "output", "o", "", "assembly output file (default: standard output)")

	root.AddCommand(
		newReplCmd(opts, stdout, stderr),
		newDoctorCmd(stdout),
		newVersionCmd(stdout),
	)
	return root
}

// driver holds the state shared by every command that runs the pipeline.
type driver struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// newDriver resolves the configuration for cmd: the config file first,
// then any flag set explicitly on the command line.
func newDriver(cmd *cobra.Command, opts *options, stdout, stderr io.Writer) (*driver, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if opts.configFile != "" {
		path = opts.configFile
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("print") {
		cfg.Print = opts.print
	}
	if flags.Changed("no-assembly") {
		cfg.SetAssembly(!opts.noAssembly)
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("color") {
		cfg.Color = opts.color
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, _ := logging.ForRun(logging.New(cfg.Log, stderr))
	if path != "" {
		log.Debug("config loaded", "path", path)
	}

	return &driver{cfg: cfg, log: log, stdout: stdout, stderr: stderr}, nil
}
