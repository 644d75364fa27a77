package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"qasmc/internal/compiler"
	"qasmc/internal/errors"
	"qasmc/internal/gatelib"
	"qasmc/internal/ir"
	"qasmc/internal/printer"
)

var log = commonlog.GetLogger("qasmc.cli")

// errCompilationFailed is returned after the diagnostics were already
// rendered, so main only has to set the exit status.
var errCompilationFailed = stderrors.New("compilation failed")

// RootOptions holds the flags of the qasmc command.
type RootOptions struct {
	Target  string
	File    string
	Output  string
	Gates   string
	Verbose int
	EmitIR  bool
}

// NewRootCommand creates the qasmc command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qasmc",
		Short: "Lower OpenQASM 3 programs to Stim or AutoQ-Para",
		Long: `qasmc compiles a subset of OpenQASM 3 into the text format of a
simulation or verification backend.

The program is read from --file (or stdin), checked, lowered to an
intermediate representation and printed for --target.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(opts.Verbose, nil)
			if _, err := printer.ForTarget(opts.Target); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Target, "target", "t", "stim", fmt.Sprintf("output format (%v)", printer.Targets()))
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "input program (default stdin)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.Gates, "gates", "g", "", "gate library file, JSON or YAML (default embedded)")
	cmd.Flags().CountVarP(&opts.Verbose, "verbose", "v", "log verbosity (repeat for more)")
	cmd.Flags().BoolVar(&opts.EmitIR, "emit-ir", false, "print the intermediate representation instead of target output")

	return cmd
}

func run(opts *RootOptions, cmd *cobra.Command) error {
	startTime := time.Now()
	errOut := cmd.ErrOrStderr()

	filename, source, err := readInput(opts.File, cmd.InOrStdin())
	if err != nil {
		return err
	}
	reporter := errors.NewErrorReporter(filename, source)

	lib := gatelib.Default()
	if opts.Gates != "" {
		if lib, err = gatelib.Load(opts.Gates); err != nil {
			fmt.Fprint(errOut, reporter.Format(err))
			return errCompilationFailed
		}
	}

	out, err := compile(opts, filename, source, lib, reporter, errOut)
	if err != nil {
		fmt.Fprint(errOut, reporter.Format(err))
		color.New(color.FgRed).Fprintf(errOut, "Compilation failed after %s\n", formatDuration(time.Since(startTime)))
		return errCompilationFailed
	}

	if opts.Output == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
	if err := os.WriteFile(opts.Output, []byte(out), 0o644); err != nil {
		return pkgerrors.Wrapf(err, "writing %s", opts.Output)
	}
	color.New(color.FgGreen).Fprintf(errOut, "Compiled %s to %s in %s\n", filename, opts.Output, formatDuration(time.Since(startTime)))
	return nil
}

func compile(opts *RootOptions, filename, source string, lib *gatelib.Library, reporter *errors.ErrorReporter, errOut io.Writer) (string, error) {
	p, err := printer.ForTarget(opts.Target)
	if err != nil {
		return "", err
	}

	result, err := compiler.Check(filename, source, lib)
	if err != nil {
		return "", err
	}
	for _, w := range result.Warnings {
		fmt.Fprint(errOut, reporter.FormatError(w))
	}

	if opts.EmitIR {
		return ir.Print(result.Context.Store), nil
	}
	log.Infof("printing %s for %s", filename, p.Name())
	return p.Print(result.Context.Store)
}

func readInput(path string, stdin io.Reader) (string, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", pkgerrors.Wrap(err, "reading stdin")
		}
		return "<stdin>", string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", pkgerrors.Wrapf(err, "reading %s", path)
	}
	return path, string(data), nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
