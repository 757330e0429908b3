// Command ssaopt drives the constant-propagation and algebraic
// canonicalization rewrite pass over a small textual IR format, for
// smoke-testing and inspecting the rule corpus from the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oisee/ssa-rewrite/internal/config"
	"github.com/oisee/ssa-rewrite/internal/logx"
	"github.com/oisee/ssa-rewrite/pkg/ir"
	"github.com/oisee/ssa-rewrite/pkg/rewrite"
	"github.com/oisee/ssa-rewrite/pkg/trace"
)

func main() {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "ssaopt",
		Short: "Constant-propagation and algebraic-canonicalization rewrite driver",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")

	var traceOut string
	runCmd := &cobra.Command{
		Use:   "run [file.ir]",
		Short: "Run the rewrite pass over a textual IR program and print the canonicalized result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger(configPath, verbose)
			if err != nil {
				return err
			}
			f, err := parseFile(args[0])
			if err != nil {
				return err
			}
			d := rewrite.NewDriver()
			if cfg.Trace.Enabled || traceOut != "" {
				d.Trace = trace.NewLog()
			}
			if err := runDriver(d, f, log); err != nil {
				return err
			}
			printFunc(os.Stdout, f)
			if d.Trace != nil {
				out := traceOut
				if out == "" {
					out = cfg.Trace.OutputFile
				}
				if err := d.Trace.Save(out); err != nil {
					return fmt.Errorf("saving trace: %w", err)
				}
				fmt.Fprintf(os.Stderr, "wrote %d trace entries to %s\n", d.Trace.Len(), out)
			}
			return nil
		},
	}
	runCmd.Flags().StringVar(&traceOut, "trace-output", "", "Write a gob-encoded rule-firing trace to this path")

	traceCmd := &cobra.Command{
		Use:   "trace [trace.gob]",
		Short: "Print a previously saved rule-firing trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := trace.Load(args[0])
			if err != nil {
				return err
			}
			for _, e := range log.Entries() {
				if e.Deleted {
					fmt.Printf("v%d (%s) deleted by %s/%s\n", e.Value, e.Op, e.Namespace, e.Rule)
				} else {
					fmt.Printf("v%d (%s) -> v%d by %s/%s\n", e.Value, e.Op, e.Replacement, e.Namespace, e.Rule)
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, traceCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfigAndLogger(configPath string, verbose bool) (*config.Config, *slog.Logger, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	level := logx.ParseLevel(cfg.Log.Level)
	log := logx.New(os.Stderr, level, verbose)
	return cfg, log, nil
}

func parseFile(path string) (*ir.Func, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseProgram(f)
}

// runDriver wraps rewrite.Driver.Run, recovering the *rewrite.FatalError
// the driver panics with at the pass boundary and logging it instead of
// letting it crash the process.
func runDriver(d *rewrite.Driver, f *ir.Func, log *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(*rewrite.FatalError); ok {
				log.Error("rewrite pass aborted", "error", fe.Error())
				err = fe
				return
			}
			panic(r)
		}
	}()
	d.Run(f)
	log.Info("rewrite pass complete", "values", len(f.Values))
	return nil
}
