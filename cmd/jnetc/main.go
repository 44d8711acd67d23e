// Command jnetc compiles junction transition tables into JNET logic code.
//
//	jnetc compile TA12.yaml --out ./out
//	jnetc validate TA12.yaml
//	jnetc view TA12.yaml
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/jnetc/pkg/compiler"
	"github.com/dd0wney/jnetc/pkg/constraints"
	"github.com/dd0wney/jnetc/pkg/junction"
	"github.com/dd0wney/jnetc/pkg/logging"
	"github.com/dd0wney/jnetc/pkg/metrics"
	"github.com/dd0wney/jnetc/pkg/paths"
)

// Exit codes
const (
	exitOK        = 0
	exitFailure   = 1
	exitConfig    = 2
	exitTopology  = 3
	exitRowErrors = 4
)

// errRowErrors is returned by --strict runs that produced error rows
var errRowErrors = errors.New("one or more rows failed to compile")

// globalOptions are shared by every subcommand
type globalOptions struct {
	logLevel       string
	workers        int
	threatStrategy string
	metricsOut     string
	interStages    string
	name           string

	stdout  io.Writer
	stderr  io.Writer
	logger  logging.Logger
	metrics *metrics.Registry
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var cfgErr *junction.ConfigError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &cfgErr):
		return exitConfig
	case errors.Is(err, constraints.ErrTopologyInvalid):
		return exitTopology
	case errors.Is(err, errRowErrors):
		return exitRowErrors
	default:
		return exitFailure
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "jnetc",
		Short:         "Compile junction transition tables into JNET logic code",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.writeMetrics()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to JNET_LOG_LEVEL or LOG_LEVEL")
	pf.IntVar(&opts.workers, "workers", 0, "Worker pool size (0 = one per CPU)")
	pf.StringVar(&opts.threatStrategy, "threat-strategy", paths.ContextThreat{}.Name(),
		"Threatening LRT strategy for template A2 ("+strings.Join(paths.StrategyNames(), ", ")+")")
	pf.StringVar(&opts.metricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile after the run")
	pf.StringVar(&opts.interStages, "inter-stages", "", "CSV inter-stage table replacing the document's inter_stages")
	pf.StringVar(&opts.name, "name", "", "Junction name (defaults to one derived from the file name)")

	root.AddCommand(
		newCompileCmd(opts),
		newValidateCmd(opts),
		newViewCmd(opts),
	)
	return root
}

func (o *globalOptions) setup() error {
	level := logging.DefaultLogger().GetLevel()
	if o.logLevel != "" {
		parsed, err := logging.ParseLevel(o.logLevel)
		if err != nil {
			return err
		}
		level = parsed
	}
	if o.workers < 0 {
		return fmt.Errorf("--workers must be 0 or more, got %d", o.workers)
	}
	o.logger = logging.NewJSONLogger(o.stderr, level).With(logging.Component("jnetc"))
	o.metrics = metrics.NewRegistry()
	return nil
}

func (o *globalOptions) writeMetrics() error {
	if o.metricsOut == "" || o.metrics == nil {
		return nil
	}
	if err := o.metrics.WriteTextfile(o.metricsOut); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func (o *globalOptions) load(path string) (*junction.Junction, error) {
	var loadOpts []junction.LoadOption
	if o.interStages != "" {
		loadOpts = append(loadOpts, junction.WithInterStages(o.interStages))
	}
	if o.name != "" {
		loadOpts = append(loadOpts, junction.WithName(o.name))
	}
	j, err := junction.Load(path, loadOpts...)
	if err != nil {
		return nil, err
	}
	o.logger.Info("junction loaded",
		logging.Junction(j.Name),
		logging.Path(j.Source),
		logging.Int("stages", len(j.Graph.StageIDs())),
		logging.Int("transitions", len(j.Graph.Transitions())))
	return j, nil
}

func (o *globalOptions) compiler() (*compiler.Compiler, error) {
	strategy, err := paths.StrategyByName(o.threatStrategy)
	if err != nil {
		return nil, err
	}
	return compiler.New(
		compiler.WithLogger(o.logger),
		compiler.WithMetrics(o.metrics),
		compiler.WithWorkers(o.workers),
		compiler.WithThreatStrategy(strategy),
	), nil
}

// printViolations lists a topology failure in a readable form
func printViolations(w io.Writer, violations []constraints.Violation) {
	for _, v := range violations {
		fmt.Fprintf(w, "  %-8s %-12s %-6s %s\n", v.Severity, v.Type, v.StageID, v.Message)
	}
}
