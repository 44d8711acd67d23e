package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dd0wney/jnetc/pkg/cache"
	"github.com/dd0wney/jnetc/pkg/constraints"
	"github.com/dd0wney/jnetc/pkg/export"
	"github.com/dd0wney/jnetc/pkg/junction"
	"github.com/dd0wney/jnetc/pkg/logging"
	"github.com/dd0wney/jnetc/pkg/result"
)

type compileOptions struct {
	*globalOptions

	outDir      string
	toStdout    bool
	cacheDir    string
	diagnostics bool
	strict      bool
	s3          export.S3Config
}

func newCompileCmd(g *globalOptions) *cobra.Command {
	opts := &compileOptions{globalOptions: g}

	cmd := &cobra.Command{
		Use:   "compile <junction.yaml>",
		Short: "Compile a junction and export its logic table as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.outDir, "out", "o", ".", "Directory for the CSV export")
	f.BoolVar(&opts.toStdout, "stdout", false, "Write the CSV to stdout instead of a file")
	f.StringVar(&opts.cacheDir, "cache-dir", "", "Reuse compiled results stored in this directory")
	f.BoolVar(&opts.diagnostics, "diagnostics", false, "Print row diagnostics after the summary")
	f.BoolVar(&opts.strict, "strict", false, "Exit non-zero when any row fails to compile")
	f.StringVar(&opts.s3.Bucket, "s3-bucket", "", "Also upload the CSV to this S3 bucket")
	f.StringVar(&opts.s3.Prefix, "s3-prefix", "", "Key prefix for the S3 upload")
	f.StringVar(&opts.s3.Region, "s3-region", "", "AWS region (defaults to the AWS config chain)")
	f.StringVar(&opts.s3.Endpoint, "s3-endpoint", "", "Custom S3 endpoint, e.g. for MinIO")
	f.StringVar(&opts.s3.AccessKeyID, "s3-access-key-id", "", "Static access key id")
	f.StringVar(&opts.s3.SecretAccessKey, "s3-secret-access-key", "", "Static secret access key")
	return cmd
}

func (o *compileOptions) run(ctx context.Context, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	j, err := o.load(path)
	if err != nil {
		return err
	}

	set, err := compileCached(ctx, o.globalOptions, o.cacheDir, j)
	if err != nil {
		var topoErr *constraints.TopologyError
		if errors.As(err, &topoErr) {
			fmt.Fprintf(o.stderr, "%s: topology invalid, no rows generated\n", j.Name)
			printViolations(o.stderr, topoErr.Violations)
		}
		return err
	}

	var locations []string
	if o.toStdout {
		if err := export.WriteCSV(o.stdout, set); err != nil {
			return err
		}
	}

	sinks, err := o.sinks(ctx)
	if err != nil {
		return err
	}
	if len(sinks) > 0 {
		locations, err = export.NewExporter(o.logger, o.metrics).Export(ctx, set, sinks...)
		if err != nil {
			return err
		}
	}

	// Keep stdout clean for the CSV stream.
	report := o.stdout
	if o.toStdout {
		report = o.stderr
	}
	printSummary(report, set, locations)
	if o.diagnostics {
		printDiagnostics(report, set)
	}

	if o.strict && set.Summary.Errors > 0 {
		o.logger.Warn("row errors in strict mode", logging.Junction(set.Junction),
			logging.Bool("strict", o.strict), logging.Int("errors", set.Summary.Errors))
		return fmt.Errorf("%w: %d of %d", errRowErrors, set.Summary.Errors, set.Summary.Rows)
	}
	return nil
}

func (o *compileOptions) sinks(ctx context.Context) ([]export.Sink, error) {
	var sinks []export.Sink
	if !o.toStdout {
		sinks = append(sinks, export.FileSink{Dir: o.outDir})
	}
	if o.s3.Bucket != "" {
		s3Sink, err := export.OpenS3Sink(ctx, o.s3)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s3Sink)
	}
	return sinks, nil
}

// compileCached compiles j, going through the result cache when cacheDir
// is set
func compileCached(ctx context.Context, g *globalOptions, cacheDir string, j *junction.Junction) (*result.Set, error) {
	c, err := g.compiler()
	if err != nil {
		return nil, err
	}
	if cacheDir == "" {
		return c.Compile(ctx, j)
	}

	store, err := cache.Open(cacheDir, cache.WithLogger(g.logger), cache.WithMetrics(g.metrics))
	if err != nil {
		return nil, err
	}
	key, err := cache.Key(j, g.threatStrategy)
	if err != nil {
		return nil, err
	}
	set, hit, err := store.GetOrCompile(ctx, key, func(ctx context.Context) (*result.Set, error) {
		return c.Compile(ctx, j)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		g.logger.Info("using cached result", logging.Junction(j.Name), logging.RunID(set.RunID))
	}
	return set, nil
}

func printSummary(w io.Writer, set *result.Set, locations []string) {
	s := set.Summary
	fmt.Fprintf(w, "%s: %d rows, %d errors, %d corrected, %d flagged\n",
		set.Junction, s.Rows, s.Errors, s.Corrected, s.Flagged)
	for _, loc := range locations {
		fmt.Fprintf(w, "  wrote %s\n", loc)
	}
}

func printDiagnostics(w io.Writer, set *result.Set) {
	for i := range set.Rows {
		r := &set.Rows[i]
		if r.Err != nil {
			fmt.Fprintf(w, "#%d %s->%s ERROR %s\n", r.Ordinal, r.From, r.To, r.Err)
		}
		for _, d := range r.Diagnostics {
			fmt.Fprintf(w, "#%d %s->%s %s\n", r.Ordinal, r.From, r.To, d)
		}
	}
}
