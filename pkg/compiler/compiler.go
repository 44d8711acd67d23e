// Package compiler runs the full pipeline for one junction: graph
// validation, per-row generation, self-audit and assembly.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dd0wney/jnetc/pkg/audit"
	"github.com/dd0wney/jnetc/pkg/constraints"
	"github.com/dd0wney/jnetc/pkg/demand"
	"github.com/dd0wney/jnetc/pkg/junction"
	"github.com/dd0wney/jnetc/pkg/logging"
	"github.com/dd0wney/jnetc/pkg/metrics"
	"github.com/dd0wney/jnetc/pkg/parallel"
	"github.com/dd0wney/jnetc/pkg/paths"
	"github.com/dd0wney/jnetc/pkg/result"
	"github.com/dd0wney/jnetc/pkg/topology"
)

const tracerName = "jnetc"

// Compile statuses recorded in metrics
const (
	StatusOK            = "ok"
	StatusTopologyError = "topology_error"
	StatusInternalError = "internal_error"
)

// Compiler turns junctions into logic rows. A Compiler holds no state
// between runs and may be reused.
type Compiler struct {
	logger  logging.Logger
	metrics *metrics.Registry
	workers int
	threat  paths.ThreatStrategy
	runID   func() string
}

// New creates a compiler
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger: logging.NewNopLogger(),
		threat: paths.ContextThreat{},
		runID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate runs the topology checks alone. The result lists every
// violation; use its Err method for the run-aborting error.
func (c *Compiler) Validate(ctx context.Context, g *topology.Graph) (*constraints.ValidationResult, error) {
	pool, err := c.newPool(c.logger)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	return c.validate(ctx, g, pool, c.logger)
}

// Compile validates the junction graph and generates one row per declared
// transition. A topology failure returns a *constraints.TopologyError and
// no rows. Row-scoped failures are carried on their rows.
func (c *Compiler) Compile(ctx context.Context, j *junction.Junction) (*result.Set, error) {
	runID := c.runID()
	log := c.logger.With(logging.Component("compiler"), logging.RunID(runID), logging.Junction(j.Name))
	start := time.Now()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "compile",
		trace.WithAttributes(
			attribute.String("junction", j.Name),
			attribute.String("run_id", runID),
		),
	)
	defer span.End()

	g := j.Graph
	transitions := g.Transitions()
	if c.metrics != nil {
		c.metrics.SetJunctionSize(len(g.StageIDs()), len(transitions))
	}

	pool, err := c.newPool(log)
	if err != nil {
		c.finish(span, log, StatusInternalError, start, err)
		return nil, err
	}
	defer pool.Close()

	vr, err := c.validate(ctx, g, pool, log)
	if err != nil {
		c.finish(span, log, StatusInternalError, start, err)
		return nil, err
	}
	if err := vr.Err(); err != nil {
		c.finish(span, log, StatusTopologyError, start, err)
		return nil, err
	}

	resolver := paths.NewResolver(g, paths.WithThreatStrategy(c.threat))
	rows := c.generate(ctx, g, resolver, transitions, pool, log)
	c.audit(ctx, g, resolver, rows, pool, log)

	set := result.Assemble(runID, j.Name, rows)
	c.recordRows(set)
	span.SetAttributes(
		attribute.Int("rows", set.Summary.Rows),
		attribute.Int("row_errors", set.Summary.Errors),
	)
	c.finish(span, log, StatusOK, start, nil,
		logging.Count(set.Summary.Rows), logging.Int("errors", set.Summary.Errors),
		logging.Int("corrected", set.Summary.Corrected), logging.Int("flagged", set.Summary.Flagged))
	return set, nil
}

func (c *Compiler) newPool(log logging.Logger) (*parallel.WorkerPool, error) {
	return parallel.NewWorkerPool(c.workers,
		parallel.WithLogger(log),
		parallel.WithPanicHandler(func(any) {
			if c.metrics != nil {
				c.metrics.WorkerPanicsTotal.Inc()
			}
		}),
	)
}

func (c *Compiler) validate(ctx context.Context, g *topology.Graph, pool *parallel.WorkerPool, log logging.Logger) (*constraints.ValidationResult, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "validate")
	defer span.End()
	timer := logging.StartTimer(log, "topology validated", logging.Operation("validate"))

	vr, err := constraints.NewTopologyValidator(pool).Validate(g)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validator failed")
		timer.EndError(err)
		return nil, fmt.Errorf("validate topology: %w", err)
	}
	for _, v := range vr.Violations {
		log.Warn("topology violation", logging.Stage(v.StageID),
			logging.String("type", v.Type.String()), logging.String("detail", v.Message))
		if c.metrics != nil {
			c.metrics.RecordViolation(v.Type.String())
		}
	}
	span.SetAttributes(attribute.Int("violations", len(vr.Violations)))
	c.recordPhase("validate", timer.End(logging.Int("violations", len(vr.Violations))))
	return vr, nil
}

func (c *Compiler) generate(ctx context.Context, g *topology.Graph, resolver *paths.Resolver, transitions []*topology.Transition, pool *parallel.WorkerPool, log logging.Logger) []result.Row {
	_, span := otel.Tracer(tracerName).Start(ctx, "generate",
		trace.WithAttributes(attribute.Int("transitions", len(transitions))))
	defer span.End()
	timer := logging.StartTimer(log, "rows generated", logging.Operation("generate"))

	gen := newGenerator(g, resolver)
	rows := make([]result.Row, len(transitions))
	pool.ForEach(len(transitions), func(i int) {
		t := transitions[i]
		rows[i] = result.Row{Ordinal: t.Ordinal, From: t.From, To: t.To}
		defer recoverRow(&rows[i], log)
		rows[i] = gen.row(t)
		if err := rows[i].Err; err != nil {
			log.Warn("row failed", logging.Row(t.Ordinal), logging.Transition(t.From, t.To),
				logging.String("kind", string(err.Kind)), logging.Error(err))
		}
	})

	c.recordPhase("generate", timer.End(logging.Count(len(rows))))
	return rows
}

func (c *Compiler) audit(ctx context.Context, g *topology.Graph, resolver *paths.Resolver, rows []result.Row, pool *parallel.WorkerPool, log logging.Logger) {
	_, span := otel.Tracer(tracerName).Start(ctx, "audit")
	defer span.End()
	start := time.Now()

	auditor := audit.New(resolver, demand.NewBuilder(g))
	pool.ForEach(len(rows), func(i int) {
		defer recoverRow(&rows[i], log)
		auditor.Audit(&rows[i])
	})
	c.recordPhase("audit", time.Since(start))
}

// recoverRow turns a panic inside one row's work into an internal row error
func recoverRow(row *result.Row, log logging.Logger) {
	r := recover()
	if r == nil {
		return
	}
	err := fmt.Errorf("panic: %v", r)
	log.Error("row panicked", logging.Row(row.Ordinal), logging.Transition(row.From, row.To), logging.Error(err))
	row.Expression = ""
	row.Err = result.NewRowError(result.InternalFailure, err)
	row.AddDiagnostics(result.Note(result.CodeRowPanic, "%v", r))
}

func (c *Compiler) recordPhase(phase string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordPhase(phase, d)
	}
}

func (c *Compiler) recordRows(set *result.Set) {
	if c.metrics == nil {
		return
	}
	for _, row := range set.Rows {
		c.metrics.RecordRow(string(row.Template), row.OK())
		for _, d := range row.Diagnostics {
			c.metrics.RecordDiagnostic(d.Code, d.Corrected)
		}
	}
}

func (c *Compiler) finish(span trace.Span, log logging.Logger, status string, start time.Time, err error, fields ...logging.Field) {
	elapsed := time.Since(start)
	if c.metrics != nil {
		c.metrics.RecordCompile(status, elapsed)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		var topoErr *constraints.TopologyError
		if errors.As(err, &topoErr) {
			log.Error("compile aborted", logging.Int("violations", len(topoErr.Violations)), logging.Latency(elapsed))
			return
		}
		log.Error("compile failed", logging.Error(err), logging.Latency(elapsed))
		return
	}
	span.SetStatus(codes.Ok, "")
	log.Info("compile finished", append(fields, logging.Latency(elapsed))...)
}
