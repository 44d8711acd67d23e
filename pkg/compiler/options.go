package compiler

import (
	"github.com/dd0wney/jnetc/pkg/logging"
	"github.com/dd0wney/jnetc/pkg/metrics"
	"github.com/dd0wney/jnetc/pkg/paths"
)

// Option configures a Compiler
type Option func(*Compiler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// WithMetrics records compile metrics into r
func WithMetrics(r *metrics.Registry) Option {
	return func(c *Compiler) { c.metrics = r }
}

// WithWorkers sets the worker pool size. Zero means one per CPU.
func WithWorkers(n int) Option {
	return func(c *Compiler) { c.workers = n }
}

// WithThreatStrategy selects how template A2 picks its threatening LRT
func WithThreatStrategy(s paths.ThreatStrategy) Option {
	return func(c *Compiler) { c.threat = s }
}

// WithRunID fixes the run id instead of generating one
func WithRunID(id string) Option {
	return func(c *Compiler) { c.runID = func() string { return id } }
}
