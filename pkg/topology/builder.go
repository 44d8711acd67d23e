package topology

import (
	"errors"
	"maps"
	"slices"
	"sort"
)

// Builder accumulates stages and transitions and produces an immutable Graph.
// Problems are collected rather than returned one at a time so that a
// malformed junction reports every issue in a single pass.
type Builder struct {
	stages        map[string]*Stage
	transitions   []*Transition
	byEdge        map[edgeKey]*Transition
	vehicleAnchor string
	lrtAnchor     string
	skeleton      []string
	terminals     []string
	errs          []error
}

// NewBuilder creates an empty graph builder
func NewBuilder() *Builder {
	return &Builder{
		stages: make(map[string]*Stage),
		byEdge: make(map[edgeKey]*Transition),
	}
}

// AddStage registers a stage. Duplicate ids are recorded as errors.
func (b *Builder) AddStage(s Stage) *Builder {
	if _, exists := b.stages[s.ID]; exists {
		b.errs = append(b.errs, &GraphError{Op: "AddStage", StageID: s.ID, Cause: ErrDuplicateStage})
		return b
	}
	stage := s
	if s.WaterfallLevel != nil {
		level := *s.WaterfallLevel
		stage.WaterfallLevel = &level
	}
	b.stages[s.ID] = &stage
	return b
}

// AddTransition registers a transition. An identical redeclaration is
// collapsed into the first one; a redeclaration with a different
// rest-of-skeleton is an error.
func (b *Builder) AddTransition(t Transition) *Builder {
	if t.From == t.To {
		b.errs = append(b.errs, &GraphError{Op: "AddTransition", From: t.From, To: t.To, Cause: ErrSelfTransition})
		return b
	}
	key := edgeKey{t.From, t.To}
	tr := t
	tr.Rest = slices.Clone(t.Rest)
	if existing, ok := b.byEdge[key]; ok {
		if !existing.sameShape(&tr) {
			b.errs = append(b.errs, &GraphError{Op: "AddTransition", From: t.From, To: t.To, Cause: ErrDuplicateTransition})
		}
		return b
	}
	b.byEdge[key] = &tr
	b.transitions = append(b.transitions, &tr)
	return b
}

// SetAnchors declares the vehicle anchor and the optional LRT anchor
func (b *Builder) SetAnchors(vehicle, lrt string) *Builder {
	b.vehicleAnchor = vehicle
	b.lrtAnchor = lrt
	return b
}

// SetSkeleton declares the ordered vehicle cycle
func (b *Builder) SetSkeleton(ids []string) *Builder {
	b.skeleton = slices.Clone(ids)
	return b
}

// SetTerminals declares stages where a walk may legitimately end
func (b *Builder) SetTerminals(ids []string) *Builder {
	b.terminals = slices.Clone(ids)
	return b
}

// Build validates references and returns the graph. The returned error
// joins every problem found.
func (b *Builder) Build() (*Graph, error) {
	errs := slices.Clone(b.errs)

	if b.vehicleAnchor == "" {
		errs = append(errs, &GraphError{Op: "Build", Cause: ErrMissingVehicleAnchor})
	}
	// Anchors that are declared but absent are reported by the topology
	// validator so they appear alongside the other violations.

	for _, t := range b.transitions {
		for _, id := range []string{t.From, t.To} {
			if _, ok := b.stages[id]; !ok {
				errs = append(errs, &GraphError{Op: "AddTransition", From: t.From, To: t.To, StageID: id, Cause: ErrUnknownStage})
			}
		}
		for _, id := range t.Rest {
			if _, ok := b.stages[id]; !ok {
				errs = append(errs, &GraphError{Op: "RestOfSkeleton", From: t.From, To: t.To, StageID: id, Cause: ErrUnknownStage})
			}
		}
	}
	for _, id := range b.skeleton {
		if _, ok := b.stages[id]; !ok {
			errs = append(errs, &GraphError{Op: "SetSkeleton", StageID: id, Cause: ErrUnknownStage})
		}
	}
	for _, id := range b.terminals {
		if _, ok := b.stages[id]; !ok {
			errs = append(errs, &GraphError{Op: "SetTerminals", StageID: id, Cause: ErrUnknownStage})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	g := &Graph{
		stages:        maps.Clone(b.stages),
		outgoing:      make(map[string][]string),
		incoming:      make(map[string][]string),
		transitions:   slices.Clone(b.transitions),
		byEdge:        maps.Clone(b.byEdge),
		vehicleAnchor: b.vehicleAnchor,
		lrtAnchor:     b.lrtAnchor,
		skeleton:      slices.Clone(b.skeleton),
		skeletonPos:   make(map[string]int),
		terminals:     make(map[string]bool),
	}
	for id := range b.stages {
		g.ids = append(g.ids, id)
	}
	sort.Strings(g.ids)

	for _, t := range g.transitions {
		g.outgoing[t.From] = append(g.outgoing[t.From], t.To)
		g.incoming[t.To] = append(g.incoming[t.To], t.From)
	}
	for id := range g.outgoing {
		sort.Strings(g.outgoing[id])
	}
	for id := range g.incoming {
		sort.Strings(g.incoming[id])
	}
	slices.SortStableFunc(g.transitions, func(a, b *Transition) int {
		return a.Ordinal - b.Ordinal
	})

	for i, id := range g.skeleton {
		if _, seen := g.skeletonPos[id]; !seen {
			g.skeletonPos[id] = i
		}
	}
	for _, id := range b.terminals {
		g.terminals[id] = true
	}

	return g, nil
}
