package compiler

import (
	"fmt"

	"github.com/dd0wney/jnetc/pkg/classify"
	"github.com/dd0wney/jnetc/pkg/demand"
	"github.com/dd0wney/jnetc/pkg/paths"
	"github.com/dd0wney/jnetc/pkg/result"
	"github.com/dd0wney/jnetc/pkg/templates"
	"github.com/dd0wney/jnetc/pkg/topology"
)

// generator binds slot values for one transition. It only reads shared
// lookups, so one generator serves every worker.
type generator struct {
	graph    *topology.Graph
	classify *classify.Classifier
	demand   *demand.Builder
	resolver *paths.Resolver
}

func newGenerator(g *topology.Graph, r *paths.Resolver) *generator {
	return &generator{
		graph:    g,
		classify: classify.New(g),
		demand:   demand.NewBuilder(g),
		resolver: r,
	}
}

// binding is the in-progress state of one row
type binding struct {
	from, to *topology.Stage
	diags    []result.Diagnostic
}

func (b *binding) note(d ...result.Diagnostic) {
	b.diags = append(b.diags, d...)
}

// row classifies and renders one transition. Failures are recorded on the
// row and never escape.
func (gen *generator) row(t *topology.Transition) result.Row {
	row := result.Row{Ordinal: t.Ordinal, From: t.From, To: t.To}

	c, err := gen.classify.Classify(t.From, t.To)
	if err != nil {
		row.Err = result.NewRowError(result.ClassificationFailed, err)
		return row
	}
	row.Template, row.Variant = c.Template, c.Variant

	b := &binding{from: gen.graph.Stage(t.From), to: gen.graph.Stage(t.To)}
	var expr string
	switch c.Template {
	case templates.A:
		expr, err = gen.bindA(b, c.Variant)
	case templates.B:
		expr, err = gen.bindB(b)
	case templates.C:
		expr, err = gen.bindC(b)
	case templates.D:
		expr, err = gen.bindD(b)
	case templates.E:
		expr, err = gen.bindE(b)
	case templates.F:
		expr, err = templates.RenderF(templates.SlotsF{Demand: gen.demandFor(b)})
	case templates.G:
		expr, err = gen.bindG(b)
	default:
		err = fmt.Errorf("template %s has no binding", c.Template)
	}
	row.AddDiagnostics(b.diags...)
	if err != nil {
		row.Err = result.NewRowError(result.SubstitutionFailed, err)
		return row
	}
	row.Expression = expr
	return row
}

func (gen *generator) demandFor(b *binding) string {
	return gen.demand.Build(b.from.ID, b.to.ID).String()
}

// continuation returns from, to and the rest of the skeleton after to
func (gen *generator) continuation(b *binding, from, to *topology.Stage) ([]*topology.Stage, error) {
	rest, err := gen.resolver.RestOfSkeleton(from.ID, to.ID)
	if err != nil {
		return nil, err
	}
	if rest.Configured {
		b.note(result.Note(result.CodeConfiguredRest,
			"rest of skeleton for %s->%s taken from configuration", from.ID, to.ID))
	}
	seq := make([]*topology.Stage, 0, len(rest.Stages)+3)
	seq = append(seq, from, to)
	seq = append(seq, rest.Stages...)

	// A configured rest may stop short of an anchor, e.g. "end of skeleton"
	// after a non-anchor LRT. Only an anchor or terminal may end the path.
	last := seq[len(seq)-1]
	if paths.StopIndex(gen.graph, seq) < 0 && !gen.graph.IsTerminal(last.ID) {
		va := gen.graph.VehicleAnchor()
		if va == nil {
			return nil, fmt.Errorf("%w: %s->%s ends at %s", paths.ErrNoWalk, from.ID, to.ID, last.ID)
		}
		b.note(result.Note(result.CodeConfiguredRest,
			"rest of skeleton for %s->%s extended to vehicle anchor %s", from.ID, to.ID, va.ID))
		seq = append(seq, va)
	}
	return seq, nil
}

// tail returns the stages after to in a continuation, defaulting to the
// vehicle anchor when the walk ends at to
func (gen *generator) tail(seq []*topology.Stage) []*topology.Stage {
	if len(seq) > 2 {
		return seq[2:]
	}
	return []*topology.Stage{gen.graph.VehicleAnchor()}
}

func (gen *generator) arrival(b *binding, template string, slot templates.Slot, id string) (*topology.Stage, error) {
	lrt, diags, ok := gen.resolver.ArrivalFor(id)
	if !ok {
		return nil, templates.Unresolved(template, slot, "%v after %s", paths.ErrNoLRT, id)
	}
	b.note(diags...)
	return lrt, nil
}

func (gen *generator) bindA(b *binding, v templates.Variant) (string, error) {
	name := string(v)

	var lrt *topology.Stage
	switch v {
	case templates.A1:
		m, ok := gen.resolver.NearestLRT(b.to.ID)
		if !ok {
			return "", templates.Unresolved(name, templates.SlotAT, "%v from target %s", paths.ErrNoLRT, b.to.ID)
		}
		b.note(m.Diagnostics(b.to.ID)...)
		lrt = m.Stage
	default:
		m, diags, err := gen.resolver.ThreatStrategy().Threat(gen.resolver, b.from.ID, b.to.ID)
		if err != nil {
			return "", &templates.SubstitutionError{Template: name, Slot: templates.SlotAT, Cause: err}
		}
		b.note(diags...)
		lrt = m.Stage
	}

	force, err := gen.continuation(b, b.from, b.to)
	if err != nil {
		return "", &templates.SubstitutionError{Template: name, Slot: templates.SlotForce, Cause: err}
	}
	bypass, err := gen.bypass(b, lrt)
	if err != nil {
		return "", &templates.SubstitutionError{Template: name, Slot: templates.SlotBypass, Cause: err}
	}

	s := templates.SlotsA{
		Current: b.from.ID,
		GT:      templates.GTFunc(b.from),
		Demand:  gen.demandFor(b),
		AT:      paths.Arrive([]*topology.Stage{b.from, b.to}, lrt).String(),
		Bypass:  paths.Wait(bypass).String(),
		Force:   paths.Wait(force).String(),
	}
	if v == templates.A1 {
		return templates.RenderA1(s)
	}
	return templates.RenderA2(s)
}

// bypass builds the time-feasibility path of template A. It starts at the
// LRT the source can call directly, else the arrival LRT. The LRT anchor
// ends the path at once.
func (gen *generator) bypass(b *binding, arrival *topology.Stage) ([]*topology.Stage, error) {
	lrt, ok := gen.resolver.DirectLRT(b.from.ID)
	if !ok {
		lrt = arrival
	}
	if lrt == nil {
		lrt = gen.graph.LRTAnchor()
	}
	if lrt == nil {
		return nil, paths.ErrNoLRT
	}
	if gen.graph.IsLRTAnchor(lrt.ID) {
		return []*topology.Stage{b.from, lrt}, nil
	}
	return gen.continuation(b, b.from, lrt)
}

func (gen *generator) bindB(b *binding) (string, error) {
	seq, err := gen.continuation(b, b.from, b.to)
	if err != nil {
		return "", &templates.SubstitutionError{Template: "B", Slot: templates.SlotWTG, Cause: err}
	}
	next := gen.resolver.FirstVehicle(gen.tail(seq))
	lrt, err := gen.arrival(b, "B", templates.SlotATNext, next.ID)
	if err != nil {
		return "", err
	}
	return templates.RenderB(templates.SlotsB{
		Current: b.from.ID,
		GT:      templates.GTFunc(b.from),
		WTG:     paths.Wait(seq).String(),
		ATLRT:   paths.Arrive([]*topology.Stage{b.from}, b.to).String(),
		ATNext:  paths.Arrive([]*topology.Stage{b.from, next}, lrt).String(),
	})
}

func (gen *generator) bindC(b *binding) (string, error) {
	seq, err := gen.continuation(b, b.from, b.to)
	if err != nil {
		return "", &templates.SubstitutionError{Template: "C", Slot: templates.SlotWTG, Cause: err}
	}
	return templates.RenderC(templates.SlotsC{
		Current: b.from.ID,
		GT:      templates.GTFunc(b.from),
		WTG:     paths.Wait(seq).String(),
		AT:      paths.Arrive([]*topology.Stage{b.from}, b.to).String(),
	})
}

func (gen *generator) bindD(b *binding) (string, error) {
	seq, err := gen.continuation(b, b.from, b.to)
	if err != nil {
		return "", &templates.SubstitutionError{Template: "D", Slot: templates.SlotWTG, Cause: err}
	}
	lrt, err := gen.arrival(b, "D", templates.SlotAT, b.to.ID)
	if err != nil {
		return "", err
	}
	return templates.RenderD(templates.SlotsD{
		Target: b.to.ID,
		Demand: gen.demandFor(b),
		AT:     paths.Arrive([]*topology.Stage{b.from, b.to}, lrt).String(),
		WTG:    paths.Wait(seq).String(),
	})
}

func (gen *generator) bindE(b *binding) (string, error) {
	seq, err := gen.continuation(b, b.from, b.to)
	if err != nil {
		return "", &templates.SubstitutionError{Template: "E", Slot: templates.SlotWTG, Cause: err}
	}
	next := gen.resolver.FirstVehicle(gen.tail(seq))
	lrt, err := gen.arrival(b, "E", templates.SlotAT, next.ID)
	if err != nil {
		return "", err
	}
	return templates.RenderE(templates.SlotsE{
		Current: b.from.ID,
		Lig:     b.to.ID,
		GT:      templates.GTFunc(b.from),
		AT:      paths.Arrive([]*topology.Stage{b.from, b.to, next}, lrt).String(),
		WTG:     paths.Wait(seq).String(),
	})
}

func (gen *generator) bindG(b *binding) (string, error) {
	seq, err := gen.continuation(b, b.from, b.to)
	if err != nil {
		return "", &templates.SubstitutionError{Template: "G", Slot: templates.SlotWTG, Cause: err}
	}
	// Both arrival paths name the target LRT; the second reaches it by way
	// of the next vehicle.
	next := gen.resolver.NextVehicle(b.from.ID)
	if next == nil {
		return "", templates.Unresolved("G", templates.SlotATNext, "no vehicle stage after %s", b.from.ID)
	}
	return templates.RenderG(templates.SlotsG{
		Current: b.from.ID,
		WTG:     paths.Wait(seq).String(),
		ATLRT:   paths.Arrive([]*topology.Stage{b.from}, b.to).String(),
		ATNext:  paths.Arrive([]*topology.Stage{b.from, next}, b.to).String(),
	})
}
