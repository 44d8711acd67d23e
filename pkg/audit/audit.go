// Package audit re-checks generated rows against their skeletons and the
// path rules. Mechanical deviations are corrected in place; everything else
// is flagged. The audit never drops a row.
package audit

import (
	"strings"

	"github.com/dd0wney/jnetc/pkg/demand"
	"github.com/dd0wney/jnetc/pkg/paths"
	"github.com/dd0wney/jnetc/pkg/result"
	"github.com/dd0wney/jnetc/pkg/templates"
	"github.com/dd0wney/jnetc/pkg/topology"
)

// Auditor holds the read-only lookups shared by every row. It is safe for
// concurrent use on distinct rows.
type Auditor struct {
	graph    *topology.Graph
	resolver *paths.Resolver
	demand   *demand.Builder
}

// New creates an auditor over the resolver's graph
func New(resolver *paths.Resolver, builder *demand.Builder) *Auditor {
	return &Auditor{
		graph:    resolver.Graph(),
		resolver: resolver,
		demand:   builder,
	}
}

// rowAudit carries the state of one row through the checks
type rowAudit struct {
	row     *result.Row
	skel    templates.Skeleton
	values  map[templates.Slot]string
	changed bool
}

func (ra *rowAudit) correct(slot templates.Slot, value string, d result.Diagnostic) {
	ra.values[slot] = value
	ra.changed = true
	ra.row.AddDiagnostics(d)
}

func (ra *rowAudit) flag(code, format string, args ...any) {
	ra.row.AddDiagnostics(result.Note(code, format, args...))
}

// Audit checks one row and rewrites its expression when a correction is
// made. Error rows are left untouched.
func (a *Auditor) Audit(row *result.Row) {
	if !row.OK() {
		return
	}
	skel, ok := templates.Lookup(row.Template, row.Variant)
	if !ok {
		row.AddDiagnostics(result.Note(result.CodeStructureMismatch,
			"no skeleton for template %s variant %q", row.Template, row.Variant))
		return
	}
	from, to := a.graph.Stage(row.From), a.graph.Stage(row.To)
	if from == nil || to == nil {
		row.AddDiagnostics(result.Note(result.CodeStructureMismatch,
			"row names unknown stage in %s->%s", row.From, row.To))
		return
	}

	bound := map[templates.Slot]string{
		templates.SlotCurrent: from.ID,
		templates.SlotTarget:  to.ID,
		templates.SlotLig:     to.ID,
		templates.SlotGT:      templates.GTFunc(from),
	}

	ra := &rowAudit{row: row, skel: skel}
	caps, err := matchSkeleton(skel, bound, row.Expression)
	if err != nil {
		ra.flag(result.CodeStructureMismatch, "%s->%s: %v", row.From, row.To, err)
		return
	}
	if caps == nil {
		ra.flag(result.CodeStructureMismatch,
			"%s->%s does not match skeleton %s", row.From, row.To, skel.Name)
		return
	}

	ra.values = make(map[templates.Slot]string, len(bound)+len(caps))
	for slot, v := range bound {
		ra.values[slot] = v
	}
	for slot, vs := range caps {
		if !allEqual(vs) {
			code := result.CodeSlotMismatch
			if row.Template == templates.A && slot == templates.SlotAT {
				code = result.CodeSplitLRT
			}
			ra.flag(code, "slot %s carries differing values %s", slot, strings.Join(vs, " | "))
			return
		}
		ra.values[slot] = vs[0]
	}

	a.checkDemand(ra)
	a.checkPaths(ra)
	if row.Template == templates.A {
		a.checkNearestLRT(ra)
	}
	if skel.EGGate {
		for _, msg := range egCoOccurrence(row.Expression, from.ID) {
			ra.flag(result.CodeEGMissing, "%s", msg)
		}
	}
	if skel.ForceSlot != "" {
		a.checkForceMove(ra)
	}

	if !ra.changed {
		return
	}
	expr, err := skel.Fill(ra.values)
	if err != nil {
		ra.flag(result.CodeStructureMismatch, "corrected values do not fill %s: %v", skel.Name, err)
		return
	}
	row.Expression = expr
}

func matchSkeleton(skel templates.Skeleton, bound map[templates.Slot]string, expr string) (map[templates.Slot][]string, error) {
	texts := []string{skel.WithDemand}
	if skel.WithoutDemand != skel.WithDemand {
		texts = append(texts, skel.WithoutDemand)
	}
	for _, text := range texts {
		m, err := compileMatcher(text, bound)
		if err != nil {
			return nil, err
		}
		if caps := m.captures(expr); caps != nil {
			return caps, nil
		}
	}
	return nil, nil
}

func hasDemandSlot(skel templates.Skeleton) bool {
	return strings.Contains(skel.WithDemand, "{"+string(templates.SlotDemand)+"}")
}

func (a *Auditor) checkDemand(ra *rowAudit) {
	if !hasDemandSlot(ra.skel) {
		return
	}
	want := a.demand.Build(ra.row.From, ra.row.To).String()
	got := ra.values[templates.SlotDemand]
	if got == want {
		return
	}
	ra.correct(templates.SlotDemand, want, result.Correction(result.CodeDemandCorrected,
		"demand %q recomputed as %q", got, want))
}

func (a *Auditor) checkPaths(ra *rowAudit) {
	for _, slot := range ra.skel.Slots(true) {
		text, ok := ra.values[slot]
		if !ok || slot.Kind() == templates.NotAPath {
			continue
		}
		p, err := paths.Decode(a.graph, text)
		if err != nil {
			ra.flag(result.CodeUnknownToken, "slot %s: %v", slot, err)
			continue
		}
		switch slot.Kind() {
		case templates.WaitPath:
			a.checkWait(ra, slot, text, p)
		case templates.ArrivalPath:
			a.checkArrival(ra, slot, text, p)
		}
	}
}

func (a *Auditor) checkWait(ra *rowAudit, slot templates.Slot, text string, p paths.Path) {
	if _, ok := p.Arrival(); ok {
		ra.flag(result.CodeStructureMismatch, "slot %s: wait path %s ends in an arrival token", slot, text)
		return
	}
	stages := p.Stages()
	truncated := paths.TruncateAtStop(a.graph, stages)
	extended := false
	if n := len(truncated); n > 1 && paths.StopIndex(a.graph, truncated) < 0 && !a.graph.IsTerminal(truncated[n-1].ID) {
		va := a.graph.VehicleAnchor()
		if va == nil {
			ra.flag(result.CodeStructureMismatch, "slot %s: wait path %s does not end at an anchor", slot, text)
			return
		}
		truncated = append(truncated[:n:n], va)
		extended = true
	}
	canonical := paths.Wait(truncated)
	fixed := canonical.String()
	if fixed == text {
		return
	}

	code := result.CodeSuffixCorrected
	switch {
	case extended, len(truncated) < len(stages):
		code = result.CodeAnchorStopFixed
	case !sameShape(p, canonical):
		code = result.CodeClearanceFixed
	}
	ra.correct(slot, fixed, result.Correction(code, "slot %s: %s rewritten as %s", slot, text, fixed))
}

func (a *Auditor) checkArrival(ra *rowAudit, slot templates.Slot, text string, p paths.Path) {
	lrt, ok := p.Arrival()
	if !ok {
		ra.flag(result.CodeStructureMismatch, "slot %s: arrival path %s has no arrival token", slot, text)
		return
	}
	canonical := paths.Arrive(p.Stages(), lrt)
	fixed := canonical.String()
	if fixed == text {
		return
	}
	code := result.CodeSuffixCorrected
	if !sameShape(p, canonical) {
		code = result.CodeClearanceFixed
	}
	ra.correct(slot, fixed, result.Correction(code, "slot %s: %s rewritten as %s", slot, text, fixed))
}

// sameShape reports whether two paths carry the same token kinds in order
func sameShape(a, b paths.Path) bool {
	if len(a.Tokens) != len(b.Tokens) {
		return false
	}
	for i := range a.Tokens {
		if a.Tokens[i].Kind != b.Tokens[i].Kind {
			return false
		}
	}
	return true
}

// checkNearestLRT verifies that a Template A row names the LRT its variant
// calls for in the arrival path.
func (a *Auditor) checkNearestLRT(ra *rowAudit) {
	p, err := paths.Decode(a.graph, ra.values[templates.SlotAT])
	if err != nil {
		return
	}
	got, ok := p.Arrival()
	if !ok {
		return
	}

	var want *topology.Stage
	switch ra.row.Variant {
	case templates.A1:
		m, ok := a.resolver.NearestLRT(ra.row.To)
		if !ok {
			return
		}
		want = m.Stage
	case templates.A2:
		m, _, err := a.resolver.ThreatStrategy().Threat(a.resolver, ra.row.From, ra.row.To)
		if err != nil {
			return
		}
		want = m.Stage
	}
	if want != nil && want.ID != got.ID {
		ra.flag(result.CodeSplitLRT, "arrival names %s but the %s rule selects %s",
			got.ID, ra.row.Variant, want.ID)
	}
}

// checkForceMove flags force-move steps with no declared transition. Rows
// are never rewritten for this.
func (a *Auditor) checkForceMove(ra *rowAudit) {
	p, err := paths.Decode(a.graph, ra.values[ra.skel.ForceSlot])
	if err != nil {
		return
	}
	stages := p.Stages()
	var missing []string
	for i := 1; i < len(stages); i++ {
		if !a.graph.HasEdge(stages[i-1].ID, stages[i].ID) {
			missing = append(missing, stages[i-1].ID+"->"+stages[i].ID)
		}
	}
	if len(missing) > 0 {
		ra.flag(result.CodeForceUndeclared, "force-move path uses undeclared transition(s) %s",
			strings.Join(missing, ", "))
	}
}

func allEqual(vs []string) bool {
	for _, v := range vs[1:] {
		if v != vs[0] {
			return false
		}
	}
	return true
}
