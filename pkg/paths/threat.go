package paths

import (
	"fmt"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/dd0wney/jnetc/pkg/result"
)

// ThreatStrategy picks the LRT whose arrival threatens a vehicle move when
// the target cannot call an LRT stage directly.
type ThreatStrategy interface {
	Name() string
	Threat(r *Resolver, from, to string) (LRTMatch, []result.Diagnostic, error)
}

// ContextThreat looks for the nearest LRT beyond the target, then the
// nearest LRT from the source, then falls back to the LRT anchor.
type ContextThreat struct{}

func (ContextThreat) Name() string { return "context" }

func (ContextThreat) Threat(r *Resolver, from, to string) (LRTMatch, []result.Diagnostic, error) {
	if m, ok := r.NearestLRT(to); ok {
		return m, append(m.Diagnostics(to), result.Note(result.CodeThreatLRT,
			"threatening LRT %s found %d hop(s) beyond target %s", m.Stage.ID, m.Distance, to)), nil
	}
	if m, ok := r.NearestLRT(from); ok {
		return m, append(m.Diagnostics(from), result.Note(result.CodeThreatLRT,
			"no LRT beyond target %s; threatening LRT %s taken from source %s", to, m.Stage.ID, from)), nil
	}
	if la := r.graph.LRTAnchor(); la != nil {
		return LRTMatch{Stage: la, Distance: -1}, []result.Diagnostic{result.Note(result.CodeThreatLRT,
			"no reachable LRT from %s or %s; using LRT anchor %s", from, to, la.ID)}, nil
	}
	return LRTMatch{}, nil, fmt.Errorf("%w from %s or %s", ErrNoLRT, from, to)
}

// AnchorThreat always names the LRT anchor
type AnchorThreat struct{}

func (AnchorThreat) Name() string { return "anchor" }

func (AnchorThreat) Threat(r *Resolver, from, to string) (LRTMatch, []result.Diagnostic, error) {
	la := r.graph.LRTAnchor()
	if la == nil {
		return LRTMatch{}, nil, fmt.Errorf("%w: no LRT anchor declared", ErrNoLRT)
	}
	return LRTMatch{Stage: la, Distance: -1}, []result.Diagnostic{result.Note(result.CodeThreatLRT,
		"threatening LRT is the LRT anchor %s", la.ID)}, nil
}

var strategies = map[string]ThreatStrategy{
	ContextThreat{}.Name(): ContextThreat{},
	AnchorThreat{}.Name():  AnchorThreat{},
}

// StrategyByName returns a registered threat strategy
func StrategyByName(name string) (ThreatStrategy, error) {
	s, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrStrategy, name, StrategyNames())
	}
	return s, nil
}

// StrategyNames lists the registered strategies
func StrategyNames() []string {
	names := maps.Keys(strategies)
	slices.Sort(names)
	return names
}
