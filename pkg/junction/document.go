// Package junction loads junction documents and builds their topology
// graph. Every problem in a document is reported at once as a ConfigError.
package junction

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of a junction
type Document struct {
	Junction    string             `yaml:"junction,omitempty" validate:"omitempty,max=64"`
	General     General            `yaml:"general"`
	Terminals   []string           `yaml:"terminals,omitempty" validate:"dive,stageid"`
	Stages      []StageRecord      `yaml:"stages" validate:"dive"`
	InterStages []TransitionRecord `yaml:"inter_stages" validate:"required,min=1,dive"`
}

// General holds the junction-wide settings
type General struct {
	VehicleAnchor   string `yaml:"vehicle_anchor" validate:"required,stageid"`
	LRTAnchor       string `yaml:"lrt_anchor,omitempty" validate:"omitempty,stageid"`
	MaximumSkeleton string `yaml:"maximum_skeleton,omitempty"`
}

// StageRecord describes one stage. Kind is inferred from the identifier
// when omitted.
type StageRecord struct {
	Stage           string `yaml:"stage" validate:"required,stageid"`
	Kind            string `yaml:"kind,omitempty" validate:"omitempty,oneof=vehicle v lrt l lig ligclearance lig_clearance"`
	MinimumType     string `yaml:"minimum_type,omitempty" validate:"omitempty,oneof=cpn min"`
	Detector        string `yaml:"detector,omitempty" validate:"omitempty,detector"`
	SiblingGroup    string `yaml:"sibling_group,omitempty"`
	SiblingPriority int    `yaml:"sibling_priority,omitempty" validate:"gte=0"`
	WaterfallLevel  *int   `yaml:"waterfall_level,omitempty" validate:"omitempty,gte=0"`
}

// TransitionRecord describes one declared transition. A nil
// RestOfSkeleton, an empty string or "derive" asks for a derived walk;
// "end" or "end of skeleton" is an explicit empty rest.
type TransitionRecord struct {
	From           string  `yaml:"from" validate:"required,stageid"`
	To             string  `yaml:"to" validate:"required,stageid"`
	RestOfSkeleton *string `yaml:"rest_of_skeleton,omitempty"`
	Row            int     `yaml:"row,omitempty" validate:"gte=0"`
}

// Canonical renders the document in a stable YAML form. Two documents that
// compile identically produce the same bytes.
func (d *Document) Canonical() ([]byte, error) {
	return yaml.Marshal(d)
}

// SplitTokens splits a skeleton or rest string such as "A0 - B - C - A0"
// into identifiers. Arrows are accepted as separators.
func SplitTokens(s string) []string {
	s = strings.ReplaceAll(s, "→", "-")
	s = strings.ReplaceAll(s, "->", "-")
	var out []string
	for _, part := range strings.Split(s, "-") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// restSpec interprets a rest-of-skeleton value
type restSpec struct {
	derive bool
	tokens []string
}

func parseRest(raw *string) restSpec {
	if raw == nil {
		return restSpec{derive: true}
	}
	v := strings.TrimSpace(*raw)
	switch strings.ToLower(v) {
	case "", "derive":
		return restSpec{derive: true}
	case "end", "end of skeleton":
		return restSpec{tokens: []string{}}
	}
	return restSpec{tokens: SplitTokens(v)}
}
