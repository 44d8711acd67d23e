package junction

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/jnetc/pkg/paths"
	"github.com/dd0wney/jnetc/pkg/topology"
	"github.com/dd0wney/jnetc/pkg/validation"
)

// Junction is a loaded document together with its built graph
type Junction struct {
	Name     string
	Source   string
	Document *Document
	Graph    *topology.Graph
}

type loadOptions struct {
	interStages string
	name        string
}

// LoadOption configures Load
type LoadOption func(*loadOptions)

// WithInterStages replaces the document's inter_stages with the rows of a
// CSV table
func WithInterStages(path string) LoadOption {
	return func(o *loadOptions) { o.interStages = path }
}

// WithName overrides the junction name
func WithName(name string) LoadOption {
	return func(o *loadOptions) { o.name = name }
}

// Load reads a junction document from disk and builds its graph
func Load(path string, opts ...LoadOption) (*Junction, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read junction: %w", err)
	}
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ConfigError{Source: path, Problems: []error{err}}
	}

	if o.interStages != "" {
		f, err := os.Open(o.interStages)
		if err != nil {
			return nil, fmt.Errorf("open inter-stages table: %w", err)
		}
		defer f.Close()
		records, err := ReadInterStages(f)
		if err != nil {
			return nil, &ConfigError{Source: o.interStages, Problems: flatten(err)}
		}
		doc.InterStages = records
	}

	name := validation.DefaultOr(o.name, validation.DefaultOr(doc.Junction, NameFromPath(path)))
	return FromDocument(name, path, doc)
}

// Decode parses a YAML junction document. Unknown keys are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty junction document")
		}
		return nil, fmt.Errorf("parse junction document: %w", err)
	}
	return &doc, nil
}

// FromDocument checks every record of doc and builds the graph. All
// problems are returned together in a *ConfigError.
func FromDocument(name, source string, doc *Document) (*Junction, error) {
	cv := validation.NewConfigValidator("junction")
	cv.Add(validation.Struct(doc)...)
	checkRecords(cv, doc)
	if cv.HasErrors() {
		return nil, &ConfigError{Source: source, Problems: flatten(cv.Validate())}
	}

	g, err := buildGraph(doc)
	if err != nil {
		return nil, &ConfigError{Source: source, Problems: flatten(err)}
	}
	return &Junction{Name: name, Source: source, Document: doc, Graph: g}, nil
}

func recordKind(rec StageRecord) topology.Kind {
	if rec.Kind == "" {
		return topology.InferKind(rec.Stage)
	}
	k, err := topology.ParseKind(rec.Kind)
	if err != nil {
		return topology.InferKind(rec.Stage)
	}
	return k
}

// checkRecords applies the rules that span more than one field
func checkRecords(cv *validation.ConfigValidator, doc *Document) {
	va := doc.General.VehicleAnchor
	ids := make(map[string]string)
	ranks := make(map[string]string)
	declared := make(map[string]bool)

	for i, rec := range doc.Stages {
		field := fmt.Sprintf("stages[%d]", i)
		declared[rec.Stage] = true
		cv.Unique(field+".stage", rec.Stage, ids)

		switch recordKind(rec) {
		case topology.Vehicle:
			cv.When(rec.Stage != va, func(v *validation.ConfigValidator) {
				v.Required(field+".minimum_type", rec.MinimumType)
			})
		default:
			cv.Forbidden(field+".minimum_type", rec.MinimumType, "only vehicle stages carry a compensation class")
		}

		cv.When(rec.SiblingGroup != "", func(v *validation.ConfigValidator) {
			v.Positive(field+".sibling_priority", rec.SiblingPriority)
			if rec.SiblingPriority > 0 {
				v.Unique(field+".sibling_priority",
					fmt.Sprintf("%s#%d", rec.SiblingGroup, rec.SiblingPriority), ranks)
			}
		})
	}

	reported := make(map[string]bool)
	for i, rec := range doc.InterStages {
		for _, end := range []struct{ field, id string }{{"from", rec.From}, {"to", rec.To}} {
			id := end.id
			if id == "" || declared[id] || reported[id] || id == va {
				continue
			}
			if topology.InferKind(id) != topology.Vehicle {
				continue
			}
			reported[id] = true
			cv.Custom(fmt.Sprintf("inter_stages[%d].%s", i, end.field), func() error {
				return fmt.Errorf("vehicle stage %s is not declared in stages and has no minimum_type", id)
			})
		}
	}
}

// buildGraph converts records to topology values. Stages referenced by a
// transition but not declared are added with their inferred kind.
func buildGraph(doc *Document) (*topology.Graph, error) {
	b := topology.NewBuilder().
		SetAnchors(doc.General.VehicleAnchor, doc.General.LRTAnchor).
		SetSkeleton(SplitTokens(doc.General.MaximumSkeleton)).
		SetTerminals(doc.Terminals)

	known := make(map[string]bool)
	var errs []error
	for _, rec := range doc.Stages {
		st, err := rec.stage()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		known[st.ID] = true
		b.AddStage(st)
	}
	for _, rec := range doc.InterStages {
		for _, id := range []string{rec.From, rec.To} {
			if !known[id] {
				known[id] = true
				b.AddStage(topology.Stage{ID: id, Kind: topology.InferKind(id)})
			}
		}
	}

	for i, rec := range doc.InterStages {
		t := topology.Transition{From: rec.From, To: rec.To, Ordinal: rec.Row}
		if t.Ordinal == 0 {
			t.Ordinal = i + 2
		}
		if rest := parseRest(rec.RestOfSkeleton); !rest.derive {
			t.HasRest = true
			t.Rest = normalizeRest(rest.tokens, known)
		}
		b.AddTransition(t)
	}

	g, err := b.Build()
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return g, nil
}

func (rec StageRecord) stage() (topology.Stage, error) {
	comp, err := topology.ParseCompensation(rec.MinimumType)
	if err != nil {
		return topology.Stage{}, fmt.Errorf("stage %s: %w", rec.Stage, err)
	}
	return topology.Stage{
		ID:             rec.Stage,
		Kind:           recordKind(rec),
		Compensation:   comp,
		Detector:       rec.Detector,
		SiblingGroup:   rec.SiblingGroup,
		PriorityRank:   rec.SiblingPriority,
		WaterfallLevel: rec.WaterfallLevel,
	}, nil
}

// normalizeRest drops clearance markers and compensation suffixes that
// hand-written rests sometimes carry. Unknown tokens are kept so the graph
// builder reports them.
func normalizeRest(tokens []string, known map[string]bool) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == paths.ClearanceMarker {
			continue
		}
		if !known[tok] {
			for _, sfx := range []topology.CompensationClass{topology.Compensated, topology.Minimum} {
				if base, ok := strings.CutSuffix(tok, string(sfx)); ok && known[base] {
					tok = base
					break
				}
			}
		}
		out = append(out, tok)
	}
	return out
}

var junctionCode = regexp.MustCompile(`[A-Z]{2}\d{2}`)
var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// NameFromPath derives a junction name from a file name: the first
// two-letter, two-digit code, else the sanitized stem.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	if code := junctionCode.FindString(base); code != "" {
		return code
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if name := strings.Trim(unsafeName.ReplaceAllString(stem, "_"), "_"); name != "" {
		return name
	}
	return "junction"
}
