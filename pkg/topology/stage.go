package topology

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the operational category of a stage
type Kind int

const (
	// Vehicle stages serve road traffic
	Vehicle Kind = iota
	// LRT stages serve the light-rail vehicle
	LRT
	// LigClearance stages clear the crossing after a light-rail movement
	LigClearance
)

// String returns the string representation of a kind
func (k Kind) String() string {
	switch k {
	case Vehicle:
		return "vehicle"
	case LRT:
		return "lrt"
	case LigClearance:
		return "lig"
	default:
		return "unknown"
	}
}

// ParseKind converts a configuration value to a Kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vehicle", "v":
		return Vehicle, nil
	case "lrt", "l":
		return LRT, nil
	case "lig", "ligclearance", "lig_clearance":
		return LigClearance, nil
	default:
		return Vehicle, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

var (
	lrtNaming = regexp.MustCompile(`^L\d+$`)
	ligNaming = regexp.MustCompile(`^A[3-9]\d$`)
)

// InferKind assigns a kind from the controller naming convention. It is only
// consulted when a junction file leaves the kind unset.
func InferKind(id string) Kind {
	switch {
	case lrtNaming.MatchString(id):
		return LRT
	case ligNaming.MatchString(id):
		return LigClearance
	default:
		return Vehicle
	}
}

// CompensationClass is the suffix a vehicle stage carries inside a path
type CompensationClass string

const (
	CompensationNone CompensationClass = ""
	Compensated      CompensationClass = "cpn"
	Minimum          CompensationClass = "min"
)

// ParseCompensation converts a configuration value to a CompensationClass
func ParseCompensation(s string) (CompensationClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return CompensationNone, nil
	case "cpn":
		return Compensated, nil
	case "min":
		return Minimum, nil
	default:
		return CompensationNone, fmt.Errorf("%w: %q", ErrUnknownCompensation, s)
	}
}

// Stage is a discrete signal phase of the junction controller.
// Stages are immutable once a Graph has been built.
type Stage struct {
	ID           string
	Kind         Kind
	Compensation CompensationClass
	Detector     string
	// SiblingGroup groups stages sharing one slot. PriorityRank is only
	// meaningful within a group, 1 is highest.
	SiblingGroup string
	PriorityRank int
	// WaterfallLevel is nil when the stage takes no part in the waterfall
	WaterfallLevel *int
}

// HasDetector reports whether the stage has a demand detector
func (s *Stage) HasDetector() bool {
	return s.Detector != ""
}

// InSiblingGroup reports whether the stage shares its slot with others
func (s *Stage) InSiblingGroup() bool {
	return s.SiblingGroup != ""
}

// Level returns the waterfall level and whether one is defined
func (s *Stage) Level() (int, bool) {
	if s.WaterfallLevel == nil {
		return 0, false
	}
	return *s.WaterfallLevel, true
}

// Suffix is the compensation class rendered after a middle path token.
// A stage without a class renders as min.
func (s *Stage) Suffix() string {
	if s.Compensation == CompensationNone {
		return string(Minimum)
	}
	return string(s.Compensation)
}

func (s *Stage) String() string {
	return s.ID
}
