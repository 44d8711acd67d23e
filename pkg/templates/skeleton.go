// Package templates holds the logic-expression skeletons and renders them
// from resolved slot values. Each skeleton is rendered by its own function
// and shares no text with the others.
package templates

import (
	"regexp"
	"strings"
)

// ID identifies a structural template
type ID string

const (
	A ID = "A"
	B ID = "B"
	C ID = "C"
	D ID = "D"
	E ID = "E"
	F ID = "F"
	G ID = "G"
)

// Variant refines a template. Only template A has variants.
type Variant string

const (
	NoVariant Variant = ""
	A1        Variant = "A1"
	A2        Variant = "A2"
)

// Slot names a placeholder inside a skeleton
type Slot string

const (
	SlotCurrent Slot = "cur"
	SlotTarget  Slot = "to"
	SlotLig     Slot = "lig"
	SlotGT      Slot = "gt"
	SlotDemand  Slot = "demand"
	SlotAT      Slot = "at"
	SlotATNext  Slot = "at_next"
	SlotWTG     Slot = "wtg"
	SlotBypass  Slot = "bypass"
	SlotForce   Slot = "force"
)

// PathKind tells how a slot's value is constructed
type PathKind int

const (
	NotAPath PathKind = iota
	// WaitPath is a WTG argument: clearance markers allowed, anchor stop applies
	WaitPath
	// ArrivalPath is an AT argument ending in an arrival token
	ArrivalPath
)

// Kind returns how the slot's value is built
func (s Slot) Kind() PathKind {
	switch s {
	case SlotWTG, SlotBypass, SlotForce:
		return WaitPath
	case SlotAT, SlotATNext:
		return ArrivalPath
	default:
		return NotAPath
	}
}

// NoLogic is emitted when a template has no operative condition
const NoLogic = "NO_LOGIC"

// Skeleton is the immutable text of one template variant
type Skeleton struct {
	Name     string
	Template ID
	Variant  Variant
	// WithDemand is used when the demand slot is non-empty, WithoutDemand
	// otherwise. Skeletons without a demand slot set both to the same text.
	WithDemand    string
	WithoutDemand string
	// EGGate marks skeletons whose PL=0 branch and AT_greater checks must
	// carry EG_{cur}=true
	EGGate bool
	// ForceSlot is the slot holding the force-move path, if any
	ForceSlot Slot
}

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// Text returns the skeleton text chosen by whether demand is present
func (s Skeleton) Text(hasDemand bool) string {
	if hasDemand {
		return s.WithDemand
	}
	return s.WithoutDemand
}

// Slots returns the placeholders of the chosen text in order of first use
func (s Skeleton) Slots(hasDemand bool) []Slot {
	seen := make(map[Slot]bool)
	var out []Slot
	for _, m := range placeholder.FindAllStringSubmatch(s.Text(hasDemand), -1) {
		slot := Slot(m[1])
		if !seen[slot] {
			seen[slot] = true
			out = append(out, slot)
		}
	}
	return out
}

// Fill substitutes values into the skeleton. Every placeholder of the chosen
// text must have a non-empty value.
func (s Skeleton) Fill(values map[Slot]string) (string, error) {
	hasDemand := values[SlotDemand] != ""
	text := s.Text(hasDemand)

	pairs := make([]string, 0, 2*len(values))
	for _, slot := range s.Slots(hasDemand) {
		v := values[slot]
		if v == "" {
			return "", &SubstitutionError{Template: s.Name, Slot: slot, Cause: ErrEmptySlot}
		}
		if strings.ContainsAny(v, "{}") {
			return "", &SubstitutionError{Template: s.Name, Slot: slot, Cause: ErrMalformedSlot}
		}
		pairs = append(pairs, "{"+string(slot)+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text), nil
}

var registry = map[Variant]Skeleton{}
var byTemplate = map[ID]Skeleton{}

func register(s Skeleton) Skeleton {
	if s.Variant != NoVariant {
		registry[s.Variant] = s
	} else {
		byTemplate[s.Template] = s
	}
	return s
}

// Lookup returns the skeleton for a template and variant
func Lookup(id ID, variant Variant) (Skeleton, bool) {
	if variant != NoVariant {
		s, ok := registry[variant]
		return s, ok && s.Template == id
	}
	s, ok := byTemplate[id]
	return s, ok
}
