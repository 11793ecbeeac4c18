// Package bodypart names the body locations a hit or a status effect can be
// scoped to.
package bodypart

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Location identifies a body location. The zero value is the whole body.
type Location int

const (
	// Whole means the effect or hit is not scoped to any location.
	Whole Location = iota
	Eyes
	Head
	Mouth
	Torso
	Arms
	Hands
	Legs
	Feet
)

var locationNames = map[Location]string{
	Whole: "whole",
	Eyes:  "eyes",
	Head:  "head",
	Mouth: "mouth",
	Torso: "torso",
	Arms:  "arms",
	Hands: "hands",
	Legs:  "legs",
	Feet:  "feet",
}

// String returns the lower-case location name.
func (l Location) String() string {
	if n, ok := locationNames[l]; ok {
		return n
	}
	return fmt.Sprintf("location(%d)", int(l))
}

// Group returns the coarse canonical group of l: eyes and mouth collapse to
// head, hands to arms, feet to legs. Other locations map to themselves.
func (l Location) Group() Location {
	switch l {
	case Eyes, Mouth:
		return Head
	case Hands:
		return Arms
	case Feet:
		return Legs
	}
	return l
}

// Paired reports whether l exists once per side of the body.
func (l Location) Paired() bool {
	switch l {
	case Arms, Hands, Legs, Feet:
		return true
	}
	return false
}

// ParseLocation parses a location name. The empty string and "whole" both
// yield Whole.
//
// Postcondition: Returns a known Location or a non-nil error.
func ParseLocation(s string) (Location, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Whole, nil
	}
	for l, n := range locationNames {
		if n == s {
			return l, nil
		}
	}
	return Whole, fmt.Errorf("bodypart: unknown location %q", s)
}

// UnmarshalYAML parses a Location from a YAML scalar.
func (l *Location) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseLocation(value.Value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Side selects one half of a paired location. The zero value covers both sides.
type Side int

const (
	Both Side = iota
	Left
	Right
)

// String returns the lower-case side name.
func (s Side) String() string {
	switch s {
	case Both:
		return "both"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// Target is a located hit or effect scope: a body location plus a side for
// paired locations.
type Target struct {
	Part Location
	Side Side
}

// WholeBody is the unscoped target.
var WholeBody = Target{}

// At returns the both-sides target of part.
func At(part Location) Target { return Target{Part: part} }

// AtSide returns the target of part on side.
func AtSide(part Location, side Side) Target { return Target{Part: part, Side: side} }

// IsWhole reports whether t is not scoped to any location.
func (t Target) IsWhole() bool { return t.Part == Whole }

// Sided reports whether t names one specific side.
func (t Target) Sided() bool { return t.Side != Both }

// Normalize returns t with its location collapsed to the canonical group.
// The side is dropped when the grouped location is unpaired.
func (t Target) Normalize() Target {
	g := t.Part.Group()
	if !g.Paired() {
		return Target{Part: g}
	}
	return Target{Part: g, Side: t.Side}
}

// String returns a readable name such as "left arms", "head" or "whole".
func (t Target) String() string {
	if t.Side == Both || !t.Part.Paired() {
		return t.Part.String()
	}
	return t.Side.String() + " " + t.Part.String()
}

// Describe returns the singular noun used in narrative text, e.g. "left arm".
func (t Target) Describe() string {
	var noun string
	switch t.Part {
	case Whole:
		return "body"
	case Arms:
		noun = "arm"
	case Hands:
		noun = "hand"
	case Legs:
		noun = "leg"
	case Feet:
		noun = "foot"
	default:
		return t.Part.String()
	}
	if t.Side == Both {
		return noun
	}
	return t.Side.String() + " " + noun
}
