// Package damage defines typed damage proposals, the dealt-damage result, and
// the armor mitigation step that discounts a proposal before it is applied.
package damage

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
)

// Type is a damage type. Each type has its own health/pain conversion rule.
type Type int

const (
	None Type = iota
	Bash
	Cut
	Stab
	Heat
	Electric
	Cold
	Acid
	Biological
	True
)

var typeNames = [...]string{
	None:       "none",
	Bash:       "bash",
	Cut:        "cut",
	Stab:       "stab",
	Heat:       "heat",
	Electric:   "electric",
	Cold:       "cold",
	Acid:       "acid",
	Biological: "biological",
	True:       "true",
}

// Types lists every known damage type in declaration order.
func Types() []Type {
	out := make([]Type, 0, len(typeNames))
	for i := range typeNames {
		out = append(out, Type(i))
	}
	return out
}

// String returns the lower-case type name.
func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Physical reports whether t is one of the weapon damage types a block can soften.
func (t Type) Physical() bool {
	return t == Bash || t == Cut || t == Stab
}

// ParseType parses a damage type name.
//
// Postcondition: Returns a known Type or a non-nil error.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == s {
			return Type(i), nil
		}
	}
	return None, fmt.Errorf("damage: unknown type %q", s)
}

// UnmarshalYAML parses a Type from a YAML scalar.
func (t *Type) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseType(value.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Unit is one typed portion of a damage proposal.
type Unit struct {
	Type   Type    `yaml:"type"`
	Amount float64 `yaml:"amount"`
}

// Flags carry per-proposal markers.
type Flags uint8

const (
	// NoGib caps the total health loss of one application at current health + 1.
	NoGib Flags = 1 << iota
	// NoIgnite marks heat that must not start or feed a fire, such as the
	// burn of a fire already in progress.
	NoIgnite
)

// Instance is a damage proposal: a list of typed units plus flags.
// Callers own their Instance; the pipeline only ever works on a Clone.
type Instance struct {
	Units []Unit
	Flags Flags
}

// New builds a proposal with a single unit.
func New(t Type, amount float64) Instance {
	return Instance{Units: []Unit{{Type: t, Amount: amount}}}
}

// Add appends a unit and returns the proposal for chaining.
func (i Instance) Add(t Type, amount float64) Instance {
	i.Units = append(i.Clone().Units, Unit{Type: t, Amount: amount})
	return i
}

// With returns a copy of i with flags set.
func (i Instance) With(flags Flags) Instance {
	out := i.Clone()
	out.Flags |= flags
	return out
}

// Has reports whether every bit of f is set on the proposal.
func (i Instance) Has(f Flags) bool { return i.Flags&f == f }

// Clone returns a deep copy of i.
func (i Instance) Clone() Instance {
	out := Instance{Flags: i.Flags}
	if len(i.Units) > 0 {
		out.Units = make([]Unit, len(i.Units))
		copy(out.Units, i.Units)
	}
	return out
}

// Scaled returns a copy with every unit multiplied by mult. Negative
// multipliers are treated as zero.
func (i Instance) Scaled(mult float64) Instance {
	out := i.Clone()
	mult = math.Max(0, mult)
	for k := range out.Units {
		out.Units[k].Amount *= mult
	}
	return out
}

// ScaledBy returns a copy with each unit multiplied by mult(unit type).
func (i Instance) ScaledBy(mult func(Type) float64) Instance {
	out := i.Clone()
	for k := range out.Units {
		out.Units[k].Amount *= math.Max(0, mult(out.Units[k].Type))
	}
	return out
}

// Total returns the summed amount of all units.
func (i Instance) Total() float64 {
	var sum float64
	for _, u := range i.Units {
		sum += u.Amount
	}
	return sum
}

// Dealt is the outcome of one pipeline application: the integer health loss
// per type and the location that absorbed it. It is read-only once produced.
type Dealt struct {
	Totals map[Type]int
	Target bodypart.Target
}

// Total returns the health loss summed over every type.
func (d Dealt) Total() int {
	sum := 0
	for _, v := range d.Totals {
		sum += v
	}
	return sum
}

// Of returns the health loss dealt as type t.
func (d Dealt) Of(t Type) int { return d.Totals[t] }

// Resistor answers the effective resistance of an entity at a body location
// for a damage type. How that value is computed is owned by the equipment and
// material layer.
type Resistor interface {
	Resistance(target bodypart.Target, t Type) float64
}

// ResistorFunc adapts a function to Resistor.
type ResistorFunc func(target bodypart.Target, t Type) float64

// Resistance calls f.
func (f ResistorFunc) Resistance(target bodypart.Target, t Type) float64 { return f(target, t) }

// AbsorbHit discounts each unit of inst by the resistance r reports at target,
// never driving a unit below zero. inst is not modified.
//
// Precondition: r may be nil, meaning no resistance.
// Postcondition: Every unit of the result has 0 <= Amount <= the matching input Amount
// (units that arrive negative are clamped to zero).
func AbsorbHit(r Resistor, target bodypart.Target, inst Instance) Instance {
	out := inst.Clone()
	for k := range out.Units {
		u := &out.Units[k]
		if u.Amount <= 0 || math.IsNaN(u.Amount) {
			u.Amount = 0
			continue
		}
		if r == nil {
			continue
		}
		res := r.Resistance(target, u.Type)
		if math.IsNaN(res) || res <= 0 {
			continue
		}
		u.Amount -= math.Min(res, u.Amount)
	}
	return out
}
