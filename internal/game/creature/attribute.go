package creature

import "github.com/cory-johannsen/carrion/internal/game/effect"

// Attribute is a primary stat: a base value plus a transient bonus. Current
// is derived by Recompute and is never negative.
type Attribute struct {
	Base  int
	Bonus int
	cur   int
}

// Recompute refreshes the derived value.
//
// Postcondition: Current() == max(0, Base+Bonus).
func (a *Attribute) Recompute() {
	a.cur = max(0, a.Base+a.Bonus)
}

// Current returns the derived value as of the last Recompute.
func (a Attribute) Current() int { return a.cur }

// StatBlock is the plain base-value form of Stats used in YAML and configs.
type StatBlock struct {
	Str int `yaml:"str"`
	Dex int `yaml:"dex"`
	Per int `yaml:"per"`
	Int int `yaml:"int"`
}

// Stats holds the four primary attributes.
type Stats struct {
	Str Attribute
	Dex Attribute
	Per Attribute
	Int Attribute
}

// NewStats builds Stats from base values with no bonus.
//
// Postcondition: every Current() is max(0, base).
func NewStats(b StatBlock) Stats {
	s := Stats{
		Str: Attribute{Base: b.Str},
		Dex: Attribute{Base: b.Dex},
		Per: Attribute{Base: b.Per},
		Int: Attribute{Base: b.Int},
	}
	s.Recompute()
	return s
}

// SetBonus replaces every transient bonus.
func (s *Stats) SetBonus(m effect.StatMods) {
	s.Str.Bonus = m.Str
	s.Dex.Bonus = m.Dex
	s.Per.Bonus = m.Per
	s.Int.Bonus = m.Int
}

// Recompute refreshes every derived value.
func (s *Stats) Recompute() {
	s.Str.Recompute()
	s.Dex.Recompute()
	s.Per.Recompute()
	s.Int.Recompute()
}
