package effect

import (
	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/damage"
)

// HitModifier returns the net hit roll modifier from all active effects.
// Each effect's penalty is multiplied by its intensity.
//
// Postcondition: Returns <= 0 when every definition's penalty is >= 0.
func HitModifier(b *Bag) int {
	total := 0
	for _, in := range b.items {
		total -= in.Def.HitPenalty * in.Intensity
	}
	return total
}

// DodgeModifier returns the net dodge roll modifier from all active effects.
func DodgeModifier(b *Bag) int {
	total := 0
	for _, in := range b.items {
		total -= in.Def.DodgePenalty * in.Intensity
	}
	return total
}

// SpeedModifier returns the net speed modifier from all active effects.
func SpeedModifier(b *Bag) int {
	total := 0
	for _, in := range b.items {
		total -= in.Def.SpeedPenalty * in.Intensity
	}
	return total
}

// StatModifiers returns the summed attribute adjustments of all active
// effects, each scaled by intensity. The result is applied as the transient
// bonus on the bearer's attributes.
func StatModifiers(b *Bag) StatMods {
	var out StatMods
	for _, in := range b.items {
		m := in.Def.StatMods
		out.Str += m.Str * in.Intensity
		out.Dex += m.Dex * in.Intensity
		out.Per += m.Per * in.Intensity
		out.Int += m.Int * in.Intensity
	}
	return out
}

// IsActionRestricted reports whether the given action is blocked by any
// active effect's RestrictActions list.
func IsActionRestricted(b *Bag, action string) bool {
	for _, in := range b.items {
		for _, r := range in.Def.RestrictActions {
			if r == action {
				return true
			}
		}
	}
	return false
}

// Actions named in RestrictActions.
const (
	ActionAttack = "attack"
	ActionMove   = "move"
)

// Ongoing is one instance's start-of-turn damage.
type Ongoing struct {
	Type   TypeID
	Target bodypart.Target
	Damage damage.Instance
}

// OngoingDamage returns the damage every active instance with a TickDamage
// deals this turn, scaled by intensity, in application order.
func OngoingDamage(b *Bag) []Ongoing {
	var out []Ongoing
	for _, in := range b.items {
		td := in.Def.TickDamage
		if td == nil || in.Intensity <= 0 {
			continue
		}
		out = append(out, Ongoing{
			Type:   in.Type,
			Target: in.Target,
			Damage: damage.New(td.Type, td.Amount*float64(in.Intensity)),
		})
	}
	return out
}
