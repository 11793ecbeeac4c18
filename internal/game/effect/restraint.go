package effect

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/dice"
)

// Escaper is the bearer of a restraint trying to break free.
type Escaper interface {
	Strength() int
	Dexterity() int
}

// EscapeOutcome reports one attempt to break every active restraint.
type EscapeOutcome struct {
	// Restrained is true when at least one restraint was active.
	Restrained bool
	// Free is true when no restraint remains after the attempt.
	Free bool
	// MoveCost is the movement budget the failed attempts consumed.
	MoveCost int
	// Escaped lists the effect types broken this attempt.
	Escaped []TypeID
	// Drops lists the item ids left behind by broken restraints.
	Drops []string
}

// AttemptEscape rolls one escape check per active restraint. A check
// succeeds iff d(strength) + d(dexterity) > difficulty; success removes the
// restraint and records its drop item. A failed check adds the restraint's
// move cost.
//
// Precondition: b, who and src must be non-nil.
// Postcondition: Free is true iff no restraint instance remains in b.
func AttemptEscape(b *Bag, who Escaper, src dice.Source) EscapeOutcome {
	var out EscapeOutcome
	var held []*Instance
	for _, in := range b.items {
		if in.Def.Restraint != nil {
			held = append(held, in)
		}
	}
	if len(held) == 0 {
		out.Free = true
		return out
	}
	out.Restrained = true
	out.Free = true
	for _, in := range held {
		r := in.Def.Restraint
		roll := dice.Dice(src, 1, who.Strength()) + dice.Dice(src, 1, who.Dexterity())
		b.logger.Debug("escape check",
			zap.String("effect", in.Def.ID),
			zap.Int("roll", roll),
			zap.Int("difficulty", r.Difficulty),
		)
		if roll > r.Difficulty {
			b.Remove(in.Type, in.Target)
			out.Escaped = append(out.Escaped, in.Type)
			if r.DropItem != "" {
				out.Drops = append(out.Drops, r.DropItem)
			}
			continue
		}
		out.Free = false
		out.MoveCost += r.MoveCost
	}
	return out
}
