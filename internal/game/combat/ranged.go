package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/damage"
)

// Projectile describes one shot.
type Projectile struct {
	// Damage is the gun and ammunition base damage.
	Damage damage.Instance
	// Speed is the projectile speed; faster shots are harder to evade.
	Speed int
	// MissedBy is how far off the aim was, 0 being dead center.
	MissedBy float64
	// Incendiary rounds may ignite what they hit.
	Incendiary bool
	// Flame rounds ignite anything that burns.
	Flame bool
	// Stun is the base stun duration for a medium target; 0 means none.
	Stun int
}

type bandRange struct {
	band   Band
	limit  float64
	lo, hi float64
}

func (r *Resolver) bands() []bandRange {
	b := r.balance
	return []bandRange{
		{BandHeadshot, b.HeadshotBand, 2.45, 3.35},
		{BandCritical, b.CriticalBand, 1.75, 2.3},
		{BandGood, b.GoodBand, 1, 1.5},
		{BandNormal, b.NormalBand, 0.5, 1},
		{BandGraze, b.GrazeBand, 0, 0.25},
	}
}

// Ranged resolves one shot of p from attacker at defender.
//
// The defender first gets an evasion roll against dice(10, speed). A shot
// that is not evaded is banded by its hit quality into headshot, critical,
// good, normal, graze or a clean miss, each with its own damage multiplier.
// A headshot always lands on the head. Ammunition effects apply after the
// damage.
//
// Precondition: attacker and defender must be non-nil and distinct.
// Postcondition: Outcome.Dealt is non-nil iff Outcome.Hit.
func (r *Resolver) Ranged(attacker, defender creature.Combatant, p Projectile) Outcome {
	speed := max(1, p.Speed)
	dodge := r.rolls.DodgeRoll(defender)
	diff := r.roller.Dice(10, speed)
	var out Outcome

	if dodge >= diff {
		out.Evaded = true
		if !defender.IsFake() {
			defender.OnDodge(attacker)
		}
		r.narrateMiss(attacker, defender)
		return out
	}

	out.GoodHit = goodHit(p.MissedBy, dodge, diff, defender.Speed())
	out.Band = BandMiss
	for _, br := range r.bands() {
		if out.GoodHit < br.limit {
			out.Band = br.band
			out.Multiplier = r.roller.Float(br.lo, br.hi)
			break
		}
	}

	r.logger.Debug("ranged roll",
		zap.String("attacker", attacker.ID()),
		zap.String("defender", defender.ID()),
		zap.Int("dodge", dodge),
		zap.Int("diff", diff),
		zap.Float64("goodhit", out.GoodHit),
		zap.Stringer("band", out.Band),
	)

	if out.Band == BandMiss {
		r.narrateMiss(attacker, defender)
		return out
	}

	out.Hit = true
	out.Critical = out.Band >= BandCritical
	if out.Band == BandHeadshot {
		out.Target = bodypart.At(bodypart.Head)
	} else {
		q := (r.balance.GrazeBand - out.GoodHit) * r.balance.RangedQualityScale
		out.Target = r.selector.Select(attacker, defender, q, r.roller)
	}

	dealt := r.pipeline.Deal(attacker, defender, out.Target, p.Damage.Scaled(out.Multiplier))
	out.Dealt = &dealt
	r.narrateHit(attacker, defender, out)

	if !defender.IsFake() && defender.Lifecycle().Alive() {
		r.ammoEffects(defender, p)
	}
	return out
}

// goodHit combines the aim error with how well the defender dodged relative
// to the shot, scaled by the defender's speed.
func goodHit(missedBy float64, dodge, diff, defenderSpeed int) float64 {
	g := math.Max(0, missedBy)
	if diff > 0 {
		g += math.Min(1, math.Max(0, float64(dodge)/float64(diff)*float64(defenderSpeed)/100))
	}
	return g
}

func (r *Resolver) ammoEffects(defender creature.Combatant, p Projectile) {
	if p.Flame && r.burns(defender.Materials(), true) {
		r.addEffect(defender, r.effects.OnFire, r.roller.Rng(2, 4))
	} else if p.Incendiary && r.burns(defender.Materials(), false) {
		r.addEffect(defender, r.effects.OnFire, r.roller.Rng(1, 3))
	}
	if s := StunDuration(p.Stun, defender.Size()); s > 0 {
		r.addEffect(defender, r.effects.Stunned, r.roller.Rng(max(1, s/2), s))
	}
}

// burns reports whether a body of materials catches. Flammable materials
// always catch; flesh catches from flame, and from incendiary rounds half
// the time.
func (r *Resolver) burns(materials []creature.Material, flame bool) bool {
	fleshy := false
	for _, m := range materials {
		if m.Flammable() {
			return true
		}
		fleshy = fleshy || m.Fleshy()
	}
	if !fleshy {
		return false
	}
	return flame || r.roller.OneIn(2)
}

// StunDuration scales a base stun by target size: tiny x4, small x2,
// large /2, huge /4.
func StunDuration(base int, size creature.Size) int {
	if base <= 0 {
		return 0
	}
	switch size {
	case creature.Tiny:
		return base * 4
	case creature.Small:
		return base * 2
	case creature.Large:
		return base / 2
	case creature.Huge:
		return base / 4
	default:
		return base
	}
}
