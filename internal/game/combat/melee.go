package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/damage"
)

// TraitSteady keeps a combatant on its feet when stabbed.
const TraitSteady = "steady"

// Melee resolves one melee attack of attacker against defender.
//
// A spread <= 0 is a miss: the defender's dodge hook fires and nothing else
// changes. On a hit the location is drawn with the spread as hit quality,
// the swing may crit, be blocked, stun or knock down, and the damage goes
// through the pipeline.
//
// Precondition: attacker and defender must be non-nil and distinct.
// Postcondition: Outcome.Dealt is non-nil iff Outcome.Hit.
func (r *Resolver) Melee(attacker, defender creature.Combatant) Outcome {
	hit := r.rolls.HitRoll(attacker)
	dodge := r.rolls.DodgeRoll(defender)
	out := Outcome{Spread: hit - dodge}

	r.logger.Debug("melee roll",
		zap.String("attacker", attacker.ID()),
		zap.String("defender", defender.ID()),
		zap.Int("hit", hit),
		zap.Int("dodge", dodge),
	)

	if out.Spread <= 0 {
		if !defender.IsFake() {
			defender.OnDodge(attacker)
		}
		r.narrateMiss(attacker, defender)
		return out
	}

	out.Hit = true
	out.Target = r.selector.Select(attacker, defender, float64(out.Spread), r.roller)
	inst := attacker.MeleeAttack(r.roller)

	if out.Spread >= r.balance.CritSpread {
		out.Critical = true
		inst = inst.Scaled(r.balance.CritMultiplier)
	}
	if defender.BlocksLeft() > 0 && r.roller.Chance(r.balance.BlockChance) {
		defender.UseBlock()
		out.Blocked = true
		inst = inst.ScaledBy(func(t damage.Type) float64 {
			if t.Physical() {
				return 0.5
			}
			return 1
		})
	}

	if !defender.IsFake() {
		r.meleeEffects(defender, inst, out.Critical)
	}

	dealt := r.pipeline.Deal(attacker, defender, out.Target, inst)
	out.Dealt = &dealt
	r.narrateHit(attacker, defender, out)
	return out
}

// meleeEffects applies the stun of a heavy bashing crit and the knockdown of
// a deep stab.
func (r *Resolver) meleeEffects(defender creature.Combatant, inst damage.Instance, crit bool) {
	var bash, stab float64
	for _, u := range inst.Units {
		switch u.Type {
		case damage.Bash:
			bash += u.Amount
		case damage.Stab:
			stab += u.Amount
		}
	}
	if crit && int(bash) >= r.balance.StunBashMin {
		r.addEffect(defender, r.effects.Stunned, 1)
	}
	if stab < 1 || defender.HasTrait(TraitSteady) {
		return
	}
	moves := r.roller.Rng(int(stab*5), int(stab*15))
	if moves >= r.balance.KnockdownMoves {
		r.addEffect(defender, r.effects.Downed, 1)
	}
}
