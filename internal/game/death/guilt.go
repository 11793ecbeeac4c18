package death

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/message"
	"github.com/cory-johannsen/carrion/internal/game/morale"
)

// Killer personality traits.
const (
	// TraitPsychopath and TraitCallous suppress guilt entirely.
	TraitPsychopath = "psychopath"
	TraitCallous    = "callous"
	// TraitKiller enjoys every kill.
	TraitKiller = "killer"
)

// Morale timings, in turns.
const (
	guiltDuration   = 600
	guiltDecayStart = 150
	thrillDuration  = 300
	thrillDecay     = 60
)

// Guilt returns the morale malus and its stacking bound for a kill of a
// species with the given guilt factor, after priorKills earlier kills of
// that species. Guilt shrinks linearly and vanishes at maxKills.
//
// Postcondition: malus and maxMalus are <= 0.
func Guilt(factor float64, priorKills, maxKills int) (malus, maxMalus int) {
	if factor <= 0 || maxKills <= 0 || priorKills >= maxKills {
		return 0, 0
	}
	ratio := 1 - float64(max(0, priorKills))/float64(maxKills)
	return int(-50 * ratio * factor), int(-250 * ratio * factor)
}

// killer applies the consequences of victim's death to a player killer.
func (r *Resolver) killer(victim creature.Combatant) {
	id := victim.Killer()
	if id == "" || r.deps.Roster == nil {
		return
	}
	k, ok := r.deps.Roster.Get(id)
	if !ok {
		r.deps.Logger.Debug("killer no longer present", zap.String("killer", id))
		return
	}
	if !k.IsPlayer() {
		return
	}

	species := speciesID(victim)
	prior := 0
	if r.deps.Kills != nil {
		n, err := r.deps.Kills.Count(species)
		if err != nil {
			r.deps.Logger.Warn("reading kill count", zap.String("species", species), zap.Error(err))
		}
		prior = n
	}

	if r.deps.Morale != nil {
		if k.HasTrait(TraitKiller) {
			r.deps.Morale.Add(id, morale.KindKilledMonster, 5, 100, thrillDuration, thrillDecay)
		}
		if s := victim.Species(); s != nil && !k.HasTrait(TraitPsychopath) && !k.HasTrait(TraitCallous) {
			malus, maxMalus := Guilt(s.Guilt, prior, r.balance.GuiltMaxKills)
			if malus < 0 {
				r.deps.Morale.Add(id, morale.KindKilledInnocent, malus, maxMalus, guiltDuration, guiltDecayStart)
				r.deps.Sink.Add(message.Bad, "You feel terrible about what you have done.")
			}
		}
	}

	if r.deps.Kills == nil {
		return
	}
	total, err := r.deps.Kills.Record(species)
	if err != nil {
		r.deps.Logger.Warn("recording kill", zap.String("species", species), zap.Error(err))
		return
	}
	message.Addf(r.deps.Sink, message.Neutral, "You have killed %s.",
		r.plural.Pluralize(victim.Name(), total, true))
}
