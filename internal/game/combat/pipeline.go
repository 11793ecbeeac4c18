package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/damage"
	"github.com/cory-johannsen/carrion/internal/game/dice"
)

// DeathHandler resolves the death of a combatant whose health the pipeline
// drove to zero or below.
type DeathHandler interface {
	Resolve(victim creature.Combatant)
}

// DeathHandlerFunc adapts a function to DeathHandler.
type DeathHandlerFunc func(victim creature.Combatant)

// Resolve calls f.
func (f DeathHandlerFunc) Resolve(victim creature.Combatant) { f(victim) }

// Pipeline applies damage proposals to combatants.
//
// Pipeline is not safe for concurrent use; the simulation thread owns it.
type Pipeline struct {
	roller  *dice.Roller
	balance Balance
	effects Effects
	death   DeathHandler
	logger  *zap.Logger
}

// NewPipeline creates a Pipeline. death may be nil, in which case combatants
// are only marked dying.
//
// Precondition: roller must be non-nil.
func NewPipeline(roller *dice.Roller, b Balance, fx Effects, death DeathHandler, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{roller: roller, balance: b, effects: fx, death: death, logger: logger}
}

// SetDeathHandler replaces the death handler.
func (p *Pipeline) SetDeathHandler(h DeathHandler) { p.death = h }

// unitResult is the per-unit outcome of the type dispatch.
type unitResult struct {
	loss  int
	pain  float64
	moves int
}

// Deal applies inst to victim at target and returns what was dealt.
// source is credited with the kill and may be nil for environmental damage.
// inst is never modified.
//
// Precondition: victim must be non-nil.
// Postcondition: every entry of the returned Totals is >= 0; when inst has
// the NoGib flag the health loss is at most victim.Health()+1.
func (p *Pipeline) Deal(source, victim creature.Combatant, target bodypart.Target, inst damage.Instance) damage.Dealt {
	mods := victim.Mods()
	work := inst.ScaledBy(mods.MultiplierFor)

	skip := make([]bool, len(work.Units))
	for i, u := range work.Units {
		if u.Amount < 0 || math.IsNaN(u.Amount) || math.IsInf(u.Amount, 0) {
			p.logger.Warn("skipping malformed damage unit",
				zap.String("victim", victim.ID()),
				zap.Stringer("type", u.Type),
				zap.Float64("amount", u.Amount),
			)
			skip[i] = true
		}
	}

	resist := damage.ResistorFunc(func(t bodypart.Target, dt damage.Type) float64 {
		return victim.Resistance(t, dt) + mods.Armor[dt]
	})
	work = damage.AbsorbHit(resist, target, work)

	dealt := damage.Dealt{Totals: make(map[damage.Type]int), Target: target}
	var order []damage.Type
	var pain float64
	for i, u := range work.Units {
		if skip[i] {
			continue
		}
		amount := p.roller.RollRemainder(u.Amount)
		if amount <= 0 {
			continue
		}
		res := p.dispatch(victim, u.Type, amount, inst.Flags)
		pain += res.pain
		if res.moves != 0 {
			victim.ModMoves(-res.moves)
		}
		if _, seen := dealt.Totals[u.Type]; !seen {
			order = append(order, u.Type)
		}
		dealt.Totals[u.Type] += res.loss
	}

	if inst.Has(damage.NoGib) {
		clampTotals(dealt.Totals, order, max(0, victim.Health()+1))
	}

	victim.ModPain(int(math.Floor(pain)))
	loss := dealt.Total()
	hp := victim.ApplyHealthLoss(loss)

	p.logger.Debug("damage dealt",
		zap.String("victim", victim.ID()),
		zap.Stringer("target", target),
		zap.Int("loss", loss),
		zap.Int("pain", int(pain)),
		zap.Int("health", hp),
	)

	if hp <= 0 && !victim.IsFake() && victim.Lifecycle().Alive() {
		if source != nil {
			victim.SetKiller(source.ID())
		}
		victim.Lifecycle().Wound()
		if p.death != nil {
			p.death.Resolve(victim)
		}
	}
	return dealt
}

// dispatch applies the type-specific rules for one rounded unit.
func (p *Pipeline) dispatch(victim creature.Combatant, t damage.Type, amount int, flags damage.Flags) unitResult {
	a := float64(amount)
	res := unitResult{loss: amount, pain: a / 4}
	switch t {
	case damage.Bash:
		res.moves = int(p.balance.BashStagger * a)
	case damage.Cut, damage.Stab:
		res.pain = (a + math.Sqrt(a)) / 4
	case damage.Heat:
		if flags&damage.NoIgnite == 0 {
			p.ignite(victim, amount)
		}
	case damage.Electric:
		res.moves = int(p.balance.ElectricStagger * a)
	case damage.Cold:
		res.pain = a / 6
		res.moves = int(p.balance.ColdStagger * a)
	case damage.None, damage.Acid, damage.Biological, damage.True:
	default:
		p.logger.Warn("unknown damage type",
			zap.String("victim", victim.ID()),
			zap.Int("type", int(t)),
		)
	}
	return res
}

// IgniteChance returns the percent chance a heat unit of amount sets the
// target alight.
//
// Postcondition: 0 <= result < 100.
func IgniteChance(amount int) int {
	return max(0, int(100-400/float64(amount+3)))
}

func (p *Pipeline) ignite(victim creature.Combatant, amount int) {
	if victim.IsFake() || p.effects.OnFire == 0 {
		return
	}
	if !p.roller.Chance(IgniteChance(amount)) {
		return
	}
	if err := victim.Effects().Add(p.effects.OnFire, p.roller.Rng(1, 3), false, 1, bodypart.WholeBody); err != nil {
		p.logger.Warn("igniting", zap.String("victim", victim.ID()), zap.Error(err))
	}
}

// clampTotals lowers totals, latest type first, until they sum to at most limit.
func clampTotals(totals map[damage.Type]int, order []damage.Type, limit int) {
	excess := -limit
	for _, v := range totals {
		excess += v
	}
	for i := len(order) - 1; i >= 0 && excess > 0; i-- {
		cut := min(excess, totals[order[i]])
		totals[order[i]] -= cut
		excess -= cut
	}
}
