// Package death resolves what happens when a combatant dies: the corpse or
// remains, gibs and blood, species death behaviors, and the consequences
// for the killer.
package death

import (
	"fmt"
	"math"

	"github.com/gertd/go-pluralize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/config"
	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/dice"
	"github.com/cory-johannsen/carrion/internal/game/message"
	"github.com/cory-johannsen/carrion/internal/game/morale"
	"github.com/cory-johannsen/carrion/internal/game/world"
)

// TraitNoGibs marks a combatant that never leaves gibs.
const TraitNoGibs = "no_gibs"

// CorpseItem is the item definition id of every corpse.
const CorpseItem = "corpse"

// Balance holds the tunable numbers of death resolution.
type Balance struct {
	// PulverizeCorpseDamage is the corpse damage above which a big enough
	// body leaves no corpse.
	PulverizeCorpseDamage float64
	MaxCorpseDamage       int
	GuiltMaxKills         int
}

// BalanceFrom copies the death-related settings of the combat configuration.
func BalanceFrom(c config.CombatConfig) Balance {
	return Balance{
		PulverizeCorpseDamage: c.PulverizeCorpseDamage,
		MaxCorpseDamage:       c.MaxCorpseDamage,
		GuiltMaxKills:         c.GuiltMaxKills,
	}
}

// Deps are the collaborators a Resolver calls into. Morale and Kills may be
// nil, which disables killer consequences.
type Deps struct {
	World  world.World
	Roster *creature.Roster
	Morale morale.Ledger
	Kills  KillLedger
	Roller *dice.Roller
	Sink   message.Sink
	Logger *zap.Logger
}

// Report describes one resolved death.
type Report struct {
	Victim        string
	Overflow      int
	CorpseDamage  float64
	Pulverized    bool
	Corpse        *world.Item
	Loot          []world.Item
	Gibs          int
	Blood         int
	Behaviors     int
	FailedEffects int
}

// Resolver runs death resolution. It implements combat.DeathHandler.
//
// Resolver is not safe for concurrent use; the simulation thread owns it.
type Resolver struct {
	deps    Deps
	balance Balance
	plural  *pluralize.Client
	// last is the report of the most recent resolution.
	last *Report
}

// NewResolver creates a Resolver.
//
// Precondition: deps.World and deps.Roller must be non-nil.
func NewResolver(deps Deps, b Balance) *Resolver {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Sink == nil {
		deps.Sink = message.Discard
	}
	return &Resolver{deps: deps, balance: b, plural: pluralize.NewClient()}
}

// Last returns the report of the most recent resolution, or nil.
func (r *Resolver) Last() *Report { return r.last }

// Resolve runs the death cascade for victim exactly once: remains, death
// behaviors, killer consequences. A second call is a no-op.
//
// Precondition: victim must be non-nil with health <= 0.
// Postcondition: victim.Lifecycle().Dead() is true.
func (r *Resolver) Resolve(victim creature.Combatant) {
	life := victim.Lifecycle()
	if life.Alive() {
		if victim.Health() > 0 {
			r.deps.Logger.Warn("death resolution on a living combatant",
				zap.String("victim", victim.ID()),
				zap.Int("health", victim.Health()),
			)
			return
		}
		life.Wound()
	}
	if !life.Expire() {
		r.deps.Logger.Warn("death already resolved", zap.String("victim", victim.ID()))
		return
	}

	rep := &Report{Victim: victim.ID()}
	r.last = rep
	rep.Overflow = max(0, -victim.Health())
	if victim.MaxHealth() > 0 {
		rep.CorpseDamage = 2.5 * float64(rep.Overflow) / float64(victim.MaxHealth())
	}
	rep.Pulverized = rep.CorpseDamage > r.balance.PulverizeCorpseDamage &&
		rep.Overflow > victim.MaxHealth() &&
		victim.Size() >= creature.Medium

	r.remains(victim, rep)
	r.gibs(victim, rep)
	r.behaviors(victim, rep)
	r.killer(victim)

	r.deps.Logger.Info("combatant died",
		zap.String("victim", victim.ID()),
		zap.String("killer", victim.Killer()),
		zap.Int("overflow", rep.Overflow),
		zap.Bool("pulverized", rep.Pulverized),
		zap.Int("gibs", rep.Gibs),
	)
}

func speciesID(c creature.Combatant) string {
	if s := c.Species(); s != nil {
		return s.ID
	}
	return "character"
}

func (r *Resolver) remains(victim creature.Combatant, rep *Report) {
	pos := victim.Position()
	if rep.Pulverized {
		message.Addf(r.deps.Sink, message.Info, "%s is torn to pieces!", victim.Name())
	} else {
		message.Addf(r.deps.Sink, message.Info, "%s dies.", victim.Name())
		corpse := world.Item{
			InstanceID: uuid.New().String(),
			DefID:      CorpseItem,
			Name:       fmt.Sprintf("%s corpse", victim.Name()),
			Quantity:   1,
			CorpseOf:   speciesID(victim),
			Damage:     min(int(math.Floor(rep.CorpseDamage)), r.balance.MaxCorpseDamage),
		}
		if err := r.deps.World.SpawnItem(pos, corpse); err != nil {
			r.deps.Logger.Warn("placing corpse", zap.String("victim", victim.ID()), zap.Error(err))
			rep.FailedEffects++
		} else {
			rep.Corpse = &corpse
		}
	}

	s := victim.Species()
	if s == nil || s.Loot == nil {
		return
	}
	for _, it := range creature.GenerateLoot(*s.Loot, r.deps.Roller) {
		item := world.Item{InstanceID: it.InstanceID, DefID: it.ItemDefID, Name: it.ItemDefID, Quantity: it.Quantity}
		if err := r.deps.World.SpawnItem(pos, item); err != nil {
			r.deps.Logger.Warn("dropping loot", zap.String("victim", victim.ID()), zap.Error(err))
			rep.FailedEffects++
			continue
		}
		rep.Loot = append(rep.Loot, item)
	}
}

// gibbable reports whether the body of c leaves gibs.
func gibbable(c creature.Combatant) bool {
	if c.HasTrait(TraitNoGibs) {
		return false
	}
	for _, m := range c.Materials() {
		if m.Gibbable() {
			return true
		}
	}
	return false
}

// bloodKind returns the field c bleeds, or "" if it does not bleed.
func bloodKind(c creature.Combatant) string {
	if s := c.Species(); s != nil {
		return s.Blood
	}
	for _, m := range c.Materials() {
		if m.Fleshy() {
			return world.FieldBlood
		}
	}
	return ""
}

// GibCount returns how many gib and blood splashes a death leaves.
//
// Postcondition: Returns >= 0.
func GibCount(corpseDamage float64, maxHP int, pulverized bool, src dice.Source) int {
	n := min(int(math.Floor(corpseDamage))-1, 1+maxHP/5)
	if pulverized {
		n += dice.Rng(src, 1, 6)
	}
	return max(0, n)
}

func (r *Resolver) gibs(victim creature.Combatant, rep *Report) {
	if !gibbable(victim) || !(rep.Pulverized || rep.CorpseDamage >= 2) {
		return
	}
	n := GibCount(rep.CorpseDamage, victim.MaxHealth(), rep.Pulverized, r.deps.Roller)
	blood := bloodKind(victim)
	origin := victim.Position()
	for i := 0; i < n; i++ {
		if p, ok := r.splash(origin); ok && r.deps.World.SpawnField(p, world.FieldGibs, 1) == nil {
			rep.Gibs++
		}
		if blood == "" {
			continue
		}
		if p, ok := r.splash(origin); ok && r.deps.World.SpawnField(p, blood, 1) == nil {
			rep.Blood++
		}
	}
}

// splash picks a point on a short random trace from origin and reports
// whether the line to it is clear and the point itself can hold a field.
func (r *Resolver) splash(origin world.Point) (world.Point, bool) {
	reach := r.deps.Roller.Rng(1, 3)
	p := origin.Offset(r.deps.Roller.Rng(-reach, reach), r.deps.Roller.Rng(-reach, reach))
	if !r.deps.World.ClearLine(origin, p) || !r.deps.World.Passable(p) {
		return p, false
	}
	return p, true
}
