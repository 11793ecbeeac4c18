package creature

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/damage"
	"github.com/cory-johannsen/carrion/internal/game/dice"
	"github.com/cory-johannsen/carrion/internal/game/effect"
	"github.com/cory-johannsen/carrion/internal/game/message"
)

// Weapon is a wielded melee weapon.
type Weapon struct {
	Name   string
	Damage []Attack
}

// Character is a player-controlled combatant. Its effect bag narrates to the
// player's sink.
type Character struct {
	*Base
	sink   message.Sink
	weapon *Weapon
	// worn maps a coarse body group to resistance per damage type.
	worn map[bodypart.Location]map[damage.Type]float64
}

// NewCharacter creates a player-controlled combatant.
//
// Precondition: reg must be non-nil; cfg.MaxHP must be >= 1.
// Postcondition: the character is alive at full health with a full move budget.
func NewCharacter(cfg BaseConfig, reg *effect.Registry, sink message.Sink, logger *zap.Logger) *Character {
	if sink == nil {
		sink = message.Discard
	}
	if len(cfg.Materials) == 0 {
		cfg.Materials = []Material{HumanFlesh}
	}
	bag := effect.NewBag(reg, sink, logger)
	return &Character{
		Base: newBase(cfg, bag, logger),
		sink: sink,
		worn: make(map[bodypart.Location]map[damage.Type]float64),
	}
}

// IsPlayer always reports true.
func (c *Character) IsPlayer() bool { return true }

// Sink returns the player's narrative sink.
func (c *Character) Sink() message.Sink { return c.sink }

// Wield equips w. A nil weapon means fighting unarmed.
func (c *Character) Wield(w *Weapon) { c.weapon = w }

// Weapon returns the wielded weapon, or nil when unarmed.
func (c *Character) Weapon() *Weapon { return c.weapon }

// Wear sets the resistance of worn armor covering part's group.
//
// Postcondition: Resistance at any location in that group includes res.
func (c *Character) Wear(part bodypart.Location, res map[damage.Type]float64) {
	g := part.Group()
	if c.worn[g] == nil {
		c.worn[g] = make(map[damage.Type]float64)
	}
	for t, v := range res {
		c.worn[g][t] += v
	}
}

// Resistance returns intrinsic plus worn resistance at target. A whole-body
// hit is resolved against the torso armor.
func (c *Character) Resistance(target bodypart.Target, t damage.Type) float64 {
	g := target.Part.Group()
	if target.IsWhole() {
		g = bodypart.Torso
	}
	return c.Base.Resistance(target, t) + c.worn[g][t]
}

// MeleeAttack rolls the wielded weapon, or a strength-scaled bash when unarmed.
func (c *Character) MeleeAttack(src dice.Source) damage.Instance {
	if c.weapon != nil && len(c.weapon.Damage) > 0 {
		return rollAttacks(src, c.weapon.Damage)
	}
	return damage.New(damage.Bash, float64(dice.Rng(src, 0, max(1, c.Strength()/2))))
}

// OnDodge narrates the dodge and spends the turn's dodge.
func (c *Character) OnDodge(attacker Combatant) {
	c.spendDodge()
	message.Addf(c.sink, message.Good, "You dodge %s.", attacker.Name())
}
