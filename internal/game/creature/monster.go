package creature

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/damage"
	"github.com/cory-johannsen/carrion/internal/game/dice"
	"github.com/cory-johannsen/carrion/internal/game/effect"
	"github.com/cory-johannsen/carrion/internal/game/world"
)

// Monster is an autonomous combatant spawned from a Species. Its effect bag
// has no narrative sink.
type Monster struct {
	*Base
}

// NewMonster spawns a monster of species s at pos.
//
// Precondition: s must be non-nil and valid; reg must be non-nil.
// Postcondition: the monster is alive at full health; its mods mirror the species.
func NewMonster(id string, s *Species, pos world.Point, reg *effect.Registry, logger *zap.Logger) (*Monster, error) {
	if s == nil {
		return nil, fmt.Errorf("creature.NewMonster: species must not be nil")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	mult := make(map[damage.Type]float64, len(s.Multipliers))
	for t, v := range s.Multipliers {
		mult[t] = v
	}
	cfg := BaseConfig{
		ID:        id,
		Name:      s.Name,
		Species:   s,
		Stats:     s.Stats,
		Size:      s.Size,
		Speed:     s.Speed,
		MaxHP:     s.MaxHP,
		Position:  pos,
		Materials: s.Materials,
		Traits:    s.Traits,
		Mods: Mods{
			HitBonus:   s.HitBonus,
			DodgeBonus: s.DodgeBonus,
			BlockCount: s.BlockCount,
			Multiplier: mult,
		},
	}
	return &Monster{Base: newBase(cfg, effect.NewBag(reg, nil, logger), logger)}, nil
}

// IsPlayer always reports false.
func (m *Monster) IsPlayer() bool { return false }

// MeleeAttack rolls the species' natural attacks; a species without any
// strikes for a strength-scaled bash.
func (m *Monster) MeleeAttack(src dice.Source) damage.Instance {
	if m.species != nil && len(m.species.Melee) > 0 {
		return rollAttacks(src, m.species.Melee)
	}
	return damage.New(damage.Bash, float64(dice.Rng(src, 0, max(1, m.Strength()/2))))
}

// OnDodge spends the turn's dodge.
func (m *Monster) OnDodge(Combatant) {
	m.spendDodge()
}
