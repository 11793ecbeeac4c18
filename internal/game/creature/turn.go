package creature

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/dice"
	"github.com/cory-johannsen/carrion/internal/game/effect"
	"github.com/cory-johannsen/carrion/internal/game/world"
)

// BeginTurn runs the start-of-turn bookkeeping for c: effect decay scaled by
// the health ratio, stat recompute from the surviving effects, and a move
// budget refresh.
//
// Precondition: c must be non-nil.
// Postcondition: returns the effect instances that expired this turn.
func BeginTurn(c Combatant) []effect.Instance {
	ratio := 0.0
	if c.MaxHealth() > 0 {
		ratio = float64(c.Health()) / float64(c.MaxHealth())
	}
	expired := c.Effects().Process(ratio)
	st := c.Stats()
	st.SetBonus(effect.StatModifiers(c.Effects()))
	st.Recompute()
	c.Refresh()
	return expired
}

// TryAct runs the restraint check that gates c's action this turn. Items
// left behind by broken restraints are dropped at c's position. A combatant
// that breaks free is still held while any effect restricts attacking.
//
// Precondition: c and src must be non-nil; w may be nil when nothing drops.
// Postcondition: returns true iff c is free to act; a failed escape consumes
// its move cost.
func TryAct(c Combatant, src dice.Source, w world.World, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := effect.AttemptEscape(c.Effects(), c, src)
	for _, id := range out.Drops {
		if w == nil {
			break
		}
		item := world.Item{InstanceID: uuid.New().String(), DefID: id, Name: id, Quantity: 1}
		if err := w.SpawnItem(c.Position(), item); err != nil {
			logger.Warn("dropping escaped restraint",
				zap.String("combatant", c.ID()),
				zap.String("item", id),
				zap.Error(err),
			)
		}
	}
	if !out.Free {
		c.ModMoves(-out.MoveCost)
		logger.Debug("still restrained",
			zap.String("combatant", c.ID()),
			zap.Int("move_cost", out.MoveCost),
		)
		return false
	}
	if effect.IsActionRestricted(c.Effects(), effect.ActionAttack) {
		logger.Debug("action restricted",
			zap.String("combatant", c.ID()),
			zap.String("action", effect.ActionAttack),
		)
		return false
	}
	return true
}
