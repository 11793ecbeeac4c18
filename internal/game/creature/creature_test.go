package creature_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/effect"
	"github.com/cory-johannsen/carrion/internal/game/message"
	"github.com/cory-johannsen/carrion/internal/game/world"
)

// fixedSource always returns min(val, n-1) for any Intn call.
type fixedSource struct{ val int }

func (f *fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func loadEffects(t testing.TB) *effect.Registry {
	t.Helper()
	reg, err := effect.LoadDirectory("../../../content/effects")
	require.NoError(t, err)
	return reg
}

func typeID(t testing.TB, reg *effect.Registry, id string) effect.TypeID {
	t.Helper()
	tid, ok := reg.Lookup(id)
	require.True(t, ok, "effect %q", id)
	return tid
}

func newHero(t testing.TB, reg *effect.Registry, sink message.Sink) *creature.Character {
	t.Helper()
	return creature.NewCharacter(creature.BaseConfig{
		ID:       "hero",
		Name:     "Hero",
		Stats:    creature.StatBlock{Str: 8, Dex: 8, Per: 8, Int: 8},
		Size:     creature.Medium,
		Speed:    100,
		MaxHP:    84,
		Position: world.Point{X: 5, Y: 5},
	}, reg, sink, nil)
}

func zombieSpecies() *creature.Species {
	return &creature.Species{
		ID:        "zombie",
		Name:      "zombie",
		Size:      creature.Medium,
		MaxHP:     80,
		Speed:     70,
		Stats:     creature.StatBlock{Str: 8, Dex: 6, Per: 6, Int: 1},
		Materials: []creature.Material{creature.Flesh},
	}
}
