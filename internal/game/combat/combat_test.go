package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/carrion/internal/game/combat"
	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/damage"
	"github.com/cory-johannsen/carrion/internal/game/dice"
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

// scriptedRolls returns the same opposed rolls every attack.
type scriptedRolls struct{ hit, dodge int }

func (s scriptedRolls) HitRoll(creature.Combatant) int   { return s.hit }
func (s scriptedRolls) DodgeRoll(creature.Combatant) int { return s.dodge }

type fixture struct {
	reg *effect.Registry
	fx  combat.Effects
	log *message.Log
}

func newFixture(t testing.TB) fixture {
	t.Helper()
	reg, err := effect.LoadDirectory("../../../content/effects")
	require.NoError(t, err)
	fx, err := combat.ResolveEffects(reg)
	require.NoError(t, err)
	return fixture{reg: reg, fx: fx, log: &message.Log{}}
}

func (f fixture) resolver(src dice.Source, opts ...combat.Option) *combat.Resolver {
	all := append([]combat.Option{combat.WithSink(f.log)}, opts...)
	return combat.NewResolver(dice.NewLoggedRoller(src, nil), combat.DefaultBalance(), f.fx, nil, all...)
}

func (f fixture) pipeline(src dice.Source, death combat.DeathHandler) *combat.Pipeline {
	return combat.NewPipeline(dice.NewLoggedRoller(src, nil), combat.DefaultBalance(), f.fx, death, nil)
}

// brute is a medium fleshy species whose melee is a flat 10 bash.
func brute() *creature.Species {
	return &creature.Species{
		ID:        "brute",
		Name:      "brute",
		Size:      creature.Medium,
		MaxHP:     84,
		Speed:     100,
		Stats:     creature.StatBlock{Str: 8, Dex: 8, Per: 8, Int: 8},
		Materials: []creature.Material{creature.Flesh},
		Melee:     []creature.Attack{{Type: damage.Bash, Dice: dice.MustParse("10")}},
	}
}

func (f fixture) monster(t testing.TB, id string, mutate func(*creature.Species)) *creature.Monster {
	t.Helper()
	s := brute()
	if mutate != nil {
		mutate(s)
	}
	m, err := creature.NewMonster(id, s, world.Point{X: 5, Y: 5}, f.reg, nil)
	require.NoError(t, err)
	return m
}

func (f fixture) hero(t testing.TB) *creature.Character {
	t.Helper()
	return creature.NewCharacter(creature.BaseConfig{
		ID:       "hero",
		Name:     "Hero",
		Stats:    creature.StatBlock{Str: 8, Dex: 8, Per: 8, Int: 8},
		Size:     creature.Medium,
		Speed:    100,
		MaxHP:    84,
		Position: world.Point{X: 4, Y: 5},
	}, f.reg, f.log, nil)
}

// deaths counts death handler calls.
type deaths struct{ victims []string }

func (d *deaths) Resolve(v creature.Combatant) {
	d.victims = append(d.victims, v.ID())
	v.Lifecycle().Expire()
}
