package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/combat"
	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/damage"
	"github.com/cory-johannsen/carrion/internal/game/dice"
	"github.com/cory-johannsen/carrion/internal/game/world"
)

type arena struct {
	fixture
	roster *creature.Roster
	engine *combat.Engine
	grid   *world.Grid
	hero   *creature.Character
	zombie *creature.Monster
}

func newArena(t *testing.T) arena {
	t.Helper()
	f := newFixture(t)
	roster := creature.NewRoster(f.reg, nil)
	grid := world.NewGrid(10, 10)
	hero := f.hero(t)
	require.NoError(t, roster.Add(hero))
	zombie, err := roster.Spawn(brute(), world.Point{X: 5, Y: 5})
	require.NoError(t, err)
	roller := dice.NewLoggedRoller(&fixedSource{}, nil)
	return arena{
		fixture: f,
		roster:  roster,
		engine:  combat.NewEngine(roster, roller, grid, nil),
		grid:    grid,
		hero:    hero,
		zombie:  zombie,
	}
}

func TestEngine_StartValidates(t *testing.T) {
	a := newArena(t)
	_, err := a.engine.Start("", []creature.Combatant{a.hero, a.zombie})
	assert.Error(t, err)
	_, err = a.engine.Start("e1", []creature.Combatant{a.hero})
	assert.Error(t, err)

	enc, err := a.engine.Start("e1", []creature.Combatant{a.hero, a.zombie})
	require.NoError(t, err)
	_, err = a.engine.Start("e1", []creature.Combatant{a.hero, a.zombie})
	assert.Error(t, err)

	got, ok := a.engine.Get("e1")
	require.True(t, ok)
	assert.Same(t, enc, got)
	a.engine.End("e1")
	_, ok = a.engine.Get("e1")
	assert.False(t, ok)
}

func TestEncounter_InitiativeOrder(t *testing.T) {
	a := newArena(t)
	a.hero.Stats().Dex.Base = 20
	a.hero.Stats().Recompute()

	enc, err := a.engine.Start("e1", []creature.Combatant{a.zombie, a.hero})
	require.NoError(t, err)

	assert.Equal(t, "hero", enc.Participants[0].ID())
	assert.Greater(t, enc.Initiative("hero"), enc.Initiative(a.zombie.ID()))
}

func TestEncounter_TickDecaysBeforeActing(t *testing.T) {
	a := newArena(t)
	stunned := a.fx.Stunned
	require.NoError(t, a.hero.Effects().Add(stunned, 1, false, 1, bodypart.WholeBody))
	enc, err := a.engine.Start("e1", []creature.Combatant{a.hero, a.zombie})
	require.NoError(t, err)

	var sawStun []bool
	rep := enc.Tick(func(c creature.Combatant) {
		sawStun = append(sawStun, c.Effects().Has(stunned))
	})

	assert.Equal(t, 1, rep.Round)
	assert.Equal(t, 1, rep.Expired)
	assert.ElementsMatch(t, []string{"hero", a.zombie.ID()}, rep.Acted)
	assert.Equal(t, []bool{false, false}, sawStun)
}

func TestEncounter_RestrainedCombatantIsHeld(t *testing.T) {
	a := newArena(t)
	restrained, ok := a.reg.Lookup("restrained")
	require.True(t, ok)
	require.NoError(t, a.hero.Effects().Add(restrained, 5, false, 1, bodypart.WholeBody))
	enc, err := a.engine.Start("e1", []creature.Combatant{a.hero, a.zombie})
	require.NoError(t, err)

	rep := enc.Tick(func(creature.Combatant) {})

	assert.Equal(t, []string{"hero"}, rep.Held)
	assert.Equal(t, []string{a.zombie.ID()}, rep.Acted)
	assert.True(t, a.hero.Effects().Has(restrained))
	assert.Equal(t, 0, a.hero.Moves())
}

func TestEncounter_StunnedCombatantIsHeld(t *testing.T) {
	a := newArena(t)
	require.NoError(t, a.hero.Effects().Add(a.fx.Stunned, 3, false, 1, bodypart.WholeBody))
	enc, err := a.engine.Start("e1", []creature.Combatant{a.hero, a.zombie})
	require.NoError(t, err)

	var acted []string
	rep := enc.Tick(func(c creature.Combatant) { acted = append(acted, c.ID()) })

	assert.Equal(t, []string{"hero"}, rep.Held)
	assert.Equal(t, []string{a.zombie.ID()}, rep.Acted)
	assert.Equal(t, []string{a.zombie.ID()}, acted)
	assert.True(t, a.hero.Effects().Has(a.fx.Stunned))
}

func TestEncounter_DownedCombatantMustStandUp(t *testing.T) {
	a := newArena(t)
	require.NoError(t, a.zombie.Effects().Add(a.fx.Downed, 5, false, 1, bodypart.WholeBody))
	enc, err := a.engine.Start("e1", []creature.Combatant{a.hero, a.zombie})
	require.NoError(t, err)

	rep := enc.Tick(func(creature.Combatant) {})

	assert.Equal(t, []string{a.zombie.ID()}, rep.Held)
	assert.Equal(t, []string{"hero"}, rep.Acted)
	assert.True(t, a.zombie.Effects().Has(a.fx.Downed))
}

// Burning deals two heat per intensity each turn after decay, and the burn
// neither spreads nor feeds the fire it comes from.
func TestEncounter_BurningDealsHeatEachTurn(t *testing.T) {
	a := newArena(t)
	a.engine.SetPipeline(a.pipeline(&fixedSource{}, &deaths{}))
	require.NoError(t, a.zombie.Effects().Add(a.fx.OnFire, 5, false, 1, bodypart.WholeBody))
	enc, err := a.engine.Start("e1", []creature.Combatant{a.hero, a.zombie})
	require.NoError(t, err)

	burned := 0
	for i := 0; i < 3; i++ {
		burned += enc.Tick(func(creature.Combatant) {}).Ongoing
	}

	assert.Equal(t, 6, burned)
	assert.Equal(t, 78, a.zombie.Health())
	assert.Equal(t, 84, a.hero.Health())
	assert.Equal(t, 1, a.zombie.Effects().Intensity(a.fx.OnFire, true))
	assert.Equal(t, 2, a.zombie.Effects().Duration(a.fx.OnFire, true))
}

func TestEncounter_BurningCanKill(t *testing.T) {
	a := newArena(t)
	d := &deaths{}
	a.engine.SetPipeline(a.pipeline(&fixedSource{}, d))
	a.zombie.ApplyHealthLoss(83)
	require.NoError(t, a.zombie.Effects().Add(a.fx.OnFire, 5, false, 1, bodypart.WholeBody))
	enc, err := a.engine.Start("e1", []creature.Combatant{a.hero, a.zombie})
	require.NoError(t, err)

	rep := enc.Tick(func(creature.Combatant) {})

	assert.Equal(t, []string{a.zombie.ID()}, d.victims)
	assert.Equal(t, []string{"hero"}, rep.Acted)
	assert.Empty(t, rep.Held)
	assert.Equal(t, []string{a.zombie.ID()}, rep.Removed)
	assert.Empty(t, a.zombie.Killer())
}

func TestEncounter_NoOngoingDamageWithoutPipeline(t *testing.T) {
	a := newArena(t)
	require.NoError(t, a.zombie.Effects().Add(a.fx.OnFire, 5, false, 1, bodypart.WholeBody))
	enc, err := a.engine.Start("e1", []creature.Combatant{a.hero, a.zombie})
	require.NoError(t, err)

	rep := enc.Tick(func(creature.Combatant) {})

	assert.Zero(t, rep.Ongoing)
	assert.Equal(t, 84, a.zombie.Health())
}

func TestEncounter_DeadAreSwept(t *testing.T) {
	a := newArena(t)
	enc, err := a.engine.Start("e1", []creature.Combatant{a.hero, a.zombie})
	require.NoError(t, err)
	p := a.pipeline(&fixedSource{}, &deaths{})

	rep := enc.Tick(func(c creature.Combatant) {
		if c.IsPlayer() {
			p.Deal(c, a.zombie, bodypart.At(bodypart.Torso), damage.New(damage.True, 500))
		}
	})

	assert.Equal(t, []string{a.zombie.ID()}, rep.Removed)
	assert.Len(t, enc.Participants, 1)
	assert.True(t, enc.Over())
	assert.True(t, enc.HasLivingPlayers())
	assert.False(t, enc.HasLivingMonsters())
	_, ok := a.roster.Get(a.zombie.ID())
	assert.False(t, ok)
}
