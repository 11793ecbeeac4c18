package creature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/damage"
	"github.com/cory-johannsen/carrion/internal/game/dice"
	"github.com/cory-johannsen/carrion/internal/game/effect"
	"github.com/cory-johannsen/carrion/internal/game/message"
	"github.com/cory-johannsen/carrion/internal/game/world"
)

var (
	_ creature.Combatant = (*creature.Character)(nil)
	_ creature.Combatant = (*creature.Monster)(nil)
)

func TestAttribute_NeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := creature.Attribute{
			Base:  rapid.IntRange(-20, 40).Draw(rt, "base"),
			Bonus: rapid.IntRange(-40, 40).Draw(rt, "bonus"),
		}
		a.Recompute()
		if a.Current() < 0 {
			rt.Fatalf("current %d < 0", a.Current())
		}
		if a.Base+a.Bonus >= 0 && a.Current() != a.Base+a.Bonus {
			rt.Fatalf("current %d != %d", a.Current(), a.Base+a.Bonus)
		}
	})
}

func TestStats_SetBonus(t *testing.T) {
	s := creature.NewStats(creature.StatBlock{Str: 8, Dex: 3, Per: 6, Int: 5})
	s.SetBonus(effect.StatMods{Str: 2, Dex: -5})
	s.Recompute()
	assert.Equal(t, 10, s.Str.Current())
	assert.Equal(t, 0, s.Dex.Current())
	assert.Equal(t, 6, s.Per.Current())
}

func TestCharacter_Spawn(t *testing.T) {
	reg := loadEffects(t)
	c := newHero(t, reg, nil)
	assert.True(t, c.IsPlayer())
	assert.Equal(t, 84, c.Health())
	assert.Equal(t, 84, c.MaxHealth())
	assert.Equal(t, 100, c.Moves())
	assert.Equal(t, []creature.Material{creature.HumanFlesh}, c.Materials())
	assert.True(t, c.Lifecycle().Alive())
	assert.Equal(t, 1, c.DodgesLeft())
}

func TestKiller_FirstOneSticks(t *testing.T) {
	c := newHero(t, loadEffects(t), nil)
	c.SetKiller("zombie-1")
	c.SetKiller("zombie-2")
	assert.Equal(t, "zombie-1", c.Killer())
}

func TestRefresh_CarriesDebtNotSurplus(t *testing.T) {
	c := newHero(t, loadEffects(t), nil)
	c.ModMoves(-150)
	c.Refresh()
	assert.Equal(t, 50, c.Moves())

	c.ModMoves(500)
	c.Refresh()
	assert.Equal(t, 100, c.Moves())
}

func TestSpeed_PenalizedByEffects(t *testing.T) {
	reg := loadEffects(t)
	c := newHero(t, reg, nil)
	require.NoError(t, c.Effects().Add(typeID(t, reg, "stunned"), 3, false, 1, bodypart.WholeBody))
	assert.Equal(t, 50, c.Speed())
}

func TestCharacter_Resistance(t *testing.T) {
	c := newHero(t, loadEffects(t), nil)
	c.Wear(bodypart.Torso, map[damage.Type]float64{damage.Cut: 3})
	c.Wear(bodypart.Hands, map[damage.Type]float64{damage.Bash: 1})

	assert.Equal(t, 3.0, c.Resistance(bodypart.At(bodypart.Torso), damage.Cut))
	assert.Equal(t, 3.0, c.Resistance(bodypart.WholeBody, damage.Cut))
	assert.Equal(t, 1.0, c.Resistance(bodypart.AtSide(bodypart.Arms, bodypart.Left), damage.Bash))
	assert.Equal(t, 0.0, c.Resistance(bodypart.At(bodypart.Head), damage.Cut))
}

func TestMonster_FromSpecies(t *testing.T) {
	s := zombieSpecies()
	s.Armor = map[damage.Type]float64{damage.Bash: 2}
	s.Multipliers = map[damage.Type]float64{damage.Heat: 1.5}
	s.Melee = []creature.Attack{{Type: damage.Cut, Dice: dice.MustParse("2d4")}}
	m, err := creature.NewMonster("zombie-1", s, world.Point{}, loadEffects(t), nil)
	require.NoError(t, err)

	assert.False(t, m.IsPlayer())
	assert.Equal(t, 80, m.Health())
	assert.Equal(t, 2.0, m.Resistance(bodypart.At(bodypart.Head), damage.Bash))
	assert.Equal(t, 1.5, m.Mods().MultiplierFor(damage.Heat))
	assert.Equal(t, 1.0, m.Mods().MultiplierFor(damage.Cut))

	hit := m.MeleeAttack(&fixedSource{val: 99})
	assert.Equal(t, 8.0, hit.Total())
	require.Len(t, hit.Units, 1)
	assert.Equal(t, damage.Cut, hit.Units[0].Type)
}

func TestNewMonster_RejectsNilSpecies(t *testing.T) {
	_, err := creature.NewMonster("x", nil, world.Point{}, loadEffects(t), nil)
	assert.Error(t, err)
}

func TestCharacter_UnarmedAndWeapon(t *testing.T) {
	c := newHero(t, loadEffects(t), nil)
	hit := c.MeleeAttack(&fixedSource{val: 99})
	assert.Equal(t, damage.New(damage.Bash, 4), hit)

	c.Wield(&creature.Weapon{Name: "machete", Damage: []creature.Attack{
		{Type: damage.Cut, Dice: dice.MustParse("1d8")},
		{Type: damage.Bash, Dice: dice.MustParse("1")},
	}})
	hit = c.MeleeAttack(&fixedSource{val: 0})
	assert.Equal(t, 1.0, hit.Units[0].Amount)
	assert.Equal(t, 2.0, hit.Total())
}

func TestOnDodge(t *testing.T) {
	log := &message.Log{}
	c := newHero(t, loadEffects(t), log)
	m, err := creature.NewMonster("zombie-1", zombieSpecies(), world.Point{}, loadEffects(t), nil)
	require.NoError(t, err)

	c.OnDodge(m)
	assert.Equal(t, 0, c.DodgesLeft())
	assert.Equal(t, []string{"You dodge zombie."}, log.Texts())

	m.OnDodge(c)
	assert.Equal(t, 0, m.DodgesLeft())
}

func TestUseBlock(t *testing.T) {
	c := creature.NewCharacter(creature.BaseConfig{
		ID: "b", Name: "B", MaxHP: 10, Speed: 100,
		Mods: creature.Mods{BlockCount: 1},
	}, loadEffects(t), nil, nil)
	assert.Equal(t, 1, c.BlocksLeft())
	c.UseBlock()
	c.UseBlock()
	assert.Equal(t, 0, c.BlocksLeft())
	c.Refresh()
	assert.Equal(t, 1, c.BlocksLeft())
}

func TestLifecycle(t *testing.T) {
	l := creature.NewLifecycle()
	assert.Equal(t, creature.StateAlive, l.State())
	assert.False(t, l.Expire())
	assert.True(t, l.Wound())
	assert.True(t, l.Dying())
	assert.False(t, l.Wound())
	assert.True(t, l.Expire())
	assert.True(t, l.Dead())
	assert.False(t, l.Expire())
}
