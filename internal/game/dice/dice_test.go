package dice_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/carrion/internal/game/dice"
)

// fixedSource always returns min(val, n-1) for any Intn call.
type fixedSource struct{ val int }

func (f *fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

// countingSource wraps a Source and records how many draws were made.
type countingSource struct {
	inner dice.Source
	calls int
}

func (c *countingSource) Intn(n int) int {
	c.calls++
	return c.inner.Intn(n)
}

func TestDice_Bounds(t *testing.T) {
	assert.Equal(t, 3, dice.Dice(&fixedSource{val: 0}, 3, 6))
	assert.Equal(t, 18, dice.Dice(&fixedSource{val: 99}, 3, 6))
	assert.Equal(t, 0, dice.Dice(&fixedSource{val: 0}, 0, 6))
	assert.Equal(t, 0, dice.Dice(&fixedSource{val: 0}, 3, 0))
}

func TestRng_SwapsBounds(t *testing.T) {
	assert.Equal(t, 2, dice.Rng(&fixedSource{val: 0}, 5, 2))
	assert.Equal(t, 7, dice.Rng(&fixedSource{val: 0}, 7, 7))
}

func TestChance_Edges(t *testing.T) {
	src := &fixedSource{val: 0}
	assert.False(t, dice.Chance(src, 0))
	assert.True(t, dice.Chance(src, 100))
	assert.True(t, dice.Chance(src, 1))
	assert.False(t, dice.Chance(&fixedSource{val: 99}, 99))
}

func TestOneIn(t *testing.T) {
	assert.True(t, dice.OneIn(&fixedSource{val: 5}, 1))
	assert.True(t, dice.OneIn(&fixedSource{val: 0}, 6))
	assert.False(t, dice.OneIn(&fixedSource{val: 3}, 6))
}

func TestRollRemainder_WholeValueDrawsNothing(t *testing.T) {
	src := &countingSource{inner: dice.NewCryptoSource()}
	assert.Equal(t, 4, dice.RollRemainder(src, 4.0))
	assert.Equal(t, 0, src.calls)
}

func TestRollRemainder_Fraction(t *testing.T) {
	assert.Equal(t, 3, dice.RollRemainder(&fixedSource{val: 0}, 2.25), "a zero draw rounds up")
	assert.Equal(t, 2, dice.RollRemainder(&fixedSource{val: math.MaxInt32}, 2.25), "a maximal draw rounds down")
}

func TestRollRemainder_Property(t *testing.T) {
	src := dice.NewSeededSource(7)
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.Float64Range(0, 1000).Draw(rt, "v")
		got := dice.RollRemainder(src, v)
		assert.GreaterOrEqual(rt, float64(got), math.Floor(v))
		assert.LessOrEqual(rt, float64(got), math.Ceil(v))
	})
}

func TestRng_Property(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-100, 100).Draw(rt, "lo")
		hi := rapid.IntRange(-100, 100).Draw(rt, "hi")
		v := dice.Rng(src, lo, hi)
		assert.GreaterOrEqual(rt, v, min(lo, hi))
		assert.LessOrEqual(rt, v, max(lo, hi))
	})
}

func TestFloat_InRange(t *testing.T) {
	src := dice.NewSeededSource(1)
	for i := 0; i < 1000; i++ {
		v := dice.Float(src, 0.5, 1.5)
		assert.GreaterOrEqual(t, v, 0.5)
		assert.Less(t, v, 1.5)
	}
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestSeededSource_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

// TestCryptoSource_Intn_InRange verifies the postcondition:
// every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies the precondition:
// Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestParse(t *testing.T) {
	cases := map[string]dice.Expression{
		"d4":    {Raw: "d4", Count: 1, Sides: 4},
		"2d6":   {Raw: "2d6", Count: 2, Sides: 6},
		"2d6+3": {Raw: "2d6+3", Count: 2, Sides: 6, Modifier: 3},
		"3D8-2": {Raw: "3D8-2", Count: 3, Sides: 8, Modifier: -2},
		"5":     {Raw: "5", Modifier: 5},
	}
	for in, want := range cases {
		got, err := dice.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "xd6", "2d", "2d0", "0d6", "2d6+x", "abc"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "%q should not parse", in)
	}
}

func TestExpression_RollWithinBounds(t *testing.T) {
	e := dice.MustParse("2d6+1")
	src := dice.NewSeededSource(3)
	for i := 0; i < 200; i++ {
		v := e.Roll(src)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, e.Max())
	}
	assert.Equal(t, "2d6+1", e.String())
}

func TestRoller_LogsRolls(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := dice.NewLoggedRoller(&fixedSource{val: 2}, zap.New(core))

	assert.Equal(t, 6, r.Dice(2, 6))
	assert.Equal(t, 3, r.Rng(1, 5))

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(6), entries[0].ContextMap()["total"])
	assert.Equal(t, 1, logs.FilterMessage("range roll").Len())
}

func TestRoller_NilLoggerIsSafe(t *testing.T) {
	r := dice.NewLoggedRoller(&fixedSource{val: 0}, nil)
	assert.Equal(t, 1, r.Dice(1, 20))
}
