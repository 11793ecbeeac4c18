package effect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/effect"
)

// fixedSource always returns min(val, n-1) for any Intn call.
type fixedSource struct{ val int }

func (f *fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

type escaper struct{ str, dex int }

func (e escaper) Strength() int  { return e.str }
func (e escaper) Dexterity() int { return e.dex }

func TestAttemptEscape_NoRestraint(t *testing.T) {
	f := newFixture(t)
	b := effect.NewBag(f.reg, nil, nil)
	out := effect.AttemptEscape(b, escaper{8, 8}, &fixedSource{})
	assert.False(t, out.Restrained)
	assert.True(t, out.Free)
}

func TestAttemptEscape_FailureKeepsEffectAndCostsMoves(t *testing.T) {
	f := newFixture(t)
	b := effect.NewBag(f.reg, nil, nil)
	require.NoError(t, b.Add(f.restrained, 5, false, 1, bodypart.WholeBody))

	// 1 + 1 = 2, not above difficulty 10
	out := effect.AttemptEscape(b, escaper{8, 8}, &fixedSource{val: 0})
	assert.True(t, out.Restrained)
	assert.False(t, out.Free)
	assert.Equal(t, 100, out.MoveCost)
	assert.Empty(t, out.Drops)
	assert.True(t, b.Has(f.restrained))
}

func TestAttemptEscape_SuccessRemovesAndDrops(t *testing.T) {
	f := newFixture(t)
	b := effect.NewBag(f.reg, nil, nil)
	require.NoError(t, b.Add(f.restrained, 5, false, 1, bodypart.WholeBody))

	// 8 + 8 = 16 > 10
	out := effect.AttemptEscape(b, escaper{8, 8}, &fixedSource{val: 99})
	assert.True(t, out.Free)
	assert.Equal(t, 0, out.MoveCost)
	assert.Equal(t, []effect.TypeID{f.restrained}, out.Escaped)
	assert.Equal(t, []string{"rope"}, out.Drops)
	assert.False(t, b.Has(f.restrained))
}

func TestAttemptEscape_ZeroStatsNeverEscapePositiveDifficulty(t *testing.T) {
	f := newFixture(t)
	b := effect.NewBag(f.reg, nil, nil)
	require.NoError(t, b.Add(f.restrained, 5, false, 1, bodypart.WholeBody))
	out := effect.AttemptEscape(b, escaper{0, 0}, &fixedSource{val: 99})
	assert.False(t, out.Free)
}
