package damage_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/damage"
)

func flatResistance(v float64) damage.Resistor {
	return damage.ResistorFunc(func(bodypart.Target, damage.Type) float64 { return v })
}

func TestAbsorbHit_SubtractsResistance(t *testing.T) {
	in := damage.New(damage.Bash, 10).Add(damage.Cut, 3)
	out := damage.AbsorbHit(flatResistance(4), bodypart.At(bodypart.Torso), in)

	want := damage.Instance{Units: []damage.Unit{
		{Type: damage.Bash, Amount: 6},
		{Type: damage.Cut, Amount: 0},
	}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("absorbed proposal mismatch (-want +got):\n%s", diff)
	}
}

func TestAbsorbHit_DoesNotMutateInput(t *testing.T) {
	in := damage.New(damage.Stab, 8)
	_ = damage.AbsorbHit(flatResistance(5), bodypart.WholeBody, in)
	assert.InDelta(t, 8.0, in.Units[0].Amount, 1e-9)
}

func TestAbsorbHit_PerLocationAndType(t *testing.T) {
	r := damage.ResistorFunc(func(tgt bodypart.Target, ty damage.Type) float64 {
		if tgt.Part == bodypart.Head && ty == damage.Cut {
			return 7
		}
		return 0
	})
	in := damage.New(damage.Cut, 5).Add(damage.Heat, 5)
	out := damage.AbsorbHit(r, bodypart.At(bodypart.Head), in)
	assert.InDelta(t, 0.0, out.Units[0].Amount, 1e-9)
	assert.InDelta(t, 5.0, out.Units[1].Amount, 1e-9)
}

func TestAbsorbHit_NilResistorAndNegativeResistance(t *testing.T) {
	in := damage.New(damage.Cold, 4)
	assert.InDelta(t, 4.0, damage.AbsorbHit(nil, bodypart.WholeBody, in).Total(), 1e-9)
	assert.InDelta(t, 4.0, damage.AbsorbHit(flatResistance(-3), bodypart.WholeBody, in).Total(), 1e-9)
}

func TestAbsorbHit_NeverNegative_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "units")
		inst := damage.Instance{}
		for i := 0; i < n; i++ {
			inst.Units = append(inst.Units, damage.Unit{
				Type:   damage.Type(rapid.IntRange(0, int(damage.True)).Draw(rt, "type")),
				Amount: rapid.Float64Range(-50, 500).Draw(rt, "amount"),
			})
		}
		res := rapid.Float64Range(-20, 600).Draw(rt, "resistance")
		out := damage.AbsorbHit(flatResistance(res), bodypart.At(bodypart.Torso), inst)
		require.Len(rt, out.Units, n)
		for i, u := range out.Units {
			if u.Amount < 0 {
				rt.Fatalf("unit %d went negative: %v", i, u.Amount)
			}
			if inst.Units[i].Amount >= 0 && u.Amount > inst.Units[i].Amount {
				rt.Fatalf("unit %d grew: %v -> %v", i, inst.Units[i].Amount, u.Amount)
			}
		}
	})
}

func TestInstance_ScaledAndFlags(t *testing.T) {
	in := damage.New(damage.Bash, 10).With(damage.NoGib)
	out := in.Scaled(1.5)
	assert.True(t, out.Has(damage.NoGib))
	assert.InDelta(t, 15.0, out.Total(), 1e-9)
	assert.InDelta(t, 10.0, in.Total(), 1e-9)
	assert.InDelta(t, 0.0, in.Scaled(-2).Total(), 1e-9)

	byType := in.Add(damage.Heat, 4).ScaledBy(func(t damage.Type) float64 {
		if t == damage.Heat {
			return 2
		}
		return 1
	})
	assert.InDelta(t, 18.0, byType.Total(), 1e-9)
}

func TestDealt_Total(t *testing.T) {
	d := damage.Dealt{Totals: map[damage.Type]int{damage.Bash: 4, damage.Cut: 3}}
	assert.Equal(t, 7, d.Total())
	assert.Equal(t, 0, d.Of(damage.Heat))
}

func TestParseType(t *testing.T) {
	for _, ty := range damage.Types() {
		got, err := damage.ParseType(ty.String())
		require.NoError(t, err)
		assert.Equal(t, ty, got)
	}
	_, err := damage.ParseType("psychic")
	assert.Error(t, err)
}

func TestUnit_UnmarshalYAML(t *testing.T) {
	var units []damage.Unit
	require.NoError(t, yaml.Unmarshal([]byte("- {type: stab, amount: 6}\n- {type: heat, amount: 2.5}\n"), &units))
	assert.Equal(t, []damage.Unit{{Type: damage.Stab, Amount: 6}, {Type: damage.Heat, Amount: 2.5}}, units)
}
