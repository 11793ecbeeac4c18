// Package combat resolves attacks between combatants: body-location
// selection, the damage pipeline, melee and ranged resolution, and the
// encounter tick driver.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/carrion/internal/config"
	"github.com/cory-johannsen/carrion/internal/game/effect"
)

// Balance holds the tunable numbers of combat resolution.
type Balance struct {
	CritSpread     int
	CritMultiplier float64
	StunBashMin    int
	KnockdownMoves int
	BlockChance    int

	BashStagger     float64
	ElectricStagger float64
	ColdStagger     float64

	ProneEyesBonus float64
	ProneHeadBonus float64

	HeadshotBand       float64
	CriticalBand       float64
	GoodBand           float64
	NormalBand         float64
	GrazeBand          float64
	RangedQualityScale float64
}

// BalanceFrom copies the combat section of the configuration.
func BalanceFrom(c config.CombatConfig) Balance {
	return Balance{
		CritSpread:         c.CritSpread,
		CritMultiplier:     c.CritMultiplier,
		StunBashMin:        c.StunBashMin,
		KnockdownMoves:     c.KnockdownMoves,
		BlockChance:        c.BlockChance,
		BashStagger:        c.BashStagger,
		ElectricStagger:    c.ElectricStagger,
		ColdStagger:        c.ColdStagger,
		ProneEyesBonus:     c.ProneEyesBonus,
		ProneHeadBonus:     c.ProneHeadBonus,
		HeadshotBand:       c.HeadshotBand,
		CriticalBand:       c.CriticalBand,
		GoodBand:           c.GoodBand,
		NormalBand:         c.NormalBand,
		GrazeBand:          c.GrazeBand,
		RangedQualityScale: c.RangedQualityScale,
	}
}

// DefaultBalance returns the balance of the default configuration.
func DefaultBalance() Balance {
	return BalanceFrom(config.Default().Combat)
}

// Effects are the effect types combat resolution applies by itself.
type Effects struct {
	OnFire  effect.TypeID
	Stunned effect.TypeID
	Downed  effect.TypeID
}

// ResolveEffects looks up the effect types combat applies.
//
// Postcondition: Returns an error naming the first missing effect id, checked
// in the order onfire, stunned, downed.
func ResolveEffects(reg *effect.Registry) (Effects, error) {
	var out Effects
	for _, want := range []struct {
		id  string
		dst *effect.TypeID
	}{
		{"onfire", &out.OnFire},
		{"stunned", &out.Stunned},
		{"downed", &out.Downed},
	} {
		t, ok := reg.Lookup(want.id)
		if !ok {
			return Effects{}, fmt.Errorf("combat: effect %q is not registered", want.id)
		}
		*want.dst = t
	}
	return out, nil
}
