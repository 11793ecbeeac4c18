package combat

import (
	"math"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/dice"
	"github.com/cory-johannsen/carrion/internal/game/effect"
)

// slot is one entry of the body-location walk.
type slot struct {
	target   bodypart.Target
	exponent float64
}

// walkOrder is the fixed order the weighted draw walks. Weights tables use
// the same indices.
var walkOrder = [...]slot{
	{bodypart.At(bodypart.Eyes), 1.15},
	{bodypart.At(bodypart.Head), 1.15},
	{bodypart.At(bodypart.Torso), 1.0},
	{bodypart.AtSide(bodypart.Arms, bodypart.Left), 0.95},
	{bodypart.AtSide(bodypart.Arms, bodypart.Right), 0.95},
	{bodypart.AtSide(bodypart.Legs, bodypart.Left), 0.975},
	{bodypart.AtSide(bodypart.Legs, bodypart.Right), 0.975},
}

const (
	slotEyes = iota
	slotHead
	slotTorso
)

// maxWeight keeps the weight sum well inside int range for absurd qualities.
const maxWeight = 1e9

type weights [len(walkOrder)]float64

// Base weights keyed by attacker size relative to the defender.
var (
	weightsSmaller = weights{0, 0, 55, 18, 18, 28, 28}
	weightsEqual   = weights{0.33, 2.33, 33.33, 20, 20, 12, 12}
	weightsBigger  = weights{0.57, 5.71, 36.57, 22.86, 22.86, 5.71, 5.71}
)

// Selector picks the body location a hit lands on.
type Selector struct {
	balance Balance
	downed  effect.TypeID
}

// NewSelector creates a Selector. downed is the effect type that marks a
// defender as grounded; zero disables the prone bonus.
func NewSelector(b Balance, downed effect.TypeID) *Selector {
	return &Selector{balance: b, downed: downed}
}

func sizeBucket(attacker, defender creature.Size) int {
	return max(-1, min(1, int(attacker)-int(defender)))
}

func baseWeights(bucket int) weights {
	switch bucket {
	case -1:
		return weightsSmaller
	case 1:
		return weightsBigger
	default:
		return weightsEqual
	}
}

// Weights returns the integer weight per location for a hit of quality q,
// in walk order.
//
// Postcondition: every weight is >= 0.
func (s *Selector) Weights(attacker, defender creature.Combatant, q float64) [len(walkOrder)]int {
	w := baseWeights(sizeBucket(attacker.Size(), defender.Size()))
	if s.downed != 0 && defender.Effects().Has(s.downed) {
		w[slotEyes] += s.balance.ProneEyesBonus
		w[slotHead] += s.balance.ProneHeadBonus
	}
	if math.IsNaN(q) || q < 0 {
		q = 0
	}
	var out [len(walkOrder)]int
	for i, sl := range walkOrder {
		v := math.Floor(w[i] * math.Pow(q, sl.exponent) * 10)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			continue
		}
		out[i] = int(math.Min(v, maxWeight))
	}
	return out
}

// Select draws a body location for a hit of quality q.
//
// Postcondition: returns a torso target when every weight is zero.
func (s *Selector) Select(attacker, defender creature.Combatant, q float64, src dice.Source) bodypart.Target {
	return pick(s.Weights(attacker, defender, q), src)
}

func pick(w [len(walkOrder)]int, src dice.Source) bodypart.Target {
	sum := 0
	for _, v := range w {
		sum += v
	}
	if sum <= 0 {
		return walkOrder[slotTorso].target
	}
	roll := dice.Rng(src, 0, sum)
	for i, v := range w {
		if v == 0 {
			continue
		}
		roll -= v
		if roll <= 0 {
			return walkOrder[i].target
		}
	}
	return walkOrder[slotTorso].target
}
