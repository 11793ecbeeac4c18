package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/damage"
	"github.com/cory-johannsen/carrion/internal/game/dice"
	"github.com/cory-johannsen/carrion/internal/game/effect"
	"github.com/cory-johannsen/carrion/internal/game/message"
)

// Band is the quality tier of a ranged hit.
type Band int

const (
	BandMiss Band = iota
	BandGraze
	BandNormal
	BandGood
	BandCritical
	BandHeadshot
)

var bandNames = [...]string{"miss", "graze", "normal", "good", "critical", "headshot"}

// String returns the lower-case band name.
func (b Band) String() string {
	if b >= BandMiss && b <= BandHeadshot {
		return bandNames[b]
	}
	return "unknown"
}

// Outcome is the result of one melee or ranged attack.
type Outcome struct {
	// Spread is the melee hit roll minus the dodge roll.
	Spread int
	// Evaded is true when a ranged attack was dodged outright.
	Evaded bool
	// GoodHit is the ranged hit quality; lower is better.
	GoodHit float64
	Band    Band
	// Multiplier is the damage multiplier sampled for the ranged band.
	Multiplier float64
	Hit        bool
	Critical   bool
	Blocked    bool
	Target     bodypart.Target
	// Dealt is nil when the attack missed.
	Dealt *damage.Dealt
}

// Glanced reports whether the attack connected but dealt no damage.
func (o Outcome) Glanced() bool {
	return o.Hit && o.Dealt != nil && o.Dealt.Total() == 0
}

// Rolls produces the opposed rolls of an attack.
type Rolls interface {
	HitRoll(attacker creature.Combatant) int
	DodgeRoll(defender creature.Combatant) int
}

// statRolls derives rolls from stats, effects and mods.
type statRolls struct {
	roller *dice.Roller
	downed effect.TypeID
}

// NewStatRolls returns the default Rolls: a hit roll of
// (dex/2 + per/4 + hit bonus + effect modifier)d4 and a dodge roll of
// (dex/2 + dodge bonus + effect modifier)d4, halved while downed or out of
// dodges.
func NewStatRolls(roller *dice.Roller, downed effect.TypeID) Rolls {
	return &statRolls{roller: roller, downed: downed}
}

func (s *statRolls) HitRoll(c creature.Combatant) int {
	st := c.Stats()
	n := st.Dex.Current()/2 + st.Per.Current()/4 + c.Mods().HitBonus + effect.HitModifier(c.Effects())
	return s.roller.Dice(n, 4)
}

func (s *statRolls) DodgeRoll(c creature.Combatant) int {
	n := c.Stats().Dex.Current()/2 + c.Mods().DodgeBonus + effect.DodgeModifier(c.Effects())
	roll := s.roller.Dice(n, 4)
	if c.DodgesLeft() <= 0 || (s.downed != 0 && c.Effects().Has(s.downed)) {
		roll /= 2
	}
	return roll
}

// Resolver resolves melee and ranged attacks.
//
// Resolver is not safe for concurrent use; the simulation thread owns it.
type Resolver struct {
	roller   *dice.Roller
	selector *Selector
	pipeline *Pipeline
	rolls    Rolls
	balance  Balance
	effects  Effects
	sink     message.Sink
	logger   *zap.Logger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithRolls replaces the default stat-derived rolls.
func WithRolls(r Rolls) Option {
	return func(res *Resolver) { res.rolls = r }
}

// WithSink sets the narrative sink. The default discards narratives.
func WithSink(s message.Sink) Option {
	return func(res *Resolver) { res.sink = s }
}

// WithDeathHandler sets the handler invoked when a hit kills.
func WithDeathHandler(h DeathHandler) Option {
	return func(res *Resolver) { res.pipeline.SetDeathHandler(h) }
}

// NewResolver wires a selector and pipeline around roller.
//
// Precondition: roller must be non-nil.
func NewResolver(roller *dice.Roller, b Balance, fx Effects, logger *zap.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		roller:   roller,
		selector: NewSelector(b, fx.Downed),
		pipeline: NewPipeline(roller, b, fx, nil, logger),
		rolls:    NewStatRolls(roller, fx.Downed),
		balance:  b,
		effects:  fx,
		sink:     message.Discard,
		logger:   logger,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Pipeline returns the damage pipeline, for environmental damage.
func (r *Resolver) Pipeline() *Pipeline { return r.pipeline }

// Selector returns the body-location selector.
func (r *Resolver) Selector() *Selector { return r.selector }

func (r *Resolver) addEffect(c creature.Combatant, t effect.TypeID, duration int) {
	if t == 0 || duration <= 0 {
		return
	}
	if err := c.Effects().Add(t, duration, false, 1, bodypart.WholeBody); err != nil {
		r.logger.Warn("applying attack effect", zap.String("combatant", c.ID()), zap.Error(err))
	}
}

func quiet(attacker, defender creature.Combatant) bool {
	return attacker.IsFake() || defender.IsFake()
}

// mood is Good when the player lands the blow, Bad when the player takes it.
func mood(defender creature.Combatant) message.Mood {
	if defender.IsPlayer() {
		return message.Bad
	}
	return message.Good
}

func (r *Resolver) narrateMiss(attacker, defender creature.Combatant) {
	if quiet(attacker, defender) {
		return
	}
	message.Addf(r.sink, message.Neutral, "%s misses %s.", attacker.Name(), defender.Name())
}

func (r *Resolver) narrateHit(attacker, defender creature.Combatant, o Outcome) {
	if quiet(attacker, defender) {
		return
	}
	part := o.Target.Describe()
	switch {
	case o.Glanced():
		message.Addf(r.sink, message.Neutral, "%s's attack glances off %s's %s.", attacker.Name(), defender.Name(), part)
	case o.Critical:
		message.Addf(r.sink, mood(defender), "%s critically hits %s's %s for %d damage!", attacker.Name(), defender.Name(), part, o.Dealt.Total())
	default:
		message.Addf(r.sink, mood(defender), "%s hits %s's %s for %d damage.", attacker.Name(), defender.Name(), part, o.Dealt.Total())
	}
}
