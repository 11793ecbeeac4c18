package creature

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/damage"
	"github.com/cory-johannsen/carrion/internal/game/dice"
	"github.com/cory-johannsen/carrion/internal/game/effect"
	"github.com/cory-johannsen/carrion/internal/game/world"
)

// Mods are the combat modifiers of a combatant.
type Mods struct {
	HitBonus   int
	DodgeBonus int
	// BlockCount is how many blocks the combatant can attempt per turn.
	BlockCount int
	// Armor is added to the combatant's resistance for each damage type.
	Armor map[damage.Type]float64
	// Multiplier scales incoming damage per type; a missing entry means 1.
	Multiplier  map[damage.Type]float64
	Quiet       bool
	GrabResist  int
	ThrowResist int
}

// MultiplierFor returns the incoming damage multiplier for t.
func (m *Mods) MultiplierFor(t damage.Type) float64 {
	if v, ok := m.Multiplier[t]; ok {
		return v
	}
	return 1
}

// Combatant is the capability set every participant in combat offers:
// stat queries, a body, an effect bag, taking damage, and dying. Characters
// and monsters both implement it by embedding *Base.
type Combatant interface {
	damage.Resistor
	effect.Escaper

	ID() string
	Name() string
	// IsPlayer reports whether a player controls the combatant.
	IsPlayer() bool
	// IsFake reports whether the combatant only exists for a hypothetical
	// resolution whose side effects must be suppressed.
	IsFake() bool
	Species() *Species

	Stats() *Stats
	Size() Size
	// Speed is the move budget gained per turn, after effect penalties.
	Speed() int
	Position() world.Point
	Materials() []Material
	HasTrait(trait string) bool
	Effects() *effect.Bag
	Mods() *Mods

	Health() int
	MaxHealth() int
	// ApplyHealthLoss subtracts n from health and returns the new value.
	ApplyHealthLoss(n int) int
	Pain() int
	ModPain(n int)
	Moves() int
	ModMoves(n int)
	BlocksLeft() int
	UseBlock()
	DodgesLeft() int

	// Killer returns the id of the combatant credited with this one's death.
	// The id may name a combatant that no longer exists.
	Killer() string
	SetKiller(id string)
	Lifecycle() *Lifecycle

	// Refresh starts a new turn: moves gain Speed, blocks and dodges reset.
	Refresh()
	// OnDodge is called after this combatant dodges an attack.
	OnDodge(attacker Combatant)
	// MeleeAttack builds the damage proposal of one unarmed or weapon strike.
	MeleeAttack(src dice.Source) damage.Instance
}

// BaseConfig describes a combatant at spawn.
type BaseConfig struct {
	ID        string
	Name      string
	Species   *Species
	Stats     StatBlock
	Size      Size
	Speed     int
	MaxHP     int
	Position  world.Point
	Materials []Material
	Traits    []string
	Mods      Mods
}

// Base holds the state shared by every combatant variant.
//
// Base is not safe for concurrent use; the simulation thread owns it.
type Base struct {
	id         string
	name       string
	species    *Species
	stats      Stats
	size       Size
	speed      int
	pos        world.Point
	materials  []Material
	traits     map[string]bool
	effects    *effect.Bag
	mods       Mods
	hp         int
	maxHP      int
	pain       int
	moves      int
	blocksLeft int
	dodgesLeft int
	killer     string
	fake       bool
	life       *Lifecycle
	logger     *zap.Logger
}

// newBase builds the shared state. The bag is supplied by the variant so
// that only characters carry a narrative sink.
func newBase(cfg BaseConfig, bag *effect.Bag, logger *zap.Logger) *Base {
	if logger == nil {
		logger = zap.NewNop()
	}
	traits := make(map[string]bool, len(cfg.Traits))
	for _, t := range cfg.Traits {
		traits[t] = true
	}
	mods := cfg.Mods
	if mods.Armor == nil {
		mods.Armor = make(map[damage.Type]float64)
	}
	if mods.Multiplier == nil {
		mods.Multiplier = make(map[damage.Type]float64)
	}
	b := &Base{
		id:        cfg.ID,
		name:      cfg.Name,
		species:   cfg.Species,
		stats:     NewStats(cfg.Stats),
		size:      cfg.Size,
		speed:     cfg.Speed,
		pos:       cfg.Position,
		materials: append([]Material(nil), cfg.Materials...),
		traits:    traits,
		effects:   bag,
		mods:      mods,
		hp:        cfg.MaxHP,
		maxHP:     cfg.MaxHP,
		life:      NewLifecycle(),
		logger:    logger.With(zap.String("combatant", cfg.ID)),
	}
	b.moves = b.Speed()
	b.blocksLeft = mods.BlockCount
	b.dodgesLeft = 1
	return b
}

func (b *Base) ID() string            { return b.id }
func (b *Base) Name() string          { return b.name }
func (b *Base) IsFake() bool          { return b.fake }
func (b *Base) SetFake(fake bool)     { b.fake = fake }
func (b *Base) Species() *Species     { return b.species }
func (b *Base) Stats() *Stats         { return &b.stats }
func (b *Base) Size() Size            { return b.size }
func (b *Base) Position() world.Point { return b.pos }
func (b *Base) Materials() []Material { return b.materials }
func (b *Base) Effects() *effect.Bag  { return b.effects }
func (b *Base) Mods() *Mods           { return &b.mods }
func (b *Base) Lifecycle() *Lifecycle { return b.life }
func (b *Base) Logger() *zap.Logger   { return b.logger }

// SetPosition moves the combatant.
func (b *Base) SetPosition(p world.Point) { b.pos = p }

// Strength returns the current strength.
func (b *Base) Strength() int { return b.stats.Str.Current() }

// Dexterity returns the current dexterity.
func (b *Base) Dexterity() int { return b.stats.Dex.Current() }

// HasTrait reports whether the combatant has trait.
func (b *Base) HasTrait(trait string) bool { return b.traits[trait] }

// MadeOf reports whether any of the combatant's materials is m.
func (b *Base) MadeOf(m Material) bool {
	for _, have := range b.materials {
		if have == m {
			return true
		}
	}
	return false
}

// Speed returns base speed adjusted by active effects, never below 1.
func (b *Base) Speed() int {
	return max(1, b.speed+effect.SpeedModifier(b.effects))
}

func (b *Base) Health() int    { return b.hp }
func (b *Base) MaxHealth() int { return b.maxHP }

// HealthRatio returns current over maximum health clamped to [0, 1].
func (b *Base) HealthRatio() float64 {
	if b.maxHP <= 0 {
		return 0
	}
	return math.Min(1, math.Max(0, float64(b.hp)/float64(b.maxHP)))
}

// ApplyHealthLoss subtracts n from health and returns the new value.
// Negative n heals.
func (b *Base) ApplyHealthLoss(n int) int {
	b.hp -= n
	return b.hp
}

func (b *Base) Pain() int { return b.pain }

// ModPain adds n to the pain counter, never below zero.
func (b *Base) ModPain(n int) { b.pain = max(0, b.pain+n) }

func (b *Base) Moves() int      { return b.moves }
func (b *Base) ModMoves(n int)  { b.moves += n }
func (b *Base) BlocksLeft() int { return b.blocksLeft }
func (b *Base) DodgesLeft() int { return b.dodgesLeft }

// UseBlock spends one block for this turn.
func (b *Base) UseBlock() {
	if b.blocksLeft > 0 {
		b.blocksLeft--
	}
}

// Killer returns the credited killer id, or "" if none.
func (b *Base) Killer() string { return b.killer }

// SetKiller credits id with this combatant's death. Only the first
// credited killer is kept.
func (b *Base) SetKiller(id string) {
	if b.killer == "" {
		b.killer = id
	}
}

// Refresh starts a new turn. Negative moves carry over; surplus does not.
func (b *Base) Refresh() {
	b.moves = min(b.moves, 0) + b.Speed()
	b.blocksLeft = b.mods.BlockCount
	b.dodgesLeft = 1
}

// spendDodge records one dodge this turn.
func (b *Base) spendDodge() {
	b.dodgesLeft--
}

// Resistance returns the intrinsic resistance of the species. Variants add
// worn equipment on top.
func (b *Base) Resistance(_ bodypart.Target, t damage.Type) float64 {
	if b.species == nil {
		return 0
	}
	return b.species.Armor[t]
}

func rollAttacks(src dice.Source, attacks []Attack) damage.Instance {
	var inst damage.Instance
	for _, a := range attacks {
		inst = inst.Add(a.Type, float64(max(0, a.Dice.Roll(src))))
	}
	return inst
}
