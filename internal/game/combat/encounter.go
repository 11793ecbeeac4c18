package combat

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/damage"
	"github.com/cory-johannsen/carrion/internal/game/dice"
	"github.com/cory-johannsen/carrion/internal/game/effect"
	"github.com/cory-johannsen/carrion/internal/game/world"
)

// ActFunc performs a combatant's attack for the tick. It is only called for
// combatants that are alive, free to attack and have moves left.
type ActFunc func(c creature.Combatant)

// TickReport records what happened during one Tick.
type TickReport struct {
	Round int
	// Acted lists the combatants whose ActFunc ran, in order.
	Acted []string
	// Held lists the combatants a restraint or an attack restriction kept
	// from acting.
	Held []string
	// Expired counts the effect instances that decayed away this tick.
	Expired int
	// Ongoing is the health lost to effects such as burning this tick.
	Ongoing int
	// Removed lists the dead combatants swept from the roster.
	Removed []string
}

// Encounter is one running fight: its participants in initiative order and
// the round counter.
//
// Encounter is not safe for concurrent use; the simulation thread owns it.
type Encounter struct {
	ID string
	// Participants is the initiative-ordered list of combatants.
	Participants []creature.Combatant
	// Round is the number of completed ticks.
	Round int

	initiative map[string]int
	roster     *creature.Roster
	roller     *dice.Roller
	world      world.World
	pipeline   *Pipeline
	logger     *zap.Logger
}

// RollInitiative rolls d20 + dex/2 for every participant and orders them
// highest first. Ties keep their relative order.
func (e *Encounter) RollInitiative() {
	for _, c := range e.Participants {
		e.initiative[c.ID()] = e.roller.Dice(1, 20) + c.Stats().Dex.Current()/2
	}
	sortByInitiativeDesc(e.Participants, e.initiative)
}

// Initiative returns the last initiative rolled for id.
func (e *Encounter) Initiative(id string) int { return e.initiative[id] }

// Tick runs one round. For each living participant in initiative order:
// effect decay, stat recompute and move refresh, then ongoing effect damage,
// then the restraint and restriction checks, then act. Dead combatants are
// swept from the roster afterwards.
//
// Precondition: act must be non-nil.
func (e *Encounter) Tick(act ActFunc) TickReport {
	e.Round++
	rep := TickReport{Round: e.Round}
	for _, c := range e.Participants {
		if !c.Lifecycle().Alive() {
			continue
		}
		rep.Expired += len(creature.BeginTurn(c))
		rep.Ongoing += e.ongoing(c)
		if !c.Lifecycle().Alive() {
			continue
		}
		if !creature.TryAct(c, e.roller, e.world, e.logger) {
			rep.Held = append(rep.Held, c.ID())
			continue
		}
		if c.Moves() <= 0 {
			continue
		}
		act(c)
		rep.Acted = append(rep.Acted, c.ID())
	}
	if e.roster != nil {
		rep.Removed = e.roster.Sweep()
	}
	e.Participants = e.Living()
	return rep
}

// ongoing deals the start-of-turn damage of c's effects through the pipeline
// and returns the health it cost. Without a pipeline nothing is dealt.
func (e *Encounter) ongoing(c creature.Combatant) int {
	if e.pipeline == nil {
		return 0
	}
	total := 0
	for _, o := range effect.OngoingDamage(c.Effects()) {
		if !c.Lifecycle().Alive() {
			break
		}
		dealt := e.pipeline.Deal(nil, c, o.Target, o.Damage.With(damage.NoIgnite))
		total += dealt.Total()
		e.logger.Debug("ongoing damage",
			zap.String("combatant", c.ID()),
			zap.Int("effect", int(o.Type)),
			zap.Int("loss", dealt.Total()),
		)
	}
	return total
}

// Living returns the participants that are still alive.
func (e *Encounter) Living() []creature.Combatant {
	var alive []creature.Combatant
	for _, c := range e.Participants {
		if c.Lifecycle().Alive() {
			alive = append(alive, c)
		}
	}
	return alive
}

// HasLivingPlayers reports whether any player-controlled participant is alive.
func (e *Encounter) HasLivingPlayers() bool {
	for _, c := range e.Living() {
		if c.IsPlayer() {
			return true
		}
	}
	return false
}

// HasLivingMonsters reports whether any autonomous participant is alive.
func (e *Encounter) HasLivingMonsters() bool {
	for _, c := range e.Living() {
		if !c.IsPlayer() {
			return true
		}
	}
	return false
}

// Over reports whether one side has no living members.
func (e *Encounter) Over() bool {
	return !e.HasLivingPlayers() || !e.HasLivingMonsters()
}

// Engine manages all active encounters by id.
// All methods are safe for concurrent use.
type Engine struct {
	mu         sync.RWMutex
	encounters map[string]*Encounter
	roster     *creature.Roster
	roller     *dice.Roller
	world      world.World
	pipeline   *Pipeline
	logger     *zap.Logger
}

// NewEngine creates an Engine whose encounters share roster, roller and world.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(roster *creature.Roster, roller *dice.Roller, w world.World, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		encounters: make(map[string]*Encounter),
		roster:     roster,
		roller:     roller,
		world:      w,
		logger:     logger,
	}
}

// SetPipeline sets the pipeline that deals ongoing effect damage in encounters
// started afterwards.
func (e *Engine) SetPipeline(p *Pipeline) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pipeline = p
}

// Start begins an encounter with the given participants and rolls initiative.
//
// Precondition: id must be non-empty; participants must have at least 2 entries.
// Postcondition: Returns the new Encounter or an error if id is already active.
func (e *Engine) Start(id string, participants []creature.Combatant) (*Encounter, error) {
	if id == "" {
		return nil, fmt.Errorf("combat.Engine.Start: id must not be empty")
	}
	if len(participants) < 2 {
		return nil, fmt.Errorf("combat.Engine.Start: need at least 2 participants, got %d", len(participants))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.encounters[id]; exists {
		return nil, fmt.Errorf("encounter %q already active", id)
	}
	enc := &Encounter{
		ID:           id,
		Participants: append([]creature.Combatant(nil), participants...),
		initiative:   make(map[string]int, len(participants)),
		roster:       e.roster,
		roller:       e.roller,
		world:        e.world,
		pipeline:     e.pipeline,
		logger:       e.logger.With(zap.String("encounter", id)),
	}
	enc.RollInitiative()
	e.encounters[id] = enc
	return enc, nil
}

// Get returns the active encounter with id.
//
// Postcondition: Returns (enc, true) if found, or (nil, false) otherwise.
func (e *Engine) Get(id string) (*Encounter, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enc, ok := e.encounters[id]
	return enc, ok
}

// End removes the encounter record for id.
func (e *Engine) End(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.encounters, id)
}

// sortByInitiativeDesc sorts combatants in place, highest initiative first.
func sortByInitiativeDesc(combatants []creature.Combatant, initiative map[string]int) {
	n := len(combatants)
	for i := 1; i < n; i++ {
		for j := i; j > 0 && initiative[combatants[j].ID()] > initiative[combatants[j-1].ID()]; j-- {
			combatants[j], combatants[j-1] = combatants[j-1], combatants[j]
		}
	}
}
