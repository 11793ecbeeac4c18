package creature

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/effect"
	"github.com/cory-johannsen/carrion/internal/game/world"
)

// Roster tracks every combatant in play by id. Killer back-references are
// resolved through it, so a reference to a removed combatant simply fails to
// resolve.
// All methods are safe for concurrent use.
type Roster struct {
	mu      sync.RWMutex
	members map[string]Combatant
	counter atomic.Uint64
	reg     *effect.Registry
	logger  *zap.Logger
}

// NewRoster creates an empty Roster whose monsters resolve effects against reg.
func NewRoster(reg *effect.Registry, logger *zap.Logger) *Roster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roster{
		members: make(map[string]Combatant),
		reg:     reg,
		logger:  logger,
	}
}

// Add registers c.
//
// Precondition: c must be non-nil with a non-empty id.
// Postcondition: Returns an error if a combatant with the same id is present.
func (r *Roster) Add(c Combatant) error {
	if c == nil || c.ID() == "" {
		return fmt.Errorf("creature.Roster.Add: combatant must have an id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[c.ID()]; ok {
		return fmt.Errorf("creature.Roster.Add: duplicate id %q", c.ID())
	}
	r.members[c.ID()] = c
	return nil
}

// Spawn creates a Monster of s at pos and registers it.
//
// Precondition: s must be non-nil.
// Postcondition: Returns a new Monster with a unique id.
func (r *Roster) Spawn(s *Species, pos world.Point) (*Monster, error) {
	if s == nil {
		return nil, fmt.Errorf("creature.Roster.Spawn: species must not be nil")
	}
	n := r.counter.Add(1)
	id := fmt.Sprintf("%s-%d", s.ID, n)
	m, err := NewMonster(id, s, pos, r.reg, r.logger)
	if err != nil {
		return nil, err
	}
	if err := r.Add(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Remove deletes a combatant by id.
//
// Postcondition: Returns an error if the combatant is not found.
func (r *Roster) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return fmt.Errorf("combatant %q not found", id)
	}
	delete(r.members, id)
	return nil
}

// Get returns the combatant with id.
//
// Postcondition: Returns (c, true) if found, or (nil, false) otherwise.
func (r *Roster) Get(id string) (Combatant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.members[id]
	return c, ok
}

// All returns a snapshot of every combatant ordered by id.
func (r *Roster) All() []Combatant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Combatant, 0, len(r.members))
	for _, c := range r.members {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Living returns a snapshot of the combatants that are still alive.
func (r *Roster) Living() []Combatant {
	var out []Combatant
	for _, c := range r.All() {
		if c.Lifecycle().Alive() {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first living combatant whose name has prefix,
// case-insensitively, or nil.
func (r *Roster) Find(prefix string) Combatant {
	lower := strings.ToLower(prefix)
	for _, c := range r.Living() {
		if strings.HasPrefix(strings.ToLower(c.Name()), lower) {
			return c
		}
	}
	return nil
}

// Sweep removes every dead combatant and returns their ids.
func (r *Roster) Sweep() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var gone []string
	for id, c := range r.members {
		if c.Lifecycle().Dead() {
			gone = append(gone, id)
			delete(r.members, id)
		}
	}
	sort.Strings(gone)
	return gone
}
