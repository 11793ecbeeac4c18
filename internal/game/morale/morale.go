// Package morale receives the morale deltas the combat core produces. The
// social layer owns what morale means; the core only reports changes.
package morale

import (
	"sort"
	"sync"
)

// Kinds emitted by the combat core.
const (
	KindKilledMonster  = "killed_monster"
	KindKilledInnocent = "killed_innocent"
)

// Ledger accepts morale deltas for a combatant.
type Ledger interface {
	// Add applies bonus of kind to who. Repeated deltas of one kind stack
	// toward maxBonus. duration and decayStart are in turns.
	Add(who, kind string, bonus, maxBonus, duration, decayStart int)
}

// Entry is one accumulated morale kind for a combatant.
type Entry struct {
	Kind       string
	Bonus      int
	MaxBonus   int
	Duration   int
	DecayStart int
}

// Book is an in-memory Ledger.
// All methods are safe for concurrent use.
type Book struct {
	mu      sync.RWMutex
	entries map[string]map[string]*Entry
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{entries: make(map[string]map[string]*Entry)}
}

// Add stacks bonus onto who's entry of kind, bounded by maxBonus in the
// direction of its sign. Duration and decay start keep the larger value.
//
// Postcondition: the entry's Bonus lies between 0 and maxBonus.
func (b *Book) Add(who, kind string, bonus, maxBonus, duration, decayStart int) {
	if bonus == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	byKind := b.entries[who]
	if byKind == nil {
		byKind = make(map[string]*Entry)
		b.entries[who] = byKind
	}
	e := byKind[kind]
	if e == nil {
		e = &Entry{Kind: kind}
		byKind[kind] = e
	}
	e.MaxBonus = maxBonus
	e.Bonus += bonus
	if maxBonus < 0 {
		e.Bonus = max(e.Bonus, maxBonus)
	} else {
		e.Bonus = min(e.Bonus, maxBonus)
	}
	e.Duration = max(e.Duration, duration)
	e.DecayStart = max(e.DecayStart, decayStart)
}

// Total returns the summed morale of who.
func (b *Book) Total(who string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := 0
	for _, e := range b.entries[who] {
		total += e.Bonus
	}
	return total
}

// Entries returns a snapshot of who's entries ordered by kind.
func (b *Book) Entries(who string) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Entry, 0, len(b.entries[who]))
	for _, e := range b.entries[who] {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
