package death

import (
	"sort"
	"sync"
)

// KillLedger keeps the per-species kill counter used for guilt and the
// memorial.
type KillLedger interface {
	// Count returns the kills recorded for species.
	Count(species string) (int, error)
	// Record adds one kill of species and returns the new count.
	Record(species string) (int, error)
}

// Tally is an in-memory KillLedger.
// All methods are safe for concurrent use.
type Tally struct {
	mu     sync.RWMutex
	counts map[string]int
}

// NewTally creates an empty Tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Count implements KillLedger.
func (t *Tally) Count(species string) (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counts[species], nil
}

// Record implements KillLedger.
func (t *Tally) Record(species string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[species]++
	return t.counts[species], nil
}

// Kills is one memorial row.
type Kills struct {
	Species string
	Count   int
}

// Memorial returns every species with at least one kill, most killed first.
func (t *Tally) Memorial() []Kills {
	t.mu.RLock()
	out := make([]Kills, 0, len(t.counts))
	for s, n := range t.counts {
		out = append(out, Kills{Species: s, Count: n})
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Species < out[j].Species
	})
	return out
}
