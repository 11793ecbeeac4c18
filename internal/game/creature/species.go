// Package creature provides the combatant model shared by player-controlled
// characters and autonomous monsters, species definitions, and per-turn
// processing.
package creature

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/carrion/internal/game/damage"
	"github.com/cory-johannsen/carrion/internal/game/dice"
)

// Attack is one typed portion of a natural or weapon attack.
type Attack struct {
	Type damage.Type     `yaml:"type"`
	Dice dice.Expression `yaml:"dice"`
}

// Death behavior kinds a species may declare.
const (
	BehaviorExplode             = "explode"
	BehaviorReleaseSpores       = "release_spores"
	BehaviorPreventResurrection = "prevent_resurrection"
	BehaviorConvert             = "convert"
	BehaviorWorldEvent          = "world_event"
	BehaviorMessage             = "message"
)

var validBehaviors = map[string]bool{
	BehaviorExplode:             true,
	BehaviorReleaseSpores:       true,
	BehaviorPreventResurrection: true,
	BehaviorConvert:             true,
	BehaviorWorldEvent:          true,
	BehaviorMessage:             true,
}

// DeathBehavior is one entry in a species' ordered death behavior list.
// Which fields matter depends on Kind.
type DeathBehavior struct {
	Kind    string `yaml:"kind"`
	Power   int    `yaml:"power"`
	Species string `yaml:"species"`
	Count   int    `yaml:"count"`
	Radius  int    `yaml:"radius"`
	Event   string `yaml:"event"`
	Delay   int    `yaml:"delay"`
	Text    string `yaml:"text"`
}

// Species defines a reusable creature archetype loaded from YAML.
type Species struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Size        Size      `yaml:"size"`
	MaxHP       int       `yaml:"hp"`
	Speed       int       `yaml:"speed"`
	Stats       StatBlock `yaml:"stats"`
	HitBonus    int       `yaml:"hit_bonus"`
	DodgeBonus  int       `yaml:"dodge_bonus"`
	BlockCount  int       `yaml:"block_count"`
	// Armor is intrinsic resistance per damage type, applied at every location.
	Armor map[damage.Type]float64 `yaml:"armor"`
	// Multipliers scale incoming damage per type before mitigation.
	Multipliers map[damage.Type]float64 `yaml:"multipliers"`
	Materials   []Material              `yaml:"materials"`
	Traits      []string                `yaml:"traits"`
	Melee       []Attack                `yaml:"melee"`
	// Blood is the field kind left when this species bleeds; empty means none.
	Blood string `yaml:"blood"`
	// Guilt scales the morale penalty a player takes for killing this species.
	Guilt float64         `yaml:"guilt"`
	Death []DeathBehavior `yaml:"death"`
	Loot  *LootTable      `yaml:"loot"`
}

// Validate checks that the species satisfies basic invariants.
//
// Precondition: s must not be nil.
// Postcondition: Returns nil iff every field is usable; returns an error on the first violation otherwise.
func (s *Species) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("species: id must not be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("species %q: name must not be empty", s.ID)
	}
	if s.MaxHP < 1 {
		return fmt.Errorf("species %q: hp must be >= 1", s.ID)
	}
	if s.Speed < 1 {
		return fmt.Errorf("species %q: speed must be >= 1", s.ID)
	}
	if s.Guilt < 0 {
		return fmt.Errorf("species %q: guilt must be >= 0", s.ID)
	}
	for i, b := range s.Death {
		if !validBehaviors[b.Kind] {
			return fmt.Errorf("species %q: death[%d] has unknown kind %q", s.ID, i, b.Kind)
		}
		if b.Kind == BehaviorConvert && b.Species == "" {
			return fmt.Errorf("species %q: death[%d] convert needs a species", s.ID, i)
		}
		if b.Kind == BehaviorWorldEvent && b.Event == "" {
			return fmt.Errorf("species %q: death[%d] world_event needs an event", s.ID, i)
		}
	}
	if s.Loot != nil {
		if err := s.Loot.Validate(); err != nil {
			return fmt.Errorf("species %q: %w", s.ID, err)
		}
	}
	return nil
}

// HasTrait reports whether the species declares trait.
func (s *Species) HasTrait(trait string) bool {
	for _, t := range s.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// SpeciesRegistry holds every loaded species by id.
type SpeciesRegistry struct {
	byID map[string]*Species
}

// NewSpeciesRegistry creates an empty registry.
func NewSpeciesRegistry() *SpeciesRegistry {
	return &SpeciesRegistry{byID: make(map[string]*Species)}
}

// Register validates and adds s, replacing any species with the same id.
func (r *SpeciesRegistry) Register(s *Species) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.byID[s.ID] = s
	return nil
}

// Get returns the species with id.
func (r *SpeciesRegistry) Get(id string) (*Species, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// All returns every species ordered by id.
func (r *SpeciesRegistry) All() []*Species {
	out := make([]*Species, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CheckReferences verifies every convert behavior names a registered species.
func (r *SpeciesRegistry) CheckReferences() error {
	for _, s := range r.All() {
		for i, b := range s.Death {
			if b.Kind != BehaviorConvert {
				continue
			}
			if _, ok := r.byID[b.Species]; !ok {
				return fmt.Errorf("species %q: death[%d] converts into unknown species %q", s.ID, i, b.Species)
			}
		}
	}
	return nil
}

// LoadSpeciesFromBytes parses a single species from raw YAML bytes.
// Unknown keys are rejected.
//
// Postcondition: Returns a validated *Species, or an error.
func LoadSpeciesFromBytes(data []byte) (*Species, error) {
	s := Species{Size: Medium}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing species YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSpecies reads all *.yaml files in dir into a registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a registry whose convert references all resolve, or an
// error on the first parse, validate or reference failure.
func LoadSpecies(dir string) (*SpeciesRegistry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading species dir %q: %w", dir, err)
	}
	reg := NewSpeciesRegistry()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		s, err := LoadSpeciesFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if err := reg.Register(s); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}
	if err := reg.CheckReferences(); err != nil {
		return nil, err
	}
	return reg, nil
}
