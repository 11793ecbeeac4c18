// Package effect implements timed, intensity-bearing status effects scoped to
// body locations, and the per-combatant bag that stacks and decays them.
package effect

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/carrion/internal/game/damage"
)

// TypeID is the resolved integer key of an effect type. The zero value is
// never assigned to a registered type.
type TypeID int

// Decay names how an effect's remaining duration shrinks each tick.
type Decay string

const (
	// DecayFlat removes one tick of duration per tick.
	DecayFlat Decay = "flat"
	// DecayHealth removes more duration per tick the healthier the bearer is.
	DecayHealth Decay = "health"
)

// StatMods are per-intensity adjustments to the primary attributes.
type StatMods struct {
	Str int `yaml:"str"`
	Dex int `yaml:"dex"`
	Per int `yaml:"per"`
	Int int `yaml:"int"`
}

// Restraint makes an effect hold its bearer in place until an escape check
// succeeds.
type Restraint struct {
	// Difficulty is the value a strength plus dexterity roll must exceed.
	Difficulty int `yaml:"difficulty"`
	// MoveCost is the movement budget spent on a failed attempt.
	MoveCost int `yaml:"move_cost"`
	// DropItem, when set, is the item left behind after a successful escape.
	DropItem string `yaml:"drop_item"`
}

// TickDamage is damage an effect deals its bearer at the start of every turn.
type TickDamage struct {
	Type damage.Type `yaml:"type"`
	// Amount is dealt once per point of intensity.
	Amount float64 `yaml:"amount"`
}

// Def is the static definition of an effect type, loaded from YAML.
type Def struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	ApplyMessage  string `yaml:"apply_message"`
	RemoveMessage string `yaml:"remove_message"`
	// Beneficial flips the mood of the apply/remove narratives.
	Beneficial bool `yaml:"beneficial"`
	// MaxIntensity caps intensity; 0 means unbounded.
	MaxIntensity int `yaml:"max_intensity"`
	// Additive selects the reapplication policy by sign: positive adds the new
	// duration, negative subtracts it (never below 1), zero keeps the longer one.
	Additive int `yaml:"additive"`
	// LimbGroups collapses fine locations to their canonical group on apply.
	LimbGroups bool  `yaml:"limb_groups"`
	Decay      Decay `yaml:"decay"`
	// Permanent instances never decay.
	Permanent bool `yaml:"permanent"`

	HitPenalty      int         `yaml:"hit_penalty"`
	DodgePenalty    int         `yaml:"dodge_penalty"`
	SpeedPenalty    int         `yaml:"speed_penalty"`
	StatMods        StatMods    `yaml:"stat_mods"`
	RestrictActions []string    `yaml:"restrict_actions"`
	Restraint       *Restraint  `yaml:"restraint"`
	TickDamage      *TickDamage `yaml:"tick_damage"`
}

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil if def is usable, or an error naming the first violation.
func (d *Def) Validate() error {
	if d.ID == "" {
		return errors.New("effect: id must not be empty")
	}
	if d.MaxIntensity < 0 {
		return fmt.Errorf("effect %q: max_intensity must be >= 0, got %d", d.ID, d.MaxIntensity)
	}
	switch d.Decay {
	case "", DecayFlat, DecayHealth:
	default:
		return fmt.Errorf("effect %q: decay must be %q or %q, got %q", d.ID, DecayFlat, DecayHealth, d.Decay)
	}
	if d.Restraint != nil {
		if d.Restraint.Difficulty < 0 || d.Restraint.MoveCost < 0 {
			return fmt.Errorf("effect %q: restraint difficulty and move_cost must be >= 0", d.ID)
		}
	}
	if d.TickDamage != nil && d.TickDamage.Amount <= 0 {
		return fmt.Errorf("effect %q: tick_damage amount must be > 0, got %g", d.ID, d.TickDamage.Amount)
	}
	return nil
}

// Registry holds every known effect type and resolves string ids to TypeIDs
// once, at load time.
type Registry struct {
	ids  map[string]TypeID
	defs []*Def // index 0 unused
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]TypeID), defs: []*Def{nil}}
}

// Register adds def to the registry. Registering an id a second time replaces
// the definition and keeps its TypeID.
//
// Precondition: def must not be nil.
// Postcondition: Lookup(def.ID) returns the returned TypeID.
func (r *Registry) Register(def *Def) (TypeID, error) {
	if err := def.Validate(); err != nil {
		return 0, err
	}
	if def.Decay == "" {
		def.Decay = DecayFlat
	}
	if id, ok := r.ids[def.ID]; ok {
		r.defs[id] = def
		return id, nil
	}
	id := TypeID(len(r.defs))
	r.defs = append(r.defs, def)
	r.ids[def.ID] = id
	return id, nil
}

// Lookup resolves a string id to its TypeID.
func (r *Registry) Lookup(id string) (TypeID, bool) {
	t, ok := r.ids[id]
	return t, ok
}

// Def returns the definition of t, or nil if t is not registered.
func (r *Registry) Def(t TypeID) *Def {
	if t <= 0 || int(t) >= len(r.defs) {
		return nil
	}
	return r.defs[t]
}

// Get returns the definition for a string id.
func (r *Registry) Get(id string) (*Def, bool) {
	t, ok := r.ids[id]
	if !ok {
		return nil, false
	}
	return r.defs[t], true
}

// All returns a snapshot of every registered definition ordered by id.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.ids))
	for _, d := range r.defs[1:] {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def, and
// returns a populated Registry. Unknown YAML keys are rejected.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading effect dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if _, err := reg.Register(&def); err != nil {
			return nil, fmt.Errorf("registering %q: %w", path, err)
		}
	}
	return reg, nil
}
