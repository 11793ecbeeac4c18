package effect

import (
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/message"
)

var (
	// ErrUnknownType is returned when an operation names an unregistered TypeID.
	ErrUnknownType = errors.New("effect: unknown effect type")
	// ErrLocationMismatch is returned when an application's scope is
	// structurally inconsistent with an existing instance of the same type.
	ErrLocationMismatch = errors.New("effect: location/side mismatch with existing instance")
)

// Instance is one applied effect in a Bag.
type Instance struct {
	Type      TypeID
	Def       *Def
	Target    bodypart.Target
	Duration  int
	Intensity int
	Permanent bool
}

// Bag holds the active effects of one combatant. At most one Instance exists
// per (type, location, side); reapplication merges.
//
// Bag is not safe for concurrent use; the simulation thread owns it.
type Bag struct {
	reg    *Registry
	sink   message.Sink
	logger *zap.Logger
	items  []*Instance
}

// NewBag creates an empty bag.
// Narratives are emitted only when sink is non-nil, which is how
// player-controlled combatants are distinguished from autonomous ones.
//
// Precondition: reg must be non-nil. A nil logger is replaced by a no-op logger.
func NewBag(reg *Registry, sink message.Sink, logger *zap.Logger) *Bag {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bag{reg: reg, sink: sink, logger: logger}
}

// Registry returns the registry the bag resolves types against.
func (b *Bag) Registry() *Registry { return b.reg }

// SetSink replaces the narrative sink. A nil sink silences the bag.
func (b *Bag) SetSink(s message.Sink) { b.sink = s }

func (b *Bag) scope(def *Def, target bodypart.Target) bodypart.Target {
	if def.LimbGroups {
		target = target.Normalize()
	}
	if !target.Part.Paired() {
		target.Side = bodypart.Both
	}
	return target
}

// Add applies an effect. A duration or intensity <= 0 is a no-op.
//
// On reapplication to the same (type, location, side) the duration merges by
// the type's additive policy and intensity is summed and clamped to
// MaxIntensity. The first application of a type emits the apply narrative.
//
// Postcondition: Returns ErrUnknownType or ErrLocationMismatch without modifying
// the bag; otherwise at most one instance exists for the resolved key.
func (b *Bag) Add(t TypeID, duration int, permanent bool, intensity int, target bodypart.Target) error {
	def := b.reg.Def(t)
	if def == nil {
		b.logger.Error("adding unknown effect type", zap.Int("type", int(t)))
		return ErrUnknownType
	}
	if duration <= 0 || intensity <= 0 {
		return nil
	}
	target = b.scope(def, target)

	first := true
	var existing *Instance
	for _, in := range b.items {
		if in.Type != t {
			continue
		}
		first = false
		if in.Target == target {
			existing = in
			continue
		}
		if conflicts(in.Target, target) {
			b.logger.Error("effect scope mismatch",
				zap.String("effect", def.ID),
				zap.Stringer("existing", in.Target),
				zap.Stringer("requested", target),
			)
			return ErrLocationMismatch
		}
	}

	if existing != nil {
		existing.Duration = mergeDuration(def.Additive, existing.Duration, duration)
		existing.Intensity = clampIntensity(def, existing.Intensity+intensity)
		existing.Permanent = existing.Permanent || permanent
		return nil
	}

	in := &Instance{
		Type:      t,
		Def:       def,
		Target:    target,
		Duration:  duration,
		Intensity: clampIntensity(def, intensity),
		Permanent: permanent || def.Permanent,
	}
	if first {
		b.narrate(def.ApplyMessage, target, !def.Beneficial)
	}
	b.items = append(b.items, in)
	return nil
}

// conflicts reports whether two scopes of the same type cannot coexist: one
// whole-body and one located, or one side-specific and one both-sides on the
// same location.
func conflicts(a, b bodypart.Target) bool {
	if a.IsWhole() != b.IsWhole() {
		return true
	}
	return a.Part == b.Part && a.Sided() != b.Sided()
}

func mergeDuration(additive, current, added int) int {
	switch {
	case additive > 0:
		return current + added
	case additive < 0:
		return max(1, current-added)
	default:
		return max(current, added)
	}
}

func clampIntensity(def *Def, v int) int {
	if def.MaxIntensity > 0 && v > def.MaxIntensity {
		return def.MaxIntensity
	}
	return v
}

// matches reports whether an instance scope is selected by a removal/query
// scope. The whole body selects every instance; a both-sides location selects
// every side of that location.
func matches(query, have bodypart.Target) bool {
	if query.IsWhole() {
		return true
	}
	if query.Part != have.Part {
		return false
	}
	return query.Side == bodypart.Both || query.Side == have.Side
}

// Remove deletes every instance of t selected by target and returns how many
// were removed. Each removal emits the remove narrative.
func (b *Bag) Remove(t TypeID, target bodypart.Target) int {
	def := b.reg.Def(t)
	if def == nil {
		return 0
	}
	target = b.scope(def, target)
	removed := 0
	kept := b.items[:0]
	for _, in := range b.items {
		if in.Type == t && matches(target, in.Target) {
			removed++
			b.narrate(def.RemoveMessage, in.Target, def.Beneficial)
			continue
		}
		kept = append(kept, in)
	}
	clear(b.items[len(kept):])
	b.items = kept
	return removed
}

// Has reports whether any instance of t is active.
func (b *Bag) Has(t TypeID) bool {
	for _, in := range b.items {
		if in.Type == t {
			return true
		}
	}
	return false
}

// HasAt reports whether an instance of t exists exactly at target.
func (b *Bag) HasAt(t TypeID, target bodypart.Target) bool {
	_, ok := b.Get(t, target)
	return ok
}

// Get returns a copy of the instance of t at target.
func (b *Bag) Get(t TypeID, target bodypart.Target) (Instance, bool) {
	def := b.reg.Def(t)
	if def == nil {
		return Instance{}, false
	}
	target = b.scope(def, target)
	for _, in := range b.items {
		if in.Type == t && in.Target == target {
			return *in, true
		}
	}
	return Instance{}, false
}

// Duration returns the remaining duration of t: the first instance found, or
// the sum over every location and side when all is set.
func (b *Bag) Duration(t TypeID, all bool) int {
	return b.sum(t, all, func(in *Instance) int { return in.Duration })
}

// Intensity returns the intensity of t: the first instance found, or the sum
// over every location and side when all is set.
func (b *Bag) Intensity(t TypeID, all bool) int {
	return b.sum(t, all, func(in *Instance) int { return in.Intensity })
}

func (b *Bag) sum(t TypeID, all bool, f func(*Instance) int) int {
	total := 0
	for _, in := range b.items {
		if in.Type != t {
			continue
		}
		if !all {
			return f(in)
		}
		total += f(in)
	}
	return total
}

// Process decays every non-permanent instance once and erases those whose
// duration reached zero, emitting the remove narrative for each. healthRatio
// is the bearer's current/max health and modulates DecayHealth types.
//
// Postcondition: No instance with Duration <= 0 remains unless it is permanent.
// Returns the erased instances in bag order.
func (b *Bag) Process(healthRatio float64) []Instance {
	for _, in := range b.items {
		if in.Permanent {
			continue
		}
		in.Duration -= decayAmount(in.Def.Decay, healthRatio)
	}
	var erased []Instance
	kept := b.items[:0]
	for _, in := range b.items {
		if !in.Permanent && in.Duration <= 0 {
			erased = append(erased, *in)
			b.narrate(in.Def.RemoveMessage, in.Target, in.Def.Beneficial)
			continue
		}
		kept = append(kept, in)
	}
	clear(b.items[len(kept):])
	b.items = kept
	return erased
}

func decayAmount(d Decay, healthRatio float64) int {
	if d != DecayHealth {
		return 1
	}
	if math.IsNaN(healthRatio) {
		healthRatio = 0
	}
	healthRatio = math.Min(1, math.Max(0, healthRatio))
	return max(1, int(math.Round(2*healthRatio)))
}

// All returns copies of every active instance in application order.
func (b *Bag) All() []Instance {
	out := make([]Instance, len(b.items))
	for i, in := range b.items {
		out[i] = *in
	}
	return out
}

// Len returns the number of active instances.
func (b *Bag) Len() int { return len(b.items) }

// Clear drops every instance without narration.
func (b *Bag) Clear() {
	clear(b.items)
	b.items = b.items[:0]
}

func (b *Bag) narrate(text string, target bodypart.Target, bad bool) {
	if b.sink == nil || text == "" {
		return
	}
	mood := message.Good
	if bad {
		mood = message.Bad
	}
	b.sink.Add(mood, strings.ReplaceAll(text, "{part}", target.Describe()))
}
