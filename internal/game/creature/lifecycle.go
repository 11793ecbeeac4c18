package creature

import (
	"context"

	"github.com/looplab/fsm"
)

// Lifecycle states.
const (
	StateAlive = "alive"
	StateDying = "dying"
	StateDead  = "dead"
)

// Lifecycle events.
const (
	EventWound  = "wound"
	EventExpire = "expire"
)

// Lifecycle is the alive → dying → dead state machine of one combatant.
// Each transition can happen at most once.
type Lifecycle struct {
	machine *fsm.FSM
}

// NewLifecycle returns a Lifecycle in StateAlive.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{machine: fsm.NewFSM(
		StateAlive,
		fsm.Events{
			{Name: EventWound, Src: []string{StateAlive}, Dst: StateDying},
			{Name: EventExpire, Src: []string{StateDying}, Dst: StateDead},
		},
		fsm.Callbacks{},
	)}
}

// State returns the current state name.
func (l *Lifecycle) State() string { return l.machine.Current() }

// Alive reports whether the combatant has not yet been mortally wounded.
func (l *Lifecycle) Alive() bool { return l.machine.Is(StateAlive) }

// Dying reports whether the combatant awaits death resolution.
func (l *Lifecycle) Dying() bool { return l.machine.Is(StateDying) }

// Dead reports whether death resolution has completed.
func (l *Lifecycle) Dead() bool { return l.machine.Is(StateDead) }

// Wound moves alive to dying. It reports whether the transition happened.
func (l *Lifecycle) Wound() bool {
	return l.fire(EventWound)
}

// Expire moves dying to dead. It reports whether the transition happened;
// a second call is a no-op that returns false.
func (l *Lifecycle) Expire() bool {
	return l.fire(EventExpire)
}

func (l *Lifecycle) fire(event string) bool {
	if !l.machine.Can(event) {
		return false
	}
	return l.machine.Event(context.Background(), event) == nil
}
