package death

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/message"
	"github.com/cory-johannsen/carrion/internal/game/world"
)

// behaviors runs the species death behaviors of victim in declared order.
// A failing or panicking behavior is logged and the rest still run.
func (r *Resolver) behaviors(victim creature.Combatant, rep *Report) {
	s := victim.Species()
	if s == nil {
		return
	}
	for i, b := range s.Death {
		if err := r.runIsolated(victim, b); err != nil {
			r.deps.Logger.Warn("death behavior failed",
				zap.String("victim", victim.ID()),
				zap.Int("index", i),
				zap.String("kind", b.Kind),
				zap.Error(err),
			)
			rep.FailedEffects++
			continue
		}
		rep.Behaviors++
	}
}

func (r *Resolver) runIsolated(victim creature.Combatant, b creature.DeathBehavior) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return r.run(victim, b)
}

// run dispatches one death behavior.
func (r *Resolver) run(victim creature.Combatant, b creature.DeathBehavior) error {
	pos := victim.Position()
	w := r.deps.World
	switch b.Kind {
	case creature.BehaviorExplode:
		return w.Explode(pos, b.Power)
	case creature.BehaviorReleaseSpores:
		return r.releaseSpores(pos, b)
	case creature.BehaviorPreventResurrection:
		w.PreventResurrection(pos, b.Radius)
		return nil
	case creature.BehaviorConvert:
		for i := 0; i < max(1, b.Count); i++ {
			if err := w.SpawnCreature(pos, b.Species); err != nil {
				return fmt.Errorf("converting into %q: %w", b.Species, err)
			}
		}
		return nil
	case creature.BehaviorWorldEvent:
		return w.ScheduleEvent(b.Event, pos, b.Delay)
	case creature.BehaviorMessage:
		r.deps.Sink.Add(message.Info, b.Text)
		return nil
	default:
		return fmt.Errorf("unknown death behavior %q", b.Kind)
	}
}

// releaseSpores scatters b.Count spore clouds, or creatures of b.Species
// when one is named, within b.Radius of pos. Points without a clear line
// from pos are skipped.
func (r *Resolver) releaseSpores(pos world.Point, b creature.DeathBehavior) error {
	radius := max(1, b.Radius)
	for i := 0; i < max(1, b.Count); i++ {
		p := pos.Offset(r.deps.Roller.Rng(-radius, radius), r.deps.Roller.Rng(-radius, radius))
		if !r.deps.World.ClearLine(pos, p) {
			continue
		}
		var err error
		if b.Species != "" {
			err = r.deps.World.SpawnCreature(p, b.Species)
		} else {
			err = r.deps.World.SpawnField(p, world.FieldSpores, 1)
		}
		if err != nil {
			r.deps.Logger.Debug("spore placement skipped", zap.Stringer("at", p), zap.Error(err))
		}
	}
	return nil
}
