package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"
	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/config"
	"github.com/cory-johannsen/carrion/internal/game/bodypart"
	"github.com/cory-johannsen/carrion/internal/game/combat"
	"github.com/cory-johannsen/carrion/internal/game/creature"
	"github.com/cory-johannsen/carrion/internal/game/damage"
	"github.com/cory-johannsen/carrion/internal/game/death"
	"github.com/cory-johannsen/carrion/internal/game/dice"
	"github.com/cory-johannsen/carrion/internal/game/effect"
	"github.com/cory-johannsen/carrion/internal/game/message"
	"github.com/cory-johannsen/carrion/internal/game/morale"
	"github.com/cory-johannsen/carrion/internal/game/world"
	"github.com/cory-johannsen/carrion/internal/storage/postgres"
)

// options are the arena command-line settings.
type options struct {
	Seed     uint64
	Rounds   int
	Horde    []string
	Ranged   bool
	Traits   []string
	ArenaDim int
}

// memorial lists kills for the closing table.
type memorial interface {
	Memorial() ([]death.Kills, error)
}

type tallyMemorial struct{ *death.Tally }

func (t tallyMemorial) Memorial() ([]death.Kills, error) { return t.Tally.Memorial(), nil }

// writerSink prints narrative lines to w.
type writerSink struct{ w io.Writer }

func (s writerSink) Add(mood message.Mood, text string) {
	fmt.Fprintf(s.w, "[%s] %s\n", mood, text)
}

// summary is the outcome of one arena run.
type summary struct {
	Rounds   int
	Survived bool
	Morale   int
	Kills    []death.Kills
}

// run fights one encounter between a survivor and the horde, printing the
// narrative and the memorial table to out.
func run(ctx context.Context, cfg config.Config, opts options, out io.Writer, logger *zap.Logger) (summary, error) {
	reg, err := effect.LoadDirectory(cfg.Content.EffectsDir)
	if err != nil {
		return summary{}, fmt.Errorf("loading effects: %w", err)
	}
	species, err := creature.LoadSpecies(cfg.Content.SpeciesDir)
	if err != nil {
		return summary{}, fmt.Errorf("loading species: %w", err)
	}
	fx, err := combat.ResolveEffects(reg)
	if err != nil {
		return summary{}, err
	}

	var src dice.Source
	if opts.Seed != 0 {
		src = dice.NewSeededSource(opts.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	var kills death.KillLedger
	var mem memorial
	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return summary{}, err
		}
		defer pool.Close()
		ledger := postgres.NewKillLedger(postgres.NewKillRepository(pool.DB()), cfg.Database.QueryTimeout)
		kills, mem = ledger, ledger
	} else {
		tally := death.NewTally()
		kills, mem = tally, tallyMemorial{tally}
	}

	sink := message.Tee(writerSink{out}, message.NewZapSink(logger))
	grid := world.NewGrid(opts.ArenaDim, opts.ArenaDim)
	roster := creature.NewRoster(reg, logger)
	book := morale.NewBook()
	center := world.Point{X: opts.ArenaDim / 2, Y: opts.ArenaDim / 2}

	hero := creature.NewCharacter(creature.BaseConfig{
		ID:       "survivor",
		Name:     "Survivor",
		Stats:    creature.StatBlock{Str: 10, Dex: 10, Per: 10, Int: 8},
		Size:     creature.Medium,
		Speed:    100,
		MaxHP:    84,
		Position: center,
		Traits:   opts.Traits,
		Mods:     creature.Mods{BlockCount: 1},
	}, reg, sink, logger)
	hero.Wield(&creature.Weapon{Name: "machete", Damage: []creature.Attack{
		{Type: damage.Cut, Dice: dice.MustParse("2d6+2")},
	}})
	hero.Wear(bodypart.Torso, map[damage.Type]float64{damage.Bash: 2, damage.Cut: 3, damage.Stab: 1})
	if err := roster.Add(hero); err != nil {
		return summary{}, err
	}

	participants := []creature.Combatant{hero}
	for i, id := range opts.Horde {
		s, ok := species.Get(id)
		if !ok {
			return summary{}, fmt.Errorf("unknown species %q", id)
		}
		m, err := roster.Spawn(s, center.Offset(1+i%3, i/3-1))
		if err != nil {
			return summary{}, err
		}
		participants = append(participants, m)
	}

	deaths := death.NewResolver(death.Deps{
		World:  grid,
		Roster: roster,
		Morale: book,
		Kills:  kills,
		Roller: roller,
		Sink:   sink,
		Logger: logger,
	}, death.BalanceFrom(cfg.Combat))
	resolver := combat.NewResolver(roller, combat.BalanceFrom(cfg.Combat), fx, logger,
		combat.WithSink(sink), combat.WithDeathHandler(deaths))

	engine := combat.NewEngine(roster, roller, grid, logger)
	engine.SetPipeline(resolver.Pipeline())
	enc, err := engine.Start("arena", participants)
	if err != nil {
		return summary{}, err
	}
	defer engine.End(enc.ID)

	act := func(c creature.Combatant) {
		if c.IsPlayer() {
			target := nearestMonster(enc, c)
			if target == nil {
				return
			}
			if opts.Ranged {
				resolver.Ranged(c, target, combat.Projectile{
					Damage:   damage.New(damage.Stab, float64(roller.Dice(2, 8))),
					Speed:    70,
					MissedBy: roller.Float(0, 0.9),
				})
			} else {
				resolver.Melee(c, target)
			}
		} else if hero.Lifecycle().Alive() {
			resolver.Melee(c, hero)
		}
		c.ModMoves(-100)
	}

	seen := 0
	for !enc.Over() && enc.Round < opts.Rounds {
		if err := ctx.Err(); err != nil {
			return summary{}, err
		}
		rep := enc.Tick(act)
		logger.Debug("round complete",
			zap.Int("round", rep.Round),
			zap.Strings("acted", rep.Acted),
			zap.Strings("held", rep.Held),
			zap.Int("ongoing", rep.Ongoing),
			zap.Strings("removed", rep.Removed),
		)
		seen = reanimate(enc, roster, species, grid, seen, logger)
	}

	got, err := mem.Memorial()
	if err != nil {
		return summary{}, fmt.Errorf("reading memorial: %w", err)
	}
	sum := summary{
		Rounds:   enc.Round,
		Survived: hero.Lifecycle().Alive(),
		Morale:   book.Total(hero.ID()),
		Kills:    got,
	}
	printMemorial(out, sum)
	return sum, nil
}

// nearestMonster returns the closest living non-player participant.
func nearestMonster(enc *combat.Encounter, from creature.Combatant) creature.Combatant {
	var best creature.Combatant
	for _, c := range enc.Living() {
		if c.IsPlayer() {
			continue
		}
		if best == nil || c.Position().Distance(from.Position()) < best.Position().Distance(from.Position()) {
			best = c
		}
	}
	return best
}

// reanimate brings creatures spawned by death behaviors into the fight.
// It returns the number of grid spawns handled so far.
func reanimate(enc *combat.Encounter, roster *creature.Roster, species *creature.SpeciesRegistry, grid *world.Grid, seen int, logger *zap.Logger) int {
	spawns := grid.Spawns()
	for _, sp := range spawns[seen:] {
		s, ok := species.Get(sp.Species)
		if !ok {
			logger.Warn("spawn of unknown species", zap.String("species", sp.Species))
			continue
		}
		m, err := roster.Spawn(s, sp.At)
		if err != nil {
			logger.Warn("reanimating", zap.String("species", sp.Species), zap.Error(err))
			continue
		}
		enc.Participants = append(enc.Participants, m)
	}
	return len(spawns)
}

func printMemorial(out io.Writer, s summary) {
	fate := "died"
	if s.Survived {
		fate = "survived"
	}
	fmt.Fprintf(out, "\nYou %s %d rounds. Morale %+d.\n\n", fate, s.Rounds, s.Morale)
	tbl := table.New("Species", "Kills").WithWriter(out)
	for _, k := range s.Kills {
		tbl.AddRow(strings.ReplaceAll(k.Species, "_", " "), k.Count)
	}
	tbl.Print()
}
