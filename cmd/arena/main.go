// Package main runs a batch arena fight between one survivor and a horde,
// then prints the kill memorial.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/carrion/internal/config"
	"github.com/cory-johannsen/carrion/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Uint64("seed", 0, "dice seed; 0 draws from crypto/rand")
	rounds := flag.Int("rounds", 50, "maximum number of rounds")
	horde := flag.String("horde", "zombie,zombie,infected,boomer", "comma-separated species ids to fight")
	ranged := flag.Bool("ranged", false, "fight with a rifle instead of a machete")
	traits := flag.String("traits", "", "comma-separated survivor traits")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	opts := options{
		Seed:     *seed,
		Rounds:   *rounds,
		Horde:    splitList(*horde),
		Ranged:   *ranged,
		Traits:   splitList(*traits),
		ArenaDim: 21,
	}
	sum, err := run(ctx, cfg, opts, os.Stdout, logger)
	if err != nil {
		logger.Fatal("arena failed", zap.Error(err))
	}
	logger.Info("arena finished",
		zap.Int("rounds", sum.Rounds),
		zap.Bool("survived", sum.Survived),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
