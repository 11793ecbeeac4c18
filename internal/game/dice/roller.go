package dice

import "go.uber.org/zap"

// Roller binds a Source to a logger so every roll made during combat is
// auditable at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src must be non-nil. A nil logger is replaced by a no-op logger.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness provider.
func (r *Roller) Source() Source { return r.src }

// Intn implements Source so a Roller can be handed to anything that takes one.
func (r *Roller) Intn(n int) int { return r.src.Intn(n) }

// Dice rolls n sides-faced dice and logs the sum.
func (r *Roller) Dice(n, sides int) int {
	v := Dice(r.src, n, sides)
	r.logger.Debug("dice roll",
		zap.Int("count", n),
		zap.Int("sides", sides),
		zap.Int("total", v),
	)
	return v
}

// Rng rolls an inclusive range and logs the result.
func (r *Roller) Rng(lo, hi int) int {
	v := Rng(r.src, lo, hi)
	r.logger.Debug("range roll",
		zap.Int("lo", lo),
		zap.Int("hi", hi),
		zap.Int("result", v),
	)
	return v
}

// Chance performs a percent check and logs the outcome.
func (r *Roller) Chance(percent int) bool {
	ok := Chance(r.src, percent)
	r.logger.Debug("chance roll", zap.Int("percent", percent), zap.Bool("success", ok))
	return ok
}

// OneIn reports true with probability 1/n.
func (r *Roller) OneIn(n int) bool {
	return OneIn(r.src, n)
}

// Float returns a uniform float in [lo, hi).
func (r *Roller) Float(lo, hi float64) float64 {
	return Float(r.src, lo, hi)
}

// RollRemainder rounds v probabilistically. See RollRemainder.
func (r *Roller) RollRemainder(v float64) int {
	return RollRemainder(r.src, v)
}

// Expr rolls a parsed expression and logs it.
func (r *Roller) Expr(e Expression) int {
	v := e.Roll(r.src)
	r.logger.Debug("expression roll",
		zap.String("expression", e.String()),
		zap.Int("total", v),
	)
	return v
}
