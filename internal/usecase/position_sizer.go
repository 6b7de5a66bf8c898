package usecase

import (
	"math"

	"github.com/vitos/crypto_swing_bot/internal/domain"
)

// MaxPositionPct is the hard ceiling on the fraction of balance committed to
// a single trade, regardless of multiplier growth.
const MaxPositionPct = 0.5

// PositionSizer computes the percentage of balance to trade for a signal,
// scaling the configured base percentage by the streak multiplier.
type PositionSizer struct{}

func NewPositionSizer() *PositionSizer {
	return &PositionSizer{}
}

// SizePercentage returns the fraction of the draw balance to trade.
//
// The first trade in a new direction counts as streak 1; a repeat of the last
// direction counts as the stored streak plus one. The streak itself is only
// advanced after a successful execution, so sizing here never mutates state.
func (s *PositionSizer) SizePercentage(cfg *domain.PairConfig, state *domain.PairState, side domain.Side) float64 {
	streak := 1
	if side == state.LastSide {
		streak = state.Consecutive + 1
	}

	pct := cfg.TradePercentage * math.Pow(cfg.Multiplier, float64(streak-1))
	if pct > MaxPositionPct {
		pct = MaxPositionPct
	}
	return pct
}
