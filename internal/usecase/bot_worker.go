package usecase

import (
	"context"
	"time"

	"github.com/vitos/crypto_swing_bot/internal/domain"
	"go.uber.org/zap"
)

// BotWorker sweeps all configured pairs once per polling tick. Pairs are
// processed sequentially; a failing pair is logged and never aborts the rest
// of the sweep or the loop. The fixed poll interval is the retry mechanism
// for transient failures.
type BotWorker struct {
	service *PairService
	pairs   []*domain.PairConfig
	logger  *zap.Logger
}

func NewBotWorker(service *PairService, pairs []*domain.PairConfig, logger *zap.Logger) *BotWorker {
	return &BotWorker{
		service: service,
		pairs:   pairs,
		logger:  logger,
	}
}

// RunTick processes every configured pair once and logs a sweep summary.
func (w *BotWorker) RunTick(ctx context.Context) {
	start := time.Now()
	processed := 0
	failed := 0

	for _, cfg := range w.pairs {
		if ctx.Err() != nil {
			return
		}
		if err := w.service.ProcessPair(ctx, cfg); err != nil {
			failed++
			w.logger.Error("pair processing failed",
				zap.String("symbol", cfg.Symbol()),
				zap.Error(err))
			continue
		}
		processed++
	}

	w.logger.Info("tick completed",
		zap.Int("processed", processed),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))
}
