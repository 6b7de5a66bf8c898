package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vitos/crypto_swing_bot/internal/domain"
	"go.uber.org/zap"
)

// LiveExecutor submits market orders to the exchange.
type LiveExecutor struct {
	exchange domain.Exchange
	logger   *zap.Logger
}

func NewLiveExecutor(exchange domain.Exchange, logger *zap.Logger) *LiveExecutor {
	return &LiveExecutor{
		exchange: exchange,
		logger:   logger,
	}
}

func (e *LiveExecutor) Execute(ctx context.Context, d *domain.Decision) (*domain.Execution, error) {
	symbol := d.Config.Symbol()
	exec, err := e.exchange.PlaceMarketOrder(ctx, symbol, d.Side, d.Quantity)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s %.8f: %v", domain.ErrOrderFailed, d.Side, symbol, d.Quantity, err)
	}
	e.logger.Info("order executed",
		zap.String("symbol", symbol),
		zap.String("side", string(d.Side)),
		zap.String("order_id", exec.OrderID),
		zap.Float64("quantity", exec.Quantity),
		zap.Float64("price", exec.Price))
	return exec, nil
}

// SimulatedExecutor performs all validation and logging identically to the
// live executor but never contacts the exchange. Fills are assumed at the
// observed trigger price.
type SimulatedExecutor struct {
	logger *zap.Logger
}

func NewSimulatedExecutor(logger *zap.Logger) *SimulatedExecutor {
	return &SimulatedExecutor{logger: logger}
}

func (e *SimulatedExecutor) Execute(ctx context.Context, d *domain.Decision) (*domain.Execution, error) {
	exec := &domain.Execution{
		OrderID:   uuid.New().String(),
		Price:     d.Price,
		Quantity:  d.Quantity,
		Simulated: true,
	}
	e.logger.Info("order executed",
		zap.String("symbol", d.Config.Symbol()),
		zap.String("side", string(d.Side)),
		zap.String("order_id", exec.OrderID),
		zap.Float64("quantity", exec.Quantity),
		zap.Float64("price", exec.Price),
		zap.Bool("simulated", true))
	return exec, nil
}
