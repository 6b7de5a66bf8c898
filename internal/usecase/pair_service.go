package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vitos/crypto_swing_bot/internal/domain"
	"go.uber.org/zap"
)

// PairService is the per-pair decision engine. For every polling tick it
// compares the current price against the stored base price, and on a
// triggered signal sizes, limits and executes a single trade, then moves the
// base price to the executed price.
//
// PairService exclusively owns the per-pair state map; pairs are processed
// one in-flight decision at a time.
type PairService struct {
	prices    *PriceService
	sizer     *PositionSizer
	limiter   *RiskLimiter
	converter *UsdConverter
	exchange  domain.Exchange
	executor  domain.OrderExecutor
	repo      domain.TradeRepository
	notifier  domain.Notifier
	logger    *zap.Logger

	mu     sync.Mutex
	states map[string]*domain.PairState
}

func NewPairService(
	prices *PriceService,
	converter *UsdConverter,
	exchange domain.Exchange,
	executor domain.OrderExecutor,
	repo domain.TradeRepository,
	notifier domain.Notifier,
	logger *zap.Logger,
) *PairService {
	return &PairService{
		prices:    prices,
		sizer:     NewPositionSizer(),
		limiter:   NewRiskLimiter(converter),
		converter: converter,
		exchange:  exchange,
		executor:  executor,
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		states:    make(map[string]*domain.PairState),
	}
}

// State returns a copy of the current tracking state for a symbol.
func (s *PairService) State(symbol string) domain.PairState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[symbol]; ok {
		return *st
	}
	return domain.PairState{}
}

func (s *PairService) state(symbol string) *domain.PairState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[symbol]
	if !ok {
		st = &domain.PairState{}
		s.states[symbol] = st
	}
	return st
}

// ProcessPair runs one decision tick for a single pair. Errors are returned
// for the caller to log; they never affect other pairs.
func (s *PairService) ProcessPair(ctx context.Context, cfg *domain.PairConfig) error {
	symbol := cfg.Symbol()

	price, err := s.prices.GetPrice(ctx, cfg.BaseAsset, cfg.QuoteAsset)
	if err != nil {
		return err
	}

	state := s.state(symbol)

	if !state.Tracking {
		state.Seed(price)
		s.logPriceRow(ctx, symbol, price, true)
		s.logger.Info("base price initialized",
			zap.String("symbol", symbol),
			zap.Float64("price", price))
		return nil
	}

	delta := (price - state.BasePrice) / state.BasePrice

	var side domain.Side
	switch {
	case delta >= cfg.TriggerPercentage:
		side = domain.SideSell
	case delta <= -cfg.TriggerPercentage:
		side = domain.SideBuy
	default:
		s.logPriceRow(ctx, symbol, price, false)
		s.logger.Debug("no signal",
			zap.String("symbol", symbol),
			zap.Float64("price", price),
			zap.Float64("delta", delta))
		return nil
	}

	pct := s.sizer.SizePercentage(cfg, state, side)

	balances, err := s.fetchBalances(ctx, cfg)
	if err != nil {
		s.logPriceRow(ctx, symbol, price, false)
		return fmt.Errorf("balances for %s: %w", symbol, err)
	}

	quantity, usd, err := s.limiter.SizeTrade(ctx, cfg, pct, side, price, balances)
	if err != nil {
		// Base price stays put so the same signal can re-trigger next tick.
		s.logPriceRow(ctx, symbol, price, false)
		s.logger.Warn("signal dropped",
			zap.String("symbol", symbol),
			zap.String("side", string(side)),
			zap.Float64("delta", delta),
			zap.Float64("percentage", pct),
			zap.Error(err))
		return err
	}

	decision := &domain.Decision{
		Config:       cfg,
		Side:         side,
		Price:        price,
		TriggerDelta: delta,
		RawPct:       cfg.TradePercentage,
		EffectivePct: pct,
		UsdValue:     usd,
		Quantity:     quantity,
	}

	exec, err := s.executor.Execute(ctx, decision)
	if err != nil {
		s.logPriceRow(ctx, symbol, price, false)
		return err
	}

	// Price may have moved during the order round-trip; prefer the confirmed
	// fill price, fall back to the observed trigger price.
	execPrice := exec.Price
	if execPrice <= 0 {
		execPrice = price
	}
	state.RecordTrade(side, execPrice)

	s.logPriceRow(ctx, symbol, execPrice, true)
	s.logTradeRow(ctx, decision, exec, execPrice, balances)
	s.notifyTrade(ctx, decision, exec, execPrice, state)

	s.logger.Info("trade executed",
		zap.String("symbol", symbol),
		zap.String("side", string(side)),
		zap.Float64("quantity", exec.Quantity),
		zap.Float64("usd_value", usd),
		zap.Float64("price", execPrice),
		zap.Int("streak", state.Consecutive),
		zap.Bool("simulated", exec.Simulated))
	return nil
}

func (s *PairService) fetchBalances(ctx context.Context, cfg *domain.PairConfig) (domain.Balances, error) {
	base, err := s.exchange.Balance(ctx, cfg.BaseAsset)
	if err != nil {
		return domain.Balances{}, err
	}
	quote, err := s.exchange.Balance(ctx, cfg.QuoteAsset)
	if err != nil {
		return domain.Balances{}, err
	}
	return domain.Balances{Base: base, Quote: quote}, nil
}

func (s *PairService) logPriceRow(ctx context.Context, symbol string, price float64, isBase bool) {
	row := &domain.PriceRow{
		Symbol:    symbol,
		Price:     price,
		IsBase:    isBase,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.SavePriceRow(ctx, row); err != nil {
		s.logger.Warn("failed to log price row", zap.String("symbol", symbol), zap.Error(err))
	}
}

func (s *PairService) logTradeRow(ctx context.Context, d *domain.Decision, exec *domain.Execution, execPrice float64, pre domain.Balances) {
	post := postTradeBalances(d.Side, pre, exec.Quantity, execPrice)

	totalUsd := 0.0
	if baseUsd, err := s.converter.ToUsd(ctx, d.Config.BaseAsset, post.Base); err == nil {
		if quoteUsd, err := s.converter.ToUsd(ctx, d.Config.QuoteAsset, post.Quote); err == nil {
			totalUsd = baseUsd + quoteUsd
		}
	}

	row := &domain.TradeRow{
		OrderID:      exec.OrderID,
		Symbol:       d.Config.Symbol(),
		Side:         d.Side,
		Price:        execPrice,
		Quantity:     exec.Quantity,
		TriggerDelta: d.TriggerDelta,
		RawPct:       d.RawPct,
		EffectivePct: d.EffectivePct,
		UsdValue:     d.UsdValue,
		BaseBalance:  post.Base,
		QuoteBalance: post.Quote,
		TotalUsd:     totalUsd,
		Simulated:    exec.Simulated,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.SaveTradeRow(ctx, row); err != nil {
		s.logger.Error("failed to log trade row", zap.String("symbol", row.Symbol), zap.Error(err))
	}
}

func (s *PairService) notifyTrade(ctx context.Context, d *domain.Decision, exec *domain.Execution, execPrice float64, state *domain.PairState) {
	if s.notifier == nil {
		return
	}
	msg := formatTradeMessage(d, exec, execPrice, state)
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.logger.Warn("failed to send notification", zap.String("symbol", d.Config.Symbol()), zap.Error(err))
	}
}

func postTradeBalances(side domain.Side, pre domain.Balances, quantity, price float64) domain.Balances {
	if side == domain.SideSell {
		return domain.Balances{
			Base:  pre.Base - quantity,
			Quote: pre.Quote + quantity*price,
		}
	}
	return domain.Balances{
		Base:  pre.Base + quantity,
		Quote: pre.Quote - quantity*price,
	}
}

func formatTradeMessage(d *domain.Decision, exec *domain.Execution, execPrice float64, state *domain.PairState) string {
	mode := "🔴 PRODUCTION"
	if exec.Simulated {
		mode = "🟡 SIMULATION"
	}
	arrow := "📈"
	if d.Side == domain.SideBuy {
		arrow = "📉"
	}
	return fmt.Sprintf(`%s TRADE EXECUTED %s

<b>Pair:</b> %s
<b>Action:</b> %s %s
<b>Amount:</b> %.*f %s ($%.2f)

<b>Price:</b> $%.6f
<b>Price Change:</b> %+.2f%%
<b>Streak:</b> %d x %s`,
		mode, arrow,
		d.Config.Symbol(),
		d.Side, d.Config.BaseAsset,
		d.Config.QuantityDecimals, exec.Quantity, d.Config.BaseAsset, d.UsdValue,
		execPrice,
		d.TriggerDelta*100,
		state.Consecutive, state.LastSide)
}
