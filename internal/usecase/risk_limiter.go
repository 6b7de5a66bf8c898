package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/vitos/crypto_swing_bot/internal/domain"
)

// RiskLimiter turns a percentage-of-balance signal into a concrete base-asset
// quantity bounded by the pair's USD trade limits. All limit comparisons
// happen in USD space so pairs with wildly different prices are governed by
// one risk policy.
type RiskLimiter struct {
	converter *UsdConverter
}

func NewRiskLimiter(converter *UsdConverter) *RiskLimiter {
	return &RiskLimiter{converter: converter}
}

// SizeTrade returns the base-asset quantity to trade and its USD value.
// price is the current pair price, used to convert a quote-side amount into
// base units for BUY orders.
func (r *RiskLimiter) SizeTrade(ctx context.Context, cfg *domain.PairConfig, pct float64, side domain.Side, price float64, balances domain.Balances) (float64, float64, error) {
	drawAsset := cfg.QuoteAsset
	drawBalance := balances.Quote
	if side == domain.SideSell {
		drawAsset = cfg.BaseAsset
		drawBalance = balances.Base
	}

	raw := pct * drawBalance
	usd, err := r.converter.ToUsd(ctx, drawAsset, raw)
	if err != nil {
		return 0, 0, err
	}

	if usd > cfg.MaxTradeUsd {
		raw = raw * cfg.MaxTradeUsd / usd
		usd = cfg.MaxTradeUsd
	}

	if usd < cfg.MinTradeUsd {
		balanceUsd, err := r.converter.ToUsd(ctx, drawAsset, drawBalance)
		if err != nil {
			return 0, 0, err
		}
		if balanceUsd < cfg.MinTradeUsd {
			return 0, 0, fmt.Errorf("%w: %s balance worth $%.2f cannot cover minimum $%.2f",
				domain.ErrInsufficientBalance, drawAsset, balanceUsd, cfg.MinTradeUsd)
		}
		return 0, 0, fmt.Errorf("%w: $%.2f below minimum $%.2f (pct %.4f)",
			domain.ErrTradeTooSmall, usd, cfg.MinTradeUsd, pct)
	}

	// BUY draws from the quote balance; convert to base units at the
	// observed pair price.
	quantity := raw
	if side == domain.SideBuy {
		quantity = raw / price
	}

	quantity = roundDown(quantity, cfg.QuantityDecimals)
	if quantity <= 0 {
		return 0, 0, fmt.Errorf("%w: quantity rounds to zero at %d decimals",
			domain.ErrTradeTooSmall, cfg.QuantityDecimals)
	}

	return quantity, usd, nil
}

func roundDown(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Floor(v*scale) / scale
}
