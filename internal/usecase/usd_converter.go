package usecase

import (
	"context"
	"fmt"

	"github.com/vitos/crypto_swing_bot/internal/domain"
)

// Stablecoins treated as 1:1 USD equivalents.
var usdStablecoins = []string{"USDT", "USDC", "BUSD", "FDUSD"}

// UsdConverter values an arbitrary asset quantity in USD. Exchanges often
// lack direct USD pairs for minor assets but always carry BTC/ETH liquidity,
// so conversion is an ordered list of paths: direct, via BTC, via ETH.
type UsdConverter struct {
	prices *PriceService

	// intermediaries tried in order after the direct path fails
	intermediaries []string
}

func NewUsdConverter(prices *PriceService) *UsdConverter {
	return &UsdConverter{
		prices:         prices,
		intermediaries: []string{"BTC", "ETH"},
	}
}

// ToUsd converts quantity units of asset to a USD value.
func (c *UsdConverter) ToUsd(ctx context.Context, asset string, quantity float64) (float64, error) {
	if asset == "USD" || isStablecoin(asset) {
		return quantity, nil
	}

	if rate, err := c.usdRate(ctx, asset); err == nil {
		return quantity * rate, nil
	}

	for _, via := range c.intermediaries {
		legRate, err := c.prices.GetPrice(ctx, asset, via)
		if err != nil {
			continue
		}
		viaRate, err := c.usdRate(ctx, via)
		if err != nil {
			continue
		}
		return quantity * legRate * viaRate, nil
	}

	return 0, fmt.Errorf("%w for %s", domain.ErrUsdConversionUnavailable, asset)
}

// usdRate returns the direct USD price of an asset by trying stable-quote
// pairs in order.
func (c *UsdConverter) usdRate(ctx context.Context, asset string) (float64, error) {
	if asset == "USD" || isStablecoin(asset) {
		return 1.0, nil
	}
	var lastErr error
	for _, stable := range usdStablecoins {
		price, err := c.prices.GetPrice(ctx, asset, stable)
		if err == nil {
			return price, nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("no stable quote for %s: %w", asset, lastErr)
}

func isStablecoin(asset string) bool {
	for _, s := range usdStablecoins {
		if asset == s {
			return true
		}
	}
	return false
}
