package usecase

import (
	"context"
	"fmt"

	"github.com/vitos/crypto_swing_bot/internal/domain"
)

// PriceService is the price oracle: it answers "what is base worth in quote
// right now" through a short-lived cache so repeated lookups within a tick
// (USD conversion legs in particular) do not multiply exchange calls.
type PriceService struct {
	exchange domain.Exchange
	cache    domain.PriceCache
}

func NewPriceService(exchange domain.Exchange, cache domain.PriceCache) *PriceService {
	return &PriceService{
		exchange: exchange,
		cache:    cache,
	}
}

// GetPrice returns the current price of base expressed in quote.
// A live cache entry is returned without any external call.
func (s *PriceService) GetPrice(ctx context.Context, base, quote string) (float64, error) {
	symbol := base + quote
	if price, ok := s.cache.Get(ctx, symbol); ok {
		return price, nil
	}

	price, err := s.exchange.Quote(ctx, base, quote)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %v", domain.ErrPriceUnavailable, symbol, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w for %s: non-positive price %f", domain.ErrPriceUnavailable, symbol, price)
	}

	s.cache.Set(ctx, symbol, price)
	return price, nil
}
