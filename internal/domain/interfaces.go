package domain

import (
	"context"
	"time"
)

// Exchange defines the interface for interacting with a crypto exchange.
type Exchange interface {
	// Quote returns the current price of base expressed in quote.
	Quote(ctx context.Context, base, quote string) (float64, error)
	// Balance returns the free (available) balance for an asset.
	Balance(ctx context.Context, asset string) (float64, error)
	// PlaceMarketOrder submits a market order for quantity base units.
	PlaceMarketOrder(ctx context.Context, symbol string, side Side, quantity float64) (*Execution, error)
}

// PriceCache is a short-lived quote cache keyed by exchange symbol.
// Implementations own the TTL; expired entries are evicted lazily on lookup.
type PriceCache interface {
	Get(ctx context.Context, symbol string) (float64, bool)
	Set(ctx context.Context, symbol string, price float64)
}

// OrderExecutor executes a sized trade decision. The simulated and live
// implementations share this interface so the decision path is identical
// in both modes.
type OrderExecutor interface {
	Execute(ctx context.Context, d *Decision) (*Execution, error)
}

// TradeRepository is the append-only durable log: one row per price
// observation and one row per executed trade. It is audit output, never read
// back by the trading core at runtime.
type TradeRepository interface {
	SavePriceRow(ctx context.Context, row *PriceRow) error
	SaveTradeRow(ctx context.Context, row *TradeRow) error
	ListTradeRows(ctx context.Context, limit int) ([]*TradeRow, error)
	ListTradeRowsSince(ctx context.Context, since time.Time) ([]*TradeRow, error)
}

// Notifier delivers fire-and-forget trade alerts. Failures must never abort
// a decision that already succeeded.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
