package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vitos/crypto_swing_bot/internal/domain"
)

type placedOrder struct {
	Symbol   string
	Side     domain.Side
	Quantity float64
}

// fakeExchange serves quotes and balances from maps. A missing symbol behaves
// like an exchange NotFound.
type fakeExchange struct {
	mu         sync.Mutex
	Prices     map[string]float64
	Balances   map[string]float64
	QuoteCalls map[string]int
	Orders     []placedOrder
	OrderErr   error
	FillPrice  float64 // 0 means the exchange reported no fill price
}

func newFakeExchange() *fakeExchange {
	return &fakeExchange{
		Prices:     make(map[string]float64),
		Balances:   make(map[string]float64),
		QuoteCalls: make(map[string]int),
	}
}

func (f *fakeExchange) Quote(ctx context.Context, base, quote string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	symbol := base + quote
	f.QuoteCalls[symbol]++
	price, ok := f.Prices[symbol]
	if !ok {
		return 0, fmt.Errorf("symbol %s not found", symbol)
	}
	return price, nil
}

func (f *fakeExchange) Balance(ctx context.Context, asset string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Balances[asset], nil
}

func (f *fakeExchange) PlaceMarketOrder(ctx context.Context, symbol string, side domain.Side, quantity float64) (*domain.Execution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.OrderErr != nil {
		return nil, f.OrderErr
	}
	f.Orders = append(f.Orders, placedOrder{Symbol: symbol, Side: side, Quantity: quantity})
	return &domain.Execution{
		OrderID:  fmt.Sprintf("order-%d", len(f.Orders)),
		Price:    f.FillPrice,
		Quantity: quantity,
	}, nil
}

// noopCache always misses, so every lookup goes to the exchange. Keeps
// multi-tick tests free of stale quotes.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, symbol string) (float64, bool) { return 0, false }
func (noopCache) Set(ctx context.Context, symbol string, price float64)  {}

// stubCache is a plain map without expiry, for oracle caching tests.
type stubCache struct {
	entries map[string]float64
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]float64)}
}

func (c *stubCache) Get(ctx context.Context, symbol string) (float64, bool) {
	price, ok := c.entries[symbol]
	return price, ok
}

func (c *stubCache) Set(ctx context.Context, symbol string, price float64) {
	c.entries[symbol] = price
	c.sets++
}

type fakeRepo struct {
	PriceRows []*domain.PriceRow
	TradeRows []*domain.TradeRow
}

func (r *fakeRepo) SavePriceRow(ctx context.Context, row *domain.PriceRow) error {
	r.PriceRows = append(r.PriceRows, row)
	return nil
}

func (r *fakeRepo) SaveTradeRow(ctx context.Context, row *domain.TradeRow) error {
	r.TradeRows = append(r.TradeRows, row)
	return nil
}

func (r *fakeRepo) ListTradeRows(ctx context.Context, limit int) ([]*domain.TradeRow, error) {
	return r.TradeRows, nil
}

func (r *fakeRepo) ListTradeRowsSince(ctx context.Context, since time.Time) ([]*domain.TradeRow, error) {
	return r.TradeRows, nil
}

type fakeNotifier struct {
	Messages []string
	Err      error
}

func (n *fakeNotifier) Notify(ctx context.Context, message string) error {
	if n.Err != nil {
		return n.Err
	}
	n.Messages = append(n.Messages, message)
	return nil
}
