package domain

import "time"

// Decision is a fully sized trade candidate for one pair within one tick.
// It is never persisted as its own record; its fields become columns of the
// trade log row written after execution.
type Decision struct {
	Config       *PairConfig
	Side         Side
	Price        float64 // observed price that triggered the signal
	TriggerDelta float64 // (price - base) / base at signal time
	RawPct       float64 // configured trade percentage before the multiplier
	EffectivePct float64 // multiplier-scaled percentage actually applied
	UsdValue     float64
	Quantity     float64 // base asset units
}

// Execution is the confirmation returned by an order executor.
// Price may be zero when the exchange did not report a fill price.
type Execution struct {
	OrderID   string
	Price     float64
	Quantity  float64
	Simulated bool
}

// Balances is a snapshot of the free base and quote asset balances for a pair.
type Balances struct {
	Base  float64
	Quote float64
}

// PriceRow is one price observation appended to the durable log.
// IsBase marks rows where the observation became the new base price.
type PriceRow struct {
	ID        int64
	Symbol    string
	Price     float64
	IsBase    bool
	CreatedAt time.Time
}

// TradeRow is one executed trade appended to the durable log.
type TradeRow struct {
	ID           int64
	OrderID      string
	Symbol       string
	Side         Side
	Price        float64
	Quantity     float64
	TriggerDelta float64
	RawPct       float64
	EffectivePct float64
	UsdValue     float64
	BaseBalance  float64
	QuoteBalance float64
	TotalUsd     float64
	Simulated    bool
	CreatedAt    time.Time
}
