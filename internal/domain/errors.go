package domain

import "errors"

var (
	// ErrPriceUnavailable means the quote source returned no tradable price.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrUsdConversionUnavailable means no conversion path to USD exists.
	ErrUsdConversionUnavailable = errors.New("usd conversion unavailable")

	// ErrInsufficientBalance means the available balance cannot cover even the
	// minimum trade size.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrTradeTooSmall means the sized trade fell below the USD minimum.
	ErrTradeTooSmall = errors.New("trade too small")

	// ErrOrderFailed means the exchange rejected or failed to execute an order.
	ErrOrderFailed = errors.New("order failed")

	// ErrConfigInvalid is fatal at load time, never raised per tick.
	ErrConfigInvalid = errors.New("invalid config")
)
