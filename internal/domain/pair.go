package domain

import "fmt"

type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// PairConfig is the immutable per-pair trading configuration, loaded once at startup.
type PairConfig struct {
	BaseAsset         string  `yaml:"base_asset"`
	QuoteAsset        string  `yaml:"quote_asset"`
	TradePercentage   float64 `yaml:"trade_percentage"`
	TriggerPercentage float64 `yaml:"trigger_percentage"`
	MaxTradeUsd       float64 `yaml:"max_trade_usd"`
	MinTradeUsd       float64 `yaml:"min_trade_usd"`
	QuantityDecimals  int     `yaml:"quantity_decimals"`
	Multiplier        float64 `yaml:"multiplier"`
}

// Symbol returns the exchange symbol, e.g. ETHUSDC.
func (c *PairConfig) Symbol() string {
	return c.BaseAsset + c.QuoteAsset
}

func (c *PairConfig) Validate() error {
	if c.BaseAsset == "" || c.QuoteAsset == "" {
		return fmt.Errorf("%w: empty asset symbol", ErrConfigInvalid)
	}
	if c.TradePercentage <= 0 || c.TradePercentage > 1 {
		return fmt.Errorf("%w: %s trade_percentage %.4f outside (0,1]", ErrConfigInvalid, c.Symbol(), c.TradePercentage)
	}
	if c.TriggerPercentage <= 0 || c.TriggerPercentage >= 1 {
		return fmt.Errorf("%w: %s trigger_percentage %.4f outside (0,1)", ErrConfigInvalid, c.Symbol(), c.TriggerPercentage)
	}
	if c.MaxTradeUsd <= 0 {
		return fmt.Errorf("%w: %s max_trade_usd must be positive", ErrConfigInvalid, c.Symbol())
	}
	if c.MinTradeUsd < 0 || c.MinTradeUsd >= c.MaxTradeUsd {
		return fmt.Errorf("%w: %s min_trade_usd %.2f must be in [0, max_trade_usd)", ErrConfigInvalid, c.Symbol(), c.MinTradeUsd)
	}
	if c.QuantityDecimals < 0 {
		return fmt.Errorf("%w: %s quantity_decimals must be >= 0", ErrConfigInvalid, c.Symbol())
	}
	if c.Multiplier < 1 {
		return fmt.Errorf("%w: %s multiplier %.2f must be >= 1", ErrConfigInvalid, c.Symbol(), c.Multiplier)
	}
	return nil
}
