package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vitos/crypto_swing_bot/internal/domain"
	"github.com/vitos/crypto_swing_bot/internal/usecase"
)

func newConverter(ex *fakeExchange) *usecase.UsdConverter {
	return usecase.NewUsdConverter(usecase.NewPriceService(ex, noopCache{}))
}

func TestToUsdStablecoinPassthrough(t *testing.T) {
	conv := newConverter(newFakeExchange())

	for _, asset := range []string{"USD", "USDT", "USDC", "BUSD", "FDUSD"} {
		got, err := conv.ToUsd(context.Background(), asset, 123.45)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", asset, err)
		}
		if !floatEquals(got, 123.45) {
			t.Errorf("%s: got %f, want 123.45", asset, got)
		}
	}
}

func TestToUsdDirectQuote(t *testing.T) {
	ex := newFakeExchange()
	ex.Prices["SOLUSDT"] = 150.0
	conv := newConverter(ex)

	got, err := conv.ToUsd(context.Background(), "SOL", 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !floatEquals(got, 300.0) {
		t.Errorf("got %f, want 300", got)
	}
}

func TestToUsdViaBtc(t *testing.T) {
	ex := newFakeExchange()
	ex.Prices["XYZBTC"] = 0.001
	ex.Prices["BTCUSDT"] = 50000.0
	conv := newConverter(ex)

	got, err := conv.ToUsd(context.Background(), "XYZ", 3.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3 * 0.001 BTC * 50000 USD/BTC
	if !floatEquals(got, 150.0) {
		t.Errorf("got %f, want 150", got)
	}
}

func TestToUsdFallsThroughToEth(t *testing.T) {
	ex := newFakeExchange()
	ex.Prices["ABCETH"] = 2.0
	ex.Prices["ETHUSDT"] = 2000.0
	conv := newConverter(ex)

	got, err := conv.ToUsd(context.Background(), "ABC", 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !floatEquals(got, 4000.0) {
		t.Errorf("got %f, want 4000", got)
	}
	if ex.QuoteCalls["ABCBTC"] == 0 {
		t.Error("expected the BTC path to be tried before ETH")
	}
}

func TestToUsdAllPathsFail(t *testing.T) {
	conv := newConverter(newFakeExchange())

	_, err := conv.ToUsd(context.Background(), "NOPE", 1.0)
	if !errors.Is(err, domain.ErrUsdConversionUnavailable) {
		t.Errorf("want ErrUsdConversionUnavailable, got %v", err)
	}
}
