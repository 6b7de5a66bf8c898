package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vitos/crypto_swing_bot/internal/domain"
)

func TestQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("symbol") != "ETHUSDC" {
			t.Errorf("unexpected symbol %s", r.URL.Query().Get("symbol"))
		}
		w.Write([]byte(`{"symbol":"ETHUSDC","price":"2500.10"}`))
	}))
	defer srv.Close()

	adapter := NewBinanceAdapter("", "", srv.URL, "")
	price, err := adapter.Quote(context.Background(), "ETH", "USDC")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if price != 2500.10 {
		t.Errorf("price = %f, want 2500.10", price)
	}
}

func TestQuoteUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	adapter := NewBinanceAdapter("", "", srv.URL, "")
	if _, err := adapter.Quote(context.Background(), "FOO", "BAR"); err == nil {
		t.Fatal("expected an error for an invalid symbol")
	}
}

func TestBalanceSignsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-MBX-APIKEY") != "key" {
			t.Error("missing api key header")
		}
		q := r.URL.Query()
		if q.Get("signature") == "" || q.Get("timestamp") == "" {
			t.Error("account request must be signed")
		}
		w.Write([]byte(`{"balances":[{"asset":"ETH","free":"1.5","locked":"0"},{"asset":"USDC","free":"250.75","locked":"0"}]}`))
	}))
	defer srv.Close()

	adapter := NewBinanceAdapter("key", "secret", srv.URL, "")
	free, err := adapter.Balance(context.Background(), "USDC")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if free != 250.75 {
		t.Errorf("free = %f, want 250.75", free)
	}

	missing, err := adapter.Balance(context.Background(), "XRP")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if missing != 0 {
		t.Errorf("unknown asset balance = %f, want 0", missing)
	}
}

func TestPlaceMarketOrderAveragesFills(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Write([]byte(`{"orderId":12345,"executedQty":"0.200000",
			"fills":[{"price":"100.0","qty":"0.1"},{"price":"102.0","qty":"0.1"}]}`))
	}))
	defer srv.Close()

	adapter := NewBinanceAdapter("key", "secret", srv.URL, "")
	exec, err := adapter.PlaceMarketOrder(context.Background(), "ETHUSDC", domain.SideSell, 0.2)
	if err != nil {
		t.Fatalf("PlaceMarketOrder failed: %v", err)
	}
	if exec.OrderID != "12345" {
		t.Errorf("order id = %s, want 12345", exec.OrderID)
	}
	if exec.Price != 101.0 {
		t.Errorf("avg fill price = %f, want 101", exec.Price)
	}
	if exec.Quantity != 0.2 {
		t.Errorf("quantity = %f, want 0.2", exec.Quantity)
	}
}
