package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vitos/crypto_swing_bot/internal/domain"
	"golang.org/x/time/rate"
)

const (
	BinanceBaseURL = "https://api.binance.com"
	BinanceWSURL   = "wss://stream.binance.com:9443/ws"

	// Spot REST weight budget is 6000/min; stay well under it.
	requestsPerSec = 10
)

// BinanceAdapter talks to the Binance spot REST API and optionally streams
// miniTicker prices over websocket.
type BinanceAdapter struct {
	apiKey    string
	apiSecret string
	baseURL   string
	wsURL     string
	client    *http.Client
	limiter   *rate.Limiter

	mu        sync.Mutex
	wsConn    *websocket.Conn
	callbacks []func(symbol string, price float64)
}

func NewBinanceAdapter(apiKey, apiSecret, baseURL, wsURL string) *BinanceAdapter {
	if baseURL == "" {
		baseURL = BinanceBaseURL
	}
	if wsURL == "" {
		wsURL = BinanceWSURL
	}
	return &BinanceAdapter{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   baseURL,
		wsURL:     wsURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(requestsPerSec, 20),
	}
}

// --- REST API ---

func (b *BinanceAdapter) sign(query string) string {
	h := hmac.New(sha256.New, []byte(b.apiSecret))
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}

func (b *BinanceAdapter) sendRequest(ctx context.Context, method, path string, params url.Values, signed bool) ([]byte, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if params == nil {
		params = url.Values{}
	}
	if signed {
		params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
		params.Set("recvWindow", "5000")
		params.Set("signature", b.sign(params.Encode()))
	}

	var reqURL string
	var body io.Reader
	query := params.Encode()
	if method == http.MethodGet {
		reqURL = b.baseURL + path
		if query != "" {
			reqURL += "?" + query
		}
	} else {
		reqURL = b.baseURL + path
		body = strings.NewReader(query)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, err
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if b.apiKey != "" {
		req.Header.Set("X-MBX-APIKEY", b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Msg != "" {
			return nil, fmt.Errorf("binance error %d: %s", apiErr.Code, apiErr.Msg)
		}
		return nil, fmt.Errorf("binance http %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func (b *BinanceAdapter) Quote(ctx context.Context, base, quote string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", base+quote)

	resp, err := b.sendRequest(ctx, http.MethodGet, "/api/v3/ticker/price", params, false)
	if err != nil {
		return 0, err
	}

	var result struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(result.Price, 64)
}

func (b *BinanceAdapter) Balance(ctx context.Context, asset string) (float64, error) {
	resp, err := b.sendRequest(ctx, http.MethodGet, "/api/v3/account", nil, true)
	if err != nil {
		return 0, err
	}

	var result struct {
		Balances []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return 0, err
	}

	for _, bal := range result.Balances {
		if bal.Asset == asset {
			return strconv.ParseFloat(bal.Free, 64)
		}
	}
	return 0, nil
}

func (b *BinanceAdapter) PlaceMarketOrder(ctx context.Context, symbol string, side domain.Side, quantity float64) (*domain.Execution, error) {
	clientOrderID := uuid.New().String()

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", string(side))
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(quantity, 'f', -1, 64))
	params.Set("newClientOrderId", clientOrderID)
	params.Set("newOrderRespType", "FULL")

	resp, err := b.sendRequest(ctx, http.MethodPost, "/api/v3/order", params, true)
	if err != nil {
		return nil, err
	}

	var result struct {
		OrderID     int64  `json:"orderId"`
		ExecutedQty string `json:"executedQty"`
		Fills       []struct {
			Price string `json:"price"`
			Qty   string `json:"qty"`
		} `json:"fills"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, err
	}

	executedQty, _ := strconv.ParseFloat(result.ExecutedQty, 64)
	if executedQty <= 0 {
		executedQty = quantity
	}

	return &domain.Execution{
		OrderID:  strconv.FormatInt(result.OrderID, 10),
		Price:    avgFillPrice(result.Fills),
		Quantity: executedQty,
	}, nil
}

// avgFillPrice returns the quantity-weighted fill price, or 0 when the
// exchange reported no fills.
func avgFillPrice(fills []struct {
	Price string `json:"price"`
	Qty   string `json:"qty"`
}) float64 {
	var totalQty, totalCost float64
	for _, f := range fills {
		p, err1 := strconv.ParseFloat(f.Price, 64)
		q, err2 := strconv.ParseFloat(f.Qty, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		totalQty += q
		totalCost += p * q
	}
	if totalQty == 0 {
		return 0
	}
	return totalCost / totalQty
}

// --- WebSocket ---

// OnPriceUpdate registers a callback fired for every miniTicker event.
func (b *BinanceAdapter) OnPriceUpdate(callback func(symbol string, price float64)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks = append(b.callbacks, callback)
}

// ConnectWS opens the stream and subscribes to miniTicker for the symbols.
func (b *BinanceAdapter) ConnectWS(symbols []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.wsConn != nil {
		return b.subscribe(symbols)
	}

	c, _, err := websocket.DefaultDialer.Dial(b.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", b.wsURL, err)
	}
	b.wsConn = c

	go b.readLoop()
	return b.subscribe(symbols)
}

func (b *BinanceAdapter) subscribe(symbols []string) error {
	streams := make([]string, 0, len(symbols))
	for _, s := range symbols {
		streams = append(streams, strings.ToLower(s)+"@miniTicker")
	}
	msg := map[string]interface{}{
		"method": "SUBSCRIBE",
		"params": streams,
		"id":     time.Now().UnixMilli(),
	}
	return b.wsConn.WriteJSON(msg)
}

func (b *BinanceAdapter) CloseWS() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.wsConn == nil {
		return nil
	}
	err := b.wsConn.Close()
	b.wsConn = nil
	return err
}

func (b *BinanceAdapter) readLoop() {
	for {
		b.mu.Lock()
		conn := b.wsConn
		b.mu.Unlock()
		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var event struct {
			EventType string `json:"e"`
			Symbol    string `json:"s"`
			Close     string `json:"c"`
		}
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}
		if event.EventType != "24hrMiniTicker" || event.Symbol == "" {
			continue
		}
		price, err := strconv.ParseFloat(event.Close, 64)
		if err != nil || price <= 0 {
			continue
		}

		b.mu.Lock()
		callbacks := make([]func(string, float64), len(b.callbacks))
		copy(callbacks, b.callbacks)
		b.mu.Unlock()

		for _, cb := range callbacks {
			cb(event.Symbol, price)
		}
	}
}
