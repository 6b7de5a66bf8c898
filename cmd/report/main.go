package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/vitos/crypto_swing_bot/internal/domain"
	"github.com/vitos/crypto_swing_bot/internal/infrastructure/storage"
)

// report prints the recent trade log and per-symbol aggregates from the
// durable sqlite log. Offline tool, never touches the exchange.
func main() {
	dbPath := flag.String("db", "bot.db", "path to the bot sqlite database")
	limit := flag.Int("limit", 50, "number of recent trades to list")
	sinceDays := flag.Int("days", 0, "restrict aggregates to the last N days (0 = all)")
	flag.Parse()

	store, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		fmt.Printf("Failed to open %s: %v\n", *dbPath, err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	trades, err := store.ListTradeRows(ctx, *limit)
	if err != nil {
		fmt.Printf("Failed to list trades: %v\n", err)
		os.Exit(1)
	}

	aggTrades := trades
	if *sinceDays > 0 {
		since := time.Now().UTC().AddDate(0, 0, -*sinceDays)
		aggTrades, err = store.ListTradeRowsSince(ctx, since)
		if err != nil {
			fmt.Printf("Failed to list trades since %s: %v\n", since.Format("2006-01-02"), err)
			os.Exit(1)
		}
	}

	printTrades(trades)
	fmt.Println()
	printSummary(aggTrades)
}

func printTrades(trades []*domain.TradeRow) {
	if len(trades) == 0 {
		fmt.Println("No trades logged.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Time", "Symbol", "Side", "Price", "Qty", "USD", "Delta%", "Pct", "Total USD", "Mode")

	for _, t := range trades {
		mode := "live"
		if t.Simulated {
			mode = "sim"
		}
		table.Append(
			t.CreatedAt.Format("2006-01-02 15:04"),
			t.Symbol,
			string(t.Side),
			fmt.Sprintf("%.6f", t.Price),
			fmt.Sprintf("%.6f", t.Quantity),
			fmt.Sprintf("$%.2f", t.UsdValue),
			fmt.Sprintf("%+.2f", t.TriggerDelta*100),
			fmt.Sprintf("%.1f%%", t.EffectivePct*100),
			fmt.Sprintf("$%.2f", t.TotalUsd),
			mode,
		)
	}
	table.Render()
}

type symbolStats struct {
	trades   int
	buys     int
	sells    int
	usd      float64
	lastSeen time.Time
}

func printSummary(trades []*domain.TradeRow) {
	stats := make(map[string]*symbolStats)
	var order []string

	for _, t := range trades {
		s, ok := stats[t.Symbol]
		if !ok {
			s = &symbolStats{}
			stats[t.Symbol] = s
			order = append(order, t.Symbol)
		}
		s.trades++
		if t.Side == domain.SideBuy {
			s.buys++
		} else {
			s.sells++
		}
		s.usd += t.UsdValue
		if t.CreatedAt.After(s.lastSeen) {
			s.lastSeen = t.CreatedAt
		}
	}

	if len(order) == 0 {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Symbol", "Trades", "Buys", "Sells", "Turnover", "Last Trade")

	for _, symbol := range order {
		s := stats[symbol]
		table.Append(
			symbol,
			fmt.Sprintf("%d", s.trades),
			fmt.Sprintf("%d", s.buys),
			fmt.Sprintf("%d", s.sells),
			fmt.Sprintf("$%.2f", s.usd),
			s.lastSeen.Format("2006-01-02 15:04"),
		)
	}
	table.Render()
}
