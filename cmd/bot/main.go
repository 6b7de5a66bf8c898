package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/vitos/crypto_swing_bot/internal/config"
	"github.com/vitos/crypto_swing_bot/internal/domain"
	"github.com/vitos/crypto_swing_bot/internal/infrastructure/cache"
	"github.com/vitos/crypto_swing_bot/internal/infrastructure/exchange"
	"github.com/vitos/crypto_swing_bot/internal/infrastructure/logger"
	"github.com/vitos/crypto_swing_bot/internal/infrastructure/notify"
	"github.com/vitos/crypto_swing_bot/internal/infrastructure/storage"
	"github.com/vitos/crypto_swing_bot/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	configPath := "config/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Console)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	var priceCache domain.PriceCache
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	if cfg.Cache.Type == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		priceCache = cache.NewRedisCache(rdb, ttl)
	} else {
		priceCache = cache.NewMemoryCache(ttl)
	}

	binance := exchange.NewBinanceAdapter(cfg.APIKey, cfg.APISecret, cfg.Exchange.RESTEndpoint, cfg.Exchange.WSEndpoint)

	prices := usecase.NewPriceService(binance, priceCache)
	converter := usecase.NewUsdConverter(prices)

	var executor domain.OrderExecutor
	if cfg.Live {
		executor = usecase.NewLiveExecutor(binance, log)
		log.Warn("live trading enabled, orders will hit the exchange")
	} else {
		executor = usecase.NewSimulatedExecutor(log)
		log.Info("running in simulation mode")
	}

	var notifier domain.Notifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifier = notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	} else {
		log.Warn("telegram credentials not configured, notifications disabled")
	}

	svc := usecase.NewPairService(prices, converter, binance, executor, store, notifier, log)
	worker := usecase.NewBotWorker(svc, cfg.Pairs, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optionally keep the cache warm from the miniTicker stream so poll
	// ticks rarely pay for a REST round-trip.
	if cfg.Exchange.Stream {
		binance.OnPriceUpdate(func(symbol string, price float64) {
			priceCache.Set(ctx, symbol, price)
		})
		symbols := make([]string, 0, len(cfg.Pairs))
		for _, p := range cfg.Pairs {
			symbols = append(symbols, p.Symbol())
		}
		if err := binance.ConnectWS(symbols); err != nil {
			log.Error("websocket stream unavailable, relying on REST polling", zap.Error(err))
		} else {
			defer binance.CloseWS()
		}
	}

	c := cron.New(cron.WithLocation(time.UTC))
	_, err = c.AddFunc(fmt.Sprintf("@every %ds", cfg.Polling.IntervalSec), func() {
		worker.RunTick(ctx)
	})
	if err != nil {
		log.Fatal("Failed to schedule poll loop", zap.Error(err))
	}

	worker.RunTick(ctx)
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down...")
	cancel()
	<-c.Stop().Done()
}
