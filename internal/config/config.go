package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/vitos/crypto_swing_bot/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config is the full runner configuration: the pair list from yaml plus
// secrets from the environment. Validation failures are fatal at startup,
// never per tick.
type Config struct {
	Pairs []*domain.PairConfig `yaml:"pairs"`

	Polling struct {
		IntervalSec int `yaml:"interval_sec"`
	} `yaml:"polling"`

	Cache struct {
		Type       string `yaml:"type"` // "memory" (default) or "redis"
		TTLSeconds int    `yaml:"ttl_seconds"`
		RedisAddr  string `yaml:"redis_addr"`
	} `yaml:"cache"`

	Exchange struct {
		RESTEndpoint string `yaml:"rest_endpoint"`
		WSEndpoint   string `yaml:"ws_endpoint"`
		Stream       bool   `yaml:"stream"` // warm the price cache over websocket
	} `yaml:"exchange"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Logging struct {
		Level   string `yaml:"level"`
		Console bool   `yaml:"console"`
	} `yaml:"logging"`

	// Live enables real order placement. Default is simulation.
	Live bool `yaml:"live"`

	// From environment, not yaml.
	APIKey         string `yaml:"-"`
	APISecret      string `yaml:"-"`
	TelegramToken  string `yaml:"-"`
	TelegramChatID int64  `yaml:"-"`
}

// Load reads the yaml file, merges environment secrets (a .env file is
// honored when present) and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %v", domain.ErrConfigInvalid, err)
	}

	cfg.APIKey = os.Getenv("BINANCE_API_KEY")
	cfg.APISecret = os.Getenv("BINANCE_API_SECRET")
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: TELEGRAM_CHAT_ID: %v", domain.ErrConfigInvalid, err)
		}
		cfg.TelegramChatID = id
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Polling.IntervalSec == 0 {
		c.Polling.IntervalSec = 30
	}
	if c.Cache.Type == "" {
		c.Cache.Type = "memory"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 60
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "bot.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if len(c.Pairs) == 0 {
		return fmt.Errorf("%w: no trading pairs configured", domain.ErrConfigInvalid)
	}
	seen := make(map[string]bool)
	for _, p := range c.Pairs {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Symbol()] {
			return fmt.Errorf("%w: duplicate pair %s", domain.ErrConfigInvalid, p.Symbol())
		}
		seen[p.Symbol()] = true
	}
	if c.Polling.IntervalSec < 1 {
		return fmt.Errorf("%w: polling interval must be at least 1s", domain.ErrConfigInvalid)
	}
	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("%w: redis cache requires redis_addr", domain.ErrConfigInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown cache type %q", domain.ErrConfigInvalid, c.Cache.Type)
	}
	if c.Live && (c.APIKey == "" || c.APISecret == "") {
		return fmt.Errorf("%w: live mode requires BINANCE_API_KEY and BINANCE_API_SECRET", domain.ErrConfigInvalid)
	}
	return nil
}
