package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Perpflow PerpflowConfig `yaml:"perpflow"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Channels ChannelsConfig `yaml:"channels"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type PerpflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type ExchangeConfig struct {
	TradingMode   string   `yaml:"trading_mode"`
	MarginMode    string   `yaml:"margin_mode"`
	StakeCurrency string   `yaml:"stake_currency"`
	Dexes         []string `yaml:"dexes"`
	DryRun        bool     `yaml:"dry_run"`

	// MaintenanceDeleverage is the venue's initial-to-maintenance margin
	// divisor. Zero means the venue default of 2.
	MaintenanceDeleverage float64 `yaml:"maintenance_deleverage"`

	WalletAddress string       `yaml:"wallet_address"`
	REST          RESTConfig   `yaml:"rest"`
	Stream        StreamConfig `yaml:"stream"`
}

type RESTConfig struct {
	URL            string               `yaml:"url"`
	Timeout        time.Duration        `yaml:"timeout"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
}

type StreamConfig struct {
	Enabled        bool          `yaml:"enabled"`
	URL            string        `yaml:"url"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	BurstSize         int `yaml:"burst_size"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type ChannelsConfig struct {
	OrderEventBuffer int `yaml:"order_event_buffer"`
}

type MonitorConfig struct {
	Interval time.Duration `yaml:"interval"`
	Symbols  []string      `yaml:"symbols"`
}

type MetricsConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Region          string `yaml:"region"`
	Namespace       string `yaml:"namespace"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level         string                 `yaml:"level"`
	Format        string                 `yaml:"format"`
	Output        string                 `yaml:"output"`
	MaxAge        int                    `yaml:"max_age"`
	Fields        map[string]interface{} `yaml:"fields"`
	DashboardName string                 `yaml:"dashboard_name"`
}

func LoadConfig(path string) (*Config, error) {
	// Read configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Exchange: ExchangeConfig{
			TradingMode:   "futures",
			MarginMode:    "isolated",
			StakeCurrency: "USDC",
			REST: RESTConfig{
				Timeout: 10 * time.Second,
				RateLimit: RateLimitConfig{
					RequestsPerSecond: 10,
					BurstSize:         20,
				},
				ConnectionPool: ConnectionPoolConfig{
					MaxIdleConns:    10,
					MaxConnsPerHost: 10,
					IdleConnTimeout: 90 * time.Second,
				},
			},
			Stream: StreamConfig{
				ReconnectDelay: 5 * time.Second,
			},
		},
		Channels: ChannelsConfig{OrderEventBuffer: 256},
		Monitor:  MonitorConfig{Interval: 30 * time.Second},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override credentials from environment variables if available
	if v := os.Getenv("PERPFLOW_WALLET_ADDRESS"); v != "" {
		config.Exchange.WalletAddress = strings.TrimSpace(v)
	}
	if config.Metrics.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Metrics.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Metrics.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Metrics.Region = strings.TrimSpace(v)
		}
	}

	for i, dex := range config.Exchange.Dexes {
		config.Exchange.Dexes[i] = strings.TrimSpace(dex)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// validateConfig checks the structural invariants a config file must
// satisfy. Venue-dependent rules (DEX names against the live catalog)
// live in the exchange adapter, which has the market data to judge them.
func validateConfig(cfg *Config) error {
	if cfg.Perpflow.Name == "" {
		return fmt.Errorf("perpflow.name is required")
	}

	if cfg.Perpflow.Version == "" {
		return fmt.Errorf("perpflow.version is required")
	}

	switch cfg.Exchange.TradingMode {
	case "spot", "futures":
	default:
		return fmt.Errorf("exchange.trading_mode '%s' is invalid (want spot or futures)", cfg.Exchange.TradingMode)
	}

	switch cfg.Exchange.MarginMode {
	case "", "isolated", "cross":
	default:
		return fmt.Errorf("exchange.margin_mode '%s' is invalid (want isolated or cross)", cfg.Exchange.MarginMode)
	}

	if cfg.Exchange.StakeCurrency == "" {
		return fmt.Errorf("exchange.stake_currency is required")
	}

	if cfg.Exchange.MaintenanceDeleverage < 0 {
		return fmt.Errorf("exchange.maintenance_deleverage must not be negative")
	}

	for _, dex := range cfg.Exchange.Dexes {
		if dex == "" {
			return fmt.Errorf("exchange.dexes must not contain empty names")
		}
	}

	if cfg.Exchange.REST.URL == "" {
		return fmt.Errorf("exchange.rest.url is required")
	}
	if cfg.Exchange.REST.Timeout <= 0 {
		return fmt.Errorf("exchange.rest.timeout must be greater than 0")
	}
	if cfg.Exchange.REST.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("exchange.rest.rate_limit.requests_per_second must be greater than 0")
	}

	if cfg.Exchange.Stream.Enabled && cfg.Exchange.Stream.URL == "" {
		return fmt.Errorf("exchange.stream.url is required when the stream is enabled")
	}

	if cfg.Channels.OrderEventBuffer <= 0 {
		return fmt.Errorf("channels.order_event_buffer must be greater than 0")
	}

	if cfg.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be greater than 0")
	}

	return nil
}
