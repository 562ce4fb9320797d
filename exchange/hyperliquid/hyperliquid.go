package hyperliquid

import (
	"context"
	"strings"
	"sync"

	"perpflow/exchange"
	"perpflow/internal/model"
	"perpflow/logger"
)

// Options configures the adapter for one account.
type Options struct {
	TradingMode   model.TradingMode
	MarginMode    model.MarginMode
	StakeCurrency string

	// Dexes are the builder DEXes this account trades in addition to the
	// primary venue.
	Dexes []string

	// DryRun suppresses every account mutation.
	DryRun bool

	// MaintenanceDeleverage is the venue's initial-to-maintenance margin
	// divisor. Zero selects the venue default of 2.
	MaintenanceDeleverage float64
}

// Exchange adapts one Hyperliquid-style account: the primary perpetual
// venue plus any configured builder DEXes, all behind one transport.
type Exchange struct {
	transport exchange.Transport
	opts      Options
	log       *logger.Log

	mu      sync.RWMutex
	markets map[string]model.Market
	dexes   map[string]struct{}
}

// New loads the market catalog and validates the account configuration
// against it. A configuration the venue cannot honor fails construction
// with a ConfigError.
func New(ctx context.Context, transport exchange.Transport, opts Options) (*Exchange, error) {
	if opts.MaintenanceDeleverage <= 0 {
		opts.MaintenanceDeleverage = 2
	}

	e := &Exchange{
		transport: transport,
		opts:      opts,
		log:       logger.GetLogger(),
		markets:   make(map[string]model.Market),
		dexes:     make(map[string]struct{}),
	}

	if err := e.ReloadMarkets(ctx); err != nil {
		return nil, err
	}
	if err := e.ValidateConfig(); err != nil {
		return nil, err
	}

	e.log.WithComponent("hyperliquid").WithFields(logger.Fields{
		"trading_mode": string(opts.TradingMode),
		"margin_mode":  string(opts.MarginMode),
		"dexes":        strings.Join(opts.Dexes, ","),
		"markets":      len(e.markets),
	}).Info("exchange adapter initialized")

	return e, nil
}

// ValidateConfig checks the configured builder DEXes against the trading
// mode, the live catalog and the margin mode, in that order.
func (e *Exchange) ValidateConfig() error {
	if len(e.opts.Dexes) == 0 {
		return nil
	}

	if e.opts.TradingMode != model.TradingModeFutures {
		return exchange.ConfigError("HIP-3 DEXes are only supported in futures trading mode")
	}

	known := e.KnownDexes()
	knownSet := make(map[string]struct{}, len(known))
	for _, dex := range known {
		knownSet[dex] = struct{}{}
	}
	var invalid []string
	for _, dex := range e.opts.Dexes {
		if _, ok := knownSet[dex]; !ok {
			invalid = append(invalid, dex)
		}
	}
	if len(invalid) > 0 {
		return exchange.NewConfigError(
			"invalid HIP-3 DEXes configured: %s (available: %s)",
			strings.Join(invalid, ", "), strings.Join(known, ", "))
	}

	if e.opts.MarginMode != model.MarginModeIsolated {
		return exchange.ConfigError("HIP-3 DEXes require isolated margin mode")
	}

	return nil
}

func (e *Exchange) dexConfigured(name string) bool {
	for _, dex := range e.opts.Dexes {
		if dex == name {
			return true
		}
	}
	return false
}

// venues returns the primary venue ("") followed by every configured DEX.
func (e *Exchange) venues() []string {
	return append([]string{""}, e.opts.Dexes...)
}
