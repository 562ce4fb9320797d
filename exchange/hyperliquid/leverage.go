package hyperliquid

import (
	"context"

	"perpflow/exchange"
	"perpflow/internal/model"
	"perpflow/logger"
)

// PrepareLeverage applies the account margin mode and the requested
// leverage for a symbol before an order goes out. The venue only accepts
// integer leverage, so fractional values floor toward zero. Outside live
// futures trading the call is a no-op.
func (e *Exchange) PrepareLeverage(ctx context.Context, symbol string, leverage float64, side model.PositionSide) error {
	if e.opts.DryRun || e.opts.TradingMode != model.TradingModeFutures {
		return nil
	}

	params := exchange.MarginModeParams{Leverage: int(leverage)}
	if m, ok := e.Market(symbol); ok {
		params.Dex = m.Dex
	}

	if err := e.transport.SetMarginMode(ctx, e.opts.MarginMode, symbol, params); err != nil {
		return err
	}

	e.log.WithComponent("leverage").WithFields(logger.Fields{
		"symbol":   symbol,
		"leverage": params.Leverage,
		"dex":      params.Dex,
	}).Debug("margin mode applied")
	return nil
}

// MaxLeverage returns the leverage ceiling for a symbol, clamped to the
// requested cap when cap is positive. Unknown or non-swap markets, and
// anything outside futures trading, default to 1.
func (e *Exchange) MaxLeverage(symbol string, cap float64) float64 {
	if e.opts.TradingMode != model.TradingModeFutures {
		return 1.0
	}
	m, ok := e.Market(symbol)
	if !ok || !m.Swap || m.MaxLeverage <= 0 {
		return 1.0
	}
	if cap > 0 && cap < m.MaxLeverage {
		return cap
	}
	return m.MaxLeverage
}
