package hyperliquid

import (
	"fmt"

	"perpflow/internal/model"
)

// LiquidationPrice estimates the mark price at which a position would be
// force-closed. The venue keeps maintenance margin at a fixed fraction of
// the initial margin at the market's maximum leverage, so the maintenance
// rate varies per instrument through the catalog ceiling and is never
// hard-coded here.
//
// For isolated margin only the position's own collateral backs it. For
// cross margin the whole wallet backs it, netted with the unrealized PnL
// and maintenance requirements of every other open position.
func (e *Exchange) LiquidationPrice(
	symbol string,
	entryPrice float64,
	isShort bool,
	contracts float64,
	collateral float64,
	walletBalance float64,
	openPositions []model.Position,
) (float64, error) {
	m, ok := e.Market(symbol)
	if !ok {
		return 0, fmt.Errorf("liquidation price: unknown market %s", symbol)
	}
	if contracts <= 0 {
		return 0, fmt.Errorf("liquidation price: position size must be positive, got %v", contracts)
	}
	if m.MaxLeverage <= 0 {
		return 0, fmt.Errorf("liquidation price: market %s has no leverage ceiling", symbol)
	}

	marginRequired := e.maintenanceMargin(entryPrice, contracts, m.MaxLeverage)

	var available float64
	if e.opts.MarginMode == model.MarginModeCross {
		buffer := walletBalance
		for _, p := range openPositions {
			if p.Symbol == symbol {
				continue
			}
			pm, ok := e.Market(p.Symbol)
			if !ok {
				continue
			}
			buffer += p.UnrealizedPnl
			buffer -= e.maintenanceMargin(p.EntryPrice, p.Contracts, pm.MaxLeverage)
		}
		available = buffer - marginRequired
	} else {
		available = collateral - marginRequired
	}

	side := 1.0
	if isShort {
		side = -1.0
	}
	// Maintenance rate as a fraction of notional.
	rate := 1.0 / (m.MaxLeverage * e.opts.MaintenanceDeleverage)

	liq := entryPrice - side*available/contracts/(1-rate*side)
	if !isShort && liq < 0 {
		liq = 0
	}
	return liq, nil
}

func (e *Exchange) maintenanceMargin(entryPrice, contracts, maxLeverage float64) float64 {
	return entryPrice * contracts / maxLeverage / e.opts.MaintenanceDeleverage
}
