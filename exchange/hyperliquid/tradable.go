package hyperliquid

import "perpflow/internal/model"

// MarketIsTradable reports whether this account can trade a market.
// Primary-venue markets fall through to the generic product check. A
// builder DEX market is tradable only when its DEX is configured and it
// settles in the account's stake currency.
func (e *Exchange) MarketIsTradable(m model.Market) bool {
	if !e.productTradable(m) {
		return false
	}
	if m.IsPrimary() {
		return true
	}
	if !e.dexConfigured(m.Dex) {
		return false
	}
	return m.Settle == e.opts.StakeCurrency
}

// productTradable is the venue-agnostic check: the product class has to
// match the trading mode and the market has to be live.
func (e *Exchange) productTradable(m model.Market) bool {
	if !m.Active {
		return false
	}
	if e.opts.TradingMode == model.TradingModeFutures {
		return m.Swap && m.Linear
	}
	return !m.Swap
}
