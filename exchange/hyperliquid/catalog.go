package hyperliquid

import (
	"context"
	"fmt"
	"sort"

	"perpflow/internal/model"
)

// ReloadMarkets replaces the catalog snapshot wholesale with the venue's
// current instrument list. The snapshot is never mutated in place.
func (e *Exchange) ReloadMarkets(ctx context.Context) error {
	list, err := e.transport.LoadMarkets(ctx)
	if err != nil {
		return fmt.Errorf("load markets: %w", err)
	}

	markets := make(map[string]model.Market, len(list))
	dexes := make(map[string]struct{})
	for _, m := range list {
		markets[m.Symbol] = m
		if m.Dex != "" {
			dexes[m.Dex] = struct{}{}
		}
	}

	e.mu.Lock()
	e.markets = markets
	e.dexes = dexes
	e.mu.Unlock()
	return nil
}

// Market looks up one catalog entry by unified symbol.
func (e *Exchange) Market(symbol string) (model.Market, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, ok := e.markets[symbol]
	return m, ok
}

// Markets returns a copy of the current catalog snapshot.
func (e *Exchange) Markets() map[string]model.Market {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]model.Market, len(e.markets))
	for k, v := range e.markets {
		out[k] = v
	}
	return out
}

// KnownDexes returns the sorted names of every builder DEX that lists at
// least one market in the catalog.
func (e *Exchange) KnownDexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.dexes))
	for dex := range e.dexes {
		out = append(out, dex)
	}
	sort.Strings(out)
	return out
}
