package hyperliquid

import (
	"context"
	"sync"

	"perpflow/exchange"
	"perpflow/internal/model"
	"perpflow/logger"
)

// Balances fetches balances from the primary venue and every configured
// builder DEX and sums them per currency. A venue that fails to answer is
// logged and left out; the merged view is always returned.
func (e *Exchange) Balances(ctx context.Context) (model.Balances, error) {
	merged := model.Balances{}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, dex := range e.venues() {
		wg.Add(1)
		go func(dex string) {
			defer wg.Done()
			balances, err := e.transport.FetchBalance(ctx, exchange.Params{Dex: dex})
			if err != nil {
				e.warnVenue("could not fetch balance for HIP-3 DEX", dex, err)
				return
			}
			logger.RecordVenueFetch()
			mu.Lock()
			for code, b := range balances {
				sum := merged[code]
				sum.Free += b.Free
				sum.Used += b.Used
				sum.Total += b.Total
				merged[code] = sum
			}
			mu.Unlock()
		}(dex)
	}
	wg.Wait()

	return merged, nil
}

// Positions fetches open positions from the primary venue and every
// configured builder DEX and returns their union, optionally filtered to
// the given symbols. Failing venues are logged and left out.
func (e *Exchange) Positions(ctx context.Context, symbols ...string) ([]model.Position, error) {
	var merged []model.Position

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, dex := range e.venues() {
		wg.Add(1)
		go func(dex string) {
			defer wg.Done()
			positions, err := e.transport.FetchPositions(ctx, symbols, exchange.Params{Dex: dex})
			if err != nil {
				e.warnVenue("could not fetch positions for HIP-3 DEX", dex, err)
				return
			}
			logger.RecordVenueFetch()
			mu.Lock()
			merged = append(merged, positions...)
			mu.Unlock()
		}(dex)
	}
	wg.Wait()

	return merged, nil
}

func (e *Exchange) warnVenue(msg, dex string, err error) {
	logger.RecordVenueFailure()
	venue := dex
	if venue == "" {
		venue = "primary"
		msg = "could not fetch from primary venue"
	}
	e.log.WithComponent("aggregate").WithError(err).WithFields(logger.Fields{
		"venue": venue,
	}).Warn(msg)
}
