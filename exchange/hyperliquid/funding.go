package hyperliquid

import (
	"context"
	"time"

	"perpflow/internal/model"
)

// FundingFees sums the funding payments applied to a symbol since the
// position opened. Outside futures trading there is no funding. Builder
// DEX symbols take the exact same path as primary ones; venue membership
// never gates the computation.
func (e *Exchange) FundingFees(ctx context.Context, symbol string, since time.Time) (float64, error) {
	if e.opts.TradingMode != model.TradingModeFutures {
		return 0, nil
	}

	payments, err := e.transport.FetchFundingHistory(ctx, symbol, since)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, p := range payments {
		total += p.Amount
	}
	return total, nil
}
