package exchange

import (
	"context"
	"time"

	"perpflow/internal/model"
)

// Params scopes an account call to one venue. An empty Dex targets the
// primary venue; a non-empty Dex targets that builder DEX through the
// shared connection.
type Params struct {
	Dex string
}

// MarginModeParams carries the extra arguments of a SetMarginMode call.
type MarginModeParams struct {
	Leverage int
	Dex      string
}

// Transport is the venue wire protocol: one authenticated connection that
// can address the primary venue and every builder DEX the account touches.
type Transport interface {
	// LoadMarkets returns the full instrument catalog across the primary
	// venue and all builder DEXes.
	LoadMarkets(ctx context.Context) ([]model.Market, error)

	// FetchBalance returns per-currency balances on the venue params select.
	FetchBalance(ctx context.Context, params Params) (model.Balances, error)

	// FetchPositions returns open positions on the venue params select,
	// optionally filtered to the given symbols.
	FetchPositions(ctx context.Context, symbols []string, params Params) ([]model.Position, error)

	// FetchOrder returns the venue's current view of one order.
	FetchOrder(ctx context.Context, orderID, symbol string) (model.Order, error)

	// FetchOrderFills returns the fills the venue recorded for one order.
	FetchOrderFills(ctx context.Context, orderID string) ([]model.Fill, error)

	// SetMarginMode applies margin mode and leverage for a symbol.
	SetMarginMode(ctx context.Context, mode model.MarginMode, symbol string, params MarginModeParams) error

	// FetchFundingHistory returns funding payments for a symbol since the
	// given time.
	FetchFundingHistory(ctx context.Context, symbol string, since time.Time) ([]model.FundingPayment, error)
}
