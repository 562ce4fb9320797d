package hyperliquid

import (
	"context"
	"sync"
	"testing"
	"time"

	"perpflow/exchange"
	"perpflow/internal/model"
)

type marginCall struct {
	mode   model.MarginMode
	symbol string
	params exchange.MarginModeParams
}

// mockTransport implements exchange.Transport with pluggable responses.
// Call counters are mutex-guarded since the aggregator fans out
// concurrently.
type mockTransport struct {
	mu sync.Mutex

	markets []model.Market

	balances  func(params exchange.Params) (model.Balances, error)
	positions func(symbols []string, params exchange.Params) ([]model.Position, error)
	order     func(orderID, symbol string) (model.Order, error)
	fills     func(orderID string) ([]model.Fill, error)
	funding   func(symbol string, since time.Time) ([]model.FundingPayment, error)

	balanceCalls  int
	positionCalls int
	orderCalls    int
	fillCalls     int
	fundingCalls  int
	marginCalls   []marginCall
}

func (m *mockTransport) LoadMarkets(ctx context.Context) ([]model.Market, error) {
	return m.markets, nil
}

func (m *mockTransport) FetchBalance(ctx context.Context, params exchange.Params) (model.Balances, error) {
	m.mu.Lock()
	m.balanceCalls++
	m.mu.Unlock()
	if m.balances == nil {
		return model.Balances{}, nil
	}
	return m.balances(params)
}

func (m *mockTransport) FetchPositions(ctx context.Context, symbols []string, params exchange.Params) ([]model.Position, error) {
	m.mu.Lock()
	m.positionCalls++
	m.mu.Unlock()
	if m.positions == nil {
		return nil, nil
	}
	return m.positions(symbols, params)
}

func (m *mockTransport) FetchOrder(ctx context.Context, orderID, symbol string) (model.Order, error) {
	m.mu.Lock()
	m.orderCalls++
	m.mu.Unlock()
	if m.order == nil {
		return model.Order{ID: orderID, Symbol: symbol}, nil
	}
	return m.order(orderID, symbol)
}

func (m *mockTransport) FetchOrderFills(ctx context.Context, orderID string) ([]model.Fill, error) {
	m.mu.Lock()
	m.fillCalls++
	m.mu.Unlock()
	if m.fills == nil {
		return nil, nil
	}
	return m.fills(orderID)
}

func (m *mockTransport) SetMarginMode(ctx context.Context, mode model.MarginMode, symbol string, params exchange.MarginModeParams) error {
	m.mu.Lock()
	m.marginCalls = append(m.marginCalls, marginCall{mode: mode, symbol: symbol, params: params})
	m.mu.Unlock()
	return nil
}

func (m *mockTransport) FetchFundingHistory(ctx context.Context, symbol string, since time.Time) ([]model.FundingPayment, error) {
	m.mu.Lock()
	m.fundingCalls++
	m.mu.Unlock()
	if m.funding == nil {
		return nil, nil
	}
	return m.funding(symbol, since)
}

func perp(symbol, base, settle, dex string, maxLev float64) model.Market {
	return model.Market{
		Symbol:         symbol,
		Base:           base,
		Quote:          settle,
		Settle:         settle,
		Active:         true,
		Swap:           true,
		Linear:         true,
		Dex:            dex,
		MaxLeverage:    maxLev,
		PricePrecision: 4,
	}
}

func testMarkets() []model.Market {
	return []model.Market{
		perp("BTC/USDC:USDC", "BTC", "USDC", "", 50),
		perp("ETH/USDC:USDC", "ETH", "USDC", "", 50),
		perp("SOL/USDC:USDC", "SOL", "USDC", "", 20),
		perp("DOGE/USDC:USDC", "DOGE", "USDC", "", 20),
		perp("XYZ-AAPL/USDC:USDC", "XYZ-AAPL", "USDC", "xyz", 10),
		perp("XYZ-TSLA/USDC:USDC", "XYZ-TSLA", "USDC", "xyz", 10),
		perp("XYZ-GOOGL/USDC:USDC", "XYZ-GOOGL", "USDC", "xyz", 10),
		perp("XYZ-NVDA/USDC:USDC", "XYZ-NVDA", "USDC", "xyz", 10),
		perp("VNTL-SPACEX/USDH:USDH", "VNTL-SPACEX", "USDH", "vntl", 3),
		perp("VNTL-ANTHROPIC/USDH:USDH", "VNTL-ANTHROPIC", "USDH", "vntl", 3),
		perp("FLX-TOKEN/USDC:USDC", "FLX-TOKEN", "USDC", "flx", 3),
	}
}

func futuresOpts() Options {
	return Options{
		TradingMode:   model.TradingModeFutures,
		MarginMode:    model.MarginModeIsolated,
		StakeCurrency: "USDC",
	}
}

func newTestExchange(t *testing.T, tr *mockTransport, opts Options) *Exchange {
	t.Helper()
	if tr.markets == nil {
		tr.markets = testMarkets()
	}
	ex, err := New(context.Background(), tr, opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return ex
}
