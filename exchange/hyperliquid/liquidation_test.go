package hyperliquid

import (
	"math"
	"testing"

	"perpflow/internal/model"
)

// Liquidation prices as the venue itself reported them for real
// positions, across large and small prices, several leverages and both
// sides.
var liquidationFixtures = []struct {
	symbol     string
	entryPrice float64
	isShort    bool
	contracts  float64
	collateral float64
	want       float64
}{
	{"ETH/USDC:USDC", 2458.5, false, 0.015, 36.864593, 0.86915825},
	{"BTC/USDC:USDC", 63287.0, false, 0.00039, 24.673292, 22.37166537},
	{"SOL/USDC:USDC", 146.82, false, 0.16, 23.482979, 0.05269872},
	{"SOL/USDC:USDC", 145.83, false, 0.33, 24.045107, 74.83696193},
	{"ETH/USDC:USDC", 2459.5, false, 0.0199, 24.454895, 1243.0411908},
	{"BTC/USDC:USDC", 62739.0, false, 0.00077, 24.137992, 31708.03843631},
	{"DOGE/USDC:USDC", 0.11586, false, 437.0, 25.29769, 0.05945697},
	{"ETH/USDC:USDC", 2642.8, true, 0.019, 25.091876, 3924.18322043},
	{"SOL/USDC:USDC", 155.89, true, 0.32, 24.924941, 228.07847866},
	{"DOGE/USDC:USDC", 0.14333, true, 351.0, 25.136807, 0.20970228},
	{"BTC/USDC:USDC", 68595.0, true, 0.00069, 23.64871, 101849.99354283},
	{"BTC/USDC:USDC", 65536.0, true, 0.00099, 21.604172, 86493.46174617},
	{"SOL/USDC:USDC", 173.06, false, 0.6, 20.735658, 142.05186667},
	{"ETH/USDC:USDC", 2545.5, false, 0.0329, 20.909894, 1929.23322895},
	{"BTC/USDC:USDC", 67400.0, true, 0.00031, 20.887308, 133443.97317151},
	{"ETH/USDC:USDC", 2552.0, true, 0.0327, 20.833393, 3157.53150453},
	{"BTC/USDC:USDC", 66930.0, false, 0.0015, 20.043862, 54108.51043771},
	{"BTC/USDC:USDC", 67033.0, false, 0.00121, 20.251817, 50804.00091827},
	{"ETH/USDC:USDC", 2521.9, false, 0.0237, 19.902091, 1699.14071943},
	{"BTC/USDC:USDC", 68139.0, true, 0.00145, 19.72573, 80933.61590987},
	{"SOL/USDC:USDC", 178.29, true, 0.11, 19.605036, 347.82205322},
	{"SOL/USDC:USDC", 176.23, false, 0.33, 19.364946, 120.56240404},
	{"SOL/USDC:USDC", 173.08, true, 0.33, 19.01881, 225.08561715},
	{"BTC/USDC:USDC", 68240.0, true, 0.00105, 17.887922, 84431.79820839},
	{"ETH/USDC:USDC", 2518.4, true, 0.007, 17.62263, 4986.05799151},
	{"ETH/USDC:USDC", 2533.2, false, 0.0347, 17.555195, 2047.7642302},
	{"DOGE/USDC:USDC", 0.13284, false, 360.0, 15.943218, 0.09082388},
	{"SOL/USDC:USDC", 163.11, true, 0.48, 15.650731, 190.94213618},
	{"BTC/USDC:USDC", 67141.0, false, 0.00067, 14.979079, 45236.52992613},
	{"XYZ-AAPL/USDC:USDC", 250.0, false, 0.5, 25.0, 210.5263157894737},
	{"XYZ-GOOGL/USDC:USDC", 190.0, true, 0.5, 9.5, 199.04761904761904},
	{"XYZ-TSLA/USDC:USDC", 350.0, false, 1.0, 50.0, 315.7894736842105},
}

func approxEqual(t *testing.T, got, want float64) {
	t.Helper()
	if want == 0 {
		if math.Abs(got) > 1e-8 {
			t.Fatalf("got %v, want %v", got, want)
		}
		return
	}
	if math.Abs(got-want)/math.Abs(want) > 0.0001 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLiquidationPriceIsolated(t *testing.T) {
	ex := newTestExchange(t, &mockTransport{}, futuresOpts())

	for _, fx := range liquidationFixtures {
		got, err := ex.LiquidationPrice(
			fx.symbol, fx.entryPrice, fx.isShort, fx.contracts, fx.collateral,
			0.0, nil)
		if err != nil {
			t.Fatalf("%s: %v", fx.symbol, err)
		}
		approxEqual(t, got, fx.want)
	}
}

func TestLiquidationPriceCross(t *testing.T) {
	opts := futuresOpts()
	opts.MarginMode = model.MarginModeCross
	ex := newTestExchange(t, &mockTransport{}, opts)

	for _, fx := range liquidationFixtures {
		// With the wallet holding exactly the position's collateral the
		// cross price matches the isolated one.
		got, err := ex.LiquidationPrice(
			fx.symbol, fx.entryPrice, fx.isShort, fx.contracts, fx.collateral,
			fx.collateral, nil)
		if err != nil {
			t.Fatalf("%s: %v", fx.symbol, err)
		}
		approxEqual(t, got, fx.want)

		// A larger wallet moves the price strictly away from entry and
		// never across it.
		wide, err := ex.LiquidationPrice(
			fx.symbol, fx.entryPrice, fx.isShort, fx.contracts, fx.collateral,
			fx.collateral*2, nil)
		if err != nil {
			t.Fatalf("%s: %v", fx.symbol, err)
		}
		if fx.isShort {
			if wide <= fx.want || wide <= fx.entryPrice {
				t.Fatalf("%s: short cross price %v should exceed %v and entry %v",
					fx.symbol, wide, fx.want, fx.entryPrice)
			}
		} else {
			if wide >= fx.want || wide >= fx.entryPrice {
				t.Fatalf("%s: long cross price %v should undercut %v and entry %v",
					fx.symbol, wide, fx.want, fx.entryPrice)
			}
		}
	}
}

func TestLiquidationPriceCrossNetsOtherPositions(t *testing.T) {
	opts := futuresOpts()
	opts.MarginMode = model.MarginModeCross
	ex := newTestExchange(t, &mockTransport{}, opts)

	base, err := ex.LiquidationPrice("ETH/USDC:USDC", 2458.5, false, 0.6, 0, 100.0, nil)
	if err != nil {
		t.Fatal(err)
	}

	// A losing sibling position shrinks the shared buffer: the long's
	// liquidation price moves closer to entry.
	others := []model.Position{{
		Symbol:        "BTC/USDC:USDC",
		EntryPrice:    63287.0,
		Contracts:     0.001,
		UnrealizedPnl: -20.0,
	}}
	netted, err := ex.LiquidationPrice("ETH/USDC:USDC", 2458.5, false, 0.6, 0, 100.0, others)
	if err != nil {
		t.Fatal(err)
	}
	if netted <= base {
		t.Fatalf("netted liquidation price %v should exceed %v", netted, base)
	}

	// The same position under its own symbol must not net against itself.
	self := []model.Position{{
		Symbol:        "ETH/USDC:USDC",
		EntryPrice:    2458.5,
		Contracts:     0.6,
		UnrealizedPnl: -5.0,
	}}
	same, err := ex.LiquidationPrice("ETH/USDC:USDC", 2458.5, false, 0.6, 0, 100.0, self)
	if err != nil {
		t.Fatal(err)
	}
	if same != base {
		t.Fatalf("own symbol should be skipped: got %v, want %v", same, base)
	}
}

func TestLiquidationPriceLongFloorsAtZero(t *testing.T) {
	ex := newTestExchange(t, &mockTransport{}, futuresOpts())

	// Collateral far above notional would push the raw price negative.
	got, err := ex.LiquidationPrice("ETH/USDC:USDC", 2458.5, false, 0.015, 500.0, 0.0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("long liquidation price should floor at 0, got %v", got)
	}
}

func TestLiquidationPriceErrors(t *testing.T) {
	ex := newTestExchange(t, &mockTransport{}, futuresOpts())

	if _, err := ex.LiquidationPrice("NOPE/USDC:USDC", 100, false, 1, 10, 0, nil); err == nil {
		t.Fatal("expected error for unknown market")
	}
	if _, err := ex.LiquidationPrice("ETH/USDC:USDC", 100, false, 0, 10, 0, nil); err == nil {
		t.Fatal("expected error for zero position size")
	}
}
