package hyperliquid

import (
	"testing"

	"perpflow/internal/model"
)

func TestMarketIsTradable(t *testing.T) {
	markets := make(map[string]model.Market)
	for _, m := range testMarkets() {
		markets[m.Symbol] = m
	}

	tests := []struct {
		name          string
		dexes         []string
		stakeCurrency string
		want          map[string]bool
	}{
		{
			name:          "no dexes configured",
			dexes:         nil,
			stakeCurrency: "USDC",
			want: map[string]bool{
				"BTC/USDC:USDC":          true,
				"ETH/USDC:USDC":          true,
				"XYZ-AAPL/USDC:USDC":     false,
				"XYZ-TSLA/USDC:USDC":     false,
				"VNTL-SPACEX/USDH:USDH":  false,
				"FLX-TOKEN/USDC:USDC":    false,
			},
		},
		{
			name:          "xyz configured",
			dexes:         []string{"xyz"},
			stakeCurrency: "USDC",
			want: map[string]bool{
				"BTC/USDC:USDC":          true,
				"ETH/USDC:USDC":          true,
				"XYZ-AAPL/USDC:USDC":     true,
				"XYZ-TSLA/USDC:USDC":     true,
				"VNTL-SPACEX/USDH:USDH":  false,
				"FLX-TOKEN/USDC:USDC":    false,
			},
		},
		{
			name:          "xyz and flx configured",
			dexes:         []string{"xyz", "flx"},
			stakeCurrency: "USDC",
			want: map[string]bool{
				"BTC/USDC:USDC":          true,
				"ETH/USDC:USDC":          true,
				"XYZ-AAPL/USDC:USDC":     true,
				"XYZ-TSLA/USDC:USDC":     true,
				"VNTL-SPACEX/USDH:USDH":  false,
				"FLX-TOKEN/USDC:USDC":    true,
			},
		},
		{
			// USDH stake currency enables VNTL markets and disables the
			// USDC-settled dexes even when configured.
			name:          "usdh stake currency",
			dexes:         []string{"vntl"},
			stakeCurrency: "USDH",
			want: map[string]bool{
				"BTC/USDC:USDC":          true,
				"ETH/USDC:USDC":          true,
				"XYZ-AAPL/USDC:USDC":     false,
				"XYZ-TSLA/USDC:USDC":     false,
				"VNTL-SPACEX/USDH:USDH":  true,
				"FLX-TOKEN/USDC:USDC":    false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := futuresOpts()
			opts.Dexes = tt.dexes
			opts.StakeCurrency = tt.stakeCurrency
			ex := newTestExchange(t, &mockTransport{}, opts)

			for symbol, want := range tt.want {
				if got := ex.MarketIsTradable(markets[symbol]); got != want {
					t.Errorf("%s: got %v, want %v", symbol, got, want)
				}
			}
		})
	}
}

func TestMarketIsTradableInactiveMarket(t *testing.T) {
	ex := newTestExchange(t, &mockTransport{}, futuresOpts())

	m := perp("BTC/USDC:USDC", "BTC", "USDC", "", 50)
	m.Active = false
	if ex.MarketIsTradable(m) {
		t.Fatal("inactive market should not be tradable")
	}
}
