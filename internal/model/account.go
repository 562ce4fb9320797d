package model

// Balance holds the amounts of one settlement currency on one venue,
// or the sum across venues after aggregation.
type Balance struct {
	Free  float64
	Used  float64
	Total float64
}

// Balances maps currency code to balance.
type Balances map[string]Balance

// Position is an open perpetual position as reported by a venue.
type Position struct {
	Symbol     string
	Side       PositionSide
	Contracts  float64
	EntryPrice float64
	MarkPrice  float64

	// Collateral is the margin assigned to the position. For isolated
	// margin this is the whole backing; for cross it is informational.
	Collateral float64

	Leverage         float64
	LiquidationPrice float64
	UnrealizedPnl    float64

	// Dex is the venue the position lives on. Empty means primary.
	Dex string
}

// FundingPayment is one funding transfer applied to a position. Amount is
// signed from the account's point of view: positive means received.
type FundingPayment struct {
	Symbol    string
	Amount    float64
	Timestamp int64
}
