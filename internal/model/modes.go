package model

// TradingMode selects the product class an account trades.
type TradingMode string

const (
	TradingModeSpot    TradingMode = "spot"
	TradingModeFutures TradingMode = "futures"
)

// MarginMode selects how collateral backs open positions.
type MarginMode string

const (
	MarginModeNone     MarginMode = ""
	MarginModeIsolated MarginMode = "isolated"
	MarginModeCross    MarginMode = "cross"
)

// PositionSide is the direction of an open position.
type PositionSide string

const (
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)
