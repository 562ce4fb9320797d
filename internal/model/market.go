package model

// Market describes one tradable instrument in the venue catalog. Symbols
// use the unified BASE/QUOTE:SETTLE form; instruments listed on a builder
// DEX carry the owning DEX name and prefix their base with it
// (for example XYZ-TSLA/USDC:USDC on DEX "xyz").
type Market struct {
	Symbol string
	Base   string
	Quote  string
	Settle string

	Active bool
	Swap   bool
	Linear bool

	// Dex is the owning builder DEX. Empty means the primary venue.
	Dex string

	// MaxLeverage is the venue's leverage ceiling for this instrument.
	MaxLeverage float64

	// PricePrecision is the number of decimal places prices quote at.
	PricePrecision int32
}

// IsPrimary reports whether the market lists on the primary venue rather
// than a builder DEX.
func (m Market) IsPrimary() bool {
	return m.Dex == ""
}
