package hyperliquid

import (
	"context"

	"github.com/shopspring/decimal"

	"perpflow/internal/model"
)

// FetchOrder returns the venue's view of an order. When the venue has not
// filled in an average execution price yet, the price is reconstructed
// from the order's fills as a volume-weighted mean, rounded to the
// market's price precision. An order with no fills keeps its average
// unset.
func (e *Exchange) FetchOrder(ctx context.Context, orderID, symbol string) (model.Order, error) {
	order, err := e.transport.FetchOrder(ctx, orderID, symbol)
	if err != nil {
		return model.Order{}, err
	}
	if order.Average != 0 {
		return order, nil
	}

	fills, err := e.transport.FetchOrderFills(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if avg, ok := fillAverage(fills); ok {
		order.Average = e.roundPrice(symbol, avg)
	}
	return order, nil
}

// fillAverage computes the volume-weighted mean price over fills. The
// second return is false when there is no filled volume to weight.
func fillAverage(fills []model.Fill) (float64, bool) {
	notional := decimal.Zero
	volume := decimal.Zero
	for _, f := range fills {
		price := decimal.NewFromFloat(f.Price)
		filled := decimal.NewFromFloat(f.Filled)
		notional = notional.Add(price.Mul(filled))
		volume = volume.Add(filled)
	}
	if volume.IsZero() {
		return 0, false
	}
	avg, _ := notional.Div(volume).Float64()
	return avg, true
}

func (e *Exchange) roundPrice(symbol string, price float64) float64 {
	m, ok := e.Market(symbol)
	if !ok {
		return price
	}
	rounded, _ := decimal.NewFromFloat(price).Round(m.PricePrecision).Float64()
	return rounded
}
