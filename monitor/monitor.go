package monitor

import (
	"context"
	"time"

	"perpflow/config"
	"perpflow/exchange/hyperliquid"
	"perpflow/internal/channel"
	"perpflow/internal/model"
	"perpflow/logger"
)

// Monitor periodically aggregates account state across all venues and
// resolves orders the venue stream reports as done.
type Monitor struct {
	exchange *hyperliquid.Exchange
	channels *channel.Channels
	interval time.Duration
	symbols  []string
	log      *logger.Log
}

func New(ex *hyperliquid.Exchange, channels *channel.Channels, cfg config.MonitorConfig) *Monitor {
	return &Monitor{
		exchange: ex,
		channels: channels,
		interval: cfg.Interval,
		symbols:  cfg.Symbols,
		log:      logger.GetLogger(),
	}
}

// Run blocks until the context ends, snapshotting the account on every
// tick and resolving order events as they arrive.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.snapshot(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.snapshot(ctx)
		case ev, ok := <-m.channels.OrderEvents:
			if !ok {
				return
			}
			m.resolve(ctx, ev)
		}
	}
}

func (m *Monitor) snapshot(ctx context.Context) {
	log := m.log.WithComponent("monitor")

	balances, err := m.exchange.Balances(ctx)
	if err != nil {
		log.WithError(err).Warn("balance snapshot failed")
		return
	}

	positions, err := m.exchange.Positions(ctx, m.symbols...)
	if err != nil {
		log.WithError(err).Warn("position snapshot failed")
		return
	}

	var total float64
	for _, b := range balances {
		total += b.Total
	}

	log.WithFields(logger.Fields{
		"currencies":    len(balances),
		"total_balance": total,
		"positions":     len(positions),
	}).Info("account snapshot")
	log.LogMetric("monitor", "OpenPositions", len(positions), "gauge", nil)
}

// resolve fetches the final state of an order once its stream event says
// it stopped changing, so the fill average is pinned down.
func (m *Monitor) resolve(ctx context.Context, ev model.OrderEvent) {
	if ev.Status != "filled" && ev.Status != "closed" {
		return
	}

	log := m.log.WithComponent("monitor")
	order, err := m.exchange.FetchOrder(ctx, ev.OrderID, ev.Symbol)
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{
			"order_id": ev.OrderID,
			"symbol":   ev.Symbol,
		}).Warn("order resolution failed")
		return
	}
	logger.IncrementOrderResolved()

	log.WithFields(logger.Fields{
		"order_id": order.ID,
		"symbol":   order.Symbol,
		"status":   order.Status,
		"filled":   order.Filled,
		"average":  order.Average,
	}).Info("order resolved")
}
