package channel

import (
	"context"
	"sync"
	"time"

	"perpflow/internal/model"
	"perpflow/logger"
)

type Stats struct {
	Sent    int64
	Dropped int64
}

// Channels carries live order events from the venue stream to the
// monitor. Send never blocks: a full buffer drops the event and counts
// the drop instead of stalling the stream reader.
type Channels struct {
	OrderEvents chan model.OrderEvent

	stats      Stats
	statsMutex sync.RWMutex
	log        *logger.Log
}

func NewChannels(orderEventBuffer int) *Channels {
	log := logger.GetLogger()
	c := &Channels{
		OrderEvents: make(chan model.OrderEvent, orderEventBuffer),
		log:         log,
	}

	log.WithComponent("channels").WithFields(logger.Fields{
		"order_event_buffer": orderEventBuffer,
	}).Info("order event channel initialized")

	return c
}

func (c *Channels) Close() {
	close(c.OrderEvents)
	c.log.WithComponent("channels").Info("order event channel closed")
}

func (c *Channels) SendOrderEvent(ctx context.Context, ev model.OrderEvent) bool {
	select {
	case c.OrderEvents <- ev:
		c.statsMutex.Lock()
		c.stats.Sent++
		c.statsMutex.Unlock()
		logger.RecordChannelMessage("order_events")
		return true
	case <-ctx.Done():
		return false
	default:
		c.statsMutex.Lock()
		c.stats.Dropped++
		c.statsMutex.Unlock()
		logger.RecordChannelDrop("order_events")
		return false
	}
}

func (c *Channels) GetStats() Stats {
	c.statsMutex.RLock()
	defer c.statsMutex.RUnlock()
	return c.stats
}

// StartMetricsReporting periodically logs queue depth and send/drop
// counters until the context ends.
func (c *Channels) StartMetricsReporting(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := c.log.WithComponent("channels")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := c.GetStats()
			log.WithFields(logger.Fields{
				"depth":   len(c.OrderEvents),
				"sent":    stats.Sent,
				"dropped": stats.Dropped,
			}).Debug("order event channel stats")
		}
	}
}
