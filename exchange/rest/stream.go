package rest

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"perpflow/config"
	"perpflow/internal/channel"
	"perpflow/internal/model"
	"perpflow/logger"
)

// Stream reads live order updates off the venue websocket and hands them
// to the order-event channel. It reconnects with a fixed delay until the
// context ends.
type Stream struct {
	url            string
	wallet         string
	reconnectDelay time.Duration
	channels       *channel.Channels
	log            *logger.Log
}

func NewStream(cfg *config.Config, channels *channel.Channels) *Stream {
	return &Stream{
		url:            cfg.Exchange.Stream.URL,
		wallet:         cfg.Exchange.WalletAddress,
		reconnectDelay: cfg.Exchange.Stream.ReconnectDelay,
		channels:       channels,
		log:            logger.GetLogger(),
	}
}

type subscribeMessage struct {
	Method       string            `json:"method"`
	Subscription map[string]string `json:"subscription"`
}

type orderUpdate struct {
	OrderID string `json:"oid"`
	Symbol  string `json:"symbol"`
	Status  string `json:"status"`
}

type orderUpdateMessage struct {
	Channel string        `json:"channel"`
	Updates []orderUpdate `json:"data"`
}

// Run blocks until the context is cancelled.
func (s *Stream) Run(ctx context.Context) {
	log := s.log.WithComponent("order_stream")
	for {
		if err := s.readLoop(ctx); err != nil {
			log.WithError(err).WithFields(logger.Fields{"url": s.url}).Warn("order stream disconnected")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.reconnectDelay):
		}
	}
}

func (s *Stream) readLoop(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial order stream: %w", err)
	}
	defer conn.Close()
	logger.IncrementStreamDial()

	if err := conn.WriteJSON(subscription(s.wallet)); err != nil {
		return fmt.Errorf("subscribe to order updates: %w", err)
	}

	s.log.WithComponent("order_stream").WithFields(logger.Fields{
		"url": s.url,
	}).Info("subscribed to order updates")

	// Unblock ReadJSON when the context ends.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var msg orderUpdateMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read order stream: %w", err)
		}
		logger.IncrementStreamRead()

		for _, u := range msg.Updates {
			s.channels.SendOrderEvent(ctx, model.OrderEvent{
				OrderID:  u.OrderID,
				Symbol:   u.Symbol,
				Status:   u.Status,
				Received: time.Now(),
			})
		}
	}
}

func subscription(wallet string) subscribeMessage {
	return subscribeMessage{
		Method: "subscribe",
		Subscription: map[string]string{
			"type": "orderUpdates",
			"user": wallet,
		},
	}
}
