package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"perpflow/config"
	"perpflow/exchange"
	"perpflow/internal/model"
	"perpflow/logger"
)

// Transport implements exchange.Transport against the venue's HTTP API.
// Account reads go through the info endpoint, mutations through the
// exchange endpoint; builder DEXes are addressed with a dex field on the
// request body.
type Transport struct {
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Log
	baseURL string
	wallet  string
}

func NewTransport(cfg *config.Config) *Transport {
	rc := cfg.Exchange.REST
	return &Transport{
		client: &http.Client{
			Timeout: rc.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:    rc.ConnectionPool.MaxIdleConns,
				MaxConnsPerHost: rc.ConnectionPool.MaxConnsPerHost,
				IdleConnTimeout: rc.ConnectionPool.IdleConnTimeout,
			},
		},
		limiter: rate.NewLimiter(
			rate.Limit(rc.RateLimit.RequestsPerSecond),
			rc.RateLimit.BurstSize,
		),
		log:     logger.GetLogger(),
		baseURL: strings.TrimRight(rc.URL, "/"),
		wallet:  cfg.Exchange.WalletAddress,
	}
}

type infoRequest struct {
	Type      string `json:"type"`
	User      string `json:"user,omitempty"`
	Dex       string `json:"dex,omitempty"`
	OrderID   string `json:"oid,omitempty"`
	Coin      string `json:"coin,omitempty"`
	StartTime int64  `json:"startTime,omitempty"`
}

type wireMarket struct {
	Symbol      string  `json:"symbol"`
	Base        string  `json:"base"`
	Quote       string  `json:"quote"`
	Settle      string  `json:"settle"`
	Active      bool    `json:"active"`
	Swap        bool    `json:"swap"`
	Linear      bool    `json:"linear"`
	Dex         string  `json:"dex"`
	MaxLeverage float64 `json:"maxLeverage"`
	PxDecimals  int32   `json:"pxDecimals"`
}

type wireBalance struct {
	Free  float64 `json:"free"`
	Used  float64 `json:"used"`
	Total float64 `json:"total"`
}

type wirePosition struct {
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	Contracts     float64 `json:"contracts"`
	EntryPx       float64 `json:"entryPx"`
	MarkPx        float64 `json:"markPx"`
	MarginUsed    float64 `json:"marginUsed"`
	Leverage      float64 `json:"leverage"`
	LiquidationPx float64 `json:"liquidationPx"`
	UnrealizedPnl float64 `json:"unrealizedPnl"`
	Dex           string  `json:"dex"`
}

type wireOrder struct {
	OrderID   string  `json:"oid"`
	Symbol    string  `json:"symbol"`
	Status    string  `json:"status"`
	Px        float64 `json:"px"`
	Sz        float64 `json:"sz"`
	Filled    float64 `json:"filled"`
	Remaining float64 `json:"remaining"`
	AvgPx     float64 `json:"avgPx"`
	Timestamp int64   `json:"timestamp"`
}

type wireFill struct {
	OrderID   string  `json:"oid"`
	Symbol    string  `json:"symbol"`
	Px        float64 `json:"px"`
	Sz        float64 `json:"sz"`
	Timestamp int64   `json:"time"`
}

type wireFunding struct {
	Symbol    string  `json:"symbol"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"time"`
}

type updateMarginAction struct {
	Action   string `json:"action"`
	Coin     string `json:"coin"`
	Mode     string `json:"mode"`
	Leverage int    `json:"leverage"`
	Dex      string `json:"dex,omitempty"`
}

type actionAck struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (t *Transport) post(ctx context.Context, path string, body, out interface{}) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("venue request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("venue returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (t *Transport) LoadMarkets(ctx context.Context) ([]model.Market, error) {
	var wires []wireMarket
	if err := t.post(ctx, "/info", infoRequest{Type: "meta"}, &wires); err != nil {
		return nil, err
	}

	markets := make([]model.Market, 0, len(wires))
	for _, w := range wires {
		markets = append(markets, model.Market{
			Symbol:         w.Symbol,
			Base:           w.Base,
			Quote:          w.Quote,
			Settle:         w.Settle,
			Active:         w.Active,
			Swap:           w.Swap,
			Linear:         w.Linear,
			Dex:            w.Dex,
			MaxLeverage:    w.MaxLeverage,
			PricePrecision: w.PxDecimals,
		})
	}
	return markets, nil
}

func (t *Transport) FetchBalance(ctx context.Context, params exchange.Params) (model.Balances, error) {
	var wires map[string]wireBalance
	req := infoRequest{Type: "balances", User: t.wallet, Dex: params.Dex}
	if err := t.post(ctx, "/info", req, &wires); err != nil {
		return nil, err
	}

	balances := make(model.Balances, len(wires))
	for code, w := range wires {
		balances[code] = model.Balance{Free: w.Free, Used: w.Used, Total: w.Total}
	}
	return balances, nil
}

func (t *Transport) FetchPositions(ctx context.Context, symbols []string, params exchange.Params) ([]model.Position, error) {
	var wires []wirePosition
	req := infoRequest{Type: "positions", User: t.wallet, Dex: params.Dex}
	if err := t.post(ctx, "/info", req, &wires); err != nil {
		return nil, err
	}

	var filter map[string]struct{}
	if len(symbols) > 0 {
		filter = make(map[string]struct{}, len(symbols))
		for _, s := range symbols {
			filter[s] = struct{}{}
		}
	}

	positions := make([]model.Position, 0, len(wires))
	for _, w := range wires {
		if filter != nil {
			if _, ok := filter[w.Symbol]; !ok {
				continue
			}
		}
		positions = append(positions, model.Position{
			Symbol:           w.Symbol,
			Side:             model.PositionSide(w.Side),
			Contracts:        w.Contracts,
			EntryPrice:       w.EntryPx,
			MarkPrice:        w.MarkPx,
			Collateral:       w.MarginUsed,
			Leverage:         w.Leverage,
			LiquidationPrice: w.LiquidationPx,
			UnrealizedPnl:    w.UnrealizedPnl,
			Dex:              w.Dex,
		})
	}
	return positions, nil
}

func (t *Transport) FetchOrder(ctx context.Context, orderID, symbol string) (model.Order, error) {
	var w wireOrder
	req := infoRequest{Type: "orderStatus", User: t.wallet, OrderID: orderID, Coin: symbol}
	if err := t.post(ctx, "/info", req, &w); err != nil {
		return model.Order{}, err
	}
	return model.Order{
		ID:        w.OrderID,
		Symbol:    w.Symbol,
		Status:    w.Status,
		Price:     w.Px,
		Amount:    w.Sz,
		Filled:    w.Filled,
		Remaining: w.Remaining,
		Average:   w.AvgPx,
		Timestamp: w.Timestamp,
	}, nil
}

func (t *Transport) FetchOrderFills(ctx context.Context, orderID string) ([]model.Fill, error) {
	var wires []wireFill
	req := infoRequest{Type: "orderFills", User: t.wallet, OrderID: orderID}
	if err := t.post(ctx, "/info", req, &wires); err != nil {
		return nil, err
	}

	fills := make([]model.Fill, 0, len(wires))
	for _, w := range wires {
		fills = append(fills, model.Fill{
			OrderID:   w.OrderID,
			Symbol:    w.Symbol,
			Price:     w.Px,
			Filled:    w.Sz,
			Timestamp: w.Timestamp,
		})
	}
	return fills, nil
}

func (t *Transport) SetMarginMode(ctx context.Context, mode model.MarginMode, symbol string, params exchange.MarginModeParams) error {
	action := updateMarginAction{
		Action:   "updateMargin",
		Coin:     symbol,
		Mode:     string(mode),
		Leverage: params.Leverage,
		Dex:      params.Dex,
	}
	var ack actionAck
	if err := t.post(ctx, "/exchange", action, &ack); err != nil {
		return err
	}
	if ack.Status != "ok" {
		return fmt.Errorf("set margin mode rejected: %s", ack.Error)
	}
	return nil
}

func (t *Transport) FetchFundingHistory(ctx context.Context, symbol string, since time.Time) ([]model.FundingPayment, error) {
	var wires []wireFunding
	req := infoRequest{
		Type:      "userFunding",
		User:      t.wallet,
		Coin:      symbol,
		StartTime: since.UnixMilli(),
	}
	if err := t.post(ctx, "/info", req, &wires); err != nil {
		return nil, err
	}

	payments := make([]model.FundingPayment, 0, len(wires))
	for _, w := range wires {
		payments = append(payments, model.FundingPayment{
			Symbol:    w.Symbol,
			Amount:    w.Amount,
			Timestamp: w.Timestamp,
		})
	}
	return payments, nil
}
