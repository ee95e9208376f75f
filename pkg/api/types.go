package api

import (
	"fmt"

	"github.com/meridian-dex/meridian/pkg/exchange/orderbook"
)

// API request/response types for REST endpoints

// PairInfo represents a trading pair's static configuration
type PairInfo struct {
	Symbol       string `json:"symbol"`     // e.g. "BTC-USDT"
	BaseAsset    string `json:"baseAsset"`  // e.g. "BTC"
	QuoteAsset   string `json:"quoteAsset"` // e.g. "USDT"
	Status       string `json:"status"`     // "Active", "Paused"
	TickSize     int64  `json:"tickSize"`
	LotSize      int64  `json:"lotSize"`
	MinNotional  int64  `json:"minNotional"`
	MinOrderSize int64  `json:"minOrderSize"`
	MaxOrderSize int64  `json:"maxOrderSize"`
	MakerFeeBps  int64  `json:"makerFeeBps"` // negative = rebate
	TakerFeeBps  int64  `json:"takerFeeBps"`
}

// OrderInfo represents an order (open or historical)
type OrderInfo struct {
	ID        string `json:"id"`
	Pair      string `json:"pair"`
	Owner     string `json:"owner"`
	Side      string `json:"side"` // "buy" or "sell"
	Type      string `json:"type"` // "market", "limit", "stop", "take_profit"
	Price     int64  `json:"price"`
	StopPrice int64  `json:"stopPrice,omitempty"`
	Amount    int64  `json:"amount"`
	Filled    int64  `json:"filled"`
	Remaining int64  `json:"remaining"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

func orderInfo(o orderbook.Order) OrderInfo {
	return OrderInfo{
		ID:        o.ID,
		Pair:      o.Pair,
		Owner:     o.Owner,
		Side:      o.Side.String(),
		Type:      o.Type.String(),
		Price:     o.Price,
		StopPrice: o.StopPrice,
		Amount:    o.Amount,
		Filled:    o.Filled,
		Remaining: o.Remaining(),
		Status:    o.Status.String(),
		CreatedAt: o.CreatedAt,
		ExpiresAt: o.ExpiresAt,
	}
}

// SubmitOrderRequest is the payload for POST /api/v1/orders
type SubmitOrderRequest struct {
	Pair      string `json:"pair"`
	Owner     string `json:"owner"`
	Side      string `json:"side"`      // "buy" or "sell"
	Type      string `json:"type"`      // "market", "limit", "stop", "take_profit"
	Amount    int64  `json:"amount"`    // lots
	Price     int64  `json:"price"`     // ticks, required unless market
	StopPrice int64  `json:"stopPrice"` // ticks, stop/take-profit only
	ExpiresAt int64  `json:"expiresAt"` // unix ms, 0 = GTC
}

func parseSide(s string) (orderbook.Side, error) {
	switch s {
	case "buy":
		return orderbook.Buy, nil
	case "sell":
		return orderbook.Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

func parseType(s string) (orderbook.Type, error) {
	switch s {
	case "market":
		return orderbook.Market, nil
	case "limit":
		return orderbook.Limit, nil
	case "stop":
		return orderbook.Stop, nil
	case "take_profit":
		return orderbook.TakeProfit, nil
	default:
		return 0, fmt.Errorf("unknown order type %q", s)
	}
}

// SubmitOrderResponse is the response from order submission
type SubmitOrderResponse struct {
	Status string    `json:"status"` // "accepted", "rejected"
	Order  OrderInfo `json:"order"`
	Reason string    `json:"reason,omitempty"`
}

// CancelOrderRequest is the payload for POST /api/v1/orders/cancel
type CancelOrderRequest struct {
	Owner   string `json:"owner"`
	OrderID string `json:"orderId"`
}

// CancelOrderResponse reports whether the cancel took effect
type CancelOrderResponse struct {
	Cancelled bool `json:"cancelled"`
}

// ErrorResponse is returned for all errors
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
