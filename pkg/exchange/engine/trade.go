package engine

// Trade is an executed match. Immutable once created; the price is always the
// maker's quoted price.
type Trade struct {
	ID           string `json:"id"`
	Pair         string `json:"pair"`
	Price        int64  `json:"price"`  // ticks
	Amount       int64  `json:"amount"` // lots
	MakerOrderID string `json:"makerOrderId"`
	TakerOrderID string `json:"takerOrderId"`
	MakerOwner   string `json:"makerOwner"`
	TakerOwner   string `json:"takerOwner"`
	MakerFee     int64  `json:"makerFee"` // negative = rebate
	TakerFee     int64  `json:"takerFee"`
	Timestamp    int64  `json:"timestamp"` // unix milliseconds
}

// Notional returns the fee basis of the trade.
func (t Trade) Notional() int64 { return t.Price * t.Amount }
