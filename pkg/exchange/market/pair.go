package market

import "fmt"

// PairStatus defines the trading status of a pair
type PairStatus int8

const (
	Active PairStatus = iota // trading enabled
	Paused                   // new orders rejected, cancels and queries still served
)

func (ps PairStatus) String() string {
	switch ps {
	case Active:
		return "Active"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Pair defines all parameters for one spot trading pair (e.g. BTC-USDT).
// All prices are integer ticks and all amounts integer lots.
type Pair struct {
	// Identity
	Symbol     string // "BTC-USDT"
	BaseAsset  string // "BTC"
	QuoteAsset string // "USDT"
	Status     PairStatus

	// Precision
	TickSize int64 // quote units per tick
	LotSize  int64 // base units per lot

	// MinNotional rejects dust orders: minimum price*amount in tick·lots.
	MinNotional int64

	// Order size limits in lots
	MinOrderSize int64
	MaxOrderSize int64

	// Fees in basis points of trade notional. MakerFeeBps may be negative
	// (rebate).
	MakerFeeBps int64
	TakerFeeBps int64
}

// Params is a helper struct for creating pairs; separates config from the
// runtime Pair struct.
type Params struct {
	TickSize     int64
	LotSize      int64
	MinNotional  int64
	MinOrderSize int64
	MaxOrderSize int64
	MakerFeeBps  int64
	TakerFeeBps  int64
}

// DefaultParams are sane spot defaults: 10 bps taker, 2 bps maker rebate,
// $10-equivalent minimum notional at tick scale.
var DefaultParams = Params{
	TickSize:     1,
	LotSize:      100,
	MinNotional:  10000,
	MinOrderSize: 1,
	MaxOrderSize: 1000000,
	MakerFeeBps:  -2,
	TakerFeeBps:  10,
}

// NewPair creates a pair with validation.
func NewPair(symbol, baseAsset, quoteAsset string, params Params) (*Pair, error) {
	p := &Pair{
		Symbol:       symbol,
		BaseAsset:    baseAsset,
		QuoteAsset:   quoteAsset,
		Status:       Active,
		TickSize:     params.TickSize,
		LotSize:      params.LotSize,
		MinNotional:  params.MinNotional,
		MinOrderSize: params.MinOrderSize,
		MaxOrderSize: params.MaxOrderSize,
		MakerFeeBps:  params.MakerFeeBps,
		TakerFeeBps:  params.TakerFeeBps,
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pair params: %w", err)
	}
	return p, nil
}

// NewPairWithDefaults creates a pair using DefaultParams.
func NewPairWithDefaults(symbol, baseAsset, quoteAsset string) (*Pair, error) {
	return NewPair(symbol, baseAsset, quoteAsset, DefaultParams)
}

// Validate checks pair parameter sanity
func (p *Pair) Validate() error {
	if p.Symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if p.BaseAsset == "" || p.QuoteAsset == "" {
		return fmt.Errorf("base and quote assets must be specified")
	}
	if p.TickSize <= 0 {
		return fmt.Errorf("tick size must be positive")
	}
	if p.LotSize <= 0 {
		return fmt.Errorf("lot size must be positive")
	}
	if p.MinNotional < 0 {
		return fmt.Errorf("min notional cannot be negative")
	}
	if p.MinOrderSize <= 0 {
		return fmt.Errorf("min order size must be positive")
	}
	if p.MaxOrderSize <= 0 {
		return fmt.Errorf("max order size must be positive")
	}
	if p.MinOrderSize > p.MaxOrderSize {
		return fmt.Errorf("min order size cannot exceed max order size")
	}
	if p.TakerFeeBps < 0 {
		return fmt.Errorf("taker fee cannot be negative")
	}
	return nil
}

// ValidateAmount checks if order size is within limits
func (p *Pair) ValidateAmount(amount int64) error {
	if amount < p.MinOrderSize {
		return fmt.Errorf("order size %d below minimum %d", amount, p.MinOrderSize)
	}
	if amount > p.MaxOrderSize {
		return fmt.Errorf("order size %d exceeds maximum %d", amount, p.MaxOrderSize)
	}
	return nil
}

// ValidateNotional checks if order value meets minimum
func (p *Pair) ValidateNotional(price, amount int64) error {
	notional := price * amount
	if notional < p.MinNotional {
		return fmt.Errorf("order notional %d below minimum %d", notional, p.MinNotional)
	}
	return nil
}
