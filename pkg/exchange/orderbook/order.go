package orderbook

// Side of the book an order sits on.
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Opposite returns the side an order matches against.
func (s Side) Opposite() Side { return -s }

// Type selects the matching semantics of an order.
type Type int8

const (
	Market Type = iota // cross or die, never rests
	Limit              // cross what it can, rest the remainder
	Stop               // inactive until last trade crosses the stop price
	TakeProfit         // inactive until last trade crosses the other way
)

func (t Type) String() string {
	switch t {
	case Market:
		return "market"
	case Limit:
		return "limit"
	case Stop:
		return "stop"
	case TakeProfit:
		return "take_profit"
	default:
		return "unknown"
	}
}

// NeedsPrice reports whether the order type requires a limit price.
func (t Type) NeedsPrice() bool { return t != Market }

// NeedsStopPrice reports whether the order type requires a trigger price.
func (t Type) NeedsStopPrice() bool { return t == Stop || t == TakeProfit }

// Status is the lifecycle state of an order.
//
// Pending -> PartiallyFilled -> Filled | Cancelled
// Pending -> Filled | Cancelled | Rejected
// Filled, Cancelled and Rejected are terminal.
type Status int8

const (
	Pending Status = iota
	PartiallyFilled
	Filled
	Cancelled
	Rejected
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case PartiallyFilled:
		return "partially_filled"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == Filled || s == Cancelled || s == Rejected
}

// Order is a buy/sell instruction for a trading pair. Prices are integer
// ticks and amounts integer lots; the engine never touches floats.
//
// An order is mutated only by the matching engine (fill progress) or by an
// owner cancel, always under the owning pair's lock. Once Status is terminal
// the order is immutable.
type Order struct {
	ID        string
	Owner     string
	Pair      string
	Side      Side
	Type      Type
	Price     int64 // limit price in ticks, 0 for market orders
	StopPrice int64 // trigger price in ticks, stop/take-profit only
	Amount    int64 // base amount in lots
	Filled    int64 // cumulative filled lots, monotonically non-decreasing
	Status    Status
	CreatedAt int64 // unix milliseconds
	ExpiresAt int64 // unix milliseconds, 0 = good till cancelled
}

// Remaining returns the unfilled base amount.
func (o *Order) Remaining() int64 { return o.Amount - o.Filled }

// Expired reports whether the order lapsed before now (unix ms).
func (o *Order) Expired(now int64) bool {
	return o.ExpiresAt > 0 && o.ExpiresAt <= now
}

// Fill records qty lots traded against the order and advances its status.
// qty must not exceed Remaining.
func (o *Order) Fill(qty int64) {
	o.Filled += qty
	if o.Remaining() == 0 {
		o.Status = Filled
	} else {
		o.Status = PartiallyFilled
	}
}
