// Package fees centralizes trade fee computation. Rates live here so that
// tiered schedules can be added without touching the matching path.
package fees

// Role of an order in a trade.
type Role int8

const (
	Maker Role = iota // resting order, was on the book
	Taker             // incoming order that crossed
)

func (r Role) String() string {
	if r == Maker {
		return "maker"
	}
	return "taker"
}

// Calculator computes fees from trade notional. It is pure: no state beyond
// the configured rates, no side effects.
type Calculator struct {
	makerBps int64 // may be negative (rebate)
	takerBps int64
}

func NewCalculator(makerBps, takerBps int64) *Calculator {
	return &Calculator{makerBps: makerBps, takerBps: takerBps}
}

// Fee returns notional * rate[role] / 10000, truncated toward zero.
// Notional is price*amount in tick·lots; a negative result is a rebate owed
// to the participant.
func (c *Calculator) Fee(notional int64, role Role) int64 {
	if role == Maker {
		return notional * c.makerBps / 10000
	}
	return notional * c.takerBps / 10000
}

// Rate returns the configured rate for a role in basis points.
func (c *Calculator) Rate(role Role) int64 {
	if role == Maker {
		return c.makerBps
	}
	return c.takerBps
}
