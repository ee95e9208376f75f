// Package engine implements the continuous double auction for one trading
// pair: price-time priority, maker-price execution, market/limit semantics
// and stop/take-profit triggering off the last trade print.
package engine

import (
	"github.com/google/uuid"

	"github.com/meridian-dex/meridian/pkg/exchange/fees"
	"github.com/meridian-dex/meridian/pkg/exchange/market"
	"github.com/meridian-dex/meridian/pkg/exchange/orderbook"
	"github.com/meridian-dex/meridian/pkg/util"
)

// Result is everything one Submit produced. Order values are post-match
// snapshots; sharing pointers out of the engine would let readers observe
// mutations made under a later submit.
type Result struct {
	Taker    orderbook.Order   // the submitted order after matching
	Trades   []Trade           // in execution order
	Touched  []orderbook.Order // every other order mutated: makers, expired makers, triggered stops
	Unfilled int64             // market-order remainder cancelled for lack of liquidity
}

// Engine matches incoming orders for a single pair against its Book.
//
// The engine carries no lock: the owning exchange session serializes every
// call, which makes the produced trade sequence a deterministic function of
// arrival order.
type Engine struct {
	pair  *market.Pair
	book  *orderbook.Book
	fees  *fees.Calculator
	clock util.Clock

	live  map[string]*orderbook.Order // resting orders + untriggered stops
	stops []*orderbook.Order          // untriggered stop/take-profit, arrival order
	tape  []Trade                     // all trades, timestamp ascending
	last  int64                       // last trade print, 0 before the first trade
}

func New(pair *market.Pair, book *orderbook.Book, calc *fees.Calculator, clock util.Clock) *Engine {
	return &Engine{
		pair:  pair,
		book:  book,
		fees:  calc,
		clock: clock,
		live:  make(map[string]*orderbook.Order),
	}
}

// Book returns the engine's ladder. Callers must hold the pair lock.
func (e *Engine) Book() *orderbook.Book { return e.book }

// LastPrice returns the most recent trade print, 0 if none.
func (e *Engine) LastPrice() int64 { return e.last }

// Trades returns a copy of the full trade tape, timestamp ascending.
func (e *Engine) Trades() []Trade {
	out := make([]Trade, len(e.tape))
	copy(out, e.tape)
	return out
}

// LiveCount returns the number of non-terminal orders the engine tracks
// (resting plus untriggered stops).
func (e *Engine) LiveCount() int { return len(e.live) }

// Submit runs the matching algorithm for one incoming order and drains any
// stop orders its trades triggered. The order must have passed validation.
func (e *Engine) Submit(o *orderbook.Order) Result {
	var res Result

	if o.Type.NeedsStopPrice() && !e.triggered(o) {
		// held inactive until a trade print crosses the trigger
		e.stops = append(e.stops, o)
		e.live[o.ID] = o
		res.Taker = *o
		return res
	}

	e.runOrder(o, &res)
	e.drainStops(&res)
	res.Taker = *o
	return res
}

// runOrder matches one active order and disposes of its remainder. An order
// already past its ExpiresAt is cancelled before it can trade; this covers
// both fresh submissions and stops that expired while held.
func (e *Engine) runOrder(o *orderbook.Order, res *Result) {
	if o.Expired(e.clock.Now().UnixMilli()) {
		delete(e.live, o.ID)
		res.Unfilled += o.Remaining()
		o.Status = orderbook.Cancelled
		return
	}
	e.match(o, res)

	if o.Remaining() == 0 {
		delete(e.live, o.ID)
		return
	}
	if o.Type == orderbook.Market {
		// never rests: cancel the shortfall and report it
		res.Unfilled += o.Remaining()
		o.Status = orderbook.Cancelled
		return
	}
	e.book.Insert(o)
	e.live[o.ID] = o
}

// match cascades the incoming order through crossing levels of the opposite
// side, oldest order first at each level.
func (e *Engine) match(o *orderbook.Order, res *Result) {
	opp := o.Side.Opposite()
	for o.Remaining() > 0 {
		maker := e.book.Head(opp)
		if maker == nil || !e.crosses(o, maker.Price) {
			break
		}
		now := e.clock.Now().UnixMilli()

		if maker.Expired(now) {
			e.book.Remove(maker.ID)
			delete(e.live, maker.ID)
			maker.Status = orderbook.Cancelled
			res.Touched = append(res.Touched, *maker)
			continue
		}

		qty := min(o.Remaining(), maker.Remaining())
		price := maker.Price // maker never trades worse than quoted
		o.Fill(qty)
		maker.Fill(qty)

		notional := price * qty
		t := Trade{
			ID:           uuid.NewString(),
			Pair:         e.pair.Symbol,
			Price:        price,
			Amount:       qty,
			MakerOrderID: maker.ID,
			TakerOrderID: o.ID,
			MakerOwner:   maker.Owner,
			TakerOwner:   o.Owner,
			MakerFee:     e.fees.Fee(notional, fees.Maker),
			TakerFee:     e.fees.Fee(notional, fees.Taker),
			Timestamp:    now,
		}
		res.Trades = append(res.Trades, t)
		e.tape = append(e.tape, t)
		e.last = price

		if maker.Remaining() == 0 {
			e.book.Remove(maker.ID)
			delete(e.live, maker.ID)
		}
		res.Touched = append(res.Touched, *maker)
	}
}

// crosses reports whether the incoming order may trade at the maker price.
// Market orders have no price bound; a stop that reached matching is active
// and trades at its limit price.
func (e *Engine) crosses(o *orderbook.Order, makerPrice int64) bool {
	if o.Type == orderbook.Market {
		return true
	}
	if o.Side == orderbook.Buy {
		return makerPrice <= o.Price
	}
	return makerPrice >= o.Price
}

// triggered reports whether the last trade print has crossed the order's
// trigger. A stop fires with the market moving through it, a take-profit
// against it.
func (e *Engine) triggered(o *orderbook.Order) bool {
	if e.last == 0 {
		return false
	}
	switch {
	case o.Type == orderbook.Stop && o.Side == orderbook.Buy:
		return e.last >= o.StopPrice
	case o.Type == orderbook.Stop && o.Side == orderbook.Sell:
		return e.last <= o.StopPrice
	case o.Type == orderbook.TakeProfit && o.Side == orderbook.Buy:
		return e.last <= o.StopPrice
	case o.Type == orderbook.TakeProfit && o.Side == orderbook.Sell:
		return e.last >= o.StopPrice
	}
	return false
}

// drainStops activates stops whose trigger the latest prints crossed and
// re-submits them at their limit price, cascading until quiescent. Everything
// happens inside the caller's Submit, so the whole cascade is atomic under
// the pair lock.
func (e *Engine) drainStops(res *Result) {
	for {
		idx := -1
		for i, s := range e.stops {
			if e.triggered(s) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		s := e.stops[idx]
		e.stops = append(e.stops[:idx], e.stops[idx+1:]...)
		e.runOrder(s, res)
		res.Touched = append(res.Touched, *s)
	}
}

// Cancel removes a live order owned by owner. Returns the post-cancel
// snapshot. False if the order is unknown to this engine, already terminal,
// or owned by someone else.
func (e *Engine) Cancel(id, owner string) (orderbook.Order, bool) {
	o, ok := e.live[id]
	if !ok || o.Owner != owner {
		return orderbook.Order{}, false
	}
	e.book.Remove(id)
	for i, s := range e.stops {
		if s.ID == id {
			e.stops = append(e.stops[:i], e.stops[i+1:]...)
			break
		}
	}
	delete(e.live, id)
	o.Status = orderbook.Cancelled
	return *o, true
}

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
