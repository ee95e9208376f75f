package orderbook

import (
	"container/heap"
	"sort"
)

// Level is one aggregated price level of a depth snapshot.
type Level struct {
	Price  int64 `json:"price"`
	Amount int64 `json:"amount"` // sum of Remaining over the level's orders
}

// Book is the resting-order ladder for a single trading pair.
//
// Bids sort strictly descending, asks strictly ascending; orders at one price
// form a FIFO queue, so price-time priority falls out of the structure. The
// Book carries no lock of its own: every call must come through the owning
// pair's serialization point.
type Book struct {
	// FIFO queues per price (arrival order preserved by append)
	bids map[int64][]*Order
	asks map[int64][]*Order

	// heap-tracked best prices, O(1) peek
	bidPrices bidHeap
	askPrices askHeap

	// id -> resting order, O(1) cancel
	index map[string]*Order
}

func New() *Book {
	b := &Book{
		bids:  make(map[int64][]*Order),
		asks:  make(map[int64][]*Order),
		index: make(map[string]*Order),
	}
	heap.Init(&b.bidPrices)
	heap.Init(&b.askPrices)
	return b
}

// Insert rests an order at the tail of its price level.
func (b *Book) Insert(o *Order) {
	if o.Side == Buy {
		if len(b.bids[o.Price]) == 0 {
			heap.Push(&b.bidPrices, o.Price)
		}
		b.bids[o.Price] = append(b.bids[o.Price], o)
	} else {
		if len(b.asks[o.Price]) == 0 {
			heap.Push(&b.askPrices, o.Price)
		}
		b.asks[o.Price] = append(b.asks[o.Price], o)
	}
	b.index[o.ID] = o
}

// Remove deletes a resting order and prunes its level if now empty.
// No-op (false) if the id is not resting.
func (b *Book) Remove(id string) bool {
	o, ok := b.index[id]
	if !ok {
		return false
	}
	if o.Side == Buy {
		b.bids[o.Price] = cut(b.bids[o.Price], id)
		if len(b.bids[o.Price]) == 0 {
			delete(b.bids, o.Price)
			b.bidPrices.drop(o.Price)
		}
	} else {
		b.asks[o.Price] = cut(b.asks[o.Price], id)
		if len(b.asks[o.Price]) == 0 {
			delete(b.asks, o.Price)
			b.askPrices.drop(o.Price)
		}
	}
	delete(b.index, id)
	return true
}

func cut(level []*Order, id string) []*Order {
	for i, o := range level {
		if o.ID == id {
			return append(level[:i], level[i+1:]...)
		}
	}
	return level
}

// Contains reports whether the order is resting on the book.
func (b *Book) Contains(id string) bool {
	_, ok := b.index[id]
	return ok
}

// Len returns the number of resting orders.
func (b *Book) Len() int { return len(b.index) }

// BestBid returns the highest bid price.
func (b *Book) BestBid() (int64, bool) {
	if b.bidPrices.Len() == 0 {
		return 0, false
	}
	return b.bidPrices.peek(), true
}

// BestAsk returns the lowest ask price.
func (b *Book) BestAsk() (int64, bool) {
	if b.askPrices.Len() == 0 {
		return 0, false
	}
	return b.askPrices.peek(), true
}

// Head returns the oldest order at the best price of the given side, nil if
// that side is empty. This is the next maker under price-time priority.
func (b *Book) Head(side Side) *Order {
	if side == Buy {
		p, ok := b.BestBid()
		if !ok {
			return nil
		}
		return b.bids[p][0]
	}
	p, ok := b.BestAsk()
	if !ok {
		return nil
	}
	return b.asks[p][0]
}

// BidLevels returns aggregated bid levels, best (highest) first.
// depth <= 0 means all levels.
func (b *Book) BidLevels(depth int) []Level {
	return aggregate(b.bids, depth, func(a, b int64) bool { return a > b })
}

// AskLevels returns aggregated ask levels, best (lowest) first.
func (b *Book) AskLevels(depth int) []Level {
	return aggregate(b.asks, depth, func(a, b int64) bool { return a < b })
}

func aggregate(side map[int64][]*Order, depth int, better func(a, b int64) bool) []Level {
	levels := make([]Level, 0, len(side))
	for price, orders := range side {
		if len(orders) == 0 {
			continue
		}
		var total int64
		for _, o := range orders {
			total += o.Remaining()
		}
		levels = append(levels, Level{Price: price, Amount: total})
	}
	sort.Slice(levels, func(i, j int) bool { return better(levels[i].Price, levels[j].Price) })
	if depth > 0 && len(levels) > depth {
		levels = levels[:depth]
	}
	return levels
}
