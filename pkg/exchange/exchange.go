// Package exchange is the entry point of the matching core: it owns one
// order book + matching engine per trading pair, validates incoming orders,
// and reports committed state changes to a durable store.
package exchange

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridian-dex/meridian/pkg/exchange/engine"
	"github.com/meridian-dex/meridian/pkg/exchange/fees"
	"github.com/meridian-dex/meridian/pkg/exchange/market"
	"github.com/meridian-dex/meridian/pkg/exchange/orderbook"
	"github.com/meridian-dex/meridian/pkg/exchange/registry"
	"github.com/meridian-dex/meridian/pkg/metrics"
	"github.com/meridian-dex/meridian/pkg/util"
)

// ErrInvalidOrder wraps every synchronous validation failure. The book is
// guaranteed unchanged when it is returned.
var ErrInvalidOrder = errors.New("invalid order")

// Store durably records committed state changes. Crash consistency is the
// store's responsibility; the exchange only promises to call it after the
// in-memory mutation committed, outside the pair lock.
type Store interface {
	UpsertOrder(o orderbook.Order) error
	AppendTrade(t engine.Trade) error
}

// NopStore discards everything. Useful for tests and pure in-memory runs.
type NopStore struct{}

func (NopStore) UpsertOrder(orderbook.Order) error { return nil }
func (NopStore) AppendTrade(engine.Trade) error    { return nil }

// PlaceRequest carries the parameters of place_order.
type PlaceRequest struct {
	Pair      string
	Owner     string
	Side      orderbook.Side
	Type      orderbook.Type
	Amount    int64 // lots
	Price     int64 // ticks; required for limit/stop/take-profit
	StopPrice int64 // ticks; required for stop/take-profit
	ExpiresAt int64 // unix ms, 0 = good till cancelled
}

// Snapshot is an aggregated depth view of one pair's book.
type Snapshot struct {
	Pair      string            `json:"pair"`
	Bids      []orderbook.Level `json:"bids"` // descending
	Asks      []orderbook.Level `json:"asks"` // ascending
	Timestamp int64             `json:"timestamp"`
}

// session is the single serialization point for one pair. Every mutation of
// the pair's book or engine happens under mu; reads take the read side.
type session struct {
	mu     sync.RWMutex
	pair   *market.Pair
	engine *engine.Engine
}

type Exchange struct {
	pairs  *market.Registry
	orders *registry.Registry
	store  Store
	log    *zap.Logger
	met    *metrics.Metrics // optional
	clock  util.Clock

	mu       sync.RWMutex
	sessions map[string]*session
}

// Option configures optional collaborators.
type Option func(*Exchange)

func WithStore(s Store) Option              { return func(e *Exchange) { e.store = s } }
func WithLogger(l *zap.Logger) Option       { return func(e *Exchange) { e.log = l } }
func WithMetrics(m *metrics.Metrics) Option { return func(e *Exchange) { e.met = m } }
func WithClock(c util.Clock) Option         { return func(e *Exchange) { e.clock = c } }

// New builds an exchange over a fixed pair set. A book + engine session is
// created per registered pair up front; pairs are fully independent.
func New(pairs *market.Registry, opts ...Option) *Exchange {
	e := &Exchange{
		pairs:    pairs,
		orders:   registry.New(),
		store:    NopStore{},
		log:      zap.NewNop(),
		clock:    util.RealClock{},
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, p := range pairs.List() {
		calc := fees.NewCalculator(p.MakerFeeBps, p.TakerFeeBps)
		e.sessions[p.Symbol] = &session{
			pair:   p,
			engine: engine.New(p, orderbook.New(), calc, e.clock),
		}
	}
	return e
}

// Pairs returns the pair registry.
func (e *Exchange) Pairs() *market.Registry { return e.pairs }

func (e *Exchange) session(symbol string) (*session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[symbol]
	return s, ok
}

// PlaceOrder validates, registers and matches one order. On success the
// returned Order is the post-match snapshot (its ID is the assigned id). On
// validation failure it returns ErrInvalidOrder wrapped with the reason and
// the book is untouched.
func (e *Exchange) PlaceOrder(req PlaceRequest) (orderbook.Order, error) {
	s, ok := e.session(req.Pair)
	if err := e.validate(req, ok, s); err != nil {
		// rejected orders never touch a book but stay queryable
		rejected := orderbook.Order{
			ID:        uuid.NewString(),
			Owner:     req.Owner,
			Pair:      req.Pair,
			Side:      req.Side,
			Type:      req.Type,
			Price:     req.Price,
			StopPrice: req.StopPrice,
			Amount:    req.Amount,
			Status:    orderbook.Rejected,
			CreatedAt: e.clock.Now().UnixMilli(),
		}
		e.orders.Put(rejected)
		if serr := e.store.UpsertOrder(rejected); serr != nil {
			e.log.Error("store upsert failed", zap.String("id", rejected.ID), zap.Error(serr))
		}
		if e.met != nil {
			e.met.OrdersRejected.WithLabelValues(req.Pair).Inc()
		}
		e.log.Info("order rejected",
			zap.String("pair", req.Pair),
			zap.String("owner", req.Owner),
			zap.Error(err))
		return rejected, err
	}

	o := &orderbook.Order{
		ID:        uuid.NewString(),
		Owner:     req.Owner,
		Pair:      req.Pair,
		Side:      req.Side,
		Type:      req.Type,
		Price:     req.Price,
		StopPrice: req.StopPrice,
		Amount:    req.Amount,
		Status:    orderbook.Pending,
		CreatedAt: e.clock.Now().UnixMilli(),
		ExpiresAt: req.ExpiresAt,
	}

	// registered pending before the engine ever sees it: no order is
	// observable half-constructed
	e.orders.Put(*o)

	s.mu.Lock()
	res := s.engine.Submit(o)
	e.orders.Put(res.Taker)
	e.orders.PutAll(res.Touched)
	s.mu.Unlock()

	// durable notifications after the in-memory commit, lock released
	e.persist(res)

	if e.met != nil {
		e.met.OrdersPlaced.WithLabelValues(req.Pair).Inc()
		for _, t := range res.Trades {
			e.met.Trades.WithLabelValues(req.Pair).Inc()
			e.met.Volume.WithLabelValues(req.Pair).Add(float64(t.Notional()))
		}
	}
	e.log.Info("order placed",
		zap.String("id", res.Taker.ID),
		zap.String("pair", req.Pair),
		zap.String("side", req.Side.String()),
		zap.String("type", req.Type.String()),
		zap.Int64("amount", req.Amount),
		zap.Int64("filled", res.Taker.Filled),
		zap.Int("trades", len(res.Trades)),
		zap.Int64("unfilled", res.Unfilled))

	return res.Taker, nil
}

func (e *Exchange) validate(req PlaceRequest, ok bool, s *session) error {
	if !ok {
		return fmt.Errorf("%w: unsupported pair %q", ErrInvalidOrder, req.Pair)
	}
	if s.pair.Status != market.Active {
		return fmt.Errorf("%w: pair %s is %s", ErrInvalidOrder, req.Pair, s.pair.Status)
	}
	if req.Side != orderbook.Buy && req.Side != orderbook.Sell {
		return fmt.Errorf("%w: unknown side", ErrInvalidOrder)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("%w: non-positive amount %d", ErrInvalidOrder, req.Amount)
	}
	if err := s.pair.ValidateAmount(req.Amount); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	if req.Type.NeedsPrice() {
		if req.Price <= 0 {
			return fmt.Errorf("%w: non-positive price %d", ErrInvalidOrder, req.Price)
		}
		if err := s.pair.ValidateNotional(req.Price, req.Amount); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
		}
	}
	if req.Type.NeedsStopPrice() && req.StopPrice <= 0 {
		return fmt.Errorf("%w: non-positive stop price %d", ErrInvalidOrder, req.StopPrice)
	}
	return nil
}

func (e *Exchange) persist(res engine.Result) {
	if err := e.store.UpsertOrder(res.Taker); err != nil {
		e.log.Error("store upsert failed", zap.String("id", res.Taker.ID), zap.Error(err))
	}
	for _, o := range res.Touched {
		if err := e.store.UpsertOrder(o); err != nil {
			e.log.Error("store upsert failed", zap.String("id", o.ID), zap.Error(err))
		}
	}
	for _, t := range res.Trades {
		if err := e.store.AppendTrade(t); err != nil {
			e.log.Error("store append failed", zap.String("trade", t.ID), zap.Error(err))
		}
	}
}

// CancelOrder cancels a live order. False unless the order exists, the
// caller owns it, and it is still PENDING or PARTIALLY_FILLED; a cancel that
// loses the race with matching observes the terminal state and fails
// cleanly.
func (e *Exchange) CancelOrder(id, owner string) bool {
	snap, ok := e.orders.Get(id)
	if !ok || snap.Owner != owner {
		return false
	}
	s, ok := e.session(snap.Pair)
	if !ok {
		return false
	}

	s.mu.Lock()
	cancelled, ok := s.engine.Cancel(id, owner)
	if ok {
		e.orders.Put(cancelled)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}

	if err := e.store.UpsertOrder(cancelled); err != nil {
		e.log.Error("store upsert failed", zap.String("id", id), zap.Error(err))
	}
	if e.met != nil {
		e.met.OrdersCancelled.WithLabelValues(snap.Pair).Inc()
	}
	e.log.Info("order cancelled", zap.String("id", id), zap.String("pair", snap.Pair))
	return true
}

// GetOrder returns the latest snapshot of an order.
func (e *Exchange) GetOrder(id string) (orderbook.Order, bool) {
	return e.orders.Get(id)
}

// UserOrders returns all orders ever placed by owner, oldest first.
func (e *Exchange) UserOrders(owner string) []orderbook.Order {
	return e.orders.ByOwner(owner)
}

// OrderBookSnapshot returns aggregated depth for a pair, bids descending and
// asks ascending. depth <= 0 returns all levels. False for unknown pairs.
func (e *Exchange) OrderBookSnapshot(pair string, depth int) (Snapshot, bool) {
	s, ok := e.session(pair)
	if !ok {
		return Snapshot{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Pair:      pair,
		Bids:      s.engine.Book().BidLevels(depth),
		Asks:      s.engine.Book().AskLevels(depth),
		Timestamp: e.clock.Now().UnixMilli(),
	}, true
}

// TradeHistory returns a pair's trades, timestamp ascending. Nil for unknown
// pairs.
func (e *Exchange) TradeHistory(pair string) []engine.Trade {
	s, ok := e.session(pair)
	if !ok {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Trades()
}

// LastPrice returns a pair's most recent trade print, 0 if none.
func (e *Exchange) LastPrice(pair string) int64 {
	s, ok := e.session(pair)
	if !ok {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.LastPrice()
}
