// Package storage persists committed engine state in Pebble. The exchange
// calls it after in-memory mutations commit; the engine never waits on disk
// while a pair lock is held.
package storage

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/meridian-dex/meridian/pkg/exchange/engine"
	"github.com/meridian-dex/meridian/pkg/exchange/orderbook"
)

type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Close() error { return s.db.Close() }

// keys: o:<order-id>, t:<pair>:<8-byte-ts>:<trade-id>
func kOrder(id string) []byte { return append([]byte("o:"), id...) }

func kTrade(t engine.Trade) []byte {
	k := append([]byte("t:"), t.Pair...)
	k = append(k, ':')
	k = append(k, tsKey(t.Timestamp)...)
	k = append(k, ':')
	return append(k, t.ID...)
}

func kTradePrefix(pair string) []byte {
	k := append([]byte("t:"), pair...)
	return append(k, ':')
}

// UpsertOrder writes the latest snapshot of an order.
func (s *PebbleStore) UpsertOrder(o orderbook.Order) error {
	val, err := encodeGob(o)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	if err := s.db.Set(kOrder(o.ID), val, pebble.Sync); err != nil {
		return fmt.Errorf("set order: %w", err)
	}
	return nil
}

// GetOrder reads an order snapshot back.
func (s *PebbleStore) GetOrder(id string) (orderbook.Order, bool, error) {
	val, closer, err := s.db.Get(kOrder(id))
	if err != nil {
		if err == pebble.ErrNotFound {
			return orderbook.Order{}, false, nil
		}
		return orderbook.Order{}, false, err
	}
	defer closer.Close()
	var out orderbook.Order
	if err := decodeGob(val, &out); err != nil {
		return orderbook.Order{}, false, fmt.Errorf("decode order: %w", err)
	}
	return out, true, nil
}

// AppendTrade writes one immutable trade record.
func (s *PebbleStore) AppendTrade(t engine.Trade) error {
	val, err := encodeGob(t)
	if err != nil {
		return fmt.Errorf("encode trade: %w", err)
	}
	if err := s.db.Set(kTrade(t), val, pebble.Sync); err != nil {
		return fmt.Errorf("set trade: %w", err)
	}
	return nil
}

// TradesByPair returns a pair's trades, timestamp ascending (key order).
func (s *PebbleStore) TradesByPair(pair string) ([]engine.Trade, error) {
	prefix := kTradePrefix(pair)
	upper := append(append([]byte{}, prefix...), 0xff)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []engine.Trade
	for iter.First(); iter.Valid(); iter.Next() {
		var t engine.Trade
		if err := decodeGob(iter.Value(), &t); err != nil {
			return nil, fmt.Errorf("decode trade: %w", err)
		}
		out = append(out, t)
	}
	return out, iter.Error()
}
