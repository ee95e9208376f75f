package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-dex/meridian/pkg/exchange/engine"
	"github.com/meridian-dex/meridian/pkg/exchange/orderbook"
)

func openStore(t *testing.T) *PebbleStore {
	t.Helper()
	s, err := NewPebbleStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOrderRoundTrip(t *testing.T) {
	s := openStore(t)

	o := orderbook.Order{
		ID:        "o1",
		Owner:     "alice",
		Pair:      "BTC-USDT",
		Side:      orderbook.Buy,
		Type:      orderbook.Limit,
		Price:     500,
		Amount:    1000,
		Filled:    250,
		Status:    orderbook.PartiallyFilled,
		CreatedAt: 1_700_000_000_000,
	}
	require.NoError(t, s.UpsertOrder(o))

	got, ok, err := s.GetOrder("o1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, o, got)

	// upsert replaces
	o.Filled = 1000
	o.Status = orderbook.Filled
	require.NoError(t, s.UpsertOrder(o))
	got, _, err = s.GetOrder("o1")
	require.NoError(t, err)
	assert.Equal(t, orderbook.Filled, got.Status)
}

func TestGetOrderMissing(t *testing.T) {
	s := openStore(t)
	_, ok, err := s.GetOrder("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTradesByPairAscendingAndIsolated(t *testing.T) {
	s := openStore(t)

	mk := func(id, pair string, ts int64) engine.Trade {
		return engine.Trade{
			ID:        id,
			Pair:      pair,
			Price:     500,
			Amount:    100,
			Timestamp: ts,
		}
	}

	// inserted out of order on purpose
	require.NoError(t, s.AppendTrade(mk("t2", "BTC-USDT", 2000)))
	require.NoError(t, s.AppendTrade(mk("t1", "BTC-USDT", 1000)))
	require.NoError(t, s.AppendTrade(mk("t3", "ETH-USDT", 1500)))

	got, err := s.TradesByPair("BTC-USDT")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t2", got[1].ID)

	eth, err := s.TradesByPair("ETH-USDT")
	require.NoError(t, err)
	require.Len(t, eth, 1)
	assert.Equal(t, "t3", eth[0].ID)

	none, err := s.TradesByPair("DOGE-USDT")
	require.NoError(t, err)
	assert.Empty(t, none)
}
