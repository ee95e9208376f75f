package orderbook

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitOrder(id string, side Side, price, amount int64) *Order {
	return &Order{
		ID:     id,
		Owner:  "alice",
		Pair:   "BTC-USDT",
		Side:   side,
		Type:   Limit,
		Price:  price,
		Amount: amount,
		Status: Pending,
	}
}

func TestInsertAndBest(t *testing.T) {
	b := New()

	_, ok := b.BestBid()
	assert.False(t, ok)
	_, ok = b.BestAsk()
	assert.False(t, ok)

	b.Insert(limitOrder("b1", Buy, 500, 100))
	b.Insert(limitOrder("b2", Buy, 510, 100))
	b.Insert(limitOrder("a1", Sell, 520, 100))
	b.Insert(limitOrder("a2", Sell, 515, 100))

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(510), bid)

	ask, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(515), ask)

	assert.Equal(t, 4, b.Len())
}

func TestHeadIsOldestAtBestPrice(t *testing.T) {
	b := New()
	b.Insert(limitOrder("first", Sell, 500, 100))
	b.Insert(limitOrder("second", Sell, 500, 200))
	b.Insert(limitOrder("worse", Sell, 510, 300))

	head := b.Head(Sell)
	require.NotNil(t, head)
	assert.Equal(t, "first", head.ID)

	require.True(t, b.Remove("first"))
	head = b.Head(Sell)
	require.NotNil(t, head)
	assert.Equal(t, "second", head.ID)
}

func TestRemovePrunesEmptyLevel(t *testing.T) {
	b := New()
	b.Insert(limitOrder("a1", Sell, 500, 100))
	b.Insert(limitOrder("a2", Sell, 510, 100))

	require.True(t, b.Remove("a1"))
	assert.False(t, b.Contains("a1"))

	ask, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(510), ask)

	assert.Len(t, b.AskLevels(0), 1)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	b := New()
	b.Insert(limitOrder("b1", Buy, 500, 100))
	assert.False(t, b.Remove("nope"))
	assert.Equal(t, 1, b.Len())
}

func TestLevelsSortedAndAggregated(t *testing.T) {
	b := New()
	b.Insert(limitOrder("b1", Buy, 500, 100))
	b.Insert(limitOrder("b2", Buy, 500, 150))
	b.Insert(limitOrder("b3", Buy, 490, 50))
	b.Insert(limitOrder("a1", Sell, 510, 70))
	b.Insert(limitOrder("a2", Sell, 505, 30))

	bids := b.BidLevels(0)
	require.Len(t, bids, 2)
	assert.Equal(t, Level{Price: 500, Amount: 250}, bids[0])
	assert.Equal(t, Level{Price: 490, Amount: 50}, bids[1])

	asks := b.AskLevels(0)
	require.Len(t, asks, 2)
	assert.Equal(t, Level{Price: 505, Amount: 30}, asks[0])
	assert.Equal(t, Level{Price: 510, Amount: 70}, asks[1])
}

func TestLevelAggregateTracksPartialFills(t *testing.T) {
	b := New()
	o := limitOrder("b1", Buy, 500, 100)
	b.Insert(o)
	o.Fill(40)

	bids := b.BidLevels(0)
	require.Len(t, bids, 1)
	assert.Equal(t, int64(60), bids[0].Amount)
}

func TestDepthLimit(t *testing.T) {
	b := New()
	for i := 0; i < 10; i++ {
		b.Insert(limitOrder(fmt.Sprintf("b%d", i), Buy, int64(500-i), 10))
	}
	levels := b.BidLevels(3)
	require.Len(t, levels, 3)
	assert.Equal(t, int64(500), levels[0].Price)
	assert.Equal(t, int64(498), levels[2].Price)
}

func TestLevelsStrictlySorted(t *testing.T) {
	b := New()
	prices := []int64{503, 500, 507, 501, 509, 505}
	for i, p := range prices {
		b.Insert(limitOrder(fmt.Sprintf("b%d", i), Buy, p, 10))
		b.Insert(limitOrder(fmt.Sprintf("a%d", i), Sell, p+100, 10))
	}

	bids := b.BidLevels(0)
	for i := 1; i < len(bids); i++ {
		assert.Greater(t, bids[i-1].Price, bids[i].Price)
	}
	asks := b.AskLevels(0)
	for i := 1; i < len(asks); i++ {
		assert.Less(t, asks[i-1].Price, asks[i].Price)
	}
}

func TestOrderFillTransitions(t *testing.T) {
	o := limitOrder("x", Buy, 500, 100)
	assert.Equal(t, Pending, o.Status)
	assert.Equal(t, int64(100), o.Remaining())

	o.Fill(30)
	assert.Equal(t, PartiallyFilled, o.Status)
	assert.Equal(t, int64(70), o.Remaining())

	o.Fill(70)
	assert.Equal(t, Filled, o.Status)
	assert.Equal(t, int64(0), o.Remaining())
	assert.True(t, o.Status.Terminal())
}

func TestExpired(t *testing.T) {
	o := limitOrder("x", Buy, 500, 100)
	assert.False(t, o.Expired(1000), "zero ExpiresAt never expires")

	o.ExpiresAt = 900
	assert.True(t, o.Expired(900))
	assert.True(t, o.Expired(1000))
	assert.False(t, o.Expired(899))
}
