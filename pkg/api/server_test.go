package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-dex/meridian/pkg/exchange"
	"github.com/meridian-dex/meridian/pkg/exchange/market"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	pairs := market.NewRegistry()
	p, err := market.NewPairWithDefaults("BTC-USDT", "BTC", "USDT")
	require.NoError(t, err)
	require.NoError(t, pairs.Register(p))

	srv := NewServer(exchange.New(pairs), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestGetPairs(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/pairs")
	require.NoError(t, err)
	pairs := decode[[]PairInfo](t, resp)
	require.Len(t, pairs, 1)
	assert.Equal(t, "BTC-USDT", pairs[0].Symbol)
	assert.Equal(t, "Active", pairs[0].Status)
}

func TestSubmitOrderAccepted(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/orders", SubmitOrderRequest{
		Pair:   "BTC-USDT",
		Owner:  "alice",
		Side:   "buy",
		Type:   "limit",
		Amount: 1000,
		Price:  500,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[SubmitOrderResponse](t, resp)
	assert.Equal(t, "accepted", body.Status)
	assert.NotEmpty(t, body.Order.ID)
	assert.Equal(t, "pending", body.Order.Status)

	// visible in the order book
	resp2, err := http.Get(ts.URL + "/api/v1/pairs/BTC-USDT/orderbook?depth=5")
	require.NoError(t, err)
	snap := decode[exchange.Snapshot](t, resp2)
	require.Len(t, snap.Bids, 1)
	assert.Equal(t, int64(500), snap.Bids[0].Price)

	// and via GET /orders/{id}
	resp3, err := http.Get(ts.URL + "/api/v1/orders/" + body.Order.ID)
	require.NoError(t, err)
	got := decode[OrderInfo](t, resp3)
	assert.Equal(t, body.Order.ID, got.ID)
}

func TestSubmitOrderRejected(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/orders", SubmitOrderRequest{
		Pair:   "DOGE-USDT",
		Owner:  "alice",
		Side:   "buy",
		Type:   "limit",
		Amount: 1000,
		Price:  500,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[SubmitOrderResponse](t, resp)
	assert.Equal(t, "rejected", body.Status)
	assert.Contains(t, body.Reason, "unsupported pair")
	assert.Equal(t, "rejected", body.Order.Status)
}

func TestSubmitOrderBadPayload(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/orders", SubmitOrderRequest{
		Pair: "BTC-USDT", Owner: "alice", Side: "sideways", Type: "limit", Amount: 1, Price: 500,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2 := postJSON(t, ts.URL+"/api/v1/orders", SubmitOrderRequest{
		Pair: "BTC-USDT", Owner: "alice", Side: "buy", Type: "oco", Amount: 1, Price: 500,
	})
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestCancelFlow(t *testing.T) {
	ts := newTestServer(t)

	submitted := decode[SubmitOrderResponse](t, postJSON(t, ts.URL+"/api/v1/orders", SubmitOrderRequest{
		Pair: "BTC-USDT", Owner: "alice", Side: "buy", Type: "limit", Amount: 1000, Price: 500,
	}))

	resp := postJSON(t, ts.URL+"/api/v1/orders/cancel", CancelOrderRequest{
		Owner: "alice", OrderID: submitted.Order.ID,
	})
	assert.True(t, decode[CancelOrderResponse](t, resp).Cancelled)

	resp2 := postJSON(t, ts.URL+"/api/v1/orders/cancel", CancelOrderRequest{
		Owner: "alice", OrderID: submitted.Order.ID,
	})
	assert.False(t, decode[CancelOrderResponse](t, resp2).Cancelled)
}

func TestTradesEndpoint(t *testing.T) {
	ts := newTestServer(t)

	for _, side := range []string{"buy", "sell"} {
		resp := postJSON(t, ts.URL+"/api/v1/orders", SubmitOrderRequest{
			Pair: "BTC-USDT", Owner: fmt.Sprintf("user-%s", side), Side: side, Type: "limit", Amount: 1000, Price: 500,
		})
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/api/v1/pairs/BTC-USDT/trades")
	require.NoError(t, err)
	trades := decode[[]map[string]any](t, resp)
	require.Len(t, trades, 1)

	resp2, err := http.Get(ts.URL + "/api/v1/pairs/DOGE-USDT/trades")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestUserOrdersEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/orders", SubmitOrderRequest{
		Pair: "BTC-USDT", Owner: "alice", Side: "buy", Type: "limit", Amount: 1000, Price: 500,
	})
	resp.Body.Close()

	resp2, err := http.Get(ts.URL + "/api/v1/accounts/alice/orders")
	require.NoError(t, err)
	orders := decode[[]OrderInfo](t, resp2)
	require.Len(t, orders, 1)
	assert.Equal(t, "alice", orders[0].Owner)

	resp3, err := http.Get(ts.URL + "/api/v1/accounts/nobody/orders")
	require.NoError(t, err)
	assert.Empty(t, decode[[]OrderInfo](t, resp3))
}

func TestOrderbookBadDepth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/pairs/BTC-USDT/orderbook?depth=abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
