package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPairValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults are valid", func(p *Params) {}, false},
		{"zero tick size", func(p *Params) { p.TickSize = 0 }, true},
		{"zero lot size", func(p *Params) { p.LotSize = 0 }, true},
		{"negative min notional", func(p *Params) { p.MinNotional = -1 }, true},
		{"min above max order size", func(p *Params) { p.MinOrderSize = 10; p.MaxOrderSize = 5 }, true},
		{"negative taker fee", func(p *Params) { p.TakerFeeBps = -1 }, true},
		{"maker rebate allowed", func(p *Params) { p.MakerFeeBps = -5 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams
			tt.mutate(&params)
			_, err := NewPair("BTC-USDT", "BTC", "USDT", params)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPairIdentity(t *testing.T) {
	_, err := NewPair("", "BTC", "USDT", DefaultParams)
	assert.Error(t, err)

	_, err = NewPair("BTC-USDT", "", "USDT", DefaultParams)
	assert.Error(t, err)

	p, err := NewPairWithDefaults("BTC-USDT", "BTC", "USDT")
	require.NoError(t, err)
	assert.Equal(t, Active, p.Status)
}

func TestValidateAmount(t *testing.T) {
	p, err := NewPairWithDefaults("BTC-USDT", "BTC", "USDT")
	require.NoError(t, err)

	assert.NoError(t, p.ValidateAmount(1))
	assert.NoError(t, p.ValidateAmount(p.MaxOrderSize))
	assert.Error(t, p.ValidateAmount(0))
	assert.Error(t, p.ValidateAmount(p.MaxOrderSize+1))
}

func TestValidateNotional(t *testing.T) {
	p, err := NewPairWithDefaults("BTC-USDT", "BTC", "USDT")
	require.NoError(t, err)

	assert.NoError(t, p.ValidateNotional(100, 100))
	assert.Error(t, p.ValidateNotional(1, 1))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Count())
	assert.False(t, r.Exists("BTC-USDT"))

	p, err := NewPairWithDefaults("BTC-USDT", "BTC", "USDT")
	require.NoError(t, err)
	require.NoError(t, r.Register(p))

	assert.Error(t, r.Register(p), "duplicate symbol rejected")
	assert.Error(t, r.Register(nil))

	got, err := r.Get("BTC-USDT")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = r.Get("ETH-USDT")
	assert.Error(t, err)

	assert.Equal(t, 1, r.Count())
	assert.Len(t, r.List(), 1)
}

func TestRegistrySetStatus(t *testing.T) {
	r := NewRegistry()
	p, _ := NewPairWithDefaults("BTC-USDT", "BTC", "USDT")
	require.NoError(t, r.Register(p))

	require.NoError(t, r.SetStatus("BTC-USDT", Paused))
	got, _ := r.Get("BTC-USDT")
	assert.Equal(t, Paused, got.Status)

	require.NoError(t, r.SetStatus("BTC-USDT", Active))
	assert.Error(t, r.SetStatus("ETH-USDT", Paused))
}
