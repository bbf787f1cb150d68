package token_test

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinewallet/vitrine/internal/chain"
	"github.com/vitrinewallet/vitrine/internal/token"
)

func TestNative(t *testing.T) {
	t.Parallel()
	tok := token.Native(chain.ETH)
	assert.Equal(t, "ETH", tok.Symbol)
	assert.Equal(t, 18, tok.Decimals)
	assert.True(t, tok.IsNative())
	assert.False(t, tok.HasAmount())
	assert.Empty(t, tok.DisplayAmount())
}

func TestFungible(t *testing.T) {
	t.Parallel()
	tok := token.Fungible(chain.ETH, "USDC", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6)
	assert.False(t, tok.IsNative())
	assert.Equal(t, "USDC", tok.Symbol)
	assert.False(t, tok.HasAmount())
}

func TestUnsetIsDistinctFromZero(t *testing.T) {
	t.Parallel()
	unset := token.Native(chain.ETH)
	zero := unset.WithAmount(big.NewInt(0), time.Now())

	assert.False(t, unset.HasAmount())
	assert.True(t, zero.HasAmount())
	assert.Empty(t, unset.DisplayAmount())
	assert.Equal(t, "0.0", zero.DisplayAmount())
}

func TestWithAmountDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()
	base := token.Native(chain.ETH)
	updated := base.WithAmount(big.NewInt(1), time.Now())

	assert.False(t, base.HasAmount())
	assert.True(t, updated.HasAmount())
}

func TestDisplayAmount(t *testing.T) {
	t.Parallel()
	tok := token.Native(chain.ETH).WithAmount(new(big.Int).SetUint64(1500000000000000000), time.Now())
	assert.Equal(t, "1.5", tok.DisplayAmount())

	usdc := token.Fungible(chain.ETH, "USDC", "0xA0b8", 6).WithAmount(big.NewInt(200000000), time.Now())
	assert.Equal(t, "200.0", usdc.DisplayAmount())
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()
	tok := token.Native(chain.ETH).WithAmount(new(big.Int).SetUint64(1500000000000000000), time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	data, err := json.Marshal(tok)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "eth", decoded["chain"])
	assert.Equal(t, "ETH", decoded["symbol"])
	assert.Equal(t, "1.5", decoded["amount"])
	assert.NotContains(t, decoded, "contract")
}

func TestMarshalJSONUnsetAmount(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(token.Native(chain.Polygon))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "amount")
	assert.Nil(t, decoded["amount"])
}
