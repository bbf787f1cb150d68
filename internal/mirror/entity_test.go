package mirror_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinewallet/vitrine/internal/chain"
	"github.com/vitrinewallet/vitrine/internal/core"
	"github.com/vitrinewallet/vitrine/internal/mirror"
	"github.com/vitrinewallet/vitrine/internal/token"
	vitrerr "github.com/vitrinewallet/vitrine/pkg/errors"
)

const testAddr = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

func testRecord() core.AddressRecord {
	return core.AddressRecord{
		ID:      core.EntityID(chain.ETH, testAddr),
		Account: "main",
		Kind:    core.KindWallet,
		ChainID: chain.ETH,
		Address: testAddr,
		Label:   "hot",
	}
}

func TestNewEntityStatics(t *testing.T) {
	t.Parallel()
	e := mirror.NewEntity(testRecord())

	assert.Equal(t, "eth:"+testAddr, e.ID)
	assert.Equal(t, chain.ETH, e.ChainID)
	assert.Contains(t, e.ExplorerURL, "etherscan.io")
	assert.Contains(t, e.ExplorerURL, testAddr)

	// Native token starts as the chain's native record with no amount
	native := e.NativeToken()
	assert.Equal(t, "ETH", native.Symbol)
	assert.False(t, native.HasAmount())
	assert.Empty(t, e.FungibleTokens())
	assert.False(t, e.Loading())
}

func TestDisplayName(t *testing.T) {
	t.Parallel()
	e := mirror.NewEntity(testRecord())
	assert.Equal(t, "hot", e.DisplayName())

	record := testRecord()
	record.Label = ""
	e = mirror.NewEntity(record)
	assert.Equal(t, "0xd8dA…6045", e.DisplayName())
}

func TestSetNativeSuccess(t *testing.T) {
	t.Parallel()
	e := mirror.NewEntity(testRecord())

	tok := token.Native(chain.ETH).WithAmount(big.NewInt(42), time.Now())
	e.SetNative(tok, nil)

	got := e.NativeToken()
	require.True(t, got.HasAmount())
	assert.Equal(t, "42", got.Amount.String())
	assert.NoError(t, e.LastNativeError())
}

func TestSetNativeFailureKeepsPreviousValue(t *testing.T) {
	t.Parallel()
	e := mirror.NewEntity(testRecord())

	tok := token.Native(chain.ETH).WithAmount(big.NewInt(42), time.Now())
	e.SetNative(tok, nil)

	e.SetNative(token.Token{}, vitrerr.ErrCoreQuery)

	// Stale value stays visible, error is recorded
	got := e.NativeToken()
	require.True(t, got.HasAmount())
	assert.Equal(t, "42", got.Amount.String())
	assert.ErrorIs(t, e.LastNativeError(), vitrerr.ErrCoreQuery)

	// A later success clears the error
	e.SetNative(tok.WithAmount(big.NewInt(43), time.Now()), nil)
	assert.NoError(t, e.LastNativeError())
	assert.Equal(t, "43", e.NativeToken().Amount.String())
}

func TestSetFungiblesFailureKeepsPreviousValue(t *testing.T) {
	t.Parallel()
	e := mirror.NewEntity(testRecord())

	usdc := token.Fungible(chain.ETH, "USDC", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6)
	e.SetFungibles([]token.Token{usdc.WithAmount(big.NewInt(1_000_000), time.Now())}, nil)

	e.SetFungibles(nil, vitrerr.ErrCoreQuery)

	got := e.FungibleTokens()
	require.Len(t, got, 1)
	assert.Equal(t, "USDC", got[0].Symbol)
	assert.ErrorIs(t, e.LastFungibleError(), vitrerr.ErrCoreQuery)
}

func TestFungibleTokensReturnsCopy(t *testing.T) {
	t.Parallel()
	e := mirror.NewEntity(testRecord())

	usdc := token.Fungible(chain.ETH, "USDC", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6)
	e.SetFungibles([]token.Token{usdc}, nil)

	got := e.FungibleTokens()
	got[0].Symbol = "mutated"
	assert.Equal(t, "USDC", e.FungibleTokens()[0].Symbol)
}

func TestSetLoading(t *testing.T) {
	t.Parallel()
	e := mirror.NewEntity(testRecord())

	e.SetLoading(true)
	assert.True(t, e.Loading())
	e.SetLoading(false)
	assert.False(t, e.Loading())
}
