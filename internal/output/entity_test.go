package output_test

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinewallet/vitrine/internal/chain"
	"github.com/vitrinewallet/vitrine/internal/core"
	"github.com/vitrinewallet/vitrine/internal/mirror"
	"github.com/vitrinewallet/vitrine/internal/output"
	"github.com/vitrinewallet/vitrine/internal/token"
	vitrerr "github.com/vitrinewallet/vitrine/pkg/errors"
)

const viewAddr = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

func viewEntity(label string) *mirror.Entity {
	return mirror.NewEntity(core.AddressRecord{
		ID:      core.EntityID(chain.ETH, viewAddr),
		Account: "main",
		Kind:    core.KindWallet,
		ChainID: chain.ETH,
		Address: viewAddr,
		Label:   label,
	})
}

func TestNewEntityView(t *testing.T) {
	t.Parallel()

	e := viewEntity("hot")
	e.SetNative(token.Native(chain.ETH).WithAmount(big.NewInt(1e18), time.Now()), nil)

	view := output.NewEntityView(e)
	assert.Equal(t, "eth", view.Chain)
	assert.Equal(t, "hot", view.Label)
	assert.Equal(t, "wallet", view.Kind)
	assert.False(t, view.Loading)
	assert.False(t, view.Stale)
	assert.Equal(t, "1.0", view.Native.DisplayAmount())
	assert.Contains(t, view.ExplorerURL, "etherscan.io")
}

func TestEntityViewRecordsDegradedState(t *testing.T) {
	t.Parallel()

	e := viewEntity("")
	e.SetNative(token.Token{}, vitrerr.ErrCoreQuery)

	view := output.NewEntityView(e)
	assert.True(t, view.Stale)
	assert.NotEmpty(t, view.LastError)
}

func TestRenderEntityTable(t *testing.T) {
	t.Parallel()

	e := viewEntity("hot")
	e.SetNative(token.Native(chain.ETH).WithAmount(big.NewInt(1e18), time.Now()), nil)
	usdc := token.Fungible(chain.ETH, "USDC", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6)
	e.SetFungibles([]token.Token{usdc.WithAmount(big.NewInt(200_000_000), time.Now())}, nil)

	var buf bytes.Buffer
	require.NoError(t, output.RenderEntityTable(&buf, output.EntityViews([]*mirror.Entity{e})))

	out := buf.String()
	assert.Contains(t, out, "CHAIN")
	assert.Contains(t, out, "hot")
	assert.Contains(t, out, "ETH")
	assert.Contains(t, out, "1.0")
	assert.Contains(t, out, "USDC")
	assert.Contains(t, out, "200.0")
	assert.Contains(t, out, "ok")
}

func TestRenderEntityTableUnsetBalance(t *testing.T) {
	t.Parallel()

	e := viewEntity("")
	var buf bytes.Buffer
	require.NoError(t, output.RenderEntityTable(&buf, output.EntityViews([]*mirror.Entity{e})))

	out := buf.String()
	// Unset amount renders as a placeholder, not zero
	assert.Contains(t, out, "-")
	assert.NotContains(t, out, "0.0")
}

func TestRenderEntityTableLoadingStatus(t *testing.T) {
	t.Parallel()

	e := viewEntity("")
	e.SetLoading(true)

	var buf bytes.Buffer
	require.NoError(t, output.RenderEntityTable(&buf, output.EntityViews([]*mirror.Entity{e})))
	assert.Contains(t, buf.String(), "loading")
}
