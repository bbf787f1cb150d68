package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinewallet/vitrine/internal/config"
	"github.com/vitrinewallet/vitrine/internal/core"
	vitrerr "github.com/vitrinewallet/vitrine/pkg/errors"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Addresses = []config.AddressConfig{
		{Account: "main", Kind: "wallet", Chain: "eth", Address: "0xd8da6bf26964af9d7eed9e03e53415d37aa96045", Label: "hot"},
		{Account: "main", Kind: "dapp", Chain: "polygon", Address: "0x0000000000000000000000000000000000000001"},
	}
	return cfg
}

func TestNewEVMCoreBuildsRecords(t *testing.T) {
	t.Parallel()
	c, err := core.NewEVMCore(testConfig(), nil)
	require.NoError(t, err)

	records, err := c.ListAddresses(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Configuration order is preserved
	assert.Equal(t, core.KindWallet, records[0].Kind)
	assert.Equal(t, "hot", records[0].Label)
	assert.Equal(t, core.KindDapp, records[1].Kind)
}

func TestNewEVMCoreDeduplicatesAddresses(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	// Same address with different casing resolves to the same entity id
	cfg.Addresses = append(cfg.Addresses, config.AddressConfig{
		Chain:   "eth",
		Address: "0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045",
	})

	c, err := core.NewEVMCore(cfg, nil)
	require.NoError(t, err)

	records, err := c.ListAddresses(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestNewEVMCoreRejectsBadConfig(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Addresses = append(cfg.Addresses, config.AddressConfig{Chain: "eth", Address: "bogus"})

	_, err := core.NewEVMCore(cfg, nil)
	require.ErrorIs(t, err, vitrerr.ErrInvalidAddress)
}

func TestFetchUnknownEntity(t *testing.T) {
	t.Parallel()
	c, err := core.NewEVMCore(testConfig(), nil)
	require.NoError(t, err)

	_, err = c.FetchNativeBalance(context.Background(), "eth:0xUnknown")
	require.ErrorIs(t, err, vitrerr.ErrEntityNotFound)

	_, err = c.FetchFungibleBalances(context.Background(), "eth:0xUnknown")
	require.ErrorIs(t, err, vitrerr.ErrEntityNotFound)
}

func TestEntityID(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "eth:0xAbC", core.EntityID("eth", "0xAbC"))
}
