package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinewallet/vitrine/internal/cache"
	"github.com/vitrinewallet/vitrine/internal/chain"
	"github.com/vitrinewallet/vitrine/internal/config"
	"github.com/vitrinewallet/vitrine/internal/core"
	"github.com/vitrinewallet/vitrine/internal/mirror"
	"github.com/vitrinewallet/vitrine/internal/output"
	vitrerr "github.com/vitrinewallet/vitrine/pkg/errors"
)

const cliAddr = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

func testList() *mirror.List {
	l := mirror.NewList(nil)
	l.Rebuild([]core.AddressRecord{
		{
			ID: core.EntityID(chain.ETH, cliAddr), Account: "main",
			Kind: core.KindWallet, ChainID: chain.ETH, Address: cliAddr, Label: "hot",
		},
		{
			ID: core.EntityID(chain.Polygon, cliAddr), Account: "defi",
			Kind: core.KindDapp, ChainID: chain.Polygon, Address: cliAddr,
		},
	})
	return l
}

func resetFlags() {
	addressesChain = ""
	addressesAccount = ""
	addressesRefresh = false
	addressesTargets = nil
}

func TestFilterEntitiesByChain(t *testing.T) {
	resetFlags()
	addressesChain = "eth"

	entities, err := filterEntities(testList())
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, chain.ETH, entities[0].ChainID)
}

func TestFilterEntitiesByAccount(t *testing.T) {
	resetFlags()
	addressesAccount = "defi"

	entities, err := filterEntities(testList())
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, core.KindDapp, entities[0].Kind)
}

func TestFilterEntitiesUnknownChainSuggests(t *testing.T) {
	resetFlags()
	addressesChain = "polygn"

	_, err := filterEntities(testList())
	require.ErrorIs(t, err, vitrerr.ErrUnsupportedChain)

	var ve *vitrerr.VitrineError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Suggestion, "polygon")
}

func TestResolveTargets(t *testing.T) {
	resetFlags()
	entities := testList().Entities()

	// Case-insensitive match; both chain entries for the address resolve
	resolved, err := resolveTargets(entities, []string{"0XD8DA6BF26964AF9D7EED9E03E53415D37AA96045"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)

	_, err = resolveTargets(entities, []string{"0x0000000000000000000000000000000000000002"})
	require.ErrorIs(t, err, vitrerr.ErrEntityNotFound)
}

func TestEntityIDs(t *testing.T) {
	entities := testList().Entities()
	ids := entityIDs(entities)
	assert.Equal(t, []string{
		core.EntityID(chain.ETH, cliAddr),
		core.EntityID(chain.Polygon, cliAddr),
	}, ids)
}

func TestDisplayEntitiesJSON(t *testing.T) {
	resetFlags()
	var buf bytes.Buffer
	formatter = output.NewFormatter(output.FormatJSON, &buf)

	require.NoError(t, displayEntities(addressesListCmd, testList().Entities()))

	var decoded struct {
		Addresses []output.EntityView `json:"addresses"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Addresses, 2)
	assert.Equal(t, "hot", decoded.Addresses[0].Label)
	assert.False(t, decoded.Addresses[0].Loading)
}

func TestCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"addresses", "watch", "config", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}

	sub := make(map[string]bool)
	for _, c := range addressesCmd.Commands() {
		sub[c.Name()] = true
	}
	assert.True(t, sub["list"])
	assert.True(t, sub["refresh"])
}

func TestLoadOrCreateBalanceCacheMissingFile(t *testing.T) {
	logger = config.NullLogger()
	storage := cache.NewFileStorage(filepath.Join(t.TempDir(), "balances.json"))
	bc := loadOrCreateBalanceCache(storage)
	require.NotNil(t, bc)
	assert.Equal(t, 0, bc.Size())
}
