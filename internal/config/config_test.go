package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinewallet/vitrine/internal/chain"
	"github.com/vitrinewallet/vitrine/internal/config"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()

	assert.Equal(t, 1, cfg.Version)
	assert.True(t, cfg.Networks.ETH.Enabled)
	assert.Equal(t, config.DefaultETHRPCURL, cfg.Networks.ETH.RPC)
	assert.NotEmpty(t, cfg.Networks.ETH.FallbackRPCs)
	assert.Equal(t, "auto", cfg.Output.DefaultFormat)
	assert.Equal(t, "error", cfg.Logging.Level)

	// Every enabled chain tracks USDC by default
	for _, id := range cfg.EnabledChains() {
		nc, ok := cfg.Network(id)
		require.True(t, ok)
		require.NotEmpty(t, nc.Tokens)
		assert.Equal(t, "USDC", nc.Tokens[0].Symbol)
		assert.Equal(t, 6, nc.Tokens[0].Decimals)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := config.Path(dir)

	cfg := config.Defaults()
	cfg.Home = dir
	cfg.Networks.Polygon.RPC = "https://polygon.example"
	cfg.Addresses = []config.AddressConfig{
		{Account: "main", Kind: "wallet", Chain: "eth", Address: "0xabc", Label: "hot"},
	}

	require.NoError(t, config.Save(cfg, path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://polygon.example", loaded.Networks.Polygon.RPC)
	require.Len(t, loaded.Addresses, 1)
	assert.Equal(t, "hot", loaded.Addresses[0].Label)
}

func TestLoadMergesWithDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	// A minimal config file should inherit defaults for everything else
	partial := "networks:\n  eth:\n    enabled: true\n    rpc: https://custom.example\n"
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://custom.example", cfg.Networks.ETH.RPC)
	assert.Equal(t, "auto", cfg.Output.DefaultFormat)
	assert.Equal(t, config.DefaultMaxConcurrent, cfg.Refresh.MaxConcurrent)
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("networks: [not a map"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestNetworkAccessor(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()

	nc, ok := cfg.Network(chain.Polygon)
	require.True(t, ok)
	assert.Equal(t, config.DefaultPolygonRPCURL, nc.RPC)

	_, ok = cfg.Network(chain.ID("btc"))
	assert.False(t, ok)
}

func TestEnabledChains(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	enabled := cfg.EnabledChains()
	assert.Contains(t, enabled, chain.ETH)
	assert.Contains(t, enabled, chain.Polygon)
	assert.NotContains(t, enabled, chain.Arbitrum) // disabled by default

	cfg.Networks.Arbitrum.Enabled = true
	assert.Contains(t, cfg.EnabledChains(), chain.Arbitrum)
}

func TestCachePath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join("/tmp/home", "balances.json"), config.CachePath("/tmp/home"))
}
