// Package config provides configuration management for Vitrine.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vitrinewallet/vitrine/internal/atomicfile"
	"github.com/vitrinewallet/vitrine/internal/chain"
)

// Config represents the application configuration.
type Config struct {
	Version   int             `yaml:"version"`
	Home      string          `yaml:"home"`
	Networks  NetworksConfig  `yaml:"networks"`
	Addresses []AddressConfig `yaml:"addresses"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// NetworksConfig defines per-chain network settings.
type NetworksConfig struct {
	ETH      NetworkConfig `yaml:"eth"`
	Polygon  NetworkConfig `yaml:"polygon"`
	Arbitrum NetworkConfig `yaml:"arbitrum"`
	Base     NetworkConfig `yaml:"base"`
}

// NetworkConfig defines the settings for one chain.
type NetworkConfig struct {
	Enabled      bool          `yaml:"enabled"`
	RPC          string        `yaml:"rpc"`
	FallbackRPCs []string      `yaml:"fallback_rpcs,omitempty"`
	Tokens       []TokenConfig `yaml:"tokens"`
}

// TokenConfig defines an ERC-20 token tracked on a chain.
type TokenConfig struct {
	Symbol   string `yaml:"symbol"`
	Address  string `yaml:"address"`
	Decimals int    `yaml:"decimals"`
}

// AddressConfig defines a watched address. The core builds its address
// records from these entries.
type AddressConfig struct {
	Account string `yaml:"account"`
	Kind    string `yaml:"kind"` // "wallet" or "dapp"
	Chain   string `yaml:"chain"`
	Address string `yaml:"address"`
	Label   string `yaml:"label,omitempty"`
}

// RefreshConfig defines refresh coordinator settings.
type RefreshConfig struct {
	TimeoutSeconds       int     `yaml:"timeout_seconds"`
	MaxConcurrent        int     `yaml:"max_concurrent"`
	RatePerSecond        float64 `yaml:"rate_per_second"`
	Burst                int     `yaml:"burst"`
	WatchIntervalSeconds int     `yaml:"watch_interval_seconds"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return atomicfile.Write(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// CachePath returns the balance cache file path.
func CachePath(home string) string {
	return filepath.Join(home, "balances.json")
}

// Network returns the network settings for a chain.
func (c *Config) Network(id chain.ID) (NetworkConfig, bool) {
	switch id {
	case chain.ETH:
		return c.Networks.ETH, true
	case chain.Polygon:
		return c.Networks.Polygon, true
	case chain.Arbitrum:
		return c.Networks.Arbitrum, true
	case chain.Base:
		return c.Networks.Base, true
	default:
		return NetworkConfig{}, false
	}
}

// setNetwork replaces the network settings for a chain.
func (c *Config) setNetwork(id chain.ID, nc NetworkConfig) {
	switch id {
	case chain.ETH:
		c.Networks.ETH = nc
	case chain.Polygon:
		c.Networks.Polygon = nc
	case chain.Arbitrum:
		c.Networks.Arbitrum = nc
	case chain.Base:
		c.Networks.Base = nc
	}
}

// EnabledChains returns the chains with networking enabled, in registry order.
func (c *Config) EnabledChains() []chain.ID {
	var out []chain.ID
	for _, id := range chain.All() {
		if nc, ok := c.Network(id); ok && nc.Enabled {
			out = append(out, id)
		}
	}
	return out
}

// GetHome returns the vitrine home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default vitrine home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vitrine"
	}
	return filepath.Join(home, ".vitrine")
}
