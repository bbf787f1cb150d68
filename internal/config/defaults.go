package config

import "time"

// Default public RPC endpoints. PublicNode (Allnodes) requires no API key
// and has a strong privacy policy.
const (
	DefaultETHRPCURL      = "https://ethereum-rpc.publicnode.com"
	DefaultPolygonRPCURL  = "https://polygon-bor-rpc.publicnode.com"
	DefaultArbitrumRPCURL = "https://arbitrum-one-rpc.publicnode.com"
	DefaultBaseRPCURL     = "https://base-rpc.publicnode.com"
)

// DefaultETHFallbackRPCs are backup Ethereum RPC endpoints tried when the
// primary fails.
//
//nolint:gochecknoglobals // Configuration default constant, same pattern as DefaultETHRPCURL
var DefaultETHFallbackRPCs = []string{
	"https://rpc.ankr.com/eth",
	"https://1rpc.io/eth",
}

// Refresh defaults.
const (
	// DefaultRefreshTimeout bounds one refresh cycle's core queries.
	DefaultRefreshTimeout = 30 * time.Second

	// DefaultMaxConcurrent bounds the number of entities refreshed at once
	// during a refresh-all.
	DefaultMaxConcurrent = 4

	// DefaultWatchInterval is the delay between watch-mode refresh rounds.
	DefaultWatchInterval = 30 * time.Second
)

// USDC contract addresses per chain, tracked by default.
const (
	usdcETH      = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	usdcPolygon  = "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"
	usdcArbitrum = "0xaf88d065e77c8cC2239327C5EDb3A432268e5831"
	usdcBase     = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
)

func defaultTokens(usdcAddress string) []TokenConfig {
	return []TokenConfig{
		{Symbol: "USDC", Address: usdcAddress, Decimals: 6},
	}
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.vitrine",
		Networks: NetworksConfig{
			ETH: NetworkConfig{
				Enabled:      true,
				RPC:          DefaultETHRPCURL,
				FallbackRPCs: DefaultETHFallbackRPCs,
				Tokens:       defaultTokens(usdcETH),
			},
			Polygon: NetworkConfig{
				Enabled: true,
				RPC:     DefaultPolygonRPCURL,
				Tokens:  defaultTokens(usdcPolygon),
			},
			Arbitrum: NetworkConfig{
				Enabled: false,
				RPC:     DefaultArbitrumRPCURL,
				Tokens:  defaultTokens(usdcArbitrum),
			},
			Base: NetworkConfig{
				Enabled: false,
				RPC:     DefaultBaseRPCURL,
				Tokens:  defaultTokens(usdcBase),
			},
		},
		Refresh: RefreshConfig{
			TimeoutSeconds:       int(DefaultRefreshTimeout / time.Second),
			MaxConcurrent:        DefaultMaxConcurrent,
			RatePerSecond:        5,
			Burst:                10,
			WatchIntervalSeconds: int(DefaultWatchInterval / time.Second),
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.vitrine/vitrine.log",
		},
	}
}
