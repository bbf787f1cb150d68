package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/vitrinewallet/vitrine/internal/chain"
)

// Environment variable names.
const (
	EnvHome         = "VITRINE_HOME"
	EnvOutputFormat = "VITRINE_OUTPUT_FORMAT"
	EnvVerbose      = "VITRINE_VERBOSE"
	EnvLogLevel     = "VITRINE_LOG_LEVEL"
	EnvNoColor      = "NO_COLOR"

	// Per-chain RPC override prefix, e.g. VITRINE_ETH_RPC, VITRINE_POLYGON_RPC.
	envRPCPrefix = "VITRINE_"
	envRPCSuffix = "_RPC"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	for _, id := range chain.All() {
		key := envRPCPrefix + strings.ToUpper(id.String()) + envRPCSuffix
		if v := os.Getenv(key); v != "" {
			nc, _ := cfg.Network(id)
			nc.RPC = strings.TrimSpace(v)
			cfg.setNetwork(id, nc)
		}
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
