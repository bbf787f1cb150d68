// Package chain provides the supported chain registry, display metadata,
// and common utilities shared by the core client and the CLI.
package chain

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// ID represents a supported blockchain.
type ID string

// Supported blockchain identifiers. All are EVM-compatible, so a single
// core client implementation serves every entry.
const (
	ETH      ID = "eth"
	Polygon  ID = "polygon"
	Arbitrum ID = "arbitrum"
	Base     ID = "base"
)

// Info holds the static display attributes for a chain. These are fixed
// at construction and never mutated by refreshes.
type Info struct {
	DisplayName    string // Human-readable chain name
	NativeSymbol   string // Symbol of the native token
	NativeDecimals int    // Decimals of the native token
	NumericID      int64  // EIP-155 chain ID
	ExplorerBase   string // Block explorer base URL
	Icon           string // Icon asset name
}

// registry maps chain IDs to their static metadata.
//
//nolint:gochecknoglobals // Static chain registry
var registry = map[ID]Info{
	ETH: {
		DisplayName:    "Ethereum",
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
		NumericID:      1,
		ExplorerBase:   "https://etherscan.io",
		Icon:           "eth",
	},
	Polygon: {
		DisplayName:    "Polygon PoS",
		NativeSymbol:   "POL",
		NativeDecimals: 18,
		NumericID:      137,
		ExplorerBase:   "https://polygonscan.com",
		Icon:           "polygon",
	},
	Arbitrum: {
		DisplayName:    "Arbitrum One",
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
		NumericID:      42161,
		ExplorerBase:   "https://arbiscan.io",
		Icon:           "arbitrum",
	},
	Base: {
		DisplayName:    "Base",
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
		NumericID:      8453,
		ExplorerBase:   "https://basescan.org",
		Icon:           "base",
	},
}

// String returns the chain identifier string.
func (id ID) String() string {
	return string(id)
}

// IsValid returns true if the chain ID is a known chain.
func (id ID) IsValid() bool {
	_, ok := registry[id]
	return ok
}

// Info returns the static metadata for a chain. Unknown chains return the
// zero Info.
func (id ID) Info() Info {
	return registry[id]
}

// ExplorerAddressURL returns the block explorer URL for an address on this
// chain, or an empty string for unknown chains.
func (id ID) ExplorerAddressURL(address string) string {
	info, ok := registry[id]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s/address/%s", info.ExplorerBase, address)
}

// ParseID parses a string into a chain ID.
func ParseID(s string) (ID, bool) {
	id := ID(s)
	return id, id.IsValid()
}

// All returns all supported chain IDs in a stable order.
func All() []ID {
	return []ID{ETH, Polygon, Arbitrum, Base}
}

// maxSuggestDistance is the largest edit distance still offered as a
// "did you mean" suggestion for a mistyped chain name.
const maxSuggestDistance = 3

// Suggest returns the closest known chain name for a mistyped input, or an
// empty string if nothing is close enough. Inputs shorter than two
// characters are within the distance cap of everything, so they get no
// suggestion.
func Suggest(input string) string {
	if len(input) < 2 {
		return ""
	}

	best := ""
	bestDist := maxSuggestDistance + 1

	for _, id := range All() {
		dist := levenshtein.ComputeDistance(input, id.String())
		if dist < bestDist {
			bestDist = dist
			best = id.String()
		}
	}

	return best
}
