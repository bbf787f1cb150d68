package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitrinewallet/vitrine/internal/chain"
)

func TestParseID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  chain.ID
		valid bool
	}{
		{"eth", chain.ETH, true},
		{"polygon", chain.Polygon, true},
		{"arbitrum", chain.Arbitrum, true},
		{"base", chain.Base, true},
		{"btc", "", false},
		{"", "", false},
		{"ETH", "", false}, // chain IDs are lowercase
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, ok := chain.ParseID(tt.input)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, id)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	t.Parallel()
	eth := chain.ETH.Info()
	assert.Equal(t, "Ethereum", eth.DisplayName)
	assert.Equal(t, "ETH", eth.NativeSymbol)
	assert.Equal(t, 18, eth.NativeDecimals)
	assert.Equal(t, int64(1), eth.NumericID)

	polygon := chain.Polygon.Info()
	assert.Equal(t, "POL", polygon.NativeSymbol)
	assert.Equal(t, int64(137), polygon.NumericID)

	// Unknown chain returns zero Info
	assert.Equal(t, chain.Info{}, chain.ID("unknown").Info())
}

func TestExplorerAddressURL(t *testing.T) {
	t.Parallel()
	url := chain.ETH.ExplorerAddressURL("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	assert.Equal(t, "https://etherscan.io/address/0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", url)

	assert.Empty(t, chain.ID("unknown").ExplorerAddressURL("0xabc"))
}

func TestAll(t *testing.T) {
	t.Parallel()
	all := chain.All()
	assert.Len(t, all, 4)
	for _, id := range all {
		assert.True(t, id.IsValid())
		assert.NotEmpty(t, id.Info().DisplayName)
		assert.NotEmpty(t, id.Info().ExplorerBase)
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"polygn", "polygon"},
		{"ethh", "eth"},
		{"bse", "base"},
		{"arbitrm", "arbitrum"},
		{"solana", ""}, // too far from anything supported
		{"", ""},       // nothing to suggest from
		{"e", ""},      // too short to mean anything
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, chain.Suggest(tt.input))
		})
	}
}
