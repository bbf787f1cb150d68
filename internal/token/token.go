// Package token defines the token balance record mirrored for each address.
package token

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/vitrinewallet/vitrine/internal/chain"
)

// Token is a semantic balance record for a native or fungible (ERC-20)
// token. Amount is nil while the value is loading or unknown, which is
// distinct from a numeric zero.
type Token struct {
	ChainID         chain.ID
	Symbol          string
	ContractAddress string // empty for the chain's native token
	Decimals        int
	Amount          *big.Int // smallest units; nil means unset
	UpdatedAt       time.Time
}

// Native returns an unset native-token record for the given chain.
func Native(chainID chain.ID) Token {
	info := chainID.Info()
	return Token{
		ChainID:  chainID,
		Symbol:   info.NativeSymbol,
		Decimals: info.NativeDecimals,
	}
}

// Fungible returns an unset fungible-token record.
func Fungible(chainID chain.ID, symbol, contract string, decimals int) Token {
	return Token{
		ChainID:         chainID,
		Symbol:          symbol,
		ContractAddress: contract,
		Decimals:        decimals,
	}
}

// IsNative reports whether the token is the chain's native token.
func (t Token) IsNative() bool {
	return t.ContractAddress == ""
}

// HasAmount reports whether the amount is known.
func (t Token) HasAmount() bool {
	return t.Amount != nil
}

// WithAmount returns a copy with the amount set and the update time stamped.
func (t Token) WithAmount(amount *big.Int, at time.Time) Token {
	t.Amount = amount
	t.UpdatedAt = at
	return t
}

// DisplayAmount returns the human-readable decimal amount, or an empty
// string while the amount is unset.
func (t Token) DisplayAmount() string {
	if t.Amount == nil {
		return ""
	}
	return chain.FormatDecimalAmount(t.Amount, t.Decimals)
}

// tokenJSON is the wire shape for JSON output. Amount is a decimal string,
// null while unset.
type tokenJSON struct {
	Chain     chain.ID  `json:"chain"`
	Symbol    string    `json:"symbol"`
	Contract  string    `json:"contract,omitempty"`
	Decimals  int       `json:"decimals"`
	Amount    *string   `json:"amount"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// MarshalJSON renders the amount as a human-readable decimal string.
func (t Token) MarshalJSON() ([]byte, error) {
	out := tokenJSON{
		Chain:     t.ChainID,
		Symbol:    t.Symbol,
		Contract:  t.ContractAddress,
		Decimals:  t.Decimals,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Amount != nil {
		s := chain.FormatDecimalAmount(t.Amount, t.Decimals)
		out.Amount = &s
	}
	return json.Marshal(out)
}
