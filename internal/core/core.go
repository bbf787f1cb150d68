// Package core defines the boundary to the wallet core: the external
// component that owns key management, chain communication, and balance
// computation. The mirror and refresh coordinator treat it as an opaque
// collaborator reached through the Client interface.
package core

import (
	"context"

	"github.com/vitrinewallet/vitrine/internal/chain"
	"github.com/vitrinewallet/vitrine/internal/token"
)

// Kind distinguishes wallet addresses from per-dapp addresses.
type Kind string

// Address kinds.
const (
	KindWallet Kind = "wallet"
	KindDapp   Kind = "dapp"
)

// AddressRecord is the core-owned record an entity is built from. The
// display attributes derived from it are fixed for the entity's lifetime.
type AddressRecord struct {
	ID      string   // stable, used for equality and hashing
	Account string   // owning account
	Kind    Kind     // wallet or dapp address
	ChainID chain.ID // chain the address lives on
	Address string   // checksummed hex address
	Label   string   // optional user label
}

// EntityID returns the deterministic entity id for an address on a chain.
func EntityID(chainID chain.ID, address string) string {
	return chainID.String() + ":" + address
}

// Client is the query surface of the core. Both fetch operations may block
// the calling goroutine on network I/O; callers must run them off any
// latency-sensitive goroutine. Both fail with pkg/errors.ErrCoreQuery on
// network or chain failure.
type Client interface {
	// ListAddresses returns the address records the core tracks.
	ListAddresses(ctx context.Context) ([]AddressRecord, error)

	// FetchNativeBalance retrieves the native token balance for an entity.
	FetchNativeBalance(ctx context.Context, entityID string) (token.Token, error)

	// FetchFungibleBalances retrieves the tracked fungible token balances
	// for an entity, in the core's configured order.
	FetchFungibleBalances(ctx context.Context, entityID string) ([]token.Token, error)
}
