// Package mirror holds the presentation-side copy of core-owned wallet
// state. Entities expose the last successfully fetched balances plus a
// loading flag; reads never fail and never block on the network. All
// mutation goes through the dispatcher's apply loop, so the setters here
// are only ever called from one goroutine; the lock exists so any
// goroutine may read a consistent snapshot.
package mirror

import (
	"sync"

	"github.com/vitrinewallet/vitrine/internal/chain"
	"github.com/vitrinewallet/vitrine/internal/core"
	"github.com/vitrinewallet/vitrine/internal/token"
)

// Entity mirrors one tracked address. The identity and display attributes
// are fixed at construction; the token fields and loading flag change as
// refresh cycles complete.
type Entity struct {
	// Static identity and display attributes
	ID          string
	Account     string
	Kind        core.Kind
	ChainID     chain.ID
	Address     string
	Label       string
	ExplorerURL string
	Icon        string

	publish func(Event)

	mu          sync.RWMutex
	nativeToken token.Token
	fungibles   []token.Token
	loading     bool
	nativeErr   error
	fungibleErr error
}

// NewEntity builds an entity from a core address record. The native token
// starts unset; amounts appear after the first refresh or cache seed.
func NewEntity(record core.AddressRecord) *Entity {
	return &Entity{
		ID:          record.ID,
		Account:     record.Account,
		Kind:        record.Kind,
		ChainID:     record.ChainID,
		Address:     record.Address,
		Label:       record.Label,
		ExplorerURL: record.ChainID.ExplorerAddressURL(record.Address),
		Icon:        record.ChainID.Info().Icon,
		nativeToken: token.Native(record.ChainID),
	}
}

// DisplayName returns the user label when set, otherwise a shortened
// address form like 0xd8dA…6045.
func (e *Entity) DisplayName() string {
	if e.Label != "" {
		return e.Label
	}
	if len(e.Address) > 10 {
		return e.Address[:6] + "…" + e.Address[len(e.Address)-4:]
	}
	return e.Address
}

// NativeToken returns the last known native token balance.
func (e *Entity) NativeToken() token.Token {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.nativeToken
}

// FungibleTokens returns a copy of the last known fungible token balances.
func (e *Entity) FungibleTokens() []token.Token {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]token.Token, len(e.fungibles))
	copy(out, e.fungibles)
	return out
}

// Loading reports whether a refresh cycle is in flight for this entity.
func (e *Entity) Loading() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loading
}

// LastNativeError returns the error from the most recent native sub-fetch,
// or nil if it succeeded. A non-nil error means the visible native value
// is stale.
func (e *Entity) LastNativeError() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.nativeErr
}

// LastFungibleError returns the error from the most recent fungible
// sub-fetch, or nil if it succeeded.
func (e *Entity) LastFungibleError() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fungibleErr
}

// SetNative records the result of a native sub-fetch. On failure the
// previous value stays visible and only the error is recorded.
func (e *Entity) SetNative(tok token.Token, err error) {
	e.mu.Lock()
	if err == nil {
		e.nativeToken = tok
	}
	e.nativeErr = err
	e.mu.Unlock()

	e.emit(EventNativeUpdated)
}

// SetFungibles records the result of a fungible sub-fetch. On failure the
// previous list stays visible and only the error is recorded.
func (e *Entity) SetFungibles(toks []token.Token, err error) {
	e.mu.Lock()
	if err == nil {
		e.fungibles = toks
	}
	e.fungibleErr = err
	e.mu.Unlock()

	e.emit(EventFungiblesUpdated)
}

// SetLoading toggles the loading flag.
func (e *Entity) SetLoading(loading bool) {
	e.mu.Lock()
	changed := e.loading != loading
	e.loading = loading
	e.mu.Unlock()

	if changed {
		e.emit(EventLoadingChanged)
	}
}

// seed installs cache-derived construction values without publishing
// events or touching the error fields.
func (e *Entity) seed(native token.Token, fungibles []token.Token) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if native.HasAmount() {
		e.nativeToken = native
	}
	if len(fungibles) > 0 {
		e.fungibles = fungibles
	}
}

func (e *Entity) emit(kind EventKind) {
	if e.publish != nil {
		e.publish(Event{EntityID: e.ID, Kind: kind})
	}
}
