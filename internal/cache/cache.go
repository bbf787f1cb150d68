// Package cache provides last-known balance caching. The mirror seeds
// entity construction values from here so a restart shows the previous
// balances instead of blanks, and failed refreshes keep serving the last
// good value.
package cache

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/vitrinewallet/vitrine/internal/chain"
	"github.com/vitrinewallet/vitrine/internal/metrics"
	"github.com/vitrinewallet/vitrine/internal/token"
)

// DefaultStaleness is the age after which cache entries are considered stale.
const DefaultStaleness = 5 * time.Minute

// Entry represents a single cached balance. Amounts are stored as
// human-readable decimal strings so the cache file is inspectable.
type Entry struct {
	Chain     chain.ID  `json:"chain"`
	Address   string    `json:"address"`
	Symbol    string    `json:"symbol"`
	Contract  string    `json:"contract,omitempty"`
	Decimals  int       `json:"decimals"`
	Amount    string    `json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromToken builds a cache entry from a token record with a known amount.
func FromToken(address string, tok token.Token) Entry {
	return Entry{
		Chain:     tok.ChainID,
		Address:   address,
		Symbol:    tok.Symbol,
		Contract:  tok.ContractAddress,
		Decimals:  tok.Decimals,
		Amount:    tok.DisplayAmount(),
		UpdatedAt: tok.UpdatedAt,
	}
}

// Token converts the entry back to a token record. Entries with a
// malformed amount convert to an unset token.
func (e Entry) Token() token.Token {
	tok := token.Token{
		ChainID:         e.Chain,
		Symbol:          e.Symbol,
		ContractAddress: e.Contract,
		Decimals:        e.Decimals,
		UpdatedAt:       e.UpdatedAt,
	}
	amount, err := chain.ParseDecimalAmount(e.Amount, e.Decimals)
	if err != nil {
		return tok
	}
	tok.Amount = amount
	return tok
}

// BalanceCache stores cached balance entries keyed by chain, address, and
// token contract.
type BalanceCache struct {
	mu      sync.RWMutex
	Entries map[string]Entry `json:"entries"`
}

// cacheFile is the persisted wire shape.
type cacheFile struct {
	Entries map[string]Entry `json:"entries"`
}

// MarshalJSON serializes the entries under the read lock, so a save racing
// a refresh write-through sees a consistent map.
func (c *BalanceCache) MarshalJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return json.Marshal(cacheFile{Entries: c.Entries})
}

// NewBalanceCache creates a new empty balance cache.
func NewBalanceCache() *BalanceCache {
	return &BalanceCache{
		Entries: make(map[string]Entry),
	}
}

// Key generates a cache key for an address and optional token contract.
func Key(chainID chain.ID, address, contract string) string {
	if contract != "" {
		return string(chainID) + ":" + address + ":" + contract
	}
	return string(chainID) + ":" + address
}

// Get retrieves a cached balance entry.
// Returns the entry, whether it exists, and its age.
func (c *BalanceCache) Get(chainID chain.ID, address, contract string) (*Entry, bool, time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := Key(chainID, address, contract)
	entry, exists := c.Entries[key]
	if !exists {
		metrics.Global.RecordCacheMiss()
		return nil, false, 0
	}

	metrics.Global.RecordCacheHit()
	age := time.Since(entry.UpdatedAt)
	return &entry, true, age
}

// Set stores a balance entry in the cache.
func (c *BalanceCache) Set(entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(entry.Chain, entry.Address, entry.Contract)
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	c.Entries[key] = entry
}

// IsStale checks if a cache entry is older than the default staleness.
func (c *BalanceCache) IsStale(chainID chain.ID, address, contract string) bool {
	_, exists, age := c.Get(chainID, address, contract)
	if !exists {
		return true
	}
	return age > DefaultStaleness
}

// Delete removes a cache entry.
func (c *BalanceCache) Delete(chainID chain.ID, address, contract string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.Entries, Key(chainID, address, contract))
}

// Clear removes all cache entries.
func (c *BalanceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Entries = make(map[string]Entry)
}

// Size returns the number of cache entries.
func (c *BalanceCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.Entries)
}

// GetAllForAddress returns all cached balances for an address on a chain.
func (c *BalanceCache) GetAllForAddress(chainID chain.ID, address string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var entries []Entry
	for _, entry := range c.Entries {
		if entry.Chain == chainID && entry.Address == address {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Prune removes entries older than the specified duration.
func (c *BalanceCache) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxAge)

	for key, entry := range c.Entries {
		if entry.UpdatedAt.Before(cutoff) {
			delete(c.Entries, key)
			removed++
		}
	}

	return removed
}
