package mirror

import (
	"sort"
	"sync"

	"github.com/vitrinewallet/vitrine/internal/cache"
	"github.com/vitrinewallet/vitrine/internal/core"
	"github.com/vitrinewallet/vitrine/internal/token"
)

// List is the address list view: the owning collection of mirrored
// entities, rebuilt from core records. Entities keep their identity across
// rebuilds; only records that appear or disappear change the list.
type List struct {
	bus *Bus

	mu       sync.RWMutex
	entities map[string]*Entity
	order    []string
}

// NewList creates an empty list publishing to the given bus.
func NewList(bus *Bus) *List {
	if bus == nil {
		bus = NewBus()
	}
	return &List{
		bus:      bus,
		entities: make(map[string]*Entity),
	}
}

// Bus returns the event bus the list publishes to.
func (l *List) Bus() *Bus {
	return l.bus
}

// Rebuild reconciles the list against the core's current records. Existing
// entities are kept as-is so their mirrored balances survive; new records
// gain fresh entities and removed records drop theirs. Order follows the
// records.
func (l *List) Rebuild(records []core.AddressRecord) {
	l.mu.Lock()

	seen := make(map[string]bool, len(records))
	order := make([]string, 0, len(records))
	var added, removed []string

	for _, record := range records {
		if seen[record.ID] {
			continue
		}
		seen[record.ID] = true
		order = append(order, record.ID)

		if _, exists := l.entities[record.ID]; !exists {
			entity := NewEntity(record)
			entity.publish = l.bus.Publish
			l.entities[record.ID] = entity
			added = append(added, record.ID)
		}
	}

	for id := range l.entities {
		if !seen[id] {
			delete(l.entities, id)
			removed = append(removed, id)
		}
	}
	l.order = order
	l.mu.Unlock()

	for _, id := range added {
		l.bus.Publish(Event{EntityID: id, Kind: EventEntityAdded})
	}
	for _, id := range removed {
		l.bus.Publish(Event{EntityID: id, Kind: EventEntityRemoved})
	}
}

// Get returns the entity with the given id.
func (l *List) Get(id string) (*Entity, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entity, ok := l.entities[id]
	return entity, ok
}

// Entities returns the entities in list order.
func (l *List) Entities() []*Entity {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Entity, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.entities[id])
	}
	return out
}

// Len returns the number of entities.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

// SeedFromCache installs last-known balances from the cache as entity
// construction values, so a fresh process shows the previous numbers
// until the first refresh lands.
func (l *List) SeedFromCache(bc *cache.BalanceCache) {
	for _, entity := range l.Entities() {
		entries := bc.GetAllForAddress(entity.ChainID, entity.Address)
		if len(entries) == 0 {
			continue
		}

		var native token.Token
		var fungibles []token.Token
		for _, entry := range entries {
			tok := entry.Token()
			if !tok.HasAmount() {
				continue
			}
			if tok.IsNative() {
				native = tok
			} else {
				fungibles = append(fungibles, tok)
			}
		}
		sort.Slice(fungibles, func(i, j int) bool {
			return fungibles[i].Symbol < fungibles[j].Symbol
		})

		entity.seed(native, fungibles)
	}
}
