// Package refresh drives balance refresh cycles: it pulls fresh values
// from the core on the dispatcher's worker pools and applies them to the
// mirror through its apply loop. A cycle soft-fails: fetch errors are
// logged and recorded on the entity, never returned, and the previous
// values stay visible.
package refresh

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/vitrinewallet/vitrine/internal/cache"
	"github.com/vitrinewallet/vitrine/internal/config"
	"github.com/vitrinewallet/vitrine/internal/core"
	"github.com/vitrinewallet/vitrine/internal/dispatch"
	"github.com/vitrinewallet/vitrine/internal/metrics"
	"github.com/vitrinewallet/vitrine/internal/mirror"
	"github.com/vitrinewallet/vitrine/internal/token"
	vitrerr "github.com/vitrinewallet/vitrine/pkg/errors"
)

// DefaultTimeout bounds one refresh cycle.
const DefaultTimeout = 30 * time.Second

// DefaultMaxConcurrent bounds entity-level parallelism in RefreshAll.
const DefaultMaxConcurrent = 4

// Options configures a Coordinator.
type Options struct {
	Core       core.Client
	List       *mirror.List
	Dispatcher *dispatch.Dispatcher
	Cache      *cache.BalanceCache // optional write-through
	Logger     *config.Logger

	// Timeout bounds one cycle; zero means DefaultTimeout.
	Timeout time.Duration
	// MaxConcurrent bounds RefreshAll parallelism; zero means
	// DefaultMaxConcurrent.
	MaxConcurrent int
	// Priority selects the dispatcher pool the sub-fetches run on.
	// The zero value is the user-interactive pool.
	Priority dispatch.Priority
}

// Coordinator owns refresh cycles for the entities in a mirror list.
// Concurrent refreshes of the same entity coalesce into a single cycle,
// so the loading flag is only ever toggled by the cycle that set it.
type Coordinator struct {
	core       core.Client
	list       *mirror.List
	dispatcher *dispatch.Dispatcher
	cache      *cache.BalanceCache
	logger     *config.Logger

	timeout       time.Duration
	maxConcurrent int
	priority      dispatch.Priority

	group singleflight.Group
}

// NewCoordinator creates a coordinator from options.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = config.NullLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}

	return &Coordinator{
		core:          opts.Core,
		list:          opts.List,
		dispatcher:    opts.Dispatcher,
		cache:         opts.Cache,
		logger:        opts.Logger,
		timeout:       opts.Timeout,
		maxConcurrent: opts.MaxConcurrent,
		priority:      opts.Priority,
	}
}

// SyncAddresses rebuilds the mirror list from the core's current address
// records. The rebuild itself runs on the apply loop.
func (c *Coordinator) SyncAddresses(ctx context.Context) error {
	records, err := c.core.ListAddresses(ctx)
	if err != nil {
		return err
	}
	return c.dispatcher.ApplyWait(func() {
		c.list.Rebuild(records)
	})
}

// Refresh runs one refresh cycle for the entity and returns once the cycle
// has settled. Fetch failures do not surface here: they are logged,
// recorded on the entity, and the previous values stay visible. The only
// errors returned are an unknown entity id and a closed dispatcher.
// Concurrent calls for the same entity join the in-flight cycle.
func (c *Coordinator) Refresh(ctx context.Context, entityID string) error {
	entity, ok := c.list.Get(entityID)
	if !ok {
		return vitrerr.WithDetails(vitrerr.ErrEntityNotFound, map[string]string{"entity": entityID})
	}

	_, err, shared := c.group.Do(entityID, func() (interface{}, error) {
		return nil, c.cycle(ctx, entity)
	})
	if shared {
		metrics.Global.RecordRefreshCoalesced()
	}
	return err
}

// cycle submits the two sub-fetches to the coordinator's dispatcher pool,
// waits for both, and brackets them with the loading flag. The sub-fetches
// are independent: neither observes the other, and a failure in one does
// not abort the other.
func (c *Coordinator) cycle(ctx context.Context, entity *mirror.Entity) error {
	metrics.Global.RecordRefreshCycle()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.dispatcher.ApplyWait(func() { entity.SetLoading(true) }); err != nil {
		return err
	}
	// Clears on every exit path. The apply loop is FIFO, so the field
	// updates posted below land before the flag flips back.
	defer func() {
		if err := c.dispatcher.ApplyWait(func() { entity.SetLoading(false) }); err != nil {
			entity.SetLoading(false)
		}
	}()

	var wg sync.WaitGroup
	var submitErr error
	submit := func(fetch func()) {
		wg.Add(1)
		err := c.dispatcher.Go(c.priority, func() {
			defer wg.Done()
			fetch()
		})
		if err != nil {
			wg.Done()
			submitErr = err
		}
	}

	submit(func() { c.fetchNative(ctx, entity) })
	submit(func() { c.fetchFungibles(ctx, entity) })
	wg.Wait()

	return submitErr
}

// fetchNative refreshes the entity's native balance. Failures are recorded
// on the entity, not returned.
func (c *Coordinator) fetchNative(ctx context.Context, entity *mirror.Entity) {
	tok, err := c.core.FetchNativeBalance(ctx, entity.ID)
	if err != nil {
		c.logger.Error("native refresh failed for %s: %v", entity.ID, err)
		c.apply(func() { entity.SetNative(token.Token{}, err) })
		return
	}
	c.apply(func() { entity.SetNative(tok, nil) })
	c.cacheToken(entity.Address, tok)
}

// fetchFungibles refreshes the entity's fungible token balances. Failures
// are recorded on the entity, not returned.
func (c *Coordinator) fetchFungibles(ctx context.Context, entity *mirror.Entity) {
	toks, err := c.core.FetchFungibleBalances(ctx, entity.ID)
	if err != nil {
		c.logger.Error("fungible refresh failed for %s: %v", entity.ID, err)
		c.apply(func() { entity.SetFungibles(nil, err) })
		return
	}
	c.apply(func() { entity.SetFungibles(toks, nil) })
	for _, tok := range toks {
		c.cacheToken(entity.Address, tok)
	}
}

// RefreshAll refreshes every entity in the list with bounded concurrency
// and returns once all cycles have settled. Per-entity failures soft-fail
// as in Refresh.
func (c *Coordinator) RefreshAll(ctx context.Context) error {
	return c.RefreshMany(ctx, nil)
}

// RefreshMany refreshes the given entity ids, or every entity when ids is
// nil. Unknown ids are skipped with a log line rather than failing the
// batch.
func (c *Coordinator) RefreshMany(ctx context.Context, ids []string) error {
	if ids == nil {
		for _, entity := range c.list.Entities() {
			ids = append(ids, entity.ID)
		}
	}

	var g errgroup.Group
	g.SetLimit(c.maxConcurrent)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := c.Refresh(ctx, id); err != nil {
				if vitrerr.Is(err, vitrerr.ErrEntityNotFound) {
					c.logger.Error("skipping unknown entity %s", id)
					return nil
				}
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// cacheToken writes one fetched balance through to the cache.
func (c *Coordinator) cacheToken(address string, tok token.Token) {
	if c.cache == nil || !tok.HasAmount() {
		return
	}
	c.cache.Set(cache.FromToken(address, tok))
}

// apply posts a mutation to the apply loop, logging instead of failing
// when the dispatcher is shutting down.
func (c *Coordinator) apply(fn func()) {
	if err := c.dispatcher.Apply(fn); err != nil {
		c.logger.Debug("apply skipped: %v", err)
	}
}
