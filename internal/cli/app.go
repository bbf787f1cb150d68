package cli

import (
	"context"
	"errors"
	"time"

	"github.com/vitrinewallet/vitrine/internal/cache"
	"github.com/vitrinewallet/vitrine/internal/config"
	"github.com/vitrinewallet/vitrine/internal/core"
	"github.com/vitrinewallet/vitrine/internal/dispatch"
	"github.com/vitrinewallet/vitrine/internal/mirror"
	"github.com/vitrinewallet/vitrine/internal/refresh"
)

// app bundles the stack behind one command invocation: the core client,
// the dispatcher, the mirror list, and the refresh coordinator.
type app struct {
	core         core.Client
	dispatcher   *dispatch.Dispatcher
	bus          *mirror.Bus
	list         *mirror.List
	coordinator  *refresh.Coordinator
	cache        *cache.BalanceCache
	cacheStorage *cache.FileStorage
}

// newApp builds the stack from the global config, syncs the mirror list
// from the core, and seeds it with cached balances.
func newApp(ctx context.Context) (*app, error) {
	evm, err := core.NewEVMCore(cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &app{
		core:         evm,
		dispatcher:   dispatch.New(logger),
		bus:          mirror.NewBus(),
		cacheStorage: cache.NewFileStorage(config.CachePath(cfg.GetHome())),
	}
	a.list = mirror.NewList(a.bus)
	a.cache = loadOrCreateBalanceCache(a.cacheStorage)

	a.coordinator = refresh.NewCoordinator(refresh.Options{
		Core:          a.core,
		List:          a.list,
		Dispatcher:    a.dispatcher,
		Cache:         a.cache,
		Logger:        logger,
		Timeout:       time.Duration(cfg.Refresh.TimeoutSeconds) * time.Second,
		MaxConcurrent: cfg.Refresh.MaxConcurrent,
	})

	if err = a.coordinator.SyncAddresses(ctx); err != nil {
		a.dispatcher.Close()
		return nil, err
	}
	a.list.SeedFromCache(a.cache)

	return a, nil
}

// close persists the balance cache and shuts the dispatcher down.
func (a *app) close() {
	if err := a.cacheStorage.Save(a.cache); err != nil {
		logger.Error("failed to save balance cache: %v", err)
	}
	a.dispatcher.Close()
}

// loadOrCreateBalanceCache loads the balance cache from storage, or creates
// a fresh one when the file is missing or corrupted.
func loadOrCreateBalanceCache(storage *cache.FileStorage) *cache.BalanceCache {
	balanceCache, err := storage.Load()
	if err == nil {
		return balanceCache
	}

	if errors.Is(err, cache.ErrCorruptCache) {
		logger.Error("balance cache file is corrupted: %v", err)
	} else {
		logger.Debug("no balance cache loaded: %v", err)
	}
	return cache.NewBalanceCache()
}
