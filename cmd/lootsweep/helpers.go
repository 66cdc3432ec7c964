package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/viper"

	"github.com/mariveth/lootsweep/internal/config"
	"github.com/mariveth/lootsweep/internal/discard"
	"github.com/mariveth/lootsweep/internal/exclusion"
	"github.com/mariveth/lootsweep/internal/game"
	"github.com/mariveth/lootsweep/internal/market"
	"github.com/mariveth/lootsweep/internal/model"
	"github.com/mariveth/lootsweep/internal/service"
	"github.com/mariveth/lootsweep/internal/storage"
)

// loadConfig materializes the current viper state.
func loadConfig() config.Config {
	return config.Load(viper.GetViper())
}

// initStorage opens the cache/history database with auto-migration.
func initStorage(ctx context.Context, cfg config.Config) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initExclusionStore opens the exclusion list store.
func initExclusionStore(cfg config.Config) (*exclusion.Store, error) {
	return exclusion.NewStore(cfg.ListsDir())
}

// initBridge creates the game bridge client.
func initBridge(cfg config.Config) *game.BridgeClient {
	return game.NewBridgeClient(cfg.BridgeURL, 0)
}

// initPriceCache wires the Universalis client and storage into a
// hydrated price cache.
func initPriceCache(ctx context.Context, cfg config.Config, store service.Storage) (*market.Cache, error) {
	client := market.NewUniversalisClient("", cfg.Market.FetchTimeout)
	cache := market.NewCache(client, store, market.CacheOptions{
		World:        cfg.Market.World,
		TTL:          cfg.Market.TTL(),
		FetchTimeout: cfg.Market.FetchTimeout,
	})

	if err := cache.Hydrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to hydrate price cache: %w", err)
	}

	return cache, nil
}

// gearsetFunc adapts the bridge's gearset lookup for the classifier,
// degrading lookup failures to "not in gearset".
func gearsetFunc(ctx context.Context, lookup discard.GearsetLookup) func(model.ItemID) bool {
	cache := make(map[model.ItemID]bool)
	return func(id model.ItemID) bool {
		if hit, ok := cache[id]; ok {
			return hit
		}
		inGearset, err := lookup.IsInGearset(ctx, id)
		if err != nil {
			inGearset = false
		}
		cache[id] = inGearset
		return inGearset
	}
}

// parseItemIDs converts command arguments to item ids.
func parseItemIDs(args []string) ([]model.ItemID, error) {
	ids := make([]model.ItemID, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q: %w", arg, err)
		}
		ids = append(ids, model.ItemID(n))
	}
	return ids, nil
}
