package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitrinewallet/vitrine/internal/chain"
	"github.com/vitrinewallet/vitrine/internal/metrics"
	"github.com/vitrinewallet/vitrine/internal/mirror"
	"github.com/vitrinewallet/vitrine/internal/output"
	vitrerr "github.com/vitrinewallet/vitrine/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// addressesChain filters output to one chain.
	addressesChain string
	// addressesAccount filters output to one account.
	addressesAccount string
	// addressesRefresh pulls fresh balances before listing.
	addressesRefresh bool
	// addressesTargets is a list of specific addresses to refresh.
	addressesTargets []string
)

// addressesCmd is the parent command for address operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var addressesCmd = &cobra.Command{
	Use:   "addresses",
	Short: "View and refresh tracked addresses",
	Long: `View the tracked wallet and dapp addresses with their balances.

Balances come from the mirror: the last successfully fetched values, seeded
from the cache at startup. Use --refresh to pull fresh values first.`,
}

// addressesListCmd lists the tracked addresses with balances.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var addressesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked addresses with balances",
	Long: `List the tracked addresses with their native and token balances.

Shows the last known values. Balances that have never been fetched render
as "-"; values left behind by a failed refresh are marked stale.`,
	Example: `  # List all tracked addresses
  vitrine addresses list

  # Refresh first, then list
  vitrine addresses list --refresh

  # Only Ethereum addresses, as JSON
  vitrine addresses list --chain eth -o json`,
	RunE: runAddressesList,
}

// addressesRefreshCmd pulls fresh balances for tracked addresses.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var addressesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh address balances from the chain",
	Long: `Refresh native and token balances from the configured RPC endpoints.

Each address refreshes its native balance and its tracked token balances
concurrently. A failed fetch keeps the previous value visible and marks
the address stale. By default all addresses refresh; use --address to
target specific ones.`,
	Example: `  # Refresh everything
  vitrine addresses refresh

  # Refresh Polygon addresses only
  vitrine addresses refresh --chain polygon

  # Refresh specific addresses
  vitrine addresses refresh --address 0xd8dA... --address 0x1234...`,
	RunE: runAddressesRefresh,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(addressesCmd)
	addressesCmd.AddCommand(addressesListCmd)
	addressesCmd.AddCommand(addressesRefreshCmd)

	addressesListCmd.Flags().StringVarP(&addressesChain, "chain", "c", "", "filter by chain (eth, polygon, arbitrum, base)")
	addressesListCmd.Flags().StringVar(&addressesAccount, "account", "", "filter by account")
	addressesListCmd.Flags().BoolVar(&addressesRefresh, "refresh", false, "pull fresh balances before listing")

	addressesRefreshCmd.Flags().StringVarP(&addressesChain, "chain", "c", "", "filter by chain (eth, polygon, arbitrum, base)")
	addressesRefreshCmd.Flags().StringVar(&addressesAccount, "account", "", "filter by account")
	addressesRefreshCmd.Flags().StringArrayVar(&addressesTargets, "address", nil, "specific address(es) to refresh (repeatable)")
}

func runAddressesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	entities, err := filterEntities(a.list)
	if err != nil {
		return err
	}

	if addressesRefresh {
		if err = a.coordinator.RefreshMany(ctx, entityIDs(entities)); err != nil {
			return err
		}
	}

	return displayEntities(cmd, entities)
}

func runAddressesRefresh(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	entities, err := filterEntities(a.list)
	if err != nil {
		return err
	}
	if len(addressesTargets) > 0 {
		entities, err = resolveTargets(entities, addressesTargets)
		if err != nil {
			return err
		}
	}

	if len(entities) == 0 {
		return formatter.Println("No addresses to refresh.")
	}

	start := time.Now()
	if err = a.coordinator.RefreshMany(ctx, entityIDs(entities)); err != nil {
		return err
	}

	if !formatter.IsJSON() {
		_ = formatter.Printf("Refreshed %d address(es) in %s\n\n", len(entities), time.Since(start).Round(time.Millisecond))
	}
	if err = displayEntities(cmd, entities); err != nil {
		return err
	}

	if cfg.Output.Verbose && !formatter.IsJSON() {
		displayMetrics()
	}
	return nil
}

// filterEntities applies the --chain and --account filters to the list.
func filterEntities(list *mirror.List) ([]*mirror.Entity, error) {
	entities := list.Entities()

	if addressesChain != "" {
		chainID, ok := chain.ParseID(strings.ToLower(addressesChain))
		if !ok {
			err := vitrerr.WithDetails(vitrerr.ErrUnsupportedChain, map[string]string{"chain": addressesChain})
			if suggestion := chain.Suggest(addressesChain); suggestion != "" {
				err = vitrerr.WithSuggestion(err, fmt.Sprintf("did you mean %q?", suggestion))
			}
			return nil, err
		}
		entities = filter(entities, func(e *mirror.Entity) bool { return e.ChainID == chainID })
	}

	if addressesAccount != "" {
		entities = filter(entities, func(e *mirror.Entity) bool { return e.Account == addressesAccount })
	}

	return entities, nil
}

// resolveTargets narrows entities down to the requested addresses. Every
// requested address must match a tracked entity.
func resolveTargets(entities []*mirror.Entity, targets []string) ([]*mirror.Entity, error) {
	var resolved []*mirror.Entity
	for _, target := range targets {
		found := false
		for _, e := range entities {
			if strings.EqualFold(e.Address, target) {
				resolved = append(resolved, e)
				found = true
				break
			}
		}
		if !found {
			return nil, vitrerr.WithSuggestion(
				vitrerr.ErrEntityNotFound,
				fmt.Sprintf("address %s is not tracked; add it to the config first", target),
			)
		}
	}
	return resolved, nil
}

func entityIDs(entities []*mirror.Entity) []string {
	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	return ids
}

func filter(entities []*mirror.Entity, keep func(*mirror.Entity) bool) []*mirror.Entity {
	var out []*mirror.Entity
	for _, e := range entities {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// displayEntities renders the entity views in the active format.
func displayEntities(cmd *cobra.Command, entities []*mirror.Entity) error {
	views := output.EntityViews(entities)

	if formatter.IsJSON() {
		return formatter.Print(map[string]any{"addresses": views})
	}

	if len(views) == 0 {
		return formatter.Println("No addresses tracked. Add addresses to the config and try again.")
	}
	return output.RenderEntityTable(cmd.OutOrStdout(), views)
}

// displayMetrics prints a one-shot metrics summary for verbose mode.
func displayMetrics() {
	snap := metrics.Global.Snapshot()
	_ = formatter.Printf("\nrefresh cycles: %d (coalesced %d)  core calls: %d (errors %d, avg %.1fms)\n",
		snap.RefreshCycles, snap.RefreshCoalesced,
		snap.CoreCallsTotal, snap.CoreErrorsTotal,
		metrics.Global.CoreLatencyAvgMs())
}
