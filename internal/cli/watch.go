package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vitrinewallet/vitrine/internal/mirror"
	"github.com/vitrinewallet/vitrine/internal/refresh"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var watchInterval time.Duration

// watchCmd periodically refreshes all addresses and streams mirror events.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously refresh and stream balance changes",
	Long: `Watch tracked addresses: refresh all balances on an interval and print
a line for every mirror change as it lands.

Runs until interrupted. Failed fetches keep the last values and are
reported as stale.`,
	Example: `  # Watch with the configured interval
  vitrine watch

  # Refresh every 10 seconds
  vitrine watch --interval 10s`,
	RunE: runWatch,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "refresh interval (default: from config)")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.list.Len() == 0 {
		return formatter.Println("No addresses tracked. Add addresses to the config and try again.")
	}

	events, cancelSub := a.bus.Subscribe()
	defer cancelSub()

	interval := watchInterval
	if interval <= 0 {
		interval = time.Duration(cfg.Refresh.WatchIntervalSeconds) * time.Second
	}

	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		printEvents(ctx, a, events)
	}()

	_ = formatter.Printf("Watching %d address(es), refreshing every %s. Ctrl-C to stop.\n", a.list.Len(), interval)

	watcher := refresh.NewWatcher(a.coordinator, interval, logger)
	err = watcher.Run(ctx)

	cancelSub()
	<-printerDone

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// printEvents streams mirror events until the subscription closes. Loading
// transitions are only shown in verbose mode.
func printEvents(ctx context.Context, a *app, events <-chan mirror.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			printEvent(a, ev)
		}
	}
}

func printEvent(a *app, ev mirror.Event) {
	if ev.Kind == mirror.EventLoadingChanged && !cfg.Output.Verbose {
		return
	}

	entity, ok := a.list.Get(ev.EntityID)
	if !ok {
		return
	}

	if formatter.IsJSON() {
		_ = formatter.Print(map[string]any{
			"time":   time.Now().UTC().Format(time.RFC3339),
			"event":  string(ev.Kind),
			"entity": ev.EntityID,
		})
		return
	}

	stamp := time.Now().Format("15:04:05")
	switch ev.Kind {
	case mirror.EventNativeUpdated:
		native := entity.NativeToken()
		if err := entity.LastNativeError(); err != nil {
			_ = formatter.Printf("%s  %-22s %s stale (%v)\n", stamp, entity.DisplayName(), native.Symbol, err)
			return
		}
		_ = formatter.Printf("%s  %-22s %s %s\n", stamp, entity.DisplayName(), native.Symbol, native.DisplayAmount())
	case mirror.EventFungiblesUpdated:
		if err := entity.LastFungibleError(); err != nil {
			_ = formatter.Printf("%s  %-22s tokens stale (%v)\n", stamp, entity.DisplayName(), err)
			return
		}
		for _, tok := range entity.FungibleTokens() {
			_ = formatter.Printf("%s  %-22s %s %s\n", stamp, entity.DisplayName(), tok.Symbol, tok.DisplayAmount())
		}
	case mirror.EventLoadingChanged:
		_ = formatter.Printf("%s  %-22s loading=%v\n", stamp, entity.DisplayName(), entity.Loading())
	case mirror.EventEntityAdded, mirror.EventEntityRemoved:
		_ = formatter.Printf("%s  %-22s %s\n", stamp, entity.DisplayName(), ev.Kind)
	}
}
