package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mariveth/lootsweep/internal/cli"
)

func pricesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Inspect and refresh the market price cache",
	}
	cmd.AddCommand(pricesShowCmd())
	cmd.AddCommand(pricesRefreshCmd())
	cmd.AddCommand(pricesPruneCmd())
	return cmd
}

func pricesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List every cached price with its age",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := loadConfig()

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			prices, err := store.GetAllPrices(ctx)
			if err != nil {
				return fmt.Errorf("failed to read price cache: %w", err)
			}
			if len(prices) == 0 {
				fmt.Println(cli.InfoStyle.Render("Price cache is empty."))
				return nil
			}

			ttl := cfg.Market.TTL()
			now := time.Now()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintln(w, strings.Join([]string{"Item ID", "Unit Price", "Age", "State"}, "\t"))

			for _, p := range prices {
				state := cli.SuccessStyle.Render("fresh")
				if p.Stale(now, ttl) {
					state = cli.WarningStyle.Render("stale")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					p.ItemID,
					formatPrice(&p),
					now.Sub(p.FetchedAt).Round(time.Minute),
					state)
			}
			return nil
		},
	}
}

func pricesRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <item-id...>",
		Short: "Force a fetch for specific item ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := loadConfig()

			ids, err := parseItemIDs(args)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cache, err := initPriceCache(ctx, cfg, store)
			if err != nil {
				return err
			}

			for _, id := range ids {
				cache.Refresh(id, cfg.Market.PreferHQ)
			}
			cache.Wait()

			for _, id := range ids {
				price := cache.GetPrice(id, cfg.Market.PreferHQ)
				fmt.Printf("%d\t%s\n", id, formatPrice(price))
			}
			return nil
		},
	}
}

func pricesPruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete cached prices older than a cutoff",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := loadConfig()

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.PrunePrices(ctx, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Pruned %d cached prices.", n)))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "age cutoff")
	return cmd
}
