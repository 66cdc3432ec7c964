package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mariveth/lootsweep/internal/cli"
	"github.com/mariveth/lootsweep/internal/discard"
	"github.com/mariveth/lootsweep/internal/exclusion"
	"github.com/mariveth/lootsweep/internal/market"
	"github.com/mariveth/lootsweep/internal/model"
	"github.com/mariveth/lootsweep/internal/safety"
)

func scanCmd() *cobra.Command {
	var (
		withPrices bool
		unsafeOnly bool
		autoOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Classify the current inventory",
		Long: `Read every occupied inventory slot through the game bridge, run the
safety classifier over it, and print the verdicts. Nothing is discarded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := loadConfig()

			bridge := initBridge(cfg)
			items, err := discard.ScanInventory(ctx, bridge)
			if err != nil {
				return fmt.Errorf("inventory scan failed: %w", err)
			}
			if len(items) == 0 {
				fmt.Println(cli.InfoStyle.Render("Inventory is empty."))
				return nil
			}

			lists, err := initExclusionStore(cfg)
			if err != nil {
				return err
			}
			blacklist := lists.Load(exclusion.UserBlacklist)
			allowlist := lists.Load(exclusion.AutoDiscardAllowlist)

			var cache *market.Cache
			if withPrices {
				store, storeErr := initStorage(ctx, cfg)
				if storeErr != nil {
					return storeErr
				}
				defer func() { _ = store.Close() }()

				cache, err = initPriceCache(ctx, cfg, store)
				if err != nil {
					return err
				}
				// Warm the cache so the table below has values.
				for _, item := range items {
					cache.GetPrice(item.ID, cfg.Market.PreferHQ)
				}
				cache.Wait()
			}

			inGearset := gearsetFunc(ctx, bridge)

			fmt.Println(cli.FormatTitle("Inventory scan"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			header := []string{"Slot", "Item", "Qty", "Verdict", "Severity", "Reasons"}
			if withPrices {
				header = append(header, "Unit Price")
			}
			fmt.Fprintln(w, strings.Join(header, "\t"))

			shown := 0
			for _, item := range items {
				verdict := safety.Classify(item, cfg.Filters, blacklist, inGearset)

				if unsafeOnly && verdict.SafeToDiscard {
					continue
				}
				if autoOnly {
					if _, allowed := allowlist[item.ID]; !allowed || !verdict.SafeToDiscard {
						continue
					}
					if safety.ShouldAutoFilter(item, cfg.Filters, blacklist, inGearset) {
						continue
					}
				}

				row := []string{
					item.Location.String(),
					item.Name,
					fmt.Sprintf("%d", item.Quantity),
					cli.FormatVerdict(verdict),
					cli.StyleSeverity(verdict.Severity, verdict.Severity.String()),
					strings.Join(verdict.Reasons, "; "),
				}
				if withPrices {
					row = append(row, formatPrice(cache.GetPrice(item.ID, cfg.Market.PreferHQ)))
				}
				fmt.Fprintln(w, strings.Join(row, "\t"))
				shown++
			}

			if shown == 0 {
				fmt.Println(cli.InfoStyle.Render("No items matched the requested filters."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withPrices, "prices", false, "include cached market prices")
	cmd.Flags().BoolVar(&unsafeOnly, "unsafe-only", false, "show only items flagged unsafe")
	cmd.Flags().BoolVar(&autoOnly, "auto", false, "show only allowlisted auto-discard candidates")

	return cmd
}

func formatPrice(price *model.CachedPrice) string {
	if price == nil {
		return cli.SubtleStyle.Render("unknown")
	}
	if price.PricePerUnit == model.PriceNoListings {
		return cli.SubtleStyle.Render("no listings")
	}
	return fmt.Sprintf("%d gil", price.PricePerUnit)
}
