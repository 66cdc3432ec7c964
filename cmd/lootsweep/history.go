package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mariveth/lootsweep/internal/cli"
	"github.com/mariveth/lootsweep/internal/service"
)

func historyCmd() *cobra.Command {
	var (
		since   time.Duration
		batchID string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the discard audit log",
		Long:  `Every successful discard is recorded; this lists them newest first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := loadConfig()

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := service.HistoryFilter{
				BatchID: batchID,
				Limit:   limit,
			}
			if since > 0 {
				cutoff := time.Now().Add(-since)
				filter.Since = &cutoff
			}

			records, err := store.GetDiscardHistory(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to read discard history: %w", err)
			}
			if len(records) == 0 {
				fmt.Println(cli.InfoStyle.Render("No discards recorded."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintln(w, strings.Join([]string{"When", "Item", "Qty", "Slot", "Batch"}, "\t"))

			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s (id %d)\t%d\t%s\t%s\n",
					r.DiscardedAt.Local().Format("2006-01-02 15:04:05"),
					r.ItemName, r.ItemID,
					r.Quantity,
					r.Location.String(),
					cli.SubtleStyle.Render(r.BatchID))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&since, "since", 0, "only show discards within this window (e.g. 24h)")
	cmd.Flags().StringVar(&batchID, "batch", "", "only show one batch")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows (0 for all)")

	return cmd
}
