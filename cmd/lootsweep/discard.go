package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mariveth/lootsweep/internal/cli"
	"github.com/mariveth/lootsweep/internal/discard"
	"github.com/mariveth/lootsweep/internal/exclusion"
	"github.com/mariveth/lootsweep/internal/model"
	"github.com/mariveth/lootsweep/internal/safety"
	"github.com/mariveth/lootsweep/internal/tui"
)

func discardCmd() *cobra.Command {
	var (
		auto        bool
		interactive bool
		assumeYes   bool
	)

	cmd := &cobra.Command{
		Use:   "discard [item-id...]",
		Short: "Discard items as a cancellable batch",
		Long: `Select items for deletion, confirm, and discard them one at a time
through the game bridge. Every verdict rule still applies: items the
classifier marks unsafe are refused even when named explicitly.

With --auto, candidates come from the auto-discard allowlist instead
of item-id arguments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := loadConfig()

			// Set up interrupt handling
			interruptHandler := cli.NewInterruptHandler(nil)
			ctx = interruptHandler.HandleInterrupts(ctx)

			if !auto && len(args) == 0 {
				return fmt.Errorf("specify item ids or use --auto")
			}

			bridge := initBridge(cfg)
			items, err := discard.ScanInventory(ctx, bridge)
			if err != nil {
				return fmt.Errorf("inventory scan failed: %w", err)
			}

			lists, err := initExclusionStore(cfg)
			if err != nil {
				return err
			}
			blacklist := lists.Load(exclusion.UserBlacklist)
			allowlist := lists.Load(exclusion.AutoDiscardAllowlist)

			var requested map[model.ItemID]struct{}
			if !auto {
				ids, parseErr := parseItemIDs(args)
				if parseErr != nil {
					return parseErr
				}
				requested = make(map[model.ItemID]struct{}, len(ids))
				for _, id := range ids {
					requested[id] = struct{}{}
				}
			}

			inGearset := gearsetFunc(ctx, bridge)

			batch, refused := selectBatch(items, cfg.Filters, blacklist, allowlist, requested, auto, inGearset)
			for _, r := range refused {
				fmt.Println(cli.FormatWarning(r))
			}
			if len(batch) == 0 {
				fmt.Println(cli.InfoStyle.Render("Nothing to discard."))
				return nil
			}

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			orch := discard.New(bridge, bridge, store)
			if err := orch.Begin(batch); err != nil {
				return err
			}

			if interactive {
				return tui.RunDiscard(ctx, orch)
			}
			return runBatchPlain(ctx, orch, assumeYes)
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "discard allowlisted items instead of explicit ids")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "use the interactive discard view")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

// selectBatch picks the slots to discard and explains every refusal.
// The blacklist always wins over the allowlist, and classifier safety
// is non-negotiable for both selection modes.
func selectBatch(items []model.ItemFacts, filters safety.FilterConfig,
	blacklist, allowlist map[model.ItemID]struct{},
	requested map[model.ItemID]struct{}, auto bool,
	inGearset safety.GearsetFunc) (batch []model.ItemFacts, refused []string) {
	for _, item := range items {
		if auto {
			if _, allowed := allowlist[item.ID]; !allowed {
				continue
			}
			// Filter toggles exclude candidates silently; only the
			// classifier produces refusal messages.
			if safety.ShouldAutoFilter(item, filters, blacklist, inGearset) {
				continue
			}
		} else {
			if _, wanted := requested[item.ID]; !wanted {
				continue
			}
		}

		verdict := safety.Classify(item, filters, blacklist, inGearset)
		if !verdict.SafeToDiscard {
			refused = append(refused, fmt.Sprintf("refusing %s (id %d) at %s: %s",
				item.Name, item.ID, item.Location, strings.Join(verdict.Reasons, "; ")))
			continue
		}

		batch = append(batch, item)
	}
	return batch, refused
}

// runBatchPlain drives the orchestrator with a progress bar, no TUI.
func runBatchPlain(ctx context.Context, orch *discard.Orchestrator, assumeYes bool) error {
	items := orch.Items()

	fmt.Printf("About to discard %d items. This cannot be undone.\n", len(items))
	for _, item := range items {
		fmt.Printf("  %s ×%d  %s\n", item.Name, item.Quantity,
			cli.SubtleStyle.Render(item.Location.String()))
	}

	if !assumeYes && !confirm() {
		orch.CancelDiscard()
		orch.Acknowledge()
		fmt.Println(cli.InfoStyle.Render("Aborted."))
		return nil
	}

	if err := orch.StartDiscarding(); err != nil {
		return err
	}

	bar := progressbar.NewOptions(orch.Total(),
		progressbar.OptionSetDescription("discarding"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for orch.State() == discard.StateDiscarding {
		select {
		case <-ctx.Done():
			orch.CancelDiscard()
		default:
		}
		orch.Tick(ctx)
		_ = bar.Set(orch.Processed())
	}
	_ = bar.Finish()

	state := orch.State()
	processed, total := orch.Processed(), orch.Total()
	errMsg := orch.ErrMessage()
	orch.Acknowledge()

	switch state {
	case discard.StateCompleted:
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Discarded %d items.", processed)))
		return nil
	case discard.StateCancelled:
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Cancelled after %d of %d items.", processed, total)))
		return nil
	case discard.StateError:
		return fmt.Errorf("batch halted after %d of %d items: %s", processed, total, errMsg)
	default:
		return nil
	}
}

func confirm() bool {
	fmt.Print(cli.WarningStyle.Render("Proceed? [y/N] "))
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
