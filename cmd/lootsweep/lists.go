package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mariveth/lootsweep/internal/cli"
	"github.com/mariveth/lootsweep/internal/exclusion"
	"github.com/mariveth/lootsweep/internal/model"
)

func blacklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Manage the never-discard blacklist",
		Long: `Items on the blacklist are refused by every discard path, including
explicit requests. Blacklist membership always beats allowlist membership.`,
	}
	addListSubcommands(cmd, exclusion.UserBlacklist)
	return cmd
}

func allowlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allowlist",
		Short: "Manage the auto-discard allowlist",
		Long: `Items on the allowlist are candidates for unattended discard via
'lootsweep discard --auto'. The safety classifier still has the last word.`,
	}
	addListSubcommands(cmd, exclusion.AutoDiscardAllowlist)
	return cmd
}

func addListSubcommands(parent *cobra.Command, kind exclusion.Kind) {
	parent.AddCommand(&cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("Show all %s entries", kind),
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initExclusionStore(loadConfig())
			if err != nil {
				return err
			}

			items := store.Load(kind)
			if len(items) == 0 {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("The %s is empty.", kind)))
				return nil
			}

			ids := make([]model.ItemID, 0, len(items))
			for id := range items {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "add <item-id...>",
		Short: fmt.Sprintf("Add item ids to the %s", kind),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseItemIDs(args)
			if err != nil {
				return err
			}

			store, err := initExclusionStore(loadConfig())
			if err != nil {
				return err
			}

			items := store.Load(kind)
			added := 0
			for _, id := range ids {
				if _, ok := items[id]; !ok {
					items[id] = struct{}{}
					added++
				}
			}
			store.Save(kind, items)

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %d ids to the %s (%d total).",
				added, kind, len(items))))
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "remove <item-id...>",
		Short: fmt.Sprintf("Remove item ids from the %s", kind),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseItemIDs(args)
			if err != nil {
				return err
			}

			store, err := initExclusionStore(loadConfig())
			if err != nil {
				return err
			}

			items := store.Load(kind)
			removed := 0
			for _, id := range ids {
				if _, ok := items[id]; ok {
					delete(items, id)
					removed++
				}
			}
			store.Save(kind, items)

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed %d ids from the %s (%d remain).",
				removed, kind, len(items))))
			return nil
		},
	})
}
