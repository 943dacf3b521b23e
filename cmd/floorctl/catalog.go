package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"floorctl/internal/catalog"
	"floorctl/internal/catalog/commands"
	"floorctl/internal/catalog/importer"
	"floorctl/internal/command"
	"floorctl/internal/ui/textutil"
)

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List stored categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := a.store.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			printCategories(cmd.OutOrStdout(), refs)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID...",
		Short: "Delete categories by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := runDelete(cmd.Context(), commands.NewDeleteCategory(a.store, id)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	})
	return cmd
}

func newContestantsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contestants",
		Short: "List contestants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.store.ListContestants(cmd.Context())
			if err != nil {
				return err
			}
			printContestants(cmd.OutOrStdout(), all)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID...",
		Short: "Delete contestants by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := runDelete(cmd.Context(), commands.NewDeleteContestant(a.store, id)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	})
	return cmd
}

// runDelete executes a one-off delete outside any stack, so failures are
// reported directly instead of logged.
func runDelete(ctx context.Context, c command.Command) error {
	return c.Execute(ctx)
}

func printCategories(w io.Writer, refs []catalog.CategoryRef) {
	if len(refs) == 0 {
		fmt.Fprintln(w, "No categories.")
		return
	}
	for _, r := range refs {
		fmt.Fprintf(w, "%-36s  %s  %3d slides  %8s  %s\n",
			r.ID, textutil.PadRight(r.Name, 28), r.SlideCount,
			importer.FormatSize(r.SizeInBytes), r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printContestants(w io.Writer, all []catalog.Contestant) {
	if len(all) == 0 {
		fmt.Fprintln(w, "No contestants.")
		return
	}
	for _, c := range all {
		status := "playing"
		if c.Eliminated {
			status = "eliminated"
		}
		fmt.Fprintf(w, "%-36s  %s  %s  wins=%d  %s\n",
			c.ID, textutil.PadRight(c.Name, 20), textutil.PadRight(c.Category.Name, 28), c.Wins, status)
	}
}
