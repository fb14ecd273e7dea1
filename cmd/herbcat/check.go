package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/herbcat"
	lifecycleadapter "github.com/aretw0/herbcat/pkg/adapters/lifecycle"
)

func newCheckCmd(g *globals) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the catalog",
		Long: `Build the catalog and report every validation error. With --watch, keep
running and re-validate whenever a catalog file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := g.open(cmd.Context())
			if err != nil {
				return err
			}

			c := eng.Catalog()
			fmt.Fprintf(cmd.OutOrStdout(), "catalog OK: %d products, %d categories, revision %s\n",
				len(c.Products()), len(c.Categories()), c.Revision())
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watchCatalog(ctx, cmd, eng)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-validate on every change until interrupted")
	return cmd
}

func watchCatalog(ctx context.Context, cmd *cobra.Command, eng *herbcat.Engine) error {
	events, err := eng.Watch(ctx)
	if err != nil {
		return err
	}

	src := lifecycleadapter.NewSource(events)
	if err := src.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "watching for changes, press Ctrl+C to stop")

	for e := range src.Events() {
		fmt.Fprintln(cmd.OutOrStdout(), e.String())
	}
	return nil
}
