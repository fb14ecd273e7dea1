package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/herbcat"
)

func newInitCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold a starter catalog",
		Long: `Write herbcat.yaml, the two base documents and a sample product into the
catalog directory (--dir, or the working directory). Existing files are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := g.dir
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				dir = wd
			}

			created, err := herbcat.Init(cmd.Context(), dir)
			if err != nil {
				return fmt.Errorf("failed to initialize catalog: %w", err)
			}

			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog already initialized in", dir)
				return nil
			}
			for _, f := range created {
				fmt.Fprintln(cmd.OutOrStdout(), "created", f)
			}
			return nil
		},
	}
}
