package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/herbcat/pkg/core"
)

type listEntry struct {
	Key      core.ProductKey `json:"key" yaml:"key"`
	Name     string          `json:"name" yaml:"name"`
	Category string          `json:"category,omitempty" yaml:"category,omitempty"`
	Price    core.Money      `json:"price" yaml:"price"`
	Original core.Money      `json:"original_price,omitempty" yaml:"original_price,omitempty"`
	Title    any             `json:"title,omitempty" yaml:"title,omitempty"`
}

func newListCmd(g *globals) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the products of the catalog in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			loc, err := g.parseLocale(eng)
			if err != nil {
				return err
			}

			c := eng.Catalog()
			keys := c.Products()
			if category != "" {
				cat, ok := c.Category(category)
				if !ok {
					return fmt.Errorf("%w: %q", core.ErrUnknownCategory, category)
				}
				keys = c.ProductsIn(cat.Slug)
			}

			entries := make([]listEntry, 0, len(keys))
			for _, key := range keys {
				p, _ := c.Product(key)
				title, _ := c.ResolveField(key, loc, "hero", "title")
				entries = append(entries, listEntry{
					Key:      key,
					Name:     p.Name,
					Category: p.Category,
					Price:    p.Price,
					Original: p.OriginalPrice,
					Title:    title,
				})
			}
			return g.render(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only list products of this category")
	return cmd
}
