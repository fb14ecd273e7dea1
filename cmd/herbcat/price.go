package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/herbcat/pkg/core"
)

type priceOutput struct {
	core.Quote `yaml:",inline"`
	Display    string `json:"display" yaml:"display"`
}

func newPriceCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "price [id] [quantity]",
		Short: "Price an order of a product",
		Long: `Price quantity units of a product. Quantities covered by the package table
use the package at that position; larger ones are priced linearly from the
first package.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil || qty < 1 {
				return fmt.Errorf("quantity must be a positive integer, got %q", args[1])
			}

			eng, err := g.open(cmd.Context())
			if err != nil {
				return err
			}

			key := eng.Normalize(args[0])
			if !eng.Catalog().Has(key) {
				return fmt.Errorf("%w: %q", core.ErrUnknownProduct, args[0])
			}

			q := eng.Quote(key, qty)
			if q.Overflow {
				return fmt.Errorf("quantity %d: order total exceeds %s", qty, core.MaxMoney)
			}
			return g.render(cmd.OutOrStdout(), priceOutput{Quote: q, Display: q.Total.String()})
		},
	}
}
