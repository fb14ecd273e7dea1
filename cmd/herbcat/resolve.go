package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/herbcat/pkg/core"
)

type resolveOutput struct {
	Product core.ProductKey `json:"product" yaml:"product"`
	Locale  core.Locale     `json:"locale" yaml:"locale"`
	Known   bool            `json:"known" yaml:"known"`
	Section string          `json:"section,omitempty" yaml:"section,omitempty"`
	Content any             `json:"content" yaml:"content"`
}

func newResolveCmd(g *globals) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "resolve [id]",
		Short: "Resolve the page document of a product",
		Long: `Resolve a product page field by field. The identifier may be a canonical key,
an alias, a product name or a raw URL segment. Unknown products resolve to the
base document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			loc, err := g.parseLocale(eng)
			if err != nil {
				return err
			}

			key, doc := eng.ResolveRaw(args[0], loc)
			out := resolveOutput{
				Product: key,
				Locale:  loc,
				Known:   eng.Catalog().Has(key),
				Content: doc,
			}
			if !out.Known {
				slog.Warn("unknown product, showing base document", "id", args[0])
			}
			if section != "" {
				s, ok := doc[section]
				if !ok {
					return fmt.Errorf("%w: %q", core.ErrUnknownSection, section)
				}
				out.Section = section
				out.Content = s
			}
			return g.render(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&section, "section", "s", "", "Only print this section")
	return cmd
}
