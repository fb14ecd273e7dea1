package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/herbcat"
	"github.com/aretw0/herbcat/pkg/core"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	verbose bool
	dir     string
	format  string
	locale  string
	noCache bool
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "herbcat",
		Short: "Resolve and price herbal product pages from a content catalog",
		Long: `herbcat loads a catalog of base documents and per-product overrides and
resolves each product page field by field, in the default or alternate locale.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if g.verbose {
				level = slog.LevelDebug
			}

			opts := &slog.HandlerOptions{
				Level: level,
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
			slog.SetDefault(logger)

			switch g.format {
			case "json", "yaml":
				return nil
			default:
				return fmt.Errorf("unsupported format %q (want json or yaml)", g.format)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVarP(&g.dir, "dir", "C", "", "Catalog directory (default: nearest catalog root above the working directory)")
	flags.StringVarP(&g.format, "format", "o", "json", "Output format: json or yaml")
	flags.StringVarP(&g.locale, "locale", "l", "default", "Locale: default, alternate or a language tag")
	flags.BoolVar(&g.noCache, "no-cache", false, "Do not read or write the parse cache")

	rootCmd.AddCommand(
		newResolveCmd(g),
		newPriceCmd(g),
		newListCmd(g),
		newCheckCmd(g),
		newInspectCmd(g),
		newInitCmd(g),
		newVersionCmd(),
	)
	return rootCmd
}

// catalogDir returns --dir, or the nearest catalog root above the working
// directory.
func (g *globals) catalogDir() (string, error) {
	if g.dir != "" {
		return g.dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	root, err := herbcat.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("%w (use --dir)", err)
	}
	return root, nil
}

func (g *globals) open(ctx context.Context, opts ...herbcat.Option) (*herbcat.Engine, error) {
	dir, err := g.catalogDir()
	if err != nil {
		return nil, err
	}
	slog.Debug("opening catalog", "dir", dir)

	base := []herbcat.Option{
		herbcat.WithLogger(slog.Default()),
		herbcat.WithNoCache(g.noCache),
	}
	return herbcat.New(ctx, dir, append(base, opts...)...)
}

// parseLocale maps --locale onto a locale slot of the engine's catalog.
func (g *globals) parseLocale(eng *herbcat.Engine) (core.Locale, error) {
	return eng.Catalog().ParseLocale(g.locale)
}

func (g *globals) render(w io.Writer, v any) error {
	if g.format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
