package main

import (
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/herbcat"
	"github.com/aretw0/herbcat/pkg/adapters/fs"
)

func newInspectCmd(g *globals) *cobra.Command {
	var diagram bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the internal state of the engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := g.open(cmd.Context())
			if err != nil {
				return err
			}

			state := eng.State().(herbcat.EngineState)
			if !diagram {
				return g.render(cmd.OutOrStdout(), state)
			}

			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "catalog"
			config.SecondaryLabel = "Catalog Topology"
			fmt.Fprintln(cmd.OutOrStdout(), introspection.TreeDiagram(buildTree(state), config))
			return nil
		},
	}

	cmd.Flags().BoolVar(&diagram, "diagram", false, "Print a Mermaid diagram instead of the raw state")
	return cmd
}

type stateNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []stateNode
}

// buildTree maps the engine state onto a diagram tree. Status values must
// match the classes of introspection.DefaultStyles().
func buildTree(state herbcat.EngineState) stateNode {
	catalog := stateNode{
		Name:   "Catalog",
		Status: "running",
		Metadata: map[string]string{
			"type":     "container",
			"revision": state.Catalog.Revision,
			"products": fmt.Sprintf("%d", state.Catalog.Products),
			"sections": fmt.Sprintf("%d", len(state.Catalog.Sections)),
		},
	}

	memoStatus := "suspended"
	if state.Service.Cache {
		memoStatus = "running"
	}
	service := stateNode{
		Name:   "Service",
		Status: "running",
		Metadata: map[string]string{
			"type": "process",
		},
		Children: []stateNode{{
			Name:   "Memo",
			Status: memoStatus,
			Metadata: map[string]string{
				"type":    "container",
				"entries": fmt.Sprintf("%d", state.Service.CacheSize),
				"hits":    fmt.Sprintf("%d", state.Service.CacheHits),
			},
		}},
	}

	root := stateNode{
		Name:     "Engine",
		Status:   "running",
		Metadata: map[string]string{"type": "container"},
		Children: []stateNode{service, catalog},
	}

	if repo, ok := state.Source.(fs.RepositoryState); ok {
		watcherStatus := "suspended"
		if repo.WatcherActive {
			watcherStatus = "running"
		}
		root.Children = append(root.Children, stateNode{
			Name:   "Repository",
			Status: "running",
			Metadata: map[string]string{
				"type":  "process",
				"path":  repo.Path,
				"cache": fmt.Sprintf("%d", repo.CacheSize),
			},
			Children: []stateNode{{
				Name:     "Watcher",
				Status:   watcherStatus,
				Metadata: map[string]string{"type": "goroutine"},
			}},
		})
	}
	return root
}
