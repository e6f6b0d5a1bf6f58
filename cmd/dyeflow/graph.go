package main

import (
	"fmt"

	"github.com/aretw0/dyeflow/internal/presentation/graph"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/tree"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [snapshot.json]",
	Short: "Export the hierarchy as a Mermaid diagram",
	Long: `Decodes a snapshot file (or the starter document when none is given) and
outputs a Mermaid diagram (graph LR). Composite nodes become nested subgraphs;
--scope limits the output to the child graph of one node.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(argOrEmpty(args))
		if err != nil {
			return err
		}
		overlay := &graph.GraphOverlay{}
		overlay.Selected, _ = cmd.Flags().GetString("select")

		scope, _ := cmd.Flags().GetString("scope")
		if scope == "" {
			fmt.Print(graph.GenerateDocument(doc, overlay))
			return nil
		}

		n, ok := tree.Find(doc.RootNodes, scope)
		if !ok {
			return fmt.Errorf("node %q: %w", scope, domain.ErrNotFound)
		}
		fmt.Print(graph.GenerateMermaid(n.Children(), n.ChildEdges(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("scope", "", "Only render the child graph of this node")
	graphCmd.Flags().String("select", "", "Highlight this node")
}
