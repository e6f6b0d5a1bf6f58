package main

import (
	"fmt"
	"os"

	"github.com/aretw0/dyeflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var outlineCmd = &cobra.Command{
	Use:   "outline [snapshot.json]",
	Short: "Print the hierarchy with effective activation states",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(argOrEmpty(args))
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")

		render := tui.NewRenderer(os.Stdout)
		out, err := render(tui.Outline(title, doc))
		if err != nil {
			return fmt.Errorf("render outline: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	outlineCmd.Flags().String("title", "Warehouse", "Heading of the outline")
}
