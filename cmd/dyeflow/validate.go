package main

import (
	"github.com/aretw0/dyeflow/internal/cli"
	"github.com/aretw0/dyeflow/pkg/tree"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <snapshot.json>",
	Short: "Check that a snapshot file can be imported",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		cli.PrintSystemMessage("%s is valid (%d nodes, version %d)", args[0], tree.Count(doc.RootNodes), doc.Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
