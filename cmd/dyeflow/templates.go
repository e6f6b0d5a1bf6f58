package main

import (
	"fmt"

	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/seed"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [level]",
	Short: "List the node palette per level",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levels := domain.Levels()
		if len(args) > 0 {
			l, err := domain.ParseLevel(args[0])
			if err != nil {
				return err
			}
			levels = []domain.Level{l}
		}
		for _, l := range levels {
			fmt.Printf("%s:\n", l.Info().Name)
			for _, tpl := range seed.Templates(l) {
				fmt.Printf("  %s %-16s %s\n", tpl.Icon, tpl.Label, tpl.Description)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
