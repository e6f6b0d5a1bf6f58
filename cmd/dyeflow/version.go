package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/dyeflow"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dyeflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dyeflow version %s (format v%d)\n", strings.TrimSpace(dyeflow.Version), domain.CurrentVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
