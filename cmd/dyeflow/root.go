package main

import (
	"fmt"
	"os"

	"github.com/aretw0/dyeflow/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dyeflow",
	Short: "dyeflow is a hierarchical process editor",
	Long: `dyeflow edits a three-level hierarchy of Processes, Tasks and Outcomes.
Every composite node combines its required children through a logic gate,
and inactive requirements propagate up the tree.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("store", "", "Snapshot store (memory, file, redis, postgres)")
}

// loadConfig reads the configuration file and applies command line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store.Kind = v
	}
	return cfg, cfg.Validate()
}
