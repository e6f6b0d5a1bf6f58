package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/dyeflow/internal/cli"
	"github.com/aretw0/dyeflow/pkg/activation"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/ports"
	"github.com/aretw0/dyeflow/pkg/schema"
	"github.com/aretw0/dyeflow/pkg/tree"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage saved documents in the configured store",
}

var snapshotLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved snapshots",
	Args:  cobra.NoArgs,
	RunE: withStore(func(ctx context.Context, store ports.SnapshotStore, args []string) error {
		names, err := store.List(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			cli.PrintSystemMessage("no snapshots")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}),
}

var snapshotInspectCmd = &cobra.Command{
	Use:   "inspect <name>",
	Short: "Summarize a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(ctx context.Context, store ports.SnapshotStore, args []string) error {
		data, err := store.Load(ctx, args[0])
		if err != nil {
			return err
		}
		doc, err := schema.Decode(data)
		if err != nil {
			return describe(args[0], err)
		}

		counts := map[domain.Level]int{}
		blocked := 0
		tree.Walk(doc.RootNodes, func(n *domain.Node, depth int) bool {
			counts[n.Level]++
			if activation.Blocked(n) {
				blocked++
			}
			return true
		})
		fmt.Printf("%s (version %d, %d bytes)\n", args[0], doc.Version, len(data))
		for _, l := range domain.Levels() {
			fmt.Printf("  %-8s %d\n", l.Info().Name, counts[l])
		}
		fmt.Printf("  %-8s %d\n", "Blocked", blocked)
		return nil
	}),
}

var snapshotPutCmd = &cobra.Command{
	Use:   "put <name> <snapshot.json>",
	Short: "Validate a snapshot file and save it under name",
	Args:  cobra.ExactArgs(2),
	RunE: withStore(func(ctx context.Context, store ports.SnapshotStore, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		if _, err := schema.Decode(data); err != nil {
			return describe(args[1], err)
		}
		if err := store.Save(ctx, args[0], data); err != nil {
			return err
		}
		cli.PrintSystemMessage("saved %s", args[0])
		return nil
	}),
}

var snapshotRmCmd = &cobra.Command{
	Use:   "rm <name>...",
	Short: "Delete saved snapshots",
	Args:  cobra.MinimumNArgs(1),
	RunE: withStore(func(ctx context.Context, store ports.SnapshotStore, args []string) error {
		for _, name := range args {
			if err := store.Delete(ctx, name); err != nil {
				return err
			}
		}
		return nil
	}),
}

// withStore opens the configured snapshot store around fn.
func withStore(fn func(context.Context, ports.SnapshotStore, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		store, closeStore, err := cli.OpenSnapshots(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer closeStore()
		return fn(ctx, store, args)
	}
}

func init() {
	snapshotCmd.AddCommand(snapshotLsCmd, snapshotInspectCmd, snapshotPutCmd, snapshotRmCmd)
	rootCmd.AddCommand(snapshotCmd)
}
