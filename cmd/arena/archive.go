package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/undead-arena/internal/checkpoint"
	"github.com/KirkDiggler/undead-arena/internal/errors"
)

var archiveLimit int

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect archived battles",
}

var listArchiveCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recently archived rooms",
	Args:  cobra.NoArgs,
	RunE:  runListArchive,
}

var getArchiveCmd = &cobra.Command{
	Use:   "get [room-id]",
	Short: "Show an archived room with its warrior snapshots",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetArchive,
}

var pruneArchiveCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete checkpoints older than ARENA_ARCHIVE_RETENTION",
	Args:  cobra.NoArgs,
	RunE:  runPruneArchive,
}

func init() {
	listArchiveCmd.Flags().IntVar(&archiveLimit, "limit", 20, "Number of rooms to show (0 for all)")

	archiveCmd.AddCommand(listArchiveCmd)
	archiveCmd.AddCommand(getArchiveCmd)
	archiveCmd.AddCommand(pruneArchiveCmd)
}

func withArchive(fn func(ctx context.Context, a *app) error) error {
	if cfg.ArchivePath == "" {
		return errors.FailedPrecondition("archiving is disabled; set ARENA_ARCHIVE_PATH")
	}
	return withApp(fn)
}

func runListArchive(cmd *cobra.Command, args []string) error {
	return withArchive(func(ctx context.Context, a *app) error {
		out, err := a.archive.ListRecent(ctx, checkpoint.ListRecentInput{Limit: archiveLimit})
		if err != nil {
			return fmt.Errorf("failed to list archive: %w", err)
		}
		for _, cp := range out.Checkpoints {
			fmt.Printf("%s  %s  %-10s winner=%s settled=%t\n",
				time.Unix(cp.ArchivedAt, 0).UTC().Format(time.RFC3339),
				cp.Room.RoomID, cp.Room.State, cp.Room.Winner, cp.Room.Settled)
		}
		return nil
	})
}

func runGetArchive(cmd *cobra.Command, args []string) error {
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}
	return withArchive(func(ctx context.Context, a *app) error {
		out, err := a.archive.Get(ctx, checkpoint.GetInput{RoomID: roomID})
		if err != nil {
			return fmt.Errorf("failed to get checkpoint: %w", err)
		}
		printRoom(out.Checkpoint.Room)
		for _, w := range out.Checkpoint.Warriors {
			fmt.Println()
			printWarrior(w, nil)
		}
		return nil
	})
}

func runPruneArchive(cmd *cobra.Command, args []string) error {
	return withArchive(func(ctx context.Context, a *app) error {
		out, err := a.worker.Prune(ctx)
		if err != nil {
			return fmt.Errorf("failed to prune archive: %w", err)
		}
		fmt.Printf("Deleted %d checkpoints\n", out.Deleted)
		return nil
	})
}
