package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/undead-arena/internal/engine/rpgtoolkit"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Settle completed rooms and prune the archive on a schedule",
	Long: `Run the background worker until interrupted. Completed rooms are settled
every ARENA_SWEEP_INTERVAL and archived checkpoints older than
ARENA_ARCHIVE_RETENTION are pruned every ARENA_PRUNE_INTERVAL.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func runWorker(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to close app", "error", err)
		}
	}()

	sub := a.bus.SubscribeFunc(rpgtoolkit.EventBattleSettled, 0, func(ctx context.Context, event events.Event) error {
		if room, ok := rpgtoolkit.RoomFromEvent(event); ok {
			slog.InfoContext(ctx, "room settled",
				"room_id", room.RoomID.String(),
				"winner", room.Winner)
		}
		return nil
	})
	defer func() {
		_ = a.bus.Unsubscribe(sub)
	}()

	if err := a.worker.Start(ctx); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}
	slog.Info("worker started",
		"sweep_interval", cfg.SweepInterval,
		"archive", cfg.ArchivePath != "")

	sig := <-sigChan
	slog.Info("received shutdown signal, stopping worker", "signal", sig.String())
	cancel()

	if err := a.worker.Stop(); err != nil {
		return fmt.Errorf("failed to stop worker: %w", err)
	}
	slog.Info("worker stopped")
	return nil
}
