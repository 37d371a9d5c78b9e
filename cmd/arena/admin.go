package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/battle"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/game"
)

var (
	initAdmin    string
	initCooldown time.Duration
	adminActor   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the game config and empty leaderboard",
	Long: `Create the game config. The admin and cooldown default to
ARENA_ADMIN and ARENA_COOLDOWN.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative commands",
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the game; no new warriors or rooms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paused := true
		return updateConfig(&game.UpdateConfigInput{IsPaused: &paused})
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused game",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paused := false
		return updateConfig(&game.UpdateConfigInput{IsPaused: &paused})
	},
}

var cooldownCmd = &cobra.Command{
	Use:   "cooldown [duration]",
	Short: "Set the post-battle cooldown, e.g. 30m",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		seconds := int64(d / time.Second)
		return updateConfig(&game.UpdateConfigInput{CooldownTime: &seconds})
	},
}

var terminateCmd = &cobra.Command{
	Use:   "terminate [room-id]",
	Short: "End a room with no contest and no payout",
	Args:  cobra.ExactArgs(1),
	RunE:  runTerminate,
}

func init() {
	initCmd.Flags().StringVar(&initAdmin, "admin", "", "Admin player (defaults to ARENA_ADMIN)")
	initCmd.Flags().DurationVar(&initCooldown, "cooldown", 0, "Post-battle cooldown (defaults to ARENA_COOLDOWN)")

	adminCmd.PersistentFlags().StringVar(&adminActor, "actor", "", "Acting player (defaults to ARENA_ADMIN)")
	adminCmd.AddCommand(pauseCmd)
	adminCmd.AddCommand(resumeCmd)
	adminCmd.AddCommand(cooldownCmd)
	adminCmd.AddCommand(terminateCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	admin := initAdmin
	if admin == "" {
		admin = cfg.Admin
	}
	cooldown := initCooldown
	if !cmd.Flags().Changed("cooldown") {
		cooldown = cfg.Cooldown
	}

	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.game.Initialize(ctx, &game.InitializeInput{
			Admin:        admin,
			CooldownTime: int64(cooldown / time.Second),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize game: %w", err)
		}
		printConfig(out.Config)
		return nil
	})
}

func actor() string {
	if adminActor != "" {
		return adminActor
	}
	return cfg.Admin
}

func updateConfig(input *game.UpdateConfigInput) error {
	input.Actor = actor()
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.game.UpdateConfig(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		printConfig(out.Config)
		return nil
	})
}

func runTerminate(cmd *cobra.Command, args []string) error {
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}

	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.battles.EmergencyTerminate(ctx, &battle.EmergencyTerminateInput{
			Actor:  actor(),
			RoomID: roomID,
		})
		if err != nil {
			return fmt.Errorf("failed to terminate room: %w", err)
		}
		printRoom(out.Room)
		return nil
	})
}

func printConfig(c *entities.GameConfig) {
	fmt.Printf("Game Config\n")
	fmt.Printf("===========\n")
	fmt.Printf("Admin: %s\n", c.Admin)
	fmt.Printf("Paused: %t\n", c.IsPaused)
	fmt.Printf("Cooldown: %s\n", time.Duration(c.CooldownTime)*time.Second)
	fmt.Printf("Total warriors: %d\n", c.TotalWarriors)
	fmt.Printf("Total battles: %d\n", c.TotalBattles)
}
