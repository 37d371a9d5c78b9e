package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/undead-arena/internal/orchestrators/game"
)

var leaderboardLimit int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top players by total points",
	Args:  cobra.NoArgs,
	RunE:  runLeaderboard,
}

var playerCmd = &cobra.Command{
	Use:   "player [owner]",
	Short: "Show a player's profile, achievements and rank",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

func init() {
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 10, "Number of slots to show (0 for all)")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.game.GetLeaderboard(ctx, &game.GetLeaderboardInput{Limit: leaderboardLimit})
		if err != nil {
			return fmt.Errorf("failed to get leaderboard: %w", err)
		}

		fmt.Printf("Leaderboard\n")
		fmt.Printf("===========\n")
		if len(out.Entries) == 0 {
			fmt.Printf("No ranked players yet\n")
			return nil
		}
		for i, entry := range out.Entries {
			fmt.Printf("%2d. %-20s %d\n", i+1, entry.Owner, entry.Score)
		}
		if out.LastUpdated > 0 {
			fmt.Printf("\nUpdated %s\n", time.Unix(out.LastUpdated, 0).UTC().Format(time.RFC3339))
		}
		return nil
	})
}

func runPlayer(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.game.GetPlayer(ctx, &game.GetPlayerInput{Owner: args[0]})
		if err != nil {
			return fmt.Errorf("failed to get player: %w", err)
		}

		p := out.Profile
		fmt.Printf("Player %s\n", p.Owner)
		fmt.Printf("==============\n")
		fmt.Printf("Warriors created: %d\n", p.WarriorsCreated)
		fmt.Printf("Battles: %d fought, %d won, %d lost\n", p.TotalBattlesFought, p.TotalBattlesWon, p.TotalBattlesLost)
		fmt.Printf("Points: %d\n", p.TotalPoints)
		if out.Rank > 0 {
			fmt.Printf("Rank: %d\n", out.Rank)
		} else {
			fmt.Printf("Rank: unranked\n")
		}

		ach := out.Achievements
		fmt.Printf("\nAchievements\n")
		fmt.Printf("  Warrior: %s\n", ach.WarriorAchievement)
		fmt.Printf("  Winner:  %s\n", ach.WinnerAchievement)
		fmt.Printf("  Battle:  %s\n", ach.BattleAchievement)
		fmt.Printf("  Overall: %s\n", ach.OverallAchievement)
		return nil
	})
}
