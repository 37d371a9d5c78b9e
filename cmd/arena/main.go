// Package main is the entry point for the undead arena command line
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	cfg     *Config
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "undead-arena",
	Short: "Undead warrior quiz battle arena",
	Long: `Undead arena runs two-player quiz battles between undead warriors.
Warriors, rooms and player records live in Redis; finished battles are
archived to SQLite and settled by the background worker.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		if err := setupLogging(loaded); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for one-shot commands")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(warriorCmd)
	rootCmd.AddCommand(roomCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(workerCmd)
}
