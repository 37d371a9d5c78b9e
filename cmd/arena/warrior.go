package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/warrior"
)

var warriorCmd = &cobra.Command{
	Use:   "warrior",
	Short: "Create and inspect warriors",
}

var createWarriorCmd = &cobra.Command{
	Use:   "create [owner] [name] [class]",
	Short: "Create a warrior",
	Long: `Create a warrior. Classes: validator, guardian, daemon, oracle. Example:

  warrior create alice ghoul daemon`,
	Args: cobra.ExactArgs(3),
	RunE: runCreateWarrior,
}

var listWarriorsCmd = &cobra.Command{
	Use:   "list [owner]",
	Short: "List a player's warriors",
	Args:  cobra.ExactArgs(1),
	RunE:  runListWarriors,
}

var getWarriorCmd = &cobra.Command{
	Use:   "get [warrior-id]",
	Short: "Show a warrior and whether it can battle",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetWarrior,
}

func init() {
	warriorCmd.AddCommand(createWarriorCmd)
	warriorCmd.AddCommand(listWarriorsCmd)
	warriorCmd.AddCommand(getWarriorCmd)
}

func runCreateWarrior(cmd *cobra.Command, args []string) error {
	class, ok := entities.ParseWarriorClass(args[2])
	if !ok {
		return errors.InvalidArgumentf("unknown class %q", args[2])
	}

	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.warriors.Create(ctx, &warrior.CreateInput{
			Actor: args[0],
			Name:  args[1],
			Class: class,
		})
		if err != nil {
			return fmt.Errorf("failed to create warrior: %w", err)
		}
		printWarrior(out.Warrior, nil)
		fmt.Printf("\n%s has created %d warriors (%s)\n",
			out.Profile.Owner, out.Profile.WarriorsCreated, out.Achievements.WarriorAchievement)
		return nil
	})
}

func runListWarriors(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.warriors.ListByOwner(ctx, &warrior.ListByOwnerInput{Owner: args[0]})
		if err != nil {
			return fmt.Errorf("failed to list warriors: %w", err)
		}
		if len(out.Warriors) == 0 {
			fmt.Printf("%s has no warriors\n", args[0])
			return nil
		}
		for _, w := range out.Warriors {
			fmt.Printf("%-24s %-10s lvl %-3d HP %d/%d  W%d L%d\n",
				w.ID, w.Class, w.Level, w.CurrentHP, w.MaxHP, w.BattlesWon, w.BattlesLost)
		}
		return nil
	})
}

func runGetWarrior(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.warriors.Get(ctx, &warrior.GetInput{WarriorID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to get warrior: %w", err)
		}
		printWarrior(out.Warrior, &out.Readiness)
		return nil
	})
}

func printWarrior(w *entities.Warrior, readiness *engine.WarriorReadiness) {
	stats := w.Stats()
	fmt.Printf("Warrior %s\n", w.ID)
	fmt.Printf("==============\n")
	fmt.Printf("Class: %s  Level: %d  XP: %d\n", w.Class, w.Level, w.ExperiencePoints)
	fmt.Printf("HP: %d/%d\n", w.CurrentHP, w.MaxHP)
	fmt.Printf("Attack: %d  Defense: %d  Knowledge: %d\n", stats.Attack, stats.Defense, stats.Knowledge)
	fmt.Printf("Record: %d won, %d lost\n", w.BattlesWon, w.BattlesLost)
	fmt.Printf("DNA: %x\n", w.DNA)

	if readiness == nil {
		return
	}
	if readiness.Ready {
		fmt.Printf("Ready to battle\n")
	} else {
		fmt.Printf("Cooling down for %s\n", time.Duration(readiness.CooldownRemaining)*time.Second)
	}
}
