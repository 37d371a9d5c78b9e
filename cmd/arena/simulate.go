package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/battle"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/settlement"
	"github.com/KirkDiggler/undead-arena/internal/pkg/idgen"
)

var (
	simSeed   string
	simSkillA int
	simSkillB int
	simSettle bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [warrior-a] [warrior-b]",
	Short: "Play a full battle between two stored warriors",
	Long: `Create a room, join, ready up and answer every question for both
players. Answers are drawn from the seed so a run can be replayed. Examples:

  simulate alice:ghoul bob:wraith
  simulate alice:ghoul bob:wraith --skill-a 9 --skill-b 3 --seed rematch`,
	Args: cobra.ExactArgs(2),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simSeed, "seed", "", "Seed for the room id, questions and answers (random when empty)")
	simulateCmd.Flags().IntVar(&simSkillA, "skill-a", 7, "Player A correct answers out of 10")
	simulateCmd.Flags().IntVar(&simSkillB, "skill-b", 7, "Player B correct answers out of 10")
	simulateCmd.Flags().BoolVar(&simSettle, "settle", true, "Settle the room as soon as it completes")
}

// simulationPlan describes one scripted battle
type simulationPlan struct {
	Seed     string
	WarriorA string
	WarriorB string
	SkillA   int
	SkillB   int
	Settle   bool
}

// simulationResult is what a scripted battle produced
type simulationResult struct {
	Seed       string
	Room       *entities.BattleRoom
	Rounds     []*engine.RoundResult
	Settlement *engine.SettleOutput
}

func ownerOf(warriorID string) (string, error) {
	owner, _, ok := entities.SplitWarriorID(warriorID)
	if !ok {
		return "", errors.InvalidArgumentf("warrior id %q is not owner:name", warriorID)
	}
	return owner, nil
}

func runSimulation(ctx context.Context, a *app, plan simulationPlan) (*simulationResult, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("SkillA", plan.SkillA, 0, 10, vb)
	errors.ValidateRange("SkillB", plan.SkillB, 0, 10, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	ownerA, err := ownerOf(plan.WarriorA)
	if err != nil {
		return nil, err
	}
	ownerB, err := ownerOf(plan.WarriorB)
	if err != nil {
		return nil, err
	}

	seed := plan.Seed
	if seed == "" {
		seed = idgen.NewUUID("sim").Generate()
	}
	qs := newQuestionSet(seed)

	created, err := a.battles.CreateRoom(ctx, &battle.CreateRoomInput{
		Actor:             ownerA,
		WarriorID:         plan.WarriorA,
		RoomID:            entities.NewRoomID(seed),
		SelectedConcepts:  qs.Concepts,
		SelectedTopics:    qs.Topics,
		SelectedQuestions: qs.Questions,
		CorrectAnswers:    qs.Answers,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create room")
	}
	roomID := created.Room.RoomID

	if _, err := a.battles.JoinRoom(ctx, &battle.JoinRoomInput{Actor: ownerB, RoomID: roomID, WarriorID: plan.WarriorB}); err != nil {
		return nil, errors.Wrap(err, "join room")
	}
	for _, player := range []string{ownerA, ownerB} {
		if _, err := a.battles.SignalReady(ctx, &battle.SignalReadyInput{Actor: player, RoomID: roomID}); err != nil {
			return nil, errors.Wrapf(err, "signal ready for %s", player)
		}
	}
	started, err := a.battles.StartBattle(ctx, &battle.StartBattleInput{Actor: ownerA, RoomID: roomID})
	if err != nil {
		return nil, errors.Wrap(err, "start battle")
	}

	result := &simulationResult{Seed: seed, Room: started.Room}
	players := []struct {
		owner string
		skill int
	}{
		{owner: ownerA, skill: plan.SkillA},
		{owner: ownerB, skill: plan.SkillB},
	}

	for i := 0; i < entities.QuestionCount && result.Room.State == entities.BattleStateInProgress; i++ {
		q := result.Room.CurrentQuestion
		for _, p := range players {
			answer, damageSeed := simulatedAnswer(qs, seed, p.owner, q, p.skill)
			out, err := a.battles.AnswerQuestion(ctx, &battle.AnswerQuestionInput{
				Actor:  p.owner,
				RoomID: roomID,
				Answer: answer,
				Seed:   damageSeed,
			})
			if err != nil {
				return nil, errors.Wrapf(err, "answer question %d for %s", q, p.owner)
			}
			result.Room = out.Room
			if out.Round != nil {
				result.Rounds = append(result.Rounds, out.Round)
			}
		}
	}

	if result.Room.State != entities.BattleStateCompleted {
		return nil, errors.Internalf("battle ended in state %s", result.Room.State)
	}
	if !plan.Settle {
		return result, nil
	}

	settled, err := a.settlement.Settle(ctx, &settlement.SettleInput{RoomID: roomID})
	if err != nil {
		return nil, errors.Wrap(err, "settle room")
	}
	result.Settlement = settled.Settlement
	result.Room = settled.Settlement.Room
	return result, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		result, err := runSimulation(ctx, a, simulationPlan{
			Seed:     simSeed,
			WarriorA: args[0],
			WarriorB: args[1],
			SkillA:   simSkillA,
			SkillB:   simSkillB,
			Settle:   simSettle,
		})
		if err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		printSimulation(result)
		return nil
	})
}

func printSimulation(result *simulationResult) {
	room := result.Room
	fmt.Printf("Battle %s (seed %q)\n", room.RoomID, result.Seed)
	fmt.Printf("================\n")
	fmt.Printf("%s vs %s\n\n", room.WarriorA, room.WarriorB)

	for _, round := range result.Rounds {
		fmt.Printf("Q%-2d [%s] A:%s B:%s", round.Question+1, round.Phase, mark(round.PlayerACorrect), mark(round.PlayerBCorrect))
		if round.DamageToB != nil {
			fmt.Printf("  B takes %d", round.DamageToB.Damage)
		}
		if round.DamageToA != nil {
			fmt.Printf("  A takes %d", round.DamageToA.Damage)
		}
		fmt.Println()
	}

	fmt.Printf("\nScore: %d - %d\n", room.PlayerACorrect, room.PlayerBCorrect)
	fmt.Printf("Winner: %s\n", room.Winner)

	if s := result.Settlement; s != nil {
		fmt.Printf("\nSettlement\n")
		fmt.Printf("  %s: +%d XP, rank %d\n", s.Winner, s.WinnerXP, s.WinnerRank)
		fmt.Printf("  %s: +%d XP, rank %d\n", s.Loser, s.LoserXP, s.LoserRank)
		if s.Elimination {
			fmt.Printf("  Ended by elimination\n")
		}
	}
}

func mark(correct bool) string {
	if correct {
		return "correct"
	}
	return "wrong"
}
