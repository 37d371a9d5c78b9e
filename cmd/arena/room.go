package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/battle"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/settlement"
)

var (
	roomActor   string
	roomWarrior string
	roomSeed    string
)

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Drive a battle room one step at a time",
}

var createRoomCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a room with --actor's --warrior in slot A",
	Args:  cobra.NoArgs,
	RunE:  runCreateRoom,
}

var joinRoomCmd = &cobra.Command{
	Use:   "join [room-id]",
	Short: "Join a room with --actor's --warrior",
	Args:  cobra.ExactArgs(1),
	RunE:  runJoinRoom,
}

var readyCmd = &cobra.Command{
	Use:   "ready [room-id]",
	Short: "Mark --actor ready",
	Args:  cobra.ExactArgs(1),
	RunE:  runReady,
}

var startCmd = &cobra.Command{
	Use:   "start [room-id]",
	Short: "Start a room once both players are ready",
	Args:  cobra.ExactArgs(1),
	RunE:  runStart,
}

var answerCmd = &cobra.Command{
	Use:   "answer [room-id] [true|false] [seed]",
	Short: "Answer the current question as --actor",
	Args:  cobra.ExactArgs(3),
	RunE:  runAnswer,
}

var cancelRoomCmd = &cobra.Command{
	Use:   "cancel [room-id]",
	Short: "Cancel a room that has not started",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancelRoom,
}

var getRoomCmd = &cobra.Command{
	Use:   "get [room-id]",
	Short: "Show a room",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetRoom,
}

var listRoomsCmd = &cobra.Command{
	Use:   "list [player]",
	Short: "List rooms a player created or joined",
	Args:  cobra.ExactArgs(1),
	RunE:  runListRooms,
}

var settleRoomCmd = &cobra.Command{
	Use:   "settle [room-id]",
	Short: "Settle a completed room now instead of waiting for the worker",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettleRoom,
}

func init() {
	roomCmd.PersistentFlags().StringVar(&roomActor, "actor", "", "Acting player")
	createRoomCmd.Flags().StringVar(&roomWarrior, "warrior", "", "Warrior id (owner:name)")
	createRoomCmd.Flags().StringVar(&roomSeed, "seed", "", "Seed for the room id and questions (random when empty)")
	joinRoomCmd.Flags().StringVar(&roomWarrior, "warrior", "", "Warrior id (owner:name)")

	roomCmd.AddCommand(createRoomCmd)
	roomCmd.AddCommand(joinRoomCmd)
	roomCmd.AddCommand(readyCmd)
	roomCmd.AddCommand(startCmd)
	roomCmd.AddCommand(answerCmd)
	roomCmd.AddCommand(cancelRoomCmd)
	roomCmd.AddCommand(getRoomCmd)
	roomCmd.AddCommand(listRoomsCmd)
	roomCmd.AddCommand(settleRoomCmd)
}

func parseRoomID(s string) (entities.RoomID, error) {
	id, err := entities.ParseRoomID(s)
	if err != nil {
		return id, errors.Wrap(err, "invalid room id")
	}
	return id, nil
}

func runCreateRoom(cmd *cobra.Command, args []string) error {
	// Without a seed the room id is generated and the questions follow the warrior
	qs := newQuestionSet(roomWarrior)
	input := &battle.CreateRoomInput{
		Actor:     roomActor,
		WarriorID: roomWarrior,
	}
	if roomSeed != "" {
		qs = newQuestionSet(roomSeed)
		input.RoomID = entities.NewRoomID(roomSeed)
	}
	input.SelectedConcepts = qs.Concepts
	input.SelectedTopics = qs.Topics
	input.SelectedQuestions = qs.Questions
	input.CorrectAnswers = qs.Answers

	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.battles.CreateRoom(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}
		printRoom(out.Room)
		return nil
	})
}

func runJoinRoom(cmd *cobra.Command, args []string) error {
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.battles.JoinRoom(ctx, &battle.JoinRoomInput{Actor: roomActor, RoomID: roomID, WarriorID: roomWarrior})
		if err != nil {
			return fmt.Errorf("failed to join room: %w", err)
		}
		printRoom(out.Room)
		return nil
	})
}

func runReady(cmd *cobra.Command, args []string) error {
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.battles.SignalReady(ctx, &battle.SignalReadyInput{Actor: roomActor, RoomID: roomID})
		if err != nil {
			return fmt.Errorf("failed to signal ready: %w", err)
		}
		printRoom(out.Room)
		if out.BothReady {
			fmt.Printf("\nBoth players ready; warriors healed\n")
		}
		return nil
	})
}

func runStart(cmd *cobra.Command, args []string) error {
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.battles.StartBattle(ctx, &battle.StartBattleInput{Actor: roomActor, RoomID: roomID})
		if err != nil {
			return fmt.Errorf("failed to start battle: %w", err)
		}
		printRoom(out.Room)
		return nil
	})
}

func runAnswer(cmd *cobra.Command, args []string) error {
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}
	answer, err := strconv.ParseBool(args[1])
	if err != nil {
		return errors.InvalidArgumentf("answer must be true or false, got %q", args[1])
	}
	seed, err := strconv.ParseUint(args[2], 10, 8)
	if err != nil {
		return errors.InvalidArgumentf("seed must be 0-255, got %q", args[2])
	}

	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.battles.AnswerQuestion(ctx, &battle.AnswerQuestionInput{
			Actor:  roomActor,
			RoomID: roomID,
			Answer: answer,
			Seed:   uint8(seed),
		})
		if err != nil {
			return fmt.Errorf("failed to answer: %w", err)
		}
		if out.Round == nil {
			fmt.Printf("Answer recorded; waiting for opponent\n")
			return nil
		}
		r := out.Round
		fmt.Printf("Question %d (%s): A %s, B %s\n", r.Question+1, r.Phase, mark(r.PlayerACorrect), mark(r.PlayerBCorrect))
		fmt.Printf("HP: %s %d/%d, %s %d/%d\n",
			out.WarriorA.ID, out.WarriorA.CurrentHP, out.WarriorA.MaxHP,
			out.WarriorB.ID, out.WarriorB.CurrentHP, out.WarriorB.MaxHP)
		if r.Completed {
			fmt.Printf("Battle over, winner %s\n", r.Winner)
		}
		return nil
	})
}

func runCancelRoom(cmd *cobra.Command, args []string) error {
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.battles.CancelRoom(ctx, &battle.CancelRoomInput{Actor: roomActor, RoomID: roomID})
		if err != nil {
			return fmt.Errorf("failed to cancel room: %w", err)
		}
		printRoom(out.Room)
		return nil
	})
}

func runGetRoom(cmd *cobra.Command, args []string) error {
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.battles.GetRoom(ctx, &battle.GetRoomInput{RoomID: roomID})
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}
		printRoom(out.Room)
		return nil
	})
}

func runListRooms(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.battles.ListRooms(ctx, &battle.ListRoomsInput{Player: args[0]})
		if err != nil {
			return fmt.Errorf("failed to list rooms: %w", err)
		}
		for _, room := range out.Rooms {
			fmt.Printf("%s  %-20s %s vs %s  winner=%s settled=%t\n",
				room.RoomID, room.State, room.WarriorA, room.WarriorB, room.Winner, room.Settled)
		}
		return nil
	})
}

func runSettleRoom(cmd *cobra.Command, args []string) error {
	roomID, err := parseRoomID(args[0])
	if err != nil {
		return err
	}
	return withApp(func(ctx context.Context, a *app) error {
		out, err := a.settlement.Settle(ctx, &settlement.SettleInput{RoomID: roomID})
		if err != nil {
			return fmt.Errorf("failed to settle room: %w", err)
		}
		s := out.Settlement
		fmt.Printf("Winner %s: +%d XP, rank %d\n", s.Winner, s.WinnerXP, s.WinnerRank)
		fmt.Printf("Loser %s: +%d XP, rank %d\n", s.Loser, s.LoserXP, s.LoserRank)
		return nil
	})
}

func printRoom(room *entities.BattleRoom) {
	fmt.Printf("Room %s\n", room.RoomID)
	fmt.Printf("==============\n")
	fmt.Printf("State: %s\n", room.State)
	fmt.Printf("Player A: %s (%s) ready=%t\n", room.PlayerA, room.WarriorA, room.PlayerAReady)
	if room.HasPlayerB() {
		fmt.Printf("Player B: %s (%s) ready=%t\n", room.PlayerB, room.WarriorB, room.PlayerBReady)
	}
	fmt.Printf("Concepts: %v\n", room.SelectedConcepts)
	if room.State == entities.BattleStateInProgress {
		fmt.Printf("Current question: %d\n", room.CurrentQuestion+1)
	}
	fmt.Printf("Score: %d - %d\n", room.PlayerACorrect, room.PlayerBCorrect)
	if room.HasWinner() {
		fmt.Printf("Winner: %s\n", room.Winner)
	}
	if room.State.IsTerminal() {
		fmt.Printf("Settled: %t\n", room.Settled)
	}
}
