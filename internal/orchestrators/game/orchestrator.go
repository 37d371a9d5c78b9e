// Package game administers the arena: the process-wide config, pausing,
// the cooldown setting, and read access to the leaderboard and players.
package game

//go:generate mockgen -destination=mock/mock_service.go -package=gamemock github.com/KirkDiggler/undead-arena/internal/orchestrators/game Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators"
	"github.com/KirkDiggler/undead-arena/internal/pkg/clock"
	"github.com/KirkDiggler/undead-arena/internal/pkg/keylock"
	gamerepo "github.com/KirkDiggler/undead-arena/internal/repositories/game"
	playerrepo "github.com/KirkDiggler/undead-arena/internal/repositories/player"
)

// Service defines the interface for game administration
type Service interface {
	Initialize(ctx context.Context, input *InitializeInput) (*InitializeOutput, error)
	GetConfig(ctx context.Context, input *GetConfigInput) (*GetConfigOutput, error)
	UpdateConfig(ctx context.Context, input *UpdateConfigInput) (*UpdateConfigOutput, error)
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*GetPlayerOutput, error)
}

// Config holds the dependencies for the game orchestrator
type Config struct {
	Game    gamerepo.Repository
	Players playerrepo.Repository
	Clock   clock.Clock
	Locks   *keylock.Locker
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Game == nil {
		vb.RequiredField("Game")
	}
	if c.Players == nil {
		vb.RequiredField("Players")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Locks == nil {
		vb.RequiredField("Locks")
	}
	return vb.Build()
}

type orchestrator struct {
	game    gamerepo.Repository
	players playerrepo.Repository
	clock   clock.Clock
	locks   *keylock.Locker
}

// NewOrchestrator creates a new game orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		game:    cfg.Game,
		players: cfg.Players,
		clock:   cfg.Clock,
		locks:   cfg.Locks,
	}, nil
}

var _ Service = (*orchestrator)(nil)

func (o *orchestrator) Initialize(ctx context.Context, input *InitializeInput) (*InitializeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("admin", input.Admin, vb)
	errors.ValidateNonNegative("cooldown_time", input.CooldownTime, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	unlock := o.locks.Lock(orchestrators.GameLockKey)
	defer unlock()

	now := o.clock.Now().Unix()
	config := &entities.GameConfig{
		Admin:        input.Admin,
		CooldownTime: input.CooldownTime,
		CreatedAt:    now,
	}

	if _, err := o.game.CreateConfig(ctx, gamerepo.CreateConfigInput{Config: config}); err != nil {
		return nil, err
	}

	board := &entities.Leaderboard{LastUpdated: now}
	if _, err := o.game.SaveLeaderboard(ctx, gamerepo.SaveLeaderboardInput{Leaderboard: board}); err != nil {
		return nil, errors.Wrap(err, "failed to create leaderboard")
	}

	slog.InfoContext(ctx, "game initialized",
		"admin", config.Admin,
		"cooldown_time", config.CooldownTime)

	return &InitializeOutput{Config: config}, nil
}

func (o *orchestrator) GetConfig(ctx context.Context, input *GetConfigInput) (*GetConfigOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.game.GetConfig(ctx, gamerepo.GetConfigInput{})
	if err != nil {
		return nil, err
	}

	return &GetConfigOutput{Config: out.Config}, nil
}

func (o *orchestrator) UpdateConfig(ctx context.Context, input *UpdateConfigInput) (*UpdateConfigOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CooldownTime != nil && *input.CooldownTime < 0 {
		return nil, errors.InvalidArgument("cooldown time must not be negative")
	}

	unlock := o.locks.Lock(orchestrators.GameLockKey)
	defer unlock()

	out, err := o.game.GetConfig(ctx, gamerepo.GetConfigInput{})
	if err != nil {
		return nil, err
	}
	config := out.Config

	if !config.IsAdmin(input.Actor) {
		return nil, errors.PermissionDenied("only the game admin can change the config").
			WithReason(engine.ReasonNotAdmin)
	}

	if input.IsPaused != nil {
		config.IsPaused = *input.IsPaused
	}
	if input.CooldownTime != nil {
		config.CooldownTime = *input.CooldownTime
	}

	if _, err := o.game.SaveConfig(ctx, gamerepo.SaveConfigInput{Config: config}); err != nil {
		return nil, errors.Wrap(err, "failed to save game config")
	}

	slog.InfoContext(ctx, "game config updated",
		"admin", input.Actor,
		"is_paused", config.IsPaused,
		"cooldown_time", config.CooldownTime)

	return &UpdateConfigOutput{Config: config}, nil
}

func (o *orchestrator) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Limit < 0 {
		return nil, errors.InvalidArgument("limit must not be negative")
	}

	out, err := o.game.GetLeaderboard(ctx, gamerepo.GetLeaderboardInput{})
	if err != nil {
		return nil, err
	}

	entries := out.Leaderboard.Entries()
	if input.Limit > 0 && len(entries) > input.Limit {
		entries = entries[:input.Limit]
	}

	return &GetLeaderboardOutput{
		Entries:     entries,
		LastUpdated: out.Leaderboard.LastUpdated,
	}, nil
}

func (o *orchestrator) GetPlayer(ctx context.Context, input *GetPlayerInput) (*GetPlayerOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Owner == "" {
		return nil, errors.InvalidArgument("owner is required")
	}

	player, err := o.players.Get(ctx, playerrepo.GetInput{Owner: input.Owner})
	if err != nil {
		return nil, err
	}

	board, err := o.game.GetLeaderboard(ctx, gamerepo.GetLeaderboardInput{})
	if err != nil {
		return nil, err
	}
	rank, _ := board.Leaderboard.Rank(input.Owner)

	return &GetPlayerOutput{
		Profile:      player.Profile,
		Achievements: player.Achievements,
		Rank:         rank,
	}, nil
}
