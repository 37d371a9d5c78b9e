// Package warrior creates and looks up warriors
package warrior

//go:generate mockgen -destination=mock/mock_service.go -package=warriormock github.com/KirkDiggler/undead-arena/internal/orchestrators/warrior Service

import (
	"context"
	"crypto/sha256"
	"log/slog"

	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators"
	"github.com/KirkDiggler/undead-arena/internal/pkg/clock"
	"github.com/KirkDiggler/undead-arena/internal/pkg/idgen"
	"github.com/KirkDiggler/undead-arena/internal/pkg/keylock"
	gamerepo "github.com/KirkDiggler/undead-arena/internal/repositories/game"
	playerrepo "github.com/KirkDiggler/undead-arena/internal/repositories/player"
	warriorrepo "github.com/KirkDiggler/undead-arena/internal/repositories/warrior"
)

// Service defines the interface for warrior operations
type Service interface {
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	ListByOwner(ctx context.Context, input *ListByOwnerInput) (*ListByOwnerOutput, error)
}

// Config holds the dependencies for the warrior orchestrator
type Config struct {
	Engine      engine.Engine
	Warriors    warriorrepo.Repository
	Players     playerrepo.Repository
	Game        gamerepo.Repository
	IDGenerator idgen.Generator
	Clock       clock.Clock
	Locks       *keylock.Locker
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Warriors == nil {
		vb.RequiredField("Warriors")
	}
	if c.Players == nil {
		vb.RequiredField("Players")
	}
	if c.Game == nil {
		vb.RequiredField("Game")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
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
	engine   engine.Engine
	warriors warriorrepo.Repository
	players  playerrepo.Repository
	game     gamerepo.Repository
	idGen    idgen.Generator
	clock    clock.Clock
	locks    *keylock.Locker
}

// NewOrchestrator creates a new warrior orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		engine:   cfg.Engine,
		warriors: cfg.Warriors,
		players:  cfg.Players,
		game:     cfg.Game,
		idGen:    cfg.IDGenerator,
		clock:    cfg.Clock,
		locks:    cfg.Locks,
	}, nil
}

var _ Service = (*orchestrator)(nil)

func (o *orchestrator) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Actor == "" {
		return nil, errors.InvalidArgument("actor is required")
	}

	unlock := o.locks.LockAll(
		orchestrators.GameLockKey,
		orchestrators.PlayerLockKey(input.Actor),
		orchestrators.WarriorLockKey(entities.WarriorID(input.Actor, input.Name)),
	)
	defer unlock()

	configOut, err := o.game.GetConfig(ctx, gamerepo.GetConfigInput{})
	if err != nil {
		return nil, err
	}

	var profile *entities.UserProfile
	var achievements *entities.UserAchievements
	player, err := o.players.Get(ctx, playerrepo.GetInput{Owner: input.Actor})
	switch {
	case err == nil:
		profile, achievements = player.Profile, player.Achievements
	case errors.IsNotFound(err):
		// first warrior; the engine starts fresh records
	default:
		return nil, errors.Wrap(err, "failed to load player")
	}

	dna := input.DNA
	if dna == ([8]byte{}) {
		sum := sha256.Sum256([]byte(o.idGen.Generate()))
		copy(dna[:], sum[:8])
	}

	result, err := o.engine.CreateWarrior(ctx, &engine.CreateWarriorInput{
		Actor:        input.Actor,
		Name:         input.Name,
		DNA:          dna,
		Class:        input.Class,
		Profile:      profile,
		Achievements: achievements,
		Config:       configOut.Config,
	})
	if err != nil {
		return nil, err
	}

	// the warrior goes first so a duplicate name fails before any counter moves
	if _, err := o.warriors.Create(ctx, warriorrepo.CreateInput{Warrior: result.Warrior}); err != nil {
		return nil, err
	}
	if _, err := o.players.Save(ctx, playerrepo.SaveInput{
		Profile:      result.Profile,
		Achievements: result.Achievements,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to save player")
	}
	if _, err := o.game.SaveConfig(ctx, gamerepo.SaveConfigInput{Config: result.Config}); err != nil {
		return nil, errors.Wrap(err, "failed to save game config")
	}

	slog.InfoContext(ctx, "warrior created",
		"warrior_id", result.Warrior.ID,
		"owner", input.Actor,
		"class", result.Warrior.Class,
		"warriors_created", result.Profile.WarriorsCreated)

	return &CreateOutput{
		Warrior:      result.Warrior,
		Profile:      result.Profile,
		Achievements: result.Achievements,
	}, nil
}

func (o *orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.WarriorID == "" {
		return nil, errors.InvalidArgument("warrior ID is required")
	}

	out, err := o.warriors.Get(ctx, warriorrepo.GetInput{ID: input.WarriorID})
	if err != nil {
		return nil, err
	}

	return &GetOutput{
		Warrior:   out.Warrior,
		Readiness: engine.Readiness(out.Warrior, o.clock.Now().Unix()),
	}, nil
}

func (o *orchestrator) ListByOwner(ctx context.Context, input *ListByOwnerInput) (*ListByOwnerOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Owner == "" {
		return nil, errors.InvalidArgument("owner is required")
	}

	out, err := o.warriors.ListByOwner(ctx, warriorrepo.ListByOwnerInput{Owner: input.Owner})
	if err != nil {
		return nil, err
	}

	return &ListByOwnerOutput{Warriors: out.Warriors}, nil
}
