package engine

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
)

func validateWarriorName(name string) error {
	vb := errors.NewValidationBuilder().WithReason(ReasonInvalidWarriorName)
	errors.ValidateRequired("name", name, vb)
	errors.ValidateMaxBytes("name", name, entities.MaxWarriorNameLength, vb)
	errors.ValidateExcludes("name", name, entities.WarriorIDSeparator, vb)
	return vb.Build()
}

func validateOwner(owner string) error {
	vb := errors.NewValidationBuilder().WithReason(ReasonInvalidOwner)
	errors.ValidateExcludes("owner", owner, entities.WarriorIDSeparator, vb)
	return vb.Build()
}

// CreateWarrior rolls a new warrior's stats and bumps the owner's counters
func (e *engine) CreateWarrior(ctx context.Context, input *CreateWarriorInput) (*CreateWarriorOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Actor == "" {
		return nil, errors.InvalidArgument("actor is required")
	}
	if err := validateOwner(input.Actor); err != nil {
		return nil, err
	}
	if input.Config == nil {
		return nil, errors.InvalidArgument("game config is required")
	}
	if input.Config.IsPaused {
		return nil, stateViolation(ReasonGamePaused, "game is paused")
	}
	if err := validateWarriorName(input.Name); err != nil {
		return nil, err
	}
	if !input.Class.IsValid() {
		return nil, validationViolation(ReasonInvalidWarriorClass, "unknown warrior class").
			WithMeta("class", string(input.Class))
	}
	if input.Profile != nil && input.Profile.Owner != input.Actor {
		return nil, validationViolation(ReasonRecordMismatch, "profile belongs to another player")
	}
	if input.Achievements != nil && input.Achievements.Owner != input.Actor {
		return nil, validationViolation(ReasonRecordMismatch, "achievements belong to another player")
	}

	now := e.now()

	roller := e.newRoller(StatSeed(input.Actor, input.Name, input.DNA, input.Class))
	stats, err := GenerateStats(roller, input.Class)
	if err != nil {
		return nil, err
	}

	profile := input.Profile
	if profile == nil {
		profile = entities.NewUserProfile(input.Actor, now)
	}
	achievements := input.Achievements
	if achievements == nil {
		achievements = entities.NewUserAchievements(input.Actor)
	}

	warrior := &entities.Warrior{
		ID:            entities.WarriorID(input.Actor, input.Name),
		Owner:         input.Actor,
		Name:          input.Name,
		DNA:           input.DNA,
		Class:         input.Class,
		BaseAttack:    stats.Attack,
		BaseDefense:   stats.Defense,
		BaseKnowledge: stats.Knowledge,
		CurrentHP:     entities.MaxWarriorHP,
		MaxHP:         entities.MaxWarriorHP,
		Level:         1,
		CreatedAt:     now,
	}

	if profile.WarriorsCreated < ^uint32(0) {
		profile.WarriorsCreated++
	}
	achievements.WarriorAchievement = WarriorTier(profile.WarriorsCreated)
	if achievements.FirstWarriorDate == 0 {
		achievements.FirstWarriorDate = now
	}
	input.Config.TotalWarriors++

	slog.DebugContext(ctx, "warrior created",
		"warrior_id", warrior.ID,
		"class", warrior.Class,
		"attack", warrior.BaseAttack,
		"defense", warrior.BaseDefense,
		"knowledge", warrior.BaseKnowledge)

	return &CreateWarriorOutput{
		Warrior:      warrior,
		Profile:      profile,
		Achievements: achievements,
		Config:       input.Config,
	}, nil
}
