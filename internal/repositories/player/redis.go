package player

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	redisclient "github.com/KirkDiggler/undead-arena/internal/redis"
)

const (
	profileKeyPrefix      = "player:profile:"
	achievementsKeyPrefix = "player:achievements:"

	// Error messages
	errOwnerEmpty = "owner cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis player repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed player repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Owner == "" {
		return nil, errors.InvalidArgument(errOwnerEmpty)
	}

	values, err := r.client.MGet(ctx,
		profileKeyPrefix+input.Owner,
		achievementsKeyPrefix+input.Owner,
	).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get player records")
	}

	rawProfile, ok := values[0].(string)
	if !ok {
		return nil, errors.NotFoundf("player %s not found", input.Owner)
	}

	var profile entities.UserProfile
	if err := json.Unmarshal([]byte(rawProfile), &profile); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal profile")
	}

	// achievements written before the profile existed are rebuilt empty
	achievements := entities.NewUserAchievements(input.Owner)
	if rawAchievements, ok := values[1].(string); ok {
		if err := json.Unmarshal([]byte(rawAchievements), achievements); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal achievements")
		}
	}

	return &GetOutput{Profile: &profile, Achievements: achievements}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Profile == nil || input.Achievements == nil {
		return nil, errors.InvalidArgument("profile and achievements are required")
	}
	if input.Profile.Owner == "" {
		return nil, errors.InvalidArgument(errOwnerEmpty)
	}
	if input.Profile.Owner != input.Achievements.Owner {
		return nil, errors.InvalidArgumentf("profile owner %s does not match achievements owner %s",
			input.Profile.Owner, input.Achievements.Owner)
	}

	profileData, err := json.Marshal(input.Profile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal profile")
	}
	achievementsData, err := json.Marshal(input.Achievements)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal achievements")
	}

	owner := input.Profile.Owner
	err = redisclient.Queue(ctx, r.client, input.Pipe, func(pipe redisclient.Pipeliner) {
		pipe.Set(ctx, profileKeyPrefix+owner, profileData, 0)
		pipe.Set(ctx, achievementsKeyPrefix+owner, achievementsData, 0)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save player records")
	}

	return &SaveOutput{}, nil
}
