package game

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	redisclient "github.com/KirkDiggler/undead-arena/internal/redis"
)

const (
	configKey      = "game:config"
	leaderboardKey = "game:leaderboard"

	// Error messages
	errConfigNil      = "config cannot be nil"
	errLeaderboardNil = "leaderboard cannot be nil"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis game repository
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

// NewRedis creates a new Redis-backed game repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) CreateConfig(ctx context.Context, input CreateConfigInput) (*CreateConfigOutput, error) {
	if input.Config == nil {
		return nil, errors.InvalidArgument(errConfigNil)
	}

	data, err := json.Marshal(input.Config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal config")
	}

	created, err := r.client.SetNX(ctx, configKey, data, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create config")
	}
	if !created {
		return nil, errors.AlreadyExists("game is already initialized")
	}

	return &CreateConfigOutput{Config: input.Config}, nil
}

func (r *redisRepository) GetConfig(ctx context.Context, _ GetConfigInput) (*GetConfigOutput, error) {
	result, err := r.client.Get(ctx, configKey).Result()
	if err != nil {
		if err == redisclient.Nil {
			return nil, errors.NotFound("game is not initialized")
		}
		return nil, errors.Wrapf(err, "failed to get config")
	}

	var config entities.GameConfig
	if err := json.Unmarshal([]byte(result), &config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config")
	}

	return &GetConfigOutput{Config: &config}, nil
}

func (r *redisRepository) SaveConfig(ctx context.Context, input SaveConfigInput) (*SaveConfigOutput, error) {
	if input.Config == nil {
		return nil, errors.InvalidArgument(errConfigNil)
	}

	data, err := json.Marshal(input.Config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal config")
	}

	err = redisclient.Queue(ctx, r.client, input.Pipe, func(pipe redisclient.Pipeliner) {
		pipe.Set(ctx, configKey, data, 0)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save config")
	}

	return &SaveConfigOutput{}, nil
}

func (r *redisRepository) GetLeaderboard(
	ctx context.Context,
	_ GetLeaderboardInput,
) (*GetLeaderboardOutput, error) {
	result, err := r.client.Get(ctx, leaderboardKey).Result()
	if err != nil {
		if err == redisclient.Nil {
			return &GetLeaderboardOutput{Leaderboard: &entities.Leaderboard{}}, nil
		}
		return nil, errors.Wrapf(err, "failed to get leaderboard")
	}

	var board entities.Leaderboard
	if err := json.Unmarshal([]byte(result), &board); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal leaderboard")
	}

	return &GetLeaderboardOutput{Leaderboard: &board}, nil
}

func (r *redisRepository) SaveLeaderboard(
	ctx context.Context,
	input SaveLeaderboardInput,
) (*SaveLeaderboardOutput, error) {
	if input.Leaderboard == nil {
		return nil, errors.InvalidArgument(errLeaderboardNil)
	}

	data, err := json.Marshal(input.Leaderboard)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal leaderboard")
	}

	err = redisclient.Queue(ctx, r.client, input.Pipe, func(pipe redisclient.Pipeliner) {
		pipe.Set(ctx, leaderboardKey, data, 0)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save leaderboard")
	}

	return &SaveLeaderboardOutput{}, nil
}
