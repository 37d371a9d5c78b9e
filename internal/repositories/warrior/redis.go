package warrior

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	redisclient "github.com/KirkDiggler/undead-arena/internal/redis"
)

const (
	warriorKeyPrefix = "warrior:"
	ownerIndexPrefix = "warrior:owner:"

	// Error messages
	errWarriorNil     = "warrior cannot be nil"
	errWarriorIDEmpty = "warrior ID cannot be empty"
	errOwnerEmpty     = "owner cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis warrior repository
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

// NewRedis creates a new Redis-backed warrior repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func validateWarrior(w *entities.Warrior) error {
	if w == nil {
		return errors.InvalidArgument(errWarriorNil)
	}
	if w.ID == "" {
		return errors.InvalidArgument(errWarriorIDEmpty)
	}
	if w.Owner == "" {
		return errors.InvalidArgument(errOwnerEmpty)
	}
	return nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateWarrior(input.Warrior); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Warrior)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal warrior")
	}

	// SETNX keeps two concurrent creates of the same name from both succeeding
	key := warriorKeyPrefix + input.Warrior.ID
	created, err := r.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create warrior")
	}
	if !created {
		return nil, errors.AlreadyExistsf("warrior %s already exists", input.Warrior.ID)
	}

	if err := r.client.SAdd(ctx, ownerIndexPrefix+input.Warrior.Owner, input.Warrior.ID).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to index warrior")
	}

	return &CreateOutput{Warrior: input.Warrior}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errWarriorIDEmpty)
	}

	result, err := r.client.Get(ctx, warriorKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redisclient.Nil {
			return nil, errors.NotFoundf("warrior %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get warrior")
	}

	var w entities.Warrior
	if err := json.Unmarshal([]byte(result), &w); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal warrior")
	}

	return &GetOutput{Warrior: &w}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateWarrior(input.Warrior); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Warrior)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal warrior")
	}

	key := warriorKeyPrefix + input.Warrior.ID
	if input.Pipe == nil {
		updated, err := r.client.SetXX(ctx, key, data, 0).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to update warrior")
		}
		if !updated {
			return nil, errors.NotFoundf("warrior %s not found", input.Warrior.ID)
		}
		return &UpdateOutput{Warrior: input.Warrior}, nil
	}

	// a queued write cannot report a missing key before Exec, so check first
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("warrior %s not found", input.Warrior.ID)
	}
	input.Pipe.Set(ctx, key, data, 0)

	return &UpdateOutput{Warrior: input.Warrior}, nil
}

func (r *redisRepository) ListByOwner(ctx context.Context, input ListByOwnerInput) (*ListByOwnerOutput, error) {
	if input.Owner == "" {
		return nil, errors.InvalidArgument(errOwnerEmpty)
	}

	indexKey := ownerIndexPrefix + input.Owner
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get warriors from index %s", indexKey)
	}

	warriors := make([]*entities.Warrior, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "warrior not found, cleaning up index",
					"warrior_id", id,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, err
		}
		warriors = append(warriors, out.Warrior)
	}

	sort.Slice(warriors, func(i, j int) bool {
		return warriors[i].Name < warriors[j].Name
	})

	return &ListByOwnerOutput{Warriors: warriors}, nil
}
