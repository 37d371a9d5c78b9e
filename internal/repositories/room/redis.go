package room

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
	roomKeyPrefix     = "battle_room:"
	playerIndexPrefix = "battle_room:player:"
	unsettledIndexKey = "battle_room:unsettled"

	// Error messages
	errRoomNil    = "room cannot be nil"
	errRoomIDZero = "room ID cannot be empty"
	errPlayerNil  = "player cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis room repository
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

// NewRedis creates a new Redis-backed room repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func roomKey(id entities.RoomID) string {
	return roomKeyPrefix + id.String()
}

func needsSettlement(room *entities.BattleRoom) bool {
	return room.State == entities.BattleStateCompleted && room.HasWinner() && !room.Settled
}

func validateRoom(room *entities.BattleRoom) error {
	if room == nil {
		return errors.InvalidArgument(errRoomNil)
	}
	if room.RoomID.IsZero() {
		return errors.InvalidArgument(errRoomIDZero)
	}
	return nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateRoom(input.Room); err != nil {
		return nil, err
	}

	key := roomKey(input.Room.RoomID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("room %s already exists", input.Room.RoomID)
	}

	data, err := json.Marshal(input.Room)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal room")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, playerIndexPrefix+input.Room.PlayerA, input.Room.RoomID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create room")
	}

	return &CreateOutput{Room: input.Room}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.RoomID.IsZero() {
		return nil, errors.InvalidArgument(errRoomIDZero)
	}

	result, err := r.client.Get(ctx, roomKey(input.RoomID)).Result()
	if err != nil {
		if err == redisclient.Nil {
			return nil, errors.NotFoundf("room %s not found", input.RoomID)
		}
		return nil, errors.Wrapf(err, "failed to get room")
	}

	var room entities.BattleRoom
	if err := json.Unmarshal([]byte(result), &room); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal room")
	}

	return &GetOutput{Room: &room}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateRoom(input.Room); err != nil {
		return nil, err
	}

	key := roomKey(input.Room.RoomID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("room %s not found", input.Room.RoomID)
	}

	data, err := json.Marshal(input.Room)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal room")
	}

	id := input.Room.RoomID.String()
	err = redisclient.Queue(ctx, r.client, input.Pipe, func(pipe redisclient.Pipeliner) {
		pipe.Set(ctx, key, data, 0)
		if input.Room.HasPlayerB() {
			pipe.SAdd(ctx, playerIndexPrefix+input.Room.PlayerB, id)
		}
		if needsSettlement(input.Room) {
			pipe.SAdd(ctx, unsettledIndexKey, id)
		} else {
			pipe.SRem(ctx, unsettledIndexKey, id)
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update room")
	}

	return &UpdateOutput{Room: input.Room}, nil
}

func (r *redisRepository) ListByPlayer(ctx context.Context, input ListByPlayerInput) (*ListByPlayerOutput, error) {
	if input.Player == "" {
		return nil, errors.InvalidArgument(errPlayerNil)
	}

	rooms, err := r.listByIndex(ctx, playerIndexPrefix+input.Player, 0)
	if err != nil {
		return nil, err
	}

	return &ListByPlayerOutput{Rooms: rooms}, nil
}

func (r *redisRepository) ListUnsettled(
	ctx context.Context,
	input ListUnsettledInput,
) (*ListUnsettledOutput, error) {
	rooms, err := r.listByIndex(ctx, unsettledIndexKey, input.Limit)
	if err != nil {
		return nil, err
	}

	return &ListUnsettledOutput{Rooms: rooms}, nil
}

// listByIndex loads the rooms named in a set, oldest first. Ids whose room
// no longer exists are dropped from the index.
func (r *redisRepository) listByIndex(
	ctx context.Context,
	indexKey string,
	limit int,
) ([]*entities.BattleRoom, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get rooms from index %s", indexKey)
	}

	rooms := make([]*entities.BattleRoom, 0, len(ids))
	for _, raw := range ids {
		id, err := entities.ParseRoomID(raw)
		if err != nil {
			slog.WarnContext(ctx, "dropping malformed room id from index",
				"index_key", indexKey,
				"room_id", raw)
			r.client.SRem(ctx, indexKey, raw)
			continue
		}

		out, err := r.Get(ctx, GetInput{RoomID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "room not found, cleaning up index",
					"index_key", indexKey,
					"room_id", raw)
				r.client.SRem(ctx, indexKey, raw)
				continue
			}
			return nil, err
		}
		rooms = append(rooms, out.Room)
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt != rooms[j].CreatedAt {
			return rooms[i].CreatedAt < rooms[j].CreatedAt
		}
		return rooms[i].RoomID.String() < rooms[j].RoomID.String()
	})

	if limit > 0 && len(rooms) > limit {
		rooms = rooms[:limit]
	}

	return rooms, nil
}
