package checkpoint

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/undead-arena/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	warriorrepo "github.com/KirkDiggler/undead-arena/internal/repositories/warrior"
)

// RecorderConfig holds the dependencies for a Recorder
type RecorderConfig struct {
	Archive  Archive
	Warriors warriorrepo.Repository
	EventBus events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *RecorderConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Archive == nil {
		vb.RequiredField("Archive")
	}
	if c.Warriors == nil {
		vb.RequiredField("Warriors")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	return vb.Build()
}

// Recorder archives rooms as battle events arrive on the bus. Completion
// writes the first checkpoint; settlement overwrites it with the settled
// room and post-settlement warriors.
type Recorder struct {
	archive  Archive
	warriors warriorrepo.Repository
	bus      events.EventBus
	subs     []string
}

// NewRecorder creates a Recorder. Call Start to subscribe.
func NewRecorder(cfg *RecorderConfig) (*Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Recorder{
		archive:  cfg.Archive,
		warriors: cfg.Warriors,
		bus:      cfg.EventBus,
	}, nil
}

// Start subscribes to battle completion and settlement events
func (r *Recorder) Start() {
	if len(r.subs) > 0 {
		return
	}
	for _, eventType := range []string{rpgtoolkit.EventBattleCompleted, rpgtoolkit.EventBattleSettled} {
		r.subs = append(r.subs, r.bus.SubscribeFunc(eventType, 0, r.handle))
	}
}

// Stop removes the subscriptions added by Start
func (r *Recorder) Stop() {
	for _, id := range r.subs {
		if err := r.bus.Unsubscribe(id); err != nil {
			slog.Warn("failed to unsubscribe checkpoint recorder",
				"subscription", id,
				"error", err.Error())
		}
	}
	r.subs = nil
}

func (r *Recorder) handle(ctx context.Context, event events.Event) error {
	room, ok := rpgtoolkit.RoomFromEvent(event)
	if !ok {
		slog.WarnContext(ctx, "battle event without a room")
		return nil
	}

	if err := r.Record(ctx, room); err != nil {
		slog.ErrorContext(ctx, "failed to record checkpoint",
			"room_id", room.RoomID.String(),
			"error", err.Error())
		return err
	}
	return nil
}

// Record archives room together with the current state of its warriors.
// A warrior that can no longer be loaded is left out of the snapshot.
func (r *Recorder) Record(ctx context.Context, room *entities.BattleRoom) error {
	warriors := make([]*entities.Warrior, 0, 2)
	for _, id := range []string{room.WarriorA, room.WarriorB} {
		if id == "" {
			continue
		}
		out, err := r.warriors.Get(ctx, warriorrepo.GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "warrior missing from checkpoint",
					"room_id", room.RoomID.String(),
					"warrior_id", id)
				continue
			}
			return errors.Wrapf(err, "failed to load warrior %s", id)
		}
		warriors = append(warriors, out.Warrior)
	}

	_, err := r.archive.Record(ctx, RecordInput{Room: room, Warriors: warriors})
	return err
}
