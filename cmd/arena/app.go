package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/undead-arena/internal/checkpoint"
	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/battle"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/game"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/settlement"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/warrior"
	"github.com/KirkDiggler/undead-arena/internal/pkg/clock"
	"github.com/KirkDiggler/undead-arena/internal/pkg/idgen"
	"github.com/KirkDiggler/undead-arena/internal/pkg/keylock"
	"github.com/KirkDiggler/undead-arena/internal/redis"
	gamerepo "github.com/KirkDiggler/undead-arena/internal/repositories/game"
	playerrepo "github.com/KirkDiggler/undead-arena/internal/repositories/player"
	roomrepo "github.com/KirkDiggler/undead-arena/internal/repositories/room"
	warriorrepo "github.com/KirkDiggler/undead-arena/internal/repositories/warrior"
	"github.com/KirkDiggler/undead-arena/internal/worker"
)

// app holds every service a command needs, built over one Redis client
type app struct {
	client   redis.Client
	bus      events.EventBus
	archive  checkpoint.Archive
	recorder *checkpoint.Recorder

	warriors   warrior.Service
	battles    battle.Service
	settlement settlement.Service
	game       game.Service
	worker     *worker.Worker
}

// openApp connects to Redis and wires the services
func openApp(ctx context.Context, c *Config) (*app, error) {
	client, err := redis.Connect(ctx, c.RedisAddr, &redis.Options{
		DB:       c.RedisDB,
		Password: c.RedisPassword,
	})
	if err != nil {
		return nil, err
	}

	a, err := newApp(c, client, clock.New())
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return a, nil
}

// newApp wires the services over an existing client. The returned app owns
// client and closes it in Close.
func newApp(c *Config, client redis.Client, clk clock.Clock) (*app, error) {
	rooms, err := roomrepo.NewRedis(&roomrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create room repository: %w", err)
	}
	warriors, err := warriorrepo.NewRedis(&warriorrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create warrior repository: %w", err)
	}
	players, err := playerrepo.NewRedis(&playerrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create player repository: %w", err)
	}
	gameRepo, err := gamerepo.NewRedis(&gamerepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create game repository: %w", err)
	}

	eng, err := engine.New(&engine.Config{Clock: clk})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	a := &app{
		client: client,
		bus:    events.NewBus(),
	}
	locks := keylock.New()

	a.warriors, err = warrior.NewOrchestrator(&warrior.Config{
		Engine:      eng,
		Warriors:    warriors,
		Players:     players,
		Game:        gameRepo,
		IDGenerator: idgen.NewUUID("dna"),
		Clock:       clk,
		Locks:       locks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create warrior orchestrator: %w", err)
	}

	a.battles, err = battle.NewOrchestrator(&battle.Config{
		Engine:      eng,
		Rooms:       rooms,
		Warriors:    warriors,
		Game:        gameRepo,
		EventBus:    a.bus,
		IDGenerator: idgen.NewUUID("room"),
		Client:      client,
		Locks:       locks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create battle orchestrator: %w", err)
	}

	a.settlement, err = settlement.NewOrchestrator(&settlement.Config{
		Engine:   eng,
		Rooms:    rooms,
		Warriors: warriors,
		Players:  players,
		Game:     gameRepo,
		EventBus: a.bus,
		Client:   client,
		Clock:    clk,
		Locks:    locks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement orchestrator: %w", err)
	}

	a.game, err = game.NewOrchestrator(&game.Config{
		Game:    gameRepo,
		Players: players,
		Clock:   clk,
		Locks:   locks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game orchestrator: %w", err)
	}

	if c.ArchivePath != "" {
		a.archive, err = checkpoint.OpenSQLite(&checkpoint.SQLiteConfig{Path: c.ArchivePath, Clock: clk})
		if err != nil {
			return nil, fmt.Errorf("failed to open archive: %w", err)
		}
		a.recorder, err = checkpoint.NewRecorder(&checkpoint.RecorderConfig{
			Archive:  a.archive,
			Warriors: warriors,
			EventBus: a.bus,
		})
		if err != nil {
			_ = a.archive.Close()
			return nil, fmt.Errorf("failed to create recorder: %w", err)
		}
		a.recorder.Start()
	}

	workerCfg := &worker.Config{
		Settlement:    a.settlement,
		Clock:         clk,
		SweepInterval: c.SweepInterval,
		SweepLimit:    c.SweepLimit,
	}
	if a.archive != nil {
		workerCfg.Archive = a.archive
		workerCfg.PruneInterval = c.PruneInterval
		workerCfg.ArchiveRetention = c.ArchiveRetention
	}
	a.worker, err = worker.New(workerCfg)
	if err != nil {
		a.closeArchive()
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}

	return a, nil
}

// Close stops the recorder and releases the archive and Redis client
func (a *app) Close() error {
	a.closeArchive()
	return a.client.Close()
}

func (a *app) closeArchive() {
	if a.recorder != nil {
		a.recorder.Stop()
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			slog.Warn("failed to close archive", "error", err)
		}
	}
}

// withApp runs fn against a freshly opened app under the command timeout
func withApp(fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to close app", "error", err)
		}
	}()

	return fn(ctx, a)
}
