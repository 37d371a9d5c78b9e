package checkpoint

import (
	"context"
	"database/sql"
	"encoding/json"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	// registers the "sqlite" database/sql driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/undead-arena/internal/checkpoint/migrations"
	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/pkg/clock"
)

const migrationTable = "schema_migrations"

// SQLiteConfig configures the SQLite archive
type SQLiteConfig struct {
	// Path is the database file; it is created when missing
	Path  string
	Clock clock.Clock
}

// Validate ensures the config is usable
func (c *SQLiteConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Path", c.Path, vb)
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

type sqliteArchive struct {
	db    *sql.DB
	clock clock.Clock
}

// OpenSQLite opens the archive at cfg.Path and applies embedded migrations
func OpenSQLite(cfg *SQLiteConfig) (Archive, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	dsn := filepath.Clean(cfg.Path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite archive")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping sqlite archive")
	}
	if err := applyMigrations(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to migrate sqlite archive")
	}

	return &sqliteArchive{db: db, clock: cfg.Clock}, nil
}

var _ Archive = (*sqliteArchive)(nil)

// applyMigrations runs each embedded .sql file at most once, in name order
func applyMigrations(db *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return errors.Wrap(err, "failed to read migrations")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return errors.Wrap(err, "failed to create migration table")
	}

	for _, name := range files {
		var found int
		err := db.QueryRow(`SELECT 1 FROM `+migrationTable+` WHERE name = ?`, name).Scan(&found)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return errors.Wrapf(err, "failed to check migration %s", name)
		}

		content, err := fs.ReadFile(migrationFS, name)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration %s", name)
		}

		tx, err := db.Begin()
		if err != nil {
			return errors.Wrapf(err, "failed to begin migration %s", name)
		}
		if _, err := tx.Exec(upSection(string(content))); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to apply migration %s", name)
		}
		if _, err := tx.Exec(`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, strftime('%s','now'))`, name); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed to record migration %s", name)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "failed to commit migration %s", name)
		}
	}

	return nil
}

// upSection returns the SQL between the Up and Down markers
func upSection(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	if i := strings.Index(content, up); i >= 0 {
		content = content[i+len(up):]
	}
	if i := strings.Index(content, down); i >= 0 {
		content = content[:i]
	}
	return content
}

func (a *sqliteArchive) Close() error {
	return a.db.Close()
}

func (a *sqliteArchive) Record(ctx context.Context, input RecordInput) (*RecordOutput, error) {
	room := input.Room
	if room == nil {
		return nil, errors.InvalidArgument("room is required")
	}
	if room.RoomID.IsZero() {
		return nil, errors.InvalidArgument("room ID is required")
	}

	roomJSON, err := json.Marshal(room)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal room")
	}

	now := a.clock.Now().Unix()
	id := room.RoomID.String()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin checkpoint")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO room_checkpoints (
		   room_id, state, player_a, player_b, winner, settled, created_at, archived_at, payload
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (room_id) DO UPDATE SET
		   state = excluded.state,
		   player_b = excluded.player_b,
		   winner = excluded.winner,
		   settled = excluded.settled,
		   archived_at = excluded.archived_at,
		   payload = excluded.payload`,
		id,
		string(room.State),
		room.PlayerA,
		room.PlayerB,
		room.Winner,
		room.Settled,
		room.CreatedAt,
		now,
		string(roomJSON),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to upsert room checkpoint %s", id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM warrior_snapshots WHERE room_id = ?`, id); err != nil {
		return nil, errors.Wrapf(err, "failed to clear warrior snapshots for %s", id)
	}

	warriors := make([]*entities.Warrior, 0, len(input.Warriors))
	for _, w := range input.Warriors {
		if w == nil {
			continue
		}
		payload, err := json.Marshal(w)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal warrior %s", w.ID)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO warrior_snapshots (room_id, warrior_id, payload) VALUES (?, ?, ?)`,
			id, w.ID, string(payload),
		); err != nil {
			return nil, errors.Wrapf(err, "failed to insert warrior snapshot %s", w.ID)
		}
		warriors = append(warriors, w)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit checkpoint")
	}

	slog.DebugContext(ctx, "room checkpoint recorded",
		"room_id", id,
		"state", room.State,
		"warriors", len(warriors))

	return &RecordOutput{
		Checkpoint: &Checkpoint{Room: room, Warriors: warriors, ArchivedAt: now},
	}, nil
}

func (a *sqliteArchive) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.RoomID.IsZero() {
		return nil, errors.InvalidArgument("room ID is required")
	}
	id := input.RoomID.String()

	var payload string
	var archivedAt int64
	err := a.db.QueryRowContext(ctx,
		`SELECT payload, archived_at FROM room_checkpoints WHERE room_id = ?`, id,
	).Scan(&payload, &archivedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("checkpoint %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get checkpoint %s", id)
	}

	var room entities.BattleRoom
	if err := json.Unmarshal([]byte(payload), &room); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal checkpoint %s", id)
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT payload FROM warrior_snapshots WHERE room_id = ? ORDER BY warrior_id`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list warrior snapshots for %s", id)
	}
	defer func() { _ = rows.Close() }()

	var warriors []*entities.Warrior
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Wrap(err, "failed to scan warrior snapshot")
		}
		var w entities.Warrior
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal warrior snapshot")
		}
		warriors = append(warriors, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read warrior snapshots")
	}

	return &GetOutput{
		Checkpoint: &Checkpoint{Room: &room, Warriors: warriors, ArchivedAt: archivedAt},
	}, nil
}

func (a *sqliteArchive) ListRecent(ctx context.Context, input ListRecentInput) (*ListRecentOutput, error) {
	if input.Limit < 0 {
		return nil, errors.InvalidArgument("limit must not be negative")
	}

	query := `SELECT payload, archived_at FROM room_checkpoints ORDER BY archived_at DESC, room_id`
	args := []any{}
	if input.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, input.Limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list checkpoints")
	}
	defer func() { _ = rows.Close() }()

	checkpoints := []*Checkpoint{}
	for rows.Next() {
		var payload string
		var archivedAt int64
		if err := rows.Scan(&payload, &archivedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan checkpoint")
		}
		var room entities.BattleRoom
		if err := json.Unmarshal([]byte(payload), &room); err != nil {
			slog.WarnContext(ctx, "skipping corrupt checkpoint", "error", err.Error())
			continue
		}
		checkpoints = append(checkpoints, &Checkpoint{Room: &room, ArchivedAt: archivedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read checkpoints")
	}

	return &ListRecentOutput{Checkpoints: checkpoints}, nil
}

func (a *sqliteArchive) Prune(ctx context.Context, input PruneInput) (*PruneOutput, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin prune")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM warrior_snapshots WHERE room_id IN (
		   SELECT room_id FROM room_checkpoints WHERE archived_at < ?
		 )`, input.Before,
	); err != nil {
		return nil, errors.Wrap(err, "failed to prune warrior snapshots")
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM room_checkpoints WHERE archived_at < ?`, input.Before)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prune checkpoints")
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to count pruned checkpoints")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit prune")
	}

	return &PruneOutput{Deleted: deleted}, nil
}
