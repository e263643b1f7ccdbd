// Package sqlite implements the store's persistence port on an embedded
// SQLite database with whole-collection snapshot semantics: every save
// replaces the full item set and the settings row.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AxM133/memoryloop/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// timeLayout is the wire format for timestamps. ISO 8601 with sub-second
// precision, always UTC on write.
const timeLayout = time.RFC3339Nano

// SnapshotStore persists the item collection and settings in SQLite.
type SnapshotStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// New opens (or creates) the database at path, applies pending migrations
// and returns a ready SnapshotStore.
func New(path string, logger *slog.Logger) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=10000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SnapshotStore{
		db:     db,
		logger: logger.With("component", "sqlite_snapshot_store"),
	}, nil
}

// Close releases the underlying database handle.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// SaveAll replaces the persisted snapshot with the given items and settings
// inside a single transaction.
func (s *SnapshotStore) SaveAll(
	ctx context.Context,
	items []domain.MemoryItem,
	settings domain.Settings,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM memory_items`); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	const insertItem = `
		INSERT INTO memory_items (
			id, memo, created_at, stage_index, due_at,
			answered_at, user_answer, correct,
			auto_cycle, correct_streak, wrong_count, is_finished,
			position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for pos, item := range items {
		_, err := tx.ExecContext(ctx, insertItem,
			item.ID.String(),
			item.Memo,
			encodeTime(item.CreatedAt),
			item.StageIndex,
			encodeTime(item.DueAt),
			encodeTimePtr(item.AnsweredAt),
			item.UserAnswer,
			encodeBoolPtr(item.Correct),
			item.AutoCycle,
			item.CorrectStreak,
			item.WrongCount,
			item.IsFinished,
			pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.ID, err)
		}
	}

	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO trainer_settings (id, payload) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	s.logger.Debug("snapshot saved", "item_count", len(items))
	return nil
}

// LoadAll returns the persisted items in stored order and the settings
// snapshot. Fields added after older snapshots were written decode with
// explicit defaults: a missing auto_cycle reads as false, missing counters
// as zero and a missing is_finished as the negation of auto_cycle, matching
// the single-shot semantics those records were created under.
func (s *SnapshotStore) LoadAll(
	ctx context.Context,
) ([]domain.MemoryItem, *domain.Settings, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, memo, created_at, stage_index, due_at,
		       answered_at, user_answer, correct,
		       auto_cycle, correct_streak, wrong_count, is_finished
		FROM memory_items
		ORDER BY position ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []domain.MemoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, nil, err
	}

	return items, settings, nil
}

// loadSettings returns the persisted settings row, or nil if none exists.
func (s *SnapshotStore) loadSettings(ctx context.Context) (*domain.Settings, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM trainer_settings WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal([]byte(payload), &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &settings, nil
}

// scanItem decodes one row into a MemoryItem, applying the versioned
// defaults for nullable columns.
func scanItem(rows *sql.Rows) (*domain.MemoryItem, error) {
	var (
		idStr      string
		memo       string
		createdAt  string
		stageIndex int
		dueAt      string
		answeredAt sql.NullString
		userAnswer sql.NullString
		correct    sql.NullBool
		autoCycle  sql.NullBool
		streak     sql.NullInt64
		wrongCount sql.NullInt64
		isFinished sql.NullBool
	)

	err := rows.Scan(
		&idStr, &memo, &createdAt, &stageIndex, &dueAt,
		&answeredAt, &userAnswer, &correct,
		&autoCycle, &streak, &wrongCount, &isFinished,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt item id %q: %w", idStr, err)
	}

	item := domain.MemoryItem{
		ID:            id,
		Memo:          memo,
		StageIndex:    stageIndex,
		AutoCycle:     autoCycle.Valid && autoCycle.Bool,
		CorrectStreak: int(streak.Int64),
		WrongCount:    int(wrongCount.Int64),
	}

	if item.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, fmt.Errorf("corrupt created_at for item %s: %w", id, err)
	}
	if item.DueAt, err = decodeTime(dueAt); err != nil {
		return nil, fmt.Errorf("corrupt due_at for item %s: %w", id, err)
	}

	if answeredAt.Valid {
		t, err := decodeTime(answeredAt.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt answered_at for item %s: %w", id, err)
		}
		item.AnsweredAt = &t
	}
	if userAnswer.Valid {
		v := userAnswer.String
		item.UserAnswer = &v
	}
	if correct.Valid {
		v := correct.Bool
		item.Correct = &v
	}

	if isFinished.Valid {
		item.IsFinished = isFinished.Bool
	} else {
		item.IsFinished = !item.AutoCycle
	}

	return &item, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func encodeTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return encodeTime(*t)
}

func encodeBoolPtr(b *bool) interface{} {
	if b == nil {
		return nil
	}
	return *b
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
