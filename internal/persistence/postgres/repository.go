package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pespay-cmyk/nutristep/internal/domain"
	"github.com/pespay-cmyk/nutristep/internal/observability"
	"github.com/pespay-cmyk/nutristep/internal/outbox"
)

// Repository provides Postgres-backed persistence for activity records and
// outbox events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Exists reports whether a record with the identity key is persisted.
func (r *Repository) Exists(ctx context.Context, userID string, activityType domain.ActivityType, date time.Time, durationMin int) (bool, error) {
	const query = `SELECT EXISTS (
        SELECT 1 FROM activity_records
        WHERE user_id=$1 AND activity_type=$2 AND date=$3 AND duration_min=$4)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, string(activityType), domain.Day(date), durationMin).Scan(&exists)
	return exists, err
}

// ExistsSteps reports whether a steps record is persisted for the day. Steps
// records always carry duration 0, so the key reduces to (user, date).
func (r *Repository) ExistsSteps(ctx context.Context, userID string, date time.Time) (bool, error) {
	const query = `SELECT EXISTS (
        SELECT 1 FROM activity_records
        WHERE user_id=$1 AND activity_type=$2 AND date=$3)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, string(domain.TypeSteps), domain.Day(date)).Scan(&exists)
	return exists, err
}

// Insert persists the record and its outbox event in one transaction. The
// insert is conditional on the identity key: when a concurrent import or a
// manual entry already holds the key, nothing is written and inserted is
// false. This is the commit-time existence re-check.
func (r *Repository) Insert(ctx context.Context, rec domain.Record) (string, bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	const insertRecord = `INSERT INTO activity_records
        (record_id, user_id, activity_type, date, duration_min, steps, calories, source_note, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (user_id, activity_type, date, duration_min) DO NOTHING`

	tag, err := tx.Exec(ctx, insertRecord,
		rec.ID,
		rec.UserID,
		string(rec.ActivityType),
		domain.Day(rec.Date),
		rec.DurationMin,
		rec.Steps,
		rec.Calories,
		nullIfEmpty(rec.SourceNote),
		rec.CreatedAt,
	)
	if err != nil {
		return "", false, err
	}

	if tag.RowsAffected() == 0 {
		err = tx.Commit(ctx)
		if err != nil {
			return "", false, err
		}
		return "", false, nil
	}

	if err = r.insertOutbox(ctx, tx, rec); err != nil {
		return "", false, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return "", false, err
	}
	observability.RecordPersisted(rec.CreatedAt)
	return rec.ID, true, nil
}

func (r *Repository) insertOutbox(ctx context.Context, tx pgx.Tx, rec domain.Record) error {
	payload := outbox.RecordImported{
		RecordID:     rec.ID,
		UserID:       rec.UserID,
		ActivityType: string(rec.ActivityType),
		Date:         rec.Date.Format(domain.DateOnly),
		DurationMin:  rec.DurationMin,
		Steps:        rec.Steps,
		Calories:     rec.Calories,
		Source:       rec.SourceNote,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta := eventCatalog["record.imported"]
	dedupeKey := fmt.Sprintf("%s:record.imported", rec.ID)

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = tx.Exec(ctx, stmt,
		"activity_record",
		rec.ID,
		"record.imported",
		meta.Topic,
		meta.SchemaSubject,
		rec.UserID,
		body,
		dedupeKey,
	)
	return err
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic         string
	SchemaSubject string
}

var eventCatalog = map[string]EventMetadata{
	"record.imported": {
		Topic:         "import_events",
		SchemaSubject: "import_events-value",
	},
}
