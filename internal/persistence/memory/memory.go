// Package memory stores activity records in memory for local development and
// tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pespay-cmyk/nutristep/internal/domain"
)

// Repository implements domain.Repository with a mutex-guarded map keyed by
// record identity.
type Repository struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewRepository constructs an empty Repository.
func NewRepository() *Repository {
	return &Repository{records: make(map[string]domain.Record)}
}

func identityKey(userID string, activityType domain.ActivityType, date time.Time, durationMin int) string {
	return fmt.Sprintf("%s|%s|%s|%d", userID, activityType, domain.Day(date).Format(domain.DateOnly), durationMin)
}

// Exists implements domain.Repository.
func (r *Repository) Exists(_ context.Context, userID string, activityType domain.ActivityType, date time.Time, durationMin int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.records[identityKey(userID, activityType, date, durationMin)]
	return ok, nil
}

// ExistsSteps implements domain.Repository. Steps records always carry
// duration 0.
func (r *Repository) ExistsSteps(ctx context.Context, userID string, date time.Time) (bool, error) {
	return r.Exists(ctx, userID, domain.TypeSteps, date, 0)
}

// Insert implements domain.Repository with insert-if-absent semantics.
func (r *Repository) Insert(_ context.Context, rec domain.Record) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := identityKey(rec.UserID, rec.ActivityType, rec.Date, rec.DurationMin)
	if _, ok := r.records[key]; ok {
		return "", false, nil
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.Date = domain.Day(rec.Date)
	r.records[key] = rec
	return rec.ID, true, nil
}

// Len reports the number of stored records.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
