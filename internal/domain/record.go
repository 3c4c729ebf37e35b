// Package domain defines the canonical activity record shared by the import pipeline.
package domain

import (
	"context"
	"errors"
	"time"
)

// ActivityType is the closed set of canonical activity categories. Labels are
// the French product labels stored in the database and shown in the UI.
type ActivityType string

const (
	TypeRunning  ActivityType = "Course"
	TypeWalking  ActivityType = "Marche"
	TypeCycling  ActivityType = "Vélo"
	TypeSwimming ActivityType = "Natation"
	TypeStrength ActivityType = "Musculation"
	TypeYoga     ActivityType = "Yoga"
	TypeSkiing   ActivityType = "Ski"
	// TypeSteps is the daily step aggregate pseudo-activity: one record per
	// calendar day, duration always 0.
	TypeSteps ActivityType = "Pas"
	TypeOther ActivityType = "Autre"
)

// AllTypes lists every canonical category.
var AllTypes = []ActivityType{
	TypeRunning, TypeWalking, TypeCycling, TypeSwimming,
	TypeStrength, TypeYoga, TypeSkiing, TypeSteps, TypeOther,
}

// ErrRecordNotFound is returned when a record cannot be located.
var ErrRecordNotFound = errors.New("activity record not found")

// Record is one physical-activity session or one day's step total for one
// user. Records are constructed by the normalizer (candidates) or persisted by
// the commit engine; they are never updated in place.
type Record struct {
	ID           string
	UserID       string
	ActivityType ActivityType
	// Date is the calendar date at midnight UTC. Sub-day samples from the
	// same source collapse to one date before a Record exists.
	Date        time.Time
	DurationMin int
	// Steps is populated only for TypeSteps.
	Steps *int
	// Calories is nil when the source did not report a value.
	Calories *int
	// SourceNote tags provenance for display; it is never part of identity.
	SourceNote string
	CreatedAt  time.Time
}

// IsSteps reports whether the record is the daily step pseudo-activity.
func (r Record) IsSteps() bool {
	return r.ActivityType == TypeSteps
}

// DateOnly is the wire format for calendar dates.
const DateOnly = "2006-01-02"

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Repository captures the persistence operations the pipeline consumes.
// Identity keys: steps records collide on (user, TypeSteps, date); all other
// records collide on (user, type, date, duration). Calories and SourceNote
// never participate.
type Repository interface {
	// Exists reports whether a record with the given identity key is persisted.
	Exists(ctx context.Context, userID string, activityType ActivityType, date time.Time, durationMin int) (bool, error)
	// ExistsSteps reports whether a step record is persisted for the day.
	ExistsSteps(ctx context.Context, userID string, date time.Time) (bool, error)
	// Insert persists the record if no record with the same identity key
	// exists. The bool result is false when an existing record won the key,
	// in which case the store is unchanged.
	Insert(ctx context.Context, rec Record) (string, bool, error)
}
