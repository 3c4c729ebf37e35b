// Package adapter defines the contract shared by the external-source adapters.
package adapter

import (
	"context"
	"errors"
	"time"
)

// Kind tags the shape of a raw candidate row.
type Kind string

const (
	KindSteps    Kind = "steps"
	KindActivity Kind = "activity"
)

// Field names used inside RawCandidate bags.
const (
	FieldDate     = "date"
	FieldSteps    = "steps"
	FieldType     = "type"
	FieldDuration = "duration"
	FieldCalories = "calories"
)

// RawCandidate is an extracted-but-unparsed row from one source: a bag of
// string fields plus a kind tag. The normalizer owns all interpretation.
type RawCandidate struct {
	Kind   Kind
	Fields map[string]string
}

// DateRange bounds one fetch, inclusive on both ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Days iterates the calendar days of the range in ascending order.
func (r DateRange) Days() []time.Time {
	if r.To.Before(r.From) {
		return nil
	}
	var days []time.Time
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ErrSourceUnavailable marks a whole source (network, auth, unreadable file)
// as degraded. Partial results from other streams are still usable; the error
// is surfaced to the caller as a staging warning.
var ErrSourceUnavailable = errors.New("source unavailable")

// Producer is implemented by every source adapter.
type Producer interface {
	// Produce extracts raw candidates for the range. Warnings report
	// recovered per-stream degradations; a non-nil error means the whole
	// source produced nothing.
	Produce(ctx context.Context, dateRange DateRange) (candidates []RawCandidate, warnings []string, err error)
}
