package garmin

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/pespay-cmyk/nutristep/internal/adapter"
)

// API is the client surface the adapter consumes; *Client satisfies it.
type API interface {
	DailySteps(ctx context.Context, day time.Time) ([]StepSample, error)
	Activities(ctx context.Context, from, to time.Time) ([]ActivitySession, error)
}

// Adapter produces raw candidates from the Garmin Connect API: one steps
// query per day of the range, one activities query for the whole range.
type Adapter struct {
	api    API
	logger *log.Logger
}

// Option configures optional behaviour for the Adapter.
type Option func(*Adapter)

// WithLogger overrides the logger used for recovered fetch failures.
func WithLogger(logger *log.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// NewAdapter constructs an Adapter over the given API client.
func NewAdapter(api API, opts ...Option) *Adapter {
	a := &Adapter{
		api:    api,
		logger: log.New(log.Writer(), "[garmin] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Produce fetches steps day by day and activities in one range query. Each
// failed call is recovered into a warning; one day's failure never cancels
// the others, so a partially-working API still yields a reviewable batch.
func (a *Adapter) Produce(ctx context.Context, dateRange adapter.DateRange) ([]adapter.RawCandidate, []string, error) {
	var candidates []adapter.RawCandidate
	var warnings []string

	for _, day := range dateRange.Days() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		samples, err := a.api.DailySteps(ctx, day)
		if err != nil {
			a.logger.Printf("daily steps fetch failed for %s: %v", day.Format("2006-01-02"), err)
			warnings = append(warnings, fmt.Sprintf("pas du %s indisponibles", day.Format("2006-01-02")))
			continue
		}
		for _, sample := range samples {
			candidates = append(candidates, adapter.RawCandidate{
				Kind: adapter.KindSteps,
				Fields: map[string]string{
					adapter.FieldDate:  day.Format("2006-01-02"),
					adapter.FieldSteps: strconv.Itoa(sample.Steps),
				},
			})
		}
	}

	sessions, err := a.api.Activities(ctx, dateRange.From, dateRange.To)
	if err != nil {
		a.logger.Printf("activities fetch failed: %v", err)
		warnings = append(warnings, "activités Garmin indisponibles")
	} else {
		for _, session := range sessions {
			candidates = append(candidates, adapter.RawCandidate{
				Kind: adapter.KindActivity,
				Fields: map[string]string{
					adapter.FieldDate:     session.StartTimeLocal,
					adapter.FieldType:     session.ActivityType.TypeKey,
					adapter.FieldDuration: formatSeconds(session.Duration),
					adapter.FieldCalories: formatCalories(session.Calories),
				},
			})
		}
	}

	return candidates, warnings, nil
}

func formatSeconds(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func formatCalories(calories float64) string {
	if calories <= 0 {
		return ""
	}
	return strconv.Itoa(int(calories))
}
