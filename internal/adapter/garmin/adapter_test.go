package garmin

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pespay-cmyk/nutristep/internal/adapter"
)

type stubAPI struct {
	steps      map[string][]StepSample
	stepsErr   map[string]error
	activities []ActivitySession
	actErr     error

	stepCalls []string
	actCalls  int
}

func (s *stubAPI) DailySteps(_ context.Context, day time.Time) ([]StepSample, error) {
	key := day.Format("2006-01-02")
	s.stepCalls = append(s.stepCalls, key)
	if err := s.stepsErr[key]; err != nil {
		return nil, err
	}
	return s.steps[key], nil
}

func (s *stubAPI) Activities(context.Context, time.Time, time.Time) ([]ActivitySession, error) {
	s.actCalls++
	if s.actErr != nil {
		return nil, s.actErr
	}
	return s.activities, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func session(typeKey, start string, durationSec, calories float64) ActivitySession {
	var s ActivitySession
	s.ActivityType.TypeKey = typeKey
	s.StartTimeLocal = start
	s.Duration = durationSec
	s.Calories = calories
	return s
}

func TestProduceQueriesEachDayOnceAndActivitiesOnce(t *testing.T) {
	api := &stubAPI{
		steps: map[string][]StepSample{
			"2024-01-01": {{Steps: 120}, {Steps: 80}},
			"2024-01-02": {{Steps: 300}},
		},
	}
	a := NewAdapter(api, WithLogger(quietLogger()))

	dr := adapter.DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	candidates, warnings, err := a.Produce(context.Background(), dr)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, api.stepCalls)
	require.Equal(t, 1, api.actCalls)

	require.Len(t, candidates, 3)
	require.Equal(t, adapter.KindSteps, candidates[0].Kind)
	require.Equal(t, "2024-01-01", candidates[0].Fields[adapter.FieldDate])
	require.Equal(t, "120", candidates[0].Fields[adapter.FieldSteps])
	require.Equal(t, "80", candidates[1].Fields[adapter.FieldSteps])
	require.Equal(t, "300", candidates[2].Fields[adapter.FieldSteps])
}

func TestProduceIsolatesPerDayFailures(t *testing.T) {
	api := &stubAPI{
		steps: map[string][]StepSample{
			"2024-01-01": {{Steps: 500}},
			"2024-01-03": {{Steps: 700}},
		},
		stepsErr: map[string]error{
			"2024-01-02": errors.New("503 from upstream"),
		},
	}
	a := NewAdapter(api, WithLogger(quietLogger()))

	dr := adapter.DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	candidates, warnings, err := a.Produce(context.Background(), dr)
	require.NoError(t, err)
	require.Equal(t, []string{"pas du 2024-01-02 indisponibles"}, warnings)
	require.Len(t, candidates, 2)
	require.Equal(t, "500", candidates[0].Fields[adapter.FieldSteps])
	require.Equal(t, "700", candidates[1].Fields[adapter.FieldSteps])
}

func TestProduceRecoversActivitiesFailure(t *testing.T) {
	api := &stubAPI{
		steps:  map[string][]StepSample{"2024-01-01": {{Steps: 100}}},
		actErr: errors.New("timeout"),
	}
	a := NewAdapter(api, WithLogger(quietLogger()))

	dr := adapter.DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	candidates, warnings, err := a.Produce(context.Background(), dr)
	require.NoError(t, err)
	require.Equal(t, []string{"activités Garmin indisponibles"}, warnings)
	require.Len(t, candidates, 1)
	require.Equal(t, adapter.KindSteps, candidates[0].Kind)
}

func TestProduceFormatsActivityFields(t *testing.T) {
	api := &stubAPI{
		activities: []ActivitySession{
			session("trail_running", "2024-01-01 08:15:00", 2730, 320.7),
			session("yoga", "2024-01-02 19:00:00", 0, 0),
		},
	}
	a := NewAdapter(api, WithLogger(quietLogger()))

	dr := adapter.DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	candidates, _, err := a.Produce(context.Background(), dr)
	require.NoError(t, err)

	var acts []adapter.RawCandidate
	for _, c := range candidates {
		if c.Kind == adapter.KindActivity {
			acts = append(acts, c)
		}
	}
	require.Len(t, acts, 2)
	require.Equal(t, "trail_running", acts[0].Fields[adapter.FieldType])
	require.Equal(t, "2024-01-01 08:15:00", acts[0].Fields[adapter.FieldDate])
	require.Equal(t, "00:45:30", acts[0].Fields[adapter.FieldDuration])
	require.Equal(t, "320", acts[0].Fields[adapter.FieldCalories])
	require.Equal(t, "00:00:00", acts[1].Fields[adapter.FieldDuration])
	require.Equal(t, "", acts[1].Fields[adapter.FieldCalories])
}

func TestProduceStopsOnCancelledContext(t *testing.T) {
	api := &stubAPI{}
	a := NewAdapter(api, WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dr := adapter.DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	_, _, err := a.Produce(ctx, dr)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, api.stepCalls)
}
