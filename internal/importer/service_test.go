package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pespay-cmyk/nutristep/internal/adapter"
	"github.com/pespay-cmyk/nutristep/internal/domain"
	"github.com/pespay-cmyk/nutristep/internal/persistence/memory"
	"github.com/pespay-cmyk/nutristep/internal/taxonomy"
)

type stubProducer struct {
	raws     []adapter.RawCandidate
	warnings []string
	err      error
}

func (p *stubProducer) Produce(context.Context, adapter.DateRange) ([]adapter.RawCandidate, []string, error) {
	return p.raws, p.warnings, p.err
}

func newTestService(repo domain.Repository) *Service {
	return NewService(repo, taxonomy.NewMapper(taxonomy.DefaultTable()))
}

func selectAll(s *Session, note string) Selection {
	sel := Selection{SourceNote: note}
	for _, step := range s.Steps {
		sel.Steps = append(sel.Steps, StepSelection{
			Date:          step.Date,
			Steps:         step.Steps,
			AlreadyExists: step.AlreadyExists,
			Selected:      true,
		})
	}
	for _, act := range s.Activities {
		sel.Activities = append(sel.Activities, ActivitySelection{
			Date:          act.Date,
			ActivityType:  act.ActivityType,
			RawType:       act.RawType,
			DurationMin:   act.DurationMin,
			Calories:      act.Calories,
			AlreadyExists: act.AlreadyExists,
			Selected:      true,
		})
	}
	return sel
}

func TestStageCommitRestageRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	svc := newTestService(repo)

	producer := &stubProducer{raws: []adapter.RawCandidate{
		stepsCandidate("2024-01-01", "9000"),
		stepsCandidate("2024-01-02", "0"),
		activityCandidate(map[string]string{
			adapter.FieldDate:     "2024-01-01",
			adapter.FieldType:     "trail_running",
			adapter.FieldDuration: "00:45:00",
			adapter.FieldCalories: "320",
		}),
	}}

	session, err := svc.Stage(ctx, "user-1", producer, adapter.DateRange{})
	require.NoError(t, err)
	require.Len(t, session.Steps, 1, "zero-total day must not surface")
	require.False(t, session.Steps[0].AlreadyExists)
	require.Len(t, session.Activities, 1)
	require.Equal(t, domain.TypeRunning, session.Activities[0].ActivityType)
	require.Equal(t, 45, session.Activities[0].DurationMin)

	result, err := svc.Commit(ctx, "user-1", selectAll(session, "import Garmin"))
	require.NoError(t, err)
	require.Equal(t, CommitResult{ImportedSteps: 1, ImportedActivities: 1}, result)
	require.Equal(t, 2, repo.Len())

	// Staging the same input again flags everything as persisted, and
	// committing it all is a no-op with skip accounting.
	session, err = svc.Stage(ctx, "user-1", producer, adapter.DateRange{})
	require.NoError(t, err)
	require.True(t, session.Steps[0].AlreadyExists)
	require.True(t, session.Activities[0].AlreadyExists)

	result, err = svc.Commit(ctx, "user-1", selectAll(session, "import Garmin"))
	require.NoError(t, err)
	require.Equal(t, CommitResult{SkippedExisting: 2}, result)
	require.Equal(t, 2, repo.Len())
}

func TestStageHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	svc := newTestService(repo)

	producer := &stubProducer{raws: []adapter.RawCandidate{
		stepsCandidate("2024-01-01", "500"),
	}}

	_, err := svc.Stage(ctx, "user-1", producer, adapter.DateRange{})
	require.NoError(t, err)
	require.Equal(t, 0, repo.Len(), "a discarded session must leave no trace")
}

func TestStagePropagatesProducerWarnings(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.NewRepository())

	producer := &stubProducer{warnings: []string{"pas du 2024-01-03 indisponibles"}}

	session, err := svc.Stage(ctx, "user-1", producer, adapter.DateRange{})
	require.NoError(t, err)
	require.Empty(t, session.Steps)
	require.Empty(t, session.Activities)
	require.Equal(t, []string{"pas du 2024-01-03 indisponibles"}, session.Warnings)
}

func TestStageFailsWhenProducerFails(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.NewRepository())

	producer := &stubProducer{err: adapter.ErrSourceUnavailable}

	_, err := svc.Stage(ctx, "user-1", producer, adapter.DateRange{})
	require.Error(t, err)
	require.True(t, errors.Is(err, adapter.ErrSourceUnavailable))
}

func TestStageSortsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.NewRepository())

	producer := &stubProducer{raws: []adapter.RawCandidate{
		stepsCandidate("2024-01-01", "100"),
		stepsCandidate("2024-01-03", "300"),
		stepsCandidate("2024-01-02", "200"),
		activityCandidate(map[string]string{adapter.FieldDate: "2024-01-01", adapter.FieldType: "yoga"}),
		activityCandidate(map[string]string{adapter.FieldDate: "2024-01-05", adapter.FieldType: "running"}),
	}}

	session, err := svc.Stage(ctx, "user-1", producer, adapter.DateRange{})
	require.NoError(t, err)

	require.Equal(t, 300, session.Steps[0].Steps)
	require.Equal(t, 200, session.Steps[1].Steps)
	require.Equal(t, 100, session.Steps[2].Steps)
	require.Equal(t, "running", session.Activities[0].RawType)
	require.Equal(t, "yoga", session.Activities[1].RawType)
}

func TestCommitHonorsSelection(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	svc := newTestService(repo)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sel := Selection{
		SourceNote: "import",
		Steps: []StepSelection{
			{Date: day, Steps: 9000, Selected: true},
			{Date: day.AddDate(0, 0, 1), Steps: 4000, Selected: false},
		},
		Activities: []ActivitySelection{
			{Date: day, ActivityType: domain.TypeYoga, DurationMin: 30, Selected: false},
		},
	}

	result, err := svc.Commit(ctx, "user-1", sel)
	require.NoError(t, err)
	require.Equal(t, CommitResult{ImportedSteps: 1}, result)
	require.Equal(t, 1, repo.Len())
}

func TestCommitSkipsFlaggedEntriesEvenWhenSelected(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	svc := newTestService(repo)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sel := Selection{
		Steps: []StepSelection{
			{Date: day, Steps: 9000, AlreadyExists: true, Selected: true},
		},
	}

	result, err := svc.Commit(ctx, "user-1", sel)
	require.NoError(t, err)
	require.Equal(t, CommitResult{SkippedExisting: 1}, result)
	require.Equal(t, 0, repo.Len())
}

func TestCommitSilentlySkipsRaceConflicts(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	svc := newTestService(repo)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// A concurrent writer lands the same identity key after staging flagged
	// the entry as new.
	steps := 9000
	_, inserted, err := repo.Insert(ctx, domain.Record{
		UserID:       "user-1",
		ActivityType: domain.TypeSteps,
		Date:         day,
		Steps:        &steps,
	})
	require.NoError(t, err)
	require.True(t, inserted)

	sel := Selection{
		Steps: []StepSelection{
			{Date: day, Steps: 9000, AlreadyExists: false, Selected: true},
		},
	}

	result, err := svc.Commit(ctx, "user-1", sel)
	require.NoError(t, err)
	require.Equal(t, CommitResult{SkippedExisting: 1}, result)
	require.Equal(t, 1, repo.Len())
}

func TestCommitIgnoresInvalidActivityTypes(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	svc := newTestService(repo)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sel := Selection{
		Activities: []ActivitySelection{
			{Date: day, ActivityType: "Escrime", DurationMin: 30, Selected: true},
			{Date: day, ActivityType: domain.TypeSteps, DurationMin: 0, Selected: true},
			{Date: day, ActivityType: domain.TypeRunning, DurationMin: 45, Selected: true},
		},
	}

	result, err := svc.Commit(ctx, "user-1", sel)
	require.NoError(t, err)
	require.Equal(t, CommitResult{ImportedActivities: 1}, result)
	require.Equal(t, 1, repo.Len())
}

func TestCommitEmptySelectionIsValid(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	svc := newTestService(repo)

	result, err := svc.Commit(ctx, "user-1", Selection{})
	require.NoError(t, err)
	require.Equal(t, CommitResult{}, result)
	require.Equal(t, 0, repo.Len())
}

func TestSameActivityKeyDistinctDurationBothPersist(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	svc := newTestService(repo)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sel := Selection{
		Activities: []ActivitySelection{
			{Date: day, ActivityType: domain.TypeRunning, DurationMin: 30, Selected: true},
			{Date: day, ActivityType: domain.TypeRunning, DurationMin: 45, Selected: true},
		},
	}

	result, err := svc.Commit(ctx, "user-1", sel)
	require.NoError(t, err)
	require.Equal(t, CommitResult{ImportedActivities: 2}, result)
	require.Equal(t, 2, repo.Len())
}
