package importer

import (
	"context"
	"fmt"

	"github.com/pespay-cmyk/nutristep/internal/adapter"
	"github.com/pespay-cmyk/nutristep/internal/domain"
	"github.com/pespay-cmyk/nutristep/internal/observability"
	"github.com/pespay-cmyk/nutristep/internal/taxonomy"
)

// Service orchestrates the two-phase import flow: Stage builds a reviewable
// session without touching storage, Commit persists the caller's selection.
type Service struct {
	repo       domain.Repository
	normalizer *Normalizer
}

// NewService constructs a Service.
func NewService(repo domain.Repository, mapper *taxonomy.Mapper) *Service {
	return &Service{
		repo:       repo,
		normalizer: NewNormalizer(mapper),
	}
}

// Stage runs one adapter to completion, normalizes its raw candidates, and
// annotates duplicates against persisted records. No write happens here; a
// session the caller never commits leaves no trace. An empty session is a
// valid outcome, not an error.
func (s *Service) Stage(ctx context.Context, userID string, producer adapter.Producer, dateRange adapter.DateRange) (*Session, error) {
	raws, warnings, err := producer.Produce(ctx, dateRange)
	if err != nil {
		return nil, fmt.Errorf("produce candidates: %w", err)
	}

	steps, activities := s.normalizer.Normalize(raws)

	if err := annotateExisting(ctx, s.repo, userID, steps, activities); err != nil {
		return nil, fmt.Errorf("annotate duplicates: %w", err)
	}

	session := &Session{
		UserID:     userID,
		Steps:      steps,
		Activities: activities,
		Warnings:   warnings,
	}
	session.sortDateDesc()

	observability.RecordStaged(len(session.Steps), len(session.Activities))
	return session, nil
}

// Commit persists the selected, non-duplicate entries. Existence is
// re-checked at commit time through the repository's insert-if-absent
// semantics: the staged already_exists flag can be stale by now (another
// import session or a manual entry may have landed in between), and a
// commit-time conflict is a silent skip, never an error.
func (s *Service) Commit(ctx context.Context, userID string, sel Selection) (CommitResult, error) {
	var result CommitResult
	note := sel.SourceNote

	for _, step := range sel.Steps {
		if !step.Selected {
			continue
		}
		if step.AlreadyExists {
			result.SkippedExisting++
			continue
		}
		steps := step.Steps
		rec := domain.Record{
			UserID:       userID,
			ActivityType: domain.TypeSteps,
			Date:         domain.Day(step.Date),
			DurationMin:  0,
			Steps:        &steps,
			SourceNote:   note,
		}
		_, inserted, err := s.repo.Insert(ctx, rec)
		if err != nil {
			return result, fmt.Errorf("insert steps record: %w", err)
		}
		if inserted {
			result.ImportedSteps++
		} else {
			result.SkippedExisting++
		}
	}

	for _, act := range sel.Activities {
		if !act.Selected {
			continue
		}
		if act.AlreadyExists {
			result.SkippedExisting++
			continue
		}
		if !validType(act.ActivityType) || act.ActivityType == domain.TypeSteps {
			continue
		}
		rec := domain.Record{
			UserID:       userID,
			ActivityType: act.ActivityType,
			Date:         domain.Day(act.Date),
			DurationMin:  act.DurationMin,
			Calories:     act.Calories,
			SourceNote:   note,
		}
		_, inserted, err := s.repo.Insert(ctx, rec)
		if err != nil {
			return result, fmt.Errorf("insert activity record: %w", err)
		}
		if inserted {
			result.ImportedActivities++
		} else {
			result.SkippedExisting++
		}
	}

	observability.RecordImported(result.ImportedSteps, result.ImportedActivities, result.SkippedExisting)
	return result, nil
}

func validType(t domain.ActivityType) bool {
	for _, known := range domain.AllTypes {
		if t == known {
			return true
		}
	}
	return false
}
