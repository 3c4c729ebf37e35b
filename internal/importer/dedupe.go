package importer

import (
	"context"

	"github.com/pespay-cmyk/nutristep/internal/domain"
)

// annotateExisting flags candidates that duplicate an already-persisted
// record. Flagged candidates stay in the session so the review UI can show
// them as already imported; commit skips them regardless of selection.
func annotateExisting(ctx context.Context, repo domain.Repository, userID string, steps []StagedStep, activities []StagedActivity) error {
	for i := range steps {
		exists, err := repo.ExistsSteps(ctx, userID, steps[i].Date)
		if err != nil {
			return err
		}
		steps[i].AlreadyExists = exists
	}

	for i := range activities {
		exists, err := repo.Exists(ctx, userID, activities[i].ActivityType, activities[i].Date, activities[i].DurationMin)
		if err != nil {
			return err
		}
		activities[i].AlreadyExists = exists
	}

	return nil
}
