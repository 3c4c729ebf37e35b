// Package importer implements the fetch-stage-commit import pipeline.
package importer

import (
	"sort"
	"time"

	"github.com/pespay-cmyk/nutristep/internal/domain"
)

// StagedStep is one reviewable steps-day candidate.
type StagedStep struct {
	Date          time.Time
	Steps         int
	AlreadyExists bool
}

// StagedActivity is one reviewable activity candidate. RawType keeps the
// vendor label for display next to the canonical category.
type StagedActivity struct {
	Date          time.Time
	ActivityType  domain.ActivityType
	RawType       string
	DurationMin   int
	Calories      *int
	AlreadyExists bool
}

// Session is the in-memory batch returned to the caller for review. It is
// never persisted; discarding it has no side effect. Candidates are immutable
// once placed here, and re-running the pipeline on the same raw input
// reproduces them.
type Session struct {
	UserID     string
	Steps      []StagedStep
	Activities []StagedActivity
	Warnings   []string
}

// sortDateDesc orders both candidate lists newest first. The sort is stable
// so equal dates keep normalizer order, which keeps sessions reproducible.
func (s *Session) sortDateDesc() {
	sort.SliceStable(s.Steps, func(i, j int) bool {
		return s.Steps[i].Date.After(s.Steps[j].Date)
	})
	sort.SliceStable(s.Activities, func(i, j int) bool {
		return s.Activities[i].Date.After(s.Activities[j].Date)
	})
}

// StepSelection echoes one staged steps-day back for commit.
type StepSelection struct {
	Date          time.Time
	Steps         int
	AlreadyExists bool
	Selected      bool
}

// ActivitySelection echoes one staged activity back for commit.
type ActivitySelection struct {
	Date          time.Time
	ActivityType  domain.ActivityType
	RawType       string
	DurationMin   int
	Calories      *int
	AlreadyExists bool
	Selected      bool
}

// Selection is the caller-chosen subset of a session. Only entries with
// Selected set are considered; selecting nothing is valid.
type Selection struct {
	SourceNote string
	Steps      []StepSelection
	Activities []ActivitySelection
}

// CommitResult reports what one commit persisted.
type CommitResult struct {
	ImportedSteps      int
	ImportedActivities int
	SkippedExisting    int
}
