package importer

import (
	"strings"
	"time"

	"github.com/pespay-cmyk/nutristep/internal/adapter"
	"github.com/pespay-cmyk/nutristep/internal/parse"
	"github.com/pespay-cmyk/nutristep/internal/taxonomy"
)

// Normalizer turns raw candidates into staged candidates by applying the
// field parsers and the taxonomy mapper. Rows are independent: a malformed
// row is dropped without affecting any other row or aborting the batch.
type Normalizer struct {
	mapper *taxonomy.Mapper
}

// NewNormalizer constructs a Normalizer around the injected taxonomy table.
func NewNormalizer(mapper *taxonomy.Mapper) *Normalizer {
	return &Normalizer{mapper: mapper}
}

// Normalize processes raw candidates in order. Steps samples are aggregated
// per calendar date (intraday samples sum); a day whose samples sum to zero
// produces no candidate. Activity rows missing a parseable date or a type
// label are dropped.
func (n *Normalizer) Normalize(raws []adapter.RawCandidate) ([]StagedStep, []StagedActivity) {
	stepTotals := make(map[time.Time]int)
	var stepOrder []time.Time
	var activities []StagedActivity

	for _, raw := range raws {
		switch raw.Kind {
		case adapter.KindSteps:
			date, err := parse.Date(raw.Fields[adapter.FieldDate])
			if err != nil {
				continue
			}
			count := parse.Count(raw.Fields[adapter.FieldSteps])
			if count == nil {
				continue
			}
			if _, seen := stepTotals[date]; !seen {
				stepOrder = append(stepOrder, date)
			}
			stepTotals[date] += *count

		case adapter.KindActivity:
			date, err := parse.Date(raw.Fields[adapter.FieldDate])
			if err != nil {
				continue
			}
			rawType := strings.TrimSpace(raw.Fields[adapter.FieldType])
			if rawType == "" {
				continue
			}
			activities = append(activities, StagedActivity{
				Date:         date,
				ActivityType: n.mapper.Map(rawType),
				RawType:      rawType,
				DurationMin:  parse.DurationMinutes(raw.Fields[adapter.FieldDuration]),
				Calories:     parse.Count(raw.Fields[adapter.FieldCalories]),
			})
		}
	}

	steps := make([]StagedStep, 0, len(stepOrder))
	for _, date := range stepOrder {
		total := stepTotals[date]
		// An all-zero day is "no data", not a zero-step record.
		if total <= 0 {
			continue
		}
		steps = append(steps, StagedStep{Date: date, Steps: total})
	}

	return steps, activities
}
