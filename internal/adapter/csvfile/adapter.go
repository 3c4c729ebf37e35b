// Package csvfile adapts user-uploaded vendor CSV exports (a steps file and
// an activities file, each optional) into raw import candidates.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pespay-cmyk/nutristep/internal/adapter"
)

// Known vendor header spellings, checked case-sensitively before falling back
// to heuristics. Exports vary by locale and app version.
var (
	dateHeaders     = []string{"Date", "CalendarDate", "Date du jour"}
	stepsHeaders    = []string{"Steps", "Pas", "Nombre de pas"}
	typeHeaders     = []string{"Activity Type", "Type d'activité", "Type"}
	durationHeaders = []string{"Duration", "Durée", "Temps"}
	caloriesHeaders = []string{"Calories", "Calories Burned", "Calories brûlées"}
)

// Adapter reads the two optional exports. A nil reader means the caller did
// not supply that file.
type Adapter struct {
	steps      io.Reader
	activities io.Reader
}

// NewAdapter constructs an Adapter over the supplied files.
func NewAdapter(steps, activities io.Reader) *Adapter {
	return &Adapter{steps: steps, activities: activities}
}

// Produce extracts raw candidates from whichever files were supplied. The
// date range is ignored: an export defines its own span. An unreadable file
// degrades to a warning; rows from the other file are still returned.
func (a *Adapter) Produce(ctx context.Context, _ adapter.DateRange) ([]adapter.RawCandidate, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var candidates []adapter.RawCandidate
	var warnings []string

	if a.steps != nil {
		rows, err := readStepsFile(a.steps)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("fichier de pas illisible: %v", err))
		} else {
			candidates = append(candidates, rows...)
		}
	}

	if a.activities != nil {
		rows, err := readActivitiesFile(a.activities)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("fichier d'activités illisible: %v", err))
		} else {
			candidates = append(candidates, rows...)
		}
	}

	return candidates, warnings, nil
}

func readStepsFile(r io.Reader) ([]adapter.RawCandidate, error) {
	header, rows, err := readTable(r)
	if err != nil {
		return nil, err
	}

	dateCol := findColumn(header, dateHeaders, nil)
	stepsCol := findColumn(header, stepsHeaders, nil)
	if dateCol < 0 || stepsCol < 0 {
		return nil, fmt.Errorf("%w: colonnes date/pas introuvables", adapter.ErrSourceUnavailable)
	}

	candidates := make([]adapter.RawCandidate, 0, len(rows))
	for _, row := range rows {
		if len(row) <= dateCol || len(row) <= stepsCol {
			continue
		}
		candidates = append(candidates, adapter.RawCandidate{
			Kind: adapter.KindSteps,
			Fields: map[string]string{
				adapter.FieldDate:  row[dateCol],
				adapter.FieldSteps: row[stepsCol],
			},
		})
	}
	return candidates, nil
}

func readActivitiesFile(r io.Reader) ([]adapter.RawCandidate, error) {
	header, rows, err := readTable(r)
	if err != nil {
		return nil, err
	}

	dateCol := findColumn(header, dateHeaders, nil)
	typeCol := findColumn(header, typeHeaders, isActivityTypeHeader)
	durationCol := findColumn(header, durationHeaders, nil)
	caloriesCol := findColumn(header, caloriesHeaders, nil)
	if dateCol < 0 || typeCol < 0 {
		return nil, fmt.Errorf("%w: colonnes date/type introuvables", adapter.ErrSourceUnavailable)
	}

	candidates := make([]adapter.RawCandidate, 0, len(rows))
	for _, row := range rows {
		if len(row) <= dateCol || len(row) <= typeCol {
			continue
		}
		fields := map[string]string{
			adapter.FieldDate: row[dateCol],
			adapter.FieldType: row[typeCol],
		}
		if durationCol >= 0 && len(row) > durationCol {
			fields[adapter.FieldDuration] = row[durationCol]
		}
		if caloriesCol >= 0 && len(row) > caloriesCol {
			fields[adapter.FieldCalories] = row[caloriesCol]
		}
		candidates = append(candidates, adapter.RawCandidate{
			Kind:   adapter.KindActivity,
			Fields: fields,
		})
	}
	return candidates, nil
}

// readTable decodes the CSV with an optional UTF-8 byte-order mark stripped.
func readTable(r io.Reader) ([]string, [][]string, error) {
	decoded := transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", adapter.ErrSourceUnavailable, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: fichier vide", adapter.ErrSourceUnavailable)
	}
	return records[0], records[1:], nil
}

// findColumn matches headers case-sensitively against known spellings, then
// runs the fallback heuristic when one is provided.
func findColumn(header []string, known []string, heuristic func(string) bool) int {
	for i, cell := range header {
		cell = strings.TrimSpace(cell)
		for _, candidate := range known {
			if cell == candidate {
				return i
			}
		}
	}
	if heuristic != nil {
		for i, cell := range header {
			if heuristic(cell) {
				return i
			}
		}
	}
	return -1
}

// isActivityTypeHeader accepts any header carrying both a "type" token and an
// activity token in either language, e.g. "activityType" or "Type d'activité".
func isActivityTypeHeader(header string) bool {
	lower := strings.ToLower(header)
	return strings.Contains(lower, "type") && strings.Contains(lower, "activit")
}
