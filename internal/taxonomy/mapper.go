// Package taxonomy maps vendor-supplied activity labels onto the canonical
// category set.
package taxonomy

import (
	"strings"

	"github.com/pespay-cmyk/nutristep/internal/domain"
)

// Entry associates one known vendor label with a canonical category.
type Entry struct {
	Label    string
	Category domain.ActivityType
}

// Mapper resolves free-form vendor labels. Lookup is exact first, then a
// substring scan in table order; unknown labels map to Autre. The mapper is
// pure and total.
type Mapper struct {
	entries []Entry
	exact   map[string]domain.ActivityType
}

// NewMapper builds a Mapper from an ordered table. Table order is the
// tie-break for the substring fallback: the first matching entry wins.
func NewMapper(entries []Entry) *Mapper {
	m := &Mapper{
		entries: make([]Entry, 0, len(entries)),
		exact:   make(map[string]domain.ActivityType, len(entries)),
	}
	for _, e := range entries {
		label := strings.ToLower(strings.TrimSpace(e.Label))
		if label == "" {
			continue
		}
		m.entries = append(m.entries, Entry{Label: label, Category: e.Category})
		if _, dup := m.exact[label]; !dup {
			m.exact[label] = e.Category
		}
	}
	return m
}

// Map resolves a raw vendor label to a canonical category.
func (m *Mapper) Map(raw string) domain.ActivityType {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return domain.TypeOther
	}

	if category, ok := m.exact[label]; ok {
		return category
	}

	// Vendor labels vary in granularity ("resort_skiing_snowboarding" vs
	// "skiing"), so fall back to containment in either direction.
	for _, e := range m.entries {
		if strings.Contains(label, e.Label) || strings.Contains(e.Label, label) {
			return e.Category
		}
	}

	return domain.TypeOther
}

// DefaultTable covers the vendor vocabulary seen in Garmin exports and the
// French/English label pairs used by the app itself.
func DefaultTable() []Entry {
	return []Entry{
		{"course à pied", domain.TypeRunning},
		{"course", domain.TypeRunning},
		{"running", domain.TypeRunning},
		{"trail_running", domain.TypeRunning},
		{"treadmill_running", domain.TypeRunning},
		{"jogging", domain.TypeRunning},

		{"marche", domain.TypeWalking},
		{"walking", domain.TypeWalking},
		{"hiking", domain.TypeWalking},
		{"randonnée", domain.TypeWalking},

		{"vélo", domain.TypeCycling},
		{"cyclisme", domain.TypeCycling},
		{"cycling", domain.TypeCycling},
		{"road_biking", domain.TypeCycling},
		{"mountain_biking", domain.TypeCycling},
		{"indoor_cycling", domain.TypeCycling},

		{"natation", domain.TypeSwimming},
		{"swimming", domain.TypeSwimming},
		{"lap_swimming", domain.TypeSwimming},
		{"open_water_swimming", domain.TypeSwimming},

		{"musculation", domain.TypeStrength},
		{"strength_training", domain.TypeStrength},
		{"fitness_equipment", domain.TypeStrength},
		{"indoor_cardio", domain.TypeStrength},

		{"yoga", domain.TypeYoga},
		{"pilates", domain.TypeYoga},

		{"ski", domain.TypeSkiing},
		{"skiing", domain.TypeSkiing},
		{"resort_skiing_snowboarding", domain.TypeSkiing},
		{"backcountry_skiing", domain.TypeSkiing},
		{"cross_country_skiing", domain.TypeSkiing},
		{"snowboarding", domain.TypeSkiing},
	}
}
