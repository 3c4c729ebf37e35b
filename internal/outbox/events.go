package outbox

// RecordImported is the payload emitted when the commit engine persists a
// record. Downstream consumers (dashboard aggregates, notifications) key off
// activity_type to tell steps days from sessions.
type RecordImported struct {
	RecordID     string `json:"record_id"`
	UserID       string `json:"user_id"`
	ActivityType string `json:"activity_type"`
	Date         string `json:"date"`
	DurationMin  int    `json:"duration_min"`
	Steps        *int   `json:"steps,omitempty"`
	Calories     *int   `json:"calories,omitempty"`
	Source       string `json:"source"`
}
