// Package api exposes HTTP handlers for the import service.
package api

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pespay-cmyk/nutristep/internal/adapter"
	"github.com/pespay-cmyk/nutristep/internal/adapter/csvfile"
	"github.com/pespay-cmyk/nutristep/internal/auth"
	"github.com/pespay-cmyk/nutristep/internal/domain"
	"github.com/pespay-cmyk/nutristep/internal/importer"
)

// GarminFactory builds a live adapter for the supplied user access token.
type GarminFactory func(accessToken string) adapter.Producer

// Handler coordinates HTTP requests with the import service.
type Handler struct {
	service   *importer.Service
	newGarmin GarminFactory
}

// NewHandler builds a Handler.
func NewHandler(service *importer.Service, newGarmin GarminFactory) *Handler {
	return &Handler{service: service, newGarmin: newGarmin}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/imports/stage", h.stage)
	mux.HandleFunc("/v1/imports/commit", h.commit)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// stage runs one adapter to completion and returns the reviewable session.
// A JSON body selects the Garmin live source; a multipart body carries the
// CSV exports. Nothing is persisted here.
func (h *Handler) stage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeImportsRead) && !claims.HasScope(auth.ScopeImportsWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope imports:read required")
		return
	}

	producer, dateRange, err := h.producerFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	session, err := h.service.Stage(r.Context(), claims.Subject, producer, dateRange)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toSessionView(session))
}

func (h *Handler) producerFromRequest(r *http.Request) (adapter.Producer, adapter.DateRange, error) {
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, adapter.DateRange{}, errors.New("missing content type")
	}

	if contentType == "multipart/form-data" {
		return h.fileProducer(r)
	}

	var req StageLiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, adapter.DateRange{}, errors.New("unable to parse body")
	}
	if err := req.Validate(); err != nil {
		return nil, adapter.DateRange{}, err
	}

	from, _ := time.ParseInLocation(domain.DateOnly, req.From, time.UTC)
	to, _ := time.ParseInLocation(domain.DateOnly, req.To, time.UTC)
	return h.newGarmin(req.AccessToken), adapter.DateRange{From: from, To: to}, nil
}

func (h *Handler) fileProducer(r *http.Request) (adapter.Producer, adapter.DateRange, error) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		return nil, adapter.DateRange{}, errors.New("unable to parse multipart body")
	}

	steps := openFormFile(r, "steps_csv")
	activities := openFormFile(r, "activities_csv")
	if steps == nil && activities == nil {
		return nil, adapter.DateRange{}, errors.New("at least one of steps_csv or activities_csv is required")
	}

	return csvfile.NewAdapter(steps, activities), adapter.DateRange{}, nil
}

func openFormFile(r *http.Request, field string) multipart.File {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil
	}
	return file
}

// commit persists the caller's selection and reports counts.
func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeImportsWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope imports:write required")
		return
	}

	var req CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	selection, err := req.toSelection()
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := h.service.Commit(r.Context(), claims.Subject, selection)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CommitResponse{
		ImportedSteps:      result.ImportedSteps,
		ImportedActivities: result.ImportedActivities,
		SkippedExisting:    result.SkippedExisting,
	})
}

// StageLiveRequest selects the Garmin live source for a date range.
type StageLiveRequest struct {
	From        string `json:"from"`
	To          string `json:"to"`
	AccessToken string `json:"access_token"`
}

// Validate ensures request correctness.
func (r StageLiveRequest) Validate() error {
	from, err := time.ParseInLocation(domain.DateOnly, r.From, time.UTC)
	if err != nil {
		return errors.New("from must be a YYYY-MM-DD date")
	}
	to, err := time.ParseInLocation(domain.DateOnly, r.To, time.UTC)
	if err != nil {
		return errors.New("to must be a YYYY-MM-DD date")
	}
	if to.Before(from) {
		return errors.New("to must not precede from")
	}
	if strings.TrimSpace(r.AccessToken) == "" {
		return errors.New("access_token is required")
	}
	return nil
}

// StagedStepView is one reviewable steps-day entry.
type StagedStepView struct {
	Date          string `json:"date"`
	Steps         int    `json:"steps"`
	AlreadyExists bool   `json:"already_exists"`
}

// StagedActivityView is one reviewable activity entry.
type StagedActivityView struct {
	Date            string `json:"date"`
	ActivityType    string `json:"activity_type"`
	ActivityTypeRaw string `json:"activity_type_raw"`
	Duration        int    `json:"duration"`
	Calories        *int   `json:"calories"`
	AlreadyExists   bool   `json:"already_exists"`
}

// SessionView is the staging response returned for review.
type SessionView struct {
	Steps      []StagedStepView     `json:"steps"`
	Activities []StagedActivityView `json:"activities"`
	Warnings   []string             `json:"warnings,omitempty"`
}

func toSessionView(session *importer.Session) SessionView {
	view := SessionView{
		Steps:      make([]StagedStepView, 0, len(session.Steps)),
		Activities: make([]StagedActivityView, 0, len(session.Activities)),
		Warnings:   session.Warnings,
	}
	for _, step := range session.Steps {
		view.Steps = append(view.Steps, StagedStepView{
			Date:          step.Date.Format(domain.DateOnly),
			Steps:         step.Steps,
			AlreadyExists: step.AlreadyExists,
		})
	}
	for _, act := range session.Activities {
		view.Activities = append(view.Activities, StagedActivityView{
			Date:            act.Date.Format(domain.DateOnly),
			ActivityType:    string(act.ActivityType),
			ActivityTypeRaw: act.RawType,
			Duration:        act.DurationMin,
			Calories:        act.Calories,
			AlreadyExists:   act.AlreadyExists,
		})
	}
	return view
}

// CommitStepEntry echoes one staged steps-day with its selection state.
type CommitStepEntry struct {
	Date          string `json:"date"`
	Steps         int    `json:"steps"`
	AlreadyExists bool   `json:"already_exists"`
	Selected      bool   `json:"selected"`
}

// CommitActivityEntry echoes one staged activity with its selection state.
type CommitActivityEntry struct {
	Date            string `json:"date"`
	ActivityType    string `json:"activity_type"`
	ActivityTypeRaw string `json:"activity_type_raw"`
	Duration        int    `json:"duration"`
	Calories        *int   `json:"calories"`
	AlreadyExists   bool   `json:"already_exists"`
	Selected        bool   `json:"selected"`
}

// CommitRequest is the explicit selection batch for POST /v1/imports/commit.
type CommitRequest struct {
	SourceNote string                `json:"source_note"`
	Steps      []CommitStepEntry     `json:"steps"`
	Activities []CommitActivityEntry `json:"activities"`
}

func (r CommitRequest) toSelection() (importer.Selection, error) {
	sel := importer.Selection{
		SourceNote: r.SourceNote,
		Steps:      make([]importer.StepSelection, 0, len(r.Steps)),
		Activities: make([]importer.ActivitySelection, 0, len(r.Activities)),
	}
	if sel.SourceNote == "" {
		sel.SourceNote = "import"
	}

	for _, entry := range r.Steps {
		date, err := time.ParseInLocation(domain.DateOnly, entry.Date, time.UTC)
		if err != nil {
			return importer.Selection{}, errors.New("steps entries require a YYYY-MM-DD date")
		}
		if entry.Steps < 0 {
			return importer.Selection{}, errors.New("steps must be >= 0")
		}
		sel.Steps = append(sel.Steps, importer.StepSelection{
			Date:          date,
			Steps:         entry.Steps,
			AlreadyExists: entry.AlreadyExists,
			Selected:      entry.Selected,
		})
	}

	for _, entry := range r.Activities {
		date, err := time.ParseInLocation(domain.DateOnly, entry.Date, time.UTC)
		if err != nil {
			return importer.Selection{}, errors.New("activity entries require a YYYY-MM-DD date")
		}
		if entry.Duration < 0 {
			return importer.Selection{}, errors.New("duration must be >= 0")
		}
		sel.Activities = append(sel.Activities, importer.ActivitySelection{
			Date:          date,
			ActivityType:  domain.ActivityType(entry.ActivityType),
			RawType:       entry.ActivityTypeRaw,
			DurationMin:   entry.Duration,
			Calories:      entry.Calories,
			AlreadyExists: entry.AlreadyExists,
			Selected:      entry.Selected,
		})
	}

	return sel, nil
}

// CommitResponse reports what the commit persisted.
type CommitResponse struct {
	ImportedSteps      int `json:"imported_steps"`
	ImportedActivities int `json:"imported_activities"`
	SkippedExisting    int `json:"skipped_existing"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
