package api

import (
	"log/slog"
	"net/http"

	"github.com/AxM133/memoryloop/internal/api/shared"
	"github.com/AxM133/memoryloop/internal/domain"
	"github.com/AxM133/memoryloop/internal/store"
)

// StageRequest is one stage schedule entry in a settings update.
type StageRequest struct {
	Title   string `json:"title" validate:"required"`
	Seconds int    `json:"seconds" validate:"required,gt=0"`
}

// UpdateSettingsRequest represents the request body for replacing the
// trainer settings. The settings are swapped as a whole, never partially.
type UpdateSettingsRequest struct {
	Stages           []StageRequest `json:"stages" validate:"min=1,dive"`
	Mode             string         `json:"mode" validate:"required,oneof=strict fuzzy"`
	FuzzyThreshold   float64        `json:"fuzzy_threshold" validate:"gte=0,lte=1"`
	AutoCycleDefault bool           `json:"auto_cycle_default"`
}

// SettingsHandler handles trainer-settings HTTP requests.
type SettingsHandler struct {
	store  *store.MemoryStore
	logger *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(memoryStore *store.MemoryStore, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{
		store:  memoryStore,
		logger: logger.With("component", "settings_handler"),
	}
}

// GetSettings handles GET /api/settings requests.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.store.Settings())
}

// UpdateSettings handles PUT /api/settings requests.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	stages := make([]domain.SRSStage, len(req.Stages))
	for i, st := range req.Stages {
		stages[i] = domain.SRSStage{Title: st.Title, Seconds: st.Seconds}
	}

	settings := domain.Settings{
		Stages:           stages,
		Mode:             domain.MatchMode(req.Mode),
		FuzzyThreshold:   req.FuzzyThreshold,
		AutoCycleDefault: req.AutoCycleDefault,
	}

	if err := h.store.UpdateSettings(r.Context(), settings); err != nil {
		status := MapErrorToStatusCode(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to update settings", "error", err)
		}
		shared.RespondWithError(w, r, status, ErrorMessageForStatus(status, err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.store.Settings())
}
