package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AxM133/memoryloop/internal/api/shared"
	"github.com/AxM133/memoryloop/internal/domain"
	"github.com/AxM133/memoryloop/internal/store"
)

// CreateMemoRequest represents the request body for creating a new memo.
// AutoCycle is optional; absent means the configured default.
type CreateMemoRequest struct {
	Text       string `json:"text" validate:"required,min=1"`
	StageIndex int    `json:"stage_index" validate:"gte=0"`
	AutoCycle  *bool  `json:"auto_cycle,omitempty"`
}

// AnswerRequest represents the request body for submitting a recalled answer.
type AnswerRequest struct {
	Answer string `json:"answer" validate:"required,min=1"`
}

// MemoryItemResponse represents the response data for a memory item.
type MemoryItemResponse struct {
	ID            string     `json:"id"`
	Memo          string     `json:"memo"`
	CreatedAt     time.Time  `json:"created_at"`
	StageIndex    int        `json:"stage_index"`
	DueAt         time.Time  `json:"due_at"`
	AnsweredAt    *time.Time `json:"answered_at,omitempty"`
	UserAnswer    *string    `json:"user_answer,omitempty"`
	Correct       *bool      `json:"correct,omitempty"`
	AutoCycle     bool       `json:"auto_cycle"`
	CorrectStreak int        `json:"correct_streak"`
	WrongCount    int        `json:"wrong_count"`
	IsFinished    bool       `json:"is_finished"`
}

// EvaluationResponse represents the outcome of an answer submission.
type EvaluationResponse struct {
	Correct    bool   `json:"correct"`
	Expected   string `json:"expected"`
	UserAnswer string `json:"user_answer"`
	Finished   bool   `json:"finished"`
}

// MemoHandler handles memory-item HTTP requests.
type MemoHandler struct {
	store  *store.MemoryStore
	logger *slog.Logger
}

// NewMemoHandler creates a new MemoHandler.
func NewMemoHandler(memoryStore *store.MemoryStore, logger *slog.Logger) *MemoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoHandler{
		store:  memoryStore,
		logger: logger.With("component", "memo_handler"),
	}
}

// CreateMemo handles POST /api/memos requests.
func (h *MemoHandler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	var req CreateMemoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	item, err := h.store.CreateMemo(r.Context(), req.Text, req.StageIndex, req.AutoCycle)
	if err != nil {
		status := MapErrorToStatusCode(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to create memo", "error", err)
		}
		shared.RespondWithError(w, r, status, ErrorMessageForStatus(status, err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// ListMemos handles GET /api/memos requests. Items are returned
// most-recent-first, the order the store maintains.
func (h *MemoHandler) ListMemos(w http.ResponseWriter, r *http.Request) {
	items := h.store.Items()

	out := make([]MemoryItemResponse, len(items))
	for i := range items {
		out[i] = itemToResponse(&items[i])
	}

	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// GetMemo handles GET /api/memos/{id} requests.
func (h *MemoHandler) GetMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.store.GetByID(id)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithError(w, r, status, ErrorMessageForStatus(status, err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// SubmitAnswer handles POST /api/memos/{id}/answer requests.
func (h *MemoHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.store.HandleExternalAnswer(r.Context(), id, req.Answer)
	if err != nil {
		status := MapErrorToStatusCode(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to evaluate answer", "error", err, "item_id", id)
		}
		shared.RespondWithError(w, r, status, ErrorMessageForStatus(status, err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, EvaluationResponse{
		Correct:    result.Correct,
		Expected:   result.Expected,
		UserAnswer: result.UserAnswer,
		Finished:   result.Finished,
	})
}

// itemID parses the {id} URL parameter, writing a 400 response on failure.
func (h *MemoHandler) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID")
		return uuid.Nil, false
	}
	return id, true
}

// itemToResponse converts a domain.MemoryItem to a MemoryItemResponse.
func itemToResponse(item *domain.MemoryItem) MemoryItemResponse {
	return MemoryItemResponse{
		ID:            item.ID.String(),
		Memo:          item.Memo,
		CreatedAt:     item.CreatedAt,
		StageIndex:    item.StageIndex,
		DueAt:         item.DueAt,
		AnsweredAt:    item.AnsweredAt,
		UserAnswer:    item.UserAnswer,
		Correct:       item.Correct,
		AutoCycle:     item.AutoCycle,
		CorrectStreak: item.CorrectStreak,
		WrongCount:    item.WrongCount,
		IsFinished:    item.IsFinished,
	}
}
