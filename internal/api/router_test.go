package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AxM133/memoryloop/internal/domain"
	"github.com/AxM133/memoryloop/internal/store"
)

// nopReminders satisfies the reminder port without side effects.
type nopReminders struct{}

func (nopReminders) ScheduleReminder(context.Context, uuid.UUID, time.Time) error { return nil }
func (nopReminders) CancelReminders(context.Context, uuid.UUID) error             { return nil }

// nopSnapshots satisfies the persistence port without side effects.
type nopSnapshots struct{}

func (nopSnapshots) LoadAll(context.Context) ([]domain.MemoryItem, *domain.Settings, error) {
	return nil, nil, nil
}

func (nopSnapshots) SaveAll(context.Context, []domain.MemoryItem, domain.Settings) error {
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()

	settings := domain.DefaultSettings()
	settings.Mode = domain.MatchModeStrict

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	memoryStore, err := store.NewMemoryStore(settings, nopReminders{}, nopSnapshots{}, logger)
	require.NoError(t, err)

	server := httptest.NewServer(NewRouter(memoryStore, logger))
	t.Cleanup(server.Close)

	return server, memoryStore
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() {
		_ = resp.Body.Close()
	}()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestCreateMemoEndpoint(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/memos", CreateMemoRequest{
		Text:       "the capital of France",
		StageIndex: 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created MemoryItemResponse
	decodeBody(t, resp, &created)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "the capital of France", created.Memo)
	assert.Equal(t, 1, created.StageIndex)
	assert.False(t, created.IsFinished)
	assert.True(t, created.AutoCycle, "default settings enable auto cycle")
}

func TestCreateMemoEndpointRejectsMissingText(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/memos", map[string]interface{}{
		"stage_index": 0,
	})
	defer func() {
		_ = resp.Body.Close()
	}()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListAndGetMemos(t *testing.T) {
	t.Parallel()

	server, memoryStore := newTestServer(t)

	first, err := memoryStore.CreateMemo(context.Background(), "first", 0, nil)
	require.NoError(t, err)
	second, err := memoryStore.CreateMemo(context.Background(), "second", 0, nil)
	require.NoError(t, err)

	resp, err := http.Get(server.URL + "/api/memos")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []MemoryItemResponse
	decodeBody(t, resp, &listed)
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID.String(), listed[0].ID, "most recent first")
	assert.Equal(t, first.ID.String(), listed[1].ID)

	resp, err = http.Get(server.URL + "/api/memos/" + first.ID.String())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got MemoryItemResponse
	decodeBody(t, resp, &got)
	assert.Equal(t, "first", got.Memo)
}

func TestGetMemoErrors(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/memos/" + uuid.NewString())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/memos/not-a-uuid")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitAnswerEndpoint(t *testing.T) {
	t.Parallel()

	server, memoryStore := newTestServer(t)

	item, err := memoryStore.CreateMemo(context.Background(), "kernel", 0, nil)
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/memos/"+item.ID.String()+"/answer",
		AnswerRequest{Answer: "kernel"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result EvaluationResponse
	decodeBody(t, resp, &result)
	assert.True(t, result.Correct)
	assert.Equal(t, "kernel", result.Expected)
	assert.Equal(t, "kernel", result.UserAnswer)
	assert.False(t, result.Finished, "first correct round of a cycling item")
}

func TestSubmitAnswerEndpointErrors(t *testing.T) {
	t.Parallel()

	server, memoryStore := newTestServer(t)

	item, err := memoryStore.CreateMemo(context.Background(), "kernel", 0, nil)
	require.NoError(t, err)

	// Unknown item.
	resp := doJSON(t, http.MethodPost, server.URL+"/api/memos/"+uuid.NewString()+"/answer",
		AnswerRequest{Answer: "kernel"})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Blank answer fails request validation before reaching the store.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/memos/"+item.ID.String()+"/answer",
		map[string]string{"answer": ""})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Whitespace passes validation but is rejected by the store.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/memos/"+item.ID.String()+"/answer",
		AnswerRequest{Answer: "   "})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettingsEndpoints(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/settings")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var current domain.Settings
	decodeBody(t, resp, &current)
	assert.Equal(t, domain.MatchModeStrict, current.Mode)
	require.Len(t, current.Stages, 3)

	update := UpdateSettingsRequest{
		Stages: []StageRequest{
			{Title: "30 sec", Seconds: 30},
			{Title: "5 min", Seconds: 300},
		},
		Mode:             "fuzzy",
		FuzzyThreshold:   0.75,
		AutoCycleDefault: false,
	}
	resp = doJSON(t, http.MethodPut, server.URL+"/api/settings", update)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated domain.Settings
	decodeBody(t, resp, &updated)
	assert.Equal(t, domain.MatchModeFuzzy, updated.Mode)
	assert.Equal(t, 0.75, updated.FuzzyThreshold)
	require.Len(t, updated.Stages, 2)

	// Invalid updates leave the settings untouched.
	update.Stages = nil
	resp = doJSON(t, http.MethodPut, server.URL+"/api/settings", update)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(server.URL + "/api/settings")
	require.NoError(t, err)
	var after domain.Settings
	decodeBody(t, resp, &after)
	assert.Equal(t, domain.MatchModeFuzzy, after.Mode)
}

func TestErrorResponsesCarryTraceID(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/memos/not-a-uuid")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error   string `json:"error"`
		TraceID string `json:"trace_id"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Error)
	assert.NotEmpty(t, body.TraceID)
}
