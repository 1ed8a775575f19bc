package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/healthners/healthners/internal/adapters/http"
	"github.com/healthners/healthners/internal/adapters/llm"
	"github.com/healthners/healthners/internal/adapters/storage/memory"
	"github.com/healthners/healthners/internal/app/conversation"
	"github.com/healthners/healthners/internal/app/history"
	"github.com/healthners/healthners/internal/app/identity"
	"github.com/healthners/healthners/internal/app/session"
	"github.com/healthners/healthners/internal/app/settings"
)

func newTestServer(t *testing.T) (http.Handler, *llm.MockModel) {
	t.Helper()

	kv := memory.NewKVStore()
	model := llm.NewMockModel()
	settingsStore := settings.NewStore(kv)

	svc := conversation.NewService(
		session.NewRegistry(model),
		history.NewStore(kv),
		identity.NewStore(kv),
		settingsStore,
	)

	return httpadapter.NewServer(svc, settingsStore), model
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body=%s", w.Body.String())
	return v
}

type enterBody struct {
	UserID   string `json:"user_id"`
	Messages []struct {
		Text   string `json:"text"`
		IsUser bool   `json:"isUser"`
	} `json:"messages"`
}

type sendBody struct {
	UserMessage struct {
		Text string `json:"text"`
	} `json:"user_message"`
	BotMessage struct {
		Text   string `json:"text"`
		IsUser bool   `json:"isUser"`
	} `json:"bot_message"`
	MessagesCount int `json:"messages_count"`
}

func enter(t *testing.T, srv http.Handler) string {
	t.Helper()

	w := do(t, srv, http.MethodPost, "/users", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[enterBody](t, w).UserID
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestEnterAndSendMessage(t *testing.T) {
	srv, model := newTestServer(t)
	model.SetReply("Blink more often.")

	w := do(t, srv, http.MethodPost, "/users", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	entered := decode[enterBody](t, w)
	require.NotEmpty(t, entered.UserID)
	require.Len(t, entered.Messages, 1)
	assert.False(t, entered.Messages[0].IsUser)

	w = do(t, srv, http.MethodPost, "/users/"+entered.UserID+"/messages", map[string]string{"text": "My eyes are tired"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sent := decode[sendBody](t, w)
	assert.Equal(t, "My eyes are tired", sent.UserMessage.Text)
	assert.Equal(t, "Blink more often.", sent.BotMessage.Text)
	assert.Equal(t, 3, sent.MessagesCount)

	w = do(t, srv, http.MethodGet, "/users/"+entered.UserID+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[enterBody](t, w).Messages, 3)
}

func TestSendMessageValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	id := enter(t, srv)

	w := do(t, srv, http.MethodPost, "/users/"+id+"/messages", map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/users/"+id+"/messages", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuickReply(t *testing.T) {
	srv, model := newTestServer(t)
	id := enter(t, srv)

	w := do(t, srv, http.MethodPost, "/users/"+id+"/quick-replies/eye_strain", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"Втома очей"}, model.Prompts())

	w = do(t, srv, http.MethodPost, "/users/"+id+"/quick-replies/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListQuickReplies(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/quick-replies?lang=en-GB", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Language     string `json:"language"`
		QuickReplies []struct {
			Key   string `json:"key"`
			Label string `json:"label"`
		} `json:"quick_replies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "en", body.Language)
	require.Len(t, body.QuickReplies, 4)
	assert.Equal(t, "Attention span", body.QuickReplies[0].Label)
}

func TestClearHistoryRequiresConfirm(t *testing.T) {
	srv, _ := newTestServer(t)
	id := enter(t, srv)
	do(t, srv, http.MethodPost, "/users/"+id+"/messages", map[string]string{"text": "hello"})

	w := do(t, srv, http.MethodDelete, "/users/"+id+"/messages", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, srv, http.MethodDelete, "/users/"+id+"/messages?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[enterBody](t, w).Messages, 1)
}

func TestLogout(t *testing.T) {
	srv, _ := newTestServer(t)
	id := enter(t, srv)
	do(t, srv, http.MethodPost, "/users/"+id+"/messages", map[string]string{"text": "hello"})

	w := do(t, srv, http.MethodDelete, "/users/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// visible list starts over with the greeting only
	w = do(t, srv, http.MethodGet, "/users/"+id+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[enterBody](t, w).Messages, 1)
}

func TestSettings(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"light","language":"uk"}`, w.Body.String())

	w = do(t, srv, http.MethodPost, "/settings/theme/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"dark","language":"uk"}`, w.Body.String())

	w = do(t, srv, http.MethodPut, "/settings", map[string]string{"language": "en"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"dark","language":"en"}`, w.Body.String())

	w = do(t, srv, http.MethodPut, "/settings", map[string]string{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, http.MethodOptions, "/users", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
