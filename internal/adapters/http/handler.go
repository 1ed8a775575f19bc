package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/healthners/healthners/internal/app/conversation"
	"github.com/healthners/healthners/internal/app/settings"
	"github.com/healthners/healthners/internal/domain"
	"github.com/healthners/healthners/internal/i18n"
	"github.com/healthners/healthners/internal/observability"
)

type Server struct {
	svc      *conversation.Service
	settings *settings.Store
}

func NewServer(svc *conversation.Service, settingsStore *settings.Store) http.Handler {
	s := &Server{svc: svc, settings: settingsStore}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	// entry screen
	mux.HandleFunc("POST /users", s.handleEnter)
	mux.HandleFunc("DELETE /users/{id}", s.handleLogout)

	// chat screen
	mux.HandleFunc("GET /users/{id}/messages", s.handleGetMessages)
	mux.HandleFunc("POST /users/{id}/messages", s.handleSendMessage)
	mux.HandleFunc("DELETE /users/{id}/messages", s.handleClearHistory)
	mux.HandleFunc("POST /users/{id}/quick-replies/{key}", s.handleQuickReply)
	mux.HandleFunc("GET /quick-replies", s.handleListQuickReplies)

	// settings
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("PUT /settings", s.handleUpdateSettings)
	mux.HandleFunc("POST /settings/theme/toggle", s.handleToggleTheme)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type messageResponse struct {
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

type enterResponse struct {
	UserID   string            `json:"user_id"`
	Messages []messageResponse `json:"messages"`
}

type messagesResponse struct {
	UserID   string            `json:"user_id"`
	Messages []messageResponse `json:"messages"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage   messageResponse `json:"user_message"`
	BotMessage    messageResponse `json:"bot_message"`
	MessagesCount int             `json:"messages_count"`
}

type settingsResponse struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

type updateSettingsRequest struct {
	Theme    *string `json:"theme,omitempty"`
	Language *string `json:"language,omitempty"`
}

type quickRepliesResponse struct {
	Language     string            `json:"language"`
	QuickReplies []i18n.QuickReply `json:"quick_replies"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEnter(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.Enter(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, enterResponse{
		UserID:   string(out.UserID),
		Messages: toMessagesResponse(out.Messages),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Logout(r.Context(), userID(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	id := userID(r)
	msgs, err := s.svc.Open(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messagesResponse{
		UserID:   string(id),
		Messages: toMessagesResponse(msgs),
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.Send(r.Context(), userID(r), req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSendMessageResponse(out))
}

func (s *Server) handleQuickReply(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.QuickReply(r.Context(), userID(r), r.PathValue("key"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSendMessageResponse(out))
}

func (s *Server) handleListQuickReplies(w http.ResponseWriter, r *http.Request) {
	lang := s.settings.Load(r.Context()).Language
	if q := r.URL.Query().Get("lang"); q != "" {
		if l, ok := i18n.ParseLanguage(q); ok {
			lang = l
		}
	}

	writeJSON(w, http.StatusOK, quickRepliesResponse{
		Language:     string(lang),
		QuickReplies: i18n.ForLanguage(lang).QuickReplies,
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	msgs, err := s.svc.ClearHistory(r.Context(), userID(r), confirmed)
	if err != nil {
		if errors.Is(err, conversation.ErrConfirmationRequired) {
			lang := s.settings.Load(r.Context()).Language
			writeJSON(w, http.StatusConflict, map[string]string{
				"error":   "confirmation required",
				"confirm": i18n.ForLanguage(lang).DeleteHistoryConfirm,
			})
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messagesResponse{
		UserID:   string(userID(r)),
		Messages: toMessagesResponse(msgs),
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSettingsResponse(s.settings.Load(r.Context())))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if req.Theme != nil {
		switch domain.Theme(*req.Theme) {
		case domain.ThemeLight, domain.ThemeDark:
		default:
			badRequest(w, "theme must be light or dark")
			return
		}
	}
	if req.Language != nil {
		if _, ok := i18n.ParseLanguage(*req.Language); !ok {
			badRequest(w, "unsupported language")
			return
		}
	}

	ctx := r.Context()
	if req.Theme != nil {
		s.settings.SetTheme(ctx, domain.Theme(*req.Theme))
	}
	if req.Language != nil {
		s.settings.SetLanguage(ctx, domain.Language(*req.Language))
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(s.settings.Load(ctx)))
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSettingsResponse(s.settings.ToggleTheme(r.Context())))
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func userID(r *http.Request) domain.UserID {
	return domain.UserID(r.PathValue("id"))
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{Text: m.Text, IsUser: m.IsUser}
}

func toMessagesResponse(msgs []domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

func toSendMessageResponse(out *conversation.SendOutput) sendMessageResponse {
	return sendMessageResponse{
		UserMessage:   toMessageResponse(out.UserMessage),
		BotMessage:    toMessageResponse(out.BotMessage),
		MessagesCount: out.MessagesCount,
	}
}

func toSettingsResponse(st domain.Settings) settingsResponse {
	return settingsResponse{Theme: string(st.Theme), Language: string(st.Language)}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		badRequest(w, "text is required")
	case errors.Is(err, conversation.ErrNoUser):
		badRequest(w, "user id is required")
	case errors.Is(err, conversation.ErrUnknownQuickReply):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown quick reply"})
	default:
		observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}
}
