package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"agri-chat/internal/chat"
	"agri-chat/internal/metrics"
	"agri-chat/pkg/api"
)

type ChatService struct {
	sessions *chat.SessionCache
	metrics  *metrics.Metrics
}

func NewChatService(sessions *chat.SessionCache, m *metrics.Metrics) *ChatService {
	return &ChatService{
		sessions: sessions,
		metrics:  m,
	}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/", RestHandler(s.SendMessage))
		r.Post("/sessions", RestHandler(s.StartSession))
		r.Get("/history", RestHandler(s.GetHistory))
		r.Delete("/history", RestHandler(s.ClearHistory))
	})
}

func (s *ChatService) SendMessage(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}

	sessionID, err := ParseSessionID(req.SessionID)
	if err != nil {
		return nil, err
	}

	session := s.sessions.GetSession(sessionID)
	s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))

	reply, err := session.Chat(r.Context(), chat.Request{
		Message:  req.UserMessage,
		Location: req.UserLocation,
		Language: req.UserLanguage,
	})
	if err != nil {
		// An empty message is reported like any other failed exchange.
		return nil, CodedError(http.StatusInternalServerError, err)
	}

	return api.ChatResponse{BotResponse: reply}, nil
}

func (s *ChatService) StartSession(r *http.Request) (any, error) {
	sessionID := uuid.New().String()

	s.sessions.GetSession(sessionID)
	s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))

	return api.StartSessionResponse{SessionID: sessionID}, nil
}

func (s *ChatService) GetHistory(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.HistoryParams](r)
	if err != nil {
		return nil, err
	}

	sessionID, err := ParseSessionID(params.SessionID)
	if err != nil {
		return nil, err
	}

	resp := []api.ChatHistoryItem{}

	session, ok := s.sessions.LookupSession(sessionID)
	if !ok {
		return resp, nil
	}

	for _, turn := range session.History() {
		resp = append(resp, api.ChatHistoryItem{
			Role: string(turn.Role),
			Text: turn.Text,
		})
	}

	return resp, nil
}

func (s *ChatService) ClearHistory(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.HistoryParams](r)
	if err != nil {
		return nil, err
	}

	sessionID, err := ParseSessionID(params.SessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.DeleteSession(sessionID)
	s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))

	return nil, nil
}
