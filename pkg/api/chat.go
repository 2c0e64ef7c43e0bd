package api

// Field names match the browser front-end, which posts camelCase JSON.

type ChatRequest struct {
	UserMessage  string `json:"userMessage"`
	UserLocation string `json:"userLocation,omitempty"`
	UserLanguage string `json:"userLanguage,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
}

type ChatResponse struct {
	BotResponse string `json:"botResponse"`
}

type StartSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type HistoryParams struct {
	SessionID string `schema:"session_id"`
}

type ChatHistoryItem struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
