package dto

type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"session_id"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type SessionMessageResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type SessionHistoryResponse struct {
	SessionID string                   `json:"session_id"`
	Messages  []SessionMessageResponse `json:"messages"`
}

type ClearSessionRequest struct {
	SessionID string `json:"session_id"`
}

type ClearSessionResponse struct {
	Deleted int64 `json:"deleted"`
}
