package http

type (
	// ChatRequest struct - HTTP request DTO for POST /api/chat
	ChatRequest struct {
		Message   string `json:"message" validate:"required" form:"message"`
		SessionID string `json:"sessionId" form:"sessionId"`
	}
)
