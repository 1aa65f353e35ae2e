package domain

// DTOs (Data Transfer Objects) - Domain layer request/response structures

type (
	// ChatRequest struct - Domain chat request DTO
	ChatRequest struct {
		Message   string
		SessionID string
		Channel   Channel
	}

	// ChatResponse struct - Domain chat response DTO
	ChatResponse struct {
		Reply     string
		SessionID string
		Route     ChatRoute
		Fallback  bool
	}

	// ChatCompletionRequest struct - Domain request DTO for the completion API
	ChatCompletionRequest struct {
		Model       string
		Messages    []ChatMessage
		Temperature *float64
		MaxTokens   *int
	}

	// ChatCompletionResponse struct - Domain response DTO for the completion API
	ChatCompletionResponse struct {
		Content          string
		Model            string
		PromptTokens     int
		CompletionTokens int
		TotalTokens      int
	}

	// LineWebhookRequest struct - Domain LINE webhook request DTO
	LineWebhookRequest struct {
		Events []LineWebhookEvent
	}

	// LineReplyMessageRequest struct - Domain LINE reply message request DTO
	LineReplyMessageRequest struct {
		ReplyToken string
		Messages   []LineOutgoingMessage
	}

	// LinePushMessageRequest struct - Domain LINE push message request DTO
	LinePushMessageRequest struct {
		To       string
		Messages []LineOutgoingMessage
	}

	// LineOutgoingMessage struct - Domain LINE outgoing message DTO
	LineOutgoingMessage struct {
		Type LineMessageType
		Text string
	}

	// LineMessageResponse struct - Domain LINE API response DTO
	LineMessageResponse struct {
		Status  string
		Message string
	}
)
