package http

import (
	"net/http"
)

const (
	// MessageRequired is returned for an empty or unreadable chat request
	MessageRequired = "Message is required"
	// MissingAPIKey is returned when no completion credential is configured
	MissingAPIKey = "OPENAI_API_KEY missing"
	// ServerError is returned for every other failure
	ServerError = "Server error"
	// TooManyRequests is returned by the rate limiter
	TooManyRequests = "Too many requests"
)

var (
	// Success response
	Success = Status{Code: http.StatusOK, Message: []string{"Success"}}
	// InternalServerError response
	InternalServerError = Status{Code: http.StatusInternalServerError, Message: []string{"Internal Server Error"}}
)

// ResponseBody struct - Generic HTTP response wrapper
type ResponseBody struct {
	Status Status      `json:"status,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Status struct
type Status struct {
	Code    int      `json:"code,omitempty"`
	Message []string `json:"message,omitempty"`
}

type (
	// ChatResponse struct - HTTP response DTO for POST /api/chat
	ChatResponse struct {
		Reply     string `json:"reply"`
		SessionID string `json:"sessionId"`
		Fallback  bool   `json:"fallback,omitempty"`
	}

	// ErrorResponse struct - Error body of the chat API
	ErrorResponse struct {
		Error string `json:"error"`
	}

	// HealthResponse struct - Data of GET /health
	HealthResponse struct {
		Database string `json:"database"`
		Sessions int    `json:"sessions"`
	}
)
