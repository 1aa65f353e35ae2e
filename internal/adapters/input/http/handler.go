package http

import (
	"errors"

	"support-relay/internal/domain"
	"support-relay/internal/ports/input"
	"support-relay/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HTTPHandler struct - Primary/Driving adapter for HTTP
type HTTPHandler struct {
	srv          input.ChatService
	db           *gorm.DB
	sessionCount func() int
	validator    validator.Validator
}

// New func - Creates new HTTP handler. db may be nil when ticket storage is disabled.
func New(srv input.ChatService, db *gorm.DB, sessionCount func() int) *HTTPHandler {
	return &HTTPHandler{
		srv:          srv,
		db:           db,
		sessionCount: sessionCount,
		validator:    validator.New(),
	}
}

// HealthCheck func
// @Summary Health check
// @Description Reports liveness and, when enabled, database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} ResponseBody
// @Failure 500 {object} ResponseBody
// @Router /health [get]
func (hdl *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	data := HealthResponse{Database: "disabled"}
	if hdl.sessionCount != nil {
		data.Sessions = hdl.sessionCount()
	}

	if hdl.db != nil {
		sqlDB, err := hdl.db.DB()
		if err != nil {
			logrus.Errorln(err)
			return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
		}
		if err = sqlDB.PingContext(c.UserContext()); err != nil {
			logrus.Errorln(err)
			return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
		}
		data.Database = "up"
	}

	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: data})
}

// Chat func
// @Summary Send a chat message
// @Description Answers a customer message via support notification, canned intent or the language model
// @Tags Chat
// @Accept application/json
// @Produce json
// @Param request body ChatRequest true "Chat message"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/chat [post]
func (hdl *HTTPHandler) Chat(c *fiber.Ctx) error {
	var request ChatRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Debugf("Unreadable chat request: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: MessageRequired})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		logrus.Debugf("Invalid chat request: %v", validator.Messages(err))
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: MessageRequired})
	}

	response, err := hdl.srv.Chat(c.UserContext(), domain.ChatRequest{
		Message:   request.Message,
		SessionID: request.SessionID,
		Channel:   domain.ChannelWeb,
	})
	if err != nil {
		return chatError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(ChatResponse{
		Reply:     response.Reply,
		SessionID: response.SessionID,
		Fallback:  response.Fallback,
	})
}

// chatError maps domain errors onto the chat API's error bodies
func chatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrMessageRequired):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: MessageRequired})
	case errors.Is(err, domain.ErrMissingCredential):
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: MissingAPIKey})
	case domain.IsUpstream(err):
		logrus.Errorf("Completion service failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: ServerError})
	default:
		logrus.Errorf("Chat request failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: ServerError})
	}
}

// ErrorHandler is the fiber error handler. Panics recovered upstream land here too.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
	}
	logrus.Errorf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: ServerError})
}
