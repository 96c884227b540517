package handlers

import (
	"strings"
	"time"

	"mueen-assist/internal/dto"
	"mueen-assist/internal/models"
	"mueen-assist/internal/repository"
	"mueen-assist/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	dispatcher *service.Dispatcher
	sessions   *repository.SessionRepository
	profiles   *service.ProfileService
	catalog    *service.CatalogService
	logger     *zap.Logger
}

func NewChatHandler(dispatcher *service.Dispatcher, sessions *repository.SessionRepository, profiles *service.ProfileService, catalog *service.CatalogService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		dispatcher: dispatcher,
		sessions:   sessions,
		profiles:   profiles,
		catalog:    catalog,
		logger:     logger,
	}
}

// GetResponse godoc
// @Summary Resolve one user message into one reply
// @Description Routes the message through the dialogue ladder and returns the assistant reply
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "User message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Router /get_response [post]
func (h *ChatHandler) GetResponse(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}

	reply := h.dispatcher.Handle(c.Context(), req.SessionID, req.Message)
	return c.JSON(dto.ChatResponse{Reply: reply})
}

// SessionHistory godoc
// @Summary List one session's messages
// @Tags chat
// @Produce json
// @Param session_id query string true "Session identifier"
// @Success 200 {object} dto.SessionHistoryResponse
// @Failure 400 {object} map[string]string
// @Router /session_history [get]
func (h *ChatHandler) SessionHistory(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id is required",
		})
	}

	messages, err := h.sessions.History(c.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load session history", zap.String("session", sessionID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load session history",
		})
	}

	resp := dto.SessionHistoryResponse{SessionID: sessionID, Messages: []dto.SessionMessageResponse{}}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, dto.SessionMessageResponse{
			ID:        m.ID.String(),
			Role:      string(m.Role),
			Text:      m.Text,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(resp)
}

// ClearSessionHistory godoc
// @Summary Clear a session's messages and reset the selection funnel
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ClearSessionRequest false "Session to clear; empty clears all"
// @Success 200 {object} dto.ClearSessionResponse
// @Security BearerAuth
// @Router /clear_session_history [post]
func (h *ChatHandler) ClearSessionHistory(c *fiber.Ctx) error {
	var req dto.ClearSessionRequest
	_ = c.BodyParser(&req)

	deleted, err := h.sessions.Clear(c.Context(), req.SessionID)
	if err != nil {
		h.logger.Error("Failed to clear session history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear session history",
		})
	}

	if err := h.catalog.ResetFunnel(); err != nil {
		h.logger.Warn("Failed to reset selection funnel", zap.Error(err))
	}
	return c.JSON(dto.ClearSessionResponse{Deleted: deleted})
}

// SaveAuth godoc
// @Summary Store the mobile app's upstream bearer token
// @Description The token is replayed verbatim on later address submissions
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.SaveAuthRequest true "Upstream token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /save_auth [post]
func (h *ChatHandler) SaveAuth(c *fiber.Ctx) error {
	var req dto.SaveAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "token is required",
		})
	}

	token := strings.TrimSpace(req.Token)
	if !strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = "bearer " + token
	}

	if _, err := h.profiles.Update(func(p *models.UserProfile) {
		p.AuthToken = token
		if req.ContactID != 0 {
			p.ContactID = req.ContactID
		}
	}); err != nil {
		h.logger.Error("Failed to store auth token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store token",
		})
	}
	return c.JSON(fiber.Map{"status": "saved"})
}
