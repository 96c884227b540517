package handlers

import (
	"mueen-assist/internal/dto"
	"mueen-assist/pkg/auth"
	"mueen-assist/pkg/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	cfg        *config.AuthConfig
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthHandler(cfg *config.AuthConfig, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:        cfg,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Login godoc
// @Summary Exchange the operator token for a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Operator token"
// @Success 200 {object} dto.AdminLoginResponse
// @Failure 401 {object} map[string]string
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if h.cfg.AdminTokenHash == "" || !auth.CheckToken(req.Token, h.cfg.AdminTokenHash) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := h.jwtManager.GenerateToken("admin")
	if err != nil {
		h.logger.Error("Failed to generate token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login failed",
		})
	}

	return c.JSON(dto.AdminLoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(h.cfg.TokenTTL.Seconds()),
	})
}
