package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mdemidenko/homework-bot/internal/middleware"
)

// LoginRequest запрос на аутентификацию
// @Description Запрос для получения JWT токена
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1" example:"admin"`
	Password string `json:"password" binding:"required,min=1" example:"secure_password"`
}

// LoginResponse ответ с JWT токеном
// @Description Ответ с JWT токеном при успешной аутентификации
type LoginResponse struct {
	Success   bool      `json:"success" example:"true"`
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time `json:"expires_at" example:"2024-01-01T12:00:00Z"`
	TokenType string    `json:"token_type" example:"Bearer"`
}

// LoginHandler обработчик для аутентификации
// @Summary Аутентификация оператора
// @Description Получение JWT токена по логину и паролю из конфигурации
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Данные для аутентификации"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/login [post]
func (h *Handler) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, BadRequestError("Invalid request: "+err.Error()))
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.Auth.Login)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.Auth.Password)) == 1
	if !userOK || !passOK {
		abort(c, UnauthorizedError("Invalid username or password"))
		return
	}

	token, err := middleware.GenerateJWTToken(req.Username, h.cfg.Auth.JWTSecret, h.cfg.Auth.JWTExpiration)
	if err != nil {
		abort(c, InternalServerError("Failed to generate token: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(h.cfg.Auth.JWTExpiration) * time.Hour),
		TokenType: "Bearer",
	})
}
