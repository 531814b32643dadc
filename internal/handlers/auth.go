// internal/handlers/auth.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guanl20/Blocktrust/internal/i18n"
	"github.com/guanl20/Blocktrust/internal/services"
	"github.com/guanl20/Blocktrust/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
			return
		}
		respondError(c, err, "participant")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"participant": authResponse.Participant,
		"token":       authResponse.AccessToken,
		"token_type":  authResponse.TokenType,
		"expires_in":  authResponse.ExpiresIn,
	})
}

// GET /auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	account, ok := callerAccount(c)
	if !ok {
		return
	}

	participant, err := h.authService.Me(c.Request.Context(), account)
	if err != nil {
		respondError(c, err, "participant")
		return
	}

	utils.SuccessResponse(c, participant)
}
