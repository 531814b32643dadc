// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guanl20/Blocktrust/internal/config"
	"github.com/guanl20/Blocktrust/internal/models"
	"github.com/guanl20/Blocktrust/internal/repository"
	"github.com/guanl20/Blocktrust/internal/utils"
)

// ErrInvalidCredentials is returned by Login for an unknown account, an
// account without a password or a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid account or password")

type AuthService struct {
	store repository.Store
	cfg   *config.Config
}

type LoginRequest struct {
	Account  string `json:"account" validate:"required,max=128"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Participant *models.Participant `json:"participant"`
	AccessToken string              `json:"access_token"`
	TokenType   string              `json:"token_type"`
	ExpiresIn   int                 `json:"expires_in"` // in seconds
}

func NewAuthService(store repository.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store: store,
		cfg:   cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalidRequest(err)
	}

	participant, err := s.store.GetParticipant(ctx, strings.TrimSpace(req.Account))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if participant.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := participant.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateJWT(participant.Account, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		Participant: participant,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}

// Me returns the participant behind an authenticated account.
func (s *AuthService) Me(ctx context.Context, account string) (*models.Participant, error) {
	participant, err := s.store.GetParticipant(ctx, account)
	if err != nil {
		return nil, translate(err)
	}
	return participant, nil
}
