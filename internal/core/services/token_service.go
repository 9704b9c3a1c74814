package services

import (
	"context"
	"fmt"
	"time"

	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portssvc "github.com/expensehq/expense_mgmt_app/internal/core/ports/services"
	"github.com/expensehq/expense_mgmt_app/internal/platform/config"
	"github.com/expensehq/expense_mgmt_app/internal/utils"
)

// tokenService implements portssvc.TokenSvcFacade.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new token service.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken issues a signed JWT carrying the user's role and company.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	token, err := utils.GenerateJWT(
		user.UserID,
		string(user.Role),
		user.CompanyID,
		s.cfg.JWTSecret,
		s.cfg.JWTExpiryDuration,
		s.cfg.JWTIssuer,
	)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, time.Now().Add(s.cfg.JWTExpiryDuration), nil
}
