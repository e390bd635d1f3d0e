package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vfw-cli/internal/logger"
)

// Ensure SchemeService implements the interface.
var _ driving.SchemeService = (*SchemeService)(nil)

// SchemeService submits the recommendation form to the backend.
type SchemeService struct {
	backend driven.Backend
	auth    driving.AuthService
}

// NewSchemeService creates a new scheme service.
func NewSchemeService(backend driven.Backend, auth driving.AuthService) *SchemeService {
	return &SchemeService{
		backend: backend,
		auth:    auth,
	}
}

// Recommend maps the profile into a request and returns matching schemes.
func (s *SchemeService) Recommend(ctx context.Context, profile domain.SchemeProfile) ([]domain.SchemeRecommendation, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	req, err := profile.ToRequest()
	if err != nil {
		return nil, err
	}
	var token string
	if s.auth != nil {
		if creds := s.auth.Current(); creds != nil {
			token = creds.Token
		}
	}
	logger.Debug("recommend schemes: age=%d income=%d occupations=%v", req.Age, req.Income, req.Occupation)
	recs, err := s.backend.RecommendSchemes(ctx, token, req)
	if err != nil {
		return nil, fmt.Errorf("recommend schemes: %w", err)
	}
	if recs == nil {
		recs = []domain.SchemeRecommendation{}
	}
	return recs, nil
}
