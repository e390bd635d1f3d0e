package services

import (
	"context"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
	"github.com/custodia-labs/vfw-cli/internal/core/ports/driving"
)

// Ensure DashboardService implements the interface.
var _ driving.DashboardService = (*DashboardService)(nil)

// DashboardService summarises the signed-in user's chat history.
type DashboardService struct {
	auth     driving.AuthService
	sessions driving.SessionService
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(auth driving.AuthService, sessions driving.SessionService) *DashboardService {
	return &DashboardService{
		auth:     auth,
		sessions: sessions,
	}
}

// Summary returns the user and per-assistant history.
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	creds, err := s.auth.RequireAuth()
	if err != nil {
		return nil, err
	}
	summary := &domain.DashboardSummary{User: *creds}
	for _, kind := range domain.AllAssistantKinds() {
		list := s.sessions.List(ctx, kind)
		entry := domain.SessionSummary{Kind: kind, Count: len(list)}
		if len(list) > 0 {
			entry.RecentTitle = list[0].Title
		}
		summary.Sessions = append(summary.Sessions, entry)
	}
	return summary, nil
}
