package driving

import (
	"context"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// DashboardService summarises the signed-in user's activity.
type DashboardService interface {
	// Summary returns the user and per-assistant history.
	// Returns domain.ErrAuthRequired when signed out.
	Summary(ctx context.Context) (*domain.DashboardSummary, error)
}
