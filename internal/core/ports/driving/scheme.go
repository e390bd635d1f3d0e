package driving

import (
	"context"

	"github.com/custodia-labs/vfw-cli/internal/core/domain"
)

// SchemeService recommends government schemes.
type SchemeService interface {
	// Recommend submits a profile and returns matching schemes.
	Recommend(ctx context.Context, profile domain.SchemeProfile) ([]domain.SchemeRecommendation, error)
}
