package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nexo/internal/client/client"
	"github.com/dmitrijs2005/nexo/internal/client/models"
	"github.com/dmitrijs2005/nexo/internal/logging"
)

// OnboardingService fetches onboarding progress and saves the profile.
type OnboardingService struct {
	client client.Client
	log    logging.Logger
}

func NewOnboardingService(c client.Client, log logging.Logger) *OnboardingService {
	if log == nil {
		log = logging.Nop()
	}
	return &OnboardingService{client: c, log: log.With("component", "onboarding")}
}

func (s *OnboardingService) Status(ctx context.Context) (*models.OnboardingStatus, error) {
	st, err := s.client.OnboardingStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("onboarding status: %w", err)
	}
	return st, nil
}

// SaveProfile creates the profile, or updates it when the server reports
// that one already exists.
func (s *OnboardingService) SaveProfile(ctx context.Context, p models.OnboardingProfile) error {
	err := s.client.CreateOnboardingProfile(ctx, p)
	if errors.Is(err, client.ErrConflict) {
		s.log.Debug(ctx, "profile exists, updating")
		err = s.client.UpdateOnboardingProfile(ctx, p)
	}
	if err != nil {
		return fmt.Errorf("save onboarding profile: %w", err)
	}
	return nil
}
