package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nurpe/marketplace-payments/internal/model"
)

type ProfileService struct {
	repo ProfileRepository
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// ResolveProfile maps a caller-supplied profile id to the stored profile.
func (s *ProfileService) ResolveProfile(ctx context.Context, id int64) (*model.Profile, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	profile, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	return s.repo.ListProfiles(ctx)
}
