package services

import (
	"context"

	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/client/repositories/therapists"
	"github.com/dmitrijs2005/mhst/internal/livequery"
)

type TherapistService struct {
	repo   therapists.Repository
	images ImageResolver
}

func NewTherapistService(repo therapists.Repository, images ImageResolver) *TherapistService {
	return &TherapistService{repo: repo, images: images}
}

// WatchAll streams the directory ordered by name.
func (s *TherapistService) WatchAll(ctx context.Context) (*livequery.Subscription[[]models.Therapist], error) {
	return s.repo.WatchAll(ctx)
}

func (s *TherapistService) GetByID(ctx context.Context, id int64) (*models.Therapist, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TherapistService) Insert(ctx context.Context, th *models.Therapist) (int64, error) {
	return s.repo.Insert(ctx, th)
}

func (s *TherapistService) Update(ctx context.Context, th *models.Therapist) error {
	return s.repo.Update(ctx, th)
}

func (s *TherapistService) Delete(ctx context.Context, th *models.Therapist) error {
	return s.repo.Delete(ctx, th)
}

func (s *TherapistService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ImageURL returns "" for therapists without a photo.
func (s *TherapistService) ImageURL(ctx context.Context, th *models.Therapist) (string, error) {
	if th.ImageURL == nil {
		return "", nil
	}
	if s.images == nil {
		return *th.ImageURL, nil
	}
	return s.images.Resolve(ctx, *th.ImageURL)
}
