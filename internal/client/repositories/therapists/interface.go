package therapists

import (
	"context"

	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/livequery"
)

const Table = "therapists"

type Repository interface {
	Insert(ctx context.Context, th *models.Therapist) (int64, error)
	InsertAll(ctx context.Context, list []models.Therapist) error
	Update(ctx context.Context, th *models.Therapist) error
	Delete(ctx context.Context, th *models.Therapist) error
	DeleteAll(ctx context.Context) error
	GetByID(ctx context.Context, id int64) (*models.Therapist, error)
	Count(ctx context.Context) (int, error)

	WatchAll(ctx context.Context) (*livequery.Subscription[[]models.Therapist], error)
}
