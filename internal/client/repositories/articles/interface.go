package articles

import (
	"context"

	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/livequery"
)

const Table = "articles"

type Repository interface {
	Insert(ctx context.Context, a *models.Article) (int64, error)
	// InsertAll upserts every article atomically.
	InsertAll(ctx context.Context, list []models.Article) error
	Update(ctx context.Context, a *models.Article) error
	Delete(ctx context.Context, a *models.Article) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	// Categories lists the distinct categories in ascending order.
	Categories(ctx context.Context) ([]string, error)

	WatchAll(ctx context.Context) (*livequery.Subscription[[]models.Article], error)
	WatchByCategory(ctx context.Context, category string) (*livequery.Subscription[[]models.Article], error)
}
