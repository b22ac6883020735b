package users

import (
	"context"

	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/livequery"
)

// Table is the table name used for change notifications.
const Table = "users"

type Repository interface {
	// Insert upserts u and returns its id.
	Insert(ctx context.Context, u *models.User) (int64, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Login returns the user whose email and password both match exactly.
	Login(ctx context.Context, email, password string) (*models.User, error)
	CountByEmail(ctx context.Context, email string) (int, error)

	WatchByID(ctx context.Context, id int64) (*livequery.Subscription[*models.User], error)
	WatchAll(ctx context.Context) (*livequery.Subscription[[]models.User], error)
}
