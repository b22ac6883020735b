// Package accounts stores identity server accounts, either in PostgreSQL or
// in process memory.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/mhst/internal/server/models"
)

// Repository persists accounts. Create fails with common.ErrAlreadyExists
// when the email is taken; lookups fail with common.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
}
