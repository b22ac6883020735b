package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/mhst/internal/common"
	"github.com/dmitrijs2005/mhst/internal/server/models"
)

// MemoryRepository keeps accounts in a map. It is used when the server runs
// without a database and in tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.Account
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.Account),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[account.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	if _, ok := r.byID[account.ID]; ok {
		return nil, common.ErrAlreadyExists
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	stored := *account
	r.byID[account.ID] = &stored
	r.byEmail[account.Email] = account.ID

	return account, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return r.copyOf(id), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.byID[id]; !ok {
		return nil, common.ErrNotFound
	}
	return r.copyOf(id), nil
}

// SetDisabled flips the disabled flag of an account.
func (r *MemoryRepository) SetDisabled(id string, disabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	a.Disabled = disabled
	return nil
}

// callers hold r.mu
func (r *MemoryRepository) copyOf(id string) *models.Account {
	a := *r.byID[id]
	return &a
}
