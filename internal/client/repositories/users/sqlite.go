package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/common"
	"github.com/dmitrijs2005/mhst/internal/dbx"
	"github.com/dmitrijs2005/mhst/internal/livequery"
)

const columns = `user_id, name, email, password, registration_date`

// SQLiteRepository implements Repository over a DBTX (either *sqlx.DB or *sqlx.Tx).
type SQLiteRepository struct {
	db     dbx.DBTX
	hub    *livequery.Hub
	notify livequery.Notifier
}

// NewSQLiteRepository binds the repository to db; writes are announced on hub.
func NewSQLiteRepository(db dbx.DBTX, hub *livequery.Hub) *SQLiteRepository {
	return &SQLiteRepository{db: db, hub: hub, notify: hub}
}

// InTx returns a copy that writes through tx and reports changes to n,
// typically a livequery.Batch flushed after commit.
func (r *SQLiteRepository) InTx(tx dbx.DBTX, n livequery.Notifier) *SQLiteRepository {
	return &SQLiteRepository{db: tx, hub: r.hub, notify: n}
}

func (r *SQLiteRepository) Insert(ctx context.Context, u *models.User) (int64, error) {
	query := `INSERT INTO users (user_id, name, email, password, registration_date)
		VALUES (NULLIF(?, 0), ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET name = excluded.name,
			email = excluded.email,
			password = excluded.password,
			registration_date = excluded.registration_date
		RETURNING user_id`

	var id int64
	err := r.db.GetContext(ctx, &id, query, u.ID, u.Name, u.Email, u.Password, u.RegistrationDate)
	if dbx.IsUniqueViolation(err) {
		return 0, fmt.Errorf("failed to insert user %s: %w", u.Email, common.ErrAlreadyExists)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	r.notify.Notify(Table)
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, u *models.User) error {
	query := `UPDATE users SET name = ?, email = ?, password = ?, registration_date = ? WHERE user_id = ?`
	res, err := r.db.ExecContext(ctx, query, u.Name, u.Email, u.Password, u.RegistrationDate, u.ID)
	if dbx.IsUniqueViolation(err) {
		return fmt.Errorf("failed to update user %d: %w", u.ID, common.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", u.ID, err)
	}
	r.notifyIfChanged(res)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, u *models.User) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, u.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", u.ID, err)
	}
	r.notifyIfChanged(res)
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+columns+` FROM users WHERE user_id = ?`, id)
}

func (r *SQLiteRepository) Login(ctx context.Context, email, password string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+columns+` FROM users WHERE email = ? AND password = ? LIMIT 1`, email, password)
}

func (r *SQLiteRepository) CountByEmail(ctx context.Context, email string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE email = ?`, email); err != nil {
		return 0, fmt.Errorf("failed to count users by email: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) WatchByID(ctx context.Context, id int64) (*livequery.Subscription[*models.User], error) {
	key := fmt.Sprintf("users:id:%d", id)
	return livequery.Watch(ctx, r.hub, key, []string{Table}, func(ctx context.Context) (*models.User, error) {
		return r.GetByID(ctx, id)
	})
}

func (r *SQLiteRepository) WatchAll(ctx context.Context) (*livequery.Subscription[[]models.User], error) {
	return livequery.Watch(ctx, r.hub, "users:all", []string{Table}, r.all)
}

func (r *SQLiteRepository) all(ctx context.Context) ([]models.User, error) {
	result := []models.User{}
	if err := r.db.SelectContext(ctx, &result, `SELECT `+columns+` FROM users ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *SQLiteRepository) notifyIfChanged(res sql.Result) {
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return
	}
	r.notify.Notify(Table)
}
