package therapists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/dbx"
	"github.com/dmitrijs2005/mhst/internal/livequery"
	"github.com/jmoiron/sqlx"
)

const columns = `therapist_id, name, specialization, phone, email, location, availability, image_url`

type SQLiteRepository struct {
	db     dbx.DBTX
	hub    *livequery.Hub
	notify livequery.Notifier
}

func NewSQLiteRepository(db dbx.DBTX, hub *livequery.Hub) *SQLiteRepository {
	return &SQLiteRepository{db: db, hub: hub, notify: hub}
}

// InTx returns a copy that writes through tx and reports changes to n.
func (r *SQLiteRepository) InTx(tx dbx.DBTX, n livequery.Notifier) *SQLiteRepository {
	return &SQLiteRepository{db: tx, hub: r.hub, notify: n}
}

func (r *SQLiteRepository) Insert(ctx context.Context, th *models.Therapist) (int64, error) {
	id, err := upsert(ctx, r.db, th)
	if err != nil {
		return 0, err
	}
	r.notify.Notify(Table)
	return id, nil
}

func (r *SQLiteRepository) InsertAll(ctx context.Context, list []models.Therapist) error {
	if len(list) == 0 {
		return nil
	}

	write := func(ctx context.Context, tx dbx.DBTX) error {
		for i := range list {
			if _, err := upsert(ctx, tx, &list[i]); err != nil {
				return err
			}
		}
		return nil
	}

	if db, ok := r.db.(*sqlx.DB); ok {
		if err := dbx.WithTx(ctx, db, nil, write); err != nil {
			return err
		}
	} else if err := write(ctx, r.db); err != nil {
		return err
	}

	r.notify.Notify(Table)
	return nil
}

func upsert(ctx context.Context, db dbx.DBTX, th *models.Therapist) (int64, error) {
	query := `INSERT INTO therapists (therapist_id, name, specialization, phone, email, location, availability, image_url)
		VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(therapist_id) DO UPDATE SET name = excluded.name,
			specialization = excluded.specialization,
			phone = excluded.phone,
			email = excluded.email,
			location = excluded.location,
			availability = excluded.availability,
			image_url = excluded.image_url
		RETURNING therapist_id`

	var id int64
	err := db.GetContext(ctx, &id, query,
		th.ID, th.Name, th.Specialization, th.Phone, th.Email, th.Location, th.Availability, th.ImageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert therapist: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, th *models.Therapist) error {
	query := `UPDATE therapists SET name = ?, specialization = ?, phone = ?, email = ?,
			location = ?, availability = ?, image_url = ?
		WHERE therapist_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		th.Name, th.Specialization, th.Phone, th.Email, th.Location, th.Availability, th.ImageURL, th.ID)
	if err != nil {
		return fmt.Errorf("failed to update therapist %d: %w", th.ID, err)
	}
	r.notifyIfChanged(res)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, th *models.Therapist) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM therapists WHERE therapist_id = ?`, th.ID)
	if err != nil {
		return fmt.Errorf("failed to delete therapist %d: %w", th.ID, err)
	}
	r.notifyIfChanged(res)
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM therapists`)
	if err != nil {
		return fmt.Errorf("failed to delete therapists: %w", err)
	}
	r.notifyIfChanged(res)
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Therapist, error) {
	var th models.Therapist
	err := r.db.GetContext(ctx, &th, `SELECT `+columns+` FROM therapists WHERE therapist_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get therapist %d: %w", id, err)
	}
	return &th, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM therapists`); err != nil {
		return 0, fmt.Errorf("failed to count therapists: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) WatchAll(ctx context.Context) (*livequery.Subscription[[]models.Therapist], error) {
	return livequery.Watch(ctx, r.hub, "therapists:all", []string{Table}, func(ctx context.Context) ([]models.Therapist, error) {
		result := []models.Therapist{}
		query := `SELECT ` + columns + ` FROM therapists ORDER BY name ASC, therapist_id ASC`
		if err := r.db.SelectContext(ctx, &result, query); err != nil {
			return nil, fmt.Errorf("failed to select therapists: %w", err)
		}
		return result, nil
	})
}

func (r *SQLiteRepository) notifyIfChanged(res sql.Result) {
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return
	}
	r.notify.Notify(Table)
}
