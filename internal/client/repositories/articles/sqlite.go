package articles

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

const columns = `article_id, title, description, category, content, image_ref`

// SQLiteRepository implements Repository over a DBTX.
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

func (r *SQLiteRepository) Insert(ctx context.Context, a *models.Article) (int64, error) {
	id, err := r.upsert(ctx, r.db, a)
	if err != nil {
		return 0, err
	}
	r.notify.Notify(Table)
	return id, nil
}

func (r *SQLiteRepository) InsertAll(ctx context.Context, list []models.Article) error {
	if len(list) == 0 {
		return nil
	}

	write := func(ctx context.Context, tx dbx.DBTX) error {
		for i := range list {
			if _, err := r.upsert(ctx, tx, &list[i]); err != nil {
				return err
			}
		}
		return nil
	}

	// Outside a transaction open one so the batch is all-or-nothing.
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

func (r *SQLiteRepository) upsert(ctx context.Context, db dbx.DBTX, a *models.Article) (int64, error) {
	query := `INSERT INTO articles (article_id, title, description, category, content, image_ref)
		VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?)
		ON CONFLICT(article_id) DO UPDATE SET title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			content = excluded.content,
			image_ref = excluded.image_ref
		RETURNING article_id`

	var id int64
	if err := db.GetContext(ctx, &id, query, a.ID, a.Title, a.Description, a.Category, a.Content, a.ImageRef); err != nil {
		return 0, fmt.Errorf("failed to upsert article: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, a *models.Article) error {
	query := `UPDATE articles SET title = ?, description = ?, category = ?, content = ?, image_ref = ?
		WHERE article_id = ?`
	res, err := r.db.ExecContext(ctx, query, a.Title, a.Description, a.Category, a.Content, a.ImageRef, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update article %d: %w", a.ID, err)
	}
	r.notifyIfChanged(res)
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, a *models.Article) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE article_id = ?`, a.ID)
	if err != nil {
		return fmt.Errorf("failed to delete article %d: %w", a.ID, err)
	}
	r.notifyIfChanged(res)
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	var a models.Article
	err := r.db.GetContext(ctx, &a, `SELECT `+columns+` FROM articles WHERE article_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article %d: %w", id, err)
	}
	return &a, nil
}

func (r *SQLiteRepository) Categories(ctx context.Context) ([]string, error) {
	result := []string{}
	if err := r.db.SelectContext(ctx, &result, `SELECT DISTINCT category FROM articles ORDER BY category`); err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) WatchAll(ctx context.Context) (*livequery.Subscription[[]models.Article], error) {
	return livequery.Watch(ctx, r.hub, "articles:all", []string{Table}, func(ctx context.Context) ([]models.Article, error) {
		return r.list(ctx, `SELECT `+columns+` FROM articles ORDER BY article_id DESC`)
	})
}

func (r *SQLiteRepository) WatchByCategory(ctx context.Context, category string) (*livequery.Subscription[[]models.Article], error) {
	return livequery.Watch(ctx, r.hub, "articles:category:"+category, []string{Table}, func(ctx context.Context) ([]models.Article, error) {
		return r.list(ctx, `SELECT `+columns+` FROM articles WHERE category = ? ORDER BY article_id DESC`, category)
	})
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Article, error) {
	result := []models.Article{}
	if err := r.db.SelectContext(ctx, &result, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select articles: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) notifyIfChanged(res sql.Result) {
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return
	}
	r.notify.Notify(Table)
}
