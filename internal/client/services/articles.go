package services

import (
	"context"

	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/client/repositories/articles"
	"github.com/dmitrijs2005/mhst/internal/common"
	"github.com/dmitrijs2005/mhst/internal/livequery"
)

// ImageResolver turns a stored image reference into a fetchable URL.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

type ArticleService struct {
	repo   articles.Repository
	images ImageResolver
}

func NewArticleService(repo articles.Repository, images ImageResolver) *ArticleService {
	return &ArticleService{repo: repo, images: images}
}

// WatchAll streams every article, newest first.
func (s *ArticleService) WatchAll(ctx context.Context) (*livequery.Subscription[[]models.Article], error) {
	return s.repo.WatchAll(ctx)
}

// WatchByCategory streams the articles of one category, newest first.
// common.AllCategories selects every article.
func (s *ArticleService) WatchByCategory(ctx context.Context, category string) (*livequery.Subscription[[]models.Article], error) {
	if category == common.AllCategories {
		return s.repo.WatchAll(ctx)
	}
	return s.repo.WatchByCategory(ctx, category)
}

func (s *ArticleService) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ArticleService) Insert(ctx context.Context, a *models.Article) (int64, error) {
	return s.repo.Insert(ctx, a)
}

// Categories returns the filter choices: common.AllCategories followed by
// every stored category.
func (s *ArticleService) Categories(ctx context.Context) ([]string, error) {
	list, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{common.AllCategories}, list...), nil
}

func (s *ArticleService) ImageURL(ctx context.Context, a *models.Article) (string, error) {
	if s.images == nil {
		return a.ImageRef, nil
	}
	return s.images.Resolve(ctx, a.ImageRef)
}
