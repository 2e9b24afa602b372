package service

import (
	"context"

	"github.com/codeharbor/portfolio/internal/content/domain"
)

// ArticleService is the data access contract for articles. Implementations
// propagate backend errors unchanged.
type ArticleService interface {
	List(ctx context.Context) ([]domain.Article, error)
	Get(ctx context.Context, id string) (*domain.Article, error)
	Create(ctx context.Context, payload domain.ArticlePayload) error
	Update(ctx context.Context, id string, payload domain.ArticlePayload) error
	Delete(ctx context.Context, id string) error
}

// ProjectItemService is the data access contract for project items.
type ProjectItemService interface {
	List(ctx context.Context) ([]domain.ProjectItem, error)
	Get(ctx context.Context, id string) (*domain.ProjectItem, error)
	Create(ctx context.Context, payload domain.ProjectItemPayload) error
	Update(ctx context.Context, id string, payload domain.ProjectItemPayload) error
	Delete(ctx context.Context, id string) error
}
