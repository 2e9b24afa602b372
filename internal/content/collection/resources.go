package collection

import (
	"go.uber.org/zap"

	"github.com/codeharbor/portfolio/internal/content/domain"
	"github.com/codeharbor/portfolio/internal/content/service"
)

type (
	Articles     = Collection[domain.Article, domain.ArticlePayload]
	ProjectItems = Collection[domain.ProjectItem, domain.ProjectItemPayload]
)

func NewArticles(svc service.ArticleService, logger *zap.Logger) *Articles {
	return New[domain.Article, domain.ArticlePayload]("articles", svc, logger)
}

func NewProjectItems(svc service.ProjectItemService, logger *zap.Logger) *ProjectItems {
	return New[domain.ProjectItem, domain.ProjectItemPayload]("project_items", svc, logger)
}
