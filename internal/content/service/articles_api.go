package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/codeharbor/portfolio/internal/apiclient"
	"github.com/codeharbor/portfolio/internal/content/domain"
)

const articlesPath = "/Articles"

// ArticleAPI implements ArticleService against the REST content API.
type ArticleAPI struct {
	client *apiclient.Client
}

func NewArticleAPI(client *apiclient.Client) *ArticleAPI {
	return &ArticleAPI{client: client}
}

func (s *ArticleAPI) List(ctx context.Context) ([]domain.Article, error) {
	var out []domain.Article
	if err := s.client.GetJSON(ctx, articlesPath, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Article{}
	}
	return out, nil
}

func (s *ArticleAPI) Get(ctx context.Context, id string) (*domain.Article, error) {
	var out domain.Article
	if err := s.client.GetJSON(ctx, articlePath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ArticleAPI) Create(ctx context.Context, payload domain.ArticlePayload) error {
	body, contentType, err := encodeArticle(payload)
	if err != nil {
		return err
	}
	return s.client.Send(ctx, http.MethodPost, articlesPath, body, contentType)
}

func (s *ArticleAPI) Update(ctx context.Context, id string, payload domain.ArticlePayload) error {
	body, contentType, err := encodeArticle(payload)
	if err != nil {
		return err
	}
	return s.client.Send(ctx, http.MethodPut, articlePath(id), body, contentType)
}

func (s *ArticleAPI) Delete(ctx context.Context, id string) error {
	return s.client.Send(ctx, http.MethodDelete, articlePath(id), nil, "")
}

func articlePath(id string) string {
	return articlesPath + "/" + url.PathEscape(id)
}
