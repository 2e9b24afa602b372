package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/codeharbor/portfolio/internal/apiclient"
	"github.com/codeharbor/portfolio/internal/content/domain"
)

const projectItemsPath = "/ProjectItems"

// ProjectItemAPI implements ProjectItemService against the REST content API.
type ProjectItemAPI struct {
	client *apiclient.Client
}

func NewProjectItemAPI(client *apiclient.Client) *ProjectItemAPI {
	return &ProjectItemAPI{client: client}
}

func (s *ProjectItemAPI) List(ctx context.Context) ([]domain.ProjectItem, error) {
	var out []domain.ProjectItem
	if err := s.client.GetJSON(ctx, projectItemsPath, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.ProjectItem{}
	}
	return out, nil
}

func (s *ProjectItemAPI) Get(ctx context.Context, id string) (*domain.ProjectItem, error) {
	var out domain.ProjectItem
	if err := s.client.GetJSON(ctx, projectItemPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProjectItemAPI) Create(ctx context.Context, payload domain.ProjectItemPayload) error {
	body, contentType, err := encodeProjectItem(payload)
	if err != nil {
		return err
	}
	return s.client.Send(ctx, http.MethodPost, projectItemsPath, body, contentType)
}

func (s *ProjectItemAPI) Update(ctx context.Context, id string, payload domain.ProjectItemPayload) error {
	body, contentType, err := encodeProjectItem(payload)
	if err != nil {
		return err
	}
	return s.client.Send(ctx, http.MethodPut, projectItemPath(id), body, contentType)
}

func (s *ProjectItemAPI) Delete(ctx context.Context, id string) error {
	return s.client.Send(ctx, http.MethodDelete, projectItemPath(id), nil, "")
}

func projectItemPath(id string) string {
	return projectItemsPath + "/" + url.PathEscape(id)
}
