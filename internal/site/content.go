package site

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codeharbor/portfolio/internal/content/collection"
	"github.com/codeharbor/portfolio/internal/content/domain"
	"github.com/codeharbor/portfolio/internal/imageurl"
)

// ListResponse mirrors what the list pages render from a collection.
type ListResponse struct {
	Status  collection.Status `json:"status"`
	Items   []any             `json:"items"`
	Error   string            `json:"error,omitempty"`
	CanEdit bool              `json:"canEdit"`
}

type ArticleView struct {
	domain.Article
	ImageURL string `json:"imageUrl"`
}

type ProjectItemView struct {
	domain.ProjectItem
	ImageURL string `json:"imageUrl"`
}

// resource serves one collection under a route group.
type resource[T any, P collection.Payload] struct {
	items  *collection.Collection[T, P]
	decode func(c *gin.Context) (P, func(), error)
	view   func(T) any
	order  func([]T) []T
}

func (r *resource[T, P]) register(g *gin.RouterGroup) {
	g.GET("", r.list)
	g.GET("/:id", r.get)

	edit := g.Group("", RequireSession())
	edit.POST("", r.create)
	edit.PUT("/:id", r.update)
	edit.DELETE("/:id", r.remove)
}

// list refetches on every request; a failure is reported through the
// snapshot with the previous items kept.
func (r *resource[T, P]) list(c *gin.Context) {
	_ = r.items.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, r.listResponse(c))
}

func (r *resource[T, P]) listResponse(c *gin.Context) ListResponse {
	snap := r.items.Snapshot()
	items := snap.Items
	if r.order != nil {
		items = r.order(items)
	}

	resp := ListResponse{
		Status:  snap.Status,
		Items:   make([]any, 0, len(items)),
		CanEdit: isAuthenticated(c),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, r.view(item))
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	return resp
}

func (r *resource[T, P]) get(c *gin.Context) {
	item, err := r.items.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.view(*item))
}

func (r *resource[T, P]) create(c *gin.Context) {
	payload, release, err := r.decode(c)
	if err != nil {
		writeError(c, err)
		return
	}
	defer release()
	if err := r.items.Create(c.Request.Context(), payload); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r.listResponse(c))
}

func (r *resource[T, P]) update(c *gin.Context) {
	payload, release, err := r.decode(c)
	if err != nil {
		writeError(c, err)
		return
	}
	defer release()
	if err := r.items.Update(c.Request.Context(), c.Param("id"), payload); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.listResponse(c))
}

func (r *resource[T, P]) remove(c *gin.Context) {
	if err := r.items.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func articleResource(items *collection.Articles, images imageurl.Resolver) *resource[domain.Article, domain.ArticlePayload] {
	return &resource[domain.Article, domain.ArticlePayload]{
		items:  items,
		decode: decodeArticle,
		view: func(a domain.Article) any {
			return ArticleView{Article: a, ImageURL: images.Resolve(a.PictureURL)}
		},
	}
}

func projectItemResource(items *collection.ProjectItems, images imageurl.Resolver) *resource[domain.ProjectItem, domain.ProjectItemPayload] {
	return &resource[domain.ProjectItem, domain.ProjectItemPayload]{
		items:  items,
		decode: decodeProjectItem,
		view: func(p domain.ProjectItem) any {
			return ProjectItemView{ProjectItem: p, ImageURL: images.Resolve(p.PictureURL)}
		},
		order: domain.SortNewestFirst,
	}
}

// Form field names match the content API's multipart contract.

func decodeArticle(c *gin.Context) (domain.ArticlePayload, func(), error) {
	picture, release, err := formPicture(c)
	if err != nil {
		return domain.ArticlePayload{}, nil, err
	}
	return domain.ArticlePayload{
		Title:       c.PostForm("Title"),
		Description: c.PostForm("Description"),
		Hyperlink:   c.PostForm("Hyperlink"),
		AltText:     c.PostForm("AltText"),
		Picture:     picture,
	}, release, nil
}

func decodeProjectItem(c *gin.Context) (domain.ProjectItemPayload, func(), error) {
	var price float64
	if raw := strings.TrimSpace(c.PostForm("Price")); raw != "" {
		var err error
		price, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.ProjectItemPayload{}, nil, &domain.ValidationError{
				Fields: map[string]string{"Price": "must be a number"},
			}
		}
	}

	picture, release, err := formPicture(c)
	if err != nil {
		return domain.ProjectItemPayload{}, nil, err
	}
	return domain.ProjectItemPayload{
		Name:        c.PostForm("Name"),
		Description: c.PostForm("Description"),
		DemoLink:    c.PostForm("DemoLink"),
		Price:       price,
		Picture:     picture,
	}, release, nil
}

// formPicture opens the optional Picture part. release closes it.
func formPicture(c *gin.Context) (*domain.File, func(), error) {
	header, err := c.FormFile("Picture")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read picture: %v", errBadForm, err)
	}
	return openPicture(header)
}

func openPicture(header *multipart.FileHeader) (*domain.File, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open picture: %v", errBadForm, err)
	}
	return &domain.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     f,
	}, func() { f.Close() }, nil
}
