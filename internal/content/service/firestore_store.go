package service

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/codeharbor/portfolio/internal/content/domain"
)

const (
	articlesCollection     = "articles"
	projectItemsCollection = "projectItems"
)

// ArticleStore implements ArticleService directly on Firestore documents.
// Pictures cannot be uploaded through this backend.
type ArticleStore struct {
	fs *firestore.Client
}

func NewArticleStore(fs *firestore.Client) *ArticleStore {
	return &ArticleStore{fs: fs}
}

func (s *ArticleStore) List(ctx context.Context) ([]domain.Article, error) {
	out := []domain.Article{}
	err := eachDocument(ctx, s.fs.Collection(articlesCollection), func(doc *firestore.DocumentSnapshot) error {
		var a domain.Article
		if err := doc.DataTo(&a); err != nil {
			return fmt.Errorf("decode article %s: %w", doc.Ref.ID, err)
		}
		a.ID = doc.Ref.ID
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ArticleStore) Get(ctx context.Context, id string) (*domain.Article, error) {
	doc, err := s.fs.Collection(articlesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err)
	}
	var a domain.Article
	if err := doc.DataTo(&a); err != nil {
		return nil, fmt.Errorf("decode article %s: %w", id, err)
	}
	a.ID = doc.Ref.ID
	return &a, nil
}

func (s *ArticleStore) Create(ctx context.Context, payload domain.ArticlePayload) error {
	if payload.Picture != nil {
		return domain.ErrPictureUnsupported
	}
	fields := articleFields(payload)
	fields["createdAt"] = firestore.ServerTimestamp
	_, _, err := s.fs.Collection(articlesCollection).Add(ctx, fields)
	return err
}

func (s *ArticleStore) Update(ctx context.Context, id string, payload domain.ArticlePayload) error {
	if payload.Picture != nil {
		return domain.ErrPictureUnsupported
	}
	_, err := s.fs.Collection(articlesCollection).Doc(id).Update(ctx, toUpdates(articleFields(payload)))
	return mapFirestoreError(err)
}

func (s *ArticleStore) Delete(ctx context.Context, id string) error {
	_, err := s.fs.Collection(articlesCollection).Doc(id).Delete(ctx, firestore.Exists)
	return mapFirestoreError(err)
}

// ProjectItemStore implements ProjectItemService directly on Firestore documents.
type ProjectItemStore struct {
	fs *firestore.Client
}

func NewProjectItemStore(fs *firestore.Client) *ProjectItemStore {
	return &ProjectItemStore{fs: fs}
}

func (s *ProjectItemStore) List(ctx context.Context) ([]domain.ProjectItem, error) {
	out := []domain.ProjectItem{}
	err := eachDocument(ctx, s.fs.Collection(projectItemsCollection), func(doc *firestore.DocumentSnapshot) error {
		var p domain.ProjectItem
		if err := doc.DataTo(&p); err != nil {
			return fmt.Errorf("decode project item %s: %w", doc.Ref.ID, err)
		}
		p.ID = doc.Ref.ID
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProjectItemStore) Get(ctx context.Context, id string) (*domain.ProjectItem, error) {
	doc, err := s.fs.Collection(projectItemsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err)
	}
	var p domain.ProjectItem
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode project item %s: %w", id, err)
	}
	p.ID = doc.Ref.ID
	return &p, nil
}

func (s *ProjectItemStore) Create(ctx context.Context, payload domain.ProjectItemPayload) error {
	if payload.Picture != nil {
		return domain.ErrPictureUnsupported
	}
	fields := projectItemFields(payload)
	fields["createdAt"] = firestore.ServerTimestamp
	_, _, err := s.fs.Collection(projectItemsCollection).Add(ctx, fields)
	return err
}

func (s *ProjectItemStore) Update(ctx context.Context, id string, payload domain.ProjectItemPayload) error {
	if payload.Picture != nil {
		return domain.ErrPictureUnsupported
	}
	fields := projectItemFields(payload)
	if payload.DemoLink == "" {
		fields["demoLink"] = firestore.Delete
	}
	_, err := s.fs.Collection(projectItemsCollection).Doc(id).Update(ctx, toUpdates(fields))
	return mapFirestoreError(err)
}

func (s *ProjectItemStore) Delete(ctx context.Context, id string) error {
	_, err := s.fs.Collection(projectItemsCollection).Doc(id).Delete(ctx, firestore.Exists)
	return mapFirestoreError(err)
}

func articleFields(p domain.ArticlePayload) map[string]interface{} {
	return map[string]interface{}{
		"title":       p.Title,
		"description": p.Description,
		"hyperlink":   p.Hyperlink,
		"altText":     p.AltText,
	}
}

// projectItemFields mirrors the REST form: an empty demo link is left out
// rather than stored as "".
func projectItemFields(p domain.ProjectItemPayload) map[string]interface{} {
	fields := map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
	}
	if p.DemoLink != "" {
		fields["demoLink"] = p.DemoLink
	}
	return fields
}

func toUpdates(fields map[string]interface{}) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	return updates
}

func eachDocument(ctx context.Context, col *firestore.CollectionRef, fn func(*firestore.DocumentSnapshot) error) error {
	iter := col.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
}

func mapFirestoreError(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	return err
}
