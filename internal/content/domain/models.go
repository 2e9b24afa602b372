package domain

import (
	"io"
	"sort"
	"time"
)

// Article is a published article card as served by the content API.
type Article struct {
	ID          string `json:"id" firestore:"-" yaml:"id"`
	Title       string `json:"title" firestore:"title" yaml:"title"`
	Description string `json:"description" firestore:"description" yaml:"description"`
	Hyperlink   string `json:"hyperlink" firestore:"hyperlink" yaml:"hyperlink"`
	AltText     string `json:"altText" firestore:"altText" yaml:"altText"`
	PictureURL  string `json:"pictureUrl,omitempty" firestore:"pictureUrl,omitempty" yaml:"pictureUrl,omitempty"`
}

// ProjectItem is a portfolio entry with an optional live demo.
type ProjectItem struct {
	ID          string    `json:"id" firestore:"-" yaml:"id"`
	Name        string    `json:"name" firestore:"name" yaml:"name"`
	Description string    `json:"description" firestore:"description" yaml:"description"`
	DemoLink    string    `json:"demoLink,omitempty" firestore:"demoLink,omitempty" yaml:"demoLink,omitempty"`
	Price       float64   `json:"price" firestore:"price" yaml:"price"`
	PictureURL  string    `json:"pictureUrl,omitempty" firestore:"pictureUrl,omitempty" yaml:"pictureUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt" yaml:"createdAt"`
}

// File is an optional binary attachment sent as the Picture form field.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// ArticlePayload is the body of an article create or full replace.
type ArticlePayload struct {
	Title       string
	Description string
	Hyperlink   string
	AltText     string
	Picture     *File
}

// ProjectItemPayload is the body of a project item create or full replace.
type ProjectItemPayload struct {
	Name        string
	Description string
	DemoLink    string
	Price       float64
	Picture     *File
}

// SortNewestFirst orders items by CreatedAt descending, the order the
// projects page shows them in. The input slice is not modified.
func SortNewestFirst(items []ProjectItem) []ProjectItem {
	out := make([]ProjectItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
