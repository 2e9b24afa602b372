// Package contenttest provides an in-memory content API for tests.
package contenttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codeharbor/portfolio/internal/content/domain"
)

// Backend mimics the REST content API: /Articles and /ProjectItems with
// multipart create/update bodies.
type Backend struct {
	// Token, when set, is required as a bearer token on mutating requests.
	Token string

	mu       sync.Mutex
	articles []domain.Article
	projects []domain.ProjectItem
	requests []Request
	now      func() time.Time
}

// Request records what the backend received.
type Request struct {
	Method        string
	Path          string
	Authorization string
	Fields        map[string]string
	FileName      string
	FileType      string
	FileBody      string
}

func NewBackend() *Backend {
	return &Backend{now: time.Now}
}

// NewServer starts an httptest server around a fresh Backend.
func NewServer(t testing.TB) (*httptest.Server, *Backend) {
	t.Helper()
	b := NewBackend()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return srv, b
}

// Requests returns a copy of everything received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// SeedArticles replaces the stored articles.
func (b *Backend) SeedArticles(items ...domain.Article) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.articles = append([]domain.Article(nil), items...)
}

// SeedProjectItems replaces the stored project items.
func (b *Backend) SeedProjectItems(items ...domain.ProjectItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projects = append([]domain.ProjectItem(nil), items...)
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
	}
	if r.Method == http.MethodPost || r.Method == http.MethodPut {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
			return
		}
		rec.Fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			rec.Fields[k] = v[0]
		}
		if files := r.MultipartForm.File["Picture"]; len(files) > 0 {
			rec.FileName = files[0].Filename
			rec.FileType = files[0].Header.Get("Content-Type")
			if f, err := files[0].Open(); err == nil {
				raw, _ := io.ReadAll(f)
				f.Close()
				rec.FileBody = string(raw)
			}
		}
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	b.mu.Unlock()

	if r.Method != http.MethodGet && b.Token != "" && rec.Authorization != "Bearer "+b.Token {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// tolerate an /api prefix
	if len(parts) > 0 && parts[0] == "api" {
		parts = parts[1:]
	}
	if len(parts) == 0 {
		http.NotFound(w, r)
		return
	}

	var id string
	if len(parts) > 1 {
		id = parts[1]
	}

	switch parts[0] {
	case "Articles":
		b.serveArticles(w, r.Method, id, rec)
	case "ProjectItems":
		b.serveProjects(w, r.Method, id, rec)
	default:
		http.NotFound(w, r)
	}
}

func (b *Backend) serveArticles(w http.ResponseWriter, method, id string, rec Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := -1
	for i, a := range b.articles {
		if a.ID == id {
			idx = i
		}
	}

	switch {
	case method == http.MethodGet && id == "":
		writeJSON(w, http.StatusOK, b.articles)
	case method == http.MethodGet:
		if idx < 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, b.articles[idx])
	case method == http.MethodPost && id == "":
		a := articleFrom(rec)
		a.ID = uuid.NewString()
		b.articles = append(b.articles, a)
		writeJSON(w, http.StatusCreated, a)
	case method == http.MethodPut && id != "":
		if idx < 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		a := articleFrom(rec)
		a.ID = id
		if a.PictureURL == "" {
			a.PictureURL = b.articles[idx].PictureURL
		}
		b.articles[idx] = a
		w.WriteHeader(http.StatusNoContent)
	case method == http.MethodDelete && id != "":
		if idx < 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		b.articles = append(b.articles[:idx], b.articles[idx+1:]...)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *Backend) serveProjects(w http.ResponseWriter, method, id string, rec Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := -1
	for i, p := range b.projects {
		if p.ID == id {
			idx = i
		}
	}

	switch {
	case method == http.MethodGet && id == "":
		writeJSON(w, http.StatusOK, b.projects)
	case method == http.MethodGet:
		if idx < 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, b.projects[idx])
	case method == http.MethodPost && id == "":
		p, ok := projectFrom(rec)
		if !ok {
			http.Error(w, "invalid price", http.StatusBadRequest)
			return
		}
		p.ID = uuid.NewString()
		p.CreatedAt = b.now().UTC()
		b.projects = append(b.projects, p)
		writeJSON(w, http.StatusCreated, p)
	case method == http.MethodPut && id != "":
		if idx < 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		p, ok := projectFrom(rec)
		if !ok {
			http.Error(w, "invalid price", http.StatusBadRequest)
			return
		}
		p.ID = id
		p.CreatedAt = b.projects[idx].CreatedAt
		if p.PictureURL == "" {
			p.PictureURL = b.projects[idx].PictureURL
		}
		b.projects[idx] = p
		w.WriteHeader(http.StatusNoContent)
	case method == http.MethodDelete && id != "":
		if idx < 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		b.projects = append(b.projects[:idx], b.projects[idx+1:]...)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func articleFrom(rec Request) domain.Article {
	a := domain.Article{
		Title:       rec.Fields["Title"],
		Description: rec.Fields["Description"],
		Hyperlink:   rec.Fields["Hyperlink"],
		AltText:     rec.Fields["AltText"],
	}
	if rec.FileName != "" {
		a.PictureURL = "uploads/" + rec.FileName
	}
	return a
}

func projectFrom(rec Request) (domain.ProjectItem, bool) {
	price, err := strconv.ParseFloat(rec.Fields["Price"], 64)
	if err != nil {
		return domain.ProjectItem{}, false
	}
	p := domain.ProjectItem{
		Name:        rec.Fields["Name"],
		Description: rec.Fields["Description"],
		DemoLink:    rec.Fields["DemoLink"],
		Price:       price,
	}
	if rec.FileName != "" {
		p.PictureURL = "uploads/" + rec.FileName
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
