package site

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeharbor/portfolio/internal/apiclient"
	"github.com/codeharbor/portfolio/internal/content/collection"
	"github.com/codeharbor/portfolio/internal/content/contenttest"
	"github.com/codeharbor/portfolio/internal/content/domain"
	"github.com/codeharbor/portfolio/internal/content/service"
	"github.com/codeharbor/portfolio/internal/imageurl"
	"github.com/codeharbor/portfolio/internal/session"
)

const backendToken = "owner-token"

type testSite struct {
	router   *gin.Engine
	backend  *contenttest.Backend
	articles *collection.Articles
	projects *collection.ProjectItems
}

func newTestSite(t *testing.T, apiURL string) *testSite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var backend *contenttest.Backend
	if apiURL == "" {
		var srv *httptest.Server
		srv, backend = contenttest.NewServer(t)
		backend.Token = backendToken
		apiURL = srv.URL + "/api"
	}

	client := apiclient.New(apiURL, session.RequestTokens{})
	articles := collection.NewArticles(service.NewArticleAPI(client), nil)
	projects := collection.NewProjectItems(service.NewProjectItemAPI(client), nil)
	t.Cleanup(articles.Close)
	t.Cleanup(projects.Close)

	router := BuildRouter(RouterDeps{
		ServiceName:  "portfolio-site",
		Version:      "test",
		CORSOrigins:  []string{"http://localhost:5173"},
		Articles:     articles,
		ProjectItems: projects,
		Images:       imageurl.Resolver{Origin: "http://localhost:5173", Base: "https://api.example.com"},
		Upstream:     client.Metrics,
	})

	return &testSite{router: router, backend: backend, articles: articles, projects: projects}
}

func (s *testSite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// asOwner attaches the owner's auth_token cookie to req.
func asOwner(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: backendToken})
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type listBody struct {
	Status  string           `json:"status"`
	Items   []map[string]any `json:"items"`
	Error   string           `json:"error"`
	CanEdit bool             `json:"canEdit"`
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) listBody {
	t.Helper()
	var body listBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, picture string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if picture != "" {
		fw, err := mw.CreateFormFile("Picture", picture)
		require.NoError(t, err)
		_, err = fw.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func mutations(reqs []contenttest.Request) []contenttest.Request {
	var out []contenttest.Request
	for _, r := range reqs {
		if r.Method != http.MethodGet {
			out = append(out, r)
		}
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestSite(t, "")

	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Request-Id", "rid-1")
		w := s.do(req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "rid-1", w.Header().Get("X-Request-Id"))

		var body HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "portfolio-site", body.Service)
		assert.Equal(t, "anonymous", body.Session)
		require.NotNil(t, body.Upstream)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	s := newTestSite(t, "")
	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestListArticles_LoadsOnFirstRequest(t *testing.T) {
	s := newTestSite(t, "")
	s.backend.SeedArticles(domain.Article{ID: "1", Title: "Hello", PictureURL: "uploads/a.png"})

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeList(t, w)
	assert.Equal(t, "loaded", body.Status)
	assert.False(t, body.CanEdit)
	assert.Empty(t, body.Error)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Hello", body.Items[0]["title"])
	assert.Equal(t, "uploads/a.png", body.Items[0]["pictureUrl"])
	assert.Equal(t, "https://api.example.com/uploads/a.png", body.Items[0]["imageUrl"])

	body = decodeList(t, s.do(asOwner(httptest.NewRequest(http.MethodGet, "/api/articles", nil))))
	assert.True(t, body.CanEdit)
}

func TestListProjects_NewestFirstWithPlaceholder(t *testing.T) {
	s := newTestSite(t, "")
	now := time.Now().UTC()
	s.backend.SeedProjectItems(
		domain.ProjectItem{ID: "old", Name: "Old", CreatedAt: now.Add(-48 * time.Hour)},
		domain.ProjectItem{ID: "new", Name: "New", CreatedAt: now},
		domain.ProjectItem{ID: "mid", Name: "Mid", CreatedAt: now.Add(-time.Hour)},
	)
	require.NoError(t, s.projects.Load(context.Background()))

	body := decodeList(t, s.do(httptest.NewRequest(http.MethodGet, "/api/projects", nil)))
	require.Len(t, body.Items, 3)
	assert.Equal(t, "new", body.Items[0]["id"])
	assert.Equal(t, "mid", body.Items[1]["id"])
	assert.Equal(t, "old", body.Items[2]["id"])
	assert.Equal(t, imageurl.Placeholder(), body.Items[0]["imageUrl"])
}

func TestListArticles_UpstreamFailureIsReported(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	s := newTestSite(t, upstream.URL)
	w := s.do(httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeList(t, w)
	assert.Equal(t, "error", body.Status)
	assert.Contains(t, body.Error, "status 500")
	assert.Empty(t, body.Items)
}

func TestListArticles_RefetchesEveryRequest(t *testing.T) {
	backend := contenttest.NewBackend()
	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusInternalServerError)
			return
		}
		backend.ServeHTTP(w, r)
	}))
	defer upstream.Close()

	s := newTestSite(t, upstream.URL+"/api")

	body := decodeList(t, s.do(httptest.NewRequest(http.MethodGet, "/api/articles", nil)))
	assert.Equal(t, "error", body.Status)

	backend.SeedArticles(domain.Article{ID: "a1", Title: "Back online"})
	body = decodeList(t, s.do(httptest.NewRequest(http.MethodGet, "/api/articles", nil)))
	assert.Equal(t, "loaded", body.Status)
	assert.Empty(t, body.Error)
	require.Len(t, body.Items, 1)

	backend.SeedArticles(
		domain.Article{ID: "a1", Title: "Back online"},
		domain.Article{ID: "a2", Title: "Written elsewhere"},
	)
	body = decodeList(t, s.do(httptest.NewRequest(http.MethodGet, "/api/articles", nil)))
	assert.Len(t, body.Items, 2)
	assert.Equal(t, int32(3), hits.Load())
}

func TestMutationsRequireSession(t *testing.T) {
	s := newTestSite(t, "")

	reqs := []*http.Request{
		multipartRequest(t, http.MethodPost, "/api/articles", map[string]string{"Title": "T"}, ""),
		multipartRequest(t, http.MethodPut, "/api/articles/1", map[string]string{"Title": "T"}, ""),
		httptest.NewRequest(http.MethodDelete, "/api/articles/1", nil),
		multipartRequest(t, http.MethodPost, "/api/projects", map[string]string{"Name": "N"}, ""),
		httptest.NewRequest(http.MethodDelete, "/api/projects/1", nil),
	}
	for _, req := range reqs {
		w := s.do(req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", req.Method, req.URL.Path)
	}
	assert.Empty(t, s.backend.Requests())
}

func TestCreateArticle(t *testing.T) {
	s := newTestSite(t, "")

	req := multipartRequest(t, http.MethodPost, "/api/articles", map[string]string{
		"Title":       "Go generics",
		"Description": "Notes on type parameters",
		"Hyperlink":   "https://blog.example.com/generics",
		"AltText":     "cover",
	}, "cover.png")
	w := s.do(asOwner(req))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeList(t, w)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Go generics", body.Items[0]["title"])
	assert.Equal(t, "https://api.example.com/uploads/cover.png", body.Items[0]["imageUrl"])

	sent := mutations(s.backend.Requests())
	require.Len(t, sent, 1)
	assert.Equal(t, "Bearer "+backendToken, sent[0].Authorization)
	assert.Equal(t, "cover.png", sent[0].FileName)
	assert.Equal(t, "png-bytes", sent[0].FileBody)
	assert.Equal(t, "cover", sent[0].Fields["AltText"])
}

func TestCreateArticle_ValidationFailsBeforeUpstream(t *testing.T) {
	s := newTestSite(t, "")

	w := s.do(asOwner(multipartRequest(t, http.MethodPost, "/api/articles", map[string]string{
		"Title":     "",
		"Hyperlink": "nope",
	}, "")))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Fields, "Title")
	assert.Contains(t, body.Fields, "Hyperlink")
	assert.Empty(t, s.backend.Requests())
}

func TestProjectItems_CreateUpdateDelete(t *testing.T) {
	s := newTestSite(t, "")

	w := s.do(asOwner(multipartRequest(t, http.MethodPost, "/api/projects", map[string]string{
		"Name":        "Portfolio",
		"Description": "Personal portfolio site",
		"Price":       "100",
	}, "")))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeList(t, w)
	require.Len(t, body.Items, 1)
	id, _ := body.Items[0]["id"].(string)
	require.NotEmpty(t, id)

	w = s.do(asOwner(multipartRequest(t, http.MethodPut, "/api/projects/"+id, map[string]string{
		"Name":        "Portfolio v2",
		"Description": "Personal portfolio site",
		"DemoLink":    "https://demo.example.com",
		"Price":       "150.5",
	}, "")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decodeList(t, w)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Portfolio v2", body.Items[0]["name"])
	assert.Equal(t, 150.5, body.Items[0]["price"])

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/projects/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://demo.example.com")

	w = s.do(asOwner(httptest.NewRequest(http.MethodDelete, "/api/projects/"+id, nil)))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, s.projects.Snapshot().Items)

	sent := mutations(s.backend.Requests())
	require.Len(t, sent, 3)
	_, hasDemo := sent[0].Fields["DemoLink"]
	assert.False(t, hasDemo)
	assert.Equal(t, "150.5", sent[1].Fields["Price"])
}

func TestProjectItems_InvalidPrice(t *testing.T) {
	s := newTestSite(t, "")

	for _, price := range []string{"ten", "Inf", "-Inf", "NaN"} {
		w := s.do(asOwner(multipartRequest(t, http.MethodPost, "/api/projects", map[string]string{
			"Name":        "Portfolio",
			"Description": "Personal portfolio site",
			"Price":       price,
		}, "")))
		assert.Equal(t, http.StatusBadRequest, w.Code, price)
		assert.Contains(t, w.Body.String(), "Price", price)
	}
	assert.Empty(t, s.backend.Requests())
}

func TestGetMissingPassesUpstreamStatus(t *testing.T) {
	s := newTestSite(t, "")
	w := s.do(httptest.NewRequest(http.MethodGet, "/api/articles/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpstreamRejectsToken(t *testing.T) {
	s := newTestSite(t, "")
	req := httptest.NewRequest(http.MethodDelete, "/api/articles/1", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "stale-token"})

	w := s.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	sent := mutations(s.backend.Requests())
	require.Len(t, sent, 1)
	assert.Equal(t, "Bearer stale-token", sent[0].Authorization)
}

func TestSessionEndpoints(t *testing.T) {
	s := newTestSite(t, "")

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/session", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	w = s.do(jsonRequest(http.MethodPost, "/api/session", `{"token":"  "}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Result().Cookies())

	w = s.do(jsonRequest(http.MethodPost, "/api/session", `{"token":"abc"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":true}`, w.Body.String())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	login := cookies[0]
	assert.Equal(t, session.CookieName, login.Name)
	assert.Equal(t, "abc", login.Value)
	assert.Equal(t, int(session.Lifetime.Seconds()), login.MaxAge)
	assert.Equal(t, "/", login.Path)
	assert.True(t, login.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(login)
	w = s.do(req)
	assert.JSONEq(t, `{"authenticated":true}`, w.Body.String())

	req = httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	req.AddCookie(login)
	w = s.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestOwnerSessionDoesNotAuthorizeOtherCallers(t *testing.T) {
	s := newTestSite(t, "")
	s.backend.SeedArticles(domain.Article{ID: "a1", Title: "Keep"})

	w := s.do(jsonRequest(http.MethodPost, "/api/session", `{"token":"`+backendToken+`"}`))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	owner := cookies[0]

	w = s.do(httptest.NewRequest(http.MethodDelete, "/api/articles/a1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, mutations(s.backend.Requests()))

	body := decodeList(t, s.do(httptest.NewRequest(http.MethodGet, "/api/articles", nil)))
	assert.False(t, body.CanEdit)

	// an anonymous logout only clears the anonymous caller's cookie
	w = s.do(httptest.NewRequest(http.MethodDelete, "/api/session", nil))
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(owner)
	assert.JSONEq(t, `{"authenticated":true}`, s.do(req).Body.String())

	req = httptest.NewRequest(http.MethodDelete, "/api/articles/a1", nil)
	req.AddCookie(owner)
	w = s.do(req)
	require.Equal(t, http.StatusNoContent, w.Code)

	sent := mutations(s.backend.Requests())
	require.Len(t, sent, 1)
	assert.Equal(t, "Bearer "+backendToken, sent[0].Authorization)
}

func TestBearerHeaderAuthorizesMutations(t *testing.T) {
	s := newTestSite(t, "")
	s.backend.SeedArticles(domain.Article{ID: "a1", Title: "Old"})

	req := httptest.NewRequest(http.MethodDelete, "/api/articles/a1", nil)
	req.Header.Set("Authorization", "Bearer "+backendToken)
	w := s.do(req)
	require.Equal(t, http.StatusNoContent, w.Code)

	sent := mutations(s.backend.Requests())
	require.Len(t, sent, 1)
	assert.Equal(t, "Bearer "+backendToken, sent[0].Authorization)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestSite(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/articles", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := s.do(req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
