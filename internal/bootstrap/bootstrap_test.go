package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeharbor/portfolio/config"
	"github.com/codeharbor/portfolio/internal/session"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		API:     config.APIConfig{URL: "http://api.test/api"},
		Session: config.SessionConfig{Backend: config.SessionBackendFile, File: filepath.Join(t.TempDir(), "session.json")},
		Content: config.ContentConfig{Backend: config.ContentBackendREST},
	}
}

func TestOpenSession_File(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	s, err := OpenSession(ctx, cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.False(t, s.Store.IsAuthenticated())
	require.NoError(t, s.Store.Login(ctx, "abc"))

	reopened, err := OpenSession(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", reopened.Store.Token())
}

func TestOpenSession_Redis(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	require.NoError(t, mr.Set("session:"+session.CookieName, "from-redis"))

	cfg := testConfig(t)
	cfg.Session.Backend = config.SessionBackendRedis
	cfg.Session.RedisAddr = mr.Addr()

	s, err := OpenSession(ctx, cfg, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "from-redis", s.Store.Token())
	require.NoError(t, s.Store.Logout(ctx))
	assert.False(t, mr.Exists("session:"+session.CookieName))
}

func TestOpenSession_RedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Session.Backend = config.SessionBackendRedis
	cfg.Session.RedisAddr = addr

	_, err = OpenSession(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOpenSession_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Session.Backend = "localstorage"
	_, err := OpenSession(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestOpenRedis_RequiresAddr(t *testing.T) {
	_, err := OpenRedis(context.Background(), RedisOptions{})
	assert.Error(t, err)
}

func TestOpenContent_REST(t *testing.T) {
	cfg := testConfig(t)
	c, err := OpenContent(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Client)
	assert.Equal(t, "http://api.test/api", c.Client.BaseURL())
	assert.NotNil(t, c.Articles)
	assert.NotNil(t, c.ProjectItems)
	assert.Zero(t, c.Metrics().Calls)
}

func TestOpenContent_FirestoreNeedsCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Backend = config.ContentBackendFirestore
	_, err := OpenContent(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
}
