package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CookieFile persists the token as an auth_token cookie encoded as JSON.
type CookieFile struct {
	Path string
	now  func() time.Time
}

func NewCookieFile(path string) *CookieFile {
	return &CookieFile{Path: path, now: time.Now}
}

func (f *CookieFile) Load(context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cookie file: %w", err)
	}

	var cookie http.Cookie
	if err := json.Unmarshal(data, &cookie); err != nil {
		return "", fmt.Errorf("failed to decode cookie file: %w", err)
	}
	if cookie.Name != CookieName {
		return "", nil
	}
	if !cookie.Expires.IsZero() && !cookie.Expires.After(f.now()) {
		return "", nil
	}
	return cookie.Value, nil
}

func (f *CookieFile) Save(_ context.Context, token string, expires time.Time) error {
	cookie := http.Cookie{
		Name:    CookieName,
		Value:   token,
		Path:    "/",
		Expires: expires.UTC(),
	}
	data, err := json.MarshalIndent(cookie, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cookie: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create cookie dir: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

func (f *CookieFile) Clear(context.Context) error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove cookie file: %w", err)
	}
	return nil
}

const redisKey = "session:" + CookieName

// Redis persists the token under session:auth_token with a TTL.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Load(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	return token, nil
}

func (r *Redis) Save(ctx context.Context, token string, expires time.Time) error {
	ttl := time.Until(expires)
	if ttl <= 0 {
		return r.Clear(ctx)
	}
	if err := r.client.Set(ctx, redisKey, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Memory keeps the token in process memory.
type Memory struct {
	mu      sync.Mutex
	token   string
	expires time.Time
}

func (m *Memory) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" || !m.expires.After(time.Now()) {
		return "", nil
	}
	return m.token, nil
}

func (m *Memory) Save(_ context.Context, token string, expires time.Time) error {
	m.mu.Lock()
	m.token, m.expires = token, expires
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	m.token, m.expires = "", time.Time{}
	m.mu.Unlock()
	return nil
}
