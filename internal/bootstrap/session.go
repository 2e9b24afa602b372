package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/codeharbor/portfolio/config"
	"github.com/codeharbor/portfolio/internal/session"
)

// Session is the hydrated session store and the resources behind it.
type Session struct {
	Store *session.Store
	close func() error
}

func (s *Session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenSession hydrates the session from the configured backend.
func OpenSession(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		store, err := session.New(ctx, session.NewRedis(client), logger)
		if err != nil {
			client.Close()
			return nil, err
		}
		return &Session{
			Store: store,
			close: client.Close,
		}, nil

	case config.SessionBackendFile:
		store, err := session.New(ctx, session.NewCookieFile(cfg.Session.File), logger)
		if err != nil {
			return nil, err
		}
		return &Session{Store: store}, nil

	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
