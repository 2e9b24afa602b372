package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/codeharbor/portfolio/config"
	"github.com/codeharbor/portfolio/internal/apiclient"
	"github.com/codeharbor/portfolio/internal/content/service"
)

// Content holds the resource services for the configured backend.
type Content struct {
	Articles     service.ArticleService
	ProjectItems service.ProjectItemService
	// Client is the REST client; nil for the Firestore backend.
	Client *apiclient.Client
	close  func() error
}

func (c *Content) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// Metrics returns the REST client's call metrics, or a zero value.
func (c *Content) Metrics() apiclient.Metrics {
	if c.Client == nil {
		return apiclient.Metrics{}
	}
	return c.Client.Metrics()
}

// OpenContent builds the article and project item services. tokens supplies
// the bearer token for REST calls.
func OpenContent(ctx context.Context, cfg *config.Config, tokens apiclient.TokenSource, logger *zap.Logger) (*Content, error) {
	switch cfg.Content.Backend {
	case config.ContentBackendREST:
		client := apiclient.New(cfg.API.URL, tokens,
			apiclient.WithTimeout(cfg.API.Timeout),
			apiclient.WithRateLimit(cfg.API.RateLimit, 1),
			apiclient.WithLogger(logger),
		)
		return &Content{
			Articles:     service.NewArticleAPI(client),
			ProjectItems: service.NewProjectItemAPI(client),
			Client:       client,
		}, nil

	case config.ContentBackendFirestore:
		fs, err := service.NewFirestoreClient(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
		return &Content{
			Articles:     service.NewArticleStore(fs),
			ProjectItems: service.NewProjectItemStore(fs),
			close:        fs.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown content backend %q", cfg.Content.Backend)
	}
}
