package site

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeharbor/portfolio/internal/apiclient"
	"github.com/codeharbor/portfolio/internal/content/collection"
	"github.com/codeharbor/portfolio/internal/content/domain"
)

var errBadForm = errors.New("invalid form")

// statusFor maps a content error to the response status.
func statusFor(err error) int {
	var verr *domain.ValidationError
	var serr *apiclient.StatusError
	switch {
	case errors.As(err, &verr), errors.Is(err, domain.ErrPictureUnsupported), errors.Is(err, errBadForm):
		return http.StatusBadRequest
	case errors.As(err, &serr):
		return serr.StatusCode
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, collection.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body = gin.H{"error": "validation failed", "fields": verr.Fields}
	}
	c.AbortWithStatusJSON(statusFor(err), body)
}
