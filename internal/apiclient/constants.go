package apiclient

import "time"

const (
	// DefaultTimeout applies when the caller does not supply its own *http.Client.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of a failed response is kept in StatusError.
	maxErrorBody = 4 << 10

	headerRequestID = "X-Request-Id"
)
