package port

import "context"

// APIClient is the outbound port to the ad-serving REST backend. Paths are
// relative to the configured base URL and may carry a query string. A nil
// out skips response decoding. Failures are returned as *domain.Error.
type APIClient interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error

	// SetAPIKey replaces the bearer token sent with every request. An empty
	// key sends no Authorization header.
	SetAPIKey(key string)
}
