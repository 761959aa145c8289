package transport

import (
	"context"
)

type (
	contextKey string
)

const (
	ContextAuthTokenKey contextKey = "authToken"
)

// WithAuthToken returns a context whose requests carry token instead of the session access token
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ContextAuthTokenKey, token)
}

func getAuthToken(ctx context.Context) string {
	if v := ctx.Value(ContextAuthTokenKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
