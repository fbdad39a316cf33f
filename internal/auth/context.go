// Package auth extracts the authenticated identity for each request. The
// gateway only needs the user id; everything downstream treats it as an
// opaque server-derived value.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// RequestContext carries the authenticated user's identity through a request.
type RequestContext struct {
	UserID uuid.UUID
}

type requestContextKey struct{}

// WithRequestContext stores the request context.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// FromContext extracts the request context set by the middleware.
func FromContext(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey{}).(RequestContext)
	return rc, ok
}
