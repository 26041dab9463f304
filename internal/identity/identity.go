// Package identity carries the signed-in principal through the request context.
// Authentication itself happens upstream (the reverse proxy validates the
// session and forwards the principal headers); this package only reads the
// result so services can stamp ownership fields.
package identity

import (
	"context"
	"net/http"
)

type contextKey struct{}

// Principal identifies the acting user.
type Principal struct {
	ID    string
	Email string
}

// Middleware extracts the forwarded principal headers into the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := Principal{
			ID:    r.Header.Get("X-User-ID"),
			Email: r.Header.Get("X-User-Email"),
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
	})
}

// ContextWithPrincipal stores the principal in the context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal stored in the context, if any.
func FromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(contextKey{}).(Principal)
	return p
}
