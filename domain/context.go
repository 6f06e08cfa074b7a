package domain

import "context"

// RequestMeta describes the caller behind a service call
type RequestMeta struct {
	SessionID string
	UserAgent string
	ClientIP  string
}

type requestMetaKey struct{}

// WithRequestMeta attaches meta to ctx
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom returns the meta attached to ctx, or the zero value
func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}
