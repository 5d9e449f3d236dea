package auth

import "context"

type contextKey string

const viewerKey contextKey = "viewer"

// WithViewer stores the subject of a validated report token in ctx.
func WithViewer(ctx context.Context, viewer string) context.Context {
	return context.WithValue(ctx, viewerKey, viewer)
}

// ViewerFromContext returns the report viewer, or "" for an open deployment.
func ViewerFromContext(ctx context.Context) string {
	viewer, _ := ctx.Value(viewerKey).(string)
	return viewer
}
