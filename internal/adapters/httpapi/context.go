package httpapi

import (
	"context"

	"github.com/apa-portal/member-portal/internal/app/sessions"
	"github.com/apa-portal/member-portal/internal/domain"
)

type resolutionKey struct{}

func WithResolution(ctx context.Context, res sessions.Resolution) context.Context {
	return context.WithValue(ctx, resolutionKey{}, res)
}

// ResolutionFromContext returns Absent when the session middleware did not run.
func ResolutionFromContext(ctx context.Context) sessions.Resolution {
	res, ok := ctx.Value(resolutionKey{}).(sessions.Resolution)
	if !ok {
		return sessions.Absent()
	}
	return res
}

func SessionFromContext(ctx context.Context) (domain.MemberSession, bool) {
	return ResolutionFromContext(ctx).Session()
}
