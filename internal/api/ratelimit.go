package api

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/libreria/internal/errors"
)

// rateLimitMutations is a huma middleware for the mutating operations.
// Clients over their budget get 429 with code RATE_LIMITED.
func (s *Server) rateLimitMutations(ctx huma.Context, next func(huma.Context)) {
	if s.mutationLimiter == nil {
		next(ctx)
		return
	}

	key := clientIP(ctx)
	if !s.mutationLimiter.Allow(key) {
		s.logger.Warn("rate limit exceeded",
			"ip", key,
			"operation", ctx.Operation().OperationID,
		)
		limited := domainerrors.RateLimited("too many requests, try again later")
		_ = huma.WriteErr(s.api, ctx, limited.HTTPStatus(), limited.Message, limited)
		return
	}

	next(ctx)
}

// clientIP extracts the client address. X-Forwarded-For and X-Real-IP win
// over the connection address.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
