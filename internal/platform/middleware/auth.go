package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	id "taskbox/pkg/domain"
	dErrors "taskbox/pkg/domain-errors"
	"taskbox/pkg/requestcontext"
)

// IdentityResolver turns a raw Authorization header value into an
// authenticated user id. It is the single choke point for protected routes:
// token parsing, signature/expiry validation, and the identity lookup all
// happen behind this call.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, authorization string) (id.UserID, error)
}

// writeJSONError writes a JSON error response with the given status code and
// error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth gates a route behind the identity resolver. On success the
// resolved user id is stored in the request context for the remainder of that
// request's processing; it is never cached beyond it.
func RequireAuth(resolver IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID, err := resolver.ResolveIdentity(ctx, r.Header.Get("Authorization"))
			if err != nil {
				requestID := requestcontext.RequestID(ctx)
				logger.WarnContext(ctx, "unauthorized access",
					"error", err,
					"request_id", requestID,
				)
				code := dErrors.CodeOf(err)
				switch code {
				case dErrors.CodeForbidden:
					writeJSONError(w, http.StatusForbidden, string(code), "User inactive")
				default:
					writeJSONError(w, http.StatusUnauthorized, string(dErrors.CodeUnauthorized), "Missing, invalid, or expired token")
				}
				return
			}

			ctx = requestcontext.WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
