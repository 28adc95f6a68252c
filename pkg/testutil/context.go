package testutil

import (
	"net/http"
	"time"

	id "taskbox/pkg/domain"
	"taskbox/pkg/requestcontext"
)

// WithUserID adds an authenticated user id to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithUserID(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

// WithTime pins the request-scoped clock, like the RequestTime middleware.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
