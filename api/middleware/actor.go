package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/safarilink/groupstay-backend/api/responses"
	pkgerrors "github.com/safarilink/groupstay-backend/pkg/errors"
	"github.com/safarilink/groupstay-backend/pkg/logger"
)

const (
	actorIDHeader   = "X-Actor-Id"
	actorRoleHeader = "X-Actor-Role"
)

var knownRoles = map[string]bool{
	"admin": true,
	"owner": true,
}

// Actor resolves the acting identity from gateway-injected headers. The
// edge proxy terminates authentication; by the time a request reaches
// this service the headers are trusted.
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := strings.TrimSpace(r.Header.Get(actorIDHeader))
			role := strings.ToLower(strings.TrimSpace(r.Header.Get(actorRoleHeader)))

			if actorID == "" || role == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity headers missing"))
				return
			}
			if _, err := uuid.Parse(actorID); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "actor id must be a uuid"))
				return
			}
			if !knownRoles[role] {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown actor role"))
				return
			}

			ctx := WithActor(r.Context(), actorID, role)
			if logg != nil {
				ctx = logg.WithActorID(ctx, actorID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route subtree to the given roles.
func RequireRole(logg *logger.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, role := range roles {
		allowed[strings.ToLower(role)] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed[RoleFromContext(r.Context())] {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
