package http

import (
	"net/http"

	"github.com/mkrupp/shopcase/internal/domain"
	context_ "github.com/mkrupp/shopcase/internal/infra/context"
	"github.com/mkrupp/shopcase/internal/infra/logging"
	"github.com/mkrupp/shopcase/internal/svc/authsvc/authclient"
)

// GuardingMiddleware creates middleware that gates a route behind a role
// check. It resolves the caller's identity through the AuthClient, evaluates
// the route guard and acts on the decision:
//   - pending (auth state unresolvable) renders nothing and returns 503
//   - denied redirects to the decision's target with 303 See Other
//   - authorized forwards the request with the identity in the context
//
// An empty allowedRoles admits any authenticated caller.
func GuardingMiddleware(
	next http.Handler,
	allowedRoles []domain.Role,
	authClient authclient.AuthClient,
	log logging.Logger,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolution := domain.AuthResolution{}

		if token := r.Header.Get("Authorization"); token != "" {
			identity, ok, err := authClient.Validate(r.Context(), token)
			if err != nil {
				log.ErrorContext(r.Context(), "resolve identity failed", "error", err)
				resolution.Loading = true
			} else if ok {
				resolution.Authenticated = true
				resolution.Role = identity.Role

				ctx := context_.WithUsername(r.Context(), identity.Username)
				ctx = context_.WithRole(ctx, identity.Role)
				r = r.WithContext(ctx)
			}
		}

		decision := domain.EvaluateRouteGuard(resolution, allowedRoles)

		switch decision.State {
		case domain.GuardPending:
			log.WarnContext(r.Context(), "guard pending, auth state unresolved")
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		case domain.GuardDenied:
			log.DebugContext(r.Context(), "guard denied", "redirect", decision.Redirect)
			http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
		case domain.GuardAuthorized:
			next.ServeHTTP(w, r)
		default:
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})
}
