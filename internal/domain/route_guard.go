package domain

import "slices"

// GuardState is the route access guard's decision state.
type GuardState string

const (
	// GuardPending means authentication resolution is still in flight;
	// nothing is rendered and no redirect is emitted.
	GuardPending GuardState = "pending"
	// GuardAuthorized renders the guarded subtree.
	GuardAuthorized GuardState = "authorized"
	// GuardDenied renders nothing and redirects.
	GuardDenied GuardState = "denied"
)

// AuthResolution is the externally-resolved authentication status consumed
// by the route guard.
type AuthResolution struct {
	Loading       bool
	Authenticated bool
	Role          Role // Meaningful only when Authenticated
}

// GuardDecision is the outcome of evaluating the route guard: a state and,
// for denials, the navigation destination. The redirect is a side effect for
// the caller to perform, never an error value.
type GuardDecision struct {
	State    GuardState
	Redirect string
}

// EvaluateRouteGuard decides whether a viewer may access a route restricted
// to the given roles. It is a pure predicate over the resolution and role
// set; callers re-evaluate whenever either input changes.
//
// Unauthenticated viewers are always sent to the login destination. An
// authenticated user whose role is not allowed is sent to their role home
// instead.
func EvaluateRouteGuard(resolution AuthResolution, allowedRoles []Role) GuardDecision {
	if resolution.Loading {
		return GuardDecision{State: GuardPending}
	}

	if !resolution.Authenticated {
		return GuardDecision{State: GuardDenied, Redirect: LoginPath}
	}

	if len(allowedRoles) > 0 && !slices.Contains(allowedRoles, resolution.Role) {
		return GuardDecision{State: GuardDenied, Redirect: resolution.Role.Home()}
	}

	return GuardDecision{State: GuardAuthorized}
}
