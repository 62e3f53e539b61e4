package auth

import (
	"context"

	"github.com/vango-dev/shopkit/pkg/nav"
)

// Default destinations for the redirect decision.
const (
	// RouteOnboarding is the one-time onboarding flow.
	RouteOnboarding = "/onboarding"

	// RouteMain is the main storefront entry.
	RouteMain = "/home"

	// RouteEntry is the unauthenticated entry (login screen).
	RouteEntry = "/login"
)

// Redirect chooses the destination for the given session state. Pure
// read, no mutation: onboarding while FirstVisit is set, the main app
// for an authenticated session, the unauthenticated entry otherwise.
// While an auth operation is in flight there is no decision yet and
// ok is false.
func Redirect(st State) (route string, ok bool) {
	if st.Loading {
		return "", false
	}
	if st.FirstVisit {
		return RouteOnboarding, true
	}
	if st.Authenticated() {
		return RouteMain, true
	}
	return RouteEntry, true
}

// RedirectTo applies the redirect decision through the navigation
// collaborator. No-op while the decision is pending.
func (s *Store) RedirectTo(ctx context.Context, navigator nav.Navigator) {
	route, ok := Redirect(s.Snapshot(ctx))
	if !ok {
		return
	}
	navigator.Navigate(route, nav.WithReplace())
}
