// Package auth implements the persisted auth session store and the
// backend collaborator it records results from.
//
// The session moves between three shapes: anonymous (no tokens),
// authenticating (an operation in flight, Loading set), and
// authenticated (tokens and user present). Logout returns it to
// anonymous. FirstVisit is an orthogonal persisted flag that gates
// one-time onboarding regardless of auth state.
//
// Auth operations have no cancellation primitive. Instead the store
// carries a generation counter: logout and every new operation advance
// it, and a result whose generation is no longer current is discarded,
// so a slow login response cannot resurrect tokens after a logout.
package auth
