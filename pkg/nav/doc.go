// Package nav defines the navigation collaborator consumed by the
// session store's redirect decision. Stores hand a target route to a
// Navigator and never hold navigation state themselves.
package nav
