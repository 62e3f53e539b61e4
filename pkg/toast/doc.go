// Package toast provides feedback notifications for shopkit stores.
//
// Stores inform a Notifier about mutations with a severity and message;
// the notifier never vetoes the mutation. The presentation layer decides
// how to surface them — a mobile shell renders snackbars, a headless
// process logs them via the slog-backed Logger, and tests capture them
// with Recorder.
//
//	cartStore := cart.New(backend, cart.WithNotifier(myNotifier))
//
//	// Elsewhere:
//	toast.Success(n, "Added to cart")
//	toast.Error(n, "Login failed")
package toast
