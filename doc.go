// Package shopkit is the client-resident state layer for a storefront
// app: a shopping cart, a wishlist, and an auth session, each a
// self-contained reactive store persisted to a key-value backend.
//
// Reads are served synchronously from memory. Mutations commit in
// memory, notify subscribers, and schedule a fire-and-forget snapshot
// write; the UI never waits on persistence to observe derived values.
// Each store rehydrates its snapshot once, lazily, on first access.
//
//	cfg, _ := shopkit.LoadConfig("shopkit.json")
//	app, _ := shopkit.NewApp(cfg)
//	defer app.Close()
//
//	app.Cart.Add(ctx, product, cart.WithQuantity(2), cart.WithColor("red"))
//	total := app.Cart.Total(ctx)
package shopkit
