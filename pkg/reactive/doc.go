// Package reactive provides the observer primitive shared by the
// shopkit stores.
//
// A Signal holds a value and a list of subscribers. Mutations commit
// the new value first, then synchronously invoke each subscriber with
// the committed value. Reads never notify.
//
//	lines := reactive.NewSignal([]cart.Line{})
//	stop := lines.Subscribe(func(v []cart.Line) { render(v) })
//	defer stop()
package reactive
