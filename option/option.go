// Package option contains utility to use the variadic options pattern
package option

// Option represents a function that modifies options of type T.
type Option[T any] func(opts *T)

// Build applies the options, in order, on top of the given defaults and returns them.
func Build[T any](defaults *T, opts ...Option[T]) *T {
	for _, opt := range opts {
		if opt != nil {
			opt(defaults)
		}
	}
	return defaults
}

// When returns opt if cond holds, and an option doing nothing otherwise.
func When[T any](cond bool, opt Option[T]) Option[T] {
	if !cond {
		return nil
	}
	return opt
}
