package pwa

// Capability is a platform feature that may or may not exist on the host.
// The zero value is Unavailable.
type Capability[T any] struct {
	handle T
	ok     bool
}

func Available[T any](handle T) Capability[T] {
	return Capability[T]{handle: handle, ok: true}
}

func Unavailable[T any]() Capability[T] {
	return Capability[T]{}
}

// Get returns the handle and whether the feature is present.
func (c Capability[T]) Get() (T, bool) {
	return c.handle, c.ok
}

func (c Capability[T]) IsAvailable() bool {
	return c.ok
}
