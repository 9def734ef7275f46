package types

// Optional holds a value that may be absent.
// It distinguishes "not set" from "set to the zero value".
type Optional[T any] struct {
	val T
	ok  bool
}

// Some returns an [Optional] holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{val: v, ok: true} }

// Get returns the value and a flag indicating whether it is set.
func (o Optional[T]) Get() (T, bool) { return o.val, o.ok }

// IsSet reports whether the value is set.
func (o Optional[T]) IsSet() bool { return o.ok }

// Or returns the value if set, otherwise def.
func (o Optional[T]) Or(def T) T {
	if !o.ok {
		return def
	}
	return o.val
}
