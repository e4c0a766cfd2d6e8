package utils

// Value dereferences v, returning the zero value when v is nil. Used when
// decoding optional response fields that may be absent from the wire.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
