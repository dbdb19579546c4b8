package utils

func Ptr[T any](v T) *T {
	return &v
}

// Clone returns a pointer to a shallow copy of *v, or nil.
func Clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	return Ptr(*v)
}
