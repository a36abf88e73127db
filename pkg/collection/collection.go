// Package collection holds the generic slice helpers shared by the request
// and presentation layers.
//
//	names := collection.Map(p.KeyFeatures, func(f models.ProductKeyFeature) string { return f.Name })
package collection

// Map transforms each element of s using fn. The result is never nil.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements of s for which keep returns true, in order.
func Filter[T any](s []T, keep func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// UniqueBy keeps the first element for each key returned by fn.
func UniqueBy[T any, K comparable](s []T, fn func(T) K) []T {
	seen := make(map[K]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		k := fn(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Pointers returns a pointer to each element of s. The pointers alias s.
func Pointers[T any](s []T) []*T {
	out := make([]*T, len(s))
	for i := range s {
		out[i] = &s[i]
	}
	return out
}
