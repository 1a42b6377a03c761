package generic

// =============================================================================
// LOOKUPS - linear scans over ordered sequences
// =============================================================================
//
// The dataset holds tens of records per entity type, so every lookup is a
// plain scan. Results keep the input order; nothing is sorted.

// Find returns the first item matching pred. The bool is false when nothing
// matched, which callers must keep distinct from an empty result set.
func Find[T any](items []T, pred func(T) bool) (T, bool) {
	for _, item := range items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Where returns the items matching pred in their original order.
// The result is never nil so an empty match encodes as [] rather than null.
func Where[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Distinct returns each key(item) once, in first-appearance order.
func Distinct[T any, K comparable](items []T, key func(T) K) []K {
	seen := make(map[K]bool, len(items))
	out := make([]K, 0)
	for _, item := range items {
		k := key(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
