package generic

import "strings"

// UnknownGroup collects records whose grouping key is blank.
const UnknownGroup = "Unknown"

// Group is one bucket of a GroupBy, items in input order.
type Group[T any] struct {
	Key   string
	Items []T
}

// GroupBy buckets items by key(item). Groups appear in the order their key is
// first seen. A blank key lands in UnknownGroup; no record is ever dropped.
func GroupBy[T any](items []T, key func(T) string) []Group[T] {
	index := make(map[string]int)
	groups := make([]Group[T], 0)
	for _, item := range items {
		k := strings.TrimSpace(key(item))
		if k == "" {
			k = UnknownGroup
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
