package datautil

import "sort"

// GroupObjects buckets items by the key returned for each item. Items keep
// their input order within each group.
func GroupObjects[T any, K comparable](items []T, keyFn func(T) K) map[K][]T {
	grouping := make(map[K][]T)
	for _, item := range items {
		key := keyFn(item)
		grouping[key] = append(grouping[key], item)
	}
	return grouping
}

// SortGrouping sorts each group's slice in place using the provided less
// function and returns the grouping for chaining.
func SortGrouping[T any, K comparable](grouping map[K][]T, less func(a, b T) bool) map[K][]T {
	for _, group := range grouping {
		sort.SliceStable(group, func(i, j int) bool {
			return less(group[i], group[j])
		})
	}
	return grouping
}
