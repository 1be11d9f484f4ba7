package utils

import (
	"sort"
	"strings"
)

// Search filters items whose indexed fields contain the term,
// case-insensitively. An empty term matches everything.
func Search[T any](items []T, term string, fields func(T) []string) []T {
	if term == "" {
		return items
	}
	term = strings.ToLower(term)
	var out []T
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// SortBy sorts a copy of items with the given less function.
func SortBy[T any](items []T, less func(a, b T) bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Percentage returns value/total as a rounded whole percentage.
func Percentage(value, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(value)/float64(total)*100 + 0.5)
}
