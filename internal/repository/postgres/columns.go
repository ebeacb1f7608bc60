package postgres

import "strings"

// maxRowsPerStatement keeps multi-row statements well under the 65535 bind
// parameters the extended protocol allows.
const maxRowsPerStatement = 1000

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// chunk splits items into consecutive slices of at most size elements.
func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size:size])
	}
	return append(out, items)
}
