package repository

import "strings"

// DefaultSortField orders list queries when the caller names no field or an
// unknown one.
const DefaultSortField = "createdAt"

// Sort is a validated ordering for list queries.
type Sort struct {
	Field      string
	Descending bool
}

// ParseSort resolves a caller supplied field and direction against the fields
// a store can order by. Unknown fields fall back to DefaultSortField; any
// direction other than "asc" sorts descending.
func ParseSort(field, order string, allowed []string) Sort {
	sort := Sort{Field: DefaultSortField, Descending: !strings.EqualFold(strings.TrimSpace(order), "asc")}
	for _, candidate := range allowed {
		if candidate == field {
			sort.Field = field
			break
		}
	}
	return sort
}
