// Package memory provides in-memory repository implementations behind
// the same interfaces as the Postgres repositories. They back unit
// tests and local development without a database.
package memory

import (
	"sort"
	"time"

	"github.com/smartshop/backend/internal/domain/shared"
)

// paginate applies filter paging to an already-filtered slice. A filter
// without paging set returns the whole slice, matching the Postgres
// repositories.
func paginate[T any](items []T, filter shared.Filter) []T {
	if filter.Page <= 0 && filter.PageSize <= 0 {
		return items
	}
	offset := filter.Offset()
	if offset >= len(items) {
		return []T{}
	}
	end := offset + filter.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// byCreatedAt sorts newest first, matching the repositories' default order
func byCreatedAt[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
