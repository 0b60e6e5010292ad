package service

import (
	"context"
	"fmt"

	"github.com/crucial707/hrms/internal/metrics"
	"github.com/crucial707/hrms/internal/models"
	"github.com/crucial707/hrms/internal/repo"
)

// record appends an audit entry on tx. A failure here fails the enclosing
// transaction, so a mutation is never committed without its entry.
func record(ctx context.Context, tx *repo.Store, e models.NewLogEntry) error {
	if !e.Action.Valid() {
		return fmt.Errorf("append audit entry: unknown action %q", e.Action)
	}
	if _, err := tx.Audit().Append(ctx, e); err != nil {
		return fmt.Errorf("append audit entry %s: %w", e.Action, err)
	}
	return nil
}

// committed bumps the audit counter once the transaction holding the entry is durable.
func committed(action models.Action) {
	metrics.IncAuditEntries(string(action))
}

func intPtr(v int) *int {
	return &v
}

// diffIDs returns ids present only in after (added) and only in before (removed).
func diffIDs(before, after []int) (added, removed []int) {
	inBefore := make(map[int]bool, len(before))
	for _, id := range before {
		inBefore[id] = true
	}
	inAfter := make(map[int]bool, len(after))
	for _, id := range after {
		inAfter[id] = true
	}

	added, removed = []int{}, []int{}
	for _, id := range after {
		if !inBefore[id] {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if !inAfter[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// uniqueIDs drops repeated ids, keeping first-seen order.
func uniqueIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
