package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/crucial707/hrms/internal/auth"
	"github.com/crucial707/hrms/internal/metrics"
	"github.com/crucial707/hrms/internal/models"
	"github.com/crucial707/hrms/internal/repo"
	"github.com/rs/zerolog"
)

const (
	DefaultLogLimit  = 50
	MaxLogLimit      = 200
	MaxLogPage       = math.MaxInt32 / MaxLogLimit
	DefaultStatsDays = 30
	DefaultClearDays = 30
	MaxClearDays     = 36500
)

// AuditService reads and prunes an organisation's audit trail.
type AuditService struct {
	store  *repo.Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuditService(store *repo.Store, logger zerolog.Logger) *AuditService {
	return &AuditService{
		store:  store,
		logger: logger.With().Str("component", "audit").Logger(),
		now:    time.Now,
	}
}

// LogPage is one page of audit entries plus pagination data.
type LogPage struct {
	Entries []models.LogEntry
	Page    int
	Limit   int
	Total   int
	Pages   int
}

// Query returns entries newest first. Page and limit are clamped into range;
// an unknown action or entity type is a ValidationError.
func (s *AuditService) Query(ctx context.Context, actor auth.Identity, f models.LogFilter) (*LogPage, error) {
	if f.Action != "" && !f.Action.Valid() {
		return nil, invalidField("action", fmt.Sprintf("unknown action %q", f.Action))
	}
	if f.EntityType != "" && !f.EntityType.Valid() {
		return nil, invalidField("entityType", fmt.Sprintf("unknown entity type %q", f.EntityType))
	}
	switch {
	case f.Page < 1:
		f.Page = 1
	case f.Page > MaxLogPage:
		f.Page = MaxLogPage
	}
	switch {
	case f.Limit < 1:
		f.Limit = DefaultLogLimit
	case f.Limit > MaxLogLimit:
		f.Limit = MaxLogLimit
	}

	entries, total, err := s.store.Audit().Query(ctx, actor.OrgID, f)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	return &LogPage{
		Entries: entries,
		Page:    f.Page,
		Limit:   f.Limit,
		Total:   total,
		Pages:   (total + f.Limit - 1) / f.Limit,
	}, nil
}

// Stats counts entries per action over the trailing window of days.
func (s *AuditService) Stats(ctx context.Context, actor auth.Identity, days int) ([]models.ActionCount, error) {
	if days < 1 {
		days = DefaultStatsDays
	}
	since := s.now().AddDate(0, 0, -days)
	return s.store.Audit().Stats(ctx, actor.OrgID, since)
}

// ClearAll deletes the organisation's entries and records one logs_cleared entry.
func (s *AuditService) ClearAll(ctx context.Context, actor auth.Identity) (int, error) {
	var n int
	err := s.store.WithTx(ctx, func(tx *repo.Store) error {
		var err error
		if n, err = tx.Audit().DeleteAll(ctx, actor.OrgID); err != nil {
			return fmt.Errorf("delete audit entries: %w", err)
		}
		return record(ctx, tx, models.NewLogEntry{
			OrganisationID: actor.OrgID,
			UserID:         intPtr(actor.UserID),
			Action:         models.ActionLogsCleared,
			EntityType:     models.EntityLog,
			Description:    fmt.Sprintf("Cleared all logs (%d entries)", n),
			Meta:           map[string]int{"logsCleared": n},
		})
	})
	if err != nil {
		return 0, err
	}
	committed(models.ActionLogsCleared)
	metrics.AddAuditPruned("manual", n)
	return n, nil
}

// ClearOlderThan deletes entries older than days and records one
// logs_cleared_by_date entry.
func (s *AuditService) ClearOlderThan(ctx context.Context, actor auth.Identity, days int) (int, error) {
	if days < 1 || days > MaxClearDays {
		return 0, invalidField("days", fmt.Sprintf("must be between 1 and %d", MaxClearDays))
	}
	n, err := s.clearBefore(ctx, actor.OrgID, intPtr(actor.UserID), days, false)
	if err != nil {
		return 0, err
	}
	metrics.AddAuditPruned("manual", n)
	return n, nil
}

// PruneOlderThan applies the retention window to every organisation. Each
// organisation is pruned in its own transaction; failures are collected and
// the remaining organisations are still pruned.
func (s *AuditService) PruneOlderThan(ctx context.Context, days int) (int, error) {
	if days < 1 {
		return 0, nil
	}
	orgIDs, err := s.store.Organisations().ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list organisations: %w", err)
	}

	var (
		total int
		errs  []error
	)
	for _, orgID := range orgIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		n, err := s.clearBefore(ctx, orgID, nil, days, true)
		if err != nil {
			errs = append(errs, fmt.Errorf("organisation %d: %w", orgID, err))
			continue
		}
		total += n
	}
	metrics.AddAuditPruned("retention", total)
	s.logger.Info().Int("days", days).Int("deleted", total).Int("organisations", len(orgIDs)).Msg("audit retention applied")
	return total, errors.Join(errs...)
}

// clearBefore deletes entries older than days for orgID. With skipEmpty set,
// nothing is recorded when no rows were deleted.
func (s *AuditService) clearBefore(ctx context.Context, orgID int, userID *int, days int, skipEmpty bool) (int, error) {
	cutoff := s.now().AddDate(0, 0, -days)

	var n int
	err := s.store.WithTx(ctx, func(tx *repo.Store) error {
		var err error
		if n, err = tx.Audit().DeleteBefore(ctx, orgID, cutoff); err != nil {
			return fmt.Errorf("delete audit entries: %w", err)
		}
		if n == 0 && skipEmpty {
			return nil
		}
		desc := fmt.Sprintf("Cleared logs older than %d days (%d entries)", days, n)
		if userID == nil {
			desc = "Retention: " + desc
		}
		return record(ctx, tx, models.NewLogEntry{
			OrganisationID: orgID,
			UserID:         userID,
			Action:         models.ActionLogsClearedByDate,
			EntityType:     models.EntityLog,
			Description:    desc,
			Meta: map[string]any{
				"logsCleared": n,
				"days":        days,
				"cutoff":      cutoff.UTC().Format(time.RFC3339),
			},
		})
	})
	if err != nil {
		return 0, err
	}
	if n > 0 || !skipEmpty {
		committed(models.ActionLogsClearedByDate)
	}
	return n, nil
}
