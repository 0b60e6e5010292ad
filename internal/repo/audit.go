package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/crucial707/hrms/internal/models"
)

// AuditRepo persists audit log entries. Entries are only inserted or bulk-deleted.
type AuditRepo struct {
	db DBTX
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db DBTX) *AuditRepo {
	return &AuditRepo{db: db}
}

// Append records one entry. Meta is JSON-encoded and stored as text; the
// timestamp is assigned by the database.
func (r *AuditRepo) Append(ctx context.Context, e models.NewLogEntry) (*models.LogEntry, error) {
	var meta sql.NullString
	if e.Meta != nil {
		b, err := json.Marshal(e.Meta)
		if err != nil {
			return nil, fmt.Errorf("encode audit meta: %w", err)
		}
		meta = sql.NullString{String: string(b), Valid: true}
	}
	var entityType sql.NullString
	if e.EntityType != "" {
		entityType = sql.NullString{String: string(e.EntityType), Valid: true}
	}

	out := &models.LogEntry{
		OrganisationID: e.OrganisationID,
		UserID:         e.UserID,
		Action:         e.Action,
		EntityID:       e.EntityID,
		Description:    e.Description,
	}
	if entityType.Valid {
		et := e.EntityType
		out.EntityType = &et
	}
	if meta.Valid {
		out.Meta = json.RawMessage(meta.String)
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO audit_logs (organisation_id, user_id, action, entity_type, entity_id, description, meta)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, timestamp`,
		e.OrganisationID, e.UserID, string(e.Action), entityType, e.EntityID, e.Description, meta,
	).Scan(&out.ID, &out.Timestamp)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Query returns one page of entries for orgID, newest first, and the total
// number of entries matching the filter.
func (r *AuditRepo) Query(ctx context.Context, orgID int, f models.LogFilter) ([]models.LogEntry, int, error) {
	where := []string{"l.organisation_id = $1"}
	args := []any{orgID}
	if f.Action != "" {
		args = append(args, string(f.Action))
		where = append(where, fmt.Sprintf("l.action = $%d", len(args)))
	}
	if f.EntityType != "" {
		args = append(args, string(f.EntityType))
		where = append(where, fmt.Sprintf("l.entity_type = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	limit, offset := f.Limit, (f.Page-1)*f.Limit
	if offset < 0 {
		offset = 0
	}
	pageArgs := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx,
		`SELECT l.id, l.organisation_id, l.user_id, l.action, l.entity_type, l.entity_id,
		        l.description, l.meta, l.timestamp, u.id, u.name, u.email
		 FROM audit_logs l
		 LEFT JOIN users u ON u.id = l.user_id
		 WHERE `+cond+fmt.Sprintf(`
		 ORDER BY l.timestamp DESC, l.id DESC
		 LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		pageArgs...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := []models.LogEntry{}
	for rows.Next() {
		e, err := scanLogEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_logs l WHERE `+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Stats counts entries per action recorded at or after since.
func (r *AuditRepo) Stats(ctx context.Context, orgID int, since time.Time) ([]models.ActionCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT action, COUNT(*) FROM audit_logs
		 WHERE organisation_id = $1 AND timestamp >= $2
		 GROUP BY action
		 ORDER BY action`,
		orgID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []models.ActionCount{}
	for rows.Next() {
		var s models.ActionCount
		if err := rows.Scan(&s.Action, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// DeleteAll removes every entry of orgID and returns how many were removed.
func (r *AuditRepo) DeleteAll(ctx context.Context, orgID int) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE organisation_id = $1`, orgID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// DeleteBefore removes entries of orgID strictly older than cutoff.
func (r *AuditRepo) DeleteBefore(ctx context.Context, orgID int, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM audit_logs WHERE organisation_id = $1 AND timestamp < $2`,
		orgID, cutoff,
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func scanLogEntry(rows *sql.Rows) (models.LogEntry, error) {
	var (
		e          models.LogEntry
		userID     sql.NullInt64
		entityType sql.NullString
		entityID   sql.NullInt64
		meta       sql.NullString
		uID        sql.NullInt64
		uName      sql.NullString
		uEmail     sql.NullString
	)
	err := rows.Scan(&e.ID, &e.OrganisationID, &userID, &e.Action, &entityType, &entityID,
		&e.Description, &meta, &e.Timestamp, &uID, &uName, &uEmail)
	if err != nil {
		return e, err
	}
	if userID.Valid {
		id := int(userID.Int64)
		e.UserID = &id
	}
	if entityType.Valid {
		et := models.EntityType(entityType.String)
		e.EntityType = &et
	}
	if entityID.Valid {
		id := int(entityID.Int64)
		e.EntityID = &id
	}
	if meta.Valid {
		e.Meta = json.RawMessage(meta.String)
	}
	if uID.Valid {
		e.User = &models.UserSummary{ID: int(uID.Int64), Name: uName.String, Email: uEmail.String}
	}
	return e, nil
}
