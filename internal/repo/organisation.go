package repo

import (
	"context"

	"github.com/crucial707/hrms/internal/models"
)

// OrganisationRepo persists tenants.
type OrganisationRepo struct {
	db DBTX
}

func NewOrganisationRepo(db DBTX) *OrganisationRepo {
	return &OrganisationRepo{db: db}
}

func (r *OrganisationRepo) Create(ctx context.Context, name string) (*models.Organisation, error) {
	org := &models.Organisation{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO organisations (name) VALUES ($1) RETURNING id, name, created_at`,
		name,
	).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *OrganisationRepo) GetByID(ctx context.Context, id int) (*models.Organisation, error) {
	org := &models.Organisation{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM organisations WHERE id = $1`,
		id,
	).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return org, nil
}

// ListIDs returns every organisation id, for jobs that sweep all tenants.
func (r *OrganisationRepo) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM organisations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
