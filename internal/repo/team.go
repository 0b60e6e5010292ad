package repo

import (
	"context"

	"github.com/crucial707/hrms/internal/models"
	"github.com/lib/pq"
)

// TeamRepo reads and writes teams, scoped by organisation.
type TeamRepo struct {
	db DBTX
}

func NewTeamRepo(db DBTX) *TeamRepo {
	return &TeamRepo{db: db}
}

const teamColumns = `id, name, description, organisation_id, created_at`

func (r *TeamRepo) Create(ctx context.Context, orgID int, f models.TeamFields) (*models.Team, error) {
	return scanTeam(r.db.QueryRowContext(ctx,
		`INSERT INTO teams (name, description, organisation_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+teamColumns,
		f.Name, f.Description, orgID,
	))
}

func (r *TeamRepo) Get(ctx context.Context, id, orgID int) (*models.Team, error) {
	t, err := scanTeam(r.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1 AND organisation_id = $2`,
		id, orgID,
	))
	return t, notFound(err)
}

func (r *TeamRepo) Update(ctx context.Context, id, orgID int, f models.TeamFields) (*models.Team, error) {
	t, err := scanTeam(r.db.QueryRowContext(ctx,
		`UPDATE teams
		 SET name = $1, description = $2
		 WHERE id = $3 AND organisation_id = $4
		 RETURNING `+teamColumns,
		f.Name, f.Description, id, orgID,
	))
	return t, notFound(err)
}

// Delete removes the team row only; links must be removed first.
func (r *TeamRepo) Delete(ctx context.Context, id, orgID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM teams WHERE id = $1 AND organisation_id = $2`,
		id, orgID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TeamRepo) List(ctx context.Context, orgID int) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE organisation_id = $1 ORDER BY id`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

// CountInOrg counts how many of ids name a team owned by orgID. ids must be distinct.
func (r *TeamRepo) CountInOrg(ctx context.Context, ids []int, orgID int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams WHERE organisation_id = $1 AND id = ANY($2)`,
		orgID, pq.Array(int64s(ids)),
	).Scan(&n)
	return n, err
}

func scanTeam(row interface{ Scan(...any) error }) (*models.Team, error) {
	t := &models.Team{}
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.OrganisationID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}
