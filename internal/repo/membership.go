package repo

import (
	"context"

	"github.com/crucial707/hrms/internal/models"
	"github.com/lib/pq"
)

// MembershipRepo manages employee_teams links.
type MembershipRepo struct {
	db DBTX
}

func NewMembershipRepo(db DBTX) *MembershipRepo {
	return &MembershipRepo{db: db}
}

// TeamIDs returns the ids of the teams an employee currently belongs to.
func (r *MembershipRepo) TeamIDs(ctx context.Context, employeeID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT team_id FROM employee_teams WHERE employee_id = $1 ORDER BY team_id`,
		employeeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Replace swaps an employee's whole link set for teamIDs. Callers run it in a
// transaction so the empty intermediate state is never visible.
func (r *MembershipRepo) Replace(ctx context.Context, employeeID int, teamIDs []int) error {
	if err := r.DeleteByEmployee(ctx, employeeID); err != nil {
		return err
	}
	if len(teamIDs) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO employee_teams (employee_id, team_id) SELECT $1, unnest($2::int[])`,
		employeeID, pq.Array(int64s(teamIDs)),
	)
	return err
}

func (r *MembershipRepo) DeleteByEmployee(ctx context.Context, employeeID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM employee_teams WHERE employee_id = $1`, employeeID)
	return err
}

func (r *MembershipRepo) DeleteByTeam(ctx context.Context, teamID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM employee_teams WHERE team_id = $1`, teamID)
	return err
}

// TeamsOfEmployee lists the teams linked to one employee of orgID.
func (r *MembershipRepo) TeamsOfEmployee(ctx context.Context, employeeID, orgID int) ([]models.TeamSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.description, t.organisation_id, t.created_at
		 FROM employee_teams et
		 JOIN teams t ON t.id = et.team_id
		 WHERE et.employee_id = $1 AND t.organisation_id = $2
		 ORDER BY t.id`,
		employeeID, orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []models.TeamSummary{}
	for rows.Next() {
		var t models.TeamSummary
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.OrganisationID, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// TeamsByEmployee maps employee id to teams for every link in orgID.
func (r *MembershipRepo) TeamsByEmployee(ctx context.Context, orgID int) (map[int][]models.TeamSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT et.employee_id, t.id, t.name, t.description, t.organisation_id, t.created_at
		 FROM employee_teams et
		 JOIN teams t ON t.id = et.team_id
		 WHERE t.organisation_id = $1
		 ORDER BY et.employee_id, t.id`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int][]models.TeamSummary)
	for rows.Next() {
		var employeeID int
		var t models.TeamSummary
		if err := rows.Scan(&employeeID, &t.ID, &t.Name, &t.Description, &t.OrganisationID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out[employeeID] = append(out[employeeID], t)
	}
	return out, rows.Err()
}

// EmployeesOfTeam lists the employees linked to one team of orgID.
func (r *MembershipRepo) EmployeesOfTeam(ctx context.Context, teamID, orgID int) ([]models.EmployeeSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.first_name, e.last_name, e.email, e.phone, e.organisation_id, e.created_at
		 FROM employee_teams et
		 JOIN employees e ON e.id = et.employee_id
		 WHERE et.team_id = $1 AND e.organisation_id = $2
		 ORDER BY e.id`,
		teamID, orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []models.EmployeeSummary{}
	for rows.Next() {
		var e models.EmployeeSummary
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.OrganisationID, &e.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// EmployeesByTeam maps team id to employees for every link in orgID.
func (r *MembershipRepo) EmployeesByTeam(ctx context.Context, orgID int) (map[int][]models.EmployeeSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT et.team_id, e.id, e.first_name, e.last_name, e.email, e.phone, e.organisation_id, e.created_at
		 FROM employee_teams et
		 JOIN employees e ON e.id = et.employee_id
		 WHERE e.organisation_id = $1
		 ORDER BY et.team_id, e.id`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int][]models.EmployeeSummary)
	for rows.Next() {
		var teamID int
		var e models.EmployeeSummary
		if err := rows.Scan(&teamID, &e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.OrganisationID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out[teamID] = append(out[teamID], e)
	}
	return out, rows.Err()
}
