package repo

import (
	"context"

	"github.com/crucial707/hrms/internal/models"
)

// EmployeeRepo reads and writes employees. Every statement is scoped by organisation.
type EmployeeRepo struct {
	db DBTX
}

func NewEmployeeRepo(db DBTX) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

const employeeColumns = `id, first_name, last_name, email, phone, organisation_id, created_at`

// ========================
// CREATE EMPLOYEE
// ========================

func (r *EmployeeRepo) Create(ctx context.Context, orgID int, f models.EmployeeFields) (*models.Employee, error) {
	return scanEmployee(r.db.QueryRowContext(ctx,
		`INSERT INTO employees (first_name, last_name, email, phone, organisation_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+employeeColumns,
		f.FirstName, f.LastName, f.Email, f.Phone, orgID,
	))
}

// ========================
// GET EMPLOYEE
// ========================

func (r *EmployeeRepo) Get(ctx context.Context, id, orgID int) (*models.Employee, error) {
	e, err := scanEmployee(r.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1 AND organisation_id = $2`,
		id, orgID,
	))
	return e, notFound(err)
}

// GetForUpdate is Get with a row lock; only meaningful inside a transaction.
func (r *EmployeeRepo) GetForUpdate(ctx context.Context, id, orgID int) (*models.Employee, error) {
	e, err := scanEmployee(r.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1 AND organisation_id = $2 FOR UPDATE`,
		id, orgID,
	))
	return e, notFound(err)
}

// ========================
// UPDATE EMPLOYEE
// ========================

func (r *EmployeeRepo) Update(ctx context.Context, id, orgID int, f models.EmployeeFields) (*models.Employee, error) {
	e, err := scanEmployee(r.db.QueryRowContext(ctx,
		`UPDATE employees
		 SET first_name = $1, last_name = $2, email = $3, phone = $4
		 WHERE id = $5 AND organisation_id = $6
		 RETURNING `+employeeColumns,
		f.FirstName, f.LastName, f.Email, f.Phone, id, orgID,
	))
	return e, notFound(err)
}

// ========================
// DELETE EMPLOYEE
// ========================

// Delete removes the employee row only; links must be removed first.
func (r *EmployeeRepo) Delete(ctx context.Context, id, orgID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM employees WHERE id = $1 AND organisation_id = $2`,
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

// ========================
// LIST EMPLOYEES
// ========================

func (r *EmployeeRepo) List(ctx context.Context, orgID int) ([]models.Employee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE organisation_id = $1 ORDER BY id`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

func scanEmployee(row interface{ Scan(...any) error }) (*models.Employee, error) {
	e := &models.Employee{}
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.OrganisationID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}
