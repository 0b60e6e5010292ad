package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMembershipRepo_Replace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM employee_teams WHERE employee_id = \$1`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO employee_teams \(employee_id, team_id\) SELECT \$1, unnest\(\$2::int\[\]\)`).
		WithArgs(4, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := NewMembershipRepo(db).Replace(context.Background(), 4, []int{1, 2, 3}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMembershipRepo_ReplaceWithEmptySetOnlyDeletes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM employee_teams WHERE employee_id = \$1`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := NewMembershipRepo(db).Replace(context.Background(), 4, nil); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMembershipRepo_TeamsByEmployee(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM employee_teams et\s+JOIN teams t`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "id", "name", "description", "organisation_id", "created_at"}).
			AddRow(10, 1, "Core", "", 1, now).
			AddRow(10, 2, "Infra", "", 1, now).
			AddRow(11, 2, "Infra", "", 1, now))

	byEmployee, err := NewMembershipRepo(db).TeamsByEmployee(context.Background(), 1)
	if err != nil {
		t.Fatalf("TeamsByEmployee: %v", err)
	}
	if len(byEmployee[10]) != 2 || len(byEmployee[11]) != 1 {
		t.Errorf("unexpected grouping: %+v", byEmployee)
	}
	if byEmployee[11][0].Name != "Infra" {
		t.Errorf("unexpected team: %+v", byEmployee[11][0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
