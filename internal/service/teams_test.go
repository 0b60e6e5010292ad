package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/hrms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamUpdate_RecordsPreviousData(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewTeamService(store, nopLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM teams WHERE id = \$1 AND organisation_id = \$2`).
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows(teamCols).AddRow(2, "Core", "", 1, fixedTime))
	mock.ExpectQuery(`UPDATE teams`).
		WithArgs("Platform", "infra", 2, 1).
		WillReturnRows(sqlmock.NewRows(teamCols).AddRow(2, "Platform", "infra", 1, fixedTime))
	mock.ExpectQuery(`JOIN employees e`).
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows(employeeCols))
	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs(1, 3, "team_updated", "Team", 2, "Updated team: Platform",
			`{"newData":{"name":"Platform","description":"infra"},"previousData":{"name":"Core","description":""},"teamId":2}`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(1, fixedTime))
	mock.ExpectCommit()

	team, err := svc.Update(context.Background(), actor, 2, models.TeamFields{Name: "Platform", Description: "infra"})
	require.NoError(t, err)
	assert.Equal(t, "Platform", team.Name)
	assert.NotNil(t, team.Employees)
}

func TestTeamDelete_Missing(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewTeamService(store, nopLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM teams WHERE id = \$1 AND organisation_id = \$2`).
		WithArgs(9, 1).
		WillReturnRows(sqlmock.NewRows(teamCols))
	mock.ExpectRollback()

	assert.ErrorIs(t, svc.Delete(context.Background(), actor, 9), ErrNotFound)
}

func TestTeamGet_AttachesEmployees(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewTeamService(store, nopLogger())

	mock.ExpectQuery(`FROM teams WHERE id = \$1 AND organisation_id = \$2`).
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows(teamCols).AddRow(2, "Core", "", 1, fixedTime))
	mock.ExpectQuery(`JOIN employees e`).
		WithArgs(2, 1).
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(10, "Ada", "Lovelace", "ada@acme.test", "", 1, fixedTime))

	team, err := svc.Get(context.Background(), actor, 2)
	require.NoError(t, err)
	require.Len(t, team.Employees, 1)
	assert.Equal(t, "Ada", team.Employees[0].FirstName)
}

func TestTeamList_EmptyTeamHasEmptyEmployees(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewTeamService(store, nopLogger())

	mock.ExpectQuery(`FROM teams WHERE organisation_id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(teamCols).AddRow(2, "Core", "", 1, fixedTime))
	mock.ExpectQuery(`JOIN employees e`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(append([]string{"team_id"}, employeeCols...)))

	teams, err := svc.List(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.NotNil(t, teams[0].Employees)
	assert.Empty(t, teams[0].Employees)
}
