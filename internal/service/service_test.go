package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/hrms/internal/auth"
	"github.com/crucial707/hrms/internal/repo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var (
	actor     = auth.Identity{UserID: 3, OrgID: 1}
	fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	employeeCols = []string{"id", "first_name", "last_name", "email", "phone", "organisation_id", "created_at"}
	teamCols     = []string{"id", "name", "description", "organisation_id", "created_at"}
	userCols     = []string{"id", "name", "email", "password_hash", "organisation_id", "created_at"}
)

func newMockStore(t *testing.T) (*repo.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return repo.NewStore(db), mock
}

func expectAppend(mock sqlmock.Sqlmock, action string) {
	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), action, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(100, fixedTime))
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
