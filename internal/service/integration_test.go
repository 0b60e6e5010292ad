//go:build integration

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/crucial707/hrms/internal/auth"
	"github.com/crucial707/hrms/internal/db"
	"github.com/crucial707/hrms/internal/models"
	"github.com/crucial707/hrms/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type fixture struct {
	db        *sql.DB
	auth      *AuthService
	employees *EmployeeService
	teams     *TeamService
	audit     *AuditService
}

func setupPostgres(t *testing.T) *fixture {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("hrms"),
		postgres.WithUsername("hrms"),
		postgres.WithPassword("hrms"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	_, err = db.Migrate(dsn)
	require.NoError(t, err)

	pool, err := db.Connect(ctx, dsn, db.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	store := repo.NewStore(pool)
	logger := nopLogger()
	return &fixture{
		db:        pool,
		auth:      NewAuthService(store, auth.NewTokenManager("integration-secret", auth.DefaultTTL, "hrms"), logger),
		employees: NewEmployeeService(store, logger),
		teams:     NewTeamService(store, logger),
		audit:     NewAuditService(store, logger),
	}
}

func (f *fixture) register(t *testing.T, org, email string) auth.Identity {
	t.Helper()
	sess, err := f.auth.Register(context.Background(), RegisterInput{
		OrgName: org, AdminName: "Admin", Email: email, Password: "secret1",
	})
	require.NoError(t, err)
	return auth.Identity{UserID: sess.User.ID, OrgID: sess.Organisation.ID}
}

func (f *fixture) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow(query, args...).Scan(&n))
	return n
}

func TestIntegration_TenantIsolation(t *testing.T) {
	f := setupPostgres(t)
	ctx := context.Background()

	acme := f.register(t, "Acme", "admin@acme.test")
	globex := f.register(t, "Globex", "admin@globex.test")

	e, err := f.employees.Create(ctx, acme, models.EmployeeFields{FirstName: "Ada", LastName: "Lovelace", Email: "ada@acme.test"})
	require.NoError(t, err)

	_, err = f.employees.Get(ctx, globex, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.employees.Delete(ctx, globex, e.ID), ErrNotFound)

	list, err := f.employees.List(ctx, globex)
	require.NoError(t, err)
	assert.Empty(t, list)

	page, err := f.audit.Query(ctx, globex, models.LogFilter{})
	require.NoError(t, err)
	for _, entry := range page.Entries {
		assert.Equal(t, globex.OrgID, entry.OrganisationID)
	}
}

func TestIntegration_DuplicateRegistrationLeavesNothing(t *testing.T) {
	f := setupPostgres(t)

	f.register(t, "Acme", "admin@acme.test")
	before := f.count(t, `SELECT COUNT(*) FROM organisations`)

	_, err := f.auth.Register(context.Background(), RegisterInput{
		OrgName: "Copycat", AdminName: "Admin", Email: "admin@acme.test", Password: "secret1",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, before, f.count(t, `SELECT COUNT(*) FROM organisations`))
}

func TestIntegration_AssignRejectsForeignTeam(t *testing.T) {
	f := setupPostgres(t)
	ctx := context.Background()

	acme := f.register(t, "Acme", "admin@acme.test")
	globex := f.register(t, "Globex", "admin@globex.test")

	own, err := f.teams.Create(ctx, acme, models.TeamFields{Name: "Core"})
	require.NoError(t, err)
	foreign, err := f.teams.Create(ctx, globex, models.TeamFields{Name: "Sales"})
	require.NoError(t, err)
	e, err := f.employees.Create(ctx, acme, models.EmployeeFields{FirstName: "Ada", LastName: "Lovelace", Email: "ada@acme.test"})
	require.NoError(t, err)

	_, err = f.employees.AssignTeams(ctx, acme, e.ID, []int{own.ID})
	require.NoError(t, err)

	_, err = f.employees.AssignTeams(ctx, acme, e.ID, []int{own.ID, foreign.ID})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	teams, err := f.employees.Teams(ctx, acme, e.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, own.ID, teams[0].ID)

	require.NoError(t, f.teams.Delete(ctx, acme, own.ID))
	teams, err = f.employees.Teams(ctx, acme, e.ID)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestIntegration_AssignTeamsIdempotent(t *testing.T) {
	f := setupPostgres(t)
	ctx := context.Background()

	acme := f.register(t, "Acme", "admin@acme.test")
	a, err := f.teams.Create(ctx, acme, models.TeamFields{Name: "Core"})
	require.NoError(t, err)
	b, err := f.teams.Create(ctx, acme, models.TeamFields{Name: "Platform"})
	require.NoError(t, err)
	e, err := f.employees.Create(ctx, acme, models.EmployeeFields{FirstName: "Bo", LastName: "Lee", Email: "bo@acme.test"})
	require.NoError(t, err)

	first, err := f.employees.AssignTeams(ctx, acme, e.ID, []int{a.ID, b.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{a.ID, b.ID}, first.Added)
	before, err := f.employees.Teams(ctx, acme, e.ID)
	require.NoError(t, err)

	second, err := f.employees.AssignTeams(ctx, acme, e.ID, []int{b.ID, a.ID})
	require.NoError(t, err)
	assert.Empty(t, second.Added)
	assert.Empty(t, second.Removed)
	after, err := f.employees.Teams(ctx, acme, e.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 2, f.count(t, `SELECT COUNT(*) FROM employee_teams WHERE employee_id = $1`, e.ID))
}

func TestIntegration_ClearAllLeavesOneEntry(t *testing.T) {
	f := setupPostgres(t)
	ctx := context.Background()

	acme := f.register(t, "Acme", "admin@acme.test")
	for _, name := range []string{"Core", "Platform", "Sales"} {
		_, err := f.teams.Create(ctx, acme, models.TeamFields{Name: name})
		require.NoError(t, err)
	}

	n, err := f.audit.ClearAll(ctx, acme)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	page, err := f.audit.Query(ctx, acme, models.LogFilter{})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, models.ActionLogsCleared, page.Entries[0].Action)
	require.NotNil(t, page.Entries[0].User)
	assert.Equal(t, acme.UserID, page.Entries[0].User.ID)
}

func TestIntegration_RetentionKeepsRecentEntries(t *testing.T) {
	f := setupPostgres(t)
	ctx := context.Background()

	acme := f.register(t, "Acme", "admin@acme.test")
	_, err := f.db.Exec(`UPDATE audit_logs SET timestamp = NOW() - INTERVAL '100 days' WHERE organisation_id = $1`, acme.OrgID)
	require.NoError(t, err)
	_, err = f.teams.Create(ctx, acme, models.TeamFields{Name: "Core"})
	require.NoError(t, err)

	n, err := f.audit.PruneOlderThan(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stats, err := f.audit.Stats(ctx, acme, 30)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.ActionCount{
		{Action: models.ActionTeamCreated, Count: 1},
		{Action: models.ActionLogsClearedByDate, Count: 1},
	}, stats)
}
