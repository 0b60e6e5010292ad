package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/hrms/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployeeHandler(t *testing.T) (*EmployeeHandler, sqlmock.Sqlmock) {
	store, mock := newStore(t)
	return &EmployeeHandler{Service: service.NewEmployeeService(store, nopLogger())}, mock
}

func TestEmployeeHandler_Get(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	mock.ExpectQuery(`FROM employees WHERE id = \$1 AND organisation_id = \$2`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(10, "Bo", "Berg", "bo@acme.test", "", 1, testTime))
	mock.ExpectQuery(`JOIN teams t`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "organisation_id", "created_at"}).
			AddRow(2, "Core", "", 1, testTime))

	rr := httptest.NewRecorder()
	h.Get(rr, authed(requestWithChiURLParams(http.MethodGet, "/api/employees/10", nil, map[string]string{"id": "10"})))

	require.Equal(t, http.StatusOK, rr.Code)
	var got struct {
		ID    int `json:"id"`
		Teams []struct {
			Name string `json:"name"`
		} `json:"teams"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, 10, got.ID)
	require.Len(t, got.Teams, 1)
	assert.Equal(t, "Core", got.Teams[0].Name)
}

func TestEmployeeHandler_Get_OtherTenant(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	mock.ExpectQuery(`FROM employees WHERE id = \$1 AND organisation_id = \$2`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows(employeeCols))

	rr := httptest.NewRecorder()
	h.Get(rr, authed(requestWithChiURLParams(http.MethodGet, "/api/employees/10", nil, map[string]string{"id": "10"})))

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Employee not found", decodeError(t, rr).Error)
}

func TestEmployeeHandler_Get_BadID(t *testing.T) {
	h, _ := newEmployeeHandler(t)

	rr := httptest.NewRecorder()
	h.Get(rr, authed(requestWithChiURLParams(http.MethodGet, "/api/employees/abc", nil, map[string]string{"id": "abc"})))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEmployeeHandler_Create(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO employees`).
		WithArgs("Bo", "Berg", "bo@acme.test", "555-0100", 1).
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(11, "Bo", "Berg", "bo@acme.test", "555-0100", 1, testTime))
	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs(1, 3, "employee_created", "Employee", 11, "Created employee: Bo Berg", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(1, testTime))
	mock.ExpectCommit()

	body := mustJSON(t, map[string]string{
		"firstName": "Bo", "lastName": "Berg", "email": "bo@acme.test", "phone": "555-0100",
	})
	rr := httptest.NewRecorder()
	h.Create(rr, authed(httptest.NewRequest(http.MethodPost, "/api/employees", bytesReader(body))))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"firstName":"Bo"`)
}

func TestEmployeeHandler_Create_Validation(t *testing.T) {
	h, _ := newEmployeeHandler(t)

	rr := httptest.NewRecorder()
	h.Create(rr, authed(httptest.NewRequest(http.MethodPost, "/api/employees", bytesReader([]byte(`{"firstName":"Bo"}`)))))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	fields := decodeError(t, rr).Fields
	assert.Equal(t, "required", fields["lastName"])
	assert.Equal(t, "required", fields["email"])
}

func TestEmployeeHandler_AssignTeams_ForeignTeam(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(10, "Bo", "Berg", "bo@acme.test", "", 1, testTime))
	mock.ExpectQuery(`SELECT team_id FROM employee_teams`).
		WillReturnRows(sqlmock.NewRows([]string{"team_id"}))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM teams`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	rr := httptest.NewRecorder()
	h.AssignTeams(rr, authed(requestWithChiURLParams(http.MethodPut, "/api/employees/10/teams",
		[]byte(`{"teamIds":[1,99]}`), map[string]string{"id": "10"})))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Some teams not found or don't belong to your organisation", decodeError(t, rr).Error)
}

func TestEmployeeHandler_AssignTeams_Replaces(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(10, "Bo", "Berg", "bo@acme.test", "", 1, testTime))
	mock.ExpectQuery(`SELECT team_id FROM employee_teams`).
		WillReturnRows(sqlmock.NewRows([]string{"team_id"}).AddRow(1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM teams`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM employee_teams`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO employee_teams`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(1, testTime))
	mock.ExpectCommit()

	rr := httptest.NewRecorder()
	h.AssignTeams(rr, authed(requestWithChiURLParams(http.MethodPut, "/api/employees/10/teams",
		[]byte(`{"teamIds":[2]}`), map[string]string{"id": "10"})))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"message":"Team assignments updated successfully","teamIds":[2],"added":[2],"removed":[1]}`, rr.Body.String())
}

func TestEmployeeHandler_AssignTeams_MissingList(t *testing.T) {
	h, _ := newEmployeeHandler(t)

	rr := httptest.NewRecorder()
	h.AssignTeams(rr, authed(requestWithChiURLParams(http.MethodPut, "/api/employees/10/teams",
		[]byte(`{}`), map[string]string{"id": "10"})))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr).Fields, "teamIds")
}

func TestEmployeeHandler_Teams(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	mock.ExpectQuery(`FROM employees WHERE id = \$1 AND organisation_id = \$2`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(10, "Bo", "Berg", "bo@acme.test", "", 1, testTime))
	mock.ExpectQuery(`JOIN teams t`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "organisation_id", "created_at"}).
			AddRow(2, "Core", "", 1, testTime).
			AddRow(3, "Platform", "infra", 1, testTime))

	rr := httptest.NewRecorder()
	h.Teams(rr, authed(requestWithChiURLParams(http.MethodGet, "/api/employees/10/teams", nil, map[string]string{"id": "10"})))

	require.Equal(t, http.StatusOK, rr.Code)
	var got []struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Len(t, got, 2)
}

func TestEmployeeHandler_Teams_OtherTenant(t *testing.T) {
	h, mock := newEmployeeHandler(t)

	mock.ExpectQuery(`FROM employees WHERE id = \$1 AND organisation_id = \$2`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows(employeeCols))

	rr := httptest.NewRecorder()
	h.Teams(rr, authed(requestWithChiURLParams(http.MethodGet, "/api/employees/10/teams", nil, map[string]string{"id": "10"})))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
