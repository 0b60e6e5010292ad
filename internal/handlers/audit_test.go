package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/hrms/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logCols = []string{"id", "organisation_id", "user_id", "action", "entity_type", "entity_id",
	"description", "meta", "timestamp", "u_id", "u_name", "u_email"}

func newAuditHandler(t *testing.T) (*AuditHandler, sqlmock.Sqlmock) {
	store, mock := newStore(t)
	return &AuditHandler{Service: service.NewAuditService(store, nopLogger())}, mock
}

func TestAuditHandler_List(t *testing.T) {
	h, mock := newAuditHandler(t)

	mock.ExpectQuery(`FROM audit_logs l`).
		WithArgs(1, "Employee", 2, 2).
		WillReturnRows(sqlmock.NewRows(logCols).
			AddRow(9, 1, 3, "employee_created", "Employee", 10, "Created employee: Bo Berg",
				`{"firstName":"Bo"}`, testTime, 3, "Ana", "ana@acme.test"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_logs l`).
		WithArgs(1, "Employee").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rr := httptest.NewRecorder()
	h.List(rr, authed(httptest.NewRequest(http.MethodGet, "/api/logs?page=2&limit=2&entityType=Employee", nil)))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var out struct {
		Logs []struct {
			Action string          `json:"action"`
			Meta   json.RawMessage `json:"meta"`
			User   struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"logs"`
		Pagination pagination `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assert.Equal(t, pagination{Page: 2, Limit: 2, Total: 3, Pages: 2}, out.Pagination)
	require.Len(t, out.Logs, 1)
	assert.Equal(t, "Ana", out.Logs[0].User.Name)
	assert.JSONEq(t, `{"firstName":"Bo"}`, string(out.Logs[0].Meta))
}

func TestAuditHandler_List_UnknownAction(t *testing.T) {
	h, _ := newAuditHandler(t)

	rr := httptest.NewRecorder()
	h.List(rr, authed(httptest.NewRequest(http.MethodGet, "/api/logs?action=drop_tables", nil)))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr).Fields, "action")
}

func TestAuditHandler_Stats(t *testing.T) {
	h, mock := newAuditHandler(t)

	mock.ExpectQuery(`GROUP BY action`).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"action", "count"}).AddRow("employee_created", 2))

	rr := httptest.NewRecorder()
	h.Stats(rr, authed(httptest.NewRequest(http.MethodGet, "/api/logs/stats?days=7", nil)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"action":"employee_created","count":2}]`, rr.Body.String())
}

func TestAuditHandler_Clear(t *testing.T) {
	h, mock := newAuditHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM audit_logs WHERE organisation_id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs(1, 3, "logs_cleared", "Log", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(1, testTime))
	mock.ExpectCommit()

	rr := httptest.NewRecorder()
	h.Clear(rr, authed(httptest.NewRequest(http.MethodDelete, "/api/logs/clear", nil)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Successfully cleared 5 log entries","logsCleared":5}`, rr.Body.String())
}

func TestAuditHandler_ClearOld_DefaultsTo30Days(t *testing.T) {
	h, mock := newAuditHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM audit_logs WHERE organisation_id = \$1 AND timestamp < \$2`).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs(1, 3, "logs_cleared_by_date", "Log", nil, "Cleared logs older than 30 days (2 entries)", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(1, testTime))
	mock.ExpectCommit()

	rr := httptest.NewRecorder()
	h.ClearOld(rr, authed(httptest.NewRequest(http.MethodDelete, "/api/logs/clear-old", nil)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var out map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assert.EqualValues(t, 30, out["days"])
	assert.EqualValues(t, 2, out["logsCleared"])
}

func TestAuditHandler_ClearOld_EmptyChunkedBody(t *testing.T) {
	h, mock := newAuditHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM audit_logs WHERE organisation_id = \$1 AND timestamp < \$2`).
		WithArgs(1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO audit_logs`).
		WithArgs(1, 3, "logs_cleared_by_date", "Log", nil, "Cleared logs older than 30 days (0 entries)", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(1, testTime))
	mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodDelete, "/api/logs/clear-old", bytesReader(nil))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}

	rr := httptest.NewRecorder()
	h.ClearOld(rr, authed(req))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var out map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assert.EqualValues(t, 30, out["days"])
}

func TestAuditHandler_ClearOld_InvalidDays(t *testing.T) {
	h, _ := newAuditHandler(t)

	rr := httptest.NewRecorder()
	h.ClearOld(rr, authed(httptest.NewRequest(http.MethodDelete, "/api/logs/clear-old", bytesReader([]byte(`{"days":0}`)))))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr).Fields, "days")
}

func TestAuditHandler_InternalErrorHidesCause(t *testing.T) {
	h, mock := newAuditHandler(t)

	mock.ExpectQuery(`GROUP BY action`).WillReturnError(errors.New("connection reset"))

	rr := httptest.NewRecorder()
	h.Stats(rr, authed(httptest.NewRequest(http.MethodGet, "/api/logs/stats", nil)))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, ErrMessageInternal, decodeError(t, rr).Error)
}
