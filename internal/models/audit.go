package models

import (
	"encoding/json"
	"time"
)

// Action is the closed set of audited operations. Stored as text so a new
// action only needs a constant here, not a migration.
type Action string

const (
	ActionUserRegistered Action = "user_registered"
	ActionUserLoggedIn   Action = "user_logged_in"
	ActionUserLoggedOut  Action = "user_logged_out"

	ActionEmployeeCreated Action = "employee_created"
	ActionEmployeeUpdated Action = "employee_updated"
	ActionEmployeeDeleted Action = "employee_deleted"

	ActionTeamCreated Action = "team_created"
	ActionTeamUpdated Action = "team_updated"
	ActionTeamDeleted Action = "team_deleted"

	ActionEmployeeAssignedToTeam     Action = "employee_assigned_to_team"
	ActionEmployeeUnassignedFromTeam Action = "employee_unassigned_from_team"
	ActionTeamAssignmentsUpdated     Action = "team_assignments_updated"

	ActionLogsCleared       Action = "logs_cleared"
	ActionLogsClearedByDate Action = "logs_cleared_by_date"
)

var actions = map[Action]struct{}{
	ActionUserRegistered:             {},
	ActionUserLoggedIn:               {},
	ActionUserLoggedOut:              {},
	ActionEmployeeCreated:            {},
	ActionEmployeeUpdated:            {},
	ActionEmployeeDeleted:            {},
	ActionTeamCreated:                {},
	ActionTeamUpdated:                {},
	ActionTeamDeleted:                {},
	ActionEmployeeAssignedToTeam:     {},
	ActionEmployeeUnassignedFromTeam: {},
	ActionTeamAssignmentsUpdated:     {},
	ActionLogsCleared:                {},
	ActionLogsClearedByDate:          {},
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	_, ok := actions[a]
	return ok
}

// EntityType names the kind of record an audit entry is about.
type EntityType string

const (
	EntityOrganisation EntityType = "Organisation"
	EntityUser         EntityType = "User"
	EntityEmployee     EntityType = "Employee"
	EntityTeam         EntityType = "Team"
	EntityLog          EntityType = "Log"
)

func (e EntityType) Valid() bool {
	switch e {
	case EntityOrganisation, EntityUser, EntityEmployee, EntityTeam, EntityLog:
		return true
	}
	return false
}

// LogEntry is one immutable audit row.
type LogEntry struct {
	ID             int             `json:"id"`
	OrganisationID int             `json:"organisationId"`
	UserID         *int            `json:"userId"` // nil for scheduled retention entries
	Action         Action          `json:"action"`
	EntityType     *EntityType     `json:"entityType"`
	EntityID       *int            `json:"entityId"`
	Description    string          `json:"description"`
	Meta           json.RawMessage `json:"meta"`
	Timestamp      time.Time       `json:"timestamp"`
	User           *UserSummary    `json:"user,omitempty"`
}

// NewLogEntry describes an entry to append. Meta is any JSON-encodable value.
type NewLogEntry struct {
	OrganisationID int
	UserID         *int
	Action         Action
	EntityType     EntityType
	EntityID       *int
	Description    string
	Meta           any
}

// LogFilter selects audit entries. Page is 1-based.
type LogFilter struct {
	Action     Action
	EntityType EntityType
	Page       int
	Limit      int
}

// ActionCount is one row of the per-action statistics.
type ActionCount struct {
	Action Action `json:"action"`
	Count  int    `json:"count"`
}
