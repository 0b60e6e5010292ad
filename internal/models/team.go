package models

import "time"

type Team struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	OrganisationID int       `json:"organisationId"`
	CreatedAt      time.Time `json:"createdAt"`

	// Employees is always encoded; an empty team gives [].
	Employees []EmployeeSummary `json:"employees"`
}

type TeamFields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TeamSummary is a team as embedded in an employee, without its member list.
type TeamSummary struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	OrganisationID int       `json:"organisationId"`
	CreatedAt      time.Time `json:"createdAt"`
}
