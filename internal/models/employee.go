package models

import "time"

type Employee struct {
	ID             int       `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	OrganisationID int       `json:"organisationId"`
	CreatedAt      time.Time `json:"createdAt"`

	// Teams is always encoded; an employee without teams gives [].
	Teams []TeamSummary `json:"teams"`
}

// FullName is used in audit descriptions.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeFields are the caller-supplied columns for create and update.
type EmployeeFields struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// EmployeeSummary is an employee as embedded in a team, without their team list.
type EmployeeSummary struct {
	ID             int       `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	OrganisationID int       `json:"organisationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (e EmployeeSummary) FullName() string {
	return e.FirstName + " " + e.LastName
}
