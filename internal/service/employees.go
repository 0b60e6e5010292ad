package service

import (
	"context"
	"fmt"

	"github.com/crucial707/hrms/internal/auth"
	"github.com/crucial707/hrms/internal/models"
	"github.com/crucial707/hrms/internal/repo"
	"github.com/rs/zerolog"
)

// EmployeeService implements tenant-scoped employee operations and team assignment.
type EmployeeService struct {
	store  *repo.Store
	logger zerolog.Logger
}

func NewEmployeeService(store *repo.Store, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{
		store:  store,
		logger: logger.With().Str("component", "employees").Logger(),
	}
}

// Assignment is the outcome of AssignTeams. Added and Removed are informational.
type Assignment struct {
	TeamIDs []int `json:"teamIds"`
	Added   []int `json:"added"`
	Removed []int `json:"removed"`
}

func (s *EmployeeService) List(ctx context.Context, actor auth.Identity) ([]models.Employee, error) {
	employees, err := s.store.Employees().List(ctx, actor.OrgID)
	if err != nil {
		return nil, err
	}
	teams, err := s.store.Memberships().TeamsByEmployee(ctx, actor.OrgID)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		employees[i].Teams = teams[employees[i].ID]
		if employees[i].Teams == nil {
			employees[i].Teams = []models.TeamSummary{}
		}
	}
	return employees, nil
}

func (s *EmployeeService) Get(ctx context.Context, actor auth.Identity, id int) (*models.Employee, error) {
	e, err := s.store.Employees().Get(ctx, id, actor.OrgID)
	if err != nil {
		return nil, err
	}
	if e.Teams, err = s.store.Memberships().TeamsOfEmployee(ctx, id, actor.OrgID); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EmployeeService) Create(ctx context.Context, actor auth.Identity, f models.EmployeeFields) (*models.Employee, error) {
	var e *models.Employee
	err := s.store.WithTx(ctx, func(tx *repo.Store) error {
		var err error
		if e, err = tx.Employees().Create(ctx, actor.OrgID, f); err != nil {
			return fmt.Errorf("create employee: %w", err)
		}
		return record(ctx, tx, models.NewLogEntry{
			OrganisationID: actor.OrgID,
			UserID:         intPtr(actor.UserID),
			Action:         models.ActionEmployeeCreated,
			EntityType:     models.EntityEmployee,
			EntityID:       intPtr(e.ID),
			Description:    "Created employee: " + e.FullName(),
			Meta:           f,
		})
	})
	if err != nil {
		return nil, err
	}
	committed(models.ActionEmployeeCreated)
	e.Teams = []models.TeamSummary{}
	return e, nil
}

func (s *EmployeeService) Update(ctx context.Context, actor auth.Identity, id int, f models.EmployeeFields) (*models.Employee, error) {
	var e *models.Employee
	err := s.store.WithTx(ctx, func(tx *repo.Store) error {
		prev, err := tx.Employees().GetForUpdate(ctx, id, actor.OrgID)
		if err != nil {
			return err
		}
		if e, err = tx.Employees().Update(ctx, id, actor.OrgID, f); err != nil {
			return err
		}
		if e.Teams, err = tx.Memberships().TeamsOfEmployee(ctx, id, actor.OrgID); err != nil {
			return err
		}
		return record(ctx, tx, models.NewLogEntry{
			OrganisationID: actor.OrgID,
			UserID:         intPtr(actor.UserID),
			Action:         models.ActionEmployeeUpdated,
			EntityType:     models.EntityEmployee,
			EntityID:       intPtr(id),
			Description:    "Updated employee: " + e.FullName(),
			Meta: map[string]any{
				"employeeId": id,
				"previousData": models.EmployeeFields{
					FirstName: prev.FirstName,
					LastName:  prev.LastName,
					Email:     prev.Email,
					Phone:     prev.Phone,
				},
				"newData": f,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	committed(models.ActionEmployeeUpdated)
	return e, nil
}

// Delete removes the employee's team links and then the employee, atomically.
func (s *EmployeeService) Delete(ctx context.Context, actor auth.Identity, id int) error {
	err := s.store.WithTx(ctx, func(tx *repo.Store) error {
		e, err := tx.Employees().GetForUpdate(ctx, id, actor.OrgID)
		if err != nil {
			return err
		}
		if err := tx.Memberships().DeleteByEmployee(ctx, id); err != nil {
			return fmt.Errorf("delete team links: %w", err)
		}
		if err := tx.Employees().Delete(ctx, id, actor.OrgID); err != nil {
			return err
		}
		return record(ctx, tx, models.NewLogEntry{
			OrganisationID: actor.OrgID,
			UserID:         intPtr(actor.UserID),
			Action:         models.ActionEmployeeDeleted,
			EntityType:     models.EntityEmployee,
			EntityID:       intPtr(id),
			Description:    "Deleted employee: " + e.FullName(),
			Meta: map[string]any{
				"employeeId":   id,
				"employeeName": e.FullName(),
				"email":        e.Email,
			},
		})
	})
	if err != nil {
		return err
	}
	committed(models.ActionEmployeeDeleted)
	return nil
}

// AssignTeams replaces the employee's team set with teamIDs. Every id must
// name a team of the caller's organisation or nothing is written.
func (s *EmployeeService) AssignTeams(ctx context.Context, actor auth.Identity, id int, teamIDs []int) (*Assignment, error) {
	requested := uniqueIDs(teamIDs)

	var out *Assignment
	err := s.store.WithTx(ctx, func(tx *repo.Store) error {
		e, err := tx.Employees().GetForUpdate(ctx, id, actor.OrgID)
		if err != nil {
			return err
		}
		current, err := tx.Memberships().TeamIDs(ctx, id)
		if err != nil {
			return err
		}

		found, err := tx.Teams().CountInOrg(ctx, requested, actor.OrgID)
		if err != nil {
			return err
		}
		if found < len(requested) {
			return invalid("Some teams not found or don't belong to your organisation")
		}

		if err := tx.Memberships().Replace(ctx, id, requested); err != nil {
			return fmt.Errorf("replace team links: %w", err)
		}

		added, removed := diffIDs(current, requested)
		out = &Assignment{TeamIDs: requested, Added: added, Removed: removed}

		return record(ctx, tx, models.NewLogEntry{
			OrganisationID: actor.OrgID,
			UserID:         intPtr(actor.UserID),
			Action:         models.ActionTeamAssignmentsUpdated,
			EntityType:     models.EntityEmployee,
			EntityID:       intPtr(id),
			Description:    "Updated team assignments for " + e.FullName(),
			Meta: map[string]any{
				"employeeId":         id,
				"employeeName":       e.FullName(),
				"previousTeams":      current,
				"newTeams":           requested,
				"addedTeams":         added,
				"removedTeams":       removed,
				"totalTeamsAssigned": len(requested),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	committed(models.ActionTeamAssignmentsUpdated)

	s.logger.Debug().Int("employee_id", id).Ints("teams", requested).Msg("team assignments replaced")
	return out, nil
}

// Teams lists the teams of one employee.
func (s *EmployeeService) Teams(ctx context.Context, actor auth.Identity, id int) ([]models.TeamSummary, error) {
	if _, err := s.store.Employees().Get(ctx, id, actor.OrgID); err != nil {
		return nil, err
	}
	return s.store.Memberships().TeamsOfEmployee(ctx, id, actor.OrgID)
}
