package service

import (
	"context"
	"fmt"

	"github.com/crucial707/hrms/internal/auth"
	"github.com/crucial707/hrms/internal/models"
	"github.com/crucial707/hrms/internal/repo"
	"github.com/rs/zerolog"
)

type TeamService struct {
	store  *repo.Store
	logger zerolog.Logger
}

func NewTeamService(store *repo.Store, logger zerolog.Logger) *TeamService {
	return &TeamService{
		store:  store,
		logger: logger.With().Str("component", "teams").Logger(),
	}
}

func (s *TeamService) List(ctx context.Context, actor auth.Identity) ([]models.Team, error) {
	teams, err := s.store.Teams().List(ctx, actor.OrgID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.Memberships().EmployeesByTeam(ctx, actor.OrgID)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		teams[i].Employees = members[teams[i].ID]
		if teams[i].Employees == nil {
			teams[i].Employees = []models.EmployeeSummary{}
		}
	}
	return teams, nil
}

func (s *TeamService) Get(ctx context.Context, actor auth.Identity, id int) (*models.Team, error) {
	t, err := s.store.Teams().Get(ctx, id, actor.OrgID)
	if err != nil {
		return nil, err
	}
	if t.Employees, err = s.store.Memberships().EmployeesOfTeam(ctx, id, actor.OrgID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TeamService) Create(ctx context.Context, actor auth.Identity, f models.TeamFields) (*models.Team, error) {
	var t *models.Team
	err := s.store.WithTx(ctx, func(tx *repo.Store) error {
		var err error
		if t, err = tx.Teams().Create(ctx, actor.OrgID, f); err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		return record(ctx, tx, models.NewLogEntry{
			OrganisationID: actor.OrgID,
			UserID:         intPtr(actor.UserID),
			Action:         models.ActionTeamCreated,
			EntityType:     models.EntityTeam,
			EntityID:       intPtr(t.ID),
			Description:    "Created team: " + t.Name,
			Meta:           f,
		})
	})
	if err != nil {
		return nil, err
	}
	committed(models.ActionTeamCreated)
	t.Employees = []models.EmployeeSummary{}
	return t, nil
}

func (s *TeamService) Update(ctx context.Context, actor auth.Identity, id int, f models.TeamFields) (*models.Team, error) {
	var t *models.Team
	err := s.store.WithTx(ctx, func(tx *repo.Store) error {
		prev, err := tx.Teams().Get(ctx, id, actor.OrgID)
		if err != nil {
			return err
		}
		if t, err = tx.Teams().Update(ctx, id, actor.OrgID, f); err != nil {
			return err
		}
		if t.Employees, err = tx.Memberships().EmployeesOfTeam(ctx, id, actor.OrgID); err != nil {
			return err
		}
		return record(ctx, tx, models.NewLogEntry{
			OrganisationID: actor.OrgID,
			UserID:         intPtr(actor.UserID),
			Action:         models.ActionTeamUpdated,
			EntityType:     models.EntityTeam,
			EntityID:       intPtr(id),
			Description:    "Updated team: " + t.Name,
			Meta: map[string]any{
				"teamId":       id,
				"previousData": models.TeamFields{Name: prev.Name, Description: prev.Description},
				"newData":      f,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	committed(models.ActionTeamUpdated)
	return t, nil
}

// Delete removes the team's membership links and then the team.
func (s *TeamService) Delete(ctx context.Context, actor auth.Identity, id int) error {
	err := s.store.WithTx(ctx, func(tx *repo.Store) error {
		t, err := tx.Teams().Get(ctx, id, actor.OrgID)
		if err != nil {
			return err
		}
		if err := tx.Memberships().DeleteByTeam(ctx, id); err != nil {
			return fmt.Errorf("delete team links: %w", err)
		}
		if err := tx.Teams().Delete(ctx, id, actor.OrgID); err != nil {
			return err
		}
		return record(ctx, tx, models.NewLogEntry{
			OrganisationID: actor.OrgID,
			UserID:         intPtr(actor.UserID),
			Action:         models.ActionTeamDeleted,
			EntityType:     models.EntityTeam,
			EntityID:       intPtr(id),
			Description:    "Deleted team: " + t.Name,
			Meta:           map[string]any{"teamId": id, "teamName": t.Name},
		})
	})
	if err != nil {
		return err
	}
	committed(models.ActionTeamDeleted)
	return nil
}
