package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crucial707/hrms/internal/auth"
	"github.com/crucial707/hrms/internal/db"
	"github.com/crucial707/hrms/internal/models"
	"github.com/crucial707/hrms/internal/repo"
	"github.com/crucial707/hrms/internal/service"
	"github.com/spf13/cobra"
)

type seedOptions struct {
	OrgName  string
	Admin    string
	Email    string
	Password string
}

func seedCmd() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo organisation with an admin, teams and employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			database, err := db.Connect(ctx, cfg.DSN(), db.Options{})
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer database.Close()

			store := repo.NewStore(database)
			svc := newServices(store, cfg, logger)
			if err := seed(ctx, svc, opts); err != nil {
				return err
			}
			logger.Info().Str("email", opts.Email).Msg("seed data created")
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.OrgName, "org", "Demo Company", "organisation name")
	cmd.Flags().StringVar(&opts.Admin, "admin", "Demo Admin", "admin user name")
	cmd.Flags().StringVar(&opts.Email, "email", "admin@demo.com", "admin email")
	cmd.Flags().StringVar(&opts.Password, "password", "password123", "admin password")
	return cmd
}

// seed goes through the services so every demo record gets its audit entry.
func seed(ctx context.Context, svc services, opts seedOptions) error {
	sess, err := svc.Auth.Register(ctx, service.RegisterInput{
		OrgName:   opts.OrgName,
		AdminName: opts.Admin,
		Email:     opts.Email,
		Password:  opts.Password,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		return fmt.Errorf("seed: %s is already registered", opts.Email)
	}
	if err != nil {
		return fmt.Errorf("seed: register: %w", err)
	}
	actor := auth.Identity{UserID: sess.User.ID, OrgID: sess.Organisation.ID}

	teamIDs := make(map[string]int)
	for _, t := range []models.TeamFields{
		{Name: "Engineering", Description: "Product and platform development"},
		{Name: "People", Description: "HR and recruiting"},
	} {
		team, err := svc.Teams.Create(ctx, actor, t)
		if err != nil {
			return fmt.Errorf("seed: team %s: %w", t.Name, err)
		}
		teamIDs[t.Name] = team.ID
	}

	for _, e := range []struct {
		fields models.EmployeeFields
		teams  []string
	}{
		{models.EmployeeFields{FirstName: "John", LastName: "Doe", Email: "john.doe@demo.com", Phone: "555-0101"}, []string{"Engineering"}},
		{models.EmployeeFields{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@demo.com", Phone: "555-0102"}, []string{"Engineering", "People"}},
	} {
		emp, err := svc.Employees.Create(ctx, actor, e.fields)
		if err != nil {
			return fmt.Errorf("seed: employee %s: %w", e.fields.Email, err)
		}
		ids := make([]int, 0, len(e.teams))
		for _, name := range e.teams {
			ids = append(ids, teamIDs[name])
		}
		if _, err := svc.Employees.AssignTeams(ctx, actor, emp.ID, ids); err != nil {
			return fmt.Errorf("seed: assign %s: %w", e.fields.Email, err)
		}
	}
	return nil
}
