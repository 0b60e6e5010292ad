package teams

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/crucial707/hrms/cmd/cli/config"
	"github.com/crucial707/hrms/cmd/cli/output"
	"github.com/crucial707/hrms/internal/models"
	"github.com/spf13/cobra"
)

// InitTeams registers the teams command group on the root command.
func InitTeams(rootCmd *cobra.Command) {
	teamsCmd := &cobra.Command{
		Use:     "teams",
		Aliases: []string{"team"},
		Short:   "Manage teams",
	}
	teamsCmd.AddCommand(listTeamsCmd(), getTeamCmd(), createTeamCmd(), updateTeamCmd(), deleteTeamCmd())
	rootCmd.AddCommand(teamsCmd)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func teamRows(teams []models.Team) [][]any {
	rows := make([][]any, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, []any{t.ID, t.Name, t.Description, len(t.Employees)})
	}
	return rows
}

var teamHeaders = []string{"ID", "Name", "Description", "Members"}

func listTeamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List teams in your organisation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			var teams []models.Team
			if err := sess.Do(cmd.Context(), http.MethodGet, "/api/teams", nil, nil, &teams); err != nil {
				return err
			}
			if output.WantJSON(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), teams)
			}
			if len(teams) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No teams found.")
				return nil
			}
			output.RenderTable(cmd.OutOrStdout(), teamHeaders, teamRows(teams))
			return nil
		},
	}
	output.AddJSONFlag(cmd)
	return cmd
}

func getTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one team and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			var t models.Team
			if err := sess.Do(cmd.Context(), http.MethodGet, fmt.Sprintf("/api/teams/%d", id), nil, nil, &t); err != nil {
				return err
			}
			if output.WantJSON(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), t)
			}
			output.RenderTable(cmd.OutOrStdout(), teamHeaders, teamRows([]models.Team{t}))
			if len(t.Employees) > 0 {
				rows := make([][]any, 0, len(t.Employees))
				for _, e := range t.Employees {
					rows = append(rows, []any{e.ID, e.FullName(), e.Email})
				}
				output.RenderTable(cmd.OutOrStdout(), []string{"Employee ID", "Name", "Email"}, rows)
			}
			return nil
		},
	}
	output.AddJSONFlag(cmd)
	return cmd
}

func createTeamCmd() *cobra.Command {
	var fields models.TeamFields
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			var t models.Team
			if err := sess.Do(cmd.Context(), http.MethodPost, "/api/teams", nil, fields, &t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created team %d: %s\n", t.ID, t.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&fields.Name, "name", "", "team name")
	cmd.Flags().StringVar(&fields.Description, "description", "", "team description")
	return cmd
}

func updateTeamCmd() *cobra.Command {
	var fields models.TeamFields
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a team's name and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			var t models.Team
			if err := sess.Do(cmd.Context(), http.MethodPut, fmt.Sprintf("/api/teams/%d", id), nil, fields, &t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated team %d: %s\n", t.ID, t.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&fields.Name, "name", "", "team name")
	cmd.Flags().StringVar(&fields.Description, "description", "", "team description")
	return cmd
}

func deleteTeamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a team; its members stay but lose the membership",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			var resp struct {
				Message string `json:"message"`
			}
			if err := sess.Do(cmd.Context(), http.MethodDelete, fmt.Sprintf("/api/teams/%d", id), nil, nil, &resp); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}
