package employees

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/crucial707/hrms/cmd/cli/config"
	"github.com/crucial707/hrms/cmd/cli/output"
	"github.com/crucial707/hrms/internal/models"
	"github.com/spf13/cobra"
)

// InitEmployees registers the employees command group on the root command.
func InitEmployees(rootCmd *cobra.Command) {
	employeesCmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"employee", "emp"},
		Short:   "Manage employees",
	}
	employeesCmd.AddCommand(
		listEmployeesCmd(),
		getEmployeeCmd(),
		createEmployeeCmd(),
		updateEmployeeCmd(),
		deleteEmployeeCmd(),
		assignTeamsCmd(),
		employeeTeamsCmd(),
	)
	rootCmd.AddCommand(employeesCmd)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func teamNames(teams []models.TeamSummary) string {
	names := make([]string, 0, len(teams))
	for _, t := range teams {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

// ==========================
// List Employees
// ==========================
func listEmployeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees in your organisation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			var employees []models.Employee
			if err := sess.Do(cmd.Context(), http.MethodGet, "/api/employees", nil, nil, &employees); err != nil {
				return err
			}
			if output.WantJSON(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), employees)
			}
			if len(employees) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No employees found.")
				return nil
			}
			rows := make([][]any, 0, len(employees))
			for _, e := range employees {
				rows = append(rows, []any{e.ID, e.FullName(), e.Email, e.Phone, teamNames(e.Teams)})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Email", "Phone", "Teams"}, rows)
			return nil
		},
	}
	output.AddJSONFlag(cmd)
	return cmd
}

// ==========================
// Get Employee
// ==========================
func getEmployeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one employee",
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
			var e models.Employee
			if err := sess.Do(cmd.Context(), http.MethodGet, fmt.Sprintf("/api/employees/%d", id), nil, nil, &e); err != nil {
				return err
			}
			if output.WantJSON(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), e)
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Email", "Phone", "Teams"},
				[][]any{{e.ID, e.FullName(), e.Email, e.Phone, teamNames(e.Teams)}})
			return nil
		},
	}
	output.AddJSONFlag(cmd)
	return cmd
}

func addFieldFlags(cmd *cobra.Command, f *models.EmployeeFields) {
	cmd.Flags().StringVar(&f.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&f.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&f.Email, "email", "", "email address")
	cmd.Flags().StringVar(&f.Phone, "phone", "", "phone number")
}

// ==========================
// Create Employee
// ==========================
func createEmployeeCmd() *cobra.Command {
	var fields models.EmployeeFields
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			var e models.Employee
			if err := sess.Do(cmd.Context(), http.MethodPost, "/api/employees", nil, fields, &e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created employee %d: %s\n", e.ID, e.FullName())
			return nil
		},
	}
	addFieldFlags(cmd, &fields)
	return cmd
}

// ==========================
// Update Employee
// ==========================
func updateEmployeeCmd() *cobra.Command {
	var fields models.EmployeeFields
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace an employee's details",
		Long:  "Replace an employee's details. All of --first-name, --last-name and --email are required.",
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
			var e models.Employee
			if err := sess.Do(cmd.Context(), http.MethodPut, fmt.Sprintf("/api/employees/%d", id), nil, fields, &e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated employee %d: %s\n", e.ID, e.FullName())
			return nil
		},
	}
	addFieldFlags(cmd, &fields)
	return cmd
}

// ==========================
// Delete Employee
// ==========================
func deleteEmployeeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee and their team memberships",
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
			if err := sess.Do(cmd.Context(), http.MethodDelete, fmt.Sprintf("/api/employees/%d", id), nil, nil, &resp); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

// ==========================
// Assign Teams
// ==========================
func assignTeamsCmd() *cobra.Command {
	var teamIDs []int
	cmd := &cobra.Command{
		Use:   "assign <id>",
		Short: "Replace the set of teams an employee belongs to",
		Long:  "Replace the set of teams an employee belongs to. Pass --teams with no value to remove every membership.",
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
			if teamIDs == nil {
				teamIDs = []int{}
			}
			var resp struct {
				Message string `json:"message"`
				TeamIDs []int  `json:"teamIds"`
				Added   []int  `json:"added"`
				Removed []int  `json:"removed"`
			}
			body := map[string][]int{"teamIds": teamIDs}
			if err := sess.Do(cmd.Context(), http.MethodPut, fmt.Sprintf("/api/employees/%d/teams", id), nil, body, &resp); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			fmt.Fprintf(cmd.OutOrStdout(), "teams: %v  added: %v  removed: %v\n", resp.TeamIDs, resp.Added, resp.Removed)
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&teamIDs, "teams", nil, "comma separated team ids")
	return cmd
}

// ==========================
// Employee Teams
// ==========================
func employeeTeamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams <id>",
		Short: "List the teams an employee belongs to",
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
			var teams []models.TeamSummary
			if err := sess.Do(cmd.Context(), http.MethodGet, fmt.Sprintf("/api/employees/%d/teams", id), nil, nil, &teams); err != nil {
				return err
			}
			if output.WantJSON(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), teams)
			}
			rows := make([][]any, 0, len(teams))
			for _, t := range teams {
				rows = append(rows, []any{t.ID, t.Name, t.Description})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Description"}, rows)
			return nil
		},
	}
	output.AddJSONFlag(cmd)
	return cmd
}
