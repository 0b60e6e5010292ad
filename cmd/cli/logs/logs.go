package logs

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crucial707/hrms/cmd/cli/config"
	"github.com/crucial707/hrms/cmd/cli/output"
	"github.com/crucial707/hrms/internal/models"
	"github.com/spf13/cobra"
)

// InitLogs registers the audit log command group on the root command.
func InitLogs(rootCmd *cobra.Command) {
	logsCmd := &cobra.Command{
		Use:     "logs",
		Aliases: []string{"audit"},
		Short:   "Browse and clear the organisation's audit log",
	}
	logsCmd.AddCommand(listLogsCmd(), statsCmd(), clearCmd(), clearOldCmd())
	rootCmd.AddCommand(logsCmd)
}

type logPage struct {
	Logs       []models.LogEntry `json:"logs"`
	Pagination struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
		Pages int `json:"pages"`
	} `json:"pagination"`
}

type clearResult struct {
	Message     string `json:"message"`
	LogsCleared int    `json:"logsCleared"`
}

func listLogsCmd() *cobra.Command {
	var page, limit int
	var action, entityType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			q := url.Values{}
			if page > 0 {
				q.Set("page", strconv.Itoa(page))
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			if action != "" {
				q.Set("action", action)
			}
			if entityType != "" {
				q.Set("entityType", entityType)
			}

			var res logPage
			if err := sess.Do(cmd.Context(), http.MethodGet, "/api/logs", q, nil, &res); err != nil {
				return err
			}
			if output.WantJSON(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), res)
			}

			rows := make([][]any, 0, len(res.Logs))
			for _, l := range res.Logs {
				who := "system"
				if l.User != nil {
					who = l.User.Name
				}
				rows = append(rows, []any{l.ID, l.Timestamp.Local().Format("2006-01-02 15:04:05"), who, l.Action, l.Description})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Time", "User", "Action", "Description"}, rows)
			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d entries)\n", res.Pagination.Page, res.Pagination.Pages, res.Pagination.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number (1-based)")
	cmd.Flags().IntVar(&limit, "limit", 0, "entries per page")
	cmd.Flags().StringVar(&action, "action", "", "filter by action, e.g. employee_created")
	cmd.Flags().StringVar(&entityType, "entity-type", "", "filter by entity type, e.g. Employee")
	output.AddJSONFlag(cmd)
	return cmd
}

func statsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count entries per action over a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			q := url.Values{"days": {strconv.Itoa(days)}}
			var stats []models.ActionCount
			if err := sess.Do(cmd.Context(), http.MethodGet, "/api/logs/stats", q, nil, &stats); err != nil {
				return err
			}
			if output.WantJSON(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), stats)
			}
			rows := make([][]any, 0, len(stats))
			for _, s := range stats {
				rows = append(rows, []any{s.Action, s.Count})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"Action", "Count"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "window in days")
	output.AddJSONFlag(cmd)
	return cmd
}

func clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every audit entry of your organisation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear the audit log without --yes")
			}
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			var res clearResult
			if err := sess.Do(cmd.Context(), http.MethodDelete, "/api/logs/clear", nil, nil, &res); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func clearOldCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "clear-old",
		Short: "Delete audit entries older than --days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := config.LoadSession()
			if err != nil {
				return err
			}
			var res clearResult
			body := map[string]int{"days": days}
			if err := sess.Do(cmd.Context(), http.MethodDelete, "/api/logs/clear-old", nil, body, &res); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "age threshold in days")
	return cmd
}
