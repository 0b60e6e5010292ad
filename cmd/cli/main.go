package main

import (
	"fmt"
	"os"

	"github.com/crucial707/hrms/cmd/cli/auth"
	"github.com/crucial707/hrms/cmd/cli/employees"
	"github.com/crucial707/hrms/cmd/cli/logs"
	"github.com/crucial707/hrms/cmd/cli/root"
	"github.com/crucial707/hrms/cmd/cli/teams"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	employees.InitEmployees(rootCmd)
	teams.InitTeams(rootCmd)
	logs.InitLogs(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
