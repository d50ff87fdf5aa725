// Package insights holds the team dashboard commands.
package insights

import (
	"github.com/spf13/cobra"
)

// Cmd is the root command for insight operations.
var Cmd = &cobra.Command{
	Use:   "insights",
	Short: "Team insights for the dashboard",
	Long: `View team-level signals derived from tasks, skills and availability.

Cognitive load, sentiment, trends, member workloads and the NBM subsystem
status are synthesized for display and are not measurements. Set
TASKMATCH_RANDOM_SEED to make them reproducible.

Examples:
  taskmatch insights team
  taskmatch insights dashboard
  taskmatch insights members
  taskmatch insights skills --user 1
  taskmatch insights nbm --json`,
}

func init() {
	Cmd.AddCommand(teamCmd)
	Cmd.AddCommand(nbmCmd)
	Cmd.AddCommand(dashboardCmd)
	Cmd.AddCommand(membersCmd)
	Cmd.AddCommand(skillsCmd)
}
