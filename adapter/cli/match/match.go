// Package match holds the candidate scoring commands.
package match

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/services"
)

// Cmd is the root command for match operations.
var Cmd = &cobra.Command{
	Use:   "match",
	Short: "Score and rank team members for a task",
	Long: `Score how well a team member fits a task, or rank the whole team.

Scores start at 50 and move with skill coverage, availability, current
workload and the fit between task complexity and focus analytics. The
result is clamped to 0-100.

Examples:
  taskmatch match score --task 11 --user 1
  taskmatch match rank --task 11
  taskmatch match rank --task 11 --limit 3 --json`,
}

func init() {
	Cmd.AddCommand(scoreCmd)
	Cmd.AddCommand(rankCmd)
}

type breakdownView struct {
	SkillMatch         float64 `json:"skill_match"`
	Complexity         float64 `json:"complexity"`
	CognitiveFit       float64 `json:"cognitive_fit"`
	ActiveTasks        int     `json:"active_tasks"`
	SkillPoints        float64 `json:"skill_points"`
	AvailabilityPoints float64 `json:"availability_points"`
	WorkloadPoints     float64 `json:"workload_points"`
	CognitivePoints    float64 `json:"cognitive_points"`
	Raw                float64 `json:"raw"`
}

func toBreakdownView(b services.ScoreBreakdown) breakdownView {
	return breakdownView{
		SkillMatch:         b.SkillMatch,
		Complexity:         b.Complexity,
		CognitiveFit:       b.CognitiveFit,
		ActiveTasks:        b.ActiveTasks,
		SkillPoints:        b.SkillPoints,
		AvailabilityPoints: b.AvailabilityPoints,
		WorkloadPoints:     b.WorkloadPoints,
		CognitivePoints:    b.CognitivePoints,
		Raw:                b.Raw,
	}
}
