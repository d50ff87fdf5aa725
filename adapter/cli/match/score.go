package match

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskmatch/adapter/cli"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/queries"
)

var (
	scoreTaskID int64
	scoreUserID int64
)

type scoreView struct {
	TaskID    int64         `json:"task_id"`
	TaskTitle string        `json:"task_title"`
	UserID    int64         `json:"user_id"`
	UserName  string        `json:"user_name"`
	Score     float64       `json:"score"`
	Breakdown breakdownView `json:"breakdown"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one team member against a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := cli.RequireService()
		if err != nil {
			return err
		}
		if scoreTaskID == 0 || scoreUserID == 0 {
			return fmt.Errorf("--task and --user are required")
		}

		result, err := service.ScoreMatch(cmd.Context(), queries.ScoreMatchQuery{
			TaskID: scoreTaskID,
			UserID: scoreUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to score match: %w", err)
		}

		view := scoreView{
			TaskID:    result.Task.ID,
			TaskTitle: result.Task.Title,
			UserID:    result.User.ID,
			UserName:  result.User.Name,
			Score:     result.Breakdown.Score,
			Breakdown: toBreakdownView(*result.Breakdown),
		}
		return cli.Render(cmd, view, func(w io.Writer) {
			fmt.Fprintf(w, "%s -> %s: %.1f/100\n", view.TaskTitle, view.UserName, view.Score)
			fmt.Fprintf(w, "  %s\n", result.Breakdown.Explanation())
		})
	},
}

func init() {
	scoreCmd.Flags().Int64VarP(&scoreTaskID, "task", "t", 0, "task ID")
	scoreCmd.Flags().Int64VarP(&scoreUserID, "user", "u", 0, "user ID")
}
