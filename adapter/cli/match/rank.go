package match

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskmatch/adapter/cli"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/queries"
)

var (
	rankTaskID int64
	rankLimit  int
)

type candidateView struct {
	Rank      int           `json:"rank"`
	UserID    int64         `json:"user_id"`
	Score     float64       `json:"score"`
	Breakdown breakdownView `json:"breakdown"`
}

type exclusionView struct {
	UserID int64  `json:"user_id"`
	Error  string `json:"error"`
}

type rankView struct {
	TaskID     int64           `json:"task_id"`
	TaskTitle  string          `json:"task_title"`
	BestUserID int64           `json:"best_user_id"`
	BestScore  float64         `json:"best_score"`
	Candidates []candidateView `json:"candidates"`
	Excluded   []exclusionView `json:"excluded,omitempty"`
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank every team member for a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := cli.RequireService()
		if err != nil {
			return err
		}
		if rankTaskID == 0 {
			return fmt.Errorf("--task is required")
		}

		ranking, err := service.RankCandidates(cmd.Context(), queries.RankCandidatesQuery{
			TaskID: rankTaskID,
			Limit:  rankLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to rank candidates: %w", err)
		}

		view := rankView{
			TaskID:     ranking.Task.ID,
			TaskTitle:  ranking.Task.Title,
			BestUserID: ranking.Best.UserID,
			BestScore:  ranking.Best.Score,
			Candidates: make([]candidateView, 0, len(ranking.Candidates)),
		}
		for i, c := range ranking.Candidates {
			view.Candidates = append(view.Candidates, candidateView{
				Rank:      i + 1,
				UserID:    c.UserID,
				Score:     c.Score,
				Breakdown: toBreakdownView(c.Breakdown),
			})
		}
		for _, e := range ranking.Excluded {
			view.Excluded = append(view.Excluded, exclusionView{UserID: e.UserID, Error: e.Err.Error()})
		}

		return cli.Render(cmd, view, func(w io.Writer) {
			cli.Heading(w, fmt.Sprintf("Candidates for #%d %s", view.TaskID, view.TaskTitle))
			for _, c := range view.Candidates {
				fmt.Fprintf(w, "  %2d. user %-6d %6.1f\n", c.Rank, c.UserID, c.Score)
			}
			if len(view.Excluded) > 0 {
				cli.Section(w, "Excluded")
				for _, e := range view.Excluded {
					fmt.Fprintf(w, "    user %d: %s\n", e.UserID, e.Error)
				}
			}
			fmt.Fprintln(w)
		})
	},
}

func init() {
	rankCmd.Flags().Int64VarP(&rankTaskID, "task", "t", 0, "task ID")
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "l", 0, "show only the top N candidates")
}
