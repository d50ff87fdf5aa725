package insights

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskmatch/adapter/cli"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/queries"
)

type trendsView struct {
	ActiveTasks  int `json:"active_tasks"`
	Availability int `json:"availability"`
	Completion   int `json:"completion"`
	Sentiment    int `json:"sentiment"`
}

type dashboardView struct {
	TotalTasks       int        `json:"total_tasks"`
	ActiveTasks      int        `json:"active_tasks"`
	CompletedTasks   int        `json:"completed_tasks"`
	TeamSize         int        `json:"team_size"`
	TeamAvailability int        `json:"team_availability"`
	CompletionRate   int        `json:"completion_rate"`
	TeamSentiment    int        `json:"team_sentiment"`
	Trends           trendsView `json:"trends"`
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show headline team numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := cli.RequireService()
		if err != nil {
			return err
		}

		stats, err := service.GetDashboardStats(cmd.Context(), queries.GetDashboardStatsQuery{})
		if err != nil {
			return fmt.Errorf("failed to get dashboard stats: %w", err)
		}

		view := dashboardView{
			TotalTasks:       stats.TotalTasks,
			ActiveTasks:      stats.ActiveTasks,
			CompletedTasks:   stats.CompletedTasks,
			TeamSize:         stats.TeamSize,
			TeamAvailability: stats.TeamAvailability,
			CompletionRate:   stats.CompletionRate,
			TeamSentiment:    stats.TeamSentiment,
			Trends: trendsView{
				ActiveTasks:  stats.Trends.ActiveTasks,
				Availability: stats.Trends.Availability,
				Completion:   stats.Trends.Completion,
				Sentiment:    stats.Trends.Sentiment,
			},
		}

		return cli.Render(cmd, view, func(w io.Writer) {
			cli.Heading(w, "Team Dashboard")
			fmt.Fprintf(w, "    Tasks: %d total | %d active | %d completed (%+d)\n",
				view.TotalTasks, view.ActiveTasks, view.CompletedTasks, view.Trends.ActiveTasks)
			fmt.Fprintf(w, "    Team: %d members | %d%% available (%+d)\n",
				view.TeamSize, view.TeamAvailability, view.Trends.Availability)
			fmt.Fprintf(w, "    Completion Rate: %d%% (%+d)\n", view.CompletionRate, view.Trends.Completion)
			fmt.Fprintf(w, "    Sentiment: %d (%+d)\n", view.TeamSentiment, view.Trends.Sentiment)
			fmt.Fprintln(w)
		})
	},
}
