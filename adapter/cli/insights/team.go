package insights

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskmatch/adapter/cli"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/queries"
)

type categoryView struct {
	Category string `json:"category"`
	Load     int    `json:"load"`
}

type recommendationView struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type teamView struct {
	CognitiveLoad   []categoryView       `json:"cognitive_load"`
	Sentiment       int                  `json:"sentiment"`
	SentimentStatus string               `json:"sentiment_status"`
	Recommendations []recommendationView `json:"recommendations"`
}

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show cognitive load, sentiment and recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := cli.RequireService()
		if err != nil {
			return err
		}

		insights, err := service.GetTeamInsights(cmd.Context(), queries.GetTeamInsightsQuery{})
		if err != nil {
			return fmt.Errorf("failed to get team insights: %w", err)
		}

		view := teamView{
			Sentiment:       insights.Sentiment.Score,
			SentimentStatus: string(insights.Sentiment.Status),
			CognitiveLoad:   make([]categoryView, 0, len(insights.CognitiveLoad.Categories)),
			Recommendations: make([]recommendationView, 0, len(insights.Recommendations)),
		}
		for _, c := range insights.CognitiveLoad.Categories {
			view.CognitiveLoad = append(view.CognitiveLoad, categoryView{Category: c.Category, Load: c.Load})
		}
		for _, r := range insights.Recommendations {
			view.Recommendations = append(view.Recommendations, recommendationView{
				Type:        string(r.Type),
				Title:       r.Title,
				Description: r.Description,
			})
		}

		return cli.Render(cmd, view, func(w io.Writer) {
			cli.Heading(w, "Team Insights")

			cli.Section(w, "COGNITIVE LOAD")
			for _, c := range view.CognitiveLoad {
				fmt.Fprintf(w, "    %-12s %3d%%\n", c.Category, c.Load)
			}

			cli.Section(w, "SENTIMENT")
			fmt.Fprintf(w, "    %d (%s)\n", view.Sentiment, view.SentimentStatus)

			cli.Section(w, "RECOMMENDATIONS")
			if len(view.Recommendations) == 0 {
				fmt.Fprintln(w, "    Nothing to act on.")
			}
			for _, r := range view.Recommendations {
				fmt.Fprintf(w, "    [%s] %s\n", r.Type, r.Title)
				fmt.Fprintf(w, "      %s\n", r.Description)
			}
			fmt.Fprintln(w)
		})
	},
}
