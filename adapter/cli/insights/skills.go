package insights

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskmatch/adapter/cli"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/queries"
)

var skillsUserID int64

type skillRecommendationView struct {
	SkillID    int64  `json:"skill_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Confidence int    `json:"confidence"`
	Demand     int    `json:"demand"`
	Reason     string `json:"reason"`
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Suggest skills a team member could pick up next",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := cli.RequireService()
		if err != nil {
			return err
		}
		if skillsUserID == 0 {
			return fmt.Errorf("--user is required")
		}

		recs, err := service.GetSkillRecommendations(cmd.Context(), queries.GetSkillRecommendationsQuery{UserID: skillsUserID})
		if err != nil {
			return fmt.Errorf("failed to get skill recommendations: %w", err)
		}

		view := make([]skillRecommendationView, 0, len(recs))
		for _, r := range recs {
			view = append(view, skillRecommendationView{
				SkillID:    r.Skill.ID,
				Name:       r.Skill.Name,
				Category:   r.Skill.Category,
				Confidence: r.Confidence,
				Demand:     r.Demand,
				Reason:     r.Reason,
			})
		}

		return cli.Render(cmd, view, func(w io.Writer) {
			cli.Heading(w, fmt.Sprintf("Skill Recommendations for user %d", skillsUserID))
			if len(view) == 0 {
				fmt.Fprintln(w, "    Already holds every catalog skill.")
			}
			for _, r := range view {
				fmt.Fprintf(w, "    %-24s %3d%%  %s\n", r.Name, r.Confidence, r.Reason)
			}
			fmt.Fprintln(w)
		})
	},
}

func init() {
	skillsCmd.Flags().Int64VarP(&skillsUserID, "user", "u", 0, "user ID")
}
