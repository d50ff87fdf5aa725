package insights

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskmatch/adapter/cli"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/queries"
)

type memberView struct {
	UserID       int64    `json:"user_id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Avatar       string   `json:"avatar,omitempty"`
	Role         string   `json:"role"`
	Skills       []string `json:"skills"`
	ActiveTasks  int      `json:"active_tasks"`
	Availability string   `json:"availability,omitempty"`
	Workload     int      `json:"workload"`
	Insight      string   `json:"insight"`
}

type failedMemberView struct {
	UserID int64  `json:"user_id"`
	Error  string `json:"error"`
}

type membersView struct {
	Members []memberView       `json:"members"`
	Failed  []failedMemberView `json:"failed,omitempty"`
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List team members with role, workload and insight",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := cli.RequireService()
		if err != nil {
			return err
		}

		result, err := service.GetTeamMembers(cmd.Context(), queries.GetTeamMembersQuery{})
		if err != nil {
			return fmt.Errorf("failed to get team members: %w", err)
		}

		view := membersView{Members: make([]memberView, 0, len(result.Members))}
		for _, m := range result.Members {
			view.Members = append(view.Members, memberView{
				UserID:       m.User.ID,
				Name:         m.User.Name,
				Email:        m.User.Email,
				Avatar:       m.User.Avatar,
				Role:         m.Role,
				Skills:       m.Skills,
				ActiveTasks:  m.ActiveTasks,
				Availability: string(m.Availability),
				Workload:     m.Workload,
				Insight:      m.Insight,
			})
		}
		for _, f := range result.Failed() {
			view.Failed = append(view.Failed, failedMemberView{UserID: f.UserID, Error: f.Err.Error()})
		}

		return cli.Render(cmd, view, func(w io.Writer) {
			cli.Heading(w, fmt.Sprintf("Team Members (%d)", len(view.Members)))
			for _, m := range view.Members {
				availability := m.Availability
				if availability == "" {
					availability = "UNKNOWN"
				}
				fmt.Fprintf(w, "\n  %s <%s>\n", m.Name, m.Email)
				fmt.Fprintf(w, "    %s | %s | %d active | workload %d%%\n", m.Role, availability, m.ActiveTasks, m.Workload)
				if len(m.Skills) > 0 {
					fmt.Fprintf(w, "    Skills: %s\n", strings.Join(m.Skills, ", "))
				}
				fmt.Fprintf(w, "    %s\n", m.Insight)
			}
			for _, f := range view.Failed {
				fmt.Fprintf(w, "\n  user %d skipped: %s\n", f.UserID, f.Error)
			}
			fmt.Fprintln(w)
		})
	},
}
