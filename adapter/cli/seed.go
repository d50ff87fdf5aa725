package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var seedFile string

type seedView struct {
	File       string `json:"file"`
	Users      int    `json:"users"`
	Skills     int    `json:"skills"`
	UserSkills int    `json:"user_skills"`
	Analytics  int    `json:"analytics"`
	Tasks      int    `json:"tasks"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a team fixture into the database",
	Long: `Replace the stored team with the contents of a YAML fixture.

Existing users, skills, analytics and tasks are removed first; the whole
load runs in one transaction.

Examples:
  taskmatch seed --file examples/team.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Seeder == nil {
			return errNotInitialized
		}
		if seedFile == "" {
			return fmt.Errorf("--file is required")
		}

		result, err := app.Seeder.Seed(cmd.Context(), seedFile)
		if err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}

		view := seedView{
			File:       seedFile,
			Users:      result.Users,
			Skills:     result.Skills,
			UserSkills: result.UserSkills,
			Analytics:  result.Analytics,
			Tasks:      result.Tasks,
		}
		return Render(cmd, view, func(w io.Writer) {
			fmt.Fprintf(w, "Seeded %s\n", seedFile)
			fmt.Fprintf(w, "  users: %d | skills: %d | user skills: %d | analytics: %d | tasks: %d\n",
				view.Users, view.Skills, view.UserSkills, view.Analytics, view.Tasks)
		})
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "fixture file (YAML)")
	rootCmd.AddCommand(seedCmd)
}
