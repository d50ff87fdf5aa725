package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

type healthView struct {
	Status observability.HealthStatus        `json:"status"`
	Checks []observability.HealthCheckResult `json:"checks"`
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check storage and cache connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Health == nil {
			return errNotInitialized
		}

		results := app.Health.Check(cmd.Context())
		view := healthView{Status: observability.OverallStatus(results), Checks: results}
		if err := Render(cmd, view, func(w io.Writer) {
			fmt.Fprintln(w, view.Status)
			for _, r := range results {
				fmt.Fprintf(w, "  %-10s %s", r.Component, r.Status)
				if r.Message != "" {
					fmt.Fprintf(w, " (%s)", r.Message)
				}
				fmt.Fprintln(w)
			}
		}); err != nil {
			return err
		}
		if view.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("health check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
