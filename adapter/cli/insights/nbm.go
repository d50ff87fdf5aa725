package insights

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskmatch/adapter/cli"
	"github.com/felixgeelhaar/taskmatch/internal/allocation/application/queries"
)

type componentView struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Performance int    `json:"performance"`
}

type nbmView struct {
	Status     string          `json:"status"`
	Components []componentView `json:"components"`
}

var nbmCmd = &cobra.Command{
	Use:   "nbm",
	Short: "Show the Neuro-Behavioral Matching subsystem status",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := cli.RequireService()
		if err != nil {
			return err
		}

		status, err := service.GetNBMStatus(cmd.Context(), queries.GetNBMStatusQuery{})
		if err != nil {
			return fmt.Errorf("failed to get NBM status: %w", err)
		}

		view := nbmView{
			Status:     string(status.Status),
			Components: make([]componentView, 0, len(status.Components)),
		}
		for _, c := range status.Components {
			view.Components = append(view.Components, componentView{
				Name:        c.Name,
				Status:      string(c.Status),
				Performance: c.Performance,
			})
		}

		return cli.Render(cmd, view, func(w io.Writer) {
			cli.Heading(w, "NBM Status: "+view.Status)
			for _, c := range view.Components {
				fmt.Fprintf(w, "    %-24s %-12s %3d%%\n", c.Name, c.Status, c.Performance)
			}
			fmt.Fprintln(w)
		})
	},
}
