package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "dev"
	// Commit is set during build
	Commit = "none"
	// BuildDate is set during build
	BuildDate = "unknown"
)

type versionView struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	RunE: func(cmd *cobra.Command, args []string) error {
		view := versionView{Version: Version, Commit: Commit, BuildDate: BuildDate}
		return Render(cmd, view, func(w io.Writer) {
			fmt.Fprintf(w, "taskmatch %s\n", Version)
			fmt.Fprintf(w, "  commit: %s\n", Commit)
			fmt.Fprintf(w, "  built:  %s\n", BuildDate)
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
