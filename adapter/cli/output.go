package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var errNotInitialized = errors.New("application not initialized - configure DATABASE_URL, SQLITE_PATH or TASKMATCH_FIXTURE")

// Render writes v as indented JSON when --json is set and calls text
// otherwise.
func Render(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(out)
	return nil
}

// Heading prints a section title followed by a rule.
func Heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n  %s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// Section prints a subsection title followed by a thin rule.
func Section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n  %s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", 60))
}
