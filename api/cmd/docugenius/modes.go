package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docugenius/api/internal/prompt"
)

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List explanation modes and audience levels",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for _, m := range prompt.Modes {
				fmt.Fprintf(out, "%-16s %s: %s (best for: %s)\n", m.ID, m.Name, m.Description, m.BestFor)
			}
			fmt.Fprintf(out, "audiences: %s\n", strings.Join(prompt.Audiences, ", "))
		},
	}
}
