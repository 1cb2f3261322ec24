package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "docugenius",
		Short:        "Turns LLM answers into structured explanations",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newStructureCmd(), newModesCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
