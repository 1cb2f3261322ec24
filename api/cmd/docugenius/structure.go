package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"docugenius/api/internal/structure"
)

func newStructureCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "structure [file...]",
		Short: "Structure saved LLM answers without calling a model",
		Long: `Reads raw LLM answers from files (or stdin when none are given, or "-")
and prints the structured result as indented JSON. Several files are
processed concurrently and printed as a JSON array in argument order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			asm := structure.NewAssembler()

			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), asm.Assemble(string(b), asm.Now(), query, ""))
			}

			results := make([]structure.Result, len(args))
			var g errgroup.Group
			for i, path := range args {
				g.Go(func() error {
					start := asm.Now()
					b, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read %s: %w", path, err)
					}
					results[i] = asm.Assemble(string(b), start, query, "")
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			if len(results) == 1 {
				return printJSON(cmd.OutOrStdout(), results[0])
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "original question, used when the answer has no explanation")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
