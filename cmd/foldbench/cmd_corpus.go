package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexshd/foldbench"
)

func newCorpusCmd() *cobra.Command {
	var (
		dir     string
		seed    uint64
		lengths []int
	)

	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Write the synthetic input files without running the tool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			cases, err := foldbench.GenerateCorpus(lengths, seed)
			if err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}
			for _, c := range cases {
				path, err := foldbench.WriteCase(dir, c)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  Created: %s (%d amino acids)\n", path, c.Length)
			}
			slog.Info("corpus written", "dir", dir, "files", len(cases))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().Uint64Var(&seed, "seed", foldbench.DefaultSeed, "corpus seed")
	cmd.Flags().IntSliceVar(&lengths, "lengths", foldbench.DefaultLengths, "sequence lengths")
	return cmd
}

func newCleanCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated corpus files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := foldbench.RemoveCorpus(dir)
			for _, path := range removed {
				fmt.Fprintf(cmd.OutOrStdout(), "  Removed: %s\n", path)
			}
			if err != nil {
				return err
			}
			slog.Info("corpus removed", "dir", dir, "files", len(removed))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "corpus directory")
	return cmd
}
