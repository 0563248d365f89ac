package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past generation requests and PDF exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		exportsOnly, _ := cmd.Flags().GetBool("exports")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		opts := store.QueryOpts{Limit: limit}

		if !exportsOnly {
			gens, err := repo.QueryGenerations(ctx, opts)
			if err != nil {
				return fmt.Errorf("query generations: %w", err)
			}
			fmt.Println("Generations")
			fmt.Println(strings.Repeat("─", 80))
			if len(gens) == 0 {
				fmt.Println("No generations recorded yet.")
			}
			for _, g := range gens {
				ok := "✓"
				if !g.Success {
					ok = "✗ " + g.ErrorMessage
				}
				fmt.Printf("%-16s  %-9s  %3d  %s  %s\n",
					g.Timestamp.Local().Format("2006-01-02 15:04"), g.Mode, g.ProblemCount, g.Summary, ok)
			}
			fmt.Println()
		}

		exports, err := repo.QueryExports(ctx, opts)
		if err != nil {
			return fmt.Errorf("query exports: %w", err)
		}
		fmt.Println("Exports")
		fmt.Println(strings.Repeat("─", 80))
		if len(exports) == 0 {
			fmt.Println("No exports recorded yet.")
		}
		for _, e := range exports {
			status := fmt.Sprintf("%d pages, %d bytes", e.Pages, e.Bytes)
			if !e.Success {
				status = fmt.Sprintf("✗ %s: %s", e.Stage, e.Error)
			}
			fmt.Printf("%-16s  %-8s  %-30s  %8s  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04"), e.Kind, e.FileName,
				e.Duration.Round(time.Millisecond), status)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries per table")
	historyCmd.Flags().Bool("exports", false, "Show exports only")
}
