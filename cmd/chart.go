package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/radar"
)

var chartCmd = &cobra.Command{
	Use:   "chart <report.json>",
	Short: "Write the five radar charts of a report as SVG files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := readReport(args[0])
		if err != nil {
			return err
		}
		size, _ := cmd.Flags().GetFloat64("size")
		name, _ := cmd.Flags().GetString("name")
		base := baseName(name)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.OutputDir != "" {
			if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		for i, g := range r.Scores.ChartGroups() {
			ch, err := radar.Compute(g.Labels, g.Scores, size)
			if err != nil {
				return fmt.Errorf("chart %q: %w", g.Title, err)
			}
			path := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_차트%d.svg", base, i+1))
			if err := os.WriteFile(path, []byte(ch.SVG()), 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			fmt.Printf("Wrote %s (%s)\n", path, g.Title)
		}
		return nil
	},
}

func init() {
	chartCmd.Flags().Float64("size", radar.DefaultSize, "Chart edge length in pixels")
	chartCmd.Flags().String("name", "진단테스트", "Base name of the written files")
}
