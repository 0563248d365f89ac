package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mathsheet",
	Short: "AI math problem sheets and diagnostic reports",
	Long: `mathsheet generates Korean five-option math problems with an LLM, lets a
student take them in the terminal, writes a diagnostic report from the answers,
and exports problem sheets, answer sheets and reports as A4 PDF files.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHSHEET_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default ~/.config/mathsheet/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Directory for exported files (overrides output_dir)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(levelTestCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
