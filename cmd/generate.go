package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/curriculum"
	"github.com/abhisek/mathsheet/internal/export"
	"github.com/abhisek/mathsheet/internal/mathtext"
	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/problemgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a custom problem set for chosen topics",
	Long: `Generate a custom five-option problem set for one subject and write it as
JSON. Use --pdf to also export the problem sheet and answer sheet.`,
	Example: `  mathsheet generate --level high --subject 수학Ⅰ --topics 지수함수,로그함수 --count 5 --pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := levelFlag(cmd)
		if err != nil {
			return err
		}
		subject, _ := cmd.Flags().GetString("subject")
		topics, _ := cmd.Flags().GetStringSlice("topics")
		count, _ := cmd.Flags().GetInt("count")
		desc, _ := cmd.Flags().GetString("student")

		if len(topics) == 0 {
			return fmt.Errorf("select at least one topic with --topics (available: %s)",
				strings.Join(curriculum.Topics(level, subject), ", "))
		}
		p := problemgen.Custom(problemgen.CustomParams{
			Level:              level,
			Subject:            subject,
			Topics:             topics,
			Count:              count,
			StudentDescription: desc,
		})
		return runGenerate(cmd, p)
	},
}

var levelTestCmd = &cobra.Command{
	Use:   "leveltest",
	Short: "Generate a diagnostic level test across subjects",
	Example: `  mathsheet leveltest --level middle --all-subjects --count 10
  mathsheet leveltest --subjects 수학Ⅰ,수학Ⅱ --student "고2, 내신 3등급"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := levelFlag(cmd)
		if err != nil {
			return err
		}
		subjects, _ := cmd.Flags().GetStringSlice("subjects")
		if all, _ := cmd.Flags().GetBool("all-subjects"); all {
			subjects = curriculum.Subjects(level)
		}
		count, _ := cmd.Flags().GetInt("count")
		desc, _ := cmd.Flags().GetString("student")

		p := problemgen.LevelTest(problemgen.LevelTestParams{
			Level:              level,
			Subjects:           subjects,
			Count:              count,
			StudentDescription: desc,
		})
		return runGenerate(cmd, p)
	},
}

func levelFlag(cmd *cobra.Command) (curriculum.Level, error) {
	v, _ := cmd.Flags().GetString("level")
	return curriculum.ParseLevel(v)
}

// runGenerate requests the set, writes its JSON and optionally the PDFs.
func runGenerate(cmd *cobra.Command, p problemgen.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	d, err := loadDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	svc, err := d.requireService()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Generating %s...\n", p.Summary())
	set, err := svc.Generate(cmd.Context(), p)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	for _, w := range set.Warnings {
		warn("%s", w)
	}

	base := p.BaseName()
	path, err := writeProblems(d.cfg.OutputDir, base, set.Problems)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d problems to %s\n", len(set.Problems), path)

	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		printProblems(set.Problems)
	}

	if pdf, _ := cmd.Flags().GetBool("pdf"); pdf {
		return exportDocs(cmd.Context(), d, base,
			compose.ProblemSheet(set.Problems),
			compose.AnswerSheet(set.Problems))
	}
	return nil
}

func writeProblems(dir, base string, ps []problem.Problem) (string, error) {
	data, err := problem.Export(ps)
	if err != nil {
		return "", err
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	path := filepath.Join(dir, export.JSONFileName(base))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write problems: %w", err)
	}
	return path, nil
}

func readProblems(path string) ([]problem.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problems: %w", err)
	}
	return problem.Import(data)
}

func printProblems(ps []problem.Problem) {
	for i, p := range ps {
		fmt.Printf("\n── %d. [%s, %d점] ──\n", i+1, p.ProblemType, p.Points)
		fmt.Println(mathtext.Plain(p.Question))
		for j, o := range p.Options {
			fmt.Printf("  %s %s\n", problem.OptionLabel(j), mathtext.Plain(o))
		}
	}
}

// exportDocs exports the documents concurrently and prints the results.
func exportDocs(ctx context.Context, d *deps, base string, docs ...compose.Document) error {
	results, err := d.pipeline.All(ctx, export.NewGuard(), base, docs...)
	for _, r := range results {
		if r.Path == "" {
			continue
		}
		fmt.Printf("Wrote %s (%d pages)\n", r.Path, r.Pages)
		for _, w := range r.Warnings {
			warn("%s: %s", r.Kind.Label(), w)
		}
	}
	return err
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, levelTestCmd} {
		c.Flags().String("level", string(curriculum.DefaultLevel), "School level: elementary, middle or high")
		c.Flags().String("student", "", "Free-text description of the student")
		c.Flags().Bool("pdf", false, "Also export the problem and answer sheets as PDF")
		c.Flags().BoolP("quiet", "q", false, "Do not print the problems")
	}
	generateCmd.Flags().String("subject", "", "Subject name (required)")
	generateCmd.Flags().StringSlice("topics", nil, "Comma-separated topics of the subject")
	generateCmd.Flags().Int("count", problemgen.DefaultCustomCount,
		fmt.Sprintf("Number of problems (%d-%d)", problemgen.MinCustomCount, problemgen.MaxCustomCount))
	_ = generateCmd.MarkFlagRequired("subject")

	levelTestCmd.Flags().StringSlice("subjects", nil, "Comma-separated subjects")
	levelTestCmd.Flags().Bool("all-subjects", false, "Select every subject of the level")
	levelTestCmd.Flags().Int("count", problemgen.DefaultLevelTestCount,
		fmt.Sprintf("Number of problems (%d-%d)", problemgen.MinLevelTestCount, problemgen.MaxLevelTestCount))
}
