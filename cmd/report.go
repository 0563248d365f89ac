package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/problem"
)

var reportCmd = &cobra.Command{
	Use:   "report <problems.json>",
	Short: "Write a diagnostic report for answered level-test problems",
	Long: `Grade the answers given with --answers (1-based option numbers, in problem
order) and request an AI diagnostic report. Every problem must be answered.
The report is saved as JSON and, with --pdf, as a PDF document.`,
	Example: `  mathsheet report 진단테스트_문제.json --answers 2,5,1,1,3,4,2,2,5,1 --pdf`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := readProblems(args[0])
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetString("answers")
		answers, err := parseAnswers(raw, len(ps))
		if err != nil {
			return err
		}
		if !answers.Complete() {
			return problem.ErrIncomplete
		}
		desc, _ := cmd.Flags().GetString("student")
		name, _ := cmd.Flags().GetString("name")
		pdf, _ := cmd.Flags().GetBool("pdf")
		return runReport(cmd, ps, answers, desc, baseName(name), pdf)
	},
}

func runReport(cmd *cobra.Command, ps []problem.Problem, answers problem.AnswerSet, desc, base string, pdf bool) error {
	d, err := loadDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	svc, err := d.requireService()
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "Requesting diagnostic report...")
	r, err := svc.Report(cmd.Context(), ps, answers, desc)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	path, err := writeReport(d.cfg.OutputDir, base, r)
	if err != nil {
		return err
	}
	printResults(ps, answers)
	printReport(r)
	fmt.Printf("\nWrote report to %s\n", path)

	if pdf {
		if err := answers.Freeze(); err != nil {
			return err
		}
		return exportDocs(cmd.Context(), d, base, compose.ReportDocument(*r, ps, answers, true))
	}
	return nil
}

// parseAnswers reads comma-separated 1-based option numbers. "0", "-" or an
// empty field leaves a problem unanswered.
func parseAnswers(raw string, n int) (problem.AnswerSet, error) {
	set := problem.NewAnswerSet(n)
	if strings.TrimSpace(raw) == "" {
		return set, nil
	}
	fields := strings.Split(raw, ",")
	if len(fields) > n {
		return set, fmt.Errorf("got %d answers for %d problems", len(fields), n)
	}
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || f == "-" || f == "0" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return set, fmt.Errorf("answer %d: %q is not a number", i+1, f)
		}
		if err := set.Select(i, v-1); err != nil {
			return set, fmt.Errorf("answer %d: %w", i+1, err)
		}
	}
	return set, nil
}

func baseName(name string) string {
	if s := problem.Sanitize(name); s != "" {
		return s
	}
	return problem.DefaultBaseName
}

func reportFileName(base string) string {
	return base + "_리포트.json"
}

func writeReport(dir, base string, r *problem.DiagnosticReport) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	path := filepath.Join(dir, reportFileName(base))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func readReport(path string) (*problem.DiagnosticReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r problem.DiagnosticReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	if err := r.Scores.Validate(); err != nil {
		return nil, fmt.Errorf("report %s: %w", path, err)
	}
	if r.OverallSummary == "" {
		return nil, errors.New("report has no overall summary")
	}
	return &r, nil
}

func printResults(ps []problem.Problem, answers problem.AnswerSet) {
	results := problem.Grade(ps, answers)
	correct, earned, total := problem.Score(ps, results)

	fmt.Println("문항별 결과")
	fmt.Println(strings.Repeat("─", 48))
	for _, r := range results {
		fmt.Printf("%3d. %s  선택: %-6s 정답: %s  %s\n",
			r.Index+1, r.Label(), r.SelectedLabel(), problem.OptionLabel(r.Correct), ps[r.Index].ProblemType)
	}
	fmt.Println(strings.Repeat("─", 48))
	fmt.Printf("%d / %d 정답 · %d / %d점\n", correct, len(results), earned, total)
}

func printReport(r *problem.DiagnosticReport) {
	fmt.Println()
	fmt.Println("종합 분석")
	fmt.Println(r.OverallSummary)

	for _, g := range r.Scores.ChartGroups() {
		fmt.Printf("\n[%s]\n", g.Title)
		for i, label := range g.Labels {
			score := int(g.Scores[i])
			fmt.Printf("  %-8s %3d %s\n", label, score, strings.Repeat("█", score/5))
		}
	}
	for _, c := range r.Cards() {
		fmt.Printf("\n%s · %s\n", c.Title, c.Analysis.Archetype)
		if c.Analysis.ArchetypeDescription != "" {
			fmt.Println(c.Analysis.ArchetypeDescription)
		}
		fmt.Println(c.Analysis.Summary)
	}
}

func init() {
	reportCmd.Flags().String("answers", "", "Comma-separated 1-based answers, in problem order (required)")
	reportCmd.Flags().String("student", "", "Free-text description of the student")
	reportCmd.Flags().String("name", "진단테스트", "Base name of the written files")
	reportCmd.Flags().Bool("pdf", false, "Also export the report as PDF")
	_ = reportCmd.MarkFlagRequired("answers")
}
