package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/problem"
)

var exportCmd = &cobra.Command{
	Use:   "export <problems.json>",
	Short: "Export a saved problem set as PDF documents",
	Long: `Export the problem sheet, answer sheet or diagnostic report of a saved
problem set as A4 PDF files. The report needs the report JSON written by
"mathsheet report" and the submitted answers.`,
	Example: `  mathsheet export 수학Ⅰ_문제.json --kind problems,answers
  mathsheet export 진단테스트_문제.json --all --report-json 진단테스트_리포트.json --answers 2,5,1,1,3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := readProblems(args[0])
		if err != nil {
			return err
		}
		kinds, err := exportKinds(cmd)
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = strings.TrimSuffix(strings.TrimSuffix(filepath.Base(args[0]), ".json"), "_문제")
		}
		base := baseName(name)

		docs := make([]compose.Document, 0, len(kinds))
		for _, k := range kinds {
			switch k {
			case compose.KindProblemSheet:
				docs = append(docs, compose.ProblemSheet(ps))
			case compose.KindAnswerSheet:
				docs = append(docs, compose.AnswerSheet(ps))
			case compose.KindReport:
				doc, err := reportDoc(cmd, ps)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}
		}

		d, err := loadDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		return exportDocs(cmd.Context(), d, base, docs...)
	},
}

func exportKinds(cmd *cobra.Command) ([]compose.Kind, error) {
	if all, _ := cmd.Flags().GetBool("all"); all {
		kinds := []compose.Kind{compose.KindProblemSheet, compose.KindAnswerSheet}
		if p, _ := cmd.Flags().GetString("report-json"); p != "" {
			kinds = append(kinds, compose.KindReport)
		}
		return kinds, nil
	}
	names, _ := cmd.Flags().GetStringSlice("kind")
	if len(names) == 0 {
		return nil, errors.New("choose documents with --kind or --all")
	}
	seen := make(map[compose.Kind]bool)
	var kinds []compose.Kind
	for _, n := range names {
		k, err := compose.ParseKind(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

func reportDoc(cmd *cobra.Command, ps []problem.Problem) (compose.Document, error) {
	path, _ := cmd.Flags().GetString("report-json")
	if path == "" {
		return nil, errors.New("the report document needs --report-json")
	}
	r, err := readReport(path)
	if err != nil {
		return nil, err
	}
	raw, _ := cmd.Flags().GetString("answers")
	answers, err := parseAnswers(raw, len(ps))
	if err != nil {
		return nil, err
	}
	if err := answers.Freeze(); err != nil {
		return nil, fmt.Errorf("report answers: %w", err)
	}
	return compose.ReportDocument(*r, ps, answers, true), nil
}

func init() {
	registerExportFlags()
}

func registerExportFlags() {
	exportCmd.Flags().StringSlice("kind", nil, "Documents to export: problems, answers, report")
	exportCmd.Flags().Bool("all", false, "Export every available document at once")
	exportCmd.Flags().String("report-json", "", "Report JSON written by the report command")
	exportCmd.Flags().String("answers", "", "Comma-separated 1-based answers for the report")
	exportCmd.Flags().String("name", "", "Base name of the PDF files (default: derived from the input file)")
}
