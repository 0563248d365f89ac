package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/mathtext"
	"github.com/abhisek/mathsheet/internal/problem"
)

var takeCmd = &cobra.Command{
	Use:   "take <problems.json>",
	Short: "Answer a problem set in the terminal and grade it",
	Long: `Walk through a saved problem set one question at a time, reading an option
number (1-5) for each. An empty line skips the question. With --report the
answers are sent for a diagnostic report once every question is answered.`,
	Args: cobra.ExactArgs(1),
	RunE: runTake,
}

func init() {
	takeCmd.Flags().Bool("report", false, "Request a diagnostic report after the last question")
	takeCmd.Flags().Bool("explain", false, "Show the correct answer and analysis after each question")
	takeCmd.Flags().String("student", "", "Free-text description of the student")
	takeCmd.Flags().String("name", "진단테스트", "Base name of the written files")
	takeCmd.Flags().Bool("pdf", false, "Export the report as PDF (with --report)")
}

func runTake(cmd *cobra.Command, args []string) error {
	ps, err := readProblems(args[0])
	if err != nil {
		return err
	}
	explain, _ := cmd.Flags().GetBool("explain")
	answers := problem.NewAnswerSet(len(ps))
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for i := 0; i < len(ps); i++ {
		p := ps[i]
		fmt.Printf("── %d/%d [%s, %d점] ──\n", i+1, len(ps), p.ProblemType, p.Points)
		fmt.Println(mathtext.Plain(p.Question))
		if p.HasFigure() {
			fmt.Println("(그림이 있는 문제입니다. PDF에서 확인하세요.)")
		}
		for j, o := range p.Options {
			fmt.Printf("  %d) %s\n", j+1, mathtext.Plain(o))
		}

		fmt.Print("\n답: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		in := strings.TrimSpace(scanner.Text())
		if in == "" {
			fmt.Println("(건너뜀)")
			fmt.Println()
			continue
		}
		n, err := strconv.Atoi(in)
		if err != nil || answers.Select(i, n-1) != nil {
			fmt.Printf("1부터 %d 사이의 숫자를 입력하세요.\n\n", problem.OptionCount)
			i--
			continue
		}

		if explain {
			if n-1 == p.CorrectAnswerIndex {
				fmt.Println("\033[32m✓ 정답\033[0m")
			} else {
				fmt.Printf("\033[31m✗ 오답\033[0m 정답: %s\n", problem.OptionLabel(p.CorrectAnswerIndex))
			}
			if p.Analysis != "" {
				fmt.Printf("해설: %s\n", mathtext.Plain(p.Analysis))
			}
		}
		fmt.Println()
	}

	printResults(ps, answers)

	if want, _ := cmd.Flags().GetBool("report"); !want {
		return nil
	}
	if !answers.Complete() {
		return fmt.Errorf("report: %w", problem.ErrIncomplete)
	}
	desc, _ := cmd.Flags().GetString("student")
	name, _ := cmd.Flags().GetString("name")
	pdf, _ := cmd.Flags().GetBool("pdf")
	fmt.Println()
	return runReport(cmd, ps, answers, desc, baseName(name), pdf)
}

