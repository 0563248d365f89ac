package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/problem"
)

func TestParseAnswers(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		n       int
		want    []int
		wantErr bool
	}{
		{"all answered", "1,5,3", 3, []int{0, 4, 2}, false},
		{"blanks", "2,-,0", 3, []int{1, problem.Unanswered, problem.Unanswered}, false},
		{"short list", "4", 3, []int{3, problem.Unanswered, problem.Unanswered}, false},
		{"empty", "", 2, []int{problem.Unanswered, problem.Unanswered}, false},
		{"spaces", " 1 , 2 ", 2, []int{0, 1}, false},
		{"too many", "1,2,3", 2, nil, true},
		{"not a number", "1,b", 2, nil, true},
		{"out of range", "6", 1, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnswers(tt.raw, tt.n)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Values())
		})
	}
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "진단테스트", baseName("진단테스트"))
	assert.Equal(t, "고2_수학", baseName("고2 수학!"))
	assert.Equal(t, problem.DefaultBaseName, baseName("!!!"))
}

func TestExportKinds(t *testing.T) {
	exportCmd.ResetFlags()
	t.Cleanup(func() {
		exportCmd.ResetFlags()
		registerExportFlags()
	})
	registerExportFlags()

	require.NoError(t, exportCmd.Flags().Set("kind", "answers,problems,answers"))
	kinds, err := exportKinds(exportCmd)
	require.NoError(t, err)
	assert.Equal(t, []compose.Kind{compose.KindAnswerSheet, compose.KindProblemSheet}, kinds)

	require.NoError(t, exportCmd.Flags().Set("all", "true"))
	kinds, err = exportKinds(exportCmd)
	require.NoError(t, err)
	assert.Len(t, kinds, 2, "report needs --report-json")

	require.NoError(t, exportCmd.Flags().Set("report-json", "r.json"))
	kinds, err = exportKinds(exportCmd)
	require.NoError(t, err)
	assert.Contains(t, kinds, compose.KindReport)
}

func TestReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r := &problem.DiagnosticReport{OverallSummary: "기본기가 탄탄합니다."}
	r.Scores.Axis1Geo = 70

	path, err := writeReport(dir, "진단테스트", r)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "진단테스트_리포트.json"), path)

	got, err := readReport(path)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestReadReport_RejectsOutOfRangeScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scores":{"axis1_geo":140},"overallSummary":"x"}`), 0o644))
	_, err := readReport(path)
	assert.Error(t, err)
}

func TestProblemsRoundTrip(t *testing.T) {
	ps := []problem.Problem{{
		Question:           "$1+1$",
		Options:            []string{"1", "2", "3", "4", "5"},
		CorrectAnswerIndex: 1,
		Points:             2,
		ProblemType:        "덧셈",
		Analysis:           "2",
	}}
	path, err := writeProblems(t.TempDir(), "맞춤문제", ps)
	require.NoError(t, err)
	assert.Equal(t, "맞춤문제_문제.json", filepath.Base(path))

	got, err := readProblems(path)
	require.NoError(t, err)
	assert.Equal(t, ps, got)

	_, err = readProblems(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
