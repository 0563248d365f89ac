package compose

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsheet/internal/barrier"
	"github.com/abhisek/mathsheet/internal/mathtext"
	"github.com/abhisek/mathsheet/internal/problem"
)

func sampleProblems() []problem.Problem {
	return []problem.Problem{
		{
			Question:           "$x^2 = 9$일 때 양수 $x$는?",
			Options:            []string{"1", "2", "3", "4", "5"},
			CorrectAnswerIndex: 2,
			Points:             3,
			ProblemType:        "이차방정식",
			Analysis:           "$$x = \\sqrt{9}$$",
		},
		{
			Question:           "삼각형의 내각의 합은?",
			Options:            []string{"$90^\\circ$", "$180^\\circ$", "$270^\\circ$", "$360^\\circ$", "$45^\\circ$"},
			CorrectAnswerIndex: 1,
			Points:             2,
			ProblemType:        "도형",
			Analysis:           "기본 성질",
			SVGMarkup:          testSVG,
		},
	}
}

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect x="0" y="0" width="100" height="50" fill="#000000"/></svg>`

func fastBarrier() barrier.Config {
	return barrier.Config{
		SheetDelay:      10 * time.Millisecond,
		DefaultDelay:    10 * time.Millisecond,
		TypesetInitial:  5 * time.Millisecond,
		TypesetSettle:   5 * time.Millisecond,
		TypesetFallback: 10 * time.Millisecond,
	}
}

// texts flattens every text block of a tree into its source strings.
func texts(blocks []Block) []string {
	var out []string
	var walk func([]Block)
	walk = func(bs []Block) {
		for _, b := range bs {
			switch b := b.(type) {
			case Text:
				out = append(out, b.Markup.String())
			case Box:
				walk(b.Children)
			case Row:
				walk(b.Children)
			case Group:
				walk(b.Children)
			case Chart:
				out = append(out, b.Title)
			}
		}
	}
	walk(blocks)
	return out
}

func countKeepTogether(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		switch b := b.(type) {
		case Group:
			if b.KeepTogether {
				n++
			}
			n += countKeepTogether(b.Children)
		case Box:
			n += countKeepTogether(b.Children)
		}
	}
	return n
}

func compose(doc Document) *Builder {
	b := NewBuilder()
	doc.Compose(b)
	return b
}

func joined(b *Builder) string { return strings.Join(texts(b.Blocks()), "\n") }

func TestKind(t *testing.T) {
	assert.Equal(t, "문제지", KindProblemSheet.Label())
	assert.Equal(t, "해설지", KindAnswerSheet.Label())
	assert.Equal(t, "리포트", KindReport.Label())
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("poster")
	assert.Error(t, err)
}

func TestProblemSheetCompose(t *testing.T) {
	b := compose(ProblemSheet(sampleProblems()))
	all := joined(b)

	assert.Contains(t, all, "AI 생성 맞춤 수학 문제지")
	assert.Contains(t, all, "성명:")
	assert.Contains(t, all, "[3점]")
	assert.Contains(t, all, "① 1")
	assert.Contains(t, all, "⑤ 45^\\circ")
	assert.Equal(t, 2, countKeepTogether(b.Blocks()))
	assert.NotEmpty(t, b.Markups())
}

func TestAnswerSheetCompose(t *testing.T) {
	all := joined(compose(AnswerSheet(sampleProblems())))
	assert.Contains(t, all, "정답 및 해설")
	assert.Contains(t, all, "1번 문항")
	assert.Contains(t, all, "정답: ③")
	assert.Contains(t, all, "정답: ②")
	assert.Contains(t, all, "유형: 도형")
	assert.Contains(t, all, "[출제 의도 및 해설]")
}

func sampleReport() problem.DiagnosticReport {
	return problem.DiagnosticReport{
		Scores:             problem.ScoreVector{Axis1Geo: 80, Axis4Acc: 40, Axis4Gri: 60},
		Axis1CognitiveBase: problem.AxisAnalysis{Archetype: "직관형 탐험가", Summary: "요약"},
		OverallSummary:     "전반적으로 우수합니다.",
	}
}

func TestReportExportModeExpandsDetails(t *testing.T) {
	answers := problem.AnswerSetFrom([]int{2, problem.Unanswered})
	doc := ReportDocument(sampleReport(), sampleProblems(), answers, true)
	all := joined(compose(doc))

	assert.Contains(t, all, "AI 수학 학습 진단 리포트")
	assert.Contains(t, all, "전반적으로 우수합니다.")
	assert.Contains(t, all, "1번 문항")
	assert.Contains(t, all, "학생 답안: ③ 3")
	assert.Contains(t, all, "학생 답안: 선택 안함")
	assert.Contains(t, all, "정답")
	assert.Contains(t, all, "오답")
	assert.Contains(t, all, "학생의 잠재 공간")
	assert.Contains(t, all, "실행의 지구력")
	assert.Contains(t, all, "축 5: 커리큘럼 진도")
	assert.Contains(t, all, "직관형 탐험가")
}

func TestReportCollapsedOutsideExportMode(t *testing.T) {
	answers := problem.AnswerSetFrom([]int{2, 1})
	all := joined(compose(ReportDocument(sampleReport(), sampleProblems(), answers, false)))
	assert.Contains(t, all, "문항별 진단 상세 보기")
	assert.NotContains(t, all, "학생 답안")
}

type fakeSurface struct {
	mu     sync.Mutex
	blocks []Block
	calls  int
}

func (s *fakeSurface) SetContent(blocks []Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = blocks
	s.calls++
}

func waitReady(t *testing.T, m *Mounted) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, m.Wait(ctx), "mount never became ready")
}

func TestMountTypesetsAndResolves(t *testing.T) {
	surface := &fakeSurface{}
	m := Mount(context.Background(), ProblemSheet(sampleProblems()), surface, mathtext.UnicodeEngine{}, fastBarrier())
	defer m.Unmount()

	assert.Equal(t, 1, surface.calls)
	assert.NotEmpty(t, surface.blocks)

	waitReady(t, m)
	<-m.Typeset()
	assert.Equal(t, 0, m.Pending())
	assert.Contains(t, joined(&Builder{blocks: m.Blocks()}), "x² = 9")
}

func TestMountSheetStableMode(t *testing.T) {
	cfg := fastBarrier()
	cfg.Mode = barrier.ModeStable
	cfg.SheetDelay = time.Hour
	cfg.StableInterval = 5 * time.Millisecond
	cfg.StableQuiet = 30 * time.Millisecond

	for _, doc := range []Document{ProblemSheet(sampleProblems()), AnswerSheet(sampleProblems())} {
		m := Mount(context.Background(), doc, &fakeSurface{}, mathtext.UnicodeEngine{}, cfg)
		waitReady(t, m)
		assert.Equal(t, 0, m.Pending(), "%s", doc.Kind())
		m.Unmount()
	}
}

func TestMountReportWithoutEngineUsesFallback(t *testing.T) {
	answers := problem.AnswerSetFrom([]int{2, 1})
	doc := ReportDocument(sampleReport(), sampleProblems(), answers, true)
	m := Mount(context.Background(), doc, &fakeSurface{}, nil, fastBarrier())
	defer m.Unmount()

	waitReady(t, m)
	assert.Greater(t, m.Pending(), 0, "math stays as source without an engine")
	assert.NoError(t, m.TypesetErr())
}

func TestMountReportWaitsForTypesetting(t *testing.T) {
	answers := problem.AnswerSetFrom([]int{2, 1})
	doc := ReportDocument(sampleReport(), sampleProblems(), answers, true)
	m := Mount(context.Background(), doc, &fakeSurface{}, mathtext.UnicodeEngine{}, fastBarrier())
	defer m.Unmount()

	waitReady(t, m)
	assert.Equal(t, 0, m.Pending())
}

func TestUnmountBeforeReady(t *testing.T) {
	cfg := fastBarrier()
	cfg.SheetDelay = time.Hour
	m := Mount(context.Background(), ProblemSheet(sampleProblems()), &fakeSurface{}, nil, cfg)
	m.Unmount()
	m.Unmount()

	time.Sleep(30 * time.Millisecond)
	assert.ErrorIs(t, m.Wait(context.Background()), barrier.ErrStopped, "unmounted document must not resolve")
}

func pageHeightCSS() float64 { return A4Width * A4HeightMM / A4WidthMM }

func ruleYs(f *Frame) []float64 {
	var ys []float64
	for _, it := range f.items {
		if l, ok := it.(lineItem); ok {
			ys = append(ys, l.y1)
		}
	}
	return ys
}

func TestKeepTogetherMovesToNextPage(t *testing.T) {
	ph := pageHeightCSS()
	blocks := []Block{
		Spacer{Height: ph - 50},
		Group{KeepTogether: true, Children: []Block{Rule{Width: 2}, Spacer{Height: 100}}},
	}
	f, err := Layout(blocks, Options{Scale: 1})
	require.NoError(t, err)
	defer f.Close()

	ys := ruleYs(f)
	require.Len(t, ys, 1)
	assert.GreaterOrEqual(t, ys[0], f.PageHeight, "group should start on page 2")
	assert.InDelta(t, f.PageHeight+pageTopGap+1, ys[0], 0.001)
}

func TestPlainGroupIsNotMoved(t *testing.T) {
	ph := pageHeightCSS()
	blocks := []Block{
		Spacer{Height: ph - 50},
		Group{Children: []Block{Rule{Width: 2}, Spacer{Height: 100}}},
	}
	f, err := Layout(blocks, Options{Scale: 1})
	require.NoError(t, err)
	defer f.Close()

	assert.InDelta(t, ph-50+1, ruleYs(f)[0], 0.001)
}

func TestOversizedKeepTogetherIsNotMoved(t *testing.T) {
	ph := pageHeightCSS()
	blocks := []Block{
		Spacer{Height: 100},
		Group{KeepTogether: true, Children: []Block{Rule{Width: 2}, Spacer{Height: ph * 1.5}}},
	}
	f, err := Layout(blocks, Options{Scale: 1})
	require.NoError(t, err)
	defer f.Close()

	assert.InDelta(t, 101, ruleYs(f)[0], 0.001)
}

func TestLayoutScalesToDevicePixels(t *testing.T) {
	f, err := Layout([]Block{Spacer{Height: 100}}, Options{Scale: 2})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, 200, f.Height)
	assert.Equal(t, int(math.Ceil(A4Width*2)), f.Width)
	assert.InDelta(t, float64(f.Width)*A4HeightMM/A4WidthMM, f.PageHeight, 1e-9)
}

func TestPageHeightFollowsCaptureWidth(t *testing.T) {
	for _, scale := range []float64{1, 1.5, 2, 3} {
		f, err := Layout([]Block{Spacer{Height: 10}}, Options{Scale: scale})
		require.NoError(t, err)
		f.Close()

		// The PDF slices bands of Width*297/210 device pixels; keep-together
		// breaks must use the same boundary.
		assert.Equal(t, float64(f.Width)*A4HeightMM/A4WidthMM, f.PageHeight, "scale=%v", scale)
	}
}

func TestViewportClipsFrame(t *testing.T) {
	ph := pageHeightCSS()
	blocks := []Block{Spacer{Height: ph * 2}, Rule{Width: 2}, Spacer{Height: 100}}

	full, err := Layout(blocks, Options{Scale: 1})
	require.NoError(t, err)
	defer full.Close()
	require.Len(t, ruleYs(full), 1)

	clipped, err := Layout(blocks, Options{Scale: 1, Viewport: ph})
	require.NoError(t, err)
	defer clipped.Close()
	assert.Equal(t, int(math.Ceil(ph)), clipped.Height)
	assert.Empty(t, ruleYs(clipped), "items below the viewport are dropped")
	assert.Greater(t, full.Height, clipped.Height)
}

func TestWrapFitsWidth(t *testing.T) {
	fonts, err := GoFonts()
	require.NoError(t, err)
	fc := newFaceCache(fonts)
	defer fc.close()
	face := fc.face(16, false)

	text := "the quick brown fox jumps over the lazy dog again and again"
	lines := wrap(face, text, 120)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, advance(face, l), 120.0, l)
	}
	assert.Equal(t, text, strings.Join(lines, " "))

	long := wrap(face, strings.Repeat("x", 200), 50)
	require.Greater(t, len(long), 1)
	assert.Equal(t, strings.Repeat("x", 200), strings.Join(long, ""))

	assert.Equal(t, []string{""}, wrap(face, "", 100))
}

func TestFigureLayoutAndPaint(t *testing.T) {
	f, err := Layout([]Block{Figure{SVG: testSVG, MaxWidth: 200, Scale: 1, Opacity: 1}}, Options{Scale: 1})
	require.NoError(t, err)
	defer f.Close()

	require.Len(t, f.items, 1)
	fig := f.items[0].(figureItem)
	assert.InDelta(t, 200, fig.w, 0.001)
	assert.InDelta(t, 100, fig.h, 0.001)
	assert.Equal(t, 100, f.Height)

	img := f.Paint()
	cx, cy := int(fig.x+fig.w/2), int(fig.y+fig.h/2)
	r, g, b, _ := img.At(cx, cy).RGBA()
	assert.Less(t, r+g+b, uint32(3*0x8000), "figure centre should be dark")
	r, g, b, _ = img.At(2, 2).RGBA()
	assert.Equal(t, uint32(3*0xffff), r+g+b, "background should be white")
}

func TestBadFigureIsSkippedWithWarning(t *testing.T) {
	f, err := Layout([]Block{Figure{SVG: "<svg", MaxWidth: 200}}, Options{})
	require.NoError(t, err)
	defer f.Close()
	assert.Empty(t, f.items)
	assert.NotEmpty(t, f.Warnings)
}

func TestPaintDocument(t *testing.T) {
	surface := &fakeSurface{}
	answers := problem.AnswerSetFrom([]int{2, 0})
	m := Mount(context.Background(), ReportDocument(sampleReport(), sampleProblems(), answers, true), surface, mathtext.UnicodeEngine{}, fastBarrier())
	defer m.Unmount()
	waitReady(t, m)

	f, err := Layout(surface.blocks, Options{Scale: 1})
	require.NoError(t, err)
	defer f.Close()

	assert.Greater(t, f.Height, int(f.PageHeight), "report spans more than one page")
	img := f.Paint()
	assert.Equal(t, f.Width, img.Bounds().Dx())
	assert.Equal(t, f.Height, img.Bounds().Dy())

	var charts int
	for _, it := range f.items {
		if _, ok := it.(chartItem); ok {
			charts++
		}
	}
	assert.Equal(t, 5, charts)
}
