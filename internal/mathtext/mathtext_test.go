package mathtext

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`첫째 줄\n둘째 줄`, "첫째 줄\n둘째 줄"},
		{`a\n\nb`, "a\n\nb"},
		{`$x \neq 1$`, `$x \neq 1$`},
		{`$\nabla f$\n끝`, "$\\nabla f$\n끝"},
		{`\next`, "\next"},
		{"no escapes", "no escapes"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDelimiters(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		kinds []Kind
		srcs  []string
	}{
		{"inline dollar", "값은 $x+1$ 이다", []Kind{KindText, KindInline, KindText}, []string{"값은 ", "x+1", " 이다"}},
		{"display dollar", "$$a^2$$", []Kind{KindDisplay}, []string{"a^2"}},
		{"paren", `\(y\)와 \[z\]`, []Kind{KindInline, KindText, KindDisplay}, []string{"y", "와 ", "z"}},
		{"unterminated", "가격 $5", []Kind{KindText}, []string{"가격 $5"}},
		{"escaped dollar", `\$5 와 $x$`, []Kind{KindText, KindInline}, []string{"$5 와 ", "x"}},
		{"plain", "그냥 글", []Kind{KindText}, []string{"그냥 글"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := Parse(tt.in)
			if len(runs) != len(tt.kinds) {
				t.Fatalf("expected %d runs, got %d: %+v", len(tt.kinds), len(runs), runs)
			}
			for i, r := range runs {
				if r.Kind != tt.kinds[i] {
					t.Errorf("run %d kind = %v, want %v", i, r.Kind, tt.kinds[i])
				}
				if r.Source != tt.srcs[i] {
					t.Errorf("run %d source = %q, want %q", i, r.Source, tt.srcs[i])
				}
			}
		})
	}
}

func TestRenderLeavesMathPending(t *testing.T) {
	m := Render(`$\frac{1}{2}$ 과 $\pi$`)
	if got := m.Pending(); got != 2 {
		t.Fatalf("expected 2 pending runs, got %d", got)
	}
	runs := m.Runs()
	if runs[0].Text != `\frac{1}{2}` {
		t.Fatalf("untypeset run should show source, got %q", runs[0].Text)
	}
}

func TestToUnicode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`x^2 + y^2`, "x² + y²"},
		{`\frac{1}{2}`, "1/2"},
		{`\frac{a+b}{c}`, "(a+b)/c"},
		{`\sqrt{2}`, "√2"},
		{`\sqrt[3]{8}`, "∛8"},
		{`3 \times 4 \div 2`, "3 × 4 ÷ 2"},
		{`\alpha + \beta`, "α + β"},
		{`a_1, a_{10}`, "a₁, a₁₀"},
		{`x \leq 5`, "x ≤ 5"},
		{`\angle ABC = 90^\circ`, "∠ ABC = 90°"},
		{`\text{넓이} = 12`, "넓이 = 12"},
		{`2x - 1`, "2x − 1"},
		{`\left( x \right)`, "( x )"},
		{`x^{-1}`, "x⁻¹"},
		{`e^{xy}`, "eˣʸ"},
		{`x^{z}`, "x^z"},
	}
	for _, tt := range tests {
		got, err := ToUnicode(tt.in)
		if err != nil {
			t.Errorf("ToUnicode(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ToUnicode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToUnicodeUnbalanced(t *testing.T) {
	for _, in := range []string{`\frac{1}{2`, `x}`, `{a`} {
		if _, err := ToUnicode(in); err == nil {
			t.Errorf("ToUnicode(%q): expected error", in)
		}
	}
}

func TestUnicodeEngineTypesetsInPlace(t *testing.T) {
	m := Render(`넓이는 $\pi r^2$ 이다`)
	v := m.Version()
	if err := (UnicodeEngine{}).Typeset(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Pending() != 0 {
		t.Fatal("expected no pending runs")
	}
	if m.Version() == v {
		t.Fatal("expected version bump")
	}
	if got := m.String(); got != "넓이는 π r² 이다" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestUnicodeEngineKeepsFailedRunSource(t *testing.T) {
	m := Render(`$\frac{1}{$ 와 $x^2$`)
	err := (UnicodeEngine{}).Typeset(context.Background(), m)
	var re *RunError
	if !errors.As(err, &re) {
		t.Fatalf("expected RunError, got %v", err)
	}
	runs := m.Runs()
	if runs[0].Text != `\frac{1}{` || runs[0].Typeset {
		t.Fatalf("failed run should keep source, got %+v", runs[0])
	}
	if runs[2].Text != "x²" {
		t.Fatalf("later runs should still be typeset, got %q", runs[2].Text)
	}
}

type slowEngine struct {
	release chan struct{}
}

func (e slowEngine) Typeset(ctx context.Context, docs ...*Markup) error {
	select {
	case <-e.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return UnicodeEngine{}.Typeset(ctx, docs...)
}

func TestStartIsAsynchronous(t *testing.T) {
	eng := slowEngine{release: make(chan struct{})}
	m := Render(`$x^2$`)

	pass := Start(context.Background(), eng, m)
	select {
	case <-pass.Done():
		t.Fatal("pass finished before the engine was released")
	default:
	}
	if m.Pending() != 1 {
		t.Fatal("markup typeset too early")
	}

	close(eng.release)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := pass.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Pending() != 0 {
		t.Fatal("markup not typeset after pass")
	}
}

func TestStartCancelled(t *testing.T) {
	eng := slowEngine{release: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	pass := Start(ctx, eng, Render(`$x$`))
	cancel()

	wctx, wcancel := context.WithTimeout(context.Background(), time.Second)
	defer wcancel()
	if err := pass.Wait(wctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStartNilEngine(t *testing.T) {
	pass := Start(context.Background(), nil, Render(`$x$`))
	select {
	case <-pass.Done():
	default:
		t.Fatal("nil engine pass should be done immediately")
	}
}

func TestPlain(t *testing.T) {
	got := Plain(`$\sqrt{9} = 3$\n다음 줄`)
	if got != "√9 = 3\n다음 줄" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTypesetterPromise(t *testing.T) {
	a, b := Render(`$x^2$`), Render(`$\pi$ 와 $\alpha$`)
	ts := NewTypesetter(UnicodeEngine{}, a, b)
	if ts.Pending() != 3 {
		t.Fatalf("expected 3 pending, got %d", ts.Pending())
	}
	select {
	case err := <-ts.Promise(context.Background()):
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("promise did not resolve")
	}
	if ts.Pending() != 0 {
		t.Fatalf("expected nothing pending, got %d", ts.Pending())
	}
	if ts.Version() != 3 {
		t.Fatalf("expected version 3, got %d", ts.Version())
	}
}
