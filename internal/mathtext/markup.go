// Package mathtext turns problem text containing TeX math markup into
// typeset runs.
//
// Rendering is two-phase. Render splits text into runs and returns
// immediately with every math run still showing its TeX source. An Engine
// later rewrites the math runs in place, usually from a background
// goroutine, so a caller that needs the final layout must wait for the
// typesetting pass to finish.
package mathtext

import (
	"strings"
	"sync"
)

// Kind classifies a run.
type Kind int

const (
	KindText Kind = iota
	KindInline
	KindDisplay
)

func (k Kind) String() string {
	switch k {
	case KindInline:
		return "inline"
	case KindDisplay:
		return "display"
	default:
		return "text"
	}
}

// Run is a contiguous span of text or math.
type Run struct {
	Kind Kind
	// Source is the run content without delimiters.
	Source string
	// Text is what gets drawn. For math runs it equals Source until the run
	// has been typeset.
	Text    string
	Typeset bool
}

// IsMath reports whether the run holds math.
func (r Run) IsMath() bool { return r.Kind != KindText }

// Markup is a rendered text node. It is safe for concurrent use: an engine
// may typeset it while a reader takes snapshots.
type Markup struct {
	mu      sync.RWMutex
	runs    []Run
	version uint64
}

// Render normalises s and splits it into runs. Math runs are not typeset.
func Render(s string) *Markup {
	return &Markup{runs: Parse(Normalize(s))}
}

// Runs returns a snapshot of the runs.
func (m *Markup) Runs() []Run {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Run(nil), m.runs...)
}

// Version increments every time a run changes. Layout code uses it to tell
// whether the markup is still settling.
func (m *Markup) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Pending reports how many math runs are not yet typeset.
func (m *Markup) Pending() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.runs {
		if r.IsMath() && !r.Typeset {
			n++
		}
	}
	return n
}

// String joins the drawable text of all runs. Display runs sit on their own
// lines.
func (m *Markup) String() string {
	var b strings.Builder
	for _, r := range m.Runs() {
		if r.Kind == KindDisplay {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
			b.WriteString(r.Text)
			b.WriteByte('\n')
			continue
		}
		b.WriteString(r.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// set replaces the text of run i and marks it typeset.
func (m *Markup) set(i int, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.runs) {
		return
	}
	m.runs[i].Text = text
	m.runs[i].Typeset = true
	m.version++
}

// Normalize converts literal two-character "\n" escapes into real line
// breaks. A backslash followed by a TeX control word that begins with n
// (\neq, \nabla, \nu, ...) is left alone.
func Normalize(s string) string {
	if !strings.Contains(s, `\n`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == 'n' {
			if _, ok := texSymbols[controlWord(s[i+1:])]; ok {
				b.WriteByte('\\')
				continue
			}
			b.WriteByte('\n')
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// controlWord returns the maximal run of ASCII letters at the start of s.
func controlWord(s string) string {
	n := 0
	for n < len(s) && isLetter(s[n]) {
		n++
	}
	return s[:n]
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

type delimiter struct {
	open, close string
	kind        Kind
}

// Longer openers come first so "$$" wins over "$".
var delimiters = []delimiter{
	{"$$", "$$", KindDisplay},
	{`\[`, `\]`, KindDisplay},
	{`\(`, `\)`, KindInline},
	{"$", "$", KindInline},
}

// Parse splits normalised text into text and math runs. An opener without a
// matching closer is kept as literal text. "\$" is a literal dollar sign.
func Parse(s string) []Run {
	var runs []Run
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			t := text.String()
			runs = append(runs, Run{Kind: KindText, Source: t, Text: t, Typeset: true})
			text.Reset()
		}
	}

	i := 0
outer:
	for i < len(s) {
		if strings.HasPrefix(s[i:], `\$`) {
			text.WriteByte('$')
			i += 2
			continue
		}
		for _, d := range delimiters {
			if !strings.HasPrefix(s[i:], d.open) {
				continue
			}
			start := i + len(d.open)
			end := findClose(s, start, d.close)
			if end < 0 {
				break
			}
			flush()
			src := s[start:end]
			runs = append(runs, Run{Kind: d.kind, Source: src, Text: src})
			i = end + len(d.close)
			continue outer
		}
		text.WriteByte(s[i])
		i++
	}
	flush()
	return runs
}

// findClose returns the index of closer in s at or after start, skipping
// backslash-escaped characters. A single "$" closer never matches "$$".
func findClose(s string, start int, closer string) int {
	for j := start; j < len(s); j++ {
		if s[j] == '\\' && closer == "$" {
			j++
			continue
		}
		if !strings.HasPrefix(s[j:], closer) {
			continue
		}
		if closer == "$" && j+1 < len(s) && s[j+1] == '$' {
			return -1
		}
		return j
	}
	return -1
}
