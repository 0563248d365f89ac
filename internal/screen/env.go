package screen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/export"
	"github.com/abhisek/mathsheet/internal/session"
	"github.com/abhisek/mathsheet/internal/store"
)

// Env carries the state and services shared by all screens.
type Env struct {
	State *session.State
	// Service is nil when no LLM provider is configured.
	Service  *session.Service
	Pipeline *export.Pipeline
	// Events is nil when the event store is unavailable.
	Events    store.EventRepo
	OutputDir string
}

// NoticeMsg shows a one-line status message in the footer area.
type NoticeMsg struct {
	Text  string
	Error bool
}

// Notice returns a command emitting a NoticeMsg.
func Notice(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text, Error: isErr} }
}

// ExportDoneMsg reports a finished PDF export. The app releases the
// export's busy flag when it receives this message.
type ExportDoneMsg struct {
	Kind    compose.Kind
	Result  export.Result
	Err     error
	Release func()
}

// StartExport marks kind busy and returns a command running the export of
// doc in the background. It returns a notice command when an export of the
// same kind is already running.
func (e *Env) StartExport(doc compose.Document) tea.Cmd {
	release, err := e.State.Exports.Acquire(doc.Kind())
	if err != nil {
		return Notice(fmt.Sprintf("%s PDF를 이미 생성하고 있습니다.", doc.Kind().Label()), true)
	}
	base := e.State.BaseFilename()
	return func() tea.Msg {
		res, err := e.Pipeline.Export(context.Background(), doc, base)
		return ExportDoneMsg{Kind: doc.Kind(), Result: res, Err: err, Release: release}
	}
}

// SaveJSON writes the current problem set next to the PDFs.
func (e *Env) SaveJSON() tea.Cmd {
	data, err := e.State.ExportJSON()
	if err != nil {
		return Notice("저장할 문제가 없습니다.", true)
	}
	path := filepath.Join(e.OutputDir, export.JSONFileName(e.State.BaseFilename()))
	return func() tea.Msg {
		if e.OutputDir != "" {
			if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
				return NoticeMsg{Text: "JSON 저장 실패: " + err.Error(), Error: true}
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return NoticeMsg{Text: "JSON 저장 실패: " + err.Error(), Error: true}
		}
		return NoticeMsg{Text: "저장됨: " + path}
	}
}
