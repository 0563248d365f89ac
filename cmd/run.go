package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/app"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/session"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := loadDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	if d.service == nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", d.llmErr)
		fmt.Fprintln(os.Stderr, "Problem generation and reports will be unavailable.")
	}

	env := &screen.Env{
		State:     session.New(session.Theme(d.cfg.UI.Theme)),
		Service:   d.service,
		Pipeline:  d.pipeline,
		Events:    d.events,
		OutputDir: d.cfg.OutputDir,
	}
	return app.Run(app.Options{Env: env})
}
