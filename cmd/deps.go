package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/config"
	"github.com/abhisek/mathsheet/internal/diagnosis"
	"github.com/abhisek/mathsheet/internal/export"
	"github.com/abhisek/mathsheet/internal/llm"
	"github.com/abhisek/mathsheet/internal/mathtext"
	"github.com/abhisek/mathsheet/internal/problemgen"
	"github.com/abhisek/mathsheet/internal/session"
	"github.com/abhisek/mathsheet/internal/store"
)

// deps holds everything a command may need. Service is nil when no LLM
// provider is configured.
type deps struct {
	cfg      *config.Config
	store    *store.Store
	events   store.EventRepo
	service  *session.Service
	pipeline *export.Pipeline
	host     *export.Host
	llmErr   error
}

// loadDeps reads the config, opens the event store and builds the LLM and
// export stacks. A missing LLM provider is not an error here; commands
// that need one call requireService.
func loadDeps(cmd *cobra.Command) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	d := &deps{cfg: cfg, store: st, events: st.EventRepo()}

	fonts, err := compose.LoadFonts(cfg.Render.FontPath, cfg.Render.BoldFontPath)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	d.host = export.NewHost()
	d.pipeline = export.New(d.host, export.Options{
		Scale:      cfg.Render.Scale,
		Barrier:    cfg.Render.Barrier,
		FontFamily: cfg.Render.FontFamily,
		Fonts:      fonts,
		Engine:     mathtext.UnicodeEngine{},
		OutputDir:  cfg.OutputDir,
	}, d.events)

	llmCfg, err := llm.ResolveConfig()
	if err == nil {
		llmCfg.Override(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.Timeout)
		var provider llm.Provider
		provider, err = llm.NewProvider(cmd.Context(), llmCfg, d.events)
		if err == nil {
			d.service = session.NewService(
				problemgen.New(provider, problemgen.DefaultConfig()),
				diagnosis.NewAnalyzer(provider, diagnosis.DefaultConfig()),
				d.events,
			)
		}
	}
	d.llmErr = err
	return d, nil
}

// openStore opens only the event database, for commands that read history.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultPath()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.OutputDir = out
	}
	return cfg, nil
}

// requireService returns the session service or the reason it is missing.
func (d *deps) requireService() (*session.Service, error) {
	if d.service == nil {
		return nil, fmt.Errorf("LLM provider: %w", d.llmErr)
	}
	return d.service, nil
}

func (d *deps) Close() {
	d.host.Close()
	d.store.Close()
}

// warn prints a non-fatal problem on stderr.
func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
