package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/painel/internal/catalog"
	"github.com/jask/painel/internal/config"
	"github.com/jask/painel/internal/database"
	"github.com/jask/painel/internal/database/repository"
	"github.com/jask/painel/internal/logging"
	"github.com/jask/painel/internal/service"
	"github.com/jask/painel/internal/tui"
	"github.com/jask/painel/internal/watch"
)

var version = "dev"

type globals struct {
	cfgFile  string
	user     string
	mode     string
	cfg      config.Config
	closeLog func() error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	var exportDir string
	var noWatch bool

	root := &cobra.Command{
		Use:           "painel",
		Short:         "Permission-aware record console",
		Long:          "Painel browses and edits catalog entities, showing each user only what their grants allow.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if g.closeLog != nil {
				return g.closeLog()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runConsole(cmd.Context(), exportDir, !noWatch)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.cfgFile, "config", "", "config file (default $HOME/.config/painel/config.toml)")
	pf.StringVar(&g.user, "user", "", "act as this user")
	pf.StringVar(&g.mode, "mode", "", "force every entity to full, read-only or hidden")
	root.Flags().StringVar(&exportDir, "export-dir", ".", "directory for exported rows")
	root.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when the config file changes")

	root.AddCommand(newPermsCmd(g), newGrantCmd(g), newConfigCmd(g), newMigrateCmd(g), newSeedCmd(g))
	return root
}

// load reads config with flag overrides applied and starts logging.
func (g *globals) load() error {
	if g.cfgFile != "" {
		if err := os.Setenv("PAINEL_CONFIG", g.cfgFile); err != nil {
			return err
		}
	}
	cfg, err := g.reload()
	if err != nil {
		return err
	}
	g.cfg = cfg
	_, closeLog, err := logging.Init(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	g.closeLog = closeLog
	return nil
}

func (g *globals) reload() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if g.user != "" {
		cfg.Auth.User = g.user
	}
	if g.mode != "" {
		cfg.Auth.Mode = g.mode
	}
	return cfg, nil
}

// openDB migrates and opens the configured database, seeding demo rows into
// a fresh one.
func (g *globals) openDB(ctx context.Context, cat *catalog.Catalog) (*sql.DB, error) {
	path := g.cfg.Database.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(path); err != nil {
		return nil, err
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedDefaults(ctx, db, cat); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	return db, nil
}

func (g *globals) runConsole(ctx context.Context, exportDir string, watchConfig bool) error {
	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	db, err := g.openDB(ctx, cat)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := tui.Options{
		Catalog:     cat,
		Entities:    &service.EntityService{Records: repository.NewRecordRepo(db), Log: slog.Default()},
		Permissions: &service.PermissionService{Repo: repository.NewPermissionRepo(db), Catalog: cat},
		Config:      g.cfg,
		LoadConfig:  g.reload,
		ExportDir:   exportDir,
	}

	if watchConfig {
		w, err := watch.New(config.Path(), watch.DefaultDebounce)
		if err != nil {
			slog.Warn("config watch disabled", "path", config.Path(), "err", err)
		} else if err := w.Start(); err != nil {
			slog.Warn("config watch disabled", "path", config.Path(), "err", err)
		} else {
			defer w.Stop()
			opts.Reload = w.Events()
		}
	}

	slog.Info("console started", "user", g.cfg.Auth.User, "db", g.cfg.Database.Path)
	p := tea.NewProgram(tui.New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
