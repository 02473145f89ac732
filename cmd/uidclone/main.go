package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/jask/uidclone/internal/clone"
	"github.com/jask/uidclone/internal/config"
	"github.com/jask/uidclone/internal/database"
	"github.com/jask/uidclone/internal/database/repository"
	"github.com/jask/uidclone/internal/service"
	"github.com/jask/uidclone/internal/tag"
	"github.com/jask/uidclone/internal/tui"
)

func main() {
	ctx := context.Background()

	fs := pflag.NewFlagSet("uidclone", pflag.ExitOnError)
	cfgPath := fs.String("config", "", "config file (default $UIDCLONE_CONFIG or ~/.config/uidclone/config.toml)")
	headless := fs.Bool("block0", false, "print block 0 for --uid and exit")
	uid := fs.String("uid", "", "UID as hex, used with --block0")
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgPath, fs)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *headless {
		if err := printBlock0(os.Stdout, cfg, *uid); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	if err := run(ctx, cfg, logger); err != nil {
		closeLog()
		log.Fatal(err)
	}
	closeLog()
}

// run opens storage and the tag field, then hands the terminal to the TUI.
// Startup failures are written to the log file before they are returned.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return startupFailed(logger, "migrate", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return startupFailed(logger, "open db", err)
	}
	defer db.Close()

	field, err := tag.LoadField(cfg.Tags.Path)
	if err != nil {
		return startupFailed(logger, "tags", err)
	}
	logger.Info("started", "db", cfg.Database.Path, "tags", cfg.Tags.Path, "tag_count", len(field.Tags()))

	cloner := &service.Cloner{
		Scans:    repository.NewScanRepo(db),
		Attempts: repository.NewAttemptRepo(db),
		Field:    field,
		Log:      logger.With("component", "cloner"),
	}
	maintenance := &service.MaintenanceService{DB: db}

	p := tea.NewProgram(tui.New(ctx, cfg, field,
		tui.Services{Cloner: cloner, Maintenance: maintenance},
		logger,
	), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("tui exited", "err", err)
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func startupFailed(logger *slog.Logger, stage string, err error) error {
	logger.Error("startup failed", "stage", stage, "err", err)
	return fmt.Errorf("%s: %w", stage, err)
}

// printBlock0 validates uid against the configured tail and key and writes
// the resulting block 0 as hex.
func printBlock0(w io.Writer, cfg config.Config, uid string) error {
	req, err := clone.Form{
		UID:     uid,
		Tail:    cfg.Clone.Tail,
		Key:     cfg.Clone.Key,
		UseKeyB: cfg.Clone.UseKeyB,
	}.Parse()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, req.Block0.String())
	return err
}
