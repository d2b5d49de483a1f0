package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/taskping/internal/browser"
	"github.com/sandeepkv93/taskping/internal/notify"
	"github.com/sandeepkv93/taskping/internal/scheduler"
	"github.com/sandeepkv93/taskping/internal/storage"
	"github.com/sandeepkv93/taskping/internal/template"
	"github.com/sandeepkv93/taskping/internal/update"
	"github.com/sandeepkv93/taskping/internal/urlcheck"
)

func main() {
	checkNow := flag.Bool("check-now", false, "run one notification sweep, print what fired, and exit")
	flag.Parse()

	// Missing .env is fine; env vars still apply.
	_ = godotenv.Load()
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskping: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "taskping: create data dir: %v\n", err)
		os.Exit(1)
	}
	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskping: open database: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		fmt.Fprintf(os.Stderr, "taskping: migrate: %v\n", err)
		os.Exit(1)
	}

	validator := urlcheck.NewValidator()
	executor := browser.NewExecutor(nil, validator, log)
	provider := storage.NewSnapshotProvider(repo, log)

	eval := notify.NewEvaluator()
	eval.Tolerance = time.Duration(cfg.ToleranceMinutes) * time.Minute

	var program *tea.Program
	sink := buildSink(cfg, log, func() {
		if program != nil {
			program.Send(update.SwitchViewMsg{View: update.ViewLog})
		}
	})
	dispatcher := notify.NewDispatcher(sink, executor, log)

	sweeper := scheduler.NewSweeper(provider, eval, dispatcher, log).
		WithInterval(time.Duration(cfg.SweepIntervalMinutes) * time.Minute)

	if *checkNow {
		os.Exit(runCheckNow(sweeper, provider, log))
	}

	m := update.NewModelWithDeps(update.Deps{
		Repo:      repo,
		Sweeper:   sweeper,
		Validator: validator,
		Executor:  executor,
		Templates: template.NewRegistry(),
		Log:       log,
	})
	// Assign program before the sweep loop starts so the front
	// callback never races the assignment.
	program = tea.NewProgram(m, tea.WithAltScreen())

	sweeper.Start()
	defer sweeper.Stop()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskping failed: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger writes to a file so log lines never tear the TUI. With no
// configured path the log sits next to the database.
func setupLogger(cfg update.RuntimeConfig) (logrus.FieldLogger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	path := cfg.LogPath
	if path == "" {
		path = filepath.Join(filepath.Dir(cfg.DatabasePath), "taskping.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, func() { _ = f.Close() }, nil
}

func buildSink(cfg update.RuntimeConfig, log logrus.FieldLogger, front func()) notify.Sink {
	if !cfg.DesktopNotifications {
		return notify.NopSink{}
	}
	return notify.NewExecSink(log, front)
}

func runCheckNow(sweeper *scheduler.Sweeper, provider *storage.SnapshotProvider, log logrus.FieldLogger) int {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tasks, err := provider.ListActiveNotifiable(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskping: check: %v\n", err)
		return 1
	}
	fired, err := sweeper.CheckNow(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskping: check: %v\n", err)
		return 1
	}

	now := time.Now()
	tctx := map[string]string{
		"checked_count": strconv.Itoa(len(tasks)),
		"sweep_time":    now.Format("15:04"),
	}
	if len(fired) > 0 {
		list := ""
		for _, n := range fired {
			list += fmt.Sprintf("- %s (level %d)\n", n.Title, n.Level)
		}
		tctx["fired_count"] = strconv.Itoa(len(fired))
		tctx["fired_list"] = list
	}
	res, err := template.NewRegistry().Generate("sweep_report", tctx)
	if err != nil {
		log.WithError(err).Warn("sweep report template failed")
		fmt.Printf("checked %d tasks, %d fired\n", len(tasks), len(fired))
		return 0
	}
	fmt.Println(res.Text)
	return 0
}
