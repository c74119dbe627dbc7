package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/jkarls/resgraph/pkg/config"
	"github.com/jkarls/resgraph/pkg/logging"
	"github.com/jkarls/resgraph/pkg/output"
	"github.com/jkarls/resgraph/pkg/store"
	"github.com/jkarls/resgraph/pkg/watcher"
	"github.com/jkarls/resgraph/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("resgraph", pflag.ExitOnError)
	flags.String("data", "./data", "Directory containing dataset files (*.json)")
	flags.Bool("web", false, "Start the web explorer instead of printing a report")
	flags.Int("port", 8080, "Port for the web server (only used with --web)")
	flags.Bool("watch", false, "Reload datasets when files in the data directory change")
	flags.Bool("open", true, "Open the browser when starting in web mode")
	flags.String("version", "", "Limit the report to one dataset version")
	flags.String("verbosity", "", "Log level: debug, info, warn, error")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	applyVerbosity(cfg.Verbosity)

	st := store.New(cfg.DataDir)
	if err := st.Reload(); err != nil {
		logging.Fatal("failed to load datasets", "error", err)
	}

	if cfg.WebMode {
		runWebServer(cfg, st)
		return
	}

	versions := st.Versions()
	if cfg.Version != "" {
		versions = []string{cfg.Version}
	}
	snaps := make([]*store.Snapshot, 0, len(versions))
	for _, version := range versions {
		snap, ok := st.Snapshot(version)
		if !ok {
			logging.Fatal("unknown dataset version", "version", version)
		}
		snaps = append(snaps, snap)
	}
	output.PrintReport(cfg.DataDir, snaps)
}

func applyVerbosity(verbosity string) {
	switch verbosity {
	case "debug":
		logging.SetLevel(slog.LevelDebug)
	case "warn":
		logging.SetLevel(slog.LevelWarn)
	case "error":
		logging.SetLevel(slog.LevelError)
	case "", "info":
	default:
		logging.Warn("unknown verbosity, using info", "verbosity", verbosity)
	}
}

func runWebServer(cfg *config.Config, st *store.Store) {
	server := web.NewServer(st)
	if err := server.PublishDataset("loaded"); err != nil {
		logging.Warn("failed to publish initial dataset event", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Watch {
		if err := startWatcher(ctx, cfg, st, server); err != nil {
			logging.Warn("live reload disabled", "error", err)
		}
	}

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)

	go func() {
		if err := server.Start(cfg.Port); err != nil {
			logging.Fatal("web server failed", "error", err)
		}
	}()

	if cfg.OpenBrowser {
		// Give the listener a moment before pointing a browser at it
		time.Sleep(300 * time.Millisecond)
		openBrowser(url)
	}

	<-ctx.Done()
	logging.Info("shutting down")
}

func startWatcher(ctx context.Context, cfg *config.Config, st *store.Store, server *web.Server) error {
	w, err := watcher.NewDirWatcher(cfg.DataDir)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(w.Events(), 250*time.Millisecond, 2*time.Second)
	debouncer.Start(ctx)

	go func() {
		for event := range debouncer.Output() {
			logging.Info("dataset changed, reloading", "files", len(event.Paths))
			if err := st.Reload(); err != nil {
				logging.Error("reload failed", "error", err)
				continue
			}
			if err := server.PublishDataset("reloaded"); err != nil {
				logging.Warn("failed to publish dataset event", "error", err)
			}
		}
	}()

	return nil
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser on this platform", "platform", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "error", err)
	}
}
