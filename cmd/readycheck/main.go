package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/hamed0406/remoteready/internal/checker"
	"github.com/hamed0406/remoteready/internal/config"
	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/evaluator"
	"github.com/hamed0406/remoteready/internal/httpapi"
	apimw "github.com/hamed0406/remoteready/internal/httpapi/middleware"
	"github.com/hamed0406/remoteready/internal/logging"
	"github.com/hamed0406/remoteready/internal/probe"
	"github.com/hamed0406/remoteready/internal/repo"
	"github.com/hamed0406/remoteready/internal/repo/memory"
	"github.com/hamed0406/remoteready/internal/repo/postgres"
	"github.com/hamed0406/remoteready/internal/repo/sqlite"
	"github.com/hamed0406/remoteready/internal/runner"
	"github.com/hamed0406/remoteready/internal/tui"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code so deferred cleanup runs before exit.
func realMain() int {
	asJSON := flag.Bool("json", false, "print the report as JSON")
	serve := flag.Bool("serve", false, "serve the report API on API_ADDR instead of running once")
	history := flag.Int("history", 0, "list the last N stored reports and exit")
	out := flag.String("out", "", "also write the text report to this file")
	plain := flag.Bool("plain", false, "never start the interactive UI")
	flag.Parse()

	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Warn("config_invalid", zap.Error(err))
		fmt.Fprintf(os.Stderr, "warning: %v (run preflight for details)\n", err)
	}

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		logger.Error("rules_invalid", zap.Error(err))
		fmt.Fprintf(os.Stderr, "invalid rules: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("store_open_error", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeStore()

	if *history > 0 {
		if err := printHistory(ctx, store, *history); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	host := probe.NewHost(cfg.SystemVolume, cfg.ClientVersionFile, cfg.ProbeTimeout)
	speed := probe.NewSpeedTester(logger, cfg.SpeedServers, cfg.SpeedDuration, cfg.SpeedRetries)
	checks := checker.Builtin(host, speed, evaluator.NewComparator(rules.Thresholds), rules.Matrix)
	run := runner.New(logger, checks, store)

	switch {
	case *serve:
		return serveAPI(ctx, cfg, logger, store, run)
	case !*asJSON && !*plain && isatty.IsTerminal(os.Stdout.Fd()):
		rep, err := tui.Run(run, *out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if rep == nil {
			return 0
		}
		fmt.Print(rep.Text())
		return exitCode(rep)
	default:
		return runOnce(ctx, run, *asJSON, *out)
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.ReportStore, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		s, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		logger.Info("store_postgres")
		return s, s.Close, nil
	case cfg.HistoryDB != "":
		s, err := sqlite.Open(ctx, cfg.HistoryDB, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		logger.Info("store_sqlite", zap.String("path", cfg.HistoryDB))
		return s, func() { _ = s.Close() }, nil
	default:
		return memory.New(), func() {}, nil
	}
}

// runOnce prints the report and returns its exit code.
func runOnce(ctx context.Context, run *runner.Runner, asJSON bool, out string) int {
	progress := isatty.IsTerminal(os.Stderr.Fd())
	rep := run.Run(ctx, func(ev runner.Event) {
		if progress && ev.Kind == runner.Started {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s...\n", ev.Index+1, ev.Total, ev.Label)
		}
	})

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(struct {
			*domain.Report
			Overall domain.Overall `json:"overall"`
		}{rep, rep.Overall()})
	} else {
		fmt.Print(rep.Text())
	}

	if out != "" {
		if err := os.WriteFile(out, []byte(rep.Text()), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "write report:", err)
		}
	}

	return exitCode(rep)
}

// exitCode maps the overall verdict: 0 pass, 1 fail, 2 incomplete.
func exitCode(rep *domain.Report) int {
	switch rep.Overall() {
	case domain.OverallPass:
		return 0
	case domain.OverallFail:
		return 1
	default:
		return 2
	}
}

func serveAPI(ctx context.Context, cfg config.Config, logger *zap.Logger, store repo.ReportStore, run *runner.Runner) int {
	api := httpapi.NewServer(ctx, logger, store, run)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(apimw.Keys(cfg.APIKeys), cfg.RunRPM, cfg.RunBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_listen_error", zap.Error(err))
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	api.Wait()
	logger.Info("api_stopped")
	return 0
}

func printHistory(ctx context.Context, store repo.ReportStore, n int) error {
	list, err := store.List(ctx, n)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no stored reports")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tOVERALL\tPASS\tFAIL\tUNKNOWN\tID")
	for _, s := range list {
		overall := string(s.Overall)
		if s.Partial {
			overall += " (partial)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"), overall, s.Pass, s.Fail, s.Unknown, s.ID)
	}
	return tw.Flush()
}
