// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/remoteready/internal/config"
	"github.com/hamed0406/remoteready/internal/evaluator"
	"github.com/hamed0406/remoteready/internal/repo/postgres"
	"github.com/hamed0406/remoteready/internal/repo/sqlite"
)

func main() {
	failed := false
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			fail(e.Error())
		}
	} else {
		ok("environment")
	}

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fail(e.Error())
		}
	} else {
		src := "built-in defaults"
		if cfg.RulesFile != "" {
			src = cfg.RulesFile
		}
		ok(fmt.Sprintf("rules from %s: %d thresholds, %d compatibility entries",
			src, len(rules.Thresholds.Map()), len(rules.Matrix.Entries())))
		if v, _ := rules.Thresholds.Min(evaluator.InternetMbps); v == 0 {
			warn("internet_mbps is 0; the internet check can never fail")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch {
	case cfg.DatabaseURL != "":
		s, err := postgres.New(ctx, cfg.DatabaseURL, zap.NewNop())
		if err != nil {
			fail("DATABASE_URL: " + err.Error())
		} else {
			s.Close()
			ok("DATABASE_URL reachable, reports table ready")
		}
	case cfg.HistoryDB != "":
		s, err := sqlite.Open(ctx, cfg.HistoryDB, zap.NewNop())
		if err != nil {
			fail("HISTORY_DB: " + err.Error())
		} else {
			_ = s.Close()
			ok("HISTORY_DB=" + cfg.HistoryDB)
		}
	default:
		warn("no DATABASE_URL or HISTORY_DB; reports are kept in memory only")
	}

	if runtime.GOOS == "linux" {
		if _, err := exec.LookPath("v4l2-ctl"); err != nil {
			warn("v4l2-ctl not found; webcam resolution will be reported as unknown (install v4l-utils)")
		} else {
			ok("v4l2-ctl available")
		}
	}

	if failed {
		os.Exit(1)
	}
	ok("preflight passed")
}
