package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

const DefaultSpeedServer = "https://speed.cloudflare.com"

type Config struct {
	Addr              string        // report API bind address, loopback by default
	LogDir            string        // logs directory
	Debug             bool          // LOG_LEVEL=debug
	DatabaseURL       string        // postgres history; wins over HistoryDB when set
	HistoryDB         string        // sqlite history file; empty disables local history
	APIKeys           []string      // keys accepted by POST /api/run; empty allows all
	SpeedServers      []string      // speed-test base URLs, ranked by latency at run time
	SpeedDuration     time.Duration // per direction
	SpeedRetries      int           // retryablehttp RetryMax
	ProbeTimeout      time.Duration // bound for helper tools such as v4l2-ctl
	SystemVolume      string        // volume checked for free storage
	ClientVersionFile string        // overrides client version discovery
	RulesFile         string        // YAML thresholds and compatibility matrix
	RunRPM            int           // POST /api/run per minute per client
	RunBurst          int
}

// FromEnv reads the process environment after loading an optional .env
// file. Variables already set in the environment win over .env entries.
func FromEnv() Config {
	_ = godotenv.Load()

	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8089"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	servers := splitList(os.Getenv("SPEEDTEST_SERVERS"))
	if len(servers) == 0 {
		servers = []string{DefaultSpeedServer}
	}

	return Config{
		Addr:              addr,
		LogDir:            logDir,
		Debug:             strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		HistoryDB:         os.Getenv("HISTORY_DB"),
		APIKeys:           splitList(os.Getenv("API_KEYS")),
		SpeedServers:      servers,
		SpeedDuration:     msEnv("SPEEDTEST_DURATION_MS", 10*time.Second),
		SpeedRetries:      intEnv("SPEEDTEST_RETRIES", 0),
		ProbeTimeout:      msEnv("PROBE_TIMEOUT_MS", 5*time.Second),
		SystemVolume:      os.Getenv("SYSTEM_VOLUME"),
		ClientVersionFile: os.Getenv("CLIENT_VERSION_FILE"),
		RulesFile:         os.Getenv("RULES_FILE"),
		RunRPM:            intEnv("RUN_RPM", 6),
		RunBurst:          intEnv("RUN_BURST", 2),
	}
}

// Validate reports every problem FromEnv had to paper over.
func (c Config) Validate() error {
	var err error
	if _, _, e := net.SplitHostPort(c.Addr); e != nil {
		err = multierr.Append(err, fmt.Errorf("API_ADDR %q: %w", c.Addr, e))
	}
	for _, s := range c.SpeedServers {
		u, e := url.Parse(s)
		if e != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			err = multierr.Append(err, fmt.Errorf("SPEEDTEST_SERVERS: %q is not an http(s) URL", s))
		}
	}
	if c.SpeedDuration <= 0 {
		err = multierr.Append(err, fmt.Errorf("SPEEDTEST_DURATION_MS must be positive"))
	}
	if c.SpeedRetries < 0 {
		err = multierr.Append(err, fmt.Errorf("SPEEDTEST_RETRIES must not be negative"))
	}
	for _, key := range []string{"SPEEDTEST_DURATION_MS", "SPEEDTEST_RETRIES", "PROBE_TIMEOUT_MS", "RUN_RPM", "RUN_BURST"} {
		if v := os.Getenv(key); v != "" {
			if _, e := strconv.Atoi(v); e != nil {
				err = multierr.Append(err, fmt.Errorf("%s=%q is not an integer", key, v))
			}
		}
	}
	if c.SystemVolume != "" {
		if _, e := os.Stat(c.SystemVolume); e != nil {
			err = multierr.Append(err, fmt.Errorf("SYSTEM_VOLUME: %w", e))
		}
	}
	return err
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func msEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}
