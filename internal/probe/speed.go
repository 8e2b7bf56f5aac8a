package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/hamed0406/remoteready/internal/domain"
)

const (
	downloadChunk = 25 << 20
	uploadChunk   = 4 << 20
)

// SpeedTester measures throughput against HTTP speed-test servers that
// expose GET /__down?bytes=N and POST /__up. Servers are ranked by
// round-trip latency and tried in order until one completes a download.
type SpeedTester struct {
	Logger   *zap.Logger
	Client   *retryablehttp.Client
	Servers  []string
	Duration time.Duration
	// MaxServers bounds how many ranked servers are attempted.
	MaxServers int
}

func NewSpeedTester(logger *zap.Logger, servers []string, duration time.Duration, retries int) *SpeedTester {
	c := retryablehttp.NewClient()
	c.RetryMax = retries
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.Logger = nil
	if duration <= 0 {
		duration = 10 * time.Second
	}
	return &SpeedTester{
		Logger:     logger,
		Client:     c,
		Servers:    servers,
		Duration:   duration,
		MaxServers: 5,
	}
}

type rankedServer struct {
	base      string
	latencyMS float64
}

func (s *SpeedTester) Speed(ctx context.Context) (SpeedResult, error) {
	ranked := s.rank(ctx)
	if len(ranked) == 0 {
		return SpeedResult{}, fmt.Errorf("no speed-test server responded: %w", domain.ErrUnavailable)
	}
	if s.MaxServers > 0 && len(ranked) > s.MaxServers {
		ranked = ranked[:s.MaxServers]
	}

	var lastErr error
	for _, srv := range ranked {
		down, err := s.download(ctx, srv.base)
		if err != nil {
			if ctx.Err() != nil {
				return SpeedResult{}, ctx.Err()
			}
			s.Logger.Warn("speedtest_download_failed", zap.String("server", srv.base), zap.Error(err))
			lastErr = err
			continue
		}
		res := SpeedResult{Server: srv.base, LatencyMS: srv.latencyMS, DownloadMbps: down}
		up, err := s.upload(ctx, srv.base)
		if err != nil {
			res.UploadErr = err.Error()
			s.Logger.Warn("speedtest_upload_failed", zap.String("server", srv.base), zap.Error(err))
		}
		res.UploadMbps = up
		s.Logger.Info("speedtest_done",
			zap.String("server", srv.base),
			zap.Float64("latency_ms", res.LatencyMS),
			zap.Float64("download_mbps", res.DownloadMbps),
			zap.Float64("upload_mbps", res.UploadMbps),
		)
		return res, nil
	}
	return SpeedResult{}, fmt.Errorf("all speed-test servers failed: %v: %w", lastErr, domain.ErrUnavailable)
}

// rank measures a zero-byte request against every server and sorts the
// responsive ones by latency.
func (s *SpeedTester) rank(ctx context.Context) []rankedServer {
	var out []rankedServer
	for _, base := range s.Servers {
		base = strings.TrimRight(strings.TrimSpace(base), "/")
		if base == "" {
			continue
		}
		lat, err := s.latency(ctx, base)
		if err != nil {
			s.Logger.Debug("speedtest_server_unreachable", zap.String("server", base), zap.Error(err))
			continue
		}
		out = append(out, rankedServer{base: base, latencyMS: lat})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].latencyMS < out[j].latencyMS })
	return out
}

func (s *SpeedTester) latency(ctx context.Context, base string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, base+"/__down?bytes=0", nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return 0, fmt.Errorf("status %s", resp.Status)
	}
	return time.Since(start).Seconds() * 1000, nil
}

type countingWriter struct{ n int64 }

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

// download streams chunks until Duration elapses and returns Mbps.
func (s *SpeedTester) download(ctx context.Context, base string) (float64, error) {
	dctx, cancel := context.WithTimeout(ctx, s.Duration)
	defer cancel()

	url := base + "/__down?bytes=" + strconv.Itoa(downloadChunk)
	var cw countingWriter
	start := time.Now()
	for dctx.Err() == nil {
		req, err := retryablehttp.NewRequestWithContext(dctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, err
		}
		resp, err := s.Client.Do(req)
		if err != nil {
			if dctx.Err() != nil && ctx.Err() == nil {
				break
			}
			return 0, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return 0, fmt.Errorf("download status %s", resp.Status)
		}
		_, err = io.Copy(&cw, resp.Body)
		resp.Body.Close()
		if err != nil && !(dctx.Err() != nil && ctx.Err() == nil) {
			return 0, err
		}
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	if cw.n == 0 {
		return 0, errors.New("no bytes received")
	}
	return mbps(cw.n, time.Since(start)), nil
}

// upload posts fixed-size chunks until Duration elapses. Only completed
// chunks count.
func (s *SpeedTester) upload(ctx context.Context, base string) (float64, error) {
	uctx, cancel := context.WithTimeout(ctx, s.Duration)
	defer cancel()

	payload := make([]byte, uploadChunk)
	var sent int64
	start := time.Now()
	var elapsed time.Duration
	for uctx.Err() == nil {
		req, err := retryablehttp.NewRequestWithContext(uctx, http.MethodPost, base+"/__up", bytes.NewReader(payload))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/octet-stream")
		resp, err := s.Client.Do(req)
		if err != nil {
			if uctx.Err() != nil && ctx.Err() == nil {
				break
			}
			return 0, err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return 0, fmt.Errorf("upload status %s", resp.Status)
		}
		sent += int64(len(payload))
		elapsed = time.Since(start)
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	if sent == 0 {
		return 0, errors.New("no upload completed")
	}
	return mbps(sent, elapsed), nil
}

func mbps(n int64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) * 8 / d.Seconds() / 1e6
}
