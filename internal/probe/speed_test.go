package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/remoteready/internal/domain"
)

func speedServer(t *testing.T, failDown bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/__down", func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(r.URL.Query().Get("bytes"))
		if failDown && n > 0 {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		if n > 64<<10 {
			n = 64 << 10
		}
		_, _ = w.Write(make([]byte, n))
	})
	mux.HandleFunc("/__up", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSpeed_MeasuresDownloadAndUpload(t *testing.T) {
	srv := speedServer(t, false)
	st := NewSpeedTester(zap.NewNop(), []string{srv.URL + "/"}, 200*time.Millisecond, 0)

	res, err := st.Speed(context.Background())
	if err != nil {
		t.Fatalf("Speed: %v", err)
	}
	if res.Server != srv.URL {
		t.Fatalf("server=%q", res.Server)
	}
	if res.DownloadMbps <= 0 {
		t.Fatalf("download=%v", res.DownloadMbps)
	}
	if res.UploadErr == "" && res.UploadMbps <= 0 {
		t.Fatalf("upload=%v err=%q", res.UploadMbps, res.UploadErr)
	}
}

func TestSpeed_FallsBackToNextServer(t *testing.T) {
	bad := speedServer(t, true)
	good := speedServer(t, false)
	st := NewSpeedTester(zap.NewNop(), []string{bad.URL, good.URL}, 100*time.Millisecond, 0)

	res, err := st.Speed(context.Background())
	if err != nil {
		t.Fatalf("Speed: %v", err)
	}
	if res.Server != good.URL {
		t.Fatalf("expected fallback to %s, got %s", good.URL, res.Server)
	}
}

func TestSpeed_NoServerReachable(t *testing.T) {
	srv := speedServer(t, false)
	url := srv.URL
	srv.Close()

	st := NewSpeedTester(zap.NewNop(), []string{url, "  "}, 50*time.Millisecond, 0)
	_, err := st.Speed(context.Background())
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestSpeed_AllServersFail(t *testing.T) {
	srv := speedServer(t, true)
	st := NewSpeedTester(zap.NewNop(), []string{srv.URL}, 50*time.Millisecond, 0)
	_, err := st.Speed(context.Background())
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestMbps(t *testing.T) {
	if got := mbps(1_250_000, time.Second); got != 10 {
		t.Fatalf("mbps=%v", got)
	}
	if got := mbps(100, 0); got != 0 {
		t.Fatalf("zero duration should give 0, got %v", got)
	}
}
