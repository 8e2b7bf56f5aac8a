package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/hamed0406/remoteready/internal/domain"
)

func TestParseResolution(t *testing.T) {
	cases := []struct {
		in   string
		want Resolution
		ok   bool
	}{
		{"1920x1080", Resolution{1920, 1080}, true},
		{"1920x1080i", Resolution{1920, 1080}, true},
		{" 2560x1440@60 ", Resolution{2560, 1440}, true},
		{"0x1080", Resolution{}, false},
		{"garbage", Resolution{}, false},
		{"", Resolution{}, false},
	}
	for _, c := range cases {
		got, err := ParseResolution(c.in)
		if c.ok && err != nil {
			t.Fatalf("ParseResolution(%q) unexpected error: %v", c.in, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("ParseResolution(%q) expected error, got %+v", c.in, got)
		}
		if got != c.want {
			t.Fatalf("ParseResolution(%q)=%+v want %+v", c.in, got, c.want)
		}
	}
}

func TestNormalizeClientVersion(t *testing.T) {
	cases := map[string]string{
		"23.11.1.13": "2311.1.13",
		"24.9.0.45":  "2409.0.45",
		"2311.1.13":  "2311.1.13",
		"19.12":      "1912",
		"10.1.2":     "10.1.2",
		"abc":        "abc",
		"":           "",
	}
	for in, want := range cases {
		if got := NormalizeClientVersion(in); got != want {
			t.Fatalf("NormalizeClientVersion(%q)=%q want %q", in, got, want)
		}
	}
}

func TestKernelBuild(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"6.8.0-45-generic", 6008, true},
		{"5.15.153.1-microsoft-standard-WSL2", 5015, true},
		{"3.10.0", 3010, true},
		{"14", 14000, true},
		{"", 0, false},
		{"x.y", 0, false},
	}
	for _, c := range cases {
		got, err := kernelBuild(c.in)
		if c.ok != (err == nil) {
			t.Fatalf("kernelBuild(%q) err=%v", c.in, err)
		}
		if err != nil && !errors.Is(err, domain.ErrUnavailable) {
			t.Fatalf("kernelBuild(%q) error should wrap ErrUnavailable: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("kernelBuild(%q)=%d want %d", c.in, got, c.want)
		}
	}
}

func TestWindowsFamily(t *testing.T) {
	if windowsFamily(19045) != "Windows10" {
		t.Fatalf("19045 should be Windows10")
	}
	if windowsFamily(22000) != "Windows11" {
		t.Fatalf("22000 should be Windows11")
	}
}

func TestInstanceKey(t *testing.T) {
	for name, want := range map[string]bool{
		"0000":       true,
		"0012":       true,
		"Properties": false,
		"000":        false,
		"00a1":       false,
	} {
		if got := instanceKey(name); got != want {
			t.Fatalf("instanceKey(%q)=%v want %v", name, got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	if err := classify("op", nil); err != nil {
		t.Fatalf("nil should stay nil, got %v", err)
	}
	if err := classify("open", syscall.EACCES); !errors.Is(err, domain.ErrPermission) {
		t.Fatalf("EACCES should map to ErrPermission: %v", err)
	}
	if err := classify("open", os.ErrNotExist); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("ErrNotExist should map to ErrUnavailable: %v", err)
	}
	other := errors.New("boom")
	err := classify("open", other)
	if !errors.Is(err, other) || errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("other errors should pass through: %v", err)
	}
}

func TestClientVersion_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "version")
	if err := os.WriteFile(path, []byte("23.11.1.13\nbuild info\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := NewHost("", path, 0)
	v, err := h.ClientVersion(context.Background())
	if err != nil {
		t.Fatalf("ClientVersion: %v", err)
	}
	if v != "2311.1.13" {
		t.Fatalf("version=%q", v)
	}
}

func TestClientVersion_MissingFileMeansNotInstalled(t *testing.T) {
	h := NewHost("", filepath.Join(t.TempDir(), "absent"), 0)
	v, err := h.ClientVersion(context.Background())
	if err != nil || v != "" {
		t.Fatalf("want empty version and nil error, got %q %v", v, err)
	}
}

func TestNewHost_Defaults(t *testing.T) {
	h := NewHost("", "", 0)
	if h.SystemVolume != DefaultSystemVolume() {
		t.Fatalf("SystemVolume=%q", h.SystemVolume)
	}
	if h.CommandTimeout <= 0 {
		t.Fatalf("CommandTimeout should default to a positive value")
	}
}

func TestAdapter_Ethernet(t *testing.T) {
	if !(Adapter{Name: "eth0"}).Ethernet() {
		t.Fatalf("plain wired adapter should be ethernet")
	}
	if (Adapter{Name: "wlan0", Wireless: true}).Ethernet() {
		t.Fatalf("wireless adapter is not ethernet")
	}
	if (Adapter{Name: "docker0", Virtual: true}).Ethernet() {
		t.Fatalf("virtual adapter is not ethernet")
	}
}
