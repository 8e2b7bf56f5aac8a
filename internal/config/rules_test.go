package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hamed0406/remoteready/internal/evaluator"
)

func TestDefaultRules(t *testing.T) {
	r, err := DefaultRules()
	if err != nil {
		t.Fatalf("DefaultRules: %v", err)
	}
	if v, _ := r.Thresholds.Min(evaluator.InternetMbps); v != 75 {
		t.Fatalf("internet_mbps=%v", v)
	}
	if len(r.Matrix.Entries()) != len(evaluator.DefaultMatrix()) {
		t.Fatalf("matrix entries=%d", len(r.Matrix.Entries()))
	}
}

func TestLoadRules_EmptyPathIsDefault(t *testing.T) {
	r, err := LoadRules("")
	if err != nil || r.Matrix == nil {
		t.Fatalf("LoadRules: %v", err)
	}
}

func TestParseRules_Overrides(t *testing.T) {
	r, err := ParseRules([]byte(`
thresholds:
  ram_gb: 8
compatibility:
  - family: Linux
    min_build: 5000
    max_build: 7000
    min_version: "2405.0.0"
`))
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	if v, _ := r.Thresholds.Min(evaluator.RAMGB); v != 8 {
		t.Fatalf("ram_gb=%v", v)
	}
	if v, _ := r.Thresholds.Min(evaluator.CPUCores); v != 2 {
		t.Fatalf("untouched default changed: cpu_cores=%v", v)
	}
	if n := len(r.Matrix.Entries()); n != 1 {
		t.Fatalf("matrix should be replaced, has %d entries", n)
	}
	if got := r.Matrix.Evaluate(evaluator.Windows11, 22631, "2409.0.0").Verdict; got != evaluator.Unsupported {
		t.Fatalf("Windows entry should be gone, verdict=%s", got)
	}
}

func TestParseRules_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown threshold":  "thresholds:\n  gpu_vram: 2\n",
		"negative threshold": "thresholds:\n  ram_gb: -1\n",
		"empty matrix":       "compatibility: []\n",
		"unknown field":      "limits:\n  ram_gb: 4\n",
		"bad version":        "compatibility:\n  - {family: Linux, min_build: 1, max_build: 2, min_version: abc}\n",
	}
	for name, doc := range cases {
		if _, err := ParseRules([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	_, err := ParseRules([]byte("compatibility: []\n"))
	if !errors.Is(err, evaluator.ErrEmptyMatrix) {
		t.Fatalf("empty matrix should wrap ErrEmptyMatrix: %v", err)
	}
}

func TestLoadRules_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("thresholds:\n  internet_mbps: 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if v, _ := r.Thresholds.Min(evaluator.InternetMbps); v != 50 {
		t.Fatalf("internet_mbps=%v", v)
	}

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "rules file") {
		t.Fatalf("missing file error=%v", err)
	}
}
