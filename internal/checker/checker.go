// Package checker binds probes to the evaluator. Each Checker takes one
// measurement and turns it into a labelled domain.CheckResult; it never
// returns an error, a failed probe becomes an indeterminate result.
package checker

import (
	"context"

	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/evaluator"
	"github.com/hamed0406/remoteready/internal/probe"
)

type Checker interface {
	Name() string
	Label() string
	Check(ctx context.Context) domain.CheckResult
}

// Check names, in the order they run.
const (
	Internet   = "internet"
	CPU        = "cpu"
	Ethernet   = "ethernet"
	Compat     = "citrix"
	RAM        = "ram"
	Display    = "display"
	Storage    = "storage"
	Microphone = "microphone"
	Webcam     = "webcam"
)

// HostProbes is everything the built-in checks read from the machine.
// *probe.Host implements it.
type HostProbes interface {
	CPU(ctx context.Context) (probe.CPUInfo, error)
	MemoryBytes(ctx context.Context) (uint64, error)
	FreeStorageBytes(ctx context.Context) (uint64, error)
	Adapters(ctx context.Context) ([]probe.Adapter, error)
	OS(ctx context.Context) (probe.OSInfo, error)
	ClientVersion(ctx context.Context) (string, error)
	Display(ctx context.Context) (probe.Resolution, error)
	GPUs(ctx context.Context) ([]probe.GPU, error)
	Microphones(ctx context.Context) ([]probe.Microphone, error)
	Webcams(ctx context.Context) ([]probe.Webcam, error)
}

type SpeedProbe interface {
	Speed(ctx context.Context) (probe.SpeedResult, error)
}

// Builtin returns the standard check sequence.
func Builtin(h HostProbes, sp SpeedProbe, cmp *evaluator.Comparator, m *evaluator.Matrix) []Checker {
	return []Checker{
		&InternetChecker{Probe: sp, Cmp: cmp},
		&CPUChecker{Probe: h, Cmp: cmp},
		&EthernetChecker{Probe: h, Cmp: cmp},
		&CompatChecker{Probe: h, Cmp: cmp, Matrix: m},
		&RAMChecker{Probe: h, Cmp: cmp},
		&DisplayChecker{Probe: h, Cmp: cmp},
		&StorageChecker{Probe: h, Cmp: cmp, Volume: volumeOf(h)},
		&MicrophoneChecker{Probe: h, Cmp: cmp},
		&WebcamChecker{Probe: h, Cmp: cmp},
	}
}

func volumeOf(h HostProbes) string {
	if host, ok := h.(*probe.Host); ok {
		return host.SystemVolume
	}
	return ""
}

// label stamps the checker's label on r and attaches advice unless it passed.
func label(c Checker, r domain.CheckResult, advice string) domain.CheckResult {
	r.Label = c.Label()
	if r.Verdict != domain.VerdictPass {
		r.Advice = advice
	}
	return r
}

const gib = 1 << 30

func toGB(b uint64) float64 { return float64(b) / gib }
