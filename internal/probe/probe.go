// Package probe reads raw facts from the OS, drivers and network. Probes
// never decide pass or fail; they return a measurement or an error wrapping
// domain.ErrUnavailable or domain.ErrPermission.
package probe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"github.com/hamed0406/remoteready/internal/domain"
)

type CPUInfo struct {
	Model         string
	PhysicalCores int
	LogicalCores  int
}

type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) Pixels() int { return r.Width * r.Height }

type Adapter struct {
	Name         string
	HardwareAddr string
	SpeedMbps    int
	Up           bool
	Wireless     bool
	Virtual      bool
}

// Ethernet reports whether the adapter is a physical wired NIC.
func (a Adapter) Ethernet() bool { return !a.Wireless && !a.Virtual }

// GPU is a graphics adapter as the OS names it.
type GPU struct {
	Name          string
	Driver        string
	DriverVersion string
}

type Microphone struct {
	Device string
	Name   string
}

type Webcam struct {
	Device          string
	Name            string
	Width           int
	Height          int
	ResolutionKnown bool
}

type OSInfo struct {
	Name    string // e.g. "Ubuntu 24.04" or "Windows 11 Pro"
	Family  string // matrix family tag
	Build   int
	Version string
}

type SpeedResult struct {
	Server       string
	LatencyMS    float64
	DownloadMbps float64
	UploadMbps   float64
	UploadErr    string
}

// classify maps OS errors onto the probe error taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrPermission)
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.EBUSY), errors.Is(err, syscall.ENODEV):
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// instanceKey matches device-class instance subkeys such as "0000".
func instanceKey(name string) bool {
	if len(name) != 4 {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
