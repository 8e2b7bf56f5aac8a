package checker

import (
	"context"
	"fmt"

	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/evaluator"
	"github.com/hamed0406/remoteready/internal/probe"
)

func minOf(cmp *evaluator.Comparator, name string) float64 {
	v, _ := cmp.Thresholds().Min(name)
	return v
}

func compare(cmp *evaluator.Comparator, name string, measured float64) domain.CheckResult {
	r, err := cmp.Compare(name, measured)
	if err != nil {
		return cmp.Indeterminate(name, err)
	}
	return r
}

type CPUChecker struct {
	Probe interface {
		CPU(ctx context.Context) (probe.CPUInfo, error)
	}
	Cmp *evaluator.Comparator
}

func (c *CPUChecker) Name() string  { return CPU }
func (c *CPUChecker) Label() string { return "CPU" }

func (c *CPUChecker) Check(ctx context.Context) domain.CheckResult {
	advice := fmt.Sprintf("A processor with at least %g physical cores is required", minOf(c.Cmp, evaluator.CPUCores))
	info, err := c.Probe.CPU(ctx)
	if err != nil {
		return label(c, c.Cmp.Indeterminate(CPU, err), advice)
	}
	r := compare(c.Cmp, evaluator.CPUCores, float64(info.PhysicalCores))
	r.Name = CPU
	if info.Model != "" {
		r.Info = append(r.Info, "Model: "+info.Model)
	}
	r.Info = append(r.Info, fmt.Sprintf("Logical cores: %d", info.LogicalCores))
	return label(c, r, advice)
}

type RAMChecker struct {
	Probe interface {
		MemoryBytes(ctx context.Context) (uint64, error)
	}
	Cmp *evaluator.Comparator
}

func (c *RAMChecker) Name() string  { return RAM }
func (c *RAMChecker) Label() string { return "RAM" }

func (c *RAMChecker) Check(ctx context.Context) domain.CheckResult {
	advice := fmt.Sprintf("At least %g GB of RAM is required", minOf(c.Cmp, evaluator.RAMGB))
	total, err := c.Probe.MemoryBytes(ctx)
	if err != nil {
		return label(c, c.Cmp.Indeterminate(RAM, err), advice)
	}
	r := compare(c.Cmp, evaluator.RAMGB, toGB(total))
	r.Name = RAM
	return label(c, r, advice)
}

type StorageChecker struct {
	Probe interface {
		FreeStorageBytes(ctx context.Context) (uint64, error)
	}
	Cmp    *evaluator.Comparator
	Volume string
}

func (c *StorageChecker) Name() string  { return Storage }
func (c *StorageChecker) Label() string { return "Free storage" }

func (c *StorageChecker) Check(ctx context.Context) domain.CheckResult {
	advice := fmt.Sprintf("At least %g GB must be free on the system drive", minOf(c.Cmp, evaluator.FreeStorageGB))
	free, err := c.Probe.FreeStorageBytes(ctx)
	if err != nil {
		return label(c, c.Cmp.Indeterminate(Storage, err), advice)
	}
	r := compare(c.Cmp, evaluator.FreeStorageGB, toGB(free))
	r.Name = Storage
	if c.Volume != "" {
		r.Info = append(r.Info, "Volume: "+c.Volume)
	}
	return label(c, r, advice)
}

type DisplayChecker struct {
	Probe interface {
		Display(ctx context.Context) (probe.Resolution, error)
		GPUs(ctx context.Context) ([]probe.GPU, error)
	}
	Cmp *evaluator.Comparator
}

func (c *DisplayChecker) Name() string  { return Display }
func (c *DisplayChecker) Label() string { return "Display" }

func (c *DisplayChecker) Check(ctx context.Context) domain.CheckResult {
	advice := fmt.Sprintf("A screen resolution of at least %gx%g is required",
		minOf(c.Cmp, evaluator.DisplayWidth), minOf(c.Cmp, evaluator.DisplayHeight))
	var r domain.CheckResult
	if res, err := c.Probe.Display(ctx); err != nil {
		r = c.Cmp.Indeterminate(Display, err)
	} else {
		r = c.Cmp.Display(Display, res.Width, res.Height)
	}
	r.Info = append(r.Info, gpuLines(ctx, c.Probe)...)
	return label(c, r, advice)
}

// gpuLines never affects the verdict.
func gpuLines(ctx context.Context, p interface {
	GPUs(ctx context.Context) ([]probe.GPU, error)
}) []string {
	gpus, err := p.GPUs(ctx)
	if err != nil {
		return []string{"GPU: unknown (" + err.Error() + ")"}
	}
	var lines []string
	for _, g := range gpus {
		line := "GPU: " + g.Name
		switch {
		case g.Driver != "" && g.DriverVersion != "":
			line += fmt.Sprintf(" (driver %s %s)", g.Driver, g.DriverVersion)
		case g.DriverVersion != "":
			line += " (driver " + g.DriverVersion + ")"
		case g.Driver != "":
			line += " (driver " + g.Driver + ")"
		}
		lines = append(lines, line)
	}
	return lines
}
