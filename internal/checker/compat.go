package checker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/evaluator"
	"github.com/hamed0406/remoteready/internal/probe"
)

// CompatChecker looks up the OS build in the compatibility matrix and
// compares the installed Citrix Workspace app against the minimum there.
type CompatChecker struct {
	Probe interface {
		OS(ctx context.Context) (probe.OSInfo, error)
		ClientVersion(ctx context.Context) (string, error)
	}
	Cmp    *evaluator.Comparator
	Matrix *evaluator.Matrix
}

func (c *CompatChecker) Name() string  { return Compat }
func (c *CompatChecker) Label() string { return "Citrix compatibility" }

func (c *CompatChecker) Check(ctx context.Context) domain.CheckResult {
	const unsupportedAdvice = "The operating system does not support the required Citrix Workspace app; upgrade to a supported OS release"

	osInfo, err := c.Probe.OS(ctx)
	if err != nil {
		return label(c, c.Cmp.Indeterminate(Compat, err), unsupportedAdvice)
	}
	installed, err := c.Probe.ClientVersion(ctx)
	if err != nil && !errors.Is(err, domain.ErrUnavailable) {
		r := c.Cmp.Indeterminate(Compat, err)
		r.Info = osLines(osInfo, "")
		return label(c, r, "Check the Citrix Workspace app installation")
	}
	if err != nil {
		installed = ""
	}

	res := c.Matrix.Evaluate(evaluator.Family(osInfo.Family), osInfo.Build, installed)
	value := osInfo.Family + " " + fmt.Sprint(osInfo.Build)

	var r domain.CheckResult
	advice := ""
	switch res.Verdict {
	case evaluator.Compatible:
		r = c.Cmp.Pass(Compat, value, fmt.Sprintf("Citrix Workspace %s ≥ %s required for this OS build", installed, res.Recommended))
	case evaluator.Unknown:
		if installed != "" {
			r = c.Cmp.Indeterminate(Compat, fmt.Errorf("installed version %q: %w", installed, domain.ErrUnavailable))
			r.Value = value
			r.Info = append(osLines(osInfo, installed), fmt.Sprintf("Recommended: Citrix Workspace %s or later", res.Recommended))
			return label(c, r, fmt.Sprintf("Reinstall Citrix Workspace app %s or later", res.Recommended))
		}
		r = c.Cmp.Pass(Compat, value, fmt.Sprintf("OS build supported; install Citrix Workspace %s or later", res.Recommended))
	case evaluator.NeedsUpdate:
		r = c.Cmp.Fail(Compat, value, fmt.Sprintf("Citrix Workspace %s < %s required for this OS build", installed, res.Recommended))
		advice = fmt.Sprintf("Update Citrix Workspace app to %s or later", res.Recommended)
	default:
		r = c.Cmp.Fail(Compat, value, fmt.Sprintf("%s build %d is not supported by Citrix Workspace", osInfo.Family, osInfo.Build))
		advice = unsupportedAdvice
	}
	r.Info = osLines(osInfo, installed)
	return label(c, r, advice)
}

func osLines(o probe.OSInfo, installed string) []string {
	name := o.Name
	if name == "" {
		name = o.Family
	}
	lines := []string{fmt.Sprintf("OS: %s (build %d)", name, o.Build)}
	if installed == "" {
		installed = "not installed"
	}
	return append(lines, "Citrix Workspace: "+installed)
}
