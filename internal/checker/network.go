package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/evaluator"
	"github.com/hamed0406/remoteready/internal/probe"
)

// InternetChecker compares download throughput with internet_mbps. Upload
// speed and latency are reported as info only.
type InternetChecker struct {
	Probe SpeedProbe
	Cmp   *evaluator.Comparator
}

func (c *InternetChecker) Name() string  { return Internet }
func (c *InternetChecker) Label() string { return "Internet speed" }

func (c *InternetChecker) Check(ctx context.Context) domain.CheckResult {
	advice := fmt.Sprintf("A wired internet connection of at least %g Mbps is required", minOf(c.Cmp, evaluator.InternetMbps))
	res, err := c.Probe.Speed(ctx)
	if err != nil {
		r := c.Cmp.Indeterminate(Internet, err)
		r.Info = append(r.Info, "Measure the speed manually, e.g. on speedtest.net")
		return label(c, r, advice)
	}
	r := compare(c.Cmp, evaluator.InternetMbps, res.DownloadMbps)
	r.Name = Internet
	r.Info = append(r.Info, fmt.Sprintf("Download: %.0f Mbps", res.DownloadMbps))
	if res.UploadErr != "" {
		r.Info = append(r.Info, "Upload: not measured ("+res.UploadErr+")")
	} else {
		r.Info = append(r.Info, fmt.Sprintf("Upload: %.0f Mbps", res.UploadMbps))
	}
	r.Info = append(r.Info,
		fmt.Sprintf("Latency: %.0f ms", res.LatencyMS),
		"Server: "+res.Server,
	)
	return label(c, r, advice)
}

// EthernetChecker passes when a physical wired adapter exists. Link state
// does not matter: the machine only needs to be able to take a cable.
type EthernetChecker struct {
	Probe interface {
		Adapters(ctx context.Context) ([]probe.Adapter, error)
	}
	Cmp *evaluator.Comparator
}

func (c *EthernetChecker) Name() string  { return Ethernet }
func (c *EthernetChecker) Label() string { return "Ethernet" }

func (c *EthernetChecker) Check(ctx context.Context) domain.CheckResult {
	const advice = "An Ethernet adapter is required to connect by cable"
	adapters, err := c.Probe.Adapters(ctx)
	if err != nil {
		return label(c, c.Cmp.Indeterminate(Ethernet, err), advice)
	}
	var wired []probe.Adapter
	for _, a := range adapters {
		if a.Ethernet() {
			wired = append(wired, a)
		}
	}
	names := make([]string, 0, len(wired))
	for _, a := range wired {
		names = append(names, a.Name)
	}
	r := c.Cmp.Presence(Ethernet, len(wired) > 0,
		"Ethernet adapter present: "+strings.Join(names, ", "),
		"no Ethernet adapter found")
	for _, a := range wired {
		line := "Adapter: " + a.Name
		switch {
		case a.SpeedMbps > 0:
			line += fmt.Sprintf(" (%d Mbps)", a.SpeedMbps)
		case !a.Up:
			line += " (no link)"
		}
		r.Info = append(r.Info, line)
	}
	return label(c, r, advice)
}
