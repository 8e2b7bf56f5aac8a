package evaluator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hamed0406/remoteready/internal/domain"
)

// Comparator turns raw measurements into check results. It holds no state
// besides the immutable threshold table.
type Comparator struct {
	th  Thresholds
	now func() time.Time
}

func NewComparator(th Thresholds) *Comparator {
	return &Comparator{th: th, now: func() time.Time { return time.Now().UTC() }}
}

func (c *Comparator) Thresholds() Thresholds { return c.th }

func (c *Comparator) result(name string, value any, v domain.Verdict, detail string) domain.CheckResult {
	return domain.CheckResult{
		Name:      name,
		Value:     value,
		Verdict:   v,
		Detail:    detail,
		CheckedAt: c.now(),
	}
}

// Compare checks measured against the named threshold, boundary inclusive.
// measured must already be in the threshold's unit.
func (c *Comparator) Compare(name string, measured float64) (domain.CheckResult, error) {
	min, err := c.th.Min(name)
	if err != nil {
		return domain.CheckResult{}, err
	}
	unit := Unit(name)
	if measured >= min {
		detail := fmt.Sprintf("%s %s ≥ %s %s required", formatNum(measured, min), unit, formatNum(min, min), unit)
		return c.result(name, measured, domain.VerdictPass, detail), nil
	}
	detail := fmt.Sprintf("%s %s < %s %s required", formatNum(measured, min), unit, formatNum(min, min), unit)
	return c.result(name, measured, domain.VerdictFail, detail), nil
}

// Display passes only when both axes independently meet their minimum.
func (c *Comparator) Display(name string, width, height int) domain.CheckResult {
	minW, _ := c.th.Min(DisplayWidth)
	minH, _ := c.th.Min(DisplayHeight)
	value := fmt.Sprintf("%dx%d", width, height)
	required := fmt.Sprintf("%sx%s", formatNum(minW, minW), formatNum(minH, minH))

	var short []string
	if float64(width) < minW {
		short = append(short, fmt.Sprintf("width %d < %s", width, formatNum(minW, minW)))
	}
	if float64(height) < minH {
		short = append(short, fmt.Sprintf("height %d < %s", height, formatNum(minH, minH)))
	}
	if len(short) == 0 {
		return c.result(name, value, domain.VerdictPass, fmt.Sprintf("%s ≥ %s required", value, required))
	}
	return c.result(name, value, domain.VerdictFail,
		fmt.Sprintf("%s < %s required (%s)", value, required, strings.Join(short, ", ")))
}

// Presence is a boolean device check.
func (c *Comparator) Presence(name string, present bool, found, missing string) domain.CheckResult {
	if present {
		return c.result(name, true, domain.VerdictPass, found)
	}
	return c.result(name, false, domain.VerdictFail, missing)
}

// Webcam checks presence first; an absent camera fails without looking at
// its capability. A present camera whose resolution could not be read is
// indeterminate.
func (c *Comparator) Webcam(name string, present bool, width, height int, resolutionKnown bool) domain.CheckResult {
	if !present {
		return c.result(name, false, domain.VerdictFail, "no webcam detected")
	}
	if !resolutionKnown {
		return c.result(name, true, domain.VerdictIndeterminate, "webcam detected but its resolution could not be read")
	}
	min, _ := c.th.Min(WebcamPixels)
	value := fmt.Sprintf("%dx%d", width, height)
	pixels := float64(width) * float64(height)
	if pixels >= min {
		return c.result(name, value, domain.VerdictPass,
			fmt.Sprintf("%s (%s px) ≥ %s px required", value, formatNum(pixels, min), formatNum(min, min)))
	}
	return c.result(name, value, domain.VerdictFail,
		fmt.Sprintf("%s (%s px) < %s px required", value, formatNum(pixels, min), formatNum(min, min)))
}

// Indeterminate records that the measurement could not be taken.
func (c *Comparator) Indeterminate(name string, err error) domain.CheckResult {
	detail := "measurement unavailable"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrPermission):
		detail = "access denied: " + err.Error() + "; re-run with access to the device"
	case errors.Is(err, domain.ErrUnavailable):
		detail = "could not be measured: " + err.Error()
	default:
		detail = "probe error: " + err.Error()
	}
	return c.result(name, nil, domain.VerdictIndeterminate, detail)
}

// Pass and Fail build results whose verdict was decided elsewhere, such as
// the compatibility matrix.
func (c *Comparator) Pass(name string, value any, detail string) domain.CheckResult {
	return c.result(name, value, domain.VerdictPass, detail)
}

func (c *Comparator) Fail(name string, value any, detail string) domain.CheckResult {
	return c.result(name, value, domain.VerdictFail, detail)
}

// formatNum prints v with at most two decimals, falling back to full
// precision when rounding would misstate which side of min v is on.
func formatNum(v, min float64) string {
	r := math.Round(v*100) / 100
	if (r >= min) != (v >= min) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
