package checker

import (
	"context"
	"fmt"

	"github.com/hamed0406/remoteready/internal/domain"
	"github.com/hamed0406/remoteready/internal/evaluator"
	"github.com/hamed0406/remoteready/internal/probe"
)

type MicrophoneChecker struct {
	Probe interface {
		Microphones(ctx context.Context) ([]probe.Microphone, error)
	}
	Cmp *evaluator.Comparator
}

func (c *MicrophoneChecker) Name() string  { return Microphone }
func (c *MicrophoneChecker) Label() string { return "Microphone" }

func (c *MicrophoneChecker) Check(ctx context.Context) domain.CheckResult {
	const advice = "A working microphone is required"
	mics, err := c.Probe.Microphones(ctx)
	if err != nil {
		return label(c, c.Cmp.Indeterminate(Microphone, err), advice)
	}
	found := "microphone detected"
	if len(mics) > 0 && mics[0].Name != "" {
		found = "microphone detected: " + mics[0].Name
	}
	r := c.Cmp.Presence(Microphone, len(mics) > 0, found, "no microphone found")
	return label(c, r, advice)
}

// WebcamChecker uses the best camera found. Presence is decided before
// capability.
type WebcamChecker struct {
	Probe interface {
		Webcams(ctx context.Context) ([]probe.Webcam, error)
	}
	Cmp *evaluator.Comparator
}

func (c *WebcamChecker) Name() string  { return Webcam }
func (c *WebcamChecker) Label() string { return "Webcam" }

func (c *WebcamChecker) Check(ctx context.Context) domain.CheckResult {
	advice := fmt.Sprintf("A webcam with at least %g pixels (HD 1280x720) is required", minOf(c.Cmp, evaluator.WebcamPixels))
	cams, err := c.Probe.Webcams(ctx)
	if err != nil {
		return label(c, c.Cmp.Indeterminate(Webcam, err), advice)
	}
	if len(cams) == 0 {
		return label(c, c.Cmp.Webcam(Webcam, false, 0, 0, false), advice)
	}
	best := cams[0]
	r := c.Cmp.Webcam(Webcam, true, best.Width, best.Height, best.ResolutionKnown)
	if best.Name != "" {
		r.Info = append(r.Info, "Camera: "+best.Name)
	}
	if !best.ResolutionKnown {
		r.Info = append(r.Info, "Install v4l-utils so the supported resolutions can be read")
	}
	return label(c, r, advice)
}
