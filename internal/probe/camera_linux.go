//go:build linux

package probe

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

var (
	v4lGlob     = "/sys/class/video4linux/video*"
	v4l2CtlPath = "v4l2-ctl"
)

// Webcams lists V4L2 capture devices, best resolution first. Resolution
// comes from v4l2-ctl; when the tool is missing the camera is still
// reported with ResolutionKnown=false.
func (h *Host) Webcams(ctx context.Context) ([]Webcam, error) {
	dirs, err := filepath.Glob(v4lGlob)
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs)

	var cams []Webcam
	var lastErr error
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dev := "/dev/" + filepath.Base(dir)
		if !isCaptureNode(dir) {
			continue
		}
		if err := openAndRelease(dev); err != nil {
			lastErr = err
			continue
		}
		cam := Webcam{Device: dev, Name: readTrim(filepath.Join(dir, "name"))}
		if r, ok := h.maxFrameSize(ctx, dev); ok {
			cam.Width, cam.Height, cam.ResolutionKnown = r.Width, r.Height, true
		}
		cams = append(cams, cam)
	}
	if len(cams) == 0 && lastErr != nil {
		return nil, lastErr
	}
	sort.SliceStable(cams, func(i, j int) bool {
		return cams[i].Width*cams[i].Height > cams[j].Width*cams[j].Height
	})
	return cams, nil
}

// isCaptureNode skips the metadata nodes UVC cameras expose next to the
// capture node; those have index 1 or higher.
func isCaptureNode(dir string) bool {
	idx := readTrim(filepath.Join(dir, "index"))
	return idx == "" || idx == "0"
}

func (h *Host) maxFrameSize(ctx context.Context, dev string) (Resolution, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.CommandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, v4l2CtlPath, "--device", dev, "--list-formats-ext").Output()
	if err != nil {
		return Resolution{}, false
	}
	return parseFrameSizes(out)
}

// parseFrameSizes picks the largest "Size: Discrete WxH" line.
func parseFrameSizes(out []byte) (Resolution, bool) {
	var best Resolution
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "Size:") {
			continue
		}
		fields := strings.Fields(line)
		r, err := ParseResolution(fields[len(fields)-1])
		if err != nil {
			continue
		}
		if r.Pixels() > best.Pixels() {
			best = r
		}
	}
	return best, best.Pixels() > 0
}

func readTrim(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
