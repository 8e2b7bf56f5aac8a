//go:build linux

package probe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/hamed0406/remoteready/internal/domain"
)

var (
	sndCaptureGlob = "/dev/snd/pcmC*D*c"
	asoundPCM      = "/proc/asound/pcm"
)

// Microphones lists ALSA capture devices that can actually be opened.
// Each node is opened non-blocking and closed before moving on. If capture
// nodes exist but none could be opened, the open error is returned so the
// caller can tell "busy" or "no access" apart from "absent".
func (h *Host) Microphones(ctx context.Context) ([]Microphone, error) {
	nodes, err := filepath.Glob(sndCaptureGlob)
	if err != nil {
		return nil, fmt.Errorf("capture glob: %w", err)
	}
	names := captureNames(asoundPCM)

	var mics []Microphone
	var lastErr error
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := openAndRelease(node); err != nil {
			lastErr = err
			continue
		}
		mics = append(mics, Microphone{Device: node, Name: names[pcmID(node)]})
	}
	if len(mics) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return mics, nil
}

func openAndRelease(path string) error {
	f, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		if errors.Is(err, syscall.EBUSY) {
			return fmt.Errorf("%s busy: %w", path, domain.ErrUnavailable)
		}
		return classify("open "+path, err)
	}
	return f.Close()
}

// pcmID turns /dev/snd/pcmC1D0c into "01-00", the key used by /proc/asound/pcm.
func pcmID(node string) string {
	var card, dev int
	if _, err := fmt.Sscanf(filepath.Base(node), "pcmC%dD%dc", &card, &dev); err != nil {
		return ""
	}
	return fmt.Sprintf("%02d-%02d", card, dev)
}

// captureNames parses lines like "00-00: ALC257 Analog : ALC257 Analog : playback 1 : capture 1".
func captureNames(path string) map[string]string {
	out := map[string]string{}
	f, err := os.Open(path)
	if err != nil {
		return out
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Split(sc.Text(), ":")
		if len(fields) < 2 || !strings.Contains(sc.Text(), "capture") {
			continue
		}
		out[strings.TrimSpace(fields[0])] = strings.TrimSpace(fields[1])
	}
	return out
}
