package islet

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
)

var screenshotEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Screenshot queues a capture of the next presented frame. Files land in
// ScreenshotDir as <surface>_<label>_<time>_f<frame>.png.
func (s *Surface) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// flushScreenshots writes one file per queued label. Errors are logged.
func (s *Surface) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	labels := s.screenshotQueue
	s.screenshotQueue = s.screenshotQueue[:0]

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		logWarn("screenshot dir", "dir", s.ScreenshotDir, "err", err)
		return
	}
	b := screen.Bounds()
	pix := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pix)
	img := unpremultiply(pix, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102-150405")
	prefix := sanitizeLabel(s.Name)
	for _, label := range labels {
		name := fmt.Sprintf("%s_%s_%s_f%d.png", prefix, sanitizeLabel(label), stamp, s.Scheduler.Frames())
		path := filepath.Join(s.ScreenshotDir, name)
		if err := SavePNG(path, img); err != nil {
			logWarn("screenshot", "surface", s.Name, "err", err)
			continue
		}
		logInfo("screenshot saved", "surface", s.Name, "path", path)
	}
}

// unpremultiply wraps ReadPixels output, which is premultiplied, and converts
// it to straight alpha for PNG encoding.
func unpremultiply(pix []byte, w, h int) *image.NRGBA {
	src := &image.RGBA{Pix: pix, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	dst := image.NewNRGBA(src.Rect)
	xdraw.Draw(dst, dst.Rect, src, image.Point{}, xdraw.Src)
	return dst
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := screenshotEncoder.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// sanitizeLabel keeps ASCII letters, digits, '-' and '.', maps everything
// else to '_', and names blank labels "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
