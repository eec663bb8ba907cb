package islet

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func solidFrames(n int) LoadFunc[image.Image] {
	return func(ctx context.Context, i int) (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		img.SetRGBA(0, 0, color.RGBA{uint8(i), 0, 0, 255})
		return img, nil
	}
}

// readyPlayer loads every frame and runs the first Update that publishes
// them.
func readyPlayer(t *testing.T, p *FramePlayer) {
	t.Helper()
	if err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Preloader().Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	p.Update(0)
	if !p.Ready() {
		t.Fatal("player not ready after loads settled")
	}
}

type signalLog []Signal

func (l *signalLog) EmitSignal(s Signal) { *l = append(*l, s) }

func TestFramePlayerDefaults(t *testing.T) {
	o := DefaultFramePlayerOptions()
	if o.FPS != 12 || !o.AutoPlay || !o.Loop {
		t.Errorf("defaults = %+v", o)
	}
	p := NewFramePlayer(3, solidFrames(3), o)
	assertNear(t, "interval", p.Interval(), 1.0/12)
	if p.Len() != 3 || p.CurrentFrame() != 0 {
		t.Errorf("Len=%d CurrentFrame=%d", p.Len(), p.CurrentFrame())
	}
}

func TestFramePlayerSetFPSFloor(t *testing.T) {
	p := NewFramePlayer(1, solidFrames(1), FramePlayerOptions{FPS: 0})
	assertNear(t, "fps 0", p.Interval(), 1)
	p.SetFPS(-5)
	assertNear(t, "fps -5", p.Interval(), 1)
	p.SetFPS(24)
	assertNear(t, "fps 24", p.Interval(), 1.0/24)
}

func TestFramePlayerNoFrames(t *testing.T) {
	p := NewFramePlayer(0, solidFrames(0), DefaultFramePlayerOptions())
	if err := p.Load(context.Background()); !errors.Is(err, ErrNoFrames) {
		t.Errorf("Load = %v, want ErrNoFrames", err)
	}
	p.Update(1)
	if p.Ready() {
		t.Error("empty player became ready")
	}
}

func TestFramePlayerWaitsForLoads(t *testing.T) {
	p := NewFramePlayer(2, solidFrames(2), DefaultFramePlayerOptions())
	p.Play()
	for i := 0; i < 10; i++ {
		p.Update(0.2)
	}
	if p.CurrentFrame() != 0 || p.Ready() {
		t.Error("playback advanced before frames were loaded")
	}
}

func TestFramePlayerLoopsAndSignals(t *testing.T) {
	var log signalLog
	var frames []int
	ends := 0
	o := DefaultFramePlayerOptions()
	o.Name = "intro"
	o.Sink = &log
	o.OnFrame = func(i int) { frames = append(frames, i) }
	o.OnEnd = func() { ends++ }
	p := NewFramePlayer(3, solidFrames(3), o)
	readyPlayer(t, p)

	if !p.IsPlaying() {
		t.Fatal("autoplay did not start")
	}
	if len(log) != 1 || log[0].Kind != SignalLoadingFinished || log[0].Source != "intro" {
		t.Fatalf("signals after load = %+v", log)
	}
	for i := 0; i < 3; i++ {
		p.Update(0.1)
	}
	want := []int{1, 2, 0}
	if len(frames) != len(want) {
		t.Fatalf("frames = %v, want %v", frames, want)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Fatalf("frames = %v, want %v", frames, want)
		}
	}
	if ends != 1 {
		t.Errorf("OnEnd calls = %d, want 1", ends)
	}
	if !p.IsPlaying() {
		t.Error("looping player stopped")
	}
	kinds := []SignalKind{SignalLoadingFinished, SignalFrameAdvanced, SignalFrameAdvanced, SignalAnimationEnded, SignalFrameAdvanced}
	if len(log) != len(kinds) {
		t.Fatalf("signals = %+v", log)
	}
	for i, k := range kinds {
		if log[i].Kind != k {
			t.Errorf("signal %d = %s, want %s", i, log[i].Kind, k)
		}
	}
	if log[3].Frame != 2 {
		t.Errorf("animation ended at frame %d, want 2", log[3].Frame)
	}
}

func TestFramePlayerStopsWithoutLoop(t *testing.T) {
	o := DefaultFramePlayerOptions()
	o.Loop = false
	p := NewFramePlayer(2, solidFrames(2), o)
	readyPlayer(t, p)
	for i := 0; i < 5; i++ {
		p.Update(0.1)
	}
	if p.IsPlaying() {
		t.Error("non-looping player still playing")
	}
	if p.CurrentFrame() != 1 {
		t.Errorf("CurrentFrame = %d, want the last frame", p.CurrentFrame())
	}
}

func TestFramePlayerOneFramePerUpdate(t *testing.T) {
	p := NewFramePlayer(10, solidFrames(10), DefaultFramePlayerOptions())
	readyPlayer(t, p)
	p.Update(0.09)
	p.Update(0.5)
	if p.CurrentFrame() != 2 {
		t.Errorf("CurrentFrame = %d, want 2: one advance per update", p.CurrentFrame())
	}
}

func TestFramePlayerAutoPlayOff(t *testing.T) {
	o := DefaultFramePlayerOptions()
	o.AutoPlay = false
	p := NewFramePlayer(3, solidFrames(3), o)
	readyPlayer(t, p)
	p.Update(0.5)
	if p.IsPlaying() || p.CurrentFrame() != 0 {
		t.Error("player started without AutoPlay")
	}
	p.Toggle()
	p.Update(0.1)
	if p.CurrentFrame() != 1 {
		t.Errorf("CurrentFrame = %d after Toggle, want 1", p.CurrentFrame())
	}
	p.Pause()
	p.Update(0.1)
	if p.CurrentFrame() != 1 {
		t.Error("paused player advanced")
	}
}

func TestFramePlayerSeekClamps(t *testing.T) {
	o := DefaultFramePlayerOptions()
	o.InitialFrame = 99
	p := NewFramePlayer(4, solidFrames(4), o)
	if p.CurrentFrame() != 3 {
		t.Errorf("InitialFrame clamp = %d, want 3", p.CurrentFrame())
	}
	p.Seek(-3)
	if p.CurrentFrame() != 0 {
		t.Errorf("Seek(-3) = %d", p.CurrentFrame())
	}
	p.Seek(2)
	if p.CurrentFrame() != 2 {
		t.Errorf("Seek(2) = %d", p.CurrentFrame())
	}
}

func TestFramePlayerCrossFade(t *testing.T) {
	o := DefaultFramePlayerOptions()
	o.CrossFade = 0.05
	p := NewFramePlayer(3, solidFrames(3), o)
	readyPlayer(t, p)
	p.Update(0.1)
	if p.mix != 0 || p.prev != 0 {
		t.Fatalf("fade not started: mix=%v prev=%d", p.mix, p.prev)
	}
	p.Update(0.025)
	if p.mix <= 0 || p.mix >= 1 {
		t.Errorf("mid-fade mix = %v", p.mix)
	}
	p.Update(0.03)
	if p.fade != nil || p.mix != 1 {
		t.Errorf("fade not finished: mix=%v", p.mix)
	}
}

func TestFramePlayerFailedFrameUsesPlaceholder(t *testing.T) {
	var log signalLog
	o := DefaultFramePlayerOptions()
	o.Sink = &log
	p := NewFramePlayer(2, func(ctx context.Context, i int) (image.Image, error) {
		if i == 1 {
			return nil, errBroken
		}
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	}, o)
	readyPlayer(t, p)
	if log[0].Failed != 1 {
		t.Errorf("Failed = %d, want 1", log[0].Failed)
	}
	if b := p.src[1].Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("placeholder bounds = %v", b)
	}
}

func TestFramePlayerFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 2; i++ {
		path := filepath.Join(dir, "frame"+string(rune('0'+i))+".png")
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 6))); err != nil {
			t.Fatal(err)
		}
		f.Close()
		paths = append(paths, path)
	}
	paths = append(paths, filepath.Join(dir, "missing.png"))

	p := NewFramePlayerFiles(paths, DefaultFramePlayerOptions())
	readyPlayer(t, p)
	res := p.Preloader().Result()
	if res.Failed() != 1 || res.Err[2] == nil {
		t.Errorf("failed = %d, err[2] = %v", res.Failed(), res.Err[2])
	}
	if b := res.Items[0].Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("decoded bounds = %v", b)
	}
}

func TestLoadImageFileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadImageFile(ctx, "whatever.png"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want Canceled", err)
	}
}
