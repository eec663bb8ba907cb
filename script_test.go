package islet

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name, src string
	}{
		{"empty", "steps: []"},
		{"unknown action", "steps:\n  - action: dance"},
		{"malformed", "steps: [{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.src)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadScriptJSON(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [{"action": "drag", "fromX": 1, "toX": 9, "frames": 4}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if st := r.steps[0]; st.FromX != 1 || st.ToX != 9 || st.Frames != 4 {
		t.Errorf("step = %+v", st)
	}
}

func TestScriptRunsSteps(t *testing.T) {
	r, err := LoadScript([]byte(`
steps:
  - {action: click, x: 10, y: 20}
  - {action: wait, frames: 3}
  - {action: screenshot, label: after click}
  - {action: stop}
`))
	if err != nil {
		t.Fatal(err)
	}
	s := NewSurface("scripted", 100, 100, nil)
	clicks := 0
	s.Pointer.OnClick(func(PointerEvent) { clicks++ })
	s.SetScript(r)

	r.step(s)
	if s.Pointer.Pending() != 2 {
		t.Fatalf("click queued %d events, want 2", s.Pointer.Pending())
	}
	r.step(s)
	if r.cursor != 1 {
		t.Error("script advanced while input was pending")
	}
	drain(s.Pointer)
	if clicks != 1 {
		t.Errorf("clicks = %d", clicks)
	}

	for i := 0; i < 3; i++ {
		r.step(s)
	}
	if len(s.screenshotQueue) != 0 {
		t.Fatal("screenshot taken before the wait finished")
	}
	r.step(s)
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "after click" {
		t.Errorf("queue = %q", s.screenshotQueue)
	}
	r.step(s)
	if !r.Done() || !s.Closed() {
		t.Error("stop step did not finish the script and close the surface")
	}
}

func TestScriptDoneAfterLastStep(t *testing.T) {
	r, err := LoadScript([]byte("steps:\n  - {action: screenshot, label: only}"))
	if err != nil {
		t.Fatal(err)
	}
	s := NewSurface("one", 10, 10, nil)
	r.step(s)
	if !r.Done() {
		t.Error("script not done after its only step")
	}
}

func TestLoadScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("steps:\n  - {action: wait, frames: 2}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScriptFile(path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScriptFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
}
