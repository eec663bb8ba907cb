package islet

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScriptStep is one action of a Script.
type ScriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

type scriptFile struct {
	Steps []ScriptStep `yaml:"steps"`
}

var scriptActions = map[string]bool{
	"screenshot": true,
	"click":      true,
	"drag":       true,
	"wait":       true,
	"stop":       true,
}

// Script sequences injected pointer input, waits and screenshots across
// frames for unattended runs of a surface. Attach it with Surface.SetScript.
type Script struct {
	steps  []ScriptStep
	cursor int
	wait   int
	done   bool
}

// LoadScript parses a YAML (or JSON) script of the form
//
//	steps:
//	  - {action: wait, frames: 30}
//	  - {action: click, x: 560, y: 30}
//	  - {action: screenshot, label: day}
//	  - {action: stop}
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// LoadScriptFile reads and parses the script at path.
func LoadScriptFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return LoadScript(data)
}

// Done reports whether every step has run.
func (r *Script) Done() bool { return r.done }

// SetScript attaches r; it advances once per Update, before input is read.
// A nil script detaches.
func (s *Surface) SetScript(r *Script) { s.script = r }

// step runs at most one action. Queued pointer events drain first.
func (r *Script) step(s *Surface) {
	if r.done || s.Pointer.Pending() > 0 {
		return
	}
	if r.wait > 0 {
		r.wait--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}
	st := r.steps[r.cursor]
	r.cursor++
	logDebug("script step", "surface", s.Name, "step", r.cursor, "action", st.Action)

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "click":
		s.Pointer.InjectClick(st.X, st.Y)
	case "drag":
		s.Pointer.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(2, st.Frames))
	case "wait":
		// This frame counts as one.
		r.wait = max(0, st.Frames-1)
	case "stop":
		r.done = true
		s.Stop()
		return
	}
	if r.cursor >= len(r.steps) && r.wait == 0 && s.Pointer.Pending() == 0 {
		r.done = true
	}
}
