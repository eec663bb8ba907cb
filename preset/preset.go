// Package preset loads island scene configuration from TOML or YAML files.
//
// Values layer in the usual order: Default() first, then whatever the file
// sets, then any explicit overrides the caller applies to the result. A file
// only needs the keys it changes.
package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/islet"
)

// ErrUnknownFormat is returned for files whose extension is neither TOML
// nor YAML.
var ErrUnknownFormat = errors.New("preset: unknown format")

// Format is a preset file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Preset bundles everything a file can configure about the island scene.
type Preset struct {
	Day        bool `toml:"day" yaml:"day"`
	AutoRotate bool `toml:"auto_rotate" yaml:"auto_rotate"`
	Controls   bool `toml:"controls" yaml:"controls"`

	DayParams   islet.SceneParameterSet `toml:"day_params" yaml:"day_params"`
	NightParams islet.SceneParameterSet `toml:"night_params" yaml:"night_params"`
	Lagoon      islet.LagoonParams      `toml:"lagoon" yaml:"lagoon"`
	Swimmer     islet.SwimmerParams     `toml:"swimmer" yaml:"swimmer"`
	Palm        islet.PalmOptions       `toml:"palm" yaml:"palm"`
	Dome        islet.DomeParams        `toml:"dome" yaml:"dome"`
}

// Default returns the preset equivalent of islet.DefaultIslandOptions.
func Default() Preset {
	o := islet.DefaultIslandOptions()
	return Preset{
		Day:         o.Day,
		AutoRotate:  o.AutoRotate,
		Controls:    o.Controls,
		DayParams:   o.DayParams,
		NightParams: o.NightParams,
		Lagoon:      o.Lagoon,
		Swimmer:     o.Swimmer,
		Palm:        o.Palm,
		Dome:        o.Dome,
	}
}

// Parse decodes data over Default().
func Parse(data []byte, f Format) (Preset, error) {
	p := Default()
	var err error
	switch f {
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&p)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&p)
		if errors.Is(err, io.EOF) {
			// An empty document keeps the defaults.
			err = nil
		}
	default:
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("decode %s preset: %w", f, err)
	}
	return p, nil
}

// Load reads and parses the preset at path.
func Load(path string) (Preset, error) {
	f, err := FormatOf(path)
	if err != nil {
		return Preset{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}
	p, err := Parse(data, f)
	if err != nil {
		return Preset{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Encode serializes p in format f.
func Encode(p Preset, f Format) ([]byte, error) {
	switch f {
	case FormatTOML:
		return toml.Marshal(p)
	case FormatYAML:
		return yaml.Marshal(p)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Save writes p to path in the format its extension names.
func Save(p Preset, path string) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(p, f)
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}

// Options overlays p onto o, leaving the fields presets do not cover alone.
func (p Preset) Options(o islet.IslandOptions) islet.IslandOptions {
	o.Day = p.Day
	o.AutoRotate = p.AutoRotate
	o.Controls = p.Controls
	o.DayParams = p.DayParams
	o.NightParams = p.NightParams
	o.Lagoon = p.Lagoon
	o.Swimmer = p.Swimmer
	o.Palm = p.Palm
	o.Dome = p.Dome
	return o
}

// ApplyLive pushes the parts of p that can change on a running scene: the
// day and night sets (which then ease in), the day mode and autorotation.
func (p Preset) ApplyLive(sc *islet.IslandScene) {
	sc.Env.SetParameters(p.DayParams, p.NightParams)
	sc.SetDayMode(p.Day)
	sc.SetAutoRotate(p.AutoRotate)
}
