package islet

// SceneParameterSet bundles the lighting and tint values of one mood of the
// island scene. Two canonical sets exist, DayParameters and NightParameters;
// the displayed values always sit somewhere between them.
type SceneParameterSet struct {
	Name       string `toml:"name" yaml:"name"`
	Background Color  `toml:"background" yaml:"background"`

	FogColor Color   `toml:"fog_color" yaml:"fog_color"`
	FogNear  float64 `toml:"fog_near" yaml:"fog_near"`
	FogFar   float64 `toml:"fog_far" yaml:"fog_far"`

	SunPosition  Vec3    `toml:"sun_position" yaml:"sun_position"`
	SunIntensity float64 `toml:"sun_intensity" yaml:"sun_intensity"`
	SunColor     Color   `toml:"sun_color" yaml:"sun_color"`

	MoonPosition      Vec3    `toml:"moon_position" yaml:"moon_position"`
	MoonLightPosition Vec3    `toml:"moon_light_position" yaml:"moon_light_position"`
	MoonIntensity     float64 `toml:"moon_intensity" yaml:"moon_intensity"`
	MoonColor         Color   `toml:"moon_color" yaml:"moon_color"`

	AmbientDay   float64 `toml:"ambient_day" yaml:"ambient_day"`
	AmbientNight float64 `toml:"ambient_night" yaml:"ambient_night"`
	Environment  float64 `toml:"environment" yaml:"environment"`

	Ground      Color   `toml:"ground" yaml:"ground"`
	Lagoon      Color   `toml:"lagoon" yaml:"lagoon"`
	LagoonSpeed float64 `toml:"lagoon_speed" yaml:"lagoon_speed"`
	LagoonTiles float64 `toml:"lagoon_tiles" yaml:"lagoon_tiles"`

	// Daylight is 1 in full day and 0 at night; sky elements fade by it.
	Daylight float64 `toml:"daylight" yaml:"daylight"`
}

// DayParameters returns the canonical day set.
func DayParameters() SceneParameterSet {
	return SceneParameterSet{
		Name:              "day",
		Background:        Hex("#9edbff"),
		FogColor:          Hex("#9edbff"),
		FogNear:           5,
		FogFar:            50,
		SunPosition:       Vec3{-1000, 30, 300},
		SunIntensity:      0.45,
		SunColor:          Hex("#fff6c4"),
		MoonPosition:      Vec3{-5, -50, -2.5},
		MoonLightPosition: Vec3{3, 4, 2.5},
		MoonIntensity:     0,
		MoonColor:         Hex("#bcd3ff"),
		AmbientDay:        0.1,
		AmbientNight:      0,
		Environment:       0.7,
		Ground:            Hex("#98ffbc"),
		Lagoon:            Hex("#44aaed"),
		LagoonSpeed:       0.2,
		LagoonTiles:       8,
		Daylight:          1,
	}
}

// NightParameters returns the canonical night set.
func NightParameters() SceneParameterSet {
	return SceneParameterSet{
		Name:              "night",
		Background:        Hex("#070b14"),
		FogColor:          Hex("#141007"),
		FogNear:           14,
		FogFar:            40,
		SunPosition:       Vec3{-1000, -200, 300},
		SunIntensity:      0,
		SunColor:          Hex("#fff6c4"),
		MoonPosition:      Vec3{-5, 3, -2.5},
		MoonLightPosition: Vec3{3, 4, 2.5},
		MoonIntensity:     1.15,
		MoonColor:         Hex("#bcd3ff"),
		AmbientDay:        0,
		AmbientNight:      0.4,
		Environment:       0.6,
		Ground:            Hex("#202023"),
		Lagoon:            Hex("#44aaed"),
		LagoonSpeed:       0.3,
		LagoonTiles:       10,
		Daylight:          0,
	}
}

// Lerp blends every numeric field of p toward to. The name of the nearer set
// is kept.
func (p SceneParameterSet) Lerp(to SceneParameterSet, t float64) SceneParameterSet {
	out := SceneParameterSet{
		Name:              p.Name,
		Background:        p.Background.Lerp(to.Background, t),
		FogColor:          p.FogColor.Lerp(to.FogColor, t),
		FogNear:           Lerp(p.FogNear, to.FogNear, t),
		FogFar:            Lerp(p.FogFar, to.FogFar, t),
		SunPosition:       lerpVec3(p.SunPosition, to.SunPosition, t),
		SunIntensity:      Lerp(p.SunIntensity, to.SunIntensity, t),
		SunColor:          p.SunColor.Lerp(to.SunColor, t),
		MoonPosition:      lerpVec3(p.MoonPosition, to.MoonPosition, t),
		MoonLightPosition: lerpVec3(p.MoonLightPosition, to.MoonLightPosition, t),
		MoonIntensity:     Lerp(p.MoonIntensity, to.MoonIntensity, t),
		MoonColor:         p.MoonColor.Lerp(to.MoonColor, t),
		AmbientDay:        Lerp(p.AmbientDay, to.AmbientDay, t),
		AmbientNight:      Lerp(p.AmbientNight, to.AmbientNight, t),
		Environment:       Lerp(p.Environment, to.Environment, t),
		Ground:            p.Ground.Lerp(to.Ground, t),
		Lagoon:            p.Lagoon.Lerp(to.Lagoon, t),
		LagoonSpeed:       Lerp(p.LagoonSpeed, to.LagoonSpeed, t),
		LagoonTiles:       Lerp(p.LagoonTiles, to.LagoonTiles, t),
		Daylight:          Lerp(p.Daylight, to.Daylight, t),
	}
	if t >= 0.5 {
		out.Name = to.Name
	}
	return out
}

// EnvironmentSmoothing is the per-frame easing factor of day/night changes.
const EnvironmentSmoothing = 0.08

// Environment eases the displayed SceneParameterSet toward the day or night
// set. It snaps only when created; every later change is a multi-frame blend.
type Environment struct {
	day, night SceneParameterSet
	isDay      bool
	blend      *Smoothed[SceneParameterSet]

	ambient     [2]AmbientLight
	directional [2]DirectionalLight
	fog         Fog
}

// NewEnvironment starts fully in the day or night set.
func NewEnvironment(day, night SceneParameterSet, isDay bool) *Environment {
	e := &Environment{day: day, night: night, isDay: isDay}
	start := night
	if isDay {
		start = day
	}
	e.blend = &Smoothed[SceneParameterSet]{
		Value:  start,
		Target: start,
		Factor: EnvironmentSmoothing,
		lerp:   SceneParameterSet.Lerp,
	}
	return e
}

// IsDay reports the toggle state (not how far the blend has progressed).
func (e *Environment) IsDay() bool { return e.isDay }

// SetDay selects the target set.
func (e *Environment) SetDay(day bool) {
	if e.isDay != day {
		logDebug("environment target changed", "day", day)
	}
	e.isDay = day
	e.blend.Set(e.target())
}

// Toggle flips between day and night and returns the new state.
func (e *Environment) Toggle() bool {
	e.SetDay(!e.isDay)
	return e.isDay
}

// SetParameters replaces the canonical sets, e.g. after a preset reload. The
// displayed values ease toward the new target.
func (e *Environment) SetParameters(day, night SceneParameterSet) {
	e.day, e.night = day, night
	e.blend.Set(e.target())
}

// Parameters returns the canonical day and night sets.
func (e *Environment) Parameters() (day, night SceneParameterSet) {
	return e.day, e.night
}

func (e *Environment) target() SceneParameterSet {
	if e.isDay {
		return e.day
	}
	return e.night
}

// Update eases the displayed values by dt seconds and returns them. The
// displayed set carries the name of the set it is heading to.
func (e *Environment) Update(dt float64) SceneParameterSet {
	e.blend.Update(dt)
	e.blend.Value.Name = e.blend.Target.Name
	return e.blend.Value
}

// Current returns the displayed values.
func (e *Environment) Current() SceneParameterSet {
	return e.blend.Value
}

// Apply writes the displayed lights and fog into l. The slices it installs
// are owned by e and reused every frame.
func (e *Environment) Apply(l *Lighting) {
	c := e.blend.Value
	e.ambient[0] = AmbientLight{Color: ColorWhite, Intensity: c.AmbientDay}
	e.ambient[1] = AmbientLight{Color: ColorWhite, Intensity: c.AmbientNight}
	e.directional[0] = DirectionalLight{Position: c.SunPosition, Color: c.SunColor, Intensity: c.SunIntensity}
	e.directional[1] = DirectionalLight{Position: c.MoonLightPosition, Color: c.MoonColor, Intensity: c.MoonIntensity}
	e.fog = Fog{Color: c.FogColor, Near: c.FogNear, Far: c.FogFar}
	l.Ambient = e.ambient[:]
	l.Directional = e.directional[:]
	l.Environment = c.Environment
	l.Fog = &e.fog
}
