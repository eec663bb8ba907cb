package islet

// Material describes how a mesh or point cloud is shaded. The zero value is
// transparent black; construct with at least Color set.
type Material struct {
	Color             Color
	Emissive          Color
	EmissiveIntensity float64

	// Texture, when set, modulates Color by the texel at each vertex's UV.
	// UVs are scaled by TextureRepeat (0 means 1) and shifted by
	// TextureOffset; sampling wraps.
	Texture       *Texture
	TextureRepeat float64
	TextureOffset Vec2

	// Unlit materials ignore lights and fog. Used for sky sprites and the
	// star field.
	Unlit bool
	// DoubleSided disables back-face culling.
	DoubleSided bool
}

// Basic returns an opaque lit material of the given color.
func Basic(c Color) Material {
	return Material{Color: c}
}

// Glowing returns a material whose emissive term is c at intensity.
func Glowing(base, c Color, intensity float64) Material {
	return Material{Color: base, Emissive: c, EmissiveIntensity: intensity, DoubleSided: true}
}

// emission returns the material's self-illumination.
func (m Material) emission() Color {
	if m.EmissiveIntensity == 0 {
		return Color{0, 0, 0, 0}
	}
	return m.Emissive.Scale(m.EmissiveIntensity)
}

// uv maps a geometry UV into texture space.
func (m Material) uv(v Vec2) Vec2 {
	r := m.TextureRepeat
	if r == 0 {
		r = 1
	}
	return Vec2{v.X*r + m.TextureOffset.X, v.Y*r + m.TextureOffset.Y}
}
