package scene

import (
	"fmt"
	"strings"
)

// TextureUse is the role a texture slot is bound to.
// Hosts resolve it once when building the snapshot.
type TextureUse int

const (
	TextureUnknown TextureUse = iota
	TextureDiffuse
	TextureNormal
	TextureSpecular
)

// String returns the use name.
func (u TextureUse) String() string {
	switch u {
	case TextureDiffuse:
		return "diffuse"
	case TextureNormal:
		return "normal"
	case TextureSpecular:
		return "specular"
	case TextureUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("TextureUse(%d)", int(u))
	}
}

// ParseTextureUse parses a case-insensitive use name. Unrecognized names map to TextureUnknown.
func ParseTextureUse(s string) TextureUse {
	switch strings.ToLower(s) {
	case "diffuse", "color", "color_diffuse":
		return TextureDiffuse
	case "normal":
		return TextureNormal
	case "specular":
		return TextureSpecular
	default:
		return TextureUnknown
	}
}

// TextureSlot binds an image file to a material.
type TextureSlot struct {
	Use       TextureUse
	ImagePath string
}

// Mirror holds the raytraced mirror settings of a material.
type Mirror struct {
	Enabled       bool
	ReflectFactor float32
	GlossFactor   float32
}

// ShadowSettings holds the shadow flags of a material.
type ShadowSettings struct {
	Receive  bool
	Cast     bool
	CastOnly bool
}

// Material is the host description of a material.
type Material struct {
	Name       string
	Blending   int32  // EDM blending enum, validated by the host
	ShaderName string // EDM material (shader) identifier

	SpecularHardness  int
	SpecularIntensity float32
	DiffuseIntensity  float32

	Mirror       Mirror
	Shadows      ShadowSettings
	TextureSlots []TextureSlot
}

// SlotsWithUse returns the texture slots bound to use, in slot order.
func (m *Material) SlotsWithUse(use TextureUse) []TextureSlot {
	var slots []TextureSlot
	for _, s := range m.TextureSlots {
		if s.Use == use {
			slots = append(slots, s)
		}
	}
	return slots
}
