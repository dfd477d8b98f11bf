package export

import (
	"path"
	"strings"

	"github.com/Faultbox/edm-exporter/pkg/edm"
	"github.com/Faultbox/edm-exporter/pkg/encoding"
	"github.com/Faultbox/edm-exporter/pkg/math"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

// Uniform names written for every material.
const (
	UniformSpecPower          = "specPower"
	UniformSpecFactor         = "specFactor"
	UniformDiffuseValue       = "diffuseValue"
	UniformReflectionValue    = "reflectionValue"
	UniformReflectionBlurring = "reflectionBlurring"
)

// BuildMaterial converts a host material into an EDM material.
// The material must have exactly one diffuse texture slot. Normal and
// specular slots are not exported yet.
func BuildMaterial(src *scene.Material) (*edm.Material, error) {
	m := &edm.Material{
		Blending:     edm.Blending(src.Blending),
		MaterialName: src.ShaderName,
		Name:         src.Name,
		Uniforms: edm.Uniforms{
			{Name: UniformSpecPower, Value: float32(src.SpecularHardness)},
			{Name: UniformSpecFactor, Value: src.SpecularIntensity},
			{Name: UniformDiffuseValue, Value: src.DiffuseIntensity},
			{Name: UniformReflectionValue, Value: 0},
		},
		Shadows: edm.Shadows{
			Receive:  src.Shadows.Receive,
			Cast:     src.Shadows.Cast,
			CastOnly: src.Shadows.CastOnly,
		},
		VertexFormat:     edm.DefaultVertexFormat(),
		TexCoordChannels: edm.DefaultTexCoordChannels(),
	}

	if src.Mirror.Enabled {
		m.Uniforms.Set(UniformReflectionValue, src.Mirror.ReflectFactor)
		m.Uniforms.Set(UniformReflectionBlurring, 1-src.Mirror.GlossFactor)
	}

	diffuse := src.SlotsWithUse(scene.TextureDiffuse)
	if len(diffuse) != 1 {
		return nil, edm.InvalidInput("material %q: expected exactly one diffuse texture slot, found %d", src.Name, len(diffuse))
	}
	name := TextureName(diffuse[0].ImagePath)
	if name == "" {
		return nil, edm.InvalidInput("material %q: diffuse texture has no image name (path %q)", src.Name, diffuse[0].ImagePath)
	}
	m.Textures = append(m.Textures, edm.Texture{
		Channel: edm.ChannelDiffuse,
		Name:    name,
		Matrix:  math.Identity(),
	})

	return m, nil
}

// TextureName returns the file name of an image path stripped of its
// directory and of every extension: "//tex/hull.diff.dds" becomes "hull".
// A path naming a directory yields "".
func TextureName(imagePath string) string {
	imagePath = encoding.NormalizePath(imagePath)
	if imagePath == "" || strings.HasSuffix(imagePath, "/") {
		return ""
	}
	name := path.Base(imagePath)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}
