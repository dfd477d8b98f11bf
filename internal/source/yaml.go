package source

import (
	stdmath "math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/edm-exporter/pkg/edm"
	"github.com/Faultbox/edm-exporter/pkg/math"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

// yamlScene is the on-disk layout of a YAML scene description.
type yamlScene struct {
	Name      string         `yaml:"name"`
	Materials []yamlMaterial `yaml:"materials"`
	Objects   []yamlObject   `yaml:"objects"`
}

type yamlMaterial struct {
	Name              string        `yaml:"name"`
	Shader            string        `yaml:"shader"`
	Blending          blendingValue `yaml:"blending"`
	SpecularHardness  int           `yaml:"specular_hardness"`
	SpecularIntensity float32       `yaml:"specular_intensity"`
	DiffuseIntensity  *float32      `yaml:"diffuse_intensity"`
	Mirror            struct {
		Enabled       bool    `yaml:"enabled"`
		ReflectFactor float32 `yaml:"reflect_factor"`
		GlossFactor   float32 `yaml:"gloss_factor"`
	} `yaml:"mirror"`
	Shadows *struct {
		Receive  bool `yaml:"receive"`
		Cast     bool `yaml:"cast"`
		CastOnly bool `yaml:"cast_only"`
	} `yaml:"shadows"`
	Textures []struct {
		Use   string `yaml:"use"`
		Image string `yaml:"image"`
	} `yaml:"textures"`
}

type yamlObject struct {
	Name          string         `yaml:"name"`
	Type          string         `yaml:"type"`
	Parent        string         `yaml:"parent"`
	Location      *[3]float32    `yaml:"location"`
	RotationEuler *[3]float32    `yaml:"rotation_euler"` // Degrees, XYZ order
	RotationQuat  *[4]float32    `yaml:"rotation_quaternion"`
	Scale         *[3]float32    `yaml:"scale"`
	Matrix        *[16]float32   `yaml:"matrix"` // Column-major, overrides location/rotation/scale
	Materials     []string       `yaml:"materials"`
	BoundBox      *[8][3]float32 `yaml:"bound_box"`
	Mesh          *yamlMesh      `yaml:"mesh"`
	EvaluatedMesh *yamlMesh      `yaml:"evaluated_mesh"`
}

type yamlMesh struct {
	Vertices [][3]float32 `yaml:"vertices"`
	Normals  [][3]float32 `yaml:"normals"`
	Faces    [][]int      `yaml:"faces"`
	UVLayers []struct {
		Name   string         `yaml:"name"`
		Active bool           `yaml:"active"`
		UVs    [][][2]float32 `yaml:"uvs"` // One list of corners per face
	} `yaml:"uv_layers"`
}

// blendingValue accepts a blending mode by name or number.
type blendingValue int32

var blendingNames = map[string]edm.Blending{
	"none":       edm.BlendingNone,
	"opaque":     edm.BlendingNone,
	"blend":      edm.BlendingBlend,
	"alpha_test": edm.BlendingAlphaTest,
	"sum_blend":  edm.BlendingSumBlend,
	"additive":   edm.BlendingSumBlend,
}

func (b *blendingValue) UnmarshalYAML(node *yaml.Node) error {
	if n, err := strconv.ParseInt(node.Value, 10, 32); err == nil {
		*b = blendingValue(n)
		return nil
	}
	mode, ok := blendingNames[strings.ToLower(node.Value)]
	if !ok {
		return errors.Errorf("line %d: unknown blending mode %q", node.Line, node.Value)
	}
	*b = blendingValue(mode)
	return nil
}

// LoadYAML reads a YAML scene description.
func LoadYAML(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, edm.WrapIO(err, "read scene")
	}

	sc, err := ParseYAML(data)
	if err != nil {
		return nil, edm.WrapInvalid(err, "scene %s", path)
	}
	if sc.Name == "" {
		sc.Name = sceneName(path)
	}
	return sc, nil
}

// ParseYAML decodes a YAML scene description and computes world matrices.
func ParseYAML(data []byte) (*scene.Scene, error) {
	var doc yamlScene
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}

	sc := &scene.Scene{Name: doc.Name}

	for _, ym := range doc.Materials {
		sc.Materials = append(sc.Materials, ym.material())
	}

	for _, yo := range doc.Objects {
		o, err := yo.object()
		if err != nil {
			return nil, errors.Wrapf(err, "object %q", yo.Name)
		}
		sc.Objects = append(sc.Objects, o)
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if err := sc.ComputeWorldMatrices(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (ym *yamlMaterial) material() *scene.Material {
	m := &scene.Material{
		Name:              ym.Name,
		Blending:          int32(ym.Blending),
		ShaderName:        ym.Shader,
		SpecularHardness:  ym.SpecularHardness,
		SpecularIntensity: ym.SpecularIntensity,
		DiffuseIntensity:  0.8,
		Mirror: scene.Mirror{
			Enabled:       ym.Mirror.Enabled,
			ReflectFactor: ym.Mirror.ReflectFactor,
			GlossFactor:   ym.Mirror.GlossFactor,
		},
		Shadows: scene.ShadowSettings{Receive: true, Cast: true},
	}
	if m.ShaderName == "" {
		m.ShaderName = "def_material"
	}
	if ym.DiffuseIntensity != nil {
		m.DiffuseIntensity = *ym.DiffuseIntensity
	}
	if ym.Shadows != nil {
		m.Shadows = scene.ShadowSettings{
			Receive:  ym.Shadows.Receive,
			Cast:     ym.Shadows.Cast,
			CastOnly: ym.Shadows.CastOnly,
		}
	}

	for _, t := range ym.Textures {
		m.TextureSlots = append(m.TextureSlots, scene.TextureSlot{
			Use:       scene.ParseTextureUse(t.Use),
			ImagePath: t.Image,
		})
	}
	return m
}

func (yo *yamlObject) object() (*scene.Object, error) {
	typ, err := scene.ParseObjectType(yo.Type)
	if err != nil {
		return nil, err
	}

	o := &scene.Object{
		Name:          yo.Name,
		Type:          typ,
		Parent:        yo.Parent,
		Local:         yo.local(),
		MaterialSlots: yo.Materials,
	}

	if yo.BoundBox != nil {
		var box [8]math.Vec3
		for i, c := range yo.BoundBox {
			box[i] = math.V3(c)
		}
		o.BoundBox = &box
	}

	if yo.Mesh != nil {
		if o.Mesh, err = yo.Mesh.mesh(); err != nil {
			return nil, errors.Wrap(err, "mesh")
		}
	}
	if yo.EvaluatedMesh != nil {
		if o.EvaluatedMesh, err = yo.EvaluatedMesh.mesh(); err != nil {
			return nil, errors.Wrap(err, "evaluated mesh")
		}
	}
	return o, nil
}

func (yo *yamlObject) local() math.Mat4 {
	if yo.Matrix != nil {
		return math.Mat4(*yo.Matrix)
	}

	location := math.Vec3{}
	if yo.Location != nil {
		location = math.V3(*yo.Location)
	}
	scale := math.Vec3{X: 1, Y: 1, Z: 1}
	if yo.Scale != nil {
		scale = math.V3(*yo.Scale)
	}

	rotation := math.Identity()
	switch {
	case yo.RotationQuat != nil:
		q := yo.RotationQuat
		rotation = math.Quat{W: q[0], X: q[1], Y: q[2], Z: q[3]}.Normalize().ToMat4()
	case yo.RotationEuler != nil:
		e := yo.RotationEuler
		rotation = math.EulerXYZ(radians(e[0]), radians(e[1]), radians(e[2]))
	}

	return math.Compose(location, rotation, scale)
}

func radians(deg float32) float32 {
	return float32(float64(deg) * stdmath.Pi / 180)
}

func (ym *yamlMesh) mesh() (*scene.Mesh, error) {
	if len(ym.Normals) != 0 && len(ym.Normals) != len(ym.Vertices) {
		return nil, errors.Errorf("%d normals for %d vertices", len(ym.Normals), len(ym.Vertices))
	}

	m := &scene.Mesh{Vertices: make([]scene.MeshVertex, len(ym.Vertices))}
	for i, co := range ym.Vertices {
		m.Vertices[i].Co = math.V3(co)
		if len(ym.Normals) > 0 {
			m.Vertices[i].Normal = math.V3(ym.Normals[i]).Normalize()
		}
	}
	for _, f := range ym.Faces {
		m.Faces = append(m.Faces, scene.Face{Vertices: f})
	}
	for _, l := range ym.UVLayers {
		layer := scene.UVLayer{Name: l.Name, Active: l.Active}
		for _, uv := range l.UVs {
			layer.Faces = append(layer.Faces, scene.FaceUV{UV: uv})
		}
		m.UVLayers = append(m.UVLayers, layer)
	}

	if len(ym.Normals) == 0 {
		m.RecalcNormals()
	}
	return m, nil
}
