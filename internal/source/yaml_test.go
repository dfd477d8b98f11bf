package source

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/edm-exporter/pkg/edm"
	"github.com/Faultbox/edm-exporter/pkg/math"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

func TestLoadYAMLCubes(t *testing.T) {
	sc, err := LoadYAML(filepath.Join("testdata", "cubes.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "cubes", sc.Name)
	require.Len(t, sc.Objects, 5)
	require.Len(t, sc.Materials, 2)

	hull := sc.Object("Hull")
	require.NotNil(t, hull)
	assert.Equal(t, scene.ObjectMesh, hull.Type)
	require.NotNil(t, hull.Mesh)
	assert.Len(t, hull.Mesh.Vertices, 8)
	assert.Len(t, hull.Mesh.Faces, 6)
	assert.Equal(t, []string{"Paint"}, hull.MaterialSlots)

	// Normals were recalculated from the faces.
	for _, v := range hull.Mesh.Vertices {
		assert.InDelta(t, 1, v.Normal.Length(), 1e-5)
		assert.Greater(t, v.Normal.Dot(v.Co), float32(0))
	}

	turret := sc.Object("Turret")
	require.NotNil(t, turret)
	assert.Equal(t, "Hull", turret.Parent)
	p := turret.World.TransformPoint(math.Vec3{X: 1, Y: 0, Z: 0})
	assert.InDelta(t, 0, p.X, 1e-5)
	assert.InDelta(t, 0.5, p.Y, 1e-5)
	assert.InDelta(t, 2, p.Z, 1e-5)

	canopy := sc.Object("Canopy")
	require.NotNil(t, canopy)
	c := canopy.World.TransformPoint(math.Vec3{})
	assert.InDelta(t, 2.5, c.Z, 1e-5)

	assert.Equal(t, scene.ObjectCamera, sc.Object("Camera").Type)
	assert.Equal(t, scene.ObjectEmpty, sc.Object("Marker").Type)
}

func TestLoadYAMLMaterials(t *testing.T) {
	sc, err := LoadYAML(filepath.Join("testdata", "cubes.yaml"))
	require.NoError(t, err)

	paint := sc.Material("Paint")
	require.NotNil(t, paint)
	assert.Equal(t, int32(edm.BlendingNone), paint.Blending)
	assert.Equal(t, 50, paint.SpecularHardness)
	require.Len(t, paint.TextureSlots, 2)
	assert.Equal(t, scene.TextureDiffuse, paint.TextureSlots[0].Use)
	assert.Equal(t, scene.TextureNormal, paint.TextureSlots[1].Use)

	glass := sc.Material("Glass")
	require.NotNil(t, glass)
	assert.Equal(t, "glass_material", glass.ShaderName)
	assert.Equal(t, int32(edm.BlendingBlend), glass.Blending)
	assert.True(t, glass.Mirror.Enabled)
	assert.Equal(t, float32(0.8), glass.DiffuseIntensity)
	assert.Equal(t, scene.ShadowSettings{Receive: true, Cast: true}, glass.Shadows)
}

func TestParseYAMLBlending(t *testing.T) {
	tests := []struct {
		value   string
		want    int32
		wantErr bool
	}{
		{"none", 0, false},
		{"blend", 1, false},
		{"alpha_test", 2, false},
		{"SUM_BLEND", 3, false},
		{"2", 2, false},
		{"glow", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			sc, err := ParseYAML([]byte("materials:\n  - name: M\n    blending: " + tt.value + "\n"))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sc.Materials[0].Blending)
		})
	}
}

func TestParseYAMLTransforms(t *testing.T) {
	sc, err := ParseYAML([]byte(`
objects:
  - name: Quat
    rotation_quaternion: [0.7071068, 0, 0, 0.7071068]
  - name: Matrix
    matrix: [1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 3, 4, 5, 1]
`))
	require.NoError(t, err)

	p := sc.Object("Quat").World.TransformPoint(math.Vec3{X: 1})
	assert.InDelta(t, 0, p.X, 1e-5)
	assert.InDelta(t, 1, p.Y, 1e-5)

	assert.Equal(t, math.Translate(3, 4, 5), sc.Object("Matrix").Local)
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", "objects: [\n"},
		{"object type", "objects:\n  - name: A\n    type: spaceship\n"},
		{"unknown parent", "objects:\n  - name: A\n    parent: B\n"},
		{"parent cycle", "objects:\n  - name: A\n    parent: B\n  - name: B\n    parent: A\n"},
		{"normal count", "objects:\n  - name: A\n    type: mesh\n    mesh:\n      vertices: [[0, 0, 0]]\n      normals: [[0, 0, 1], [0, 0, 1]]\n"},
		{"mesh without data", "objects:\n  - name: A\n    type: mesh\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, stderrors.Is(err, edm.ErrIO), "got %v", err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("objects:\n  - name: A\n    type: spaceship\n"), 0644))
	_, err = Load(bad)
	assert.True(t, stderrors.Is(err, edm.ErrInputValidation), "got %v", err)

	_, err = Load("scene.blend")
	assert.True(t, stderrors.Is(err, edm.ErrInputValidation), "got %v", err)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.yaml"))
	assert.True(t, Supported("a.YML"))
	assert.True(t, Supported("a.gltf"))
	assert.True(t, Supported("a.glb"))
	assert.False(t, Supported("a.obj"))
}
