package export

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/edm-exporter/pkg/math"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

func triangleMesh() *scene.Mesh {
	return &scene.Mesh{
		Vertices: []scene.MeshVertex{
			{Co: math.Vec3{X: 0, Y: 0, Z: 0}, Normal: math.Vec3{Z: 1}},
			{Co: math.Vec3{X: 1, Y: 0, Z: 0}, Normal: math.Vec3{Z: 1}},
			{Co: math.Vec3{X: 0, Y: 1, Z: 0}, Normal: math.Vec3{Z: 1}},
		},
		Faces: []scene.Face{{Vertices: []int{0, 1, 2}}},
		UVLayers: []scene.UVLayer{{
			Name:   "UVMap",
			Active: true,
			Faces:  []scene.FaceUV{{UV: [][2]float32{{0, 0}, {1, 0}, {0, 1}}}},
		}},
	}
}

func quadMesh() *scene.Mesh {
	return &scene.Mesh{
		Vertices: []scene.MeshVertex{
			{Co: math.Vec3{X: 0, Y: 0}, Normal: math.Vec3{Z: 1}},
			{Co: math.Vec3{X: 1, Y: 0}, Normal: math.Vec3{Z: 1}},
			{Co: math.Vec3{X: 1, Y: 1}, Normal: math.Vec3{Z: 1}},
			{Co: math.Vec3{X: 0, Y: 1}, Normal: math.Vec3{Z: 1}},
		},
		Faces: []scene.Face{{Vertices: []int{0, 1, 2, 3}}},
		UVLayers: []scene.UVLayer{{
			Name:  "UVMap",
			Faces: []scene.FaceUV{{UV: [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}},
		}},
	}
}

// cubeMesh returns a cube of the given half size made of six quads.
func cubeMesh(h float32) *scene.Mesh {
	m := &scene.Mesh{}
	for _, z := range []float32{-h, h} {
		for _, y := range []float32{-h, h} {
			for _, x := range []float32{-h, h} {
				co := math.Vec3{X: x, Y: y, Z: z}
				m.Vertices = append(m.Vertices, scene.MeshVertex{Co: co, Normal: co.Normalize()})
			}
		}
	}
	quads := [][]int{
		{0, 2, 3, 1}, {4, 5, 7, 6},
		{0, 1, 5, 4}, {2, 6, 7, 3},
		{0, 4, 6, 2}, {1, 3, 7, 5},
	}
	layer := scene.UVLayer{Name: "UVMap", Active: true}
	for _, q := range quads {
		m.Faces = append(m.Faces, scene.Face{Vertices: q})
		layer.Faces = append(layer.Faces, scene.FaceUV{UV: [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}})
	}
	m.UVLayers = []scene.UVLayer{layer}
	return m
}

func testMaterial(name string) *scene.Material {
	return &scene.Material{
		Name:              name,
		ShaderName:        "def_material",
		SpecularHardness:  50,
		SpecularIntensity: 0.5,
		DiffuseIntensity:  0.8,
		Shadows:           scene.ShadowSettings{Receive: true, Cast: true},
		TextureSlots: []scene.TextureSlot{
			{Use: scene.TextureDiffuse, ImagePath: "//textures/" + name + ".dds"},
		},
	}
}

func meshObject(name string, mesh *scene.Mesh, material string) *scene.Object {
	return &scene.Object{
		Name:          name,
		Type:          scene.ObjectMesh,
		Local:         math.Identity(),
		World:         math.Identity(),
		Mesh:          mesh,
		MaterialSlots: []string{material},
	}
}

// twoCubeScene has a parentless cube and a child cube sharing one material.
func twoCubeScene() *scene.Scene {
	parent := meshObject("Hull", cubeMesh(1), "Paint")
	child := meshObject("Turret", cubeMesh(0.5), "Paint")
	child.Parent = "Hull"
	child.Local = math.Translate(0, 0, 2)

	sc := &scene.Scene{
		Name:      "two-cubes",
		Objects:   []*scene.Object{parent, child},
		Materials: []*scene.Material{testMaterial("Paint")},
	}
	if err := sc.ComputeWorldMatrices(); err != nil {
		panic(err)
	}
	return sc
}

// countingMeshes tracks scratch meshes handed out and optionally fails.
type countingMeshes struct {
	SnapshotMeshes
	acquired    int
	released    int
	failAcquire string
	failRelease bool
}

func (c *countingMeshes) AcquireMesh(obj *scene.Object, apply bool) (*scene.Mesh, error) {
	if obj.Name == c.failAcquire {
		return nil, errors.New("out of scratch memory")
	}
	m, err := c.SnapshotMeshes.AcquireMesh(obj, apply)
	if err == nil {
		c.acquired++
	}
	return m, err
}

func (c *countingMeshes) ReleaseMesh(m *scene.Mesh) error {
	c.released++
	if c.failRelease {
		return errors.New("mesh still in use")
	}
	return c.SnapshotMeshes.ReleaseMesh(m)
}
