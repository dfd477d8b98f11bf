package export

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/edm-exporter/pkg/math"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

func TestWorldBounds(t *testing.T) {
	box := math.AABB{Min: math.Vec3{X: 0, Y: 0, Z: 0}, Max: math.Vec3{X: 1, Y: 2, Z: 3}}.Corners()

	tests := []struct {
		name    string
		objects []*scene.Object
		min     math.Vec3
		max     math.Vec3
	}{
		{
			name: "explicit box translated",
			objects: []*scene.Object{
				{Name: "Box", Type: scene.ObjectMesh, World: math.Translate(10, 0, 0), BoundBox: &box},
			},
			min: math.Vec3{X: 10, Y: 0, Z: 0},
			max: math.Vec3{X: 11, Y: 2, Z: 3},
		},
		{
			name: "empty gets unit box",
			objects: []*scene.Object{
				{Name: "Marker", Type: scene.ObjectEmpty, World: math.Translate(0, 5, 0)},
			},
			min: math.Vec3{X: -1, Y: 4, Z: -1},
			max: math.Vec3{X: 1, Y: 6, Z: 1},
		},
		{
			name: "camera ignored",
			objects: []*scene.Object{
				{Name: "Box", Type: scene.ObjectMesh, World: math.Identity(), BoundBox: &box},
				{Name: "Camera", Type: scene.ObjectCamera, World: math.Translate(100, 100, 100)},
			},
			min: math.Vec3{X: 0, Y: 0, Z: 0},
			max: math.Vec3{X: 1, Y: 2, Z: 3},
		},
		{
			name: "scaled",
			objects: []*scene.Object{
				{Name: "Box", Type: scene.ObjectMesh, World: math.Scale(2, 2, 2), BoundBox: &box},
			},
			min: math.Vec3{X: 0, Y: 0, Z: 0},
			max: math.Vec3{X: 2, Y: 4, Z: 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := WorldBounds(&scene.Scene{Objects: tt.objects}, false)
			assert.InDelta(t, tt.min.X, b.Min.X, 1e-5)
			assert.InDelta(t, tt.min.Y, b.Min.Y, 1e-5)
			assert.InDelta(t, tt.min.Z, b.Min.Z, 1e-5)
			assert.InDelta(t, tt.max.X, b.Max.X, 1e-5)
			assert.InDelta(t, tt.max.Y, b.Max.Y, 1e-5)
			assert.InDelta(t, tt.max.Z, b.Max.Z, 1e-5)
		})
	}
}

func TestWorldBoundsOnlyCameras(t *testing.T) {
	b := WorldBounds(&scene.Scene{Objects: []*scene.Object{
		{Name: "Camera", Type: scene.ObjectCamera, World: math.Identity()},
	}}, false)
	assert.True(t, b.IsEmpty())
	assert.Equal(t, float32(math.BoundsSentinel), b.Min.X)
	assert.Equal(t, float32(-math.BoundsSentinel), b.Max.X)
}

func TestWorldBoundsApplyModifiers(t *testing.T) {
	base := cubeMesh(1)
	evaluated := cubeMesh(3)
	obj := &scene.Object{Name: "Hull", Type: scene.ObjectMesh, World: math.Identity(), Mesh: base, EvaluatedMesh: evaluated}
	sc := &scene.Scene{Objects: []*scene.Object{obj}}

	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 1}, WorldBounds(sc, false).Max)
	assert.Equal(t, math.Vec3{X: 3, Y: 3, Z: 3}, WorldBounds(sc, true).Max)

	// An explicit box wins over both meshes.
	box := math.AABB{Max: math.Vec3{X: 5, Y: 5, Z: 5}}.Corners()
	obj.BoundBox = &box
	assert.Equal(t, math.Vec3{X: 5, Y: 5, Z: 5}, WorldBounds(sc, true).Max)
}
