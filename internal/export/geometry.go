package export

import (
	"github.com/Faultbox/edm-exporter/pkg/edm"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

// Corner order of the triangles a face is split into.
var (
	triangleSplit = [][3]int{{0, 1, 2}}
	quadSplit     = [][3]int{{0, 1, 2}, {2, 3, 0}}
)

// FlattenMesh converts a mesh into an unwelded vertex buffer and a triangle list.
//
// Every face corner becomes its own vertex; texcoords come from the active UV
// layer with V negated. Quads are fan-split along the 0-2 diagonal, so convex
// quads are assumed. Indices address the returned vertex buffer.
func FlattenMesh(mesh *scene.Mesh) ([]edm.Vertex, []uint32, error) {
	layer := mesh.ActiveUVLayer()
	if layer == nil {
		return nil, nil, edm.InvalidInput("mesh has no active UV layer")
	}
	if len(layer.Faces) != len(mesh.Faces) {
		return nil, nil, edm.InvalidInput("UV layer %q covers %d faces, mesh has %d", layer.Name, len(layer.Faces), len(mesh.Faces))
	}

	vertices := make([]edm.Vertex, 0, len(mesh.Faces)*4)
	indices := make([]uint32, 0, len(mesh.Faces)*6)

	for fi, face := range mesh.Faces {
		var split [][3]int
		switch len(face.Vertices) {
		case 3:
			split = triangleSplit
		case 4:
			split = quadSplit
		default:
			return nil, nil, edm.InvalidInput("face %d has %d vertices, only triangles and quads are supported", fi, len(face.Vertices))
		}

		uv := layer.Faces[fi].UV
		if len(uv) != len(face.Vertices) {
			return nil, nil, edm.InvalidInput("face %d has %d corners but %d UVs in layer %q", fi, len(face.Vertices), len(uv), layer.Name)
		}

		base := uint32(len(vertices))
		for corner, vi := range face.Vertices {
			if vi < 0 || vi >= len(mesh.Vertices) {
				return nil, nil, edm.InvalidInput("face %d references vertex %d of %d", fi, vi, len(mesh.Vertices))
			}
			mv := mesh.Vertices[vi]
			vertices = append(vertices, edm.Vertex{
				Position: [4]float32{mv.Co.X, mv.Co.Y, mv.Co.Z, 0},
				Normal:   mv.Normal.Array(),
				TexCoord: [2]float32{uv[corner][0], -uv[corner][1]},
			})
		}

		for _, tri := range split {
			for _, corner := range tri {
				indices = append(indices, base+uint32(corner))
			}
		}
	}

	return vertices, indices, nil
}
