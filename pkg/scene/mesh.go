package scene

import "github.com/Faultbox/edm-exporter/pkg/math"

// MeshVertex is a geometric vertex.
type MeshVertex struct {
	Co     math.Vec3
	Normal math.Vec3
}

// Face is a polygon referencing mesh vertices in winding order.
type Face struct {
	Vertices []int
}

// FaceUV holds one UV per face corner.
type FaceUV struct {
	UV [][2]float32
}

// UVLayer is a per-face UV layer. Faces is parallel to Mesh.Faces.
type UVLayer struct {
	Name   string
	Active bool
	Faces  []FaceUV
}

// Mesh is polygon geometry with per-face UV layers.
type Mesh struct {
	Vertices []MeshVertex
	Faces    []Face
	UVLayers []UVLayer
}

// ActiveUVLayer returns the layer flagged active, the first layer when none
// is flagged, or nil when the mesh has no UV layers.
func (m *Mesh) ActiveUVLayer() *UVLayer {
	for i := range m.UVLayers {
		if m.UVLayers[i].Active {
			return &m.UVLayers[i]
		}
	}
	if len(m.UVLayers) > 0 {
		return &m.UVLayers[0]
	}
	return nil
}

// Bounds returns the bounding box of the mesh vertices.
func (m *Mesh) Bounds() math.AABB {
	b := math.EmptyAABB()
	for _, v := range m.Vertices {
		b = b.Extend(v.Co)
	}
	return b
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Vertices: append([]MeshVertex(nil), m.Vertices...),
		Faces:    make([]Face, len(m.Faces)),
		UVLayers: make([]UVLayer, len(m.UVLayers)),
	}
	for i, f := range m.Faces {
		c.Faces[i] = Face{Vertices: append([]int(nil), f.Vertices...)}
	}
	for i, l := range m.UVLayers {
		cl := UVLayer{Name: l.Name, Active: l.Active, Faces: make([]FaceUV, len(l.Faces))}
		for j, fuv := range l.Faces {
			cl.Faces[j] = FaceUV{UV: append([][2]float32(nil), fuv.UV...)}
		}
		c.UVLayers[i] = cl
	}
	return c
}

// Transform applies mat to positions in place. Normals are carried by the
// normal matrix of mat and renormalized.
func (m *Mesh) Transform(mat math.Mat4) {
	if mat.IsIdentity() {
		return
	}
	nm := mat.NormalMatrix()
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Co = mat.TransformPoint(v.Co)
		v.Normal = nm.TransformDirection(v.Normal).Normalize()
	}
}

// RecalcNormals sets every vertex normal to the normalized sum of the
// normals of the faces using it, weighted by face area.
func (m *Mesh) RecalcNormals() {
	sums := make([]math.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		if len(f.Vertices) < 3 || !m.inRange(f) {
			continue
		}
		var n math.Vec3
		origin := m.Vertices[f.Vertices[0]].Co
		for i := 1; i+1 < len(f.Vertices); i++ {
			a := m.Vertices[f.Vertices[i]].Co.Sub(origin)
			b := m.Vertices[f.Vertices[i+1]].Co.Sub(origin)
			n = n.Add(a.Cross(b))
		}
		for _, vi := range f.Vertices {
			sums[vi] = sums[vi].Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = sums[i].Normalize()
	}
}

func (m *Mesh) inRange(f Face) bool {
	for _, vi := range f.Vertices {
		if vi < 0 || vi >= len(m.Vertices) {
			return false
		}
	}
	return true
}
