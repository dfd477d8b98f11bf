package export

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/edm-exporter/pkg/scene"
)

// MeshSource hands out scratch geometry for one object at a time.
// Every mesh returned by AcquireMesh is passed to ReleaseMesh exactly once,
// whether or not the export later fails.
type MeshSource interface {
	AcquireMesh(obj *scene.Object, applyModifiers bool) (*scene.Mesh, error)
	ReleaseMesh(mesh *scene.Mesh) error
}

// SnapshotMeshes serves deep copies of the geometry stored in the snapshot.
type SnapshotMeshes struct{}

// AcquireMesh returns a copy of the object's evaluated mesh when applyModifiers
// is set and one exists, otherwise a copy of its base mesh.
func (SnapshotMeshes) AcquireMesh(obj *scene.Object, applyModifiers bool) (*scene.Mesh, error) {
	src := obj.Mesh
	if applyModifiers && obj.EvaluatedMesh != nil {
		src = obj.EvaluatedMesh
	}
	if src == nil {
		return nil, errors.Errorf("object %q has no mesh data", obj.Name)
	}
	return src.Clone(), nil
}

// ReleaseMesh drops the copy.
func (SnapshotMeshes) ReleaseMesh(mesh *scene.Mesh) error {
	if mesh == nil {
		return errors.New("release of nil mesh")
	}
	mesh.Vertices = nil
	mesh.Faces = nil
	mesh.UVLayers = nil
	return nil
}
