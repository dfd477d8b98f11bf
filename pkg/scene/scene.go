// Package scene defines the read-only scene snapshot handed to the exporter by a host.
//
// A snapshot is built once per export by a source (YAML description, glTF document,
// or an embedding application) and never mutated by the exporter. Geometry the exporter
// needs to transform is copied first.
package scene

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/edm-exporter/pkg/math"
)

// ObjectType is the kind of a scene object.
type ObjectType int

const (
	ObjectEmpty ObjectType = iota
	ObjectMesh
	ObjectCamera
	ObjectLamp
)

// String returns the object type name.
func (t ObjectType) String() string {
	switch t {
	case ObjectEmpty:
		return "EMPTY"
	case ObjectMesh:
		return "MESH"
	case ObjectCamera:
		return "CAMERA"
	case ObjectLamp:
		return "LAMP"
	default:
		return fmt.Sprintf("ObjectType(%d)", int(t))
	}
}

// ParseObjectType parses a case-insensitive type name.
func ParseObjectType(s string) (ObjectType, error) {
	switch strings.ToUpper(s) {
	case "", "EMPTY":
		return ObjectEmpty, nil
	case "MESH":
		return ObjectMesh, nil
	case "CAMERA":
		return ObjectCamera, nil
	case "LAMP", "LIGHT":
		return ObjectLamp, nil
	default:
		return 0, errors.Errorf("unknown object type %q", s)
	}
}

// Object is one scene object.
type Object struct {
	Name   string
	Type   ObjectType
	Parent string // Name of the parent object, empty for none

	Local math.Mat4 // Local-to-parent transform
	World math.Mat4 // Local-to-world transform

	Mesh          *Mesh // Base geometry (mesh objects only)
	EvaluatedMesh *Mesh // Geometry with modifiers applied, if the host provides it

	// BoundBox holds the local-space bound box corners. When nil it is derived
	// from the mesh, or a unit box for objects without geometry.
	BoundBox *[8]math.Vec3

	MaterialSlots []string // Material names by slot
}

// LocalBoundBox returns the object's eight local-space bound box corners.
// Without an explicit box they come from the evaluated mesh when
// applyModifiers is set and one exists, else from the base mesh.
func (o *Object) LocalBoundBox(applyModifiers bool) [8]math.Vec3 {
	if o.BoundBox != nil {
		return *o.BoundBox
	}
	mesh := o.Mesh
	if applyModifiers && o.EvaluatedMesh != nil {
		mesh = o.EvaluatedMesh
	}
	if mesh != nil && len(mesh.Vertices) > 0 {
		return mesh.Bounds().Corners()
	}
	return math.AABB{
		Min: math.Vec3{X: -1, Y: -1, Z: -1},
		Max: math.Vec3{X: 1, Y: 1, Z: 1},
	}.Corners()
}

// Scene is a snapshot of every object and material the exporter may reference.
type Scene struct {
	Name      string
	Objects   []*Object
	Materials []*Material
}

// Object returns the object with the given name, or nil.
func (s *Scene) Object(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Material returns the material with the given name, or nil.
func (s *Scene) Material(name string) *Material {
	for _, m := range s.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Validate checks names are unique and references resolve.
func (s *Scene) Validate() error {
	objects := make(map[string]bool, len(s.Objects))
	for i, o := range s.Objects {
		if o == nil {
			return errors.Errorf("object %d is nil", i)
		}
		if o.Name == "" {
			return errors.Errorf("object %d has no name", i)
		}
		if objects[o.Name] {
			return errors.Errorf("duplicate object name %q", o.Name)
		}
		objects[o.Name] = true
	}

	materials := make(map[string]bool, len(s.Materials))
	for i, m := range s.Materials {
		if m == nil || m.Name == "" {
			return errors.Errorf("material %d has no name", i)
		}
		if materials[m.Name] {
			return errors.Errorf("duplicate material name %q", m.Name)
		}
		materials[m.Name] = true
	}

	for _, o := range s.Objects {
		if o.Parent != "" && !objects[o.Parent] {
			return errors.Errorf("object %q: unknown parent %q", o.Name, o.Parent)
		}
		if o.Parent == o.Name {
			return errors.Errorf("object %q is its own parent", o.Name)
		}
		if o.Type == ObjectMesh && o.Mesh == nil {
			return errors.Errorf("mesh object %q has no mesh data", o.Name)
		}
	}
	return nil
}

// Depth returns the number of ancestors of an object.
// It returns an error when the parent chain loops.
func (s *Scene) Depth(o *Object) (int, error) {
	depth := 0
	seen := map[string]bool{o.Name: true}
	for cur := o; cur.Parent != ""; {
		parent := s.Object(cur.Parent)
		if parent == nil {
			return depth, errors.Errorf("object %q: unknown parent %q", cur.Name, cur.Parent)
		}
		if seen[parent.Name] {
			return depth, errors.Errorf("object %q: parent cycle through %q", o.Name, parent.Name)
		}
		seen[parent.Name] = true
		depth++
		cur = parent
	}
	return depth, nil
}

// ComputeWorldMatrices sets every object's World transform from the Local
// transforms along its parent chain.
func (s *Scene) ComputeWorldMatrices() error {
	done := make(map[string]bool, len(s.Objects))
	var resolve func(o *Object, visiting map[string]bool) error
	resolve = func(o *Object, visiting map[string]bool) error {
		if done[o.Name] {
			return nil
		}
		if visiting[o.Name] {
			return errors.Errorf("parent cycle through %q", o.Name)
		}
		visiting[o.Name] = true
		world := o.Local
		if o.Parent != "" {
			parent := s.Object(o.Parent)
			if parent == nil {
				return errors.Errorf("object %q: unknown parent %q", o.Name, o.Parent)
			}
			if err := resolve(parent, visiting); err != nil {
				return err
			}
			world = parent.World.Mul(o.Local)
		}
		o.World = world
		done[o.Name] = true
		return nil
	}

	for _, o := range s.Objects {
		if err := resolve(o, map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}
