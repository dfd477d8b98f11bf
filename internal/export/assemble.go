package export

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/edm-exporter/pkg/edm"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

// Build assembles the EDM graph for a scene without writing it.
// The returned file has passed edm.File.Validate.
func Build(sc *scene.Scene, opts Options) (*edm.File, error) {
	log := opts.logger()

	if err := sc.Validate(); err != nil {
		return nil, edm.WrapInvalid(err, "scene %q", sc.Name)
	}

	var meshObjects []*scene.Object
	for _, obj := range sc.Objects {
		if obj.Type == scene.ObjectMesh {
			meshObjects = append(meshObjects, obj)
		}
	}

	f := edm.NewFile()

	materials, err := buildMaterials(sc, meshObjects, log)
	if err != nil {
		return nil, err
	}
	f.Root.Materials = materials.list
	log.Debug("materials built", zap.Int("count", len(materials.list)))

	for _, obj := range meshObjects {
		rn, err := buildRenderNode(obj, opts)
		if err != nil {
			return nil, err
		}
		rn.Material = materials.index[obj.MaterialSlots[0]]
		f.RenderNodes = append(f.RenderNodes, rn)

		log.Debug("render node built",
			zap.String("object", obj.Name),
			zap.Int("vertices", len(rn.Vertices)),
			zap.Int("triangles", rn.TriangleCount()),
			zap.Int("material", rn.Material),
		)
	}

	resolveParents(sc, f, meshObjects, log)

	bounds := WorldBounds(sc, opts.ApplyModifiers)
	if bounds.IsEmpty() {
		log.Warn("no object contributes to the bounding box", zap.String("scene", sc.Name))
	}
	f.Root.BoundsMin = bounds.Min
	f.Root.BoundsMax = bounds.Max
	log.Debug("world bounds",
		zap.Any("min", bounds.Min),
		zap.Any("max", bounds.Max),
	)

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// materialTable is the deduplicated material list and each source name's index in it.
type materialTable struct {
	list  []*edm.Material
	index map[string]int
}

// buildMaterials builds the material of every mesh object in first-use order.
func buildMaterials(sc *scene.Scene, objects []*scene.Object, log *zap.Logger) (*materialTable, error) {
	t := &materialTable{index: make(map[string]int)}

	for _, obj := range objects {
		if len(obj.MaterialSlots) == 0 || obj.MaterialSlots[0] == "" {
			return nil, edm.InvalidInput("object %q has no material", obj.Name)
		}
		name := obj.MaterialSlots[0]
		if len(obj.MaterialSlots) > 1 {
			log.Warn("only the first material slot is exported",
				zap.String("object", obj.Name),
				zap.Int("slots", len(obj.MaterialSlots)),
			)
		}
		if _, ok := t.index[name]; ok {
			continue
		}

		src := sc.Material(name)
		if src == nil {
			return nil, edm.InvalidInput("object %q references unknown material %q", obj.Name, name)
		}
		m, err := BuildMaterial(src)
		if err != nil {
			return nil, err
		}
		for _, slot := range src.TextureSlots {
			if slot.Use == scene.TextureNormal || slot.Use == scene.TextureSpecular {
				log.Debug("texture slot ignored",
					zap.String("material", name),
					zap.Stringer("use", slot.Use),
					zap.String("image", slot.ImagePath),
				)
			}
		}

		t.index[name] = len(t.list)
		t.list = append(t.list, m)
	}
	return t, nil
}

// buildRenderNode flattens one mesh object. The scratch mesh is released
// before returning, also on failure.
func buildRenderNode(obj *scene.Object, opts Options) (rn *edm.RenderNode, err error) {
	src := opts.meshes()

	mesh, err := src.AcquireMesh(obj, opts.ApplyModifiers)
	if err != nil {
		return nil, edm.WrapResource(err, "acquire mesh for %q", obj.Name)
	}
	defer func() {
		if rerr := src.ReleaseMesh(mesh); rerr != nil && err == nil {
			rn, err = nil, edm.WrapResource(rerr, "release mesh for %q", obj.Name)
		}
	}()

	mesh.Transform(obj.Local)

	vertices, indices, err := FlattenMesh(mesh)
	if err != nil {
		return nil, errors.WithMessagef(err, "object %q", obj.Name)
	}

	return &edm.RenderNode{
		Name:     obj.Name,
		Parent:   edm.RootIndex,
		Vertices: vertices,
		Indices:  indices,
	}, nil
}

// resolveParents points every render node at a node table entry. Parentless
// objects hang off the root; every parented render node gets a fresh entry
// for its parent, even when siblings share it. Hierarchies deeper than one
// level are flattened.
func resolveParents(sc *scene.Scene, f *edm.File, objects []*scene.Object, log *zap.Logger) {
	for i, obj := range objects {
		if obj.Parent == "" {
			f.RenderNodes[i].Parent = edm.RootIndex
			continue
		}

		parent := sc.Object(obj.Parent)
		f.RenderNodes[i].Parent = f.AddNode(edm.Node{Name: parent.Name, Parent: edm.RootIndex})

		if parent.Parent != "" {
			depth, err := sc.Depth(parent)
			log.Warn("parent chain flattened to one level",
				zap.String("object", obj.Name),
				zap.String("parent", parent.Name),
				zap.String("grandparent", parent.Parent),
				zap.Int("depth", depth+1),
				zap.Error(err),
			)
		}
	}

	log.Debug("nodes resolved", zap.Int("count", len(f.Nodes)))
}
