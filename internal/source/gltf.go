package source

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/edm-exporter/pkg/edm"
	"github.com/Faultbox/edm-exporter/pkg/math"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

// Extras key naming the EDM shader of a glTF material.
const gltfShaderExtra = "edm_material"

// LoadGLTF reads a glTF 2.0 document (.gltf or .glb).
func LoadGLTF(path string) (*scene.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, edm.WrapIO(err, "open gltf")
	}

	sc, err := ConvertGLTF(doc)
	if err != nil {
		return nil, edm.WrapInvalid(err, "scene %s", path)
	}
	if sc.Name == "" {
		sc.Name = sceneName(path)
	}
	return sc, nil
}

// ConvertGLTF builds a scene from the default scene of doc.
//
// Nodes with a mesh become mesh objects, nodes with a camera become cameras,
// every other node is an empty. Primitives of one mesh are merged; only the
// first primitive's material is exported. Texture V coordinates are flipped
// to a bottom-left origin.
func ConvertGLTF(doc *gltf.Document) (*scene.Scene, error) {
	c := &gltfConverter{
		doc:       doc,
		sc:        &scene.Scene{},
		names:     make(map[string]bool),
		materials: make(map[uint32]string),
	}

	roots, err := c.rootNodes()
	if err != nil {
		return nil, err
	}
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		c.sc.Name = doc.Scenes[*doc.Scene].Name
	}

	visiting := make(map[uint32]bool)
	for _, idx := range roots {
		if err := c.visit(idx, "", visiting); err != nil {
			return nil, err
		}
	}

	if err := c.sc.Validate(); err != nil {
		return nil, err
	}
	if err := c.sc.ComputeWorldMatrices(); err != nil {
		return nil, err
	}
	return c.sc, nil
}

type gltfConverter struct {
	doc       *gltf.Document
	sc        *scene.Scene
	names     map[string]bool
	materials map[uint32]string // glTF material index -> scene material name
}

func (c *gltfConverter) rootNodes() ([]uint32, error) {
	if len(c.doc.Scenes) > 0 {
		idx := uint32(0)
		if c.doc.Scene != nil {
			idx = *c.doc.Scene
		}
		if int(idx) >= len(c.doc.Scenes) {
			return nil, errors.Errorf("default scene %d out of range", idx)
		}
		return c.doc.Scenes[idx].Nodes, nil
	}

	// No scenes: every node that is nobody's child is a root.
	child := make(map[uint32]bool)
	for _, n := range c.doc.Nodes {
		for _, ch := range n.Children {
			child[ch] = true
		}
	}
	var roots []uint32
	for i := range c.doc.Nodes {
		if !child[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots, nil
}

// uniqueName returns name, or name with a numeric suffix when taken.
func (c *gltfConverter) uniqueName(name, fallback string) string {
	if name == "" {
		name = fallback
	}
	candidate := name
	for i := 1; c.names[candidate]; i++ {
		candidate = fmt.Sprintf("%s.%03d", name, i)
	}
	c.names[candidate] = true
	return candidate
}

func (c *gltfConverter) visit(idx uint32, parent string, visiting map[uint32]bool) error {
	if int(idx) >= len(c.doc.Nodes) {
		return errors.Errorf("node %d out of range", idx)
	}
	if visiting[idx] {
		return errors.Errorf("node %d is reachable twice", idx)
	}
	visiting[idx] = true

	node := c.doc.Nodes[idx]
	obj := &scene.Object{
		Name:   c.uniqueName(node.Name, fmt.Sprintf("node_%d", idx)),
		Type:   scene.ObjectEmpty,
		Parent: parent,
		Local:  nodeLocal(node),
	}

	switch {
	case node.Mesh != nil:
		obj.Type = scene.ObjectMesh
		mesh, slots, err := c.mesh(*node.Mesh)
		if err != nil {
			return errors.Wrapf(err, "node %q", obj.Name)
		}
		obj.Mesh = mesh
		obj.MaterialSlots = slots
	case node.Camera != nil:
		obj.Type = scene.ObjectCamera
	}
	c.sc.Objects = append(c.sc.Objects, obj)

	for _, ch := range node.Children {
		if err := c.visit(ch, obj.Name, visiting); err != nil {
			return err
		}
	}
	return nil
}

// nodeLocal returns the local transform of a node. A zero matrix, scale or
// rotation is treated as its glTF default.
func nodeLocal(n *gltf.Node) math.Mat4 {
	var m math.Mat4
	for i, v := range n.Matrix {
		m[i] = float32(v)
	}
	if m != (math.Mat4{}) && !m.IsIdentity() {
		return m
	}

	t := math.Vec3{X: float32(n.Translation[0]), Y: float32(n.Translation[1]), Z: float32(n.Translation[2])}
	s := math.Vec3{X: float32(n.Scale[0]), Y: float32(n.Scale[1]), Z: float32(n.Scale[2])}
	if s == (math.Vec3{}) {
		s = math.Vec3{X: 1, Y: 1, Z: 1}
	}

	q := math.Quat{X: float32(n.Rotation[0]), Y: float32(n.Rotation[1]), Z: float32(n.Rotation[2]), W: float32(n.Rotation[3])}
	rotation := math.Identity()
	if q != (math.Quat{}) {
		rotation = q.Normalize().ToMat4()
	}
	return math.Compose(t, rotation, s)
}

// mesh merges the primitives of a glTF mesh into one triangle mesh.
func (c *gltfConverter) mesh(idx uint32) (*scene.Mesh, []string, error) {
	if int(idx) >= len(c.doc.Meshes) {
		return nil, nil, errors.Errorf("mesh %d out of range", idx)
	}
	gm := c.doc.Meshes[idx]

	m := &scene.Mesh{}
	layer := scene.UVLayer{Name: "TEXCOORD_0", Active: true}
	withUV, withNormals := true, true
	var slots []string

	for pi, p := range gm.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			return nil, nil, errors.Errorf("mesh %q primitive %d: only triangles are supported", gm.Name, pi)
		}

		positions, err := c.readPositions(p)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "mesh %q primitive %d", gm.Name, pi)
		}
		indices, err := c.readIndices(p, len(positions))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "mesh %q primitive %d", gm.Name, pi)
		}
		normals, err := c.readNormals(p)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "mesh %q primitive %d", gm.Name, pi)
		}
		uvs, err := c.readUVs(p)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "mesh %q primitive %d", gm.Name, pi)
		}
		withNormals = withNormals && len(normals) == len(positions)
		withUV = withUV && len(uvs) == len(positions)

		base := len(m.Vertices)
		for i, co := range positions {
			v := scene.MeshVertex{Co: math.V3(co)}
			if i < len(normals) {
				v.Normal = math.V3(normals[i])
			}
			m.Vertices = append(m.Vertices, v)
		}

		for t := 0; t+2 < len(indices); t += 3 {
			tri := []int{base + int(indices[t]), base + int(indices[t+1]), base + int(indices[t+2])}
			m.Faces = append(m.Faces, scene.Face{Vertices: tri})

			if withUV {
				corners := make([][2]float32, 3)
				for k := 0; k < 3; k++ {
					uv := uvs[indices[t+k]]
					corners[k] = [2]float32{uv[0], 1 - uv[1]}
				}
				layer.Faces = append(layer.Faces, scene.FaceUV{UV: corners})
			}
		}

		if p.Material != nil {
			name, err := c.material(*p.Material)
			if err != nil {
				return nil, nil, err
			}
			slots = appendUnique(slots, name)
		}
	}

	if withUV && len(m.Faces) > 0 {
		m.UVLayers = []scene.UVLayer{layer}
	}
	if !withNormals {
		m.RecalcNormals()
	}
	return m, slots, nil
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func (c *gltfConverter) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(c.doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range", idx)
	}
	return c.doc.Accessors[idx], nil
}

func (c *gltfConverter) readPositions(p *gltf.Primitive) ([][3]float32, error) {
	idx, ok := p.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("no POSITION attribute")
	}
	acc, err := c.accessor(idx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(c.doc, acc, nil)
	return positions, errors.Wrap(err, "read positions")
}

func (c *gltfConverter) readNormals(p *gltf.Primitive) ([][3]float32, error) {
	idx, ok := p.Attributes["NORMAL"]
	if !ok {
		return nil, nil
	}
	acc, err := c.accessor(idx)
	if err != nil {
		return nil, err
	}
	normals, err := modeler.ReadNormal(c.doc, acc, nil)
	return normals, errors.Wrap(err, "read normals")
}

func (c *gltfConverter) readUVs(p *gltf.Primitive) ([][2]float32, error) {
	idx, ok := p.Attributes["TEXCOORD_0"]
	if !ok {
		return nil, nil
	}
	acc, err := c.accessor(idx)
	if err != nil {
		return nil, err
	}
	uvs, err := modeler.ReadTextureCoord(c.doc, acc, nil)
	return uvs, errors.Wrap(err, "read texture coordinates")
}

// readIndices returns the triangle list of p, generating one for
// non-indexed primitives.
func (c *gltfConverter) readIndices(p *gltf.Primitive, vertexCount int) ([]uint32, error) {
	if p.Indices == nil {
		indices := make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
		return indices, nil
	}
	acc, err := c.accessor(*p.Indices)
	if err != nil {
		return nil, err
	}
	indices, err := modeler.ReadIndices(c.doc, acc, nil)
	if err != nil {
		return nil, errors.Wrap(err, "read indices")
	}
	if len(indices)%3 != 0 {
		return nil, errors.Errorf("%d indices do not form triangles", len(indices))
	}
	for _, i := range indices {
		if int(i) >= vertexCount {
			return nil, errors.Errorf("index %d out of range for %d vertices", i, vertexCount)
		}
	}
	return indices, nil
}

// material converts a glTF material once and returns its scene name.
//
// Metallic-roughness values are mapped onto the specular model: roughness
// drives hardness and intensity, metallic enables the mirror.
func (c *gltfConverter) material(idx uint32) (string, error) {
	if name, ok := c.materials[idx]; ok {
		return name, nil
	}
	if int(idx) >= len(c.doc.Materials) {
		return "", errors.Errorf("material %d out of range", idx)
	}
	gm := c.doc.Materials[idx]

	base := gm.Name
	if base == "" {
		base = fmt.Sprintf("material_%d", idx)
	}
	name := base
	for i := 1; c.sc.Material(name) != nil; i++ {
		name = fmt.Sprintf("%s.%03d", base, i)
	}

	m := &scene.Material{
		Name:             name,
		Blending:         int32(blendingFor(gm.AlphaMode)),
		ShaderName:       shaderFor(gm.Extras),
		DiffuseIntensity: 0.8,
		Shadows:          scene.ShadowSettings{Receive: true, Cast: true},
	}

	metallic, roughness := float32(1), float32(1)
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if pbr.MetallicFactor != nil {
			metallic = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			roughness = float32(*pbr.RoughnessFactor)
		}
		if pbr.BaseColorTexture != nil {
			m.TextureSlots = append(m.TextureSlots, scene.TextureSlot{
				Use:       scene.TextureDiffuse,
				ImagePath: c.imagePath(pbr.BaseColorTexture.Index),
			})
		}
		if pbr.MetallicRoughnessTexture != nil {
			m.TextureSlots = append(m.TextureSlots, scene.TextureSlot{
				Use:       scene.TextureSpecular,
				ImagePath: c.imagePath(pbr.MetallicRoughnessTexture.Index),
			})
		}
	}

	gloss := 1 - roughness
	m.SpecularIntensity = gloss
	m.SpecularHardness = 1 + int(gloss*510)
	if metallic > 0 {
		m.Mirror = scene.Mirror{Enabled: true, ReflectFactor: metallic, GlossFactor: gloss}
	}

	c.sc.Materials = append(c.sc.Materials, m)
	c.materials[idx] = name
	return name, nil
}

func blendingFor(mode gltf.AlphaMode) edm.Blending {
	switch mode {
	case gltf.AlphaBlend:
		return edm.BlendingBlend
	case gltf.AlphaMask:
		return edm.BlendingAlphaTest
	default:
		return edm.BlendingNone
	}
}

func shaderFor(extras interface{}) string {
	if m, ok := extras.(map[string]interface{}); ok {
		if s, ok := m[gltfShaderExtra].(string); ok && s != "" {
			return s
		}
	}
	return "def_material"
}

// imagePath returns the URI of a texture's image, or its name for
// embedded images.
func (c *gltfConverter) imagePath(texture uint32) string {
	if int(texture) >= len(c.doc.Textures) {
		return ""
	}
	t := c.doc.Textures[texture]
	if t.Source == nil || int(*t.Source) >= len(c.doc.Images) {
		return ""
	}
	img := c.doc.Images[*t.Source]
	if img.URI != "" && !strings.HasPrefix(img.URI, "data:") {
		return img.URI
	}
	if img.Name != "" {
		return img.Name
	}
	return fmt.Sprintf("image_%d", *t.Source)
}
