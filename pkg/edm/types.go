// Package edm models the EDM scene graph and writes it in the EDM binary format.
package edm

import (
	"fmt"

	"github.com/Faultbox/edm-exporter/pkg/math"
)

// Version is the format version written to the file header.
const Version uint16 = 10

// Magic opens every EDM file.
const Magic = "EDM"

// Record type names as they appear in the type index and in front of every record.
const (
	TypeRootNode   = "model::RootNode"
	TypeNode       = "model::Node"
	TypeRenderNode = "model::RenderNode"
	TypeMaterial   = "model::Material"
)

// TexCoordChannelSlots is the fixed length of a material's texture coordinate channel table.
const TexCoordChannelSlots = 12

// UnusedChannel marks an empty texture coordinate channel slot.
const UnusedChannel int32 = -1

// RootIndex is the position of the implicit root node. It is also the
// parent sentinel of every node without a parent, the root included.
const RootIndex = 0

// Blending is the material blending mode.
type Blending int32

const (
	BlendingNone      Blending = 0 // Opaque
	BlendingBlend     Blending = 1 // Alpha blending
	BlendingAlphaTest Blending = 2 // Alpha test
	BlendingSumBlend  Blending = 3 // Additive
)

// String returns a human-readable blending name.
func (b Blending) String() string {
	switch b {
	case BlendingNone:
		return "None"
	case BlendingBlend:
		return "Blend"
	case BlendingAlphaTest:
		return "AlphaTest"
	case BlendingSumBlend:
		return "SumBlend"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(b))
	}
}

// TextureChannel is the logical role of a texture.
type TextureChannel int32

const (
	ChannelDiffuse  TextureChannel = 0
	ChannelNormal   TextureChannel = 1
	ChannelSpecular TextureChannel = 2
)

// String returns the channel name.
func (c TextureChannel) String() string {
	switch c {
	case ChannelDiffuse:
		return "diffuse"
	case ChannelNormal:
		return "normal"
	case ChannelSpecular:
		return "specular"
	default:
		return fmt.Sprintf("channel(%d)", int32(c))
	}
}

// Vertex is one interleaved vertex: position (w slot is always 0), normal, texcoord.
type Vertex struct {
	Position [4]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Texture is a texture reference of a material.
type Texture struct {
	Channel TextureChannel
	Name    string    // File base name without directory or extensions
	Matrix  math.Mat4 // Texture transform, identity for now
}

// Uniform is a named shader scalar.
type Uniform struct {
	Name  string
	Value float32
}

// Uniforms is an ordered uniform set. Order is the write order.
type Uniforms []Uniform

// Get returns the value of a uniform.
func (u Uniforms) Get(name string) (float32, bool) {
	for _, un := range u {
		if un.Name == name {
			return un.Value, true
		}
	}
	return 0, false
}

// Set overwrites an existing uniform in place or appends a new one.
func (u *Uniforms) Set(name string, value float32) {
	for i := range *u {
		if (*u)[i].Name == name {
			(*u)[i].Value = value
			return
		}
	}
	*u = append(*u, Uniform{Name: name, Value: value})
}

// Shadows holds the shadow flags of a material.
type Shadows struct {
	Receive  bool
	Cast     bool
	CastOnly bool
}

// Shadow flag bits.
const (
	ShadowReceive  uint8 = 1 << 0
	ShadowCast     uint8 = 1 << 1
	ShadowCastOnly uint8 = 1 << 2
)

// Flags packs the shadow flags into a bit set.
func (s Shadows) Flags() uint8 {
	var f uint8
	if s.Receive {
		f |= ShadowReceive
	}
	if s.Cast {
		f |= ShadowCast
	}
	if s.CastOnly {
		f |= ShadowCastOnly
	}
	return f
}

// VertexAttribute is one attribute channel of a vertex format.
type VertexAttribute struct {
	Name       string
	Components int
}

// VertexFormat is the ordered attribute list of a material's vertices.
type VertexFormat []VertexAttribute

// DefaultVertexFormat returns position=4, normal=3, tex0=2.
func DefaultVertexFormat() VertexFormat {
	return VertexFormat{
		{Name: "position", Components: 4},
		{Name: "normal", Components: 3},
		{Name: "tex0", Components: 2},
	}
}

// Stride returns the number of floats per vertex.
func (f VertexFormat) Stride() int {
	n := 0
	for _, a := range f {
		n += a.Components
	}
	return n
}

// DefaultTexCoordChannels returns the channel table with slot 0 bound to channel 0.
func DefaultTexCoordChannels() [TexCoordChannelSlots]int32 {
	var ch [TexCoordChannelSlots]int32
	for i := range ch {
		ch[i] = UnusedChannel
	}
	ch[0] = 0
	return ch
}

// Material is a deduplicated material table entry.
type Material struct {
	Blending         Blending
	MaterialName     string // Shader identifier
	Name             string // Display name
	Uniforms         Uniforms
	Shadows          Shadows
	VertexFormat     VertexFormat
	TexCoordChannels [TexCoordChannelSlots]int32
	Textures         []Texture
}

// Node is a plain hierarchy entry.
type Node struct {
	Name   string
	Parent int
}

// RenderNode is a hierarchy entry with geometry and a material.
type RenderNode struct {
	Name     string
	Parent   int // Index into File.Nodes
	Material int // Index into File.Root.Materials
	Vertices []Vertex
	Indices  []uint32 // Triangle list, stride 3
}

// TriangleCount returns the number of triangles.
func (rn *RenderNode) TriangleCount() int {
	return len(rn.Indices) / 3
}

// RootNode carries the material table and the world bounding box.
type RootNode struct {
	Materials []*Material
	BoundsMin math.Vec3
	BoundsMax math.Vec3
}

// File is the complete exportable graph.
type File struct {
	Root        RootNode
	Nodes       []Node
	RenderNodes []*RenderNode
}

// NewFile returns a file whose node table holds only the implicit root.
func NewFile() *File {
	return &File{
		Nodes: []Node{{Name: "root", Parent: RootIndex}},
	}
}

// AddNode appends a node and returns its index.
func (f *File) AddNode(n Node) int {
	f.Nodes = append(f.Nodes, n)
	return len(f.Nodes) - 1
}

// TypeCounts returns the number of records of each type the file will contain.
func (f *File) TypeCounts() map[string]uint32 {
	return map[string]uint32{
		TypeRootNode:   1,
		TypeMaterial:   uint32(len(f.Root.Materials)),
		TypeNode:       uint32(len(f.Nodes)),
		TypeRenderNode: uint32(len(f.RenderNodes)),
	}
}
