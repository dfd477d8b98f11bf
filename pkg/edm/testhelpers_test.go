package edm

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/Faultbox/edm-exporter/pkg/math"
)

// decoder reads back the pieces of an encoded file the tests assert on.
type decoder struct {
	t *testing.T
	r *bytes.Reader
}

func newDecoder(t *testing.T, data []byte) *decoder {
	return &decoder{t: t, r: bytes.NewReader(data)}
}

func (d *decoder) read(v interface{}) {
	d.t.Helper()
	if err := binary.Read(d.r, binary.LittleEndian, v); err != nil {
		d.t.Fatalf("reading %T: %v", v, err)
	}
}

func (d *decoder) u8() (v uint8)    { d.read(&v); return }
func (d *decoder) u16() (v uint16)  { d.read(&v); return }
func (d *decoder) u32() (v uint32)  { d.read(&v); return }
func (d *decoder) i32() (v int32)   { d.read(&v); return }
func (d *decoder) f32() (v float32) { d.read(&v); return }

func (d *decoder) str() string {
	d.t.Helper()
	buf := make([]byte, d.u32())
	d.read(buf)
	return string(buf)
}

func (d *decoder) skip(n int) {
	d.t.Helper()
	if _, err := d.r.Seek(int64(n), 1); err != nil {
		d.t.Fatalf("skip: %v", err)
	}
}

func testMaterial(name string) *Material {
	return &Material{
		Blending:     BlendingNone,
		MaterialName: "def_material",
		Name:         name,
		Uniforms: Uniforms{
			{Name: "specPower", Value: 50},
			{Name: "specFactor", Value: 0.5},
			{Name: "diffuseValue", Value: 0.8},
			{Name: "reflectionValue", Value: 0},
		},
		Shadows:          Shadows{Receive: true, Cast: true},
		VertexFormat:     DefaultVertexFormat(),
		TexCoordChannels: DefaultTexCoordChannels(),
		Textures:         []Texture{{Channel: ChannelDiffuse, Name: "plate", Matrix: math.Identity()}},
	}
}

func testTriangle(name string, parent, material int) *RenderNode {
	return &RenderNode{
		Name:     name,
		Parent:   parent,
		Material: material,
		Vertices: []Vertex{
			{Position: [4]float32{0, 0, 0, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 0}},
			{Position: [4]float32{1, 0, 0, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 0}},
			{Position: [4]float32{1, 1, 0, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, -1}},
		},
		Indices: []uint32{0, 1, 2},
	}
}

func testFile() *File {
	f := NewFile()
	f.Root.Materials = []*Material{testMaterial("steel")}
	f.Root.BoundsMin = math.Vec3{X: -1, Y: -2, Z: -3}
	f.Root.BoundsMax = math.Vec3{X: 1, Y: 2, Z: 3}
	parent := f.AddNode(Node{Name: "hull", Parent: 0})
	f.RenderNodes = []*RenderNode{
		testTriangle("wing", 0, 0),
		testTriangle("flap", parent, 0),
	}
	return f
}
