package edm

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/Faultbox/edm-exporter/pkg/encoding"
)

// Index widths written before a render node's index buffer.
const (
	IndexWidth8  uint8 = 0
	IndexWidth16 uint8 = 1
	IndexWidth32 uint8 = 2
)

// attributeSizes is the number of components each Vertex field can supply.
var attributeSizes = map[string]int{
	"position": 4,
	"normal":   3,
	"tex0":     2,
}

// IndexWidthFor returns the narrowest index width that addresses vertexCount vertices.
func IndexWidthFor(vertexCount int) uint8 {
	switch {
	case vertexCount <= math.MaxUint8+1:
		return IndexWidth8
	case vertexCount <= math.MaxUint16+1:
		return IndexWidth16
	default:
		return IndexWidth32
	}
}

// Encode validates f and serializes it into memory.
// Strings are written in the given codepage.
func Encode(f *File, cp encoding.Codepage) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	e := &encoder{cp: cp}
	e.buf.WriteString(Magic)
	e.u16(Version)
	e.writeTypeIndex(f.TypeCounts())
	e.writeRoot(&f.Root)

	e.block(len(f.Nodes), func(b *encoder) {
		for _, n := range f.Nodes {
			b.str(TypeNode)
			b.str(n.Name)
			b.i32(int32(n.Parent))
		}
	})

	e.block(len(f.RenderNodes), func(b *encoder) {
		for _, rn := range f.RenderNodes {
			b.writeRenderNode(rn, f.Root.Materials[rn.Material].VertexFormat)
		}
	})

	if e.err != nil {
		return nil, e.err
	}
	return e.buf.Bytes(), nil
}

// WriteFile encodes f and replaces path with the result.
// Nothing touches path unless encoding succeeds; the bytes go to a temporary
// file in the same directory which is then renamed over path.
func WriteFile(path string, f *File, cp encoding.Codepage) error {
	data, err := Encode(f, cp)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return WrapIO(err, "creating temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return WrapIO(err, "writing %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		return WrapIO(err, "syncing %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return WrapIO(err, "closing %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return WrapIO(err, "setting mode of %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return WrapIO(err, "renaming %s to %s", tmpName, path)
	}
	committed = true
	return nil
}

// encoder accumulates little-endian output and remembers the first error.
type encoder struct {
	buf bytes.Buffer
	cp  encoding.Codepage
	err error
}

func (e *encoder) put(v interface{}) {
	// Writes to a bytes.Buffer cannot fail.
	_ = binary.Write(&e.buf, binary.LittleEndian, v)
}

func (e *encoder) u8(v uint8)    { e.put(v) }
func (e *encoder) u16(v uint16)  { e.put(v) }
func (e *encoder) u32(v uint32)  { e.put(v) }
func (e *encoder) i32(v int32)   { e.put(v) }
func (e *encoder) f32(v float32) { e.put(v) }

func (e *encoder) vec3f64(v [3]float32) {
	e.put([3]float64{float64(v[0]), float64(v[1]), float64(v[2])})
}

func (e *encoder) str(s string) {
	if e.err != nil {
		return
	}
	b, err := e.cp.Encode(s)
	if err != nil {
		e.err = WrapInvalid(err, "encoding string")
		return
	}
	e.u32(uint32(len(b)))
	e.buf.Write(b)
}

// block writes count, payload byte length and the payload produced by fn.
func (e *encoder) block(count int, fn func(b *encoder)) {
	if e.err != nil {
		return
	}
	sub := &encoder{cp: e.cp}
	fn(sub)
	if sub.err != nil {
		e.err = sub.err
		return
	}
	e.u32(uint32(count))
	e.u32(uint32(sub.buf.Len()))
	e.buf.Write(sub.buf.Bytes())
}

func (e *encoder) writeTypeIndex(counts map[string]uint32) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	e.u32(uint32(len(names)))
	for _, name := range names {
		e.str(name)
		e.u32(counts[name])
	}
}

func (e *encoder) writeRoot(root *RootNode) {
	e.str(TypeRootNode)
	e.vec3f64(root.BoundsMin.Array())
	e.vec3f64(root.BoundsMax.Array())
	e.block(len(root.Materials), func(b *encoder) {
		for _, m := range root.Materials {
			b.writeMaterial(m)
		}
	})
}

func (e *encoder) writeMaterial(m *Material) {
	e.str(TypeMaterial)
	e.str(m.Name)
	e.str(m.MaterialName)
	e.u32(uint32(m.Blending))

	e.u32(uint32(len(m.Uniforms)))
	for _, u := range m.Uniforms {
		e.str(u.Name)
		e.f32(u.Value)
	}

	e.u8(m.Shadows.Flags())

	e.u32(uint32(len(m.VertexFormat)))
	for _, a := range m.VertexFormat {
		e.str(a.Name)
		e.u32(uint32(a.Components))
	}

	e.u32(TexCoordChannelSlots)
	e.put(m.TexCoordChannels)

	e.u32(uint32(len(m.Textures)))
	for _, t := range m.Textures {
		e.i32(int32(t.Channel))
		e.str(t.Name)
		e.put([16]float32(t.Matrix))
	}
}

func (e *encoder) writeRenderNode(rn *RenderNode, format VertexFormat) {
	e.str(TypeRenderNode)
	e.str(rn.Name)
	e.i32(int32(rn.Parent))
	e.u32(uint32(rn.Material))

	stride := format.Stride()
	e.u32(uint32(len(rn.Vertices)))
	e.u32(uint32(stride))
	floats := make([]float32, 0, len(rn.Vertices)*stride)
	for _, v := range rn.Vertices {
		floats = appendVertex(floats, v, format)
	}
	e.put(floats)

	width := IndexWidthFor(len(rn.Vertices))
	e.u8(width)
	e.u32(uint32(len(rn.Indices)))
	switch width {
	case IndexWidth8:
		idx := make([]uint8, len(rn.Indices))
		for i, v := range rn.Indices {
			idx[i] = uint8(v)
		}
		e.put(idx)
	case IndexWidth16:
		idx := make([]uint16, len(rn.Indices))
		for i, v := range rn.Indices {
			idx[i] = uint16(v)
		}
		e.put(idx)
	default:
		e.put(rn.Indices)
	}
}

// appendVertex interleaves v according to format.
func appendVertex(dst []float32, v Vertex, format VertexFormat) []float32 {
	for _, a := range format {
		switch a.Name {
		case "position":
			dst = append(dst, v.Position[:a.Components]...)
		case "normal":
			dst = append(dst, v.Normal[:a.Components]...)
		case "tex0":
			dst = append(dst, v.TexCoord[:a.Components]...)
		}
	}
	return dst
}
