package edm

// Validate checks every cross reference of the graph.
// It returns an ErrInputValidation error describing the first violation.
func (f *File) Validate() error {
	if len(f.Nodes) == 0 || f.Nodes[RootIndex].Parent != RootIndex {
		return InvalidInput("node table must start with the root node")
	}
	for i := 1; i < len(f.Nodes); i++ {
		// Parents must precede their children, which also rules out cycles.
		if p := f.Nodes[i].Parent; p < 0 || p >= i {
			return InvalidInput("node %d (%q): parent index %d out of range [0, %d)", i, f.Nodes[i].Name, p, i)
		}
	}

	for i, m := range f.Root.Materials {
		if m == nil {
			return InvalidInput("material %d is nil", i)
		}
		if err := m.Validate(); err != nil {
			return WrapInvalid(err, "material %d", i)
		}
	}

	for i, rn := range f.RenderNodes {
		if rn == nil {
			return InvalidInput("render node %d is nil", i)
		}
		if rn.Parent < 0 || rn.Parent >= len(f.Nodes) {
			return InvalidInput("render node %q: parent index %d out of range [0, %d)", rn.Name, rn.Parent, len(f.Nodes))
		}
		if rn.Material < 0 || rn.Material >= len(f.Root.Materials) {
			return InvalidInput("render node %q: material index %d out of range [0, %d)", rn.Name, rn.Material, len(f.Root.Materials))
		}
		if len(rn.Indices)%3 != 0 {
			return InvalidInput("render node %q: index count %d is not a multiple of 3", rn.Name, len(rn.Indices))
		}
		for j, idx := range rn.Indices {
			if int(idx) >= len(rn.Vertices) {
				return InvalidInput("render node %q: index %d = %d exceeds vertex count %d", rn.Name, j, idx, len(rn.Vertices))
			}
		}
	}
	return nil
}

// Validate checks the texture and vertex format invariants of a material.
func (m *Material) Validate() error {
	if m.Blending < BlendingNone || m.Blending > BlendingSumBlend {
		return InvalidInput("material %q: unknown blending mode %d", m.Name, m.Blending)
	}
	diffuse := 0
	for _, t := range m.Textures {
		if t.Channel == ChannelDiffuse {
			diffuse++
		}
	}
	if diffuse != 1 {
		return InvalidInput("material %q: expected exactly one diffuse texture, found %d", m.Name, diffuse)
	}
	if len(m.VertexFormat) == 0 {
		return InvalidInput("material %q: empty vertex format", m.Name)
	}
	for _, a := range m.VertexFormat {
		size, ok := attributeSizes[a.Name]
		if !ok {
			return InvalidInput("material %q: unknown vertex attribute %q", m.Name, a.Name)
		}
		if a.Components <= 0 || a.Components > size {
			return InvalidInput("material %q: attribute %q has %d components, max %d", m.Name, a.Name, a.Components, size)
		}
	}
	return nil
}
