package export

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/edm-exporter/pkg/edm"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// renderNodeSummary replaces geometry with counts in a dump.
type renderNodeSummary struct {
	Name      string
	Parent    int
	Material  int
	Vertices  int
	Triangles int
}

// Dump writes a readable dump of the graph to w. Vertex and index data is
// included only when geometry is set.
func Dump(w io.Writer, f *edm.File, geometry bool) {
	fmt.Fprintf(w, "root: %d materials, bounds %v .. %v\n", len(f.Root.Materials), f.Root.BoundsMin, f.Root.BoundsMax)
	for i, m := range f.Root.Materials {
		fmt.Fprintf(w, "material %d:\n", i)
		dumpConfig.Fdump(w, m)
	}

	fmt.Fprintf(w, "nodes:\n")
	dumpConfig.Fdump(w, f.Nodes)

	fmt.Fprintf(w, "render nodes:\n")
	for i, rn := range f.RenderNodes {
		fmt.Fprintf(w, "render node %d:\n", i)
		if geometry {
			dumpConfig.Fdump(w, rn)
			continue
		}
		dumpConfig.Fdump(w, renderNodeSummary{
			Name:      rn.Name,
			Parent:    rn.Parent,
			Material:  rn.Material,
			Vertices:  len(rn.Vertices),
			Triangles: rn.TriangleCount(),
		})
	}
}
