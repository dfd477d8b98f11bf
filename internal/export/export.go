// Package export turns a scene snapshot into an EDM file.
//
// An export runs in four steps on a single goroutine: materials are built and
// deduplicated, every mesh object is flattened into a render node, the node
// table and material references are resolved, and the world bounds are
// computed. The resulting graph is validated and written atomically; any
// error aborts the export before the destination is touched.
package export

import (
	"go.uber.org/zap"

	"github.com/Faultbox/edm-exporter/internal/logger"
	"github.com/Faultbox/edm-exporter/pkg/edm"
	"github.com/Faultbox/edm-exporter/pkg/encoding"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

// Options controls an export.
type Options struct {
	// ApplyModifiers exports modifier-evaluated geometry when the host provides it.
	ApplyModifiers bool

	// Codepage encodes names in the file. The zero value is UTF-8.
	Codepage encoding.Codepage

	// Meshes produces scratch geometry. Nil uses SnapshotMeshes.
	Meshes MeshSource

	// Logger receives progress messages. Nil uses the global logger.
	Logger *zap.Logger
}

func (o Options) meshes() MeshSource {
	if o.Meshes == nil {
		return SnapshotMeshes{}
	}
	return o.Meshes
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return logger.Named("export")
	}
	return o.Logger
}

// Export builds the graph for sc and writes it to path.
func Export(sc *scene.Scene, path string, opts Options) (*edm.File, error) {
	log := opts.logger()

	f, err := Build(sc, opts)
	if err != nil {
		return nil, err
	}

	if err := edm.WriteFile(path, f, opts.Codepage); err != nil {
		return nil, err
	}

	log.Info("export complete",
		zap.String("path", path),
		zap.Int("materials", len(f.Root.Materials)),
		zap.Int("nodes", len(f.Nodes)),
		zap.Int("render_nodes", len(f.RenderNodes)),
		zap.String("encoding", opts.Codepage.Name()),
	)
	return f, nil
}
