// Package source loads scene snapshots from files.
//
// Two formats are supported: a YAML scene description (.yaml, .yml) and
// glTF 2.0 (.gltf, .glb). Both produce a scene.Scene with world matrices
// computed. Unreadable files are reported as edm.ErrIO, malformed content
// as edm.ErrInputValidation.
package source

import (
	"path/filepath"
	"strings"

	"github.com/Faultbox/edm-exporter/pkg/edm"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

// Loader reads a scene snapshot from a file.
type Loader func(path string) (*scene.Scene, error)

var loaders = map[string]Loader{
	".yaml": LoadYAML,
	".yml":  LoadYAML,
	".gltf": LoadGLTF,
	".glb":  LoadGLTF,
}

// Load picks a loader by file extension.
func Load(path string) (*scene.Scene, error) {
	ext := strings.ToLower(filepath.Ext(path))
	load, ok := loaders[ext]
	if !ok {
		return nil, edm.InvalidInput("unsupported scene format %q", ext)
	}
	return load(path)
}

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	_, ok := loaders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// sceneName derives a scene name from a file path.
func sceneName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
