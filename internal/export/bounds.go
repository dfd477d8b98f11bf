package export

import (
	"github.com/Faultbox/edm-exporter/pkg/math"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

// WorldBounds returns the world-space box around every object's bound box.
// With applyModifiers the box follows the evaluated geometry that gets
// exported. Cameras are skipped. With nothing to measure the box stays at
// the ±math.BoundsSentinel seed.
func WorldBounds(sc *scene.Scene, applyModifiers bool) math.AABB {
	b := math.EmptyAABB()
	for _, obj := range sc.Objects {
		if obj.Type == scene.ObjectCamera {
			continue
		}
		for _, corner := range obj.LocalBoundBox(applyModifiers) {
			b = b.Extend(obj.World.TransformPoint(corner))
		}
	}
	return b
}
