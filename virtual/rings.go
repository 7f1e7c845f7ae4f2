package virtual

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Rings returns the positions of clones placed on concentric rings around center. The outermost ring has
// the radius passed and ring i holds a share of the clones proportional to i. There are never more rings
// than clones.
func Rings(center mgl32.Vec3, clones, rings int, radius float32) []mgl32.Vec3 {
	if clones <= 0 || radius <= 0 {
		return nil
	}
	rings = min(max(rings, 1), clones)
	weights := rings * (rings + 1) / 2

	out := make([]mgl32.Vec3, 0, clones)
	placed := 0
	for ri := 1; ri <= rings; ri++ {
		n := clones * ri / weights
		if ri == rings {
			n = clones - placed
		}
		r := radius * float32(ri) / float32(rings)
		for i := 0; i < n; i++ {
			a := 0.5*math32.Pi - float32(i)/float32(n)*2*math32.Pi
			out = append(out, center.Add(mgl32.Vec3{r * math32.Sin(a), 0, r * math32.Cos(a)}))
		}
		placed += n
	}
	return out
}
