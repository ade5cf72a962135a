package input

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/tbogdala/xrsession/internal/oxr"
)

func vec3From(v oxr.Vec3) mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }

func quatFrom(q oxr.Quat) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}
