// Package xrmath provides the pose algebra and runtime/engine coordinate
// conversion shared by the session orchestrator. It is built on
// github.com/go-gl/mathgl/mgl32, the vector/quaternion library the upstream
// render system already depends on, rather than a hand-rolled type.
package xrmath

import "github.com/go-gl/mathgl/mgl32"

// Pose is a local coordinate frame: a position and a unit rotation.
// Composition, inversion and point/vector transforms mirror the algebra
// used throughout the driver this package replaces.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// Identity is the origin pose with no rotation.
var Identity = Pose{Position: mgl32.Vec3{0, 0, 0}, Orientation: mgl32.QuatIdent()}

// TransformVector rotates v into this pose's frame without translating it.
func (p Pose) TransformVector(v mgl32.Vec3) mgl32.Vec3 {
	return p.Orientation.Rotate(v)
}

// TransformPoint rotates and translates v into this pose's frame.
func (p Pose) TransformPoint(v mgl32.Vec3) mgl32.Vec3 {
	return p.Position.Add(p.TransformVector(v))
}

// Mul composes two poses: "apply other in this pose's local frame".
// Matches the source's pose::operator* semantics: the resulting position
// is this pose's position plus this pose's rotation applied to other's
// position, and the resulting orientation is the product of rotations.
func (p Pose) Mul(other Pose) Pose {
	return Pose{
		Position:    p.TransformPoint(other.Position),
		Orientation: p.Orientation.Mul(other.Orientation),
	}
}

// TransformPose is an alias for Mul kept for readability at call sites that
// read like "transform child pose by this parent pose".
func (p Pose) TransformPose(child Pose) Pose {
	return p.Mul(child)
}

// Inverse returns the pose that undoes this one: p.Mul(p.Inverse()) == Identity.
func (p Pose) Inverse() Pose {
	invOrient := p.Orientation.Inverse()
	return Pose{
		Position:    invOrient.Rotate(p.Position.Mul(-1)),
		Orientation: invOrient,
	}
}

// RelativeTo expresses this pose in the local frame of other:
// other.Mul(p.RelativeTo(other)) == p.
func (p Pose) RelativeTo(other Pose) Pose {
	return other.Inverse().Mul(p)
}

// FromRuntime converts a right-handed, Y-up runtime pose (meters, the
// coordinate convention OpenXR mandates) into the engine's left-handed,
// Y-up convention. Both conventions share Y-up, so only Z (position) and
// the quaternion's z component flip sign. Grounded on
// OpenXRMath.h's xr_to_irrlicht pose conversion.
func FromRuntime(pos mgl32.Vec3, orient mgl32.Quat) Pose {
	return Pose{
		Position:    mgl32.Vec3{pos[0], pos[1], -pos[2]},
		Orientation: mgl32.Quat{W: orient.W, V: mgl32.Vec3{orient.V[0], orient.V[1], -orient.V[2]}},
	}
}

// ToRuntime is the inverse of FromRuntime: engine coordinates back to the
// runtime's right-handed convention. Symmetric by construction.
func ToRuntime(p Pose) (mgl32.Vec3, mgl32.Quat) {
	pos := mgl32.Vec3{p.Position[0], p.Position[1], -p.Position[2]}
	orient := mgl32.Quat{W: p.Orientation.W, V: mgl32.Vec3{p.Orientation.V[0], p.Orientation.V[1], -p.Orientation.V[2]}}
	return pos, orient
}

// RightEyeOrientation applies the standard FromRuntime conversion and then
// additionally negates the x and y components of the resulting
// quaternion. This asymmetry relative to the left eye looks like a bug but
// is a hard contract of the system it replaces: the source applies it
// unconditionally to the right eye view only, and removing it mirrors the
// stereo image. Preserved bit-for-bit; see an open design note for why it
// exists.
func RightEyeOrientation(pos mgl32.Vec3, orient mgl32.Quat) Pose {
	converted := FromRuntime(pos, orient)
	q := converted.Orientation
	converted.Orientation = mgl32.Quat{W: q.W, V: mgl32.Vec3{-q.V[0], -q.V[1], q.V[2]}}
	return converted
}

// Yaw extracts the rotation about Y (in radians) implied by orient, by
// rotating the forward vector (0,0,1) and taking atan2(forward.x, forward.z).
// Pitch and roll are discarded, matching the recenter algorithm's
// deliberate floor-alignment assumption.
func Yaw(orient mgl32.Quat) float32 {
	forward := orient.Rotate(mgl32.Vec3{0, 0, 1})
	return atan2(forward[0], forward[2])
}

// YawPose builds the yaw-only pose used as a PlaySpaceOffset: the given
// position, orientation = (0, sin(yaw/2), 0, cos(yaw/2)).
func YawPose(position mgl32.Vec3, yaw float32) Pose {
	half := yaw * 0.5
	return Pose{
		Position:    position,
		Orientation: mgl32.Quat{W: cos32(half), V: mgl32.Vec3{0, sin32(half), 0}},
	}
}
