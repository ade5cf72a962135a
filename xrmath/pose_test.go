package xrmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func approxVec(a, b mgl32.Vec3, eps float32) bool {
	return math.Abs(float64(a[0]-b[0])) < float64(eps) &&
		math.Abs(float64(a[1]-b[1])) < float64(eps) &&
		math.Abs(float64(a[2]-b[2])) < float64(eps)
}

func approxQuat(a, b mgl32.Quat, eps float32) bool {
	return math.Abs(float64(a.W-b.W)) < float64(eps) && approxVec(a.V, b.V, eps)
}

// Pose composition round-trip: A.TransformPose(B.Inverse()).TransformPose(B) == A.
func TestPoseCompositionRoundTrip(t *testing.T) {
	a := Pose{
		Position:    mgl32.Vec3{1, 2, 3},
		Orientation: mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0}).Normalize(),
	}
	b := Pose{
		Position:    mgl32.Vec3{-4, 0.5, 2},
		Orientation: mgl32.QuatRotate(1.2, mgl32.Vec3{1, 0, 0}).Normalize(),
	}

	roundTripped := a.TransformPose(b.Inverse()).TransformPose(b)
	if !approxVec(roundTripped.Position, a.Position, 1e-4) {
		t.Fatalf("position mismatch: got %v want %v", roundTripped.Position, a.Position)
	}
	if !approxQuat(roundTripped.Orientation, a.Orientation, 1e-4) {
		t.Fatalf("orientation mismatch: got %v want %v", roundTripped.Orientation, a.Orientation)
	}
}

// Coordinate symmetry: xr_to_engine(engine_to_xr(xr_to_engine(p))) == xr_to_engine(p).
func TestCoordinateSymmetry(t *testing.T) {
	pos := mgl32.Vec3{1, -2, 3}
	orient := mgl32.QuatRotate(0.9, mgl32.Vec3{0, 1, 0}).Normalize()

	once := FromRuntime(pos, orient)
	backToRuntimePos, backToRuntimeOrient := ToRuntime(once)
	twice := FromRuntime(backToRuntimePos, backToRuntimeOrient)

	if !approxVec(once.Position, twice.Position, 1e-5) {
		t.Fatalf("position not symmetric: %v vs %v", once.Position, twice.Position)
	}
	if !approxQuat(once.Orientation, twice.Orientation, 1e-5) {
		t.Fatalf("orientation not symmetric: %v vs %v", once.Orientation, twice.Orientation)
	}
}

func TestFromRuntimeNegatesZ(t *testing.T) {
	p := FromRuntime(mgl32.Vec3{1, 2, 3}, mgl32.Quat{W: 1, V: mgl32.Vec3{0, 0, 0.5}})
	if p.Position[2] != -3 {
		t.Fatalf("expected position.z negated, got %v", p.Position)
	}
	if p.Orientation.V[2] != -0.5 {
		t.Fatalf("expected orientation.z negated, got %v", p.Orientation)
	}
}

func TestRightEyeOrientationNegatesXY(t *testing.T) {
	orient := mgl32.Quat{W: 1, V: mgl32.Vec3{0.1, 0.2, 0.3}}
	p := RightEyeOrientation(mgl32.Vec3{0, 0, 0}, orient)
	standard := FromRuntime(mgl32.Vec3{0, 0, 0}, orient)
	if p.Orientation.V[0] != -standard.Orientation.V[0] || p.Orientation.V[1] != -standard.Orientation.V[1] {
		t.Fatalf("expected x/y negated relative to standard conversion: got %v want negation of %v", p.Orientation, standard.Orientation)
	}
	if p.Orientation.V[2] != standard.Orientation.V[2] || p.Orientation.W != standard.Orientation.W {
		t.Fatalf("expected z/w unchanged relative to standard conversion")
	}
}

// Recenter drops pitch: YawPose's orientation must equal quat_y(yaw)
// regardless of the pitch/roll baked into the source orientation used to
// derive yaw.
func TestRecenterDropsPitch(t *testing.T) {
	pitchy := mgl32.QuatRotate(0.8, mgl32.Vec3{1, 0, 0}).Mul(mgl32.QuatRotate(0.4, mgl32.Vec3{0, 1, 0}))
	yaw := Yaw(pitchy)

	offset := YawPose(mgl32.Vec3{0, 0, 0}, yaw)
	want := mgl32.Quat{W: cos32(yaw / 2), V: mgl32.Vec3{0, sin32(yaw / 2), 0}}
	if !approxQuat(offset.Orientation, want, 1e-5) {
		t.Fatalf("expected yaw-only orientation %v, got %v", want, offset.Orientation)
	}
}
