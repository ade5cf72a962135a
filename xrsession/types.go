package xrsession

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/tbogdala/xrsession/internal/oxr"
	"github.com/tbogdala/xrsession/xrmath"
	"github.com/tbogdala/xrsession/xrsession/input"
)

// ViewKind identifies what a ViewInfo describes.
type ViewKind int

const (
	ViewKindInvalid ViewKind = iota
	ViewKindLeftEye
	ViewKindRightEye
	ViewKindHud
	ViewKindGeneric
)

func (k ViewKind) String() string {
	switch k {
	case ViewKindLeftEye:
		return "LEFT_EYE"
	case ViewKindRightEye:
		return "RIGHT_EYE"
	case ViewKindHud:
		return "HUD"
	case ViewKindGeneric:
		return "GENERIC"
	default:
		return "INVALID"
	}
}

// ViewInfo is what NextView fills in for the engine to render into: a
// render target, its pixel dimensions, the eye (or HUD) pose already
// converted to engine coordinates, the IPD-midpoint base position, the
// field-of-view angles and clip planes.
type ViewInfo struct {
	Kind ViewKind

	RenderTarget any
	Width        int
	Height       int

	Position     mgl32.Vec3
	Orientation  mgl32.Quat
	PositionBase mgl32.Vec3

	AngleLeft, AngleRight, AngleUp, AngleDown float32
	ZNear, ZFar                               float32
}

// FloatingHud configures the optional quad HUD layer.
type FloatingHud struct {
	Enable      bool
	Size        mgl32.Vec2 // meters
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// FrameConfig is supplied to TryBeginFrame each call.
type FrameConfig struct {
	HudWidth, HudHeight int
	FloatingHud         FloatingHud
}

// InputState mirrors input.State; re-exported here so callers only ever
// import the xrsession package for the engine-facing surface.
type InputState = input.State

// SessionState mirrors oxr.SessionState for external callers that only
// want to observe it (e.g. logging, diagnostics); internally the package
// uses oxr.SessionState directly.
type SessionState = oxr.SessionState

const (
	StateIdle         = oxr.SessionStateIdle
	StateReady        = oxr.SessionStateReady
	StateSynchronized = oxr.SessionStateSynchronized
	StateVisible      = oxr.SessionStateVisible
	StateFocused       = oxr.SessionStateFocused
	StateStopping     = oxr.SessionStateStopping
	StateLossPending  = oxr.SessionStateLossPending
	StateExiting      = oxr.SessionStateExiting
)

// Pose re-exports xrmath.Pose for callers that build poses (e.g. a custom
// FloatingHud.Position/Orientation) without importing xrmath directly.
type Pose = xrmath.Pose
