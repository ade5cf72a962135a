// Package input owns the OpenXR action set: action/space creation,
// suggested interaction profile bindings, and the per-frame sync that
// produces a stable InputState snapshot for the engine to read.
package input

import "github.com/tbogdala/xrsession/xrmath"

// Button is a single boolean-ish control: click, touch, and an analog
// value in [0,1]. Unbound channels report the zero value.
type Button struct {
	Pressed bool
	Touched bool
	Value   float32
}

// InputPose is a hand-tracked pose (grip or aim) with its own validity
// flag: the runtime may stop reporting a valid pose without losing the
// action binding, e.g. when a controller briefly loses tracking.
type InputPose struct {
	Valid bool
	Pose  xrmath.Pose
}

// HandState is the per-hand snapshot: aim, grip, and the three buttons
// this driver surfaces.
type HandState struct {
	Aim    InputPose
	Grip   InputPose
	Attack Button
	Use    Button
	Menu   Button
}

// State is the full per-frame input snapshot, indexed by Hand.
type State struct {
	Hand [2]HandState
}
