package xrsession

import "fmt"

// SetupError is returned from NewConnector when instance or session
// construction cannot proceed: a missing required extension, an
// unsupported form factor, or an incompatible graphics API version.
// Matches spec.md §7's "Setup error" kind, which upstream surfaces as a
// null Connector pointer; here it is an explicit error value instead.
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string { return fmt.Sprintf("xrsession: setup failed at %s: %v", e.Op, e.Err) }
func (e *SetupError) Unwrap() error { return e.Err }

// RuntimeError wraps a failing OpenXR call. It is logged, never returned
// to the engine directly — a RuntimeError always results in the owning
// Session or Instance tearing itself down and scheduling a retry, per the
// "Transient runtime failure" / "Instance loss" error kinds.
type RuntimeError struct {
	Func string
	Err  error
}

func (e *RuntimeError) Error() string { return fmt.Sprintf("xrsession: %s failed: %v", e.Func, e.Err) }
func (e *RuntimeError) Unwrap() error { return e.Err }

// errAppNotReadyWhileRunning is returned by session.SetAppReady when the
// app signals it is no longer ready while the session is Running: the
// Session refuses the in-place transition, per spec.md §4.2, and the
// owning Instance tears it down and schedules a retry instead.
var errAppNotReadyWhileRunning = fmt.Errorf("xrsession: app not ready while session running")
