// Package oxrtest provides a scriptable fake satisfying oxr.Runtime, so
// the session/instance/connector state machines can be exercised without
// a physical headset or the real loader. Mirrors the shape of the fake
// video/graphics providers already used to test the render system this
// package replaces (the teacher's tests stub the graphics provider the
// same way: a recording struct with canned return values instead of a
// real GL context).
package oxrtest

import (
	"github.com/tbogdala/xrsession/internal/oxr"
)

// Fake is an in-memory oxr.Runtime. Every exported field is free to be
// mutated by a test between calls to script specific failures; every
// call is also recorded in Calls for assertions about ordering.
type Fake struct {
	Calls []string

	Extensions []string

	// Events is drained front-to-back by PollEvent; once empty,
	// PollEvent reports XR_EVENT_UNAVAILABLE.
	Events []oxr.Event

	// Errors lets a test force a specific call to fail by method name.
	Errors map[string]error

	ViewConfigViews []oxr.ViewConfigView
	SwapchainFormat oxr.SwapchainFormat
	// ExtraSwapchainFormats are appended to SwapchainFormat when a test
	// needs EnumerateSwapchainFormats to report more than one supported
	// format (e.g. distinct color and depth tokens).
	ExtraSwapchainFormats []oxr.SwapchainFormat

	// SyncActionsResult lets a test simulate XR_SESSION_NOT_FOCUSED (set
	// to that sentinel) or any other failure.
	SyncActionsResult error
	SyncActionsFocusLost bool

	BooleanActions map[oxr.ActionHandle]map[oxr.Hand]boolState
	FloatActions   map[oxr.ActionHandle]map[oxr.Hand]float32

	// LocateSpaceResults lets a test control pose/validity per (space,base).
	LocateSpaceResults map[[2]oxr.SpaceHandle]spaceLocation

	nextHandle      uint64
	destroyedSpaces map[oxr.SpaceHandle]bool
	acquiredImage   map[oxr.SwapchainHandle]int
	WaitFrameTime   oxr.Time

	// WaitFrameShouldRender scripts the runtime-reported shouldRender bit
	// xrWaitFrame returns in XrFrameState. Defaults to true so existing
	// render-path tests don't all need to opt in.
	WaitFrameShouldRender bool

	LocateViewsResult []oxr.ViewPose
	// LocateViewsPositionValid/OrientationValid script the
	// XR_VIEW_STATE_POSITION_VALID_BIT/ORIENTATION_VALID_BIT flags
	// xrLocateViews reports via XrViewState. Default to true.
	LocateViewsPositionValid    bool
	LocateViewsOrientationValid bool
}

type boolState struct {
	Value, Changed, Active bool
}

type spaceLocation struct {
	Pose                          oxr.Posef
	PositionValid, OrientValid bool
}

func New() *Fake {
	return &Fake{
		Errors:                      map[string]error{},
		BooleanActions:              map[oxr.ActionHandle]map[oxr.Hand]boolState{},
		FloatActions:                map[oxr.ActionHandle]map[oxr.Hand]float32{},
		LocateSpaceResults:          map[[2]oxr.SpaceHandle]spaceLocation{},
		destroyedSpaces:             map[oxr.SpaceHandle]bool{},
		acquiredImage:               map[oxr.SwapchainHandle]int{},
		WaitFrameShouldRender:       true,
		LocateViewsPositionValid:    true,
		LocateViewsOrientationValid: true,
	}
}

func (f *Fake) record(name string) error {
	f.Calls = append(f.Calls, name)
	return f.Errors[name]
}

func (f *Fake) alloc() uint64 {
	f.nextHandle++
	return f.nextHandle
}

func (f *Fake) EnumerateInstanceExtensions() ([]string, error) {
	if err := f.record("EnumerateInstanceExtensions"); err != nil {
		return nil, err
	}
	return f.Extensions, nil
}

func (f *Fake) CreateInstance(appName string, extensions []string) error {
	return f.record("CreateInstance")
}

func (f *Fake) DestroyInstance() error {
	return f.record("DestroyInstance")
}

func (f *Fake) InstanceName() string { return "oxrtest fake runtime" }

func (f *Fake) PollEvent() (oxr.Event, bool, error) {
	if err := f.record("PollEvent"); err != nil {
		return oxr.Event{}, false, err
	}
	if len(f.Events) == 0 {
		return oxr.Event{}, false, nil
	}
	e := f.Events[0]
	f.Events = f.Events[1:]
	return e, true, nil
}

func (f *Fake) GetSystem(oxr.FormFactor) error {
	return f.record("GetSystem")
}

func (f *Fake) EnumerateViewConfigurationViews(oxr.ViewConfigurationType) ([]oxr.ViewConfigView, error) {
	if err := f.record("EnumerateViewConfigurationViews"); err != nil {
		return nil, err
	}
	return f.ViewConfigViews, nil
}

func (f *Fake) GetOpenGLGraphicsRequirements() (int, int, int, int, error) {
	if err := f.record("GetOpenGLGraphicsRequirements"); err != nil {
		return 0, 0, 0, 0, err
	}
	return 3, 3, 4, 6, nil
}

func (f *Fake) CreateSession(oxr.GraphicsBinding) error {
	return f.record("CreateSession")
}

func (f *Fake) DestroySession() error {
	return f.record("DestroySession")
}

func (f *Fake) BeginSession(oxr.ViewConfigurationType) error {
	return f.record("BeginSession")
}

func (f *Fake) EndSession() error {
	return f.record("EndSession")
}

func (f *Fake) WaitFrame() (oxr.Time, bool, error) {
	if err := f.record("WaitFrame"); err != nil {
		return 0, false, err
	}
	f.WaitFrameTime++
	return f.WaitFrameTime, f.WaitFrameShouldRender, nil
}

func (f *Fake) BeginFrame() error {
	return f.record("BeginFrame")
}

func (f *Fake) LocateViews(oxr.Time, oxr.SpaceHandle) ([]oxr.ViewPose, bool, bool, error) {
	if err := f.record("LocateViews"); err != nil {
		return nil, false, false, err
	}
	return f.LocateViewsResult, f.LocateViewsPositionValid, f.LocateViewsOrientationValid, nil
}

func (f *Fake) EndFrame(oxr.Time, []oxr.CompositionLayer) error {
	return f.record("EndFrame")
}

func (f *Fake) CreateReferenceSpace(oxr.ReferenceSpaceType, oxr.Posef) (oxr.SpaceHandle, error) {
	if err := f.record("CreateReferenceSpace"); err != nil {
		return 0, err
	}
	return oxr.SpaceHandle(f.alloc()), nil
}

func (f *Fake) CreateActionSpace(oxr.ActionHandle, oxr.Hand, oxr.Posef) (oxr.SpaceHandle, error) {
	if err := f.record("CreateActionSpace"); err != nil {
		return 0, err
	}
	return oxr.SpaceHandle(f.alloc()), nil
}

func (f *Fake) DestroySpace(h oxr.SpaceHandle) error {
	f.destroyedSpaces[h] = true
	return f.record("DestroySpace")
}

func (f *Fake) LocateSpace(space, base oxr.SpaceHandle, at oxr.Time) (oxr.Posef, bool, bool, error) {
	if err := f.record("LocateSpace"); err != nil {
		return oxr.Posef{}, false, false, err
	}
	if loc, ok := f.LocateSpaceResults[[2]oxr.SpaceHandle{space, base}]; ok {
		return loc.Pose, loc.PositionValid, loc.OrientValid, nil
	}
	return oxr.Posef{}, true, true, nil
}

func (f *Fake) EnumerateSwapchainFormats() ([]oxr.SwapchainFormat, error) {
	if err := f.record("EnumerateSwapchainFormats"); err != nil {
		return nil, err
	}
	return append([]oxr.SwapchainFormat{f.SwapchainFormat}, f.ExtraSwapchainFormats...), nil
}

func (f *Fake) CreateSwapchain(oxr.SwapchainUsageFlags, oxr.SwapchainFormat, int, int, int) (oxr.SwapchainHandle, error) {
	if err := f.record("CreateSwapchain"); err != nil {
		return 0, err
	}
	return oxr.SwapchainHandle(f.alloc()), nil
}

func (f *Fake) DestroySwapchain(oxr.SwapchainHandle) error {
	return f.record("DestroySwapchain")
}

func (f *Fake) EnumerateSwapchainImages(oxr.SwapchainHandle) ([]oxr.SwapchainImage, error) {
	if err := f.record("EnumerateSwapchainImages"); err != nil {
		return nil, err
	}
	return []oxr.SwapchainImage{{Index: 0, GLImage: 1}, {Index: 1, GLImage: 2}}, nil
}

func (f *Fake) AcquireSwapchainImage(h oxr.SwapchainHandle) (int, error) {
	if err := f.record("AcquireSwapchainImage"); err != nil {
		return 0, err
	}
	idx := f.acquiredImage[h]
	f.acquiredImage[h] = (idx + 1) % 2
	return idx, nil
}

func (f *Fake) WaitSwapchainImage(oxr.SwapchainHandle, int) error {
	return f.record("WaitSwapchainImage")
}

func (f *Fake) ReleaseSwapchainImage(oxr.SwapchainHandle) error {
	return f.record("ReleaseSwapchainImage")
}

func (f *Fake) CreateActionSet(string) error {
	return f.record("CreateActionSet")
}

func (f *Fake) CreateAction(name string, t oxr.ActionType, hands bool) (oxr.ActionHandle, error) {
	if err := f.record("CreateAction"); err != nil {
		return 0, err
	}
	h := oxr.ActionHandle(f.alloc())
	f.BooleanActions[h] = map[oxr.Hand]boolState{}
	f.FloatActions[h] = map[oxr.Hand]float32{}
	return h, nil
}

func (f *Fake) SuggestInteractionProfileBindings(string, []oxr.SuggestedBinding) error {
	return f.record("SuggestInteractionProfileBindings")
}

func (f *Fake) AttachSessionActionSets() error {
	return f.record("AttachSessionActionSets")
}

func (f *Fake) SyncActions() error {
	if err := f.record("SyncActions"); err != nil {
		return err
	}
	if f.SyncActionsFocusLost {
		return oxr.ErrSessionNotFocused
	}
	return f.SyncActionsResult
}

// SetBoolean scripts the value GetActionStateBoolean returns for a given
// action/hand pair.
func (f *Fake) SetBoolean(h oxr.ActionHandle, hand oxr.Hand, value, changed, active bool) {
	if f.BooleanActions[h] == nil {
		f.BooleanActions[h] = map[oxr.Hand]boolState{}
	}
	f.BooleanActions[h][hand] = boolState{value, changed, active}
}

// SetFloat scripts the value GetActionStateFloat returns for a given
// action/hand pair.
func (f *Fake) SetFloat(h oxr.ActionHandle, hand oxr.Hand, value float32) {
	if f.FloatActions[h] == nil {
		f.FloatActions[h] = map[oxr.Hand]float32{}
	}
	f.FloatActions[h][hand] = value
}

func (f *Fake) GetActionStateBoolean(h oxr.ActionHandle, hand oxr.Hand) (bool, bool, bool, error) {
	if err := f.record("GetActionStateBoolean"); err != nil {
		return false, false, false, err
	}
	s := f.BooleanActions[h][hand]
	return s.Value, s.Changed, s.Active, nil
}

func (f *Fake) GetActionStateFloat(h oxr.ActionHandle, hand oxr.Hand) (float32, bool, bool, error) {
	if err := f.record("GetActionStateFloat"); err != nil {
		return 0, false, false, err
	}
	return f.FloatActions[h][hand], true, true, nil
}
