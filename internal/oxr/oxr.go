// Package oxr is the thin Go binding over the OpenXR C ABI. It declares
// the handful of calls and types the session orchestrator needs as a
// small interface (Runtime) so the orchestration packages never import
// cgo directly; the real implementation lives in runtime_cgo.go and binds
// against the system OpenXR loader via pkg-config. A scripted fake
// satisfying the same interface lives in oxr/oxrtest for use in tests
// that must not require a physical headset.
package oxr

import (
	"errors"
	"fmt"
)

// ErrSessionNotFocused is returned by Runtime.SyncActions when the
// runtime reports XR_SESSION_NOT_FOCUSED. This is an expected condition
// during focus transitions, not a failure: input.Input.Sync treats it as
// "zero the snapshot and succeed" per the input sync contract.
var ErrSessionNotFocused = errors.New("oxr: session not focused")

// Result mirrors XrResult. Negative values are failures.
type Result int32

const (
	Success               Result = 0
	TimeoutExpended       Result = 1
	SessionLossPending    Result = 3
	EventUnavailable      Result = 4
	SessionNotFocused     Result = 8
	ErrorRuntimeFailure   Result = -2
	ErrorInstanceLost     Result = -13
	ErrorFormFactorUnsup  Result = -34
	ErrorSessionNotReady  Result = -28
)

// Succeeded reports whether the result represents a non-failure code
// (includes XR_SUCCESS and positive "qualified success" codes such as
// XR_TIMEOUT_EXPIRED or XR_SESSION_LOSS_PENDING, which the caller must
// still branch on explicitly).
func (r Result) Succeeded() bool { return r >= 0 }

func (r Result) String() string {
	switch r {
	case Success:
		return "XR_SUCCESS"
	case TimeoutExpended:
		return "XR_TIMEOUT_EXPIRED"
	case SessionLossPending:
		return "XR_SESSION_LOSS_PENDING"
	case EventUnavailable:
		return "XR_EVENT_UNAVAILABLE"
	case SessionNotFocused:
		return "XR_SESSION_NOT_FOCUSED"
	case ErrorRuntimeFailure:
		return "XR_ERROR_RUNTIME_FAILURE"
	case ErrorInstanceLost:
		return "XR_ERROR_INSTANCE_LOST"
	default:
		return fmt.Sprintf("XrResult(%d)", int32(r))
	}
}

// Time mirrors XrTime: an opaque runtime-monotonic nanosecond timestamp.
type Time int64

// Vec3 mirrors XrVector3f.
type Vec3 struct{ X, Y, Z float32 }

// Quat mirrors XrQuaternionf.
type Quat struct{ X, Y, Z, W float32 }

// Posef mirrors XrPosef.
type Posef struct {
	Orientation Quat
	Position    Vec3
}

// Fovf mirrors XrFovf: four half-angles in radians.
type Fovf struct{ AngleLeft, AngleRight, AngleUp, AngleDown float32 }

// Extent2Df mirrors XrExtent2Df.
type Extent2Df struct{ Width, Height float32 }

// FormFactor mirrors XrFormFactor.
type FormFactor int32

const FormFactorHMD FormFactor = 1

// ViewConfigurationType mirrors XrViewConfigurationType.
type ViewConfigurationType int32

const ViewConfigPrimaryStereo ViewConfigurationType = 2

// ReferenceSpaceType mirrors XrReferenceSpaceType.
type ReferenceSpaceType int32

const (
	ReferenceSpaceView  ReferenceSpaceType = 1
	ReferenceSpaceLocal ReferenceSpaceType = 2
	ReferenceSpaceStage ReferenceSpaceType = 3
)

// SessionState mirrors XrSessionState.
type SessionState int32

const (
	SessionStateUnknown      SessionState = 0
	SessionStateIdle         SessionState = 1
	SessionStateReady        SessionState = 2
	SessionStateSynchronized SessionState = 3
	SessionStateVisible      SessionState = 4
	SessionStateFocused      SessionState = 5
	SessionStateStopping     SessionState = 6
	SessionStateLossPending  SessionState = 7
	SessionStateExiting      SessionState = 8
)

func (s SessionState) String() string {
	names := map[SessionState]string{
		SessionStateUnknown: "UNKNOWN", SessionStateIdle: "IDLE", SessionStateReady: "READY",
		SessionStateSynchronized: "SYNCHRONIZED", SessionStateVisible: "VISIBLE",
		SessionStateFocused: "FOCUSED", SessionStateStopping: "STOPPING",
		SessionStateLossPending: "LOSS_PENDING", SessionStateExiting: "EXITING",
	}
	if n, ok := names[s]; ok {
		return n
	}
	return "INVALID"
}

// SwapchainUsageFlags mirrors XrSwapchainUsageFlags (bitmask, only the
// two flags this driver sets are named).
type SwapchainUsageFlags uint64

const (
	SwapchainUsageColorAttachment SwapchainUsageFlags = 0x00000020
	SwapchainUsageDepthAttachment SwapchainUsageFlags = 0x00000040
)

// SwapchainFormat is a graphics-API-specific (GL) internal format token,
// e.g. GL_SRGB8_ALPHA8. Kept opaque here; xrsession picks the value with
// the constants it imports from github.com/go-gl/gl.
type SwapchainFormat int64

// EventType mirrors the subset of XrStructureType event headers this
// driver branches on.
type EventType int32

const (
	EventTypeEventsLost          EventType = 1
	EventTypeInstanceLossPending EventType = 2
	EventTypeSessionStateChanged EventType = 3
	EventTypeUnknown             EventType = 0
)

// Event is the decoded union of the event types this driver cares about.
// Runtime.PollEvent returns ok=false once the queue is drained
// (XR_EVENT_UNAVAILABLE).
type Event struct {
	Type  EventType
	State SessionState // valid when Type == EventTypeSessionStateChanged
}

// ActionType mirrors XrActionType.
type ActionType int32

const (
	ActionTypeBoolean ActionType = 1
	ActionTypeFloat   ActionType = 2
	ActionTypePose    ActionType = 4
)

// Hand indexes the two subaction paths this driver supports.
type Hand int

const (
	HandLeft Hand = iota
	HandRight
	HandCount
)

// SwapchainImage identifies one ring image by index; the GL texture name
// is retrieved separately via EnumerateSwapchainImages.
type SwapchainImage struct {
	Index   int
	GLImage uint32
}

// Runtime is the full surface of OpenXR calls the orchestrator needs.
// Exactly one concrete implementation exists in production
// (runtimeCgo, built against the real loader); tests substitute
// oxrtest.Fake.
type Runtime interface {
	// Instance lifetime.
	EnumerateInstanceExtensions() ([]string, error)
	CreateInstance(appName string, extensions []string) error
	DestroyInstance() error
	InstanceName() string

	// Event queue; ok=false means XR_EVENT_UNAVAILABLE.
	PollEvent() (Event, bool, error)

	// System / view configuration.
	GetSystem(FormFactor) error
	EnumerateViewConfigurationViews(ViewConfigurationType) ([]ViewConfigView, error)
	GetOpenGLGraphicsRequirements() (minMajor, minMinor, maxMajor, maxMinor int, err error)

	// Session.
	CreateSession(binding GraphicsBinding) error
	DestroySession() error
	BeginSession(ViewConfigurationType) error
	EndSession() error
	WaitFrame() (predictedDisplayTime Time, shouldRender bool, err error)
	BeginFrame() error
	LocateViews(displayTime Time, base SpaceHandle) (views []ViewPose, positionValid, orientationValid bool, err error)
	EndFrame(displayTime Time, layers []CompositionLayer) error

	// Spaces.
	CreateReferenceSpace(ReferenceSpaceType, Posef) (SpaceHandle, error)
	CreateActionSpace(action ActionHandle, hand Hand, poseInSpace Posef) (SpaceHandle, error)
	DestroySpace(SpaceHandle) error
	LocateSpace(space, base SpaceHandle, at Time) (pose Posef, positionValid, orientationValid bool, err error)

	// Swapchains.
	EnumerateSwapchainFormats() ([]SwapchainFormat, error)
	CreateSwapchain(usage SwapchainUsageFlags, format SwapchainFormat, w, h, samples int) (SwapchainHandle, error)
	DestroySwapchain(SwapchainHandle) error
	EnumerateSwapchainImages(SwapchainHandle) ([]SwapchainImage, error)
	AcquireSwapchainImage(SwapchainHandle) (index int, err error)
	WaitSwapchainImage(SwapchainHandle, timeoutMs int) error
	ReleaseSwapchainImage(SwapchainHandle) error

	// Input.
	CreateActionSet(name string) error
	CreateAction(name string, t ActionType, hands bool) (ActionHandle, error)
	SuggestInteractionProfileBindings(profile string, bindings []SuggestedBinding) error
	AttachSessionActionSets() error
	SyncActions() error
	GetActionStateBoolean(ActionHandle, Hand) (value, changed, active bool, err error)
	GetActionStateFloat(ActionHandle, Hand) (value float32, changed, active bool, err error)
}

// ViewConfigView is the recommended/max render target size for one eye.
type ViewConfigView struct {
	RecommendedWidth, RecommendedHeight int
	RecommendedSamples                 int
	MaxWidth, MaxHeight                int
}

// ViewPose is one entry returned by LocateViews: eye pose + FoV.
type ViewPose struct {
	Pose Posef
	Fov  Fovf
}

// GraphicsBinding is the platform-specific handle bundle CreateSession
// chains into XrSessionCreateInfo.next. Exactly one of WGLBinding (Win32)
// or GLXBinding (Xlib) is ever constructed by xrsession/glbinding,
// selected by the current video driver identity the same way
// createSession's SDL video-driver check does upstream. EGL is reserved
// for an ES-profile binding this driver does not build (see
// IOpenXRConnector.h's platform dispatch: Android/Apple are explicitly
// unsupported).
type GraphicsBinding interface{ isGraphicsBinding() }

// WGLBinding supplies the Win32 device/rendering-context pair.
type WGLBinding struct {
	HDC   uintptr
	HGLRC uintptr
}

func (WGLBinding) isGraphicsBinding() {}

// GLXBinding supplies the Xlib display/visual/config/drawable/context set.
type GLXBinding struct {
	XDisplay    uintptr
	VisualID    uint32
	GLXFBConfig uintptr
	GLXDrawable uintptr
	GLXContext  uintptr
}

func (GLXBinding) isGraphicsBinding() {}

// SpaceHandle, ActionHandle, SwapchainHandle are opaque runtime handles.
type SpaceHandle uint64
type ActionHandle uint64
type SwapchainHandle uint64

// SuggestedBinding pairs an action with an input source path
// (e.g. "/user/hand/right/input/trigger/click").
type SuggestedBinding struct {
	Action ActionHandle
	Path   string
}

// CompositionLayer is either a projection layer (stereo) or a quad layer
// (HUD); exactly one of the two payload fields is populated.
type CompositionLayer struct {
	Projection *ProjectionLayer
	Quad       *QuadLayer
}

// ProjectionLayer carries one subimage rect + pose + fov per eye, plus an
// optional prepared-but-unlinked depth info per eye (see the xrsession
// session's buildProjectionLayer for why DepthInfo exists but is never
// attached).
type ProjectionLayer struct {
	Space Space
	Views []ProjectionView
}

type ProjectionView struct {
	Pose       Posef
	Fov        Fovf
	Swapchain  SwapchainHandle
	ImageRectX, ImageRectY, ImageRectW, ImageRectH int
	DepthInfo  *DepthInfo
}

type DepthInfo struct {
	Swapchain  SwapchainHandle
	ImageRectX, ImageRectY, ImageRectW, ImageRectH int
	NearZ, FarZ float32
}

type QuadLayer struct {
	Space     Space
	Swapchain SwapchainHandle
	Pose      Posef
	Size      Extent2Df
}

// Space is a thin wrapper so CompositionLayer can reference either a
// reference space or, in principle, an action space.
type Space struct{ Handle SpaceHandle }
