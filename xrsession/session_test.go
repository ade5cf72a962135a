package xrsession

import (
	"testing"

	"github.com/tbogdala/xrsession/internal/oxr"
	"github.com/tbogdala/xrsession/internal/oxr/oxrtest"
)

func newTestSession(t *testing.T) (*session, *oxrtest.Fake, *fakeDriver) {
	t.Helper()
	rt := oxrtest.New()
	rt.ViewConfigViews = []oxr.ViewConfigView{
		{RecommendedWidth: 1024, RecommendedHeight: 1024, RecommendedSamples: 1},
		{RecommendedWidth: 1024, RecommendedHeight: 1024, RecommendedSamples: 1},
	}
	rt.SwapchainFormat = glSRGB8Alpha8
	rt.ExtraSwapchainFormats = []oxr.SwapchainFormat{glDepthComponent32F}
	rt.LocateViewsResult = []oxr.ViewPose{
		{Pose: oxr.Posef{Orientation: oxr.Quat{W: 1}, Position: oxr.Vec3{X: -0.03}}},
		{Pose: oxr.Posef{Orientation: oxr.Quat{W: 1}, Position: oxr.Vec3{X: 0.03}}},
	}

	driver := newFakeDriver()
	cfg := defaultConfig()
	cfg.logger = noopLogger{}

	s, err := newSession(rt, driver, cfg)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if err := s.init(0, 0, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	s.appReady = true
	return s, rt, driver
}

// TestNewSessionRequiresStereoViewConfig covers the construction-time
// guard that rejects anything but a 2-view configuration.
func TestNewSessionRequiresStereoViewConfig(t *testing.T) {
	rt := oxrtest.New()
	rt.ViewConfigViews = []oxr.ViewConfigView{{RecommendedWidth: 1024, RecommendedHeight: 1024}}
	cfg := defaultConfig()
	cfg.logger = noopLogger{}
	if _, err := newSession(rt, newFakeDriver(), cfg); err == nil {
		t.Fatalf("expected an error for a non-stereo view configuration")
	}
}

// TestBeginFrameNoOpWhenNotReady covers the (false,·,·) row of the frame
// table: a session not yet in READY state does nothing and reports
// didBegin=false, not an error.
func TestBeginFrameNoOpWhenNotReady(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.state = oxr.SessionStateIdle

	didBegin, err := s.TryBeginFrame(FrameConfig{})
	if err != nil {
		t.Fatalf("TryBeginFrame: %v", err)
	}
	if didBegin {
		t.Fatalf("expected didBegin=false while state is IDLE")
	}
}

// TestBeginFrameNoOpWhenAppNotReady covers the Connector-level invariant
// that no frame may be submitted outside StartXR/StopXR: a READY session
// still refuses to begin a frame while appReady is false.
func TestBeginFrameNoOpWhenAppNotReady(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.state = oxr.SessionStateReady
	s.appReady = false

	didBegin, err := s.TryBeginFrame(FrameConfig{})
	if err != nil {
		t.Fatalf("TryBeginFrame: %v", err)
	}
	if didBegin {
		t.Fatalf("expected didBegin=false while appReady is false")
	}
}

// TestSetAppReadyRefusesWhileRunning covers spec.md §4.2's set_app_ready
// contract: turning readiness off while Running is refused, signaling the
// caller (instance) to tear the session down instead of stopping in place.
func TestSetAppReadyRefusesWhileRunning(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.state = oxr.SessionStateReady
	if _, err := s.TryBeginFrame(FrameConfig{}); err != nil {
		t.Fatalf("TryBeginFrame: %v", err)
	}
	if !s.running {
		t.Fatalf("expected session to be Running")
	}

	if err := s.SetAppReady(false); err == nil {
		t.Fatalf("expected SetAppReady(false) to be refused while Running")
	}
	if s.appReady {
		t.Fatalf("expected appReady to be recorded false even when refused")
	}
}

// TestFrameLifecycleVisibleState exercises the full begin -> eye views ->
// finish cycle once the runtime reports VISIBLE, matching scenario 1
// from spec.md §8 (two eye views, no HUD).
func TestFrameLifecycleVisibleState(t *testing.T) {
	s, rt, driver := newTestSession(t)
	s.state = oxr.SessionStateReady

	didBegin, err := s.TryBeginFrame(FrameConfig{})
	if err != nil || !didBegin {
		t.Fatalf("first TryBeginFrame: didBegin=%v err=%v", didBegin, err)
	}
	if !s.running {
		t.Fatalf("expected session to be Running after the first begin")
	}

	s.state = oxr.SessionStateVisible
	didBegin, err = s.TryBeginFrame(FrameConfig{})
	if err != nil || !didBegin {
		t.Fatalf("second TryBeginFrame: didBegin=%v err=%v", didBegin, err)
	}
	if !s.shouldRender {
		t.Fatalf("expected shouldRender=true in VISIBLE state")
	}

	gotViews := 0
	var view ViewInfo
	for {
		gotView, err := s.NextView(&view)
		if err != nil {
			t.Fatalf("NextView: %v", err)
		}
		if !gotView {
			break
		}
		gotViews++
		if view.Kind != ViewKindLeftEye && view.Kind != ViewKindRightEye {
			t.Fatalf("unexpected view kind %v", view.Kind)
		}
	}
	if gotViews != 2 {
		t.Fatalf("expected exactly 2 eye views, got %d", gotViews)
	}
	if s.inFrame {
		t.Fatalf("expected inFrame=false once the view iterator is exhausted")
	}
	if driver.finishes == 0 {
		t.Fatalf("expected GLFinish to be called before swapchain release")
	}

	foundEndFrame := false
	for _, c := range rt.Calls {
		if c == "EndFrame" {
			foundEndFrame = true
		}
	}
	if !foundEndFrame {
		t.Fatalf("expected xrEndFrame to be called")
	}
}

// TestFrameLifecycleNotVisibleSkipsViews covers the (true,true,true) row
// where shouldRender is false: NextView must report no views and still
// drive EndFrame/WaitFrame to keep the protocol alive. shouldRender is
// runtime-reported data from xrWaitFrame, not derived from SessionState.
func TestFrameLifecycleNotVisibleSkipsViews(t *testing.T) {
	s, rt, _ := newTestSession(t)
	s.state = oxr.SessionStateReady
	rt.WaitFrameShouldRender = false
	if _, err := s.TryBeginFrame(FrameConfig{}); err != nil {
		t.Fatalf("first TryBeginFrame: %v", err)
	}

	s.state = oxr.SessionStateSynchronized
	if _, err := s.TryBeginFrame(FrameConfig{}); err != nil {
		t.Fatalf("second TryBeginFrame: %v", err)
	}
	if s.shouldRender {
		t.Fatalf("expected shouldRender=false once xrWaitFrame reports shouldRender=false")
	}

	var view ViewInfo
	gotView, err := s.NextView(&view)
	if err != nil {
		t.Fatalf("NextView: %v", err)
	}
	if gotView {
		t.Fatalf("expected no views while shouldRender is false")
	}
	if s.inFrame {
		t.Fatalf("expected inFrame=false after the no-render frame finishes")
	}
}

// TestBeginFrameSuppressedByInvalidViewState covers the
// POSITION_VALID_BIT/ORIENTATION_VALID_BIT gate: even with
// xrWaitFrame reporting shouldRender=true and the session VISIBLE,
// an invalid xrLocateViews result must suppress rendering for the frame.
func TestBeginFrameSuppressedByInvalidViewState(t *testing.T) {
	s, rt, _ := newTestSession(t)
	s.state = oxr.SessionStateReady
	if _, err := s.TryBeginFrame(FrameConfig{}); err != nil {
		t.Fatalf("first TryBeginFrame: %v", err)
	}

	rt.LocateViewsPositionValid = false
	s.state = oxr.SessionStateVisible
	didBegin, err := s.TryBeginFrame(FrameConfig{})
	if err != nil || !didBegin {
		t.Fatalf("second TryBeginFrame: didBegin=%v err=%v", didBegin, err)
	}
	if s.shouldRender {
		t.Fatalf("expected shouldRender=false when POSITION_VALID_BIT is unset")
	}

	var view ViewInfo
	gotView, err := s.NextView(&view)
	if err != nil {
		t.Fatalf("NextView: %v", err)
	}
	if gotView {
		t.Fatalf("expected no views while the view state is invalid")
	}
}

// TestNextViewPanicsOutsideFrame covers invariant 2: calling next_view
// without an active begin_frame is a programmer error, not a recoverable
// failure.
func TestNextViewPanicsOutsideFrame(t *testing.T) {
	s, _, _ := newTestSession(t)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic calling NextView outside an active frame")
		}
	}()
	var view ViewInfo
	s.NextView(&view)
}

// TestBeginFrameRebuildsHudOnSizeChange covers the HUD resize path in
// TryBeginFrame.
func TestBeginFrameRebuildsHudOnSizeChange(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.state = oxr.SessionStateReady
	if _, err := s.TryBeginFrame(FrameConfig{}); err != nil {
		t.Fatalf("first TryBeginFrame: %v", err)
	}

	s.state = oxr.SessionStateVisible
	didBegin, err := s.TryBeginFrame(FrameConfig{HudWidth: 512, HudHeight: 256})
	if err != nil || !didBegin {
		t.Fatalf("TryBeginFrame with HUD: didBegin=%v err=%v", didBegin, err)
	}
	if s.hud == nil || s.hudWidth() != 512 || s.hudHeight() != 256 {
		t.Fatalf("expected a 512x256 HUD chain, got %+v", s.hud)
	}
}

// TestRecenterRebuildsSpaces covers the yaw-recenter path: once scheduled,
// the next begin_frame that renders destroys and recreates PlaySpace and
// ViewSpace.
func TestRecenterRebuildsSpaces(t *testing.T) {
	s, rt, _ := newTestSession(t)
	s.state = oxr.SessionStateReady
	if _, err := s.TryBeginFrame(FrameConfig{}); err != nil {
		t.Fatalf("first TryBeginFrame: %v", err)
	}

	oldPlaySpace := s.playSpace
	s.Recenter()
	s.state = oxr.SessionStateVisible
	if _, err := s.TryBeginFrame(FrameConfig{}); err != nil {
		t.Fatalf("second TryBeginFrame: %v", err)
	}

	if s.playSpace == oldPlaySpace {
		t.Fatalf("expected PlaySpace to be recreated after a recenter")
	}
	destroyCount := 0
	for _, c := range rt.Calls {
		if c == "DestroySpace" {
			destroyCount++
		}
	}
	if destroyCount < 2 {
		t.Fatalf("expected both PlaySpace and ViewSpace to be destroyed, got %d DestroySpace calls", destroyCount)
	}
}
