package xrsession

import (
	"testing"
	"time"

	"github.com/tbogdala/xrsession/internal/oxr"
	"github.com/tbogdala/xrsession/internal/oxr/oxrtest"
)

func newTestFake() *oxrtest.Fake {
	rt := oxrtest.New()
	rt.ViewConfigViews = []oxr.ViewConfigView{
		{RecommendedWidth: 1024, RecommendedHeight: 1024, RecommendedSamples: 1},
		{RecommendedWidth: 1024, RecommendedHeight: 1024, RecommendedSamples: 1},
	}
	rt.SwapchainFormat = glSRGB8Alpha8
	rt.ExtraSwapchainFormats = []oxr.SwapchainFormat{glDepthComponent32F}
	return rt
}

func testBindingFunc() (oxr.GraphicsBinding, error) {
	return oxr.WGLBinding{}, nil
}

// TestNewConnectorSurfacesSetupFailure is the one place this package's
// surface is allowed to fail: NewConnector creates the Instance (and its
// first Session) immediately, the way spec.md's createConnector does.
func TestNewConnectorSurfacesSetupFailure(t *testing.T) {
	rt := newTestFake()
	rt.Errors["CreateInstance"] = errBoom

	_, err := NewConnector(func() oxr.Runtime { return rt }, newFakeDriver(), testBindingFunc, WithLogger(noopLogger{}))
	if err == nil {
		t.Fatalf("expected NewConnector to surface the instance creation failure")
	}
}

// TestTryBeginFrameRequiresStartXR covers spec.md §4.1's invariant that no
// frame may be submitted outside start/stop: TryBeginFrame must refuse
// before StartXR is ever called, even though the Instance/Session exist.
func TestTryBeginFrameRequiresStartXR(t *testing.T) {
	rt := newTestFake()
	conn, err := NewConnector(func() oxr.Runtime { return rt }, newFakeDriver(), testBindingFunc, WithLogger(noopLogger{}))
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}

	conn.inst.sess.state = oxr.SessionStateReady
	if didBegin := conn.TryBeginFrame(FrameConfig{}); didBegin {
		t.Fatalf("expected TryBeginFrame to refuse before StartXR")
	}

	conn.StartXR()
	if didBegin := conn.TryBeginFrame(FrameConfig{}); !didBegin {
		t.Fatalf("expected TryBeginFrame to succeed once StartXR has been called")
	}
}

// TestConnectorAbsorbsSessionRuntimeFailure covers scenario 4 from
// spec.md §8: a transient runtime failure during a frame call never
// reaches the caller as an error — it becomes didBegin=false, with
// recovery scheduled internally.
func TestConnectorAbsorbsSessionRuntimeFailure(t *testing.T) {
	rt := newTestFake()
	conn, err := NewConnector(func() oxr.Runtime { return rt }, newFakeDriver(), testBindingFunc,
		WithLogger(noopLogger{}), WithSessionRetryInterval(0))
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}
	conn.StartXR()

	conn.inst.sess.state = oxr.SessionStateReady
	if didBegin := conn.TryBeginFrame(FrameConfig{}); !didBegin {
		t.Fatalf("expected the first TryBeginFrame to succeed")
	}

	rt.Errors["BeginFrame"] = errBoom
	conn.inst.sess.state = oxr.SessionStateVisible
	if didBegin := conn.TryBeginFrame(FrameConfig{}); didBegin {
		t.Fatalf("expected didBegin=false once xrBeginFrame starts failing")
	}
	if conn.inst.sess != nil {
		t.Fatalf("expected the failing session to have been torn down")
	}

	delete(rt.Errors, "BeginFrame")
	time.Sleep(time.Millisecond)
	if didBegin := conn.TryBeginFrame(FrameConfig{}); didBegin {
		t.Fatalf("expected no frame on the same call that recreates the session (state starts IDLE again)")
	}
	if conn.inst.sess == nil {
		t.Fatalf("expected a new session to have been created on retry")
	}
}

// TestConnectorRecreatesInstanceOnInstanceLossPending covers
// instance-level loss: HandleEvents observes XR_INSTANCE_LOSS_PENDING
// and the Connector recreates the instance from scratch on the next call.
func TestConnectorRecreatesInstanceOnInstanceLossPending(t *testing.T) {
	rt := newTestFake()
	callCount := 0
	conn, err := NewConnector(func() oxr.Runtime { callCount++; return rt }, newFakeDriver(), testBindingFunc,
		WithLogger(noopLogger{}), WithInstanceRetryInterval(0))
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}
	if callCount != 1 {
		t.Fatalf("expected exactly one runtime construction after NewConnector, got %d", callCount)
	}

	rt.Events = append(rt.Events, oxr.Event{Type: oxr.EventTypeInstanceLossPending})
	conn.HandleEvents()
	if conn.inst != nil {
		t.Fatalf("expected the instance to be torn down after an instance-loss-pending event")
	}

	time.Sleep(time.Millisecond)
	conn.HandleEvents()
	if conn.inst == nil {
		t.Fatalf("expected a new instance to have been created on the next HandleEvents")
	}
	if callCount != 2 {
		t.Fatalf("expected a second runtime construction after recreation, got %d", callCount)
	}
}

// TestConnectorSurvivesEventsLost covers spec.md §4.2's explicit "EVENTS_LOST
// -> log; continue" rule: unlike INSTANCE_LOSS_PENDING, this event must
// never tear the instance down.
func TestConnectorSurvivesEventsLost(t *testing.T) {
	rt := newTestFake()
	callCount := 0
	conn, err := NewConnector(func() oxr.Runtime { callCount++; return rt }, newFakeDriver(), testBindingFunc,
		WithLogger(noopLogger{}), WithInstanceRetryInterval(0))
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}

	rt.Events = append(rt.Events, oxr.Event{Type: oxr.EventTypeEventsLost})
	conn.HandleEvents()
	if conn.inst == nil {
		t.Fatalf("expected the instance to survive an events-lost event")
	}
	if callCount != 1 {
		t.Fatalf("expected no additional runtime construction after an events-lost event, got %d", callCount)
	}
}

// TestConnectorExitingSuspendsUntilStartXR covers spec.md §7's "Runtime
// exit" error kind: an EXITING session state destroys the instance and
// the Connector must not auto-retry until the caller explicitly calls
// StartXR again, even past the normal instance retry interval.
func TestConnectorExitingSuspendsUntilStartXR(t *testing.T) {
	rt := newTestFake()
	callCount := 0
	conn, err := NewConnector(func() oxr.Runtime { callCount++; return rt }, newFakeDriver(), testBindingFunc,
		WithLogger(noopLogger{}), WithInstanceRetryInterval(0))
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}
	conn.StartXR()

	rt.Events = append(rt.Events, oxr.Event{Type: oxr.EventTypeSessionStateChanged, State: oxr.SessionStateExiting})
	conn.HandleEvents()
	if conn.inst != nil {
		t.Fatalf("expected the instance to be torn down on EXITING")
	}

	time.Sleep(time.Millisecond)
	conn.HandleEvents()
	if conn.inst != nil {
		t.Fatalf("expected no auto-retry after EXITING without an explicit StartXR")
	}
	if callCount != 1 {
		t.Fatalf("expected no additional runtime construction before StartXR, got %d", callCount)
	}

	conn.StartXR()
	conn.HandleEvents()
	if conn.inst == nil {
		t.Fatalf("expected StartXR to lift the suspension and recreate the instance")
	}
	if callCount != 2 {
		t.Fatalf("expected a second runtime construction after StartXR, got %d", callCount)
	}
}

var errBoom = &testErr{"boom"}

type testErr struct{ s string }

func (e *testErr) Error() string { return e.s }
