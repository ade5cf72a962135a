package xrsession

import (
	"time"

	"github.com/tbogdala/xrsession/internal/oxr"
)

// Connector is the package's facade: the single type an engine's render
// loop talks to. It owns an instance and recreates it whenever the
// runtime is lost or a headset disconnects and reconnects, honoring the
// contract that no method other than NewConnector ever fails to the
// caller — every runtime hiccup after a successful NewConnector becomes
// "no frame this call", logged and retried on a timer, never an error
// return.
type Connector struct {
	newRuntime  func() oxr.Runtime
	driver      GraphicsDriver
	bindingFunc func() (oxr.GraphicsBinding, error)
	cfg         config
	logger      Logger

	inst            *instance
	instanceRetryAt time.Time

	// appReady mirrors the engine's StartXR/StopXR toggle. No frame may
	// be submitted outside StartXR/StopXR (spec.md §4.1).
	appReady bool
	// suspended is set when the runtime reaches EXITING: per spec.md §7,
	// the instance is destroyed and HandleEvents must not auto-retry
	// until the caller explicitly calls StartXR again.
	suspended bool
}

// NewConnector is the one fallible call in this package's surface: it
// creates the Instance (and its first Session) immediately, the way
// spec.md's createConnector does. bindingFunc is called once per session
// (re-)creation attempt, since CreateSession chains a fresh graphics
// binding each time; newRuntime constructs a fresh oxr.Runtime (the real
// cgo binding in production, oxrtest.Fake in tests).
func NewConnector(newRuntime func() oxr.Runtime, driver GraphicsDriver, bindingFunc func() (oxr.GraphicsBinding, error), opts ...Option) (*Connector, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &Connector{newRuntime: newRuntime, driver: driver, bindingFunc: bindingFunc, cfg: cfg, logger: cfg.logger}

	rt := newRuntime()
	inst, err := newInstance(rt, driver, bindingFunc, cfg)
	if err != nil {
		return nil, err
	}
	c.inst = inst
	return c, nil
}

// StartXR marks the app ready to render and forwards that to the live
// Instance/Session. It also lifts any EXITING-triggered suspension, so
// HandleEvents resumes automatic instance recreation — the caller may
// reinvoke StartXR after any interruption and the Connector heals
// through its retry timers (spec.md §4.1, §7).
func (c *Connector) StartXR() {
	c.appReady = true
	c.suspended = false
	c.instanceRetryAt = time.Time{}
	if c.inst != nil {
		c.inst.SetAppReady(true)
	}
}

// StopXR marks the app not ready and forwards that to the Instance. No
// frame may be submitted outside StartXR/StopXR: TryBeginFrame checks
// appReady before ever touching the Instance.
func (c *Connector) StopXR() {
	c.appReady = false
	if c.inst != nil {
		c.inst.SetAppReady(false)
	}
}

// HandleEvents drains the runtime's event queue once. Call this every
// frame before TryBeginFrame, never from inside a frame. An
// instance-level loss (runtime crash, headset unplugged mid-session)
// tears the instance down here and schedules recreation
// InstanceRetryInterval from now; a runtime EXITING tears the instance
// down and suspends recreation until the next StartXR.
func (c *Connector) HandleEvents() {
	if !c.ensureInstance() {
		return
	}
	switch c.inst.HandleEvents() {
	case eventOutcomeInstanceLost:
		c.logger.Warn("instance lost, scheduling retry", "retry_in", c.cfg.instanceRetryInterval)
		c.inst.destroy()
		c.inst = nil
		c.instanceRetryAt = time.Now().Add(c.cfg.instanceRetryInterval)
	case eventOutcomeExited:
		c.logger.Warn("runtime session exited, destroying instance; will not retry until StartXR")
		c.inst.destroy()
		c.inst = nil
		c.suspended = true
	}
}

func (c *Connector) ensureInstance() bool {
	if c.inst != nil {
		return true
	}
	if c.suspended {
		return false
	}
	if time.Now().Before(c.instanceRetryAt) {
		return false
	}
	rt := c.newRuntime()
	inst, err := newInstance(rt, c.driver, c.bindingFunc, c.cfg)
	if err != nil {
		c.logger.Warn("instance recreation failed, will retry", "err", err, "retry_in", c.cfg.instanceRetryInterval)
		c.instanceRetryAt = time.Now().Add(c.cfg.instanceRetryInterval)
		return false
	}
	inst.SetAppReady(c.appReady)
	c.inst = inst
	return true
}

// TryBeginFrame drives the begin half of the per-frame protocol. It
// never returns an error: a runtime hiccup simply yields didBegin=false
// for this call, with recovery already scheduled internally. No frame
// may begin outside StartXR/StopXR (spec.md §4.1's invariant).
func (c *Connector) TryBeginFrame(cfg FrameConfig) (didBegin bool) {
	if !c.appReady {
		return false
	}
	if !c.ensureInstance() {
		return false
	}
	return c.inst.TryBeginFrame(cfg)
}

// NextView iterates the views of a frame begun by TryBeginFrame,
// returning false once the frame has been submitted (or could not be,
// in which case recovery was already scheduled internally).
func (c *Connector) NextView(out *ViewInfo) (gotView bool) {
	if c.inst == nil {
		return false
	}
	return c.inst.NextView(out)
}

// Recenter schedules a yaw-only recenter, applied at the start of the
// next TryBeginFrame that renders. A no-op if no session is currently
// live — the next successful session picks up tracking from the
// runtime's own origin until the caller recenters again.
func (c *Connector) Recenter() {
	if c.inst != nil {
		c.inst.Recenter()
	}
}

// GetInputState returns the most recent per-frame input snapshot, or the
// zero State if no session is live.
func (c *Connector) GetInputState() InputState {
	if c.inst == nil {
		return InputState{}
	}
	return c.inst.GetInputState()
}

// HasXR reports whether a live Instance currently exists.
func (c *Connector) HasXR() bool {
	return c.inst != nil
}
