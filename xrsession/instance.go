package xrsession

import (
	"time"

	"github.com/tbogdala/xrsession/internal/oxr"
)

// instance owns the XR instance handle and the single session it cycles
// through: it absorbs every session-level RuntimeError by tearing the
// session down and scheduling a retry, so nothing above it ever sees a
// transient runtime failure as an error value. An XR_INSTANCE_LOSS_PENDING
// event or a deliberate runtime EXITING is reported upward instead — only
// the Connector is allowed to recreate an instance. A call failing with
// XR_ERROR_INSTANCE_LOST is handled like any other session failure.
type instance struct {
	rt          oxr.Runtime
	driver      GraphicsDriver
	bindingFunc func() (oxr.GraphicsBinding, error)
	cfg         config
	logger      Logger

	sess           *session
	sessionRetryAt time.Time
	appReady       bool
}

// eventOutcome is HandleEvents's report to the Connector: what, if
// anything, happened at the instance level this call.
type eventOutcome int

const (
	// eventOutcomeNone means the event queue drained with nothing the
	// Connector needs to react to.
	eventOutcomeNone eventOutcome = iota
	// eventOutcomeInstanceLost means XR_INSTANCE_LOSS_PENDING fired: the
	// Connector tears the instance down and retries on the normal
	// InstanceRetryInterval cadence.
	eventOutcomeInstanceLost
	// eventOutcomeExited means the session reached EXITING: the
	// Connector tears the instance down and must NOT auto-retry until
	// the caller explicitly calls StartXR again (spec.md §7).
	eventOutcomeExited
)

// newInstance creates the XR instance and its first session. bindingFunc
// is called once per session (re-)creation attempt, since CreateSession
// chains a fresh graphics binding each time.
func newInstance(rt oxr.Runtime, driver GraphicsDriver, bindingFunc func() (oxr.GraphicsBinding, error), cfg config) (*instance, error) {
	ext, err := rt.EnumerateInstanceExtensions()
	if err != nil {
		return nil, &SetupError{"xrEnumerateInstanceExtensionProperties", err}
	}
	if err := rt.CreateInstance(cfg.appName, ext); err != nil {
		return nil, &SetupError{"xrCreateInstance", err}
	}

	inst := &instance{rt: rt, driver: driver, bindingFunc: bindingFunc, cfg: cfg, logger: cfg.logger}
	if err := inst.createSession(); err != nil {
		rt.DestroyInstance()
		return nil, err
	}
	return inst, nil
}

func (inst *instance) createSession() error {
	sess, err := newSession(inst.rt, inst.driver, inst.cfg)
	if err != nil {
		return err
	}

	binding, err := inst.bindingFunc()
	if err != nil {
		inst.driver.Drop()
		return &SetupError{"graphics binding", err}
	}
	if err := inst.rt.CreateSession(binding); err != nil {
		inst.driver.Drop()
		return &SetupError{"xrCreateSession", err}
	}

	if err := sess.init(0, 0, inst.cfg.roomScale); err != nil {
		inst.rt.DestroySession()
		return err
	}
	sess.SetAppReady(inst.appReady)
	inst.sess = sess
	return nil
}

// SetAppReady fans the Connector-level start_xr/stop_xr toggle out to the
// live Session, if any. If the Session refuses (it is Running and the app
// is no longer ready), this invalidates it via teardownSession — the
// cleanest portable path to "stop" given runtime ambiguities (spec.md
// §4.2). appReady is remembered regardless, so a freshly (re)created
// session picks up the current toggle.
func (inst *instance) SetAppReady(ready bool) {
	inst.appReady = ready
	if inst.sess == nil {
		return
	}
	if err := inst.sess.SetAppReady(ready); err != nil {
		inst.teardownSession(err)
	}
}

// teardownSession destroys the live session (if any) and schedules the
// next creation attempt SessionRetryInterval from now, matching scenario
// 4 from spec.md §8 (Instance-level method returns success with
// didBegin=false; Session destroyed; retry scheduled 5s later).
func (inst *instance) teardownSession(reason error) {
	inst.logger.Warn("session torn down, scheduling retry", "err", reason, "retry_in", inst.cfg.sessionRetryInterval)
	if inst.sess != nil {
		inst.sess.destroy()
		inst.sess = nil
	}
	inst.sessionRetryAt = time.Now().Add(inst.cfg.sessionRetryInterval)
}

// ensureSession attempts to (re-)create the session if none is live and
// the retry interval has elapsed. Returns false without error when a
// retry is not yet due — the caller treats this identically to "no frame
// this call".
func (inst *instance) ensureSession() bool {
	if inst.sess != nil {
		return true
	}
	if time.Now().Before(inst.sessionRetryAt) {
		return false
	}
	if err := inst.createSession(); err != nil {
		inst.logger.Warn("session (re)creation failed, will retry", "err", err, "retry_in", inst.cfg.sessionRetryInterval)
		inst.sessionRetryAt = time.Now().Add(inst.cfg.sessionRetryInterval)
		return false
	}
	return true
}

// HandleEvents drains the event queue, per spec.md §4.2:
//   - EVENTS_LOST: logged and skipped, the instance stays live.
//   - INSTANCE_LOSS_PENDING: reported as eventOutcomeInstanceLost, the
//     one condition the Connector (not this type) reacts to by
//     recreating the instance from scratch on the normal retry cadence.
//   - SESSION_STATE_CHANGED: forwarded to the Session; if the new state
//     is EXITING, reported as eventOutcomeExited (this terminates the
//     instance, since runtimes disagree on whether xrEndSession can be
//     called unconditionally at that point).
func (inst *instance) HandleEvents() eventOutcome {
	for {
		ev, ok, err := inst.rt.PollEvent()
		if err != nil {
			inst.logger.Warn("xrPollEvent failed", "err", err)
			return eventOutcomeNone
		}
		if !ok {
			return eventOutcomeNone
		}
		switch ev.Type {
		case oxr.EventTypeEventsLost:
			inst.logger.Warn("xr events lost")
		case oxr.EventTypeInstanceLossPending:
			return eventOutcomeInstanceLost
		case oxr.EventTypeSessionStateChanged:
			if inst.sess == nil {
				continue
			}
			if err := inst.sess.HandleStateChanged(ev.State); err != nil {
				inst.teardownSession(err)
				continue
			}
			if ev.State == oxr.SessionStateExiting {
				return eventOutcomeExited
			}
		}
	}
}

// TryBeginFrame delegates to the live session, absorbing any
// RuntimeError by tearing the session down and reporting "no frame this
// call" instead.
func (inst *instance) TryBeginFrame(cfg FrameConfig) bool {
	if !inst.ensureSession() {
		return false
	}
	didBegin, err := inst.sess.TryBeginFrame(cfg)
	if err != nil {
		inst.teardownSession(err)
		return false
	}
	return didBegin
}

// NextView delegates to the live session with the same absorb-and-retry
// contract as TryBeginFrame.
func (inst *instance) NextView(out *ViewInfo) bool {
	if inst.sess == nil {
		return false
	}
	gotView, err := inst.sess.NextView(out)
	if err != nil {
		inst.teardownSession(err)
		return false
	}
	return gotView
}

// Recenter schedules a yaw recenter on the live session, if any; a
// missing session makes this a no-op, matching the "no method fails
// after successful construction" contract.
func (inst *instance) Recenter() {
	if inst.sess != nil {
		inst.sess.Recenter()
	}
}

// GetInputState returns the zero State when no session is live.
func (inst *instance) GetInputState() InputState {
	if inst.sess == nil {
		return InputState{}
	}
	return inst.sess.GetInputState()
}

func (inst *instance) destroy() {
	if inst.sess != nil {
		inst.sess.destroy()
		inst.sess = nil
	}
	inst.rt.DestroyInstance()
}
