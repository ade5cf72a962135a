package xrsession

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tbogdala/xrsession/internal/oxr"
	"github.com/tbogdala/xrsession/xrmath"
	"github.com/tbogdala/xrsession/xrsession/input"
	"github.com/tbogdala/xrsession/xrsession/swapchain"
)

const (
	nearClip = 0.05
	farClip  = 1000.0

	// hudSampleCount is fixed at 1 (no multisampling) per spec.md §4.3.1.
	hudSampleCount = 1
)

// identityPosef is the zero-translation, zero-rotation Posef reference
// spaces are anchored at before any recenter offset is applied.
var identityPosef = oxr.Posef{Orientation: oxr.Quat{W: 1}}

// toPosef converts an xrmath.Pose (engine convention) into the runtime's
// Posef. PlaySpaceOffset is expressed directly in runtime space (it is
// built from a runtime LocateSpace result), so this is a field copy, not
// a FromRuntime/ToRuntime coordinate flip.
func toPosef(p xrmath.Pose) oxr.Posef {
	return oxr.Posef{
		Position:    oxr.Vec3{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]},
		Orientation: oxr.Quat{X: p.Orientation.V[0], Y: p.Orientation.V[1], Z: p.Orientation.V[2], W: p.Orientation.W},
	}
}

// session is the frame state machine: C3 in the component table. Owns
// reference spaces, per-view swapchain pairs, composition layer
// templates, Input, and the yaw-recenter offset. Exactly one lives inside
// an instance at a time, recreated whenever the runtime invalidates it.
type session struct {
	rt     oxr.Runtime
	driver GraphicsDriver
	logger Logger
	cfg    config

	state oxr.SessionState

	// Frame-in-flight invariant bits (spec.md invariants 2-3).
	running      bool
	didWaitFrame bool
	inFrame      bool

	// appReady mirrors the Connector-level StartXR/StopXR toggle (spec.md
	// §4.1/§4.2): begin_frame never starts a session while it is false.
	appReady bool

	predictedDisplayTime oxr.Time
	frameCount           uint64
	// runtimeShouldRender mirrors XrFrameState.shouldRender from the most
	// recent xrWaitFrame; begin_frame further ANDs it with the
	// POSITION_VALID_BIT/ORIENTATION_VALID_BIT flags xrLocateViews reports.
	runtimeShouldRender bool

	basePlaySpace   oxr.SpaceHandle
	playSpace       oxr.SpaceHandle
	viewSpace       oxr.SpaceHandle
	playSpaceOffset xrmath.Pose
	doRecenter      bool
	refSpaceType    oxr.ReferenceSpaceType

	colorFormat oxr.SwapchainFormat
	depthFormat oxr.SwapchainFormat
	viewConfig  []oxr.ViewConfigView
	viewChains  []*viewChain
	hud         *hudChainT

	in *input.Input

	// per-frame iteration state, valid only while inFrame.
	frameCfg     FrameConfig
	shouldRender bool
	currentViews []oxr.ViewPose
	viewCenter   mgl32.Vec3
	viewIndex    int
	hudEmitted   bool
	acquiredHud  bool
}

// viewChain is one eye's color+depth swapchain pair.
type viewChain struct {
	color *swapchain.Chain
	depth *swapchain.Chain
}

type hudChainT struct {
	color         *swapchain.Chain
	width, height int
}

func newSession(rt oxr.Runtime, driver GraphicsDriver, cfg config) (*session, error) {
	s := &session{rt: rt, driver: driver, logger: cfg.logger, cfg: cfg}

	if err := rt.GetSystem(oxr.FormFactorHMD); err != nil {
		return nil, &SetupError{"xrGetSystem", err}
	}

	views, err := rt.EnumerateViewConfigurationViews(oxr.ViewConfigPrimaryStereo)
	if err != nil {
		return nil, &SetupError{"xrEnumerateViewConfigurationViews", err}
	}
	if len(views) != 2 {
		return nil, &SetupError{"xrEnumerateViewConfigurationViews", fmt.Errorf("expected a stereo (2-view) configuration, got %d views", len(views))}
	}
	s.viewConfig = views

	minMaj, minMin, maxMaj, maxMin, err := rt.GetOpenGLGraphicsRequirements()
	if err != nil {
		return nil, &SetupError{"xrGetOpenGLGraphicsRequirementsKHR", err}
	}
	s.logger.Info("openxr graphics requirements", "min", fmt.Sprintf("%d.%d", minMaj, minMin), "max", fmt.Sprintf("%d.%d", maxMaj, maxMin))

	driver.Grab()
	return s, nil
}

// init finishes construction after CreateSession has succeeded: spaces,
// swapchains, HUD chain, input. Split from newSession because
// CreateSession needs a graphics binding the caller (instance) supplies
// after the platform driver check.
func (s *session) init(hudWidth, hudHeight int, roomScale bool) error {
	s.refSpaceType = oxr.ReferenceSpaceLocal
	if roomScale {
		s.refSpaceType = oxr.ReferenceSpaceStage
	}

	var err error
	s.basePlaySpace, err = s.rt.CreateReferenceSpace(s.refSpaceType, identityPosef)
	if err != nil {
		return &SetupError{"xrCreateReferenceSpace(BasePlaySpace)", err}
	}
	s.playSpace, err = s.rt.CreateReferenceSpace(s.refSpaceType, identityPosef)
	if err != nil {
		return &SetupError{"xrCreateReferenceSpace(PlaySpace)", err}
	}
	s.viewSpace, err = s.rt.CreateReferenceSpace(oxr.ReferenceSpaceView, identityPosef)
	if err != nil {
		return &SetupError{"xrCreateReferenceSpace(ViewSpace)", err}
	}

	formats, err := s.rt.EnumerateSwapchainFormats()
	if err != nil {
		return &SetupError{"xrEnumerateSwapchainFormats", err}
	}
	s.colorFormat, s.depthFormat, err = pickFormats(formats)
	if err != nil {
		return &SetupError{"pickFormats", err}
	}

	for _, vcv := range s.viewConfig {
		vc, err := s.buildViewChain(vcv)
		if err != nil {
			return &SetupError{"buildViewChain", err}
		}
		s.viewChains = append(s.viewChains, vc)
	}

	if err := s.rebuildHud(hudWidth, hudHeight); err != nil {
		return &SetupError{"rebuildHud", err}
	}

	s.in, err = input.New(s.rt, nil)
	if err != nil {
		return &SetupError{"input.New", err}
	}
	if err := s.in.AttachToSession(); err != nil {
		return &SetupError{"AttachSessionActionSets", err}
	}

	return nil
}

func (s *session) buildViewChain(vcv oxr.ViewConfigView) (*viewChain, error) {
	makeTarget := func(glName uint32, w, h int, isDepth bool) (any, error) {
		t, err := s.driver.UseDeviceDependentTexture(glName, isDepth, w, h)
		if err != nil {
			return nil, err
		}
		s.driver.AddRenderTarget(t)
		return t, nil
	}
	release := func(t any) { s.driver.RemoveRenderTarget(t) }

	color, err := swapchain.Create(s.rt, oxr.SwapchainUsageColorAttachment, s.colorFormat,
		vcv.RecommendedWidth, vcv.RecommendedHeight, vcv.RecommendedSamples, false, makeTarget, release)
	if err != nil {
		return nil, fmt.Errorf("color swapchain: %w", err)
	}
	depth, err := swapchain.Create(s.rt, oxr.SwapchainUsageDepthAttachment, s.depthFormat,
		vcv.RecommendedWidth, vcv.RecommendedHeight, vcv.RecommendedSamples, true, makeTarget, release)
	if err != nil {
		color.Destroy()
		return nil, fmt.Errorf("depth swapchain: %w", err)
	}
	return &viewChain{color: color, depth: depth}, nil
}

// rebuildHud tears down the existing HUD chain (if any) and builds a new
// one at width x height, sample count 1, per spec.md's HUD resize rule.
func (s *session) rebuildHud(width, height int) error {
	if s.hud != nil {
		if err := s.hud.color.Destroy(); err != nil {
			return err
		}
		s.hud = nil
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	makeTarget := func(glName uint32, w, h int, isDepth bool) (any, error) {
		t, err := s.driver.UseDeviceDependentTexture(glName, isDepth, w, h)
		if err != nil {
			return nil, err
		}
		s.driver.AddRenderTarget(t)
		return t, nil
	}
	release := func(t any) { s.driver.RemoveRenderTarget(t) }

	color, err := swapchain.Create(s.rt, oxr.SwapchainUsageColorAttachment, s.colorFormat, width, height, hudSampleCount, false, makeTarget, release)
	if err != nil {
		return err
	}
	s.hud = &hudChainT{color: color, width: width, height: height}
	return nil
}

func pickFormats(available []oxr.SwapchainFormat) (color, depth oxr.SwapchainFormat, err error) {
	// Preferences are GL internal format tokens the caller resolves from
	// github.com/go-gl/gl; picked by ordinal preference the same way
	// setupViewChains prefers SRGB8_ALPHA8/DEPTH_COMPONENT32F upstream.
	colorPreference := []oxr.SwapchainFormat{glSRGB8Alpha8, glRGBA8}
	depthPreference := []oxr.SwapchainFormat{glDepthComponent32F, glDepthComponent24}

	pick := func(prefs []oxr.SwapchainFormat) (oxr.SwapchainFormat, bool) {
		for _, want := range prefs {
			for _, have := range available {
				if have == want {
					return want, true
				}
			}
		}
		return 0, false
	}

	color, ok := pick(colorPreference)
	if !ok {
		return 0, 0, fmt.Errorf("no supported color swapchain format (wanted SRGB8_ALPHA8 or RGBA8)")
	}
	depth, ok = pick(depthPreference)
	if !ok {
		return 0, 0, fmt.Errorf("no supported depth swapchain format (wanted DEPTH_COMPONENT32F or DEPTH_COMPONENT24)")
	}
	return color, depth, nil
}

// TryBeginFrame drives the frame protocol's begin half. Returns
// (didBegin, err); err is always a *RuntimeError indicating the caller
// (instance) must destroy this session and schedule a retry — a
// transient runtime failure never reaches the engine as an error value
// per the Connector contract.
func (s *session) TryBeginFrame(cfg FrameConfig) (bool, error) {
	if !s.running {
		if !s.appReady || s.state != oxr.SessionStateReady {
			return false, nil
		}
		if err := s.rt.BeginSession(oxr.ViewConfigPrimaryStereo); err != nil {
			return false, &RuntimeError{"xrBeginSession", err}
		}
		predicted, shouldRender, err := s.rt.WaitFrame()
		if err != nil {
			return false, &RuntimeError{"xrWaitFrame", err}
		}
		s.predictedDisplayTime = predicted
		s.runtimeShouldRender = shouldRender
		s.running = true
		s.didWaitFrame = true
		s.inFrame = false
		if err := s.syncInput(); err != nil {
			return false, err
		}
		return true, nil
	}

	if !s.didWaitFrame {
		panic("xrsession: begin_frame called without a pending xrWaitFrame")
	}
	if s.inFrame {
		panic("xrsession: begin_frame called while a frame is already in flight")
	}

	if cfg.HudWidth != s.hudWidth() || cfg.HudHeight != s.hudHeight() {
		if err := s.rebuildHud(cfg.HudWidth, cfg.HudHeight); err != nil {
			return false, &RuntimeError{"rebuildHud", err}
		}
	}

	if err := s.rt.BeginFrame(); err != nil {
		return false, &RuntimeError{"xrBeginFrame", err}
	}
	s.inFrame = true
	s.frameCfg = cfg
	s.viewIndex = 0
	s.hudEmitted = false
	s.acquiredHud = false

	// shouldRender starts from the runtime-reported bit in XrFrameState
	// (set by the preceding xrWaitFrame), not from SessionState; recenter
	// gates on that bit alone, matching internalBeginFrame's ordering.
	s.shouldRender = s.runtimeShouldRender
	if s.doRecenter && s.shouldRender {
		if err := s.recenterNow(); err != nil {
			s.logger.Warn("recenter failed, keeping previous offset", "err", err)
		}
		s.doRecenter = false
	}

	if s.shouldRender {
		views, positionValid, orientationValid, err := s.rt.LocateViews(s.predictedDisplayTime, s.viewSpace)
		if err != nil {
			return false, &RuntimeError{"xrLocateViews", err}
		}
		// XR_VIEW_STATE_POSITION_VALID_BIT / ORIENTATION_VALID_BIT can
		// clear shouldRender even when xrWaitFrame reported it true.
		if !positionValid || !orientationValid {
			s.shouldRender = false
		}
		s.currentViews = views
		s.viewCenter = computeViewCenter(views)
	} else {
		s.currentViews = nil
	}

	return true, nil
}

func (s *session) hudWidth() int {
	if s.hud == nil {
		return 0
	}
	return s.hud.width
}

func (s *session) hudHeight() int {
	if s.hud == nil {
		return 0
	}
	return s.hud.height
}

// NextView drives the per-frame view iterator. Returns (gotView, err);
// like TryBeginFrame, err signals the caller must tear the session down.
func (s *session) NextView(out *ViewInfo) (bool, error) {
	if !s.inFrame {
		panic("xrsession: next_view called outside an active frame")
	}

	if !s.shouldRender {
		return false, s.finishFrame()
	}

	eyeCount := len(s.currentViews)
	if s.viewIndex < eyeCount {
		return s.emitEyeView(out)
	}

	if s.frameCfg.FloatingHud.Enable && !s.hudEmitted && s.hud != nil {
		s.hudEmitted = true
		return s.emitHudView(out)
	}

	return false, s.finishFrame()
}

func (s *session) emitEyeView(out *ViewInfo) (bool, error) {
	i := s.viewIndex
	vc := s.viewChains[i]

	colorTarget, err := vc.color.AcquireAndWait()
	if err != nil {
		return false, &RuntimeError{"color AcquireAndWait", err}
	}
	if _, err := vc.depth.AcquireAndWait(); err != nil {
		return false, &RuntimeError{"depth AcquireAndWait", err}
	}

	view := s.currentViews[i]
	pos := mgl32.Vec3{view.Pose.Position.X, view.Pose.Position.Y, view.Pose.Position.Z}
	orient := mgl32.Quat{W: view.Pose.Orientation.W, V: mgl32.Vec3{view.Pose.Orientation.X, view.Pose.Orientation.Y, view.Pose.Orientation.Z}}

	var kind ViewKind
	var converted xrmath.Pose
	if i == 0 {
		kind = ViewKindLeftEye
		converted = xrmath.FromRuntime(pos, orient)
	} else {
		kind = ViewKindRightEye
		converted = xrmath.RightEyeOrientation(pos, orient)
	}

	out.Kind = kind
	out.RenderTarget = colorTarget
	out.Width = vc.color.Width()
	out.Height = vc.color.Height()
	out.Position = converted.Position
	out.Orientation = converted.Orientation
	out.PositionBase = s.viewCenter
	out.AngleLeft = view.Fov.AngleLeft
	out.AngleRight = view.Fov.AngleRight
	out.AngleUp = view.Fov.AngleUp
	out.AngleDown = view.Fov.AngleDown
	out.ZNear = nearClip
	out.ZFar = farClip

	s.viewIndex++
	return true, nil
}

func (s *session) emitHudView(out *ViewInfo) (bool, error) {
	target, err := s.hud.color.AcquireAndWait()
	if err != nil {
		return false, &RuntimeError{"hud AcquireAndWait", err}
	}
	s.acquiredHud = true

	*out = ViewInfo{
		Kind:         ViewKindHud,
		RenderTarget: target,
		Width:        s.hud.width,
		Height:       s.hud.height,
		Orientation:  mgl32.QuatIdent(),
	}
	s.viewIndex++
	return true, nil
}

// finishFrame releases every acquired swapchain (eyes in ascending
// order, then HUD), builds the layer list, submits xrEndFrame, and
// immediately issues the next xrWaitFrame + input sync so the driver
// overlaps CPU/GPU work with the runtime, matching
// internalNextView's final branch.
func (s *session) finishFrame() error {
	var layers []oxr.CompositionLayer

	if s.shouldRender {
		for _, vc := range s.viewChains {
			if err := vc.color.Release(s.driver.GLFinish); err != nil {
				return &RuntimeError{"color Release", err}
			}
			if err := vc.depth.Release(func() {}); err != nil {
				return &RuntimeError{"depth Release", err}
			}
		}
		if s.acquiredHud {
			if err := s.hud.color.Release(s.driver.GLFinish); err != nil {
				return &RuntimeError{"hud Release", err}
			}
		}
		layers = append(layers, oxr.CompositionLayer{Projection: s.buildProjectionLayer()})
		if s.frameCfg.FloatingHud.Enable && s.hud != nil {
			layers = append(layers, oxr.CompositionLayer{Quad: s.buildQuadLayer()})
		}
	}

	if err := s.rt.EndFrame(s.predictedDisplayTime, layers); err != nil {
		return &RuntimeError{"xrEndFrame", err}
	}
	s.frameCount++
	s.inFrame = false

	predicted, shouldRender, err := s.rt.WaitFrame()
	if err != nil {
		return &RuntimeError{"xrWaitFrame", err}
	}
	s.predictedDisplayTime = predicted
	s.runtimeShouldRender = shouldRender
	s.didWaitFrame = true

	return s.syncInput()
}

func (s *session) buildProjectionLayer() *oxr.ProjectionLayer {
	views := make([]oxr.ProjectionView, len(s.viewChains))
	for i, vc := range s.viewChains {
		rv := s.currentViews[i]
		views[i] = oxr.ProjectionView{
			Pose:       rv.Pose,
			Fov:        rv.Fov,
			Swapchain:  vc.color.Handle(),
			ImageRectW: vc.color.Width(),
			ImageRectH: vc.color.Height(),
			// DepthInfo is prepared (populated) but never attached via
			// `.next` by the oxr package's EndFrame — a shipped quirk
			// this driver preserves rather than fixes. See an open
			// design note.
			DepthInfo: &oxr.DepthInfo{
				Swapchain:  vc.depth.Handle(),
				ImageRectW: vc.depth.Width(),
				ImageRectH: vc.depth.Height(),
				NearZ:      nearClip,
				FarZ:       farClip,
			},
		}
	}
	return &oxr.ProjectionLayer{Space: oxr.Space{Handle: s.playSpace}, Views: views}
}

func (s *session) buildQuadLayer() *oxr.QuadLayer {
	hud := s.frameCfg.FloatingHud
	return &oxr.QuadLayer{
		Space:     oxr.Space{Handle: s.playSpace},
		Swapchain: s.hud.color.Handle(),
		Pose: oxr.Posef{
			Position:    oxr.Vec3{X: hud.Position[0], Y: hud.Position[1], Z: hud.Position[2]},
			Orientation: oxr.Quat{X: hud.Orientation.V[0], Y: hud.Orientation.V[1], Z: hud.Orientation.V[2], W: hud.Orientation.W},
		},
		Size: oxr.Extent2Df{Width: hud.Size[0], Height: hud.Size[1]},
	}
}

// computeViewCenter returns the IPD midpoint of the given eye positions,
// falling back to a single eye's position or the origin when fewer than
// two views are available (spec.md §4.3.2's 0/1/2-eye cases).
func computeViewCenter(views []oxr.ViewPose) mgl32.Vec3 {
	switch len(views) {
	case 0:
		return mgl32.Vec3{0, 0, 0}
	case 1:
		p := views[0].Pose.Position
		return mgl32.Vec3{p.X, p.Y, p.Z}
	default:
		a, b := views[0].Pose.Position, views[1].Pose.Position
		return mgl32.Vec3{(a.X + b.X) / 2, (a.Y + b.Y) / 2, (a.Z + b.Z) / 2}
	}
}

// recenterNow implements the yaw-only recenter algorithm: locate
// ViewSpace in BasePlaySpace, extract yaw, rebuild PlaySpace and
// ViewSpace with the new offset. Silently skips if the location isn't
// valid yet (e.g. tracking not settled).
func (s *session) recenterNow() error {
	pose, posValid, orientValid, err := s.rt.LocateSpace(s.viewSpace, s.basePlaySpace, s.predictedDisplayTime)
	if err != nil {
		return fmt.Errorf("xrLocateSpace(ViewSpace in BasePlaySpace): %w", err)
	}
	if !posValid || !orientValid {
		return nil
	}

	orient := mgl32.Quat{W: pose.Orientation.W, V: mgl32.Vec3{pose.Orientation.X, pose.Orientation.Y, pose.Orientation.Z}}
	yaw := xrmath.Yaw(orient)
	position := mgl32.Vec3{pose.Position.X, pose.Position.Y, pose.Position.Z}
	offset := xrmath.YawPose(position, yaw)

	if err := s.rt.DestroySpace(s.playSpace); err != nil {
		return fmt.Errorf("DestroySpace(PlaySpace): %w", err)
	}
	if err := s.rt.DestroySpace(s.viewSpace); err != nil {
		return fmt.Errorf("DestroySpace(ViewSpace): %w", err)
	}

	offsetPosef := toPosef(offset)
	s.playSpace, err = s.rt.CreateReferenceSpace(s.refSpaceType, offsetPosef)
	if err != nil {
		return fmt.Errorf("CreateReferenceSpace(PlaySpace): %w", err)
	}
	s.viewSpace, err = s.rt.CreateReferenceSpace(oxr.ReferenceSpaceView, offsetPosef)
	if err != nil {
		return fmt.Errorf("CreateReferenceSpace(ViewSpace): %w", err)
	}
	s.playSpaceOffset = offset
	return nil
}

// Recenter schedules a yaw recenter to be applied by the next begin_frame
// whose xrWaitFrame reported shouldRender, matching the Connector-level
// recenter() contract.
func (s *session) Recenter() { s.doRecenter = true }

func (s *session) syncInput() error {
	if err := s.in.Sync(s.playSpace, s.predictedDisplayTime); err != nil {
		return &RuntimeError{"input.Sync", err}
	}
	return nil
}

// GetInputState returns the last-synced snapshot.
func (s *session) GetInputState() InputState {
	return s.in.Snapshot()
}

// SetAppReady fans out the Connector-level start_xr/stop_xr toggle.
// Turning readiness off while the session is Running is refused: this
// driver has no portable in-place "stop" given runtime ambiguities, so
// the caller (instance) must tear the session down and retry instead,
// matching spec.md §4.2's set_app_ready contract.
func (s *session) SetAppReady(ready bool) error {
	s.appReady = ready
	if !ready && s.running {
		return errAppNotReadyWhileRunning
	}
	return nil
}

// HandleStateChanged updates the local SessionState and, on STOPPING,
// ends the session and clears Running — matching
// internalHandleStateChange / the (true,*,*) row of the frame table.
func (s *session) HandleStateChanged(newState oxr.SessionState) error {
	s.state = newState
	if newState == oxr.SessionStateStopping && s.running {
		if err := s.rt.EndSession(); err != nil {
			return &RuntimeError{"xrEndSession", err}
		}
		s.running = false
		s.didWaitFrame = false
		s.inFrame = false
	}
	return nil
}

// destroy tears down every owned resource: input, view/hud chains,
// spaces, then the session handle itself, surrendering each
// RenderTarget back to the driver along the way (spec.md §5).
func (s *session) destroy() {
	for _, vc := range s.viewChains {
		vc.color.Destroy()
		vc.depth.Destroy()
	}
	if s.hud != nil {
		s.hud.color.Destroy()
	}
	s.rt.DestroySpace(s.basePlaySpace)
	s.rt.DestroySpace(s.playSpace)
	s.rt.DestroySpace(s.viewSpace)
	s.rt.DestroySession()
	s.driver.Drop()
}
