package xrsession

// GraphicsDriver is the engine-provided bridge to the host graphics API.
// The orchestrator never touches GL/D3D state directly beyond what the
// swapchain package's glFinish hook requires; every texture it renders
// into comes from this interface. Matches spec.md §6's outward interface
// (grab/drop ref counting, render target add/remove, device-dependent
// texture wrapping, current screen size).
type GraphicsDriver interface {
	// Grab/Drop ref-count the driver; every layer that talks to it calls
	// Grab on construction and Drop on teardown, mirroring the shared,
	// ref-counted video driver ownership described in spec.md §5.
	Grab()
	Drop()

	// UseDeviceDependentTexture wraps a raw GL texture name (one ring
	// image of a swapchain) into a driver-native render target handle.
	UseDeviceDependentTexture(glTextureName uint32, isDepth bool, width, height int) (any, error)

	// AddRenderTarget/RemoveRenderTarget register/unregister a render
	// target with the driver's bookkeeping; RemoveRenderTarget must be
	// called exactly once per successful AddRenderTarget before the
	// underlying texture is released.
	AddRenderTarget(target any)
	RemoveRenderTarget(target any)

	// ScreenSize reports the current window/backbuffer size in pixels,
	// consulted by a FrameConfig default policy the caller may apply
	// before invoking TryBeginFrame.
	ScreenSize() (width, height int)

	// GLFinish blocks until prior GL commands complete; called by
	// swapchain.Chain.Release before xrReleaseSwapchainImage.
	GLFinish()
}
