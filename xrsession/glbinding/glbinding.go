// Package glbinding turns the current GLFW window's native platform
// handles into the oxr.GraphicsBinding CreateSession needs, and reports
// the current video driver identity so the caller can sanity-check it
// against the platform this binary was built for (the WGL/GLX dispatch
// spec.md §4.3.1 describes).
package glbinding

import (
	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/tbogdala/xrsession/internal/oxr"
)

// VideoDriver identifies the current windowing backend, matching the
// strings upstream compares against the SDL video driver name.
type VideoDriver string

const (
	DriverWindows VideoDriver = "windows"
	DriverX11     VideoDriver = "x11"
	DriverUnknown VideoDriver = "unknown"
)

// From builds the platform-appropriate oxr.GraphicsBinding for window's
// current OpenGL context. Returns an error if the running platform has
// neither a WGL nor a GLX binding available (Android/Apple/Wayland are
// explicitly unsupported, matching IOpenXRConnector.h's platform dispatch).
func From(window *glfw.Window) (oxr.GraphicsBinding, VideoDriver, error) {
	if b, ok := tryWGL(window); ok {
		return b, DriverWindows, nil
	}
	if b, ok := tryGLX(window); ok {
		return b, DriverX11, nil
	}
	return nil, DriverUnknown, errUnsupportedPlatform
}

var errUnsupportedPlatform = unsupportedPlatformError{}

type unsupportedPlatformError struct{}

func (unsupportedPlatformError) Error() string {
	return "glbinding: no WGL or GLX native handles available on this platform; EGL/Android/Apple bindings are not implemented"
}
