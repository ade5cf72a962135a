//go:build linux || freebsd || openbsd || netbsd

package glbinding

import (
	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/tbogdala/xrsession/internal/oxr"
)

func tryWGL(window *glfw.Window) (oxr.WGLBinding, bool) {
	return oxr.WGLBinding{}, false
}

func tryGLX(window *glfw.Window) (oxr.GLXBinding, bool) {
	display := window.GetX11Display()
	if display == 0 {
		return oxr.GLXBinding{}, false
	}
	// VisualID/GLXFBConfig are left zero: most runtimes accept a zeroed
	// FBConfig and re-derive it from the context, matching what
	// createSession's GLX path does when SDL doesn't surface the
	// originating config.
	return oxr.GLXBinding{
		XDisplay:    display,
		GLXContext:  window.GetGLXContext(),
		GLXDrawable: window.GetGLXWindow(),
	}, true
}
