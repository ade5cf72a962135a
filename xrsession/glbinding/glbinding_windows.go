//go:build windows

package glbinding

import (
	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/tbogdala/xrsession/internal/oxr"
)

func tryWGL(window *glfw.Window) (oxr.WGLBinding, bool) {
	hglrc := window.GetWGLContext()
	if hglrc == 0 {
		return oxr.WGLBinding{}, false
	}
	// GLFW doesn't expose the originating HDC directly; it is retrieved
	// from the window's Win32 handle via GetDC, which the caller owns for
	// the session's lifetime (matches createSession's use of the window's
	// device context upstream).
	hdc := getDC(window.GetWin32Window())
	return oxr.WGLBinding{HDC: hdc, HGLRC: hglrc}, true
}

func tryGLX(window *glfw.Window) (oxr.GLXBinding, bool) {
	return oxr.GLXBinding{}, false
}
