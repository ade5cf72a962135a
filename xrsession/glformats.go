package xrsession

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/tbogdala/xrsession/internal/oxr"
)

// Swapchain format preferences, expressed as real GL internal format
// tokens from go-gl/gl rather than hand-copied integer literals, so the
// preference list in session.go's pickFormats reads the same as the
// format enumeration the runtime itself returns.
var (
	glSRGB8Alpha8       = oxr.SwapchainFormat(gl.SRGB8_ALPHA8)
	glRGBA8             = oxr.SwapchainFormat(gl.RGBA8)
	glDepthComponent32F = oxr.SwapchainFormat(gl.DEPTH_COMPONENT32F)
	glDepthComponent24  = oxr.SwapchainFormat(gl.DEPTH_COMPONENT24)
)
