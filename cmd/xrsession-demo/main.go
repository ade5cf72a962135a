// Command xrsession-demo drives a bare GLFW window through the session
// orchestrator: it opens a desktop mirror window, starts OpenXR, and each
// frame clears every view the runtime hands back to a distinct flat
// color so the eye/HUD split is visible without any scene renderer.
// Grounded on main.go's Initialize/main-loop shape, trimmed of the scene
// graph this package doesn't own.
package main

import (
	"log/slog"
	"os"
	"runtime"
	"time"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/tbogdala/xrsession/internal/oxr"
	"github.com/tbogdala/xrsession/xrsession"
	"github.com/tbogdala/xrsession/xrsession/glbinding"
)

const (
	windowWidth  = 1280
	windowHeight = 720
)

func init() {
	runtime.LockOSThread()
}

func main() {
	logger := slog.Default()

	if err := glfw.Init(); err != nil {
		logger.Error("glfw.Init failed", "err", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "xrsession-demo", nil, nil)
	if err != nil {
		logger.Error("glfw.CreateWindow failed", "err", err)
		os.Exit(1)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		logger.Error("gl.Init failed", "err", err)
		os.Exit(1)
	}

	driver := newDemoDriver()
	driver.window = window

	conn, err := xrsession.NewConnector(
		oxr.New,
		driver,
		func() (oxr.GraphicsBinding, error) {
			binding, driverKind, err := glbinding.From(window)
			if err != nil {
				return nil, err
			}
			logger.Info("graphics binding acquired", "driver", driverKind)
			return binding, nil
		},
		xrsession.WithApplicationName("xrsession-demo"),
		xrsession.WithLogger(xrsession.NewSlogLogger(logger)),
	)
	if err != nil {
		logger.Error("NewConnector failed; running the mirror window without VR", "err", err)
	} else {
		conn.StartXR()
		defer conn.StopXR()
	}

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
		if key == glfw.KeySpace && action == glfw.Press && conn != nil {
			conn.Recenter()
		}
	})

	lastFrame := time.Now()
	for !window.ShouldClose() {
		glfw.PollEvents()
		thisFrame := time.Now()
		_ = float32(thisFrame.Sub(lastFrame).Seconds())
		lastFrame = thisFrame

		if conn != nil {
			conn.HandleEvents()

			cfg := xrsession.FrameConfig{}
			if conn.TryBeginFrame(cfg) {
				var view xrsession.ViewInfo
				for conn.NextView(&view) {
					renderView(driver, view)
				}
			}

			in := conn.GetInputState()
			if in.Hand[oxr.HandRight].Attack.Pressed {
				logger.Info("right trigger pressed")
			}
		}

		w, h := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(0.05, 0.05, 0.08, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		window.SwapBuffers()
	}
}

// renderView is where a real engine would bind view.RenderTarget as the
// active framebuffer and draw the scene from view.Position/Orientation;
// the demo only clears it to a per-eye tint so the view split is visible
// through the headset without a scene renderer of its own.
func renderView(driver *demoDriver, view xrsession.ViewInfo) {
	target, ok := view.RenderTarget.(*demoRenderTarget)
	if !ok {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, target.fbo)
	gl.Viewport(0, 0, int32(view.Width), int32(view.Height))
	switch view.Kind {
	case xrsession.ViewKindLeftEye:
		gl.ClearColor(0.12, 0.02, 0.02, 1)
	case xrsession.ViewKindRightEye:
		gl.ClearColor(0.02, 0.12, 0.02, 1)
	case xrsession.ViewKindHud:
		gl.ClearColor(0, 0, 0, 0)
	default:
		gl.ClearColor(0.1, 0.1, 0.1, 1)
	}
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}
