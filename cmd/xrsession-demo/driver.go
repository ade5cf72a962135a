package main

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
)

// demoRenderTarget wraps one swapchain image in a framebuffer object so
// the demo can bind it and clear it; a real engine would instead wrap it
// in whatever render-target abstraction its scene renderer expects.
type demoRenderTarget struct {
	fbo     uint32
	texture uint32
	isDepth bool
}

// demoDriver is the minimal xrsession.GraphicsDriver this demo needs:
// just enough GL bookkeeping to bind and clear each view's image. It
// holds no scene state of its own.
type demoDriver struct {
	window   *glfw.Window
	refCount int
}

func newDemoDriver() *demoDriver {
	return &demoDriver{}
}

func (d *demoDriver) Grab() { d.refCount++ }
func (d *demoDriver) Drop() { d.refCount-- }

func (d *demoDriver) UseDeviceDependentTexture(glTextureName uint32, isDepth bool, width, height int) (any, error) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	if isDepth {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, glTextureName, 0)
	} else {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, glTextureName, 0)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return &demoRenderTarget{fbo: fbo, texture: glTextureName, isDepth: isDepth}, nil
}

func (d *demoDriver) AddRenderTarget(target any) {}

func (d *demoDriver) RemoveRenderTarget(target any) {
	t, ok := target.(*demoRenderTarget)
	if !ok {
		return
	}
	gl.DeleteFramebuffers(1, &t.fbo)
}

func (d *demoDriver) ScreenSize() (width, height int) {
	if d.window == nil {
		return windowWidth, windowHeight
	}
	return d.window.GetFramebufferSize()
}

func (d *demoDriver) GLFinish() { gl.Finish() }
