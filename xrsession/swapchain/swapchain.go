// Package swapchain wraps one OpenXR swapchain: image enumeration,
// acquire/wait/release, and the engine-side render target each acquired
// image is paired with. Grounded on COpenXRSwapchain.cpp.
package swapchain

import (
	"fmt"

	"github.com/tbogdala/xrsession/internal/oxr"
)

// RenderTargetFactory is the engine-provided bridge from a raw GL texture
// name to a driver-native render target handle, matching
// use_device_dependent_texture from spec.md §6. T is left generic (any)
// because the orchestrator never inspects the target itself — it only
// caches it per image index and hands it back to the caller.
type RenderTargetFactory func(glTextureName uint32, width, height int, isDepth bool) (any, error)

// ReleaseRenderTarget surrenders a render target created by
// RenderTargetFactory back to the engine's driver on teardown.
type ReleaseRenderTarget func(target any)

// Chain is a color or depth swapchain plus its per-image render target
// cache. Invariant 4/5 from spec.md §3: at most one image is Acquired at
// a time, and the RenderTarget at each index is created lazily and
// rebound on every acquire for a depth chain (color textures are stable
// once created; depth is not, per the runtime's own pairing guarantee).
type Chain struct {
	rt     oxr.Runtime
	handle oxr.SwapchainHandle
	images []oxr.SwapchainImage

	width, height int
	isDepth       bool

	makeTarget    RenderTargetFactory
	releaseTarget ReleaseRenderTarget

	targets  map[int]any
	acquired bool
	current  int
}

// Create allocates the runtime swapchain and enumerates its backing
// images, but defers render-target creation until first acquire (lazy,
// per invariant 5).
func Create(rt oxr.Runtime, usage oxr.SwapchainUsageFlags, format oxr.SwapchainFormat, width, height, samples int, isDepth bool, makeTarget RenderTargetFactory, releaseTarget ReleaseRenderTarget) (*Chain, error) {
	handle, err := rt.CreateSwapchain(usage, format, width, height, samples)
	if err != nil {
		return nil, fmt.Errorf("swapchain: CreateSwapchain: %w", err)
	}
	images, err := rt.EnumerateSwapchainImages(handle)
	if err != nil {
		rt.DestroySwapchain(handle)
		return nil, fmt.Errorf("swapchain: EnumerateSwapchainImages: %w", err)
	}
	return &Chain{
		rt: rt, handle: handle, images: images,
		width: width, height: height, isDepth: isDepth,
		makeTarget: makeTarget, releaseTarget: releaseTarget,
		targets: map[int]any{},
	}, nil
}

// waitTimeoutMs is the 100ms bound spec.md §4.5 treats a miss of as fatal.
const waitTimeoutMs = 100

// AcquireAndWait acquires the next image and blocks (bounded at 100ms)
// until it is ready to render into, then returns its render target —
// lazily created on first use, and for a depth chain, rebound to the
// newly acquired texture every call (invariant 5).
func (c *Chain) AcquireAndWait() (target any, err error) {
	if c.acquired {
		return nil, fmt.Errorf("swapchain: AcquireAndWait called while an image is still acquired")
	}
	index, err := c.rt.AcquireSwapchainImage(c.handle)
	if err != nil {
		return nil, fmt.Errorf("swapchain: AcquireSwapchainImage: %w", err)
	}
	if err := c.rt.WaitSwapchainImage(c.handle, waitTimeoutMs); err != nil {
		return nil, fmt.Errorf("swapchain: WaitSwapchainImage: %w", err)
	}
	c.acquired = true
	c.current = index

	if c.isDepth {
		if existing, ok := c.targets[index]; ok {
			c.releaseTarget(existing)
			delete(c.targets, index)
		}
	}
	target, ok := c.targets[index]
	if !ok {
		glName := c.images[index].GLImage
		target, err = c.makeTarget(glName, c.width, c.height, c.isDepth)
		if err != nil {
			return nil, fmt.Errorf("swapchain: render target factory: %w", err)
		}
		c.targets[index] = target
	}
	return target, nil
}

// Release finishes the currently acquired image. It calls the glFinish
// hook (when non-nil) before xrReleaseSwapchainImage, so GPU work
// completes before composition, matching COpenXRSwapchain.cpp's release().
func (c *Chain) Release(glFinish func()) error {
	if !c.acquired {
		return fmt.Errorf("swapchain: Release called with no image acquired")
	}
	if glFinish != nil {
		glFinish()
	}
	if err := c.rt.ReleaseSwapchainImage(c.handle); err != nil {
		return fmt.Errorf("swapchain: ReleaseSwapchainImage: %w", err)
	}
	c.acquired = false
	return nil
}

// Handle exposes the runtime swapchain handle for composition layer
// submission (subimage rect, DepthInfo's prepared-but-unlinked chain).
func (c *Chain) Handle() oxr.SwapchainHandle { return c.handle }

// Width and Height report the chain's fixed resolution.
func (c *Chain) Width() int  { return c.width }
func (c *Chain) Height() int { return c.height }

// Destroy releases every cached render target and destroys the runtime
// swapchain. RenderTargets must be surrendered back to the engine driver
// on teardown per spec.md §5's shared-resource rule.
func (c *Chain) Destroy() error {
	for _, t := range c.targets {
		c.releaseTarget(t)
	}
	c.targets = map[int]any{}
	return c.rt.DestroySwapchain(c.handle)
}
