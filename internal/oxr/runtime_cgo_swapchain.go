//go:build cgo

package oxr

/*
#include <stdlib.h>
#include <openxr/openxr.h>
#include <openxr/openxr_platform.h>
*/
import "C"

import "fmt"

func (r *runtimeCgo) EnumerateSwapchainFormats() ([]SwapchainFormat, error) {
	var count C.uint32_t
	res := C.xrEnumerateSwapchainFormats(r.session, 0, &count, nil)
	if Result(res) != Success {
		return nil, fmt.Errorf("xrEnumerateSwapchainFormats(count): %s", Result(res))
	}
	raw := make([]C.int64_t, count)
	if count > 0 {
		res = C.xrEnumerateSwapchainFormats(r.session, count, &count, &raw[0])
		if Result(res) != Success {
			return nil, fmt.Errorf("xrEnumerateSwapchainFormats: %s", Result(res))
		}
	}
	out := make([]SwapchainFormat, count)
	for i := range out {
		out[i] = SwapchainFormat(raw[i])
	}
	return out, nil
}

func (r *runtimeCgo) CreateSwapchain(usage SwapchainUsageFlags, format SwapchainFormat, w, h, samples int) (SwapchainHandle, error) {
	var info C.XrSwapchainCreateInfo
	info.typ = C.XR_TYPE_SWAPCHAIN_CREATE_INFO
	info.usageFlags = C.XrSwapchainUsageFlags(usage)
	info.format = C.int64_t(format)
	info.sampleCount = C.uint32_t(samples)
	info.width = C.uint32_t(w)
	info.height = C.uint32_t(h)
	info.faceCount = 1
	info.arraySize = 1
	info.mipCount = 1

	var sc C.XrSwapchain
	res := C.xrCreateSwapchain(r.session, &info, &sc)
	if Result(res) != Success {
		return 0, fmt.Errorf("xrCreateSwapchain: %s", Result(res))
	}
	return registerSwapchain(sc), nil
}

func (r *runtimeCgo) DestroySwapchain(h SwapchainHandle) error {
	sc, ok := swapchainHandles[h]
	if !ok {
		return nil
	}
	res := C.xrDestroySwapchain(sc)
	delete(swapchainHandles, h)
	if Result(res) != Success {
		return fmt.Errorf("xrDestroySwapchain: %s", Result(res))
	}
	return nil
}

func (r *runtimeCgo) EnumerateSwapchainImages(h SwapchainHandle) ([]SwapchainImage, error) {
	sc := swapchainHandles[h]
	var count C.uint32_t
	res := C.xrEnumerateSwapchainImages(sc, 0, &count, nil)
	if Result(res) != Success {
		return nil, fmt.Errorf("xrEnumerateSwapchainImages(count): %s", Result(res))
	}
	raw := make([]C.XrSwapchainImageOpenGLKHR, count)
	for i := range raw {
		raw[i].typ = C.XR_TYPE_SWAPCHAIN_IMAGE_OPENGL_KHR
	}
	if count > 0 {
		res = C.xrEnumerateSwapchainImages(sc, count, &count, (*C.XrSwapchainImageBaseHeader)(cSwapchainImagePtr(&raw[0])))
		if Result(res) != Success {
			return nil, fmt.Errorf("xrEnumerateSwapchainImages: %s", Result(res))
		}
	}
	out := make([]SwapchainImage, count)
	for i := range out {
		out[i] = SwapchainImage{Index: i, GLImage: uint32(raw[i].image)}
	}
	return out, nil
}

func (r *runtimeCgo) AcquireSwapchainImage(h SwapchainHandle) (int, error) {
	var info C.XrSwapchainImageAcquireInfo
	info.typ = C.XR_TYPE_SWAPCHAIN_IMAGE_ACQUIRE_INFO
	var index C.uint32_t
	res := C.xrAcquireSwapchainImage(swapchainHandles[h], &info, &index)
	if Result(res) != Success {
		return 0, fmt.Errorf("xrAcquireSwapchainImage: %s", Result(res))
	}
	return int(index), nil
}

// waitTimeoutNs is the 100ms bound spec.md §4.5 treats as fatal. A
// sustained wait beyond this implies the compositor pipeline is wedged,
// not merely busy.
const waitTimeoutNs = 100_000_000

func (r *runtimeCgo) WaitSwapchainImage(h SwapchainHandle, timeoutMs int) error {
	var info C.XrSwapchainImageWaitInfo
	info.typ = C.XR_TYPE_SWAPCHAIN_IMAGE_WAIT_INFO
	info.timeout = C.XrDuration(int64(timeoutMs) * 1_000_000)
	res := Result(C.xrWaitSwapchainImage(swapchainHandles[h], &info))
	if res == TimeoutExpended {
		return fmt.Errorf("xrWaitSwapchainImage: timed out after %dms", timeoutMs)
	}
	if res != Success {
		return fmt.Errorf("xrWaitSwapchainImage: %s", res)
	}
	return nil
}

func (r *runtimeCgo) ReleaseSwapchainImage(h SwapchainHandle) error {
	// The caller (swapchain.Chain.Release) issues glFinish() before
	// calling this, guaranteeing rendering work completes before the
	// runtime is told the image is ready for composition.
	var info C.XrSwapchainImageReleaseInfo
	info.typ = C.XR_TYPE_SWAPCHAIN_IMAGE_RELEASE_INFO
	res := C.xrReleaseSwapchainImage(swapchainHandles[h], &info)
	if Result(res) != Success {
		return fmt.Errorf("xrReleaseSwapchainImage: %s", Result(res))
	}
	return nil
}
