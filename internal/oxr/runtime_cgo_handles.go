//go:build cgo

package oxr

/*
#include <openxr/openxr.h>
#include <openxr/openxr_platform.h>
*/
import "C"

import "unsafe"

// OpenXR handles are C pointers that cgo cannot store inside the plain
// uint64 handle types exposed by the Runtime interface (Go values can't
// safely hold a C pointer across the boundary once unsafe.Pointer rules
// are accounted for). These package-level tables map the opaque
// Go-facing handles to their live C counterparts, mirroring the pattern
// vulkan-go/asche uses for its own handle registries.
var (
	nextHandle       uint64
	spaceHandles     = map[SpaceHandle]C.XrSpace{}
	swapchainHandles = map[SwapchainHandle]C.XrSwapchain{}
	actionHandles    = map[ActionHandle]C.XrAction{}
)

func allocHandle() uint64 {
	nextHandle++
	return nextHandle
}

func registerSpace(s C.XrSpace) SpaceHandle {
	h := SpaceHandle(allocHandle())
	spaceHandles[h] = s
	return h
}

func registerSwapchain(s C.XrSwapchain) SwapchainHandle {
	h := SwapchainHandle(allocHandle())
	swapchainHandles[h] = s
	return h
}

func registerAction(a C.XrAction) ActionHandle {
	h := ActionHandle(allocHandle())
	actionHandles[h] = a
	return h
}

// handSubactionPaths is populated once mainActionSet is created, keyed by
// the fixed Hand enum (HandLeft, HandRight).
var handSubactionPaths = map[Hand]C.XrPath{}

// cSwapchainImagePtr reinterprets the first element of a
// XrSwapchainImageOpenGLKHR array as the generic XrSwapchainImageBaseHeader*
// xrEnumerateSwapchainImages expects.
func cSwapchainImagePtr(p *C.XrSwapchainImageOpenGLKHR) unsafe.Pointer {
	return unsafe.Pointer(p)
}
