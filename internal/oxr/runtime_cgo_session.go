//go:build cgo

package oxr

/*
#include <openxr/openxr.h>
#include <openxr/openxr_platform.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

func toCPosef(p Posef) C.XrPosef {
	var out C.XrPosef
	out.orientation.x = C.float(p.Orientation.X)
	out.orientation.y = C.float(p.Orientation.Y)
	out.orientation.z = C.float(p.Orientation.Z)
	out.orientation.w = C.float(p.Orientation.W)
	out.position.x = C.float(p.Position.X)
	out.position.y = C.float(p.Position.Y)
	out.position.z = C.float(p.Position.Z)
	return out
}

func fromCPosef(p C.XrPosef) Posef {
	return Posef{
		Orientation: Quat{X: float32(p.orientation.x), Y: float32(p.orientation.y), Z: float32(p.orientation.z), W: float32(p.orientation.w)},
		Position:    Vec3{X: float32(p.position.x), Y: float32(p.position.y), Z: float32(p.position.z)},
	}
}

func (r *runtimeCgo) CreateSession(binding GraphicsBinding) error {
	var info C.XrSessionCreateInfo
	info.typ = C.XR_TYPE_SESSION_CREATE_INFO
	info.systemId = r.systemID

	switch b := binding.(type) {
	case WGLBinding:
		var wgl C.XrGraphicsBindingOpenGLWin32KHR
		wgl.typ = C.XR_TYPE_GRAPHICS_BINDING_OPENGL_WIN32_KHR
		wgl.hDC = C.HDC(unsafe.Pointer(b.HDC))
		wgl.hGLRC = C.HGLRC(unsafe.Pointer(b.HGLRC))
		info.next = unsafe.Pointer(&wgl)
		res := C.xrCreateSession(r.instance, &info, &r.session)
		if Result(res) != Success {
			return fmt.Errorf("xrCreateSession: %s", Result(res))
		}
	case GLXBinding:
		var glx C.XrGraphicsBindingOpenGLXlibKHR
		glx.typ = C.XR_TYPE_GRAPHICS_BINDING_OPENGL_XLIB_KHR
		glx.xDisplay = (*C.Display)(unsafe.Pointer(b.XDisplay))
		glx.visualid = C.uint32_t(b.VisualID)
		glx.glxFBConfig = C.GLXFBConfig(unsafe.Pointer(b.GLXFBConfig))
		glx.glxDrawable = C.GLXDrawable(b.GLXDrawable)
		glx.glxContext = C.GLXContext(unsafe.Pointer(b.GLXContext))
		info.next = unsafe.Pointer(&glx)
		res := C.xrCreateSession(r.instance, &info, &r.session)
		if Result(res) != Success {
			return fmt.Errorf("xrCreateSession: %s", Result(res))
		}
	default:
		return fmt.Errorf("oxr: CreateSession given an unrecognized graphics binding %T", binding)
	}
	return nil
}

func (r *runtimeCgo) DestroySession() error {
	if r.session == nil {
		return nil
	}
	res := C.xrDestroySession(r.session)
	r.session = nil
	if Result(res) != Success {
		return fmt.Errorf("xrDestroySession: %s", Result(res))
	}
	return nil
}

func (r *runtimeCgo) BeginSession(view ViewConfigurationType) error {
	var info C.XrSessionBeginInfo
	info.typ = C.XR_TYPE_SESSION_BEGIN_INFO
	info.primaryViewConfigurationType = C.XrViewConfigurationType(view)
	res := C.xrBeginSession(r.session, &info)
	if Result(res) != Success {
		return fmt.Errorf("xrBeginSession: %s", Result(res))
	}
	return nil
}

func (r *runtimeCgo) EndSession() error {
	res := C.xrEndSession(r.session)
	if Result(res) != Success {
		return fmt.Errorf("xrEndSession: %s", Result(res))
	}
	return nil
}

func (r *runtimeCgo) WaitFrame() (Time, bool, error) {
	var waitInfo C.XrFrameWaitInfo
	waitInfo.typ = C.XR_TYPE_FRAME_WAIT_INFO
	var state C.XrFrameState
	state.typ = C.XR_TYPE_FRAME_STATE
	res := C.xrWaitFrame(r.session, &waitInfo, &state)
	if Result(res) != Success {
		return 0, false, fmt.Errorf("xrWaitFrame: %s", Result(res))
	}
	return Time(state.predictedDisplayTime), state.shouldRender == C.XR_TRUE, nil
}

func (r *runtimeCgo) BeginFrame() error {
	var info C.XrFrameBeginInfo
	info.typ = C.XR_TYPE_FRAME_BEGIN_INFO
	res := C.xrBeginFrame(r.session, &info)
	if Result(res) != Success {
		return fmt.Errorf("xrBeginFrame: %s", Result(res))
	}
	return nil
}

func (r *runtimeCgo) LocateViews(displayTime Time, base SpaceHandle) ([]ViewPose, bool, bool, error) {
	var locateInfo C.XrViewLocateInfo
	locateInfo.typ = C.XR_TYPE_VIEW_LOCATE_INFO
	locateInfo.viewConfigurationType = C.XrViewConfigurationType(ViewConfigPrimaryStereo)
	locateInfo.displayTime = C.XrTime(displayTime)
	locateInfo.space = spaceHandles[base]

	var state C.XrViewState
	state.typ = C.XR_TYPE_VIEW_STATE
	var count C.uint32_t
	res := C.xrLocateViews(r.session, &locateInfo, &state, 0, &count, nil)
	if Result(res) != Success {
		return nil, false, false, fmt.Errorf("xrLocateViews(count): %s", Result(res))
	}
	raw := make([]C.XrView, count)
	for i := range raw {
		raw[i].typ = C.XR_TYPE_VIEW
	}
	if count > 0 {
		res = C.xrLocateViews(r.session, &locateInfo, &state, count, &count, &raw[0])
		if Result(res) != Success {
			return nil, false, false, fmt.Errorf("xrLocateViews: %s", Result(res))
		}
	}
	out := make([]ViewPose, count)
	for i := range out {
		out[i] = ViewPose{
			Pose: fromCPosef(raw[i].pose),
			Fov: Fovf{
				AngleLeft:  float32(raw[i].fov.angleLeft),
				AngleRight: float32(raw[i].fov.angleRight),
				AngleUp:    float32(raw[i].fov.angleUp),
				AngleDown:  float32(raw[i].fov.angleDown),
			},
		}
	}
	positionValid := state.viewStateFlags&C.XR_VIEW_STATE_POSITION_VALID_BIT != 0
	orientationValid := state.viewStateFlags&C.XR_VIEW_STATE_ORIENTATION_VALID_BIT != 0
	return out, positionValid, orientationValid, nil
}

func (r *runtimeCgo) EndFrame(displayTime Time, layers []CompositionLayer) error {
	// Each submitted layer and its nested arrays must stay alive (and
	// un-moved) for the duration of the xrEndFrame call; build them all
	// into a single pinned slice of pointers before calling out.
	headers := make([]*C.XrCompositionLayerBaseHeader, 0, len(layers))
	pins := make([]unsafe.Pointer, 0, len(layers)*2)

	for _, l := range layers {
		switch {
		case l.Projection != nil:
			views := make([]C.XrCompositionLayerProjectionView, len(l.Projection.Views))
			for i, v := range l.Projection.Views {
				views[i].typ = C.XR_TYPE_COMPOSITION_LAYER_PROJECTION_VIEW
				views[i].pose = toCPosef(v.Pose)
				views[i].fov.angleLeft = C.float(v.Fov.AngleLeft)
				views[i].fov.angleRight = C.float(v.Fov.AngleRight)
				views[i].fov.angleUp = C.float(v.Fov.AngleUp)
				views[i].fov.angleDown = C.float(v.Fov.AngleDown)
				views[i].subImage.swapchain = swapchainHandles[v.Swapchain]
				views[i].subImage.imageRect.offset.x = C.int32_t(v.ImageRectX)
				views[i].subImage.imageRect.offset.y = C.int32_t(v.ImageRectY)
				views[i].subImage.imageRect.extent.width = C.int32_t(v.ImageRectW)
				views[i].subImage.imageRect.extent.height = C.int32_t(v.ImageRectH)
				// v.DepthInfo is intentionally never attached to
				// views[i].next: the depth composition layer is prepared
				// upstream but left unlinked, matching the shipped
				// behavior this driver preserves.
			}
			viewsPtr := &views[0]
			pins = append(pins, unsafe.Pointer(viewsPtr))

			var proj C.XrCompositionLayerProjection
			proj.typ = C.XR_TYPE_COMPOSITION_LAYER_PROJECTION
			proj.space = spaceHandles[l.Projection.Space.Handle]
			proj.viewCount = C.uint32_t(len(views))
			proj.views = viewsPtr
			headers = append(headers, (*C.XrCompositionLayerBaseHeader)(unsafe.Pointer(&proj)))

		case l.Quad != nil:
			var quad C.XrCompositionLayerQuad
			quad.typ = C.XR_TYPE_COMPOSITION_LAYER_QUAD
			quad.layerFlags = C.XR_COMPOSITION_LAYER_BLEND_TEXTURE_SOURCE_ALPHA_BIT | C.XR_COMPOSITION_LAYER_UNPREMULTIPLIED_ALPHA_BIT
			quad.eyeVisibility = C.XR_EYE_VISIBILITY_BOTH
			quad.space = spaceHandles[l.Quad.Space.Handle]
			quad.subImage.swapchain = swapchainHandles[l.Quad.Swapchain]
			quad.pose = toCPosef(l.Quad.Pose)
			quad.size.width = C.float(l.Quad.Size.Width)
			quad.size.height = C.float(l.Quad.Size.Height)
			headers = append(headers, (*C.XrCompositionLayerBaseHeader)(unsafe.Pointer(&quad)))
		}
	}

	var info C.XrFrameEndInfo
	info.typ = C.XR_TYPE_FRAME_END_INFO
	info.displayTime = C.XrTime(displayTime)
	info.environmentBlendMode = C.XR_ENVIRONMENT_BLEND_MODE_OPAQUE
	info.layerCount = C.uint32_t(len(headers))
	if len(headers) > 0 {
		info.layers = &headers[0]
	}

	res := C.xrEndFrame(r.session, &info)
	if Result(res) != Success {
		return fmt.Errorf("xrEndFrame: %s", Result(res))
	}
	return nil
}

func (r *runtimeCgo) CreateReferenceSpace(t ReferenceSpaceType, offset Posef) (SpaceHandle, error) {
	var info C.XrReferenceSpaceCreateInfo
	info.typ = C.XR_TYPE_REFERENCE_SPACE_CREATE_INFO
	info.referenceSpaceType = C.XrReferenceSpaceType(t)
	info.poseInReferenceSpace = toCPosef(offset)

	var space C.XrSpace
	res := C.xrCreateReferenceSpace(r.session, &info, &space)
	if Result(res) != Success {
		return 0, fmt.Errorf("xrCreateReferenceSpace: %s", Result(res))
	}
	return registerSpace(space), nil
}

func (r *runtimeCgo) CreateActionSpace(action ActionHandle, hand Hand, poseInSpace Posef) (SpaceHandle, error) {
	var info C.XrActionSpaceCreateInfo
	info.typ = C.XR_TYPE_ACTION_SPACE_CREATE_INFO
	info.action = actionHandles[action]
	info.subactionPath = handSubactionPaths[hand]
	info.poseInActionSpace = toCPosef(poseInSpace)

	var space C.XrSpace
	res := C.xrCreateActionSpace(r.session, &info, &space)
	if Result(res) != Success {
		return 0, fmt.Errorf("xrCreateActionSpace: %s", Result(res))
	}
	return registerSpace(space), nil
}

func (r *runtimeCgo) DestroySpace(h SpaceHandle) error {
	space, ok := spaceHandles[h]
	if !ok {
		return nil
	}
	res := C.xrDestroySpace(space)
	delete(spaceHandles, h)
	if Result(res) != Success {
		return fmt.Errorf("xrDestroySpace: %s", Result(res))
	}
	return nil
}

func (r *runtimeCgo) LocateSpace(space, base SpaceHandle, at Time) (Posef, bool, bool, error) {
	var loc C.XrSpaceLocation
	loc.typ = C.XR_TYPE_SPACE_LOCATION
	res := C.xrLocateSpace(spaceHandles[space], spaceHandles[base], C.XrTime(at), &loc)
	if Result(res) != Success {
		return Posef{}, false, false, fmt.Errorf("xrLocateSpace: %s", Result(res))
	}
	const posValidBit = C.XR_SPACE_LOCATION_POSITION_VALID_BIT
	const orientValidBit = C.XR_SPACE_LOCATION_ORIENTATION_VALID_BIT
	posValid := loc.locationFlags&posValidBit != 0
	orientValid := loc.locationFlags&orientValidBit != 0
	return fromCPosef(loc.pose), posValid, orientValid, nil
}
