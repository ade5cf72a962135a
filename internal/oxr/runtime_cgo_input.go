//go:build cgo

package oxr

/*
#include <stdlib.h>
#include <openxr/openxr.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

var mainActionSet C.XrActionSet

func cPath(instance C.XrInstance, s string) C.XrPath {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	var path C.XrPath
	C.xrStringToPath(instance, cs, &path)
	return path
}

func (r *runtimeCgo) CreateActionSet(name string) error {
	var info C.XrActionSetCreateInfo
	info.typ = C.XR_TYPE_ACTION_SET_CREATE_INFO
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	C.strncpy(&info.actionSetName[0], cName, C.XR_MAX_ACTION_SET_NAME_SIZE-1)
	C.strncpy(&info.localizedActionSetName[0], cName, C.XR_MAX_LOCALIZED_ACTION_SET_NAME_SIZE-1)

	res := C.xrCreateActionSet(r.instance, &info, &mainActionSet)
	if Result(res) != Success {
		return fmt.Errorf("xrCreateActionSet: %s", Result(res))
	}

	handSubactionPaths[HandLeft] = cPath(r.instance, "/user/hand/left")
	handSubactionPaths[HandRight] = cPath(r.instance, "/user/hand/right")
	return nil
}

func (r *runtimeCgo) CreateAction(name string, t ActionType, hands bool) (ActionHandle, error) {
	var info C.XrActionCreateInfo
	info.typ = C.XR_TYPE_ACTION_CREATE_INFO
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	C.strncpy(&info.actionName[0], cName, C.XR_MAX_ACTION_NAME_SIZE-1)
	C.strncpy(&info.localizedActionName[0], cName, C.XR_MAX_LOCALIZED_ACTION_NAME_SIZE-1)
	info.actionType = C.XrActionType(t)

	paths := []C.XrPath{handSubactionPaths[HandLeft], handSubactionPaths[HandRight]}
	if hands {
		info.countSubactionPaths = C.uint32_t(len(paths))
		info.subactionPaths = &paths[0]
	}

	var action C.XrAction
	res := C.xrCreateAction(mainActionSet, &info, &action)
	if Result(res) != Success {
		return 0, fmt.Errorf("xrCreateAction(%s): %s", name, Result(res))
	}
	return registerAction(action), nil
}

func (r *runtimeCgo) SuggestInteractionProfileBindings(profile string, bindings []SuggestedBinding) error {
	profilePath := cPath(r.instance, profile)

	cBindings := make([]C.XrActionSuggestedBinding, len(bindings))
	for i, b := range bindings {
		cBindings[i].action = actionHandles[b.Action]
		cBindings[i].binding = cPath(r.instance, b.Path)
	}

	var info C.XrInteractionProfileSuggestedBinding
	info.typ = C.XR_TYPE_INTERACTION_PROFILE_SUGGESTED_BINDING
	info.interactionProfile = profilePath
	info.countSuggestedBindings = C.uint32_t(len(cBindings))
	if len(cBindings) > 0 {
		info.suggestedBindings = &cBindings[0]
	}

	res := C.xrSuggestInteractionProfileBindings(r.instance, &info)
	if Result(res) != Success {
		return fmt.Errorf("xrSuggestInteractionProfileBindings(%s): %s", profile, Result(res))
	}
	return nil
}

func (r *runtimeCgo) AttachSessionActionSets() error {
	var info C.XrSessionActionSetsAttachInfo
	info.typ = C.XR_TYPE_SESSION_ACTION_SETS_ATTACH_INFO
	sets := []C.XrActionSet{mainActionSet}
	info.countActionSets = 1
	info.actionSets = &sets[0]
	res := C.xrAttachSessionActionSets(r.session, &info)
	if Result(res) != Success {
		return fmt.Errorf("xrAttachSessionActionSets: %s", Result(res))
	}
	return nil
}

func (r *runtimeCgo) SyncActions() error {
	var activeSet C.XrActiveActionSet
	activeSet.actionSet = mainActionSet
	var info C.XrActionsSyncInfo
	info.typ = C.XR_TYPE_ACTIONS_SYNC_INFO
	info.countActiveActionSets = 1
	info.activeActionSets = &activeSet
	res := Result(C.xrSyncActions(r.session, &info))
	if res == SessionNotFocused {
		return ErrSessionNotFocused
	}
	if res != Success {
		return fmt.Errorf("xrSyncActions: %s", res)
	}
	return nil
}

func actionStateGetInfo(action ActionHandle, hand Hand) C.XrActionStateGetInfo {
	var info C.XrActionStateGetInfo
	info.typ = C.XR_TYPE_ACTION_STATE_GET_INFO
	info.action = actionHandles[action]
	info.subactionPath = handSubactionPaths[hand]
	return info
}

func (r *runtimeCgo) GetActionStateBoolean(action ActionHandle, hand Hand) (value, changed, active bool, err error) {
	info := actionStateGetInfo(action, hand)
	var state C.XrActionStateBoolean
	state.typ = C.XR_TYPE_ACTION_STATE_BOOLEAN
	res := C.xrGetActionStateBoolean(r.session, &info, &state)
	if Result(res) != Success {
		return false, false, false, fmt.Errorf("xrGetActionStateBoolean: %s", Result(res))
	}
	return bool(state.currentState != 0), bool(state.changedSinceLastSync != 0), bool(state.isActive != 0), nil
}

func (r *runtimeCgo) GetActionStateFloat(action ActionHandle, hand Hand) (value float32, changed, active bool, err error) {
	info := actionStateGetInfo(action, hand)
	var state C.XrActionStateFloat
	state.typ = C.XR_TYPE_ACTION_STATE_FLOAT
	res := C.xrGetActionStateFloat(r.session, &info, &state)
	if Result(res) != Success {
		return 0, false, false, fmt.Errorf("xrGetActionStateFloat: %s", Result(res))
	}
	return float32(state.currentState), bool(state.changedSinceLastSync != 0), bool(state.isActive != 0), nil
}
