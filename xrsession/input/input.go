package input

import (
	"errors"
	"fmt"

	"github.com/tbogdala/xrsession/internal/oxr"
	"github.com/tbogdala/xrsession/xrmath"
)

// Input owns the action set, per-hand action spaces for Grip/Aim, and the
// most recently synced State snapshot. Constructed once per Session and
// torn down with it.
type Input struct {
	rt oxr.Runtime

	actions map[string]oxr.ActionHandle
	types   map[string]oxr.ActionType

	gripSpace [2]oxr.SpaceHandle
	aimSpace  [2]oxr.SpaceHandle

	state State
}

// New creates the action set, the fixed actions, the per-hand action
// spaces for Grip/Aim, and suggests bindings for every profile given
// (defaults to DefaultProfiles() when profiles is nil). Actions and
// profiles are fixed at construction per spec.md §4.4.
func New(rt oxr.Runtime, profiles []Profile) (*Input, error) {
	actionDescs, err := DefaultActions()
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles, err = DefaultProfiles()
		if err != nil {
			return nil, err
		}
	}

	if err := rt.CreateActionSet("mainactions"); err != nil {
		return nil, fmt.Errorf("input: CreateActionSet: %w", err)
	}

	in := &Input{
		rt:      rt,
		actions: map[string]oxr.ActionHandle{},
		types:   map[string]oxr.ActionType{},
	}

	for _, a := range actionDescs {
		t, err := actionType(a.Type)
		if err != nil {
			return nil, err
		}
		handle, err := rt.CreateAction(a.Name, t, true)
		if err != nil {
			return nil, fmt.Errorf("input: CreateAction(%s): %w", a.Name, err)
		}
		in.actions[a.Name] = handle
		in.types[a.Name] = t
	}

	for hand := oxr.HandLeft; hand < oxr.HandCount; hand++ {
		in.gripSpace[hand], err = rt.CreateActionSpace(in.actions["GripPose"], hand, identityPosef)
		if err != nil {
			return nil, fmt.Errorf("input: CreateActionSpace(Grip, %d): %w", hand, err)
		}
		in.aimSpace[hand], err = rt.CreateActionSpace(in.actions["AimPose"], hand, identityPosef)
		if err != nil {
			return nil, fmt.Errorf("input: CreateActionSpace(Aim, %d): %w", hand, err)
		}
	}

	for _, p := range profiles {
		bindings := make([]oxr.SuggestedBinding, 0, len(p.Bindings))
		for _, b := range p.Bindings {
			action, ok := in.actions[b.Action]
			if !ok {
				return nil, fmt.Errorf("input: profile %s references unknown action %s", p.Name, b.Action)
			}
			for _, hand := range []string{"left", "right"} {
				bindings = append(bindings, oxr.SuggestedBinding{
					Action: action,
					Path:   fmt.Sprintf("/user/hand/%s%s", hand, b.Path),
				})
			}
		}
		if err := rt.SuggestInteractionProfileBindings(p.InteractionProfile, bindings); err != nil {
			return nil, fmt.Errorf("input: SuggestInteractionProfileBindings(%s): %w", p.Name, err)
		}
	}

	return in, nil
}

var identityPosef = oxr.Posef{Orientation: oxr.Quat{W: 1}}

func actionType(s string) (oxr.ActionType, error) {
	switch s {
	case "pose":
		return oxr.ActionTypePose, nil
	case "bool":
		return oxr.ActionTypeBoolean, nil
	case "float":
		return oxr.ActionTypeFloat, nil
	default:
		return 0, fmt.Errorf("input: unsupported action type %q", s)
	}
}

// AttachToSession must be called once, after session creation and before
// the first Sync, mirroring xrAttachSessionActionSets's one-shot contract.
func (in *Input) AttachToSession() error {
	return in.rt.AttachSessionActionSets()
}

// Sync performs xrSyncActions and refreshes the State snapshot returned
// by Snapshot. base is the PlaySpace action poses are located against. If
// the runtime reports the session unfocused, the snapshot is zeroed and
// Sync still returns nil — this is an expected condition during focus
// transitions, not a failure.
func (in *Input) Sync(base oxr.SpaceHandle, at oxr.Time) error {
	err := in.rt.SyncActions()
	if errors.Is(err, oxr.ErrSessionNotFocused) {
		in.state = State{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("input: SyncActions: %w", err)
	}

	for hand := oxr.HandLeft; hand < oxr.HandCount; hand++ {
		var hs HandState
		hs.Grip, err = in.locatePose(in.gripSpace[hand], base, at)
		if err != nil {
			return err
		}
		hs.Aim, err = in.locatePose(in.aimSpace[hand], base, at)
		if err != nil {
			return err
		}
		hs.Attack, err = in.button(hand, "AttackClick", "AttackTrigger")
		if err != nil {
			return err
		}
		hs.Use, err = in.button(hand, "UseClick", "")
		if err != nil {
			return err
		}
		hs.Menu, err = in.button(hand, "MenuClick", "")
		if err != nil {
			return err
		}
		in.state.Hand[hand] = hs
	}
	return nil
}

func (in *Input) locatePose(space, base oxr.SpaceHandle, at oxr.Time) (InputPose, error) {
	pose, posValid, orientValid, err := in.rt.LocateSpace(space, base, at)
	if err != nil {
		return InputPose{}, fmt.Errorf("input: LocateSpace: %w", err)
	}
	if !posValid || !orientValid {
		return InputPose{}, nil
	}
	converted := xrmath.FromRuntime(
		vec3From(pose.Position), quatFrom(pose.Orientation),
	)
	return InputPose{Valid: true, Pose: converted}, nil
}

// button reads the click action unconditionally and the trigger action
// only when triggerName is non-empty (only AttackTrigger has one today).
// Unbound or inactive channels report the zero value, matching the
// runtime's own "unbound reports zero/false" behavior.
func (in *Input) button(hand oxr.Hand, clickName, triggerName string) (Button, error) {
	var b Button
	if action, ok := in.actions[clickName]; ok {
		value, _, active, err := in.rt.GetActionStateBoolean(action, hand)
		if err != nil {
			return Button{}, fmt.Errorf("input: GetActionStateBoolean(%s): %w", clickName, err)
		}
		if active {
			b.Pressed = value
		}
	}
	if triggerName != "" {
		if action, ok := in.actions[triggerName]; ok {
			value, _, active, err := in.rt.GetActionStateFloat(action, hand)
			if err != nil {
				return Button{}, fmt.Errorf("input: GetActionStateFloat(%s): %w", triggerName, err)
			}
			if active {
				b.Value = value
			}
		}
	}
	return b, nil
}

// Snapshot returns the last-synced state by value; callers never observe
// a partially updated snapshot mid-Sync.
func (in *Input) Snapshot() State {
	return in.state
}
