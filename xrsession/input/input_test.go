package input

import (
	"testing"

	"github.com/tbogdala/xrsession/internal/oxr"
	"github.com/tbogdala/xrsession/internal/oxr/oxrtest"
)

func TestNewSuggestsBothDefaultProfiles(t *testing.T) {
	rt := oxrtest.New()
	if _, err := New(rt, nil); err != nil {
		t.Fatalf("New: %v", err)
	}
	count := 0
	for _, c := range rt.Calls {
		if c == "SuggestInteractionProfileBindings" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 SuggestInteractionProfileBindings calls (khr_simple, valve_index), got %d", count)
	}
}

// Scenario 6 from spec.md §8: simple profile, user presses select on the
// right controller.
func TestSyncReportsRightHandAttackPress(t *testing.T) {
	rt := oxrtest.New()
	in, err := New(rt, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := in.AttachToSession(); err != nil {
		t.Fatalf("AttachToSession: %v", err)
	}

	attackAction := in.actions["AttackClick"]
	rt.SetBoolean(attackAction, oxr.HandRight, true, true, true)
	rt.SetBoolean(attackAction, oxr.HandLeft, false, false, true)

	base := oxr.SpaceHandle(1)
	if err := in.Sync(base, 0); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	snap := in.Snapshot()
	if !snap.Hand[oxr.HandRight].Attack.Pressed {
		t.Fatalf("expected right hand Attack.Pressed=true")
	}
	if snap.Hand[oxr.HandLeft].Attack.Pressed {
		t.Fatalf("expected left hand Attack.Pressed=false")
	}
}

func TestSyncZeroesSnapshotWhenUnfocused(t *testing.T) {
	rt := oxrtest.New()
	in, err := New(rt, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	attackAction := in.actions["AttackClick"]
	rt.SetBoolean(attackAction, oxr.HandRight, true, true, true)
	if err := in.Sync(oxr.SpaceHandle(1), 0); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !in.Snapshot().Hand[oxr.HandRight].Attack.Pressed {
		t.Fatalf("expected a pressed state before the focus-loss sync")
	}

	rt.SyncActionsFocusLost = true
	if err := in.Sync(oxr.SpaceHandle(1), 0); err != nil {
		t.Fatalf("Sync during focus loss should succeed, got: %v", err)
	}
	if in.Snapshot().Hand[oxr.HandRight].Attack.Pressed {
		t.Fatalf("expected snapshot to be zeroed after SESSION_NOT_FOCUSED")
	}
}
