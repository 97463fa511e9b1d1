package orchestrators

import (
	"context"
	"errors"
	"testing"

	"signsheet/internal/domain/audit"
	"signsheet/internal/domain/training"
)

// TestExecuteUpdateInfo_WritesThrough tests that an admin edit lands in state.
func TestExecuteUpdateInfo_WritesThrough(t *testing.T) {
	state := &mockInfoState{info: training.Info{AccessCode: "1111"}}
	auditStore := &mockAuditStore{}

	got, err := ExecuteUpdateInfo(context.Background(), UpdateInfoInput{
		Info: training.Info{
			ActivityName:   "Safety Induction",
			InstrumentName: "Forklift",
			Date:           "Senin, 2 Maret 2026",
			Location:       "Warehouse B",
			AccessCode:     "4821",
		},
	}, UpdateInfoDeps{State: state, AuditStore: auditStore, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ActivityName != "Safety Induction" {
		t.Errorf("expected activity=Safety Induction, got %s", got.ActivityName)
	}
	if state.info.AccessCode != "4821" {
		t.Errorf("expected state code=4821, got %s", state.info.AccessCode)
	}
	if !auditStore.hasAction(audit.ActionInfoUpdated) {
		t.Error("expected an info_updated audit event")
	}
}

// TestExecuteUpdateInfo_RedefaultsBlankAccessCode tests that blanking the PIN
// in an edit produces a fresh one instead of an open gate.
func TestExecuteUpdateInfo_RedefaultsBlankAccessCode(t *testing.T) {
	state := &mockInfoState{info: training.Info{AccessCode: "1111"}}

	got, err := ExecuteUpdateInfo(context.Background(), UpdateInfoInput{
		Info: training.Info{ActivityName: "Session", Date: "today"},
	}, UpdateInfoDeps{State: state, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AccessCode == "" {
		t.Error("expected a re-defaulted access code, got empty")
	}
	if len(got.AccessCode) != 4 {
		t.Errorf("expected a 4-digit code, got %q", got.AccessCode)
	}
}

// TestExecuteUpdateInfo_PropagatesStoreError tests that a persistence failure
// surfaces to the caller.
func TestExecuteUpdateInfo_PropagatesStoreError(t *testing.T) {
	state := &mockInfoState{setErr: errors.New("db locked")}

	_, err := ExecuteUpdateInfo(context.Background(), UpdateInfoInput{
		Info: training.Info{AccessCode: "4821"},
	}, UpdateInfoDeps{State: state, Now: fixedNow})
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
}

// TestExecuteSeedFromJoinLink_Overrides tests that an inbound join link
// replaces the current info wholesale.
func TestExecuteSeedFromJoinLink_Overrides(t *testing.T) {
	state := &mockInfoState{info: training.Info{
		ActivityName: "Old Session",
		AccessCode:   "1111",
	}}

	got, err := ExecuteSeedFromJoinLink(context.Background(), SeedFromJoinLinkInput{
		Info: training.Info{
			ActivityName: "New Session",
			Date:         "Tuesday, 3 March 2026",
			AccessCode:   "9900",
		},
	}, SeedFromJoinLinkDeps{State: state, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ActivityName != "New Session" {
		t.Errorf("expected activity=New Session, got %s", got.ActivityName)
	}
	if state.info.AccessCode != "9900" {
		t.Errorf("expected state code=9900, got %s", state.info.AccessCode)
	}
}

// TestExecuteSeedFromJoinLink_FillsOmittedFields tests that a sparse link
// payload gains defaults for date and PIN.
func TestExecuteSeedFromJoinLink_FillsOmittedFields(t *testing.T) {
	state := &mockInfoState{}

	got, err := ExecuteSeedFromJoinLink(context.Background(), SeedFromJoinLinkInput{
		Info: training.Info{ActivityName: "Link Session"},
	}, SeedFromJoinLinkDeps{State: state, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Date != training.LongDate(fixedTime) {
		t.Errorf("expected defaulted date, got %q", got.Date)
	}
	if got.AccessCode == "" {
		t.Error("expected a defaulted access code")
	}
}
