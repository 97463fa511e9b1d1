package orchestrators

import (
	"context"
	"testing"

	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/audit"
	"signsheet/internal/domain/token"
)

func submissionToken(t *testing.T, name string, timestamp int64) string {
	t.Helper()
	return token.EncodeAttendee(attendee.Attendee{
		Name:      name,
		Role:      "Operator",
		Signature: testSignature,
		Type:      attendee.TypeParticipant,
		Timestamp: timestamp,
	})
}

// TestExecuteImportSubmission_New tests importing an unseen submission.
func TestExecuteImportSubmission_New(t *testing.T) {
	state := &mockRosterState{}
	auditStore := &mockAuditStore{}

	res, err := ExecuteImportSubmission(context.Background(), ImportSubmissionInput{
		Token: submissionToken(t, "Ana Whetu", fixedTime.UnixMilli()),
	}, ImportSubmissionDeps{State: state, AuditStore: auditStore, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != ImportedNew {
		t.Errorf("expected outcome=imported, got %s", res.Outcome)
	}
	if res.Name != "Ana Whetu" {
		t.Errorf("expected name=Ana Whetu, got %s", res.Name)
	}
	if len(state.roster) != 1 {
		t.Fatalf("expected 1 roster entry, got %d", len(state.roster))
	}
	if state.roster[0].ID == "" {
		t.Error("expected a fresh local id on the imported record")
	}
	if !auditStore.hasAction(audit.ActionImport) {
		t.Error("expected a submission_imported audit event")
	}
}

// TestExecuteImportSubmission_Idempotent tests that re-importing the same
// token adds at most one record.
func TestExecuteImportSubmission_Idempotent(t *testing.T) {
	state := &mockRosterState{}
	deps := ImportSubmissionDeps{State: state, Now: fixedNow}
	tok := submissionToken(t, "Ana Whetu", fixedTime.UnixMilli())

	first, err := ExecuteImportSubmission(context.Background(), ImportSubmissionInput{Token: tok}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Outcome != ImportedNew {
		t.Fatalf("expected first import to land, got %s", first.Outcome)
	}

	for i := 0; i < 3; i++ {
		res, err := ExecuteImportSubmission(context.Background(), ImportSubmissionInput{Token: tok}, deps)
		if err != nil {
			t.Fatalf("unexpected error on re-import %d: %v", i, err)
		}
		if res.Outcome != ImportedDuplicate {
			t.Errorf("expected re-import %d to be a duplicate, got %s", i, res.Outcome)
		}
		if res.ID != first.ID {
			t.Errorf("expected duplicate to report the existing id %s, got %s", first.ID, res.ID)
		}
	}
	if len(state.roster) != 1 {
		t.Fatalf("expected exactly 1 roster entry after re-imports, got %d", len(state.roster))
	}
}

// TestExecuteImportSubmission_DedupBoundary tests the timestamp proximity
// threshold around one second.
func TestExecuteImportSubmission_DedupBoundary(t *testing.T) {
	base := fixedTime.UnixMilli()
	cases := []struct {
		name     string
		delta    int64
		expected ImportOutcome
	}{
		{"identical timestamp", 0, ImportedDuplicate},
		{"just inside window", 999, ImportedDuplicate},
		{"exactly at window", 1000, ImportedNew},
		{"outside window", 5000, ImportedNew},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := &mockRosterState{roster: []attendee.Attendee{{
				ID: "existing", Name: "Ana Whetu", Timestamp: base,
			}}}

			res, err := ExecuteImportSubmission(context.Background(), ImportSubmissionInput{
				Token: submissionToken(t, "Ana Whetu", base+tc.delta),
			}, ImportSubmissionDeps{State: state, Now: fixedNow})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Outcome != tc.expected {
				t.Errorf("delta=%d: expected %s, got %s", tc.delta, tc.expected, res.Outcome)
			}
		})
	}
}

// TestExecuteImportSubmission_DifferentNameSameTime tests that proximity
// alone never dedups.
func TestExecuteImportSubmission_DifferentNameSameTime(t *testing.T) {
	base := fixedTime.UnixMilli()
	state := &mockRosterState{roster: []attendee.Attendee{{
		ID: "existing", Name: "Ana Whetu", Timestamp: base,
	}}}

	res, err := ExecuteImportSubmission(context.Background(), ImportSubmissionInput{
		Token: submissionToken(t, "Ben Kauri", base),
	}, ImportSubmissionDeps{State: state, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != ImportedNew {
		t.Errorf("expected different name to import, got %s", res.Outcome)
	}
	if len(state.roster) != 2 {
		t.Errorf("expected 2 roster entries, got %d", len(state.roster))
	}
}

// TestExecuteImportSubmission_RejectedTokens tests the silent-discard paths.
func TestExecuteImportSubmission_RejectedTokens(t *testing.T) {
	cases := []struct {
		name string
		tok  string
	}{
		{"empty token", ""},
		{"garbage token", "!!!not-a-token!!!"},
		{"nameless payload", submissionTokenNameless(t)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := &mockRosterState{}
			res, err := ExecuteImportSubmission(context.Background(), ImportSubmissionInput{Token: tc.tok},
				ImportSubmissionDeps{State: state, Now: fixedNow})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Outcome != ImportedNothing {
				t.Errorf("expected outcome=none, got %s", res.Outcome)
			}
			if len(state.roster) != 0 {
				t.Error("expected nothing appended")
			}
		})
	}
}

func submissionTokenNameless(t *testing.T) string {
	t.Helper()
	return token.EncodeAttendee(attendee.Attendee{
		Role:      "Operator",
		Signature: testSignature,
		Type:      attendee.TypeParticipant,
		Timestamp: fixedTime.UnixMilli(),
	})
}
