package training

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

// TestNewDefault verifies the defaults a first load gets: blank fields,
// today's long-form date, and a 4-digit PIN.
func TestNewDefault(t *testing.T) {
	info := NewDefault(testNow)
	if info.ActivityName != "" || info.InstrumentName != "" || info.Location != "" {
		t.Errorf("expected blank fields, got %+v", info)
	}
	if info.Date != "Senin, 2 Maret 2026" {
		t.Errorf("unexpected default date %q", info.Date)
	}
	if len(info.AccessCode) != 4 {
		t.Errorf("expected 4-digit PIN, got %q", info.AccessCode)
	}
	for _, c := range info.AccessCode {
		if c < '0' || c > '9' {
			t.Errorf("PIN contains non-digit: %q", info.AccessCode)
		}
	}
	if err := info.Validate(); err != nil {
		t.Errorf("default info must validate: %v", err)
	}
}

// TestLongDate verifies the Indonesian long-form date rendering.
func TestLongDate(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), "Senin, 2 Maret 2026"},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "Kamis, 1 Januari 2026"},
		{time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC), "Rabu, 31 Desember 2025"},
	}
	for _, tc := range cases {
		if got := LongDate(tc.in); got != tc.want {
			t.Errorf("LongDate(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestNewAccessCode_Range verifies generated PINs stay in 1000-9999.
func TestNewAccessCode_Range(t *testing.T) {
	for i := 0; i < 200; i++ {
		pin := NewAccessCode()
		if len(pin) != 4 || pin[0] == '0' {
			t.Fatalf("PIN out of range: %q", pin)
		}
	}
}

// TestValidate verifies the non-empty access code invariant.
func TestValidate(t *testing.T) {
	info := Info{ActivityName: "ISO Training"}
	if err := info.Validate(); err != ErrEmptyAccessCode {
		t.Errorf("expected ErrEmptyAccessCode, got %v", err)
	}
	info.AccessCode = "4821"
	if err := info.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestFillDefaults verifies only blank fields are touched.
func TestFillDefaults(t *testing.T) {
	info := Info{ActivityName: "Kept", Date: "", AccessCode: ""}
	info.FillDefaults(testNow)
	if info.ActivityName != "Kept" {
		t.Errorf("non-blank field was overwritten: %+v", info)
	}
	if info.Date != LongDate(testNow) || info.AccessCode == "" {
		t.Errorf("blank fields not defaulted: %+v", info)
	}

	fixed := Info{Date: "Senin, 2 Maret 2026", AccessCode: "0042"}
	fixed.FillDefaults(testNow)
	if fixed.Date != "Senin, 2 Maret 2026" || fixed.AccessCode != "0042" {
		t.Errorf("populated fields must be preserved: %+v", fixed)
	}
}
