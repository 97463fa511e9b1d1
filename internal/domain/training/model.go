package training

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// Domain errors
var (
	ErrEmptyAccessCode = errors.New("access code must not be empty")
)

// Info represents one training session's metadata and its shared participant PIN.
// There is exactly one Info per deployment; it is only ever overwritten in place.
type Info struct {
	ActivityName   string `json:"activityName"`
	InstrumentName string `json:"instrumentName"`
	Date           string `json:"date"`
	Location       string `json:"location"`
	AccessCode     string `json:"accessCode"`
}

// Indonesian day and month names for the printed sheet's date line.
var (
	dayNames   = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}
	monthNames = [...]string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
)

// LongDate renders a date in the Indonesian long form, e.g. "Senin, 2 Maret 2026".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", dayNames[t.Weekday()], t.Day(), monthNames[t.Month()-1], t.Year())
}

// NewDefault creates an Info with blank fields, today's long-form date, and a
// freshly generated 4-digit access PIN.
// POST: AccessCode is a non-empty 4-digit numeric string
func NewDefault(now time.Time) Info {
	return Info{
		Date:       LongDate(now),
		AccessCode: NewAccessCode(),
	}
}

// NewAccessCode generates a random PIN in the range 1000-9999.
func NewAccessCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand failing means the platform entropy source is broken;
		// a fixed PIN is still a working form.
		return "0000"
	}
	return fmt.Sprintf("%d", 1000+n.Int64())
}

// Validate checks if the Info has valid data.
// PRE: Info struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: AccessCode is non-empty once an Info exists
func (i *Info) Validate() error {
	if i.AccessCode == "" {
		return ErrEmptyAccessCode
	}
	return nil
}

// FillDefaults replaces any blank field with its default value.
// Used when seeding from a join link that omitted fields.
// POST: Date and AccessCode are non-empty
func (i *Info) FillDefaults(now time.Time) {
	if i.Date == "" {
		i.Date = LongDate(now)
	}
	if i.AccessCode == "" {
		i.AccessCode = NewAccessCode()
	}
}
