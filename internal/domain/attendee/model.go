package attendee

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"strconv"
	"time"
)

// Type constants for the two attendee kinds. Filtering by type must
// partition a roster completely; there is no third tag.
const (
	TypeTrainer     = "TRAINER"
	TypeParticipant = "PARTICIPANT"
)

// DedupWindow is the timestamp proximity threshold used to recognise
// re-imports of the same submission. Two records with the same name whose
// timestamps differ by strictly less than this are the same submission.
const DedupWindow = 1000 * time.Millisecond

// Domain errors
var (
	ErrEmptyName      = errors.New("attendee name is required")
	ErrEmptyRole      = errors.New("attendee role is required")
	ErrEmptySignature = errors.New("attendee signature is required")
	ErrInvalidType    = errors.New("attendee type must be TRAINER or PARTICIPANT")
)

// Attendee represents one signed attendance record.
// ID is minted locally and never derived from content; an imported record
// always gets a fresh ID so it cannot collide with one minted here.
type Attendee struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Signature string `json:"signature"` // opaque image blob reference (data URL)
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // creation instant, ms since epoch
}

// NewID mints a collision-resistant local identifier: base-36 creation
// instant followed by a random base-36 suffix.
// POST: Returns a non-empty id unique across concurrent mints
func NewID(now time.Time) string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Entropy failure degrades to time-only; the prefix alone still
		// separates ids minted in different milliseconds.
		return strconv.FormatInt(now.UnixMilli(), 36)
	}
	suffix := binary.BigEndian.Uint64(buf[:]) & 0x7fffffffffff // keep the suffix short
	return strconv.FormatInt(now.UnixMilli(), 36) + "-" + strconv.FormatUint(suffix, 36)
}

// ValidType reports whether t is one of the two attendee tags.
func ValidType(t string) bool {
	return t == TypeTrainer || t == TypeParticipant
}

// Validate checks if the Attendee has valid data.
// PRE: Attendee struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Attendee) Validate() error {
	if a.Name == "" {
		return ErrEmptyName
	}
	if a.Role == "" {
		return ErrEmptyRole
	}
	if a.Signature == "" {
		return ErrEmptySignature
	}
	if !ValidType(a.Type) {
		return ErrInvalidType
	}
	return nil
}

// SameSubmission reports whether other looks like a re-import of this
// record: identical name and a timestamp within the dedup window.
// INVARIANT: Attendee fields are not mutated
func (a *Attendee) SameSubmission(other Attendee) bool {
	if a.Name != other.Name {
		return false
	}
	delta := a.Timestamp - other.Timestamp
	if delta < 0 {
		delta = -delta
	}
	return time.Duration(delta)*time.Millisecond < DedupWindow
}
