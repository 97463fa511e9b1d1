// Package token implements the URL-safe encoding scheme that lets two
// independently-stored sessions exchange structured records through links:
// training metadata rides in join links, signed attendance records ride in
// submission links. Decoding is fail-closed — anything malformed collapses
// to a nil result, never an error.
package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/training"
)

// infoPayload is the whitelisted wire form of a training.Info.
type infoPayload struct {
	Activity   string `json:"a"`
	Instrument string `json:"i"`
	Date       string `json:"t"`
	Location   string `json:"l"`
	AccessCode string `json:"pin"`
}

// attendeePayload is the whitelisted wire form of an attendee.Attendee.
// The local id is deliberately absent: an imported record must never be
// mistaken for one minted locally, so decode regenerates it.
type attendeePayload struct {
	Name      string `json:"n"`
	Role      string `json:"r"`
	Signature string `json:"s"`
	Type      string `json:"t"`
	Timestamp int64  `json:"ts"`
}

// EncodeInfo converts a training.Info to a URL-safe token.
// POST: Returned token contains no '+', '/', or '=' characters
func EncodeInfo(info training.Info) string {
	return encode(infoPayload{
		Activity:   info.ActivityName,
		Instrument: info.InstrumentName,
		Date:       info.Date,
		Location:   info.Location,
		AccessCode: info.AccessCode,
	})
}

// DecodeInfo converts a token back to a training.Info.
// POST: Returns nil for malformed input; round-trips all whitelisted fields
func DecodeInfo(tok string) *training.Info {
	var p infoPayload
	if !decode(tok, &p) {
		return nil
	}
	return &training.Info{
		ActivityName:   p.Activity,
		InstrumentName: p.Instrument,
		Date:           p.Date,
		Location:       p.Location,
		AccessCode:     p.AccessCode,
	}
}

// EncodeAttendee converts an attendee.Attendee to a URL-safe token.
// The id field is excluded from the wire form.
// POST: Returned token contains no '+', '/', or '=' characters
func EncodeAttendee(a attendee.Attendee) string {
	return encode(attendeePayload{
		Name:      a.Name,
		Role:      a.Role,
		Signature: a.Signature,
		Type:      a.Type,
		Timestamp: a.Timestamp,
	})
}

// DecodeAttendee converts a token back to an attendee.Attendee with a
// freshly minted local id.
// POST: Returns nil for malformed input or an unknown type tag
func DecodeAttendee(tok string, now time.Time) *attendee.Attendee {
	var p attendeePayload
	if !decode(tok, &p) {
		return nil
	}
	typ := p.Type
	if typ == "" {
		typ = attendee.TypeParticipant
	}
	if !attendee.ValidType(typ) {
		return nil
	}
	return &attendee.Attendee{
		ID:        attendee.NewID(now),
		Name:      p.Name,
		Role:      p.Role,
		Signature: p.Signature,
		Type:      typ,
		Timestamp: p.Timestamp,
	}
}

// encode serialises v as compact JSON, base64-encodes it, then substitutes
// the two URL-unsafe alphabet characters and strips trailing padding.
func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	s := base64.StdEncoding.EncodeToString(data)
	s = strings.ReplaceAll(s, "+", "-")
	s = strings.ReplaceAll(s, "/", "_")
	return strings.TrimRight(s, "=")
}

// decode reverses encode step by step: substitute the alphabet back,
// re-add padding, base64-decode, unmarshal. Any failing step reports false.
func decode(tok string, v any) bool {
	if tok == "" {
		return false
	}
	s := strings.ReplaceAll(tok, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	if pad := len(s) % 4; pad != 0 {
		s += strings.Repeat("=", 4-pad)
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}
