package token

import (
	"net/url"

	"signsheet/internal/domain/attendee"
	"signsheet/internal/domain/training"
)

// Query parameter names — the system's only wire protocol.
const (
	ParamMode  = "mode"  // "kiosk" switches the initial view to participant mode
	ParamData  = "d"     // encoded training info, carried by join links
	ParamToken = "token" // encoded attendee, carried by submission links
)

// ModeKiosk is the mode parameter value that selects the participant view.
const ModeKiosk = "kiosk"

// JoinLink builds the URL an admin distributes to onboard participant
// devices: the base address plus kiosk flag and encoded session metadata.
// PRE: base is an absolute origin+path URL
// POST: Returned URL carries mode=kiosk and d=<encoded info>
func JoinLink(base string, info training.Info) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(ParamMode, ModeKiosk)
	q.Set(ParamData, EncodeInfo(info))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SubmissionLink builds the URL a participant relays back to the admin
// out-of-band after signing on their own device.
// PRE: base is an absolute origin+path URL
// POST: Returned URL carries token=<encoded attendee>
func SubmissionLink(base string, a attendee.Attendee) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(ParamToken, EncodeAttendee(a))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// StripToken removes the token parameter from a URL so a reload or re-share
// of the page does not re-trigger an import.
// POST: Returned URL has no token parameter; other parameters are preserved
func StripToken(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Del(ParamToken)
	u.RawQuery = q.Encode()
	return u.String()
}
