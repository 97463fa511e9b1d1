package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"signsheet/internal/adapters/email"
	"signsheet/internal/domain/audit"
	"signsheet/internal/domain/token"
)

// ShareJoinLinkInput carries input for emailing a join link.
type ShareJoinLinkInput struct {
	Recipient string
	BaseURL   string
}

// ShareJoinLinkDeps holds dependencies for ShareJoinLink.
type ShareJoinLinkDeps struct {
	State      InfoState
	Sender     email.Sender
	AuditStore AuditStore
}

// ExecuteShareJoinLink emails the current join link to a participant. This
// is a convenience over the copy-and-message relay, not a sync channel.
// PRE: Caller is an authenticated admin; Recipient is non-empty
// POST: One email is queued carrying a decodable join link
func ExecuteShareJoinLink(ctx context.Context, input ShareJoinLinkInput, deps ShareJoinLinkDeps) error {
	recipient := strings.TrimSpace(input.Recipient)
	if recipient == "" {
		return errors.New("recipient address is required")
	}
	if input.BaseURL == "" {
		return errors.New("base URL is required")
	}

	info := deps.State.Info()
	link, err := token.JoinLink(input.BaseURL, info)
	if err != nil {
		return fmt.Errorf("failed to build join link: %w", err)
	}

	activity := info.ActivityName
	if activity == "" {
		activity = "Training session"
	}
	_, err = deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{recipient},
		Subject: fmt.Sprintf("Attendance form: %s", activity),
		HTML: fmt.Sprintf(
			"<p>You are invited to sign the attendance sheet for <b>%s</b>.</p><p><a href=%q>Open the form</a> and enter the access PIN provided by your trainer.</p>",
			activity, link),
	})
	if err != nil {
		slog.Error("share_event", "event", "join_link_send_failed", "error", err)
		return fmt.Errorf("failed to send join link: %w", err)
	}

	recordAudit(ctx, deps.AuditStore, audit.NewEvent("admin", audit.ActionShare).
		WithDetails(recipient))
	slog.Info("share_event", "event", "join_link_shared", "recipient", recipient)
	return nil
}
