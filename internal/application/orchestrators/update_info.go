package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"signsheet/internal/domain/audit"
	"signsheet/internal/domain/training"
)

// UpdateInfoInput carries the full edited training info.
type UpdateInfoInput struct {
	Info training.Info
}

// UpdateInfoDeps holds dependencies for UpdateInfo.
type UpdateInfoDeps struct {
	State      InfoState
	AuditStore AuditStore
	Now        func() time.Time // injectable for testing
}

// ExecuteUpdateInfo applies an admin edit to the training info and persists
// it write-through. A blanked access code is re-defaulted so the PIN gate
// never ends up open.
// PRE: Caller is an authenticated admin
// POST: Durable info matches the edited value; access code is non-empty
func ExecuteUpdateInfo(ctx context.Context, input UpdateInfoInput, deps UpdateInfoDeps) (training.Info, error) {
	info := input.Info
	info.FillDefaults(nowOrDefault(deps.Now))
	if err := deps.State.SetInfo(ctx, info); err != nil {
		return training.Info{}, err
	}

	recordAudit(ctx, deps.AuditStore, audit.NewEvent("admin", audit.ActionInfoUpdated).
		WithDetails(info.ActivityName))
	slog.Info("info_event", "event", "info_updated", "activity", info.ActivityName)
	return info, nil
}

// SeedFromJoinLinkInput carries a decoded join-link payload.
type SeedFromJoinLinkInput struct {
	Info training.Info
}

// SeedFromJoinLinkDeps holds dependencies for SeedFromJoinLink.
type SeedFromJoinLinkDeps struct {
	State InfoState
	Now   func() time.Time // injectable for testing
}

// ExecuteSeedFromJoinLink overrides the current training info with one
// carried by an inbound join link, defaulting any field the link omitted.
// POST: Durable info matches the seeded value
func ExecuteSeedFromJoinLink(ctx context.Context, input SeedFromJoinLinkInput, deps SeedFromJoinLinkDeps) (training.Info, error) {
	info := input.Info
	info.FillDefaults(nowOrDefault(deps.Now))
	if err := deps.State.SetInfo(ctx, info); err != nil {
		return training.Info{}, err
	}
	slog.Info("info_event", "event", "info_seeded_from_link", "activity", info.ActivityName)
	return info, nil
}
