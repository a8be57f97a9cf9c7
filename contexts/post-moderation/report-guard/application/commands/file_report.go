package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "spotted/contexts/post-moderation/report-guard/application"
	"spotted/contexts/post-moderation/report-guard/domain/entities"
	domainerrors "spotted/contexts/post-moderation/report-guard/domain/errors"
	"spotted/contexts/post-moderation/report-guard/ports"
)

type FileReportCommand struct {
	ReporterID int64
	ChannelID  int64
	MessageID  int64
}

type AttachReasonCommand struct {
	ReporterID int64
	ChannelID  int64
	MessageID  int64
	Reason     string
}

// ReportUseCase files reports and enforces the one-report-per-tuple rule.
type ReportUseCase struct {
	Store  ports.ReportStore
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// FileReport returns true when the reporter already filed a report for this
// post, false after creating a fresh one. The check is race-safe: a create
// losing to a concurrent duplicate also reports true.
func (uc ReportUseCase) FileReport(ctx context.Context, cmd FileReportCommand) (bool, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.ReporterID == 0 {
		return false, domainerrors.ErrInvalidReportInput
	}
	key := entities.ReportKey{
		ReporterID: cmd.ReporterID,
		ChannelID:  cmd.ChannelID,
		MessageID:  cmd.MessageID,
	}
	if _, found, err := uc.Store.GetReport(ctx, key); err != nil {
		return false, err
	} else if found {
		return true, nil
	}

	reportID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return false, err
	}
	now := uc.Clock.Now().UTC()
	err = uc.Store.CreateReport(ctx, entities.Report{
		ReportID:  reportID,
		Key:       key,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, domainerrors.ErrReportExists) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	logger.Warn("post reported",
		"event", "report_filed",
		"module", "post-moderation/report-guard",
		"layer", "application",
		"reporter_id", cmd.ReporterID,
		"channel_id", cmd.ChannelID,
		"message_id", cmd.MessageID,
	)
	return false, nil
}

// AttachReason stores the reason collected in the follow-up conversation
// step. Overwriting an earlier reason is allowed; this is not the dedup path.
func (uc ReportUseCase) AttachReason(ctx context.Context, cmd AttachReasonCommand) error {
	reason := strings.TrimSpace(cmd.Reason)
	if cmd.ReporterID == 0 || reason == "" {
		return domainerrors.ErrInvalidReportInput
	}
	key := entities.ReportKey{
		ReporterID: cmd.ReporterID,
		ChannelID:  cmd.ChannelID,
		MessageID:  cmd.MessageID,
	}
	return uc.Store.SaveReason(ctx, key, reason, uc.Clock.Now().UTC())
}
