package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"spotted/contexts/post-moderation/callback-router/domain/entities"
	domainerrors "spotted/contexts/post-moderation/callback-router/domain/errors"
	"spotted/contexts/post-moderation/callback-router/ports"
)

func stringPtr(s string) *string { return &s }

// ConfirmHandler finalizes the submission preview dialog. A "yes" argument
// hands the replied-to message to the review queue, "no" abandons it. Either
// way the dialog ends.
type ConfirmHandler struct {
	Submissions ports.SubmissionClient
	Logger      *slog.Logger
}

func (h ConfirmHandler) Handle(ctx context.Context, cb entities.Callback, arg string) (entities.UIDelta, error) {
	logger := ResolveLogger(h.Logger)
	switch arg {
	case "yes":
		ok, err := h.Submissions.SubmitForReview(ctx, cb.ChatID, cb.ReplyToMessageID, cb.SenderID)
		if err != nil {
			return entities.UIDelta{}, fmt.Errorf("submit for review: %w", err)
		}
		text := "Something went wrong, please try again later."
		if ok {
			text = "Your post has been sent to the admins for review!"
		}
		logger.Info("submission confirmed",
			"event", "submission_confirmed",
			"module", "callback_router",
			"user_id", cb.SenderID,
			"accepted", ok,
		)
		return entities.UIDelta{Text: stringPtr(text), NextState: entities.StateEnd}, nil
	case "no":
		return entities.UIDelta{
			Text:      stringPtr("Okay, the post will not be sent. Maybe next time!"),
			NextState: entities.StateEnd,
		}, nil
	default:
		logger.Warn("confirm argument rejected",
			"event", "confirm_invalid_argument",
			"module", "callback_router",
			"argument", arg,
		)
		return entities.UIDelta{}, nil
	}
}

// SettingsHandler flips the submitter attribution preference.
type SettingsHandler struct {
	Settings ports.SettingsClient
	Logger   *slog.Logger
}

func (h SettingsHandler) Handle(ctx context.Context, cb entities.Callback, arg string) (entities.UIDelta, error) {
	logger := ResolveLogger(h.Logger)
	var (
		already bool
		err     error
		onSet   string
		onNoop  string
	)
	switch arg {
	case "anonimo":
		already, err = h.Settings.SetAnonymous(ctx, cb.SenderID)
		onSet = "From now on your posts will be anonymous."
		onNoop = "Your posts are already anonymous."
	case "credit":
		already, err = h.Settings.SetCredited(ctx, cb.SenderID)
		onSet = "From now on your posts will be signed with your username."
		onNoop = "Your posts are already signed with your username."
	default:
		logger.Warn("settings argument rejected",
			"event", "settings_invalid_argument",
			"module", "callback_router",
			"argument", arg,
		)
		return entities.UIDelta{}, nil
	}
	if err != nil {
		return entities.UIDelta{}, fmt.Errorf("update settings: %w", err)
	}
	text := onSet
	if already {
		text = onNoop
	}
	return entities.UIDelta{Text: stringPtr(text)}, nil
}

// ApproveHandler records an admin approval or rejection vote and reacts to
// the resolution the engine reports. When the post is gone the callback is a
// silent no-op so stale buttons stay harmless.
type ApproveHandler struct {
	Approval ports.ApprovalClient
	Renderer ports.Renderer
	Notifier ports.Notifier
	Approve  bool
	Logger   *slog.Logger
}

func (h ApproveHandler) Handle(ctx context.Context, cb entities.Callback, _ string) (entities.UIDelta, error) {
	logger := ResolveLogger(h.Logger)
	outcome, found, err := h.Approval.SetAdminVote(ctx, cb.ChatID, cb.MessageID, cb.SenderID, h.Approve)
	if err != nil {
		return entities.UIDelta{}, fmt.Errorf("set admin vote: %w", err)
	}
	if !found {
		logger.Info("vote on missing post ignored",
			"event", "approval_post_missing",
			"module", "callback_router",
			"group_id", cb.ChatID,
			"message_id", cb.MessageID,
		)
		return entities.UIDelta{}, nil
	}
	if outcome.NoChange {
		return entities.UIDelta{Ack: stringPtr("")}, nil
	}
	if !outcome.Resolved {
		keyboard := h.Renderer.RenderApproval(outcome.Approvals, outcome.Rejections)
		return entities.UIDelta{Ack: stringPtr(""), Keyboard: &keyboard}, nil
	}

	h.notifySubmitter(ctx, outcome)
	return entities.UIDelta{
		Ack:  stringPtr(""),
		Text: stringPtr(resolutionRecap(outcome)),
	}, nil
}

func (h ApproveHandler) notifySubmitter(ctx context.Context, outcome ports.AdminVoteOutcome) {
	text := "Your post did not pass the admin review."
	if outcome.Approved {
		text = "Your post has been approved and published!"
	}
	if err := h.Notifier.Notify(ctx, outcome.SubmitterID, text); err != nil {
		logger := ResolveLogger(h.Logger)
		if errors.Is(err, domainerrors.ErrUnreachable) {
			logger.Warn("submitter unreachable",
				"event", "submitter_unreachable",
				"module", "callback_router",
				"user_id", outcome.SubmitterID,
			)
			return
		}
		logger.Error("submitter notification failed",
			"event", "submitter_notify_failed",
			"module", "callback_router",
			"user_id", outcome.SubmitterID,
			"error", err.Error(),
		)
	}
}

// resolutionRecap replaces the approval controls with the final vote list.
func resolutionRecap(outcome ports.AdminVoteOutcome) string {
	var b strings.Builder
	if outcome.Approved {
		b.WriteString("Post approved and published.\n")
	} else {
		b.WriteString("Post rejected.\n")
	}
	for _, vote := range outcome.Votes {
		mark := "🟢"
		if !vote.Approved {
			mark = "🔴"
		}
		fmt.Fprintf(&b, "%s admin %d\n", mark, vote.AdminID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// VoteHandler records a reader reaction and refreshes the tally keyboard.
type VoteHandler struct {
	Tally    ports.TallyClient
	Renderer ports.Renderer
	Labels   map[string]string
	Logger   *slog.Logger
}

func (h VoteHandler) Handle(ctx context.Context, cb entities.Callback, arg string) (entities.UIDelta, error) {
	logger := ResolveLogger(h.Logger)
	outcome, ok, err := h.Tally.SetUserVote(ctx, cb.ChatID, cb.MessageID, cb.SenderID, arg)
	if err != nil {
		return entities.UIDelta{}, fmt.Errorf("set user vote: %w", err)
	}
	if !ok {
		logger.Warn("reaction vote rejected",
			"event", "reaction_vote_rejected",
			"module", "callback_router",
			"channel_id", cb.ChatID,
			"message_id", cb.MessageID,
			"category", arg,
		)
		return entities.UIDelta{}, nil
	}
	label := arg
	if mapped, found := h.Labels[arg]; found {
		label = mapped
	}
	ack := "Reaction removed."
	if outcome.WasAdded {
		ack = fmt.Sprintf("You reacted with %s", label)
	}
	keyboard := h.Renderer.RenderTally(cb.ChatID, cb.MessageID, outcome.Counts)
	return entities.UIDelta{Ack: stringPtr(ack), Keyboard: &keyboard}, nil
}

// ReportHandler files an abuse report for the replied-to channel post and,
// on the first report, opens a private exchange to collect the reason.
type ReportHandler struct {
	Reports   ports.ReportClient
	Forwarder ports.Forwarder
	Notifier  ports.Notifier
	Logger    *slog.Logger
}

func (h ReportHandler) Handle(ctx context.Context, cb entities.Callback, _ string) (entities.UIDelta, error) {
	logger := ResolveLogger(h.Logger)
	already, err := h.Reports.FileReport(ctx, cb.SenderID, cb.ChatID, cb.ReplyToMessageID)
	if err != nil {
		return entities.UIDelta{}, fmt.Errorf("file report: %w", err)
	}
	if already {
		return entities.UIDelta{
			Ack:       stringPtr("You already reported this post."),
			NextState: entities.StateEnd,
		}, nil
	}

	if err := h.Forwarder.ForwardToUser(ctx, cb.SenderID, cb.ChatID, cb.ReplyToMessageID); err != nil {
		logger.Warn("report forward failed",
			"event", "report_forward_failed",
			"module", "callback_router",
			"user_id", cb.SenderID,
			"error", err.Error(),
		)
	}
	if err := h.Notifier.Notify(ctx, cb.SenderID, "Reply with the reason for your report."); err != nil {
		logger.Warn("report prompt failed",
			"event", "report_prompt_failed",
			"module", "callback_router",
			"user_id", cb.SenderID,
			"error", err.Error(),
		)
	}
	return entities.UIDelta{
		Ack:       stringPtr("Report received, check your private chat."),
		NextState: entities.StateReportingPost,
	}, nil
}
