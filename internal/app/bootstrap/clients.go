package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	approvalcommands "spotted/contexts/post-moderation/approval-engine/application/commands"
	approvalentities "spotted/contexts/post-moderation/approval-engine/domain/entities"
	approvalerrors "spotted/contexts/post-moderation/approval-engine/domain/errors"
	routerentities "spotted/contexts/post-moderation/callback-router/domain/entities"
	routererrors "spotted/contexts/post-moderation/callback-router/domain/errors"
	routerports "spotted/contexts/post-moderation/callback-router/ports"
	tallycommands "spotted/contexts/post-moderation/reaction-tally/application/commands"
	tallyentities "spotted/contexts/post-moderation/reaction-tally/domain/entities"
	tallyerrors "spotted/contexts/post-moderation/reaction-tally/domain/errors"
	tallyports "spotted/contexts/post-moderation/reaction-tally/ports"
	reportcommands "spotted/contexts/post-moderation/report-guard/application/commands"
	"spotted/internal/platform/telegram"
)

// The adapters below glue the callback router's client ports onto the
// engines and the Telegram client. Keeping them here preserves the module
// boundary: contexts never import each other, only the composition root
// knows them all.

func toReplyMarkup(keyboard routerentities.Keyboard) *telegram.ReplyMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]telegram.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, telegram.InlineKeyboardButton{
				Text:         button.Text,
				CallbackData: button.CallbackData,
			})
		}
		rows = append(rows, buttons)
	}
	return &telegram.ReplyMarkup{InlineKeyboard: rows}
}

type approvalClient struct {
	votes  approvalcommands.AdminVoteUseCase
	quorum int
}

var _ routerports.ApprovalClient = approvalClient{}

func (c approvalClient) SetAdminVote(ctx context.Context, groupID, messageID, adminID int64, approve bool) (routerports.AdminVoteOutcome, bool, error) {
	result, err := c.votes.SetAdminVote(ctx, approvalcommands.SetAdminVoteCommand{
		Post:    approvalentities.PostID{GroupID: groupID, MessageID: messageID},
		AdminID: adminID,
		Approve: approve,
		Quorum:  c.quorum,
	})
	if errors.Is(err, approvalerrors.ErrPostNotFound) {
		return routerports.AdminVoteOutcome{}, false, nil
	}
	if err != nil {
		return routerports.AdminVoteOutcome{}, false, err
	}

	outcome := routerports.AdminVoteOutcome{
		NoChange:    result.NoChange,
		Resolved:    result.Outcome != approvalentities.OutcomeNone,
		Approved:    result.Outcome == approvalentities.OutcomeApproved,
		SubmitterID: result.SubmitterID,
	}
	for _, vote := range result.Votes {
		if vote.Approved {
			outcome.Approvals++
		} else {
			outcome.Rejections++
		}
		outcome.Votes = append(outcome.Votes, routerports.AdminVoteView{
			AdminID:  vote.AdminID,
			Approved: vote.Approved,
		})
	}
	return outcome, true, nil
}

type tallyClient struct {
	votes      tallycommands.UserVoteUseCase
	categories []string
}

var _ routerports.TallyClient = tallyClient{}

func (c tallyClient) SetUserVote(ctx context.Context, channelID, messageID, voterID int64, category string) (routerports.TallyOutcome, bool, error) {
	result, err := c.votes.SetUserVote(ctx, tallycommands.SetUserVoteCommand{
		Post:       tallyentities.PostID{ChannelID: channelID, MessageID: messageID},
		VoterID:    voterID,
		Category:   category,
		Categories: c.categories,
	})
	switch {
	case errors.Is(err, tallyerrors.ErrInvalidCategory), errors.Is(err, tallyerrors.ErrPostNotFound):
		return routerports.TallyOutcome{}, false, nil
	case err != nil:
		return routerports.TallyOutcome{}, false, err
	}

	outcome := routerports.TallyOutcome{WasAdded: result.WasAdded}
	for _, count := range result.Counts {
		outcome.Counts = append(outcome.Counts, routerports.CategoryCount{
			Category: count.Category,
			Count:    count.Count,
		})
	}
	return outcome, true, nil
}

type reportClient struct {
	reports reportcommands.ReportUseCase
}

var _ routerports.ReportClient = reportClient{}

func (c reportClient) FileReport(ctx context.Context, reporterID, channelID, messageID int64) (bool, error) {
	return c.reports.FileReport(ctx, reportcommands.FileReportCommand{
		ReporterID: reporterID,
		ChannelID:  channelID,
		MessageID:  messageID,
	})
}

// submissionService copies the confirmed message into the admin group with a
// fresh approval keyboard and registers it as pending under the new message
// identity.
type submissionService struct {
	client   *telegram.Client
	intake   approvalcommands.CreatePendingUseCase
	renderer routerports.Renderer
	groupID  int64
}

var _ routerports.SubmissionClient = submissionService{}

func (s submissionService) SubmitForReview(ctx context.Context, userChatID, userMessageID, submitterID int64) (bool, error) {
	markup := toReplyMarkup(s.renderer.RenderApproval(0, 0))
	sent, err := s.client.CopyMessage(ctx, s.groupID, userChatID, userMessageID, markup)
	if err != nil {
		return false, fmt.Errorf("copy submission to review group: %w", err)
	}
	err = s.intake.Execute(ctx, approvalcommands.CreatePendingCommand{
		Post:        approvalentities.PostID{GroupID: s.groupID, MessageID: sent.MessageID},
		SubmitterID: submitterID,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// channelPublisher materializes an approved post in the publication channel.
// It runs inside the winning approval transaction, so the copy happens at
// most once per post. In memory mode it also seeds the tally store; the
// postgres path creates the published row in the same transaction instead.
type channelPublisher struct {
	client     *telegram.Client
	renderer   routerports.Renderer
	categories []string
	channelID  int64
	published  tallyports.PublishedPostStore
	logger     *slog.Logger
}

func (p channelPublisher) PublishPost(ctx context.Context, post approvalentities.PendingPost) (approvalentities.PublishedRef, error) {
	counts := make([]routerports.CategoryCount, 0, len(p.categories))
	for _, category := range p.categories {
		counts = append(counts, routerports.CategoryCount{Category: category})
	}
	markup := toReplyMarkup(p.renderer.RenderTally(p.channelID, 0, counts))

	sent, err := p.client.CopyMessage(ctx, p.channelID, post.ID.GroupID, post.ID.MessageID, markup)
	if err != nil {
		return approvalentities.PublishedRef{}, fmt.Errorf("copy post to channel: %w", err)
	}
	ref := approvalentities.PublishedRef{ChannelID: p.channelID, MessageID: sent.MessageID}

	if p.published != nil {
		now := time.Now().UTC()
		record := tallyentities.PublishedPost{
			ID:        tallyentities.PostID{ChannelID: ref.ChannelID, MessageID: ref.MessageID},
			Reactions: map[int64]string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := p.published.CreatePublished(ctx, record); err != nil && !errors.Is(err, tallyerrors.ErrPostExists) {
			p.logger.Error("tally seed failed",
				"event", "bootstrap_tally_seed_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"channel_id", ref.ChannelID,
				"message_id", ref.MessageID,
				"error", err.Error(),
			)
		}
	}
	return ref, nil
}

type telegramEditor struct {
	client *telegram.Client
}

var (
	_ routerports.MessageEditor    = telegramEditor{}
	_ routerports.CallbackAnswerer = telegramEditor{}
)

func (e telegramEditor) EditText(ctx context.Context, chatID, messageID int64, text string, keyboard *routerentities.Keyboard) error {
	var markup *telegram.ReplyMarkup
	if keyboard != nil {
		markup = toReplyMarkup(*keyboard)
	}
	return e.client.EditMessageText(ctx, chatID, messageID, text, markup)
}

func (e telegramEditor) EditKeyboard(ctx context.Context, chatID, messageID int64, keyboard routerentities.Keyboard) error {
	return e.client.EditMessageReplyMarkup(ctx, chatID, messageID, *toReplyMarkup(keyboard))
}

func (e telegramEditor) AnswerCallback(ctx context.Context, queryID, text string) error {
	return e.client.AnswerCallbackQuery(ctx, queryID, text)
}

type telegramNotifier struct {
	client *telegram.Client
}

var _ routerports.Notifier = telegramNotifier{}

func (n telegramNotifier) Notify(ctx context.Context, userID int64, text string) error {
	_, err := n.client.SendMessage(ctx, userID, text, nil)
	if errors.Is(err, telegram.ErrForbidden) {
		return fmt.Errorf("%w: user %d", routererrors.ErrUnreachable, userID)
	}
	return err
}

type telegramForwarder struct {
	client *telegram.Client
}

var _ routerports.Forwarder = telegramForwarder{}

func (f telegramForwarder) ForwardToUser(ctx context.Context, userID, fromChatID, messageID int64) error {
	_, err := f.client.ForwardMessage(ctx, userID, fromChatID, messageID)
	return err
}

// groupBanner evicts a user from the submission group when the warn service
// reports a threshold crossing.
type groupBanner struct {
	client  *telegram.Client
	groupID int64
}

func (b groupBanner) BanUser(ctx context.Context, userID int64) error {
	return b.client.BanChatMember(ctx, b.groupID, userID)
}
