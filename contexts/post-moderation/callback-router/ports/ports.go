package ports

import (
	"context"

	"spotted/contexts/post-moderation/callback-router/domain/entities"
)

// AdminVoteView is one recorded admin decision, used for the recap text.
type AdminVoteView struct {
	AdminID  int64
	Approved bool
}

// AdminVoteOutcome reports the effect of an admin approval vote.
type AdminVoteOutcome struct {
	NoChange    bool
	Approvals   int
	Rejections  int
	Resolved    bool
	Approved    bool
	SubmitterID int64
	Votes       []AdminVoteView
}

// ApprovalClient records admin approval votes against a pending post.
// The boolean result reports whether the post was still pending.
type ApprovalClient interface {
	SetAdminVote(ctx context.Context, groupID, messageID, adminID int64, approve bool) (AdminVoteOutcome, bool, error)
}

// CategoryCount is a reaction category with its current tally.
type CategoryCount struct {
	Category string
	Count    int
}

// TallyOutcome reports the effect of a reader reaction vote.
type TallyOutcome struct {
	WasAdded bool
	Counts   []CategoryCount
}

// TallyClient records reader reactions against a published post. The boolean
// result reports whether the vote was accepted; a retracted-then-missing post
// or an unknown category yields false with no error.
type TallyClient interface {
	SetUserVote(ctx context.Context, channelID, messageID, voterID int64, category string) (TallyOutcome, bool, error)
}

// ReportClient files abuse reports. The boolean result reports whether the
// same reporter had already reported the same message.
type ReportClient interface {
	FileReport(ctx context.Context, reporterID, channelID, messageID int64) (bool, error)
}

// SettingsClient updates per-user posting preferences. The boolean result
// reports whether the preference was already in the requested state.
type SettingsClient interface {
	SetAnonymous(ctx context.Context, userID int64) (bool, error)
	SetCredited(ctx context.Context, userID int64) (bool, error)
}

// SubmissionClient moves a confirmed user submission into the review queue.
type SubmissionClient interface {
	SubmitForReview(ctx context.Context, userChatID, userMessageID, submitterID int64) (bool, error)
}

// MessageEditor mutates the message that carried a callback.
type MessageEditor interface {
	EditText(ctx context.Context, chatID, messageID int64, text string, keyboard *entities.Keyboard) error
	EditKeyboard(ctx context.Context, chatID, messageID int64, keyboard entities.Keyboard) error
}

// CallbackAnswerer acknowledges a callback query, optionally with a toast.
type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, queryID, text string) error
}

// Notifier delivers a private message to a user. Implementations return
// an error wrapping errors.ErrUnreachable when the chat cannot be opened.
type Notifier interface {
	Notify(ctx context.Context, userID int64, text string) error
}

// Forwarder copies a channel message into a user's private chat.
type Forwarder interface {
	ForwardToUser(ctx context.Context, userID, fromChatID, messageID int64) error
}

// Renderer builds the inline keyboards the handlers attach to messages.
type Renderer interface {
	RenderApproval(approvals, rejections int) entities.Keyboard
	RenderTally(channelID, messageID int64, counts []CategoryCount) entities.Keyboard
}
