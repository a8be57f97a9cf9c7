package entities

// Command tags an inbound callback token with the operation it requests.
type Command string

const (
	CommandConfirm    Command = "meme_confirm"
	CommandSettings   Command = "meme_settings"
	CommandApproveYes Command = "meme_approve_yes"
	CommandApproveNo  Command = "meme_approve_no"
	CommandVote       Command = "meme_vote"
	CommandReport     Command = "meme_report_spot"
)

// AllCommands enumerates every command the registry must cover.
func AllCommands() []Command {
	return []Command{
		CommandConfirm,
		CommandSettings,
		CommandApproveYes,
		CommandApproveNo,
		CommandVote,
		CommandReport,
	}
}

// Token is a decoded callback payload.
type Token struct {
	Command Command
	Arg     string
}

// Callback carries the fields of an inbound callback query the handlers need.
type Callback struct {
	QueryID          string
	SenderID         int64
	SenderUsername   string
	ChatID           int64
	MessageID        int64
	ReplyToMessageID int64
	Data             string
}

// Button is a single inline keyboard button.
type Button struct {
	Text         string
	CallbackData string
}

// Keyboard is an inline keyboard layout, one slice per row.
type Keyboard [][]Button

// StateTransition signals the conversation state the host should move to
// after a callback is handled. StateNone means stay where you are.
type StateTransition string

const (
	StateNone          StateTransition = ""
	StateEnd           StateTransition = "end"
	StateReportingPost StateTransition = "reporting_post"
)

// UIDelta describes the mutation a handler wants applied to the message that
// carried the callback. Text and Keyboard are alternatives: when Text is set
// the keyboard accompanies the new text, otherwise only the markup changes.
type UIDelta struct {
	Text      *string
	Keyboard  *Keyboard
	Ack       *string
	NextState StateTransition
}
