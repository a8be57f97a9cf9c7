package unit

import (
	"context"
	"errors"
	"strings"
	"testing"

	callbackrouter "spotted/contexts/post-moderation/callback-router"
	"spotted/contexts/post-moderation/callback-router/application"
	"spotted/contexts/post-moderation/callback-router/domain/entities"
	domainerrors "spotted/contexts/post-moderation/callback-router/domain/errors"
	"spotted/contexts/post-moderation/callback-router/ports"
)

type stubApproval struct {
	outcome ports.AdminVoteOutcome
	found   bool
	votes   []bool
}

func (s *stubApproval) SetAdminVote(_ context.Context, _, _, _ int64, approve bool) (ports.AdminVoteOutcome, bool, error) {
	s.votes = append(s.votes, approve)
	return s.outcome, s.found, nil
}

type stubTally struct {
	categories []string
	outcome    ports.TallyOutcome
	ok         bool
}

func (s *stubTally) SetUserVote(_ context.Context, _, _, _ int64, category string) (ports.TallyOutcome, bool, error) {
	s.categories = append(s.categories, category)
	return s.outcome, s.ok, nil
}

type stubReports struct {
	already bool
	calls   int
}

func (s *stubReports) FileReport(_ context.Context, _, _, _ int64) (bool, error) {
	s.calls++
	return s.already, nil
}

type stubSettings struct{ anonymous, credited int }

func (s *stubSettings) SetAnonymous(context.Context, int64) (bool, error) {
	s.anonymous++
	return false, nil
}

func (s *stubSettings) SetCredited(context.Context, int64) (bool, error) {
	s.credited++
	return false, nil
}

type stubSubmissions struct{ calls int }

func (s *stubSubmissions) SubmitForReview(context.Context, int64, int64, int64) (bool, error) {
	s.calls++
	return true, nil
}

type recordingEditor struct {
	textEdits     []string
	keyboardEdits int
	answers       []string
}

func (e *recordingEditor) EditText(_ context.Context, _, _ int64, text string, _ *entities.Keyboard) error {
	e.textEdits = append(e.textEdits, text)
	return nil
}

func (e *recordingEditor) EditKeyboard(_ context.Context, _, _ int64, _ entities.Keyboard) error {
	e.keyboardEdits++
	return nil
}

func (e *recordingEditor) AnswerCallback(_ context.Context, _, text string) error {
	e.answers = append(e.answers, text)
	return nil
}

type recordingNotifier struct {
	messages []string
	fail     error
}

func (n *recordingNotifier) Notify(_ context.Context, _ int64, text string) error {
	if n.fail != nil {
		return n.fail
	}
	n.messages = append(n.messages, text)
	return nil
}

type recordingForwarder struct{ calls int }

func (f *recordingForwarder) ForwardToUser(context.Context, int64, int64, int64) error {
	f.calls++
	return nil
}

type routerFixture struct {
	module      *callbackrouter.Module
	approval    *stubApproval
	tally       *stubTally
	reports     *stubReports
	settings    *stubSettings
	submissions *stubSubmissions
	editor      *recordingEditor
	notifier    *recordingNotifier
	forwarder   *recordingForwarder
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		approval:    &stubApproval{found: true},
		tally:       &stubTally{ok: true},
		reports:     &stubReports{},
		settings:    &stubSettings{},
		submissions: &stubSubmissions{},
		editor:      &recordingEditor{},
		notifier:    &recordingNotifier{},
		forwarder:   &recordingForwarder{},
	}
	module, err := callbackrouter.NewModule(callbackrouter.Dependencies{
		Approval:    f.approval,
		Tally:       f.tally,
		Reports:     f.reports,
		Settings:    f.settings,
		Submissions: f.submissions,
		Editor:      f.editor,
		Answerer:    f.editor,
		Notifier:    f.notifier,
		Forwarder:   f.forwarder,
	})
	if err != nil {
		t.Fatalf("build router module: %v", err)
	}
	f.module = module
	return f
}

func callback(data string) entities.Callback {
	return entities.Callback{
		QueryID:          "q1",
		SenderID:         50,
		ChatID:           -1001,
		MessageID:        30,
		ReplyToMessageID: 29,
		Data:             data,
	}
}

func TestDispatchRewritesLegacyVoteTokens(t *testing.T) {
	f := newRouterFixture(t)

	f.module.Router.Dispatch(context.Background(), callback("meme_vote_yes"))
	f.module.Router.Dispatch(context.Background(), callback("meme_vote_no"))

	if len(f.tally.categories) != 2 || f.tally.categories[0] != "1" || f.tally.categories[1] != "0" {
		t.Fatalf("legacy tokens must map to meme_vote 1/0, got %v", f.tally.categories)
	}
}

func TestDispatchUnknownCommandFailsOpen(t *testing.T) {
	f := newRouterFixture(t)

	state := f.module.Router.Dispatch(context.Background(), callback("meme_unknown,1"))

	if state != entities.StateNone {
		t.Fatalf("unknown command must not transition state, got %q", state)
	}
	if len(f.editor.textEdits) != 0 || f.editor.keyboardEdits != 0 {
		t.Fatal("unknown command must leave the message untouched")
	}
}

func TestDispatchVoteEditsKeyboardOnly(t *testing.T) {
	f := newRouterFixture(t)
	f.tally.outcome = ports.TallyOutcome{
		WasAdded: true,
		Counts:   []ports.CategoryCount{{Category: "1", Count: 3}},
	}

	f.module.Router.Dispatch(context.Background(), callback("meme_vote,1"))

	if f.editor.keyboardEdits != 1 {
		t.Fatalf("vote should refresh the keyboard once, got %d", f.editor.keyboardEdits)
	}
	if len(f.editor.textEdits) != 0 {
		t.Fatal("vote must not replace the message text")
	}
	if len(f.editor.answers) != 1 {
		t.Fatalf("vote should answer the query, got %d answers", len(f.editor.answers))
	}
}

func TestDispatchConfirmYesEndsDialog(t *testing.T) {
	f := newRouterFixture(t)

	state := f.module.Router.Dispatch(context.Background(), callback("meme_confirm,yes"))

	if state != entities.StateEnd {
		t.Fatalf("confirm must end the dialog, got %q", state)
	}
	if f.submissions.calls != 1 {
		t.Fatalf("confirm yes must submit once, got %d", f.submissions.calls)
	}
	if len(f.editor.textEdits) != 1 {
		t.Fatalf("confirm should replace the preview text, got %d edits", len(f.editor.textEdits))
	}
}

func TestDispatchApproveResolutionNotifiesSubmitter(t *testing.T) {
	f := newRouterFixture(t)
	f.approval.outcome = ports.AdminVoteOutcome{
		Resolved:    true,
		Approved:    true,
		SubmitterID: 99,
		Votes: []ports.AdminVoteView{
			{AdminID: 1, Approved: true},
			{AdminID: 2, Approved: true},
		},
	}

	f.module.Router.Dispatch(context.Background(), callback("meme_approve_yes"))

	if len(f.notifier.messages) != 1 {
		t.Fatalf("resolution must notify the submitter once, got %d", len(f.notifier.messages))
	}
	if len(f.editor.textEdits) != 1 || !strings.Contains(f.editor.textEdits[0], "approved") {
		t.Fatalf("resolution should replace controls with the recap, got %v", f.editor.textEdits)
	}
}

func TestDispatchApproveUnreachableSubmitterKeepsResolution(t *testing.T) {
	f := newRouterFixture(t)
	f.approval.outcome = ports.AdminVoteOutcome{
		Resolved:    true,
		SubmitterID: 99,
		Votes:       []ports.AdminVoteView{{AdminID: 1, Approved: false}},
	}
	f.notifier.fail = domainerrors.ErrUnreachable

	state := f.module.Router.Dispatch(context.Background(), callback("meme_approve_no"))

	if state != entities.StateNone {
		t.Fatalf("unreachable submitter must not change dispatch outcome, got %q", state)
	}
	if len(f.editor.textEdits) != 1 {
		t.Fatal("recap edit must still happen when the submitter is unreachable")
	}
}

func TestDispatchReportFlow(t *testing.T) {
	f := newRouterFixture(t)

	state := f.module.Router.Dispatch(context.Background(), callback("meme_report_spot"))
	if state != entities.StateReportingPost {
		t.Fatalf("first report should open the reason dialog, got %q", state)
	}
	if f.forwarder.calls != 1 {
		t.Fatalf("first report should forward the post, got %d", f.forwarder.calls)
	}
	if len(f.notifier.messages) != 1 {
		t.Fatalf("first report should prompt for a reason, got %d messages", len(f.notifier.messages))
	}

	f.reports.already = true
	state = f.module.Router.Dispatch(context.Background(), callback("meme_report_spot"))
	if state != entities.StateEnd {
		t.Fatalf("duplicate report should end the dialog, got %q", state)
	}
	if f.forwarder.calls != 1 {
		t.Fatal("duplicate report must not forward again")
	}
}

func TestNewRouterRejectsIncompleteRegistry(t *testing.T) {
	handlers := map[entities.Command]application.Handler{
		entities.CommandVote: application.VoteHandler{},
	}
	_, err := application.NewRouter(handlers, &recordingEditor{}, &recordingEditor{}, nil)
	if !errors.Is(err, domainerrors.ErrRegistryIncomplete) {
		t.Fatalf("expected ErrRegistryIncomplete, got %v", err)
	}
}
