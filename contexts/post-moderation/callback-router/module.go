package callbackrouter

import (
	"log/slog"

	"spotted/contexts/post-moderation/callback-router/application"
	"spotted/contexts/post-moderation/callback-router/domain/entities"
	"spotted/contexts/post-moderation/callback-router/ports"
)

// Module aggregates the callback routing surface.
type Module struct {
	Router   *application.Router
	Renderer ports.Renderer
}

// Dependencies carries the collaborators required to assemble the module.
// Clients are implemented by the composition root so the router never
// imports another bounded context directly.
type Dependencies struct {
	Approval    ports.ApprovalClient
	Tally       ports.TallyClient
	Reports     ports.ReportClient
	Settings    ports.SettingsClient
	Submissions ports.SubmissionClient
	Editor      ports.MessageEditor
	Answerer    ports.CallbackAnswerer
	Notifier    ports.Notifier
	Forwarder   ports.Forwarder
	Labels      map[string]string
	Logger      *slog.Logger
}

// NewModule wires the handler registry and builds the router. It fails when
// the registry cannot be completed from the given dependencies.
func NewModule(deps Dependencies) (*Module, error) {
	renderer := application.KeyboardRenderer{Labels: deps.Labels}
	handlers := map[entities.Command]application.Handler{
		entities.CommandConfirm: application.ConfirmHandler{
			Submissions: deps.Submissions,
			Logger:      deps.Logger,
		},
		entities.CommandSettings: application.SettingsHandler{
			Settings: deps.Settings,
			Logger:   deps.Logger,
		},
		entities.CommandApproveYes: application.ApproveHandler{
			Approval: deps.Approval,
			Renderer: renderer,
			Notifier: deps.Notifier,
			Approve:  true,
			Logger:   deps.Logger,
		},
		entities.CommandApproveNo: application.ApproveHandler{
			Approval: deps.Approval,
			Renderer: renderer,
			Notifier: deps.Notifier,
			Approve:  false,
			Logger:   deps.Logger,
		},
		entities.CommandVote: application.VoteHandler{
			Tally:    deps.Tally,
			Renderer: renderer,
			Labels:   deps.Labels,
			Logger:   deps.Logger,
		},
		entities.CommandReport: application.ReportHandler{
			Reports:   deps.Reports,
			Forwarder: deps.Forwarder,
			Notifier:  deps.Notifier,
			Logger:    deps.Logger,
		},
	}

	router, err := application.NewRouter(handlers, deps.Editor, deps.Answerer, deps.Logger)
	if err != nil {
		return nil, err
	}
	return &Module{Router: router, Renderer: renderer}, nil
}
