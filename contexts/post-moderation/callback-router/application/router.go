package application

import (
	"context"
	"fmt"
	"log/slog"

	"spotted/contexts/post-moderation/callback-router/domain/entities"
	domainerrors "spotted/contexts/post-moderation/callback-router/domain/errors"
	"spotted/contexts/post-moderation/callback-router/ports"
)

// Handler processes one decoded callback command.
type Handler interface {
	Handle(ctx context.Context, cb entities.Callback, arg string) (entities.UIDelta, error)
}

// Router dispatches decoded callback tokens through a fixed command registry.
// Every failure mode is fail-open: the callback is logged and dropped and the
// message it came from stays usable.
type Router struct {
	handlers map[entities.Command]Handler
	editor   ports.MessageEditor
	answerer ports.CallbackAnswerer
	logger   *slog.Logger
}

// NewRouter builds a router and verifies the registry covers every command.
func NewRouter(handlers map[entities.Command]Handler, editor ports.MessageEditor, answerer ports.CallbackAnswerer, logger *slog.Logger) (*Router, error) {
	for _, command := range entities.AllCommands() {
		if handlers[command] == nil {
			return nil, fmt.Errorf("%w: %s", domainerrors.ErrRegistryIncomplete, command)
		}
	}
	return &Router{
		handlers: handlers,
		editor:   editor,
		answerer: answerer,
		logger:   ResolveLogger(logger),
	}, nil
}

// Dispatch decodes the callback data, runs the matching handler and applies
// the resulting UI delta to the originating message. It returns the state
// transition the host conversation should take.
func (r *Router) Dispatch(ctx context.Context, cb entities.Callback) entities.StateTransition {
	token, err := DecodeToken(RewriteLegacyToken(cb.Data))
	if err != nil {
		r.logger.Warn("callback dropped",
			"event", "callback_malformed",
			"module", "callback_router",
			"data", cb.Data,
		)
		return entities.StateNone
	}

	handler, ok := r.handlers[token.Command]
	if !ok {
		r.logger.Warn("callback dropped",
			"event", "callback_unknown_command",
			"module", "callback_router",
			"command", string(token.Command),
			"error", domainerrors.ErrUnknownCommand.Error(),
		)
		return entities.StateNone
	}

	delta, err := handler.Handle(ctx, cb, token.Arg)
	if err != nil {
		r.logger.Error("callback handler failed",
			"event", "callback_handler_failed",
			"module", "callback_router",
			"command", string(token.Command),
			"error", err.Error(),
		)
		return entities.StateNone
	}

	r.apply(ctx, cb, delta)
	return delta.NextState
}

// apply acknowledges the query and performs at most one message mutation:
// a text replacement carries its keyboard along, otherwise only the markup
// is swapped.
func (r *Router) apply(ctx context.Context, cb entities.Callback, delta entities.UIDelta) {
	if delta.Ack != nil {
		if err := r.answerer.AnswerCallback(ctx, cb.QueryID, *delta.Ack); err != nil {
			r.logger.Warn("callback answer failed",
				"event", "callback_answer_failed",
				"module", "callback_router",
				"error", err.Error(),
			)
		}
	}

	switch {
	case delta.Text != nil:
		if err := r.editor.EditText(ctx, cb.ChatID, cb.MessageID, *delta.Text, delta.Keyboard); err != nil {
			r.logger.Warn("message edit failed",
				"event", "callback_edit_text_failed",
				"module", "callback_router",
				"chat_id", cb.ChatID,
				"message_id", cb.MessageID,
				"error", err.Error(),
			)
		}
	case delta.Keyboard != nil:
		if err := r.editor.EditKeyboard(ctx, cb.ChatID, cb.MessageID, *delta.Keyboard); err != nil {
			r.logger.Warn("message edit failed",
				"event", "callback_edit_keyboard_failed",
				"module", "callback_router",
				"chat_id", cb.ChatID,
				"message_id", cb.MessageID,
				"error", err.Error(),
			)
		}
	}
}
