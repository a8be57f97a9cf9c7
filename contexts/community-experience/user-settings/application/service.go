package application

import (
	"context"
	"log/slog"

	domainerrors "spotted/contexts/community-experience/user-settings/domain/errors"
	"spotted/contexts/community-experience/user-settings/ports"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

// SetAnonymous marks the user's future posts anonymous. The boolean result
// reports whether the preference was already set that way.
func (s Service) SetAnonymous(ctx context.Context, userID int64) (bool, error) {
	return s.set(ctx, userID, true)
}

// SetCredited marks the user's future posts as signed with their username.
// The boolean result reports whether the preference was already set that way.
func (s Service) SetCredited(ctx context.Context, userID int64) (bool, error) {
	return s.set(ctx, userID, false)
}

// IsAnonymous reports the effective preference; users without a stored
// record are credited.
func (s Service) IsAnonymous(ctx context.Context, userID int64) (bool, error) {
	if userID == 0 {
		return false, domainerrors.ErrInvalidUserInput
	}
	settings, found, err := s.Repo.GetSettings(ctx, userID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return settings.Anonymous, nil
}

func (s Service) set(ctx context.Context, userID int64, anonymous bool) (bool, error) {
	if userID == 0 {
		return false, domainerrors.ErrInvalidUserInput
	}
	settings, found, err := s.Repo.GetSettings(ctx, userID)
	if err != nil {
		return false, err
	}
	if found && settings.Anonymous == anonymous {
		return true, nil
	}
	if !found && !anonymous {
		// Credited is the default, nothing to store.
		return true, nil
	}

	settings.UserID = userID
	settings.Anonymous = anonymous
	settings.UpdatedAt = s.Clock.Now().UTC()
	if err := s.Repo.SaveSettings(ctx, settings); err != nil {
		return false, err
	}

	resolveLogger(s.Logger).Info("user preference updated",
		"event", "user_settings_updated",
		"module", "community-experience/user-settings",
		"layer", "application",
		"user_id", userID,
		"anonymous", anonymous,
	)
	return false, nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
