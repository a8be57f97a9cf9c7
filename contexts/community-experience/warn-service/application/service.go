package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "spotted/contexts/community-experience/warn-service/domain/errors"
	"spotted/contexts/community-experience/warn-service/ports"
)

// WarnCommand carries one warning along with the policy in force when it was
// issued. Threshold and expiry travel with the call so a config reload never
// changes the meaning of an in-flight warning.
type WarnCommand struct {
	UserID         int64
	AdminID        int64
	Reason         string
	MaxWarns       int
	ExpirationDays int
}

// WarnResult reports the active warn count after the new warning and whether
// this warning triggered the ban.
type WarnResult struct {
	Count  int
	Banned bool
}

type Service struct {
	Repo   ports.Repository
	Banner ports.Banner
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Warn records a warning and bans the user when the active count reaches the
// threshold. The ban fires only on the warning that crosses the line, so
// repeat warnings against an already banned user stay idempotent.
func (s Service) Warn(ctx context.Context, cmd WarnCommand) (WarnResult, error) {
	if cmd.UserID == 0 || cmd.AdminID == 0 || cmd.MaxWarns < 1 || cmd.ExpirationDays < 1 {
		return WarnResult{}, domainerrors.ErrInvalidWarnInput
	}

	now := s.Clock.Now().UTC()
	warnID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return WarnResult{}, err
	}
	warn := ports.Warn{
		WarnID:    warnID,
		UserID:    cmd.UserID,
		AdminID:   cmd.AdminID,
		Reason:    strings.TrimSpace(cmd.Reason),
		CreatedAt: now,
	}
	count, err := s.Repo.RecordWarn(ctx, warn, cutoff(now, cmd.ExpirationDays))
	if err != nil {
		return WarnResult{}, err
	}

	result := WarnResult{Count: count}
	if count == cmd.MaxWarns {
		if err := s.Banner.BanUser(ctx, cmd.UserID); err != nil {
			return result, errors.Join(domainerrors.ErrBanFailed, err)
		}
		result.Banned = true
		resolveLogger(s.Logger).Warn("user banned",
			"event", "user_banned",
			"module", "community-experience/warn-service",
			"layer", "application",
			"user_id", cmd.UserID,
			"warns", count,
		)
	}

	resolveLogger(s.Logger).Info("warning recorded",
		"event", "warning_recorded",
		"module", "community-experience/warn-service",
		"layer", "application",
		"user_id", cmd.UserID,
		"admin_id", cmd.AdminID,
		"warns", count,
	)
	return result, nil
}

// ActiveWarns reports the current non-expired warn count for a user.
func (s Service) ActiveWarns(ctx context.Context, userID int64, expirationDays int) (int, error) {
	if userID == 0 || expirationDays < 1 {
		return 0, domainerrors.ErrInvalidWarnInput
	}
	return s.Repo.CountActiveWarns(ctx, userID, cutoff(s.Clock.Now().UTC(), expirationDays))
}

func cutoff(now time.Time, expirationDays int) time.Time {
	return now.AddDate(0, 0, -expirationDays)
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
