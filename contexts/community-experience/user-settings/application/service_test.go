package application

import (
	"context"
	"errors"
	"testing"

	"spotted/contexts/community-experience/user-settings/adapters/memory"
	domainerrors "spotted/contexts/community-experience/user-settings/domain/errors"
)

func newSettingsService() (Service, *memory.Store) {
	store := memory.NewStore()
	return Service{Repo: store, Clock: store}, store
}

func TestCreditedIsTheDefault(t *testing.T) {
	service, _ := newSettingsService()

	anonymous, err := service.IsAnonymous(context.Background(), 7)
	if err != nil {
		t.Fatalf("lookup should succeed: %v", err)
	}
	if anonymous {
		t.Fatal("a fresh user must be credited")
	}

	already, err := service.SetCredited(context.Background(), 7)
	if err != nil {
		t.Fatalf("set credited should succeed: %v", err)
	}
	if !already {
		t.Fatal("credited is the default, should report already set")
	}
}

func TestSetAnonymousTogglesAndReportsRepeats(t *testing.T) {
	service, _ := newSettingsService()

	already, err := service.SetAnonymous(context.Background(), 7)
	if err != nil {
		t.Fatalf("first set should succeed: %v", err)
	}
	if already {
		t.Fatal("first set must not report already")
	}

	anonymous, err := service.IsAnonymous(context.Background(), 7)
	if err != nil {
		t.Fatalf("lookup should succeed: %v", err)
	}
	if !anonymous {
		t.Fatal("preference should be anonymous after the set")
	}

	already, err = service.SetAnonymous(context.Background(), 7)
	if err != nil {
		t.Fatalf("repeat set should succeed: %v", err)
	}
	if !already {
		t.Fatal("repeat set must report already")
	}

	already, err = service.SetCredited(context.Background(), 7)
	if err != nil {
		t.Fatalf("switch back should succeed: %v", err)
	}
	if already {
		t.Fatal("switch back changes the stored value, must not report already")
	}
	anonymous, err = service.IsAnonymous(context.Background(), 7)
	if err != nil {
		t.Fatalf("lookup should succeed: %v", err)
	}
	if anonymous {
		t.Fatal("preference should be credited again")
	}
}

func TestSettingsRejectZeroUser(t *testing.T) {
	service, _ := newSettingsService()

	if _, err := service.SetAnonymous(context.Background(), 0); !errors.Is(err, domainerrors.ErrInvalidUserInput) {
		t.Fatalf("expected ErrInvalidUserInput, got %v", err)
	}
	if _, err := service.IsAnonymous(context.Background(), 0); !errors.Is(err, domainerrors.ErrInvalidUserInput) {
		t.Fatalf("expected ErrInvalidUserInput, got %v", err)
	}
}
