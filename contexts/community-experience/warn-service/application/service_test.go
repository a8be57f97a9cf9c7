package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spotted/contexts/community-experience/warn-service/adapters/memory"
	domainerrors "spotted/contexts/community-experience/warn-service/domain/errors"
)

type recordingBanner struct {
	mu     sync.Mutex
	banned []int64
	fail   bool
}

func (b *recordingBanner) BanUser(_ context.Context, userID int64) error {
	if b.fail {
		return errors.New("ban api rejected")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.banned = append(b.banned, userID)
	return nil
}

func (b *recordingBanner) bans() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int64(nil), b.banned...)
}

func newWarnService(banner *recordingBanner) (Service, *memory.Store) {
	store := memory.NewStore()
	return Service{
		Repo:   store,
		Banner: banner,
		Clock:  store,
		IDGen:  store,
	}, store
}

func TestWarnBansExactlyAtThreshold(t *testing.T) {
	banner := &recordingBanner{}
	service, _ := newWarnService(banner)
	cmd := WarnCommand{UserID: 5, AdminID: 1, MaxWarns: 3, ExpirationDays: 30}

	for i := 1; i <= 2; i++ {
		result, err := service.Warn(context.Background(), cmd)
		if err != nil {
			t.Fatalf("warn %d should succeed: %v", i, err)
		}
		if result.Banned {
			t.Fatalf("warn %d is below threshold, must not ban", i)
		}
	}

	result, err := service.Warn(context.Background(), cmd)
	if err != nil {
		t.Fatalf("threshold warn should succeed: %v", err)
	}
	if !result.Banned || result.Count != 3 {
		t.Fatalf("third warn should ban, got %+v", result)
	}
	if len(banner.banned) != 1 || banner.banned[0] != 5 {
		t.Fatalf("ban must fire exactly once, got %v", banner.banned)
	}

	// A warn past the threshold must not ban again.
	result, err = service.Warn(context.Background(), cmd)
	if err != nil {
		t.Fatalf("post-ban warn should still record: %v", err)
	}
	if result.Banned {
		t.Fatal("ban must not repeat past the threshold")
	}
	if len(banner.banned) != 1 {
		t.Fatalf("banner should have one call, got %d", len(banner.banned))
	}
}

func TestConcurrentWarnsBanOnce(t *testing.T) {
	banner := &recordingBanner{}
	service, _ := newWarnService(banner)
	cmd := WarnCommand{UserID: 5, AdminID: 1, MaxWarns: 2, ExpirationDays: 30}

	if _, err := service.Warn(context.Background(), cmd); err != nil {
		t.Fatalf("seed warn should succeed: %v", err)
	}

	// Two admins warn at once while the user sits one warn below the
	// threshold. The per-user serialization in the store hands each warn a
	// distinct count, so exactly one lands on the threshold.
	var wg sync.WaitGroup
	results := make([]WarnResult, 2)
	for i := range results {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			result, err := service.Warn(context.Background(), WarnCommand{
				UserID: 5, AdminID: int64(10 + slot), MaxWarns: 2, ExpirationDays: 30,
			})
			if err != nil {
				t.Errorf("concurrent warn should succeed: %v", err)
				return
			}
			results[slot] = result
		}(i)
	}
	wg.Wait()

	if got := banner.bans(); len(got) != 1 || got[0] != 5 {
		t.Fatalf("exactly one concurrent warn must ban, got %v", got)
	}
	bannedResults := 0
	for _, result := range results {
		if result.Banned {
			bannedResults++
		}
	}
	if bannedResults != 1 {
		t.Fatalf("exactly one result should report the ban, got %d", bannedResults)
	}
}

func TestWarnExpiryWindowExcludesOldWarns(t *testing.T) {
	banner := &recordingBanner{}
	service, store := newWarnService(banner)
	cmd := WarnCommand{UserID: 5, AdminID: 1, MaxWarns: 2, ExpirationDays: 30}

	store.SetNow(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	if _, err := service.Warn(context.Background(), cmd); err != nil {
		t.Fatalf("old warn should succeed: %v", err)
	}

	store.SetNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	result, err := service.Warn(context.Background(), cmd)
	if err != nil {
		t.Fatalf("recent warn should succeed: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("expired warn must not count, got %d", result.Count)
	}
	if result.Banned {
		t.Fatal("expired warns must not trigger the ban")
	}

	count, err := service.ActiveWarns(context.Background(), 5, 30)
	if err != nil {
		t.Fatalf("active warns query should succeed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one active warn, got %d", count)
	}
}

func TestWarnBanFailureSurfaces(t *testing.T) {
	banner := &recordingBanner{fail: true}
	service, _ := newWarnService(banner)
	cmd := WarnCommand{UserID: 5, AdminID: 1, MaxWarns: 1, ExpirationDays: 30}

	result, err := service.Warn(context.Background(), cmd)
	if !errors.Is(err, domainerrors.ErrBanFailed) {
		t.Fatalf("expected ErrBanFailed, got %v", err)
	}
	if result.Banned {
		t.Fatal("failed ban must not report as banned")
	}
}

func TestWarnValidatesInput(t *testing.T) {
	service, _ := newWarnService(&recordingBanner{})

	_, err := service.Warn(context.Background(), WarnCommand{UserID: 0, AdminID: 1, MaxWarns: 3, ExpirationDays: 30})
	if !errors.Is(err, domainerrors.ErrInvalidWarnInput) {
		t.Fatalf("zero user id should be rejected, got %v", err)
	}
	_, err = service.Warn(context.Background(), WarnCommand{UserID: 5, AdminID: 1, MaxWarns: 0, ExpirationDays: 30})
	if !errors.Is(err, domainerrors.ErrInvalidWarnInput) {
		t.Fatalf("non-positive threshold should be rejected, got %v", err)
	}
}
