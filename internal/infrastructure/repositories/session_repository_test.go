package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/xenithra/authcore/domain"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func testSession(id string, createdAt time.Time) *domain.Session {
	return &domain.Session{
		ID:             id,
		UserID:         1,
		Role:           domain.RoleUser,
		ClientIP:       "127.0.0.1",
		UserAgent:      "test-agent",
		CreatedAt:      createdAt,
		LastActivityAt: createdAt,
	}
}

func TestSessionRepositoryImpl_CreateAndFind(t *testing.T) {
	client := setupTestRedis(t)
	repo := NewSessionRepository(client, 24*time.Hour)
	ctx := context.Background()

	session := testSession("sess_1_1", time.Now())
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.FindByID(ctx, "sess_1_1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.UserID != 1 {
		t.Errorf("expected user id 1, got %d", found.UserID)
	}
	if found.Role != domain.RoleUser {
		t.Errorf("expected role user, got %s", found.Role)
	}
	if found.ClientIP != "127.0.0.1" {
		t.Errorf("expected client ip preserved, got %s", found.ClientIP)
	}
}

func TestSessionRepositoryImpl_FindByID_NotFound(t *testing.T) {
	repo := NewSessionRepository(setupTestRedis(t), 24*time.Hour)

	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepositoryImpl_LazyExpiry(t *testing.T) {
	client := setupTestRedis(t)
	repo := NewSessionRepository(client, 24*time.Hour)
	ctx := context.Background()

	// A record past its TTL must be invalid even though the key still
	// exists and no sweep has run.
	stale := testSession("sess_1_old", time.Now().Add(-25*time.Hour))
	if err := repo.Create(ctx, stale); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := repo.FindByID(ctx, "sess_1_old")
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}

	// Lazy expiry also removes the record.
	_, err = repo.FindByID(ctx, "sess_1_old")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after lazy removal, got %v", err)
	}
}

func TestSessionRepositoryImpl_Touch(t *testing.T) {
	client := setupTestRedis(t)
	repo := NewSessionRepository(client, 24*time.Hour)
	ctx := context.Background()

	createdAt := time.Now().Add(-time.Hour)
	if err := repo.Create(ctx, testSession("sess_1_1", createdAt)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Touch(ctx, "sess_1_1"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	found, err := repo.FindByID(ctx, "sess_1_1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if !found.LastActivityAt.After(createdAt) {
		t.Error("expected last-activity to move forward on touch")
	}
	// Touch must not extend the session lifetime.
	if found.CreatedAt.Sub(createdAt).Abs() > time.Second {
		t.Errorf("expected CreatedAt unchanged, got %v", found.CreatedAt)
	}
}

func TestSessionRepositoryImpl_Touch_ExpiredSession(t *testing.T) {
	repo := NewSessionRepository(setupTestRedis(t), 24*time.Hour)
	ctx := context.Background()

	stale := testSession("sess_1_old", time.Now().Add(-25*time.Hour))
	if err := repo.Create(ctx, stale); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Touch(ctx, "sess_1_old"); !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
}

func TestSessionRepositoryImpl_Delete(t *testing.T) {
	repo := NewSessionRepository(setupTestRedis(t), 24*time.Hour)
	ctx := context.Background()

	if err := repo.Create(ctx, testSession("sess_1_1", time.Now())); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Delete(ctx, "sess_1_1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.FindByID(ctx, "sess_1_1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestSessionRepositoryImpl_DeleteExpired(t *testing.T) {
	client := setupTestRedis(t)
	repo := NewSessionRepository(client, 24*time.Hour)
	ctx := context.Background()

	if err := repo.Create(ctx, testSession("sess_live", time.Now())); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, testSession("sess_stale_1", time.Now().Add(-25*time.Hour))); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, testSession("sess_stale_2", time.Now().Add(-48*time.Hour))); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	removed, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed sessions, got %d", removed)
	}

	if _, err := repo.FindByID(ctx, "sess_live"); err != nil {
		t.Errorf("expected live session to survive the sweep, got %v", err)
	}
}
