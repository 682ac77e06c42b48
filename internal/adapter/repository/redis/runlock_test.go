package redis

import (
	"context"
	"testing"
	"time"
)

func TestRunLock_AcquireThenContention(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	first := NewRunLock(client, time.Minute)
	second := NewRunLock(client, time.Minute)

	ok, err := first.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !ok {
		t.Fatal("expected first acquire to succeed")
	}

	ok, err = second.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if ok {
		t.Fatal("expected second acquire to be rejected while lease is held")
	}
}

func TestRunLock_ReleaseFreesLease(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	lock := NewRunLock(client, time.Minute)

	if _, err := lock.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	ok, err := lock.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !ok {
		t.Fatal("expected acquire to succeed after release")
	}
}

func TestRunLock_ReleaseWithoutAcquireIsNoOp(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	holder := NewRunLock(client, time.Minute)
	stranger := NewRunLock(client, time.Minute)

	if _, err := holder.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	// An instance that never acquired must not free someone else's lease.
	if err := stranger.Release(ctx); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	ok, err := stranger.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if ok {
		t.Fatal("expected lease to still be held")
	}
}

func TestRunLock_StaleReleaseIgnoredAfterExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	stale := NewRunLock(client, time.Minute)
	fresh := NewRunLock(client, time.Minute)

	if _, err := stale.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	ok, err := fresh.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !ok {
		t.Fatal("expected acquire to succeed after lease expiry")
	}

	// The stale holder's release must not delete the fresh lease.
	if err := stale.Release(ctx); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	ok, err = NewRunLock(client, time.Minute).Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if ok {
		t.Fatal("expected fresh lease to survive stale release")
	}
}
