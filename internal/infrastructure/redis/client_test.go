package redis

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("connects and pings", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		ctx := context.Background()

		client, err := NewClient(ctx, fmt.Sprintf("redis://%s", mr.Addr()))
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		defer client.Close()

		if err := client.Set(ctx, "probe", "ok", 0).Err(); err != nil {
			t.Fatalf("set after connect: %v", err)
		}
	})

	t.Run("rejects malformed URL", func(t *testing.T) {
		t.Parallel()

		if _, err := NewClient(context.Background(), "://nope"); err == nil {
			t.Fatal("expected parse error")
		}
	})

	t.Run("fails when server is unreachable", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		url := fmt.Sprintf("redis://%s", mr.Addr())
		mr.Close()

		if _, err := NewClient(context.Background(), url); err == nil {
			t.Fatal("expected ping failure against closed server")
		}
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		url := fmt.Sprintf("redis://%s", mr.Addr())
		mr.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := NewClient(ctx, url); err == nil {
			t.Fatal("expected error with cancelled context")
		}
	})
}
