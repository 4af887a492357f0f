package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = Noop{}
	_ Cache = (*Memory)(nil)
)

func TestMemory_SetGetExpire(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(func() time.Time { return now })
	ctx := context.Background()

	type stats struct{ Parents int }
	if err := m.Set(ctx, "stats", stats{Parents: 4}, 30*time.Second); err != nil {
		t.Fatal(err)
	}
	var got stats
	if err := m.Get(ctx, "stats", &got); err != nil || got.Parents != 4 {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	now = now.Add(31 * time.Second)
	if err := m.Get(ctx, "stats", &got); !errors.Is(err, ErrMiss) {
		t.Errorf("expired Get = %v, want ErrMiss", err)
	}
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()
	m.Set(ctx, "a", 1, time.Minute)
	m.Delete(ctx, "a")
	var v int
	if err := m.Get(ctx, "a", &v); !errors.Is(err, ErrMiss) {
		t.Errorf("Get after Delete = %v", err)
	}
}

func TestNoop(t *testing.T) {
	var v int
	if err := (Noop{}).Get(context.Background(), "x", &v); !errors.Is(err, ErrMiss) {
		t.Errorf("Noop.Get = %v", err)
	}
}
