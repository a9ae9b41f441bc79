package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok, _ := m.Get(ctx, "missing"); ok {
		t.Fatal("expected miss")
	}
	if err := m.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || value != "v" {
		t.Fatalf("Get = %q, %v, %v", value, ok, err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	now := time.Unix(1700000000, 0)
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	if err := m.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(30 * time.Second)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatal("entry should still be live")
	}
	now = now.Add(31 * time.Second)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestMemoryZeroTTLNeverExpires(t *testing.T) {
	now := time.Unix(1700000000, 0)
	m := NewMemory()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	if err := m.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(24 * time.Hour)
	if _, ok, _ := m.Get(ctx, "k"); !ok {
		t.Fatal("entry with zero ttl should not expire")
	}
}
