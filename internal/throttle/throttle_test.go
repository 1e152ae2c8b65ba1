package throttle_test

import (
	"context"
	"testing"
	"time"

	"github.com/ErlanBelekov/travel-buddy/internal/throttle"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newCooldownForTest(t *testing.T, cooldown time.Duration) (*miniredis.Miniredis, *throttle.RedisCooldown) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return m, throttle.NewRedisCooldown(client, "test", cooldown)
}

func TestRedisCooldown_SecondResendInsideWindowDenied(t *testing.T) {
	m, c := newCooldownForTest(t, time.Minute)
	ctx := context.Background()

	ok, err := c.Allow(ctx, "test@example.com")
	if err != nil || !ok {
		t.Fatalf("first Allow = %v, %v; want true, nil", ok, err)
	}
	ok, err = c.Allow(ctx, " TEST@example.com")
	if err != nil {
		t.Fatalf("second Allow: %v", err)
	}
	if ok {
		t.Fatal("second resend inside the window should be denied")
	}

	m.FastForward(61 * time.Second)
	ok, err = c.Allow(ctx, "test@example.com")
	if err != nil || !ok {
		t.Fatalf("Allow after window = %v, %v; want true, nil", ok, err)
	}
}

func TestRedisCooldown_PerEmail(t *testing.T) {
	_, c := newCooldownForTest(t, time.Minute)
	ctx := context.Background()

	if ok, _ := c.Allow(ctx, "a@example.com"); !ok {
		t.Fatal("a@example.com denied")
	}
	if ok, _ := c.Allow(ctx, "b@example.com"); !ok {
		t.Fatal("b@example.com denied by a@example.com's window")
	}
}

func TestRedisCooldown_KeyDoesNotContainEmail(t *testing.T) {
	m, c := newCooldownForTest(t, time.Minute)
	if _, err := c.Allow(context.Background(), "secret@example.com"); err != nil {
		t.Fatalf("Allow: %v", err)
	}
	for _, k := range m.Keys() {
		if k == "test:secret@example.com" {
			t.Fatalf("raw email stored as key %q", k)
		}
	}
	if len(m.Keys()) != 1 {
		t.Fatalf("keys = %v, want exactly one", m.Keys())
	}
}

func TestRedisCooldown_BackendDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 20 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if _, err := throttle.NewRedisCooldown(client, "", time.Minute).Allow(ctx, "test@example.com"); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
}

func TestRedisCooldown_NilClient(t *testing.T) {
	if _, err := throttle.NewRedisCooldown(nil, "", time.Minute).Allow(context.Background(), "x@example.com"); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestUnlimited(t *testing.T) {
	for i := 0; i < 3; i++ {
		if ok, err := (throttle.Unlimited{}).Allow(context.Background(), "test@example.com"); !ok || err != nil {
			t.Fatalf("Unlimited.Allow = %v, %v", ok, err)
		}
	}
}
