package ratelimit

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

// fakeClock lets tests advance time manually.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(t *testing.T) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	limiter := New(&Config{
		MaxAttempts:  3,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 10,
		Clock:        clock,
	})
	t.Cleanup(limiter.Close)
	return limiter, clock
}

func TestCheckLoginAllowsFreshIdentifier(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	result := limiter.CheckLogin("coach@metro.test", "203.0.113.7")
	if !result.Allowed {
		t.Fatalf("expected fresh identifier allowed, got %+v", result)
	}
}

func TestLockoutAfterMaxFailures(t *testing.T) {
	limiter, clock := newTestLimiter(t)
	id, ip := "coach@metro.test", "203.0.113.7"

	var locked bool
	for i := 0; i < 3; i++ {
		locked = limiter.RecordFailure(id, ip)
	}
	if !locked {
		t.Fatal("expected lockout on third failure")
	}

	result := limiter.CheckLogin(id, ip)
	if result.Allowed {
		t.Fatal("expected lockout to block login")
	}
	if result.Reason != "lockout" {
		t.Errorf("reason = %q, want lockout", result.Reason)
	}
	if result.RetryAfter <= 0 || result.RetryAfter > 5*time.Minute {
		t.Errorf("retry after = %v", result.RetryAfter)
	}

	// Lockout expires.
	clock.Advance(5*time.Minute + time.Second)
	result = limiter.CheckLogin(id, ip)
	if !result.Allowed {
		t.Fatalf("expected login allowed after lockout expiry, got %+v", result)
	}
}

func TestResetAttemptsClearsCounter(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	id, ip := "coach@metro.test", "203.0.113.7"

	limiter.RecordFailure(id, ip)
	limiter.RecordFailure(id, ip)
	limiter.ResetAttempts(id)
	if locked := limiter.RecordFailure(id, ip); locked {
		t.Fatal("expected counter reset, got lockout")
	}
	if result := limiter.CheckLogin(id, ip); !result.Allowed {
		t.Fatalf("expected allowed after reset, got %+v", result)
	}
}

func TestIdentifierNormalization(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ip := "203.0.113.7"

	limiter.RecordFailure("Coach@Metro.Test", ip)
	limiter.RecordFailure("coach@metro.test", ip)
	limiter.RecordFailure("  COACH@METRO.TEST ", ip)

	result := limiter.CheckLogin("coach@metro.test", ip)
	if result.Allowed {
		t.Fatal("expected case-varied attempts to share one counter")
	}
}

func TestIPHourlyLimit(t *testing.T) {
	limiter, clock := newTestLimiter(t)
	ip := "203.0.113.7"

	for i := 0; i < 10; i++ {
		limiter.RecordFailure("user"+strconv.Itoa(i)+"@metro.test", ip)
	}

	result := limiter.CheckLogin("fresh@metro.test", ip)
	if result.Allowed {
		t.Fatal("expected IP hourly limit to block")
	}
	if result.Reason != "ip_hourly_limit" {
		t.Errorf("reason = %q, want ip_hourly_limit", result.Reason)
	}

	clock.Advance(time.Hour + time.Second)
	result = limiter.CheckLogin("fresh@metro.test", ip)
	if !result.Allowed {
		t.Fatalf("expected window reset after an hour, got %+v", result)
	}
}

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		xff        string
		trustProxy bool
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.7:54321",
			want:       "203.0.113.7",
		},
		{
			name:       "untrusted proxy ignores xff",
			remoteAddr: "10.0.0.1:54321",
			xff:        "198.51.100.9",
			want:       "10.0.0.1",
		},
		{
			name:       "trusted proxy uses rightmost public ip",
			remoteAddr: "10.0.0.1:54321",
			xff:        "198.51.100.9, 10.0.0.2",
			trustProxy: true,
			want:       "198.51.100.9",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			got := GetClientIP(req, tc.trustProxy)
			if got != tc.want {
				t.Errorf("GetClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	if got := SanitizeIdentifier("coach@metro.test"); got != "co***@metro.test" {
		t.Errorf("email sanitize = %q", got)
	}
	if got := SanitizeIdentifier("+14155550123"); got != "***0123" {
		t.Errorf("phone sanitize = %q", got)
	}
}
