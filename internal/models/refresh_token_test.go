package models

import (
	"testing"
	"time"
)

func TestRefreshTokenActive(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		token RefreshToken
		want  bool
	}{
		{"live token", RefreshToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired token", RefreshToken{ExpiresAt: now.Add(-time.Minute)}, false},
		{"revoked token", RefreshToken{ExpiresAt: now.Add(time.Hour), IsRevoked: true}, false},
		{"expires exactly now", RefreshToken{ExpiresAt: now}, false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.Active(now); got != tt.want {
				t.Fatalf("Active=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestRefreshTokenRevoke(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	token := RefreshToken{ExpiresAt: now.Add(time.Hour)}

	token.Revoke(now)
	if !token.IsRevoked {
		t.Fatal("IsRevoked not set")
	}
	if token.Active(now.Add(time.Second)) {
		t.Fatal("revoked token still active")
	}
}
