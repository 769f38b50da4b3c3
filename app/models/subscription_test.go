package models

import (
	"testing"
	"time"
)

func TestSubscriptionIsActive(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{name: "active without expiry", sub: Subscription{Status: SubscriptionStatusActive}, want: true},
		{name: "active not yet expired", sub: Subscription{Status: SubscriptionStatusActive, ExpiresAt: &future}, want: true},
		{name: "active but past expiry", sub: Subscription{Status: SubscriptionStatusActive, ExpiresAt: &past}, want: false},
		{name: "pending", sub: Subscription{Status: SubscriptionStatusPending, ExpiresAt: &future}, want: false},
		{name: "cancelled", sub: Subscription{Status: SubscriptionStatusCancelled}, want: false},
		{name: "expired", sub: Subscription{Status: SubscriptionStatusExpired}, want: false},
	}

	for _, tt := range tests {
		if got := tt.sub.IsActive(); got != tt.want {
			t.Fatalf("%s: IsActive() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{user: User{FirstName: "Lena", LastName: "K"}, want: "Lena K"},
		{user: User{FirstName: "Lena"}, want: "Lena"},
		{user: User{Username: "lena_k"}, want: "lena_k"},
		{user: User{}, want: "student"},
	}

	for _, tt := range tests {
		if got := tt.user.DisplayName(); got != tt.want {
			t.Fatalf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}
