package model

import (
	"testing"
	"time"
)

func TestAPIKey_HasScope(t *testing.T) {
	tests := []struct {
		name   string
		scopes []string
		check  string
		want   bool
	}{
		{"has exact scope", []string{ScopeRead}, ScopeRead, true},
		{"missing scope", []string{ScopeRead}, ScopeWrite, false},
		{"admin implies read", []string{ScopeAdmin}, ScopeRead, true},
		{"admin implies write", []string{ScopeAdmin}, ScopeWrite, true},
		{"empty scopes", nil, ScopeRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := &APIKey{Scopes: tt.scopes}
			if got := key.HasScope(tt.check); got != tt.want {
				t.Errorf("HasScope(%q) = %v, want %v", tt.check, got, tt.want)
			}
		})
	}
}

func TestAPIKey_IsRevoked(t *testing.T) {
	key := &APIKey{}
	if key.IsRevoked() {
		t.Error("key without revoked_at should not be revoked")
	}

	now := time.Now()
	key.RevokedAt = &now
	if !key.IsRevoked() {
		t.Error("key with revoked_at should be revoked")
	}
}

func TestIsValidScope(t *testing.T) {
	for _, scope := range ValidScopes {
		if !IsValidScope(scope) {
			t.Errorf("expected %q to be valid", scope)
		}
	}

	if IsValidScope("webhook") {
		t.Error("unknown scope should be invalid")
	}
}
