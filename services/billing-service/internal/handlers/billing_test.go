package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lfmartins/cltcalc/libs/auth"
)

func TestAccountFromRequest(t *testing.T) {
	h := New(nil, nil, nil, Config{JWTSecret: "test-secret"})

	token, err := auth.SignHS256(auth.Claims{
		Sub: "acct-42",
		Exp: time.Now().Add(time.Hour).Unix(),
		Iat: time.Now().Unix(),
	}, "test-secret")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	r := httptest.NewRequest("GET", "/api/v1/billing/subscription", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	accountID, ok := h.accountFromRequest(r)
	if !ok {
		t.Fatalf("expected token to verify")
	}
	if accountID != "acct-42" {
		t.Fatalf("accountID = %q, want acct-42", accountID)
	}

	r = httptest.NewRequest("GET", "/api/v1/billing/subscription", nil)
	if _, ok := h.accountFromRequest(r); ok {
		t.Fatalf("expected missing header to fail")
	}

	r = httptest.NewRequest("GET", "/api/v1/billing/subscription", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	if _, ok := h.accountFromRequest(r); ok {
		t.Fatalf("expected malformed token to fail")
	}
}
