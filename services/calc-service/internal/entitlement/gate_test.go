package entitlement

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	profiles map[string]*Profile
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: map[string]*Profile{}}
}

func (s *fakeStore) Ensure(_ context.Context, accountID string) error {
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.profiles[accountID]; !ok {
		s.profiles[accountID] = &Profile{AccountID: accountID}
	}
	return nil
}

func (s *fakeStore) Get(_ context.Context, accountID string) (Profile, bool, error) {
	if s.failWith != nil {
		return Profile{}, false, s.failWith
	}
	p, ok := s.profiles[accountID]
	if !ok {
		return Profile{}, false, nil
	}
	return *p, true, nil
}

func (s *fakeStore) IncrementCalc(_ context.Context, accountID string, limit int) (int, bool, error) {
	if s.failWith != nil {
		return 0, false, s.failWith
	}
	p := s.profiles[accountID]
	if p.IsPro || p.CalcCount >= limit {
		return 0, false, nil
	}
	p.CalcCount++
	return p.CalcCount, true, nil
}

func (s *fakeStore) IncrementAssistant(_ context.Context, accountID string, limit int) (int, bool, error) {
	if s.failWith != nil {
		return 0, false, s.failWith
	}
	p := s.profiles[accountID]
	if p.IsPro || p.AssistantCount >= limit {
		return 0, false, nil
	}
	p.AssistantCount++
	return p.AssistantCount, true, nil
}

func TestCheckCalc(t *testing.T) {
	cases := []struct {
		name      string
		profile   Profile
		canUse    bool
		unlimited bool
		remaining int
	}{
		{"fresh free account", Profile{}, true, false, FreeCalcLimit},
		{"partially used", Profile{CalcCount: 2}, true, false, 2},
		{"exhausted", Profile{CalcCount: FreeCalcLimit}, false, false, 0},
		{"over the cap", Profile{CalcCount: FreeCalcLimit + 3}, false, false, 0},
		{"pro ignores counter", Profile{IsPro: true, CalcCount: 99}, true, true, 0},
	}
	for _, tc := range cases {
		got := CheckCalc(tc.profile)
		if got.CanUse != tc.canUse || got.Unlimited != tc.unlimited || got.Remaining != tc.remaining {
			t.Fatalf("%s: got %+v", tc.name, got)
		}
	}
}

func TestTryConsumeCalc_CapEnforced(t *testing.T) {
	store := newFakeStore()
	gate := NewGate(store, nil)
	ctx := context.Background()

	for i := 1; i <= FreeCalcLimit; i++ {
		c, err := gate.TryConsumeCalc(ctx, "acct-1")
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if c.NewCount != i {
			t.Fatalf("call %d: expected count %d, got %d", i, i, c.NewCount)
		}
		if c.Remaining != FreeCalcLimit-i {
			t.Fatalf("call %d: expected remaining %d, got %d", i, FreeCalcLimit-i, c.Remaining)
		}
	}

	if _, err := gate.TryConsumeCalc(ctx, "acct-1"); !errors.Is(err, ErrUsageExhausted) {
		t.Fatalf("expected ErrUsageExhausted, got %v", err)
	}
	if store.profiles["acct-1"].CalcCount != FreeCalcLimit {
		t.Fatalf("denied call must not mutate the count, got %d", store.profiles["acct-1"].CalcCount)
	}
}

func TestTryConsumeCalc_NearLimitSignal(t *testing.T) {
	store := newFakeStore()
	gate := NewGate(store, nil)
	ctx := context.Background()

	for i := 1; i <= FreeCalcLimit; i++ {
		c, err := gate.TryConsumeCalc(ctx, "acct-1")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		wantNear := i == FreeCalcLimit-1
		if c.NearLimit != wantNear {
			t.Fatalf("call %d: expected NearLimit=%v", i, wantNear)
		}
	}
}

func TestTryConsumeCalc_ProBypass(t *testing.T) {
	store := newFakeStore()
	store.profiles["acct-pro"] = &Profile{AccountID: "acct-pro", IsPro: true, CalcCount: 17}
	gate := NewGate(store, nil)

	for i := 0; i < 3; i++ {
		c, err := gate.TryConsumeCalc(context.Background(), "acct-pro")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !c.Unlimited {
			t.Fatal("expected unlimited consumption")
		}
	}
	if store.profiles["acct-pro"].CalcCount != 17 {
		t.Fatalf("pro consumption must not mutate the counter, got %d", store.profiles["acct-pro"].CalcCount)
	}
}

func TestTryConsumeCalc_ProWithSpentCounter(t *testing.T) {
	store := newFakeStore()
	store.profiles["acct-1"] = &Profile{AccountID: "acct-1", IsPro: true, CalcCount: FreeCalcLimit}
	gate := NewGate(store, nil)

	// Counter is spent but the account is PRO: must succeed, never Denied.
	c, err := gate.TryConsumeCalc(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Unlimited {
		t.Fatal("expected unlimited consumption for PRO account")
	}
}

func TestTryConsumeCalc_StorageErrorFailsClosed(t *testing.T) {
	store := newFakeStore()
	store.failWith = errors.New("connection refused")
	gate := NewGate(store, nil)

	if _, err := gate.TryConsumeCalc(context.Background(), "acct-1"); err == nil {
		t.Fatal("expected storage error to propagate")
	} else if errors.Is(err, ErrUsageExhausted) {
		t.Fatal("storage error must not masquerade as exhaustion")
	}
}

func TestTryConsumeAssistant_IndependentCounter(t *testing.T) {
	store := newFakeStore()
	gate := NewGate(store, nil)
	ctx := context.Background()

	c, err := gate.TryConsumeAssistant(ctx, "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.NewCount != 1 || c.Remaining != 0 {
		t.Fatalf("expected count 1 remaining 0, got %+v", c)
	}
	if _, err := gate.TryConsumeAssistant(ctx, "acct-1"); !errors.Is(err, ErrUsageExhausted) {
		t.Fatalf("expected ErrUsageExhausted, got %v", err)
	}

	// The assistant cap must not block calculations.
	if _, err := gate.TryConsumeCalc(ctx, "acct-1"); err != nil {
		t.Fatalf("calc consumption should be unaffected: %v", err)
	}
}
