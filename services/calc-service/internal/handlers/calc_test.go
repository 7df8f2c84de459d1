package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lfmartins/cltcalc/services/calc-service/internal/entitlement"
)

type memStore struct {
	profiles map[string]*entitlement.Profile
}

func newMemStore() *memStore {
	return &memStore{profiles: map[string]*entitlement.Profile{}}
}

func (s *memStore) Ensure(_ context.Context, accountID string) error {
	if _, ok := s.profiles[accountID]; !ok {
		s.profiles[accountID] = &entitlement.Profile{AccountID: accountID}
	}
	return nil
}

func (s *memStore) Get(_ context.Context, accountID string) (entitlement.Profile, bool, error) {
	p, ok := s.profiles[accountID]
	if !ok {
		return entitlement.Profile{}, false, nil
	}
	return *p, true, nil
}

func (s *memStore) IncrementCalc(_ context.Context, accountID string, limit int) (int, bool, error) {
	p := s.profiles[accountID]
	if p.IsPro || p.CalcCount >= limit {
		return 0, false, nil
	}
	p.CalcCount++
	return p.CalcCount, true, nil
}

func (s *memStore) IncrementAssistant(_ context.Context, accountID string, limit int) (int, bool, error) {
	p := s.profiles[accountID]
	if p.IsPro || p.AssistantCount >= limit {
		return 0, false, nil
	}
	p.AssistantCount++
	return p.AssistantCount, true, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func authedRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), ctxKeyAccountID, "acct-1")
	return req.WithContext(ctx)
}

func TestNetSalaryHandler_Success(t *testing.T) {
	store := newMemStore()
	h := NewCalcHandler(entitlement.NewGate(store, discardLogger()), discardLogger())

	rec := httptest.NewRecorder()
	h.NetSalary(rec, authedRequest(http.MethodPost, "/api/v1/calculators/net-salary", `{"gross_salary":"3000.00","year":2024}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		NetSalary string `json:"net_salary"`
		Formatted string `json:"formatted"`
		Usage     struct {
			Remaining int  `json:"remaining"`
			Unlimited bool `json:"unlimited"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.NetSalary != "2705.03" {
		t.Fatalf("expected net 2705.03, got %s", resp.NetSalary)
	}
	if resp.Formatted != "R$ 2.705,03" {
		t.Fatalf("unexpected formatted value %q", resp.Formatted)
	}
	if resp.Usage.Remaining != entitlement.FreeCalcLimit-1 {
		t.Fatalf("expected remaining %d, got %d", entitlement.FreeCalcLimit-1, resp.Usage.Remaining)
	}
}

func TestCalcHandler_ExhaustedReturns402(t *testing.T) {
	store := newMemStore()
	store.profiles["acct-1"] = &entitlement.Profile{AccountID: "acct-1", CalcCount: entitlement.FreeCalcLimit}
	h := NewCalcHandler(entitlement.NewGate(store, discardLogger()), discardLogger())

	rec := httptest.NewRecorder()
	h.INSS(rec, authedRequest(http.MethodPost, "/api/v1/calculators/inss", `{"income":"3000.00","year":2024}`))

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", rec.Code)
	}
	var resp deniedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Upgrade == "" || resp.Remaining != 0 {
		t.Fatalf("expected upgrade pointer with zero remaining, got %+v", resp)
	}
	if store.profiles["acct-1"].CalcCount != entitlement.FreeCalcLimit {
		t.Fatal("denied request must not increment the counter")
	}
}

func TestCalcHandler_ProBypassesGate(t *testing.T) {
	store := newMemStore()
	store.profiles["acct-1"] = &entitlement.Profile{AccountID: "acct-1", IsPro: true, CalcCount: 50}
	h := NewCalcHandler(entitlement.NewGate(store, discardLogger()), discardLogger())

	rec := httptest.NewRecorder()
	h.INSS(rec, authedRequest(http.MethodPost, "/api/v1/calculators/inss", `{"income":"3000.00","year":2024}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.profiles["acct-1"].CalcCount != 50 {
		t.Fatal("pro request must not touch the counter")
	}
}

func TestCalcHandler_ValidationBeforeConsume(t *testing.T) {
	store := newMemStore()
	h := NewCalcHandler(entitlement.NewGate(store, discardLogger()), discardLogger())

	rec := httptest.NewRecorder()
	h.INSS(rec, authedRequest(http.MethodPost, "/api/v1/calculators/inss", `{"income":"-5","year":2024}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if p, ok := store.profiles["acct-1"]; ok && p.CalcCount != 0 {
		t.Fatal("rejected input must not consume quota")
	}
}

func TestVacationHandler_ErrorNamesOffendingField(t *testing.T) {
	h := NewCalcHandler(entitlement.NewGate(newMemStore(), discardLogger()), discardLogger())

	rec := httptest.NewRecorder()
	body := `{"gross_salary":"-3000","days":20,"year":2024}`
	h.Vacation(rec, authedRequest(http.MethodPost, "/api/v1/calculators/vacation", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := strings.TrimSpace(rec.Body.String()); msg != "inputs must be non-negative" {
		t.Fatalf("negative salary must not be reported as a days error, got %q", msg)
	}

	rec = httptest.NewRecorder()
	body = `{"gross_salary":"3000","days":31,"year":2024}`
	h.Vacation(rec, authedRequest(http.MethodPost, "/api/v1/calculators/vacation", body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := strings.TrimSpace(rec.Body.String()); msg != "days must be between 1 and 30" {
		t.Fatalf("unexpected days error, got %q", msg)
	}
}

func TestCalcHandler_Unauthenticated(t *testing.T) {
	h := NewCalcHandler(entitlement.NewGate(newMemStore(), discardLogger()), discardLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculators/inss", strings.NewReader(`{"income":"100"}`))
	h.INSS(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUsageHandler_Snapshot(t *testing.T) {
	store := newMemStore()
	store.profiles["acct-1"] = &entitlement.Profile{AccountID: "acct-1", CalcCount: 3, AssistantCount: 1}
	h := NewUsageHandler(store, discardLogger())

	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/api/v1/usage", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp usageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Calculators.Remaining != 1 || !resp.Calculators.CanUse {
		t.Fatalf("unexpected calculator usage: %+v", resp.Calculators)
	}
	if resp.Assistant.Remaining != 0 || resp.Assistant.CanUse {
		t.Fatalf("unexpected assistant usage: %+v", resp.Assistant)
	}
}

func TestSeveranceHandler_RejectsUnknownType(t *testing.T) {
	h := NewCalcHandler(entitlement.NewGate(newMemStore(), discardLogger()), discardLogger())

	rec := httptest.NewRecorder()
	body := `{"gross_salary":"3000","hire_date":"2020-01-01","termination_date":"2024-01-01","type":"mutual_agreement"}`
	h.Severance(rec, authedRequest(http.MethodPost, "/api/v1/calculators/severance", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
