package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lfmartins/cltcalc/services/calc-service/internal/entitlement"
)

type UsageHandler struct {
	profiles entitlement.ProfileStore
	logger   *slog.Logger
}

func NewUsageHandler(profiles entitlement.ProfileStore, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{profiles: profiles, logger: logger}
}

type featureUsage struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	CanUse    bool `json:"can_use"`
}

type usageResponse struct {
	AccountID   string       `json:"account_id"`
	Pro         bool         `json:"pro"`
	ProSince    string       `json:"pro_since,omitempty"`
	Calculators featureUsage `json:"calculators"`
	Assistant   featureUsage `json:"assistant"`
}

// Get returns the entitlement snapshot the UI uses for remaining-count
// messaging. Always a fresh read, never a cached one.
func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	accountID := AccountIDFromContext(r.Context())
	if accountID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.profiles.Ensure(r.Context(), accountID); err != nil {
		h.logger.Error("usage profile ensure failed", "err", err, "account_id", accountID)
		http.Error(w, "usage service unavailable", http.StatusServiceUnavailable)
		return
	}
	profile, ok, err := h.profiles.Get(r.Context(), accountID)
	if err != nil || !ok {
		if err != nil {
			h.logger.Error("usage profile read failed", "err", err, "account_id", accountID)
		}
		http.Error(w, "usage service unavailable", http.StatusServiceUnavailable)
		return
	}

	calc := entitlement.CheckCalc(profile)
	assistant := entitlement.CheckAssistant(profile)
	resp := usageResponse{
		AccountID: profile.AccountID,
		Pro:       profile.IsPro,
		Calculators: featureUsage{
			Used:      profile.CalcCount,
			Limit:     entitlement.FreeCalcLimit,
			Remaining: calc.Remaining,
			CanUse:    calc.CanUse,
		},
		Assistant: featureUsage{
			Used:      profile.AssistantCount,
			Limit:     entitlement.FreeAssistantLimit,
			Remaining: assistant.Remaining,
			CanUse:    assistant.CanUse,
		},
	}
	if profile.ProSince != nil {
		resp.ProSince = profile.ProSince.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}
