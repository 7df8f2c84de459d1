package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lfmartins/cltcalc/services/calc-service/internal/entitlement"
)

// AssistantHandler fronts the external labor-law assistant. The upstream is a
// collaborator; this handler owns only the metering (1 free use, PRO
// unlimited) and never burns quota when the upstream is unreachable before
// the consume.
type AssistantHandler struct {
	gate        *entitlement.Gate
	logger      *slog.Logger
	upstreamURL string
	client      *http.Client
}

func NewAssistantHandler(gate *entitlement.Gate, logger *slog.Logger, upstreamURL string) *AssistantHandler {
	return &AssistantHandler{
		gate:        gate,
		logger:      logger,
		upstreamURL: strings.TrimSpace(upstreamURL),
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type assistantRequest struct {
	Question string `json:"question"`
}

type assistantResponse struct {
	Answer string       `json:"answer"`
	Usage  usagePayload `json:"usage"`
}

func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	accountID := AccountIDFromContext(r.Context())
	if accountID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if h.upstreamURL == "" {
		http.Error(w, "assistant not configured", http.StatusServiceUnavailable)
		return
	}

	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	c, err := h.gate.TryConsumeAssistant(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, entitlement.ErrUsageExhausted) {
			writeJSON(w, http.StatusPaymentRequired, deniedResponse{
				Error:     "free assistant limit reached",
				Remaining: 0,
				Upgrade:   "/api/v1/billing/checkout",
			})
			return
		}
		h.logger.Error("assistant entitlement check failed", "err", err, "account_id", accountID)
		http.Error(w, "usage service unavailable, try again later", http.StatusServiceUnavailable)
		return
	}

	body, _ := json.Marshal(map[string]string{"question": req.Question})
	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.upstreamURL, bytes.NewReader(body))
	if err != nil {
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(upstreamReq)
	if err != nil {
		h.logger.Error("assistant upstream failed", "err", err)
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	answer, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || resp.StatusCode != http.StatusOK {
		h.logger.Error("assistant upstream error", "status", resp.StatusCode)
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, assistantResponse{
		Answer: string(answer),
		Usage:  usageFromConsumption(c),
	})
}
