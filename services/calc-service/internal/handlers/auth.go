package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lfmartins/cltcalc/libs/auth"
	"github.com/lfmartins/cltcalc/services/calc-service/internal/entitlement"
	"github.com/lfmartins/cltcalc/services/calc-service/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	signer   TokenSigner
	accounts *storage.AccountRepository
	profiles entitlement.ProfileStore
	logger   *slog.Logger
	tokenTTL time.Duration
}

func NewAuthHandler(signer TokenSigner, accounts *storage.AccountRepository, profiles entitlement.ProfileStore, logger *slog.Logger, tokenTTL time.Duration) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthHandler{
		signer:   signer,
		accounts: accounts,
		profiles: profiles,
		logger:   logger,
		tokenTTL: tokenTTL,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type meResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.Password = strings.TrimSpace(req.Password)
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "password must have at least 8 characters", http.StatusBadRequest)
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	account := storage.Account{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	ctx := r.Context()
	if err := h.accounts.Create(ctx, account); err != nil {
		// Unique violation on email is the expected conflict here.
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}

	// New accounts start metered with zeroed counters.
	if err := h.profiles.Ensure(ctx, account.ID); err != nil {
		h.logger.Error("usage profile creation failed", "err", err, "account_id", account.ID)
		http.Error(w, "failed to create usage profile", http.StatusInternalServerError)
		return
	}

	h.logger.Info("account registered", "account_id", account.ID)
	token, err := h.issueToken(account)
	if err != nil {
		http.Error(w, "failed to sign token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: token, TokenType: "Bearer"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	account, err := h.accounts.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if err := verifyPassword(account.PasswordHash, req.Password); err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.issueToken(account)
	if err != nil {
		http.Error(w, "failed to sign token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID := AccountIDFromContext(r.Context())
	if accountID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	account, err := h.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{AccountID: account.ID, Email: account.Email, Name: account.Name})
}

func (h *AuthHandler) issueToken(account storage.Account) (string, error) {
	now := time.Now()
	return h.signer.Sign(auth.Claims{
		Sub:   account.ID,
		Email: account.Email,
		Iat:   now.Unix(),
		Exp:   now.Add(h.tokenTTL).Unix(),
	})
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

type ctxKey int

const ctxKeyAccountID ctxKey = iota

func AccountIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyAccountID).(string)
	return v
}

// RequireAuth verifies the bearer token and places the account ID on the
// request context.
func RequireAuth(signer TokenSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			claims, err := signer.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil || claims.Sub == "" {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyAccountID, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
