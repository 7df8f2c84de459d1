package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Free-tier caps. Calculations and the assistant are metered independently.
const (
	FreeCalcLimit      = 4
	FreeAssistantLimit = 1
)

// ErrUsageExhausted is an expected business outcome, not a system failure.
// Callers map it to the upgrade flow; storage errors propagate separately and
// fail closed.
var ErrUsageExhausted = errors.New("free tier exhausted")

// Profile is a point-in-time snapshot of an account's entitlement state. The
// store is the single source of truth; snapshots are never cached across
// requests.
type Profile struct {
	AccountID      string
	IsPro          bool
	CalcCount      int
	AssistantCount int
	ProSince       *time.Time
	UpdatedAt      time.Time
}

// Decision is the pure entitlement read for one metered feature.
type Decision struct {
	CanUse    bool
	Unlimited bool
	Remaining int
}

func decide(isPro bool, count, limit int) Decision {
	if isPro {
		return Decision{CanUse: true, Unlimited: true}
	}
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{CanUse: count < limit, Remaining: remaining}
}

// CheckCalc evaluates the calculation entitlement from a profile snapshot.
// Pure function, no side effects.
func CheckCalc(p Profile) Decision {
	return decide(p.IsPro, p.CalcCount, FreeCalcLimit)
}

// CheckAssistant evaluates the assistant entitlement. The assistant cap is a
// lifetime cap: no reset cadence is defined, and none is invented here.
func CheckAssistant(p Profile) Decision {
	return decide(p.IsPro, p.AssistantCount, FreeAssistantLimit)
}

// ProfileStore is the persistent counter collaborator. IncrementCalc and
// IncrementAssistant must be atomic conditional updates (increment only while
// not PRO and under the limit), so concurrent consumers for the same account
// cannot both land on the same count. The second return reports whether the
// increment applied.
type ProfileStore interface {
	Ensure(ctx context.Context, accountID string) error
	Get(ctx context.Context, accountID string) (Profile, bool, error)
	IncrementCalc(ctx context.Context, accountID string, limit int) (int, bool, error)
	IncrementAssistant(ctx context.Context, accountID string, limit int) (int, bool, error)
}

// Gate enforces the metered free tier against the profile store.
type Gate struct {
	store  ProfileStore
	logger *slog.Logger
}

func NewGate(store ProfileStore, logger *slog.Logger) *Gate {
	return &Gate{store: store, logger: logger}
}

// Consumption reports one successful gated action.
type Consumption struct {
	Unlimited bool
	NewCount  int
	Remaining int
	NearLimit bool
}

// TryConsumeCalc authorizes one metered calculation. PRO accounts pass
// without touching the counter. Free accounts get exactly one persisted
// increment per successful call; when the conditional increment does not
// apply the call re-reads the profile to distinguish a PRO flip (which may
// happen between reads at any time) from exhaustion.
func (g *Gate) TryConsumeCalc(ctx context.Context, accountID string) (Consumption, error) {
	return g.tryConsume(ctx, accountID, "calculation", FreeCalcLimit, g.store.IncrementCalc)
}

// TryConsumeAssistant authorizes one assistant use against its own counter.
func (g *Gate) TryConsumeAssistant(ctx context.Context, accountID string) (Consumption, error) {
	return g.tryConsume(ctx, accountID, "assistant", FreeAssistantLimit, g.store.IncrementAssistant)
}

func (g *Gate) tryConsume(ctx context.Context, accountID, feature string, limit int, increment func(context.Context, string, int) (int, bool, error)) (Consumption, error) {
	if err := g.store.Ensure(ctx, accountID); err != nil {
		return Consumption{}, err
	}

	profile, ok, err := g.store.Get(ctx, accountID)
	if err != nil {
		return Consumption{}, err
	}
	if !ok {
		return Consumption{}, errors.New("usage profile missing after ensure")
	}
	if profile.IsPro {
		return Consumption{Unlimited: true}, nil
	}

	newCount, applied, err := increment(ctx, accountID, limit)
	if err != nil {
		return Consumption{}, err
	}
	if !applied {
		// The conditional update matched no row: either the account went PRO
		// since the read above, or the free tier is spent.
		profile, ok, err = g.store.Get(ctx, accountID)
		if err != nil {
			return Consumption{}, err
		}
		if ok && profile.IsPro {
			return Consumption{Unlimited: true}, nil
		}
		return Consumption{}, ErrUsageExhausted
	}

	remaining := limit - newCount
	if remaining < 0 {
		remaining = 0
	}
	c := Consumption{NewCount: newCount, Remaining: remaining, NearLimit: newCount == limit-1}
	if c.NearLimit && g.logger != nil {
		g.logger.Warn("free tier nearly exhausted",
			"account_id", accountID,
			"feature", feature,
			"used", newCount,
			"limit", limit,
		)
	}
	return c, nil
}
