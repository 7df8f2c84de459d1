package subscriptions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lfmartins/cltcalc/services/billing-service/internal/outbox"
	"github.com/lfmartins/cltcalc/services/billing-service/internal/storage"
)

// Service encapsulates subscription state transitions and their side effects:
// the usage profile's pro flag and the outbox events. Keeping this out of
// HTTP handlers makes it reusable for webhook + reconciliation flows.
type Service struct {
	repo       *storage.Repository
	outboxRepo *outbox.Repository
}

func New(repo *storage.Repository, outboxRepo *outbox.Repository) *Service {
	return &Service{repo: repo, outboxRepo: outboxRepo}
}

func (s *Service) ApplyActivated(ctx context.Context, tx pgx.Tx, accountID string, activatedAt time.Time, stripeCustomerID string, stripeSubscriptionID string, periodStart, periodEnd *time.Time) error {
	existing, ok, err := s.repo.GetSubscriptionForUpdate(ctx, tx, accountID)
	if err != nil {
		return err
	}

	if err := s.repo.UpsertSubscription(ctx, tx, storage.Subscription{
		AccountID:            accountID,
		Plan:                 "pro",
		Status:               "active",
		Provider:             "stripe",
		StripeCustomerID:     stripeCustomerID,
		StripeSubscriptionID: stripeSubscriptionID,
		CurrentPeriodStart:   periodStart,
		CurrentPeriodEnd:     periodEnd,
	}); err != nil {
		return err
	}

	if err := s.repo.SetPro(ctx, tx, accountID, activatedAt); err != nil {
		return err
	}

	// Only emit when the effective entitlement changes. Provider ID updates
	// and period rollovers alone shouldn't fan out.
	if ok && existing.Status == "active" && existing.Plan == "pro" {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"account_id":   accountID,
		"plan":         "pro",
		"is_pro":       true,
		"activated_at": activatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	return s.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "subscription",
		AggregateID:   accountID,
		EventType:     "billing.subscription.activated.v1",
		Payload:       payload,
	})
}

func (s *Service) ApplyCanceled(ctx context.Context, tx pgx.Tx, accountID string, canceledAt time.Time, stripeCustomerID string, stripeSubscriptionID string, periodStart, periodEnd *time.Time) error {
	existing, ok, err := s.repo.GetSubscriptionForUpdate(ctx, tx, accountID)
	if err != nil {
		return err
	}

	if err := s.repo.UpsertSubscription(ctx, tx, storage.Subscription{
		AccountID:            accountID,
		Plan:                 "free",
		Status:               "canceled",
		Provider:             "stripe",
		StripeCustomerID:     stripeCustomerID,
		StripeSubscriptionID: stripeSubscriptionID,
		CurrentPeriodStart:   periodStart,
		CurrentPeriodEnd:     periodEnd,
	}); err != nil {
		return err
	}

	if err := s.repo.ClearPro(ctx, tx, accountID); err != nil {
		return err
	}

	// Only emit when the effective entitlement changes.
	if ok && existing.Status == "canceled" && existing.Plan == "free" {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"account_id":  accountID,
		"plan":        "free",
		"is_pro":      false,
		"canceled_at": canceledAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	return s.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "subscription",
		AggregateID:   accountID,
		EventType:     "billing.subscription.canceled.v1",
		Payload:       payload,
	})
}
