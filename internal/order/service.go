package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var ErrMissingPaymentID = errors.New("payment event has no payment id")

// CheckoutItem is one line handed to the payment gateway, price and quantity
// passed through verbatim.
type CheckoutItem struct {
	Name  string
	Price int64
	Qty   int64
}

// CheckoutSession is the provider's handle for a hosted checkout flow:
// its identifier and the redirect URL the buyer is sent to.
type CheckoutSession struct {
	ID        string
	InitPoint string
}

// PaymentGateway abstracts the hosted-checkout provider. Implementations
// must attach the order reference as an external reference the provider
// echoes back on webhook events.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, reference string, total int64, items []CheckoutItem) (*CheckoutSession, error)
}

type CheckoutInput struct {
	Selections []CartSelection
	Shipping   *ShippingSelection
}

type CheckoutResult struct {
	Reference string
	SessionID string
	InitPoint string
}

// PaymentEvent is a provider webhook notification normalised for the domain.
type PaymentEvent struct {
	Type              string
	PaymentID         string
	RawStatus         string
	ExternalReference string
}

type Service interface {
	Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
	ReconcilePayment(ctx context.Context, evt PaymentEvent) error
	GetByReference(ctx context.Context, reference string) (*Order, error)
}

type service struct {
	repo             Repository
	gateway          PaymentGateway
	shippingRequired bool
}

func NewService(repo Repository, gateway PaymentGateway, shippingRequired bool) Service {
	return &service{
		repo:             repo,
		gateway:          gateway,
		shippingRequired: shippingRequired,
	}
}

// Checkout builds and persists a pending order, then opens a hosted-checkout
// session for it. A gateway failure leaves the order pending with no session
// id; the buyer retries checkout, which mints a fresh reference.
func (s *service) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	o, err := Build(in.Selections, in.Shipping, s.shippingRequired)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error().Err(err).Msg("service: failed to create order")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	items := make([]CheckoutItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, CheckoutItem{Name: it.Name, Price: it.Price, Qty: it.Qty})
	}

	sess, err := s.gateway.CreateCheckout(ctx, o.Reference, o.TotalAmount, items)
	if err != nil {
		log.Error().Err(err).Str("reference", o.Reference).Msg("service: failed to create checkout session")
		return nil, fmt.Errorf("service: failed to create checkout session: %w", err)
	}

	if err := s.repo.SetPreferenceID(ctx, o.Reference, sess.ID); err != nil {
		log.Error().Err(err).Str("reference", o.Reference).Str("session_id", sess.ID).Msg("service: failed to record session id")
		return nil, fmt.Errorf("service: failed to record session id: %w", err)
	}

	log.Info().Str("reference", o.Reference).Str("session_id", sess.ID).Int64("total_amount", o.TotalAmount).Msg("service: checkout session created")

	return &CheckoutResult{
		Reference: o.Reference,
		SessionID: sess.ID,
		InitPoint: sess.InitPoint,
	}, nil
}

// ReconcilePayment applies a provider notification to the matching order.
// Lookup is by payment id first; the first event for an order arrives before
// payment_id is stored, so it falls back to the external reference echoed by
// the provider. A missing order is acknowledged, not an error: the provider
// would otherwise keep retrying a delivery we cannot act on.
func (s *service) ReconcilePayment(ctx context.Context, evt PaymentEvent) error {
	if evt.Type != "payment" {
		log.Debug().Str("event_type", evt.Type).Msg("service: skipping non-payment event")
		return nil
	}
	if evt.PaymentID == "" {
		return ErrMissingPaymentID
	}

	mapped := MapProviderStatus(evt.RawStatus)

	o, err := s.repo.FindByPaymentID(ctx, evt.PaymentID)
	if errors.Is(err, ErrOrderNotFound) && evt.ExternalReference != "" {
		o, err = s.repo.FindByReference(ctx, evt.ExternalReference)
	}
	if errors.Is(err, ErrOrderNotFound) {
		log.Warn().Str("payment_id", evt.PaymentID).Str("external_reference", evt.ExternalReference).Msg("service: no order found for payment event")
		return nil
	}
	if err != nil {
		return fmt.Errorf("service: failed to look up order for payment %s: %w", evt.PaymentID, err)
	}

	if err := s.repo.ApplyPaymentUpdate(ctx, o.ID, mapped, evt.RawStatus, evt.PaymentID); err != nil {
		return fmt.Errorf("service: failed to update order %s for payment %s: %w", o.Reference, evt.PaymentID, err)
	}

	log.Info().
		Str("reference", o.Reference).
		Str("payment_id", evt.PaymentID).
		Str("payment_status", evt.RawStatus).
		Str("status", mapped.String()).
		Msg("service: order reconciled")

	return nil
}

func (s *service) GetByReference(ctx context.Context, reference string) (*Order, error) {
	o, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch order %s: %w", reference, err)
	}
	return o, nil
}
