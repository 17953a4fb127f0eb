package payment

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/casafunko/orders-service/internal/order"
)

const wompiCheckoutURL = "https://checkout.wompi.co/p/"

var ErrMissingPublicKey = errors.New("wompi public key is not configured")

// Wompi builds the hosted-checkout URL locally; there is no server-side
// session step, so the order reference doubles as the session id.
type Wompi struct {
	publicKey   string
	currency    string
	redirectURL string
}

func NewWompi(publicKey, currency, appBaseURL string) *Wompi {
	return &Wompi{
		publicKey:   publicKey,
		currency:    currency,
		redirectURL: appBaseURL + "/gracias",
	}
}

func (w *Wompi) CreateCheckout(_ context.Context, reference string, total int64, _ []order.CheckoutItem) (*order.CheckoutSession, error) {
	if w.publicKey == "" {
		return nil, ErrMissingPublicKey
	}

	// Wompi prices in cents.
	amountInCents := total * 100

	params := url.Values{}
	params.Set("public-key", w.publicKey)
	params.Set("currency", w.currency)
	params.Set("amount-in-cents", strconv.FormatInt(amountInCents, 10))
	params.Set("reference", reference)
	params.Set("redirect-url", w.redirectURL)

	return &order.CheckoutSession{
		ID:        reference,
		InitPoint: wompiCheckoutURL + "?" + params.Encode(),
	}, nil
}
