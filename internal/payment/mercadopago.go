package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casafunko/orders-service/internal/order"
)

const defaultMercadoPagoAPI = "https://api.mercadopago.com"

var ErrMissingAccessToken = errors.New("payment provider access token is not configured")

type MercadoPagoConfig struct {
	AccessToken string
	Currency    string
	AppBaseURL  string
	APIBaseURL  string
	Timeout     time.Duration
}

// MercadoPago creates hosted-checkout preferences through the Mercado Pago
// REST API and returns the init point the buyer is redirected to.
type MercadoPago struct {
	cfg    MercadoPagoConfig
	client *http.Client
}

func NewMercadoPago(cfg MercadoPagoConfig) *MercadoPago {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultMercadoPagoAPI
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &MercadoPago{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type preferenceItem struct {
	Title      string `json:"title"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int64  `json:"quantity"`
	CurrencyID string `json:"currency_id"`
}

type preferenceBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceRequest struct {
	Items             []preferenceItem   `json:"items"`
	ExternalReference string             `json:"external_reference"`
	BackURLs          preferenceBackURLs `json:"back_urls"`
	AutoReturn        string             `json:"auto_return"`
	NotificationURL   string             `json:"notification_url"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

func (m *MercadoPago) CreateCheckout(ctx context.Context, reference string, total int64, items []order.CheckoutItem) (*order.CheckoutSession, error) {
	if m.cfg.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	thanksURL := m.cfg.AppBaseURL + "/gracias"
	req := preferenceRequest{
		Items:             make([]preferenceItem, 0, len(items)),
		ExternalReference: reference,
		BackURLs: preferenceBackURLs{
			Success: thanksURL,
			Failure: thanksURL,
			Pending: thanksURL,
		},
		AutoReturn:      "approved",
		NotificationURL: m.cfg.AppBaseURL + "/api/webhooks/mercadopago",
	}
	for _, it := range items {
		req.Items = append(req.Items, preferenceItem{
			Title:      it.Name,
			UnitPrice:  it.Price,
			Quantity:   it.Qty,
			CurrencyID: m.cfg.Currency,
		})
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: failed to encode preference request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.APIBaseURL+"/checkout/preferences", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("mercadopago: failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.cfg.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: preference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().Int("status_code", resp.StatusCode).Str("reference", reference).Bytes("response", respBody).Msg("mercadopago: preference creation rejected")
		return nil, fmt.Errorf("mercadopago: preference creation returned status %d", resp.StatusCode)
	}

	var pref preferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return nil, fmt.Errorf("mercadopago: failed to decode preference response: %w", err)
	}
	if pref.ID == "" || pref.InitPoint == "" {
		return nil, fmt.Errorf("mercadopago: preference response missing id or init_point")
	}

	return &order.CheckoutSession{ID: pref.ID, InitPoint: pref.InitPoint}, nil
}
