package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/casafunko/orders-service/internal/order"
)

func TestOrderHandler_GetByReference(t *testing.T) {
	updatedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		reference      string
		getByReference func(ctx context.Context, reference string) (*order.Order, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "found",
			reference: "REF1",
			getByReference: func(ctx context.Context, reference string) (*order.Order, error) {
				return &order.Order{
					Reference:     reference,
					Status:        order.StatusPaid,
					PaymentStatus: "approved",
					TotalAmount:   45000,
					UpdatedAt:     updatedAt,
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"reference":"REF1","status":"paid","payment_status":"approved","total_amount":45000,"updated_at":"2026-08-01T12:00:00Z"}` + "\n",
		},
		{
			name:      "not_found",
			reference: "REF-MISSING",
			getByReference: func(ctx context.Context, reference string) (*order.Order, error) {
				return nil, order.ErrOrderNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"order not found"}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{getByReferenceFunc: tt.getByReference}
			h := NewOrderHandler(svc)

			r := chi.NewRouter()
			r.Get("/api/orders/{reference}", h.GetByReference)

			req := httptest.NewRequest(http.MethodGet, "/api/orders/"+tt.reference, nil)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedBody, rec.Body.String())
		})
	}
}
