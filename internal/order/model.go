package order

import (
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusPaid       Status = "paid"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

func (s Status) String() string {
	return string(s)
}

// ShippingProductID marks the synthetic line item appended for the selected
// shipping carrier. Real catalog product ids are always positive.
const ShippingProductID int64 = -1

type Item struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Price     int64     `json:"price" db:"price"`
	Qty       int64     `json:"qty" db:"qty"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (i Item) Subtotal() int64 {
	return i.Price * i.Qty
}

// Order is a single checkout attempt. Reference is minted once at build time
// and is the only correlation key shared with the payment provider until the
// provider reports a payment id.
type Order struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Reference     string    `json:"reference" db:"reference"`
	Status        Status    `json:"status" db:"status"`
	Items         []Item    `json:"items" db:"-"`
	TotalAmount   int64     `json:"total_amount" db:"total_amount"`
	PreferenceID  string    `json:"preference_id,omitempty" db:"preference_id"`
	PaymentID     string    `json:"payment_id,omitempty" db:"payment_id"`
	PaymentStatus string    `json:"payment_status,omitempty" db:"payment_status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

var providerStatusMap = map[string]Status{
	"approved":     StatusPaid,
	"pending":      StatusPending,
	"authorized":   StatusPending,
	"in_process":   StatusProcessing,
	"rejected":     StatusFailed,
	"cancelled":    StatusCancelled,
	"refunded":     StatusRefunded,
	"charged_back": StatusFailed,
}

// MapProviderStatus translates the provider's raw payment status into an
// internal order status. Unknown statuses map to pending rather than erroring
// so the notification is never lost.
func MapProviderStatus(raw string) Status {
	if s, ok := providerStatusMap[raw]; ok {
		return s
	}
	return StatusPending
}
