package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrShippingRequired  = errors.New("shipping method is required")
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
	ErrInvalidSelection  = errors.New("invalid cart selection")
)

// CartSelection is one cart entry as the storefront sends it: the product,
// its current unit price and stock ceiling, and the requested quantity.
// The same product may appear in several entries.
type CartSelection struct {
	ProductID int64
	Name      string
	UnitPrice int64
	Quantity  int64
	Stock     int64
}

type ShippingSelection struct {
	Carrier string
	Price   int64
}

// Build turns cart selections into a priced order proposal with status
// pending and a freshly minted reference. Entries for the same product are
// collapsed into a single line with the summed quantity; the shipping
// selection, if any, becomes a synthetic qty-1 line with ShippingProductID.
// Build never touches the store.
func Build(selections []CartSelection, shipping *ShippingSelection, shippingRequired bool) (*Order, error) {
	if len(selections) == 0 {
		return nil, ErrEmptyCart
	}
	if shippingRequired && shipping == nil {
		return nil, ErrShippingRequired
	}

	grouped := make(map[int64]*Item)
	stock := make(map[int64]int64)
	var productIDs []int64

	for _, sel := range selections {
		if sel.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %d must be greater than zero", ErrInvalidSelection, sel.ProductID)
		}
		if sel.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: unit price for product %d cannot be negative", ErrInvalidSelection, sel.ProductID)
		}

		line, ok := grouped[sel.ProductID]
		if !ok {
			grouped[sel.ProductID] = &Item{
				ProductID: sel.ProductID,
				Name:      sel.Name,
				Price:     sel.UnitPrice,
				Qty:       sel.Quantity,
			}
			stock[sel.ProductID] = sel.Stock
			productIDs = append(productIDs, sel.ProductID)
			continue
		}
		line.Qty += sel.Quantity
	}

	items := make([]Item, 0, len(productIDs)+1)
	var total int64

	for _, id := range productIDs {
		line := grouped[id]
		if line.Qty > stock[id] {
			return nil, fmt.Errorf("product %d: %w", id, ErrInsufficientStock)
		}
		items = append(items, *line)
		total += line.Subtotal()
	}

	if shipping != nil {
		shippingLine := Item{
			ProductID: ShippingProductID,
			Name:      shipping.Carrier,
			Price:     shipping.Price,
			Qty:       1,
		}
		items = append(items, shippingLine)
		total += shippingLine.Subtotal()
	}

	ref, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order reference: %w", err)
	}

	now := time.Now().UTC()
	return &Order{
		Reference:   ref.String(),
		Status:      StatusPending,
		Items:       items,
		TotalAmount: total,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
