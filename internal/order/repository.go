package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	Create(ctx context.Context, order *Order) error
	FindByReference(ctx context.Context, reference string) (*Order, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*Order, error)
	SetPreferenceID(ctx context.Context, reference, preferenceID string) error
	ApplyPaymentUpdate(ctx context.Context, orderID uuid.UUID, status Status, rawStatus, paymentID string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, o *Order) (err error) {
	if o.ID == uuid.Nil {
		genID, genErr := uuid.NewV4()
		if genErr != nil {
			return fmt.Errorf("repository: failed to generate order id: %w", genErr)
		}
		o.ID = genID
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Str("reference", o.Reference).Msg("repository: failed to rollback transaction")
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	queryOrder := `
		INSERT INTO orders (id, reference, status, total_amount, preference_id, payment_id, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, queryOrder,
		o.ID,
		o.Reference,
		string(o.Status),
		o.TotalAmount,
		o.PreferenceID,
		o.PaymentID,
		o.PaymentStatus,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order %s: %w", o.Reference, err)
	}

	queryItem := `
		INSERT INTO order_items (id, order_id, product_id, name, price, qty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range o.Items {
		item := &o.Items[i]

		itemID, genErr := uuid.NewV4()
		if genErr != nil {
			return fmt.Errorf("repository: failed to generate order item id: %w", genErr)
		}
		item.ID = itemID
		item.OrderID = o.ID
		item.CreatedAt = now

		_, err = tx.Exec(ctx, queryItem,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Name,
			item.Price,
			item.Qty,
			item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %s: %w", o.Reference, err)
		}
	}

	return nil
}

const selectOrder = `
	SELECT id, reference, status, total_amount,
	       COALESCE(preference_id, ''), COALESCE(payment_id, ''), COALESCE(payment_status, ''),
	       created_at, updated_at
	FROM orders
`

func (r *postgresRepository) FindByReference(ctx context.Context, reference string) (*Order, error) {
	return r.findOne(ctx, selectOrder+` WHERE reference = $1`, reference)
}

func (r *postgresRepository) FindByPaymentID(ctx context.Context, paymentID string) (*Order, error) {
	return r.findOne(ctx, selectOrder+` WHERE payment_id = $1`, paymentID)
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg any) (*Order, error) {
	var o Order
	var status string

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&o.ID,
		&o.Reference,
		&status,
		&o.TotalAmount,
		&o.PreferenceID,
		&o.PaymentID,
		&o.PaymentStatus,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order: %w", err)
	}
	o.Status = Status(status)

	queryItems := `
		SELECT id, order_id, product_id, name, price, qty, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, queryItems, o.ID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items for order %s: %w", o.Reference, err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.Qty,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item for order %s: %w", o.Reference, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items for order %s: %w", o.Reference, err)
	}

	o.Items = items
	return &o, nil
}

func (r *postgresRepository) SetPreferenceID(ctx context.Context, reference, preferenceID string) error {
	query := `
		UPDATE orders
		SET preference_id = $1, updated_at = $2
		WHERE reference = $3
	`
	cmdTag, err := r.db.Exec(ctx, query, preferenceID, time.Now().UTC(), reference)
	if err != nil {
		return fmt.Errorf("repository: failed to set preference id for order %s: %w", reference, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ApplyPaymentUpdate writes all reconciliation fields in a single UPDATE so
// that concurrent duplicate deliveries never interleave partial writes.
func (r *postgresRepository) ApplyPaymentUpdate(ctx context.Context, orderID uuid.UUID, status Status, rawStatus, paymentID string) error {
	query := `
		UPDATE orders
		SET status = $1, payment_status = $2, payment_id = $3, updated_at = $4
		WHERE id = $5
	`
	cmdTag, err := r.db.Exec(ctx, query,
		string(status),
		rawStatus,
		paymentID,
		time.Now().UTC(),
		orderID,
	)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Str("status", string(status)).Msg("repository: failed to apply payment update")
		return fmt.Errorf("repository: failed to apply payment update for order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}
