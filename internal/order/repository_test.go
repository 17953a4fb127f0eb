package order_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casafunko/orders-service/internal/order"
)

// Integration tests against a real database. Point TEST_DATABASE_URL at a
// PostgreSQL instance with the migrations applied to run them.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), "TRUNCATE TABLE order_items, orders")
	require.NoError(t, err)

	return pool
}

func buildTestOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.Build(
		[]order.CartSelection{
			{ProductID: 1, Name: "Funko Batman", UnitPrice: 20000, Quantity: 2, Stock: 5},
		},
		&order.ShippingSelection{Carrier: "Servientrega", Price: 5000},
		false,
	)
	require.NoError(t, err)
	return o
}

func TestRepository_CreateAndFind(t *testing.T) {
	pool := testPool(t)
	repo := order.NewRepository(pool)
	ctx := context.Background()

	o := buildTestOrder(t)
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.FindByReference(ctx, o.Reference)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, order.StatusPending, got.Status)
	assert.Equal(t, int64(45000), got.TotalAmount)
	assert.Len(t, got.Items, 2)

	_, err = repo.FindByReference(ctx, "missing")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestRepository_PaymentLifecycle(t *testing.T) {
	pool := testPool(t)
	repo := order.NewRepository(pool)
	ctx := context.Background()

	o := buildTestOrder(t)
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, repo.SetPreferenceID(ctx, o.Reference, "SESS1"))

	// First event arrives before payment_id is stored.
	_, err := repo.FindByPaymentID(ctx, "PAY1")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	require.NoError(t, repo.ApplyPaymentUpdate(ctx, o.ID, order.StatusPaid, "approved", "PAY1"))

	got, err := repo.FindByPaymentID(ctx, "PAY1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, got.Status)
	assert.Equal(t, "approved", got.PaymentStatus)
	assert.Equal(t, "SESS1", got.PreferenceID)

	firstUpdatedAt := got.UpdatedAt

	// Replaying the same terminal event leaves identical state.
	require.NoError(t, repo.ApplyPaymentUpdate(ctx, o.ID, order.StatusPaid, "approved", "PAY1"))

	again, err := repo.FindByPaymentID(ctx, "PAY1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, again.Status)
	assert.Equal(t, "approved", again.PaymentStatus)
	assert.Equal(t, "PAY1", again.PaymentID)
	assert.False(t, again.UpdatedAt.Before(firstUpdatedAt))
}

func TestRepository_SetPreferenceIDUnknownOrder(t *testing.T) {
	pool := testPool(t)
	repo := order.NewRepository(pool)

	err := repo.SetPreferenceID(context.Background(), "missing", "SESS1")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}
