package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{
	"id", "user_id", "phone_number", "email", "delivery_address",
	"fuel_type", "quantity", "price_per_liter", "total_amount", "delivery_time",
	"order_status", "payment_status", "paystack_reference", "paystack_access_code",
	"created_at", "updated_at",
}

func addOrderRow(rows *sqlmock.Rows, id int64, reference any, paymentStatus string) *sqlmock.Rows {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, nil, "0241234567", nil, "12 Ring Road, Accra",
		"regular", 10, "12.50", "125.00", "now",
		"pending", paymentStatus, reference, nil,
		now, now,
	)
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	newOrder := func() *Order {
		return &Order{
			PhoneNumber:     "0241234567",
			DeliveryAddress: "12 Ring Road, Accra",
			FuelType:        FuelRegular,
			Quantity:        10,
			PricePerLiter:   decimal.RequireFromString("12.50"),
			TotalAmount:     decimal.RequireFromString("125.00"),
			DeliveryTime:    "now",
			OrderStatus:     StatusPending,
			PaymentStatus:   PaymentPending,
		}
	}

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		created := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(nil, "0241234567", nil, "12 Ring Road, Accra", "regular", 10,
				sqlmock.AnyArg(), sqlmock.AnyArg(), "now", "pending", "pending").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(42), created, created))
		mock.ExpectCommit()

		o := newOrder()
		err := repo.Create(ctx, o)

		require.NoError(t, err)
		assert.Equal(t, int64(42), o.ID)
		assert.Equal(t, created, o.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WithOwner", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		userID := int64(3)
		email := "ama@example.com"

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(int64(3), "0241234567", "ama@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(1), time.Now(), time.Now()))
		mock.ExpectCommit()

		o := newOrder()
		o.UserID = &userID
		o.Email = &email

		require.NoError(t, repo.Create(ctx, o))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsertError", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).WillReturnError(errors.New("db down"))
		mock.ExpectRollback()

		err := repo.Create(ctx, newOrder())

		assert.EqualError(t, err, "db down")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM orders\s+WHERE id = \$1 AND paystack_reference IS NULL`).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(ctx, 7))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyGoneOrPaid", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM orders`).
			WithArgs(int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.Delete(ctx, 7), ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_AttachPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(`UPDATE orders\s+SET paystack_reference = \$2`).
			WithArgs(int64(7), "FUE_7_abcd1234", "acc_1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.AttachPayment(ctx, 7, "FUE_7_abcd1234", "acc_1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ReferenceAlreadySet", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectExec(`UPDATE orders`).
			WithArgs(int64(7), "FUE_7_ffffffff", "acc_2").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.AttachPayment(ctx, 7, "FUE_7_ffffffff", "acc_2"), ErrReferenceTaken)
	})
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(addOrderRow(sqlmock.NewRows(orderRowColumns), 1, "FUE_1_abcd1234", "pending"))

		o, err := repo.GetByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), o.ID)
		assert.Nil(t, o.UserID)
		assert.Nil(t, o.Email)
		assert.Equal(t, FuelRegular, o.FuelType)
		assert.True(t, decimal.RequireFromString("125").Equal(o.TotalAmount))
		require.NotNil(t, o.PaystackReference)
		assert.Equal(t, "FUE_1_abcd1234", *o.PaystackReference)
		assert.Nil(t, o.PaystackAccessCode)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT .* FROM orders`).WillReturnError(sql.ErrConnDone)

		_, err := repo.GetByID(ctx, 1)
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstPage", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rows := sqlmock.NewRows(orderRowColumns)
		addOrderRow(rows, 1, nil, "pending")
		addOrderRow(rows, 2, nil, "pending")

		mock.ExpectQuery(`ORDER BY id ASC\s+OFFSET \$1\s+LIMIT \$2`).
			WithArgs(0, 2).
			WillReturnRows(rows)

		orders, err := repo.List(ctx, 0, 2)

		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, int64(1), orders[0].ID)
		assert.Equal(t, int64(2), orders[1].ID)
	})

	t.Run("NormalizesPaging", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`FROM orders`).
			WithArgs(0, DefaultPageSize).
			WillReturnRows(sqlmock.NewRows(orderRowColumns))
		mock.ExpectQuery(`FROM orders`).
			WithArgs(5, MaxPageSize).
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		orders, err := repo.List(ctx, -3, 0)
		require.NoError(t, err)
		assert.Empty(t, orders)

		_, err = repo.List(ctx, 5, 1000)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ConfirmByReference(t *testing.T) {
	ctx := context.Background()
	const ref = "FUE_1_abcd1234"

	t.Run("Transitions", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`UPDATE orders\s+SET payment_status = 'successful'`).
			WithArgs(ref).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

		id, changed, err := repo.ConfirmByReference(ctx, ref)

		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.True(t, changed)
	})

	t.Run("AlreadyConfirmed", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`UPDATE orders`).
			WithArgs(ref).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT id FROM orders WHERE paystack_reference = \$1`).
			WithArgs(ref).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

		id, changed, err := repo.ConfirmByReference(ctx, ref)

		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.False(t, changed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownReference", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`UPDATE orders`).
			WithArgs("FUE_9_00000000").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT id FROM orders`).
			WithArgs("FUE_9_00000000").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, changed, err := repo.ConfirmByReference(ctx, "FUE_9_00000000")

		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.False(t, changed)
	})

	t.Run("UpdateError", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`UPDATE orders`).WillReturnError(errors.New("deadlock"))

		_, _, err := repo.ConfirmByReference(ctx, ref)
		assert.EqualError(t, err, "deadlock")
	})
}

func TestRepository_ListAwaitingConfirmation(t *testing.T) {
	repo, mock := newMockRepo(t)

	createdAfter := time.Now().Add(-24 * time.Hour)
	updatedBefore := time.Now().Add(-5 * time.Minute)

	mock.ExpectQuery(`WHERE paystack_reference IS NOT NULL\s+AND payment_status = 'pending'`).
		WithArgs(createdAfter, updatedBefore, 50).
		WillReturnRows(addOrderRow(sqlmock.NewRows(orderRowColumns), 3, "FUE_3_abcd1234", "pending"))

	orders, err := repo.ListAwaitingConfirmation(context.Background(), createdAfter, updatedBefore, 50)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "FUE_3_abcd1234", *orders[0].PaystackReference)
}
