package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fuelease-be/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 100
)

type Repository interface {
	Create(ctx context.Context, order *Order) error
	Delete(ctx context.Context, orderID int64) error
	AttachPayment(ctx context.Context, orderID int64, reference, accessCode string) error

	GetByID(ctx context.Context, orderID int64) (*Order, error)
	List(ctx context.Context, skip, limit int) ([]*Order, error)

	// ConfirmByReference moves the order to confirmed/successful. changed is
	// false when the order was already successful.
	ConfirmByReference(ctx context.Context, reference string) (orderID int64, changed bool, err error)

	ListAwaitingConfirmation(
		ctx context.Context,
		createdAfter time.Time,
		updatedBefore time.Time,
		limit int,
	) ([]*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id,
	user_id,
	phone_number,
	email,
	delivery_address,
	fuel_type,
	quantity,
	price_per_liter,
	total_amount,
	delivery_time,
	order_status,
	payment_status,
	paystack_reference,
	paystack_access_code,
	created_at,
	updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o          Order
		userID     sql.NullInt64
		email      sql.NullString
		reference  sql.NullString
		accessCode sql.NullString
	)

	err := row.Scan(
		&o.ID,
		&userID,
		&o.PhoneNumber,
		&email,
		&o.DeliveryAddress,
		&o.FuelType,
		&o.Quantity,
		&o.PricePerLiter,
		&o.TotalAmount,
		&o.DeliveryTime,
		&o.OrderStatus,
		&o.PaymentStatus,
		&reference,
		&accessCode,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		o.UserID = &userID.Int64
	}
	if email.Valid {
		o.Email = &email.String
	}
	if reference.Valid {
		o.PaystackReference = &reference.String
	}
	if accessCode.Valid {
		o.PaystackAccessCode = &accessCode.String
	}

	return &o, nil
}

func (r *repository) Create(ctx context.Context, order *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id,
			phone_number,
			email,
			delivery_address,
			fuel_type,
			quantity,
			price_per_liter,
			total_amount,
			delivery_time,
			order_status,
			payment_status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at
	`,
		order.UserID,
		order.PhoneNumber,
		order.Email,
		order.DeliveryAddress,
		order.FuelType,
		order.Quantity,
		order.PricePerLiter,
		order.TotalAmount,
		order.DeliveryTime,
		order.OrderStatus,
		order.PaymentStatus,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	return tx.Commit()
}

// Delete removes an order that never received a payment reference.
func (r *repository) Delete(ctx context.Context, orderID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM orders
		WHERE id = $1 AND paystack_reference IS NULL
	`, orderID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}

	return tx.Commit()
}

// AttachPayment sets the reference at most once per order.
func (r *repository) AttachPayment(
	ctx context.Context,
	orderID int64,
	reference string,
	accessCode string,
) error {

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET paystack_reference = $2,
		    paystack_access_code = NULLIF($3, ''),
		    updated_at = now()
		WHERE id = $1 AND paystack_reference IS NULL
	`, orderID, reference, accessCode)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReferenceTaken
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, orderID int64) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (r *repository) List(ctx context.Context, skip, limit int) ([]*Order, error) {
	skip, limit = normalizePage(skip, limit)

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY id ASC
		OFFSET $1
		LIMIT $2
	`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return skip, limit
}

func (r *repository) ConfirmByReference(ctx context.Context, reference string) (int64, bool, error) {
	var id int64

	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET payment_status = 'successful',
		    order_status = CASE WHEN order_status = 'pending' THEN 'confirmed' ELSE order_status END,
		    updated_at = now()
		WHERE paystack_reference = $1 AND payment_status <> 'successful'
		RETURNING id
	`, reference).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}

	// Either unknown or already confirmed.
	err = r.db.QueryRowContext(ctx, `SELECT id FROM orders WHERE paystack_reference = $1`, reference).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, ErrOrderNotFound
	}
	if err != nil {
		return 0, false, err
	}

	return id, false, nil
}

func (r *repository) ListAwaitingConfirmation(
	ctx context.Context,
	createdAfter time.Time,
	updatedBefore time.Time,
	limit int,
) ([]*Order, error) {

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE paystack_reference IS NOT NULL
		  AND payment_status = 'pending'
		  AND order_status = 'pending'
		  AND created_at >= $1
		  AND updated_at < $2
		ORDER BY updated_at ASC
		LIMIT $3
	`, createdAfter, updatedBefore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}
