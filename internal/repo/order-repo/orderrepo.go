package orderrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/vthuan-dev/bulkpay/internal/domain"
	"github.com/vthuan-dev/bulkpay/internal/pg"
	"go.uber.org/zap"
)

const orderColumns = "id, user_id, service_type, status, total_amount, input_data, result_data, created_at, updated_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanOrder(row pgx.Row, order *domain.Order) error {
	return row.Scan(
		&order.ID, &order.UserID, &order.ServiceType, &order.Status, &order.TotalAmount,
		&order.InputData, &order.ResultData, &order.CreatedAt, &order.UpdatedAt,
	)
}

func (r *Repository) Save(ctx context.Context, order *domain.Order) error {
	query := `
        INSERT INTO orders (id, user_id, service_type, status, total_amount, input_data)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query, order.ID, order.UserID, order.ServiceType, order.Status, order.TotalAmount, order.InputData).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE id = $1 AND deleted_at IS NULL
    `
	var order domain.Order
	err := scanOrder(r.db.QueryRow(ctx, query, id), &order)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find order", zap.Error(err))
		return nil, err
	}
	return &order, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		zap.L().Error("can't get orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			zap.L().Error("can't scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *Repository) CountByUserID(ctx context.Context, userID string) (int, error) {
	query := `
        SELECT COUNT(*)
        FROM orders
        WHERE user_id = $1 AND deleted_at IS NULL
    `
	var total int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		zap.L().Error("can't count orders", zap.Error(err))
		return 0, err
	}
	return total, nil
}

// FindPending returns claimable orders, most recent first. Read-only, safe
// for repeated worker polling.
func (r *Repository) FindPending(ctx context.Context, limit int) ([]domain.Order, error) {
	query := `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE status = 'pending' AND deleted_at IS NULL
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("can't get pending orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			zap.L().Error("can't scan pending order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// ClaimPending transitions one order from pending to processing. The WHERE
// status guard makes the transition a compare-and-swap: of two racing
// claimers exactly one sees RowsAffected() == 1.
func (r *Repository) ClaimPending(ctx context.Context, id string) (bool, error) {
	query := `
        UPDATE orders
        SET status = 'processing', updated_at = now()
        WHERE id = $1 AND status = 'pending' AND deleted_at IS NULL
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't claim order", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id, status, resultData string) error {
	query := `
        UPDATE orders
        SET status = $1, result_data = $2, updated_at = now()
        WHERE id = $3
    `
	if _, err := r.db.Exec(ctx, query, status, resultData, id); err != nil {
		zap.L().Error("failed to update order status", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) SoftDelete(ctx context.Context, id string) error {
	query := `
        UPDATE orders
        SET deleted_at = now(), updated_at = now()
        WHERE id = $1 AND deleted_at IS NULL
    `
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		zap.L().Error("failed to soft delete order", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) CountPending(ctx context.Context, userID, serviceType string) (int, error) {
	var (
		query string
		args  []any
	)
	if serviceType == "" {
		query = `
        SELECT COUNT(*)
        FROM orders
        WHERE user_id = $1 AND status = 'pending' AND deleted_at IS NULL
    `
		args = []any{userID}
	} else {
		query = `
        SELECT COUNT(*)
        FROM orders
        WHERE user_id = $1 AND status = 'pending' AND service_type = $2 AND deleted_at IS NULL
    `
		args = []any{userID, serviceType}
	}

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		zap.L().Error("can't count pending orders", zap.Error(err))
		return 0, err
	}
	return total, nil
}
