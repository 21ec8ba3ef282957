package transactionrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vthuan-dev/bulkpay/internal/domain"
	"github.com/vthuan-dev/bulkpay/internal/pg"
	"go.uber.org/zap"
)

const transactionColumns = "id, order_id, code, status, amount, notes, processing_data, created_at, updated_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scanTransaction(row pgx.Row, t *domain.ServiceTransaction) error {
	return row.Scan(
		&t.ID, &t.OrderID, &t.Code, &t.Status, &t.Amount,
		&t.Notes, &t.ProcessingData, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *Repository) Save(ctx context.Context, t *domain.ServiceTransaction) error {
	query := `
        INSERT INTO service_transactions (id, order_id, code, status, amount)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query, t.ID, t.OrderID, t.Code, t.Status, t.Amount).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID string) ([]domain.ServiceTransaction, error) {
	query := `
        SELECT ` + transactionColumns + `
        FROM service_transactions
        WHERE order_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		zap.L().Error("can't get transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.ServiceTransaction
	for rows.Next() {
		var t domain.ServiceTransaction
		if err := scanTransaction(rows, &t); err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

func (r *Repository) FindByOrderAndCode(ctx context.Context, orderID, code string) (*domain.ServiceTransaction, error) {
	query := `
        SELECT ` + transactionColumns + `
        FROM service_transactions
        WHERE order_id = $1 AND code = $2
        ORDER BY created_at DESC
        LIMIT 1
    `
	var t domain.ServiceTransaction
	err := scanTransaction(r.db.QueryRow(ctx, query, orderID, code), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find transaction by order and code", zap.Error(err))
		return nil, err
	}
	return &t, nil
}

// FindLatestByCode resolves a callback that carries no order id. If the same
// code was submitted in several orders the newest transaction wins, which can
// misattribute the callback. Callers log when this path is taken.
func (r *Repository) FindLatestByCode(ctx context.Context, code string) (*domain.ServiceTransaction, error) {
	query := `
        SELECT ` + transactionColumns + `
        FROM service_transactions
        WHERE code = $1
        ORDER BY created_at DESC
        LIMIT 1
    `
	var t domain.ServiceTransaction
	err := scanTransaction(r.db.QueryRow(ctx, query, code), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find transaction by code", zap.Error(err))
		return nil, err
	}
	return &t, nil
}

// UpdateStatus applies a reconciliation result. The update is keyed by id so
// a stale callback can never touch any other row; the returned flag reports
// whether the row still existed.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string, amount float64, notes, processingData string) (bool, error) {
	query := `
        UPDATE service_transactions
        SET status = $1, amount = $2, notes = $3, processing_data = $4, updated_at = now()
        WHERE id = $5
    `
	tag, err := r.db.Exec(ctx, query, status, amount, notes, processingData, id)
	if err != nil {
		zap.L().Error("failed to update transaction", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) CountCreatedSince(ctx context.Context, userID, serviceType string, since time.Time) (int, error) {
	var (
		query string
		args  []any
	)
	if serviceType == "" {
		query = `
        SELECT COUNT(*)
        FROM service_transactions st
        JOIN orders o ON o.id = st.order_id
        WHERE o.user_id = $1 AND st.created_at >= $2
    `
		args = []any{userID, since}
	} else {
		query = `
        SELECT COUNT(*)
        FROM service_transactions st
        JOIN orders o ON o.id = st.order_id
        WHERE o.user_id = $1 AND st.created_at >= $2 AND o.service_type = $3
    `
		args = []any{userID, since, serviceType}
	}

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		zap.L().Error("can't count today transactions", zap.Error(err))
		return 0, err
	}
	return total, nil
}

func (r *Repository) SumSuccessAmount(ctx context.Context, userID, serviceType string) (float64, error) {
	var (
		query string
		args  []any
	)
	if serviceType == "" {
		query = `
        SELECT COALESCE(SUM(st.amount), 0)
        FROM service_transactions st
        JOIN orders o ON o.id = st.order_id
        WHERE o.user_id = $1 AND st.status = 'success'
    `
		args = []any{userID}
	} else {
		query = `
        SELECT COALESCE(SUM(st.amount), 0)
        FROM service_transactions st
        JOIN orders o ON o.id = st.order_id
        WHERE o.user_id = $1 AND st.status = 'success' AND o.service_type = $2
    `
		args = []any{userID, serviceType}
	}

	var sum float64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		zap.L().Error("can't sum revenue", zap.Error(err))
		return 0, err
	}
	return sum, nil
}

func (r *Repository) CountTotals(ctx context.Context, userID, serviceType string) (total, success int, err error) {
	var (
		query string
		args  []any
	)
	if serviceType == "" {
		query = `
        SELECT COUNT(*), COUNT(*) FILTER (WHERE st.status = 'success')
        FROM service_transactions st
        JOIN orders o ON o.id = st.order_id
        WHERE o.user_id = $1
    `
		args = []any{userID}
	} else {
		query = `
        SELECT COUNT(*), COUNT(*) FILTER (WHERE st.status = 'success')
        FROM service_transactions st
        JOIN orders o ON o.id = st.order_id
        WHERE o.user_id = $1 AND o.service_type = $2
    `
		args = []any{userID, serviceType}
	}

	if err = r.db.QueryRow(ctx, query, args...).Scan(&total, &success); err != nil {
		zap.L().Error("can't count transaction totals", zap.Error(err))
		return 0, 0, err
	}
	return total, success, nil
}
