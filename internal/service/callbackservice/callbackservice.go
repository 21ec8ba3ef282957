package callbackservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vthuan-dev/bulkpay/internal/domain"
	"github.com/vthuan-dev/bulkpay/internal/metrics"
	"go.uber.org/zap"
)

type TransactionRepo interface {
	FindByOrderAndCode(ctx context.Context, orderID, code string) (*domain.ServiceTransaction, error)
	FindLatestByCode(ctx context.Context, code string) (*domain.ServiceTransaction, error)
	UpdateStatus(ctx context.Context, id, status string, amount float64, notes, processingData string) (bool, error)
}

// OrderStatusService re-derives the parent order status after a transaction
// update. Implemented by orderservice.
type OrderStatusService interface {
	RefreshStatus(ctx context.Context, orderID string) (string, error)
}

type Service struct {
	transactions TransactionRepo
	orders       OrderStatusService
}

func New(transactions TransactionRepo, orders OrderStatusService) *Service {
	return &Service{
		transactions: transactions,
		orders:       orders,
	}
}

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidPayload      = errors.New("invalid callback payload")
)

// Payload is the completion report posted by the external worker. OrderID is
// optional; when omitted the transaction is resolved by code alone.
type Payload struct {
	OrderID string         `json:"orderId,omitempty"`
	Code    string         `json:"code"`
	Status  string         `json:"status"`
	Amount  float64        `json:"amount,omitempty"`
	Notes   string         `json:"notes,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Reconcile applies a worker callback to its transaction and re-derives the
// parent order status. Re-sending the same terminal callback is a no-op, and
// a non-terminal status never overwrites a terminal one.
func (s *Service) Reconcile(ctx context.Context, p Payload) (*domain.ServiceTransaction, error) {
	if p.Code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidPayload)
	}
	if !domain.IsValidTransactionStatus(p.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidPayload, p.Status)
	}

	transaction, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	// A late or replayed non-terminal callback must not drag a finished
	// transaction back to processing.
	if transaction.Terminal() && !domain.IsTerminalTransactionStatus(p.Status) {
		zap.L().Warn("stale callback ignored",
			zap.String("transactionID", transaction.ID),
			zap.String("status", transaction.Status),
			zap.String("callbackStatus", p.Status),
		)
		return transaction, nil
	}

	amount := p.Amount
	if amount == 0 {
		amount = transaction.Amount
	}
	notes := p.Notes
	if notes == "" {
		notes = transaction.Notes
	}
	processingData := transaction.ProcessingData
	if len(p.Data) > 0 {
		raw, err := json.Marshal(p.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: can't encode data", ErrInvalidPayload)
		}
		processingData = string(raw)
	}

	// Duplicate delivery of an already applied terminal result must not
	// disturb the order status.
	if transaction.Terminal() && transaction.Status == p.Status && transaction.Amount == amount {
		zap.L().Info("duplicate callback ignored",
			zap.String("transactionID", transaction.ID),
			zap.String("status", p.Status),
		)
		return transaction, nil
	}

	updated, err := s.transactions.UpdateStatus(ctx, transaction.ID, p.Status, amount, notes, processingData)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrTransactionNotFound
	}
	metrics.CallbacksApplied.WithLabelValues(p.Status).Inc()

	transaction.Status = p.Status
	transaction.Amount = amount
	transaction.Notes = notes
	transaction.ProcessingData = processingData

	if _, err := s.orders.RefreshStatus(ctx, transaction.OrderID); err != nil {
		zap.L().Error("can't refresh order status after callback",
			zap.String("orderID", transaction.OrderID),
			zap.Error(err),
		)
		return nil, err
	}
	return transaction, nil
}

func (s *Service) resolve(ctx context.Context, p Payload) (*domain.ServiceTransaction, error) {
	if p.OrderID != "" {
		transaction, err := s.transactions.FindByOrderAndCode(ctx, p.OrderID, p.Code)
		if err != nil {
			return nil, err
		}
		if transaction == nil {
			return nil, ErrTransactionNotFound
		}
		return transaction, nil
	}

	// Fallback when the worker omits the order id: the newest transaction
	// for the code wins. Ambiguous when a code was resubmitted; workers
	// should send orderId whenever they can.
	zap.L().Warn("callback without orderId, resolving by code", zap.String("code", p.Code))
	transaction, err := s.transactions.FindLatestByCode(ctx, p.Code)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}
	return transaction, nil
}
