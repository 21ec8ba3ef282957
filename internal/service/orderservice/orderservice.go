package orderservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vthuan-dev/bulkpay/internal/domain"
	"github.com/vthuan-dev/bulkpay/internal/metrics"
	"github.com/vthuan-dev/bulkpay/internal/pg"
	"go.uber.org/zap"
)

type OrderRepo interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
	FindPending(ctx context.Context, limit int) ([]domain.Order, error)
	ClaimPending(ctx context.Context, id string) (bool, error)
	UpdateStatus(ctx context.Context, id, status, resultData string) error
	SoftDelete(ctx context.Context, id string) error
}

type TransactionRepo interface {
	Save(ctx context.Context, t *domain.ServiceTransaction) error
	FindByOrderID(ctx context.Context, orderID string) ([]domain.ServiceTransaction, error)
}

type Service struct {
	orders       OrderRepo
	transactions TransactionRepo
	txManager    pg.TXManager
}

func New(orders OrderRepo, transactions TransactionRepo, txManager pg.TXManager) *Service {
	return &Service{
		orders:       orders,
		transactions: transactions,
		txManager:    txManager,
	}
}

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrAccessDenied  = errors.New("order belongs to another user")
	// ErrClaimConflict another worker already claimed the order, or it left
	// the pending state. A "try another order" signal, not a failure.
	ErrClaimConflict = errors.New("order already claimed or not pending")
)

// orderInput is the serialized input payload. After splitting it always
// carries exactly one code.
type orderInput struct {
	Codes []string `json:"codes"`
	Mode  string   `json:"mode,omitempty"`
}

// InputMode extracts the submission mode from an order's serialized input
// payload. Empty for services without modes or unreadable payloads.
func InputMode(inputData string) string {
	var input orderInput
	if err := json.Unmarshal([]byte(inputData), &input); err != nil {
		return ""
	}
	return input.Mode
}

type SubmitResult struct {
	Split  bool
	Count  int
	Orders []domain.Order
}

// SubmitBatch creates one order plus one transaction per validated code.
// Multi-code submissions are always split so claim, reconcile and export
// operate on uniform single-code units; the order+transaction pair of each
// code is inserted in one database transaction.
func (s *Service) SubmitBatch(ctx context.Context, userID, serviceType, mode string, codes []string) (*SubmitResult, error) {
	if len(codes) == 0 {
		return nil, errors.New("empty code list")
	}

	result := &SubmitResult{
		Split: len(codes) > 1,
		Count: len(codes),
	}

	for _, code := range codes {
		input, err := json.Marshal(orderInput{Codes: []string{code}, Mode: mode})
		if err != nil {
			return nil, fmt.Errorf("can't marshal order input: %w", err)
		}

		order := &domain.Order{
			ID:          uuid.NewString(),
			UserID:      userID,
			ServiceType: serviceType,
			Status:      domain.OrderStatusPending,
			TotalAmount: amountOf(code),
			InputData:   string(input),
		}
		transaction := &domain.ServiceTransaction{
			ID:      uuid.NewString(),
			OrderID: order.ID,
			Code:    code,
			Status:  domain.TransactionStatusPending,
			Amount:  amountOf(code),
		}

		err = s.txManager.Begin(ctx, func(ctx context.Context) error {
			if err := s.orders.Save(ctx, order); err != nil {
				return err
			}
			return s.transactions.Save(ctx, transaction)
		})
		if err != nil {
			zap.L().Error("can't create order for code", zap.String("code", code), zap.Error(err))
			return nil, fmt.Errorf("can't create order for code %s: %w", code, err)
		}

		metrics.OrdersCreated.WithLabelValues(serviceType).Inc()
		result.Orders = append(result.Orders, *order)
	}

	zap.L().Info("batch submitted",
		zap.String("userID", userID),
		zap.String("serviceType", serviceType),
		zap.Int("orders", result.Count),
		zap.Bool("split", result.Split),
	)
	return result, nil
}

// amountOf extracts the denomination of a compound "number|amount" code.
// Plain codes carry no upfront amount.
func amountOf(code string) float64 {
	i := strings.IndexByte(code, '|')
	if i < 0 {
		return 0
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(code[i+1:]), 64)
	if err != nil {
		return 0
	}
	return amount
}

type OrderWithTransactions struct {
	Order        domain.Order
	Transactions []domain.ServiceTransaction
}

func (s *Service) GetOrders(ctx context.Context, userID string, page, limit int) ([]domain.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	orders, err := s.orders.FindByUserID(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		zap.L().Error("failed to get orders", zap.Error(err))
		return nil, 0, err
	}
	total, err := s.orders.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID, userID string, elevated bool) (*OrderWithTransactions, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !elevated && order.UserID != userID {
		return nil, ErrAccessDenied
	}
	transactions, err := s.transactions.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderWithTransactions{Order: *order, Transactions: transactions}, nil
}

// ListPending exposes claimable orders with their transactions to polling
// workers. Read-only and safe to call repeatedly.
func (s *Service) ListPending(ctx context.Context, limit int) ([]OrderWithTransactions, error) {
	if limit < 1 || limit > 1000 {
		limit = 50
	}
	orders, err := s.orders.FindPending(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]OrderWithTransactions, 0, len(orders))
	for _, order := range orders {
		transactions, err := s.transactions.FindByOrderID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, OrderWithTransactions{Order: order, Transactions: transactions})
	}
	return out, nil
}

// Claim atomically transitions one order from pending to processing. Exactly
// one of N concurrent claimers wins; the rest get ErrClaimConflict, and an
// unknown id gets ErrOrderNotFound.
func (s *Service) Claim(ctx context.Context, orderID string) (*domain.Order, error) {
	claimed, err := s.orders.ClaimPending(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Distinguish a lost race from a bad id: the CAS fails for both.
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}
		metrics.ClaimAttempts.WithLabelValues("conflict").Inc()
		return nil, ErrClaimConflict
	}
	metrics.ClaimAttempts.WithLabelValues("won").Inc()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	zap.L().Info("order claimed", zap.String("orderID", orderID))
	return order, nil
}

type orderResult struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// RefreshStatus re-derives the order status from all child transactions.
// The full re-read avoids counter drift under concurrent partial failures;
// orders carry few transactions, so the extra read is cheap.
func (s *Service) RefreshStatus(ctx context.Context, orderID string) (string, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", ErrOrderNotFound
	}

	transactions, err := s.transactions.FindByOrderID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if len(transactions) == 0 {
		return order.Status, nil
	}

	var result orderResult
	result.Total = len(transactions)
	for _, t := range transactions {
		switch t.Status {
		case domain.TransactionStatusSuccess:
			result.Success++
		case domain.TransactionStatusFailed:
			result.Failed++
		default:
			// A transaction is still in flight; the order stays as it is.
			return order.Status, nil
		}
	}

	status := domain.OrderStatusCompleted
	if result.Failed > 0 {
		status = domain.OrderStatusFailed
	}
	if status == order.Status {
		return status, nil
	}

	resultData, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("can't marshal order result: %w", err)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status, string(resultData)); err != nil {
		return "", err
	}
	zap.L().Info("order status derived",
		zap.String("orderID", orderID),
		zap.String("status", status),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
	)
	return status, nil
}

// Retry puts an order back to pending for another processing round.
// Transaction history is kept untouched.
func (s *Service) Retry(ctx context.Context, orderID, userID string, elevated bool) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if !elevated && order.UserID != userID {
		return ErrAccessDenied
	}
	return s.orders.UpdateStatus(ctx, orderID, domain.OrderStatusPending, order.ResultData)
}

const (
	BulkActionRetry  = "retry"
	BulkActionDelete = "delete"
)

type BulkResult struct {
	OrderID string `json:"orderId"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BulkProcess applies retry or soft-delete to a list of orders, reporting a
// per-order outcome instead of failing the whole batch.
func (s *Service) BulkProcess(ctx context.Context, userID string, orderIDs []string, action string) []BulkResult {
	results := make([]BulkResult, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			results = append(results, BulkResult{OrderID: orderID, Error: err.Error()})
			continue
		}
		if order == nil || order.UserID != userID {
			results = append(results, BulkResult{OrderID: orderID, Error: "order not found or access denied"})
			continue
		}

		switch action {
		case BulkActionRetry:
			if err := s.orders.UpdateStatus(ctx, orderID, domain.OrderStatusPending, order.ResultData); err != nil {
				results = append(results, BulkResult{OrderID: orderID, Error: err.Error()})
				continue
			}
			results = append(results, BulkResult{OrderID: orderID, Success: true, Message: "order marked for retry"})
		case BulkActionDelete:
			if err := s.orders.SoftDelete(ctx, orderID); err != nil {
				results = append(results, BulkResult{OrderID: orderID, Error: err.Error()})
				continue
			}
			results = append(results, BulkResult{OrderID: orderID, Success: true, Message: "order deleted"})
		default:
			results = append(results, BulkResult{OrderID: orderID, Error: "unknown action"})
		}
	}
	return results
}

// StartProcessing claims the order on behalf of a worker and hands back its
// codes, so the worker can begin the external automation run.
func (s *Service) StartProcessing(ctx context.Context, orderID string) (*domain.Order, []string, error) {
	order, err := s.Claim(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	transactions, err := s.transactions.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	codes := make([]string, 0, len(transactions))
	for _, t := range transactions {
		codes = append(codes, t.Code)
	}
	return order, codes, nil
}
