// Package simulator stands in for the external automation worker in local
// and demo setups: it polls for pending orders, claims them through the same
// claim protocol real workers use, and reports randomized results back.
package simulator

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/vthuan-dev/bulkpay/internal/domain"
	callbackservice "github.com/vthuan-dev/bulkpay/internal/service/callbackservice"
	orderservice "github.com/vthuan-dev/bulkpay/internal/service/orderservice"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const successRate = 0.9

var processingOrders sync.Map

type OrderService interface {
	ListPending(ctx context.Context, limit int) ([]orderservice.OrderWithTransactions, error)
	Claim(ctx context.Context, orderID string) (*domain.Order, error)
}

type CallbackService interface {
	Reconcile(ctx context.Context, p callbackservice.Payload) (*domain.ServiceTransaction, error)
}

type Service struct {
	orderService    OrderService
	callbackService CallbackService
	limit           int
	workerPool      WorkerPoolI
	pollInterval    time.Duration
}

func New(orderService OrderService, callbackService CallbackService) *Service {
	return &Service{
		orderService:    orderService,
		callbackService: callbackService,
		limit:           100,
		workerPool:      NewWorkerPool(10),
		pollInterval:    time.Second * 5,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Worker simulator started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping simulator")
			return
		case <-ticker.C:
			s.processPending(ctx)
		}
	}
}

func (s *Service) processPending(ctx context.Context) {
	pending, err := s.orderService.ListPending(ctx, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch pending orders", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, item := range pending {
		item := item

		if _, loaded := processingOrders.LoadOrStore(item.Order.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingOrders.Delete(item.Order.ID)
				return s.handleOrder(ctx, item)
			})
			if err != nil {
				processingOrders.Delete(item.Order.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error processing pending orders", zap.Error(err))
	}
}

func (s *Service) handleOrder(ctx context.Context, item orderservice.OrderWithTransactions) error {
	_, err := s.orderService.Claim(ctx, item.Order.ID)
	if err != nil {
		// Another worker got there first; normal under concurrent polling.
		if errors.Is(err, orderservice.ErrClaimConflict) {
			return nil
		}
		return err
	}

	for _, transaction := range item.Transactions {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(100+rand.Intn(400)) * time.Millisecond):
		}

		payload := callbackservice.Payload{
			OrderID: item.Order.ID,
			Code:    transaction.Code,
			Status:  domain.TransactionStatusSuccess,
			Amount:  transaction.Amount,
			Notes:   "processed by simulator",
		}
		if rand.Float64() >= successRate {
			payload.Status = domain.TransactionStatusFailed
			payload.Amount = 0
			payload.Notes = "simulated provider failure"
		}

		if _, err := s.callbackService.Reconcile(ctx, payload); err != nil {
			zap.L().Error("Failed to apply simulated callback",
				zap.String("orderID", item.Order.ID),
				zap.String("code", transaction.Code),
				zap.Error(err),
			)
		}
	}
	return nil
}
