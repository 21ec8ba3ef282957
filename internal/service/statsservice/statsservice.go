package statsservice

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

type TransactionRepo interface {
	CountCreatedSince(ctx context.Context, userID, serviceType string, since time.Time) (int, error)
	SumSuccessAmount(ctx context.Context, userID, serviceType string) (float64, error)
	CountTotals(ctx context.Context, userID, serviceType string) (total, success int, err error)
}

type OrderRepo interface {
	CountPending(ctx context.Context, userID, serviceType string) (int, error)
}

type Service struct {
	transactions TransactionRepo
	orders       OrderRepo
	now          func() time.Time
}

func New(transactions TransactionRepo, orders OrderRepo) *Service {
	return &Service{
		transactions: transactions,
		orders:       orders,
		now:          time.Now,
	}
}

type Stats struct {
	TodayTransactions int     `json:"todayTransactions"`
	TotalRevenue      float64 `json:"totalRevenue"`
	SuccessRate       float64 `json:"successRate"`
	PendingOrders     int     `json:"pendingOrders"`
}

// TodayStats recomputes all four dashboard metrics from current rows. No
// running totals are kept; per-dashboard-load query volume makes the re-read
// affordable and always consistent.
func (s *Service) TodayStats(ctx context.Context, userID, serviceType string) (*Stats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todayCount, err := s.transactions.CountCreatedSince(ctx, userID, serviceType, midnight)
	if err != nil {
		zap.L().Error("can't count today transactions", zap.Error(err))
		return nil, err
	}

	revenue, err := s.transactions.SumSuccessAmount(ctx, userID, serviceType)
	if err != nil {
		zap.L().Error("can't compute revenue", zap.Error(err))
		return nil, err
	}

	total, success, err := s.transactions.CountTotals(ctx, userID, serviceType)
	if err != nil {
		zap.L().Error("can't compute success rate", zap.Error(err))
		return nil, err
	}
	successRate := 0.0
	if total > 0 {
		successRate = math.Round(float64(success)/float64(total)*100*10) / 10
	}

	pending, err := s.orders.CountPending(ctx, userID, serviceType)
	if err != nil {
		zap.L().Error("can't count pending orders", zap.Error(err))
		return nil, err
	}

	return &Stats{
		TodayTransactions: todayCount,
		TotalRevenue:      revenue,
		SuccessRate:       successRate,
		PendingOrders:     pending,
	}, nil
}
