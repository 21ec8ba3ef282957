package orderservice

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vthuan-dev/bulkpay/internal/domain"
	"github.com/vthuan-dev/bulkpay/internal/pg"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockOrderRepo, *MockTransactionRepo, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	orders := NewMockOrderRepo(ctrl)
	transactions := NewMockTransactionRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	service := New(orders, transactions, txManager)
	defer ctrl.Finish()
	return service, orders, transactions, txManager
}

func TestSubmitBatch(t *testing.T) {
	service, orders, transactions, txManager := NewMock(t)

	passthrough := func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	}

	tests := []struct {
		name          string
		codes         []string
		mode          string
		prepareMock   func()
		expectedCount int
		expectedSplit bool
		expectedError bool
	}{
		{
			name:          "Empty code list is rejected",
			codes:         nil,
			expectedError: true,
		},
		{
			name:  "Single code produces one order without split",
			codes: []string{"PE0206068"},
			prepareMock: func() {
				txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(passthrough)
				orders.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				transactions.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedCount: 1,
			expectedSplit: false,
		},
		{
			name:  "Three codes split into three single-code orders",
			codes: []string{"0912345678", "0912345679", "0912345680"},
			mode:  domain.ModePrepaid,
			prepareMock: func() {
				txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(passthrough).Times(3)
				orders.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(3)
				transactions.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(3)
			},
			expectedCount: 3,
			expectedSplit: true,
		},
		{
			name:  "Save failure aborts the batch",
			codes: []string{"PE0206068"},
			prepareMock: func() {
				txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			result, err := service.SubmitBatch(context.Background(), "user-1", domain.ServiceMultiTopup, tt.mode, tt.codes)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedCount, result.Count)
			assert.Equal(t, tt.expectedSplit, result.Split)
			assert.Len(t, result.Orders, tt.expectedCount)
			for i, order := range result.Orders {
				assert.Equal(t, "user-1", order.UserID)
				assert.Equal(t, domain.OrderStatusPending, order.Status)
				assert.JSONEq(t,
					`{"codes":["`+tt.codes[i]+`"]`+modeFragment(tt.mode)+`}`,
					order.InputData,
				)
			}
		})
	}
}

func modeFragment(mode string) string {
	if mode == "" {
		return ""
	}
	return `,"mode":"` + mode + `"`
}

func TestSubmitBatchAmounts(t *testing.T) {
	service, orders, transactions, txManager := NewMock(t)

	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) },
	).Times(2)
	var saved []*domain.ServiceTransaction
	orders.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	transactions.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tr *domain.ServiceTransaction) error {
			saved = append(saved, tr)
			return nil
		},
	).Times(2)

	_, err := service.SubmitBatch(context.Background(), "user-1", domain.ServiceMultiTopup, domain.ModePostpaid,
		[]string{"0912345678|50000", "0912345679|100000"})
	assert.NoError(t, err)
	assert.Len(t, saved, 2)
	assert.Equal(t, 50000.0, saved[0].Amount)
	assert.Equal(t, 100000.0, saved[1].Amount)
}

func TestInputMode(t *testing.T) {
	assert.Equal(t, "postpaid", InputMode(`{"codes":["0912345678"],"mode":"postpaid"}`))
	assert.Equal(t, "", InputMode(`{"codes":["PE010203"]}`))
	assert.Equal(t, "", InputMode("not json"))
}

func TestClaim(t *testing.T) {
	service, orders, _, _ := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Claim succeeds against a pending order",
			prepareMock: func() {
				orders.EXPECT().ClaimPending(gomock.Any(), "order-1").Return(true, nil)
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusProcessing}, nil)
			},
		},
		{
			name: "Already claimed order yields conflict",
			prepareMock: func() {
				orders.EXPECT().ClaimPending(gomock.Any(), "order-1").Return(false, nil)
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusProcessing}, nil)
			},
			expectedError: ErrClaimConflict,
		},
		{
			name: "Unknown order yields not found, not conflict",
			prepareMock: func() {
				orders.EXPECT().ClaimPending(gomock.Any(), "order-1").Return(false, nil)
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(nil, nil)
			},
			expectedError: ErrOrderNotFound,
		},
		{
			name: "Repo error is passed through",
			prepareMock: func() {
				orders.EXPECT().ClaimPending(gomock.Any(), "order-1").Return(false, errors.New("db down"))
			},
			expectedError: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			order, err := service.Claim(context.Background(), "order-1")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, domain.OrderStatusProcessing, order.Status)
			}
		})
	}
}

func TestClaimExclusivity(t *testing.T) {
	service, orders, _, _ := NewMock(t)

	const claimers = 10
	var claimed atomic.Bool
	orders.EXPECT().ClaimPending(gomock.Any(), "order-1").DoAndReturn(
		func(context.Context, string) (bool, error) {
			return claimed.CompareAndSwap(false, true), nil
		},
	).Times(claimers)
	orders.EXPECT().FindByID(gomock.Any(), "order-1").
		Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusProcessing}, nil).
		Times(claimers)

	var wg sync.WaitGroup
	var wins, conflicts atomic.Int32
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Claim(context.Background(), "order-1")
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, ErrClaimConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(claimers-1), conflicts.Load())
}

func TestRefreshStatus(t *testing.T) {
	service, orders, transactions, _ := NewMock(t)

	tests := []struct {
		name           string
		prepareMock    func()
		expectedStatus string
		expectedError  bool
	}{
		{
			name: "All transactions succeeded",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusProcessing}, nil)
				transactions.EXPECT().FindByOrderID(gomock.Any(), "order-1").Return([]domain.ServiceTransaction{
					{Status: domain.TransactionStatusSuccess},
					{Status: domain.TransactionStatusSuccess},
				}, nil)
				orders.EXPECT().UpdateStatus(gomock.Any(), "order-1", domain.OrderStatusCompleted, `{"total":2,"success":2,"failed":0}`).Return(nil)
			},
			expectedStatus: domain.OrderStatusCompleted,
		},
		{
			name: "Any failed transaction fails the order",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusProcessing}, nil)
				transactions.EXPECT().FindByOrderID(gomock.Any(), "order-1").Return([]domain.ServiceTransaction{
					{Status: domain.TransactionStatusSuccess},
					{Status: domain.TransactionStatusFailed},
				}, nil)
				orders.EXPECT().UpdateStatus(gomock.Any(), "order-1", domain.OrderStatusFailed, `{"total":2,"success":1,"failed":1}`).Return(nil)
			},
			expectedStatus: domain.OrderStatusFailed,
		},
		{
			name: "In-flight transaction leaves the order untouched",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusProcessing}, nil)
				transactions.EXPECT().FindByOrderID(gomock.Any(), "order-1").Return([]domain.ServiceTransaction{
					{Status: domain.TransactionStatusSuccess},
					{Status: domain.TransactionStatusProcessing},
				}, nil)
			},
			expectedStatus: domain.OrderStatusProcessing,
		},
		{
			name: "Unchanged status skips the update",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusCompleted}, nil)
				transactions.EXPECT().FindByOrderID(gomock.Any(), "order-1").Return([]domain.ServiceTransaction{
					{Status: domain.TransactionStatusSuccess},
				}, nil)
			},
			expectedStatus: domain.OrderStatusCompleted,
		},
		{
			name: "Order without transactions keeps its status",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusPending}, nil)
				transactions.EXPECT().FindByOrderID(gomock.Any(), "order-1").Return(nil, nil)
			},
			expectedStatus: domain.OrderStatusPending,
		},
		{
			name: "Unknown order",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(nil, nil)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			status, err := service.RefreshStatus(context.Background(), "order-1")
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

func TestGetOrder(t *testing.T) {
	service, orders, transactions, _ := NewMock(t)

	tests := []struct {
		name          string
		userID        string
		elevated      bool
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Owner can read the order",
			userID: "user-1",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", UserID: "user-1"}, nil)
				transactions.EXPECT().FindByOrderID(gomock.Any(), "order-1").Return([]domain.ServiceTransaction{{OrderID: "order-1"}}, nil)
			},
		},
		{
			name:     "Elevated role can read any order",
			userID:   "admin-1",
			elevated: true,
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", UserID: "user-1"}, nil)
				transactions.EXPECT().FindByOrderID(gomock.Any(), "order-1").Return(nil, nil)
			},
		},
		{
			name:   "Other user is denied",
			userID: "user-2",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", UserID: "user-1"}, nil)
			},
			expectedError: ErrAccessDenied,
		},
		{
			name:   "Unknown order",
			userID: "user-1",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(nil, nil)
			},
			expectedError: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			detail, err := service.GetOrder(context.Background(), "order-1", tt.userID, tt.elevated)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "order-1", detail.Order.ID)
			}
		})
	}
}

func TestGetOrders(t *testing.T) {
	service, orders, _, _ := NewMock(t)

	orders.EXPECT().FindByUserID(gomock.Any(), "user-1", 20, 0).Return([]domain.Order{{ID: "order-1"}}, nil)
	orders.EXPECT().CountByUserID(gomock.Any(), "user-1").Return(1, nil)

	// Out-of-range paging falls back to the defaults.
	list, total, err := service.GetOrders(context.Background(), "user-1", 0, 500)
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)
}

func TestRetry(t *testing.T) {
	service, orders, _, _ := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Failed order goes back to pending",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", UserID: "user-1", Status: domain.OrderStatusFailed}, nil)
				orders.EXPECT().UpdateStatus(gomock.Any(), "order-1", domain.OrderStatusPending, "").Return(nil)
			},
		},
		{
			name: "Unknown order",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(nil, nil)
			},
			expectedError: ErrOrderNotFound,
		},
		{
			name: "Foreign order is denied",
			prepareMock: func() {
				orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", UserID: "user-2"}, nil)
			},
			expectedError: ErrAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			err := service.Retry(context.Background(), "order-1", "user-1", false)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBulkProcess(t *testing.T) {
	service, orders, _, _ := NewMock(t)

	orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", UserID: "user-1"}, nil)
	orders.EXPECT().UpdateStatus(gomock.Any(), "order-1", domain.OrderStatusPending, "").Return(nil)
	orders.EXPECT().FindByID(gomock.Any(), "order-2").Return(&domain.Order{ID: "order-2", UserID: "user-2"}, nil)
	orders.EXPECT().FindByID(gomock.Any(), "order-3").Return(nil, errors.New("db down"))

	results := service.BulkProcess(context.Background(), "user-1", []string{"order-1", "order-2", "order-3"}, BulkActionRetry)
	assert.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)
	assert.False(t, results[2].Success)
	assert.NotEmpty(t, results[2].Error)
}

func TestBulkProcessDelete(t *testing.T) {
	service, orders, _, _ := NewMock(t)

	orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", UserID: "user-1"}, nil)
	orders.EXPECT().SoftDelete(gomock.Any(), "order-1").Return(nil)

	results := service.BulkProcess(context.Background(), "user-1", []string{"order-1"}, BulkActionDelete)
	assert.Len(t, results, 1)
	assert.True(t, results[0].Success)
}

func TestStartProcessing(t *testing.T) {
	service, orders, transactions, _ := NewMock(t)

	orders.EXPECT().ClaimPending(gomock.Any(), "order-1").Return(true, nil)
	orders.EXPECT().FindByID(gomock.Any(), "order-1").Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusProcessing}, nil)
	transactions.EXPECT().FindByOrderID(gomock.Any(), "order-1").Return([]domain.ServiceTransaction{
		{Code: "0912345678|50000"},
	}, nil)

	order, codes, err := service.StartProcessing(context.Background(), "order-1")
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	assert.Equal(t, []string{"0912345678|50000"}, codes)
}

func TestListPending(t *testing.T) {
	service, orders, transactions, _ := NewMock(t)

	orders.EXPECT().FindPending(gomock.Any(), 50).Return([]domain.Order{{ID: "order-1"}}, nil)
	transactions.EXPECT().FindByOrderID(gomock.Any(), "order-1").Return([]domain.ServiceTransaction{{Code: "PE0206068"}}, nil)

	pending, err := service.ListPending(context.Background(), 0)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Len(t, pending[0].Transactions, 1)
}
