package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/vthuan-dev/bulkpay/internal/domain"
	"github.com/vthuan-dev/bulkpay/internal/dto"
	callbackservice "github.com/vthuan-dev/bulkpay/internal/service/callbackservice"
	orderservice "github.com/vthuan-dev/bulkpay/internal/service/orderservice"
)

func NewMock(t *testing.T) (*WorkerHandler, *MockOrderService, *MockCallbackService) {
	ctrl := gomock.NewController(t)
	orders := NewMockOrderService(ctrl)
	callbacks := NewMockCallbackService(ctrl)
	handler := New(orders, callbacks)
	defer ctrl.Finish()
	return handler, orders, callbacks
}

func withURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func TestGetPendingHandler(t *testing.T) {
	handler, orders, _ := NewMock(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		target        string
		prepareMock   func()
		expectedCode  int
		expectedError string
		expectedCodes []string
		expectedMode  string
	}{
		{
			name:   "Pending orders with their codes",
			target: "/api/worker/pending?limit=10",
			prepareMock: func() {
				orders.EXPECT().
					ListPending(context.Background(), 10).
					Return([]orderservice.OrderWithTransactions{
						{
							Order: domain.Order{ID: "order-1", ServiceType: "gach_dien_evn", Status: domain.OrderStatusPending, InputData: `{"codes":["PE010203"]}`, CreatedAt: now, UpdatedAt: now},
							Transactions: []domain.ServiceTransaction{
								{ID: "tx-1", OrderID: "order-1", Code: "PE010203", Status: domain.TransactionStatusPending},
							},
						},
					}, nil)
			},
			expectedCode:  http.StatusOK,
			expectedCodes: []string{"PE010203"},
		},
		{
			name:   "Topup order carries its submission mode",
			target: "/api/worker/pending?limit=10",
			prepareMock: func() {
				orders.EXPECT().
					ListPending(context.Background(), 10).
					Return([]orderservice.OrderWithTransactions{
						{
							Order: domain.Order{ID: "order-2", ServiceType: "nap_tien_da_mang", Status: domain.OrderStatusPending, InputData: `{"codes":["0912345678|50000"],"mode":"postpaid"}`, CreatedAt: now, UpdatedAt: now},
							Transactions: []domain.ServiceTransaction{
								{ID: "tx-2", OrderID: "order-2", Code: "0912345678|50000", Status: domain.TransactionStatusPending},
							},
						},
					}, nil)
			},
			expectedCode:  http.StatusOK,
			expectedCodes: []string{"0912345678|50000"},
			expectedMode:  "postpaid",
		},
		{
			name:   "Missing limit passed through as zero",
			target: "/api/worker/pending",
			prepareMock: func() {
				orders.EXPECT().
					ListPending(context.Background(), 0).
					Return([]orderservice.OrderWithTransactions{}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Internal server error",
			target: "/api/worker/pending",
			prepareMock: func() {
				orders.EXPECT().
					ListPending(context.Background(), 0).
					Return(nil, errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()

			handler.GetPending(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCodes != nil {
				var body []dto.PendingOrderResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Len(t, body, 1)
				assert.Equal(t, tt.expectedCodes, body[0].Codes)
				assert.Equal(t, tt.expectedMode, body[0].Mode)
			}
		})
	}
}

func TestClaimOrderHandler(t *testing.T) {
	handler, orders, _ := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func(ctx context.Context)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful claim",
			prepareMock: func(ctx context.Context) {
				orders.EXPECT().
					Claim(ctx, "order-1").
					Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusProcessing}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Already claimed",
			prepareMock: func(ctx context.Context) {
				orders.EXPECT().
					Claim(ctx, "order-1").
					Return(nil, orderservice.ErrClaimConflict)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "order already claimed or not pending",
		},
		{
			name: "Order not found",
			prepareMock: func(ctx context.Context) {
				orders.EXPECT().
					Claim(ctx, "order-1").
					Return(nil, orderservice.ErrOrderNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "order not found",
		},
		{
			name: "Internal server error",
			prepareMock: func(ctx context.Context) {
				orders.EXPECT().
					Claim(ctx, "order-1").
					Return(nil, errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := withURLParam(context.Background(), "id", "order-1")
			tt.prepareMock(ctx)

			r := httptest.NewRequest(http.MethodPost, "/api/worker/orders/order-1/claim", nil)
			r = r.WithContext(ctx)
			w := httptest.NewRecorder()

			handler.ClaimOrder(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body dto.ClaimResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, "order-1", body.Order.ID)
				assert.Equal(t, domain.OrderStatusProcessing, body.Order.Status)
			}
		})
	}
}

func TestDispatchOrderHandler(t *testing.T) {
	handler, orders, _ := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func(ctx context.Context)
		expectedCode  int
		expectedError string
		expectedCodes []string
	}{
		{
			name: "Claim with code handoff",
			prepareMock: func(ctx context.Context) {
				orders.EXPECT().
					StartProcessing(ctx, "order-1").
					Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusProcessing}, []string{"0912345678|50000"}, nil)
			},
			expectedCode:  http.StatusOK,
			expectedCodes: []string{"0912345678|50000"},
		},
		{
			name: "Already claimed",
			prepareMock: func(ctx context.Context) {
				orders.EXPECT().
					StartProcessing(ctx, "order-1").
					Return(nil, nil, orderservice.ErrClaimConflict)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "order already claimed or not pending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := withURLParam(context.Background(), "id", "order-1")
			tt.prepareMock(ctx)

			r := httptest.NewRequest(http.MethodPost, "/api/worker/orders/order-1/dispatch", nil)
			r = r.WithContext(ctx)
			w := httptest.NewRecorder()

			handler.DispatchOrder(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCodes != nil {
				var body dto.DispatchResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, tt.expectedCodes, body.Codes)
			}
		})
	}
}

func TestCallbackHandler(t *testing.T) {
	handler, _, callbacks := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful reconcile",
			body: `{"orderId":"order-1","code":"PE010203","status":"success","amount":250000}`,
			prepareMock: func() {
				callbacks.EXPECT().
					Reconcile(context.Background(), callbackservice.Payload{
						OrderID: "order-1",
						Code:    "PE010203",
						Status:  domain.TransactionStatusSuccess,
						Amount:  250000,
					}).
					Return(&domain.ServiceTransaction{
						ID:      "tx-1",
						OrderID: "order-1",
						Status:  domain.TransactionStatusSuccess,
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Invalid request body",
			body:          `{invalid`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Invalid payload",
			body: `{"orderId":"order-1","code":"PE010203","status":"exploded"}`,
			prepareMock: func() {
				callbacks.EXPECT().
					Reconcile(context.Background(), callbackservice.Payload{
						OrderID: "order-1",
						Code:    "PE010203",
						Status:  "exploded",
					}).
					Return(nil, callbackservice.ErrInvalidPayload)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid callback payload",
		},
		{
			name: "Transaction not found",
			body: `{"code":"UNKNOWN","status":"success"}`,
			prepareMock: func() {
				callbacks.EXPECT().
					Reconcile(context.Background(), callbackservice.Payload{
						Code:   "UNKNOWN",
						Status: domain.TransactionStatusSuccess,
					}).
					Return(nil, callbackservice.ErrTransactionNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "transaction not found",
		},
		{
			name: "Internal server error",
			body: `{"code":"PE010203","status":"success"}`,
			prepareMock: func() {
				callbacks.EXPECT().
					Reconcile(context.Background(), callbackservice.Payload{
						Code:   "PE010203",
						Status: domain.TransactionStatusSuccess,
					}).
					Return(nil, errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/api/worker/callback", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Callback(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body dto.CallbackResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, "tx-1", body.TransactionID)
				assert.Equal(t, domain.TransactionStatusSuccess, body.Status)
			}
		})
	}
}
