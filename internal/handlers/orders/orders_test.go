package orders

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
	codeservice "github.com/vthuan-dev/bulkpay/internal/service/codeservice"
	orderservice "github.com/vthuan-dev/bulkpay/internal/service/orderservice"
	"github.com/vthuan-dev/bulkpay/internal/upstream"
	"github.com/vthuan-dev/bulkpay/pkg/auth"
)

func NewMock(t *testing.T) (*OrderHandler, *MockService, *MockCodeService, *MockUpstreamService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	codes := NewMockCodeService(ctrl)
	upstreamService := NewMockUpstreamService(ctrl)
	handler := New(service, codes, upstreamService)
	defer ctrl.Finish()
	return handler, service, codes, upstreamService
}

func authCtx(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), auth.UserIDKey, userID)
	return context.WithValue(ctx, auth.RoleKey, role)
}

func withURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func TestSubmitOrderHandler(t *testing.T) {
	handler, service, codes, _ := NewMock(t)
	ctx := authCtx("user-1", domain.RoleUser)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful batch submission",
			body: `{"serviceType":"tra_cuu_ftth","codes":["FTTH001","FTTH002"]}`,
			prepareMock: func() {
				codes.EXPECT().
					Normalize(ctx, "tra_cuu_ftth", "", []string{"FTTH001", "FTTH002"}).
					Return(&codeservice.Result{
						Codes:         []string{"FTTH001", "FTTH002"},
						RejectedCodes: []string{},
						Summary:       codeservice.Summary{OriginalCount: 2, UniqueCount: 2, FinalCount: 2},
					}, nil)
				service.EXPECT().
					SubmitBatch(ctx, "user-1", "tra_cuu_ftth", "", []string{"FTTH001", "FTTH002"}).
					Return(&orderservice.SubmitResult{
						Split: true,
						Count: 2,
						Orders: []domain.Order{
							{ID: "order-1", ServiceType: "tra_cuu_ftth", Status: domain.OrderStatusPending},
							{ID: "order-2", ServiceType: "tra_cuu_ftth", Status: domain.OrderStatusPending},
						},
					}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name:          "Missing service type",
			body:          `{"codes":["FTTH001"]}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Service type is required",
		},
		{
			name:          "Missing codes",
			body:          `{"serviceType":"tra_cuu_ftth","codes":[]}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Code list is required",
		},
		{
			name: "Unknown service type",
			body: `{"serviceType":"bogus","codes":["FTTH001"]}`,
			prepareMock: func() {
				codes.EXPECT().
					Normalize(ctx, "bogus", "", []string{"FTTH001"}).
					Return(nil, codeservice.ErrUnknownServiceType)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "unknown service type",
		},
		{
			name: "Mode required",
			body: `{"serviceType":"nap_tien_da_mang","codes":["0912345678"]}`,
			prepareMock: func() {
				codes.EXPECT().
					Normalize(ctx, "nap_tien_da_mang", "", []string{"0912345678"}).
					Return(nil, codeservice.ErrModeRequired)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "payment mode is required",
		},
		{
			name: "Malformed codes",
			body: `{"serviceType":"nap_tien_da_mang","mode":"prepaid","codes":["0912345678|50000"]}`,
			prepareMock: func() {
				codes.EXPECT().
					Normalize(ctx, "nap_tien_da_mang", "prepaid", []string{"0912345678|50000"}).
					Return(nil, &codeservice.MalformedCodeError{Mode: "prepaid", Codes: []string{"0912345678|50000"}})
			},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "malformed codes",
		},
		{
			name: "No valid codes",
			body: `{"serviceType":"tra_cuu_ftth","codes":["NOPE"]}`,
			prepareMock: func() {
				codes.EXPECT().
					Normalize(ctx, "tra_cuu_ftth", "", []string{"NOPE"}).
					Return(nil, codeservice.ErrNoValidCodes)
			},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: "no valid codes",
		},
		{
			name: "Validation source timeout",
			body: `{"serviceType":"tra_cuu_ftth","codes":["FTTH001"]}`,
			prepareMock: func() {
				codes.EXPECT().
					Normalize(ctx, "tra_cuu_ftth", "", []string{"FTTH001"}).
					Return(nil, upstream.ErrUpstreamTimeout)
			},
			expectedCode: http.StatusGatewayTimeout,
		},
		{
			name: "Validation source unavailable",
			body: `{"serviceType":"tra_cuu_ftth","codes":["FTTH001"]}`,
			prepareMock: func() {
				codes.EXPECT().
					Normalize(ctx, "tra_cuu_ftth", "", []string{"FTTH001"}).
					Return(nil, codeservice.ErrValidationUnavailable)
			},
			expectedCode:  http.StatusServiceUnavailable,
			expectedError: "validation source unavailable",
		},
		{
			name: "Submission error",
			body: `{"serviceType":"tra_cuu_ftth","codes":["FTTH001"]}`,
			prepareMock: func() {
				codes.EXPECT().
					Normalize(ctx, "tra_cuu_ftth", "", []string{"FTTH001"}).
					Return(&codeservice.Result{Codes: []string{"FTTH001"}}, nil)
				service.EXPECT().
					SubmitBatch(ctx, "user-1", "tra_cuu_ftth", "", []string{"FTTH001"}).
					Return(nil, errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(tt.body))
			r = r.WithContext(ctx)
			w := httptest.NewRecorder()

			handler.SubmitOrder(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusCreated {
				var body dto.SubmitOrderResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.True(t, body.Split)
				assert.Equal(t, 2, body.Count)
				assert.Equal(t, []string{"order-1", "order-2"}, body.OrderIDs)
			}
		})
	}
}

func TestGetOrdersHandler(t *testing.T) {
	handler, service, _, _ := NewMock(t)
	ctx := authCtx("user-1", domain.RoleUser)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		target        string
		prepareMock   func()
		expectedCode  int
		expectedError string
		expectedBody  *dto.ListOrdersResponseDTO
	}{
		{
			name:   "Successful order retrieval",
			target: "/api/orders?page=2&limit=10",
			prepareMock: func() {
				service.EXPECT().
					GetOrders(ctx, "user-1", 2, 10).
					Return([]domain.Order{
						{
							ID:          "order-1",
							UserID:      "user-1",
							ServiceType: "gach_dien_evn",
							Status:      domain.OrderStatusCompleted,
							TotalAmount: 250000,
							CreatedAt:   now,
							UpdatedAt:   now,
						},
					}, 11, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: &dto.ListOrdersResponseDTO{
				Orders: []dto.OrderResponseDTO{
					{
						ID:          "order-1",
						ServiceType: "gach_dien_evn",
						Status:      domain.OrderStatusCompleted,
						TotalAmount: 250000,
						CreatedAt:   now.Format(time.RFC3339),
						UpdatedAt:   now.Format(time.RFC3339),
					},
				},
				Total: 11,
				Page:  2,
				Limit: 10,
			},
		},
		{
			name:   "Defaults applied to bad paging params",
			target: "/api/orders?page=-1&limit=0",
			prepareMock: func() {
				service.EXPECT().
					GetOrders(ctx, "user-1", 1, 20).
					Return([]domain.Order{}, 0, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: &dto.ListOrdersResponseDTO{
				Orders: []dto.OrderResponseDTO{},
				Total:  0,
				Page:   1,
				Limit:  20,
			},
		},
		{
			name:   "Internal server error",
			target: "/api/orders",
			prepareMock: func() {
				service.EXPECT().
					GetOrders(ctx, "user-1", 1, 20).
					Return(nil, 0, errors.New("error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			r = r.WithContext(ctx)
			w := httptest.NewRecorder()

			handler.GetOrders(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedBody != nil {
				var body dto.ListOrdersResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, *tt.expectedBody, body)
			}
		})
	}
}

func TestGetOrderHandler(t *testing.T) {
	handler, service, _, _ := NewMock(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		userID        string
		role          string
		prepareMock   func(ctx context.Context)
		expectedCode  int
		expectedError string
	}{
		{
			name:   "Owner reads own order",
			userID: "user-1",
			role:   domain.RoleUser,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().
					GetOrder(ctx, "order-1", "user-1", false).
					Return(&orderservice.OrderWithTransactions{
						Order: domain.Order{ID: "order-1", UserID: "user-1", Status: domain.OrderStatusCompleted, CreatedAt: now, UpdatedAt: now},
						Transactions: []domain.ServiceTransaction{
							{ID: "tx-1", OrderID: "order-1", Code: "FTTH001", Status: domain.TransactionStatusSuccess, Amount: 50000, CreatedAt: now, UpdatedAt: now},
						},
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Manager reads another user's order",
			userID: "user-2",
			role:   domain.RoleManager,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().
					GetOrder(ctx, "order-1", "user-2", true).
					Return(&orderservice.OrderWithTransactions{
						Order: domain.Order{ID: "order-1", UserID: "user-1", CreatedAt: now, UpdatedAt: now},
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Order not found",
			userID: "user-1",
			role:   domain.RoleUser,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().
					GetOrder(ctx, "order-1", "user-1", false).
					Return(nil, orderservice.ErrOrderNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "order not found",
		},
		{
			name:   "Access denied",
			userID: "user-2",
			role:   domain.RoleUser,
			prepareMock: func(ctx context.Context) {
				service.EXPECT().
					GetOrder(ctx, "order-1", "user-2", false).
					Return(nil, orderservice.ErrAccessDenied)
			},
			expectedCode:  http.StatusForbidden,
			expectedError: "order belongs to another user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := withURLParam(authCtx(tt.userID, tt.role), "id", "order-1")
			tt.prepareMock(ctx)

			r := httptest.NewRequest(http.MethodGet, "/api/orders/order-1", nil)
			r = r.WithContext(ctx)
			w := httptest.NewRecorder()

			handler.GetOrder(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body dto.OrderDetailResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, "order-1", body.Order.ID)
			}
		})
	}
}

func TestRetryOrderHandler(t *testing.T) {
	handler, service, _, _ := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func(ctx context.Context)
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful retry",
			prepareMock: func(ctx context.Context) {
				service.EXPECT().Retry(ctx, "order-1", "user-1", false).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Order not found",
			prepareMock: func(ctx context.Context) {
				service.EXPECT().Retry(ctx, "order-1", "user-1", false).Return(orderservice.ErrOrderNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "order not found",
		},
		{
			name: "Internal server error",
			prepareMock: func(ctx context.Context) {
				service.EXPECT().Retry(ctx, "order-1", "user-1", false).Return(errors.New("db error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := withURLParam(authCtx("user-1", domain.RoleUser), "id", "order-1")
			tt.prepareMock(ctx)

			r := httptest.NewRequest(http.MethodPost, "/api/orders/order-1/retry", nil)
			r = r.WithContext(ctx)
			w := httptest.NewRecorder()

			handler.RetryOrder(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}

func TestBulkProcessHandler(t *testing.T) {
	handler, service, _, _ := NewMock(t)
	ctx := authCtx("user-1", domain.RoleUser)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Mixed outcomes reported per order",
			body: `{"orderIds":["order-1","order-2"],"action":"retry"}`,
			prepareMock: func() {
				service.EXPECT().
					BulkProcess(ctx, "user-1", []string{"order-1", "order-2"}, "retry").
					Return([]orderservice.BulkResult{
						{OrderID: "order-1", Success: true, Message: "Order marked for retry"},
						{OrderID: "order-2", Success: false, Error: "order not found"},
					})
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
			name:          "Empty order list",
			body:          `{"orderIds":[],"action":"retry"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Order ID list is required",
		},
		{
			name:          "Unknown action",
			body:          `{"orderIds":["order-1"],"action":"cancel"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Unknown action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/api/orders/bulk", bytes.NewBufferString(tt.body))
			r = r.WithContext(ctx)
			w := httptest.NewRecorder()

			handler.BulkProcess(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusOK {
				var body dto.BulkProcessResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Len(t, body.Results, 2)
				assert.True(t, body.Results[0].Success)
				assert.False(t, body.Results[1].Success)
			}
		})
	}
}

func TestExportOrderHandler(t *testing.T) {
	handler, service, _, _ := NewMock(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	detail := &orderservice.OrderWithTransactions{
		Order: domain.Order{ID: "order-1", UserID: "user-1", Status: domain.OrderStatusCompleted, CreatedAt: now, UpdatedAt: now},
		Transactions: []domain.ServiceTransaction{
			{ID: "tx-1", OrderID: "order-1", Code: "FTTH001", Status: domain.TransactionStatusSuccess, Amount: 50000, Notes: "ok", CreatedAt: now, UpdatedAt: now},
		},
	}

	t.Run("CSV export", func(t *testing.T) {
		ctx := withURLParam(authCtx("user-1", domain.RoleUser), "id", "order-1")
		service.EXPECT().GetOrder(ctx, "order-1", "user-1", false).Return(detail, nil)

		r := httptest.NewRequest(http.MethodGet, "/api/orders/order-1/export", nil)
		r = r.WithContext(ctx)
		w := httptest.NewRecorder()

		handler.ExportOrder(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=order-order-1.csv", w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "code,status,amount,notes,updated_at")
		assert.Contains(t, w.Body.String(), "FTTH001,success,50000,ok,"+now.Format(time.RFC3339))
	})

	t.Run("JSON export", func(t *testing.T) {
		ctx := withURLParam(authCtx("user-1", domain.RoleUser), "id", "order-1")
		service.EXPECT().GetOrder(ctx, "order-1", "user-1", false).Return(detail, nil)

		r := httptest.NewRequest(http.MethodGet, "/api/orders/order-1/export?format=json", nil)
		r = r.WithContext(ctx)
		w := httptest.NewRecorder()

		handler.ExportOrder(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "attachment; filename=order-order-1.json", w.Header().Get("Content-Disposition"))
		var body dto.OrderDetailResponseDTO
		_ = json.NewDecoder(w.Body).Decode(&body)
		assert.Equal(t, "order-1", body.Order.ID)
		assert.Len(t, body.Transactions, 1)
	})

	t.Run("Unknown format", func(t *testing.T) {
		ctx := withURLParam(authCtx("user-1", domain.RoleUser), "id", "order-1")

		r := httptest.NewRequest(http.MethodGet, "/api/orders/order-1/export?format=xml", nil)
		r = r.WithContext(ctx)
		w := httptest.NewRecorder()

		handler.ExportOrder(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Unknown format")
	})
}

func TestListServicesHandler(t *testing.T) {
	handler, _, _, _ := NewMock(t)

	r := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	r = r.WithContext(authCtx("user-1", domain.RoleUser))
	w := httptest.NewRecorder()

	handler.ListServices(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	var body []dto.ServiceInfoDTO
	_ = json.NewDecoder(w.Body).Decode(&body)
	assert.Len(t, body, 6)

	byID := make(map[string]dto.ServiceInfoDTO, len(body))
	for _, info := range body {
		byID[info.ID] = info
	}
	assert.True(t, byID["nap_tien_da_mang"].RequiresMode)
	assert.False(t, byID["tra_cuu_ftth"].RequiresMode)
}

func TestGetOutstandingHandler(t *testing.T) {
	handler, _, _, upstreamService := NewMock(t)

	tests := []struct {
		name          string
		serviceType   string
		prepareMock   func(ctx context.Context)
		expectedCode  int
		expectedError string
		expectedCodes []string
	}{
		{
			name:        "Outstanding codes proxied",
			serviceType: "tra_cuu_ftth",
			prepareMock: func(ctx context.Context) {
				upstreamService.EXPECT().
					OutstandingCodes(ctx, "tra_cuu_ftth").
					Return([]string{"FTTH001", "FTTH002"}, nil)
			},
			expectedCode:  http.StatusOK,
			expectedCodes: []string{"FTTH001", "FTTH002"},
		},
		{
			name:          "Unknown service type",
			serviceType:   "bogus",
			prepareMock:   func(ctx context.Context) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Unknown service type",
		},
		{
			name:        "Source timeout",
			serviceType: "tra_cuu_ftth",
			prepareMock: func(ctx context.Context) {
				upstreamService.EXPECT().
					OutstandingCodes(ctx, "tra_cuu_ftth").
					Return(nil, upstream.ErrUpstreamTimeout)
			},
			expectedCode: http.StatusGatewayTimeout,
		},
		{
			name:        "Source unavailable",
			serviceType: "tra_cuu_ftth",
			prepareMock: func(ctx context.Context) {
				upstreamService.EXPECT().
					OutstandingCodes(ctx, "tra_cuu_ftth").
					Return(nil, upstream.ErrUnavailable)
			},
			expectedCode:  http.StatusServiceUnavailable,
			expectedError: "validation source unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := withURLParam(authCtx("user-1", domain.RoleUser), "serviceType", tt.serviceType)
			tt.prepareMock(ctx)

			r := httptest.NewRequest(http.MethodGet, "/api/services/"+tt.serviceType+"/outstanding", nil)
			r = r.WithContext(ctx)
			w := httptest.NewRecorder()

			handler.GetOutstanding(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCodes != nil {
				var body dto.OutstandingCodesResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, tt.serviceType, body.ServiceType)
				assert.Equal(t, tt.expectedCodes, body.Codes)
				assert.Equal(t, len(tt.expectedCodes), body.Count)
			}
		})
	}
}
