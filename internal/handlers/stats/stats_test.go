package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/vthuan-dev/bulkpay/internal/dto"
	statsservice "github.com/vthuan-dev/bulkpay/internal/service/statsservice"
	"github.com/vthuan-dev/bulkpay/pkg/auth"
)

func NewMock(t *testing.T) (*StatsHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func TestGetStatsHandler(t *testing.T) {
	handler, service := NewMock(t)
	ctx := context.WithValue(context.Background(), auth.UserIDKey, "user-1")

	tests := []struct {
		name          string
		target        string
		prepareMock   func()
		expectedCode  int
		expectedError string
		expectedBody  *dto.StatsResponseDTO
	}{
		{
			name:   "Today's summary for user",
			target: "/api/stats",
			prepareMock: func() {
				service.EXPECT().
					TodayStats(ctx, "user-1", "").
					Return(&statsservice.Stats{
						TodayTransactions: 17,
						TotalRevenue:      850000,
						SuccessRate:       94.1,
						PendingOrders:     3,
					}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: &dto.StatsResponseDTO{
				TodayTransactions: 17,
				TotalRevenue:      850000,
				SuccessRate:       94.1,
				PendingOrders:     3,
			},
		},
		{
			name:   "Filtered by service type",
			target: "/api/stats?serviceType=gach_dien_evn",
			prepareMock: func() {
				service.EXPECT().
					TodayStats(ctx, "user-1", "gach_dien_evn").
					Return(&statsservice.Stats{TodayTransactions: 5, SuccessRate: 100}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: &dto.StatsResponseDTO{
				TodayTransactions: 5,
				SuccessRate:       100,
			},
		},
		{
			name:   "Internal server error",
			target: "/api/stats",
			prepareMock: func() {
				service.EXPECT().
					TodayStats(ctx, "user-1", "").
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
			r = r.WithContext(ctx)
			w := httptest.NewRecorder()

			handler.GetStats(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedBody != nil {
				var body dto.StatsResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, *tt.expectedBody, body)
			}
		})
	}
}
