package stats

import (
	"context"
	"net/http"

	"github.com/vthuan-dev/bulkpay/internal/dto"
	statsservice "github.com/vthuan-dev/bulkpay/internal/service/statsservice"
	"github.com/vthuan-dev/bulkpay/pkg/auth"
	"github.com/vthuan-dev/bulkpay/pkg/utils"
)

type Service interface {
	TodayStats(ctx context.Context, userID, serviceType string) (*statsservice.Stats, error)
}

type StatsHandler struct {
	statsService Service
}

func New(statsService Service) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats godoc
//
//	@Summary		Today's activity summary
//	@Description	Transactions since local midnight, total revenue, success rate and pending backlog for the authorized user
//	@Tags			Stats
//	@Produce		json
//	@Param			serviceType	query	string	false	"Limit to one service type"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.StatsResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/stats [get]
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(string)
	serviceType := r.URL.Query().Get("serviceType")

	stats, err := h.statsService.TodayStats(r.Context(), userID, serviceType)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.StatsResponseDTO{
		TodayTransactions: stats.TodayTransactions,
		TotalRevenue:      stats.TotalRevenue,
		SuccessRate:       stats.SuccessRate,
		PendingOrders:     stats.PendingOrders,
	})
}
