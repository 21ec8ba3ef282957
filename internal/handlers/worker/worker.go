// Package worker exposes the claim protocol endpoints used by external
// processing workers: list pending work, claim it, and report results back.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vthuan-dev/bulkpay/internal/domain"
	"github.com/vthuan-dev/bulkpay/internal/dto"
	callbackservice "github.com/vthuan-dev/bulkpay/internal/service/callbackservice"
	orderservice "github.com/vthuan-dev/bulkpay/internal/service/orderservice"
	"github.com/vthuan-dev/bulkpay/pkg/utils"
)

type OrderService interface {
	ListPending(ctx context.Context, limit int) ([]orderservice.OrderWithTransactions, error)
	Claim(ctx context.Context, orderID string) (*domain.Order, error)
	StartProcessing(ctx context.Context, orderID string) (*domain.Order, []string, error)
}

type CallbackService interface {
	Reconcile(ctx context.Context, p callbackservice.Payload) (*domain.ServiceTransaction, error)
}

type WorkerHandler struct {
	orderService    OrderService
	callbackService CallbackService
}

func New(orderService OrderService, callbackService CallbackService) *WorkerHandler {
	return &WorkerHandler{
		orderService:    orderService,
		callbackService: callbackService,
	}
}

// GetPending godoc
//
//	@Summary		List claimable orders
//	@Description	Read-only view of pending orders with their codes, for polling workers
//	@Tags			Worker
//	@Produce		json
//	@Param			limit	query	int	false	"Max orders to return"
//	@Security		BearerAuth
//	@Success		200	{array}		dto.PendingOrderResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Access denied"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/worker/pending [get]
func (h *WorkerHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	pending, err := h.orderService.ListPending(r.Context(), limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.PendingOrderResponseDTO, 0, len(pending))
	for _, item := range pending {
		codes := make([]string, 0, len(item.Transactions))
		for _, t := range item.Transactions {
			codes = append(codes, t.Code)
		}
		response = append(response, dto.PendingOrderResponseDTO{
			Order: toOrderDTO(item.Order),
			Codes: codes,
			Mode:  orderservice.InputMode(item.Order.InputData),
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// ClaimOrder godoc
//
//	@Summary		Claim a pending order
//	@Description	Atomically move the order from pending to processing; exactly one concurrent claimer wins
//	@Tags			Worker
//	@Produce		json
//	@Param			id	path	string	true	"Order ID"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.ClaimResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Access denied"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		409	{object}	utils.Response	"Order already claimed"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/worker/orders/{id}/claim [post]
func (h *WorkerHandler) ClaimOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, err := h.orderService.Claim(r.Context(), orderID)
	if err != nil {
		respondClaimError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.ClaimResponseDTO{Order: toOrderDTO(*order)})
}

// DispatchOrder godoc
//
//	@Summary		Claim an order and get its codes
//	@Description	Claim plus code handoff in one call, for workers that start the run immediately
//	@Tags			Worker
//	@Produce		json
//	@Param			id	path	string	true	"Order ID"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.DispatchResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Access denied"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		409	{object}	utils.Response	"Order already claimed"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/worker/orders/{id}/dispatch [post]
func (h *WorkerHandler) DispatchOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, codes, err := h.orderService.StartProcessing(r.Context(), orderID)
	if err != nil {
		respondClaimError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.DispatchResponseDTO{
		Order: toOrderDTO(*order),
		Codes: codes,
	})
}

// Callback godoc
//
//	@Summary		Report a transaction result
//	@Description	Apply a worker's completion report to its transaction and re-derive the order status
//	@Tags			Worker
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CallbackRequestDTO	true	"Completion report"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.CallbackResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid payload"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Access denied"
//	@Failure		404	{object}	utils.Response	"Transaction not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/worker/callback [post]
func (h *WorkerHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req dto.CallbackRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.callbackService.Reconcile(r.Context(), callbackservice.Payload{
		OrderID: req.OrderID,
		Code:    req.Code,
		Status:  req.Status,
		Amount:  req.Amount,
		Notes:   req.Notes,
		Data:    req.Data,
	})
	if err != nil {
		switch {
		case errors.Is(err, callbackservice.ErrInvalidPayload):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, callbackservice.ErrTransactionNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.CallbackResponseDTO{
		TransactionID: transaction.ID,
		OrderID:       transaction.OrderID,
		Status:        transaction.Status,
	})
}

func respondClaimError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orderservice.ErrClaimConflict):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, orderservice.ErrOrderNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toOrderDTO(order domain.Order) dto.OrderResponseDTO {
	return dto.OrderResponseDTO{
		ID:          order.ID,
		ServiceType: order.ServiceType,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		InputData:   order.InputData,
		ResultData:  order.ResultData,
		CreatedAt:   order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   order.UpdatedAt.Format(time.RFC3339),
	}
}
