package orders

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vthuan-dev/bulkpay/internal/domain"
	"github.com/vthuan-dev/bulkpay/internal/dto"
	codeservice "github.com/vthuan-dev/bulkpay/internal/service/codeservice"
	orderservice "github.com/vthuan-dev/bulkpay/internal/service/orderservice"
	"github.com/vthuan-dev/bulkpay/internal/upstream"
	"github.com/vthuan-dev/bulkpay/pkg/auth"
	"github.com/vthuan-dev/bulkpay/pkg/utils"
)

type Service interface {
	SubmitBatch(ctx context.Context, userID, serviceType, mode string, codes []string) (*orderservice.SubmitResult, error)
	GetOrders(ctx context.Context, userID string, page, limit int) ([]domain.Order, int, error)
	GetOrder(ctx context.Context, orderID, userID string, elevated bool) (*orderservice.OrderWithTransactions, error)
	Retry(ctx context.Context, orderID, userID string, elevated bool) error
	BulkProcess(ctx context.Context, userID string, orderIDs []string, action string) []orderservice.BulkResult
}

// CodeService validates and normalizes the submitted code list before any
// order is created.
type CodeService interface {
	Normalize(ctx context.Context, serviceType, mode string, raw []string) (*codeservice.Result, error)
}

// UpstreamService proxies the billing source-of-truth outstanding-code list.
type UpstreamService interface {
	OutstandingCodes(ctx context.Context, serviceType string) ([]string, error)
}

type OrderHandler struct {
	orderService    Service
	codeService     CodeService
	upstreamService UpstreamService
}

func New(orderService Service, codeService CodeService, upstreamService UpstreamService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		codeService:     codeService,
		upstreamService: upstreamService,
	}
}

// SubmitOrder godoc
//
//	@Summary		Submit a batch of service codes
//	@Description	Validate the submitted codes against the billing source and create one order per code
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SubmitOrderRequestDTO	true	"Batch to submit"
//	@Security		BearerAuth
//	@Success		201	{object}	dto.SubmitOrderResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		422	{object}	utils.Response	"No valid codes or malformed codes"
//	@Failure		503	{object}	utils.Response	"Validation source unavailable"
//	@Failure		504	{object}	utils.Response	"Validation source timeout"
//	@Router			/api/orders [post]
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(string)

	var req dto.SubmitOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ServiceType == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Service type is required")
		return
	}
	if len(req.Codes) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Code list is required")
		return
	}

	result, err := h.codeService.Normalize(r.Context(), req.ServiceType, req.Mode, req.Codes)
	if err != nil {
		var malformed *codeservice.MalformedCodeError
		switch {
		case errors.Is(err, codeservice.ErrUnknownServiceType), errors.Is(err, codeservice.ErrModeRequired):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &malformed), errors.Is(err, codeservice.ErrNoValidCodes):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, upstream.ErrUpstreamTimeout):
			utils.RespondWithError(w, http.StatusGatewayTimeout, err.Error())
		case errors.Is(err, codeservice.ErrValidationUnavailable):
			utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	submitted, err := h.orderService.SubmitBatch(r.Context(), userID, req.ServiceType, req.Mode, result.Codes)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	orderIDs := make([]string, 0, len(submitted.Orders))
	for _, order := range submitted.Orders {
		orderIDs = append(orderIDs, order.ID)
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.SubmitOrderResponseDTO{
		Split:         submitted.Split,
		Count:         submitted.Count,
		OrderIDs:      orderIDs,
		RejectedCodes: result.RejectedCodes,
		Summary: dto.ValidationSummaryDTO{
			OriginalCount:     result.Summary.OriginalCount,
			UniqueCount:       result.Summary.UniqueCount,
			DuplicatesRemoved: result.Summary.DuplicatesRemoved,
			InvalidCount:      result.Summary.InvalidCount,
			FinalCount:        result.Summary.FinalCount,
		},
	})
}

// GetOrders godoc
//
//	@Summary		Get orders list for user
//	@Description	Retrieve a page of the authorized user's orders, newest first
//	@Tags			Orders
//	@Produce		json
//	@Param			page	query	int	false	"Page number"
//	@Param			limit	query	int	false	"Page size"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.ListOrdersResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/orders [get]
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(string)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	orders, total, err := h.orderService.GetOrders(r.Context(), userID, page, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := dto.ListOrdersResponseDTO{
		Orders: make([]dto.OrderResponseDTO, 0, len(orders)),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
	for _, order := range orders {
		response.Orders = append(response.Orders, toOrderDTO(order))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetOrder godoc
//
//	@Summary		Get one order with its transactions
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path	string	true	"Order ID"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.OrderDetailResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Order belongs to another user"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.loadOrder(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toDetailDTO(detail))
}

// RetryOrder godoc
//
//	@Summary		Put a failed order back to pending
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path	string	true	"Order ID"
//	@Security		BearerAuth
//	@Success		200	{object}	utils.Response	"Order marked for retry"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Order belongs to another user"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/orders/{id}/retry [post]
func (h *OrderHandler) RetryOrder(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(string)
	role, _ := r.Context().Value(auth.RoleKey).(string)
	orderID := chi.URLParam(r, "id")

	err := h.orderService.Retry(r.Context(), orderID, userID, elevated(role))
	if err != nil {
		respondOrderError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Order marked for retry"})
}

// BulkProcess godoc
//
//	@Summary		Retry or delete a list of orders
//	@Description	Apply one action to many orders; each order reports its own outcome
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.BulkProcessRequestDTO	true	"Order IDs and the action to apply"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.BulkProcessResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid request"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Router			/api/orders/bulk [post]
func (h *OrderHandler) BulkProcess(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(string)

	var req dto.BulkProcessRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.OrderIDs) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Order ID list is required")
		return
	}
	if req.Action != orderservice.BulkActionRetry && req.Action != orderservice.BulkActionDelete {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Unknown action %q", req.Action))
		return
	}

	results := h.orderService.BulkProcess(r.Context(), userID, req.OrderIDs, req.Action)
	response := dto.BulkProcessResponseDTO{Results: make([]dto.BulkProcessResultDTO, 0, len(results))}
	for _, result := range results {
		response.Results = append(response.Results, dto.BulkProcessResultDTO{
			OrderID: result.OrderID,
			Success: result.Success,
			Message: result.Message,
			Error:   result.Error,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// ExportOrder godoc
//
//	@Summary		Export an order's transactions
//	@Description	Download the order's transactions as CSV or JSON
//	@Tags			Orders
//	@Produce		json
//	@Param			id		path	string	true	"Order ID"
//	@Param			format	query	string	false	"csv or json"	default(csv)
//	@Security		BearerAuth
//	@Success		200	{object}	dto.OrderDetailResponseDTO
//	@Failure		400	{object}	utils.Response	"Unknown format"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Order belongs to another user"
//	@Failure		404	{object}	utils.Response	"Order not found"
//	@Router			/api/orders/{id}/export [get]
func (h *OrderHandler) ExportOrder(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Unknown format %q", format))
		return
	}

	detail, ok := h.loadOrder(w, r)
	if !ok {
		return
	}

	if format == "json" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=order-%s.json", detail.Order.ID))
		utils.RespondWithJSON(w, http.StatusOK, toDetailDTO(detail))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=order-%s.csv", detail.Order.ID))
	// UTF-8 BOM so spreadsheet apps decode Vietnamese text correctly.
	_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"code", "status", "amount", "notes", "updated_at"})
	for _, t := range detail.Transactions {
		_ = writer.Write([]string{
			t.Code,
			t.Status,
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			t.Notes,
			t.UpdatedAt.Format(time.RFC3339),
		})
	}
	writer.Flush()
}

// ListServices godoc
//
//	@Summary		List available service types
//	@Tags			Services
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}	dto.ServiceInfoDTO
//	@Router			/api/services [get]
func (h *OrderHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	infos := domain.AllServices()
	response := make([]dto.ServiceInfoDTO, 0, len(infos))
	for _, info := range infos {
		response = append(response, dto.ServiceInfoDTO{
			ID:             info.ID,
			Name:           info.Name,
			Description:    info.Description,
			Category:       info.Category,
			RequiredFields: info.RequiredFields,
			RequiresMode:   info.RequiresMode,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetOutstanding godoc
//
//	@Summary		List outstanding codes for a service type
//	@Description	Proxy the billing source-of-truth list of codes still open for processing
//	@Tags			Services
//	@Produce		json
//	@Param			serviceType	path	string	true	"Service type ID"
//	@Security		BearerAuth
//	@Success		200	{object}	dto.OutstandingCodesResponseDTO
//	@Failure		400	{object}	utils.Response	"Unknown service type"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		503	{object}	utils.Response	"Validation source unavailable"
//	@Failure		504	{object}	utils.Response	"Validation source timeout"
//	@Router			/api/services/{serviceType}/outstanding [get]
func (h *OrderHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	serviceType := chi.URLParam(r, "serviceType")
	if _, ok := domain.ServiceByID(serviceType); !ok {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Unknown service type %q", serviceType))
		return
	}

	codes, err := h.upstreamService.OutstandingCodes(r.Context(), serviceType)
	if err != nil {
		switch {
		case errors.Is(err, upstream.ErrUpstreamTimeout):
			utils.RespondWithError(w, http.StatusGatewayTimeout, err.Error())
		case errors.Is(err, upstream.ErrUnavailable):
			utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.OutstandingCodesResponseDTO{
		ServiceType: serviceType,
		Codes:       codes,
		Count:       len(codes),
	})
}

func (h *OrderHandler) loadOrder(w http.ResponseWriter, r *http.Request) (*orderservice.OrderWithTransactions, bool) {
	userID := r.Context().Value(auth.UserIDKey).(string)
	role, _ := r.Context().Value(auth.RoleKey).(string)
	orderID := chi.URLParam(r, "id")

	detail, err := h.orderService.GetOrder(r.Context(), orderID, userID, elevated(role))
	if err != nil {
		respondOrderError(w, err)
		return nil, false
	}
	return detail, true
}

func respondOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orderservice.ErrOrderNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orderservice.ErrAccessDenied):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func elevated(role string) bool {
	return role == domain.RoleAdmin || role == domain.RoleManager
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

func toDetailDTO(detail *orderservice.OrderWithTransactions) dto.OrderDetailResponseDTO {
	response := dto.OrderDetailResponseDTO{
		Order:        toOrderDTO(detail.Order),
		Transactions: make([]dto.TransactionResponseDTO, 0, len(detail.Transactions)),
	}
	for _, t := range detail.Transactions {
		response.Transactions = append(response.Transactions, dto.TransactionResponseDTO{
			ID:        t.ID,
			OrderID:   t.OrderID,
			Code:      t.Code,
			Status:    t.Status,
			Amount:    t.Amount,
			Notes:     t.Notes,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
			UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
		})
	}
	return response
}
