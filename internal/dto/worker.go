package dto

type PendingOrderResponseDTO struct {
	Order OrderResponseDTO `json:"order"`
	Codes []string         `json:"codes"`
	Mode  string           `json:"mode,omitempty"`
}

type ClaimResponseDTO struct {
	Order OrderResponseDTO `json:"order"`
}

type DispatchResponseDTO struct {
	Order OrderResponseDTO `json:"order"`
	Codes []string         `json:"codes"`
}

type CallbackRequestDTO struct {
	OrderID string         `json:"orderId,omitempty"`
	Code    string         `json:"code" example:"0912345678"`
	Status  string         `json:"status" example:"success"`
	Amount  float64        `json:"amount,omitempty" example:"50000"`
	Notes   string         `json:"notes,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

type CallbackResponseDTO struct {
	TransactionID string `json:"transactionId"`
	OrderID       string `json:"orderId"`
	Status        string `json:"status" example:"success"`
}

type StatsResponseDTO struct {
	TodayTransactions int     `json:"todayTransactions" example:"17"`
	TotalRevenue      float64 `json:"totalRevenue" example:"1250000"`
	SuccessRate       float64 `json:"successRate" example:"94.1"`
	PendingOrders     int     `json:"pendingOrders" example:"3"`
}
