package dto

type SubmitOrderRequestDTO struct {
	ServiceType string   `json:"serviceType" example:"nap_tien_da_mang"`
	Mode        string   `json:"mode,omitempty" example:"prepaid"`
	Codes       []string `json:"codes"`
}

type ValidationSummaryDTO struct {
	OriginalCount     int `json:"originalCount" example:"5"`
	UniqueCount       int `json:"uniqueCount" example:"4"`
	DuplicatesRemoved int `json:"duplicatesRemoved" example:"1"`
	InvalidCount      int `json:"invalidCount" example:"1"`
	FinalCount        int `json:"finalCount" example:"3"`
}

type SubmitOrderResponseDTO struct {
	Split         bool                 `json:"split"`
	Count         int                  `json:"count" example:"3"`
	OrderIDs      []string             `json:"orderIds"`
	RejectedCodes []string             `json:"rejectedCodes,omitempty"`
	Summary       ValidationSummaryDTO `json:"summary"`
}

type OrderResponseDTO struct {
	ID          string  `json:"id" example:"7bb4b3f2-4a61-4f0c-9efb-30c4d1a7c9de"`
	ServiceType string  `json:"serviceType" example:"thanh_toan_ftth"`
	Status      string  `json:"status" example:"pending"`
	TotalAmount float64 `json:"totalAmount" example:"50000"`
	InputData   string  `json:"inputData,omitempty"`
	ResultData  string  `json:"resultData,omitempty"`
	CreatedAt   string  `json:"createdAt" example:"2025-03-09T16:09:57+07:00"`
	UpdatedAt   string  `json:"updatedAt" example:"2025-03-09T16:10:57+07:00"`
}

type TransactionResponseDTO struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"orderId"`
	Code      string  `json:"code" example:"0912345678"`
	Status    string  `json:"status" example:"success"`
	Amount    float64 `json:"amount" example:"50000"`
	Notes     string  `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type OrderDetailResponseDTO struct {
	Order        OrderResponseDTO         `json:"order"`
	Transactions []TransactionResponseDTO `json:"transactions"`
}

type ListOrdersResponseDTO struct {
	Orders []OrderResponseDTO `json:"orders"`
	Total  int                `json:"total" example:"42"`
	Page   int                `json:"page" example:"1"`
	Limit  int                `json:"limit" example:"20"`
}

type BulkProcessRequestDTO struct {
	OrderIDs []string `json:"orderIds"`
	Action   string   `json:"action" example:"retry"`
}

type BulkProcessResultDTO struct {
	OrderID string `json:"orderId"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type BulkProcessResponseDTO struct {
	Results []BulkProcessResultDTO `json:"results"`
}

type ServiceInfoDTO struct {
	ID             string   `json:"id" example:"tra_cuu_ftth"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category" example:"lookup"`
	RequiredFields []string `json:"requiredFields"`
	RequiresMode   bool     `json:"requiresMode"`
}

type OutstandingCodesResponseDTO struct {
	ServiceType string   `json:"serviceType" example:"tra_cuu_ftth"`
	Codes       []string `json:"codes"`
	Count       int      `json:"count"`
}
