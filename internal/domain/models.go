package domain

import "time"

const (
	RoleUser    string = "user"
	RoleAdmin   string = "admin"
	RoleManager string = "manager"
)

const (
	UserStatusActive    string = "active"
	UserStatusSuspended string = "suspended"
	UserStatusPending   string = "pending"
)

const (
	// OrderStatusPending order waits for a worker to claim it.
	OrderStatusPending string = "pending"
	// OrderStatusProcessing order claimed by a worker, transactions in flight.
	OrderStatusProcessing string = "processing"
	// OrderStatusCompleted all transactions terminal, none failed.
	OrderStatusCompleted string = "completed"
	// OrderStatusFailed all transactions terminal, at least one failed.
	OrderStatusFailed string = "failed"
	// OrderStatusCancelled administrative terminal state.
	OrderStatusCancelled string = "cancelled"
)

const (
	TransactionStatusPending    string = "pending"
	TransactionStatusProcessing string = "processing"
	TransactionStatusSuccess    string = "success"
	TransactionStatusFailed     string = "failed"
)

type User struct {
	ID           string     `db:"id"`
	Login        string     `db:"login"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	Status       string     `db:"status"`
	ExpiresAt    *time.Time `db:"expires_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"`
}

type Order struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	ServiceType string    `db:"service_type"`
	Status      string    `db:"status"`
	TotalAmount float64   `db:"total_amount"`
	InputData   string    `db:"input_data"`
	ResultData  string    `db:"result_data"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type ServiceTransaction struct {
	ID             string    `db:"id"`
	OrderID        string    `db:"order_id"`
	Code           string    `db:"code"`
	Status         string    `db:"status"`
	Amount         float64   `db:"amount"`
	Notes          string    `db:"notes"`
	ProcessingData string    `db:"processing_data"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Terminal reports whether the transaction reached a final state.
func (t ServiceTransaction) Terminal() bool {
	return IsTerminalTransactionStatus(t.Status)
}
