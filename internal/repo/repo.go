package repo

import (
	"github.com/vthuan-dev/bulkpay/internal/pg"
	orderrepo "github.com/vthuan-dev/bulkpay/internal/repo/order-repo"
	transactionrepo "github.com/vthuan-dev/bulkpay/internal/repo/transaction-repo"
	userrepo "github.com/vthuan-dev/bulkpay/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo        *userrepo.Repository
	OrderRepo       *orderrepo.Repository
	TransactionRepo *transactionrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:        userrepo.New(conn),
		OrderRepo:       orderrepo.New(conn),
		TransactionRepo: transactionrepo.New(conn),
	}
}
