package service

import (
	"github.com/vthuan-dev/bulkpay/internal/config"
	"github.com/vthuan-dev/bulkpay/internal/handlers/auth"
	"github.com/vthuan-dev/bulkpay/internal/handlers/orders"
	"github.com/vthuan-dev/bulkpay/internal/handlers/stats"
	"github.com/vthuan-dev/bulkpay/internal/handlers/worker"
	"github.com/vthuan-dev/bulkpay/internal/upstream"

	pkgauth "github.com/vthuan-dev/bulkpay/pkg/auth"
	"github.com/vthuan-dev/bulkpay/pkg/clients"

	"github.com/vthuan-dev/bulkpay/internal/pg"
	"github.com/vthuan-dev/bulkpay/internal/repo"
	authservice "github.com/vthuan-dev/bulkpay/internal/service/authservice"
	callbackservice "github.com/vthuan-dev/bulkpay/internal/service/callbackservice"
	codeservice "github.com/vthuan-dev/bulkpay/internal/service/codeservice"
	orderservice "github.com/vthuan-dev/bulkpay/internal/service/orderservice"
	statsservice "github.com/vthuan-dev/bulkpay/internal/service/statsservice"
)

type Services struct {
	AuthService     auth.Service
	OrderService    orders.Service
	CodeService     orders.CodeService
	UpstreamService orders.UpstreamService
	WorkerService   worker.OrderService
	CallbackService worker.CallbackService
	StatsService    stats.Service
}

func New(cfg *config.Config, repo *repo.Repositories, txManager pg.TXManager) *Services {
	upstreamClient := upstream.New(
		cfg.UpstreamAddress,
		upstream.StaticCredentials{Login: cfg.UpstreamLogin, Password: cfg.UpstreamPassword},
		clients.NewHTTPClient(cfg.UpstreamTimeout),
		cfg.UpstreamTimeout,
	)

	codeService := codeservice.New(upstreamClient)
	orderService := orderservice.New(repo.OrderRepo, repo.TransactionRepo, txManager)
	callbackService := callbackservice.New(repo.TransactionRepo, orderService)
	statsService := statsservice.New(repo.TransactionRepo, repo.OrderRepo)
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, &pkgauth.JWTService{})

	return &Services{
		AuthService:     authService,
		OrderService:    orderService,
		CodeService:     codeService,
		UpstreamService: upstreamClient,
		WorkerService:   orderService,
		CallbackService: callbackService,
		StatsService:    statsService,
	}
}
