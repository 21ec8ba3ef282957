package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/vthuan-dev/bulkpay/docs"
	"github.com/vthuan-dev/bulkpay/internal/domain"
	authhandlers "github.com/vthuan-dev/bulkpay/internal/handlers/auth"
	ordershandlers "github.com/vthuan-dev/bulkpay/internal/handlers/orders"
	statshandlers "github.com/vthuan-dev/bulkpay/internal/handlers/stats"
	workerhandlers "github.com/vthuan-dev/bulkpay/internal/handlers/worker"
	"github.com/vthuan-dev/bulkpay/internal/service"
	"github.com/vthuan-dev/bulkpay/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	SubmitOrder(w http.ResponseWriter, r *http.Request)
	GetOrders(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	RetryOrder(w http.ResponseWriter, r *http.Request)
	BulkProcess(w http.ResponseWriter, r *http.Request)
	ExportOrder(w http.ResponseWriter, r *http.Request)
	ListServices(w http.ResponseWriter, r *http.Request)
	GetOutstanding(w http.ResponseWriter, r *http.Request)
}

type WorkerHandler interface {
	GetPending(w http.ResponseWriter, r *http.Request)
	ClaimOrder(w http.ResponseWriter, r *http.Request)
	DispatchOrder(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
}

type StatsHandler interface {
	GetStats(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler   AuthHandler
	OrderHandler  OrderHandler
	WorkerHandler WorkerHandler
	StatsHandler  StatsHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:   authhandlers.New(s.AuthService),
		OrderHandler:  ordershandlers.New(s.OrderService, s.CodeService, s.UpstreamService),
		WorkerHandler: workerhandlers.New(s.WorkerService, s.CallbackService),
		StatsHandler:  statshandlers.New(s.StatsService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Get("/services", h.OrderHandler.ListServices)
			r.Get("/services/{serviceType}/outstanding", h.OrderHandler.GetOutstanding)
			r.Get("/stats", h.StatsHandler.GetStats)
			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.OrderHandler.SubmitOrder)
				r.Get("/", h.OrderHandler.GetOrders)
				r.Post("/bulk", h.OrderHandler.BulkProcess)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.OrderHandler.GetOrder)
					r.Post("/retry", h.OrderHandler.RetryOrder)
					r.Get("/export", h.OrderHandler.ExportOrder)
				})
			})

			r.Route("/worker", func(r chi.Router) {
				r.Use(auth.RequireRoles(domain.RoleAdmin, domain.RoleManager))
				r.Get("/pending", h.WorkerHandler.GetPending)
				r.Post("/orders/{id}/claim", h.WorkerHandler.ClaimOrder)
				r.Post("/orders/{id}/dispatch", h.WorkerHandler.DispatchOrder)
				r.Post("/callback", h.WorkerHandler.Callback)
			})
		})
	})

	return r
}
