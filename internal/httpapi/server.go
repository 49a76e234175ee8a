package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"custodia/internal/custodia/service"
)

type Dependencies struct {
	Logger    *log.Logger
	Addr      string
	Resolver  *service.IdentityResolver
	Ledger    *service.LedgerService
	Projector *service.Projector
	Overdue   *service.OverdueScanner
	Visits    *service.VisitService
	Directory *service.Directory
	Catalog   *service.AssetCatalog
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger

	resolver  *service.IdentityResolver
	ledger    *service.LedgerService
	projector *service.Projector
	overdue   *service.OverdueScanner
	visits    *service.VisitService
	directory *service.Directory
	catalog   *service.AssetCatalog
}

func NewServer(d Dependencies) *Server {
	s := &Server{
		logger:    d.Logger,
		resolver:  d.Resolver,
		ledger:    d.Ledger,
		projector: d.Projector,
		overdue:   d.Overdue,
		visits:    d.Visits,
		directory: d.Directory,
		catalog:   d.Catalog,
	}

	r := chi.NewRouter()
	r.Use(loggingMiddleware(d.Logger))
	r.Use(recoverMiddleware(d.Logger))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/scan", s.handleScan)
		r.Post("/login", s.handleLogin)

		r.Post("/checkout", s.handleCheckout)
		r.Post("/checkin", s.handleCheckin)
		r.Get("/transactions", s.handleTransactionHistory)
		r.Post("/transactions/{id}/force-close", s.handleForceClose)

		r.Get("/assets", s.handleAssetList)
		r.Post("/assets", s.handleAssetCreate)
		r.Get("/assets/{id}", s.handleAssetView)
		r.Patch("/assets/{id}", s.handleAssetUpdate)
		r.Post("/assets/{id}/deactivate", s.handleAssetDeactivate)
		r.Post("/assets/{id}/reactivate", s.handleAssetReactivate)

		r.Get("/people", s.handlePersonList)
		r.Post("/people", s.handlePersonCreate)
		r.Get("/people/{id}", s.handlePersonGet)
		r.Patch("/people/{id}", s.handlePersonUpdate)
		r.Post("/people/{id}/deactivate", s.handlePersonDeactivate)
		r.Post("/people/{id}/reactivate", s.handlePersonReactivate)

		r.Get("/alerts/overdue", s.handleOverdue)

		r.Get("/visits", s.handleVisitList)
		r.Post("/visits", s.handleVisitArrive)
		r.Post("/visits/{id}/depart", s.handleVisitDepart)
	})

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
