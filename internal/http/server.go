// Package http exposes the budget service as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"budgetwise/internal/advisor"
	"budgetwise/internal/budget"
	"budgetwise/internal/cache"
	"budgetwise/internal/config"
	"budgetwise/internal/core"
	"budgetwise/internal/log"
	"budgetwise/internal/middleware/ratelimit"
	"budgetwise/internal/middleware/security"
	"budgetwise/internal/middleware/trace"
	"budgetwise/internal/notify"
	"budgetwise/internal/store"
)

// Notifier publishes over-limit alert events. A nil Notifier disables
// publishing.
type Notifier interface {
	PublishAlert(ctx context.Context, event *notify.AlertEvent) error
}

type Server struct {
	http.Server

	svc      *budget.Service
	tips     *advisor.Service
	notifier Notifier
	kv       store.KV
	logger   *log.Logger

	// Derived responses are cached and invalidated on every mutation.
	summaryCache   *cache.LRU[core.Summary]
	breakdownCache *cache.LRU[budget.Breakdown]
	cacheManager   *cache.Manager

	tipsLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once
}

const (
	summaryCacheKey   = "summary"
	breakdownCacheKey = "breakdown"
)

// NewServer wires routes, middleware and caches into a ready-to-run server.
func NewServer(cfg *config.Config, svc *budget.Service, tips *advisor.Service, notifier Notifier, kv store.KV, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		svc:            svc,
		tips:           tips,
		notifier:       notifier,
		kv:             kv,
		logger:         logger.WithComponent(log.ComponentHTTP),
		summaryCache:   cache.NewLRU[core.Summary](8, 5*time.Minute),
		breakdownCache: cache.NewLRU[budget.Breakdown](8, 5*time.Minute),
		cacheManager:   cache.NewManager(),
		tipsLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.Server.TipsPerMinute,
		}),
	}
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.breakdownCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	s.Server.Addr = cfg.Addr()
	s.Server.Handler = s.routes(cfg)
	s.Server.ReadTimeout = cfg.Server.ReadTimeout
	s.Server.WriteTimeout = cfg.Server.WriteTimeout
	s.Server.IdleTimeout = cfg.Server.IdleTimeout
	return s
}

func (s *Server) routes(cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(trace.NewMiddleware(s.logger).Handler)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(chimw.AllowContentType("application/json"))

		api.Route("/income", func(r chi.Router) {
			r.Get("/", s.handleListIncomes)
			r.Post("/", s.handleCreateIncome)
			r.Put("/", s.handleReplaceIncomes)
			r.Put("/{id}", s.handleUpdateIncome)
			r.Delete("/{id}", s.handleDeleteIncome)
		})

		api.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleCreateExpense)
			r.Put("/", s.handleReplaceExpenses)
			r.Put("/{id}", s.handleUpdateExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
		})

		api.Route("/alerts", func(r chi.Router) {
			r.Get("/", s.handleListAlerts)
			r.Post("/", s.handleCreateAlert)
			r.Put("/", s.handleReplaceAlerts)
			r.Put("/{id}", s.handleUpdateAlert)
			r.Delete("/{id}", s.handleDeleteAlert)
		})

		api.Get("/dashboard", s.handleDashboard)
		api.Get("/reports/expenses", s.handleExpenseReport)
		api.Get("/categories", s.handleCategories)

		api.Group(func(r chi.Router) {
			r.Use(s.tipsLimiter.Middleware(trace.ClientIP))
			r.Post("/tips", s.handleTips)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports readiness of the keyed store. The store opens in the
// background; until its readiness signal fires the service accepts no reads
// or writes.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	select {
	case <-s.kv.Ready():
	default:
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("starting"))
		return
	}
	if err := s.kv.Err(); err != nil {
		s.logger.ErrorContext(r.Context(), "Store failed to open", log.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the cache sweeper and rate limiter, then drains the HTTP
// server. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.tipsLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) invalidateSummary() {
	s.summaryCache.Delete(summaryCacheKey)
}

func (s *Server) invalidateBreakdown() {
	s.breakdownCache.Delete(breakdownCacheKey)
}

func (s *Server) getSummary(ctx context.Context) (core.Summary, error) {
	if data, found := s.summaryCache.Get(summaryCacheKey); found {
		return data, nil
	}
	data, err := s.svc.Summary(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	s.summaryCache.Set(summaryCacheKey, data)
	return data, nil
}

func (s *Server) getBreakdown(ctx context.Context) (budget.Breakdown, error) {
	if data, found := s.breakdownCache.Get(breakdownCacheKey); found {
		return data, nil
	}
	data, err := s.svc.ExpenseBreakdown(ctx)
	if err != nil {
		return budget.Breakdown{}, err
	}
	s.breakdownCache.Set(breakdownCacheKey, data)
	return data, nil
}
