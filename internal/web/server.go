package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"marketinsights/internal/config"
	"marketinsights/internal/ingest"
	"marketinsights/internal/insights"
	"marketinsights/internal/logger"
	"marketinsights/internal/mailer"
	"marketinsights/internal/news"
	"marketinsights/internal/storage"
	"marketinsights/internal/telegram"
)

type Server struct {
	httpServer *http.Server
	repo       *storage.Repository
	config     *config.Config
	logger     *logger.Logger

	alpha    *ingest.AlphaVantageClient
	yahoo    *ingest.YahooClient
	insights *insights.Client
	news     *news.Provider
	mailer   *mailer.Mailer
	notifier *telegram.Notifier
}

func NewServer(
	repo *storage.Repository,
	cfg *config.Config,
	log *logger.Logger,
	alpha *ingest.AlphaVantageClient,
	yahoo *ingest.YahooClient,
	ins *insights.Client,
	newsProvider *news.Provider,
	m *mailer.Mailer,
	notifier *telegram.Notifier,
) *Server {
	s := &Server{
		repo:     repo,
		config:   cfg,
		logger:   log,
		alpha:    alpha,
		yahoo:    yahoo,
		insights: ins,
		news:     newsProvider,
		mailer:   m,
		notifier: notifier,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.buildHandler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) buildHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/", s.handleHome)
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(s.config.Server.StaticDir))))
	r.Get("/health", s.handleHealth)

	r.Get("/prices", s.handleListPrices)
	r.Get("/prices/{symbol}", s.handlePricesForSymbol)
	r.Post("/ingest/alpha_vantage", s.handleIngestAlphaVantage)
	r.Post("/ingest/fx", s.handleIngestFX)
	r.Post("/ingest/yahoo", s.handleIngestYahoo)

	r.Get("/journal", s.handleListJournal)
	r.Post("/journal", s.handleSaveJournal)
	r.Delete("/journal/{id}", s.handleDeleteJournal)

	r.Get("/accounts", s.handleListAccounts)
	r.Post("/accounts", s.handleSaveAccount)
	r.Delete("/accounts/{id}", s.handleDeleteAccount)

	r.Get("/portfolios", s.handleListPortfolios)
	r.Post("/portfolios", s.handleSavePortfolio)
	r.Delete("/portfolios/{id}", s.handleDeletePortfolio)
	r.Get("/portfolios/{id}/transactions", s.handleListTransactions)
	r.Post("/portfolios/{id}/transactions", s.handleAddTransaction)
	r.Delete("/transactions/{id}", s.handleDeleteTransaction)
	r.Get("/portfolios/{id}/positions", s.handlePositions)

	r.Get("/entry_plans", s.handleListEntryPlans)
	r.Post("/entry_plans", s.handleSaveEntryPlan)

	r.Post("/insights", s.handleInsights)
	r.Get("/insights/status", s.handleInsightsStatus)
	r.Get("/news", s.handleNews)
	r.Get("/calendar", s.handleCalendar)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/request_code", s.handleRequestCode)
		r.Post("/verify_code", s.handleVerifyCode)
		r.Post("/logout", s.handleLogout)
	})

	// Credentialed CORS for the local frontend
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.config.Server.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("web server starting", "port", s.config.Server.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
