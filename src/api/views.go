package api

import (
	"net/http"
	"time"

	"tracker/src/api/handlers"
	"tracker/src/clients/rates"
	"tracker/src/config"
	"tracker/src/database"
	"tracker/src/repositories"
	"tracker/src/services"
	"tracker/src/utils"
	redis_utils "tracker/src/utils/redis"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler

	// RateService is exposed so the periodic refresh task can reach it.
	RateService services.RateServiceI
}

func NewServer(cfg *config.Config) (*Server, error) {
	logLevel, err := logrus.ParseLevel(cfg.Service.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger := utils.NewLogger(logLevel, false, "")

	db, err := database.SetupDB(cfg)
	if err != nil {
		return nil, err
	}

	var redisHandler *redis_utils.RedisHandler
	if cfg.Databases.Redis.Enabled {
		redisHandler, err = redis_utils.NewRedisHandler(cfg)
		if err != nil {
			// Redis only persists the rate fallback; run without it.
			logger.WithError(err).Warn("redis unavailable, rate table fallback will not survive restarts")
			redisHandler = nil
		}
	}

	accountRepo := repositories.NewAccountRepository(db)
	assetRepo := repositories.NewAccountAssetRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	txManager := repositories.NewTxManager(db)

	ratesClient := rates.NewClient(cfg)
	rateService := services.NewRateService(ratesClient, redisHandler, logger, cfg.ExternalClients.Rates.BaseCurrency)
	currencyService := services.NewCurrencyService(rateService, logger)
	ledgerService := services.NewLedgerService(transactionRepo, assetRepo, currencyService, txManager)
	analyticsService := services.NewAnalyticsService(transactionRepo, assetRepo, currencyService, logger)
	accountService := services.NewAccountService(accountRepo, assetRepo, currencyService, logger)
	catalogService := services.NewCatalogService(categoryRepo, tagRepo, logger)

	server := &Server{
		Router:      chi.NewRouter(),
		Handler:     handlers.NewHandler(accountService, ledgerService, analyticsService, catalogService, rateService, logger),
		RateService: rateService,
	}
	server.InitRoutes()
	return server, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api/accounts", func(r chi.Router) {
		r.Post("/", s.Handler.CreateAccount)
		r.Get("/", s.Handler.GetAccountBalances)
		r.Get("/split", s.Handler.GetPortfolioSplit)
		r.Put("/{id}/hidden", s.Handler.SetAccountHidden)
	})

	s.Router.Route("/api/transactions", func(r chi.Router) {
		r.Post("/", s.Handler.CreateTransaction)
		r.Put("/{id}", s.Handler.UpdateTransaction)
		r.Delete("/{id}", s.Handler.DeleteTransaction)
	})

	s.Router.Route("/api/categories", func(r chi.Router) {
		r.Post("/", s.Handler.CreateCategory)
		r.Get("/", s.Handler.GetCategories)
	})

	s.Router.Route("/api/tags", func(r chi.Router) {
		r.Post("/", s.Handler.CreateTag)
		r.Get("/", s.Handler.GetTags)
	})

	s.Router.Route("/api/analytics", func(r chi.Router) {
		r.Get("/summary", s.Handler.GetSummary)
		r.Get("/top-categories", s.Handler.GetTopCategories)
		r.Get("/top-tags", s.Handler.GetTopTags)
		r.Get("/top-transfers", s.Handler.GetTopTransfers)
		r.Get("/anomalies", s.Handler.GetAnomalies)
		r.Get("/by-type", s.Handler.GetByType)
		r.Get("/categories/{id}/transactions", s.Handler.GetCategoryDetail)
		r.Get("/tags/{id}/transactions", s.Handler.GetTagDetail)
	})

	s.Router.Get("/api/rates", s.Handler.GetRates)
}

func NewHTTPServer(server *Server, port string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
}
