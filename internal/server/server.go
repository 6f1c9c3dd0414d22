package server

import (
	"context"
	"net/http"
	"time"

	"cardledger/internal/auth"
	"cardledger/internal/config"
	"cardledger/internal/creditcard"
	"cardledger/internal/invoice"
	"cardledger/internal/operation"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, notifier Notifier) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	cardRepo := creditcard.NewRepository(db)
	operationRepo := operation.NewRepository(db)
	invoiceRepo := invoice.NewRepository(db)

	cardHandler := creditcard.NewHandler(creditcard.NewService(cardRepo))
	operationHandler := operation.NewHandler(operation.NewService(cardRepo, operationRepo))
	invoiceHandler := invoice.NewHandler(invoice.NewService(cardRepo, operationRepo, invoiceRepo, notifier))
	authHandler := auth.NewHandler(cfg.JWTSecret, cfg.RefreshSecret)

	router.GET("/health", Health(db, notifier))
	router.GET("/metrics", Metrics())

	router.POST("/api/auth/refresh", authHandler.Refresh)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/api")
	protected.Use(authMiddleware)
	{
		protected.GET("/credit-cards", cardHandler.ListCreditCards)
		protected.GET("/credit-cards/:id", cardHandler.GetCreditCard)
		protected.POST("/credit-cards/:id/charges", operationHandler.Charge)
		protected.GET("/credit-cards/:id/operations", operationHandler.ListByPeriod)
		protected.GET("/credit-cards/:id/invoices", invoiceHandler.GetCardInvoices)

		protected.GET("/operations/:id", operationHandler.GetOperation)
		protected.POST("/operations/:id/rollback", operationHandler.Rollback)

		protected.GET("/invoices/:id", invoiceHandler.GetInvoice)
		protected.POST("/invoices/:id/pay", invoiceHandler.PayInvoice)
	}

	admin := router.Group("/api/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/credit-cards", cardHandler.CreateCreditCard)
		admin.POST("/invoices", invoiceHandler.GenerateInvoice)
	}

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
