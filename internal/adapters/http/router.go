package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"

	"github.com/rafaelleal24/stockledger/internal/adapters/config"
	"github.com/rafaelleal24/stockledger/internal/adapters/http/controllers"
	"github.com/rafaelleal24/stockledger/internal/adapters/http/middleware"
)

type Router struct {
	healthController      *controllers.HealthController
	productController     *controllers.ProductController
	transactionController *controllers.TransactionController
	reportController      *controllers.ReportController
	rateLimiter           middleware.RateLimiter
	config                config.HTTPConfig
}

// NewRouter wires the API. rateLimiter may be nil, which disables rate limiting.
func NewRouter(
	healthController *controllers.HealthController,
	productController *controllers.ProductController,
	transactionController *controllers.TransactionController,
	reportController *controllers.ReportController,
	rateLimiter middleware.RateLimiter,
	config config.HTTPConfig,
) *Router {
	return &Router{
		healthController:      healthController,
		productController:     productController,
		transactionController: transactionController,
		reportController:      reportController,
		rateLimiter:           rateLimiter,
		config:                config,
	}
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	limit := middleware.RateLimit(r.rateLimiter, r.config.RateLimit, r.config.RateWindow)

	router.GET("/swagger/doc.json", serveSwaggerDoc)

	apiGroup := router.Group("/api")
	v1Group := apiGroup.Group("/v1")
	{
		v1Group.Use(middleware.LogRequest())
		v1Group.GET("/health", r.healthController.Health)

		v1Group.GET("/products", r.productController.GetAll)
		v1Group.POST("/products", limit, r.productController.CreateProduct)
		v1Group.GET("/products/:id", r.productController.GetByID)
		v1Group.PUT("/products/:id", limit, r.productController.UpdateProduct)
		v1Group.DELETE("/products/:id", limit, r.productController.DeleteProduct)

		v1Group.POST("/transactions", limit, r.transactionController.RecordTransaction)
		v1Group.GET("/transactions", r.transactionController.GetRecent)
		v1Group.GET("/transactions/all", r.transactionController.GetAll)

		v1Group.GET("/reports/summary", r.reportController.Summary)
		v1Group.GET("/reports/reconciliation", r.reportController.Reconciliation)
	}
}

func serveSwaggerDoc(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "api documentation not registered"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}

func (r *Router) Handler() http.Handler {
	engine := gin.New()
	engine.Use(gin.Recovery())
	r.SetupRoutes(engine)
	return engine
}

func (r *Router) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", r.config.BindInterface, r.config.Port),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
