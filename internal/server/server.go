package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/gstbilling/internal/business"
	businessdomain "github.com/smallbiznis/gstbilling/internal/business/domain"
	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/customer"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	"github.com/smallbiznis/gstbilling/internal/dashboard"
	dashboarddomain "github.com/smallbiznis/gstbilling/internal/dashboard/domain"
	"github.com/smallbiznis/gstbilling/internal/invoice"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/internal/observability"
	obsmiddleware "github.com/smallbiznis/gstbilling/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/gstbilling/internal/observability/metrics"
	obstracing "github.com/smallbiznis/gstbilling/internal/observability/tracing"
	"github.com/smallbiznis/gstbilling/internal/product"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	"github.com/smallbiznis/gstbilling/internal/providers"
	"github.com/smallbiznis/gstbilling/internal/reference"
	referencedomain "github.com/smallbiznis/gstbilling/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	providers.Module,
	reference.Module,
	business.Module,
	customer.Module,
	product.Module,
	invoice.Module,
	dashboard.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(corsMiddleware(cfg.CORSOrigins))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-Id"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Request-Id"}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	return cors.New(corsConfig)
}

func registerGin(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(cfg, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log = log.Named("http.server")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	referenceSvc referencedomain.Service
	businessSvc  businessdomain.Service
	customerSvc  customerdomain.Service
	productSvc   productdomain.Service
	invoiceSvc   invoicedomain.Service
	dashboardSvc dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	ReferenceSvc referencedomain.Service
	BusinessSvc  businessdomain.Service
	CustomerSvc  customerdomain.Service
	ProductSvc   productdomain.Service
	InvoiceSvc   invoicedomain.Service
	DashboardSvc dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		referenceSvc: p.ReferenceSvc,
		businessSvc:  p.BusinessSvc,
		customerSvc:  p.CustomerSvc,
		productSvc:   p.ProductSvc,
		invoiceSvc:   p.InvoiceSvc,
		dashboardSvc: p.DashboardSvc,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Reference --------
	api.GET("/gst-rates", s.ListGSTRates)
	api.GET("/hsn-codes", s.SearchHSNCodes)
	api.GET("/states", s.ListStates)
	api.GET("/states/gstin/:gstin", s.GetStateByGSTIN)

	// -------- Business --------
	api.GET("/business", s.GetBusiness)
	api.POST("/business", s.UpsertBusiness)
	api.GET("/business/export.xlsx", s.ExportBusiness)
	api.POST("/business/import", s.ImportBusiness)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/export.xlsx", s.ExportCustomers)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PUT("/customers/:id", s.UpdateCustomer)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.UpsertProduct)
	api.GET("/products/export.xlsx", s.ExportProducts)
	api.GET("/products/:id", s.GetProductByID)
	api.DELETE("/products/:id", s.DeleteProduct)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.POST("/invoices/preview", s.PreviewInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PUT("/invoices/:id", s.UpdateInvoice)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
	api.PUT("/invoices/:id/payment", s.UpdateInvoicePayment)
	api.GET("/invoices/:id/render", s.RenderInvoice)
	api.GET("/invoices/:id/pdf", s.RenderInvoicePDF)
	api.GET("/invoices/:id/receipt", s.RenderInvoiceReceipt)
	api.GET("/invoices/:id/export.xlsx", s.ExportInvoice)

	// -------- Dashboard --------
	api.GET("/dashboard/stats", s.GetDashboardStats)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
