package router

import (
	"time"

	"github.com/ken6921-byte/zuinsurance-app/internal/ai"
	"github.com/ken6921-byte/zuinsurance-app/internal/config"
	"github.com/ken6921-byte/zuinsurance-app/internal/handler"
	"github.com/ken6921-byte/zuinsurance-app/internal/infra"
	"github.com/ken6921-byte/zuinsurance-app/internal/middleware"
	"github.com/ken6921-byte/zuinsurance-app/internal/model"
	"github.com/ken6921-byte/zuinsurance-app/internal/repository"
	"github.com/ken6921-byte/zuinsurance-app/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB
func New(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(300, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	aiClient := ai.NewClient(cfg.OpenAIAPIKey, cfg.VisionModel, cfg.TextModel)
	pdf := infra.NewPDFRenderer(cfg.PDFFontPath)
	mailer := infra.NewMailer(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	policyRepo := repository.NewPolicyRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	reportRepo := repository.NewReportRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	usageSvc := service.NewUsageService(usageRepo, cfg)
	customerSvc := service.NewCustomerService(customerRepo)
	policySvc := service.NewPolicyService(policyRepo, customerSvc, customerRepo, usageSvc, aiClient, pdf, mailer)
	reportSvc := service.NewReportService(reportRepo)
	importExportSvc := service.NewImportExportService(customerSvc, customerRepo, policyRepo)
	adminSvc := service.NewAdminService(adminRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc, policySvc)
	policiesH := handler.NewPoliciesHandler(policySvc)
	reportsH := handler.NewReportsHandler(reportSvc, usageSvc)
	importExportH := handler.NewImportExportHandler(importExportSvc)
	adminH := handler.NewAdminHandler(adminSvc, usageSvc, authSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes — every agent-facing endpoint requires a valid token
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		customers := v1.Group("/customers")
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), customersH.Delete)
			customers.GET("/:id/policies", customersH.ListPolicies)
		}

		policies := v1.Group("/policies")
		{
			policies.POST("/extract", policiesH.Extract)
			policies.GET("/:id", policiesH.Get)
			policies.DELETE("/:id", policiesH.Delete)
			policies.POST("/:id/summary", policiesH.Summary)
			policies.GET("/:id/report.pdf", policiesH.ReportPDF)
			policies.POST("/:id/email", policiesH.Email)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/customers", reportsH.CustomerOverview)
			reports.GET("/categories", reportsH.CategoryStats)
		}
		v1.GET("/usage", reportsH.Usage)

		imports := v1.Group("/import")
		{
			imports.POST("/inspect", importExportH.Inspect)
			imports.POST("/customers", importExportH.ImportCustomers)
		}

		exports := v1.Group("/export")
		{
			exports.GET("/customers.csv", importExportH.ExportCustomersCSV)
			exports.GET("/policies.csv", importExportH.ExportPoliciesCSV)
			exports.GET("/policy-items.csv", importExportH.ExportPolicyItemsCSV)
			exports.GET("/backup.xlsx", importExportH.ExportBackupXLSX)
		}

		admin := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/usage/reset", adminH.ResetUsage)
			admin.DELETE("/data", adminH.WipeData)
			admin.GET("/users", adminH.ListUsers)
		}
	}

	return r
}
