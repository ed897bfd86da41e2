package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/HSE-api/internal/application/analytics"
	"github.com/jhoicas/HSE-api/internal/application/auth"
	"github.com/jhoicas/HSE-api/internal/application/license"
	"github.com/jhoicas/HSE-api/internal/application/report"
	"github.com/jhoicas/HSE-api/internal/application/usecase"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
	"github.com/jhoicas/HSE-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	ModuleService *usecase.ModuleService
	UserUC        *usecase.UserUseCase
	LicenseUC     *license.LicenseUseCase
	ReportUC      *report.ReportUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
	Logger        *logger.Logger
	// HTTPMetrics y MetricsHandler son opcionales.
	HTTPMetrics    httpObserver
	MetricsHandler nethttp.Handler
	// AuthRateLimiter limita registro y login por IP; nil deshabilita el límite.
	AuthRateLimiter *RateLimiter
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	app.Use(AccessLog(log.WithComponent("http"), deps.HTTPMetrics))

	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Auth (público, con límite por IP)
	authGroup := api.Group("/auth")
	if deps.AuthRateLimiter != nil {
		authGroup.Use(deps.AuthRateLimiter.Middleware())
	}
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Alta de empresa (público: es el primer paso antes de registrar usuarios)
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.ModuleService)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	admins := RequireRole(entity.RoleAdmin)
	managers := RequireRole(entity.LicenseApproverRoles()...)
	writers := RequireRole(entity.LicenseEditorRoles()...)

	// Companies
	companies := protected.Group("/companies")
	companies.Get("/", admins, companyHandler.List)
	companies.Get("/me", companyHandler.Me)
	companies.Put("/me", admins, companyHandler.UpdateMe)
	companies.Get("/me/modules", companyHandler.ListModules)
	companies.Put("/me/modules", admins, companyHandler.SetModule)

	// Users
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)
	users.Get("/", managers, userHandler.List)

	// Licencias: requieren el módulo HSE "licenses" activo
	licensesModule := RequireModule(entity.ModuleLicenses, deps.ModuleService, log.WithComponent("modules"))
	licenses := protected.Group("/licenses", licensesModule)
	licenseHandler := NewLicenseHandler(deps.LicenseUC)
	conditionHandler := NewConditionHandler(deps.LicenseUC)
	attachmentHandler := NewAttachmentHandler(deps.LicenseUC)
	reportHandler := NewReportHandler(deps.ReportUC)

	licenses.Get("/", licenseHandler.List)
	licenses.Post("/", writers, licenseHandler.Create)
	licenses.Get("/export.xlsx", reportHandler.Register)
	licenses.Get("/:id", licenseHandler.GetByID)
	licenses.Put("/:id", writers, licenseHandler.Update)
	licenses.Delete("/:id", managers, licenseHandler.Delete)
	licenses.Put("/:id/regulatory", writers, licenseHandler.SetRegulatory)
	licenses.Put("/:id/risk", writers, licenseHandler.SetRisk)
	licenses.Put("/:id/renewal-info", writers, licenseHandler.SetRenewalInfo)
	licenses.Get("/:id/history", licenseHandler.History)

	// Ciclo de vida
	licenses.Post("/:id/submit", writers, licenseHandler.Submit)
	licenses.Post("/:id/review", managers, licenseHandler.BeginReview)
	licenses.Post("/:id/approve", managers, licenseHandler.Approve)
	licenses.Post("/:id/reject", managers, licenseHandler.Reject)
	licenses.Post("/:id/activate", managers, licenseHandler.Activate)
	licenses.Post("/:id/suspend", managers, licenseHandler.Suspend)
	licenses.Post("/:id/reinstate", managers, licenseHandler.Reinstate)
	licenses.Post("/:id/revoke", managers, licenseHandler.Revoke)
	licenses.Post("/:id/expire", managers, licenseHandler.Expire)
	licenses.Post("/:id/renewals", writers, licenseHandler.InitiateRenewal)
	licenses.Post("/:id/renewals/approve", managers, licenseHandler.ApproveRenewal)
	licenses.Post("/:id/renewals/reject", managers, licenseHandler.RejectRenewal)

	// Condiciones
	licenses.Post("/:id/conditions", writers, conditionHandler.Add)
	licenses.Put("/:id/conditions/:cid", writers, conditionHandler.Update)
	licenses.Delete("/:id/conditions/:cid", writers, conditionHandler.Remove)
	licenses.Post("/:id/conditions/:cid/status", writers, conditionHandler.SetStatus)
	licenses.Post("/:id/conditions/:cid/complete", writers, conditionHandler.Complete)

	// Adjuntos
	licenses.Post("/:id/attachments", writers, attachmentHandler.Upload)
	licenses.Get("/:id/attachments/:aid", attachmentHandler.Download)
	licenses.Delete("/:id/attachments/:aid", writers, attachmentHandler.Remove)

	// Documentos
	licenses.Get("/:id/certificate.pdf", reportHandler.Certificate)
	licenses.Get("/:id/dossier.xml", reportHandler.Dossier)

	// Dashboard de cumplimiento
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/compliance", licensesModule, dashboardHandler.GetCompliance)
}
