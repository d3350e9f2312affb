package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/startin-app/startin/internal/api/handler"
	"github.com/startin-app/startin/internal/api/middleware"
	"github.com/startin-app/startin/internal/core/domain"
	"github.com/startin-app/startin/internal/core/ports"
	"github.com/startin-app/startin/internal/core/service"
	mongodb "github.com/startin-app/startin/internal/infrastructure/db/mongo"
	redisdb "github.com/startin-app/startin/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, mail ports.MailDispatcher, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("startin"))

	// --- Repositories ---
	accountRepo := mongodb.NewAccountRepository(db)
	universityRepo := mongodb.NewUniversityRepository(db)
	profileRepo := mongodb.NewProfileRepository(db)
	jobRepo := mongodb.NewJobRepository(db)
	applicationRepo := mongodb.NewApplicationRepository(db)
	otpStore := redisdb.NewOTPStore(rdb)
	rosterRepo := mongodb.NewCompanyRosterRepository(db)

	// --- Services ---
	authService := service.NewAuthService(accountRepo, universityRepo, rosterRepo, otpStore, mail, jwtSecret, tokenTTL, log)
	universityService := service.NewUniversityService(universityRepo, accountRepo, profileRepo, jobRepo, applicationRepo, otpStore, log)
	profileService := service.NewProfileService(profileRepo)
	jobService := service.NewJobService(jobRepo, applicationRepo, log)
	rosterService := service.NewCompanyRosterService(rosterRepo, accountRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	universityHandler := handler.NewUniversityHandler(universityService)
	profileHandler := handler.NewProfileHandler(profileService)
	jobHandler := handler.NewJobHandler(jobService)
	rosterHandler := handler.NewCompanyRosterHandler(rosterService)

	auth := middleware.Auth(jwtSecret)
	studentOnly := middleware.RBAC(string(domain.RoleStudent))
	companyOnly := middleware.RBAC(string(domain.RoleCompany))
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))
	anyTenant := middleware.RBAC(string(domain.RoleStudent), string(domain.RoleCompany))

	// --- Scope selection (no auth) ---
	e.POST("/v1/universities/verify-passkey", universityHandler.VerifyPasskey)

	// --- Auth flows (no auth) ---
	students := e.Group("/v1/auth/students")
	students.POST("/signup", authHandler.Signup(domain.RoleStudent))
	students.POST("/verify-otp", authHandler.VerifyOTP(domain.RoleStudent))
	students.POST("/resend-otp", authHandler.ResendOTP(domain.RoleStudent))
	students.POST("/login", authHandler.Login(domain.RoleStudent))
	students.POST("/request-reset", authHandler.RequestPasswordReset(domain.RoleStudent))
	students.POST("/reset-password", authHandler.ResetPassword(domain.RoleStudent))

	companies := e.Group("/v1/auth/companies")
	companies.POST("/signup", authHandler.Signup(domain.RoleCompany))
	companies.POST("/verify-otp", authHandler.VerifyOTP(domain.RoleCompany))
	companies.POST("/resend-otp", authHandler.ResendOTP(domain.RoleCompany))
	companies.POST("/login", authHandler.Login(domain.RoleCompany))
	companies.POST("/request-reset", authHandler.RequestPasswordReset(domain.RoleCompany))
	companies.POST("/reset-password", authHandler.ResetPassword(domain.RoleCompany))

	e.POST("/v1/auth/admin/login", authHandler.AdminLogin)

	// --- Profiles (bearer token required) ---
	studentAPI := e.Group("/v1/students", auth, studentOnly)
	studentAPI.PUT("/profile", profileHandler.SaveStudent)
	studentAPI.GET("/profile", profileHandler.GetStudent)
	studentAPI.GET("/profile/exists", profileHandler.Exists)
	studentAPI.GET("/applications", jobHandler.MyApplications)

	companyAPI := e.Group("/v1/companies", auth, companyOnly)
	companyAPI.PUT("/profile", profileHandler.SaveCompany)
	companyAPI.GET("/profile", profileHandler.GetCompany)
	companyAPI.GET("/profile/exists", profileHandler.Exists)
	companyAPI.GET("/jobs", jobHandler.ListMine)

	// --- Jobs and applications ---
	jobs := e.Group("/v1/jobs", auth)
	jobs.GET("", jobHandler.List, anyTenant)
	jobs.POST("", jobHandler.Post, companyOnly)
	jobs.GET("/:id", jobHandler.Get, anyTenant)
	jobs.DELETE("/:id", jobHandler.Close, companyOnly)
	jobs.POST("/:id/apply", jobHandler.Apply, studentOnly)
	jobs.GET("/:id/applications", jobHandler.Applicants, companyOnly)

	e.PATCH("/v1/applications/:id", jobHandler.UpdateApplication, auth, companyOnly)

	// --- Admin (platform-wide) ---
	admin := e.Group("/v1/admin", auth, adminOnly)
	admin.GET("/universities", universityHandler.List)
	admin.POST("/universities/upload", universityHandler.Upload)
	admin.DELETE("/universities/:id", universityHandler.Delete)
	admin.GET("/companies", rosterHandler.List)
	admin.POST("/companies", rosterHandler.Add)
	admin.POST("/companies/upload", rosterHandler.Upload)
	admin.DELETE("/companies/:id", rosterHandler.Delete)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
