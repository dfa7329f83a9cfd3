package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/bimaplus/bima-api/api/swagger"
	"github.com/bimaplus/bima-api/internal/handler"
	"github.com/bimaplus/bima-api/internal/middleware"
	"github.com/bimaplus/bima-api/internal/models"
	"github.com/bimaplus/bima-api/internal/repository"
	"github.com/bimaplus/bima-api/internal/service"
	"github.com/bimaplus/bima-api/pkg/cache"
	"github.com/bimaplus/bima-api/pkg/config"
	"github.com/bimaplus/bima-api/pkg/database"
	"github.com/bimaplus/bima-api/pkg/logger"
	corsmiddleware "github.com/bimaplus/bima-api/pkg/middleware/cors"
	localemiddleware "github.com/bimaplus/bima-api/pkg/middleware/locale"
	reqidmiddleware "github.com/bimaplus/bima-api/pkg/middleware/requestid"
	"github.com/bimaplus/bima-api/pkg/storage"
)

const version = "1.0.0"

// @title BimaPlus Portal API
// @version 1.0.0
// @description Marketing site and back-office API for BimaPlus micro-insurance
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional; public content just skips caching without it.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, content caching disabled", "error", err)
		redisClient = nil
	}

	store, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare media storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	claimRepo := repository.NewClaimRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	contactRepo := repository.NewContactRepository(db)
	branchRepo := repository.NewBranchRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		SingleSession:      cfg.Auth.SingleSession,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	claimSvc := service.NewClaimService(claimRepo, validate, logr)
	quoteSvc := service.NewQuoteService(quoteRepo, validate, logr)
	applicationSvc := service.NewApplicationService(applicationRepo, validate, logr)
	reportSvc := service.NewWhistleblowingService(reportRepo, validate, logr)
	contactSvc := service.NewContactService(contactRepo, validate, logr)
	newsSvc := service.NewNewsService(newsRepo, redisClient, cfg.Content.CacheTTL, validate, logr)
	documentSvc := service.NewDocumentService(documentRepo, store, signer, service.DocumentConfig{
		MaxFileSizeBytes: cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Uploads.PublicMIMEs,
		DownloadBasePath: cfg.APIPrefix + "/documents/download",
	}, validate, logr)
	branchSvc := service.NewBranchService(branchRepo, validate, logr)
	exportSvc := service.NewExportService(claimSvc, quoteSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc, metricsSvc)
	userHandler := handler.NewUserHandler(userSvc)
	claimHandler := handler.NewClaimHandler(claimSvc, metricsSvc)
	quoteHandler := handler.NewQuoteHandler(quoteSvc, metricsSvc)
	applicationHandler := handler.NewApplicationHandler(applicationSvc, metricsSvc)
	reportHandler := handler.NewWhistleblowingHandler(reportSvc, metricsSvc)
	contactHandler := handler.NewContactHandler(contactSvc, metricsSvc)
	newsHandler := handler.NewNewsHandler(newsSvc)
	documentHandler := handler.NewDocumentHandler(documentSvc)
	branchHandler := handler.NewBranchHandler(branchSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	healthHandler := handler.NewHealthHandler(db, version)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.MaxMultipartMemory = cfg.Uploads.MaxFileSizeBytes

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/oauth", authHandler.OAuthSignIn)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/session", middleware.OptionalAuthenticate(authSvc), authHandler.Session)
		auth.POST("/logout", middleware.Authenticate(authSvc), authHandler.Logout)
		auth.PUT("/password", middleware.Authenticate(authSvc), authHandler.ChangePassword)
	}

	// Public lead-capture forms. Anyone can submit; nothing is read back.
	api.POST("/claims", middleware.OptionalAuthenticate(authSvc), claimHandler.Create)
	api.POST("/quotes", quoteHandler.Create)
	api.POST("/applications", applicationHandler.Create)
	api.POST("/whistleblowing", reportHandler.Create)
	api.POST("/contacts", contactHandler.CreateContact)
	api.POST("/callbacks", contactHandler.CreateCallback)
	api.GET("/documents/download", documentHandler.Download)

	// Public published content under a locale segment.
	content := api.Group("/:locale", localemiddleware.Middleware(cfg.Content.DefaultLocale, cfg.Content.AllowedLocales))
	{
		content.GET("/news", newsHandler.PublicList)
		content.GET("/news/:slug", newsHandler.PublicGet)
		content.GET("/documents", documentHandler.PublicList)
		content.GET("/branches", branchHandler.PublicList)
	}

	// Dashboard routes: valid session plus a storage-fresh USER role check.
	staff := api.Group("", middleware.Authenticate(authSvc), middleware.RequireRole(userRepo, models.RoleUser, cfg.Auth.FailOpen))
	{
		staff.GET("/claims", claimHandler.List)
		staff.GET("/claims/:id", claimHandler.Get)
		staff.PUT("/claims/:id", claimHandler.Update)

		staff.GET("/quotes", quoteHandler.List)
		staff.GET("/quotes/:id", quoteHandler.Get)
		staff.PUT("/quotes/:id", quoteHandler.Update)

		staff.GET("/applications", applicationHandler.List)
		staff.GET("/applications/:id", applicationHandler.Get)
		staff.PUT("/applications/:id", applicationHandler.Update)

		staff.GET("/whistleblowing", reportHandler.List)
		staff.GET("/whistleblowing/:id", reportHandler.Get)
		staff.PUT("/whistleblowing/:id", reportHandler.Update)

		staff.GET("/contacts", contactHandler.ListContacts)
		staff.GET("/contacts/:id", contactHandler.GetContact)
		staff.PUT("/contacts/:id", contactHandler.UpdateContact)

		staff.GET("/callbacks", contactHandler.ListCallbacks)
		staff.GET("/callbacks/:id", contactHandler.GetCallback)
		staff.PUT("/callbacks/:id", contactHandler.UpdateCallback)

		staff.GET("/news", newsHandler.List)
		staff.GET("/news/:id", newsHandler.Get)
		staff.POST("/news", newsHandler.Create)
		staff.PUT("/news/:id", newsHandler.Update)

		staff.GET("/documents", documentHandler.List)
		staff.GET("/documents/:id", documentHandler.Get)
		staff.POST("/documents", documentHandler.Upload)
		staff.PUT("/documents/:id", documentHandler.Update)

		staff.GET("/branches", branchHandler.List)
		staff.GET("/branches/:id", branchHandler.Get)
		staff.POST("/branches", branchHandler.Create)
		staff.PUT("/branches/:id", branchHandler.Update)
	}

	// Destructive record operations and user administration require ADMIN.
	admin := api.Group("", middleware.Authenticate(authSvc), middleware.RequireRole(userRepo, models.RoleAdmin, cfg.Auth.FailOpen))
	{
		admin.DELETE("/claims/:id", claimHandler.Delete)
		admin.DELETE("/quotes/:id", quoteHandler.Delete)
		admin.DELETE("/applications/:id", applicationHandler.Delete)
		admin.DELETE("/whistleblowing/:id", reportHandler.Delete)
		admin.DELETE("/contacts/:id", contactHandler.DeleteContact)
		admin.DELETE("/callbacks/:id", contactHandler.DeleteCallback)
		admin.DELETE("/news/:id", newsHandler.Delete)
		admin.DELETE("/documents/:id", documentHandler.Delete)
		admin.DELETE("/branches/:id", branchHandler.Delete)

		admin.GET("/users", userHandler.List)
		admin.GET("/users/:id", userHandler.Get)
		admin.POST("/users", userHandler.Create)
		admin.PUT("/users/:id", userHandler.Update)
		admin.DELETE("/users/:id", userHandler.Delete)

		if cfg.Exports.Enabled {
			admin.GET("/exports/claims", exportHandler.Claims)
			admin.GET("/exports/quotes", exportHandler.Quotes)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
