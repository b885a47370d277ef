package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/malazinvestment/backend/config"
	"github.com/malazinvestment/backend/middleware"
	"github.com/malazinvestment/backend/service"
)

// Deps is everything the HTTP layer needs; main builds it once at startup.
type Deps struct {
	Config    *config.Config
	Companies service.CompanyRepository
	Users     service.UserRepository
	Files     service.FileStore
	Uploads   *service.UploadService
	Metrics   *middleware.Metrics
}

// NewRouter wires middleware and routes
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
	}
	router.Use(middleware.CORS(d.Config.CORS))
	router.Use(middleware.CacheControl())
	router.Use(middleware.RateLimit(d.Config.RateLimit))

	authHandler := NewAuthHandler()
	companyHandler := NewCompanyHandler(d.Companies, d.Uploads)
	userHandler := NewUserHandler(d.Users)
	fileHandler := NewFileHandler(d.Uploads, d.Files)

	// Public routes
	router.GET("/", Root)
	router.GET("/health", Health)
	router.GET("/files/*filepath", fileHandler.Serve)
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// Operator routes
	admin := router.Group("/admin")
	admin.Use(middleware.BasicAuth(&d.Config.Auth))
	{
		admin.GET("/me", authHandler.Me)

		admin.POST("/companies/add", companyHandler.Create)
		admin.GET("/companies", companyHandler.List)
		admin.GET("/companies/:id", companyHandler.Get)
		admin.PUT("/companies/:id", companyHandler.Update)
		admin.DELETE("/companies/:id", companyHandler.Delete)

		admin.POST("/upload/", fileHandler.Upload)

		admin.POST("/users/", userHandler.Create)
		admin.GET("/users/", userHandler.List)
		admin.PUT("/users/:id", userHandler.Update)
		admin.DELETE("/users/:id", userHandler.Delete)
	}

	return router
}
