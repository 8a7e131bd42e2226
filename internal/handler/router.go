package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/literacy-registrar/internal/middleware"
	"github.com/noah-isme/literacy-registrar/internal/service"
	"github.com/noah-isme/literacy-registrar/pkg/logger"
	corsmiddleware "github.com/noah-isme/literacy-registrar/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/literacy-registrar/pkg/middleware/requestid"
)

// RouterConfig collects everything the HTTP surface needs.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool

	Logger  *zap.Logger
	Metrics *service.MetricsService
	Tokens  middleware.TokenValidator

	Auth    *AuthHandler
	Student *StudentHandler
	Export  *ExportHandler
	Mail    *MailHandler
	Meta    *MetaHandler
}

// NewRouter builds the gin engine with public and token-protected groups.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logr := cfg.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics, "/metrics"))

	r.GET("/health", cfg.Meta.Health)
	r.GET("/ready", cfg.Meta.Ready)
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/intro", cfg.Meta.Intro)
	api.POST("/auth/login", cfg.Auth.Login)
	api.GET("/exports/:token", cfg.Export.Download)

	protected := api.Group("")
	protected.Use(middleware.JWT(cfg.Tokens))
	protected.GET("/students/options", cfg.Student.Options)
	protected.POST("/students", cfg.Student.Register)
	protected.GET("/students/count", cfg.Student.Count)
	protected.POST("/exports", cfg.Export.Create)
	protected.POST("/mail", cfg.Mail.Send)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found", "status": http.StatusNotFound}})
	})
	return r
}
