// @title Literacy Registrar API
// @version 1.0.0
// @description Student registration, spreadsheet export and mail delivery for the literacy programme.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/literacy-registrar/api/swagger"
	"github.com/noah-isme/literacy-registrar/internal/handler"
	"github.com/noah-isme/literacy-registrar/internal/models"
	"github.com/noah-isme/literacy-registrar/internal/repository"
	"github.com/noah-isme/literacy-registrar/internal/service"
	"github.com/noah-isme/literacy-registrar/internal/validation"
	"github.com/noah-isme/literacy-registrar/pkg/config"
	"github.com/noah-isme/literacy-registrar/pkg/database"
	"github.com/noah-isme/literacy-registrar/pkg/export"
	"github.com/noah-isme/literacy-registrar/pkg/logger"
	"github.com/noah-isme/literacy-registrar/pkg/mail"
	"github.com/noah-isme/literacy-registrar/pkg/storage"
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to open student store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	repo := repository.NewStudentRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		logr.Fatal("failed to prepare student store", zap.Error(err))
	}

	direction, err := export.ParseDirection(cfg.Export.Direction)
	if err != nil {
		logr.Fatal("invalid EXPORT_DIRECTION", zap.Error(err))
	}

	store, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		logr.Fatal("failed to prepare export directory", zap.Error(err))
	}

	authenticator, err := service.NewStaticAuthenticator(cfg.Auth.Username, cfg.Auth.PasswordHash, cfg.Auth.Password, cfg.Auth.BcryptCost)
	if err != nil {
		logr.Fatal("operator account is not configured; set AUTH_PASSWORD_HASH (see registrar-passwd)", zap.Error(err))
	}

	validate := validation.New()
	metrics := service.NewMetricsService()

	authSvc := service.NewAuthService(authenticator, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(repo, validate, logr).WithMetrics(metrics)
	exportSvc := service.NewExportService(
		repo,
		store,
		storage.NewSignedURLSigner(cfg.Export.SignedURLSecret, cfg.Export.SignedURLTTL),
		service.ExportConfig{
			APIPrefix:       cfg.APIPrefix,
			DefaultFilename: cfg.Export.Filename,
			SheetName:       cfg.Export.SheetName,
			Direction:       direction,
		},
		logr,
		export.NewCSVExporter(cfg.Export.CSVWithBOM),
		export.NewPDFExporter(cfg.Export.PDFFontPath),
	).WithMetrics(metrics)
	transport := mail.NewTransport(mail.NewSMTPRelay(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Timeout, cfg.SMTP.RequireTLS), logr)
	mailSvc := service.NewMailService(exportSvc, transport, validate, logr, service.MailDefaults{
		Subject:        cfg.Mail.Subject,
		Body:           cfg.Mail.Body,
		AttachmentName: cfg.Mail.AttachmentName,
	}).WithMetrics(metrics)

	r := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Metrics:        metrics,
		Tokens:         authSvc,
		Auth:           handler.NewAuthHandler(authSvc),
		Student:        handler.NewStudentHandler(studentSvc),
		Export:         handler.NewExportHandler(exportSvc, logr),
		Mail:           handler.NewMailHandler(mailSvc),
		Meta:           handler.NewMetaHandler(db, models.DefaultInstitution),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("server shutdown", zap.Error(err))
	}
}
