package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

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
	out := flag.String("out", "", "output file (defaults to EXPORT_DIR/EXPORT_FILENAME)")
	format := flag.String("format", "", "xlsx, csv or pdf (inferred from -out when empty)")
	direction := flag.String("direction", "", "sheet direction, rtl or ltr")
	to := flag.String("to", "", "mail the workbook to this address")
	from := flag.String("from", "", "sender mailbox used with -to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to open student store", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()
	repo := repository.NewStudentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logr.Fatal("failed to prepare student store", zap.Error(err))
	}

	dir, filename := cfg.Export.Dir, ""
	if *out != "" {
		dir, filename = filepath.Dir(*out), filepath.Base(*out)
	}
	store, err := storage.NewLocalStorage(dir)
	if err != nil {
		logr.Fatal("failed to prepare export directory", zap.Error(err))
	}

	defaultDirection, err := export.ParseDirection(cfg.Export.Direction)
	if err != nil {
		logr.Fatal("invalid EXPORT_DIRECTION", zap.Error(err))
	}

	exportSvc := service.NewExportService(repo, store, nil, service.ExportConfig{
		DefaultFilename: cfg.Export.Filename,
		SheetName:       cfg.Export.SheetName,
		Direction:       defaultDirection,
	}, logr, export.NewCSVExporter(cfg.Export.CSVWithBOM), export.NewPDFExporter(cfg.Export.PDFFontPath))

	result, err := exportSvc.Export(ctx, service.ExportRequest{
		Format:    models.ExportFormat(*format),
		Filename:  filename,
		Direction: *direction,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d rows to %s\n", result.Rows, result.Path)

	if *to == "" {
		return
	}
	if *from == "" {
		fmt.Fprintln(os.Stderr, "-from is required with -to")
		os.Exit(2)
	}

	fmt.Printf("Password for %s: ", *from)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read password: %v\n", err)
		os.Exit(1)
	}

	transport := mail.NewTransport(mail.NewSMTPRelay(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Timeout, cfg.SMTP.RequireTLS), logr)
	mailSvc := service.NewMailService(exportSvc, transport, validation.New(), logr, service.MailDefaults{
		Subject:        cfg.Mail.Subject,
		Body:           cfg.Mail.Body,
		AttachmentName: cfg.Mail.AttachmentName,
	})
	sent, err := mailSvc.SendExport(ctx, service.SendMailRequest{
		SenderEmail:    *from,
		SenderSecret:   string(secret),
		RecipientEmail: *to,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("sent %s to %s\n", sent.Attachment, sent.Recipient)
}
