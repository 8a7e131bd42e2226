package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/literacy-registrar/internal/models"
	appErrors "github.com/noah-isme/literacy-registrar/pkg/errors"
	"github.com/noah-isme/literacy-registrar/pkg/export"
	"github.com/noah-isme/literacy-registrar/pkg/storage"
)

type studentLister interface {
	ListAll(ctx context.Context) ([]models.StudentRecord, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	TempFile(pattern string, data []byte) (string, func(), error)
	Path(filename string) string
}

type xlsxRenderer interface {
	Render(data export.Dataset, opts export.SheetOptions) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportRecorder interface {
	RecordExport(format, outcome string, duration time.Duration)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix       string
	DefaultFilename string
	SheetName       string
	Direction       export.Direction
	PDFTitle        string
}

// ExportRequest selects the format, target file and text direction of a snapshot.
type ExportRequest struct {
	Format    models.ExportFormat `json:"format"`
	Filename  string              `json:"filename"`
	Direction string              `json:"direction"`
}

// RenderOptions controls the pure render step.
type RenderOptions struct {
	Format    models.ExportFormat
	Direction export.Direction
	SheetName string
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	SnapshotID string              `json:"snapshot_id"`
	Filename   string              `json:"filename"`
	Path       string              `json:"-"`
	Format     models.ExportFormat `json:"format"`
	Rows       int                 `json:"rows"`
	Token      string              `json:"token,omitempty"`
	URL        string              `json:"url,omitempty"`
	ExpiresAt  *time.Time          `json:"expires_at,omitempty"`
}

// Download is an opened snapshot ready to stream.
type Download struct {
	File        *os.File
	Filename    string
	ContentType string
}

// ExportService builds student datasets and persists rendered files.
type ExportService struct {
	students studentLister
	storage  fileStorage
	signer   *storage.SignedURLSigner
	xlsx     xlsxRenderer
	csv      csvRenderer
	pdf      pdfRenderer
	metrics  exportRecorder
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService. signer may be nil when no download links are needed.
func NewExportService(students studentLister, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultFilename == "" {
		cfg.DefaultFilename = "bd_students.xlsx"
	}
	if cfg.Direction == "" {
		cfg.Direction = export.DirectionRTL
	}
	if cfg.PDFTitle == "" {
		cfg.PDFTitle = "Literacy programme registrations"
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &ExportService{
		students: students,
		storage:  store,
		signer:   signer,
		xlsx:     export.NewXLSXExporter(),
		csv:      csv,
		pdf:      pdf,
		logger:   logger,
		cfg:      cfg,
	}
}

// WithMetrics attaches an export counter.
func (s *ExportService) WithMetrics(metrics exportRecorder) *ExportService {
	s.metrics = metrics
	return s
}

// Export reads every record, renders it and replaces the target file.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	started := time.Now()
	format, filename, direction, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	records, err := s.students.ListAll(ctx)
	if err != nil {
		s.record(format, OutcomeFailure, started)
		return nil, appErrors.As(err, appErrors.ErrPersistence, "failed to read students")
	}

	content, err := s.Render(records, RenderOptions{Format: format, Direction: direction, SheetName: s.cfg.SheetName})
	if err != nil {
		s.record(format, OutcomeFailure, started)
		return nil, err
	}

	if _, err := s.storage.Save(filename, content); err != nil {
		s.record(format, OutcomeFailure, started)
		return nil, appErrors.As(err, appErrors.ErrExport, "failed to write export file")
	}

	result := &ExportResult{
		SnapshotID: uuid.NewString(),
		Filename:   filename,
		Path:       s.storage.Path(filename),
		Format:     format,
		Rows:       len(records),
	}
	if s.signer != nil {
		token, expiresAt, err := s.signer.Generate(result.SnapshotID, filename)
		if err != nil {
			s.record(format, OutcomeFailure, started)
			return nil, appErrors.As(err, appErrors.ErrInternal, "failed to sign download link")
		}
		result.Token = token
		result.URL = fmt.Sprintf("%s/exports/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token)
		result.ExpiresAt = &expiresAt
	}

	s.record(format, OutcomeSuccess, started)
	s.logger.Info("export written",
		zap.String("file", result.Path),
		zap.String("format", string(format)),
		zap.Int("rows", result.Rows),
	)
	return result, nil
}

// ExportTemp renders a fresh workbook into its own temp file for a single mail send.
func (s *ExportService) ExportTemp(ctx context.Context) (string, func(), error) {
	started := time.Now()
	records, err := s.students.ListAll(ctx)
	if err != nil {
		s.record(models.ExportFormatXLSX, OutcomeFailure, started)
		return "", nil, appErrors.As(err, appErrors.ErrPersistence, "failed to read students")
	}
	content, err := s.Render(records, RenderOptions{Format: models.ExportFormatXLSX, Direction: s.cfg.Direction, SheetName: s.cfg.SheetName})
	if err != nil {
		s.record(models.ExportFormatXLSX, OutcomeFailure, started)
		return "", nil, err
	}
	path, cleanup, err := s.storage.TempFile("bd_students-*.xlsx", content)
	if err != nil {
		s.record(models.ExportFormatXLSX, OutcomeFailure, started)
		return "", nil, appErrors.As(err, appErrors.ErrExport, "failed to write temporary export")
	}
	s.record(models.ExportFormatXLSX, OutcomeSuccess, started)
	return path, cleanup, nil
}

// Render turns records into file bytes. Column order is fixed and headers use the Arabic labels.
func (s *ExportService) Render(records []models.StudentRecord, opts RenderOptions) ([]byte, error) {
	data := studentDataset(records)
	var (
		content []byte
		err     error
	)
	switch opts.Format {
	case models.ExportFormatXLSX, "":
		content, err = s.xlsx.Render(data, export.SheetOptions{Name: opts.SheetName, Direction: opts.Direction})
	case models.ExportFormatCSV:
		content, err = s.csv.Render(data)
	case models.ExportFormatPDF:
		content, err = s.pdf.Render(data, s.cfg.PDFTitle)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", opts.Format))
	}
	if err != nil {
		return nil, appErrors.As(err, appErrors.ErrExport, "")
	}
	return content, nil
}

// Open resolves a signed download token to the stored snapshot.
func (s *ExportService) Open(token string) (*Download, error) {
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "downloads are disabled")
	}
	signed, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.As(err, appErrors.ErrUnauthorized, "download link expired")
		}
		return nil, appErrors.As(err, appErrors.ErrUnauthorized, "invalid download link")
	}
	file, err := s.storage.Open(signed.Path)
	if err != nil {
		return nil, appErrors.As(err, appErrors.ErrNotFound, "export file not found")
	}
	return &Download{
		File:        file,
		Filename:    filepath.Base(signed.Path),
		ContentType: formatFromName(signed.Path).ContentType(),
	}, nil
}

func (s *ExportService) resolve(req ExportRequest) (models.ExportFormat, string, export.Direction, error) {
	format := models.ExportFormat(strings.ToLower(string(req.Format)))
	filename := strings.TrimSpace(req.Filename)
	if format == "" {
		format = models.ExportFormatXLSX
		if filename != "" {
			format = formatFromName(filename)
		}
	}
	if !format.Valid() {
		return "", "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", req.Format))
	}

	if filename == "" {
		filename = strings.TrimSuffix(s.cfg.DefaultFilename, filepath.Ext(s.cfg.DefaultFilename)) + "." + string(format)
	} else if filepath.Ext(filename) == "" {
		filename += "." + string(format)
	}
	if !storage.ValidName(filename) {
		return "", "", "", appErrors.Clone(appErrors.ErrValidation, "filename must be a relative path inside the export directory")
	}

	direction := s.cfg.Direction
	if req.Direction != "" {
		parsed, err := export.ParseDirection(req.Direction)
		if err != nil {
			return "", "", "", appErrors.As(err, appErrors.ErrValidation, "direction must be rtl or ltr")
		}
		direction = parsed
	}
	return format, filename, direction, nil
}

func (s *ExportService) record(format models.ExportFormat, outcome string, started time.Time) {
	if s.metrics != nil {
		s.metrics.RecordExport(string(format), outcome, time.Since(started))
	}
}

func studentDataset(records []models.StudentRecord) export.Dataset {
	rows := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.Values())
	}
	return export.Dataset{
		Headers: models.StudentColumns,
		Rows:    rows,
		Labels:  models.ArabicColumnLabels,
	}
}

func formatFromName(name string) models.ExportFormat {
	format := models.ExportFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."))
	if format.Valid() {
		return format
	}
	return models.ExportFormatXLSX
}
