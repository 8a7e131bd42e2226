package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/literacy-registrar/internal/models"
	appErrors "github.com/noah-isme/literacy-registrar/pkg/errors"
	"github.com/noah-isme/literacy-registrar/pkg/export"
	"github.com/noah-isme/literacy-registrar/pkg/storage"
)

type stubLister struct {
	records []models.StudentRecord
	err     error
	calls   int
}

func (s *stubLister) ListAll(ctx context.Context) ([]models.StudentRecord, error) {
	s.calls++
	return s.records, s.err
}

func newTestExportService(t *testing.T, lister studentLister) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	svc := NewExportService(lister, store, signer, ExportConfig{APIPrefix: "/api/v1"}, nil, nil, nil)
	return svc, dir
}

func sampleRecords() []models.StudentRecord {
	return []models.StudentRecord{
		{ID: 1, LastName: "Ali", FirstName: "Omar", BirthDate: "2010-05-01", Age: 14, Gender: models.Genders[0]},
		{ID: 2, LastName: "Amina", BirthDate: "1999", Age: 25},
	}
}

func openWorkbook(t *testing.T, path string) ([][]string, bool) {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1)
	assert.Equal(t, export.DefaultSheetName, sheets[0])
	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)
	view, err := f.GetSheetView(sheets[0], 0)
	require.NoError(t, err)
	return rows, view.RightToLeft != nil && *view.RightToLeft
}

func column(t *testing.T, header []string, name string) int {
	t.Helper()
	for i, h := range header {
		if h == name {
			return i
		}
	}
	t.Fatalf("column %q not found in %v", name, header)
	return -1
}

func TestExportServiceWritesLabelledWorkbook(t *testing.T) {
	svc, dir := newTestExportService(t, &stubLister{records: sampleRecords()})

	result, err := svc.Export(context.Background(), ExportRequest{})
	require.NoError(t, err)
	assert.Equal(t, "bd_students.xlsx", result.Filename)
	assert.Equal(t, models.ExportFormatXLSX, result.Format)
	assert.Equal(t, 2, result.Rows)
	assert.NotEmpty(t, result.Token)
	assert.Contains(t, result.URL, "/api/v1/exports/")

	rows, rtl := openWorkbook(t, filepath.Join(dir, "bd_students.xlsx"))
	assert.True(t, rtl)
	require.Len(t, rows, 3)

	header := rows[0]
	require.Len(t, header, len(models.StudentColumns))
	assert.Equal(t, "id", header[0])
	assert.Equal(t, "العمر", header[len(header)-1])

	lastName := column(t, header, "اللقب")
	ageColumn := column(t, header, "العمر")
	assert.Equal(t, "Ali", rows[1][lastName])
	assert.Equal(t, "14", rows[1][ageColumn])
	assert.Equal(t, "Amina", rows[2][lastName])
	assert.Equal(t, "25", rows[2][ageColumn])
}

func TestExportServiceIsRepeatable(t *testing.T) {
	svc, dir := newTestExportService(t, &stubLister{records: sampleRecords()})

	_, err := svc.Export(context.Background(), ExportRequest{})
	require.NoError(t, err)
	first, _ := openWorkbook(t, filepath.Join(dir, "bd_students.xlsx"))

	_, err = svc.Export(context.Background(), ExportRequest{})
	require.NoError(t, err)
	second, _ := openWorkbook(t, filepath.Join(dir, "bd_students.xlsx"))

	assert.Equal(t, first, second)
}

func TestExportServiceFormatsAndNames(t *testing.T) {
	svc, dir := newTestExportService(t, &stubLister{records: sampleRecords()})

	result, err := svc.Export(context.Background(), ExportRequest{Format: "CSV"})
	require.NoError(t, err)
	assert.Equal(t, "bd_students.csv", result.Filename)
	_, err = os.Stat(filepath.Join(dir, "bd_students.csv"))
	require.NoError(t, err)

	result, err = svc.Export(context.Background(), ExportRequest{Filename: "roster.pdf"})
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatPDF, result.Format)

	result, err = svc.Export(context.Background(), ExportRequest{Filename: "snapshot", Direction: "ltr"})
	require.NoError(t, err)
	assert.Equal(t, "snapshot.xlsx", result.Filename)
	_, rtl := openWorkbook(t, filepath.Join(dir, "snapshot.xlsx"))
	assert.False(t, rtl)
}

func TestExportServiceRejectsBadRequests(t *testing.T) {
	lister := &stubLister{records: sampleRecords()}
	svc, _ := newTestExportService(t, lister)

	cases := []ExportRequest{
		{Format: "docx"},
		{Filename: "../escape.xlsx"},
		{Filename: "/tmp/abs.xlsx"},
		{Direction: "diagonal"},
	}
	for _, req := range cases {
		_, err := svc.Export(context.Background(), req)
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), "request %+v", req)
	}
	assert.Zero(t, lister.calls)
}

func TestExportServiceReadFailure(t *testing.T) {
	svc, dir := newTestExportService(t, &stubLister{err: errors.New("no such table: students")})

	_, err := svc.Export(context.Background(), ExportRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPersistence))
	_, statErr := os.Stat(filepath.Join(dir, "bd_students.xlsx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportServiceOpenDownload(t *testing.T) {
	svc, _ := newTestExportService(t, &stubLister{records: sampleRecords()})

	result, err := svc.Export(context.Background(), ExportRequest{Format: models.ExportFormatCSV})
	require.NoError(t, err)

	download, err := svc.Open(result.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "bd_students.csv", download.Filename)
	assert.Equal(t, models.ExportFormatCSV.ContentType(), download.ContentType)

	content, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(content, []byte("Ali")))

	_, err = svc.Open("not-a-token")
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestExportServiceExportTemp(t *testing.T) {
	svc, dir := newTestExportService(t, &stubLister{records: sampleRecords()})

	first, cleanupFirst, err := svc.ExportTemp(context.Background())
	require.NoError(t, err)
	second, cleanupSecond, err := svc.ExportTemp(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	rows, rtl := openWorkbook(t, first)
	assert.True(t, rtl)
	assert.Len(t, rows, 3)

	cleanupFirst()
	cleanupSecond()
	_, err = os.Stat(first)
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp exports must not touch the export directory")
}

func TestExportServiceRenderEmpty(t *testing.T) {
	svc, _ := newTestExportService(t, &stubLister{})

	content, err := svc.Render(nil, RenderOptions{Format: models.ExportFormatXLSX})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(models.StudentColumns))
}
