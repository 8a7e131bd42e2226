package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/literacy-registrar/internal/models"
	appErrors "github.com/noah-isme/literacy-registrar/pkg/errors"
)

type mockStudentRepo struct {
	students  []models.StudentRecord
	insertErr error
	countErr  error
	listErr   error
}

func (m *mockStudentRepo) Insert(ctx context.Context, student *models.StudentRecord) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	student.ID = int64(len(m.students) + 1)
	m.students = append(m.students, *student)
	return student.ID, nil
}

func (m *mockStudentRepo) ListAll(ctx context.Context) ([]models.StudentRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.StudentRecord(nil), m.students...), nil
}

func (m *mockStudentRepo) Count(ctx context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.students), nil
}

type mockRegistrationRecorder struct {
	outcomes []string
}

func (m *mockRegistrationRecorder) RecordRegistration(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 9, 30, 0, 0, time.UTC) }
}

func TestStudentServiceRegisterComputesAge(t *testing.T) {
	repo := &mockStudentRepo{}
	recorder := &mockRegistrationRecorder{}
	svc := NewStudentService(repo, nil, nil).WithClock(fixedClock(2024, time.May, 2)).WithMetrics(recorder)

	result, err := svc.Register(context.Background(), RegisterStudentRequest{
		LastName:  "Ali",
		BirthDate: "2010-05-01",
		District:  models.Districts[0],
		Gender:    models.Genders[0],
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Student.ID)
	assert.Equal(t, 14, result.Student.Age)
	assert.Equal(t, 1, result.RegisteredCount)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []string{OutcomeSuccess}, recorder.outcomes)
}

func TestStudentServiceRegisterYearOnly(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, nil).WithClock(fixedClock(2024, time.January, 1))

	result, err := svc.Register(context.Background(), RegisterStudentRequest{LastName: "Amina", BirthDate: " 1999 "})
	require.NoError(t, err)
	assert.Equal(t, 25, result.Student.Age)
	assert.Equal(t, "1999", result.Student.BirthDate)
}

func TestStudentServiceRegisterBadBirthDateWarns(t *testing.T) {
	repo := &mockStudentRepo{}
	recorder := &mockRegistrationRecorder{}
	svc := NewStudentService(repo, nil, nil).WithClock(fixedClock(2024, time.May, 2)).WithMetrics(recorder)

	result, err := svc.Register(context.Background(), RegisterStudentRequest{LastName: "Karim", BirthDate: "bad-input"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Student.Age)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "birth_date")
	assert.Len(t, repo.students, 1)
	assert.Equal(t, []string{OutcomeWarning}, recorder.outcomes)
}

func TestStudentServiceRegisterFutureBirthDate(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil).WithClock(fixedClock(2024, time.May, 2))

	result, err := svc.Register(context.Background(), RegisterStudentRequest{BirthDate: "2030-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Student.Age)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "future")
}

func TestStudentServiceRegisterRejectsUnknownOption(t *testing.T) {
	repo := &mockStudentRepo{}
	recorder := &mockRegistrationRecorder{}
	svc := NewStudentService(repo, nil, nil).WithMetrics(recorder)

	_, err := svc.Register(context.Background(), RegisterStudentRequest{LastName: "Ali", Level: "fourth"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.students)
	assert.Equal(t, []string{OutcomeFailure}, recorder.outcomes)
}

func TestStudentServiceRegisterPersistenceError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	svc := NewStudentService(&mockStudentRepo{insertErr: errors.New("database is locked")}, nil, zap.New(core))

	_, err := svc.Register(context.Background(), RegisterStudentRequest{LastName: "Ali"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPersistence))
	assert.Equal(t, "database is locked", appErrors.Detail(appErrors.FromError(err)))

	entries := logs.FilterMessage("failed to save student").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "database is locked", entries[0].ContextMap()["error"])
}

func TestStudentServiceRegisterCountFailureStillSucceeds(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{countErr: errors.New("busy")}, nil, nil)

	result, err := svc.Register(context.Background(), RegisterStudentRequest{LastName: "Ali", BirthDate: "2000"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Student.ID)
	assert.Zero(t, result.RegisteredCount)
}

func TestStudentServiceCount(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, nil)
	for _, name := range []string{"Ali", "Amina"} {
		_, err := svc.Register(context.Background(), RegisterStudentRequest{LastName: name, BirthDate: "2000"})
		require.NoError(t, err)
	}

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, repo.students, 2)
	assert.Equal(t, "Amina", repo.students[1].LastName)

	repo.countErr = errors.New("closed")
	_, err = svc.Count(context.Background())
	assert.True(t, appErrors.Is(err, appErrors.ErrPersistence))
}

func TestStudentServiceOptions(t *testing.T) {
	opts := NewStudentService(&mockStudentRepo{}, nil, nil).Options()
	assert.Len(t, opts.Districts, 21)
	assert.Equal(t, models.Levels, opts.Levels)
}
