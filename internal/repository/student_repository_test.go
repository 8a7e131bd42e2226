package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/literacy-registrar/internal/models"
	"github.com/noah-isme/literacy-registrar/pkg/database"
)

func newStudentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func newStudentStore(t *testing.T) *StudentRepository {
	t.Helper()
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "eleves.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewStudentRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func anyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

func TestStudentRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students .* RETURNING id").
		WithArgs(anyArgs(19)...).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	student := &models.StudentRecord{LastName: "Ali", BirthDate: "2010-05-01", Age: 14}
	id, err := repo.Insert(context.Background(), student)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, int64(42), student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryInsertError(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WithArgs(anyArgs(19)...).
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.Insert(context.Background(), &models.StudentRecord{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert student")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCount(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryEnsureSchemaPostgres(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(sqlx.NewDb(db.DB, "postgres"))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS students \\(\\s+id BIGSERIAL PRIMARY KEY").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryRoundTrip(t *testing.T) {
	repo := newStudentStore(t)
	ctx := context.Background()

	// Schema creation is idempotent.
	require.NoError(t, repo.EnsureSchema(ctx))

	names := []string{"Ali", "Amina", "Yacine", "Sara", "Karim"}
	var lastID int64
	for i, name := range names {
		record := &models.StudentRecord{
			LastName:  name,
			FirstName: "F" + name,
			District:  models.Districts[i],
			Gender:    models.Genders[i%2],
			BirthDate: "2010-05-01",
			Age:       14 + i,
		}
		id, err := repo.Insert(ctx, record)
		require.NoError(t, err)
		assert.Greater(t, id, lastID)
		lastID = id
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(names), total)

	students, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, students, len(names))
	for i, student := range students {
		assert.Equal(t, names[i], student.LastName)
		assert.Equal(t, "F"+names[i], student.FirstName)
		assert.Equal(t, models.Districts[i], student.District)
		assert.Equal(t, 14+i, student.Age)
		if i > 0 {
			assert.Greater(t, student.ID, students[i-1].ID)
		}
	}
}

func TestStudentRepositoryListAllReadsLegacyNulls(t *testing.T) {
	repo := newStudentStore(t)
	ctx := context.Background()

	_, err := repo.db.ExecContext(ctx, "INSERT INTO students (last_name) VALUES ('Legacy')")
	require.NoError(t, err)

	students, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Legacy", students[0].LastName)
	assert.Equal(t, "", students[0].Coordinator)
	assert.Equal(t, 0, students[0].Age)
}

func TestStudentRepositoryListAllEmpty(t *testing.T) {
	repo := newStudentStore(t)

	students, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}
