package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/literacy-registrar/internal/models"
)

const studentDataColumns = `coordinator, teacher_name, teacher_first_name, district, municipality, school, chapter,
        group_number, level, last_name, first_name, birth_date, birth_place, contract_number, father_name,
        mother_last_name, mother_first_name, gender, age`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// EnsureSchema creates the students table when it does not exist yet.
func (r *StudentRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, studentSchema(r.db.DriverName())); err != nil {
		return fmt.Errorf("ensure student schema: %w", err)
	}
	return nil
}

// Insert stores one record and writes the assigned id back into it.
func (r *StudentRepository) Insert(ctx context.Context, student *models.StudentRecord) (int64, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", 19), ", ")
	query := r.db.Rebind(fmt.Sprintf("INSERT INTO students (%s) VALUES (%s) RETURNING id", studentDataColumns, placeholders))

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		student.Coordinator, student.TeacherName, student.TeacherFirstName, student.District,
		student.Municipality, student.School, student.Chapter, student.GroupNumber, student.Level,
		student.LastName, student.FirstName, student.BirthDate, student.BirthPlace,
		student.ContractNumber, student.FatherName, student.MotherLastName, student.MotherFirstName,
		student.Gender, student.Age,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert student: %w", err)
	}
	student.ID = id
	return id, nil
}

// ListAll returns every stored record in insertion order.
func (r *StudentRepository) ListAll(ctx context.Context) ([]models.StudentRecord, error) {
	const query = `SELECT id, COALESCE(coordinator, '') AS coordinator, COALESCE(teacher_name, '') AS teacher_name,
        COALESCE(teacher_first_name, '') AS teacher_first_name, COALESCE(district, '') AS district,
        COALESCE(municipality, '') AS municipality, COALESCE(school, '') AS school, COALESCE(chapter, '') AS chapter,
        COALESCE(group_number, '') AS group_number, COALESCE(level, '') AS level, COALESCE(last_name, '') AS last_name,
        COALESCE(first_name, '') AS first_name, COALESCE(birth_date, '') AS birth_date,
        COALESCE(birth_place, '') AS birth_place, COALESCE(contract_number, '') AS contract_number,
        COALESCE(father_name, '') AS father_name, COALESCE(mother_last_name, '') AS mother_last_name,
        COALESCE(mother_first_name, '') AS mother_first_name, COALESCE(gender, '') AS gender, COALESCE(age, 0) AS age
        FROM students ORDER BY id`

	students := []models.StudentRecord{}
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Count returns the number of stored records.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students"); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

func studentSchema(driver string) string {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "postgres" {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS students (
        %s,
        coordinator TEXT,
        teacher_name TEXT,
        teacher_first_name TEXT,
        district TEXT,
        municipality TEXT,
        school TEXT,
        chapter TEXT,
        group_number TEXT,
        level TEXT,
        last_name TEXT,
        first_name TEXT,
        birth_date TEXT,
        birth_place TEXT,
        contract_number TEXT,
        father_name TEXT,
        mother_last_name TEXT,
        mother_first_name TEXT,
        gender TEXT,
        age INTEGER
    )`, idColumn)
}
