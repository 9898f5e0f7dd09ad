package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-admin/internal/model"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// SchoolRepository is the PostgreSQL SchoolStore.
type SchoolRepository struct {
	pool *pgxpool.Pool
}

func NewSchoolRepository(pool *pgxpool.Pool) *SchoolRepository {
	return &SchoolRepository{pool: pool}
}

const classroomColumns = `classroom_id, class_name, academic_year, homeroom_teacher`

const studentColumns = `s.student_id, s.prefix_id, s.first_name, s.last_name, s.grade_level_id, s.gender_id, s.birth_date`

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(w.args))))
}

func (w *where) like(column string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	w.add(column+` ILIKE ? ESCAPE '\'`, "%"+escapeLike(value)+"%")
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause.
func (w *where) page(p model.PageRequest) string {
	w.args = append(w.args, p.Limit, offset(p))
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

func escapeLike(v string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(v)
}

func (r *SchoolRepository) ListClassrooms(ctx context.Context, filter model.ClassroomFilter, page model.PageRequest) ([]model.Classroom, int, error) {
	var w where
	w.like("classroom_id", filter.ClassroomID)
	w.like("class_name", filter.ClassName)
	w.like("homeroom_teacher", filter.HomeroomTeacher)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM classrooms`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count classrooms: %w", err)
	}

	query := `SELECT ` + classroomColumns + ` FROM classrooms` + w.sql() + ` ORDER BY classroom_id`
	query += w.page(page)

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list classrooms: %w", err)
	}
	defer rows.Close()

	out := make([]model.Classroom, 0, page.Limit)
	for rows.Next() {
		var c model.Classroom
		if err := rows.Scan(&c.ClassroomID, &c.ClassName, &c.AcademicYear, &c.HomeroomTeacher); err != nil {
			return nil, 0, fmt.Errorf("scan classroom: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *SchoolRepository) GetClassroom(ctx context.Context, classroomID string) (model.Classroom, error) {
	var c model.Classroom
	err := r.pool.QueryRow(ctx,
		`SELECT `+classroomColumns+` FROM classrooms WHERE classroom_id = $1`, classroomID).
		Scan(&c.ClassroomID, &c.ClassName, &c.AcademicYear, &c.HomeroomTeacher)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Classroom{}, fmt.Errorf("%w: %s", model.ErrClassroomNotFound, classroomID)
	}
	if err != nil {
		return model.Classroom{}, fmt.Errorf("get classroom: %w", err)
	}
	return c, nil
}

func (r *SchoolRepository) CreateClassroom(ctx context.Context, c model.Classroom) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO classrooms (classroom_id, class_name, academic_year, homeroom_teacher, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ClassroomID, c.ClassName, c.AcademicYear, c.HomeroomTeacher, time.Now().UTC())
	if isPgError(err, pgUniqueViolation) {
		return fmt.Errorf("%w: %s", model.ErrClassroomExists, c.ClassroomID)
	}
	if err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}

func (r *SchoolRepository) UpdateClassroom(ctx context.Context, c model.Classroom) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classrooms SET class_name = $2, academic_year = $3, homeroom_teacher = $4
		 WHERE classroom_id = $1`,
		c.ClassroomID, c.ClassName, c.AcademicYear, c.HomeroomTeacher)
	if err != nil {
		return fmt.Errorf("update classroom: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrClassroomNotFound, c.ClassroomID)
	}
	return nil
}

func (r *SchoolRepository) DeleteClassroom(ctx context.Context, classroomID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM classrooms WHERE classroom_id = $1`, classroomID)
	if isPgError(err, pgForeignKeyViolation) {
		return fmt.Errorf("%w: %s", model.ErrClassroomNotEmpty, classroomID)
	}
	if err != nil {
		return fmt.Errorf("delete classroom: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrClassroomNotFound, classroomID)
	}
	return nil
}

func (r *SchoolRepository) ListStudents(ctx context.Context, filter model.StudentFilter, page model.PageRequest) ([]model.Student, int, error) {
	var w where
	w.like("s.student_id", filter.StudentID)
	w.like("(s.first_name || ' ' || s.last_name)", filter.Fullname)
	if filter.GradeLevel > 0 {
		w.add("s.grade_level_id = ?", filter.GradeLevel)
	}

	return r.pageStudents(ctx, `FROM students s`+w.sql(), &w, page)
}

func (r *SchoolRepository) GetStudent(ctx context.Context, studentID string) (model.Student, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students s WHERE s.student_id = $1`, studentID)
	s, err := scanStudent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Student{}, fmt.Errorf("%w: %s", model.ErrStudentNotFound, studentID)
	}
	if err != nil {
		return model.Student{}, fmt.Errorf("get student: %w", err)
	}
	return s, nil
}

func (r *SchoolRepository) CreateStudent(ctx context.Context, s model.Student) error {
	birth, err := time.Parse(model.BirthDateLayout, s.BirthDate)
	if err != nil {
		return fmt.Errorf("%w: birthDate must be YYYY-MM-DD", model.ErrInvalidInput)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO students (student_id, prefix_id, first_name, last_name, grade_level_id, gender_id, birth_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.StudentID, s.PrefixID, s.FirstName, s.LastName, s.GradeLevelID, s.GenderID, birth, time.Now().UTC())
	if isPgError(err, pgUniqueViolation) {
		return fmt.Errorf("%w: %s", model.ErrStudentExists, s.StudentID)
	}
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (r *SchoolRepository) UpdateStudent(ctx context.Context, s model.Student) error {
	birth, err := time.Parse(model.BirthDateLayout, s.BirthDate)
	if err != nil {
		return fmt.Errorf("%w: birthDate must be YYYY-MM-DD", model.ErrInvalidInput)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET prefix_id = $2, first_name = $3, last_name = $4,
		        grade_level_id = $5, gender_id = $6, birth_date = $7
		 WHERE student_id = $1`,
		s.StudentID, s.PrefixID, s.FirstName, s.LastName, s.GradeLevelID, s.GenderID, birth)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrStudentNotFound, s.StudentID)
	}
	return nil
}

// DeleteStudent relies on ON DELETE CASCADE to clear roster rows.
func (r *SchoolRepository) DeleteStudent(ctx context.Context, studentID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE student_id = $1`, studentID)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrStudentNotFound, studentID)
	}
	return nil
}

func (r *SchoolRepository) ListStudentsByGender(ctx context.Context, genderID int) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students s WHERE s.gender_id = $1 ORDER BY s.student_id`, genderID)
	if err != nil {
		return nil, fmt.Errorf("list students by gender: %w", err)
	}
	return collectStudents(rows)
}

func (r *SchoolRepository) ListMembers(ctx context.Context, classroomID string, page model.PageRequest) ([]model.Student, int, error) {
	if err := r.requireClassroom(ctx, classroomID); err != nil {
		return nil, 0, err
	}

	var w where
	w.add("EXISTS (SELECT 1 FROM classroom_students cs WHERE cs.student_id = s.student_id AND cs.classroom_id = ?)", classroomID)
	return r.pageStudents(ctx, `FROM students s`+w.sql(), &w, page)
}

func (r *SchoolRepository) ListNonMembers(ctx context.Context, classroomID string, page model.PageRequest) ([]model.Student, int, error) {
	if err := r.requireClassroom(ctx, classroomID); err != nil {
		return nil, 0, err
	}

	var w where
	w.add("NOT EXISTS (SELECT 1 FROM classroom_students cs WHERE cs.student_id = s.student_id AND cs.classroom_id = ?)", classroomID)
	return r.pageStudents(ctx, `FROM students s`+w.sql(), &w, page)
}

func (r *SchoolRepository) AddMember(ctx context.Context, studentID string, classroomID string) error {
	if err := r.requireClassroom(ctx, classroomID); err != nil {
		return err
	}
	if _, err := r.GetStudent(ctx, studentID); err != nil {
		return err
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO classroom_students (classroom_id, student_id, added_at) VALUES ($1, $2, $3)`,
		classroomID, studentID, time.Now().UTC())
	if isPgError(err, pgUniqueViolation) {
		return fmt.Errorf("%w: %s in %s", model.ErrAlreadyMember, studentID, classroomID)
	}
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (r *SchoolRepository) RemoveMember(ctx context.Context, studentID string, classroomID string) error {
	if err := r.requireClassroom(ctx, classroomID); err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM classroom_students WHERE classroom_id = $1 AND student_id = $2`, classroomID, studentID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s in %s", model.ErrNotMember, studentID, classroomID)
	}
	return nil
}

func (r *SchoolRepository) requireClassroom(ctx context.Context, classroomID string) error {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM classrooms WHERE classroom_id = $1)`, classroomID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check classroom: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", model.ErrClassroomNotFound, classroomID)
	}
	return nil
}

// pageStudents counts and fetches one page of students for a FROM/WHERE
// fragment built with w.
func (r *SchoolRepository) pageStudents(ctx context.Context, from string, w *where, page model.PageRequest) ([]model.Student, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) `+from, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	query := `SELECT ` + studentColumns + ` ` + from + ` ORDER BY s.student_id` + w.page(page)
	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	students, err := collectStudents(rows)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func collectStudents(rows pgx.Rows) ([]model.Student, error) {
	defer rows.Close()

	out := make([]model.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanStudent(row pgx.Row) (model.Student, error) {
	var (
		s     model.Student
		birth time.Time
	)
	if err := row.Scan(&s.StudentID, &s.PrefixID, &s.FirstName, &s.LastName, &s.GradeLevelID, &s.GenderID, &birth); err != nil {
		return model.Student{}, err
	}
	s.BirthDate = birth.Format(model.BirthDateLayout)
	return s, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
