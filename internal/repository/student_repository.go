package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type StudentRepository struct {
	cached[model.Student]
	pool   *pgxpool.Pool
	tx     *base.Transactor
	logger *zap.Logger
}

// NewStudentRepository creates the student repository with a read-through cache of ttl.
func NewStudentRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *StudentRepository {
	return &StudentRepository{
		cached: newCached[model.Student](ttl),
		pool:   pool,
		tx:     base.NewTransactor(pool),
		logger: logger,
	}
}

const studentSelect = `
	SELECT s.stu_id, p.name, p.email, s.number, s.earned_credits,
	       s.department, s.faculty, s.club, s.lab
	FROM students s
	JOIN people p ON p.p_id = s.stu_id
`

func scanStudent(row interface{ Scan(...interface{}) error }, s *model.Student) error {
	return row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Number,
		&s.EarnedCredits,
		&s.DepartmentID,
		&s.FacultyID,
		&s.ClubID,
		&s.LabID,
	)
}

// Create adds the student profile of an existing person. s.ID must be the person id.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	return insertStudent(ctx, r.pool, s)
}

// CreateWithPerson inserts the person and the student profile in one transaction.
func (r *StudentRepository) CreateWithPerson(ctx context.Context, p *model.Person, s *model.Student) error {
	err := r.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := insertPerson(ctx, tx, p); err != nil {
			return err
		}
		s.ID = p.ID
		return insertStudent(ctx, tx, s)
	})
	if err != nil {
		r.logger.Error("Failed to create student",
			zap.String("email", p.Email),
			zap.Int("number", s.Number),
			zap.Error(err))
		return fmt.Errorf("create student with person: %w", err)
	}
	s.Name = p.Name
	s.Email = p.Email
	return nil
}

func insertStudent(ctx context.Context, db base.DBTX, s *model.Student) error {
	query := `
		INSERT INTO students (stu_id, number, earned_credits, department, faculty, club, lab)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := db.Exec(ctx, query,
		s.ID,
		s.Number,
		s.EarnedCredits,
		s.DepartmentID,
		s.FacultyID,
		s.ClubID,
		s.LabID,
	)
	return base.Classify("create student", err)
}

// GetByID returns the student with this ID, reading through the cache.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (model.Student, error) {
	return r.cache.Load(id, func() (model.Student, error) {
		var s model.Student
		if err := scanStudent(r.pool.QueryRow(ctx, studentSelect+` WHERE s.stu_id = $1`, id), &s); err != nil {
			return model.Student{}, base.Classify("get student by id", err)
		}
		return s, nil
	})
}

// List returns all students.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx, studentSelect+` ORDER BY s.number, s.stu_id`)
	if err != nil {
		return nil, base.Classify("list students", err)
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, base.Classify("scan student", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list students", err)
	}
	return students, nil
}

// Update writes the set fields of upd and drops the cached student.
func (r *StudentRepository) Update(ctx context.Context, id int64, upd model.StudentUpdate) error {
	u := base.NewUpdate("students", "stu_id")
	base.SetIf(u, "number", upd.Number)
	base.SetIf(u, "earned_credits", upd.EarnedCredits)
	base.SetIf(u, "department", upd.DepartmentID)
	base.SetIf(u, "faculty", upd.FacultyID)
	base.SetIf(u, "club", upd.ClubID)
	base.SetIf(u, "lab", upd.LabID)

	if err := base.ExecUpdate(ctx, r.pool, "update student", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the student profile. The student's enrollments are dropped in the same
// transaction and the enrolled counters of those lessons go down with them.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	err := r.tx.InTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE lessons SET enrolled = GREATEST(enrolled - 1, 0)
			WHERE lesson_id IN (SELECT lesson FROM enrollments WHERE student = $1)
		`
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return base.Classify("release student seats", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM enrollments WHERE student = $1`, id); err != nil {
			return base.Classify("delete student enrollments", err)
		}
		return base.ExecDelete(ctx, tx, "delete student", "students", "stu_id", id)
	})
	if err != nil {
		return err
	}
	r.deleted(id)
	return nil
}
