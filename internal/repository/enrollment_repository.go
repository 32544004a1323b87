package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

// EnrollmentTx is the set of statements an enroll or leave runs inside one transaction.
type EnrollmentTx interface {
	// LockLesson reads the lesson and holds its row lock until the transaction ends.
	LockLesson(ctx context.Context, lessonID int64) (model.Lesson, error)
	StudentExists(ctx context.Context, studentID int64) (bool, error)
	Exists(ctx context.Context, studentID, lessonID int64) (bool, error)
	Insert(ctx context.Context, studentID, lessonID int64) error
	Remove(ctx context.Context, studentID, lessonID int64) error
	SetEnrolled(ctx context.Context, lessonID int64, enrolled int) error
}

type EnrollmentRepository struct {
	pool    *pgxpool.Pool
	tx      *base.Transactor
	lessons *LessonRepository
	logger  *zap.Logger
}

// NewEnrollmentRepository creates the enrollment repository. It invalidates lesson cache
// entries after every committed change.
func NewEnrollmentRepository(pool *pgxpool.Pool, lessons *LessonRepository, logger *zap.Logger) *EnrollmentRepository {
	return &EnrollmentRepository{
		pool:    pool,
		tx:      base.NewTransactor(pool),
		lessons: lessons,
		logger:  logger,
	}
}

// WithinTx runs fn in a transaction. Every lesson locked by fn is dropped from the lesson
// cache once the transaction is over.
func (r *EnrollmentRepository) WithinTx(ctx context.Context, fn func(tx EnrollmentTx) error) error {
	etx := &enrollmentTx{}
	err := r.tx.InTx(ctx, func(tx pgx.Tx) error {
		etx.tx = tx
		return fn(etx)
	})
	if len(etx.locked) > 0 {
		r.lessons.Invalidate(etx.locked...)
	}
	return err
}

type enrollmentTx struct {
	tx     pgx.Tx
	locked []int64
}

func (t *enrollmentTx) LockLesson(ctx context.Context, lessonID int64) (model.Lesson, error) {
	var l model.Lesson
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE lesson_id = $1 FOR UPDATE`
	if err := scanLesson(t.tx.QueryRow(ctx, query, lessonID), &l); err != nil {
		return model.Lesson{}, base.Classify("lock lesson", err)
	}
	t.locked = append(t.locked, lessonID)
	return l, nil
}

func (t *enrollmentTx) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	var ok bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE stu_id = $1)`, studentID).Scan(&ok)
	if err != nil {
		return false, base.Classify("check student", err)
	}
	return ok, nil
}

func (t *enrollmentTx) Exists(ctx context.Context, studentID, lessonID int64) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM enrollments WHERE student = $1 AND lesson = $2)`
	if err := t.tx.QueryRow(ctx, query, studentID, lessonID).Scan(&ok); err != nil {
		return false, base.Classify("check enrollment", err)
	}
	return ok, nil
}

func (t *enrollmentTx) Insert(ctx context.Context, studentID, lessonID int64) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO enrollments (student, lesson) VALUES ($1, $2)`, studentID, lessonID)
	if err = base.Classify("insert enrollment", err); errors.Is(err, model.ErrConflict) {
		return fmt.Errorf("insert enrollment: %w", model.ErrAlreadyEnrolled)
	}
	return err
}

func (t *enrollmentTx) Remove(ctx context.Context, studentID, lessonID int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM enrollments WHERE student = $1 AND lesson = $2`, studentID, lessonID)
	if err != nil {
		return base.Classify("remove enrollment", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("remove enrollment: %w", model.ErrNotEnrolled)
	}
	return nil
}

func (t *enrollmentTx) SetEnrolled(ctx context.Context, lessonID int64, enrolled int) error {
	u := base.NewUpdate("lessons", "lesson_id").Set("enrolled", enrolled)
	return base.ExecUpdate(ctx, t.tx, "set enrolled", u, lessonID)
}

// ListByStudent returns the student's lessons ordered by CRN.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]model.EnrolledLesson, error) {
	query := `
		SELECT l.lesson_id, l.crn, l.code, l.cap, l.enrolled, l.date, l.credit,
		       l.instructor, l.assistant, l.location,
		       COALESCE(p.name, ''), COALESCE(r.room_name, ''), e.created_at
		FROM enrollments e
		JOIN lessons l ON l.lesson_id = e.lesson
		LEFT JOIN people p ON p.p_id = l.instructor
		LEFT JOIN rooms r ON r.room_id = l.location
		WHERE e.student = $1
		ORDER BY l.crn
	`
	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, base.Classify("list enrollments by student", err)
	}
	defer rows.Close()

	lessons := []model.EnrolledLesson{}
	for rows.Next() {
		var el model.EnrolledLesson
		dest := append(lessonFields(&el.Lesson), &el.InstructorName, &el.LocationName, &el.EnrolledAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, base.Classify("scan enrolled lesson", err)
		}
		lessons = append(lessons, el)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list enrollments by student", err)
	}
	return lessons, nil
}

// Roster returns the students enrolled in a lesson ordered by name.
func (r *EnrollmentRepository) Roster(ctx context.Context, lessonID int64) ([]model.RosterEntry, error) {
	query := `
		SELECT s.stu_id, p.name, p.email, s.number, e.created_at
		FROM enrollments e
		JOIN students s ON s.stu_id = e.student
		JOIN people p ON p.p_id = s.stu_id
		WHERE e.lesson = $1
		ORDER BY p.name, s.stu_id
	`
	rows, err := r.pool.Query(ctx, query, lessonID)
	if err != nil {
		return nil, base.Classify("list roster", err)
	}
	defer rows.Close()

	roster := []model.RosterEntry{}
	for rows.Next() {
		var e model.RosterEntry
		if err := rows.Scan(&e.StudentID, &e.Name, &e.Email, &e.Number, &e.EnrolledAt); err != nil {
			return nil, base.Classify("scan roster entry", err)
		}
		roster = append(roster, e)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list roster", err)
	}
	return roster, nil
}

// Reconcile recounts every lesson's enrolled column from the enrollments table, clamped
// to [0, cap], and returns how many lessons changed.
func (r *EnrollmentRepository) Reconcile(ctx context.Context) (int64, error) {
	query := `
		UPDATE lessons l
		SET enrolled = LEAST(c.n, l.cap)
		FROM (
			SELECT ls.lesson_id, COUNT(e.student) AS n
			FROM lessons ls
			LEFT JOIN enrollments e ON e.lesson = ls.lesson_id
			GROUP BY ls.lesson_id
		) c
		WHERE c.lesson_id = l.lesson_id AND l.enrolled <> LEAST(c.n, l.cap)
	`
	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, base.Classify("reconcile enrolled counters", err)
	}

	n := tag.RowsAffected()
	if n > 0 {
		r.lessons.InvalidateAll()
		r.logger.Warn("Enrolled counters drifted from enrollments",
			zap.Int64("lessons_fixed", n))
	}
	return n, nil
}
