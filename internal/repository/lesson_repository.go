package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
)

type LessonRepository struct {
	cached[model.Lesson]
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewLessonRepository creates the lesson repository with a read-through cache of ttl.
func NewLessonRepository(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *LessonRepository {
	return &LessonRepository{
		cached: newCached[model.Lesson](ttl),
		pool:   pool,
		logger: logger,
	}
}

const lessonColumns = `lesson_id, crn, code, cap, enrolled, date, credit, instructor, assistant, location`

const lessonInfoSelect = `
	SELECT l.lesson_id, l.crn, l.code, l.cap, l.enrolled, l.date, l.credit,
	       l.instructor, l.assistant, l.location,
	       COALESCE(p.name, ''), COALESCE(r.room_name, '')
	FROM lessons l
	LEFT JOIN people p ON p.p_id = l.instructor
	LEFT JOIN rooms r ON r.room_id = l.location
`

func lessonFields(l *model.Lesson) []interface{} {
	return []interface{}{
		&l.ID,
		&l.CRN,
		&l.Code,
		&l.Cap,
		&l.Enrolled,
		&l.Date,
		&l.Credit,
		&l.InstructorID,
		&l.AssistantID,
		&l.LocationID,
	}
}

func scanLesson(row interface{ Scan(...interface{}) error }, l *model.Lesson) error {
	return row.Scan(lessonFields(l)...)
}

func scanLessonInfo(row interface{ Scan(...interface{}) error }, li *model.LessonInfo) error {
	dest := append(lessonFields(&li.Lesson), &li.InstructorName, &li.LocationName)
	return row.Scan(dest...)
}

// Create inserts the lesson and sets its ID.
func (r *LessonRepository) Create(ctx context.Context, l *model.Lesson) error {
	query := `
		INSERT INTO lessons (crn, code, cap, enrolled, date, credit, instructor, assistant, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING lesson_id
	`
	err := r.pool.QueryRow(ctx, query,
		l.CRN,
		l.Code,
		l.Cap,
		l.Enrolled,
		l.Date,
		l.Credit,
		l.InstructorID,
		l.AssistantID,
		l.LocationID,
	).Scan(&l.ID)
	if err != nil {
		r.logger.Error("Failed to insert lesson",
			zap.Int("crn", l.CRN),
			zap.Error(err))
		return base.Classify("create lesson", err)
	}
	return nil
}

// GetByID returns the lesson, reading through the cache.
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (model.Lesson, error) {
	return r.cache.Load(id, func() (model.Lesson, error) {
		var l model.Lesson
		if err := scanLesson(r.pool.QueryRow(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE lesson_id = $1`, id), &l); err != nil {
			return model.Lesson{}, base.Classify("get lesson by id", err)
		}
		return l, nil
	})
}

// List returns all lessons ordered by CRN. It bypasses the cache.
func (r *LessonRepository) List(ctx context.Context) ([]model.Lesson, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+lessonColumns+` FROM lessons ORDER BY crn`)
	if err != nil {
		return nil, base.Classify("list lessons", err)
	}
	defer rows.Close()

	lessons := []model.Lesson{}
	for rows.Next() {
		var l model.Lesson
		if err := scanLesson(rows, &l); err != nil {
			return nil, base.Classify("scan lesson", err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify("list lessons", err)
	}
	return lessons, nil
}

// ListInfo returns every lesson with instructor and location names, ordered by CRN.
func (r *LessonRepository) ListInfo(ctx context.Context) ([]model.LessonInfo, error) {
	return r.listInfo(ctx, "list lessons", lessonInfoSelect+` ORDER BY l.crn`)
}

// SearchByCRN returns the lesson with the given CRN, if any.
func (r *LessonRepository) SearchByCRN(ctx context.Context, crn int) ([]model.LessonInfo, error) {
	return r.listInfo(ctx, "search lessons by crn", lessonInfoSelect+` WHERE l.crn = $1`, crn)
}

// SearchByInstructor matches a case-insensitive substring of the instructor's name.
func (r *LessonRepository) SearchByInstructor(ctx context.Context, name string) ([]model.LessonInfo, error) {
	query := lessonInfoSelect + ` WHERE p.name ILIKE '%' || $1 || '%' ORDER BY l.crn`
	return r.listInfo(ctx, "search lessons by instructor", query, escapeLike(name))
}

// ListByInstructor returns the lessons given by one instructor.
func (r *LessonRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]model.LessonInfo, error) {
	return r.listInfo(ctx, "list lessons by instructor", lessonInfoSelect+` WHERE l.instructor = $1 ORDER BY l.crn`, instructorID)
}

func (r *LessonRepository) listInfo(ctx context.Context, op, query string, args ...interface{}) ([]model.LessonInfo, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, base.Classify(op, err)
	}
	defer rows.Close()

	lessons := []model.LessonInfo{}
	for rows.Next() {
		var li model.LessonInfo
		if err := scanLessonInfo(rows, &li); err != nil {
			return nil, base.Classify(op, err)
		}
		lessons = append(lessons, li)
	}
	if err := rows.Err(); err != nil {
		return nil, base.Classify(op, err)
	}
	return lessons, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Update writes the set fields. The enrolled counter is not part of the update; lowering
// cap below it violates lessons_enrolled_within_cap and comes back as a validation error.
func (r *LessonRepository) Update(ctx context.Context, id int64, upd model.LessonUpdate) error {
	u := base.NewUpdate("lessons", "lesson_id")
	base.SetIf(u, "crn", upd.CRN)
	base.SetIf(u, "code", upd.Code)
	base.SetIf(u, "cap", upd.Cap)
	base.SetIf(u, "date", upd.Date)
	base.SetIf(u, "credit", upd.Credit)
	base.SetIf(u, "instructor", upd.InstructorID)
	base.SetIf(u, "assistant", upd.AssistantID)
	base.SetIf(u, "location", upd.LocationID)

	if err := base.ExecUpdate(ctx, r.pool, "update lesson", u, id); err != nil {
		return err
	}
	r.Invalidate(id)
	return nil
}

// Delete removes the lesson and its enrollments.
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	if err := base.ExecDelete(ctx, r.pool, "delete lesson", "lessons", "lesson_id", id); err != nil {
		return err
	}
	r.deleted(id)
	return nil
}
