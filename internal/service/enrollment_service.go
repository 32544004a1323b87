package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository"
)

// EnrollmentService moves students in and out of lessons. Every change runs in one
// transaction holding the lesson's row lock, so the capacity check, the enrollment row and
// the enrolled counter always agree.
type EnrollmentService struct {
	enrollments EnrollmentStore
	lessons     LessonStore
	logger      *zap.Logger
}

// NewEnrollmentService creates the enrollment service.
func NewEnrollmentService(enrollments EnrollmentStore, lessons LessonStore, logger *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		lessons:     lessons,
		logger:      logger,
	}
}

// Enroll adds the student to the lesson and returns the lesson with its new count.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, lessonID int64) (model.Lesson, error) {
	var lesson model.Lesson

	err := s.enrollments.WithinTx(ctx, func(tx repository.EnrollmentTx) error {
		l, err := tx.LockLesson(ctx, lessonID)
		if err != nil {
			return fmt.Errorf("lesson %d: %w", lessonID, err)
		}

		ok, err := tx.StudentExists(ctx, studentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("student %d: %w", studentID, model.ErrNotFound)
		}

		enrolled, err := tx.Exists(ctx, studentID, lessonID)
		if err != nil {
			return err
		}
		if enrolled {
			return model.ErrAlreadyEnrolled
		}
		if l.Enrolled >= l.Cap {
			return model.ErrCapacityExceeded
		}

		if err := tx.Insert(ctx, studentID, lessonID); err != nil {
			return err
		}
		l.Enrolled++
		if err := tx.SetEnrolled(ctx, lessonID, l.Enrolled); err != nil {
			return err
		}

		lesson = l
		return nil
	})
	if err != nil {
		return model.Lesson{}, fmt.Errorf("enroll student %d in lesson %d: %w", studentID, lessonID, err)
	}

	s.logger.Info("Student enrolled",
		zap.Int64("student_id", studentID),
		zap.Int64("lesson_id", lessonID),
		zap.Int("crn", lesson.CRN),
		zap.Int("enrolled", lesson.Enrolled),
		zap.Int("cap", lesson.Cap))
	return lesson, nil
}

// Leave removes the student from the lesson and returns the lesson with its new count.
func (s *EnrollmentService) Leave(ctx context.Context, studentID, lessonID int64) (model.Lesson, error) {
	var lesson model.Lesson

	err := s.enrollments.WithinTx(ctx, func(tx repository.EnrollmentTx) error {
		l, err := tx.LockLesson(ctx, lessonID)
		if err != nil {
			return fmt.Errorf("lesson %d: %w", lessonID, err)
		}

		enrolled, err := tx.Exists(ctx, studentID, lessonID)
		if err != nil {
			return err
		}
		if !enrolled {
			return model.ErrNotEnrolled
		}

		if err := tx.Remove(ctx, studentID, lessonID); err != nil {
			return err
		}
		if l.Enrolled > 0 {
			l.Enrolled--
		}
		if err := tx.SetEnrolled(ctx, lessonID, l.Enrolled); err != nil {
			return err
		}

		lesson = l
		return nil
	})
	if err != nil {
		return model.Lesson{}, fmt.Errorf("remove student %d from lesson %d: %w", studentID, lessonID, err)
	}

	s.logger.Info("Student left lesson",
		zap.Int64("student_id", studentID),
		zap.Int64("lesson_id", lessonID),
		zap.Int("crn", lesson.CRN),
		zap.Int("enrolled", lesson.Enrolled))
	return lesson, nil
}

// SearchByCRN returns the lessons with this exact CRN. No match is an empty slice.
func (s *EnrollmentService) SearchByCRN(ctx context.Context, crn int) ([]model.LessonInfo, error) {
	lessons, err := s.lessons.SearchByCRN(ctx, crn)
	if err != nil {
		return nil, fmt.Errorf("search lessons by crn %d: %w", crn, err)
	}
	return nonNil(lessons), nil
}

// SearchByInstructor matches instructor names case-insensitively by substring. A blank
// name matches nothing.
func (s *EnrollmentService) SearchByInstructor(ctx context.Context, name string) ([]model.LessonInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []model.LessonInfo{}, nil
	}

	lessons, err := s.lessons.SearchByInstructor(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search lessons by instructor: %w", err)
	}
	return nonNil(lessons), nil
}

// ListEnrolled returns the student's schedule ordered by CRN.
func (s *EnrollmentService) ListEnrolled(ctx context.Context, studentID int64) ([]model.EnrolledLesson, error) {
	lessons, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list lessons of student %d: %w", studentID, err)
	}
	return nonNil(lessons), nil
}

// Roster returns the students enrolled in a lesson.
func (s *EnrollmentService) Roster(ctx context.Context, lessonID int64) ([]model.RosterEntry, error) {
	if _, err := s.lessons.GetByID(ctx, lessonID); err != nil {
		return nil, fmt.Errorf("get lesson %d: %w", lessonID, err)
	}

	roster, err := s.enrollments.Roster(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("list roster of lesson %d: %w", lessonID, err)
	}
	return nonNil(roster), nil
}

// Reconcile recomputes every enrolled counter from the enrollment rows.
func (s *EnrollmentService) Reconcile(ctx context.Context) (int64, error) {
	n, err := s.enrollments.Reconcile(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile enrolled counters: %w", err)
	}
	return n, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
