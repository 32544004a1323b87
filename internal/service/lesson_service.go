package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository/base"
	"github.com/betterthansis/unisis/internal/validation"
)

// LessonService manages lesson offerings. The enrolled counter is only set at creation;
// afterwards it moves through EnrollmentService.
type LessonService struct {
	lessons LessonStore
	crud    crud[model.Lesson, model.LessonUpdate]
	logger  *zap.Logger
}

// NewLessonService creates the lesson service.
func NewLessonService(lessons LessonStore, validate *validation.Validator, logger *zap.Logger) *LessonService {
	return &LessonService{
		lessons: lessons,
		crud:    newCrud[model.Lesson, model.LessonUpdate]("lesson", lessons, validate, logger),
		logger:  logger,
	}
}

// CreateLesson stores a lesson with no students enrolled.
func (s *LessonService) CreateLesson(ctx context.Context, in model.NewLesson) (model.Lesson, error) {
	l := model.Lesson{
		CRN:          in.CRN,
		Code:         in.Code,
		Cap:          in.Cap,
		Enrolled:     in.Enrolled,
		Date:         in.Date,
		Credit:       in.Credit,
		InstructorID: base.NullID(in.InstructorID),
		AssistantID:  base.NullID(in.AssistantID),
		LocationID:   base.NullID(in.LocationID),
	}
	if err := s.crud.create(ctx, in, &l); err != nil {
		return model.Lesson{}, crnTaken(err)
	}

	s.crud.created(l.ID, zap.Int("crn", l.CRN), zap.Int("cap", l.Cap))
	return l, nil
}

func crnTaken(err error) error {
	if errors.Is(err, model.ErrConflict) {
		return model.FieldValidationError("crn", "is already used by another lesson")
	}
	return err
}

func (s *LessonService) GetLesson(ctx context.Context, id int64) (model.Lesson, error) {
	return s.crud.get(ctx, id)
}

func (s *LessonService) ListLessons(ctx context.Context) ([]model.Lesson, error) {
	return s.crud.list(ctx)
}

// ListLessonInfo returns every lesson with its instructor and location names.
func (s *LessonService) ListLessonInfo(ctx context.Context) ([]model.LessonInfo, error) {
	lessons, err := s.lessons.ListInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// ListByInstructor returns the lessons an instructor gives.
func (s *LessonService) ListByInstructor(ctx context.Context, instructorID int64) ([]model.LessonInfo, error) {
	lessons, err := s.lessons.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("list lessons of instructor %d: %w", instructorID, err)
	}
	return lessons, nil
}

// UpdateLesson refuses to lower cap below the current enrolled count. The store enforces
// the same bound, which covers an enrollment landing between the check and the write.
func (s *LessonService) UpdateLesson(ctx context.Context, id int64, upd model.LessonUpdate) error {
	if upd.Cap != nil {
		l, err := s.lessons.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get lesson %d: %w", id, err)
		}
		if *upd.Cap < l.Enrolled {
			return model.FieldValidationError("cap",
				fmt.Sprintf("cannot be lower than the %d students already enrolled", l.Enrolled))
		}
	}
	return crnTaken(s.crud.update(ctx, id, upd))
}

func (s *LessonService) DeleteLesson(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}
