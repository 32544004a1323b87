package web

import (
	"context"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, in model.NewPerson) (model.Person, error)
	Login(ctx context.Context, email, password string) (model.Person, error)
	ChangePassword(ctx context.Context, personID int64, current, next string) error
	Account(ctx context.Context, personID int64) (model.Person, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, lessonID int64) (model.Lesson, error)
	Leave(ctx context.Context, studentID, lessonID int64) (model.Lesson, error)
	SearchByCRN(ctx context.Context, crn int) ([]model.LessonInfo, error)
	SearchByInstructor(ctx context.Context, name string) ([]model.LessonInfo, error)
	ListEnrolled(ctx context.Context, studentID int64) ([]model.EnrolledLesson, error)
	Roster(ctx context.Context, lessonID int64) ([]model.RosterEntry, error)
}

type LessonService interface {
	CreateLesson(ctx context.Context, in model.NewLesson) (model.Lesson, error)
	ListLessons(ctx context.Context) ([]model.Lesson, error)
	ListLessonInfo(ctx context.Context) ([]model.LessonInfo, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]model.LessonInfo, error)
	UpdateLesson(ctx context.Context, id int64, upd model.LessonUpdate) error
	DeleteLesson(ctx context.Context, id int64) error
}

var (
	_ AuthService       = (*service.AuthService)(nil)
	_ EnrollmentService = (*service.EnrollmentService)(nil)
	_ LessonService     = (*service.LessonService)(nil)
)
