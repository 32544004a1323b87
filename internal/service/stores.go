package service

import (
	"context"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository"
)

// crudStore is the shape every entity repository has.
type crudStore[T, U any] interface {
	Create(ctx context.Context, v *T) error
	GetByID(ctx context.Context, id int64) (T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id int64, upd U) error
	Delete(ctx context.Context, id int64) error
}

type PersonStore interface {
	crudStore[model.Person, model.PersonUpdate]
	GetByEmail(ctx context.Context, email string) (model.Person, error)
	ListByType(ctx context.Context, t model.PersonType) ([]model.Person, error)
	SetPassword(ctx context.Context, id int64, hash string) error
}

type InstructorStore interface {
	crudStore[model.Instructor, model.InstructorUpdate]
	CreateWithPerson(ctx context.Context, p *model.Person, ins *model.Instructor) error
}

type StudentStore interface {
	crudStore[model.Student, model.StudentUpdate]
	CreateWithPerson(ctx context.Context, p *model.Person, s *model.Student) error
}

type AssistantStore interface {
	crudStore[model.Assistant, model.AssistantUpdate]
	GetByPerson(ctx context.Context, personID int64) (model.Assistant, error)
}

type ClassroomStore interface {
	crudStore[model.Classroom, model.ClassroomUpdate]
	CreateWithRoom(ctx context.Context, rm *model.Room, c *model.Classroom) error
}

type LessonStore interface {
	crudStore[model.Lesson, model.LessonUpdate]
	ListInfo(ctx context.Context) ([]model.LessonInfo, error)
	SearchByCRN(ctx context.Context, crn int) ([]model.LessonInfo, error)
	SearchByInstructor(ctx context.Context, name string) ([]model.LessonInfo, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]model.LessonInfo, error)
}

type EnrollmentStore interface {
	WithinTx(ctx context.Context, fn func(tx repository.EnrollmentTx) error) error
	ListByStudent(ctx context.Context, studentID int64) ([]model.EnrolledLesson, error)
	Roster(ctx context.Context, lessonID int64) ([]model.RosterEntry, error)
	Reconcile(ctx context.Context) (int64, error)
}

var (
	_ PersonStore                                         = (*repository.PersonRepository)(nil)
	_ InstructorStore                                     = (*repository.InstructorRepository)(nil)
	_ StudentStore                                        = (*repository.StudentRepository)(nil)
	_ AssistantStore                                      = (*repository.AssistantRepository)(nil)
	_ ClassroomStore                                      = (*repository.ClassroomRepository)(nil)
	_ LessonStore                                         = (*repository.LessonRepository)(nil)
	_ EnrollmentStore                                     = (*repository.EnrollmentRepository)(nil)
	_ crudStore[model.Building, model.BuildingUpdate]     = (*repository.BuildingRepository)(nil)
	_ crudStore[model.Room, model.RoomUpdate]             = (*repository.RoomRepository)(nil)
	_ crudStore[model.Lab, model.LabUpdate]               = (*repository.LabRepository)(nil)
	_ crudStore[model.Faculty, model.FacultyUpdate]       = (*repository.FacultyRepository)(nil)
	_ crudStore[model.Department, model.DepartmentUpdate] = (*repository.DepartmentRepository)(nil)
	_ crudStore[model.Club, model.ClubUpdate]             = (*repository.ClubRepository)(nil)
	_ crudStore[model.Paper, model.PaperUpdate]           = (*repository.PaperRepository)(nil)
)
