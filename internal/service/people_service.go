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

// PeopleService manages persons and their student, instructor and assistant profiles.
type PeopleService struct {
	people      PersonStore
	persons     crud[model.Person, model.PersonUpdate]
	instructors crud[model.Instructor, model.InstructorUpdate]
	students    crud[model.Student, model.StudentUpdate]
	assistants  crud[model.Assistant, model.AssistantUpdate]

	instructorStore InstructorStore
	studentStore    StudentStore
	assistantStore  AssistantStore

	validate *validation.Validator
	logger   *zap.Logger
}

// NewPeopleService creates the service for people and their profiles.
func NewPeopleService(
	people PersonStore,
	instructors InstructorStore,
	students StudentStore,
	assistants AssistantStore,
	validate *validation.Validator,
	logger *zap.Logger,
) *PeopleService {
	return &PeopleService{
		people:          people,
		persons:         newCrud[model.Person, model.PersonUpdate]("person", people, validate, logger),
		instructors:     newCrud[model.Instructor, model.InstructorUpdate]("instructor", instructors, validate, logger),
		students:        newCrud[model.Student, model.StudentUpdate]("student", students, validate, logger),
		assistants:      newCrud[model.Assistant, model.AssistantUpdate]("assistant", assistants, validate, logger),
		instructorStore: instructors,
		studentStore:    students,
		assistantStore:  assistants,
		validate:        validate,
		logger:          logger,
	}
}

// CreatePerson stores a person of any type, including admins.
func (s *PeopleService) CreatePerson(ctx context.Context, in model.NewPerson) (model.Person, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.Person{}, err
	}
	p, err := s.newPerson(in.Name, in.Email, in.Password, in.Type)
	if err != nil {
		return model.Person{}, err
	}
	p.Photo = in.Photo

	if err := s.people.Create(ctx, &p); err != nil {
		return model.Person{}, fmt.Errorf("create person: %w", uniqueEmail(err))
	}
	s.persons.created(p.ID, zap.String("type", string(p.Type)))
	return p, nil
}

func (s *PeopleService) newPerson(name, email, password string, t model.PersonType) (model.Person, error) {
	p := model.Person{Name: name, Email: email, Type: t}
	if err := p.SetPassword(password); err != nil {
		return model.Person{}, fmt.Errorf("hash password: %w", err)
	}
	return p, nil
}

// uniqueEmail turns the only unique violation people can hit into a field error.
func uniqueEmail(err error) error {
	if errors.Is(err, model.ErrConflict) {
		return emailTaken()
	}
	return err
}

func (s *PeopleService) GetPerson(ctx context.Context, id int64) (model.Person, error) {
	return s.persons.get(ctx, id)
}

func (s *PeopleService) ListPeople(ctx context.Context) ([]model.Person, error) {
	return s.persons.list(ctx)
}

func (s *PeopleService) ListPeopleByType(ctx context.Context, t model.PersonType) ([]model.Person, error) {
	people, err := s.people.ListByType(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("list %s people: %w", t, err)
	}
	return people, nil
}

func (s *PeopleService) UpdatePerson(ctx context.Context, id int64, upd model.PersonUpdate) error {
	return uniqueEmail(s.persons.update(ctx, id, upd))
}

func (s *PeopleService) DeletePerson(ctx context.Context, id int64) error {
	return s.persons.delete(ctx, id)
}

// CreateInstructor creates the person and the instructor profile together.
func (s *PeopleService) CreateInstructor(ctx context.Context, in model.NewInstructor) (model.Instructor, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.Instructor{}, err
	}
	p, err := s.newPerson(in.Name, in.Email, in.Password, model.PersonTypeInstructor)
	if err != nil {
		return model.Instructor{}, err
	}

	ins := model.Instructor{
		Bachelors:    in.Bachelors,
		Masters:      in.Masters,
		Doctorates:   in.Doctorates,
		DepartmentID: base.NullID(in.DepartmentID),
		RoomID:       base.NullID(in.RoomID),
		LabID:        base.NullID(in.LabID),
	}
	if err := s.instructorStore.CreateWithPerson(ctx, &p, &ins); err != nil {
		return model.Instructor{}, fmt.Errorf("create instructor: %w", uniqueEmail(err))
	}

	s.instructors.created(ins.ID, zap.String("email", ins.Email))
	return ins, nil
}

func (s *PeopleService) GetInstructor(ctx context.Context, id int64) (model.Instructor, error) {
	return s.instructors.get(ctx, id)
}

func (s *PeopleService) ListInstructors(ctx context.Context) ([]model.Instructor, error) {
	return s.instructors.list(ctx)
}

func (s *PeopleService) UpdateInstructor(ctx context.Context, id int64, upd model.InstructorUpdate) error {
	return s.instructors.update(ctx, id, upd)
}

func (s *PeopleService) DeleteInstructor(ctx context.Context, id int64) error {
	return s.instructors.delete(ctx, id)
}

// CreateStudent creates the person and the student profile together.
func (s *PeopleService) CreateStudent(ctx context.Context, in model.NewStudent) (model.Student, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.Student{}, err
	}
	p, err := s.newPerson(in.Name, in.Email, in.Password, model.PersonTypeStudent)
	if err != nil {
		return model.Student{}, err
	}

	st := model.Student{
		Number:        in.Number,
		EarnedCredits: in.EarnedCredits,
		DepartmentID:  in.DepartmentID,
		FacultyID:     in.FacultyID,
		ClubID:        base.NullID(in.ClubID),
		LabID:         base.NullID(in.LabID),
	}
	if err := s.studentStore.CreateWithPerson(ctx, &p, &st); err != nil {
		return model.Student{}, fmt.Errorf("create student: %w", uniqueEmail(err))
	}

	s.students.created(st.ID, zap.Int("number", st.Number))
	return st, nil
}

func (s *PeopleService) GetStudent(ctx context.Context, id int64) (model.Student, error) {
	return s.students.get(ctx, id)
}

func (s *PeopleService) ListStudents(ctx context.Context) ([]model.Student, error) {
	return s.students.list(ctx)
}

func (s *PeopleService) UpdateStudent(ctx context.Context, id int64, upd model.StudentUpdate) error {
	return s.students.update(ctx, id, upd)
}

func (s *PeopleService) DeleteStudent(ctx context.Context, id int64) error {
	return s.students.delete(ctx, id)
}

// CreateAssistant attaches an assistant profile to an existing person.
func (s *PeopleService) CreateAssistant(ctx context.Context, in model.NewAssistant) (model.Assistant, error) {
	a := model.Assistant{
		PersonID:     in.PersonID,
		LabID:        base.NullID(in.LabID),
		Degree:       in.Degree,
		DepartmentID: base.NullID(in.DepartmentID),
		FacultyID:    base.NullID(in.FacultyID),
	}
	if err := s.assistants.create(ctx, in, &a); err != nil {
		return model.Assistant{}, err
	}

	s.assistants.created(a.ID, zap.Int64("person_id", a.PersonID))
	return a, nil
}

func (s *PeopleService) GetAssistant(ctx context.Context, id int64) (model.Assistant, error) {
	return s.assistants.get(ctx, id)
}

// AssistantByPerson returns the assistant profile of a person.
func (s *PeopleService) AssistantByPerson(ctx context.Context, personID int64) (model.Assistant, error) {
	a, err := s.assistantStore.GetByPerson(ctx, personID)
	if err != nil {
		return model.Assistant{}, fmt.Errorf("get assistant of person %d: %w", personID, err)
	}
	return a, nil
}

func (s *PeopleService) ListAssistants(ctx context.Context) ([]model.Assistant, error) {
	return s.assistants.list(ctx)
}

func (s *PeopleService) UpdateAssistant(ctx context.Context, id int64, upd model.AssistantUpdate) error {
	return s.assistants.update(ctx, id, upd)
}

func (s *PeopleService) DeleteAssistant(ctx context.Context, id int64) error {
	return s.assistants.delete(ctx, id)
}
