package web

import (
	"context"
	"sort"
	"sync"

	"github.com/betterthansis/unisis/internal/model"
)

// fakeAuth knows a fixed set of accounts, all with the password "secret1".
type fakeAuth struct {
	people  map[string]model.Person
	changed map[int64]string
}

func newFakeAuth(people ...model.Person) *fakeAuth {
	f := &fakeAuth{people: map[string]model.Person{}, changed: map[int64]string{}}
	for _, p := range people {
		f.people[p.Email] = p
	}
	return f
}

func (f *fakeAuth) Signup(ctx context.Context, in model.NewPerson) (model.Person, error) {
	if in.Type == model.PersonTypeAdmin {
		return model.Person{}, model.FieldValidationError("type", "admin accounts cannot sign up")
	}
	if _, ok := f.people[in.Email]; ok {
		return model.Person{}, model.FieldValidationError("email", "is already registered")
	}
	p := model.Person{ID: int64(len(f.people) + 1), Name: in.Name, Email: in.Email, Photo: in.Photo, Type: in.Type}
	f.people[p.Email] = p
	return p, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (model.Person, error) {
	p, ok := f.people[email]
	if !ok || password != "secret1" {
		return model.Person{}, model.ErrInvalidCredentials
	}
	return p, nil
}

func (f *fakeAuth) ChangePassword(ctx context.Context, personID int64, current, next string) error {
	if current != "secret1" {
		return model.FieldValidationError("current_password", "is incorrect")
	}
	f.changed[personID] = next
	return nil
}

func (f *fakeAuth) Account(ctx context.Context, personID int64) (model.Person, error) {
	for _, p := range f.people {
		if p.ID == personID {
			return p, nil
		}
	}
	return model.Person{}, model.ErrNotFound
}

// fakeEnrollments returns err when set, and otherwise echoes the lesson with a count moved.
type fakeEnrollments struct {
	mu       sync.Mutex
	err      error
	lesson   model.Lesson
	calls    []string
	found    []model.LessonInfo
	enrolled []model.EnrolledLesson
	roster   []model.RosterEntry
}

func (f *fakeEnrollments) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeEnrollments) Enroll(ctx context.Context, studentID, lessonID int64) (model.Lesson, error) {
	f.record("enroll")
	if f.err != nil {
		return model.Lesson{}, f.err
	}
	l := f.lesson
	l.ID = lessonID
	l.Enrolled++
	return l, nil
}

func (f *fakeEnrollments) Leave(ctx context.Context, studentID, lessonID int64) (model.Lesson, error) {
	f.record("leave")
	if f.err != nil {
		return model.Lesson{}, f.err
	}
	l := f.lesson
	l.ID = lessonID
	return l, nil
}

func (f *fakeEnrollments) SearchByCRN(ctx context.Context, crn int) ([]model.LessonInfo, error) {
	f.record("crn")
	out := []model.LessonInfo{}
	for _, l := range f.found {
		if l.CRN == crn {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeEnrollments) SearchByInstructor(ctx context.Context, name string) ([]model.LessonInfo, error) {
	f.record("instructor")
	return f.found, nil
}

func (f *fakeEnrollments) ListEnrolled(ctx context.Context, studentID int64) ([]model.EnrolledLesson, error) {
	return f.enrolled, nil
}

func (f *fakeEnrollments) Roster(ctx context.Context, lessonID int64) ([]model.RosterEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roster, nil
}

type fakeLessons struct {
	lessons []model.LessonInfo
}

func (f *fakeLessons) CreateLesson(ctx context.Context, in model.NewLesson) (model.Lesson, error) {
	return model.Lesson{ID: 1, CRN: in.CRN, Code: in.Code, Cap: in.Cap}, nil
}

func (f *fakeLessons) ListLessons(ctx context.Context) ([]model.Lesson, error) {
	out := make([]model.Lesson, 0, len(f.lessons))
	for _, l := range f.lessons {
		out = append(out, l.Lesson)
	}
	return out, nil
}

func (f *fakeLessons) ListLessonInfo(ctx context.Context) ([]model.LessonInfo, error) {
	return f.lessons, nil
}

func (f *fakeLessons) ListByInstructor(ctx context.Context, instructorID int64) ([]model.LessonInfo, error) {
	out := []model.LessonInfo{}
	for _, l := range f.lessons {
		if l.InstructorID != nil && *l.InstructorID == instructorID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLessons) UpdateLesson(ctx context.Context, id int64, upd model.LessonUpdate) error {
	return nil
}

func (f *fakeLessons) DeleteLesson(ctx context.Context, id int64) error {
	return nil
}

// paperStore is an in-memory paper repository.
type paperStore struct {
	papers  map[int64]model.Paper
	updates map[int64]model.PaperUpdate
}

func newPaperStore(papers ...model.Paper) *paperStore {
	s := &paperStore{papers: map[int64]model.Paper{}, updates: map[int64]model.PaperUpdate{}}
	for _, p := range papers {
		s.papers[p.ID] = p
	}
	return s
}

func (s *paperStore) Create(ctx context.Context, p *model.Paper) error {
	p.ID = int64(len(s.papers) + 1)
	s.papers[p.ID] = *p
	return nil
}

func (s *paperStore) GetByID(ctx context.Context, id int64) (model.Paper, error) {
	p, ok := s.papers[id]
	if !ok {
		return model.Paper{}, model.ErrNotFound
	}
	return p, nil
}

func (s *paperStore) List(ctx context.Context) ([]model.Paper, error) {
	out := []model.Paper{}
	for _, p := range s.papers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CitationCount > out[j].CitationCount })
	return out, nil
}

func (s *paperStore) Update(ctx context.Context, id int64, upd model.PaperUpdate) error {
	if _, ok := s.papers[id]; !ok {
		return model.ErrNotFound
	}
	s.updates[id] = upd
	return nil
}

func (s *paperStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.papers[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.papers, id)
	return nil
}
