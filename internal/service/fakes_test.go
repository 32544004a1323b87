package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/betterthansis/unisis/internal/model"
	"github.com/betterthansis/unisis/internal/repository"
)

// fakeDB is an in-memory stand-in for the lesson and enrollment tables. WithinTx holds a
// single mutex for the whole transaction and restores a snapshot when fn fails.
type fakeDB struct {
	mu       sync.Mutex
	nextID   int64
	lessons  map[int64]model.Lesson
	students map[int64]string
	names    map[int64]string // instructor id -> name
	rows     map[[2]int64]time.Time

	failSetEnrolled error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		lessons:  map[int64]model.Lesson{},
		students: map[int64]string{},
		names:    map[int64]string{},
		rows:     map[[2]int64]time.Time{},
	}
}

func (f *fakeDB) addLesson(l model.Lesson) model.Lesson {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l.ID = f.nextID
	f.lessons[l.ID] = l
	return l
}

func (f *fakeDB) addStudent(id int64, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.students[id] = name
}

func (f *fakeDB) lesson(id int64) model.Lesson {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lessons[id]
}

func (f *fakeDB) enrollmentCount(lessonID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k := range f.rows {
		if k[1] == lessonID {
			n++
		}
	}
	return n
}

// EnrollmentStore

func (f *fakeDB) WithinTx(ctx context.Context, fn func(tx repository.EnrollmentTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	lessons := make(map[int64]model.Lesson, len(f.lessons))
	for k, v := range f.lessons {
		lessons[k] = v
	}
	rows := make(map[[2]int64]time.Time, len(f.rows))
	for k, v := range f.rows {
		rows[k] = v
	}

	if err := fn(fakeTx{f}); err != nil {
		f.lessons, f.rows = lessons, rows
		return err
	}
	return nil
}

func (f *fakeDB) ListByStudent(ctx context.Context, studentID int64) ([]model.EnrolledLesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.EnrolledLesson
	for k, at := range f.rows {
		if k[0] != studentID {
			continue
		}
		out = append(out, model.EnrolledLesson{LessonInfo: f.info(f.lessons[k[1]]), EnrolledAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CRN < out[j].CRN })
	return out, nil
}

func (f *fakeDB) Roster(ctx context.Context, lessonID int64) ([]model.RosterEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.RosterEntry
	for k, at := range f.rows {
		if k[1] == lessonID {
			out = append(out, model.RosterEntry{StudentID: k[0], Name: f.students[k[0]], EnrolledAt: at})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeDB) Reconcile(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := map[int64]int{}
	for k := range f.rows {
		counts[k[1]]++
	}
	var changed int64
	for id, l := range f.lessons {
		n := counts[id]
		if n > l.Cap {
			n = l.Cap
		}
		if l.Enrolled != n {
			l.Enrolled = n
			f.lessons[id] = l
			changed++
		}
	}
	return changed, nil
}

type fakeTx struct {
	f *fakeDB
}

func (t fakeTx) LockLesson(ctx context.Context, lessonID int64) (model.Lesson, error) {
	l, ok := t.f.lessons[lessonID]
	if !ok {
		return model.Lesson{}, fmt.Errorf("lock lesson: %w", model.ErrNotFound)
	}
	return l, nil
}

func (t fakeTx) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	_, ok := t.f.students[studentID]
	return ok, nil
}

func (t fakeTx) Exists(ctx context.Context, studentID, lessonID int64) (bool, error) {
	_, ok := t.f.rows[[2]int64{studentID, lessonID}]
	return ok, nil
}

func (t fakeTx) Insert(ctx context.Context, studentID, lessonID int64) error {
	key := [2]int64{studentID, lessonID}
	if _, ok := t.f.rows[key]; ok {
		return model.ErrAlreadyEnrolled
	}
	t.f.rows[key] = time.Now()
	return nil
}

func (t fakeTx) Remove(ctx context.Context, studentID, lessonID int64) error {
	key := [2]int64{studentID, lessonID}
	if _, ok := t.f.rows[key]; !ok {
		return model.ErrNotEnrolled
	}
	delete(t.f.rows, key)
	return nil
}

func (t fakeTx) SetEnrolled(ctx context.Context, lessonID int64, enrolled int) error {
	if t.f.failSetEnrolled != nil {
		return t.f.failSetEnrolled
	}
	l := t.f.lessons[lessonID]
	if enrolled < 0 || enrolled > l.Cap {
		return model.NewValidationError(errors.New("lessons_enrolled_within_cap"))
	}
	l.Enrolled = enrolled
	t.f.lessons[lessonID] = l
	return nil
}

// LessonStore

func (f *fakeDB) info(l model.Lesson) model.LessonInfo {
	li := model.LessonInfo{Lesson: l}
	if l.InstructorID != nil {
		li.InstructorName = f.names[*l.InstructorID]
	}
	return li
}

func (f *fakeDB) Create(ctx context.Context, l *model.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.lessons {
		if other.CRN == l.CRN {
			return fmt.Errorf("create lesson: %w: lessons_crn_key", model.ErrConflict)
		}
	}
	f.nextID++
	l.ID = f.nextID
	f.lessons[l.ID] = *l
	return nil
}

func (f *fakeDB) GetByID(ctx context.Context, id int64) (model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok {
		return model.Lesson{}, model.ErrNotFound
	}
	return l, nil
}

func (f *fakeDB) List(ctx context.Context) ([]model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Lesson{}
	for _, l := range f.lessons {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CRN < out[j].CRN })
	return out, nil
}

func (f *fakeDB) Update(ctx context.Context, id int64, upd model.LessonUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok {
		return model.ErrNotFound
	}
	if upd.Cap != nil {
		l.Cap = *upd.Cap
	}
	if upd.Code != nil {
		l.Code = *upd.Code
	}
	if upd.CRN != nil {
		l.CRN = *upd.CRN
	}
	f.lessons[id] = l
	return nil
}

func (f *fakeDB) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lessons[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.lessons, id)
	return nil
}

func (f *fakeDB) filter(keep func(model.LessonInfo) bool) []model.LessonInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.LessonInfo
	for _, l := range f.lessons {
		if li := f.info(l); keep(li) {
			out = append(out, li)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CRN < out[j].CRN })
	return out
}

func (f *fakeDB) ListInfo(ctx context.Context) ([]model.LessonInfo, error) {
	return f.filter(func(model.LessonInfo) bool { return true }), nil
}

func (f *fakeDB) SearchByCRN(ctx context.Context, crn int) ([]model.LessonInfo, error) {
	return f.filter(func(li model.LessonInfo) bool { return li.CRN == crn }), nil
}

func (f *fakeDB) SearchByInstructor(ctx context.Context, name string) ([]model.LessonInfo, error) {
	name = strings.ToLower(name)
	return f.filter(func(li model.LessonInfo) bool {
		return li.InstructorName != "" && strings.Contains(strings.ToLower(li.InstructorName), name)
	}), nil
}

func (f *fakeDB) ListByInstructor(ctx context.Context, instructorID int64) ([]model.LessonInfo, error) {
	return f.filter(func(li model.LessonInfo) bool {
		return li.InstructorID != nil && *li.InstructorID == instructorID
	}), nil
}

var (
	_ EnrollmentStore = (*fakeDB)(nil)
	_ LessonStore     = (*fakeDB)(nil)
)

// fakePeople is an in-memory PersonStore.
type fakePeople struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]model.Person
}

func newFakePeople() *fakePeople {
	return &fakePeople{byID: map[int64]model.Person{}}
}

func (f *fakePeople) Create(ctx context.Context, p *model.Person) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.byID {
		if strings.EqualFold(other.Email, p.Email) {
			return fmt.Errorf("create person: %w: people_email_key", model.ErrConflict)
		}
	}
	f.nextID++
	p.ID = f.nextID
	f.byID[p.ID] = *p
	return nil
}

func (f *fakePeople) GetByID(ctx context.Context, id int64) (model.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return model.Person{}, model.ErrNotFound
	}
	return p, nil
}

func (f *fakePeople) GetByEmail(ctx context.Context, email string) (model.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return model.Person{}, model.ErrNotFound
}

func (f *fakePeople) List(ctx context.Context) ([]model.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Person{}
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePeople) ListByType(ctx context.Context, t model.PersonType) ([]model.Person, error) {
	all, _ := f.List(ctx)
	out := []model.Person{}
	for _, p := range all {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePeople) Update(ctx context.Context, id int64, upd model.PersonUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Email != nil {
		p.Email = *upd.Email
	}
	if upd.Type != nil {
		p.Type = *upd.Type
	}
	f.byID[id] = p
	return nil
}

func (f *fakePeople) SetPassword(ctx context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	p.PasswordHash = hash
	f.byID[id] = p
	return nil
}

func (f *fakePeople) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

var _ PersonStore = (*fakePeople)(nil)
