package repository

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/repository/base"
)

// invalidator is implemented by every cached repository so that writes on one entity can
// drop cache entries of the entities that depend on it.
type invalidator interface {
	Invalidate(ids ...int64)
	InvalidateAll()
	Purge() int
}

// Repositories holds one repository per table, all sharing the pool and the cache TTL.
type Repositories struct {
	Tx          *base.Transactor
	People      *PersonRepository
	Buildings   *BuildingRepository
	Faculties   *FacultyRepository
	Departments *DepartmentRepository
	Rooms       *RoomRepository
	Classrooms  *ClassroomRepository
	Labs        *LabRepository
	Instructors *InstructorRepository
	Students    *StudentRepository
	Assistants  *AssistantRepository
	Clubs       *ClubRepository
	Papers      *PaperRepository
	Lessons     *LessonRepository
	Enrollments *EnrollmentRepository
}

// New creates every repository and wires their cache invalidation.
func New(pool *pgxpool.Pool, ttl time.Duration, logger *zap.Logger) *Repositories {
	r := &Repositories{
		Tx:          base.NewTransactor(pool),
		People:      NewPersonRepository(pool, ttl, logger),
		Buildings:   NewBuildingRepository(pool, ttl, logger),
		Faculties:   NewFacultyRepository(pool, ttl, logger),
		Departments: NewDepartmentRepository(pool, ttl, logger),
		Rooms:       NewRoomRepository(pool, ttl, logger),
		Classrooms:  NewClassroomRepository(pool, ttl, logger),
		Labs:        NewLabRepository(pool, ttl, logger),
		Instructors: NewInstructorRepository(pool, ttl, logger),
		Students:    NewStudentRepository(pool, ttl, logger),
		Assistants:  NewAssistantRepository(pool, ttl, logger),
		Clubs:       NewClubRepository(pool, ttl, logger),
		Papers:      NewPaperRepository(pool, ttl, logger),
		Lessons:     NewLessonRepository(pool, ttl, logger),
	}
	r.Enrollments = NewEnrollmentRepository(pool, r.Lessons, logger)

	// profiles carry the person's name and email; assistants are keyed by their own id
	r.People.dependents = []invalidator{r.Instructors, r.Students, wholesale{r.Assistants}}
	// buildings cascade to rooms, rooms cascade to classrooms, and instructor offices,
	// labs and departments are set to NULL when their row goes away
	r.Buildings.cascades = []invalidator{r.Rooms, r.Classrooms, r.Instructors}
	r.Rooms.dependents = []invalidator{r.Classrooms}
	r.Rooms.cascades = []invalidator{r.Instructors}
	r.Labs.cascades = []invalidator{r.Instructors}
	r.Departments.cascades = []invalidator{r.Instructors}
	// deleting a student removes enrollments and moves lesson counters
	r.Students.cascades = []invalidator{r.Lessons}
	r.Classrooms.rooms = r.Rooms

	return r
}

func (r *Repositories) all() []invalidator {
	return []invalidator{
		r.People, r.Buildings, r.Faculties, r.Departments, r.Rooms, r.Classrooms, r.Labs,
		r.Instructors, r.Students, r.Assistants, r.Clubs, r.Papers, r.Lessons,
	}
}

// Purge drops expired entries from every cache and returns how many were removed.
func (r *Repositories) Purge() int {
	n := 0
	for _, c := range r.all() {
		n += c.Purge()
	}
	return n
}

// InvalidateAll empties every cache.
func (r *Repositories) InvalidateAll() {
	for _, c := range r.all() {
		c.InvalidateAll()
	}
}

func invalidate(deps []invalidator, ids ...int64) {
	for _, d := range deps {
		d.Invalidate(ids...)
	}
}

func invalidateAll(deps []invalidator) {
	for _, d := range deps {
		d.InvalidateAll()
	}
}
