package web

import (
	"context"
	"net/http"
	"reflect"

	"github.com/labstack/echo/v4"

	"github.com/betterthansis/unisis/internal/model"
)

// resource is one admin-managed entity: T is the record, N its input and U its update
// descriptor.
type resource[T, N, U any] struct {
	name   string
	list   func(context.Context) ([]T, error)
	create func(context.Context, N) (T, error)
	update func(context.Context, int64, U) error
	delete func(context.Context, int64) error
}

type adminTable struct {
	Entity  string
	Columns []string
	Rows    []tableRow
	Create  []formField
	Update  []formField
}

type dashboard struct {
	Entities    []string
	Faculties   []model.Faculty
	Instructors []model.Instructor
	Students    []model.Student
}

var adminEntities = []string{
	"buildings", "faculties", "departments", "rooms", "classrooms", "labs", "people",
	"instructors", "students", "assistants", "clubs", "papers", "lessons",
}

func (s *server) registerAdmin() {
	g := s.app.Group("/su", requireType(model.PersonTypeAdmin))
	g.GET("", s.dashboard)

	fac, acad, people, lessons := s.opts.Facilities, s.opts.Academics, s.opts.People, s.opts.Lessons

	register(g, resource[model.Building, model.NewBuilding, model.BuildingUpdate]{
		name: "buildings", list: fac.ListBuildings, create: fac.CreateBuilding,
		update: fac.UpdateBuilding, delete: fac.DeleteBuilding,
	})
	register(g, resource[model.Faculty, model.NewFaculty, model.FacultyUpdate]{
		name: "faculties", list: acad.ListFaculties, create: acad.CreateFaculty,
		update: acad.UpdateFaculty, delete: acad.DeleteFaculty,
	})
	register(g, resource[model.Department, model.NewDepartment, model.DepartmentUpdate]{
		name: "departments", list: acad.ListDepartments, create: acad.CreateDepartment,
		update: acad.UpdateDepartment, delete: acad.DeleteDepartment,
	})
	register(g, resource[model.Room, model.NewRoom, model.RoomUpdate]{
		name: "rooms", list: fac.ListRooms, create: fac.CreateRoom,
		update: fac.UpdateRoom, delete: fac.DeleteRoom,
	})
	register(g, resource[model.Classroom, model.NewClassroom, model.ClassroomUpdate]{
		name: "classrooms", list: fac.ListClassrooms, create: fac.CreateClassroom,
		update: fac.UpdateClassroom, delete: fac.DeleteClassroom,
	})
	register(g, resource[model.Lab, model.NewLab, model.LabUpdate]{
		name: "labs", list: fac.ListLabs, create: fac.CreateLab,
		update: fac.UpdateLab, delete: fac.DeleteLab,
	})
	register(g, resource[model.Person, model.NewPerson, model.PersonUpdate]{
		name: "people", list: people.ListPeople, create: people.CreatePerson,
		update: people.UpdatePerson, delete: people.DeletePerson,
	})
	register(g, resource[model.Instructor, model.NewInstructor, model.InstructorUpdate]{
		name: "instructors", list: people.ListInstructors, create: people.CreateInstructor,
		update: people.UpdateInstructor, delete: people.DeleteInstructor,
	})
	register(g, resource[model.Student, model.NewStudent, model.StudentUpdate]{
		name: "students", list: people.ListStudents, create: people.CreateStudent,
		update: people.UpdateStudent, delete: people.DeleteStudent,
	})
	register(g, resource[model.Assistant, model.NewAssistant, model.AssistantUpdate]{
		name: "assistants", list: people.ListAssistants, create: people.CreateAssistant,
		update: people.UpdateAssistant, delete: people.DeleteAssistant,
	})
	register(g, resource[model.Club, model.NewClub, model.ClubUpdate]{
		name: "clubs", list: acad.ListClubs, create: acad.CreateClub,
		update: acad.UpdateClub, delete: acad.DeleteClub,
	})
	register(g, resource[model.Paper, model.NewPaper, model.PaperUpdate]{
		name: "papers", list: acad.ListPapers, create: acad.CreatePaper,
		update: acad.UpdatePaper, delete: acad.DeletePaper,
	})
	register(g, resource[model.Lesson, model.NewLesson, model.LessonUpdate]{
		name: "lessons", list: lessons.ListLessons, create: lessons.CreateLesson,
		update: lessons.UpdateLesson, delete: lessons.DeleteLesson,
	})
}

func (s *server) dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	data := dashboard{Entities: adminEntities}

	var err error
	if data.Faculties, err = s.opts.Academics.ListFaculties(ctx); err != nil {
		return err
	}
	if data.Instructors, err = s.opts.People.ListInstructors(ctx); err != nil {
		return err
	}
	if data.Students, err = s.opts.People.ListStudents(ctx); err != nil {
		return err
	}

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, data)
	}
	return c.Render(http.StatusOK, "dashboard", newPage(c, "Administration", data))
}

func register[T, N, U any](g *echo.Group, r resource[T, N, U]) {
	createFields := formFields(reflect.TypeOf((*N)(nil)).Elem(), false)
	updateFields := formFields(reflect.TypeOf((*U)(nil)).Elem(), true)
	back := "/su/" + r.name

	g.GET("/"+r.name, func(c echo.Context) error {
		items, err := r.list(c.Request().Context())
		if err != nil {
			return err
		}
		if wantsJSON(c) {
			return c.JSON(http.StatusOK, items)
		}

		columns, rows := tableOf(items)
		data := adminTable{
			Entity:  r.name,
			Columns: columns,
			Rows:    rows,
			Create:  createFields,
			Update:  updateFields,
		}
		return c.Render(http.StatusOK, "admin", newPage(c, r.name, data))
	})

	g.POST("/"+r.name, func(c echo.Context) error {
		var in N
		if err := c.Bind(&in); err != nil {
			return err
		}
		item, err := r.create(c.Request().Context(), in)
		if err != nil {
			return err
		}
		if wantsJSON(c) {
			return c.JSON(http.StatusCreated, item)
		}
		return c.Redirect(http.StatusSeeOther, back)
	})

	g.POST("/"+r.name+"/:id/update", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var upd U
		if err := bindUpdate(c, &upd); err != nil {
			return err
		}
		if err := r.update(c.Request().Context(), id, upd); err != nil {
			return err
		}
		return done(c, back)
	})

	g.POST("/"+r.name+"/:id/delete", func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		if err := r.delete(c.Request().Context(), id); err != nil {
			return err
		}
		return done(c, back)
	})
}

func done(c echo.Context, back string) error {
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}
	return c.Redirect(http.StatusSeeOther, back)
}
