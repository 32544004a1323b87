package web

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/betterthansis/unisis/internal/model"
)

type lessonList struct {
	Lessons    []model.LessonInfo
	Enrolled   map[int64]bool
	CRN        string
	Instructor string
	Searched   bool
}

type courseList struct {
	Enrolled []model.EnrolledLesson
	Given    []model.LessonInfo
}

// scheduleDay groups lessons sharing the same encoded date.
type scheduleDay struct {
	Date    int
	Lessons []model.LessonInfo
}

type rosterPage struct {
	LessonID int64
	Students []model.RosterEntry
}

// enrollAck is the JSON answer to enroll and leave.
type enrollAck struct {
	Success   bool  `json:"success"`
	LessonID  int64 `json:"lesson_id"`
	CRN       int   `json:"crn"`
	Enrolled  int   `json:"enrolled"`
	Cap       int   `json:"cap"`
	SeatsLeft int   `json:"seats_left"`
}

func (s *server) registerLessons() {
	s.app.GET("/lessons", s.lessons, requireLogin)
	s.app.GET("/lessons/search", s.searchLessons, requireLogin)
	s.app.GET("/courses", s.courses, requireLogin)
	s.app.GET("/schedule", s.schedule, requireLogin)
	s.app.GET("/lessons/:id/roster", s.roster,
		requireType(model.PersonTypeInstructor, model.PersonTypeAssistant, model.PersonTypeAdmin))

	student := requireType(model.PersonTypeStudent)
	s.app.POST("/lessons/:id/enroll", s.enroll, jsonOnly, student)
	s.app.POST("/lessons/:id/leave", s.leave, jsonOnly, student)
}

func (s *server) lessons(c echo.Context) error {
	lessons, err := s.opts.Lessons.ListLessonInfo(c.Request().Context())
	if err != nil {
		return err
	}
	return s.renderLessons(c, lessonList{Lessons: lessons})
}

func (s *server) searchLessons(c echo.Context) error {
	ctx := c.Request().Context()
	data := lessonList{
		CRN:        strings.TrimSpace(c.QueryParam("crn")),
		Instructor: strings.TrimSpace(c.QueryParam("instructor")),
		Searched:   true,
	}

	var err error
	if data.CRN != "" {
		crn, convErr := strconv.Atoi(data.CRN)
		if convErr != nil {
			return model.FieldValidationError("crn", "must be a number")
		}
		data.Lessons, err = s.opts.Enrollments.SearchByCRN(ctx, crn)
	} else {
		data.Lessons, err = s.opts.Enrollments.SearchByInstructor(ctx, data.Instructor)
	}
	if err != nil {
		return err
	}
	return s.renderLessons(c, data)
}

func (s *server) renderLessons(c echo.Context, data lessonList) error {
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, data.Lessons)
	}

	if acc := currentAccount(c); acc.is(model.PersonTypeStudent) {
		enrolled, err := s.opts.Enrollments.ListEnrolled(c.Request().Context(), acc.ID)
		if err != nil {
			return err
		}
		data.Enrolled = make(map[int64]bool, len(enrolled))
		for _, l := range enrolled {
			data.Enrolled[l.ID] = true
		}
	}
	return c.Render(http.StatusOK, "lessons", newPage(c, "Lessons", data))
}

// teaching returns what the account studies or teaches. Only students and instructors
// have courses.
func (s *server) teaching(c echo.Context) (courseList, error) {
	acc := currentAccount(c)
	ctx := c.Request().Context()

	var (
		data courseList
		err  error
	)
	switch acc.Type {
	case model.PersonTypeStudent:
		data.Enrolled, err = s.opts.Enrollments.ListEnrolled(ctx, acc.ID)
	case model.PersonTypeInstructor:
		data.Given, err = s.opts.Lessons.ListByInstructor(ctx, acc.ID)
	default:
		return courseList{}, model.ErrForbidden
	}
	return data, err
}

func (s *server) courses(c echo.Context) error {
	data, err := s.teaching(c)
	if err != nil {
		return err
	}
	if wantsJSON(c) {
		if data.Enrolled != nil {
			return c.JSON(http.StatusOK, data.Enrolled)
		}
		return c.JSON(http.StatusOK, data.Given)
	}
	return c.Render(http.StatusOK, "courses", newPage(c, "My courses", data))
}

func (s *server) schedule(c echo.Context) error {
	data, err := s.teaching(c)
	if err != nil {
		return err
	}

	lessons := data.Given
	for _, l := range data.Enrolled {
		lessons = append(lessons, l.LessonInfo)
	}
	days := groupByDate(lessons)

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, days)
	}
	return c.Render(http.StatusOK, "schedule", newPage(c, "Schedule", days))
}

func groupByDate(lessons []model.LessonInfo) []scheduleDay {
	sort.SliceStable(lessons, func(i, j int) bool {
		if lessons[i].Date != lessons[j].Date {
			return lessons[i].Date < lessons[j].Date
		}
		return lessons[i].CRN < lessons[j].CRN
	})

	days := []scheduleDay{}
	for _, l := range lessons {
		if n := len(days); n > 0 && days[n-1].Date == l.Date {
			days[n-1].Lessons = append(days[n-1].Lessons, l)
			continue
		}
		days = append(days, scheduleDay{Date: l.Date, Lessons: []model.LessonInfo{l}})
	}
	return days
}

func (s *server) enroll(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	lesson, err := s.opts.Enrollments.Enroll(c.Request().Context(), currentAccount(c).ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ackOf(lesson))
}

func (s *server) leave(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	lesson, err := s.opts.Enrollments.Leave(c.Request().Context(), currentAccount(c).ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ackOf(lesson))
}

func ackOf(l model.Lesson) enrollAck {
	return enrollAck{
		Success:   true,
		LessonID:  l.ID,
		CRN:       l.CRN,
		Enrolled:  l.Enrolled,
		Cap:       l.Cap,
		SeatsLeft: l.SeatsLeft(),
	}
}

func (s *server) roster(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	students, err := s.opts.Enrollments.Roster(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, students)
	}
	return c.Render(http.StatusOK, "roster", newPage(c, "Roster", rosterPage{LessonID: id, Students: students}))
}

func pathID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", raw, model.ErrNotFound)
	}
	return id, nil
}
