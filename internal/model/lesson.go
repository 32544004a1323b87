package model

import "time"

// Lesson is a scheduled course offering.
type Lesson struct {
	ID           int64  `json:"id"`
	CRN          int    `json:"crn"`
	Code         string `json:"code"`
	Cap          int    `json:"cap"`
	Enrolled     int    `json:"enrolled"`
	Date         int    `json:"date"` // encoded day/slot, kept as stored
	Credit       int    `json:"credit"`
	InstructorID *int64 `json:"instructor_id"`
	AssistantID  *int64 `json:"assistant_id"`
	LocationID   *int64 `json:"location_id"`
}

func (l Lesson) IsFull() bool { return l.Enrolled >= l.Cap }

// SeatsLeft returns how many students can still enroll.
func (l Lesson) SeatsLeft() int {
	if l.Enrolled >= l.Cap {
		return 0
	}
	return l.Cap - l.Enrolled
}

// LessonInfo is a Lesson joined with display names.
type LessonInfo struct {
	Lesson
	InstructorName string `json:"instructor_name"`
	LocationName   string `json:"location_name"`
}

type NewLesson struct {
	CRN          int    `form:"crn" validate:"required,gt=0"`
	Code         string `form:"code" validate:"max=5"`
	Cap          int    `form:"cap" validate:"gte=0"`
	Enrolled     int    `form:"enrolled" validate:"gte=0,ltefield=Cap"`
	Date         int    `form:"date" validate:"gte=0"`
	Credit       int    `form:"credit" validate:"gte=0"`
	InstructorID int64  `form:"instructor" validate:"gte=0"`
	AssistantID  int64  `form:"assistant" validate:"gte=0"`
	LocationID   int64  `form:"location" validate:"gte=0"`
}

// LessonUpdate does not carry Enrolled: the counter only moves through enroll and leave.
type LessonUpdate struct {
	CRN          *int    `form:"crn" validate:"omitempty,gt=0"`
	Code         *string `form:"code" validate:"omitempty,max=5"`
	Cap          *int    `form:"cap" validate:"omitempty,gte=0"`
	Date         *int    `form:"date" validate:"omitempty,gte=0"`
	Credit       *int    `form:"credit" validate:"omitempty,gte=0"`
	InstructorID *int64  `form:"instructor" validate:"omitempty,gt=0"`
	AssistantID  *int64  `form:"assistant" validate:"omitempty,gt=0"`
	LocationID   *int64  `form:"location" validate:"omitempty,gt=0"`
}

type Enrollment struct {
	StudentID int64     `json:"student_id"`
	LessonID  int64     `json:"lesson_id"`
	CreatedAt time.Time `json:"created_at"`
}

// EnrolledLesson is one row of a student's schedule.
type EnrolledLesson struct {
	LessonInfo
	EnrolledAt time.Time `json:"enrolled_at"`
}

// RosterEntry is one student enrolled in a lesson.
type RosterEntry struct {
	StudentID  int64     `json:"student_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Number     int       `json:"number"`
	EnrolledAt time.Time `json:"enrolled_at"`
}
