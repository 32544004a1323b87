package model

// Instructor is the instructor profile of a Person. ID is the person's ID.
type Instructor struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Bachelors    string `json:"bachelors"`
	Masters      string `json:"masters"`
	Doctorates   string `json:"doctorates"`
	DepartmentID *int64 `json:"department_id"`
	RoomID       *int64 `json:"room_id"`
	LabID        *int64 `json:"lab_id"`
}

// NewInstructor creates the Person and the instructor profile together.
type NewInstructor struct {
	Name         string `form:"name" validate:"required,max=100"`
	Email        string `form:"mail" validate:"required,email,max=120"`
	Password     string `form:"password" validate:"required,min=6,max=72"`
	Bachelors    string `form:"bachelors" validate:"max=90"`
	Masters      string `form:"masters" validate:"max=90"`
	Doctorates   string `form:"doctorates" validate:"max=90"`
	DepartmentID int64  `form:"department" validate:"gte=0"`
	RoomID       int64  `form:"room" validate:"gte=0"`
	LabID        int64  `form:"lab" validate:"gte=0"`
}

type InstructorUpdate struct {
	Bachelors    *string `form:"bachelors" validate:"omitempty,max=90"`
	Masters      *string `form:"masters" validate:"omitempty,max=90"`
	Doctorates   *string `form:"doctorates" validate:"omitempty,max=90"`
	DepartmentID *int64  `form:"department" validate:"omitempty,gt=0"`
	RoomID       *int64  `form:"room" validate:"omitempty,gt=0"`
	LabID        *int64  `form:"lab" validate:"omitempty,gt=0"`
}

// Student is the student profile of a Person. ID is the person's ID.
type Student struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Number        int    `json:"number"`
	EarnedCredits int    `json:"earned_credits"`
	DepartmentID  int64  `json:"department_id"`
	FacultyID     int64  `json:"faculty_id"`
	ClubID        *int64 `json:"club_id"`
	LabID         *int64 `json:"lab_id"`
}

// NewStudent creates the Person and the student profile together.
type NewStudent struct {
	Name          string `form:"name" validate:"required,max=100"`
	Email         string `form:"mail" validate:"required,email,max=120"`
	Password      string `form:"password" validate:"required,min=6,max=72"`
	Number        int    `form:"number" validate:"required,gt=0"`
	EarnedCredits int    `form:"cred" validate:"gte=0"`
	DepartmentID  int64  `form:"depart" validate:"required,gt=0"`
	FacultyID     int64  `form:"facu" validate:"required,gt=0"`
	ClubID        int64  `form:"club" validate:"gte=0"`
	LabID         int64  `form:"lab" validate:"gte=0"`
}

type StudentUpdate struct {
	Number        *int   `form:"number" validate:"omitempty,gt=0"`
	EarnedCredits *int   `form:"cred" validate:"omitempty,gte=0"`
	DepartmentID  *int64 `form:"depart" validate:"omitempty,gt=0"`
	FacultyID     *int64 `form:"facu" validate:"omitempty,gt=0"`
	ClubID        *int64 `form:"club" validate:"omitempty,gt=0"`
	LabID         *int64 `form:"lab" validate:"omitempty,gt=0"`
}

type Assistant struct {
	ID           int64  `json:"id"`
	PersonID     int64  `json:"person_id"`
	Name         string `json:"name"`
	LabID        *int64 `json:"lab_id"`
	Degree       string `json:"degree"`
	DepartmentID *int64 `json:"department_id"`
	FacultyID    *int64 `json:"faculty_id"`
}

// NewAssistant attaches an assistant profile to an existing Person.
type NewAssistant struct {
	PersonID     int64  `form:"person" validate:"required,gt=0"`
	LabID        int64  `form:"lab" validate:"gte=0"`
	Degree       string `form:"degree" validate:"max=10"`
	DepartmentID int64  `form:"department" validate:"gte=0"`
	FacultyID    int64  `form:"faculty" validate:"gte=0"`
}

type AssistantUpdate struct {
	LabID        *int64  `form:"lab" validate:"omitempty,gt=0"`
	Degree       *string `form:"degree" validate:"omitempty,max=10"`
	DepartmentID *int64  `form:"department" validate:"omitempty,gt=0"`
	FacultyID    *int64  `form:"faculty" validate:"omitempty,gt=0"`
}
