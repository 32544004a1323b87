package model

type Building struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Campus string `json:"campus"`
}

type NewBuilding struct {
	Name   string `form:"name" validate:"required,max=100"`
	Code   string `form:"code" validate:"max=5"`
	Campus string `form:"campus" validate:"max=20"`
}

type BuildingUpdate struct {
	Name   *string `form:"name" validate:"omitempty,min=1,max=100"`
	Code   *string `form:"code" validate:"omitempty,max=5"`
	Campus *string `form:"campus" validate:"omitempty,max=20"`
}

// RoomKind is the form value selecting which subtype flag a room carries.
type RoomKind string

const (
	RoomKindClassroom RoomKind = "class"
	RoomKindLab       RoomKind = "lab"
	RoomKindRoom      RoomKind = "room"
)

// Flags returns the classroom, lab and room flags for the kind.
func (k RoomKind) Flags() (classroom, lab, room bool) {
	switch k {
	case RoomKindClassroom:
		return true, false, false
	case RoomKindLab:
		return false, true, false
	default:
		return false, false, true
	}
}

type Room struct {
	ID          int64  `json:"id"`
	BuildingID  *int64 `json:"building_id"`
	Name        string `json:"name"`
	Available   bool   `json:"available"`
	IsClassroom bool   `json:"is_classroom"`
	IsLab       bool   `json:"is_lab"`
	IsRoom      bool   `json:"is_room"`
}

func (r *Room) SetKind(k RoomKind) {
	r.IsClassroom, r.IsLab, r.IsRoom = k.Flags()
}

func (r Room) Kind() RoomKind {
	switch {
	case r.IsClassroom:
		return RoomKindClassroom
	case r.IsLab:
		return RoomKindLab
	default:
		return RoomKindRoom
	}
}

// NewRoom is the room form. BuildingID 0 leaves the building unset.
type NewRoom struct {
	BuildingID int64    `form:"building" validate:"gte=0"`
	Name       string   `form:"name" validate:"required,max=10"`
	Kind       RoomKind `form:"type" validate:"required,oneof=class lab room"`
	Available  bool     `form:"available"`
}

type RoomUpdate struct {
	BuildingID *int64    `form:"building" validate:"omitempty,gt=0"`
	Name       *string   `form:"name" validate:"omitempty,min=1,max=10"`
	Available  *bool     `form:"available"`
	Kind       *RoomKind `form:"type" validate:"omitempty,oneof=class lab room"`
}

// Classroom extends a Room that has the classroom flag. ID is the room's ID.
type Classroom struct {
	ID              int64  `json:"id"`
	Cap             int    `json:"cap"`
	Type            string `json:"type"`
	AirConditioner  bool   `json:"air_conditioner"`
	LastRestoration string `json:"last_restoration"`
	BoardType       string `json:"board_type"`

	// filled from ROOMS on reads
	RoomName   string `json:"room_name"`
	BuildingID *int64 `json:"building_id"`
}

// NewClassroom creates the room and its classroom row together.
type NewClassroom struct {
	BuildingID      int64  `form:"building" validate:"gte=0"`
	Name            string `form:"name" validate:"required,max=10"`
	Cap             int    `form:"cap" validate:"gte=0"`
	Type            string `form:"class_type" validate:"max=15"`
	AirConditioner  bool   `form:"conditioner"`
	LastRestoration string `form:"restoration_date" validate:"omitempty,len=4,numeric"`
	BoardType       string `form:"board_type" validate:"max=5"`
}

type ClassroomUpdate struct {
	Cap             *int    `form:"cap" validate:"omitempty,gte=0"`
	Type            *string `form:"class_type" validate:"omitempty,max=15"`
	AirConditioner  *bool   `form:"conditioner"`
	LastRestoration *string `form:"restoration_date" validate:"omitempty,len=4,numeric"`
	BoardType       *string `form:"board_type" validate:"omitempty,max=5"`
}

type Lab struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	DepartmentID   *int64 `json:"department_id"`
	FacultyID      *int64 `json:"faculty_id"`
	BuildingID     *int64 `json:"building_id"`
	RoomID         *int64 `json:"room_id"`
	InvestigatorID int64  `json:"investigator_id"`
}

type NewLab struct {
	Name           string `form:"name" validate:"required,max=100"`
	DepartmentID   int64  `form:"department" validate:"gte=0"`
	FacultyID      int64  `form:"faculty" validate:"gte=0"`
	BuildingID     int64  `form:"building" validate:"gte=0"`
	RoomID         int64  `form:"room" validate:"gte=0"`
	InvestigatorID int64  `form:"investigator" validate:"required,gt=0"`
}

type LabUpdate struct {
	Name           *string `form:"name" validate:"omitempty,min=1,max=100"`
	DepartmentID   *int64  `form:"department" validate:"omitempty,gt=0"`
	FacultyID      *int64  `form:"faculty" validate:"omitempty,gt=0"`
	BuildingID     *int64  `form:"building" validate:"omitempty,gt=0"`
	RoomID         *int64  `form:"room" validate:"omitempty,gt=0"`
	InvestigatorID *int64  `form:"investigator" validate:"omitempty,gt=0"`
}
